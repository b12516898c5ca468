package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/tetris/logger"
	"github.com/wfunc/tetris/models"
	"github.com/wfunc/tetris/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server and registers the given admin
// service with the net/rpc package.
func NewServer(addr string, svc *GameService) (*Server, error) {
	if err := rpc.RegisterName("GameService", svc); err != nil {
		return nil, err
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// RoomLister is the slice of the room manager the admin interface
// needs.
type RoomLister interface {
	ListRooms() []models.RoomInfo
}

// GameService is the struct that exposes RPC methods.
type GameService struct {
	playerService *services.PlayerService
	rooms         RoomLister
}

// NewGameService creates a new GameService.
func NewGameService(ps *services.PlayerService, rooms RoomLister) *GameService {
	return &GameService{playerService: ps, rooms: rooms}
}

// GetPlayerWithStats is an RPC method to get player data.
// It must follow the net/rpc signature: exported method, exported arguments,
// second argument is a pointer, return type is error.
type GetPlayerArgs struct {
	UserID int64
}

type GetPlayerReply struct {
	Data map[string]interface{}
}

func (gs *GameService) GetPlayerWithStats(args *GetPlayerArgs, reply *GetPlayerReply) error {
	data, err := gs.playerService.GetPlayerWithStats(args.UserID)
	if err != nil {
		return err
	}
	reply.Data = data
	return nil
}

type ListRoomsArgs struct{}

type ListRoomsReply struct {
	Rooms []models.RoomInfo
}

// ListRooms reports every live room for operational inspection.
func (gs *GameService) ListRooms(args *ListRoomsArgs, reply *ListRoomsReply) error {
	reply.Rooms = gs.rooms.ListRooms()
	return nil
}
