package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wfunc/tetris/broadcast"
	"github.com/wfunc/tetris/config"
	"github.com/wfunc/tetris/game"
	"github.com/wfunc/tetris/logger"
	"github.com/wfunc/tetris/monitor"
	"github.com/wfunc/tetris/network"
	"github.com/wfunc/tetris/persistence"
	"github.com/wfunc/tetris/room"
	tetris_rpc "github.com/wfunc/tetris/rpc"
	"github.com/wfunc/tetris/services"
	"github.com/wfunc/tetris/session"
	"github.com/wfunc/tetris/timer"
)

type GameServer struct {
	cfg            *config.Config
	upgrader       websocket.Upgrader
	roomManager    *room.Manager
	sessionManager *session.Manager
	playerService  *services.PlayerService
	broadcaster    broadcast.Broadcaster
	rpcServer      *tetris_rpc.Server
	mon            *monitor.Monitor
	timers         *timer.TimerManager
	mutex          sync.Mutex
	shutdownChan   chan struct{}
}

func NewGameServer(cfg *config.Config, db persistence.Database) *GameServer {
	mon := monitor.NewMonitor("tetris")

	s := &GameServer{
		cfg:            cfg,
		roomManager:    room.NewRoomManager(),
		sessionManager: session.NewManager(),
		playerService:  services.NewPlayerService(db, mon),
		mon:            mon,
		timers:         timer.NewTimerManager(),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // 允许所有跨域请求
			},
		},
	}

	// 初始化广播器
	s.broadcaster = broadcast.NewRoomBroadcaster(s.roomManager, s.sessionManager)

	// 初始化RPC服务器
	gameService := tetris_rpc.NewGameService(s.playerService, s.roomManager)
	rpcServer, err := tetris_rpc.NewServer(cfg.Server.RPCAddress, gameService)
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	s.rpcServer = rpcServer

	return s
}

func (s *GameServer) Start() error {
	go s.rpcServer.Start()

	if s.cfg.Server.MetricsAddress != "" {
		s.mon.StartServer(s.cfg.Server.MetricsAddress)
	}

	// 空房间定期回收
	idleLimit := s.cfg.Game.RoomIdleLimit
	s.timers.AddTimer(idleLimit, idleLimit, func() {
		s.roomManager.CleanupIdle(idleLimit)
		s.mon.SetActiveRooms(s.roomManager.Count())
	})

	http.HandleFunc("/ws", s.handleWebSocket)
	logger.Log.Infof("Game server listening on %s", s.cfg.Server.HTTPAddress)
	return http.ListenAndServe(s.cfg.Server.HTTPAddress, nil)
}

func (s *GameServer) Shutdown() {
	close(s.shutdownChan)
	s.timers.Stop()
	s.rpcServer.Stop()
}

func (s *GameServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}
	s.handleConnection(conn)
}

func (s *GameServer) handleConnection(conn *websocket.Conn) {
	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	s.mon.IncOnlinePlayers()

	logger.Log.Infof("New connection from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Connection closed from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())
		s.leaveCurrentRoom(sess)
		s.sessionManager.Remove(sess.GetID())
		s.mon.DecOnlinePlayers()
		wsConn.Close()
	}()

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			packet, err := wsConn.ReadPacket()
			if err != nil {
				return
			}
			s.handlePacket(sess, packet)
		}
	}
}

func (s *GameServer) handlePacket(sess *session.Session, packet *network.Packet) {
	switch packet.MsgID {
	case network.MsgTypeHeartbeat:
		sess.Touch()
	case network.MsgTypeCreateGame:
		s.handleCreateGame(sess, packet)
	case network.MsgTypeJoinGame:
		s.handleJoinGame(sess, packet)
	case network.MsgTypeWatchGame:
		s.handleWatchGame(sess, packet)
	case network.MsgTypeLeaveGame:
		s.handleLeaveGame(sess, packet)
	case network.MsgTypePlayerAction:
		s.handlePlayerAction(sess, packet)
	default:
		logger.Log.Infof("Unknown message type: %d", packet.MsgID)
	}
}

// joinRequest carries the optional identity a client attaches when it
// creates or enters a game.
type joinRequest struct {
	RoomID string `json:"room_id"`
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
}

func (s *GameServer) handleCreateGame(sess *session.Session, packet *network.Packet) {
	var req joinRequest
	if len(packet.Data) > 0 {
		if err := json.Unmarshal(packet.Data, &req); err != nil {
			s.sendError(sess, "malformed create request")
			return
		}
	}
	sess.UserID = req.UserID
	sess.Name = req.Name

	if sess.RoomID != "" {
		s.sendError(sess, "already in a game")
		return
	}

	roomID := uuid.New().String()
	r := s.roomManager.CreateRoom(roomID, s.roomOptions(), s.broadcaster, s.playerService)
	r.Join(sess)
	s.mon.SetActiveRooms(s.roomManager.Count())

	logger.Log.Infof("Session %s created game %s", sess.GetID(), roomID)

	sess.SendJSON(network.MsgTypeCreateGame, map[string]string{"room_id": roomID})
}

func (s *GameServer) handleJoinGame(sess *session.Session, packet *network.Packet) {
	var req joinRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, "malformed join request")
		return
	}
	sess.UserID = req.UserID
	sess.Name = req.Name

	r, exists := s.roomManager.GetRoom(req.RoomID)
	if !exists {
		s.sendError(sess, "room not found")
		return
	}

	if !r.Join(sess) {
		s.sendError(sess, "room is full")
		return
	}

	logger.Log.Infof("Session %s joined game %s (spectator=%v)", sess.GetID(), req.RoomID, sess.Spectator)
}

func (s *GameServer) handleWatchGame(sess *session.Session, packet *network.Packet) {
	var req joinRequest
	if err := json.Unmarshal(packet.Data, &req); err != nil {
		s.sendError(sess, "malformed watch request")
		return
	}

	r, exists := s.roomManager.GetRoom(req.RoomID)
	if !exists {
		s.sendError(sess, "room not found")
		return
	}

	if !r.Watch(sess) {
		s.sendError(sess, "spectator slots are full")
		return
	}

	logger.Log.Infof("Session %s is watching game %s", sess.GetID(), req.RoomID)
}

func (s *GameServer) handleLeaveGame(sess *session.Session, packet *network.Packet) {
	s.leaveCurrentRoom(sess)
}

// leaveCurrentRoom detaches the session from its room. A departing
// player takes the room down with them; spectators just slip out.
func (s *GameServer) leaveCurrentRoom(sess *session.Session) {
	if sess.RoomID == "" {
		return
	}
	roomID := sess.RoomID
	sess.RoomID = ""

	r, exists := s.roomManager.GetRoom(roomID)
	if !exists {
		return
	}

	if r.Leave(sess.GetID()) {
		logger.Log.Infof("Player %s left, closing game %s", sess.GetID(), roomID)
		s.roomManager.RemoveRoom(roomID)
	}
	s.mon.SetActiveRooms(s.roomManager.Count())
}

func (s *GameServer) handlePlayerAction(sess *session.Session, packet *network.Packet) {
	start := time.Now()
	s.mon.IncCommandsReceived()

	if sess.RoomID == "" {
		s.sendError(sess, "not in a game")
		return
	}

	r, exists := s.roomManager.GetRoom(sess.RoomID)
	if !exists {
		logger.Log.Errorf("Room %s not found for session %s", sess.RoomID, sess.GetID())
		return
	}

	if err := r.HandleAction(sess, packet.Data); err != nil {
		logger.Log.Debugf("Action rejected in room %s: %v", r.GetID(), err)
		s.sendError(sess, err.Error())
	}

	s.mon.ObserveCommandLatency(time.Since(start))
}

func (s *GameServer) sendError(sess *session.Session, msg string) {
	sess.SendJSON(network.MsgTypeError, map[string]string{"error": msg})
}

func (s *GameServer) roomOptions() room.Options {
	return room.Options{
		GameConfig: game.Config{
			Cols: s.cfg.Game.Cols,
			Rows: s.cfg.Game.Rows,
		},
		TickInterval:  s.cfg.Game.TickInterval,
		MaxSpectators: s.cfg.Game.MaxSpectators,
	}
}
