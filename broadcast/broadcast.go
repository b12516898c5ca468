// broadcast/broadcast.go
package broadcast

import (
	"errors"

	"github.com/wfunc/tetris/logger"
	"github.com/wfunc/tetris/room"
	"github.com/wfunc/tetris/session"
)

var (
	ErrRoomNotFound = errors.New("room not found")
)

// 广播接口
type Broadcaster interface {
	BroadcastToRoom(roomID string, msgID uint16, data []byte) error
	BroadcastToAll(msgID uint16, data []byte) error
	BroadcastToUsers(userIDs []int64, msgID uint16, data []byte) error
}

// RoomBroadcaster pushes a message to the player and every spectator of
// a room.
type RoomBroadcaster struct {
	roomManager    *room.Manager
	sessionManager *session.Manager
}

func NewRoomBroadcaster(roomManager *room.Manager, sessionManager *session.Manager) *RoomBroadcaster {
	return &RoomBroadcaster{
		roomManager:    roomManager,
		sessionManager: sessionManager,
	}
}

func (b *RoomBroadcaster) BroadcastToRoom(roomID string, msgID uint16, data []byte) error {
	r, exists := b.roomManager.GetRoom(roomID)
	if !exists {
		return ErrRoomNotFound
	}

	// Get a thread-safe copy of the sessions
	sessions := r.GetSessions()

	for _, s := range sessions {
		if err := s.Send(msgID, data); err != nil {
			// 发送失败不打断其余会话，连接层自己会关闭坏连接
			logger.Log.Debugf("broadcast to session %s failed: %v", s.GetID(), err)
			continue
		}
	}

	return nil
}

func (b *RoomBroadcaster) BroadcastToAll(msgID uint16, data []byte) error {
	for _, info := range b.roomManager.ListRooms() {
		if err := b.BroadcastToRoom(info.RoomID, msgID, data); err != nil && err != ErrRoomNotFound {
			return err
		}
	}
	return nil
}

func (b *RoomBroadcaster) BroadcastToUsers(userIDs []int64, msgID uint16, data []byte) error {
	for _, userID := range userIDs {
		sessions := b.sessionManager.GetByUserID(userID)
		for _, s := range sessions {
			if err := s.Send(msgID, data); err != nil {
				logger.Log.Debugf("broadcast to user %d failed: %v", userID, err)
				continue
			}
		}
	}
	return nil
}
