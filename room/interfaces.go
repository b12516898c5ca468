package room

import (
	"errors"

	"github.com/wfunc/tetris/models"
)

var (
	ErrNotThePlayer = errors.New("session is not the controlling player")
	ErrNoState      = errors.New("room has no active state")
)

// Broadcaster defines the interface for broadcasting messages to a room.
// This is defined here to break the import cycle between room and broadcast.
type Broadcaster interface {
	BroadcastToRoom(roomID string, msgID uint16, data []byte) error
}

// Recorder receives finished-match records. Defined here so the room
// does not depend on the persistence layer directly.
type Recorder interface {
	RecordMatch(rec models.MatchRecord) error
}
