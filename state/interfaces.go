// state/interfaces.go
package state

import (
	"time"

	"github.com/wfunc/tetris/game"
	"github.com/wfunc/tetris/models"
)

// Player defines the minimal interface for the controlling player that a
// state needs to interact with.
type Player interface {
	GetID() string
	GetUserID() int64
	GetName() string
}

// RoomContext defines the interface a Room must implement to be managed
// by the state machine. This breaks the import cycle between room and
// state.
type RoomContext interface {
	GetID() string
	GetPlayer() (Player, bool)
	SpectatorCount() int
	ChangeState(newState State) error
	Broadcast(msgID uint16, data []byte) error

	// Game hosting parameters and result sink.
	GameConfig() game.Config
	TickInterval() time.Duration
	Seed() int64
	RecordResult(rec models.MatchRecord)
}
