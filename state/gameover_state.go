package state

import (
	"encoding/json"
	"fmt"

	"github.com/wfunc/tetris/game"
	"github.com/wfunc/tetris/logger"
	"github.com/wfunc/tetris/models"
	"github.com/wfunc/tetris/network"
)

// GameOverState 结算状态: 保存战绩并等待玩家重开
type GameOverState struct {
	RoomStateBase
	final  game.Snapshot
	record models.MatchRecord
}

func NewGameOverState(room RoomContext, final game.Snapshot, rec models.MatchRecord) *GameOverState {
	return &GameOverState{
		RoomStateBase: RoomStateBase{
			ID:   "game_over",
			Room: room,
		},
		final:  final,
		record: rec,
	}
}

// OnEnter persists the match record and pushes the final snapshot.
func (s *GameOverState) OnEnter() {
	s.Room.RecordResult(s.record)

	data, err := json.Marshal(s.final)
	if err != nil {
		logger.Log.Errorf("Error marshalling game over message: %v", err)
		return
	}
	s.Room.Broadcast(network.MsgTypeGameOver, data)
}

// HandleAction accepts only a restart, which returns the room to a
// fresh playing state.
func (s *GameOverState) HandleAction(player Player, actionData []byte) error {
	var action Action
	if err := json.Unmarshal(actionData, &action); err != nil {
		return fmt.Errorf("failed to unmarshal action data: %w", err)
	}
	if action.Type != ActionRestart {
		return fmt.Errorf("game is over, only %q is accepted", ActionRestart)
	}
	return s.Room.ChangeState(NewPlayingState(s.Room))
}
