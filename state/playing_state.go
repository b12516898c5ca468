package state

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/wfunc/tetris/game"
	"github.com/wfunc/tetris/logger"
	"github.com/wfunc/tetris/models"
	"github.com/wfunc/tetris/network"
)

// Action represents a player command unmarshalled from a packet.
type Action struct {
	Type string `json:"type"`
}

// Player action types.
const (
	ActionMoveLeft  = "left"
	ActionMoveRight = "right"
	ActionRotateCW  = "rotate_cw"
	ActionRotateCCW = "rotate_ccw"
	ActionSoftDrop  = "soft_drop"
	ActionHardDrop  = "hard_drop"
	ActionReset     = "reset"
	ActionRestart   = "restart"
)

// PlayingState 游戏进行状态: 持有引擎会话，房间心跳驱动 Tick
type PlayingState struct {
	RoomStateBase
	engine    *game.Session
	startedAt time.Time

	// Tick 和玩家指令来自不同 goroutine，引擎自身不加锁
	mutex sync.Mutex

	// 心跳和指令 goroutine 都可能看到终局快照, 结算只许跑一次
	settleOnce sync.Once
}

// NewPlayingState 创建新的游戏状态
func NewPlayingState(room RoomContext) *PlayingState {
	return &PlayingState{
		RoomStateBase: RoomStateBase{
			ID:   "playing",
			Room: room,
		},
	}
}

// OnEnter 进入游戏状态
func (s *PlayingState) OnEnter() {
	s.engine = game.NewSession(s.Room.GameConfig(), s.Room.Seed())
	s.startedAt = time.Now()
	logger.Log.Infof("房间 %s 开局", s.Room.GetID())
	s.broadcastSnapshot(network.MsgTypeGameStart)
}

// OnExit 退出游戏状态
func (s *PlayingState) OnExit() {
	logger.Log.Infof("房间 %s 退出游戏状态", s.Room.GetID())
}

// OnUpdate advances the drop timer by one room tick and pushes the new
// state to the player and spectators. A game over hands off to the
// settlement state.
func (s *PlayingState) OnUpdate() {
	s.mutex.Lock()
	s.engine.Tick(s.Room.TickInterval())
	sn := s.engine.Snapshot()
	s.mutex.Unlock()

	data, err := json.Marshal(sn)
	if err != nil {
		logger.Log.Errorf("Error marshalling sync message: %v", err)
		return
	}
	s.Room.Broadcast(network.MsgTypeGameSync, data)

	if sn.Over {
		s.endGame(sn)
	}
}

// HandleAction maps a player command onto the engine. Spectator
// commands are rejected by the room before they reach this point.
func (s *PlayingState) HandleAction(player Player, actionData []byte) error {
	var action Action
	if err := json.Unmarshal(actionData, &action); err != nil {
		return fmt.Errorf("failed to unmarshal action data: %w", err)
	}

	s.mutex.Lock()
	switch action.Type {
	case ActionMoveLeft:
		s.engine.MoveLeft()
	case ActionMoveRight:
		s.engine.MoveRight()
	case ActionRotateCW:
		s.engine.RotateCW()
	case ActionRotateCCW:
		s.engine.RotateCCW()
	case ActionSoftDrop:
		s.engine.SoftDrop()
	case ActionHardDrop:
		s.engine.HardDrop()
	case ActionReset:
		s.engine.Reset()
	default:
		s.mutex.Unlock()
		return fmt.Errorf("unknown action type: %q", action.Type)
	}
	sn := s.engine.Snapshot()
	s.mutex.Unlock()

	s.broadcastJSON(network.MsgTypeGameSync, sn)
	if sn.Over {
		s.endGame(sn)
	}
	return nil
}

func (s *PlayingState) endGame(sn game.Snapshot) {
	s.settleOnce.Do(func() {
		logger.Log.Infof("房间 %s 游戏结束: score=%d lines=%d level=%d",
			s.Room.GetID(), sn.Score, sn.Lines, sn.Level)

		rec := models.MatchRecord{
			RoomID:   s.Room.GetID(),
			Score:    sn.Score,
			Lines:    sn.Lines,
			Level:    sn.Level,
			Duration: int(time.Since(s.startedAt).Seconds()),
		}
		if p, ok := s.Room.GetPlayer(); ok {
			rec.PlayerID = p.GetID()
			rec.PlayerName = p.GetName()
			rec.UserID = p.GetUserID()
		}

		s.Room.ChangeState(NewGameOverState(s.Room, sn, rec))
	})
}

func (s *PlayingState) broadcastSnapshot(msgID uint16) {
	s.mutex.Lock()
	sn := s.engine.Snapshot()
	s.mutex.Unlock()
	s.broadcastJSON(msgID, sn)
}

func (s *PlayingState) broadcastJSON(msgID uint16, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Log.Errorf("Error marshalling message %d: %v", msgID, err)
		return
	}
	s.Room.Broadcast(msgID, data)
}
