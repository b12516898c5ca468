// room/room.go
package room

import (
	"sync"
	"time"

	"github.com/wfunc/tetris/game"
	"github.com/wfunc/tetris/logger"
	"github.com/wfunc/tetris/models"
	"github.com/wfunc/tetris/session"
	"github.com/wfunc/tetris/state"
)

// RoomStatus 表示房间的业务状态
type RoomStatus int

const (
	StatusWaiting RoomStatus = iota
	StatusPlaying
	StatusGameOver
)

func (s RoomStatus) String() string {
	switch s {
	case StatusWaiting:
		return "waiting"
	case StatusPlaying:
		return "playing"
	case StatusGameOver:
		return "game_over"
	}
	return "unknown"
}

// Options 是建房参数
type Options struct {
	GameConfig    game.Config
	TickInterval  time.Duration
	MaxSpectators int
	Seed          func() int64 // nil 时用时间做种子
}

// Room hosts exactly one controlling player's game plus read-only
// spectators. The room's heartbeat is the external timing source that
// drives the engine's drop timer.
type Room struct {
	ID           string
	Status       RoomStatus
	StateMachine state.StateMachine
	CreatedAt    time.Time

	opts        Options
	player      *session.Session
	spectators  map[string]*session.Session
	broadcaster Broadcaster
	recorder    Recorder
	statusMutex sync.RWMutex
	playerMutex sync.RWMutex
	ticker      *time.Ticker
	closeOnce   sync.Once
	closeChan   chan bool
}

// NewRoom 创建一个新房间并启动心跳
func NewRoom(id string, opts Options, broadcaster Broadcaster, recorder Recorder) *Room {
	if opts.TickInterval <= 0 {
		opts.TickInterval = 100 * time.Millisecond
	}
	room := &Room{
		ID:          id,
		Status:      StatusWaiting,
		CreatedAt:   time.Now(),
		opts:        opts,
		spectators:  make(map[string]*session.Session),
		broadcaster: broadcaster,
		recorder:    recorder,
		closeChan:   make(chan bool),
	}

	// 初始化状态机，将房间自身作为上下文传入
	room.StateMachine = state.NewBaseStateMachine(state.NewWaitingState(room))

	room.ticker = time.NewTicker(opts.TickInterval)
	go room.loop()

	return room
}

// --- 实现 state.RoomContext 接口 ---

// GetID 返回房间ID
func (r *Room) GetID() string {
	return r.ID
}

// GetPlayer returns the controlling player, if one has joined.
func (r *Room) GetPlayer() (state.Player, bool) {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()
	if r.player == nil {
		return nil, false
	}
	return r.player, true
}

// SpectatorCount returns the number of watching sessions.
func (r *Room) SpectatorCount() int {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()
	return len(r.spectators)
}

// ChangeState 切换状态机状态并同步房间业务状态
func (r *Room) ChangeState(newState state.State) error {
	if err := r.StateMachine.ChangeState(newState); err != nil {
		return err
	}
	switch newState.GetID() {
	case "playing":
		r.setStatus(StatusPlaying)
	case "game_over":
		r.setStatus(StatusGameOver)
	default:
		r.setStatus(StatusWaiting)
	}
	return nil
}

// Broadcast sends a message to the player and every spectator.
func (r *Room) Broadcast(msgID uint16, data []byte) error {
	return r.broadcaster.BroadcastToRoom(r.ID, msgID, data)
}

// GameConfig returns the board sizing for hosted games.
func (r *Room) GameConfig() game.Config {
	return r.opts.GameConfig
}

// TickInterval returns the heartbeat period fed into the engine.
func (r *Room) TickInterval() time.Duration {
	return r.opts.TickInterval
}

// Seed returns the spawn-sequence seed for the next game.
func (r *Room) Seed() int64 {
	if r.opts.Seed != nil {
		return r.opts.Seed()
	}
	return time.Now().UnixNano()
}

// RecordResult hands a finished match to the recorder, if any.
func (r *Room) RecordResult(rec models.MatchRecord) {
	if r.recorder == nil {
		return
	}
	if err := r.recorder.RecordMatch(rec); err != nil {
		logger.Log.Errorf("Room %s failed to record match: %v", r.ID, err)
	}
}

// --- 房间核心逻辑 ---

// Join adds a session: the first joiner controls the game, later ones
// become spectators up to the cap. Returns false when the room is full.
func (r *Room) Join(s *session.Session) bool {
	r.playerMutex.Lock()
	defer r.playerMutex.Unlock()

	if r.player == nil {
		r.player = s
		s.RoomID = r.ID
		s.Spectator = false
		return true
	}
	return r.addSpectatorLocked(s)
}

// Watch adds a session as a spectator only.
func (r *Room) Watch(s *session.Session) bool {
	r.playerMutex.Lock()
	defer r.playerMutex.Unlock()
	return r.addSpectatorLocked(s)
}

func (r *Room) addSpectatorLocked(s *session.Session) bool {
	if len(r.spectators) >= r.opts.MaxSpectators {
		return false
	}
	r.spectators[s.ID] = s
	s.RoomID = r.ID
	s.Spectator = true
	return true
}

// Leave removes a session from the room. Returns true if the departed
// session was the controlling player.
func (r *Room) Leave(sessionID string) bool {
	r.playerMutex.Lock()
	defer r.playerMutex.Unlock()

	if r.player != nil && r.player.ID == sessionID {
		r.player.RoomID = ""
		r.player = nil
		return true
	}
	if s, exists := r.spectators[sessionID]; exists {
		s.RoomID = ""
		delete(r.spectators, sessionID)
	}
	return false
}

// GetSessions returns the player and all spectators (thread-safe).
func (r *Room) GetSessions() []*session.Session {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()

	sessions := make([]*session.Session, 0, len(r.spectators)+1)
	if r.player != nil {
		sessions = append(sessions, r.player)
	}
	for _, s := range r.spectators {
		sessions = append(sessions, s)
	}
	return sessions
}

// IsEmpty reports whether no session is attached.
func (r *Room) IsEmpty() bool {
	r.playerMutex.RLock()
	defer r.playerMutex.RUnlock()
	return r.player == nil && len(r.spectators) == 0
}

// IdleLongerThan reports whether nothing in the room has been active
// for more than limit. An empty room ages from its creation time; an
// occupied one from its sessions' last activity (heartbeats count).
func (r *Room) IdleLongerThan(limit time.Duration) bool {
	sessions := r.GetSessions()
	if len(sessions) == 0 {
		return time.Since(r.CreatedAt) > limit
	}
	for _, s := range sessions {
		if s.IdleSince() <= limit {
			return false
		}
	}
	return true
}

func (r *Room) setStatus(status RoomStatus) {
	r.statusMutex.Lock()
	defer r.statusMutex.Unlock()
	r.Status = status
}

// GetStatus 获取房间的业务状态
func (r *Room) GetStatus() RoomStatus {
	r.statusMutex.RLock()
	defer r.statusMutex.RUnlock()
	return r.Status
}

// Info returns a management snapshot of the room.
func (r *Room) Info() models.RoomInfo {
	info := models.RoomInfo{
		RoomID:     r.ID,
		Status:     r.GetStatus().String(),
		Spectators: r.SpectatorCount(),
		CreatedAt:  r.CreatedAt,
	}
	if p, ok := r.GetPlayer(); ok {
		info.PlayerID = p.GetID()
	}
	return info
}

// loop 是房间的主循环，定时驱动状态更新
func (r *Room) loop() {
	for {
		select {
		case <-r.ticker.C:
			r.Update()
		case <-r.closeChan:
			r.ticker.Stop()
			return
		}
	}
}

// Update 由主循环调用，驱动状态机更新
func (r *Room) Update() {
	if r.StateMachine != nil {
		currentState := r.StateMachine.GetCurrentState()
		if currentState != nil {
			currentState.OnUpdate()
		}
	}
}

// HandleAction forwards a command to the current state. Spectators may
// not issue commands.
func (r *Room) HandleAction(s *session.Session, actionData []byte) error {
	r.playerMutex.RLock()
	isPlayer := r.player != nil && r.player.ID == s.ID
	r.playerMutex.RUnlock()
	if !isPlayer {
		return ErrNotThePlayer
	}

	currentState := r.StateMachine.GetCurrentState()
	if currentState == nil {
		return ErrNoState
	}
	return currentState.HandleAction(s, actionData)
}

// Close 关闭房间，停止主循环
func (r *Room) Close() {
	r.closeOnce.Do(func() {
		close(r.closeChan)
	})
}
