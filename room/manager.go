// room/manager.go
package room

import (
	"sync"
	"time"

	"github.com/wfunc/tetris/logger"
	"github.com/wfunc/tetris/models"
)

// Manager 管理所有房间
type Manager struct {
	rooms map[string]*Room
	mutex sync.RWMutex
}

// NewRoomManager 创建一个新的房间管理器
func NewRoomManager() *Manager {
	return &Manager{
		rooms: make(map[string]*Room),
	}
}

// CreateRoom 创建一个新房间并添加到管理器
func (m *Manager) CreateRoom(id string, opts Options, broadcaster Broadcaster, recorder Recorder) *Room {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	room := NewRoom(id, opts, broadcaster, recorder)
	m.rooms[id] = room
	return room
}

// RemoveRoom 从管理器中移除并关闭一个房间
func (m *Manager) RemoveRoom(id string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if room, exists := m.rooms[id]; exists {
		room.Close()
		delete(m.rooms, id)
	}
}

// GetRoom 从管理器中获取一个房间
func (m *Manager) GetRoom(id string) (*Room, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	room, exists := m.rooms[id]
	return room, exists
}

// FindAvailableRoom 查找一个还没有玩家的房间
func (m *Manager) FindAvailableRoom() *Room {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, room := range m.rooms {
		if _, hasPlayer := room.GetPlayer(); !hasPlayer {
			return room
		}
	}
	return nil
}

// Count returns the number of live rooms.
func (m *Manager) Count() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.rooms)
}

// ListRooms returns a management snapshot of every room.
func (m *Manager) ListRooms() []models.RoomInfo {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	infos := make([]models.RoomInfo, 0, len(m.rooms))
	for _, room := range m.rooms {
		infos = append(infos, room.Info())
	}
	return infos
}

// CleanupIdle closes and removes rooms whose every session (or, for an
// empty room, the room itself) has been quiet longer than maxIdle; the
// server schedules this on its timer manager.
func (m *Manager) CleanupIdle(maxIdle time.Duration) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	removed := 0
	for id, room := range m.rooms {
		if room.IdleLongerThan(maxIdle) {
			room.Close()
			delete(m.rooms, id)
			removed++
		}
	}
	if removed > 0 {
		logger.Log.Infof("Cleaned up %d idle rooms", removed)
	}
	return removed
}
