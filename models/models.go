// models/models.go
package models

import (
	"time"
)

// PlayerData 玩家数据模型
type PlayerData struct {
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Matches   int       `json:"matches"`
	Lines     int       `json:"lines"`
	PlayTime  int       `json:"play_time"` // 总游戏时长(秒)
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MatchRecord 单局对局记录 (结算时写入，用于审计与统计，不做排行榜)
type MatchRecord struct {
	RoomID     string    `json:"room_id"`
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	UserID     int64     `json:"user_id"`
	Score      int       `json:"score"`
	Lines      int       `json:"lines"`
	Level      int       `json:"level"`
	Duration   int       `json:"duration"` // 秒
	CreatedAt  time.Time `json:"created_at"`
}

// RoomInfo 房间信息 (管理接口用)
type RoomInfo struct {
	RoomID     string    `json:"room_id"`
	Status     string    `json:"status"`
	PlayerID   string    `json:"player_id"`
	Spectators int       `json:"spectators"`
	CreatedAt  time.Time `json:"created_at"`
}

// RoomState 房间状态模型 (持久化快照)
type RoomState struct {
	RoomID    string    `json:"room_id"`
	State     string    `json:"state"`
	PlayerID  string    `json:"player_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PlayerStats 玩家统计信息
type PlayerStats struct {
	TotalMatches int `json:"total_matches"`
	TotalLines   int `json:"total_lines"`
	PlayTime     int `json:"play_time"` // 总游戏时长(秒)
}
