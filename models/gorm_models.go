// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormPlayer 玩家模型
type GormPlayer struct {
	gorm.Model
	UserID   int64  `gorm:"uniqueIndex;not null"`
	Name     string `gorm:"not null"`
	Matches  int    `gorm:"default:0"`
	Lines    int    `gorm:"default:0"`
	PlayTime int    `gorm:"default:0"` // 总游戏时长(秒)
}

// GormMatchRecord 对局记录模型
type GormMatchRecord struct {
	gorm.Model
	RoomID   string `gorm:"index;not null"`
	PlayerID string `gorm:"index;not null"`
	UserID   int64  `gorm:"index"`
	Score    int    `gorm:"not null"`
	Lines    int    `gorm:"not null"`
	Level    int    `gorm:"not null"`
	Duration int    `gorm:"default:0"` // 秒
}

// GormRoom 房间快照模型
type GormRoom struct {
	gorm.Model
	RoomID   string `gorm:"uniqueIndex;not null"`
	State    string `gorm:"not null"`
	PlayerID string
}
