// persistence/interface.go
package persistence

import (
	"fmt"

	"github.com/wfunc/tetris/models"
	"gorm.io/gorm"
)

// Database 数据库接口
type Database interface {
	SavePlayerData(userID int64, data *models.PlayerData) error
	LoadPlayerData(userID int64) (*models.PlayerData, error)
	SaveMatchRecord(rec *models.MatchRecord) error
	SaveRoomState(state *models.RoomState) error
	LoadRoomState(roomID string) (*models.RoomState, error)
	GetPlayerStats(userID int64) (*models.PlayerStats, error)
	Transaction(fn func(tx *gorm.DB) error) error
	Close() error
}

// 错误定义
var (
	ErrRecordNotFound = fmt.Errorf("record not found")
)
