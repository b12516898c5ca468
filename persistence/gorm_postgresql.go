// persistence/gorm_postgresql.go
package persistence

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/wfunc/tetris/models"
)

// GormPostgreSQL 使用GORM的PostgreSQL实现
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL 创建GORM PostgreSQL数据库连接
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	// 配置GORM日志
	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags), // io writer
		logger.Config{
			SlowThreshold: time.Second,   // 慢SQL阈值
			LogLevel:      logger.Silent, // 日志级别
			Colorful:      false,         // 禁用彩色打印
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	// 获取通用数据库对象 sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// 自动迁移表结构
	if err := autoMigrate(db); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// autoMigrate 自动迁移表结构
func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.GormPlayer{},
		&models.GormMatchRecord{},
		&models.GormRoom{},
	)
}

// SavePlayerData 保存玩家数据 (UPSERT)
func (p *GormPostgreSQL) SavePlayerData(userID int64, data *models.PlayerData) error {
	var player models.GormPlayer
	result := p.db.Where("user_id = ?", userID).First(&player)

	if result.Error == gorm.ErrRecordNotFound {
		player = models.GormPlayer{
			UserID:   userID,
			Name:     data.Name,
			Matches:  data.Matches,
			Lines:    data.Lines,
			PlayTime: data.PlayTime,
		}
		return p.db.Create(&player).Error
	} else if result.Error != nil {
		return result.Error
	}

	player.Name = data.Name
	player.Matches = data.Matches
	player.Lines = data.Lines
	player.PlayTime = data.PlayTime
	return p.db.Save(&player).Error
}

// LoadPlayerData 加载玩家数据
func (p *GormPostgreSQL) LoadPlayerData(userID int64) (*models.PlayerData, error) {
	var player models.GormPlayer
	if err := p.db.Where("user_id = ?", userID).First(&player).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return &models.PlayerData{
		UserID:    player.UserID,
		Name:      player.Name,
		Matches:   player.Matches,
		Lines:     player.Lines,
		PlayTime:  player.PlayTime,
		CreatedAt: player.CreatedAt,
		UpdatedAt: player.UpdatedAt,
	}, nil
}

// SaveMatchRecord 保存对局记录
func (p *GormPostgreSQL) SaveMatchRecord(rec *models.MatchRecord) error {
	row := models.GormMatchRecord{
		RoomID:   rec.RoomID,
		PlayerID: rec.PlayerID,
		UserID:   rec.UserID,
		Score:    rec.Score,
		Lines:    rec.Lines,
		Level:    rec.Level,
		Duration: rec.Duration,
	}
	return p.db.Create(&row).Error
}

// SaveRoomState 保存房间状态 (UPSERT)
func (p *GormPostgreSQL) SaveRoomState(state *models.RoomState) error {
	var room models.GormRoom
	result := p.db.Where("room_id = ?", state.RoomID).First(&room)

	if result.Error == gorm.ErrRecordNotFound {
		room = models.GormRoom{
			RoomID:   state.RoomID,
			State:    state.State,
			PlayerID: state.PlayerID,
		}
		return p.db.Create(&room).Error
	} else if result.Error != nil {
		return result.Error
	}

	room.State = state.State
	room.PlayerID = state.PlayerID
	return p.db.Save(&room).Error
}

// LoadRoomState 加载房间状态
func (p *GormPostgreSQL) LoadRoomState(roomID string) (*models.RoomState, error) {
	var room models.GormRoom
	if err := p.db.Where("room_id = ?", roomID).First(&room).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return &models.RoomState{
		RoomID:    room.RoomID,
		State:     room.State,
		PlayerID:  room.PlayerID,
		CreatedAt: room.CreatedAt,
		UpdatedAt: room.UpdatedAt,
	}, nil
}

// GetPlayerStats 聚合玩家的历史对局统计
func (p *GormPostgreSQL) GetPlayerStats(userID int64) (*models.PlayerStats, error) {
	var stats models.PlayerStats

	err := p.db.Raw(
		`
        SELECT
            COUNT(*) as total_matches,
            COALESCE(SUM(lines), 0) as total_lines,
            COALESCE(SUM(duration), 0) as play_time
        FROM gorm_match_records
        WHERE user_id = ? AND deleted_at IS NULL`,
		userID,
	).Scan(&stats).Error

	return &stats, err
}

// Close 关闭数据库连接
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// 添加事务支持
func (p *GormPostgreSQL) Transaction(fn func(tx *gorm.DB) error) error {
	return p.db.Transaction(fn)
}
