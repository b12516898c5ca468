// services/player_service.go
package services

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/wfunc/tetris/logger"
	"github.com/wfunc/tetris/models"
	"github.com/wfunc/tetris/monitor"
	"github.com/wfunc/tetris/persistence"
)

// PlayerService persists match results and answers player queries. It
// is the Recorder the rooms report into.
type PlayerService struct {
	db  persistence.Database
	mon *monitor.Monitor
}

func NewPlayerService(db persistence.Database, mon *monitor.Monitor) *PlayerService {
	return &PlayerService{db: db, mon: mon}
}

// RecordMatch writes one finished match and folds it into the player's
// lifetime aggregates.
func (s *PlayerService) RecordMatch(rec models.MatchRecord) error {
	if err := s.db.SaveMatchRecord(&rec); err != nil {
		return fmt.Errorf("save match record: %w", err)
	}

	if s.mon != nil {
		s.mon.AddLinesCleared(rec.Lines)
		s.mon.IncMatchesFinished()
	}

	if rec.UserID == 0 {
		// 匿名对局只留流水，不累计玩家统计
		return nil
	}

	data, err := s.db.LoadPlayerData(rec.UserID)
	if err == persistence.ErrRecordNotFound {
		data = &models.PlayerData{UserID: rec.UserID}
	} else if err != nil {
		logger.Log.Errorf("load player %d for match rollup: %v", rec.UserID, err)
		return err
	}

	if rec.PlayerName != "" {
		data.Name = rec.PlayerName
	}
	data.Matches++
	data.Lines += rec.Lines
	data.PlayTime += rec.Duration
	return s.db.SavePlayerData(rec.UserID, data)
}

// GetPlayerWithStats 获取玩家信息和统计
func (s *PlayerService) GetPlayerWithStats(userID int64) (map[string]interface{}, error) {
	var result map[string]interface{}

	// 使用事务确保数据一致性
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// 获取玩家基本信息
		var player models.GormPlayer
		if err := tx.Where("user_id = ?", userID).First(&player).Error; err != nil {
			return err
		}

		// 获取玩家统计信息
		stats, err := s.db.GetPlayerStats(userID)
		if err != nil {
			return err
		}

		result = map[string]interface{}{
			"player": player,
			"stats":  stats,
		}

		return nil
	})

	return result, err
}
