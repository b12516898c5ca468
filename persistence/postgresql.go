// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// PostgreSQL 驱动
	_ "github.com/lib/pq" // PostgreSQL 驱动

	"github.com/wfunc/tetris/models"
)

// PostgreSQL 数据库实现 (不走ORM的裸SQL版本)
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL 创建 PostgreSQL 数据库连接
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// 测试连接
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	// 设置连接池参数
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	// 初始化表结构
	if err := initTables(db); err != nil {
		return nil, err
	}

	return &PostgreSQL{db: db}, nil
}

// initTables 初始化数据库表结构
func initTables(db *sql.DB) error {
	// 创建玩家表
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS players (
            id SERIAL PRIMARY KEY,
            user_id BIGINT UNIQUE NOT NULL,
            name VARCHAR(255) NOT NULL,
            matches INT NOT NULL DEFAULT 0,
            lines INT NOT NULL DEFAULT 0,
            play_time INT NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	// 创建对局记录表
	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS match_records (
            id SERIAL PRIMARY KEY,
            room_id VARCHAR(255) NOT NULL,
            player_id VARCHAR(255) NOT NULL,
            user_id BIGINT NOT NULL DEFAULT 0,
            score INT NOT NULL,
            lines INT NOT NULL,
            level INT NOT NULL,
            duration INT NOT NULL DEFAULT 0,
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	// 创建房间表
	_, err = db.Exec(`
        CREATE TABLE IF NOT EXISTS rooms (
            id SERIAL PRIMARY KEY,
            room_id VARCHAR(255) UNIQUE NOT NULL,
            state VARCHAR(50) NOT NULL,
            player_id VARCHAR(255),
            created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return err
	}

	// 创建索引以提高查询性能
	_, err = db.Exec(`
        CREATE INDEX IF NOT EXISTS idx_players_user_id ON players(user_id);
        CREATE INDEX IF NOT EXISTS idx_match_records_room_id ON match_records(room_id);
        CREATE INDEX IF NOT EXISTS idx_match_records_user_id ON match_records(user_id);
        CREATE INDEX IF NOT EXISTS idx_match_records_created_at ON match_records(created_at);
        CREATE INDEX IF NOT EXISTS idx_rooms_room_id ON rooms(room_id);
    `)

	return err
}

// SavePlayerData 保存玩家数据
func (p *PostgreSQL) SavePlayerData(userID int64, data *models.PlayerData) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 使用 UPSERT 操作 (PostgreSQL 9.5+)
	query := `
        INSERT INTO players (user_id, name, matches, lines, play_time)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (user_id)
        DO UPDATE SET name = $2, matches = $3, lines = $4, play_time = $5,
            updated_at = CURRENT_TIMESTAMP
    `

	_, err := p.db.ExecContext(ctx, query,
		userID, data.Name, data.Matches, data.Lines, data.PlayTime)
	return err
}

// LoadPlayerData 加载玩家数据
func (p *PostgreSQL) LoadPlayerData(userID int64) (*models.PlayerData, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var data models.PlayerData
	query := `
        SELECT user_id, name, matches, lines, play_time, created_at, updated_at
        FROM players WHERE user_id = $1`
	err := p.db.QueryRowContext(ctx, query, userID).Scan(
		&data.UserID, &data.Name, &data.Matches, &data.Lines,
		&data.PlayTime, &data.CreatedAt, &data.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	return &data, nil
}

// SaveMatchRecord 保存对局记录
func (p *PostgreSQL) SaveMatchRecord(rec *models.MatchRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO match_records (room_id, player_id, user_id, score, lines, level, duration)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	_, err := p.db.ExecContext(ctx, query,
		rec.RoomID, rec.PlayerID, rec.UserID, rec.Score, rec.Lines, rec.Level, rec.Duration)
	return err
}

// SaveRoomState 保存房间状态
func (p *PostgreSQL) SaveRoomState(state *models.RoomState) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	query := `
        INSERT INTO rooms (room_id, state, player_id)
        VALUES ($1, $2, $3)
        ON CONFLICT (room_id)
        DO UPDATE SET state = $2, player_id = $3, updated_at = CURRENT_TIMESTAMP
    `

	_, err := p.db.ExecContext(ctx, query, state.RoomID, state.State, state.PlayerID)
	return err
}

// LoadRoomState 加载房间状态
func (p *PostgreSQL) LoadRoomState(roomID string) (*models.RoomState, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var state models.RoomState
	var playerID sql.NullString
	query := `SELECT room_id, state, player_id, created_at, updated_at FROM rooms WHERE room_id = $1`
	err := p.db.QueryRowContext(ctx, query, roomID).Scan(
		&state.RoomID, &state.State, &playerID, &state.CreatedAt, &state.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	state.PlayerID = playerID.String

	return &state, nil
}

// GetPlayerStats 聚合玩家的历史对局统计
func (p *PostgreSQL) GetPlayerStats(userID int64) (*models.PlayerStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var stats models.PlayerStats
	query := `
        SELECT
            COUNT(*),
            COALESCE(SUM(lines), 0),
            COALESCE(SUM(duration), 0)
        FROM match_records WHERE user_id = $1`
	err := p.db.QueryRowContext(ctx, query, userID).Scan(
		&stats.TotalMatches, &stats.TotalLines, &stats.PlayTime)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// Close 关闭数据库连接
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}
