package services

import (
	"testing"

	"gorm.io/gorm"

	"github.com/wfunc/tetris/models"
	"github.com/wfunc/tetris/persistence"
)

// MockDatabase is a test double for the persistence.Database interface.
type MockDatabase struct {
	players map[int64]*models.PlayerData
	records []models.MatchRecord
}

func NewMockDatabase() *MockDatabase {
	return &MockDatabase{players: make(map[int64]*models.PlayerData)}
}

func (m *MockDatabase) SavePlayerData(userID int64, data *models.PlayerData) error {
	cp := *data
	m.players[userID] = &cp
	return nil
}

func (m *MockDatabase) LoadPlayerData(userID int64) (*models.PlayerData, error) {
	data, exists := m.players[userID]
	if !exists {
		return nil, persistence.ErrRecordNotFound
	}
	cp := *data
	return &cp, nil
}

func (m *MockDatabase) SaveMatchRecord(rec *models.MatchRecord) error {
	m.records = append(m.records, *rec)
	return nil
}

func (m *MockDatabase) SaveRoomState(state *models.RoomState) error { return nil }

func (m *MockDatabase) LoadRoomState(roomID string) (*models.RoomState, error) {
	return nil, persistence.ErrRecordNotFound
}

func (m *MockDatabase) GetPlayerStats(userID int64) (*models.PlayerStats, error) {
	return &models.PlayerStats{}, nil
}

func (m *MockDatabase) Transaction(fn func(tx *gorm.DB) error) error { return fn(nil) }

func (m *MockDatabase) Close() error { return nil }

func TestPlayerService_RecordMatchRollsUpProfile(t *testing.T) {
	db := NewMockDatabase()
	svc := NewPlayerService(db, nil)

	rec := models.MatchRecord{
		RoomID:     "room1",
		PlayerID:   "session-1",
		PlayerName: "alice",
		UserID:     42,
		Score:      300,
		Lines:      3,
		Level:      1,
		Duration:   90,
	}
	if err := svc.RecordMatch(rec); err != nil {
		t.Fatalf("RecordMatch failed: %v", err)
	}

	if len(db.records) != 1 {
		t.Fatalf("Expected 1 saved match record, got %d", len(db.records))
	}

	player, exists := db.players[42]
	if !exists {
		t.Fatal("RecordMatch should create the player profile on first match")
	}
	if player.Name != "alice" {
		t.Errorf("Expected player name alice, got %q", player.Name)
	}
	if player.Matches != 1 || player.Lines != 3 || player.PlayTime != 90 {
		t.Errorf("Bad first rollup: %+v", player)
	}

	// Second match accumulates; a blank name must not erase the stored one.
	rec.PlayerName = ""
	rec.Lines = 2
	rec.Duration = 60
	if err := svc.RecordMatch(rec); err != nil {
		t.Fatalf("RecordMatch failed: %v", err)
	}

	player = db.players[42]
	if player.Name != "alice" {
		t.Errorf("Blank name overwrote the profile: got %q", player.Name)
	}
	if player.Matches != 2 || player.Lines != 5 || player.PlayTime != 150 {
		t.Errorf("Bad second rollup: %+v", player)
	}
}

func TestPlayerService_RecordMatchAnonymous(t *testing.T) {
	db := NewMockDatabase()
	svc := NewPlayerService(db, nil)

	rec := models.MatchRecord{RoomID: "room1", PlayerID: "session-1", Lines: 4}
	if err := svc.RecordMatch(rec); err != nil {
		t.Fatalf("RecordMatch failed: %v", err)
	}

	if len(db.records) != 1 {
		t.Fatalf("Anonymous match should still be recorded, got %d records", len(db.records))
	}
	if len(db.players) != 0 {
		t.Error("Anonymous match must not create a player profile")
	}
}
