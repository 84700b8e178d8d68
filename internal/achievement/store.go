package achievement

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Unlock is one earned achievement row.
type Unlock struct {
	ID            uint           `gorm:"primaryKey"`
	PlayerID      string         `gorm:"size:64;index;uniqueIndex:idx_player_achievement"`
	AchievementID string         `gorm:"size:64;uniqueIndex:idx_player_achievement"`
	UnlockedAt    time.Time      `gorm:"not null"`
	Points        int            `gorm:"not null;default:0"`
	Details       datatypes.JSON `gorm:"type:json"`
}

// MetaStats holds a player's cumulative counters across sessions.
type MetaStats struct {
	PlayerID  string         `gorm:"primaryKey;size:64"`
	Stats     datatypes.JSON `gorm:"type:json"`
	UpdatedAt time.Time
}

// GormStore persists achievements through gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// SaveUnlock inserts the row, ignoring the conflict when the player
// already holds the achievement.
func (s *GormStore) SaveUnlock(u *Unlock) error {
	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}, {Name: "achievement_id"}},
		DoNothing: true,
	}).Create(u).Error
	if err != nil {
		return fmt.Errorf("inserting unlock: %w", err)
	}
	return nil
}

func (s *GormStore) LoadUnlocks(playerID string) ([]Unlock, error) {
	var rows []Unlock
	err := s.db.Where("player_id = ?", playerID).Order("unlocked_at asc").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("querying unlocks: %w", err)
	}
	return rows, nil
}

func (s *GormStore) SaveStats(playerID string, stats map[string]interface{}) error {
	blob, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encoding stats: %w", err)
	}
	row := MetaStats{PlayerID: playerID, Stats: blob, UpdatedAt: time.Now()}
	err = s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"stats", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("upserting stats: %w", err)
	}
	return nil
}

func (s *GormStore) LoadStats(playerID string) (map[string]interface{}, error) {
	var row MetaStats
	err := s.db.First(&row, "player_id = ?", playerID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying stats: %w", err)
	}
	if len(row.Stats) == 0 {
		return nil, nil
	}
	stats := make(map[string]interface{})
	if err := json.Unmarshal(row.Stats, &stats); err != nil {
		return nil, fmt.Errorf("decoding stats: %w", err)
	}
	return stats, nil
}
