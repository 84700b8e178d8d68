package achievement

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "achievements.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := db.AutoMigrate(&Unlock{}, &MetaStats{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return NewGormStore(db)
}

func TestGormStore_UnlockRoundTrip(t *testing.T) {
	store := newTestStore(t)

	e, err := NewEngine("keeper", nil, store)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	e.RecordStat("sessions_survived", 1)
	if earned := e.HandleEvent("session_ended", nil); len(earned) != 1 {
		t.Fatalf("expected one unlock, got %v", earned)
	}

	// a fresh engine over the same store restores the unlock and stats
	e2, err := NewEngine("keeper", nil, store)
	if err != nil {
		t.Fatalf("NewEngine reload: %v", err)
	}
	if !e2.IsUnlocked("first_survival") {
		t.Fatal("unlock not restored from store")
	}
	if v, _ := toFloat(e2.Stats()["sessions_survived"]); v != 1 {
		t.Fatalf("stats not restored, got %v", e2.Stats())
	}

	// and it does not re-award on the same signal
	if earned := e2.HandleEvent("session_ended", nil); len(earned) != 0 {
		t.Fatalf("restored engine re-awarded %v", earned)
	}
}

func TestGormStore_SaveUnlockIgnoresDuplicate(t *testing.T) {
	store := newTestStore(t)

	u := &Unlock{PlayerID: "p", AchievementID: "first_survival", Points: 10}
	if err := store.SaveUnlock(u); err != nil {
		t.Fatalf("first save: %v", err)
	}
	dup := &Unlock{PlayerID: "p", AchievementID: "first_survival", Points: 10}
	if err := store.SaveUnlock(dup); err != nil {
		t.Fatalf("duplicate save should be ignored, got %v", err)
	}

	rows, err := store.LoadUnlocks("p")
	if err != nil {
		t.Fatalf("LoadUnlocks: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
}

func TestGormStore_StatsUpsert(t *testing.T) {
	store := newTestStore(t)

	if err := store.SaveStats("p", map[string]interface{}{"sessions_played": 3}); err != nil {
		t.Fatalf("SaveStats: %v", err)
	}
	if err := store.SaveStats("p", map[string]interface{}{"sessions_played": 4}); err != nil {
		t.Fatalf("SaveStats update: %v", err)
	}

	stats, err := store.LoadStats("p")
	if err != nil {
		t.Fatalf("LoadStats: %v", err)
	}
	if v, _ := toFloat(stats["sessions_played"]); v != 4 {
		t.Fatalf("sessions_played = %v, want 4", stats["sessions_played"])
	}

	missing, err := store.LoadStats("nobody")
	if err != nil || missing != nil {
		t.Fatalf("missing stats = %v, %v", missing, err)
	}
}
