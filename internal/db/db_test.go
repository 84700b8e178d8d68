package db

import (
	"os"
	"path/filepath"
	"testing"

	"go-mythos/internal/achievement"
	"go-mythos/internal/config"
)

// Dummy DSN for test (won't actually connect, just checks error path)
func TestInit_InvalidDSN(t *testing.T) {
	cfg := &config.Config{}
	cfg.Postgres.DSN = "invalid-dsn-for-testing"
	err := Init(cfg)
	if err == nil {
		t.Errorf("expected error for invalid DSN, got nil")
	}
}

func TestInit_SQLiteFallback(t *testing.T) {
	cfg := &config.Config{}
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "test.db")
	if err := Init(cfg); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if DB == nil {
		t.Fatalf("DB not set")
	}
	// Migration should have created the achievement tables
	if !DB.Migrator().HasTable(&achievement.Unlock{}) {
		t.Errorf("unlock table missing after migration")
	}
	if !DB.Migrator().HasTable(&achievement.MetaStats{}) {
		t.Errorf("meta stats table missing after migration")
	}
}

// You can only run actual DB tests if you have a valid Postgres test instance
// This test is optional and skipped unless TEST_DB_DSN is set
func TestInit_ValidDSN_AndMigrates(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("set TEST_DB_DSN to run real DB test")
	}
	cfg := &config.Config{}
	cfg.Postgres.DSN = dsn
	if err := Init(cfg); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if DB == nil {
		t.Fatalf("DB not set")
	}
}
