package db

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"go-mythos/internal/achievement"
	"go-mythos/internal/config"
)

var DB *gorm.DB

// Init opens the database and runs migrations. Postgres is used when a
// DSN is configured, otherwise a local SQLite file keeps solo sessions
// self-contained.
func Init(cfg *config.Config) error {
	var (
		db  *gorm.DB
		err error
	)
	if cfg.Postgres.DSN != "" {
		db, err = gorm.Open(postgres.Open(cfg.Postgres.DSN), &gorm.Config{})
	} else {
		path := cfg.SQLite.Path
		if path == "" {
			path = "mythos.db"
		}
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	}
	if err != nil {
		return err
	}

	// Auto-migrate achievement unlock records and cross-session stats
	if err := db.AutoMigrate(&achievement.Unlock{}, &achievement.MetaStats{}); err != nil {
		return err
	}

	DB = db
	log.Printf("Database connected and migrated")
	return nil
}
