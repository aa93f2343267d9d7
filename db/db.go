package db

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/mysql"
	_ "github.com/jinzhu/gorm/dialects/sqlite"

	"penelope-webhooks/config"
	"penelope-webhooks/logging"
	"penelope-webhooks/models"
)

// Connect opens the configured dialect (mysql in production, sqlite3
// for local/dev/tests) and automigrates only RawEvent: every other
// table in this schema is owned by the wider system and must already
// exist.
func Connect(cfg config.DatabaseConfig, log *logging.Logger) (*gorm.DB, error) {
	conn, err := gorm.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("db connect (%s): %w", cfg.Driver, err)
	}

	conn.DB().SetMaxOpenConns(cfg.PoolSize)
	conn.DB().SetMaxIdleConns(cfg.MaxIdle)

	conn.LogMode(false)

	if err := conn.AutoMigrate(&models.RawEvent{}).Error; err != nil {
		return nil, fmt.Errorf("automigrate raw event: %w", err)
	}

	log.Infow("database connected", "driver", cfg.Driver, "pool_size", cfg.PoolSize)
	return conn, nil
}
