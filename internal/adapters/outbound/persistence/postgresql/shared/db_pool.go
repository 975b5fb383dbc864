package shared

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type PoolSettings struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
}

func DefaultPoolSettings() PoolSettings {
	return PoolSettings{
		MaxOpenConns:    20,
		MaxIdleConns:    20,
		ConnMaxIdleTime: 5 * time.Minute,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// NewDatabasePool opens a pgx backed pool. No connection is made until first
// use; readiness is checked separately at startup.
func NewDatabasePool(databaseURL string, settings PoolSettings, logger *log.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database pool: %w", err)
	}

	db.SetMaxOpenConns(settings.MaxOpenConns)
	db.SetMaxIdleConns(settings.MaxIdleConns)
	db.SetConnMaxIdleTime(settings.ConnMaxIdleTime)
	db.SetConnMaxLifetime(settings.ConnMaxLifetime)

	if logger != nil {
		logger.Printf("database pool initialized max_open_conns=%d", settings.MaxOpenConns)
	}

	return db, nil
}
