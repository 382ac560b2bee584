package database

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/formcast/internal/config"
)

// RequiredTables are the tables the repositories read and write
var RequiredTables = []string{"fixtures", "odds_snapshots", "algo_settings"}

// Initialize creates a database connection pool and verifies the schema is in place
func Initialize(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	missing, err := db.MissingTables(ctx, RequiredTables...)
	if err != nil {
		db.Close()
		return nil, err
	}
	if len(missing) > 0 {
		db.Close()
		return nil, fmt.Errorf("database schema incomplete, missing tables %v: apply migrations/001_init.sql", missing)
	}

	if log != nil {
		log.WithFields(logrus.Fields{
			"host":     cfg.Database.Host,
			"database": cfg.Database.Name,
		}).Info("Database connection established")
	}
	return db, nil
}

// MissingTables returns the given tables that do not exist in the current search path
func (db *DB) MissingTables(ctx context.Context, tables ...string) ([]string, error) {
	var missing []string
	for _, table := range tables {
		var exists bool
		if err := db.pool.QueryRow(ctx, "SELECT to_regclass($1) IS NOT NULL", table).Scan(&exists); err != nil {
			return nil, fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if !exists {
			missing = append(missing, table)
		}
	}
	return missing, nil
}
