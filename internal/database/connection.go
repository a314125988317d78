package database

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Supported SQL drivers
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Connect opens the database and makes sure the schema exists
func Connect(driver, dsn string) (*sqlx.DB, error) {
	switch driver {
	case DriverSQLite:
		// Create data directory if it doesn't exist
		if dir := filepath.Dir(dsn); dir != "." && dsn != ":memory:" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == DriverSQLite {
		// SQLite doesn't support multiple writers
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if err := initializeSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// initializeSchema creates necessary tables if they don't exist
func initializeSchema(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS learners (
			user_id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			recent TEXT NOT NULL DEFAULT '[]',
			streak INTEGER NOT NULL DEFAULT 0,
			fever BOOLEAN NOT NULL DEFAULT false,
			reward_total BIGINT NOT NULL DEFAULT 0,
			reward_period_start TIMESTAMP NOT NULL,
			total_rate DOUBLE PRECISION NOT NULL DEFAULT 0,
			answer_count INTEGER NOT NULL DEFAULT 0,
			updated_at TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create learners table: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS mastery_scores (
			user_id TEXT NOT NULL,
			item TEXT NOT NULL,
			score INTEGER NOT NULL,
			PRIMARY KEY (user_id, item)
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create mastery_scores table: %w", err)
	}

	// Leaderboard reads sort on these
	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS idx_learners_total_rate ON learners (total_rate)`,
		`CREATE INDEX IF NOT EXISTS idx_learners_reward_total ON learners (reward_total)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
