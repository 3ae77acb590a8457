package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
)

// Connect opens a PostgreSQL connection pool for the given DSN and verifies
// it with a ping. The caller owns the pool and must Close it at shutdown.
func Connect(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Bootstrap creates the notification tables if they don't already exist.
// Safe to call on every startup.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scheduled_notifications (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			message TEXT NOT NULL,
			scheduled_time TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS scheduled_notifications_due_idx
			ON scheduled_notifications (status, scheduled_time)`,
		`CREATE TABLE IF NOT EXISTS notification_logs (
			id BIGSERIAL PRIMARY KEY,
			notification_id TEXT,
			sent_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			status TEXT NOT NULL,
			response TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS notification_dispatches (
			user_id TEXT NOT NULL,
			slot_date DATE NOT NULL,
			slot_time TEXT NOT NULL,
			sent_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, slot_date, slot_time)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}
