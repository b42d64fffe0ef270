package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Migrate creates the schema if it does not exist. Safe to run on
// every boot.
func Migrate(ctx context.Context, sqlDB *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS analyses (
			id UUID PRIMARY KEY,
			motion_id TEXT NOT NULL,
			sport_type TEXT NOT NULL,
			sub_category TEXT NOT NULL DEFAULT '',
			video_url TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			overall_score DOUBLE PRECISION,
			result JSONB,
			error_code TEXT,
			error_message TEXT,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_motion_id ON analyses(motion_id);`,
		`CREATE INDEX IF NOT EXISTS idx_analyses_sport_type ON analyses(sport_type);`,
		`CREATE TABLE IF NOT EXISTS request_logs (
			id UUID PRIMARY KEY,
			request_id TEXT NOT NULL,
			motion_id TEXT,
			endpoint TEXT NOT NULL,
			method TEXT NOT NULL,
			status_code INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE INDEX IF NOT EXISTS idx_request_logs_motion_id ON request_logs(motion_id);`,
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, migration := range migrations {
		if _, err := sqlDB.ExecContext(ctx, migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}
