package store

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS experiences (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		company TEXT NOT NULL,
		employment_type TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL,
		end_date TEXT,
		description TEXT NOT NULL DEFAULT '[]'
	)`,
	`CREATE INDEX IF NOT EXISTS idx_experiences_start ON experiences (start_date DESC)`,

	`CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		link TEXT NOT NULL DEFAULT '',
		icon_class TEXT NOT NULL DEFAULT '',
		display_order INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_order ON projects (display_order ASC)`,

	`CREATE TABLE IF NOT EXISTS messages (
		id TEXT PRIMARY KEY,
		token TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		content TEXT NOT NULL,
		created_at TEXT NOT NULL,
		delivery_status TEXT NOT NULL DEFAULT 'pending',
		delivery_attempts INTEGER NOT NULL DEFAULT 0,
		last_error TEXT NOT NULL DEFAULT '',
		notified_at TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_delivery ON messages (delivery_status, created_at)`,

	// Store hashed IP instead of raw IP
	`CREATE TABLE IF NOT EXISTS visitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hashed_ip TEXT NOT NULL,
		user_agent TEXT NOT NULL DEFAULT '',
		path TEXT NOT NULL DEFAULT '',
		timestamp TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors (timestamp)`,
}

func (s *Store) migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("store.migrate: %w", err)
		}
	}
	return nil
}
