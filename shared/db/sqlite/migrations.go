package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
)

type migration struct {
	version int
	name    string
	up      string
}

// migrations is applied in order; a version is never edited once released
var migrations = []migration{
	{
		version: 1,
		name:    "create_images_table",
		up: `
			CREATE TABLE IF NOT EXISTS images (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				name TEXT NOT NULL,
				small BLOB,
				small_content_type TEXT,
				medium BLOB,
				medium_content_type TEXT,
				large BLOB,
				large_content_type TEXT,
				hash TEXT,
				updated_at TIMESTAMP,
				created_at TIMESTAMP NOT NULL
			);

			CREATE UNIQUE INDEX IF NOT EXISTS ux_images_name ON images(name);
		`,
	},
	{
		version: 2,
		name:    "create_trainings_tables",
		up: `
			CREATE TABLE IF NOT EXISTS skills (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				title TEXT NOT NULL UNIQUE
			);

			CREATE TABLE IF NOT EXISTS trainings (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				title TEXT NOT NULL,
				description TEXT,
				contact TEXT,
				link TEXT,
				valid_until TIMESTAMP,
				is_official BOOLEAN NOT NULL DEFAULT 0,
				suggested_by TEXT
			);

			CREATE TABLE IF NOT EXISTS training_skills (
				training_id INTEGER NOT NULL REFERENCES trainings(id) ON DELETE CASCADE,
				skill_id INTEGER NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
				PRIMARY KEY (training_id, skill_id)
			);

			CREATE INDEX IF NOT EXISTS idx_training_skills_skill ON training_skills(skill_id);
		`,
	},
}

func currentVersion(ctx context.Context, conn *sql.DB) (int, error) {
	version := 0
	err := conn.QueryRowContext(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return version, nil
}

// runMigrations executes all pending migrations
func runMigrations(ctx context.Context, conn *sql.DB) error {
	_, err := conn.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	version, err := currentVersion(ctx, conn)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= version {
			continue
		}

		if err := applyMigration(ctx, conn, m); err != nil {
			return err
		}
		log.Info().Int("version", m.version).Str("name", m.name).Msg("Applied migration")
	}

	return nil
}

func applyMigration(ctx context.Context, conn *sql.DB, m migration) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction for migration %d: %w", m.version, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, m.up); err != nil {
		return fmt.Errorf("failed to execute migration %d (%s): %w", m.version, m.name, err)
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
		m.version,
		m.name,
	); err != nil {
		return fmt.Errorf("failed to record migration %d: %w", m.version, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
	}
	return nil
}
