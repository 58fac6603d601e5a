package persistence

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dfryer1193/teamdojo/shared/db/sqlite"
)

// setupTestDB creates a migrated SQLite database in a temporary directory
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database := sqlite.NewSQLiteDB(&sqlite.SQLiteConfig{
		Path: filepath.Join(t.TempDir(), "test.db"),
	})
	if err := database.Connect(context.Background()); err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return database.DB()
}

func ptr[T any](v T) *T {
	return &v
}
