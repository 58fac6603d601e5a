package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

func connectTestDB(t *testing.T, path string) *SQLiteDB {
	t.Helper()
	database := NewSQLiteDB(&SQLiteConfig{Path: path})
	if err := database.Connect(context.Background()); err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	return database
}

func objectExists(t *testing.T, db *sql.DB, kind, name string) bool {
	t.Helper()
	var count int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = ? AND name = ?", kind, name).Scan(&count)
	if err != nil {
		t.Fatalf("Failed to check %s %s: %v", kind, name, err)
	}
	return count == 1
}

func TestRunMigrations(t *testing.T) {
	database := connectTestDB(t, filepath.Join(t.TempDir(), "test.db"))
	defer database.Close()

	db := database.DB()

	for _, table := range []string{"schema_migrations", "images", "skills", "trainings", "training_skills"} {
		if !objectExists(t, db, "table", table) {
			t.Errorf("%s table not created", table)
		}
	}
	for _, index := range []string{"ux_images_name", "idx_training_skills_skill"} {
		if !objectExists(t, db, "index", index) {
			t.Errorf("%s index not created", index)
		}
	}

	var name string
	if err := db.QueryRow("SELECT name FROM schema_migrations WHERE version = 1").Scan(&name); err != nil {
		t.Fatalf("Failed to query schema_migrations: %v", err)
	}
	if name != "create_images_table" {
		t.Errorf("name = %q, want %q", name, "create_images_table")
	}
}

func TestRunMigrationsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	database := connectTestDB(t, dbPath)
	database.Close()

	database = connectTestDB(t, dbPath)
	defer database.Close()

	var count int
	if err := database.DB().QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count); err != nil {
		t.Fatalf("Failed to query schema_migrations: %v", err)
	}
	if count != len(migrations) {
		t.Errorf("schema_migrations has %d rows, want %d", count, len(migrations))
	}
}

func TestImagesTableSchema(t *testing.T) {
	database := connectTestDB(t, filepath.Join(t.TempDir(), "test.db"))
	defer database.Close()

	db := database.DB()

	_, err := db.Exec(`
		INSERT INTO images (name, large, large_content_type, created_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
	`, "logo", []byte{0xAA, 0xBB}, "image/png")
	if err != nil {
		t.Fatalf("Failed to insert image: %v", err)
	}

	var large []byte
	var small []byte
	var smallContentType sql.NullString
	err = db.QueryRow("SELECT large, small, small_content_type FROM images WHERE name = ?", "logo").
		Scan(&large, &small, &smallContentType)
	if err != nil {
		t.Fatalf("Failed to query image: %v", err)
	}
	if len(large) != 2 || large[0] != 0xAA {
		t.Errorf("large = %x, want aabb", large)
	}
	if small != nil || smallContentType.Valid {
		t.Error("small variant should be NULL")
	}

	_, err = db.Exec("INSERT INTO images (name, created_at) VALUES (?, CURRENT_TIMESTAMP)", "logo")
	if err == nil {
		t.Error("duplicate image name should violate the unique index")
	}
}

func TestTrainingSkillsCascade(t *testing.T) {
	database := connectTestDB(t, filepath.Join(t.TempDir(), "test.db"))
	defer database.Close()

	db := database.DB()

	mustExec := func(query string, args ...any) {
		t.Helper()
		if _, err := db.Exec(query, args...); err != nil {
			t.Fatalf("Exec(%q) error = %v", query, err)
		}
	}

	mustExec("INSERT INTO skills (id, title) VALUES (1, 'Go')")
	mustExec("INSERT INTO trainings (id, title, is_official) VALUES (1, 'Go basics', 1)")
	mustExec("INSERT INTO training_skills (training_id, skill_id) VALUES (1, 1)")

	if _, err := db.Exec("INSERT INTO training_skills (training_id, skill_id) VALUES (99, 1)"); err == nil {
		t.Error("link to missing training should violate the foreign key")
	}

	mustExec("DELETE FROM trainings WHERE id = 1")

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM training_skills").Scan(&count); err != nil {
		t.Fatalf("Failed to count links: %v", err)
	}
	if count != 0 {
		t.Errorf("training_skills has %d rows after delete, want 0", count)
	}
}
