package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/dfryer1193/teamdojo/shared/db"
	_ "modernc.org/sqlite"
)

const (
	// DefaultPath is the database file used when none is configured
	DefaultPath = "./teamdojo.db"
)

// pragmas are applied by the driver to every pooled connection.
var pragmas = []string{
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"foreign_keys(1)",
	"busy_timeout(5000)",
	"cache_size(-64000)",
}

type SQLiteConfig struct {
	Path string
}

// SQLiteDB implements the db.Database interface for SQLite
type SQLiteDB struct {
	dbPath string
	db     *sql.DB
}

// NewSQLiteDB creates a new SQLite database instance. An empty path falls back to DefaultPath.
func NewSQLiteDB(cfg *SQLiteConfig) *SQLiteDB {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	return &SQLiteDB{
		dbPath: path,
	}
}

var _ db.Database = (*SQLiteDB)(nil)

// dsn appends the connection pragmas to the database path.
func dsn(path string) string {
	q := url.Values{}
	for _, p := range pragmas {
		q.Add("_pragma", p)
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + q.Encode()
}

// Connect opens the database and brings its schema up to date
func (s *SQLiteDB) Connect(ctx context.Context) error {
	if s.db != nil {
		return fmt.Errorf("database already connected")
	}

	conn, err := sql.Open("sqlite", dsn(s.dbPath))
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite serializes writers; a single connection avoids SQLITE_BUSY under load
	// and keeps in-memory databases on one connection.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	if err := runMigrations(ctx, conn); err != nil {
		conn.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	s.db = conn
	return nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	if s.db == nil {
		return nil
	}

	err := s.db.Close()
	s.db = nil
	return err
}

// DB returns the underlying *sql.DB instance
func (s *SQLiteDB) DB() *sql.DB {
	return s.db
}

// SchemaVersion returns the highest applied migration version.
func (s *SQLiteDB) SchemaVersion(ctx context.Context) (int, error) {
	if s.db == nil {
		return 0, fmt.Errorf("database not connected")
	}
	return currentVersion(ctx, s.db)
}
