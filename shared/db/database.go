package db

import (
	"context"
	"database/sql"
)

// Database owns the connection pool shared by every repository.
type Database interface {
	Connect(ctx context.Context) error
	Close() error
	DB() *sql.DB
}
