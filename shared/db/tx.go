package db

import (
	"context"
	"database/sql"
	"fmt"
)

type txKey struct{}

// Executor is the query surface shared by *sql.DB and *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// WithTx attaches tx to ctx
func WithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// GetTx returns the transaction attached to ctx, if any
func GetTx(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(*sql.Tx)
	return tx, ok
}

// GetExecutor returns the transaction carried by ctx, or conn when there is none.
// Repositories must run every statement through it so that work inside
// RunInTransaction stays on the transaction's connection.
func GetExecutor(ctx context.Context, conn *sql.DB) Executor {
	if tx, ok := GetTx(ctx); ok {
		return tx
	}
	return conn
}

// RunInTransaction runs fn inside a transaction.
// A transaction already carried by ctx is joined: fn runs in it and the outermost
// caller decides on commit or rollback. Otherwise a new one is started, committed
// when fn succeeds and rolled back when it fails.
func RunInTransaction(ctx context.Context, conn *sql.DB, fn func(ctx context.Context) error) error {
	return runInTx(ctx, conn, nil, fn)
}

// RunReadOnly is RunInTransaction for work that only reads. It gives fn a consistent
// snapshot across several queries.
func RunReadOnly(ctx context.Context, conn *sql.DB, fn func(ctx context.Context) error) error {
	return runInTx(ctx, conn, &sql.TxOptions{ReadOnly: true}, fn)
}

func runInTx(ctx context.Context, conn *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	if _, ok := GetTx(ctx); ok {
		return fn(ctx)
	}

	tx, err := conn.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("failed to rollback transaction after error %v: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
