package tx

import (
	"context"
	"database/sql"
	"fmt"
)

// Manager wraps transactional boundaries for multi-statement writes.
type Manager interface {
	Within(ctx context.Context, fn func(context.Context) error) error
}

// Executor is the statement surface shared by *sql.DB and *sql.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type ctxKey struct{}

var _ Manager = (*SQLManager)(nil)

type SQLManager struct {
	db *sql.DB
}

func NewSQLManager(db *sql.DB) *SQLManager {
	return &SQLManager{db: db}
}

// Within runs fn inside one transaction. Nested calls join the outer one.
func (m *SQLManager) Within(ctx context.Context, fn func(context.Context) error) error {
	if _, ok := ctx.Value(ctxKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(context.WithValue(ctx, ctxKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Exec returns the transaction bound to ctx, or the manager's db outside one.
func (m *SQLManager) Exec(ctx context.Context) Executor {
	if tx, ok := ctx.Value(ctxKey{}).(*sql.Tx); ok {
		return tx
	}
	return m.db
}
