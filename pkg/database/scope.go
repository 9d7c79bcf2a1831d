package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of a pgx connection used by repositories.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// RequestScope holds the pooled connection serving one request.
type RequestScope struct {
	Conn Querier

	release func()
}

// Close returns the connection to the pool. Safe to call more than once.
func (s *RequestScope) Close() {
	if s.release == nil {
		return
	}
	s.release()
	s.release = nil
}

// Acquire takes a connection from the pool for the lifetime of a request.
// The returned RequestScope MUST be closed with defer scope.Close().
func (db *DB) Acquire(ctx context.Context) (*RequestScope, error) {
	conn, err := db.Pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return newPooledScope(conn), nil
}

func newPooledScope(conn *pgxpool.Conn) *RequestScope {
	return &RequestScope{Conn: conn, release: conn.Release}
}

// NewRequestScope wraps an existing connection (or transaction) without
// taking ownership of it. Close is a no-op.
func NewRequestScope(conn Querier) *RequestScope {
	return &RequestScope{Conn: conn}
}
