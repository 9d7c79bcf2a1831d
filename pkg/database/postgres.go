package database

import (
	"cmp"
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool sizing used when the commodity-api config leaves a value unset.
// The reference tables are small and read-mostly, so a modest pool suffices.
const (
	DefaultMaxConnections  int32 = 10
	DefaultMaxConnLifetime       = time.Hour
	DefaultMaxConnIdleTime       = 30 * time.Minute
)

// DB is the commodity store's shared pgx pool. Handlers never use it
// directly; WithRequestScope lends one connection per request.
type DB struct {
	*pgxpool.Pool
}

// Config carries the pool settings taken from config.DatabaseConfig.
type Config struct {
	URL             string
	MaxConnections  int32
	MinConnections  int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// NewConnection opens the commodity store and pings it, so a bad DATABASE_URL
// or an unreachable server fails at startup rather than on the first request.
func NewConnection(ctx context.Context, cfg *Config) (*DB, error) {
	poolConfig, err := buildPoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("open commodity store pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping commodity store: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// buildPoolConfig parses the connection string and applies the defaults for
// unset limits. MinConnections of 0 keeps the pool lazy.
func buildPoolConfig(cfg *Config) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse commodity store connection string: %w", err)
	}

	poolConfig.MaxConns = cmp.Or(cfg.MaxConnections, DefaultMaxConnections)
	poolConfig.MinConns = min(cfg.MinConnections, poolConfig.MaxConns)
	poolConfig.MaxConnLifetime = cmp.Or(cfg.MaxConnLifetime, DefaultMaxConnLifetime)
	poolConfig.MaxConnIdleTime = cmp.Or(cfg.MaxConnIdleTime, DefaultMaxConnIdleTime)

	return poolConfig, nil
}

// Close releases every pooled connection.
func (db *DB) Close() {
	db.Pool.Close()
}
