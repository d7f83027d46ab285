package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"peopledesk/internal/config"
)

// Database is the pgx-backed store. It implements Querier against the pool
// directly; mutations that need atomicity go through WithTx.
type Database struct {
	pool *pgxpool.Pool
	queries
}

func New(ctx context.Context, cfg config.DatabaseConfig) (*Database, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database configuration: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxOpenConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	slog.Info("Connected to database", "host", cfg.Host, "name", cfg.Name)
	return &Database{pool: pool, queries: queries{db: pool}}, nil
}

func (d *Database) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

func (d *Database) HealthCheck(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// WithTx runs fn against a single transaction, committing when fn returns
// nil and rolling back otherwise.
func (d *Database) WithTx(ctx context.Context, fn func(Querier) error) error {
	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&queries{db: tx}); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
