package database

import (
	"context"
	"fmt"
	"time"

	"food-delivery/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	maxRetries = 10
	retryDelay = 2 * time.Second
	pingTTL    = 5 * time.Second
)

// Connect opens a pool and retries until Postgres answers a ping.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("invalid database config: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxConns)
	}
	pcfg.MaxConnIdleTime = 5 * time.Minute

	for i := 1; i <= maxRetries; i++ {
		var pool *pgxpool.Pool
		pool, err = pgxpool.NewWithConfig(ctx, pcfg)
		if err == nil {
			err = Ping(ctx, pool)
			if err == nil {
				return pool, nil
			}
			pool.Close()
		}

		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return nil, fmt.Errorf("db connect canceled: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("database unreachable after %d attempts: %w", maxRetries, err)
}

func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pctx, cancel := context.WithTimeout(ctx, pingTTL)
	defer cancel()
	return pool.Ping(pctx)
}
