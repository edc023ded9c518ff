// README: Postgres connection pool initialization using pgxpool, waiting for the server with backoff.
package infra

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

func NewDB(ctx context.Context, dsn string, wait time.Duration, logger *zap.Logger) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	logger.Info("connecting to postgres")
	err = retry(ctx, wait, logger, "postgres", func() error {
		return pool.Ping(ctx)
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres unreachable: %w", err)
	}
	return pool, nil
}

// retry runs op with exponential backoff until it succeeds, wait elapses or ctx ends.
func retry(ctx context.Context, wait time.Duration, logger *zap.Logger, what string, op func() error) error {
	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = wait
	policy.MaxInterval = 10 * time.Second

	return backoff.RetryNotify(op, backoff.WithContext(policy, ctx), func(err error, next time.Duration) {
		logger.Warn(what+" connection failed, retrying",
			zap.Error(err),
			zap.Duration("next_attempt_in", next))
	})
}
