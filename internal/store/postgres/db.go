package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// Open connects to postgres and retries the initial ping with exponential
// backoff, so the API can start while the database is still coming up.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 250 * time.Millisecond
	b.MaxElapsedTime = 30 * time.Second

	err = backoff.RetryNotify(
		func() error { return pool.Ping(ctx) },
		backoff.WithContext(backoff.WithMaxRetries(b, 8), ctx),
		func(err error, wait time.Duration) {
			log.Warn().Err(err).Dur("retry_in", wait).Msg("db ping failed")
		},
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return pool, nil
}

func MustOpen(ctx context.Context, dsn string) *pgxpool.Pool {
	pool, err := Open(ctx, dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect fail")
	}
	return pool
}
