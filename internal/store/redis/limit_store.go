package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const keyPrefix = "listkit:pagination:limit:"

// LimitStore keeps the page size picked for each list, scoped to a project
// domain. It implements listing.LimitStore.
type LimitStore struct {
	rdb    *goredis.Client
	domain string
	ttl    time.Duration
}

// NewLimitStore creates a store for one project domain. A zero ttl keeps
// preferences forever.
func NewLimitStore(rdb *goredis.Client, domain string, ttl time.Duration) *LimitStore {
	return &LimitStore{rdb: rdb, domain: domain, ttl: ttl}
}

func (s *LimitStore) key(list string) string {
	return keyPrefix + list + ":" + s.domain
}

// GetLimit returns the stored page size for list. ok is false when nothing
// valid is stored.
func (s *LimitStore) GetLimit(ctx context.Context, list string) (int, bool, error) {
	raw, err := s.rdb.Get(ctx, s.key(list)).Result()
	if errors.Is(err, goredis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get page size: %w", err)
	}

	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Warn().Str("key", s.key(list)).Str("value", raw).Msg("ignoring invalid stored page size")
		return 0, false, nil
	}
	return n, true, nil
}

// SetLimit stores the page size for list.
func (s *LimitStore) SetLimit(ctx context.Context, list string, limit int) error {
	if limit <= 0 {
		return fmt.Errorf("page size must be positive, got %d", limit)
	}
	if err := s.rdb.Set(ctx, s.key(list), strconv.Itoa(limit), s.ttl).Err(); err != nil {
		return fmt.Errorf("set page size: %w", err)
	}
	return nil
}

// Connect opens a client and waits for redis to answer a PING, retrying
// with exponential backoff.
func Connect(ctx context.Context, addr string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxElapsedTime = 5 * time.Second

	err := backoff.Retry(
		func() error { return rdb.Ping(ctx).Err() },
		backoff.WithContext(backoff.WithMaxRetries(b, 4), ctx),
	)
	if err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}
