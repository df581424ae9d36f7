package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// OpenRedis connects and pings once; the client is closed when the ping fails.
func OpenRedis(ctx context.Context, addr string, db int) (*redis.Client, error) {
	r := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	if err := Ping(ctx, r); err != nil {
		_ = r.Close()
		return nil, fmt.Errorf("redis %s db=%d: %w", addr, db, err)
	}
	return r, nil
}

// Ping bounds the round trip to pingTimeout. Used by the health endpoint.
func Ping(ctx context.Context, r redis.UniversalClient) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return r.Ping(ctx).Err()
}
