package redis

import (
	"context"
	"time"

	"github.com/fakhrymubarak/weather-dashboard/internal/config"
	redisv9 "github.com/redis/go-redis/v9"
)

// NewClient returns a client for cfg.Addr, or nil when no address is
// configured so callers can fall back to in-process state.
func NewClient(cfg config.RedisConfig) *redisv9.Client {
	if cfg.Addr == "" {
		return nil
	}
	return redisv9.NewClient(&redisv9.Options{
		Addr: cfg.Addr,
	})
}

// Ping checks that the server is reachable within timeout.
func Ping(ctx context.Context, client *redisv9.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return client.Ping(ctx).Err()
}
