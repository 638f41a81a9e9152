// Package cache provides the Redis client and JSON cache helpers.
package cache

import (
	"context"
	"log/slog"
	"time"

	"dashstack/internal/middleware"

	"github.com/redis/go-redis/v9"
)

// Connect opens a Redis client for the given address. The client is handed
// to callers for injection; a nil return means Redis is unavailable and
// callers should degrade (no caching, fail-open rate limits).
func Connect(addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("Redis connection failed, continuing without cache",
			slog.String("addr", addr),
			slog.String("error", err.Error()),
		)
		return nil
	}

	middleware.Logger.Info("Redis connected successfully")
	return client
}
