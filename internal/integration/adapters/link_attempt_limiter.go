package adapters

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/controle-financeiro/backend/internal/application/adapter"
)

const attemptKeyPrefix = "linking:attempts:"

// redisLinkAttemptLimiter implements adapter.LinkAttemptLimiter over Redis,
// so the counter survives process restarts and is shared between replicas.
type redisLinkAttemptLimiter struct {
	client      *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLinkAttemptLimiter creates a Redis-backed linking attempt limiter.
func NewLinkAttemptLimiter(client *redis.Client, maxAttempts int, window time.Duration) adapter.LinkAttemptLimiter {
	return &redisLinkAttemptLimiter{
		client:      client,
		maxAttempts: maxAttempts,
		window:      window,
	}
}

// Allow counts the attempt and reports whether the channel is still inside
// its budget for the current window. Redis being unreachable fails open: the
// throttle is protection against code brute-forcing, not a dependency the
// linking flow is allowed to die on.
func (l *redisLinkAttemptLimiter) Allow(ctx context.Context, channelID string) bool {
	key := attemptKeyPrefix + channelID

	attempts, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		slog.Warn("Link attempt limiter unavailable, failing open",
			"channelID", channelID,
			"error", err,
		)
		return true
	}

	if attempts == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			slog.Warn("Failed to set attempt window expiry", "channelID", channelID, "error", err)
		}
	}

	return attempts <= int64(l.maxAttempts)
}
