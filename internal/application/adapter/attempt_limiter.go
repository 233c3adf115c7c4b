package adapter

import "context"

// LinkAttemptLimiter throttles linking-code consumption attempts per channel
// identity, so a chat cannot brute-force the 6-digit code space.
type LinkAttemptLimiter interface {
	// Allow reports whether the channel may attempt a link right now.
	// Implementations fail open: a limiter backend outage must never block
	// linking, only disable the throttle.
	Allow(ctx context.Context, channelID string) bool
}
