package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiterClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, client
}

func TestLinkAttemptLimiterAllowsWithinBudget(t *testing.T) {
	_, client := newTestLimiterClient(t)
	limiter := NewLinkAttemptLimiter(client, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !limiter.Allow(ctx, "chat-1") {
			t.Fatalf("attempt %d blocked, want allowed", i+1)
		}
	}
	if limiter.Allow(ctx, "chat-1") {
		t.Error("attempt 4 allowed, want blocked")
	}
}

func TestLinkAttemptLimiterIsPerChannel(t *testing.T) {
	_, client := newTestLimiterClient(t)
	limiter := NewLinkAttemptLimiter(client, 1, time.Minute)
	ctx := context.Background()

	if !limiter.Allow(ctx, "chat-1") {
		t.Fatal("first attempt on chat-1 blocked")
	}
	if limiter.Allow(ctx, "chat-1") {
		t.Error("second attempt on chat-1 allowed, want blocked")
	}
	if !limiter.Allow(ctx, "chat-2") {
		t.Error("chat-2 blocked by chat-1's attempts")
	}
}

func TestLinkAttemptLimiterWindowResets(t *testing.T) {
	mr, client := newTestLimiterClient(t)
	limiter := NewLinkAttemptLimiter(client, 1, time.Minute)
	ctx := context.Background()

	limiter.Allow(ctx, "chat-1")
	if limiter.Allow(ctx, "chat-1") {
		t.Fatal("attempt inside the window allowed, want blocked")
	}

	mr.FastForward(time.Minute + time.Second)

	if !limiter.Allow(ctx, "chat-1") {
		t.Error("attempt after window expiry blocked, want allowed")
	}
}

func TestLinkAttemptLimiterFailsOpen(t *testing.T) {
	mr, client := newTestLimiterClient(t)
	limiter := NewLinkAttemptLimiter(client, 1, time.Minute)

	mr.Close()

	if !limiter.Allow(context.Background(), "chat-1") {
		t.Error("limiter blocked while Redis is down, want fail open")
	}
}
