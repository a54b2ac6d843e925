package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestLimiter(t *testing.T, maxAttempts int64, window time.Duration) (*LoginLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewLoginLimiter(client, maxAttempts, window), mr
}

func TestLoginLimiter_AllowsUnderBudget(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "alice")
		if err != nil {
			t.Fatalf("allow: %v", err)
		}
		if !allowed {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
		if err := limiter.RecordFailure(ctx, "alice"); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}
}

func TestLoginLimiter_BlocksOverBudget(t *testing.T) {
	limiter, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := limiter.RecordFailure(ctx, "alice"); err != nil {
			t.Fatalf("record failure: %v", err)
		}
	}

	allowed, err := limiter.Allow(ctx, "alice")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if allowed {
		t.Fatalf("fourth attempt should be blocked")
	}

	// Other usernames are unaffected.
	allowed, err = limiter.Allow(ctx, "bob")
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if !allowed {
		t.Fatalf("bob should not be throttled by alice's failures")
	}
}

func TestLoginLimiter_ResetClearsBudget(t *testing.T) {
	limiter, _ := newTestLimiter(t, 2, time.Minute)
	ctx := context.Background()

	_ = limiter.RecordFailure(ctx, "alice")
	_ = limiter.RecordFailure(ctx, "alice")

	if allowed, _ := limiter.Allow(ctx, "alice"); allowed {
		t.Fatalf("expected alice to be blocked")
	}

	if err := limiter.Reset(ctx, "alice"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if allowed, _ := limiter.Allow(ctx, "alice"); !allowed {
		t.Fatalf("expected alice to be allowed after reset")
	}
}

// A counter without a TTL would throttle the username forever. Every
// RecordFailure must leave the key with an expiry, and later failures must
// not push the window out.
func TestLoginLimiter_CounterAlwaysCarriesTTL(t *testing.T) {
	limiter, mr := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()
	key := limiter.key("alice")

	if err := limiter.RecordFailure(ctx, "alice"); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	if ttl := mr.TTL(key); ttl <= 0 {
		t.Fatalf("counter has no TTL after first failure: %v", ttl)
	}

	mr.FastForward(30 * time.Second)
	if err := limiter.RecordFailure(ctx, "alice"); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	if ttl := mr.TTL(key); ttl <= 0 || ttl > 30*time.Second {
		t.Fatalf("second failure should not restart the window, ttl=%v", ttl)
	}
}

func TestLoginLimiter_WindowExpires(t *testing.T) {
	limiter, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	if err := limiter.RecordFailure(ctx, "alice"); err != nil {
		t.Fatalf("record failure: %v", err)
	}
	if allowed, _ := limiter.Allow(ctx, "alice"); allowed {
		t.Fatalf("expected alice to be blocked inside the window")
	}

	mr.FastForward(2 * time.Minute)

	if allowed, _ := limiter.Allow(ctx, "alice"); !allowed {
		t.Fatalf("expected alice to be allowed after the window lapsed")
	}
}
