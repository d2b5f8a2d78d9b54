package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestAllowWithinLimit(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	limiter := Limiter{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()}), Prefix: "rl:"}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, _, _, err := limiter.Allow(ctx, "ip:1.2.3.4", time.Minute, 3)
		if err != nil {
			t.Fatalf("allow %d: %v", i, err)
		}
		if !allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}

	allowed, remaining, _, err := limiter.Allow(ctx, "ip:1.2.3.4", time.Minute, 3)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if allowed {
		t.Fatal("fourth request should be rejected")
	}
	if remaining != 0 {
		t.Fatalf("expected 0 remaining, got %d", remaining)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	limiter := Limiter{Client: redis.NewClient(&redis.Options{Addr: mr.Addr()}), Prefix: "rl:"}
	ctx := context.Background()

	if allowed, _, _, _ := limiter.Allow(ctx, "ip:1.1.1.1", time.Minute, 1); !allowed {
		t.Fatal("first key should be allowed")
	}
	if allowed, _, _, _ := limiter.Allow(ctx, "ip:2.2.2.2", time.Minute, 1); !allowed {
		t.Fatal("second key should not share the first key's window")
	}
}

func TestDisabledLimiterAllows(t *testing.T) {
	limiter := Limiter{}
	allowed, _, _, err := limiter.Allow(context.Background(), "anything", time.Minute, 5)
	if err != nil {
		t.Fatalf("allow: %v", err)
	}
	if !allowed {
		t.Fatal("nil client must fail open")
	}
}
