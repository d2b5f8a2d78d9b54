package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newLocker(t *testing.T) (Locker, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	return Locker{R: redis.NewClient(&redis.Options{Addr: mr.Addr()}), RetryBackoff: 10 * time.Millisecond}, mr
}

func TestWithLockRuns(t *testing.T) {
	locker, mr := newLocker(t)

	ran := false
	err := locker.WithLock(context.Background(), "recompute", time.Second, func(context.Context) error {
		ran = true
		if !mr.Exists("recompute") {
			t.Error("lock key should exist while held")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("with lock: %v", err)
	}
	if !ran {
		t.Fatal("callback did not run")
	}
	if mr.Exists("recompute") {
		t.Fatal("lock should be released after the callback")
	}
}

func TestWithLockBlocksUntilCancel(t *testing.T) {
	locker, mr := newLocker(t)
	mr.Set("recompute", "someone-else")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := locker.WithLock(ctx, "recompute", time.Second, func(context.Context) error {
		t.Fatal("callback must not run while the lock is held elsewhere")
		return nil
	})
	if err == nil {
		t.Fatal("expected a context error")
	}
}

func TestReleaseKeepsForeignLock(t *testing.T) {
	locker, mr := newLocker(t)
	mr.Set("recompute", "someone-else")

	locker.release(context.Background(), "recompute", "not-my-token")
	if !mr.Exists("recompute") {
		t.Fatal("foreign lock must not be deleted")
	}
}
