package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

type stubQuerier struct {
	calls int
}

func (s *stubQuerier) CountProducts(context.Context) (int64, error) {
	s.calls++
	return 12, nil
}
func (s *stubQuerier) CountBundles(context.Context) (int64, error)        { return 3, nil }
func (s *stubQuerier) CountOpenOrders(context.Context) (int64, error)     { return 7, nil }
func (s *stubQuerier) CountPendingReviews(context.Context) (int64, error) { return 2, nil }
func (s *stubQuerier) CountUnreadMessages(context.Context) (int64, error) { return 4, nil }
func (s *stubQuerier) CountLowStock(_ context.Context, threshold int32) (int64, error) {
	return int64(threshold), nil
}
func (s *stubQuerier) CountActiveSpecials(context.Context, time.Time) (int64, error) {
	return 1, nil
}

func TestSummaryCached(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	q := &stubQuerier{}
	svc := &Service{Q: q, R: rdb, TTL: time.Minute, LowStockThreshold: 5}

	first, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if q.calls != 1 {
		t.Fatalf("expected 1 DB pass, got %d", q.calls)
	}
	if first != second {
		t.Fatalf("cached summary diverged: %+v vs %+v", first, second)
	}
	if first.Products != 12 || first.LowStock != 5 || first.ActiveSpecials != 1 {
		t.Fatalf("unexpected summary: %+v", first)
	}
}

func TestSummaryWithoutRedis(t *testing.T) {
	q := &stubQuerier{}
	svc := &Service{Q: q, LowStockThreshold: 5}

	if _, err := svc.Summary(context.Background()); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if _, err := svc.Summary(context.Background()); err != nil {
		t.Fatalf("summary: %v", err)
	}
	if q.calls != 2 {
		t.Fatalf("expected 2 DB passes without cache, got %d", q.calls)
	}
}
