package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Querier defines the database access required for the dashboard summary.
type Querier interface {
	CountProducts(ctx context.Context) (int64, error)
	CountBundles(ctx context.Context) (int64, error)
	CountOpenOrders(ctx context.Context) (int64, error)
	CountPendingReviews(ctx context.Context) (int64, error)
	CountUnreadMessages(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context, threshold int32) (int64, error)
	CountActiveSpecials(ctx context.Context, now time.Time) (int64, error)
}

// Summary is the dashboard landing payload.
type Summary struct {
	Products       int64 `json:"products"`
	Bundles        int64 `json:"bundles"`
	OpenOrders     int64 `json:"openOrders"`
	PendingReviews int64 `json:"pendingReviews"`
	UnreadMessages int64 `json:"unreadMessages"`
	LowStock       int64 `json:"lowStock"`
	ActiveSpecials int64 `json:"activeSpecials"`
}

// Service provides the cached dashboard summary.
type Service struct {
	Q                 Querier
	R                 *redis.Client
	TTL               time.Duration
	LowStockThreshold int32
	Now               func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

const summaryKey = "an:summary"

// Summary returns the dashboard counts, served from Redis within the
// TTL. Staleness up to the TTL is acceptable for dashboard numbers;
// the active-specials count is still derived from windows at compute
// time, never from stored labels.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	if s == nil || s.Q == nil {
		return Summary{}, fmt.Errorf("analytics service not configured")
	}
	if cached, ok := s.fromCache(ctx); ok {
		return cached, nil
	}
	var sum Summary
	var err error
	if sum.Products, err = s.Q.CountProducts(ctx); err != nil {
		return Summary{}, err
	}
	if sum.Bundles, err = s.Q.CountBundles(ctx); err != nil {
		return Summary{}, err
	}
	if sum.OpenOrders, err = s.Q.CountOpenOrders(ctx); err != nil {
		return Summary{}, err
	}
	if sum.PendingReviews, err = s.Q.CountPendingReviews(ctx); err != nil {
		return Summary{}, err
	}
	if sum.UnreadMessages, err = s.Q.CountUnreadMessages(ctx); err != nil {
		return Summary{}, err
	}
	if sum.LowStock, err = s.Q.CountLowStock(ctx, s.LowStockThreshold); err != nil {
		return Summary{}, err
	}
	if sum.ActiveSpecials, err = s.Q.CountActiveSpecials(ctx, s.now()); err != nil {
		return Summary{}, err
	}
	s.store(ctx, sum)
	return sum, nil
}

func (s *Service) fromCache(ctx context.Context) (Summary, bool) {
	if s.R == nil || s.TTL <= 0 {
		return Summary{}, false
	}
	data, err := s.R.Get(ctx, summaryKey).Bytes()
	if err != nil {
		return Summary{}, false
	}
	var sum Summary
	if err := json.Unmarshal(data, &sum); err != nil {
		return Summary{}, false
	}
	return sum, true
}

func (s *Service) store(ctx context.Context, sum Summary) {
	if s.R == nil || s.TTL <= 0 {
		return
	}
	data, err := json.Marshal(sum)
	if err != nil {
		return
	}
	_ = s.R.Set(ctx, summaryKey, data, s.TTL).Err()
}
