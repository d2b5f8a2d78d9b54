package analytics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repo runs the dashboard counting queries.
type Repo struct {
	Pool *pgxpool.Pool
}

func (r *Repo) CountProducts(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM products`)
}

func (r *Repo) CountBundles(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM bundles`)
}

// CountOpenOrders counts orders still in flight, i.e. not delivered
// and not canceled.
func (r *Repo) CountOpenOrders(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM orders WHERE status NOT IN ('delivered', 'canceled')`)
}

func (r *Repo) CountPendingReviews(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM reviews WHERE NOT approved`)
}

func (r *Repo) CountUnreadMessages(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM messages WHERE NOT read`)
}

func (r *Repo) CountLowStock(ctx context.Context, threshold int32) (int64, error) {
	var total int64
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE stock <= $1`, threshold).Scan(&total)
	return total, err
}

// CountActiveSpecials counts specials whose window contains now,
// derived from timestamps rather than the stored status label.
func (r *Repo) CountActiveSpecials(ctx context.Context, now time.Time) (int64, error) {
	var total int64
	err := r.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM specials
		WHERE starts_at <= $1 AND ends_at > $1 AND starts_at < ends_at`, now).Scan(&total)
	return total, err
}

func (r *Repo) count(ctx context.Context, query string) (int64, error) {
	var total int64
	err := r.Pool.QueryRow(ctx, query).Scan(&total)
	return total, err
}
