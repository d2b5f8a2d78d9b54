package stock

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Level is a product's stock position.
type Level struct {
	ProductID uuid.UUID
	Title     string
	Slug      string
	Stock     int32
}

// Repo reads and adjusts product stock.
type Repo struct {
	Pool *pgxpool.Pool
}

// LowStock returns products at or below the threshold, lowest first.
func (r *Repo) LowStock(ctx context.Context, threshold int32, limit, offset int32) ([]Level, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, title, slug, stock FROM products
		WHERE stock <= $1
		ORDER BY stock, title LIMIT $2 OFFSET $3`, threshold, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Level
	for rows.Next() {
		lvl, err := scanLevel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, lvl)
	}
	return out, rows.Err()
}

// CountLowStock returns how many products sit at or below the threshold.
func (r *Repo) CountLowStock(ctx context.Context, threshold int32) (int64, error) {
	var total int64
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE stock <= $1`, threshold).Scan(&total)
	return total, err
}

// Adjust applies a signed delta to a product's stock. The guard in the
// WHERE clause keeps the quantity from going negative; a zero-row
// update on an existing product means the delta was too large.
func (r *Repo) Adjust(ctx context.Context, productID uuid.UUID, delta int32) (Level, error) {
	row := r.Pool.QueryRow(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING id, title, slug, stock`,
		pgtype.UUID{Bytes: productID, Valid: true}, delta)
	return scanLevel(row)
}

// Exists reports whether the product is known.
func (r *Repo) Exists(ctx context.Context, productID uuid.UUID) (bool, error) {
	var found bool
	err := r.Pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id = $1)`,
		pgtype.UUID{Bytes: productID, Valid: true}).Scan(&found)
	return found, err
}

func scanLevel(row pgx.Row) (Level, error) {
	var lvl Level
	var id pgtype.UUID
	if err := row.Scan(&id, &lvl.Title, &lvl.Slug, &lvl.Stock); err != nil {
		return Level{}, err
	}
	lvl.ProductID = uuid.UUID(id.Bytes)
	return lvl, nil
}
