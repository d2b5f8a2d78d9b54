package special

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/noah-isme/storefront-admin/internal/promo"
)

// Record is a special as stored, including audit timestamps.
type Record struct {
	promo.Special
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repo persists specials in Postgres. Listing order is insertion order,
// which is the registry order the price resolver's default tie-break
// depends on.
type Repo struct {
	Pool *pgxpool.Pool
}

const selectColumns = `id, title, starts_at, ends_at, scope, target_ids, discount_type, discount_value, status, created_at, updated_at`

// List returns all specials in insertion order.
func (r *Repo) List(ctx context.Context) ([]Record, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+selectColumns+` FROM specials ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Get returns a single special by id.
func (r *Repo) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+selectColumns+` FROM specials WHERE id = $1`, toPgUUID(id))
	return scanRecord(row)
}

// Insert stores a new special and returns the persisted record.
func (r *Repo) Insert(ctx context.Context, rec Record) (Record, error) {
	row := r.Pool.QueryRow(ctx, `
		INSERT INTO specials (title, starts_at, ends_at, scope, target_ids, discount_type, discount_value, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+selectColumns,
		rec.Title, rec.StartsAt, rec.EndsAt, string(rec.Scope), toPgUUIDs(rec.TargetIDs),
		string(rec.DiscountType), rec.DiscountValue, string(rec.Status),
	)
	return scanRecord(row)
}

// Update rewrites an existing special and returns the persisted record.
func (r *Repo) Update(ctx context.Context, rec Record) (Record, error) {
	row := r.Pool.QueryRow(ctx, `
		UPDATE specials
		SET title = $2, starts_at = $3, ends_at = $4, scope = $5, target_ids = $6,
		    discount_type = $7, discount_value = $8, status = $9, updated_at = now()
		WHERE id = $1
		RETURNING `+selectColumns,
		toPgUUID(rec.ID), rec.Title, rec.StartsAt, rec.EndsAt, string(rec.Scope),
		toPgUUIDs(rec.TargetIDs), string(rec.DiscountType), rec.DiscountValue, string(rec.Status),
	)
	return scanRecord(row)
}

// Delete removes a special by id.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM specials WHERE id = $1`, toPgUUID(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// RecomputeStatuses rewrites the stored status label from the window
// timestamps, returning how many rows changed. The stored label is only
// a cache for list-filtering UIs; pricing never reads it.
func (r *Repo) RecomputeStatuses(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE specials
		SET status = derived.status, updated_at = now()
		FROM (
			SELECT id, CASE
				WHEN starts_at >= ends_at THEN 'expired'
				WHEN $1::timestamptz < starts_at THEN 'scheduled'
				WHEN $1::timestamptz >= ends_at THEN 'expired'
				ELSE 'active'
			END AS status
			FROM specials
		) AS derived
		WHERE specials.id = derived.id AND specials.status IS DISTINCT FROM derived.status`,
		now,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanRecord(row pgx.Row) (Record, error) {
	var (
		rec          Record
		id           pgtype.UUID
		targets      []pgtype.UUID
		scope        string
		discountType string
		status       string
	)
	err := row.Scan(&id, &rec.Title, &rec.StartsAt, &rec.EndsAt, &scope, &targets,
		&discountType, &rec.DiscountValue, &status, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return Record{}, err
	}
	if !id.Valid {
		return Record{}, errors.New("special: invalid id")
	}
	rec.ID = uuid.UUID(id.Bytes)
	rec.TargetIDs = fromPgUUIDs(targets)
	rec.Scope = promo.Scope(scope)
	rec.DiscountType = promo.DiscountType(discountType)
	rec.Status = promo.Status(status)
	return rec, nil
}

func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func toPgUUIDs(ids []uuid.UUID) []pgtype.UUID {
	out := make([]pgtype.UUID, 0, len(ids))
	for _, id := range ids {
		out = append(out, toPgUUID(id))
	}
	return out
}

func fromPgUUIDs(values []pgtype.UUID) []uuid.UUID {
	if len(values) == 0 {
		return nil
	}
	out := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		if v.Valid {
			out = append(out, uuid.UUID(v.Bytes))
		}
	}
	return out
}
