package reviews

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Row is a product review as stored. Reviews land unapproved and stay
// hidden from the storefront until a moderator approves them.
type Row struct {
	ID         uuid.UUID
	ProductID  uuid.UUID
	AuthorName string
	Rating     int32
	Comment    string
	Approved   bool
	CreatedAt  time.Time
}

// Repo persists reviews in Postgres.
type Repo struct {
	Pool *pgxpool.Pool
}

const reviewColumns = `id, product_id, author_name, rating, comment, approved, created_at`

// List returns a page of reviews, newest first. When pendingOnly is set
// only unapproved reviews are returned.
func (r *Repo) List(ctx context.Context, pendingOnly bool, limit, offset int32) ([]Row, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews`
	if pendingOnly {
		query += ` WHERE NOT approved`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		row, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Count returns the number of reviews, optionally unapproved only.
func (r *Repo) Count(ctx context.Context, pendingOnly bool) (int64, error) {
	query := `SELECT COUNT(*) FROM reviews`
	if pendingOnly {
		query += ` WHERE NOT approved`
	}
	var total int64
	err := r.Pool.QueryRow(ctx, query).Scan(&total)
	return total, err
}

// Approve marks a review as approved and returns the updated row.
func (r *Repo) Approve(ctx context.Context, id uuid.UUID) (Row, error) {
	row := r.Pool.QueryRow(ctx, `
		UPDATE reviews SET approved = TRUE WHERE id = $1
		RETURNING `+reviewColumns, toPgUUID(id))
	return scanReview(row)
}

// Delete removes a review.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, toPgUUID(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanReview(row pgx.Row) (Row, error) {
	var rv Row
	var id, pid pgtype.UUID
	if err := row.Scan(&id, &pid, &rv.AuthorName, &rv.Rating, &rv.Comment, &rv.Approved, &rv.CreatedAt); err != nil {
		return Row{}, err
	}
	rv.ID = uuid.UUID(id.Bytes)
	rv.ProductID = uuid.UUID(pid.Bytes)
	return rv, nil
}

func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}
