package messages

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Row is a contact-form message as stored.
type Row struct {
	ID          uuid.UUID
	SenderName  string
	SenderEmail string
	Subject     string
	Body        string
	Read        bool
	CreatedAt   time.Time
}

// Repo persists inbox messages in Postgres.
type Repo struct {
	Pool *pgxpool.Pool
}

const messageColumns = `id, sender_name, sender_email, subject, body, read, created_at`

// List returns a page of messages, newest first. When unreadOnly is set
// only unread messages are returned.
func (r *Repo) List(ctx context.Context, unreadOnly bool, limit, offset int32) ([]Row, error) {
	query := `SELECT ` + messageColumns + ` FROM messages`
	if unreadOnly {
		query += ` WHERE NOT read`
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		row, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Count returns the number of messages, optionally unread only.
func (r *Repo) Count(ctx context.Context, unreadOnly bool) (int64, error) {
	query := `SELECT COUNT(*) FROM messages`
	if unreadOnly {
		query += ` WHERE NOT read`
	}
	var total int64
	err := r.Pool.QueryRow(ctx, query).Scan(&total)
	return total, err
}

// MarkRead flags a message as read and returns the updated row.
func (r *Repo) MarkRead(ctx context.Context, id uuid.UUID) (Row, error) {
	row := r.Pool.QueryRow(ctx, `
		UPDATE messages SET read = TRUE WHERE id = $1
		RETURNING `+messageColumns, toPgUUID(id))
	return scanMessage(row)
}

// Delete removes a message.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, toPgUUID(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanMessage(row pgx.Row) (Row, error) {
	var m Row
	var id pgtype.UUID
	if err := row.Scan(&id, &m.SenderName, &m.SenderEmail, &m.Subject, &m.Body, &m.Read, &m.CreatedAt); err != nil {
		return Row{}, err
	}
	m.ID = uuid.UUID(id.Bytes)
	return m, nil
}

func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}
