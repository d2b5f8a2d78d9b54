package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OrderRow is an order as stored.
type OrderRow struct {
	ID            uuid.UUID
	CustomerName  string
	CustomerEmail string
	Status        Status
	TotalCents    int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ItemRow is a single order line. UnitPriceCents is the price that was
// resolved at checkout time; it never changes when specials do.
type ItemRow struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	ItemKind       string
	ItemID         uuid.UUID
	Title          string
	UnitPriceCents int64
	Quantity       int32
}

// Repo persists orders in Postgres.
type Repo struct {
	Pool *pgxpool.Pool
}

const orderColumns = `id, customer_name, customer_email, status, total_cents, created_at, updated_at`

// List returns a page of orders, newest first, optionally filtered by status.
func (r *Repo) List(ctx context.Context, status Status, limit, offset int32) ([]OrderRow, error) {
	var rows pgx.Rows
	var err error
	if status != "" {
		rows, err = r.Pool.Query(ctx, `SELECT `+orderColumns+` FROM orders
			WHERE status = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3`,
			string(status), limit, offset)
	} else {
		rows, err = r.Pool.Query(ctx, `SELECT `+orderColumns+` FROM orders
			ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`, limit, offset)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderRow
	for rows.Next() {
		row, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// Count returns the number of orders, optionally filtered by status.
func (r *Repo) Count(ctx context.Context, status Status) (int64, error) {
	var total int64
	var err error
	if status != "" {
		err = r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE status = $1`, string(status)).Scan(&total)
	} else {
		err = r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total)
	}
	return total, err
}

// Get returns a single order by id.
func (r *Repo) Get(ctx context.Context, id uuid.UUID) (OrderRow, error) {
	row := r.Pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, toPgUUID(id))
	return scanOrder(row)
}

// ListItems returns the line items of an order.
func (r *Repo) ListItems(ctx context.Context, orderID uuid.UUID) ([]ItemRow, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, order_id, item_kind, item_id, title, unit_price_cents, quantity
		FROM order_items WHERE order_id = $1 ORDER BY id`, toPgUUID(orderID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ItemRow
	for rows.Next() {
		var item ItemRow
		var id, oid, iid pgtype.UUID
		if err := rows.Scan(&id, &oid, &item.ItemKind, &iid, &item.Title, &item.UnitPriceCents, &item.Quantity); err != nil {
			return nil, err
		}
		item.ID = uuid.UUID(id.Bytes)
		item.OrderID = uuid.UUID(oid.Bytes)
		item.ItemID = uuid.UUID(iid.Bytes)
		out = append(out, item)
	}
	return out, rows.Err()
}

// UpdateStatus rewrites the order status and returns the updated row.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (OrderRow, error) {
	row := r.Pool.QueryRow(ctx, `
		UPDATE orders SET status = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+orderColumns, toPgUUID(id), string(status))
	return scanOrder(row)
}

func scanOrder(row pgx.Row) (OrderRow, error) {
	var o OrderRow
	var id pgtype.UUID
	var status string
	if err := row.Scan(&id, &o.CustomerName, &o.CustomerEmail, &status, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return OrderRow{}, err
	}
	o.ID = uuid.UUID(id.Bytes)
	o.Status = Status(status)
	return o, nil
}

func toPgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}
