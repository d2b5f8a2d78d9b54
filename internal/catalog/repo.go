package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ProductRow is a product as stored in the catalog.
type ProductRow struct {
	ID          uuid.UUID
	Title       string
	Slug        string
	Description string
	PriceCents  int64
	Stock       int32
	ImageURL    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// BundleRow is a bundle as stored, carrying its member product ids.
type BundleRow struct {
	ID          uuid.UUID
	Title       string
	Slug        string
	Description string
	PriceCents  int64
	ProductIDs  []uuid.UUID
	ImageURL    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Repo runs catalog queries against Postgres.
type Repo struct {
	Pool *pgxpool.Pool
}

const productColumns = `id, title, slug, description, price_cents, stock, image_url, created_at, updated_at`
const bundleColumns = `id, title, slug, description, price_cents, product_ids, image_url, created_at, updated_at`

// ListProducts returns a page of products in insertion order.
func (r *Repo) ListProducts(ctx context.Context, limit, offset int32) ([]ProductRow, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY created_at, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ProductRow
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountProducts returns the total product count.
func (r *Repo) CountProducts(ctx context.Context) (int64, error) {
	var total int64
	err := r.Pool.QueryRow(ctx, `SELECT count(*) FROM products`).Scan(&total)
	return total, err
}

// GetProductBySlug returns a single product.
func (r *Repo) GetProductBySlug(ctx context.Context, slug string) (ProductRow, error) {
	return scanProduct(r.Pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE slug = $1`, slug))
}

// InsertProduct stores a new product.
func (r *Repo) InsertProduct(ctx context.Context, p ProductRow) (ProductRow, error) {
	return scanProduct(r.Pool.QueryRow(ctx, `
		INSERT INTO products (title, slug, description, price_cents, stock, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+productColumns,
		p.Title, p.Slug, p.Description, p.PriceCents, p.Stock, p.ImageURL))
}

// UpdateProduct rewrites an existing product.
func (r *Repo) UpdateProduct(ctx context.Context, p ProductRow) (ProductRow, error) {
	return scanProduct(r.Pool.QueryRow(ctx, `
		UPDATE products
		SET title = $2, slug = $3, description = $4, price_cents = $5, stock = $6, image_url = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+productColumns,
		toPgUUID(p.ID), p.Title, p.Slug, p.Description, p.PriceCents, p.Stock, p.ImageURL))
}

// DeleteProduct removes a product.
func (r *Repo) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, toPgUUID(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// ListBundles returns a page of bundles in insertion order.
func (r *Repo) ListBundles(ctx context.Context, limit, offset int32) ([]BundleRow, error) {
	rows, err := r.Pool.Query(ctx,
		`SELECT `+bundleColumns+` FROM bundles ORDER BY created_at, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BundleRow
	for rows.Next() {
		b, err := scanBundle(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// CountBundles returns the total bundle count.
func (r *Repo) CountBundles(ctx context.Context) (int64, error) {
	var total int64
	err := r.Pool.QueryRow(ctx, `SELECT count(*) FROM bundles`).Scan(&total)
	return total, err
}

// GetBundleBySlug returns a single bundle.
func (r *Repo) GetBundleBySlug(ctx context.Context, slug string) (BundleRow, error) {
	return scanBundle(r.Pool.QueryRow(ctx, `SELECT `+bundleColumns+` FROM bundles WHERE slug = $1`, slug))
}

// InsertBundle stores a new bundle.
func (r *Repo) InsertBundle(ctx context.Context, b BundleRow) (BundleRow, error) {
	return scanBundle(r.Pool.QueryRow(ctx, `
		INSERT INTO bundles (title, slug, description, price_cents, product_ids, image_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+bundleColumns,
		b.Title, b.Slug, b.Description, b.PriceCents, toPgUUIDs(b.ProductIDs), b.ImageURL))
}

// UpdateBundle rewrites an existing bundle.
func (r *Repo) UpdateBundle(ctx context.Context, b BundleRow) (BundleRow, error) {
	return scanBundle(r.Pool.QueryRow(ctx, `
		UPDATE bundles
		SET title = $2, slug = $3, description = $4, price_cents = $5, product_ids = $6, image_url = $7, updated_at = now()
		WHERE id = $1
		RETURNING `+bundleColumns,
		toPgUUID(b.ID), b.Title, b.Slug, b.Description, b.PriceCents, toPgUUIDs(b.ProductIDs), b.ImageURL))
}

// DeleteBundle removes a bundle.
func (r *Repo) DeleteBundle(ctx context.Context, id uuid.UUID) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM bundles WHERE id = $1`, toPgUUID(id))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanProduct(row pgx.Row) (ProductRow, error) {
	var (
		p  ProductRow
		id pgtype.UUID
	)
	err := row.Scan(&id, &p.Title, &p.Slug, &p.Description, &p.PriceCents, &p.Stock,
		&p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return ProductRow{}, err
	}
	if !id.Valid {
		return ProductRow{}, errors.New("catalog: invalid product id")
	}
	p.ID = uuid.UUID(id.Bytes)
	return p, nil
}

func scanBundle(row pgx.Row) (BundleRow, error) {
	var (
		b        BundleRow
		id       pgtype.UUID
		products []pgtype.UUID
	)
	err := row.Scan(&id, &b.Title, &b.Slug, &b.Description, &b.PriceCents, &products,
		&b.ImageURL, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return BundleRow{}, err
	}
	if !id.Valid {
		return BundleRow{}, errors.New("catalog: invalid bundle id")
	}
	b.ID = uuid.UUID(id.Bytes)
	for _, v := range products {
		if v.Valid {
			b.ProductIDs = append(b.ProductIDs, uuid.UUID(v.Bytes))
		}
	}
	return b, nil
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
