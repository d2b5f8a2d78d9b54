package stock

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ErrInsufficientStock is returned when a negative delta exceeds the
// quantity on hand.
var ErrInsufficientStock = errors.New("stock: adjustment would go negative")

type store interface {
	LowStock(ctx context.Context, threshold, limit, offset int32) ([]Level, error)
	CountLowStock(ctx context.Context, threshold int32) (int64, error)
	Adjust(ctx context.Context, productID uuid.UUID, delta int32) (Level, error)
	Exists(ctx context.Context, productID uuid.UUID) (bool, error)
}

// Service exposes stock administration against a configured low-stock
// threshold.
type Service struct {
	Store     store
	Threshold int32
}

// LowStock returns a page of products at or below the threshold.
func (s *Service) LowStock(ctx context.Context, page, limit int) ([]Level, int64, error) {
	total, err := s.Store.CountLowStock(ctx, s.Threshold)
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.Store.LowStock(ctx, s.Threshold, int32(limit), int32((page-1)*limit))
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Adjust applies a signed delta, distinguishing a missing product from
// an adjustment that would drive the quantity negative.
func (s *Service) Adjust(ctx context.Context, productID uuid.UUID, delta int32) (Level, error) {
	lvl, err := s.Store.Adjust(ctx, productID, delta)
	if err == nil {
		return lvl, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Level{}, err
	}
	found, existsErr := s.Store.Exists(ctx, productID)
	if existsErr != nil {
		return Level{}, existsErr
	}
	if found {
		return Level{}, ErrInsufficientStock
	}
	return Level{}, pgx.ErrNoRows
}
