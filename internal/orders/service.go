package orders

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// Status is an order lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusPacked    Status = "packed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCanceled  Status = "canceled"
)

// ErrInvalidTransition is returned when a status update would move an
// order backwards or out of a terminal state.
var ErrInvalidTransition = errors.New("orders: invalid status transition")

// ErrUnknownStatus is returned for a status filter outside the lifecycle set.
var ErrUnknownStatus = errors.New("orders: unknown status")

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusPaid, StatusPacked, StatusShipped, StatusDelivered, StatusCanceled:
		return true
	}
	return false
}

func statusRank(s Status) int {
	switch s {
	case StatusPending:
		return 0
	case StatusPaid:
		return 1
	case StatusPacked:
		return 2
	case StatusShipped:
		return 3
	case StatusDelivered:
		return 4
	default:
		return -1
	}
}

func terminal(s Status) bool {
	return s == StatusDelivered || s == StatusCanceled
}

// CanTransition reports whether an order may move from one state to
// the target. Orders only move forward (skipping states is fine);
// cancellation is allowed from any non-terminal state.
func CanTransition(from, to Status) bool {
	if !ValidStatus(to) || from == to || terminal(from) {
		return false
	}
	if to == StatusCanceled {
		return true
	}
	return statusRank(to) > statusRank(from)
}

type store interface {
	List(ctx context.Context, status Status, limit, offset int32) ([]OrderRow, error)
	Count(ctx context.Context, status Status) (int64, error)
	Get(ctx context.Context, id uuid.UUID) (OrderRow, error)
	ListItems(ctx context.Context, orderID uuid.UUID) ([]ItemRow, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status Status) (OrderRow, error)
}

// Service exposes order administration.
type Service struct {
	Store store
}

// Detail pairs an order with its line items.
type Detail struct {
	Order OrderRow
	Items []ItemRow
}

// List returns a page of orders plus the filtered total.
func (s *Service) List(ctx context.Context, status Status, page, limit int) ([]OrderRow, int64, error) {
	if status != "" && !ValidStatus(status) {
		return nil, 0, ErrUnknownStatus
	}
	total, err := s.Store.Count(ctx, status)
	if err != nil {
		return nil, 0, err
	}
	offset := int32((page - 1) * limit)
	rows, err := s.Store.List(ctx, status, int32(limit), offset)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Get returns an order with its line items.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Detail, error) {
	order, err := s.Store.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	items, err := s.Store.ListItems(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Order: order, Items: items}, nil
}

// SetStatus moves an order to a new lifecycle state, enforcing the
// forward-only transition rules.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, to Status) (OrderRow, error) {
	current, err := s.Store.Get(ctx, id)
	if err != nil {
		return OrderRow{}, err
	}
	if !CanTransition(current.Status, to) {
		return OrderRow{}, ErrInvalidTransition
	}
	return s.Store.UpdateStatus(ctx, id, to)
}
