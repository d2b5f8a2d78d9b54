package orders_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/storefront-admin/internal/orders"
)

type fakeStore struct {
	orders []orders.OrderRow
	items  map[uuid.UUID][]orders.ItemRow
}

func (f *fakeStore) List(_ context.Context, status orders.Status, limit, offset int32) ([]orders.OrderRow, error) {
	var filtered []orders.OrderRow
	for _, o := range f.orders {
		if status == "" || o.Status == status {
			filtered = append(filtered, o)
		}
	}
	if int(offset) >= len(filtered) {
		return nil, nil
	}
	end := int(offset) + int(limit)
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[offset:end], nil
}

func (f *fakeStore) Count(_ context.Context, status orders.Status) (int64, error) {
	var n int64
	for _, o := range f.orders {
		if status == "" || o.Status == status {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) Get(_ context.Context, id uuid.UUID) (orders.OrderRow, error) {
	for _, o := range f.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return orders.OrderRow{}, pgx.ErrNoRows
}

func (f *fakeStore) ListItems(_ context.Context, orderID uuid.UUID) ([]orders.ItemRow, error) {
	return f.items[orderID], nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id uuid.UUID, status orders.Status) (orders.OrderRow, error) {
	for i, o := range f.orders {
		if o.ID == id {
			f.orders[i].Status = status
			return f.orders[i], nil
		}
	}
	return orders.OrderRow{}, pgx.ErrNoRows
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to orders.Status
		want     bool
	}{
		{orders.StatusPending, orders.StatusPaid, true},
		{orders.StatusPaid, orders.StatusPacked, true},
		{orders.StatusPaid, orders.StatusShipped, true}, // skipping forward is fine
		{orders.StatusShipped, orders.StatusDelivered, true},
		{orders.StatusPending, orders.StatusCanceled, true},
		{orders.StatusShipped, orders.StatusCanceled, true},
		{orders.StatusPaid, orders.StatusPending, false},
		{orders.StatusDelivered, orders.StatusCanceled, false},
		{orders.StatusCanceled, orders.StatusPaid, false},
		{orders.StatusPaid, orders.StatusPaid, false},
		{orders.StatusPaid, orders.Status("mystery"), false},
	}
	for _, tc := range cases {
		if got := orders.CanTransition(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestListStatusFilter(t *testing.T) {
	store := &fakeStore{orders: []orders.OrderRow{
		{ID: uuid.New(), Status: orders.StatusPending},
		{ID: uuid.New(), Status: orders.StatusPaid},
		{ID: uuid.New(), Status: orders.StatusPending},
	}}
	svc := &orders.Service{Store: store}

	rows, total, err := svc.List(context.Background(), orders.StatusPending, 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, rows, 2)

	_, _, err = svc.List(context.Background(), orders.Status("bogus"), 1, 20)
	require.ErrorIs(t, err, orders.ErrUnknownStatus)
}

func TestGetWithItems(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{
		orders: []orders.OrderRow{{ID: id, Status: orders.StatusPaid, TotalCents: 5998}},
		items: map[uuid.UUID][]orders.ItemRow{
			id: {
				{ID: uuid.New(), OrderID: id, ItemKind: "product", Title: "Tee", UnitPriceCents: 2999, Quantity: 2},
			},
		},
	}
	svc := &orders.Service{Store: store}

	detail, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, detail.Items, 1)
	require.EqualValues(t, 2999, detail.Items[0].UnitPriceCents)
}

func TestSetStatusEnforcesTransitions(t *testing.T) {
	id := uuid.New()
	store := &fakeStore{orders: []orders.OrderRow{{ID: id, Status: orders.StatusPending}}}
	svc := &orders.Service{Store: store}
	ctx := context.Background()

	updated, err := svc.SetStatus(ctx, id, orders.StatusPaid)
	require.NoError(t, err)
	require.Equal(t, orders.StatusPaid, updated.Status)

	_, err = svc.SetStatus(ctx, id, orders.StatusPending)
	require.ErrorIs(t, err, orders.ErrInvalidTransition)

	_, err = svc.SetStatus(ctx, uuid.New(), orders.StatusPaid)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}
