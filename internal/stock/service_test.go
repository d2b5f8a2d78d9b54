package stock

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	levels map[uuid.UUID]*Level
}

func (f *fakeStore) LowStock(_ context.Context, threshold, limit, offset int32) ([]Level, error) {
	var out []Level
	for _, lvl := range f.levels {
		if lvl.Stock <= threshold {
			out = append(out, *lvl)
		}
	}
	return out, nil
}

func (f *fakeStore) CountLowStock(_ context.Context, threshold int32) (int64, error) {
	var n int64
	for _, lvl := range f.levels {
		if lvl.Stock <= threshold {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) Adjust(_ context.Context, productID uuid.UUID, delta int32) (Level, error) {
	lvl, ok := f.levels[productID]
	if !ok || lvl.Stock+delta < 0 {
		return Level{}, pgx.ErrNoRows
	}
	lvl.Stock += delta
	return *lvl, nil
}

func (f *fakeStore) Exists(_ context.Context, productID uuid.UUID) (bool, error) {
	_, ok := f.levels[productID]
	return ok, nil
}

func newFake(levels ...Level) *fakeStore {
	f := &fakeStore{levels: map[uuid.UUID]*Level{}}
	for i := range levels {
		f.levels[levels[i].ProductID] = &levels[i]
	}
	return f
}

func TestLowStockThreshold(t *testing.T) {
	store := newFake(
		Level{ProductID: uuid.New(), Title: "scarce", Stock: 2},
		Level{ProductID: uuid.New(), Title: "plenty", Stock: 50},
	)
	svc := &Service{Store: store, Threshold: 5}

	rows, total, err := svc.LowStock(context.Background(), 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, rows, 1)
	require.Equal(t, "scarce", rows[0].Title)
}

func TestAdjust(t *testing.T) {
	id := uuid.New()
	store := newFake(Level{ProductID: id, Stock: 3})
	svc := &Service{Store: store, Threshold: 5}
	ctx := context.Background()

	lvl, err := svc.Adjust(ctx, id, 10)
	require.NoError(t, err)
	require.EqualValues(t, 13, lvl.Stock)

	lvl, err = svc.Adjust(ctx, id, -13)
	require.NoError(t, err)
	require.EqualValues(t, 0, lvl.Stock)
}

func TestAdjustNeverNegative(t *testing.T) {
	id := uuid.New()
	store := newFake(Level{ProductID: id, Stock: 3})
	svc := &Service{Store: store, Threshold: 5}

	_, err := svc.Adjust(context.Background(), id, -4)
	require.ErrorIs(t, err, ErrInsufficientStock)
	require.EqualValues(t, 3, store.levels[id].Stock)
}

func TestAdjustMissingProduct(t *testing.T) {
	svc := &Service{Store: newFake(), Threshold: 5}

	_, err := svc.Adjust(context.Background(), uuid.New(), 1)
	require.ErrorIs(t, err, pgx.ErrNoRows)
}
