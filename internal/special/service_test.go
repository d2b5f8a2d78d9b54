package special

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/storefront-admin/internal/obs"
	"github.com/noah-isme/storefront-admin/internal/promo"
)

type fakeStore struct {
	records   []Record
	recompute int64
}

func (f *fakeStore) List(context.Context) ([]Record, error) {
	return append([]Record(nil), f.records...), nil
}

func (f *fakeStore) Get(_ context.Context, id uuid.UUID) (Record, error) {
	for _, rec := range f.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, pgx.ErrNoRows
}

func (f *fakeStore) Insert(_ context.Context, rec Record) (Record, error) {
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	f.records = append(f.records, rec)
	return rec, nil
}

func (f *fakeStore) Update(_ context.Context, rec Record) (Record, error) {
	for i, existing := range f.records {
		if existing.ID == rec.ID {
			rec.CreatedAt = existing.CreatedAt
			rec.UpdatedAt = time.Now()
			f.records[i] = rec
			return rec, nil
		}
	}
	return Record{}, pgx.ErrNoRows
}

func (f *fakeStore) Delete(_ context.Context, id uuid.UUID) error {
	for i, rec := range f.records {
		if rec.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeStore) RecomputeStatuses(context.Context, time.Time) (int64, error) {
	return f.recompute, nil
}

func fixedNow() time.Time {
	return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
}

func newTestService(store *fakeStore) *Service {
	svc := NewService(store)
	svc.Now = fixedNow
	return svc
}

func validInput() Input {
	return Input{
		Title:         "Winter sale",
		StartsAt:      fixedNow().Add(-time.Hour),
		EndsAt:        fixedNow().Add(time.Hour),
		Scope:         "sitewide",
		DiscountType:  "percent",
		DiscountValue: 10,
	}
}

func TestCreateSeedsDerivedStatus(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)

	rec, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.Equal(t, promo.StatusActive, rec.Status)

	future := validInput()
	future.StartsAt = fixedNow().Add(time.Hour)
	future.EndsAt = fixedNow().Add(2 * time.Hour)
	rec, err = svc.Create(context.Background(), future)
	require.NoError(t, err)
	require.Equal(t, promo.StatusScheduled, rec.Status)
}

func TestCreateRejectsBadInput(t *testing.T) {
	svc := newTestService(&fakeStore{})
	ctx := context.Background()

	inverted := validInput()
	inverted.StartsAt, inverted.EndsAt = inverted.EndsAt, inverted.StartsAt
	_, err := svc.Create(ctx, inverted)
	require.Error(t, err, "inverted window must be rejected")

	negative := validInput()
	negative.DiscountValue = -5
	_, err = svc.Create(ctx, negative)
	require.Error(t, err, "negative discount value must be rejected at the boundary")

	overPercent := validInput()
	overPercent.DiscountValue = 120
	_, err = svc.Create(ctx, overPercent)
	require.Error(t, err, "percent above 100 must be rejected")

	badType := validInput()
	badType.DiscountType = "bogo"
	_, err = svc.Create(ctx, badType)
	require.Error(t, err, "unknown discount type must be rejected")

	scopedNoTargets := validInput()
	scopedNoTargets.Scope = "product"
	_, err = svc.Create(ctx, scopedNoTargets)
	require.Error(t, err, "scoped special without targets must be rejected")
}

func TestCreateDropsTargetsForSitewide(t *testing.T) {
	svc := newTestService(&fakeStore{})
	in := validInput()
	in.TargetIDs = []string{uuid.NewString()}
	rec, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	require.Empty(t, rec.TargetIDs)
}

func TestSnapshotPreservesRegistryOrder(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store)
	ctx := context.Background()

	first := validInput()
	first.Title = "first"
	second := validInput()
	second.Title = "second"
	_, err := svc.Create(ctx, first)
	require.NoError(t, err)
	_, err = svc.Create(ctx, second)
	require.NoError(t, err)

	specials, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, specials, 2)
	require.Equal(t, "first", specials[0].Title)
	require.Equal(t, "second", specials[1].Title)
}

func TestRecomputeStatuses(t *testing.T) {
	store := &fakeStore{recompute: 3}
	svc := newTestService(store)
	changed, err := svc.RecomputeStatuses(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 3, changed)
}

func TestRecomputeStatusesMovesCounters(t *testing.T) {
	obs.MustRegisterDomainMetrics("test", prometheus.NewRegistry())
	runsBefore := testutil.ToFloat64(obs.SpecialStatusRecomputeRuns)
	changedBefore := testutil.ToFloat64(obs.SpecialStatusRecomputeChanged)

	store := &fakeStore{recompute: 2}
	svc := newTestService(store)
	_, err := svc.RecomputeStatuses(context.Background())
	require.NoError(t, err)

	require.Equal(t, runsBefore+1, testutil.ToFloat64(obs.SpecialStatusRecomputeRuns))
	require.Equal(t, changedBefore+2, testutil.ToFloat64(obs.SpecialStatusRecomputeChanged))
}
