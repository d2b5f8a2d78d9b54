package special

import (
	"context"
	"errors"
	"net/http"
	"time"

	validator "github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/noah-isme/storefront-admin/internal/common"
	"github.com/noah-isme/storefront-admin/internal/obs"
	"github.com/noah-isme/storefront-admin/internal/promo"
)

// store captures the persistence operations required by the service.
type store interface {
	List(ctx context.Context) ([]Record, error)
	Get(ctx context.Context, id uuid.UUID) (Record, error)
	Insert(ctx context.Context, rec Record) (Record, error)
	Update(ctx context.Context, rec Record) (Record, error)
	Delete(ctx context.Context, id uuid.UUID) error
	RecomputeStatuses(ctx context.Context, now time.Time) (int64, error)
}

// Input is the admin payload for creating or updating a special. All
// rejection of bad campaign data happens here, at the data-entry
// boundary, so the pricing core never has to guess.
type Input struct {
	Title         string    `json:"title" validate:"required,max=200"`
	StartsAt      time.Time `json:"startsAt" validate:"required"`
	EndsAt        time.Time `json:"endsAt" validate:"required,gtfield=StartsAt"`
	Scope         string    `json:"scope" validate:"required,oneof=product bundle sitewide"`
	TargetIDs     []string  `json:"targetIds" validate:"dive,uuid"`
	DiscountType  string    `json:"discountType" validate:"required,oneof=percent amount_off fixed_price"`
	DiscountValue float64   `json:"discountValue" validate:"gte=0"`
}

// Service manages the special registry.
type Service struct {
	Store    store
	Validate *validator.Validate
	Now      func() time.Time
}

// NewService constructs a Service with its own validator instance.
func NewService(store store) *Service {
	return &Service{Store: store, Validate: validator.New()}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// List returns all specials in registry order.
func (s *Service) List(ctx context.Context) ([]Record, error) {
	return s.Store.List(ctx)
}

// Get returns a single special.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	return s.Store.Get(ctx, id)
}

// Snapshot returns the current special set for pricing, in registry
// order. It satisfies the catalog's special source interface.
func (s *Service) Snapshot(ctx context.Context) ([]promo.Special, error) {
	records, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]promo.Special, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.Special)
	}
	return out, nil
}

// Create validates and stores a new special. The stored status label is
// seeded from the window so list filters are correct immediately.
func (s *Service) Create(ctx context.Context, in Input) (Record, error) {
	rec, err := s.fromInput(in)
	if err != nil {
		return Record{}, err
	}
	return s.Store.Insert(ctx, rec)
}

// Update validates and rewrites an existing special.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (Record, error) {
	rec, err := s.fromInput(in)
	if err != nil {
		return Record{}, err
	}
	rec.ID = id
	return s.Store.Update(ctx, rec)
}

// Delete removes a special.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.Store.Delete(ctx, id)
}

// RecomputeStatuses rewrites stale stored status labels from timestamps.
func (s *Service) RecomputeStatuses(ctx context.Context) (int64, error) {
	changed, err := s.Store.RecomputeStatuses(ctx, s.now())
	if err != nil {
		return 0, err
	}
	obs.ObserveStatusRecompute(changed)
	return changed, nil
}

func (s *Service) fromInput(in Input) (Record, error) {
	if err := s.Validate.Struct(in); err != nil {
		return Record{}, common.NewAppError("VALIDATION_ERROR", err.Error(), http.StatusUnprocessableEntity, err)
	}
	scope := promo.Scope(in.Scope)
	kind := promo.DiscountType(in.DiscountType)
	if kind == promo.DiscountPercent && in.DiscountValue > 100 {
		return Record{}, common.NewAppError("VALIDATION_ERROR", "percent discount cannot exceed 100", http.StatusUnprocessableEntity, nil)
	}
	if scope != promo.ScopeSitewide && len(in.TargetIDs) == 0 {
		return Record{}, common.NewAppError("VALIDATION_ERROR", "scoped specials require at least one target id", http.StatusUnprocessableEntity, nil)
	}
	targets, err := parseTargets(in.TargetIDs)
	if err != nil {
		return Record{}, common.NewAppError("VALIDATION_ERROR", "invalid target id", http.StatusUnprocessableEntity, err)
	}
	if scope == promo.ScopeSitewide {
		targets = nil
	}
	sp := promo.Special{
		Title:         in.Title,
		StartsAt:      in.StartsAt,
		EndsAt:        in.EndsAt,
		Scope:         scope,
		TargetIDs:     targets,
		DiscountType:  kind,
		DiscountValue: in.DiscountValue,
	}
	sp.Status = promo.StatusAt(sp, s.now())
	return Record{Special: sp}, nil
}

func parseTargets(values []string) ([]uuid.UUID, error) {
	if len(values) == 0 {
		return nil, nil
	}
	out := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, errors.Join(errors.New("target id "+v), err)
		}
		out = append(out, id)
	}
	return out, nil
}
