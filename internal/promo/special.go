package promo

import (
	"time"

	"github.com/google/uuid"
)

// Scope describes the targeting granularity of a special.
type Scope string

const (
	ScopeProduct  Scope = "product"
	ScopeBundle   Scope = "bundle"
	ScopeSitewide Scope = "sitewide"
)

// DiscountType selects the arithmetic applied to the base price.
type DiscountType string

const (
	DiscountPercent    DiscountType = "percent"
	DiscountAmountOff  DiscountType = "amount_off"
	DiscountFixedPrice DiscountType = "fixed_price"
)

// Status is the lifecycle label persisted alongside a special. It is a
// cache of the window evaluation and may lag behind wall-clock time;
// pricing always re-derives it via StatusAt.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
)

// ItemKind identifies the kind of catalog item being priced.
type ItemKind string

const (
	KindProduct ItemKind = "product"
	KindBundle  ItemKind = "bundle"
)

// Special is a time-boxed promotional campaign targeting a product, a
// bundle, or the entire catalog. DiscountValue is denominated in
// percentage points for percent specials and in currency major units
// otherwise.
type Special struct {
	ID            uuid.UUID
	Title         string
	StartsAt      time.Time
	EndsAt        time.Time
	Scope         Scope
	TargetIDs     []uuid.UUID
	DiscountType  DiscountType
	DiscountValue float64
	Status        Status
}

// Targets reports whether the special's target set includes the given
// item. An empty target set matches nothing, so a scoped special with
// missing targets safely degrades to "no discount".
func (s Special) Targets(id uuid.UUID) bool {
	for _, t := range s.TargetIDs {
		if t == id {
			return true
		}
	}
	return false
}

// ValidScope reports whether the scope is one of the known values.
func ValidScope(s Scope) bool {
	switch s {
	case ScopeProduct, ScopeBundle, ScopeSitewide:
		return true
	}
	return false
}

// ValidDiscountType reports whether the discount type is known.
func ValidDiscountType(t DiscountType) bool {
	switch t {
	case DiscountPercent, DiscountAmountOff, DiscountFixedPrice:
		return true
	}
	return false
}
