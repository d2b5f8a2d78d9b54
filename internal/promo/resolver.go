package promo

import (
	"time"

	"github.com/google/uuid"
)

// Strategy selects the winning special among same-tier candidates when
// several active specials match the same item. Candidates arrive in
// registry (insertion) order.
type Strategy func(candidates []Special) *Special

// FirstMatch keeps the first candidate in registry order. This is the
// documented default tie-break; it is deliberately not "best discount
// wins", and swapping in a different policy does not touch the resolver.
func FirstMatch(candidates []Special) *Special {
	if len(candidates) == 0 {
		return nil
	}
	return &candidates[0]
}

// Resolution is the outcome of pricing a single catalog item.
type Resolution struct {
	PriceCents         int64
	OriginalPriceCents int64
	Applied            *Special
	Label              *DiscountLabel
}

// Discounted reports whether a special was applied.
func (r Resolution) Discounted() bool { return r.Applied != nil }

// Resolver computes display prices for catalog items. It performs no
// I/O: callers pass a snapshot of the special set and a single "now"
// captured once per call, so concurrent resolutions are independent.
type Resolver struct {
	TieBreak Strategy
}

// Resolve selects the one special (or none) that applies to the item and
// computes the discounted price. A scoped match wins over a sitewide
// match; discounts never stack. With no applicable special the base
// price is returned unchanged.
func (r Resolver) Resolve(kind ItemKind, id uuid.UUID, baseCents int64, specials []Special, now time.Time) (Resolution, error) {
	res := Resolution{PriceCents: baseCents, OriginalPriceCents: baseCents}
	chosen := r.pick(kind, id, specials, now)
	if chosen == nil {
		return res, nil
	}
	final, err := FinalPriceCents(baseCents, chosen.DiscountType, chosen.DiscountValue)
	if err != nil {
		return Resolution{}, err
	}
	res.PriceCents = final
	res.Applied = chosen
	res.Label = Label(baseCents, final)
	return res, nil
}

func (r Resolver) pick(kind ItemKind, id uuid.UUID, specials []Special, now time.Time) *Special {
	tie := r.TieBreak
	if tie == nil {
		tie = FirstMatch
	}
	var scoped, sitewide []Special
	for _, s := range specials {
		if !IsActiveAt(s, now) {
			continue
		}
		switch {
		case s.Scope == ScopeSitewide:
			sitewide = append(sitewide, s)
		case string(s.Scope) == string(kind) && s.Targets(id):
			scoped = append(scoped, s)
		}
	}
	if winner := tie(scoped); winner != nil {
		return winner
	}
	return tie(sitewide)
}
