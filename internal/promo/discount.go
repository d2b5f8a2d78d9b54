package promo

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownDiscountType is returned when a special carries a discount
// type the calculator does not recognise. Silently defaulting would
// misprice items, so this surfaces as a hard error.
var ErrUnknownDiscountType = errors.New("promo: unknown discount type")

// FloorCents is the minimum displayed price. Discounted prices are
// clamped here regardless of discount type so a campaign can never push
// a displayed price to zero or below. Business rule, not a bug.
const FloorCents int64 = 100

// FinalPriceCents applies the discount to the base price and returns the
// price to display, in minor currency units. Percent discounts are
// computed in basis points with integer arithmetic (floor); amount-off
// and fixed-price values are converted from major units with a single
// round. Degenerate magnitudes are clamped; an unknown type errors.
func FinalPriceCents(baseCents int64, kind DiscountType, value float64) (int64, error) {
	if baseCents < 0 {
		baseCents = 0
	}
	var final int64
	switch kind {
	case DiscountPercent:
		bps := int64(math.Round(value * 100))
		if bps < 0 {
			bps = 0
		}
		if bps > 10000 {
			bps = 10000
		}
		final = baseCents * (10000 - bps) / 10000
	case DiscountAmountOff:
		final = baseCents - majorToCents(value)
	case DiscountFixedPrice:
		final = majorToCents(value)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownDiscountType, kind)
	}
	if final < FloorCents {
		final = FloorCents
	}
	return final, nil
}

// DiscountLabel describes the saving between the original and final
// price, for display next to a struck-through base price.
type DiscountLabel struct {
	PercentOff     int   `json:"percentOff"`
	AmountOffCents int64 `json:"amountOffCents"`
}

// Label returns the saving between the two prices, or nil when the final
// price is not actually lower than the base price.
func Label(baseCents, finalCents int64) *DiscountLabel {
	if baseCents <= 0 || finalCents >= baseCents {
		return nil
	}
	saved := baseCents - finalCents
	percent := int(math.Round(float64(saved) / float64(baseCents) * 100))
	return &DiscountLabel{PercentOff: percent, AmountOffCents: saved}
}

func majorToCents(major float64) int64 {
	return int64(math.Round(major * 100))
}
