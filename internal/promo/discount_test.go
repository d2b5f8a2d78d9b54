package promo

import (
	"errors"
	"testing"
)

func TestFinalPricePercent(t *testing.T) {
	final, err := FinalPriceCents(10000, DiscountPercent, 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if final != 8000 {
		t.Fatalf("expected 8000 cents, got %d", final)
	}
	label := Label(10000, final)
	if label == nil {
		t.Fatal("expected a discount label")
	}
	if label.PercentOff != 20 || label.AmountOffCents != 2000 {
		t.Fatalf("unexpected label %+v", label)
	}
}

func TestFinalPricePercentFloors(t *testing.T) {
	// 15% off 999 cents is 849.15, displayed price floors to 849.
	final, err := FinalPriceCents(999, DiscountPercent, 15)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if final != 849 {
		t.Fatalf("expected 849 cents, got %d", final)
	}
}

func TestFinalPriceAmountOffBelowFloor(t *testing.T) {
	// R10.00 off a R1.50 item would be negative; clamp to the floor.
	final, err := FinalPriceCents(150, DiscountAmountOff, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if final != FloorCents {
		t.Fatalf("expected floor %d, got %d", FloorCents, final)
	}
}

func TestFinalPriceFixed(t *testing.T) {
	final, err := FinalPriceCents(10000, DiscountFixedPrice, 79.99)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if final != 7999 {
		t.Fatalf("expected 7999 cents, got %d", final)
	}
}

func TestFinalPriceFloorInvariant(t *testing.T) {
	cases := []struct {
		base  int64
		kind  DiscountType
		value float64
	}{
		{10000, DiscountPercent, 100},
		{10000, DiscountPercent, 250},
		{50, DiscountAmountOff, 99},
		{10000, DiscountFixedPrice, 0},
		{0, DiscountPercent, 50},
	}
	for i, c := range cases {
		final, err := FinalPriceCents(c.base, c.kind, c.value)
		if err != nil {
			t.Fatalf("case %d: unexpected error: %v", i, err)
		}
		if final < FloorCents {
			t.Fatalf("case %d: price %d below floor", i, final)
		}
	}
}

func TestFinalPriceUnknownType(t *testing.T) {
	_, err := FinalPriceCents(10000, DiscountType("bogo"), 1)
	if !errors.Is(err, ErrUnknownDiscountType) {
		t.Fatalf("expected ErrUnknownDiscountType, got %v", err)
	}
}

func TestLabelNilWithoutSaving(t *testing.T) {
	if Label(10000, 10000) != nil {
		t.Fatal("equal prices should have no label")
	}
	if Label(10000, 12000) != nil {
		t.Fatal("raised price should have no label")
	}
	if Label(0, 100) != nil {
		t.Fatal("zero base should have no label")
	}
}
