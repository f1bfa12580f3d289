package pricing

import (
	"errors"
	"time"
)

var ErrNegativeAmount = errors.New("amount cannot be negative")

// Money is an integer-cents amount in a single currency. Construction rejects
// negative amounts; adjustment deltas may dip below zero mid-calculation and
// Floor brings the result back onto a valid amount.
type Money struct {
	cents    int64
	currency string
}

func NewMoney(cents int64, currency string) (Money, error) {
	if cents < 0 {
		return Money{}, ErrNegativeAmount
	}
	return Money{cents: cents, currency: currency}, nil
}

func (m Money) Cents() int64     { return m.cents }
func (m Money) Currency() string { return m.currency }

// AddCents applies a signed adjustment. Surcharges are positive, discounts
// negative.
func (m Money) AddCents(delta int64) Money {
	return Money{cents: m.cents + delta, currency: m.currency}
}

// Floor clamps a transiently negative amount to zero.
func (m Money) Floor() Money {
	if m.cents < 0 {
		return Money{cents: 0, currency: m.currency}
	}
	return m
}

// Product is the pricing-relevant snapshot of a catalog product definition.
// The catalog subsystem owns the source of truth; the calculator only ever
// sees this value.
type Product struct {
	BaseCents int64
	Currency  string
}

// SiteAdjustment is a per-location surcharge or rebate (negative amount).
type SiteAdjustment struct {
	SiteName    string
	AmountCents int64
}

// TierDiscount is a segment discount keyed to the subject's certification tier
// or membership segment.
type TierDiscount struct {
	Segment    string
	PercentOff float64
}

// PromoCode carries its validity window; the window is judged against the
// evaluation time passed to Calculate, not wall clock.
type PromoCode struct {
	Code           string
	AmountOffCents int64
	PercentOff     float64
	ValidFrom      *time.Time
	ValidTo        *time.Time
}

func (p PromoCode) ActiveAt(asOf time.Time) bool {
	if p.ValidFrom != nil && asOf.Before(*p.ValidFrom) {
		return false
	}
	if p.ValidTo != nil && asOf.After(*p.ValidTo) {
		return false
	}
	return true
}

// Adjustments collects the optional inputs to a price calculation. Application
// order is fixed: site adjustment, then tier discount, then promo code.
type Adjustments struct {
	Site  *SiteAdjustment
	Tier  *TierDiscount
	Promo *PromoCode
}
