package pricing

import (
	"errors"
	"fmt"
	"time"
)

var ErrPromoNotActive = errors.New("promo code is not active")

type LineKind string

const (
	LineSiteAdjustment LineKind = "site_adjustment"
	LineTierDiscount   LineKind = "tier_discount"
	LinePromoCode      LineKind = "promo_code"
)

// Line is one adjustment's contribution to the total, retained so a frozen
// breakdown can explain itself without re-deriving from mutable price tables.
type Line struct {
	Kind        LineKind `json:"kind"`
	Label       string   `json:"label"`
	AmountCents int64    `json:"amount_cents"`
}

// Breakdown is the immutable result of a calculation. Once written onto a
// booking it is never recomputed.
type Breakdown struct {
	BaseCents  int64  `json:"base_cents"`
	Lines      []Line `json:"lines,omitempty"`
	TotalCents int64  `json:"total_cents"`
	Currency   string `json:"currency"`
}

// Calculate derives a price breakdown from a product definition and the given
// adjustments. Pure and deterministic: identical inputs always produce an
// identical breakdown. asOf drives promo validity, never time.Now.
func Calculate(product Product, adj Adjustments, asOf time.Time) (Breakdown, error) {
	total, err := NewMoney(product.BaseCents, product.Currency)
	if err != nil {
		return Breakdown{}, err
	}

	bd := Breakdown{
		BaseCents: total.Cents(),
		Currency:  total.Currency(),
	}

	if adj.Site != nil {
		total = total.AddCents(adj.Site.AmountCents)
		bd.Lines = append(bd.Lines, Line{
			Kind:        LineSiteAdjustment,
			Label:       adj.Site.SiteName,
			AmountCents: adj.Site.AmountCents,
		})
	}

	if adj.Tier != nil && adj.Tier.PercentOff > 0 {
		off := percentOf(total.Cents(), adj.Tier.PercentOff)
		total = total.AddCents(-off)
		bd.Lines = append(bd.Lines, Line{
			Kind:        LineTierDiscount,
			Label:       fmt.Sprintf("%s (-%.1f%%)", adj.Tier.Segment, adj.Tier.PercentOff),
			AmountCents: -off,
		})
	}

	if adj.Promo != nil {
		if !adj.Promo.ActiveAt(asOf) {
			return Breakdown{}, ErrPromoNotActive
		}
		off := adj.Promo.AmountOffCents
		if adj.Promo.PercentOff > 0 {
			off += percentOf(total.Cents(), adj.Promo.PercentOff)
		}
		if off > total.Cents() {
			off = total.Cents()
		}
		total = total.AddCents(-off)
		bd.Lines = append(bd.Lines, Line{
			Kind:        LinePromoCode,
			Label:       adj.Promo.Code,
			AmountCents: -off,
		})
	}

	bd.TotalCents = total.Floor().Cents()
	return bd, nil
}

func percentOf(cents int64, percent float64) int64 {
	return int64(float64(cents) * percent / 100.0)
}
