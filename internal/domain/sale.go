package domain

import (
	"math"
	"strings"
	"time"
)

type SaleType string

const (
	SaleFlash   SaleType = "Flash"
	SaleLimited SaleType = "Limited"
	SaleNormal  SaleType = "Normal"
)

// Sale is a product-level promotion holding an ordered list of scoped
// discount rules.
type Sale struct {
	ID       string        `json:"id"`
	Active   bool          `json:"active"`
	Type     SaleType      `json:"type"`
	StartsAt *time.Time    `json:"startsAt,omitempty"`
	EndsAt   *time.Time    `json:"endsAt,omitempty"`
	Variants []SaleVariant `json:"variants,omitempty"`
}

// InWindow reports whether now falls inside the sale's date window.
// A missing bound places no constraint on that side.
func (s Sale) InWindow(now time.Time) bool {
	if s.StartsAt != nil && now.Before(*s.StartsAt) {
		return false
	}
	if s.EndsAt != nil && now.After(*s.EndsAt) {
		return false
	}
	return true
}

// SaleVariant is one discount rule of a sale. AttributeName and
// AttributeValue scope the rule; empty or "All" means unscoped on that
// axis. MaxBuys of 0 means no purchase cap.
type SaleVariant struct {
	ID             string  `json:"id"`
	AttributeName  string  `json:"attributeName,omitempty"`
	AttributeValue string  `json:"attributeValue,omitempty"`
	Percent        float64 `json:"discount"`
	AmountOffCents int64   `json:"amountOff"`
	MaxBuys        int     `json:"maxBuys"`
	BoughtCount    int     `json:"boughtCount"`
}

type VariantScope int

const (
	// ScopeGlobal applies regardless of attribute selection.
	ScopeGlobal VariantScope = iota
	// ScopeAttribute applies to any value of one attribute dimension.
	ScopeAttribute
	// ScopeExact applies to one exact attribute value.
	ScopeExact
)

// Scope classifies the variant per its attribute bindings.
func (v SaleVariant) Scope() VariantScope {
	switch {
	case isAll(v.AttributeName):
		return ScopeGlobal
	case isAll(v.AttributeValue):
		return ScopeAttribute
	default:
		return ScopeExact
	}
}

// Remaining returns how many units the purchase cap still allows, or
// -1 when the variant is uncapped.
func (v SaleVariant) Remaining() int {
	if v.MaxBuys <= 0 {
		return -1
	}
	left := v.MaxBuys - v.BoughtCount
	if left < 0 {
		left = 0
	}
	return left
}

// Discounts returns the variant's discount candidates as tagged
// values. An empty result means the variant is inert.
func (v SaleVariant) Discounts() []Discount {
	var out []Discount
	if v.Percent > 0 {
		out = append(out, Discount{Kind: DiscountPercent, Percent: v.Percent})
	}
	if v.AmountOffCents > 0 {
		out = append(out, Discount{Kind: DiscountAmount, AmountCents: v.AmountOffCents})
	}
	return out
}

func isAll(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "All")
}

type DiscountKind int

const (
	DiscountPercent DiscountKind = iota
	DiscountAmount
)

// Discount is a tagged percent-or-amount reduction, decided once at
// data ingestion instead of re-branching on the raw variant fields.
type Discount struct {
	Kind        DiscountKind `json:"kind"`
	Percent     float64      `json:"percent,omitempty"`
	AmountCents int64        `json:"amountCents,omitempty"`
}

// Apply returns the price after the discount, floored at zero.
func (d Discount) Apply(priceCents int64) int64 {
	var out int64
	switch d.Kind {
	case DiscountPercent:
		out = int64(math.Round(float64(priceCents) * (1 - d.Percent/100)))
	case DiscountAmount:
		out = priceCents - d.AmountCents
	default:
		out = priceCents
	}
	if out < 0 {
		return 0
	}
	return out
}
