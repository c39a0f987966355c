package pricing

import (
	"time"

	"storefront-gateway/internal/domain"
)

// Quote is the priced view of one cart line. Sale and tier percentages
// are reported independently so the UI can label the two badges even
// though the reductions compose in the unit price.
type Quote struct {
	BasePriceCents     int64               `json:"basePriceCents"`
	UnitPriceCents     int64               `json:"unitPriceCents"`
	TotalCents         int64               `json:"totalCents"`
	SalePercent        float64             `json:"saleDiscountPercent"`
	TierPercent        float64             `json:"tierDiscountPercent"`
	DiscountTotalCents int64               `json:"discountAmountTotal"`
	AppliedVariant     *domain.SaleVariant `json:"appliedSale,omitempty"`
	AppliedTier        *domain.PricingTier `json:"appliedTier,omitempty"`
}

// QuoteItem prices one cart line: base price, then the matching sale
// variant (cheaper of its percent and amount candidates), then
// variant-level tiers, then product-level tiers on the already
// adjusted price. It never fails; malformed sale or tier data degrades
// to the base price so pricing can never break cart rendering.
func QuoteItem(item domain.CartItem, now time.Time) Quote {
	base := item.BasePriceCents
	if base < 0 {
		base = 0
	}
	qty := item.Qty
	if qty < 1 {
		qty = 1
	}

	unit := base
	var appliedVariant *domain.SaleVariant
	if variant := MatchVariant(item.Sale, item.SelectedAttributes, qty, now); variant != nil {
		if discounted, ok := cheapest(unit, variant.Discounts()); ok {
			unit = discounted
			appliedVariant = variant
		}
	}
	postSale := unit

	unit, variantTier := ApplyTiers(unit, item.VariantTiers, qty)
	unit, productTier := ApplyTiers(unit, item.ProductTiers, qty)
	appliedTier := productTier
	if appliedTier == nil {
		appliedTier = variantTier
	}

	q := Quote{
		BasePriceCents:     base,
		UnitPriceCents:     unit,
		TotalCents:         unit * int64(qty),
		DiscountTotalCents: (base - unit) * int64(qty),
		AppliedVariant:     appliedVariant,
		AppliedTier:        appliedTier,
	}
	if base > 0 && postSale < base {
		q.SalePercent = float64(base-postSale) / float64(base) * 100
	}
	if postSale > 0 && unit < postSale {
		q.TierPercent = float64(postSale-unit) / float64(postSale) * 100
	}
	return q
}

// cheapest applies every discount candidate to the price and keeps the
// lowest result. ok is false when no candidate reduces anything to
// apply, i.e. the variant is inert.
func cheapest(priceCents int64, discounts []domain.Discount) (int64, bool) {
	if len(discounts) == 0 {
		return priceCents, false
	}
	best := priceCents
	for _, d := range discounts {
		if candidate := d.Apply(priceCents); candidate < best {
			best = candidate
		}
	}
	return best, true
}
