package pricing

import (
	"math"

	"storefront-gateway/internal/domain"
)

// ResolveTier selects the single best-applicable tier for qty: among
// tiers whose bracket covers qty, the one with the highest minQty
// wins, ties broken by stored order.
func ResolveTier(tiers []domain.PricingTier, qty int) *domain.PricingTier {
	var best *domain.PricingTier
	for i := range tiers {
		t := &tiers[i]
		if !t.Matches(qty) {
			continue
		}
		if best == nil || t.MinQty > best.MinQty {
			best = t
		}
	}
	return best
}

// ApplyTiers resolves the best tier for qty and applies it when the
// result is strictly lower than the incoming price. A tier that would
// keep or raise the price is skipped.
func ApplyTiers(priceCents int64, tiers []domain.PricingTier, qty int) (int64, *domain.PricingTier) {
	tier := ResolveTier(tiers, qty)
	if tier == nil {
		return priceCents, nil
	}
	adjusted := applyTier(priceCents, *tier)
	if adjusted >= priceCents {
		return priceCents, nil
	}
	return adjusted, tier
}

func applyTier(priceCents int64, t domain.PricingTier) int64 {
	var out int64
	switch t.Strategy {
	case domain.TierFixedPrice:
		out = int64(math.Round(t.Value))
	case domain.TierPercentOff:
		out = int64(math.Round(float64(priceCents) * (1 - t.Value/100)))
	case domain.TierAmountOff:
		out = priceCents - int64(math.Round(t.Value))
	default:
		out = priceCents
	}
	if out < 0 {
		return 0
	}
	return out
}
