package pricing

import (
	"time"

	"storefront-gateway/internal/domain"
)

// MatchVariant resolves which sale variant, if any, applies to a cart
// line with the given attribute selection and quantity.
//
// Rules are evaluated in priority order over the variants' stored
// order: first any global variant, then any variant scoped to one of
// the selected attribute names, then any exact name+value match. When
// more than one global variant exists the first listed wins.
//
// A matched variant with a purchase cap is accepted only while
// qty <= maxBuys-boughtCount; otherwise the whole sale is discarded
// and the line prices at base.
func MatchVariant(sale *domain.Sale, selected map[string]string, qty int, now time.Time) *domain.SaleVariant {
	if sale == nil || !sale.Active {
		return nil
	}
	if sale.Type == domain.SaleFlash && !sale.InWindow(now) {
		return nil
	}

	match := matchGlobal(sale.Variants)
	if match == nil {
		match = matchAttribute(sale.Variants, selected)
	}
	if match == nil {
		match = matchExact(sale.Variants, selected)
	}
	if match == nil {
		return nil
	}
	if left := match.Remaining(); left >= 0 && qty > left {
		return nil
	}
	return match
}

func matchGlobal(variants []domain.SaleVariant) *domain.SaleVariant {
	for i := range variants {
		if variants[i].Scope() == domain.ScopeGlobal {
			return &variants[i]
		}
	}
	return nil
}

func matchAttribute(variants []domain.SaleVariant, selected map[string]string) *domain.SaleVariant {
	for i := range variants {
		v := &variants[i]
		if v.Scope() != domain.ScopeAttribute {
			continue
		}
		if _, ok := selected[v.AttributeName]; ok {
			return v
		}
	}
	return nil
}

func matchExact(variants []domain.SaleVariant, selected map[string]string) *domain.SaleVariant {
	for i := range variants {
		v := &variants[i]
		if v.Scope() != domain.ScopeExact {
			continue
		}
		if selected[v.AttributeName] == v.AttributeValue {
			return v
		}
	}
	return nil
}
