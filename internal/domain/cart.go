package domain

import "time"

// CartItem snapshots a product at add-to-cart time. Pricing inputs
// (sale, tiers) are embedded so the cart can be priced without the
// catalog being reachable.
type CartItem struct {
	ID                 string                 `json:"id"`
	ProductID          string                 `json:"productId"`
	Slug               string                 `json:"slug,omitempty"`
	Name               string                 `json:"name"`
	BasePriceCents     int64                  `json:"basePriceCents"`
	Currency           string                 `json:"currency"`
	Qty                int                    `json:"qty"`
	SelectedAttributes map[string]string      `json:"selectedAttributes,omitempty"`
	SelectedVariant    string                 `json:"selectedVariant,omitempty"`
	Sale               *Sale                  `json:"sale,omitempty"`
	VariantTiers       []PricingTier          `json:"variantTiers,omitempty"`
	ProductTiers       []PricingTier          `json:"productTiers,omitempty"`
	UnitPriceCents     int64                  `json:"unitPriceCents"`
	TotalCents         int64                  `json:"totalCents"`
	Snapshot           map[string]interface{} `json:"snapshot,omitempty"`
	AddedAt            time.Time              `json:"addedAt"`
}

// SameLine reports whether the item represents the same cart line as
// the given product plus attribute selection. Attribute comparison is
// order-insensitive.
func (i CartItem) SameLine(productID string, attrs map[string]string) bool {
	if i.ProductID != productID {
		return false
	}
	if len(i.SelectedAttributes) != len(attrs) {
		return false
	}
	for name, value := range attrs {
		if i.SelectedAttributes[name] != value {
			return false
		}
	}
	return true
}

type Cart struct {
	Items       []CartItem `json:"items"`
	LastUpdated time.Time  `json:"lastUpdated"`
}

// TotalCents sums the line totals.
func (c Cart) TotalCents() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.TotalCents
	}
	return total
}

// Quantity sums the line quantities.
func (c Cart) Quantity() int {
	var qty int
	for _, item := range c.Items {
		qty += item.Qty
	}
	return qty
}

func (c Cart) Empty() bool {
	return len(c.Items) == 0
}
