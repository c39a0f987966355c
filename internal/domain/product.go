package domain

import "time"

type Product struct {
	ID         string           `json:"id"`
	Slug       string           `json:"slug"`
	Name       string           `json:"name"`
	PriceCents int64            `json:"priceCents"`
	Currency   string           `json:"currency"`
	Stock      int              `json:"stock"`
	Attributes []AttributeGroup `json:"attributes,omitempty"`
	Tiers      []PricingTier    `json:"tiers,omitempty"`
	Sale       *Sale            `json:"sale,omitempty"`
	Images     []string         `json:"images,omitempty"`
	CreatedAt  time.Time        `json:"createdAt"`
}

// AttributeGroup is one attribute dimension of a product, e.g. "Size"
// with children "S", "M", "L".
type AttributeGroup struct {
	Name     string           `json:"name"`
	Children []AttributeChild `json:"children,omitempty"`
}

// AttributeChild is a selectable value within an attribute group. A
// zero PriceCents means the child inherits the product base price.
type AttributeChild struct {
	Value      string        `json:"value"`
	PriceCents int64         `json:"priceCents,omitempty"`
	Stock      int           `json:"stock"`
	Tiers      []PricingTier `json:"tiers,omitempty"`
}

type TierStrategy string

const (
	TierFixedPrice TierStrategy = "fixedPrice"
	TierPercentOff TierStrategy = "percentOff"
	TierAmountOff  TierStrategy = "amountOff"
)

// PricingTier is a quantity-bracket discount attached to a product or
// to one attribute child. MaxQty of 0 means the bracket is open-ended.
// Value is a percentage for percentOff and cents otherwise.
type PricingTier struct {
	MinQty   int          `json:"minQty"`
	MaxQty   int          `json:"maxQty,omitempty"`
	Strategy TierStrategy `json:"strategy"`
	Value    float64      `json:"value"`
}

// Matches reports whether the tier's quantity bracket covers qty.
func (t PricingTier) Matches(qty int) bool {
	if qty < t.MinQty {
		return false
	}
	return t.MaxQty == 0 || qty <= t.MaxQty
}

// ChildTiers returns the pricing tiers of the attribute child selected
// by the given attribute set, if any. The first selected child
// carrying tiers wins.
func (p Product) ChildTiers(selected map[string]string) []PricingTier {
	for _, group := range p.Attributes {
		value, ok := selected[group.Name]
		if !ok {
			continue
		}
		for _, child := range group.Children {
			if child.Value == value && len(child.Tiers) > 0 {
				return child.Tiers
			}
		}
	}
	return nil
}

// EffectivePriceCents returns the base price for the given attribute
// selection, honoring per-child price overrides.
func (p Product) EffectivePriceCents(selected map[string]string) int64 {
	for _, group := range p.Attributes {
		value, ok := selected[group.Name]
		if !ok {
			continue
		}
		for _, child := range group.Children {
			if child.Value == value && child.PriceCents > 0 {
				return child.PriceCents
			}
		}
	}
	return p.PriceCents
}
