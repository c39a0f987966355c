package httpserver

import (
	"time"

	"github.com/spf13/cast"

	"storefront-gateway/internal/domain"
	"storefront-gateway/internal/pricing"
)

type cartView struct {
	Items       []cartItemView `json:"items"`
	Quantity    int            `json:"quantity"`
	TotalCents  int64          `json:"totalCents"`
	LastUpdated time.Time      `json:"lastUpdated"`
}

type cartItemView struct {
	ID                 string            `json:"id"`
	ProductID          string            `json:"productId"`
	Slug               string            `json:"slug,omitempty"`
	Name               string            `json:"name"`
	Image              string            `json:"image,omitempty"`
	Category           string            `json:"category,omitempty"`
	BasePriceCents     int64             `json:"basePriceCents"`
	UnitPriceCents     int64             `json:"unitPriceCents"`
	TotalCents         int64             `json:"totalCents"`
	Currency           string            `json:"currency"`
	Qty                int               `json:"qty"`
	SelectedAttributes map[string]string `json:"selectedAttributes,omitempty"`
	OnSale             bool              `json:"onSale"`
	AddedAt            time.Time         `json:"addedAt"`
}

type quoteView struct {
	Items      []lineQuoteView `json:"items"`
	TotalCents int64           `json:"totalCents"`
	SavedCents int64           `json:"savedCents"`
}

type lineQuoteView struct {
	ItemID string        `json:"itemId"`
	Quote  pricing.Quote `json:"quote"`
}

func toCartView(cart domain.Cart) cartView {
	items := make([]cartItemView, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, toCartItemView(item))
	}
	return cartView{
		Items:       items,
		Quantity:    cart.Quantity(),
		TotalCents:  cart.TotalCents(),
		LastUpdated: cart.LastUpdated,
	}
}

func toCartItemView(item domain.CartItem) cartItemView {
	view := cartItemView{
		ID:                 item.ID,
		ProductID:          item.ProductID,
		Slug:               item.Slug,
		Name:               item.Name,
		BasePriceCents:     item.BasePriceCents,
		UnitPriceCents:     item.UnitPriceCents,
		TotalCents:         item.TotalCents,
		Currency:           item.Currency,
		Qty:                item.Qty,
		SelectedAttributes: item.SelectedAttributes,
		OnSale:             item.UnitPriceCents < item.BasePriceCents,
		AddedAt:            item.AddedAt,
	}
	// The snapshot is loosely typed; coerce what display needs and
	// ignore anything malformed.
	if item.Snapshot != nil {
		if images := cast.ToStringSlice(item.Snapshot["images"]); len(images) > 0 {
			view.Image = images[0]
		}
		view.Category = cast.ToString(item.Snapshot["category"])
	}
	return view
}

func toQuoteView(cart domain.Cart, now time.Time) quoteView {
	out := quoteView{Items: make([]lineQuoteView, 0, len(cart.Items))}
	for _, item := range cart.Items {
		q := pricing.QuoteItem(item, now)
		out.Items = append(out.Items, lineQuoteView{ItemID: item.ID, Quote: q})
		out.TotalCents += q.TotalCents
		out.SavedCents += q.DiscountTotalCents
	}
	return out
}
