package domain

import "time"

type WishlistItem struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"productId"`
	Slug       string    `json:"slug,omitempty"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"priceCents"`
	Currency   string    `json:"currency"`
	AddedAt    time.Time `json:"addedAt"`
}
