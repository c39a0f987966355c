package domain

import "time"

// Order is the storefront view of an order as reported by the
// platform API.
type Order struct {
	ID         string      `json:"id"`
	Number     string      `json:"number"`
	Status     string      `json:"status"`
	TotalCents int64       `json:"totalCents"`
	Currency   string      `json:"currency"`
	PlacedAt   time.Time   `json:"placedAt"`
	Lines      []OrderLine `json:"lines,omitempty"`
}

type OrderLine struct {
	ProductID      string `json:"productId"`
	Name           string `json:"name"`
	Qty            int    `json:"qty"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	TotalCents     int64  `json:"totalCents"`
}

// OrderStats aggregates a customer's order history.
type OrderStats struct {
	Total      int   `json:"total"`
	Pending    int   `json:"pending"`
	Delivered  int   `json:"delivered"`
	Cancelled  int   `json:"cancelled"`
	SpentCents int64 `json:"spentCents"`
}
