package pricing

import (
	"testing"
	"time"

	"storefront-gateway/internal/domain"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func activeSale(variants ...domain.SaleVariant) *domain.Sale {
	return &domain.Sale{ID: "sale-1", Active: true, Type: domain.SaleNormal, Variants: variants}
}

func TestMatchVariantNilAndInactive(t *testing.T) {
	if got := MatchVariant(nil, nil, 1, testNow); got != nil {
		t.Fatalf("expected nil for nil sale, got %+v", got)
	}
	sale := activeSale(domain.SaleVariant{Percent: 10})
	sale.Active = false
	if got := MatchVariant(sale, nil, 1, testNow); got != nil {
		t.Fatalf("expected nil for inactive sale, got %+v", got)
	}
}

func TestMatchVariantGlobalIgnoresAttributes(t *testing.T) {
	sale := activeSale(domain.SaleVariant{ID: "v1", Percent: 10})
	for _, attrs := range []map[string]string{
		nil,
		{"Color": "Red"},
		{"Color": "Blue", "Size": "XL"},
	} {
		got := MatchVariant(sale, attrs, 3, testNow)
		if got == nil || got.ID != "v1" {
			t.Fatalf("global variant should match for attrs %v, got %+v", attrs, got)
		}
	}
}

func TestMatchVariantFirstGlobalWins(t *testing.T) {
	sale := activeSale(
		domain.SaleVariant{ID: "first", AttributeName: "All", Percent: 5},
		domain.SaleVariant{ID: "second", Percent: 50},
	)
	got := MatchVariant(sale, nil, 1, testNow)
	if got == nil || got.ID != "first" {
		t.Fatalf("expected first listed global variant, got %+v", got)
	}
}

func TestMatchVariantAttributeWide(t *testing.T) {
	sale := activeSale(
		domain.SaleVariant{ID: "size-wide", AttributeName: "Size", AttributeValue: "All", Percent: 15},
		domain.SaleVariant{ID: "exact", AttributeName: "Color", AttributeValue: "Red", Percent: 30},
	)
	got := MatchVariant(sale, map[string]string{"Size": "M"}, 1, testNow)
	if got == nil || got.ID != "size-wide" {
		t.Fatalf("expected attribute-wide match, got %+v", got)
	}
	if got := MatchVariant(sale, map[string]string{"Material": "Wool"}, 1, testNow); got != nil {
		t.Fatalf("expected no match for unrelated attribute, got %+v", got)
	}
}

func TestMatchVariantExact(t *testing.T) {
	sale := activeSale(
		domain.SaleVariant{ID: "red", AttributeName: "Color", AttributeValue: "Red", Percent: 20},
		domain.SaleVariant{ID: "blue", AttributeName: "Color", AttributeValue: "Blue", Percent: 25},
	)
	got := MatchVariant(sale, map[string]string{"Color": "Blue"}, 1, testNow)
	if got == nil || got.ID != "blue" {
		t.Fatalf("expected exact match on Blue, got %+v", got)
	}
	if got := MatchVariant(sale, map[string]string{"Color": "Green"}, 1, testNow); got != nil {
		t.Fatalf("expected no match for Green, got %+v", got)
	}
}

func TestMatchVariantAttributeWideBeatsExact(t *testing.T) {
	// Priority order is global, attribute-wide, exact; an exact rule
	// listed first does not shadow a qualifying attribute-wide rule.
	sale := activeSale(
		domain.SaleVariant{ID: "exact", AttributeName: "Color", AttributeValue: "Red", Percent: 30},
		domain.SaleVariant{ID: "wide", AttributeName: "Color", AttributeValue: "All", Percent: 10},
	)
	got := MatchVariant(sale, map[string]string{"Color": "Red"}, 1, testNow)
	if got == nil || got.ID != "wide" {
		t.Fatalf("expected attribute-wide variant to win, got %+v", got)
	}
}

func TestMatchVariantMaxBuys(t *testing.T) {
	sale := activeSale(domain.SaleVariant{ID: "capped", Percent: 10, MaxBuys: 10, BoughtCount: 8})

	if got := MatchVariant(sale, nil, 3, testNow); got != nil {
		t.Fatalf("qty above remaining cap must not match, got %+v", got)
	}
	got := MatchVariant(sale, nil, 2, testNow)
	if got == nil || got.ID != "capped" {
		t.Fatalf("qty within remaining cap should match, got %+v", got)
	}
}

func TestMatchVariantFlashWindow(t *testing.T) {
	start := testNow.Add(-time.Hour)
	end := testNow.Add(time.Hour)
	variant := domain.SaleVariant{ID: "flash", Percent: 10}

	sale := &domain.Sale{Active: true, Type: domain.SaleFlash, StartsAt: &start, EndsAt: &end, Variants: []domain.SaleVariant{variant}}
	if got := MatchVariant(sale, nil, 1, testNow); got == nil {
		t.Fatal("flash sale inside window should match")
	}
	if got := MatchVariant(sale, nil, 1, end.Add(time.Minute)); got != nil {
		t.Fatalf("flash sale after window must not match, got %+v", got)
	}
	if got := MatchVariant(sale, nil, 1, start.Add(-time.Minute)); got != nil {
		t.Fatalf("flash sale before window must not match, got %+v", got)
	}

	// Open-ended sides place no constraint.
	openSale := &domain.Sale{Active: true, Type: domain.SaleFlash, StartsAt: &start, Variants: []domain.SaleVariant{variant}}
	if got := MatchVariant(openSale, nil, 1, testNow.Add(100*time.Hour)); got == nil {
		t.Fatal("flash sale without end date should match")
	}

	// Non-flash sales ignore the window entirely.
	limited := &domain.Sale{Active: true, Type: domain.SaleLimited, StartsAt: &start, EndsAt: &start, Variants: []domain.SaleVariant{variant}}
	if got := MatchVariant(limited, nil, 1, testNow); got == nil {
		t.Fatal("limited sale should not be window-gated")
	}
}
