package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-gateway/internal/domain"
)

func writeEnvelope(w http.ResponseWriter, code int, message string, data interface{}, meta map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": message,
		"data":    data,
		"meta":    meta,
	})
}

func TestProductBySlugUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products/slug/mug" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, "ok", domain.Product{
			ID: "p1", Slug: "mug", Name: "Mug", PriceCents: 1200, Currency: "USD",
			Sale: &domain.Sale{Active: true, Variants: []domain.SaleVariant{{Percent: 10}}},
		}, nil)
	}))
	defer srv.Close()

	client := New(srv.URL, 0, nil)
	p, err := client.ProductBySlug(context.Background(), "mug")
	if err != nil {
		t.Fatalf("product by slug: %v", err)
	}
	if p.ID != "p1" || p.PriceCents != 1200 {
		t.Fatalf("unexpected product: %+v", p)
	}
	if p.Sale == nil || p.Sale.Variants[0].Percent != 10 {
		t.Fatalf("sale not decoded: %+v", p.Sale)
	}
}

func TestProductBySlugNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusNotFound, "product not found", nil, nil)
	}))
	defer srv.Close()

	client := New(srv.URL, 0, nil)
	_, err := client.ProductBySlug(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected domain.ErrNotFound, got %v", err)
	}
}

func TestProductsParsesLooseMeta(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		// perPage as string, total as number: both must coerce.
		writeEnvelope(w, http.StatusOK, "ok", []domain.Product{{ID: "p1"}, {ID: "p2"}},
			map[string]interface{}{"page": 1, "perPage": "20", "total": 42})
	}))
	defer srv.Close()

	client := New(srv.URL, 0, nil)
	products, meta, err := client.Products(context.Background(), 1, 20)
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	if meta.Page != 1 || meta.PerPage != 20 || meta.Total != 42 {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}

func TestMirrorAddSendsBearerToken(t *testing.T) {
	var gotAuth string
	var gotBody mirrorAddRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		writeEnvelope(w, http.StatusOK, "added", nil, nil)
	}))
	defer srv.Close()

	client := New(srv.URL, 0, nil)
	item := domain.CartItem{ProductID: "p1", Qty: 2, UnitPriceCents: 1100}
	if err := client.MirrorAdd(context.Background(), "tok-1", item); err != nil {
		t.Fatalf("mirror add: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("unexpected auth header %q", gotAuth)
	}
	if gotBody.ProductID != "p1" || gotBody.Qty != 2 || gotBody.UnitPriceCents != 1100 {
		t.Fatalf("unexpected body: %+v", gotBody)
	}
}

func TestServerErrorSurfacesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusInternalServerError, "boom", nil, nil)
	}))
	defer srv.Close()

	client := New(srv.URL, 0, nil)
	err := client.MirrorClear(context.Background(), "tok-1")
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 StatusError, got %v", err)
	}
}

func TestLoginDecodesAuthResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		writeEnvelope(w, http.StatusOK, "welcome", AuthResult{
			Customer:    domain.Customer{ID: "c1", Email: "a@b.c"},
			AccessToken: "access-1",
		}, nil)
	}))
	defer srv.Close()

	client := New(srv.URL, 0, nil)
	res, err := client.Login(context.Background(), Credentials{Email: "a@b.c", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.AccessToken != "access-1" || res.Customer.ID != "c1" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestMirrorGetEmptyOn404(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(w, http.StatusNotFound, "no cart", nil, nil)
	}))
	defer srv.Close()

	client := New(srv.URL, 0, nil)
	cart, err := client.MirrorGet(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("mirror get: %v", err)
	}
	if !cart.Empty() {
		t.Fatalf("expected empty cart, got %+v", cart)
	}
}
