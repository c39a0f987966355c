// Package backend is the client for the platform REST API. Every
// response is wrapped in the shared envelope {message, data, meta?};
// the client unwraps it and decodes data into typed results.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	"github.com/guonaihong/gout/dataflow"
	"github.com/spf13/cast"

	"storefront-gateway/internal/domain"
)

type Client struct {
	baseURL string
	timeout time.Duration
	logger  *log.Logger
}

func New(baseURL string, timeout time.Duration, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger,
	}
}

type envelope struct {
	Message string                 `json:"message"`
	Data    json.RawMessage        `json:"data"`
	Meta    map[string]interface{} `json:"meta,omitempty"`
}

// Meta is pagination info extracted from a list envelope.
type Meta struct {
	Page    int `json:"page"`
	PerPage int `json:"perPage"`
	Total   int `json:"total"`
}

// StatusError reports a non-2xx platform response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend: status %d: %s", e.Code, e.Message)
}

// NotFound reports whether err is a 404 from the platform.
func NotFound(err error) bool {
	se, ok := err.(*StatusError)
	return ok && se.Code == http.StatusNotFound
}

func (c *Client) url(path string) string {
	return c.baseURL + path
}

func (c *Client) do(ctx context.Context, df *dataflow.DataFlow, token string, out interface{}) (map[string]interface{}, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	if token != "" {
		df = df.SetHeader(gout.H{"Authorization": "Bearer " + token})
	}

	var env envelope
	var code int
	if err := df.WithContext(ctx).BindJSON(&env).Code(&code).Do(); err != nil {
		return nil, fmt.Errorf("backend request: %w", err)
	}
	if code < 200 || code >= 300 {
		if code != http.StatusNotFound {
			c.logger.Printf("backend: status=%d message=%q", code, env.Message)
		}
		return nil, &StatusError{Code: code, Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("backend decode: %w", err)
		}
	}
	return env.Meta, nil
}

// metaFrom coerces the loosely typed envelope meta into pagination
// fields; the platform emits them as JSON numbers or strings.
func metaFrom(raw map[string]interface{}) Meta {
	return Meta{
		Page:    cast.ToInt(raw["page"]),
		PerPage: cast.ToInt(raw["perPage"]),
		Total:   cast.ToInt(raw["total"]),
	}
}

// ProductBySlug fetches one product, domain.ErrNotFound when missing.
func (c *Client) ProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	var p domain.Product
	_, err := c.do(ctx, gout.GET(c.url("/products/slug/"+slug)), "", &p)
	if err != nil {
		if NotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Products lists the catalog page.
func (c *Client) Products(ctx context.Context, page, perPage int) ([]domain.Product, Meta, error) {
	var products []domain.Product
	raw, err := c.do(ctx, gout.GET(c.url("/products")).SetQuery(gout.H{"page": page, "perPage": perPage}), "", &products)
	if err != nil {
		return nil, Meta{}, err
	}
	return products, metaFrom(raw), nil
}

// SearchProducts runs a catalog text search.
func (c *Client) SearchProducts(ctx context.Context, query string, page, perPage int) ([]domain.Product, Meta, error) {
	var products []domain.Product
	raw, err := c.do(ctx, gout.GET(c.url("/products/search")).SetQuery(gout.H{"q": query, "page": page, "perPage": perPage}), "", &products)
	if err != nil {
		return nil, Meta{}, err
	}
	return products, metaFrom(raw), nil
}

type mirrorAddRequest struct {
	ProductID          string            `json:"productId"`
	Qty                int               `json:"qty"`
	SelectedAttributes map[string]string `json:"selectedAttributes,omitempty"`
	SelectedVariant    string            `json:"selectedVariant,omitempty"`
	UnitPriceCents     int64             `json:"unitPriceCents"`
}

// MirrorAdd pushes one line addition to the server-side cart copy.
func (c *Client) MirrorAdd(ctx context.Context, accessToken string, item domain.CartItem) error {
	req := mirrorAddRequest{
		ProductID:          item.ProductID,
		Qty:                item.Qty,
		SelectedAttributes: item.SelectedAttributes,
		SelectedVariant:    item.SelectedVariant,
		UnitPriceCents:     item.UnitPriceCents,
	}
	_, err := c.do(ctx, gout.POST(c.url("/cart/add")).SetJSON(req), accessToken, nil)
	return err
}

// MirrorClear empties the server-side cart copy.
func (c *Client) MirrorClear(ctx context.Context, accessToken string) error {
	_, err := c.do(ctx, gout.DELETE(c.url("/cart/clear")), accessToken, nil)
	return err
}

// MirrorGet fetches the server-side cart copy, used to populate an
// empty local cart after login.
func (c *Client) MirrorGet(ctx context.Context, accessToken string) (domain.Cart, error) {
	var cart domain.Cart
	_, err := c.do(ctx, gout.GET(c.url("/cart")), accessToken, &cart)
	if err != nil {
		if NotFound(err) {
			return domain.Cart{}, nil
		}
		return domain.Cart{}, err
	}
	return cart, nil
}

// CouponResult is the platform's answer to a coupon application.
type CouponResult struct {
	Code          string `json:"code"`
	DiscountCents int64  `json:"discountCents"`
	Message       string `json:"message,omitempty"`
}

func (c *Client) ApplyCoupon(ctx context.Context, accessToken, code string) (*CouponResult, error) {
	var res CouponResult
	_, err := c.do(ctx, gout.POST(c.url("/cart/coupon")).SetJSON(gout.H{"code": code}), accessToken, &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
