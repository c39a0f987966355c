package backend

import (
	"context"

	"github.com/guonaihong/gout"

	"storefront-gateway/internal/domain"
)

// AuthResult carries the platform tokens issued on login or register.
type AuthResult struct {
	Customer     domain.Customer `json:"customer"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
}

func (c *Client) Login(ctx context.Context, in Credentials) (*AuthResult, error) {
	var res AuthResult
	_, err := c.do(ctx, gout.POST(c.url("/auth/login")).SetJSON(in), "", &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	var res AuthResult
	_, err := c.do(ctx, gout.POST(c.url("/auth/register")).SetJSON(in), "", &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// RequestOTP asks the platform to send a one-time code to email.
func (c *Client) RequestOTP(ctx context.Context, email string) error {
	_, err := c.do(ctx, gout.POST(c.url("/auth/otp")).SetJSON(gout.H{"email": email}), "", nil)
	return err
}

func (c *Client) VerifyOTP(ctx context.Context, email, code string) (*AuthResult, error) {
	var res AuthResult
	_, err := c.do(ctx, gout.POST(c.url("/auth/otp/verify")).SetJSON(gout.H{"email": email, "code": code}), "", &res)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ResetPassword completes a password reset with the emailed token.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword string) error {
	_, err := c.do(ctx, gout.POST(c.url("/auth/password-reset")).SetJSON(gout.H{"token": token, "password": newPassword}), "", nil)
	return err
}

// Wishlist lists the customer's wishlist.
func (c *Client) Wishlist(ctx context.Context, accessToken string) ([]domain.WishlistItem, error) {
	var items []domain.WishlistItem
	_, err := c.do(ctx, gout.GET(c.url("/wishlist")), accessToken, &items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) WishlistAdd(ctx context.Context, accessToken, productID string) error {
	_, err := c.do(ctx, gout.POST(c.url("/wishlist/add")).SetJSON(gout.H{"productId": productID}), accessToken, nil)
	return err
}

func (c *Client) WishlistRemove(ctx context.Context, accessToken, productID string) error {
	_, err := c.do(ctx, gout.DELETE(c.url("/wishlist/"+productID)), accessToken, nil)
	return err
}

func (c *Client) WishlistCount(ctx context.Context, accessToken string) (int, error) {
	var res struct {
		Count int `json:"count"`
	}
	_, err := c.do(ctx, gout.GET(c.url("/wishlist/count")), accessToken, &res)
	if err != nil {
		return 0, err
	}
	return res.Count, nil
}

// Orders lists the customer's order history.
func (c *Client) Orders(ctx context.Context, accessToken string, page, perPage int) ([]domain.Order, Meta, error) {
	var orders []domain.Order
	raw, err := c.do(ctx, gout.GET(c.url("/orders")).SetQuery(gout.H{"page": page, "perPage": perPage}), accessToken, &orders)
	if err != nil {
		return nil, Meta{}, err
	}
	return orders, metaFrom(raw), nil
}

func (c *Client) CancelOrder(ctx context.Context, accessToken, orderID string) (*domain.Order, error) {
	var order domain.Order
	_, err := c.do(ctx, gout.POST(c.url("/orders/"+orderID+"/cancel")), accessToken, &order)
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) OrderStatistics(ctx context.Context, accessToken string) (*domain.OrderStats, error) {
	var stats domain.OrderStats
	_, err := c.do(ctx, gout.GET(c.url("/orders/statistics")), accessToken, &stats)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
