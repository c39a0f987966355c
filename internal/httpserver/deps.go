package httpserver

import (
	"context"

	"storefront-gateway/internal/backend"
	"storefront-gateway/internal/domain"
	"storefront-gateway/internal/guestcart"
	"storefront-gateway/internal/session"
)

// cartManager is the slice of the cart manager the handlers need.
type cartManager interface {
	Load(ctx context.Context, key string) (domain.Cart, error)
	Add(ctx context.Context, key, accessToken string, in guestcart.AddInput) (domain.Cart, error)
	UpdateItem(ctx context.Context, key, itemID string, in guestcart.UpdateInput) (domain.Cart, error)
	RemoveItem(ctx context.Context, key, itemID string) (domain.Cart, bool, error)
	Clear(ctx context.Context, key, accessToken string) (domain.Cart, error)
	SyncFromServer(ctx context.Context, key string, server domain.Cart) (domain.Cart, bool, error)
}

type catalogService interface {
	BySlug(ctx context.Context, slug string) (*domain.Product, error)
	List(ctx context.Context, page, perPage int) ([]domain.Product, backend.Meta, error)
	Search(ctx context.Context, query string, page, perPage int) ([]domain.Product, backend.Meta, error)
}

// platformAPI is the passthrough surface against the platform backend.
type platformAPI interface {
	Login(ctx context.Context, in backend.Credentials) (*backend.AuthResult, error)
	Register(ctx context.Context, in backend.RegisterInput) (*backend.AuthResult, error)
	RequestOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (*backend.AuthResult, error)
	ResetPassword(ctx context.Context, token, newPassword string) error

	MirrorGet(ctx context.Context, accessToken string) (domain.Cart, error)
	ApplyCoupon(ctx context.Context, accessToken, code string) (*backend.CouponResult, error)

	Wishlist(ctx context.Context, accessToken string) ([]domain.WishlistItem, error)
	WishlistAdd(ctx context.Context, accessToken, productID string) error
	WishlistRemove(ctx context.Context, accessToken, productID string) error
	WishlistCount(ctx context.Context, accessToken string) (int, error)

	Orders(ctx context.Context, accessToken string, page, perPage int) ([]domain.Order, backend.Meta, error)
	CancelOrder(ctx context.Context, accessToken, orderID string) (*domain.Order, error)
	OrderStatistics(ctx context.Context, accessToken string) (*domain.OrderStats, error)
}

type sessionStore interface {
	Issue() *session.Session
	Get(token string) (*session.Session, bool)
	Authenticate(token, accessToken, customerID string) bool
	Logout(token string)
	TTLSeconds() int
}

// Deps bundles everything the router needs.
type Deps struct {
	Cart     cartManager
	Catalog  catalogService
	Platform platformAPI
	Sessions sessionStore
	// MirrorPinger reports mirror store health on /readyz; may be nil.
	MirrorPinger Pinger
	// AllowedOrigins configures CORS for the browser UI.
	AllowedOrigins []string
}
