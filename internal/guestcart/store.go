// Package guestcart implements the session-scoped cart: item CRUD over
// a cartstore backend with a per-item TTL, identical-line merging, and
// an event published on every mutation so mounted views refresh
// without polling.
package guestcart

import (
	"context"
	"errors"
	"io"
	"log"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"

	"storefront-gateway/internal/cartstore"
	"storefront-gateway/internal/domain"
	"storefront-gateway/internal/pricing"
)

// Topic is the event published with the updated domain.Cart after
// every mutation.
const Topic = "cart:updated"

// DefaultTTL bounds how long an untouched item stays in the cart,
// measured from its addedAt.
const DefaultTTL = 24 * time.Hour

type Store struct {
	backend cartstore.Backend
	bus     EventBus.Bus
	node    *snowflake.Node
	ttl     time.Duration
	logger  *log.Logger
	now     func() time.Time
}

// New builds a Store over the given backend. bus may be nil when no
// one listens for cart updates.
func New(backend cartstore.Backend, bus EventBus.Bus, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}
	return &Store{
		backend: backend,
		bus:     bus,
		node:    node,
		ttl:     DefaultTTL,
		logger:  logger,
		now:     time.Now,
	}, nil
}

// AddInput carries the product snapshot taken at add-to-cart time.
type AddInput struct {
	ProductID          string
	Name               string
	Slug               string
	BasePriceCents     int64
	Currency           string
	Qty                int
	SelectedAttributes map[string]string
	SelectedVariant    string
	Sale               *domain.Sale
	VariantTiers       []domain.PricingTier
	ProductTiers       []domain.PricingTier
	Snapshot           map[string]interface{}
}

type UpdateInput struct {
	Qty        *int
	Attributes map[string]string
}

// SetTTL overrides the item expiry window. Non-positive values are
// ignored.
func (s *Store) SetTTL(ttl time.Duration) {
	if ttl > 0 {
		s.ttl = ttl
	}
}

// Add merges into an existing line with the same product and
// attribute set (summing quantity, refreshing addedAt), or appends a
// new line with a locally generated id.
func (s *Store) Add(ctx context.Context, key string, in AddInput) (domain.Cart, error) {
	if in.ProductID == "" {
		return domain.Cart{}, errors.New("productId required")
	}
	if in.Qty < 1 {
		return domain.Cart{}, errors.New("qty must be at least 1")
	}

	cart := s.load(ctx, key)
	s.purge(&cart)

	now := s.now()
	merged := false
	for i := range cart.Items {
		if cart.Items[i].SameLine(in.ProductID, in.SelectedAttributes) {
			cart.Items[i].Qty += in.Qty
			cart.Items[i].AddedAt = now
			s.reprice(&cart.Items[i])
			merged = true
			break
		}
	}
	if !merged {
		item := domain.CartItem{
			ID:                 s.node.Generate().String(),
			ProductID:          in.ProductID,
			Slug:               in.Slug,
			Name:               in.Name,
			BasePriceCents:     in.BasePriceCents,
			Currency:           in.Currency,
			Qty:                in.Qty,
			SelectedAttributes: in.SelectedAttributes,
			SelectedVariant:    in.SelectedVariant,
			Sale:               in.Sale,
			VariantTiers:       in.VariantTiers,
			ProductTiers:       in.ProductTiers,
			Snapshot:           in.Snapshot,
			AddedAt:            now,
		}
		s.reprice(&item)
		cart.Items = append(cart.Items, item)
	}

	return s.commit(ctx, key, cart), nil
}

// Update mutates quantity and/or attributes in place, refreshing the
// item's TTL and recomputing its price.
func (s *Store) Update(ctx context.Context, key, itemID string, in UpdateInput) (domain.Cart, error) {
	cart := s.load(ctx, key)
	s.purge(&cart)

	found := false
	for i := range cart.Items {
		if cart.Items[i].ID != itemID {
			continue
		}
		if in.Qty != nil {
			if *in.Qty < 1 {
				return domain.Cart{}, errors.New("qty must be at least 1")
			}
			cart.Items[i].Qty = *in.Qty
		}
		if in.Attributes != nil {
			cart.Items[i].SelectedAttributes = in.Attributes
		}
		cart.Items[i].AddedAt = s.now()
		s.reprice(&cart.Items[i])
		found = true
		break
	}
	if !found {
		return domain.Cart{}, domain.ErrNotFound
	}

	return s.commit(ctx, key, cart), nil
}

// Remove filters the item out and reports whether anything was
// removed.
func (s *Store) Remove(ctx context.Context, key, itemID string) (domain.Cart, bool, error) {
	cart := s.load(ctx, key)
	s.purge(&cart)

	kept := cart.Items[:0:0]
	removed := false
	for _, item := range cart.Items {
		if item.ID == itemID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	cart.Items = kept
	return s.commit(ctx, key, cart), removed, nil
}

// Clear drops every item.
func (s *Store) Clear(ctx context.Context, key string) (domain.Cart, error) {
	cart := s.load(ctx, key)
	cart.Items = nil
	return s.commit(ctx, key, cart), nil
}

// Read purges expired items first, persists the purged result when
// anything changed, then returns the cart.
func (s *Store) Read(ctx context.Context, key string) (domain.Cart, error) {
	cart := s.load(ctx, key)
	if s.purge(&cart) > 0 {
		return s.commit(ctx, key, cart), nil
	}
	return cart, nil
}

// Replace swaps the whole cart under key, repricing every line. Used
// when adopting a server-side cart into an empty local one.
func (s *Store) Replace(ctx context.Context, key string, cart domain.Cart) (domain.Cart, error) {
	for i := range cart.Items {
		if cart.Items[i].ID == "" {
			cart.Items[i].ID = s.node.Generate().String()
		}
		if cart.Items[i].AddedAt.IsZero() {
			cart.Items[i].AddedAt = s.now()
		}
		s.reprice(&cart.Items[i])
	}
	return s.commit(ctx, key, cart), nil
}

// Sweep purges expired items across every persisted cart, deleting
// records that end up empty. Returns how many items were purged.
func (s *Store) Sweep(ctx context.Context) (int, error) {
	keys, err := s.backend.Keys(ctx)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, key := range keys {
		rec, err := s.backend.Load(ctx, key)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			s.logger.Printf("guestcart: sweep load key=%s error=%v", key, err)
			continue
		}
		cart := rec.Cart
		purged := s.purge(&cart)
		if purged == 0 {
			continue
		}
		total += purged
		if cart.Empty() {
			if err := s.backend.Delete(ctx, key); err != nil {
				s.logger.Printf("guestcart: sweep delete key=%s error=%v", key, err)
			}
			continue
		}
		s.commit(ctx, key, cart)
	}
	return total, nil
}

func (s *Store) load(ctx context.Context, key string) domain.Cart {
	rec, err := s.backend.Load(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			// Storage trouble degrades to an empty in-memory cart
			// rather than failing the operation.
			s.logger.Printf("guestcart: load key=%s error=%v", key, err)
		}
		return domain.Cart{}
	}
	return rec.Cart
}

// purge drops items whose addedAt is older than the TTL and returns
// how many were dropped.
func (s *Store) purge(cart *domain.Cart) int {
	cutoff := s.now().Add(-s.ttl)
	kept := cart.Items[:0:0]
	purged := 0
	for _, item := range cart.Items {
		if item.AddedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, item)
	}
	cart.Items = kept
	return purged
}

func (s *Store) reprice(item *domain.CartItem) {
	q := pricing.QuoteItem(*item, s.now())
	item.UnitPriceCents = q.UnitPriceCents
	item.TotalCents = q.TotalCents
}

// commit persists and broadcasts the cart. Persistence failures are
// logged and the in-memory result is still returned, so a storage
// failure degrades to "changes not persisted".
func (s *Store) commit(ctx context.Context, key string, cart domain.Cart) domain.Cart {
	cart.LastUpdated = s.now()
	rec := cartstore.Record{Key: key, Cart: cart, UpdatedAt: cart.LastUpdated}
	if err := s.backend.Save(ctx, rec); err != nil {
		s.logger.Printf("guestcart: save key=%s error=%v", key, err)
	}
	if s.bus != nil {
		s.bus.Publish(Topic, cart)
	}
	return cart
}
