package httpserver

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"storefront-gateway/internal/domain"
	"storefront-gateway/internal/guestcart"
)

type handlers struct {
	deps   Deps
	logger *log.Logger
}

type addItemRequest struct {
	Slug            string            `json:"slug" binding:"required"`
	Qty             int               `json:"qty" binding:"required,min=1"`
	Attributes      map[string]string `json:"attributes"`
	SelectedVariant string            `json:"selectedVariant"`
}

type updateItemRequest struct {
	Qty        *int              `json:"qty" binding:"omitempty,min=1"`
	Attributes map[string]string `json:"attributes"`
}

func (h *handlers) getCart(c *gin.Context) {
	s := currentSession(c)
	cart, err := h.deps.Cart.Load(c.Request.Context(), s.CartKey())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load cart")
		return
	}
	respond(c, http.StatusOK, "cart", toCartView(cart))
}

func (h *handlers) addCartItem(c *gin.Context) {
	s := currentSession(c)
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "slug and a positive qty are required")
		return
	}

	product, err := h.deps.Catalog.BySlug(c.Request.Context(), req.Slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(c, http.StatusNotFound, "product not found")
			return
		}
		respondError(c, http.StatusBadGateway, "catalog unavailable")
		return
	}

	in := guestcart.AddInput{
		ProductID:          product.ID,
		Name:               product.Name,
		Slug:               product.Slug,
		BasePriceCents:     product.EffectivePriceCents(req.Attributes),
		Currency:           product.Currency,
		Qty:                req.Qty,
		SelectedAttributes: req.Attributes,
		SelectedVariant:    req.SelectedVariant,
		Sale:               product.Sale,
		VariantTiers:       product.ChildTiers(req.Attributes),
		ProductTiers:       product.Tiers,
		Snapshot:           productSnapshot(product),
	}

	cart, err := h.deps.Cart.Add(c.Request.Context(), s.CartKey(), s.AccessToken, in)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respond(c, http.StatusCreated, "item added", toCartView(cart))
}

func (h *handlers) updateCartItem(c *gin.Context) {
	s := currentSession(c)
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid update payload")
		return
	}
	if req.Qty == nil && req.Attributes == nil {
		respondError(c, http.StatusBadRequest, "nothing to update")
		return
	}

	cart, err := h.deps.Cart.UpdateItem(c.Request.Context(), s.CartKey(), c.Param("itemId"), guestcart.UpdateInput{
		Qty:        req.Qty,
		Attributes: req.Attributes,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(c, http.StatusNotFound, "cart item not found")
			return
		}
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respond(c, http.StatusOK, "item updated", toCartView(cart))
}

func (h *handlers) removeCartItem(c *gin.Context) {
	s := currentSession(c)
	cart, removed, err := h.deps.Cart.RemoveItem(c.Request.Context(), s.CartKey(), c.Param("itemId"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not remove item")
		return
	}
	if !removed {
		respondError(c, http.StatusNotFound, "cart item not found")
		return
	}
	respond(c, http.StatusOK, "item removed", toCartView(cart))
}

func (h *handlers) clearCart(c *gin.Context) {
	s := currentSession(c)
	cart, err := h.deps.Cart.Clear(c.Request.Context(), s.CartKey(), s.AccessToken)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not clear cart")
		return
	}
	respond(c, http.StatusOK, "cart cleared", toCartView(cart))
}

// quoteCart prices every line independently of the stored unit prices,
// so the UI always renders current sale and tier badges.
func (h *handlers) quoteCart(c *gin.Context) {
	s := currentSession(c)
	cart, err := h.deps.Cart.Load(c.Request.Context(), s.CartKey())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not load cart")
		return
	}
	respond(c, http.StatusOK, "quote", toQuoteView(cart, time.Now()))
}

// syncCart pulls the server-side cart copy and adopts it when the
// local cart is empty. The local cart always wins otherwise.
func (h *handlers) syncCart(c *gin.Context) {
	s := currentSession(c)
	if !s.Authenticated() {
		respondError(c, http.StatusUnauthorized, "sign in required")
		return
	}
	server, err := h.deps.Platform.MirrorGet(c.Request.Context(), s.AccessToken)
	if err != nil {
		// Best-effort: the local cart stays authoritative.
		h.logger.Printf("cart sync: mirror get error=%v", err)
		server = domain.Cart{}
	}
	cart, adopted, err := h.deps.Cart.SyncFromServer(c.Request.Context(), s.CartKey(), server)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not sync cart")
		return
	}
	respondWithMeta(c, http.StatusOK, "cart synced", toCartView(cart), gin.H{"adopted": adopted})
}

func (h *handlers) applyCoupon(c *gin.Context) {
	s := currentSession(c)
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "coupon code required")
		return
	}
	res, err := h.deps.Platform.ApplyCoupon(c.Request.Context(), s.AccessToken, req.Code)
	if err != nil {
		respondError(c, http.StatusBadGateway, "coupon service unavailable")
		return
	}
	respond(c, http.StatusOK, "coupon applied", res)
}

func productSnapshot(p *domain.Product) map[string]interface{} {
	snap := map[string]interface{}{
		"slug":       p.Slug,
		"name":       p.Name,
		"priceCents": p.PriceCents,
		"currency":   p.Currency,
	}
	if len(p.Images) > 0 {
		snap["images"] = p.Images
	}
	return snap
}
