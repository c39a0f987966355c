package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-gateway/internal/backend"
)

func (h *handlers) login(c *gin.Context) {
	var req backend.Credentials
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "email and password are required")
		return
	}
	res, err := h.deps.Platform.Login(c.Request.Context(), req)
	if err != nil {
		respondError(c, authStatus(err), "login failed")
		return
	}
	h.finishSignIn(c, res, "logged in")
}

func (h *handlers) register(c *gin.Context) {
	var req backend.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "email and password are required")
		return
	}
	res, err := h.deps.Platform.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, authStatus(err), "registration failed")
		return
	}
	h.finishSignIn(c, res, "registered")
}

// finishSignIn attaches the platform tokens to the browser session and
// adopts the server-side cart when the local one is empty.
func (h *handlers) finishSignIn(c *gin.Context, res *backend.AuthResult, message string) {
	s := currentSession(c)
	h.deps.Sessions.Authenticate(s.Token, res.AccessToken, res.Customer.ID)

	if server, err := h.deps.Platform.MirrorGet(c.Request.Context(), res.AccessToken); err == nil {
		if _, _, err := h.deps.Cart.SyncFromServer(c.Request.Context(), s.CartKey(), server); err != nil {
			h.logger.Printf("sign in: cart sync error=%v", err)
		}
	} else {
		h.logger.Printf("sign in: mirror get error=%v", err)
	}

	respond(c, http.StatusOK, message, gin.H{"customer": res.Customer})
}

func (h *handlers) logout(c *gin.Context) {
	s := currentSession(c)
	h.deps.Sessions.Logout(s.Token)
	respond(c, http.StatusOK, "logged out", nil)
}

func (h *handlers) requestOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "a valid email is required")
		return
	}
	if err := h.deps.Platform.RequestOTP(c.Request.Context(), req.Email); err != nil {
		respondError(c, authStatus(err), "could not send code")
		return
	}
	respond(c, http.StatusOK, "code sent", nil)
}

func (h *handlers) verifyOTP(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "email and code are required")
		return
	}
	res, err := h.deps.Platform.VerifyOTP(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		respondError(c, authStatus(err), "invalid code")
		return
	}
	respond(c, http.StatusOK, "code verified", res)
}

func (h *handlers) resetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "token and a password of at least 8 characters are required")
		return
	}
	if err := h.deps.Platform.ResetPassword(c.Request.Context(), req.Token, req.Password); err != nil {
		respondError(c, authStatus(err), "password reset failed")
		return
	}
	respond(c, http.StatusOK, "password updated", nil)
}

func (h *handlers) wishlist(c *gin.Context) {
	s := currentSession(c)
	items, err := h.deps.Platform.Wishlist(c.Request.Context(), s.AccessToken)
	if err != nil {
		respondError(c, http.StatusBadGateway, "wishlist unavailable")
		return
	}
	respond(c, http.StatusOK, "wishlist", items)
}

func (h *handlers) wishlistCount(c *gin.Context) {
	s := currentSession(c)
	count, err := h.deps.Platform.WishlistCount(c.Request.Context(), s.AccessToken)
	if err != nil {
		respondError(c, http.StatusBadGateway, "wishlist unavailable")
		return
	}
	respond(c, http.StatusOK, "wishlist count", gin.H{"count": count})
}

func (h *handlers) wishlistAdd(c *gin.Context) {
	s := currentSession(c)
	var req struct {
		ProductID string `json:"productId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "productId is required")
		return
	}
	if err := h.deps.Platform.WishlistAdd(c.Request.Context(), s.AccessToken, req.ProductID); err != nil {
		respondError(c, http.StatusBadGateway, "wishlist unavailable")
		return
	}
	respond(c, http.StatusCreated, "added to wishlist", nil)
}

func (h *handlers) wishlistRemove(c *gin.Context) {
	s := currentSession(c)
	if err := h.deps.Platform.WishlistRemove(c.Request.Context(), s.AccessToken, c.Param("productId")); err != nil {
		respondError(c, http.StatusBadGateway, "wishlist unavailable")
		return
	}
	respond(c, http.StatusOK, "removed from wishlist", nil)
}

func (h *handlers) orders(c *gin.Context) {
	s := currentSession(c)
	page, perPage := pagination(c)
	orders, meta, err := h.deps.Platform.Orders(c.Request.Context(), s.AccessToken, page, perPage)
	if err != nil {
		respondError(c, http.StatusBadGateway, "orders unavailable")
		return
	}
	respondWithMeta(c, http.StatusOK, "orders", orders, meta)
}

func (h *handlers) orderStatistics(c *gin.Context) {
	s := currentSession(c)
	stats, err := h.deps.Platform.OrderStatistics(c.Request.Context(), s.AccessToken)
	if err != nil {
		respondError(c, http.StatusBadGateway, "orders unavailable")
		return
	}
	respond(c, http.StatusOK, "order statistics", stats)
}

func (h *handlers) cancelOrder(c *gin.Context) {
	s := currentSession(c)
	order, err := h.deps.Platform.CancelOrder(c.Request.Context(), s.AccessToken, c.Param("orderId"))
	if err != nil {
		respondError(c, authStatus(err), "could not cancel order")
		return
	}
	respond(c, http.StatusOK, "order cancelled", order)
}

// authStatus maps a platform error to the status relayed to the
// browser, forwarding 4xx codes and hiding everything else behind 502.
func authStatus(err error) int {
	var se *backend.StatusError
	if errors.As(err, &se) && se.Code >= 400 && se.Code < 500 {
		return se.Code
	}
	return http.StatusBadGateway
}
