package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storefront-gateway/internal/domain"
)

func (h *handlers) issueSession(c *gin.Context) {
	s := h.deps.Sessions.Issue()
	respond(c, http.StatusCreated, "session issued", gin.H{
		"token":     s.Token,
		"expiresIn": h.deps.Sessions.TTLSeconds(),
	})
}

func (h *handlers) listProducts(c *gin.Context) {
	page, perPage := pagination(c)
	products, meta, err := h.deps.Catalog.List(c.Request.Context(), page, perPage)
	if err != nil {
		respondError(c, http.StatusBadGateway, "catalog unavailable")
		return
	}
	respondWithMeta(c, http.StatusOK, "products", products, meta)
}

func (h *handlers) searchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respondError(c, http.StatusBadRequest, "query parameter q is required")
		return
	}
	page, perPage := pagination(c)
	products, meta, err := h.deps.Catalog.Search(c.Request.Context(), query, page, perPage)
	if err != nil {
		respondError(c, http.StatusBadGateway, "catalog unavailable")
		return
	}
	respondWithMeta(c, http.StatusOK, "search results", products, meta)
}

func (h *handlers) productBySlug(c *gin.Context) {
	product, err := h.deps.Catalog.BySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(c, http.StatusNotFound, "product not found")
			return
		}
		respondError(c, http.StatusBadGateway, "catalog unavailable")
		return
	}
	respond(c, http.StatusOK, "product", product)
}

func pagination(c *gin.Context) (page, perPage int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	perPage, _ = strconv.Atoi(c.DefaultQuery("perPage", "20"))
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}
