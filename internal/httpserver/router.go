package httpserver

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// buildRouter wires the storefront routes.
func buildRouter(logger *log.Logger, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(deps.AllowedOrigins) > 0 {
		corsCfg.AllowOrigins = deps.AllowedOrigins
	} else {
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.MirrorPinger))

	h := &handlers{deps: deps, logger: logger}

	router.POST("/session", h.issueSession)

	router.GET("/products", h.listProducts)
	router.GET("/products/search", h.searchProducts)
	router.GET("/products/:slug", h.productBySlug)

	withSession := router.Group("", sessionMiddleware(deps.Sessions))
	{
		withSession.GET("/cart", h.getCart)
		withSession.GET("/cart/quote", h.quoteCart)
		withSession.POST("/cart/items", h.addCartItem)
		withSession.PATCH("/cart/items/:itemId", h.updateCartItem)
		withSession.DELETE("/cart/items/:itemId", h.removeCartItem)
		withSession.DELETE("/cart", h.clearCart)
		withSession.POST("/cart/sync", h.syncCart)

		withSession.POST("/auth/login", h.login)
		withSession.POST("/auth/register", h.register)
		withSession.POST("/auth/logout", h.logout)
	}
	router.POST("/auth/otp", h.requestOTP)
	router.POST("/auth/otp/verify", h.verifyOTP)
	router.POST("/auth/password-reset", h.resetPassword)

	authed := router.Group("", sessionMiddleware(deps.Sessions), requireAuth())
	{
		authed.POST("/cart/coupon", h.applyCoupon)

		authed.GET("/wishlist", h.wishlist)
		authed.GET("/wishlist/count", h.wishlistCount)
		authed.POST("/wishlist/add", h.wishlistAdd)
		authed.DELETE("/wishlist/:productId", h.wishlistRemove)

		authed.GET("/orders", h.orders)
		authed.GET("/orders/statistics", h.orderStatistics)
		authed.POST("/orders/:orderId/cancel", h.cancelOrder)
	}

	return router
}
