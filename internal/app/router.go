// internal/app/router.go
package app

import (
	authHandler "storefront-service/internal/handlers/auth"
	checkoutHandler "storefront-service/internal/handlers/checkout"
	productHandler "storefront-service/internal/handlers/product"
	wsHandler "storefront-service/internal/handlers/websocket"
	"storefront-service/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler     *authHandler.AuthHandler
	ProductHandler  *productHandler.ProductHandler
	CheckoutHandler *checkoutHandler.CheckoutHandler
	WSHandler       *wsHandler.WebSocketHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.Handle)

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/register", h.AuthHandler.Register)
		authPublic.POST("/login", h.AuthHandler.Login)
	}

	// The refresh flow authenticates with the Refresh cookie only; the
	// access path never accepts a refresh token and vice versa.
	api.POST("/auth/refresh", h.AuthMiddleware.RequireRefresh(), h.AuthHandler.Refresh)

	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.RequireAuth())
	{
		authProtected.GET("/me", h.AuthHandler.Me)
	}

	// ==================== Products ====================
	products := api.Group("/products")
	products.Use(h.AuthMiddleware.RequireAuth())
	{
		products.GET("", h.ProductHandler.List) // ?status=available
		products.GET("/:id", h.ProductHandler.Get)
		products.GET("/:id/image", h.ProductHandler.Image)

		products.POST("", h.AuthMiddleware.RequirePermission("product:write"), h.ProductHandler.Create)
		products.POST("/:id/image", h.AuthMiddleware.RequirePermission("product:write"), h.ProductHandler.UploadImage)
		products.DELETE("/:id", h.AuthMiddleware.RequirePermission("product:delete"), h.ProductHandler.Delete)
	}

	// ==================== Checkout ====================
	checkout := api.Group("/checkout")
	{
		checkout.POST("/session", h.AuthMiddleware.RequireAuth(), h.CheckoutHandler.CreateSession)

		// Called by the payment provider, not by browsers.
		checkout.POST("/webhook", h.CheckoutHandler.Webhook)
	}
}
