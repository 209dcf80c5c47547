package handler

import (
	"github.com/avantaimpex/console-backend/internal/domain"
	"github.com/avantaimpex/console-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// Handlers bundles everything RegisterRoutes mounts
type Handlers struct {
	Site         *SiteHandler
	Forms        *FormHandler
	Products     *AdminCollectionHandler[domain.Product]
	Posts        *AdminCollectionHandler[domain.BlogPost]
	Reviews      *AdminCollectionHandler[domain.Review]
	Moderation   *ReviewModerationHandler
	Media        *MediaHandler
	Notification *NotificationHandler
	WebSocket    *WebSocketHandler
}

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, formRateLimiter echo.MiddlewareFunc, h Handlers) {
	// API version 1
	api := e.Group("/api/v1")

	// Public site routes
	h.Site.Register(api)

	// Public form routes (rate limited per IP)
	forms := api.Group("")
	forms.Use(formRateLimiter)
	h.Forms.Register(forms)

	// Admin routes (protected)
	admin := api.Group("/admin")
	admin.Use(authMiddleware.Authenticate())
	h.Products.Register(admin.Group("/products"))
	h.Posts.Register(admin.Group("/posts"))
	reviews := admin.Group("/reviews")
	h.Reviews.Register(reviews)
	h.Moderation.Register(reviews)
	h.Media.Register(admin)
	h.Notification.Register(admin)

	// WebSocket authenticates via query token during the upgrade
	h.WebSocket.Register(api.Group("/admin"))
}
