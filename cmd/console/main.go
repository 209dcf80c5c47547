package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/avantaimpex/console-backend/internal/config"
	"github.com/avantaimpex/console-backend/internal/domain"
	"github.com/avantaimpex/console-backend/internal/handler"
	"github.com/avantaimpex/console-backend/internal/middleware"
	"github.com/avantaimpex/console-backend/internal/repository/rest"
	"github.com/avantaimpex/console-backend/internal/repository/storage"
	"github.com/avantaimpex/console-backend/internal/service"
	"github.com/avantaimpex/console-backend/internal/websocket"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Initialize zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if os.Getenv("ENV") != "production" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Remote content backend client and per-resource collections
	client := rest.NewClient(cfg.RemoteAPIURL, cfg.RemoteAPIToken)
	productCollection := rest.NewCollection[domain.Product](client, "products")
	postCollection := rest.NewCollection[domain.BlogPost](client, "posts")
	reviewCollection := rest.NewCollection[domain.Review](client, "reviews")
	inquiryCollection := rest.NewCollection[domain.TradeInquiry](client, "inquiries")
	messageCollection := rest.NewCollection[domain.ContactMessage](client, "messages")

	// Media storage is optional; without it uploads are rejected but
	// everything else works
	var mediaRepo storage.MediaRepository
	if cfg.S3.Enabled() {
		repo, err := storage.NewS3MediaRepository(context.Background(), cfg.S3)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize media storage")
		}
		mediaRepo = repo
		log.Info().Str("bucket", cfg.S3.Bucket).Msg("Media storage enabled")
	} else {
		log.Warn().Msg("Media storage not configured, uploads disabled")
	}
	mediaService := service.NewMediaService(mediaRepo)

	// One notification slot shared by the whole back office
	notifier := service.NewNotifier(service.DefaultNotificationTTL)

	// WebSocket hub for cross-tab change events
	hub := websocket.NewHub()

	// Collection managers
	productManager := service.NewManager[domain.Product]("product", productCollection, mediaService, notifier)
	postManager := service.NewManager[domain.BlogPost]("post", postCollection, mediaService, notifier)
	reviewManager := service.NewManager[domain.Review]("review", reviewCollection, mediaService, notifier)
	productManager.SetEventPublisher(hub)
	postManager.SetEventPublisher(hub)
	reviewManager.SetEventPublisher(hub)

	siteService := service.NewSiteService(productManager, postManager, reviewManager)

	// Session verification and rate limiting
	verifier := middleware.NewJWTSessionVerifier(cfg.SessionSecret)
	authMiddleware := middleware.NewAuthMiddleware(verifier)
	rateLimiter := middleware.NewRateLimiterWithConfig(cfg.FormRateLimit, cfg.FormRateBurst)
	defer rateLimiter.Stop()

	// Initialize handlers
	handlers := handler.Handlers{
		Site:         handler.NewSiteHandler(siteService, productManager, postManager, log.Logger),
		Forms:        handler.NewFormHandler(messageCollection, inquiryCollection, reviewCollection, mediaService, log.Logger),
		Products:     handler.NewAdminCollectionHandler(productManager, log.Logger),
		Posts:        handler.NewAdminCollectionHandler(postManager, log.Logger),
		Reviews:      handler.NewAdminCollectionHandler(reviewManager, log.Logger),
		Moderation:   handler.NewReviewModerationHandler(reviewManager, log.Logger),
		Media:        handler.NewMediaHandler(mediaService, log.Logger),
		Notification: handler.NewNotificationHandler(notifier),
		WebSocket:    handler.NewWebSocketHandler(hub, verifier, log.Logger),
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Request ID middleware
	e.Use(echomiddleware.RequestID())

	// CORS middleware
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Security headers middleware (helmet-like)
	e.Use(echomiddleware.SecureWithConfig(echomiddleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}))

	// Request logging middleware with zerolog
	e.Use(zerologMiddleware())

	// Recovery middleware
	e.Use(echomiddleware.Recover())

	// Health check endpoint
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	// Register API routes
	handler.RegisterRoutes(e, authMiddleware, middleware.FormRateLimitMiddleware(rateLimiter), handlers)

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := e.Start(":" + cfg.Port); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}

// zerologMiddleware returns a middleware that logs requests using zerolog
func zerologMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			log.Info().
				Str("method", req.Method).
				Str("path", req.URL.Path).
				Int("status", res.Status).
				Dur("latency", time.Since(start)).
				Str("request_id", res.Header().Get(echo.HeaderXRequestID)).
				Msg("request")

			return nil
		}
	}
}
