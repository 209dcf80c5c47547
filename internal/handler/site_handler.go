package handler

import (
	"net/http"
	"strconv"

	"github.com/avantaimpex/console-backend/internal/domain"
	"github.com/avantaimpex/console-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// SiteHandler serves the public, read-only site endpoints
type SiteHandler struct {
	site     *service.SiteService
	products *service.Manager[domain.Product]
	posts    *service.Manager[domain.BlogPost]
	logger   zerolog.Logger
}

func NewSiteHandler(site *service.SiteService, products *service.Manager[domain.Product], posts *service.Manager[domain.BlogPost], logger zerolog.Logger) *SiteHandler {
	return &SiteHandler{
		site:     site,
		products: products,
		posts:    posts,
		logger:   logger.With().Str("component", "site_handler").Logger(),
	}
}

func (h *SiteHandler) Register(g *echo.Group) {
	g.GET("/site/home", h.Home)
	g.GET("/products", h.ListProducts)
	g.GET("/products/:id", h.GetProduct)
	g.GET("/posts", h.ListPosts)
	g.GET("/posts/:id", h.GetPost)
	g.GET("/reviews", h.ListReviews)
}

// Home returns the aggregated home page view
func (h *SiteHandler) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, h.site.Home(c.Request().Context()))
}

// ListProducts returns the full product catalog
func (h *SiteHandler) ListProducts(c echo.Context) error {
	if err := h.products.EnsureLoaded(c.Request().Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to load products")
		return remoteFailureResponse(c, err, "failed to load products")
	}
	return c.JSON(http.StatusOK, map[string]any{"items": h.products.Items()})
}

// GetProduct returns a single product from the cache
func (h *SiteHandler) GetProduct(c echo.Context) error {
	if err := h.products.EnsureLoaded(c.Request().Context()); err != nil {
		return remoteFailureResponse(c, err, "failed to load products")
	}
	product, ok := h.products.Item(c.Param("id"))
	if !ok {
		return NewNotFoundError(c, "product not found")
	}
	return c.JSON(http.StatusOK, product)
}

// ListPosts returns the published blog posts
func (h *SiteHandler) ListPosts(c echo.Context) error {
	if err := h.posts.EnsureLoaded(c.Request().Context()); err != nil {
		h.logger.Error().Err(err).Msg("failed to load posts")
		return remoteFailureResponse(c, err, "failed to load posts")
	}
	return c.JSON(http.StatusOK, map[string]any{"items": h.posts.Items()})
}

// GetPost returns a single blog post from the cache
func (h *SiteHandler) GetPost(c echo.Context) error {
	if err := h.posts.EnsureLoaded(c.Request().Context()); err != nil {
		return remoteFailureResponse(c, err, "failed to load posts")
	}
	post, ok := h.posts.Item(c.Param("id"))
	if !ok {
		return NewNotFoundError(c, "post not found")
	}
	return c.JSON(http.StatusOK, post)
}

// ListReviews returns approved reviews only
func (h *SiteHandler) ListReviews(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return NewValidationError(c, "limit must be a non-negative integer", nil)
		}
		limit = n
	}
	reviews := h.site.ApprovedReviews(c.Request().Context(), limit)
	return c.JSON(http.StatusOK, map[string]any{"items": reviews})
}
