package handler

import (
	"errors"
	"net/http"

	"github.com/avantaimpex/console-backend/internal/domain"
	"github.com/avantaimpex/console-backend/internal/service"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// ReviewModerationHandler approves or rejects submitted reviews
type ReviewModerationHandler struct {
	reviews *service.Manager[domain.Review]
	logger  zerolog.Logger
}

func NewReviewModerationHandler(reviews *service.Manager[domain.Review], logger zerolog.Logger) *ReviewModerationHandler {
	return &ReviewModerationHandler{
		reviews: reviews,
		logger:  logger.With().Str("component", "review_moderation_handler").Logger(),
	}
}

func (h *ReviewModerationHandler) Register(g *echo.Group) {
	g.POST("/:id/approve", h.Approve)
	g.POST("/:id/reject", h.Reject)
}

func (h *ReviewModerationHandler) Approve(c echo.Context) error {
	return h.moderate(c, domain.ReviewApproved)
}

func (h *ReviewModerationHandler) Reject(c echo.Context) error {
	return h.moderate(c, domain.ReviewRejected)
}

func (h *ReviewModerationHandler) moderate(c echo.Context, status domain.ReviewStatus) error {
	id := c.Param("id")
	review, err := h.reviews.QuickUpdate(c.Request().Context(), id, domain.Payload{"status": string(status)})
	if err != nil {
		if errors.Is(err, domain.ErrSubmitInFlight) {
			return NewConflictError(c, "a submit is already in flight")
		}
		h.logger.Error().Err(err).Str("id", id).Str("status", string(status)).Msg("review moderation failed")
		return remoteFailureResponse(c, err, "failed to update review status")
	}
	return c.JSON(http.StatusOK, review)
}
