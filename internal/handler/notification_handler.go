package handler

import (
	"net/http"

	"github.com/avantaimpex/console-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// NotificationHandler exposes the back-office notification slot. Messages
// expire on their own; DELETE dismisses one early.
type NotificationHandler struct {
	notifier *service.Notifier
}

func NewNotificationHandler(notifier *service.Notifier) *NotificationHandler {
	return &NotificationHandler{notifier: notifier}
}

func (h *NotificationHandler) Register(g *echo.Group) {
	g.GET("/notification", h.Current)
	g.DELETE("/notification", h.Dismiss)
}

func (h *NotificationHandler) Current(c echo.Context) error {
	n := h.notifier.Current()
	if n == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, n)
}

func (h *NotificationHandler) Dismiss(c echo.Context) error {
	h.notifier.Clear()
	return c.NoContent(http.StatusNoContent)
}
