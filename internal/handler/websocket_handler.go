package handler

import (
	"net/http"

	"github.com/avantaimpex/console-backend/internal/middleware"
	ws "github.com/avantaimpex/console-backend/internal/websocket"
	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// WebSocketHandler upgrades admin connections and feeds them collection
// change events. Browsers cannot set headers on the upgrade request, so the
// session token travels as a query parameter.
type WebSocketHandler struct {
	hub      *ws.Hub
	verifier middleware.SessionVerifier
	upgrader gorillaws.Upgrader
	logger   zerolog.Logger
}

func NewWebSocketHandler(hub *ws.Hub, verifier middleware.SessionVerifier, logger zerolog.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub:      hub,
		verifier: verifier,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// CORS is enforced at the HTTP layer
				return true
			},
		},
		logger: logger.With().Str("component", "websocket_handler").Logger(),
	}
}

func (h *WebSocketHandler) Register(g *echo.Group) {
	g.GET("/ws", h.Connect)
}

func (h *WebSocketHandler) Connect(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return NewUnauthorizedError(c, "missing session token")
	}
	subject, err := h.verifier.Verify(token)
	if err != nil {
		return NewUnauthorizedError(c, "invalid session token")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("websocket upgrade failed")
		return err
	}

	client := ws.NewClient(conn, h.hub)
	h.hub.Register(client)
	h.logger.Info().Str("client_id", client.ID()).Str("subject", subject).Msg("websocket client connected")

	go client.WritePump()
	go client.ReadPump()
	return nil
}
