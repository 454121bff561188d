package handler

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/onboardly/onboarding-system/internal/api/metrics"
	"github.com/onboardly/onboarding-system/internal/infrastructure/ws"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Tokens authenticate connections, not origins.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WSHandler upgrades authenticated requests into hub-managed sockets.
type WSHandler struct {
	hub *ws.Hub
	log zerolog.Logger
}

func NewWSHandler(hub *ws.Hub, log zerolog.Logger) *WSHandler {
	return &WSHandler{hub: hub, log: log}
}

// Serve handles GET /v1/ws. The socket is write-only from the server's
// side; client frames are read and discarded to keep control-frame
// processing alive.
//
// @Summary      Open the real-time notification socket
// @Tags         notifications
// @Security     BearerAuth
// @Success      101
// @Router       /v1/ws [get]
func (h *WSHandler) Serve(c echo.Context) error {
	uid, _, err := ctxClaims(c)
	if err != nil {
		return err
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.log.Warn().Err(err).Str("user", uid).Msg("websocket upgrade failed")
		return nil
	}

	if err := h.hub.Register(uid, conn); err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, err.Error()),
			time.Now().Add(time.Second))
		_ = conn.Close()
		return nil
	}
	metrics.WebsocketConnections.Inc()

	go h.readLoop(uid, conn)
	return nil
}

func (h *WSHandler) readLoop(uid string, conn *websocket.Conn) {
	defer func() {
		h.hub.Unregister(uid, conn)
		metrics.WebsocketConnections.Dec()
		_ = conn.Close()
	}()
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
