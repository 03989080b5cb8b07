// handler/ws_handler.go
package handler

import (
	"net/http"

	"transfer-service/internal/middleware"
	"transfer-service/internal/response"
	"transfer-service/internal/ws"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict to known dashboard origins
	},
}

type WSHandler struct {
	hub    *ws.Hub
	auth   *middleware.AuthMiddleware
	logger *zap.Logger
}

func NewWSHandler(hub *ws.Hub, auth *middleware.AuthMiddleware, logger *zap.Logger) *WSHandler {
	return &WSHandler{hub: hub, auth: auth, logger: logger}
}

// HandleWebSocket authenticates the handshake and joins the connection
// to its user's room. Bad tokens and inactive users are refused before
// the upgrade, so no registry state is ever created for them.
func (h *WSHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	user, err := h.auth.AuthenticateRequest(r)
	if err != nil {
		response.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Int64("user_id", user.ID), zap.Error(err))
		return
	}

	client := ws.NewClient(h.hub, conn, user.ID)
	client.Run()
}
