package websocket

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Handler for WebSocket connections
type Handler struct {
	hub      *Hub
	messages *MessageHandler
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler. An empty allowedOrigins accepts any origin.
func NewHandler(hub *Hub, messages *MessageHandler, allowedOrigins []string, logger zerolog.Logger) *Handler {
	checkOrigin := func(r *http.Request) bool {
		if len(allowedOrigins) == 0 {
			return true
		}
		return slices.Contains(allowedOrigins, r.Header.Get("Origin"))
	}
	return &Handler{
		hub:      hub,
		messages: messages,
		upgrader: newUpgrader(checkOrigin),
		logger:   logger,
	}
}

// HandleConnection upgrades the request of the authenticated session to a websocket.
// Notifications and direct messages for that user are pushed over it.
func (h *Handler) HandleConnection(c *gin.Context) {
	// Set by the auth middleware
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "User ID not found in context",
		})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("userID", userID).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:     h.hub,
		conn:    conn,
		send:    make(chan []byte, 256),
		userID:  userID,
		handler: h.messages,
		logger:  h.logger,
	}
	client.hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	go client.readPump()

	h.logger.Info().
		Str("userID", userID).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
