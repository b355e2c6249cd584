package websocket

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// MessageSender stores a direct message typed into a websocket
type MessageSender interface {
	SendDirectMessage(ctx context.Context, senderID, peerID, text string) error
}

// MessageHandler processes messages typed by websocket clients
type MessageHandler struct {
	sender MessageSender
	logger zerolog.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(sender MessageSender, logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{sender: sender, logger: logger}
}

// Handle stores msg as sent by userID. Only "message" events are accepted.
func (h *MessageHandler) Handle(userID string, msg ClientMessage) {
	if msg.Type != EventMessage {
		h.logger.Debug().Str("userID", userID).Str("type", msg.Type).Msg("Ignoring client event")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.sender.SendDirectMessage(ctx, userID, msg.To, msg.Text); err != nil {
		h.logger.Warn().
			Err(err).
			Str("userID", userID).
			Str("peerID", msg.To).
			Msg("Failed to store WebSocket message")
	}
}
