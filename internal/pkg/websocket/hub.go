package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Event types pushed to clients
const (
	EventNotification = "notification"
	EventMessage      = "message"
)

// Hub maintains the set of active clients and pushes events to them by user
type Hub struct {
	// Registered clients organized by user ID
	clients map[string]map[*Client]bool

	// Events waiting to be delivered
	push chan *Event

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	logger zerolog.Logger
}

// Event is a message sent over WebSocket
type Event struct {
	// Type of event: "notification", "message"
	Type string `json:"type"`

	// Recipient user
	UserID string `json:"userId"`

	// Event body, already JSON encoded
	Payload json.RawMessage `json:"payload"`

	Timestamp time.Time `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		push:       make(chan *Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[string]map[*Client]bool),
		logger:     logger.With().Str("component", "websocket").Logger(),
	}
}

// Run handles registrations and deliveries until ctx is cancelled
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.push:
			h.deliver(event)
		}
	}
}

// registerClient registers a new client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Info().
		Str("userID", client.userID).
		Str("addr", client.remoteAddr()).
		Msg("Client registered")
}

// unregisterClient unregisters a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.userID)
	}

	h.logger.Info().
		Str("userID", client.userID).
		Str("addr", client.remoteAddr()).
		Msg("Client unregistered")
}

// deliver sends an event to every connection of its user
func (h *Hub) deliver(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("userID", event.UserID).Msg("Failed to marshal event")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[event.UserID]
	if !ok {
		h.logger.Debug().Str("userID", event.UserID).Str("type", event.Type).Msg("No clients for user, event dropped")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Client's send buffer is full, drop the connection
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// PushToUser queues an event for userID. It never blocks the caller; events are dropped when the queue is full.
func (h *Hub) PushToUser(userID, eventType string, payload interface{}) {
	body, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error().Err(err).Str("type", eventType).Msg("Failed to marshal event payload")
		return
	}
	event := &Event{Type: eventType, UserID: userID, Payload: body, Timestamp: time.Now().UTC()}
	select {
	case h.push <- event:
	default:
		h.logger.Warn().Str("userID", userID).Str("type", eventType).Msg("Push queue full, event dropped")
	}
}

// ClientCount returns the number of connections held by userID
func (h *Hub) ClientCount(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}
