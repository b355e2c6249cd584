package websocket

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (r *recordingSender) SendDirectMessage(_ context.Context, senderID, peerID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, senderID+">"+peerID+":"+text)
	return nil
}

func (r *recordingSender) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.sent...)
}

func newTestServer(t *testing.T, hub *Hub, sender MessageSender) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewHandler(hub, NewMessageHandler(sender, zerolog.Nop()), nil, zerolog.Nop())
	router.GET("/ws", func(c *gin.Context) {
		c.Set("userID", c.Query("user"))
		handler.HandleConnection(c)
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server, user string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?user=" + user
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubPushesToUser(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)
	srv := newTestServer(t, hub, &recordingSender{})

	conn := dial(t, srv, "u1")
	require.Eventually(t, func() bool { return hub.ClientCount("u1") == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.PushToUser("u2", EventNotification, map[string]string{"message": "not for u1"})
	hub.PushToUser("u1", EventNotification, map[string]string{"message": "hello"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event Event
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, EventNotification, event.Type)
	assert.Equal(t, "u1", event.UserID)
	assert.JSONEq(t, `{"message":"hello"}`, string(event.Payload))
}

func TestClientMessagesReachSender(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)
	sender := &recordingSender{}
	srv := newTestServer(t, hub, sender)

	conn := dial(t, srv, "u1")
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "typing", To: "u2"}))
	require.NoError(t, conn.WriteJSON(ClientMessage{Type: EventMessage, To: "u2", Text: "hi"}))

	require.Eventually(t, func() bool { return len(sender.all()) == 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"u1>u2:hi"}, sender.all())
}

func TestHubUnregistersOnClose(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := NewHub(zerolog.Nop())
	go hub.Run(ctx)
	srv := newTestServer(t, hub, &recordingSender{})

	conn := dial(t, srv, "u1")
	require.Eventually(t, func() bool { return hub.ClientCount("u1") == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.Close())
	assert.Eventually(t, func() bool { return hub.ClientCount("u1") == 0 }, 2*time.Second, 10*time.Millisecond)
}
