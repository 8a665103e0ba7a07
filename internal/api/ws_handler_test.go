package api

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/realtime"
)

func newWSTestServer(t *testing.T) (*httptest.Server, *realtime.Registry) {
	t.Helper()

	registry := realtime.NewRegistry(nil)
	handler := NewWSHandler(registry, nil)

	router := chi.NewRouter()
	router.Get("/ws/{clientID}", handler.Serve)

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		registry.Shutdown()
		server.Close()
	})

	return server, registry
}

func dialWS(t *testing.T, server *httptest.Server, clientID string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/" + clientID
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) string {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	return string(message)
}

func waitForChannels(t *testing.T, registry *realtime.Registry, want int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for registry.Len() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d open channels, have %d", want, registry.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestServeRelaysToAllClients(t *testing.T) {
	server, registry := newWSTestServer(t)

	alice := dialWS(t, server, "alice")
	bob := dialWS(t, server, "bob")
	waitForChannels(t, registry, 2)

	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte("hello from alice")))

	// The relay is unfiltered: the sender receives its own message too.
	assert.Equal(t, "hello from alice", readMessage(t, alice))
	assert.Equal(t, "hello from alice", readMessage(t, bob))
}

func TestServeDeliversRegistryBroadcasts(t *testing.T) {
	server, registry := newWSTestServer(t)

	alice := dialWS(t, server, "alice")
	bob := dialWS(t, server, "bob")
	waitForChannels(t, registry, 2)

	registry.Broadcast([]byte(`{"type":"task_created","payload":{"title":"Ship it"}}`))

	for _, conn := range []*websocket.Conn{alice, bob} {
		got := readMessage(t, conn)
		assert.Contains(t, got, "task_created")
		assert.Contains(t, got, "Ship it")
	}
}

func TestServeRemovesClosedClient(t *testing.T) {
	server, registry := newWSTestServer(t)

	alice := dialWS(t, server, "alice")
	bob := dialWS(t, server, "bob")
	waitForChannels(t, registry, 2)

	require.NoError(t, alice.Close())
	waitForChannels(t, registry, 1)

	// The survivor still receives broadcasts after the departure.
	registry.Broadcast([]byte("still here"))
	assert.Equal(t, "still here", readMessage(t, bob))
}
