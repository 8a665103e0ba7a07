package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"taskboard/internal/realtime"
)

// maxInboundMessageSize bounds a single relayed client message.
const maxInboundMessageSize = 64 * 1024

// WSHandler upgrades live-channel requests and wires the resulting
// connections into the broadcast registry.
type WSHandler struct {
	registry *realtime.Registry
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewWSHandler creates a new WSHandler with the given dependencies.
// If log is nil, the default logger is used.
func NewWSHandler(registry *realtime.Registry, log *slog.Logger) *WSHandler {
	if log == nil {
		log = slog.Default()
	}
	return &WSHandler{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The API is served with permissive CORS; the live channel
			// matches it.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: log.With(slog.String("component", "ws_handler")),
	}
}

// Serve handles GET /ws/{clientID}. The client identifier is diagnostic
// only: it carries no authentication and no subscription filter. After
// the handshake the connection joins the registry, and every inbound
// message is re-broadcast verbatim to all open channels.
func (h *WSHandler) Serve(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response
		h.logger.Debug("websocket upgrade failed",
			slog.String("error", err.Error()),
			slog.String("client_id", clientID))
		return
	}
	conn.SetReadLimit(maxInboundMessageSize)

	channel := h.registry.Connect(conn)
	h.logger.Info("live channel connected", slog.String("client_id", clientID))

	// Read pump: the blocking read doubles as disconnect detection. A
	// failed read is a normal terminal condition, not an exceptional path.
	defer func() {
		h.registry.Disconnect(channel)
		h.logger.Info("live channel closed", slog.String("client_id", clientID))
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Debug("live channel read failed",
					slog.String("error", err.Error()),
					slog.String("client_id", clientID))
			}
			return
		}

		// Generic relay: inbound messages go back out to every open
		// channel, including the sender, with no validation or filtering.
		h.registry.Broadcast(message)
	}
}
