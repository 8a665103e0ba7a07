package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// defaultOutboxSize bounds how many undelivered messages a single
	// channel may accumulate before it is treated as dead.
	defaultOutboxSize = 32

	// defaultWriteWait bounds a single write to one peer.
	defaultWriteWait = 10 * time.Second
)

// Registry owns the set of open live channels and fans messages out to
// them. All handlers interact with the set exclusively through Connect,
// Disconnect, and Broadcast; the underlying collection is never shared.
type Registry struct {
	mu       sync.Mutex
	channels map[*Channel]struct{}

	outboxSize int
	writeWait  time.Duration
	logger     *slog.Logger
}

// NewRegistry creates an empty Registry.
// If log is nil, the default logger is used.
func NewRegistry(log *slog.Logger) *Registry {
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		channels:   make(map[*Channel]struct{}),
		outboxSize: defaultOutboxSize,
		writeWait:  defaultWriteWait,
		logger:     log.With(slog.String("component", "broadcast_registry")),
	}
}

// Connect wraps an accepted connection in a Channel, starts its write
// pump, and adds it to the open set. Safe to call concurrently with other
// connects, disconnects, and broadcasts.
func (r *Registry) Connect(conn Conn) *Channel {
	ch := newChannel(conn, r.outboxSize)

	r.mu.Lock()
	r.channels[ch] = struct{}{}
	open := len(r.channels)
	r.mu.Unlock()

	go ch.writePump(r, websocket.TextMessage, r.writeWait)

	r.logger.Debug("channel connected", slog.Int("open_channels", open))
	return ch
}

// Disconnect removes the channel from the open set and closes it.
// Removing a channel that is absent, or removing twice, is a no-op.
func (r *Registry) Disconnect(ch *Channel) {
	r.mu.Lock()
	_, present := r.channels[ch]
	delete(r.channels, ch)
	open := len(r.channels)
	r.mu.Unlock()

	ch.close()

	if present {
		r.logger.Debug("channel disconnected", slog.Int("open_channels", open))
	}
}

// disconnectWithReason is Disconnect plus a log line naming the delivery
// failure that triggered it. Failures here are local to the channel and
// never propagate to the broadcaster.
func (r *Registry) disconnectWithReason(ch *Channel, err error) {
	r.logger.Debug("removing channel after send failure",
		slog.String("error", err.Error()))
	r.Disconnect(ch)
}

// Broadcast delivers the message to every channel open at the moment the
// membership snapshot is taken. Delivery is fire-and-forget, at most once
// per channel per call: a channel that fails to accept the message is
// closed and removed, and the remaining channels still receive it.
func (r *Registry) Broadcast(message []byte) {
	r.mu.Lock()
	snapshot := make([]*Channel, 0, len(r.channels))
	for ch := range r.channels {
		snapshot = append(snapshot, ch)
	}
	r.mu.Unlock()

	for _, ch := range snapshot {
		if err := ch.enqueue(message); err != nil {
			r.disconnectWithReason(ch, err)
		}
	}
}

// Len reports how many channels are currently open.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.channels)
}

// Shutdown closes every open channel. Used on server shutdown.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	snapshot := make([]*Channel, 0, len(r.channels))
	for ch := range r.channels {
		snapshot = append(snapshot, ch)
	}
	r.channels = make(map[*Channel]struct{})
	r.mu.Unlock()

	for _, ch := range snapshot {
		ch.close()
	}
}
