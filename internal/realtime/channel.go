package realtime

import (
	"errors"
	"sync"
	"time"
)

// Conn is the transport a live channel writes to. *websocket.Conn from
// gorilla/websocket satisfies it.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// errChannelClosed is returned by enqueue after the channel left the open set.
var errChannelClosed = errors.New("channel closed")

// errOutboxFull is returned by enqueue when the peer is not draining its
// outbox. The registry treats it like any other send failure.
var errOutboxFull = errors.New("channel outbox full")

// Channel is one live connection's delivery path. Messages are enqueued
// into a buffered outbox and written by a dedicated pump goroutine, so a
// slow or dead peer never blocks the registry or other channels.
type Channel struct {
	conn      Conn
	out       chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newChannel(conn Conn, outboxSize int) *Channel {
	return &Channel{
		conn: conn,
		out:  make(chan []byte, outboxSize),
		done: make(chan struct{}),
	}
}

// enqueue hands a message to the write pump without blocking. A closed
// channel or a full outbox is a delivery failure for this channel only.
func (c *Channel) enqueue(message []byte) error {
	select {
	case <-c.done:
		return errChannelClosed
	default:
	}

	select {
	case c.out <- message:
		return nil
	case <-c.done:
		return errChannelClosed
	default:
		return errOutboxFull
	}
}

// close transitions the channel to its terminal state and closes the
// underlying connection. Safe to call multiple times.
func (c *Channel) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// writePump drains the outbox onto the connection. It exits when the
// channel closes or a write fails; a failed write removes the channel
// from the registry so it never lingers open-but-dead.
func (c *Channel) writePump(r *Registry, messageType int, writeWait time.Duration) {
	for {
		select {
		case message := <-c.out:
			if writeWait > 0 {
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			}
			if err := c.conn.WriteMessage(messageType, message); err != nil {
				r.disconnectWithReason(c, err)
				return
			}
		case <-c.done:
			return
		}
	}
}
