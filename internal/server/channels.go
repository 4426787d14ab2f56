package server

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"castboard/internal/registry"
)

const (
	sseSendBuffer  = 16
	wsWriteTimeout = 5 * time.Second
)

var errChannelClosed = errors.New("channel closed")

// sseChannel queues frames for a single SSE handler goroutine. A full
// buffer means the client stopped draining; the write fails and the
// registry prunes the channel.
type sseChannel struct {
	frames    chan []byte
	closeOnce sync.Once
	closed    chan struct{}
}

func newSSEChannel() *sseChannel {
	return &sseChannel{
		frames: make(chan []byte, sseSendBuffer),
		closed: make(chan struct{}),
	}
}

func (c *sseChannel) Send(payload []byte) error {
	select {
	case <-c.closed:
		return errChannelClosed
	default:
	}
	select {
	case c.frames <- payload:
		return nil
	case <-c.closed:
		return errChannelClosed
	default:
		return errors.New("client not draining events")
	}
}

func (c *sseChannel) Transport() registry.Transport { return registry.TransportSSE }

func (c *sseChannel) Close() {
	c.closeOnce.Do(func() { close(c.closed) })
}

// wsChannel wraps a websocket connection. Writes are serialized by the
// mutex so per-screen delivery order follows call order.
type wsChannel struct {
	conn      *websocket.Conn
	mu        sync.Mutex
	closeOnce sync.Once
}

func newWSChannel(conn *websocket.Conn) *wsChannel {
	return &wsChannel{conn: conn}
}

func (c *wsChannel) Send(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *wsChannel) Transport() registry.Transport { return registry.TransportWebSocket }

func (c *wsChannel) Close() {
	c.closeOnce.Do(func() { c.conn.Close() })
}
