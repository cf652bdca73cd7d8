package mirror

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/vtree/pkg/memdom"
	"github.com/vango-dev/vtree/pkg/metrics"
)

// MessageType identifies a message sent to mirror clients.
type MessageType string

const (
	// MessageSnapshot carries the full HTML of the container. It is the
	// first message on every connection.
	MessageSnapshot MessageType = "snapshot"
	// MessageMutation carries one surface mutation.
	MessageMutation MessageType = "mutation"
	// MessageRender marks the end of a render and carries its stats.
	MessageRender MessageType = "render"
)

// Message is sent to mirror clients as JSON.
type Message struct {
	Type     MessageType      `json:"type"`
	Mutation *memdom.Mutation `json:"mutation,omitempty"`
	HTML     string           `json:"html,omitempty"`
	Stats    any              `json:"stats,omitempty"`
	Error    string           `json:"error,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() {
		close(c.send)
	})
}

// Hub fans messages out to websocket clients. Each client has a bounded
// queue; a client whose queue is full is disconnected rather than allowed
// to stall the broadcaster.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader

	buffer       int
	writeTimeout time.Duration
	logger       *slog.Logger
	rec          *metrics.Recorder

	// snapshot returns the message sent to a client on connect.
	snapshot func() Message
}

// NewHub creates a hub. buffer is the per-client queue length.
func NewHub(buffer int, writeTimeout time.Duration, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // The mirror is a local preview tool.
			},
		},
		buffer:       buffer,
		writeTimeout: writeTimeout,
		logger:       logger,
	}
}

// ServeHTTP upgrades the connection and streams messages until the client
// goes away or falls behind.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{conn: conn, send: make(chan []byte, h.buffer)}

	// Take the snapshot while holding the lock so that no broadcast falls
	// between it and registration. A mutation may be both in the snapshot
	// and delivered after it; clients treat replays as idempotent.
	h.mu.Lock()
	if h.snapshot != nil {
		if data, err := json.Marshal(h.snapshot()); err == nil {
			c.send <- data
		}
	}
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	if h.rec != nil {
		h.rec.ClientConnected()
	}
	h.logger.Debug("mirror client connected", "remote", r.RemoteAddr)

	go h.writeLoop(c)

	// Read until the client disconnects; incoming messages are ignored.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	h.remove(c)
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for data := range c.send {
		if h.writeTimeout > 0 {
			c.conn.SetWriteDeadline(time.Now().Add(h.writeTimeout))
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.logger.Debug("mirror write failed", "error", err)
			h.remove(c)
			return
		}
	}
	c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
}

// remove unregisters c. Safe to call more than once.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if !ok {
		return
	}
	c.close()
	if h.rec != nil {
		h.rec.ClientDisconnected()
	}
}

// Broadcast queues msg for every client without blocking.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("encode mirror message", "error", err)
		return
	}

	var slow []*client
	h.mu.RLock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	if msg.Type == MessageMutation && h.rec != nil {
		h.rec.Broadcast()
	}
	for _, c := range slow {
		h.logger.Warn("dropping slow mirror client", "remote", c.conn.RemoteAddr().String())
		if h.rec != nil {
			h.rec.Dropped()
		}
		h.remove(c)
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects all clients.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.close()
		if h.rec != nil {
			h.rec.ClientDisconnected()
		}
	}
}
