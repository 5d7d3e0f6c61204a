// Package live pushes collection-change notifications to connected browser
// tabs over WebSocket. A tab that learns "events changed" refetches; this
// narrows the window in which a second tab acts on stale eligibility data.
package live

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeTimeout = 10 * time.Second
	sendBuffer   = 16
)

// ChangeNotice is the single message type pushed to clients.
type ChangeNotice struct {
	Collection string `json:"collection"`
}

// Hub tracks connected clients and fans change notices out to them.
type Hub struct {
	mu          sync.RWMutex
	connections map[string]*connection
	upgrader    websocket.Upgrader
	log         zerolog.Logger
}

type connection struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates an empty hub.
func NewHub(log zerolog.Logger) *Hub {
	return &Hub{
		connections: make(map[string]*connection),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// The API is CORS-open; the socket follows suit.
				return true
			},
		},
		log: log,
	}
}

// HandleWS upgrades the request and registers the client until it
// disconnects.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to upgrade WebSocket connection")
		return
	}

	c := &connection{
		id:   uuid.NewString(),
		conn: ws,
		send: make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	h.connections[c.id] = c
	h.mu.Unlock()
	h.log.Info().Str("connection_id", c.id).Msg("WebSocket client connected")

	go h.writePump(c)
	go h.readPump(c)
}

// Broadcast queues a change notice for every connected client. Clients whose
// send buffer is full are dropped rather than blocking the mutation path.
func (h *Hub) Broadcast(collection string) {
	payload, err := json.Marshal(ChangeNotice{Collection: collection})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.connections {
		select {
		case c.send <- payload:
		default:
			h.log.Warn().Str("connection_id", c.id).Msg("send buffer full, dropping client")
			go h.remove(c)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

func (h *Hub) writePump(c *connection) {
	defer c.conn.Close()
	for payload := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(c)
			return
		}
	}
}

// readPump discards inbound frames; the protocol is push-only. It exists to
// notice the close handshake.
func (h *Hub) readPump(c *connection) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			h.remove(c)
			return
		}
	}
}

func (h *Hub) remove(c *connection) {
	h.mu.Lock()
	_, present := h.connections[c.id]
	if present {
		delete(h.connections, c.id)
		close(c.send)
	}
	h.mu.Unlock()
	if present {
		h.log.Info().Str("connection_id", c.id).Msg("WebSocket client disconnected")
	}
}
