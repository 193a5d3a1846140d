package livefeed

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

type client struct {
	conn *websocket.Conn
	// gorilla connections allow one concurrent writer
	writeMu sync.Mutex
}

func (c *client) write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Hub fans out tick updates to connected websocket clients.
type Hub struct {
	upgrader websocket.Upgrader
	latest   func() *TickUpdate

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]*client
}

// NewHub creates a hub. latest may be nil; when set, its result is sent
// to every client right after it connects.
func NewHub(latest func() *TickUpdate) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // Dashboard clients run anywhere on the LAN
			},
		},
		latest:  latest,
		clients: make(map[*websocket.Conn]*client),
	}
}

// ServeWS upgrades the request and keeps the connection until the client leaves.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	c := h.add(conn)

	// Send current tick immediately if available
	if h.latest != nil {
		if update := h.latest(); update != nil {
			if err := c.write(update.ToJsonBytes()); err != nil {
				h.remove(conn)
				return
			}
		}
	}

	// Keep connection alive, this also answers pings
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(conn)
			return
		}
	}
}

func (h *Hub) Broadcast(update *TickUpdate) {
	data := update.ToJsonBytes()
	if data == nil {
		return
	}

	h.clientsMu.RLock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.clientsMu.RUnlock()

	for _, c := range clients {
		if err := c.write(data); err != nil {
			h.remove(c.conn)
		}
	}
}

func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.clientsMu.Lock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.clientsMu.Unlock()

	for _, conn := range conns {
		h.remove(conn)
	}
}

func (h *Hub) add(conn *websocket.Conn) *client {
	c := &client{conn: conn}
	h.clientsMu.Lock()
	h.clients[conn] = c
	h.clientsMu.Unlock()
	return c
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.clientsMu.Lock()
	_, known := h.clients[conn]
	delete(h.clients, conn)
	h.clientsMu.Unlock()
	if known {
		conn.Close()
	}
}
