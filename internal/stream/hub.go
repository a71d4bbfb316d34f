// Package stream broadcasts dispatched alerts to connected websocket
// clients, so a dashboard can follow whale activity live alongside the
// webhook channels.
package stream

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"whalecaster/internal/domain"
)

// Hub tracks connected clients and fans dispatched alerts out to them.
// Clients are write-only; anything they send is ignored.
type Hub struct {
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}
}

// ServeHTTP upgrades the request and registers the client until it
// disconnects.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	// Drain reads to detect disconnects; payloads are discarded.
	go func() {
		defer h.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast sends one dispatched alert to every connected client. Write
// failures drop the client. The lock is held across the writes: gorilla
// connections allow only one concurrent writer, and batches are processed
// concurrently.
func (h *Hub) Broadcast(rec *domain.AlertRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for c := range h.conns {
		if err := c.WriteJSON(rec); err != nil {
			delete(h.conns, c)
			_ = c.Close()
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}

func (h *Hub) drop(conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.conns, conn)
	h.mu.Unlock()
	_ = conn.Close()
}
