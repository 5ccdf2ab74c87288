package availability

import (
	"errors"
	"sync"

	"github.com/gorilla/websocket"
)

var errUnregistered = errors.New("websocket client is not registered")

// Hub tracks websocket clients watching hall availability, grouped by
// hall id.
type Hub struct {
	mu    sync.RWMutex
	halls map[int64]map[*websocket.Conn]bool
}

func NewHub() *Hub {
	return &Hub{halls: make(map[int64]map[*websocket.Conn]bool)}
}

func (h *Hub) Register(hallID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.halls[hallID] == nil {
		h.halls[hallID] = make(map[*websocket.Conn]bool)
	}
	h.halls[hallID][conn] = true
}

func (h *Hub) Unregister(hallID int64, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, exists := h.halls[hallID]; exists {
		if conns[conn] {
			_ = conn.Close()
			delete(conns, conn)
		}
		if len(conns) == 0 {
			delete(h.halls, hallID)
		}
	}
}

// Broadcast sends the payload to every client watching the hall.
// Clients that fail to write are dropped.
func (h *Hub) Broadcast(hallID int64, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.halls[hallID] {
		if err := conn.WriteJSON(payload); err != nil {
			_ = conn.Close()
			delete(h.halls[hallID], conn)
		}
	}
}

// Send writes the payload to one registered client. The write happens
// under the hub lock so it serializes with Broadcast frames going to
// the same connection; gorilla/websocket forbids concurrent writers.
func (h *Hub) Send(hallID int64, conn *websocket.Conn, payload interface{}) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.halls[hallID][conn] {
		return errUnregistered
	}
	if err := conn.WriteJSON(payload); err != nil {
		_ = conn.Close()
		delete(h.halls[hallID], conn)
		return err
	}
	return nil
}

func (h *Hub) WatcherCount(hallID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.halls[hallID])
}

func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for hallID, conns := range h.halls {
		for conn := range conns {
			_ = conn.Close()
		}
		delete(h.halls, hallID)
	}
}
