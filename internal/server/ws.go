package server

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/ayusman/taala/internal/cycle"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// LiveEvent is one message on the live WebSocket feed: either a per-frame
// metric sample or an accepted cycle.
type LiveEvent struct {
	Type      string       `json:"type"` // "metric" or "cycle"
	Timestamp float64      `json:"t,omitempty"`
	Metric    float64      `json:"metric,omitempty"`
	Cycle     *cycle.Cycle `json:"cycle,omitempty"`
}

// LiveHandler pushes metric samples and accepted cycles from the capture
// pipeline to connected WebSocket clients. The pipeline publishes, the
// handler fans out; slow clients are dropped rather than allowed to stall
// the capture loop.
type LiveHandler struct {
	clients map[*websocket.Conn]bool
	mu      sync.RWMutex
}

// NewLiveHandler creates a LiveHandler with no clients.
func NewLiveHandler() *LiveHandler {
	return &LiveHandler{
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// Publish sends one event to every connected client. Failed writes close
// and drop the client.
func (h *LiveHandler) Publish(event LiveEvent) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	var dead []*websocket.Conn
	for _, conn := range conns {
		if err := conn.WriteJSON(event); err != nil {
			dead = append(dead, conn)
		}
	}

	if len(dead) > 0 {
		h.mu.Lock()
		for _, conn := range dead {
			conn.Close()
			delete(h.clients, conn)
		}
		h.mu.Unlock()
	}
}

// PublishMetric publishes a per-frame metric sample.
func (h *LiveHandler) PublishMetric(t, metric float64) {
	h.Publish(LiveEvent{Type: "metric", Timestamp: t, Metric: metric})
}

// PublishCycle publishes an accepted cycle.
func (h *LiveHandler) PublishCycle(c cycle.Cycle) {
	h.Publish(LiveEvent{Type: "cycle", Cycle: &c})
}

// ClientCount returns the number of connected clients.
func (h *LiveHandler) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
