package notifications

import (
	"errors"
	"sync"

	"lineup/internal/observability"

	"github.com/gofiber/websocket/v2"
)

const (
	maxConnsPerProfile = 12
	maxTotalConns      = 10000
)

// Hub is a websocket hub that maps profileID -> connected clients.
type Hub struct {
	mu         sync.RWMutex
	conns      map[string]map[*Client]struct{}
	totalConns int
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]map[*Client]struct{}),
	}
}

// Name returns a human-readable identifier for this hub.
func (h *Hub) Name() string { return "realtime hub" }

// Register a connection for a given profileID. Returns the Client or an error
// if connection limits are exceeded.
func (h *Hub) Register(profileID string, conn *websocket.Conn) (*Client, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.totalConns >= maxTotalConns {
		return nil, errors.New("server connection limit reached")
	}

	m, ok := h.conns[profileID]
	if !ok {
		m = make(map[*Client]struct{})
		h.conns[profileID] = m
	}
	if len(m) >= maxConnsPerProfile {
		return nil, errors.New("user connection limit reached")
	}

	client := NewClient(h, conn, profileID)
	m[client] = struct{}{}
	h.totalConns++
	observability.WebSocketConnections.Inc()

	return client, nil
}

// UnregisterClient removes a client from the hub.
func (h *Hub) UnregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if m, ok := h.conns[client.ProfileID]; ok {
		if _, exists := m[client]; exists {
			delete(m, client)
			h.totalConns--
			observability.WebSocketConnections.Dec()
		}
		if len(m) == 0 {
			delete(h.conns, client.ProfileID)
		}
	}
}

// Broadcast sends the message to every connection for profileID.
func (h *Hub) Broadcast(profileID string, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if clients, ok := h.conns[profileID]; ok {
		for c := range clients {
			c.TrySend(message)
		}
	}
}

// BroadcastAll sends the message to every connected client.
func (h *Hub) BroadcastAll(message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, clients := range h.conns {
		for c := range clients {
			c.TrySend(message)
		}
	}
}

// IsOnline reports whether a profile has at least one active connection.
func (h *Hub) IsOnline(profileID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients, ok := h.conns[profileID]
	return ok && len(clients) > 0
}

// ConnectionCount returns the total number of active connections.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalConns
}
