// ws/hub.go
package ws

import (
	"encoding/json"
	"sync"
	"time"

	"transfer-service/internal/domain"

	"go.uber.org/zap"
)

const (
	EventTransferPending = "transfer_pending"
	EventTransferUpdate  = "transfer_update"
)

// Event is the wire envelope for every pushed message.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data"`
	Timestamp int64       `json:"timestamp"`
}

// Hub is the in-memory connection registry: userID to the set of that
// user's live connections. It is the only shared mutable state in the
// process and is rebuilt from zero on restart. Events are addressed to
// one user's connections, never broadcast.
type Hub struct {
	mu      sync.RWMutex
	clients map[int64]map[string]*Client
	logger  *zap.Logger

	pingInterval time.Duration
	pongTimeout  time.Duration
}

func NewHub(logger *zap.Logger, pingInterval, pongTimeout time.Duration) *Hub {
	return &Hub{
		clients:      make(map[int64]map[string]*Client),
		logger:       logger,
		pingInterval: pingInterval,
		pongTimeout:  pongTimeout,
	}
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[string]*Client)
	}
	h.clients[c.UserID][c.ID] = c
	h.logger.Info("websocket connected",
		zap.Int64("user_id", c.UserID),
		zap.String("conn_id", c.ID))
}

// unregister removes one connection; the user entry disappears entirely
// once its last connection is gone.
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.clients[c.UserID]
	if !ok {
		return
	}
	if _, ok := conns[c.ID]; !ok {
		return
	}
	delete(conns, c.ID)
	close(c.send)
	if len(conns) == 0 {
		delete(h.clients, c.UserID)
	}
	h.logger.Info("websocket disconnected",
		zap.Int64("user_id", c.UserID),
		zap.String("conn_id", c.ID))
}

// sendToUser fans an event out to every live connection of one user.
// Delivery is fire-and-forget: no connections means the event is
// dropped, and a connection that cannot keep up is skipped.
func (h *Hub) sendToUser(userID int64, ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error("failed to marshal event", zap.String("type", ev.Type), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients[userID] {
		select {
		case c.send <- payload:
		default:
			h.logger.Warn("send buffer full, dropping event",
				zap.Int64("user_id", userID),
				zap.String("conn_id", c.ID),
				zap.String("type", ev.Type))
		}
	}
}

// NotifyTransferPending pushes the one-time creation event for an
// external transfer.
func (h *Hub) NotifyTransferPending(userID int64, t *domain.Transaction) {
	h.sendToUser(userID, Event{
		Type:      EventTransferPending,
		Data:      t,
		Timestamp: time.Now().Unix(),
	})
}

// NotifyTransferResolved pushes the admin decision, with the resolved
// status and an optional human-readable reason.
func (h *Hub) NotifyTransferResolved(userID int64, t *domain.Transaction, status domain.TransactionStatus, reason string) {
	h.sendToUser(userID, Event{
		Type: EventTransferUpdate,
		Data: map[string]interface{}{
			"transaction": t,
			"status":      status,
			"reason":      reason,
		},
		Timestamp: time.Now().Unix(),
	})
}

// Snapshot is a read-only view of the registry.
type Snapshot struct {
	ConnectedUsers int           `json:"connected_users"`
	Connections    map[int64]int `json:"connections"`
}

func (h *Hub) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	snap := Snapshot{
		ConnectedUsers: len(h.clients),
		Connections:    make(map[int64]int, len(h.clients)),
	}
	for userID, conns := range h.clients {
		snap.Connections[userID] = len(conns)
	}
	return snap
}
