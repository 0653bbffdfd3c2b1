// Mathesis - Adaptive Knowledge Mapping and Mastery Estimation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/mathesis

package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/mathesis/internal/engine"
	"github.com/tomtom215/mathesis/internal/logging"
	"github.com/tomtom215/mathesis/internal/metrics"
)

// ShutdownReason identifies why the hub is shutting down.
type ShutdownReason string

const (
	// ShutdownReasonContextCanceled is the normal graceful shutdown path.
	ShutdownReasonContextCanceled ShutdownReason = "context_canceled"

	// ShutdownReasonContextDeadline indicates a hung operation during
	// shutdown.
	ShutdownReasonContextDeadline ShutdownReason = "context_deadline"
)

// Message types pushed to connected dashboards.
const (
	MessageTypeObservation      = "observation_recorded"
	MessageTypeConfidence       = "confidence_update"
	MessageTypeSessionCompleted = "session_completed"
	MessageTypeGridRefresh      = "grid_refresh"
	MessageTypePing             = "ping"
	MessageTypePong             = "pong"
)

// Message is the envelope for all websocket traffic.
type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub maintains the set of active clients and broadcasts session updates
// to them. All broadcasts are fan-out to every client; payloads carry the
// session id so dashboards filter client-side.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a hub. It does nothing until RunWithContext is started
// under the supervisor.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext runs the hub loop until the context is cancelled, then
// closes every client and returns ctx.Err().
//
// Selection is priority-ordered rather than a flat select: shutdown wins
// over lifecycle events, lifecycle events win over broadcasts. Go's select
// picks randomly among ready channels, which would otherwise let a
// broadcast race ahead of the unregister of the client it is about to
// write to.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()

	metrics.WSConnections.Inc()
	logging.Info().Int("total_clients", total).Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		metrics.WSConnections.Dec()
	}
	total := len(h.clients)
	h.mu.Unlock()

	logging.Info().Int("total_clients", total).Msg("websocket client disconnected")
}

// broadcastToClients delivers a message to every client in id order.
// Clients whose send buffer is full are dropped: a consumer that cannot
// keep up with live updates reconnects and refetches, it never stalls the
// hub.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	var toRemove []*Client
	for _, client := range clients {
		select {
		case client.send <- message:
			metrics.WSMessagesSent.Inc()
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.WSConnections.Dec()
		metrics.WSMessagesDropped.Inc()
		logging.Warn().Uint64("client_id", client.id).Msg("websocket client dropped, send buffer full")
	}
}

func (h *Hub) shutdown(ctx context.Context) {
	count := h.ClientCount()
	h.closeAllClients()

	reason := ShutdownReasonContextCanceled
	if ctx.Err() == context.DeadlineExceeded {
		reason = ShutdownReasonContextDeadline
	}

	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", string(reason)).
		Int("clients_closed", count).
		Msg("websocket hub stopped")
}

// closeAllClients closes clients in id order so shutdown is repeatable.
func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})

	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
		metrics.WSConnections.Dec()
	}
}

// BroadcastJSON queues a message for all clients, dropping it when the
// hub's own buffer is full.
func (h *Hub) BroadcastJSON(messageType string, data interface{}) {
	message := Message{Type: messageType, Data: data}

	select {
	case h.broadcast <- message:
	default:
		metrics.WSMessagesDropped.Inc()
		logging.Warn().Str("message_type", messageType).Msg("broadcast channel full, dropping message")
	}
}

// ConfidenceUpdateData is the payload of confidence_update messages.
type ConfidenceUpdateData struct {
	SessionID  string            `json:"session_id"`
	Confidence engine.Confidence `json:"confidence"`
	Timestamp  string            `json:"timestamp"`
}

// BroadcastConfidence pushes a fresh confidence report to all clients.
func (h *Hub) BroadcastConfidence(sessionID string, report engine.Confidence) {
	h.BroadcastJSON(MessageTypeConfidence, ConfidenceUpdateData{
		SessionID:  sessionID,
		Confidence: report,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

// GridRefreshData is the payload of grid_refresh messages. It is a hint:
// the mastery field changed and heat-map consumers should refetch the
// grid, which is too large to push per observation.
type GridRefreshData struct {
	SessionID string `json:"session_id"`
	Timestamp string `json:"timestamp"`
}

// BroadcastGridRefresh tells clients a session's mastery grid is stale.
func (h *Hub) BroadcastGridRefresh(sessionID string) {
	h.BroadcastJSON(MessageTypeGridRefresh, GridRefreshData{
		SessionID: sessionID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
