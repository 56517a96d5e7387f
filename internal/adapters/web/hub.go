package web

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/mikey/spam-classifier/internal/core"
	"go.uber.org/zap"
)

// EventType identifies a message pushed to websocket clients
type EventType string

const (
	EventBusy  EventType = "busy"
	EventState EventType = "state"
)

// Event is the websocket envelope format
type Event struct {
	Type  EventType   `json:"type"`
	Busy  *bool       `json:"busy,omitempty"`
	State *core.State `json:"state,omitempty"`
}

// client is one websocket subscriber
type client struct {
	send chan []byte
}

// Hub fans controller notifications out to websocket clients.
// It keeps the last busy flag and state so a new client starts from the
// same point the broadcasts continue from.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	closed   bool
	busyMsg  []byte
	stateMsg []byte
	logger   *zap.Logger
}

// NewHub creates a new websocket hub holding an idle snapshot
func NewHub(logger *zap.Logger) *Hub {
	h := &Hub{
		clients: make(map[*client]struct{}),
		logger:  logger,
	}
	h.Seed(false, core.State{Phase: core.PhaseIdle, UpdatedAt: time.Now()})
	return h
}

// Seed replaces the cached snapshot. Call it before subscribing the hub.
func (h *Hub) Seed(busy bool, state core.State) {
	busyMsg, err := h.marshal(Event{Type: EventBusy, Busy: &busy})
	if err != nil {
		return
	}
	stateMsg, err := h.marshal(Event{Type: EventState, State: &state})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.busyMsg = busyMsg
	h.stateMsg = stateMsg
}

// Register adds a client after queueing the cached snapshot on it.
// It returns false once the hub is closed or when the snapshot does not fit.
func (h *Hub) Register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return false
	}
	for _, msg := range [][]byte{h.busyMsg, h.stateMsg} {
		select {
		case c.send <- msg:
		default:
			return false
		}
	}
	h.clients[c] = struct{}{}
	return true
}

// Unregister removes a client and closes its send channel
func (h *Hub) Unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
}

// Clients returns the number of connected clients
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client and rejects new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}

// OnBusyChanged caches and broadcasts the busy flag
func (h *Hub) OnBusyChanged(busy bool) {
	msg, err := h.marshal(Event{Type: EventBusy, Busy: &busy})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.busyMsg = msg
	h.broadcastLocked(msg)
}

// OnStateChanged caches and broadcasts the new state
func (h *Hub) OnStateChanged(state core.State) {
	msg, err := h.marshal(Event{Type: EventState, State: &state})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.stateMsg = msg
	h.broadcastLocked(msg)
}

func (h *Hub) marshal(event Event) ([]byte, error) {
	msg, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to marshal event", zap.Error(err))
	}
	return msg, err
}

// broadcastLocked must be called with h.mu held
func (h *Hub) broadcastLocked(msg []byte) {
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			// Slow consumer
			h.logger.Warn("Dropping websocket client with full send buffer")
			delete(h.clients, c)
			close(c.send)
		}
	}
}
