package room

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Endpoint is one player's live delivery channel. Send must enqueue without
// blocking; a non-nil error means the connection is dead or backed up.
type Endpoint interface {
	Send(data []byte) error
	Close()
}

// Hub tracks every live endpoint by (room, player) and performs fan-out.
// Delivery is best-effort per endpoint: one failed recipient never blocks the
// rest of a broadcast, it just gets reported as disconnected.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[string]Endpoint

	// onSendFailure is invoked in a fresh goroutine when an endpoint rejects
	// a frame, so the disconnect path never runs inline with a broadcast.
	onSendFailure func(roomID, playerID string)
}

func NewHub() *Hub {
	return &Hub{
		conns: make(map[string]map[string]Endpoint),
	}
}

// SetSendFailureHandler installs the callback fired when an endpoint can no
// longer accept frames. Must be set before any traffic flows.
func (h *Hub) SetSendFailureHandler(fn func(roomID, playerID string)) {
	h.onSendFailure = fn
}

func (h *Hub) Register(roomID, playerID string, ep Endpoint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[roomID] == nil {
		h.conns[roomID] = make(map[string]Endpoint)
	}
	h.conns[roomID][playerID] = ep
}

// Unregister removes and closes an endpoint. Idempotent.
func (h *Hub) Unregister(roomID, playerID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	endpoints, ok := h.conns[roomID]
	if !ok {
		return
	}
	ep, ok := endpoints[playerID]
	if !ok {
		return
	}
	delete(endpoints, playerID)
	if len(endpoints) == 0 {
		delete(h.conns, roomID)
	}
	ep.Close()
}

func (h *Hub) Unicast(roomID, playerID string, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if ep, ok := h.conns[roomID][playerID]; ok {
		h.send(roomID, playerID, ep, msg)
	}
}

func (h *Hub) Broadcast(roomID string, msg []byte) {
	h.BroadcastExcept(roomID, "", msg)
}

// BroadcastExcept delivers to every endpoint in the room but the excluded
// player. An empty exclusion delivers to everyone.
func (h *Hub) BroadcastExcept(roomID, excludedPlayerID string, msg []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for playerID, ep := range h.conns[roomID] {
		if playerID == excludedPlayerID {
			continue
		}
		h.send(roomID, playerID, ep, msg)
	}
}

func (h *Hub) send(roomID, playerID string, ep Endpoint, msg []byte) {
	if err := ep.Send(msg); err != nil {
		log.Warn().Err(err).
			Str("room", roomID).
			Str("player", playerID).
			Msg("dropping unreachable endpoint")
		if h.onSendFailure != nil {
			go h.onSendFailure(roomID, playerID)
		}
	}
}
