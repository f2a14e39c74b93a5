// internal/handlers/hub.go
package handlers

import (
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/game"
	"github.com/sirupsen/logrus"
)

// sendBuffer is the number of frames queued per connection before new
// frames are dropped.
const sendBuffer = 64

// client is one player's socket in one room. Frames queued on send are
// written by the connection's writer goroutine.
type client struct {
	playerID uuid.UUID
	send     chan []byte
}

// Hub keeps the live connections of every room and delivers room events to
// them. It implements game.Broadcaster.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[uuid.UUID]*client
	log   *logrus.Entry
}

// NewHub creates an empty hub.
func NewHub(logger logrus.FieldLogger) *Hub {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Hub{
		rooms: make(map[string]map[uuid.UUID]*client),
		log:   logger.WithField("component", "hub"),
	}
}

// register attaches a new connection for playerID in roomCode. A previous
// connection of the same player is dropped.
func (h *Hub) register(roomCode string, playerID uuid.UUID) *client {
	c := &client{playerID: playerID, send: make(chan []byte, sendBuffer)}
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.rooms[roomCode]
	if !ok {
		conns = make(map[uuid.UUID]*client)
		h.rooms[roomCode] = conns
	}
	if old, ok := conns[playerID]; ok {
		close(old.send)
		h.log.WithFields(logrus.Fields{"room": roomCode, "player": playerID}).Info("Replacing existing connection.")
	}
	conns[playerID] = c
	return c
}

// unregister detaches c. It reports false when c had already been replaced.
func (h *Hub) unregister(roomCode string, c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns := h.rooms[roomCode]
	if conns[c.playerID] != c {
		return false
	}
	delete(conns, c.playerID)
	close(c.send)
	if len(conns) == 0 {
		delete(h.rooms, roomCode)
	}
	return true
}

// Connected reports how many players of roomCode have a live connection.
func (h *Hub) Connected(roomCode string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomCode])
}

// Broadcast sends ev to every connection of roomCode.
func (h *Hub) Broadcast(roomCode string, ev game.GameEvent) {
	b, err := json.Marshal(ev)
	if err != nil {
		h.log.WithError(err).WithField("event", ev.Type).Error("Failed to encode event.")
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.rooms[roomCode] {
		h.deliver(roomCode, c, b)
	}
}

// SendTo sends ev to playerID's connection in roomCode, if any.
func (h *Hub) SendTo(roomCode string, playerID uuid.UUID, ev game.GameEvent) {
	b, err := json.Marshal(ev)
	if err != nil {
		h.log.WithError(err).WithField("event", ev.Type).Error("Failed to encode event.")
		return
	}
	h.sendRaw(roomCode, playerID, b)
}

func (h *Hub) sendRaw(roomCode string, playerID uuid.UUID, b []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, ok := h.rooms[roomCode][playerID]; ok {
		h.deliver(roomCode, c, b)
	}
}

// deliver assumes h.mu is held for reading.
func (h *Hub) deliver(roomCode string, c *client, b []byte) {
	select {
	case c.send <- b:
	default:
		h.log.WithFields(logrus.Fields{"room": roomCode, "player": c.playerID}).Warn("Send buffer full, dropping frame.")
	}
}
