// internal/game/manager.go
package game

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/nashgetch/rg-ahaz-be-sub001/engine"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/cache"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/models"
	"github.com/sirupsen/logrus"
)

// Broadcaster delivers room events to connected players.
type Broadcaster interface {
	Broadcast(roomCode string, ev GameEvent)
	SendTo(roomCode string, playerID uuid.UUID, ev GameEvent)
}

// Manager owns the open rooms of this process.
type Manager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	deps  RoomDeps
	rules engine.HouseRules
	bc    Broadcaster
	log   *logrus.Entry
}

// NewManager creates a manager that deals rounds with rules and builds
// rooms on deps. bc may be nil.
func NewManager(rules engine.HouseRules, deps RoomDeps, bc Broadcaster) *Manager {
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	deps.Logger = logger
	return &Manager{
		rooms: make(map[string]*Room),
		deps:  deps,
		rules: rules,
		bc:    bc,
		log:   logger.WithField("component", "manager"),
	}
}

// Open deals a new round for players (in seat order) and registers it under
// code. A zero seed picks a random one.
func (m *Manager) Open(ctx context.Context, code string, players []*models.Player, starter int, seed uint64) (*Room, error) {
	if seed == 0 {
		seed = randomSeed()
	}
	roster := make([]string, len(players))
	for i, p := range players {
		roster[i] = p.ID.String()
	}
	state, err := engine.NewGame(roster, starter, seed, m.rules)
	if err != nil {
		return nil, fmt.Errorf("open room %s: %w", code, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rooms[code]; ok {
		return nil, fmt.Errorf("open room %s: %w", code, ErrRoomExists)
	}
	room, err := NewRoom(code, players, state, m.deps)
	if err != nil {
		return nil, err
	}
	if m.deps.Store != nil {
		if err := m.deps.Store.Save(ctx, code, state); err != nil {
			return nil, fmt.Errorf("open room %s: persist state: %w", code, err)
		}
	}
	m.wire(room)
	m.rooms[code] = room
	m.log.WithFields(logrus.Fields{"room": code, "players": len(players), "seed": seed}).Info("Room opened.")
	return room, nil
}

// Restore rebuilds the room under code from the state store, for example
// after a process restart. players must be in the stored seat order.
func (m *Manager) Restore(ctx context.Context, code string, players []*models.Player) (*Room, error) {
	if m.deps.Store == nil {
		return nil, fmt.Errorf("restore room %s: no state store configured", code)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if room, ok := m.rooms[code]; ok {
		return room, nil
	}
	state, err := m.deps.Store.Load(ctx, code)
	if errors.Is(err, cache.ErrStateNotFound) {
		return nil, fmt.Errorf("restore room %s: %w", code, ErrRoomNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("restore room %s: %w", code, err)
	}
	room, err := NewRoom(code, players, state, m.deps)
	if err != nil {
		return nil, err
	}
	m.wire(room)
	m.rooms[code] = room
	m.log.WithField("room", code).Info("Room restored from store.")
	return room, nil
}

// Get returns the open room under code.
func (m *Manager) Get(code string) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	room, ok := m.rooms[code]
	if !ok {
		return nil, fmt.Errorf("room %s: %w", code, ErrRoomNotFound)
	}
	return room, nil
}

// Remove closes the room under code and drops its stored state.
func (m *Manager) Remove(ctx context.Context, code string) error {
	m.mu.Lock()
	_, ok := m.rooms[code]
	delete(m.rooms, code)
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("remove room %s: %w", code, ErrRoomNotFound)
	}
	if m.deps.Store != nil {
		if err := m.deps.Store.Delete(ctx, code); err != nil {
			return fmt.Errorf("remove room %s: %w", code, err)
		}
	}
	m.log.WithField("room", code).Info("Room removed.")
	return nil
}

// Codes lists the open room codes.
func (m *Manager) Codes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	codes := make([]string, 0, len(m.rooms))
	for code := range m.rooms {
		codes = append(codes, code)
	}
	return codes
}

func (m *Manager) wire(room *Room) {
	if m.bc == nil {
		return
	}
	code := room.Code
	room.BroadcastFn = func(ev GameEvent) { m.bc.Broadcast(code, ev) }
	room.BroadcastToPlayerFn = func(playerID uuid.UUID, ev GameEvent) { m.bc.SendTo(code, playerID, ev) }
}

// randomSeed draws a non-zero seed from a random UUID.
func randomSeed() uint64 {
	id := uuid.New()
	seed := binary.BigEndian.Uint64(id[:8]) ^ binary.BigEndian.Uint64(id[8:])
	if seed == 0 {
		seed = 1
	}
	return seed
}
