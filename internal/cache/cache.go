// internal/cache/cache.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nashgetch/rg-ahaz-be-sub001/engine"
	"github.com/redis/go-redis/v9"
)

// ActionQueueKey is the Redis list that collects action history records.
const ActionQueueKey = "crazy:actions"

// ErrStateNotFound is returned by Load when no state is stored for a room.
var ErrStateNotFound = errors.New("cache: no state stored for room")

// StateKey returns the key under which a room's GameState is stored.
func StateKey(roomCode string) string {
	return "crazy:room:" + roomCode + ":state"
}

// GameActionRecord is one entry of a room's action history.
type GameActionRecord struct {
	RoomID        uuid.UUID              `json:"room_id"`
	RoomCode      string                 `json:"room_code"`
	ActionIndex   int                    `json:"action_index"`
	ActorUserID   uuid.UUID              `json:"actor_user_id"` // Nil for room-level events.
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload"`
	Timestamp     int64                  `json:"timestamp"` // Unix milliseconds.
}

// Store persists game states and action history in Redis.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore wraps an existing client. States expire ttl after their last
// write; a ttl of 0 keeps them forever.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Connect creates a client for addr and verifies it with a PING.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// Save writes the state for roomCode, replacing any previous one.
func (s *Store) Save(ctx context.Context, roomCode string, state engine.GameState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state for room %s: %w", roomCode, err)
	}
	if err := s.rdb.Set(ctx, StateKey(roomCode), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("store state for room %s: %w", roomCode, err)
	}
	return nil
}

// Load reads the last saved state for roomCode. The decoded state is
// validated so a corrupt document surfaces as an *engine.StateError.
func (s *Store) Load(ctx context.Context, roomCode string) (engine.GameState, error) {
	b, err := s.rdb.Get(ctx, StateKey(roomCode)).Bytes()
	if errors.Is(err, redis.Nil) {
		return engine.GameState{}, ErrStateNotFound
	}
	if err != nil {
		return engine.GameState{}, fmt.Errorf("load state for room %s: %w", roomCode, err)
	}
	var state engine.GameState
	if err := json.Unmarshal(b, &state); err != nil {
		return engine.GameState{}, fmt.Errorf("decode state for room %s: %w", roomCode, err)
	}
	if err := state.Validate(); err != nil {
		return engine.GameState{}, fmt.Errorf("room %s: %w", roomCode, err)
	}
	return state, nil
}

// Delete removes the stored state for roomCode.
func (s *Store) Delete(ctx context.Context, roomCode string) error {
	if err := s.rdb.Del(ctx, StateKey(roomCode)).Err(); err != nil {
		return fmt.Errorf("delete state for room %s: %w", roomCode, err)
	}
	return nil
}

// PublishGameAction pushes a record onto the action history queue.
func (s *Store) PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode action %d: %w", rec.ActionIndex, err)
	}
	if err := s.rdb.RPush(ctx, ActionQueueKey, b).Err(); err != nil {
		return fmt.Errorf("push action %d: %w", rec.ActionIndex, err)
	}
	return nil
}
