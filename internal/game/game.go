// internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nashgetch/rg-ahaz-be-sub001/engine"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/cache"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/database"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	// ErrRoomNotFound is returned when no room is open under a code.
	ErrRoomNotFound = errors.New("game: room not found")
	// ErrRoomHalted is returned for every move once a room hit a corrupt state.
	ErrRoomHalted = errors.New("game: room halted")
	// ErrRoomExists is returned when opening a room under a code already in use.
	ErrRoomExists = errors.New("game: room already exists")
	// ErrPlayerNotSeated is returned when a player is not part of a room.
	ErrPlayerNotSeated = errors.New("game: player not seated in room")
)

// OnGameEndFunc is called once a round finishes. It receives the room code,
// the winner and every player's final score.
type OnGameEndFunc func(roomCode string, winner uuid.UUID, scores map[uuid.UUID]int)

// Room-level event types, alongside the engine's domain events.
const (
	EventPrivateSyncState engine.EventType = "private_sync_state" // Private: the observer's view after a change.
	EventMoveRejected     engine.EventType = "move_rejected"      // Private: a move was refused.
)

// GameEvent is what the room hands to its broadcaster: an engine event
// stamped with the room code and the time it was emitted.
type GameEvent struct {
	engine.Event
	RoomCode  string            `json:"roomCode"`
	Timestamp int64             `json:"timestamp"`       // Unix milliseconds.
	State     *models.StateView `json:"state,omitempty"` // Only for private sync events.
}

// StateStore persists a room's GameState between moves.
type StateStore interface {
	Save(ctx context.Context, roomCode string, state engine.GameState) error
	Load(ctx context.Context, roomCode string) (engine.GameState, error)
	Delete(ctx context.Context, roomCode string) error
}

// ActionPublisher receives the room's action history.
type ActionPublisher interface {
	PublishGameAction(ctx context.Context, rec cache.GameActionRecord) error
}

// ResultRecorder stores finished rounds.
type ResultRecorder interface {
	RecordRound(ctx context.Context, res database.RoundResult) error
}

// Room hosts one round of Crazy. All moves go through HandleMove, which
// holds Mu for the whole apply-persist-broadcast sequence, so a room has a
// single writer.
type Room struct {
	ID   uuid.UUID // Unique identifier for this room instance.
	Code string    // Short code players join with.

	Players []*models.Player // Seated players, in seat order.
	State   engine.GameState // Last committed state.
	Halted  bool             // Set once a corrupt state was detected.

	seats map[uuid.UUID]int // Player id -> engine seat.

	actionIndex int // Sequential index for the action history.

	store   StateStore
	actions ActionPublisher
	results ResultRecorder
	log     *logrus.Entry

	Mu sync.Mutex // Protects every field above.

	// Communication callbacks.
	BroadcastFn         func(ev GameEvent)                     // Sends an event to all connected players.
	BroadcastToPlayerFn func(playerID uuid.UUID, ev GameEvent) // Sends an event to a single player.
	OnGameEnd           OnGameEndFunc                          // Called when the round finishes.
}

// RoomDeps are the collaborators a room persists and reports through. Any
// of them may be nil.
type RoomDeps struct {
	Store   StateStore
	Actions ActionPublisher
	Results ResultRecorder
	Logger  logrus.FieldLogger
}

// NewRoom seats players in the given order around an already dealt state.
// The state's user ids must be the players' ids.
func NewRoom(code string, players []*models.Player, state engine.GameState, deps RoomDeps) (*Room, error) {
	if len(players) != len(state.Players) {
		return nil, fmt.Errorf("room %s: %d players for %d seats", code, len(players), len(state.Players))
	}
	seats := make(map[uuid.UUID]int, len(players))
	for i, p := range players {
		if state.Players[i].UserID != p.ID.String() {
			return nil, fmt.Errorf("room %s: seat %d belongs to %s, not %s", code, i, state.Players[i].UserID, p.ID)
		}
		seats[p.ID] = i
	}
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	id, _ := uuid.NewRandom()
	return &Room{
		ID:      id,
		Code:    code,
		Players: players,
		State:   state,
		seats:   seats,
		store:   deps.Store,
		actions: deps.Actions,
		results: deps.Results,
		log:     logger.WithFields(logrus.Fields{"room": code, "room_id": id}),
	}, nil
}

// Seat returns the engine seat of playerID.
func (r *Room) Seat(playerID uuid.UUID) (int, bool) {
	seat, ok := r.seats[playerID]
	return seat, ok
}

// HandleMove validates and applies a move. Either the whole move commits
// (state persisted, history published, events broadcast) or the room keeps
// its previous state.
//
// A refused move is not an error: the response carries the reason. Errors
// are reserved for a halted room, a player who is not seated and failed
// persistence.
func (r *Room) HandleMove(ctx context.Context, req models.MoveRequest) (models.MoveResponse, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	log := r.log.WithFields(logrus.Fields{"player": req.ActingPlayerID, "move": req.Kind})
	if r.Halted {
		return models.MoveResponse{}, fmt.Errorf("room %s: %w", r.Code, ErrRoomHalted)
	}
	seat, ok := r.seats[req.ActingPlayerID]
	if !ok {
		return models.MoveResponse{}, fmt.Errorf("room %s, player %s: %w", r.Code, req.ActingPlayerID, ErrPlayerNotSeated)
	}

	move, err := toEngineMove(req, seat)
	if err != nil {
		return r.refuse(log, req.ActingPlayerID, err), nil
	}

	out, err := engine.Apply(r.State, move)
	if err != nil {
		var se *engine.StateError
		if errors.As(err, &se) {
			r.Halted = true
			log.WithError(err).Error("Room halted: committed state is corrupt.")
			r.logAction(uuid.Nil, "room_halted", map[string]interface{}{"field": se.Field, "detail": se.Detail})
			return models.MoveResponse{}, fmt.Errorf("room %s: %w: %v", r.Code, ErrRoomHalted, err)
		}
		return r.refuse(log, req.ActingPlayerID, err), nil
	}

	if r.store != nil {
		if err := r.store.Save(ctx, r.Code, out.State); err != nil {
			log.WithError(err).Error("Failed to persist state; move discarded.")
			return models.MoveResponse{}, fmt.Errorf("room %s: persist state: %w", r.Code, err)
		}
	}
	r.State = out.State

	if !out.Audit.OK() {
		log.WithField("violations", out.Audit.Violations).Warn("Rule audit found violations.")
	}
	if !out.Accepted {
		log.WithField("reason", out.Reason).Info("Invalid drop penalized.")
	}
	r.logAction(req.ActingPlayerID, string(move.Kind), movePayload(move, out))

	now := time.Now().UnixMilli()
	for _, ev := range out.Events {
		r.fireEvent(GameEvent{Event: ev, RoomCode: r.Code, Timestamp: now})
	}
	r.broadcastSyncStateToAll()

	if r.State.IsFinished() {
		r.endGame(ctx)
	}

	resp := models.MoveResponse{
		Accepted: out.Accepted,
		Reason:   string(out.Reason),
		Effects:  effectNames(out.Effects),
	}
	view := r.viewFor(seat)
	resp.NewState = &view
	if !out.Audit.OK() {
		resp.AuditReport = toWireAudit(out.Audit)
	}
	return resp, nil
}

// refuse reports a rejected move to its author. Assumes the lock is held.
func (r *Room) refuse(log *logrus.Entry, playerID uuid.UUID, err error) models.MoveResponse {
	reason := engine.ReasonUnknownMove
	var ve *engine.ValidationError
	if errors.As(err, &ve) {
		reason = ve.Reason
	}
	log.WithField("reason", reason).Debug("Move rejected.")
	r.fireEventToPlayer(playerID, GameEvent{
		Event:     engine.Event{Type: EventMoveRejected, PlayerID: playerID.String(), Reason: string(reason)},
		RoomCode:  r.Code,
		Timestamp: time.Now().UnixMilli(),
	})
	return models.MoveResponse{Accepted: false, Reason: string(reason), Effects: []string{}}
}

// endGame records results and triggers OnGameEnd. Assumes the lock is held.
func (r *Room) endGame(ctx context.Context) {
	standings := r.State.Rankings()
	winner := r.Players[r.State.Winner].ID
	scores := make(map[uuid.UUID]int, len(standings))
	result := database.RoundResult{
		ID:         uuid.New(),
		RoomID:     r.ID,
		RoomCode:   r.Code,
		WinnerID:   winner,
		TurnCount:  r.State.TurnCount,
		FinishedAt: time.Now(),
	}
	for _, s := range standings {
		id := r.Players[s.PlayerIndex].ID
		scores[id] = s.Score
		result.Players = append(result.Players, database.PlayerResult{
			UserID:    id,
			Seat:      s.PlayerIndex,
			Rank:      s.Rank,
			Score:     s.Score,
			CardsLeft: s.CardsLeft,
			Penalties: s.Penalties,
			Mistakes:  s.Mistakes,
			Turns:     s.Turns,
		})
	}

	r.log.WithFields(logrus.Fields{"winner": winner, "turns": r.State.TurnCount}).Info("Round finished.")
	r.logAction(uuid.Nil, "game_end", map[string]interface{}{"winner": winner.String(), "scores": scores})

	if r.results != nil {
		if err := r.results.RecordRound(ctx, result); err != nil {
			r.log.WithError(err).Error("Failed to record round results.")
		}
	}
	if r.OnGameEnd != nil {
		r.OnGameEnd(r.Code, winner, scores)
	}
}

// fireEvent sends an event to every player. Assumes the lock is held.
func (r *Room) fireEvent(ev GameEvent) {
	if r.BroadcastFn == nil {
		r.log.WithField("event", ev.Type).Debug("BroadcastFn is nil, dropping event.")
		return
	}
	r.BroadcastFn(ev)
}

// fireEventToPlayer sends an event to one player. Assumes the lock is held.
func (r *Room) fireEventToPlayer(playerID uuid.UUID, ev GameEvent) {
	if r.BroadcastToPlayerFn == nil {
		r.log.WithField("event", ev.Type).Debug("BroadcastToPlayerFn is nil, dropping private event.")
		return
	}
	r.BroadcastToPlayerFn(playerID, ev)
}

// SendSyncState sends playerID their current view.
func (r *Room) SendSyncState(playerID uuid.UUID) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	r.sendSyncState(playerID)
}

// sendSyncState assumes the lock is held.
func (r *Room) sendSyncState(playerID uuid.UUID) {
	seat, ok := r.seats[playerID]
	if !ok {
		return
	}
	view := r.viewFor(seat)
	r.fireEventToPlayer(playerID, GameEvent{
		Event:     engine.Event{Type: EventPrivateSyncState, PlayerID: playerID.String()},
		RoomCode:  r.Code,
		Timestamp: time.Now().UnixMilli(),
		State:     &view,
	})
}

// broadcastSyncStateToAll sends every connected player their own view.
// Assumes the lock is held.
func (r *Room) broadcastSyncStateToAll() {
	for _, p := range r.Players {
		if p.Connected {
			r.sendSyncState(p.ID)
		}
	}
}

// SetConnected marks a player as connected or not.
func (r *Room) SetConnected(playerID uuid.UUID, connected bool) {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	for _, p := range r.Players {
		if p.ID == playerID {
			if p.Connected != connected {
				p.Connected = connected
				action := "player_disconnect"
				if connected {
					action = "player_reconnect"
				}
				r.logAction(playerID, action, nil)
			}
			return
		}
	}
}

// logAction publishes an action record to the history queue without
// blocking the room. Assumes the lock is held.
func (r *Room) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	r.actionIndex++
	if r.actions == nil {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	rec := cache.GameActionRecord{
		RoomID:        r.ID,
		RoomCode:      r.Code,
		ActionIndex:   r.actionIndex,
		ActorUserID:   actorID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     time.Now().UnixMilli(),
	}
	go func(rec cache.GameActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := r.actions.PublishGameAction(ctx, rec); err != nil {
			r.log.WithError(err).WithFields(logrus.Fields{"action": rec.ActionType, "index": rec.ActionIndex}).
				Error("Failed publishing action.")
		}
	}(rec)
}
