// internal/game/special_actions.go
package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nashgetch/rg-ahaz-be-sub001/engine"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/models"
)

// Timeout resolves the current player's turn for them: the pending penalty
// is accepted, or one card is drawn. The caller decides when a turn has
// expired.
func (r *Room) Timeout(ctx context.Context) (models.MoveResponse, error) {
	r.Mu.Lock()
	if r.State.IsFinished() {
		r.Mu.Unlock()
		return models.MoveResponse{Accepted: false, Reason: string(engine.ReasonGameFinished), Effects: []string{}}, nil
	}
	current := r.State.CurrentPlayer
	if current < 0 || current >= len(r.Players) {
		r.Mu.Unlock()
		return models.MoveResponse{}, fmt.Errorf("room %s: current seat %d has no player", r.Code, current)
	}
	playerID := r.Players[current].ID
	r.Mu.Unlock()

	// A move landing between the unlock and HandleMove makes this a
	// not_your_turn refusal rather than a double timeout.
	return r.HandleMove(ctx, models.MoveRequest{
		RoomCode:       r.Code,
		ActingPlayerID: playerID,
		Kind:           string(engine.MoveTimeout),
	})
}

// DeclareQeregn announces that playerID holds a single card. It is valid
// outside the player's turn.
func (r *Room) DeclareQeregn(ctx context.Context, playerID uuid.UUID) (models.MoveResponse, error) {
	return r.HandleMove(ctx, models.MoveRequest{
		RoomCode:       r.Code,
		ActingPlayerID: playerID,
		Kind:           string(engine.MoveDeclareQeregn),
	})
}

// PlayableCards lists the cards playerID could legally drop right now:
// counters while they are under a penalty, legal cards otherwise. It is
// empty when it is not their turn.
func (r *Room) PlayableCards(playerID uuid.UUID) []models.Card {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	seat, ok := r.seats[playerID]
	if !ok || r.State.IsFinished() || seat != r.State.CurrentPlayer {
		return []models.Card{}
	}
	return toWireCards(engine.PlayableCards(&r.State, seat))
}
