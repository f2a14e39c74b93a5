// internal/game/sync_state.go
package game

import (
	"github.com/google/uuid"
	"github.com/nashgetch/rg-ahaz-be-sub001/engine"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/models"
)

// View builds the state as the player in seat observer may see it: every
// hand size, but only the observer's own cards. A negative observer sees no
// hand at all. players must be in seat order.
func View(roomCode string, state *engine.GameState, players []*models.Player, observer int) models.StateView {
	view := models.StateView{
		RoomCode:      roomCode,
		Phase:         string(state.Phase),
		Direction:     engine.DirectionName(state.Clockwise),
		EffectiveSuit: state.EffectiveSuit().String(),
		PenaltyChain:  state.PenaltyChain,
		DrawPileSize:  len(state.DrawPile),
		DiscardSize:   len(state.DiscardPile),
		TurnCount:     state.TurnCount,
		Players:       make([]models.PlayerView, 0, len(state.Players)),
	}
	seatID := func(seat int) uuid.UUID {
		if seat >= 0 && seat < len(players) {
			return players[seat].ID
		}
		return uuid.Nil
	}

	view.CurrentPlayerID = seatID(state.CurrentPlayer)
	if top, ok := state.Top(); ok {
		wc := toWireCard(top)
		view.TopCard = &wc
	}
	if state.SuitOverride != nil {
		view.SuitOverride = state.SuitOverride.String()
	}
	if state.PenaltyTarget != nil {
		id := seatID(*state.PenaltyTarget)
		view.PenaltyTargetID = &id
	}
	if state.IsFinished() {
		id := seatID(state.Winner)
		view.WinnerID = &id
	}

	for i := range state.Players {
		ps := &state.Players[i]
		pv := models.PlayerView{
			PlayerID:      seatID(i),
			Seat:          i,
			HandSize:      len(ps.Hand),
			Penalties:     ps.Penalties,
			Mistakes:      ps.Mistakes,
			SaidQeregn:    ps.SaidQeregn,
			IsStarter:     ps.IsStarter,
			IsCurrentTurn: !state.IsFinished() && i == state.CurrentPlayer,
			FinalRank:     ps.FinalRank,
		}
		if i < len(players) {
			pv.Username = players[i].Username()
			pv.Connected = players[i].Connected
		}
		if state.IsFinished() {
			pv.Score = ps.Score
		}
		if i == observer {
			pv.Hand = toWireCards(ps.Hand)
		}
		view.Players = append(view.Players, pv)
	}
	return view
}

// viewFor assumes the lock is held.
func (r *Room) viewFor(seat int) models.StateView {
	return View(r.Code, &r.State, r.Players, seat)
}

// ViewFor returns playerID's view of the room. Spectators (ids not seated)
// see no hand.
func (r *Room) ViewFor(playerID uuid.UUID) models.StateView {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	seat, ok := r.seats[playerID]
	if !ok {
		seat = -1
	}
	return r.viewFor(seat)
}
