package engine

import "fmt"

// Validate checks the structural invariants every committed state must
// satisfy. It returns a *StateError describing the first problem found.
func (g *GameState) Validate() error {
	n := len(g.Players)
	if n < MinPlayers || n > MaxPlayers {
		return &StateError{Field: "players", Detail: fmt.Sprintf("%d players seated", n)}
	}
	if g.Phase != PhasePlaying && g.Phase != PhaseFinished {
		return &StateError{Field: "phase", Detail: fmt.Sprintf("unknown phase %q", g.Phase)}
	}
	if g.CurrentPlayer < 0 || g.CurrentPlayer >= n {
		return &StateError{Field: "current_player", Detail: fmt.Sprintf("index %d with %d players", g.CurrentPlayer, n)}
	}
	if g.PenaltyChain < 0 {
		return &StateError{Field: "penalty_chain", Detail: "negative chain"}
	}
	if g.PenaltyChain > 0 && g.PenaltyTarget == nil {
		return &StateError{Field: "penalty_target", Detail: "chain pending without a target"}
	}
	if g.PenaltyTarget != nil && (*g.PenaltyTarget < 0 || *g.PenaltyTarget >= n) {
		return &StateError{Field: "penalty_target", Detail: fmt.Sprintf("index %d out of range", *g.PenaltyTarget)}
	}
	if g.SuitOverride != nil && !g.SuitOverride.Valid() {
		return &StateError{Field: "current_suit_override", Detail: "invalid suit"}
	}
	if g.LastSuitChange != nil && (g.LastSuitChange.PlayerIndex < 0 || g.LastSuitChange.PlayerIndex >= n) {
		return &StateError{Field: "last_suit_change", Detail: fmt.Sprintf("player index %d out of range", g.LastSuitChange.PlayerIndex)}
	}
	if g.Phase == PhasePlaying && len(g.DiscardPile) == 0 {
		return &StateError{Field: "discard_pile", Detail: "empty while playing"}
	}

	if total := g.CardCount(); total != DeckSize {
		return &StateError{Field: "cards", Detail: fmt.Sprintf("%d cards in play, want %d", total, DeckSize)}
	}
	seen := make(map[Card]string, DeckSize)
	check := func(where string, cards []Card) error {
		for _, c := range cards {
			if !c.Valid() {
				return &StateError{Field: where, Detail: fmt.Sprintf("malformed card %+v", c)}
			}
			if prev, dup := seen[c]; dup {
				return &StateError{Field: where, Detail: fmt.Sprintf("card %s also in %s", c.ID(), prev)}
			}
			seen[c] = where
		}
		return nil
	}
	if err := check("draw_pile", g.DrawPile); err != nil {
		return err
	}
	if err := check("discard_pile", g.DiscardPile); err != nil {
		return err
	}
	for i := range g.Players {
		p := &g.Players[i]
		if p.UserID == "" {
			return &StateError{Field: "players", Detail: fmt.Sprintf("seat %d has no user id", i)}
		}
		if err := check(fmt.Sprintf("players[%d].hand", i), p.Hand); err != nil {
			return err
		}
		if len(p.Hand) == 0 && (g.Phase != PhaseFinished || g.Winner != i) {
			return &StateError{Field: "players", Detail: fmt.Sprintf("seat %d has an empty hand but is not the winner", i)}
		}
	}
	if g.Phase == PhaseFinished && (g.Winner < 0 || g.Winner >= n) {
		return &StateError{Field: "winner", Detail: "finished round without a winner"}
	}
	return nil
}
