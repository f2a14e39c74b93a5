package engine

// drawCards moves up to n cards from the draw pile into player's hand,
// reshuffling the discard pile (minus its top card) when the draw pile runs
// out. It returns how many cards were actually drawn, which is less than n
// only when every card is already in a hand.
func (g *GameState) drawCards(player, n int) int {
	p := &g.Players[player]
	drawn := 0
	for ; drawn < n; drawn++ {
		if len(g.DrawPile) == 0 && !g.reshuffle() {
			break
		}
		last := len(g.DrawPile) - 1
		p.Hand = append(p.Hand, g.DrawPile[last])
		g.DrawPile = g.DrawPile[:last]
	}
	if len(p.Hand) != 1 {
		p.SaidQeregn = false
	}
	return drawn
}

// reshuffle turns every discard but the top card into a new draw pile using
// the round's RNG. It reports false when there is nothing to reshuffle.
func (g *GameState) reshuffle() bool {
	if len(g.DiscardPile) < 2 {
		return false
	}
	top := g.DiscardPile[len(g.DiscardPile)-1]
	pile := append(g.DrawPile, g.DiscardPile[:len(g.DiscardPile)-1]...)
	Shuffle(pile, &g.RNG)
	g.DrawPile = pile
	g.DiscardPile = []Card{top}
	return true
}

// acceptPenalty draws the whole pending chain into actor's hand, clears it
// and passes the turn.
func (g *GameState) acceptPenalty(actor int, reason string) []Event {
	amount := g.PenaltyChain
	drawn := g.drawCards(actor, amount)
	g.Players[actor].Penalties++
	g.PenaltyChain = 0
	g.PenaltyTarget = nil
	return []Event{
		{Type: EventPenaltyApplied, TargetID: g.Players[actor].UserID, Amount: drawn, Reason: reason},
		g.passTurn(actor),
	}
}

// drawOne is the plain "cannot or will not play" draw.
func (g *GameState) drawOne(actor int) []Event {
	g.drawCards(actor, 1)
	return []Event{g.passTurn(actor)}
}

// penalizeDrop charges actor for trying to drop an owned card that is not
// legal on top. The card stays in hand and the turn does not pass.
func (g *GameState) penalizeDrop(actor int, invalid, top Card) []Event {
	base, escalated := g.Rules.invalidDropPenalty(), g.Rules.falseJokerPenalty()
	amount := dropPenalty(invalid, top, base, escalated)
	reason := PenaltyReasonInvalidDrop
	if amount == escalated && amount != base {
		reason = PenaltyReasonFalseJoker
	}
	drawn := g.drawCards(actor, amount)
	p := &g.Players[actor]
	p.Mistakes++
	p.Penalties++
	attempted := invalid
	return []Event{{
		Type:     EventPenaltyApplied,
		PlayerID: p.UserID,
		TargetID: p.UserID,
		Card:     &attempted,
		Amount:   drawn,
		Reason:   reason,
	}}
}

// declareQeregn records the one-card announcement.
func (g *GameState) declareQeregn(actor int) ([]Event, error) {
	p := &g.Players[actor]
	if len(p.Hand) != 1 {
		return nil, reject(ReasonQeregnNeedsOneCard, "holding %d cards", len(p.Hand))
	}
	p.SaidQeregn = true
	return []Event{{Type: EventQeregnAnnounced, PlayerID: p.UserID}}, nil
}
