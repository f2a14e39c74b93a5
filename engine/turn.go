package engine

// NextPlayer returns the seat that plays after current, stepping over skip
// players in the given direction:
//
//	((current + dir*(1+skip)) mod total + total) mod total
func NextPlayer(current, total int, clockwise bool, skip int) int {
	dir := 1
	if !clockwise {
		dir = -1
	}
	return ((current+dir*(1+skip))%total + total) % total
}

// effectiveSkips converts the skips and reversals of one move into the skip
// count handed to NextPlayer. With three or more players the count is the
// raw number of skips. With two players NextPlayer alone would hand the turn
// over after a reversal or a second skip, so any 7 or 5 in the drop counts
// as exactly one skip and the actor plays again.
func effectiveSkips(skips, reversals, total int) int {
	if total == 2 && skips+reversals > 0 {
		return 1
	}
	return skips
}

// endTurn hands the turn from actor to next and records it.
func (g *GameState) endTurn(actor, next int) Event {
	g.Players[actor].Turns++
	g.TurnCount++
	g.CurrentPlayer = next
	return Event{
		Type:         EventTurnAdvanced,
		NextPlayerID: g.Players[next].UserID,
		Direction:    DirectionName(g.Clockwise),
	}
}

// passTurn ends actor's turn without skips.
func (g *GameState) passTurn(actor int) Event {
	return g.endTurn(actor, NextPlayer(actor, len(g.Players), g.Clockwise, 0))
}
