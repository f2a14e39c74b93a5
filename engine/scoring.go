package engine

// WinScore is the score of the player who emptied their hand:
//
//	1000 + max(0, 50-turns)*10 + max(0, 10-penalties)*50
func WinScore(turns, penalties int) int {
	return 1000 + max(0, 50-turns)*10 + max(0, 10-penalties)*50
}

// LossScore is the score of every other player, floored at 0:
//
//	max(0, capacity-remaining)*50 + turns*3 - penalties*15
//
// capacity is the largest starting hand, so shedding the starter's bonus card
// earns nothing for the others.
func LossScore(capacity, remaining, turns, penalties int) int {
	return max(0, max(0, capacity-remaining)*50+turns*3-penalties*15)
}

// scorePlayers fills in every player's Score for a finished round.
func (g *GameState) scorePlayers() {
	capacity := g.Rules.HandCapacity()
	for i := range g.Players {
		p := &g.Players[i]
		if i == g.Winner {
			p.Score = WinScore(p.Turns, p.Penalties)
			continue
		}
		p.Score = LossScore(capacity, len(p.Hand), p.Turns, p.Penalties)
	}
}
