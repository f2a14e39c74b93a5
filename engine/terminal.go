package engine

import "sort"

// Standing is one row of a finished round's results.
type Standing struct {
	PlayerIndex int    `json:"player_index"`
	UserID      string `json:"user_id"`
	Rank        int    `json:"rank"`
	Score       int    `json:"score"`
	CardsLeft   int    `json:"cards_left"`
	Penalties   int    `json:"penalties"`
	Mistakes    int    `json:"mistakes"`
	Turns       int    `json:"turns"`
}

// finishRound ends the round with winner as the player who emptied their
// hand, scores everybody and assigns final ranks. A chain raised by the
// finishing drop stays on record.
func (g *GameState) finishRound(winner int) []Event {
	g.Players[winner].Turns++
	g.TurnCount++
	g.Phase = PhaseFinished
	g.Winner = winner
	g.CurrentPlayer = winner
	g.scorePlayers()

	for rank, seat := range rankOrder(g) {
		g.Players[seat].FinalRank = rank + 1
	}
	return []Event{{Type: EventRoundFinished, PlayerID: g.Players[winner].UserID, Amount: g.Players[winner].Score}}
}

// rankOrder lists seats from first to last place: the winner leads, the rest
// follow by descending score. Equal scores keep the order in which the seats
// would have played after the winner.
func rankOrder(g *GameState) []int {
	n := len(g.Players)
	order := make([]int, 0, n)
	seat := g.Winner
	for k := 1; k < n; k++ {
		seat = NextPlayer(seat, n, g.Clockwise, 0)
		order = append(order, seat)
	}
	sort.SliceStable(order, func(a, b int) bool {
		return g.Players[order[a]].Score > g.Players[order[b]].Score
	})
	return append([]int{g.Winner}, order...)
}

// Rankings returns the results of a finished round ordered by rank, or nil
// while the round is still being played.
func (g *GameState) Rankings() []Standing {
	if !g.IsFinished() {
		return nil
	}
	out := make([]Standing, 0, len(g.Players))
	for rank, i := range rankOrder(g) {
		p := &g.Players[i]
		out = append(out, Standing{
			PlayerIndex: i,
			UserID:      p.UserID,
			Rank:        rank + 1,
			Score:       p.Score,
			CardsLeft:   len(p.Hand),
			Penalties:   p.Penalties,
			Mistakes:    p.Mistakes,
			Turns:       p.Turns,
		})
	}
	return out
}
