package engine

// CanPlay reports whether card may be dropped on top. Eights and Jacks are
// always legal; otherwise the card must follow the effective suit (the
// override when set) or match the top card's rank.
//
// Ownership of card is a precondition checked by the caller.
func CanPlay(card, top Card, override *Suit) bool {
	if card.IsWild() {
		return true
	}
	suit := top.Suit
	if override != nil {
		suit = *override
	}
	return card.Suit == suit || card.Rank == top.Rank
}

// CanCounter reports whether counter may be played against the active
// penalty card instead of accepting the chain. Only an A♠ answers an A♠; a 2
// is answered by any 2 or by an A♠.
func CanCounter(counter, active Card) bool {
	switch {
	case active.IsAceOfSpades():
		return counter.IsAceOfSpades()
	case active.Rank == RankTwo:
		return counter.Rank == RankTwo || counter.IsAceOfSpades()
	default:
		return false
	}
}

// CanChangeSuit reports whether player may pick a new suit with an 8 or J.
//
//   - A player down to one card never changes suit: playing it wins.
//   - Without a recorded change, changing is allowed.
//   - Only 8/J changes restrict; rank-match changes never do. A change of
//     unknown type counts as 8/J when Rules.LegacyUnknownChangeBlocks is set,
//     in which case it is assumed to have happened on the previous turn in
//     the current direction.
//   - After an 8/J change, the player who was next in turn order at that
//     moment may not change suit on the turn immediately following it.
func CanChangeSuit(g *GameState, player int) bool {
	if player < 0 || player >= len(g.Players) {
		return false
	}
	if len(g.Players[player].Hand) == 1 {
		return false
	}
	lc := g.LastSuitChange
	if lc == nil {
		return true
	}
	change := *lc
	switch change.ChangeType {
	case ChangeRankMatch:
		return true
	case ChangeUnknown:
		if !g.Rules.LegacyUnknownChangeBlocks {
			return true
		}
		change.Clockwise = g.Clockwise
		change.Turn = g.TurnCount - 1
	}
	if g.TurnCount != change.Turn+1 {
		return true
	}
	return player != BlockedPlayer(change, len(g.Players))
}

// BlockedPlayer returns the seat that an 8/J change restricts: the
// immediate next player when the change was made.
func BlockedPlayer(change SuitChange, numPlayers int) int {
	return NextPlayer(change.PlayerIndex, numPlayers, change.Clockwise, 0)
}

// PlayableCards lists the cards from player's hand that could be dropped as
// a single-card play right now.
func PlayableCards(g *GameState, player int) []Card {
	if g.IsFinished() || player < 0 || player >= len(g.Players) {
		return nil
	}
	top, ok := g.Top()
	if !ok {
		return nil
	}
	active, penalised := g.ActivePenaltyCard()
	penalised = penalised && g.IsPenaltyTarget(player)

	var out []Card
	for _, c := range g.Players[player].Hand {
		if penalised {
			if CanCounter(c, active) {
				out = append(out, c)
			}
			continue
		}
		if CanPlay(c, top, g.SuitOverride) {
			out = append(out, c)
		}
	}
	return out
}

// CalculatePenalty returns how many cards an invalid drop costs on top: 2,
// or 5 for a "false joker" whose colour differs from the top card and whose
// suit and rank both miss.
func CalculatePenalty(invalid, top Card) int {
	return dropPenalty(invalid, top, 2, 5)
}

func dropPenalty(invalid, top Card, base, falseJoker int) int {
	// Differing colours already imply differing suits.
	if invalid.Suit.IsRed() != top.Suit.IsRed() && invalid.Rank != top.Rank {
		return falseJoker
	}
	return base
}
