package engine

// ClassifyEffects returns the effect tags of a card in resolution order.
//
//	2      penalty_2
//	5      reverse_direction
//	7      skip_next
//	8, J   change_suit
//	A♠     penalty_5
func ClassifyEffects(c Card) Effects {
	var out Effects
	switch c.Rank {
	case RankTwo:
		out = out.add(EffectPenalty2)
	case RankFive:
		out = out.add(EffectReverse)
	case RankSeven:
		out = out.add(EffectSkip)
	case RankEight, RankJack:
		out = out.add(EffectChangeSuit)
	}
	if c.IsAceOfSpades() {
		out = out.add(EffectPenalty5)
	}
	return out
}

// resolution accumulates the consequences of the cards dropped in one move.
type resolution struct {
	effects   Effects
	skips     int
	reversals int
	penalty   int
	wild      *Card // last 8 or J dropped
}

func (r *resolution) apply(c Card) {
	for _, e := range ClassifyEffects(c) {
		r.effects = r.effects.add(e)
		switch e {
		case EffectPenalty2:
			r.penalty += 2
		case EffectPenalty5:
			r.penalty += 5
		case EffectReverse:
			r.reversals++
		case EffectSkip:
			r.skips++
		case EffectChangeSuit:
			w := c
			r.wild = &w
		}
	}
}

// dropCards commits an already validated play of cards by actor: the cards
// move to the discard pile in order, their effects resolve, the effective
// suit is updated and the turn passes (or the round ends).
//
// suitAllowed is CanChangeSuit evaluated against the state before the move.
func (g *GameState) dropCards(actor int, cards []Card, requested *Suit, suitAllowed bool) (Effects, []Event) {
	p := &g.Players[actor]
	uid := p.UserID
	suitBefore := g.EffectiveSuit()
	turnBefore := g.TurnCount

	var res resolution
	var events []Event
	wildEvent := -1
	for _, c := range cards {
		p.Hand, _ = removeCard(p.Hand, c)
		g.DiscardPile = append(g.DiscardPile, c)
		res.apply(c)
		if c.IsWild() {
			wildEvent = len(events)
		}
		dropped := c
		events = append(events, Event{Type: EventCardDropped, PlayerID: uid, Card: &dropped})
	}
	for i := 0; i < res.reversals; i++ {
		g.Clockwise = !g.Clockwise
	}

	last := cards[len(cards)-1]
	switch {
	case wildEvent >= 0 && suitAllowed:
		suit := res.wild.Suit
		if requested != nil {
			suit = *requested
		}
		g.SuitOverride = suitPtr(suit)
		g.LastSuitChange = &SuitChange{
			PlayerIndex: actor,
			ChangeType:  ChangeEightOrJack,
			Clockwise:   g.Clockwise,
			Turn:        turnBefore,
		}
		events[wildEvent].NewSuit = suitPtr(suit)
	case wildEvent >= 0:
		// An 8 or J that may not change suit keeps the suit in force and
		// leaves the previous change on record.
		g.SuitOverride = suitPtr(suitBefore)
	default:
		g.SuitOverride = nil
		if last.Suit != suitBefore {
			g.LastSuitChange = &SuitChange{
				PlayerIndex: actor,
				ChangeType:  ChangeRankMatch,
				Clockwise:   g.Clockwise,
				Turn:        turnBefore,
			}
		}
	}
	if now := g.EffectiveSuit(); now != suitBefore {
		events = append(events, Event{Type: EventShapeChanged, PlayerID: uid, Shape: suitPtr(now)})
	}

	n := len(g.Players)
	next := NextPlayer(actor, n, g.Clockwise, effectiveSkips(res.skips, res.reversals, n))
	if res.penalty > 0 {
		g.PenaltyChain += res.penalty
		if next == actor {
			next = NextPlayer(actor, n, g.Clockwise, 0)
		}
		g.PenaltyTarget = intPtr(next)
	}

	if len(p.Hand) != 1 {
		p.SaidQeregn = false
	}
	if len(p.Hand) == 0 {
		events = append(events, g.finishRound(actor)...)
		return res.effects, events
	}
	events = append(events, g.endTurn(actor, next))
	return res.effects, events
}
