package engine

import (
	"fmt"
	"testing"
)

// card parses a wire id such as "clubs_3_deck1".
func card(id string) Card {
	c, err := ParseCardID(id)
	if err != nil {
		panic(err)
	}
	return c
}

func cards(ids ...string) []Card {
	out := make([]Card, len(ids))
	for i, id := range ids {
		out[i] = card(id)
	}
	return out
}

// fixture builds a playing state where seat i holds hands[i] and top is the
// only discard. Every other card goes to the draw pile in BuildDeck order,
// so the next card drawn is the last unused card of deck 2.
func fixture(t *testing.T, top Card, hands ...[]Card) GameState {
	t.Helper()
	used := map[Card]bool{top: true}
	players := make([]PlayerState, len(hands))
	for i, h := range hands {
		for _, c := range h {
			if used[c] {
				t.Fatalf("fixture: %s used twice", c.ID())
			}
			used[c] = true
		}
		players[i] = PlayerState{
			UserID:    fmt.Sprintf("p%d", i),
			Hand:      append([]Card(nil), h...),
			IsStarter: i == 0,
		}
	}
	var draw []Card
	for _, c := range BuildDeck() {
		if !used[c] {
			draw = append(draw, c)
		}
	}
	g := GameState{
		DrawPile:    draw,
		DiscardPile: []Card{top},
		Players:     players,
		Clockwise:   true,
		Phase:       PhasePlaying,
		Winner:      -1,
		RNG:         Rand{State: 7},
		Rules:       DefaultHouseRules(),
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("fixture: %v", err)
	}
	return g
}

// mustApply applies m and fails the test on an error or an audit finding.
func mustApply(t *testing.T, g GameState, m Move) Outcome {
	t.Helper()
	out, err := Apply(g, m)
	if err != nil {
		t.Fatalf("Apply(%s by %d): %v", m.Kind, m.Player, err)
	}
	if !out.Audit.OK() {
		t.Fatalf("Apply(%s by %d): audit: %v", m.Kind, m.Player, out.Audit.Violations)
	}
	return out
}

// mustReject applies m and checks that it is refused with reason.
func mustReject(t *testing.T, g GameState, m Move, reason Reason) {
	t.Helper()
	out, err := Apply(g, m)
	if err == nil {
		t.Fatalf("Apply(%s by %d): expected %s, got accepted=%v", m.Kind, m.Player, reason, out.Accepted)
	}
	ve, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("Apply(%s by %d): expected *ValidationError, got %T: %v", m.Kind, m.Player, err, err)
	}
	if ve.Reason != reason || out.Reason != reason {
		t.Fatalf("Apply(%s by %d): reason = %s / %s, want %s", m.Kind, m.Player, ve.Reason, out.Reason, reason)
	}
}

func play(player int, id string) Move {
	return Move{Kind: MovePlay, Player: player, Card: card(id)}
}

func playSuit(player int, id string, suit Suit) Move {
	return Move{Kind: MovePlay, Player: player, Card: card(id), Suit: suitPtr(suit)}
}

func hasEvent(events []Event, typ EventType) bool {
	for _, e := range events {
		if e.Type == typ {
			return true
		}
	}
	return false
}
