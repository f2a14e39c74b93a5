package engine

import "testing"

func TestNextPlayer(t *testing.T) {
	tests := []struct {
		current, total int
		clockwise      bool
		skip           int
		want           int
	}{
		{0, 4, true, 0, 1},
		{0, 4, true, 1, 2}, // a 7 skips seat 1
		{3, 4, true, 0, 0},
		{0, 4, false, 0, 3},
		{1, 4, false, 1, 3},
		{0, 2, true, 1, 0},
		{2, 3, false, 2, 2},
		{5, 8, true, 7, 5},
	}
	for _, tt := range tests {
		if got := NextPlayer(tt.current, tt.total, tt.clockwise, tt.skip); got != tt.want {
			t.Errorf("NextPlayer(%d, %d, %v, %d) = %d, want %d",
				tt.current, tt.total, tt.clockwise, tt.skip, got, tt.want)
		}
	}
}

func TestEffectiveSkips(t *testing.T) {
	tests := []struct {
		skips, reversals, total, want int
	}{
		{1, 0, 4, 1},
		{0, 1, 4, 0},
		{0, 1, 2, 1},
		{1, 1, 2, 1},
		{2, 0, 2, 1},
		{2, 1, 2, 1},
		{0, 2, 2, 1},
		{0, 0, 2, 0},
		{2, 0, 3, 2},
		{5, 0, 3, 5},
	}
	for _, tt := range tests {
		if got := effectiveSkips(tt.skips, tt.reversals, tt.total); got != tt.want {
			t.Errorf("effectiveSkips(%d, %d, %d) = %d, want %d", tt.skips, tt.reversals, tt.total, got, tt.want)
		}
	}
}

// From three players up the skip count reaches NextPlayer unchanged.
func TestEffectiveSkipsKeepsRawCountFromThreePlayers(t *testing.T) {
	for total := 3; total <= 8; total++ {
		for skips := 0; skips <= 2*total; skips++ {
			for _, cw := range []bool{true, false} {
				for actor := 0; actor < total; actor++ {
					got := NextPlayer(actor, total, cw, effectiveSkips(skips, 0, total))
					want := NextPlayer(actor, total, cw, skips)
					if got != want {
						t.Fatalf("n=%d skips=%d cw=%v actor=%d: next = %d, want %d", total, skips, cw, actor, got, want)
					}
				}
			}
		}
	}
	if got := NextPlayer(0, 3, true, effectiveSkips(3, 0, 3)); got != 1 {
		t.Errorf("three skips among three players land on %d, want 1", got)
	}
}

func TestSevenSkipsInFourPlayerGame(t *testing.T) {
	g := fixture(t, card("clubs_3_deck1"),
		cards("clubs_7_deck1", "hearts_4_deck1"),
		cards("spades_9_deck1"),
		cards("spades_10_deck1"),
		cards("spades_Q_deck1"))
	out := mustApply(t, g, play(0, "clubs_7_deck1"))
	if out.State.CurrentPlayer != 2 {
		t.Errorf("current = %d, want 2", out.State.CurrentPlayer)
	}
	if !out.Effects.Has(EffectSkip) {
		t.Errorf("effects = %v, want skip_next", out.Effects)
	}
	if out.State.Players[0].Turns != 1 || out.State.TurnCount != 1 {
		t.Errorf("turn counters = %d / %d", out.State.Players[0].Turns, out.State.TurnCount)
	}
}

func TestFiveReversesDirection(t *testing.T) {
	g := fixture(t, card("clubs_3_deck1"),
		cards("clubs_5_deck1", "hearts_4_deck1"),
		cards("spades_9_deck1"),
		cards("spades_10_deck1"))
	out := mustApply(t, g, play(0, "clubs_5_deck1"))
	if out.State.Clockwise {
		t.Error("direction should be counterclockwise")
	}
	if out.State.CurrentPlayer != 2 {
		t.Errorf("current = %d, want 2", out.State.CurrentPlayer)
	}
}

// With two players both a 7 and a 5 hand the turn straight back.
func TestTwoPlayerSevenAndFiveReturnTurn(t *testing.T) {
	for _, suit := range []string{"clubs", "diamonds", "hearts", "spades"} {
		for _, rank := range []string{"7", "5"} {
			for _, cw := range []bool{true, false} {
				for actor := 0; actor < 2; actor++ {
					id := suit + "_" + rank + "_deck1"
					hands := [][]Card{cards("hearts_4_deck2", "hearts_9_deck2"), cards("spades_9_deck2", "spades_4_deck2")}
					hands[actor] = cards(id, "diamonds_K_deck2")
					g := fixture(t, card(suit+"_3_deck2"), hands...)
					g.CurrentPlayer = actor
					g.Clockwise = cw
					out := mustApply(t, g, play(actor, id))
					if out.State.CurrentPlayer != actor {
						t.Errorf("%s cw=%v seat %d: current = %d", id, cw, actor, out.State.CurrentPlayer)
					}
					if out.State.TurnCount != 1 {
						t.Errorf("%s cw=%v seat %d: turn count = %d, want 1", id, cw, actor, out.State.TurnCount)
					}
				}
			}
		}
	}
}

// Several 7s and 5s in one two-player combo still hand the turn back once.
func TestTwoPlayerComboReturnsTurn(t *testing.T) {
	for _, combo := range [][]Card{
		cards("clubs_7_deck1", "clubs_7_deck2"),
		cards("clubs_7_deck1", "clubs_5_deck1"),
		cards("clubs_7_deck1", "clubs_7_deck2", "clubs_5_deck1", "clubs_5_deck2"),
	} {
		hand := append(append([]Card(nil), combo...), card("hearts_4_deck1"))
		g := fixture(t, card("clubs_3_deck1"), hand, cards("spades_9_deck1"))
		out := mustApply(t, g, Move{Kind: MoveCombo, Player: 0, Cards: combo})
		if out.State.CurrentPlayer != 0 {
			t.Errorf("combo %v: current = %d, want 0", combo, out.State.CurrentPlayer)
		}
	}
}

func TestThreePlayerDoubleSevenReturnsTurn(t *testing.T) {
	g := fixture(t, card("clubs_3_deck1"),
		cards("clubs_7_deck1", "clubs_7_deck2", "hearts_4_deck1"),
		cards("spades_9_deck1"),
		cards("spades_10_deck1"))
	out := mustApply(t, g, Move{Kind: MoveCombo, Player: 0, Cards: cards("clubs_7_deck1", "clubs_7_deck2")})
	if out.State.CurrentPlayer != 0 {
		t.Errorf("current = %d, want 0", out.State.CurrentPlayer)
	}
}
