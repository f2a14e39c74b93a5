package engine

import "testing"

func TestCanPlay(t *testing.T) {
	hearts, spades := SuitHearts, SuitSpades
	tests := []struct {
		name     string
		card     string
		top      string
		override *Suit
		want     bool
	}{
		{"same suit", "clubs_9_deck1", "clubs_3_deck1", nil, true},
		{"same rank", "hearts_3_deck2", "clubs_3_deck1", nil, true},
		{"mismatch", "hearts_9_deck1", "clubs_3_deck1", nil, false},
		{"eight on anything", "hearts_8_deck1", "clubs_3_deck1", nil, true},
		{"jack on anything", "diamonds_J_deck2", "spades_K_deck1", nil, true},
		{"override suit", "hearts_9_deck1", "clubs_8_deck1", &hearts, true},
		{"override hides top suit", "clubs_9_deck1", "clubs_8_deck1", &hearts, false},
		{"rank still matches under override", "diamonds_8_deck1", "clubs_8_deck1", &spades, true},
		{"rank match under override", "diamonds_3_deck1", "clubs_3_deck1", &hearts, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanPlay(card(tt.card), card(tt.top), tt.override); got != tt.want {
				t.Errorf("CanPlay(%s, %s) = %v, want %v", tt.card, tt.top, got, tt.want)
			}
		})
	}
}

func TestCanCounterAceOfSpadesOnlyByAceOfSpades(t *testing.T) {
	ace := card("spades_A_deck1")
	for _, c := range BuildDeck() {
		if got, want := CanCounter(c, ace), c.IsAceOfSpades(); got != want {
			t.Errorf("CanCounter(%s, A♠) = %v, want %v", c.ID(), got, want)
		}
	}
}

func TestCanCounterTwo(t *testing.T) {
	two := card("hearts_2_deck1")
	for _, c := range BuildDeck() {
		want := c.Rank == RankTwo || c.IsAceOfSpades()
		if got := CanCounter(c, two); got != want {
			t.Errorf("CanCounter(%s, 2♥) = %v, want %v", c.ID(), got, want)
		}
	}
}

func TestCanCounterNonPenaltyCard(t *testing.T) {
	if CanCounter(card("spades_A_deck1"), card("clubs_9_deck1")) {
		t.Error("nothing counters a card that carries no penalty")
	}
}

func TestCanChangeSuitOneCard(t *testing.T) {
	g := fixture(t, card("clubs_3_deck1"), cards("hearts_8_deck1"), cards("spades_9_deck1", "spades_10_deck1"))
	if CanChangeSuit(&g, 0) {
		t.Error("a player holding one card must not change suit")
	}
	if !CanChangeSuit(&g, 1) {
		t.Error("no recorded change should allow a change")
	}
	if CanChangeSuit(&g, 5) {
		t.Error("unknown seat should not change suit")
	}
}

// After seat 0 plays an 8, only the next seat is blocked, and only on the
// turn right after the change.
func TestCanChangeSuitAfterEight(t *testing.T) {
	g := fixture(t, card("clubs_3_deck1"),
		cards("clubs_8_deck1", "hearts_4_deck1", "hearts_7_deck1"),
		cards("diamonds_J_deck1", "hearts_5_deck1", "hearts_6_deck1"),
		cards("spades_8_deck1", "spades_4_deck1"),
		cards("diamonds_8_deck2", "diamonds_4_deck1"),
	)
	out := mustApply(t, g, playSuit(0, "clubs_8_deck1", SuitHearts))
	g = out.State
	if lc := g.LastSuitChange; lc == nil || lc.ChangeType != ChangeEightOrJack || lc.PlayerIndex != 0 {
		t.Fatalf("last_suit_change = %+v", g.LastSuitChange)
	}
	if g.CurrentPlayer != 1 {
		t.Fatalf("current = %d, want 1", g.CurrentPlayer)
	}
	for seat, want := range []bool{true, false, true, true} {
		if got := CanChangeSuit(&g, seat); got != want {
			t.Errorf("CanChangeSuit(seat %d) = %v, want %v", seat, got, want)
		}
	}

	// The restriction lapses once the blocked seat's turn is over.
	g = mustApply(t, g, play(1, "hearts_5_deck1")).State
	if g.CurrentPlayer != 0 || g.Clockwise {
		t.Fatalf("after reverse: current=%d clockwise=%v", g.CurrentPlayer, g.Clockwise)
	}
	for seat := range g.Players {
		if !CanChangeSuit(&g, seat) {
			t.Errorf("CanChangeSuit(seat %d) still blocked", seat)
		}
	}
}

func TestCanChangeSuitRankMatchNeverBlocks(t *testing.T) {
	g := fixture(t, card("clubs_3_deck1"), cards("hearts_3_deck1", "hearts_4_deck1"), cards("hearts_8_deck1", "spades_9_deck1"))
	g = mustApply(t, g, play(0, "hearts_3_deck1")).State
	if lc := g.LastSuitChange; lc == nil || lc.ChangeType != ChangeRankMatch {
		t.Fatalf("last_suit_change = %+v, want rank_match", g.LastSuitChange)
	}
	if !CanChangeSuit(&g, 1) {
		t.Error("a rank-match change must not restrict the next player")
	}
}

func TestCanChangeSuitLegacyUnknown(t *testing.T) {
	g := fixture(t, card("clubs_3_deck1"),
		cards("clubs_4_deck1", "clubs_5_deck1"),
		cards("hearts_8_deck1", "spades_9_deck1"),
		cards("spades_4_deck1", "spades_5_deck1"))
	g.TurnCount = 4
	g.CurrentPlayer = 1
	g.LastSuitChange = &SuitChange{PlayerIndex: 0}

	if CanChangeSuit(&g, 1) {
		t.Error("legacy unknown change should block the seat after its author")
	}
	if !CanChangeSuit(&g, 2) {
		t.Error("legacy unknown change should only block one seat")
	}
	g.Rules.LegacyUnknownChangeBlocks = false
	if !CanChangeSuit(&g, 1) {
		t.Error("unknown change should not block with the legacy rule off")
	}
}

func TestBlockedPlayerFollowsRecordedDirection(t *testing.T) {
	tests := []struct {
		change SuitChange
		n      int
		want   int
	}{
		{SuitChange{PlayerIndex: 0, Clockwise: true}, 4, 1},
		{SuitChange{PlayerIndex: 0, Clockwise: false}, 4, 3},
		{SuitChange{PlayerIndex: 3, Clockwise: true}, 4, 0},
		{SuitChange{PlayerIndex: 1, Clockwise: false}, 2, 0},
	}
	for _, tt := range tests {
		if got := BlockedPlayer(tt.change, tt.n); got != tt.want {
			t.Errorf("BlockedPlayer(%+v, %d) = %d, want %d", tt.change, tt.n, got, tt.want)
		}
	}
}

func TestCalculatePenalty(t *testing.T) {
	tests := []struct {
		invalid, top string
		want         int
	}{
		{"hearts_9_deck1", "clubs_3_deck1", 5},   // red on black, nothing matches
		{"spades_9_deck1", "diamonds_3_deck1", 5}, // black on red
		{"diamonds_9_deck1", "hearts_3_deck1", 2}, // same colour
		{"spades_9_deck1", "clubs_3_deck1", 2},
	}
	for _, tt := range tests {
		if got := CalculatePenalty(card(tt.invalid), card(tt.top)); got != tt.want {
			t.Errorf("CalculatePenalty(%s, %s) = %d, want %d", tt.invalid, tt.top, got, tt.want)
		}
	}
}

func TestPlayableCards(t *testing.T) {
	g := fixture(t, card("clubs_3_deck1"),
		cards("clubs_9_deck1", "hearts_3_deck2", "hearts_8_deck1", "diamonds_K_deck1"),
		cards("spades_9_deck1"))
	got := PlayableCards(&g, 0)
	if len(got) != 3 {
		t.Fatalf("PlayableCards = %v, want 3 cards", got)
	}
	for _, c := range got {
		if c == card("diamonds_K_deck1") {
			t.Errorf("K♦ is not playable on 3♣")
		}
	}
}

func TestPlayableCardsUnderPenalty(t *testing.T) {
	g := fixture(t, card("clubs_2_deck1"),
		cards("clubs_9_deck1"),
		cards("clubs_5_deck1", "hearts_2_deck1", "spades_A_deck1"))
	g.CurrentPlayer, g.PenaltyChain, g.PenaltyTarget = 1, 2, intPtr(1)
	if got := PlayableCards(&g, 1); len(got) != 2 {
		t.Errorf("PlayableCards under a 2 = %v, want the 2 and the A♠", got)
	}
}
