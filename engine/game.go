// Package engine implements the rules of Crazy, the Ethiopian Crazy-Eights
// variant played with two merged 52-card decks.
//
// Every operation is a pure function of an explicit GameState value: Apply
// copies the state, validates the move, resolves its effects, advances the
// turn and audits the result. Persistence, broadcast and locking belong to
// the caller.
package engine

import "fmt"

const (
	MinPlayers = 2
	MaxPlayers = 8
	Decks      = 2
	DeckSize   = 52 * Decks
)

// PlayerState holds one participant's hand and round counters.
type PlayerState struct {
	UserID     string `json:"user_id"`
	Hand       []Card `json:"hand"`
	Penalties  int    `json:"penalties"`
	Mistakes   int    `json:"mistakes"`
	SaidQeregn bool   `json:"said_qeregn"`
	IsStarter  bool   `json:"is_starter"`
	FinalRank  int    `json:"final_rank,omitempty"` // 0 until the round ends
	Turns      int    `json:"turns"`
	Score      int    `json:"score"`
}

// HasCard reports whether the exact card (deck copy included) is in hand.
func (p *PlayerState) HasCard(c Card) bool {
	return indexOfCard(p.Hand, c) >= 0
}

// GameState is the complete, self-contained state of one round.
//
// The top of the draw pile and of the discard pile is the last element.
type GameState struct {
	DrawPile       []Card        `json:"draw_pile"`
	DiscardPile    []Card        `json:"discard_pile"`
	Players        []PlayerState `json:"players"`
	CurrentPlayer  int           `json:"current_player"`
	Clockwise      bool          `json:"direction"`
	SuitOverride   *Suit         `json:"current_suit_override,omitempty"`
	PenaltyChain   int           `json:"penalty_chain"`
	PenaltyTarget  *int          `json:"penalty_target,omitempty"`
	LastSuitChange *SuitChange   `json:"last_suit_change,omitempty"`
	TurnCount      int           `json:"turn_count"`
	Phase          Phase         `json:"phase"`
	Winner         int           `json:"winner"`
	RNG            Rand          `json:"rng"`
	Rules          HouseRules    `json:"rules"`
}

// ---------------------------------------------------------------------------
// NewGame (Dealer)
// ---------------------------------------------------------------------------

// NewGame shuffles a fresh 104-card pool with the given seed and deals a
// round to the roster. The starter receives the bonus cards and takes the
// first turn. The opening discard is the first card from the top of the
// remaining pile that carries no effect.
func NewGame(roster []string, starter int, seed uint64, rules HouseRules) (GameState, error) {
	n := len(roster)
	if n < MinPlayers || n > MaxPlayers {
		return GameState{}, &ConfigError{Detail: fmt.Sprintf("need %d-%d players, got %d", MinPlayers, MaxPlayers, n)}
	}
	if starter < 0 || starter >= n {
		return GameState{}, &ConfigError{Detail: fmt.Sprintf("starter index %d out of range", starter)}
	}
	seen := make(map[string]bool, n)
	for _, id := range roster {
		if id == "" {
			return GameState{}, &ConfigError{Detail: "empty user id in roster"}
		}
		if seen[id] {
			return GameState{}, &ConfigError{Detail: fmt.Sprintf("duplicate user id %q", id)}
		}
		seen[id] = true
	}
	if rules.CardsPerPlayer < 1 || rules.StarterBonusCards < 0 {
		return GameState{}, &ConfigError{Detail: fmt.Sprintf("cannot deal %d cards (+%d to starter)", rules.CardsPerPlayer, rules.StarterBonusCards)}
	}
	// One card must remain to open the discard pile.
	if dealt := n*rules.CardsPerPlayer + rules.StarterBonusCards; dealt+1 > DeckSize {
		return GameState{}, &ConfigError{Detail: fmt.Sprintf("deal of %d cards leaves no opening discard in the %d-card pool", dealt, DeckSize)}
	}

	rng := NewRand(seed)
	pile := BuildDeck()
	Shuffle(pile, rng)

	g := GameState{
		Players:       make([]PlayerState, n),
		CurrentPlayer: starter,
		Clockwise:     true,
		Phase:         PhasePlaying,
		Winner:        -1,
		Rules:         rules,
	}
	for i, id := range roster {
		g.Players[i] = PlayerState{UserID: id, IsStarter: i == starter, Hand: make([]Card, 0, rules.HandCapacity())}
	}

	pop := func() Card {
		c := pile[len(pile)-1]
		pile = pile[:len(pile)-1]
		return c
	}
	// Deal one card at a time, starting with the starter.
	for c := 0; c < rules.CardsPerPlayer; c++ {
		for k := 0; k < n; k++ {
			p := (starter + k) % n
			g.Players[p].Hand = append(g.Players[p].Hand, pop())
		}
	}
	for b := 0; b < rules.StarterBonusCards; b++ {
		g.Players[starter].Hand = append(g.Players[starter].Hand, pop())
	}

	open := len(pile) - 1
	for i := len(pile) - 1; i >= 0; i-- {
		if len(ClassifyEffects(pile[i])) == 0 {
			open = i
			break
		}
	}
	g.DiscardPile = []Card{pile[open]}
	g.DrawPile = append(pile[:open:open], pile[open+1:]...)
	g.RNG = *rng
	return g, nil
}

// ---------------------------------------------------------------------------
// Query methods
// ---------------------------------------------------------------------------

// IsFinished reports whether the round has ended.
func (g *GameState) IsFinished() bool { return g.Phase == PhaseFinished }

// NumPlayers returns the number of seated players.
func (g *GameState) NumPlayers() int { return len(g.Players) }

// Top returns the top card of the discard pile.
func (g *GameState) Top() (Card, bool) {
	if len(g.DiscardPile) == 0 {
		return Card{}, false
	}
	return g.DiscardPile[len(g.DiscardPile)-1], true
}

// EffectiveSuit is the suit the next card must follow: the override when
// one is active, otherwise the suit of the top card.
func (g *GameState) EffectiveSuit() Suit {
	if g.SuitOverride != nil {
		return *g.SuitOverride
	}
	top, _ := g.Top()
	return top.Suit
}

// ActivePenaltyCard returns the most recent 2 or A♠ on the discard pile
// while a penalty chain is pending.
func (g *GameState) ActivePenaltyCard() (Card, bool) {
	if g.PenaltyChain == 0 {
		return Card{}, false
	}
	for i := len(g.DiscardPile) - 1; i >= 0; i-- {
		if g.DiscardPile[i].IsPenalty() {
			return g.DiscardPile[i], true
		}
	}
	return Card{}, false
}

// IsPenaltyTarget reports whether player must counter or accept a chain.
func (g *GameState) IsPenaltyTarget(player int) bool {
	return g.PenaltyChain > 0 && g.PenaltyTarget != nil && *g.PenaltyTarget == player
}

// PlayerIndex returns the seat of the given user, or -1.
func (g *GameState) PlayerIndex(userID string) int {
	for i := range g.Players {
		if g.Players[i].UserID == userID {
			return i
		}
	}
	return -1
}

// CardCount totals the cards across every container.
func (g *GameState) CardCount() int {
	n := len(g.DrawPile) + len(g.DiscardPile)
	for i := range g.Players {
		n += len(g.Players[i].Hand)
	}
	return n
}

// ---------------------------------------------------------------------------
// Copying
// ---------------------------------------------------------------------------

// Clone returns a deep copy that shares no slices or pointers with g.
func (g GameState) Clone() GameState {
	out := g
	out.DrawPile = append([]Card(nil), g.DrawPile...)
	out.DiscardPile = append([]Card(nil), g.DiscardPile...)
	out.Players = make([]PlayerState, len(g.Players))
	for i, p := range g.Players {
		p.Hand = append([]Card(nil), p.Hand...)
		out.Players[i] = p
	}
	if g.SuitOverride != nil {
		s := *g.SuitOverride
		out.SuitOverride = &s
	}
	if g.PenaltyTarget != nil {
		t := *g.PenaltyTarget
		out.PenaltyTarget = &t
	}
	if g.LastSuitChange != nil {
		c := *g.LastSuitChange
		out.LastSuitChange = &c
	}
	return out
}

func indexOfCard(cards []Card, c Card) int {
	for i, x := range cards {
		if x == c {
			return i
		}
	}
	return -1
}

func removeCard(cards []Card, c Card) ([]Card, bool) {
	i := indexOfCard(cards, c)
	if i < 0 {
		return cards, false
	}
	return append(cards[:i], cards[i+1:]...), true
}

func suitPtr(s Suit) *Suit { return &s }

func intPtr(i int) *int { return &i }
