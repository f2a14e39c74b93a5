package engine

// BuildDeck returns the ordered 104-card pool: two full 52-card decks,
// deck 1 first, no jokers.
func BuildDeck() []Card {
	cards := make([]Card, 0, DeckSize)
	for deck := uint8(1); deck <= Decks; deck++ {
		for _, suit := range Suits {
			for rank := RankAce; rank <= RankKing; rank++ {
				cards = append(cards, NewCard(suit, rank, deck))
			}
		}
	}
	return cards
}

// Shuffle permutes cards in place with a Fisher-Yates shuffle driven by rng.
func Shuffle(cards []Card, rng *Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

// ---------------------------------------------------------------------------
// xorshift64 RNG, serialisable as part of the game state
// ---------------------------------------------------------------------------

// Rand is a small deterministic generator. Its whole state is the exported
// field, so a persisted GameState replays reshuffles identically.
type Rand struct {
	State uint64 `json:"state"`
}

// NewRand seeds a generator. xorshift cannot start at 0, so 0 becomes 1.
func NewRand(seed uint64) *Rand {
	if seed == 0 {
		seed = 1
	}
	return &Rand{State: seed}
}

// Next advances the generator.
func (r *Rand) Next() uint64 {
	if r.State == 0 {
		r.State = 1
	}
	x := r.State
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	r.State = x
	return x
}

// Intn returns a number in [0, n). n must be positive.
func (r *Rand) Intn(n int) int {
	return int(r.Next() % uint64(n))
}
