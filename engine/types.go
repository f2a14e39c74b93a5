package engine

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Suit is one of the four French suits. The zero value is not a valid suit.
type Suit uint8

const (
	SuitHearts Suit = iota + 1
	SuitDiamonds
	SuitClubs
	SuitSpades
)

// Suits lists every suit in deck-building order.
var Suits = [4]Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}

var suitNames = [...]string{
	SuitHearts:   "hearts",
	SuitDiamonds: "diamonds",
	SuitClubs:    "clubs",
	SuitSpades:   "spades",
}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool { return s >= SuitHearts && s <= SuitSpades }

// IsRed reports whether the suit is hearts or diamonds.
func (s Suit) IsRed() bool { return s == SuitHearts || s == SuitDiamonds }

func (s Suit) String() string {
	if !s.Valid() {
		return fmt.Sprintf("suit(%d)", uint8(s))
	}
	return suitNames[s]
}

// ParseSuit converts a wire name ("hearts", "spades", ...) into a Suit.
func ParseSuit(name string) (Suit, error) {
	for _, s := range Suits {
		if suitNames[s] == strings.ToLower(name) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown suit %q", name)
}

func (s Suit) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid suit %d", uint8(s))
	}
	return []byte(suitNames[s]), nil
}

func (s *Suit) UnmarshalText(b []byte) error {
	parsed, err := ParseSuit(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Rank is a card rank, Ace through King. The zero value is not a valid rank.
type Rank uint8

const (
	RankAce Rank = iota + 1
	RankTwo
	RankThree
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
)

var rankNames = [...]string{
	RankAce:   "A",
	RankTwo:   "2",
	RankThree: "3",
	RankFour:  "4",
	RankFive:  "5",
	RankSix:   "6",
	RankSeven: "7",
	RankEight: "8",
	RankNine:  "9",
	RankTen:   "10",
	RankJack:  "J",
	RankQueen: "Q",
	RankKing:  "K",
}

// Valid reports whether r is Ace through King.
func (r Rank) Valid() bool { return r >= RankAce && r <= RankKing }

func (r Rank) String() string {
	if !r.Valid() {
		return fmt.Sprintf("rank(%d)", uint8(r))
	}
	return rankNames[r]
}

// ParseRank converts a wire name ("A", "2".."10", "J", "Q", "K") into a Rank.
func ParseRank(name string) (Rank, error) {
	upper := strings.ToUpper(name)
	for r := RankAce; r <= RankKing; r++ {
		if rankNames[r] == upper {
			return r, nil
		}
	}
	return 0, fmt.Errorf("unknown rank %q", name)
}

func (r Rank) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid rank %d", uint8(r))
	}
	return []byte(rankNames[r]), nil
}

func (r *Rank) UnmarshalText(b []byte) error {
	parsed, err := ParseRank(string(b))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ---------------------------------------------------------------------------
// Card
// ---------------------------------------------------------------------------

// Card is one physical card of the two merged decks. Deck is 1 or 2, which
// keeps the two copies of every suit/rank pair distinguishable.
type Card struct {
	Suit Suit
	Rank Rank
	Deck uint8
}

// NewCard constructs a card from the given deck copy.
func NewCard(suit Suit, rank Rank, deck uint8) Card {
	return Card{Suit: suit, Rank: rank, Deck: deck}
}

// Valid reports whether the card has a real suit, rank and deck index.
func (c Card) Valid() bool {
	return c.Suit.Valid() && c.Rank.Valid() && (c.Deck == 1 || c.Deck == 2)
}

// ID returns the wire identifier, e.g. "spades_A_deck2".
func (c Card) ID() string {
	return fmt.Sprintf("%s_%s_deck%d", c.Suit, c.Rank, c.Deck)
}

func (c Card) String() string { return c.Rank.String() + " of " + c.Suit.String() }

// IsAceOfSpades reports whether c is the A♠, whose penalty is absolute.
func (c Card) IsAceOfSpades() bool { return c.Suit == SuitSpades && c.Rank == RankAce }

// IsWild reports whether c is an 8 or a Jack, both playable on anything.
func (c Card) IsWild() bool { return c.Rank == RankEight || c.Rank == RankJack }

// IsPenalty reports whether c starts or extends a penalty chain.
func (c Card) IsPenalty() bool { return c.Rank == RankTwo || c.IsAceOfSpades() }

// SameFace reports whether two cards share suit and rank, ignoring deck copy.
func (c Card) SameFace(o Card) bool { return c.Suit == o.Suit && c.Rank == o.Rank }

// ParseCardID decodes an identifier produced by Card.ID.
func ParseCardID(id string) (Card, error) {
	parts := strings.Split(id, "_")
	if len(parts) != 3 || !strings.HasPrefix(parts[2], "deck") {
		return Card{}, fmt.Errorf("malformed card id %q", id)
	}
	suit, err := ParseSuit(parts[0])
	if err != nil {
		return Card{}, fmt.Errorf("card id %q: %w", id, err)
	}
	rank, err := ParseRank(parts[1])
	if err != nil {
		return Card{}, fmt.Errorf("card id %q: %w", id, err)
	}
	var deck uint8
	switch parts[2] {
	case "deck1":
		deck = 1
	case "deck2":
		deck = 2
	default:
		return Card{}, fmt.Errorf("card id %q: unknown deck %q", id, parts[2])
	}
	return NewCard(suit, rank, deck), nil
}

type wireCard struct {
	Suit Suit   `json:"suit"`
	Rank Rank   `json:"rank"`
	ID   string `json:"id"`
}

// MarshalJSON emits the wire form {suit, rank, id}.
func (c Card) MarshalJSON() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid card %+v", c)
	}
	return json.Marshal(wireCard{Suit: c.Suit, Rank: c.Rank, ID: c.ID()})
}

// UnmarshalJSON accepts the wire form. The id is authoritative; suit and
// rank, when present, must agree with it.
func (c *Card) UnmarshalJSON(b []byte) error {
	var w struct {
		Suit string `json:"suit"`
		Rank string `json:"rank"`
		ID   string `json:"id"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	parsed, err := ParseCardID(w.ID)
	if err != nil {
		return err
	}
	if w.Suit != "" && !strings.EqualFold(w.Suit, parsed.Suit.String()) {
		return fmt.Errorf("card %q: suit %q does not match id", w.ID, w.Suit)
	}
	if w.Rank != "" && !strings.EqualFold(w.Rank, parsed.Rank.String()) {
		return fmt.Errorf("card %q: rank %q does not match id", w.ID, w.Rank)
	}
	*c = parsed
	return nil
}

// ---------------------------------------------------------------------------
// Effects
// ---------------------------------------------------------------------------

// Effect is a rule consequence of playing a card.
type Effect uint8

const (
	EffectPenalty2 Effect = iota + 1
	EffectReverse
	EffectSkip
	EffectChangeSuit
	EffectPenalty5
)

var effectNames = [...]string{
	EffectPenalty2:   "penalty_2",
	EffectReverse:    "reverse_direction",
	EffectSkip:       "skip_next",
	EffectChangeSuit: "change_suit",
	EffectPenalty5:   "penalty_5",
}

func (e Effect) String() string {
	if e < EffectPenalty2 || e > EffectPenalty5 {
		return fmt.Sprintf("effect(%d)", uint8(e))
	}
	return effectNames[e]
}

func (e Effect) MarshalText() ([]byte, error) {
	if e < EffectPenalty2 || e > EffectPenalty5 {
		return nil, fmt.Errorf("cannot marshal invalid effect %d", uint8(e))
	}
	return []byte(effectNames[e]), nil
}

func (e *Effect) UnmarshalText(b []byte) error {
	for v := EffectPenalty2; v <= EffectPenalty5; v++ {
		if effectNames[v] == string(b) {
			*e = v
			return nil
		}
	}
	return fmt.Errorf("unknown effect %q", string(b))
}

// Effects is an ordered set of effect tags.
type Effects []Effect

// Has reports whether e is present.
func (es Effects) Has(e Effect) bool {
	for _, x := range es {
		if x == e {
			return true
		}
	}
	return false
}

// add appends e unless already present.
func (es Effects) add(e Effect) Effects {
	if es.Has(e) {
		return es
	}
	return append(es, e)
}

// ---------------------------------------------------------------------------
// Suit-change bookkeeping
// ---------------------------------------------------------------------------

// ChangeType records what caused the last change of the effective suit.
// The zero value is ChangeUnknown, which is what states persisted before the
// field existed decode to.
type ChangeType uint8

const (
	ChangeUnknown ChangeType = iota
	ChangeEightOrJack
	ChangeRankMatch
)

var changeTypeNames = [...]string{
	ChangeUnknown:     "unknown",
	ChangeEightOrJack: "8_or_J",
	ChangeRankMatch:   "rank_match",
}

func (t ChangeType) String() string {
	if t > ChangeRankMatch {
		return fmt.Sprintf("change(%d)", uint8(t))
	}
	return changeTypeNames[t]
}

func (t ChangeType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText maps unrecognised or empty values to ChangeUnknown.
func (t *ChangeType) UnmarshalText(b []byte) error {
	switch string(b) {
	case "8_or_J":
		*t = ChangeEightOrJack
	case "rank_match":
		*t = ChangeRankMatch
	default:
		*t = ChangeUnknown
	}
	return nil
}

// SuitChange is the record of the most recent change of the effective suit.
type SuitChange struct {
	PlayerIndex int        `json:"player_index"`
	ChangeType  ChangeType `json:"change_type"`
	Clockwise   bool       `json:"clockwise"`
	Turn        int        `json:"turn"`
}

// ---------------------------------------------------------------------------
// Phase
// ---------------------------------------------------------------------------

// Phase is the lifecycle stage of a round.
type Phase string

const (
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
)
