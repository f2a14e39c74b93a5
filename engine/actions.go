package engine

import "errors"

// MoveKind identifies what a player is trying to do.
type MoveKind string

const (
	MovePlay          MoveKind = "play"
	MoveCombo         MoveKind = "combo"
	MoveDraw          MoveKind = "draw"
	MoveAcceptPenalty MoveKind = "accept_penalty"
	MoveTimeout       MoveKind = "timeout"
	MoveDeclareQeregn MoveKind = "declare_qeregn"
)

// Move is a candidate action by the player in seat Player. Card is used by
// MovePlay, Cards by MoveCombo. Suit is the requested suit when an 8 or J
// is played.
type Move struct {
	Kind   MoveKind
	Player int
	Card   Card
	Cards  []Card
	Suit   *Suit
}

// Outcome is the result of Apply. State is the state to commit: the new
// state for an accepted move or a penalized drop, the input state when the
// move was rejected.
type Outcome struct {
	Accepted bool
	Reason   Reason // set when Accepted is false
	State    GameState
	Effects  Effects
	Events   []Event
	Audit    AuditReport
}

// Apply validates m against state and, when it is legal, returns the
// resulting state. The input state is never modified.
//
// A *ValidationError means the move was refused and Outcome.State is the
// input state. A *StateError means the input state itself is corrupt. An
// owned but illegal single-card play under Rules.PenalizeInvalidDrops is not
// an error: the penalized state is returned with Accepted false.
func Apply(state GameState, m Move) (Outcome, error) {
	if err := state.Validate(); err != nil {
		return Outcome{State: state}, err
	}
	refuse := func(err error) (Outcome, error) {
		out := Outcome{State: state}
		var ve *ValidationError
		if errors.As(err, &ve) {
			out.Reason = ve.Reason
		}
		return out, err
	}

	if state.IsFinished() {
		return refuse(reject(ReasonGameFinished, "round is over"))
	}
	actor := m.Player
	if actor < 0 || actor >= len(state.Players) {
		return refuse(reject(ReasonUnknownPlayer, "seat %d", actor))
	}
	if m.Kind != MoveDeclareQeregn && actor != state.CurrentPlayer {
		return refuse(reject(ReasonNotYourTurn, "seat %d to play, not %d", state.CurrentPlayer, actor))
	}

	g := state.Clone()
	var (
		played  []Card
		effects Effects
		events  []Event
		err     error
	)
	accepted := true
	switch m.Kind {
	case MovePlay:
		var penalized bool
		played, effects, events, penalized, err = g.play(actor, m.Card, m.Suit)
		accepted = !penalized
	case MoveCombo:
		played, effects, events, err = g.combo(actor, m.Cards, m.Suit)
	case MoveDraw:
		if g.IsPenaltyTarget(actor) {
			err = reject(ReasonMustCounterOrAccept, "penalty of %d pending", g.PenaltyChain)
			break
		}
		events = g.drawOne(actor)
	case MoveAcceptPenalty:
		if !g.IsPenaltyTarget(actor) {
			err = reject(ReasonNoPenaltyPending, "seat %d owes nothing", actor)
			break
		}
		events = g.acceptPenalty(actor, PenaltyReasonChain)
	case MoveTimeout:
		if g.IsPenaltyTarget(actor) {
			events = g.acceptPenalty(actor, PenaltyReasonTimeout)
		} else {
			events = g.drawOne(actor)
		}
	case MoveDeclareQeregn:
		events, err = g.declareQeregn(actor)
	default:
		err = reject(ReasonUnknownMove, "%q", m.Kind)
	}
	if err != nil {
		return refuse(err)
	}

	out := Outcome{
		Accepted: accepted,
		State:    g,
		Effects:  effects,
		Events:   events,
		Audit: Audit(AuditInput{
			Before:  state,
			After:   g,
			Played:  played,
			Actor:   actor,
			Effects: effects,
		}),
	}
	if !accepted {
		out.Reason = ReasonIllegalCard
	}
	return out, nil
}

// play handles a single-card drop. penalized is true when the card was
// illegal and the invalid-drop penalty was charged instead.
func (g *GameState) play(actor int, card Card, requested *Suit) (played []Card, effects Effects, events []Event, penalized bool, err error) {
	if !card.Valid() {
		return nil, nil, nil, false, reject(ReasonUnknownCard, "%+v", card)
	}
	p := &g.Players[actor]
	if !p.HasCard(card) {
		return nil, nil, nil, false, reject(ReasonCardNotInHand, "%s not in hand", card.ID())
	}
	top, _ := g.Top()

	if g.IsPenaltyTarget(actor) {
		active, _ := g.ActivePenaltyCard()
		if !CanCounter(card, active) {
			return nil, nil, nil, false, reject(ReasonMustCounterOrAccept, "%s does not answer %s", card, active)
		}
	} else if !CanPlay(card, top, g.SuitOverride) {
		if !g.Rules.PenalizeInvalidDrops {
			return nil, nil, nil, false, reject(ReasonIllegalCard, "%s on %s", card, top)
		}
		return nil, nil, g.penalizeDrop(actor, card, top), true, nil
	}

	cards := []Card{card}
	allowed, err := g.checkSuitRequest(actor, cards, requested)
	if err != nil {
		return nil, nil, nil, false, err
	}
	effects, events = g.dropCards(actor, cards, requested, allowed)
	return cards, effects, events, false, nil
}

// combo handles a 7-combo drop.
func (g *GameState) combo(actor int, cards []Card, requested *Suit) ([]Card, Effects, []Event, error) {
	for _, c := range cards {
		if !c.Valid() {
			return nil, nil, nil, reject(ReasonUnknownCard, "%+v", c)
		}
	}
	if g.IsPenaltyTarget(actor) {
		return nil, nil, nil, reject(ReasonMustCounterOrAccept, "penalty of %d pending", g.PenaltyChain)
	}
	if err := ValidateCombo(cards, g.Players[actor].Hand); err != nil {
		return nil, nil, nil, err
	}
	top, _ := g.Top()
	if !CanPlay(cards[0], top, g.SuitOverride) {
		return nil, nil, nil, reject(ReasonIllegalCard, "combo lead %s on %s", cards[0], top)
	}
	allowed, err := g.checkSuitRequest(actor, cards, requested)
	if err != nil {
		return nil, nil, nil, err
	}
	cards = append([]Card(nil), cards...)
	effects, events := g.dropCards(actor, cards, requested, allowed)
	return cards, effects, events, nil
}

// checkSuitRequest reports whether actor may change suit with cards and
// rejects a request the rules would not honour. A requested suit is ignored
// when no 8 or J is dropped and when the drop empties the hand. A blocked
// seat may only name the suit already in force.
func (g *GameState) checkSuitRequest(actor int, cards []Card, requested *Suit) (bool, error) {
	wild := false
	for _, c := range cards {
		wild = wild || c.IsWild()
	}
	if !wild || len(cards) == len(g.Players[actor].Hand) {
		return false, nil
	}
	if requested != nil && !requested.Valid() {
		return false, reject(ReasonInvalidSuitSelection, "suit %d", uint8(*requested))
	}
	allowed := CanChangeSuit(g, actor)
	if !allowed && requested != nil && *requested != g.EffectiveSuit() {
		return false, reject(ReasonSuitChangeBlocked, "seat %d may not change suit this turn", actor)
	}
	return allowed, nil
}
