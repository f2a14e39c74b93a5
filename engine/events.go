package engine

// EventType names an outbound domain event.
type EventType string

const (
	EventCardDropped     EventType = "card.dropped"
	EventTurnAdvanced    EventType = "turn.advanced"
	EventPenaltyApplied  EventType = "penalty.applied"
	EventQeregnAnnounced EventType = "qeregn.announced"
	EventShapeChanged    EventType = "shape.changed"
	EventRoundFinished   EventType = "round.finished"
)

// Penalty reasons carried by penalty.applied events.
const (
	PenaltyReasonChain       = "penalty_chain"
	PenaltyReasonInvalidDrop = "invalid_drop"
	PenaltyReasonFalseJoker  = "false_joker"
	PenaltyReasonTimeout     = "timeout"
)

// Event is a transport-agnostic record of something a move caused. Room
// code and timestamp are attached by whoever delivers it.
type Event struct {
	Type         EventType `json:"type"`
	PlayerID     string    `json:"playerId,omitempty"`
	TargetID     string    `json:"targetId,omitempty"`
	NextPlayerID string    `json:"nextPlayerId,omitempty"`
	Card         *Card     `json:"card,omitempty"`
	NewSuit      *Suit     `json:"newSuit,omitempty"`
	Shape        *Suit     `json:"shape,omitempty"`
	Direction    string    `json:"direction,omitempty"`
	Amount       int       `json:"amount,omitempty"`
	Reason       string    `json:"reason,omitempty"`
}

// DirectionName renders the turn direction for events.
func DirectionName(clockwise bool) string {
	if clockwise {
		return "clockwise"
	}
	return "counterclockwise"
}
