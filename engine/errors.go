package engine

import "fmt"

// Reason is a machine-readable code explaining why a move was refused.
type Reason string

const (
	ReasonNotYourTurn          Reason = "not_your_turn"
	ReasonGameFinished         Reason = "game_finished"
	ReasonCardNotInHand        Reason = "player_doesnt_have_card"
	ReasonIllegalCard          Reason = "illegal_card"
	ReasonMustCounterOrAccept  Reason = "must_counter_or_accept"
	ReasonNoPenaltyPending     Reason = "no_penalty_pending"
	ReasonSuitChangeBlocked    Reason = "suit_change_blocked"
	ReasonMustStartWith7       Reason = "must_start_with_7"
	ReasonComboSuitMismatch    Reason = "all_cards_must_match_suit"
	ReasonEmptyCombo           Reason = "empty_combo"
	ReasonQeregnNeedsOneCard   Reason = "qeregn_requires_one_card"
	ReasonUnknownPlayer        Reason = "unknown_player"
	ReasonUnknownMove          Reason = "unknown_move"
	ReasonUnknownCard          Reason = "unknown_card"
	ReasonInvalidSuitSelection Reason = "invalid_suit"
)

// ValidationError reports an illegal move. The state it was checked against
// is unchanged and the caller may submit a corrected move.
type ValidationError struct {
	Reason Reason
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Detail == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

func reject(reason Reason, format string, args ...any) *ValidationError {
	return &ValidationError{Reason: reason, Detail: fmt.Sprintf(format, args...)}
}

// StateError reports a structurally invalid GameState. It is fatal for the
// round: retrying with the same state yields the same error.
type StateError struct {
	Field  string
	Detail string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("invalid game state (%s): %s", e.Field, e.Detail)
}

// ConfigError reports an impossible deal or roster.
type ConfigError struct {
	Detail string
}

func (e *ConfigError) Error() string { return "invalid game config: " + e.Detail }
