// internal/models/models.go
package models

import (
	"github.com/google/uuid"
)

// User is the account behind a seated player.
type User struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// Player is a participant seated in a room.
type Player struct {
	ID        uuid.UUID `json:"id"`
	User      *User     `json:"user,omitempty"`
	Connected bool      `json:"connected"` // Is a socket currently attached?
}

// Username returns the user's display name, or the player id when unknown.
func (p *Player) Username() string {
	if p.User != nil && p.User.Username != "" {
		return p.User.Username
	}
	return p.ID.String()
}

// Card is the wire representation of a card: {suit, rank, id}.
type Card struct {
	ID   string `json:"id"`
	Suit string `json:"suit,omitempty"`
	Rank string `json:"rank,omitempty"`
}

// MoveRequest is a move submitted by a client.
type MoveRequest struct {
	RoomCode       string    `json:"room_code"`
	ActingPlayerID uuid.UUID `json:"acting_player_id"`
	Kind           string    `json:"kind,omitempty"` // play, combo, draw, accept_penalty, timeout, declare_qeregn
	Card           *Card     `json:"card,omitempty"`
	Cards          []Card    `json:"cards,omitempty"`
	SuitOverride   string    `json:"suit_override,omitempty"`
}

// MoveResponse answers a MoveRequest.
type MoveResponse struct {
	Accepted    bool       `json:"accepted"`
	Reason      string     `json:"reason,omitempty"`
	NewState    *StateView `json:"new_state,omitempty"`
	Effects     []string   `json:"effects"`
	AuditReport *Audit     `json:"audit_report,omitempty"`
}

// Audit is the wire form of a rule audit.
type Audit struct {
	Violations []string `json:"violations"`
}

// PlayerView is one seat as seen by a given observer.
type PlayerView struct {
	PlayerID      uuid.UUID `json:"playerId"`
	Username      string    `json:"username"`
	Seat          int       `json:"seat"`
	HandSize      int       `json:"handSize"`
	Hand          []Card    `json:"hand,omitempty"` // Only populated for the observer.
	Penalties     int       `json:"penalties"`
	Mistakes      int       `json:"mistakes"`
	SaidQeregn    bool      `json:"saidQeregn"`
	IsStarter     bool      `json:"isStarter"`
	IsCurrentTurn bool      `json:"isCurrentTurn"`
	Connected     bool      `json:"connected"`
	FinalRank     int       `json:"finalRank,omitempty"`
	Score         int       `json:"score,omitempty"`
}

// StateView is the game state as one player is allowed to see it.
type StateView struct {
	RoomCode        string       `json:"roomCode"`
	Phase           string       `json:"phase"`
	CurrentPlayerID uuid.UUID    `json:"currentPlayerId"`
	Direction       string       `json:"direction"`
	TopCard         *Card        `json:"topCard,omitempty"`
	EffectiveSuit   string       `json:"effectiveSuit"`
	SuitOverride    string       `json:"suitOverride,omitempty"`
	PenaltyChain    int          `json:"penaltyChain"`
	PenaltyTargetID *uuid.UUID   `json:"penaltyTargetId,omitempty"`
	DrawPileSize    int          `json:"drawPileSize"`
	DiscardSize     int          `json:"discardSize"`
	TurnCount       int          `json:"turnCount"`
	WinnerID        *uuid.UUID   `json:"winnerId,omitempty"`
	Players         []PlayerView `json:"players"`
}
