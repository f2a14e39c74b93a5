// internal/game/engine_adapter.go
package game

import (
	"fmt"
	"strings"

	"github.com/nashgetch/rg-ahaz-be-sub001/engine"
	"github.com/nashgetch/rg-ahaz-be-sub001/internal/models"
)

// toEngineMove translates a wire request into an engine move for seat.
// When Kind is empty it is inferred: Cards means a combo, Card a play.
func toEngineMove(req models.MoveRequest, seat int) (engine.Move, error) {
	kind := engine.MoveKind(strings.ToLower(strings.TrimSpace(req.Kind)))
	if kind == "" {
		switch {
		case len(req.Cards) > 0:
			kind = engine.MoveCombo
		case req.Card != nil:
			kind = engine.MovePlay
		default:
			return engine.Move{}, rejection(engine.ReasonUnknownMove, "request names no move")
		}
	}

	m := engine.Move{Kind: kind, Player: seat}
	switch kind {
	case engine.MovePlay:
		if req.Card == nil {
			if len(req.Cards) != 1 {
				return engine.Move{}, rejection(engine.ReasonUnknownCard, "play needs exactly one card")
			}
			req.Card = &req.Cards[0]
		}
		c, err := fromWireCard(*req.Card)
		if err != nil {
			return engine.Move{}, err
		}
		m.Card = c
	case engine.MoveCombo:
		if len(req.Cards) == 0 {
			return engine.Move{}, rejection(engine.ReasonEmptyCombo, "combo names no cards")
		}
		m.Cards = make([]engine.Card, 0, len(req.Cards))
		for _, wc := range req.Cards {
			c, err := fromWireCard(wc)
			if err != nil {
				return engine.Move{}, err
			}
			m.Cards = append(m.Cards, c)
		}
	}

	if req.SuitOverride != "" {
		s, err := engine.ParseSuit(req.SuitOverride)
		if err != nil {
			return engine.Move{}, rejection(engine.ReasonInvalidSuitSelection, err.Error())
		}
		m.Suit = &s
	}
	return m, nil
}

// rejection builds an engine-style refusal for requests that never reach
// the engine.
func rejection(reason engine.Reason, detail string) error {
	return &engine.ValidationError{Reason: reason, Detail: detail}
}

// fromWireCard resolves a wire card by id. Suit and rank, when sent, must
// agree with the id.
func fromWireCard(wc models.Card) (engine.Card, error) {
	c, err := engine.ParseCardID(wc.ID)
	if err != nil {
		return engine.Card{}, rejection(engine.ReasonUnknownCard, err.Error())
	}
	if wc.Suit != "" && !strings.EqualFold(wc.Suit, c.Suit.String()) {
		return engine.Card{}, rejection(engine.ReasonUnknownCard, fmt.Sprintf("card %s: suit %q does not match id", wc.ID, wc.Suit))
	}
	if wc.Rank != "" && !strings.EqualFold(wc.Rank, c.Rank.String()) {
		return engine.Card{}, rejection(engine.ReasonUnknownCard, fmt.Sprintf("card %s: rank %q does not match id", wc.ID, wc.Rank))
	}
	return c, nil
}

func toWireCard(c engine.Card) models.Card {
	return models.Card{ID: c.ID(), Suit: c.Suit.String(), Rank: c.Rank.String()}
}

func toWireCards(cs []engine.Card) []models.Card {
	out := make([]models.Card, len(cs))
	for i, c := range cs {
		out[i] = toWireCard(c)
	}
	return out
}

func effectNames(es engine.Effects) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.String()
	}
	return out
}

func toWireAudit(r engine.AuditReport) *models.Audit {
	a := &models.Audit{Violations: make([]string, len(r.Violations))}
	for i, v := range r.Violations {
		a.Violations[i] = string(v)
	}
	return a
}

// movePayload is the action history entry body for a committed move.
func movePayload(m engine.Move, out engine.Outcome) map[string]interface{} {
	payload := map[string]interface{}{
		"accepted": out.Accepted,
		"effects":  effectNames(out.Effects),
		"turn":     out.State.TurnCount,
	}
	if out.Reason != "" {
		payload["reason"] = string(out.Reason)
	}
	switch m.Kind {
	case engine.MovePlay:
		payload["card"] = m.Card.ID()
	case engine.MoveCombo:
		ids := make([]string, len(m.Cards))
		for i, c := range m.Cards {
			ids[i] = c.ID()
		}
		payload["cards"] = ids
	}
	if m.Suit != nil {
		payload["suit"] = m.Suit.String()
	}
	if !out.Audit.OK() {
		payload["audit_violations"] = toWireAudit(out.Audit).Violations
	}
	return payload
}
