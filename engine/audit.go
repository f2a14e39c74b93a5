package engine

import "fmt"

// AuditInput describes one committed move for the auditor.
type AuditInput struct {
	Before  GameState
	After   GameState
	Played  []Card
	Actor   int
	Effects Effects
}

// InvariantViolation describes one broken rule in plain words.
type InvariantViolation string

// AuditReport lists the rule invariants a move broke. An empty report means
// the move is consistent with the rules.
type AuditReport struct {
	Actor      int                  `json:"actor"`
	Played     []Card               `json:"played,omitempty"`
	Effects    Effects              `json:"effects,omitempty"`
	Violations []InvariantViolation `json:"violations,omitempty"`
}

// OK reports whether no violation was found.
func (r AuditReport) OK() bool { return len(r.Violations) == 0 }

// Audit re-derives the critical rules from the states around a move and
// reports every one the transition contradicts. It never changes either
// state.
func Audit(in AuditInput) AuditReport {
	r := AuditReport{Actor: in.Actor, Played: in.Played, Effects: in.Effects}
	fail := func(format string, args ...any) {
		r.Violations = append(r.Violations, InvariantViolation(fmt.Sprintf(format, args...)))
	}
	after := &in.After
	playing := after.Phase == PhasePlaying

	for _, c := range in.Played {
		if c.IsAceOfSpades() && (after.PenaltyChain < 5 || after.PenaltyTarget == nil) {
			fail("ace of spades left penalty chain at %d", after.PenaltyChain)
		}
		if c.IsWild() && !in.Effects.Has(EffectChangeSuit) {
			fail("%s resolved without change_suit", c)
		}
	}

	// A blocked seat may move but never change the effective suit, whatever
	// the change is recorded as.
	if blockedBefore(&in) {
		if now, was := after.EffectiveSuit(), in.Before.EffectiveSuit(); now != was {
			fail("seat %d changed suit from %s to %s while blocked", in.Actor, was, now)
		} else if lc := after.LastSuitChange; lc != nil && lc.ChangeType == ChangeEightOrJack &&
			lc.PlayerIndex == in.Actor && lc.Turn == in.Before.TurnCount {
			fail("seat %d recorded an 8/J change while blocked", in.Actor)
		}
	}

	if in.Before.NumPlayers() == 2 && playing && after.PenaltyChain == 0 {
		for _, c := range in.Played {
			if (c.Rank == RankSeven || c.Rank == RankFive) && after.CurrentPlayer != in.Actor {
				fail("two-player %s passed the turn to seat %d", c, after.CurrentPlayer)
				break
			}
		}
	}

	if after.PenaltyChain > 0 && after.PenaltyTarget == nil {
		fail("penalty chain %d without a target", after.PenaltyChain)
	}
	if err := after.Validate(); err != nil {
		fail("%v", err)
	}
	return r
}

// blockedBefore reports whether the actor was barred from changing suit when
// the move started. A last card may always be played.
func blockedBefore(in *AuditInput) bool {
	if in.Actor < 0 || in.Actor >= len(in.Before.Players) || in.Before.Phase != PhasePlaying {
		return false
	}
	return len(in.Before.Players[in.Actor].Hand) != 1 && !CanChangeSuit(&in.Before, in.Actor)
}
