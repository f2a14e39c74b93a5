package engine

// HouseRules holds configurable game rule settings.
type HouseRules struct {
	CardsPerPlayer    int `json:"cards_per_player"`
	StarterBonusCards int `json:"starter_bonus_cards"` // extra cards dealt to the starter

	// PenalizeInvalidDrops commits an owned but illegal single-card play as a
	// penalty draw instead of rejecting it outright.
	PenalizeInvalidDrops bool `json:"penalize_invalid_drops"`
	InvalidDropPenalty   int  `json:"invalid_drop_penalty"`
	FalseJokerPenalty    int  `json:"false_joker_penalty"`

	// LegacyUnknownChangeBlocks treats a suit change of unknown type as an
	// 8/J change when deciding whether the next player may change suit.
	LegacyUnknownChangeBlocks bool `json:"legacy_unknown_change_blocks"`
}

// DefaultHouseRules returns the standard Crazy house rules.
func DefaultHouseRules() HouseRules {
	return HouseRules{
		CardsPerPlayer:            5,
		StarterBonusCards:         1,
		PenalizeInvalidDrops:      true,
		InvalidDropPenalty:        2,
		FalseJokerPenalty:         5,
		LegacyUnknownChangeBlocks: true,
	}
}

// invalidDropPenalty returns the configured base penalty, treating 0 as 2.
func (r *HouseRules) invalidDropPenalty() int {
	if r.InvalidDropPenalty <= 0 {
		return 2
	}
	return r.InvalidDropPenalty
}

// falseJokerPenalty returns the configured escalated penalty, treating 0 as 5.
func (r *HouseRules) falseJokerPenalty() int {
	if r.FalseJokerPenalty <= 0 {
		return 5
	}
	return r.FalseJokerPenalty
}

// HandCapacity is the largest starting hand any player receives.
func (r *HouseRules) HandCapacity() int {
	return r.CardsPerPlayer + r.StarterBonusCards
}
