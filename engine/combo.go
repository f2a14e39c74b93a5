package engine

// ValidateCombo checks a 7-combo submission against the acting player's
// hand: it must be led by a 7, every card must share that 7's suit, and every
// card must be held (a hand holding one copy cannot submit it twice).
func ValidateCombo(cards, hand []Card) error {
	if len(cards) == 0 {
		return reject(ReasonEmptyCombo, "no cards submitted")
	}
	lead := cards[0]
	if lead.Rank != RankSeven {
		return reject(ReasonMustStartWith7, "combo led by %s", lead)
	}
	for _, c := range cards[1:] {
		if c.Suit != lead.Suit {
			return reject(ReasonComboSuitMismatch, "%s does not follow %s", c, lead.Suit)
		}
	}
	remaining := append([]Card(nil), hand...)
	for _, c := range cards {
		var ok bool
		if remaining, ok = removeCard(remaining, c); !ok {
			return reject(ReasonCardNotInHand, "%s not in hand", c.ID())
		}
	}
	return nil
}
