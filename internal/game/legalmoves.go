package game

// LegalMoves returns the subset of hand that may legally be played.
//
// Leading: trump may not be led before it has been broken, unless the hand
// holds nothing but trump. Following: the lead suit must be followed if
// possible, otherwise trump must be played if held, otherwise any card may
// be sluffed. The result is never empty for a non-empty hand.
func LegalMoves(hand []Card, isLeading bool, leadSuit, trumpSuit Suit, trumpBroken bool) []Card {
	if isLeading {
		nonTrump := filterBySuitExcluded(hand, trumpSuit)
		if !trumpBroken && len(nonTrump) > 0 {
			return nonTrump
		}
		return append([]Card(nil), hand...)
	}

	if follows := filterBySuit(hand, leadSuit); len(follows) > 0 {
		return follows
	}
	if trumps := filterBySuit(hand, trumpSuit); len(trumps) > 0 {
		return trumps
	}
	return append([]Card(nil), hand...)
}

func filterBySuit(hand []Card, suit Suit) []Card {
	var out []Card
	for _, c := range hand {
		if c.Suit() == suit {
			out = append(out, c)
		}
	}
	return out
}

func filterBySuitExcluded(hand []Card, suit Suit) []Card {
	var out []Card
	for _, c := range hand {
		if c.Suit() != suit {
			out = append(out, c)
		}
	}
	return out
}
