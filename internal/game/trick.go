package game

// Play is one card laid into the current trick.
type Play struct {
	Player PlayerID `json:"playerId"`
	Name   string   `json:"playerName"`
	Card   Card     `json:"card"`
}

// TrickWinner returns the winning play: the highest trump if any trump was
// played, otherwise the highest card of the lead suit. ok is false only for
// an empty trick.
func TrickWinner(plays []Play, leadSuit, trumpSuit Suit) (Play, bool) {
	var bestTrump, bestLead *Play
	for i := range plays {
		p := &plays[i]
		switch p.Card.Suit() {
		case trumpSuit:
			if bestTrump == nil || p.Card.RankIndex() > bestTrump.Card.RankIndex() {
				bestTrump = p
			}
		case leadSuit:
			if bestLead == nil || p.Card.RankIndex() > bestLead.Card.RankIndex() {
				bestLead = p
			}
		}
	}
	if bestTrump != nil {
		return *bestTrump, true
	}
	if bestLead != nil {
		return *bestLead, true
	}
	return Play{}, false
}
