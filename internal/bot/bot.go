// Package bot is the scripted opponent. Every decision runs through the same
// legality rules as a human action, so a bot can never make a move the engine
// would refuse.
package bot

import (
	"sort"

	"sluff/internal/engine"
	"sluff/internal/game"
)

// Bot decides moves for one seated bot player.
type Bot struct {
	ID   game.PlayerID
	Name string
}

func New(id game.PlayerID, name string) *Bot {
	return &Bot{ID: id, Name: name}
}

type handStats struct {
	points int
	suits  map[game.Suit]int
}

func analyzeHand(hand []game.Card) handStats {
	stats := handStats{suits: make(map[game.Suit]int, 4)}
	for _, c := range hand {
		stats.points += c.Points()
		stats.suits[c.Suit()]++
	}
	return stats
}

func sortByRank(cards []game.Card) []game.Card {
	out := append([]game.Card(nil), cards...)
	sort.Slice(out, func(i, j int) bool { return out[i].RankIndex() < out[j].RankIndex() })
	return out
}

// MakeBid sizes up the hand and bids only when the hand clears the threshold
// for a tier above the current highest bid.
func (b *Bot) MakeBid(e *engine.Engine) game.Bid {
	stats := analyzeHand(e.Hands[b.Name])
	potential := game.BidPass
	switch {
	case (stats.points > 30 && stats.suits[game.Hearts] >= 5) ||
		(stats.points > 40 && stats.suits[game.Hearts] >= 4):
		potential = game.BidHeartSolo
	case (stats.points > 30 && b.longestOffSuit(stats) >= 5) ||
		(stats.points > 40 && b.longestOffSuit(stats) >= 4):
		potential = game.BidSolo
	case (stats.points > 30 && stats.suits[game.Hearts] >= 4) ||
		(stats.points > 40 && stats.suits[game.Hearts] >= 3):
		potential = game.BidFrog
	}
	if e.HighestBid == nil {
		return potential
	}
	if potential.Beats(e.HighestBid.Bid) {
		return potential
	}
	return game.BidPass
}

// DecideFrogUpgrade answers the upgrade offer: Heart Solo if the hand rates
// it, otherwise let the Solo stand.
func (b *Bot) DecideFrogUpgrade(e *engine.Engine) game.Bid {
	stats := analyzeHand(e.Hands[b.Name])
	if (stats.points > 30 && stats.suits[game.Hearts] >= 5) ||
		(stats.points > 40 && stats.suits[game.Hearts] >= 4) {
		return game.BidHeartSolo
	}
	return game.BidPass
}

func (b *Bot) longestOffSuit(stats handStats) int {
	best := 0
	for _, s := range []game.Suit{game.Spades, game.Clubs, game.Diamonds} {
		if stats.suits[s] > best {
			best = stats.suits[s]
		}
	}
	return best
}

// ChooseTrump picks the longest non-heart suit, clubs on a tie-less hand.
func (b *Bot) ChooseTrump(e *engine.Engine) game.Suit {
	stats := analyzeHand(e.Hands[b.Name])
	best := game.Clubs
	longest := 0
	for _, s := range []game.Suit{game.Spades, game.Clubs, game.Diamonds} {
		if stats.suits[s] > longest {
			longest = stats.suits[s]
			best = s
		}
	}
	return best
}

// FrogDiscards gives back the three lowest-ranked cards.
func (b *Bot) FrogDiscards(e *engine.Engine) []game.Card {
	sorted := sortByRank(e.Hands[b.Name])
	if len(sorted) < 3 {
		return sorted
	}
	return sorted[:3]
}

// InitialInsurance sets the bot's opening posture on the side-bet: bidders
// ask more with a strong hand, defenders concede less with high trumps in
// reserve.
func (b *Bot) InitialInsurance(e *engine.Engine) (setting string, value int, ok bool) {
	if !e.Insurance.IsActive || e.BidWinner == nil {
		return "", 0, false
	}
	hand := e.Hands[b.Name]
	stats := analyzeHand(hand)
	trumpCount := stats.suits[e.TrumpSuit]
	m := e.Insurance.Multiplier

	if e.BidWinner.Player == b.ID {
		switch {
		case stats.points > 35 && trumpCount >= 5:
			return "bidderRequirement", 80 * m, true
		case stats.points < 25 || trumpCount <= 3:
			return "bidderRequirement", 40 * m, true
		default:
			return "bidderRequirement", 60 * m, true
		}
	}

	highTrumps := 0
	for _, c := range hand {
		if c.Suit() != e.TrumpSuit {
			continue
		}
		switch c.Rank() {
		case "A", "10", "K":
			highTrumps++
		}
	}
	if highTrumps >= 2 {
		return "defenderOffer", -20 * m, true
	}
	return "defenderOffer", -40 * m, true
}

// PlayCard picks from the legal moves: when leading, the strongest card short
// of a ten whose ace is still unseen; when following, the strongest card that
// takes the trick, or the cheapest throwaway.
func (b *Bot) PlayCard(e *engine.Engine) (game.Card, bool) {
	hand := e.Hands[b.Name]
	if len(hand) == 0 {
		return "", false
	}
	isLeading := len(e.CurrentTrick) == 0
	legal := sortByRank(game.LegalMoves(hand, isLeading, e.LeadSuit, e.TrumpSuit, e.TrumpBroken))
	if len(legal) == 0 {
		return "", false
	}

	if isLeading {
		best := legal[len(legal)-1]
		if best.Rank() == "10" && len(legal) > 1 && !b.acePlayed(e, best.Suit()) {
			return legal[len(legal)-2], true
		}
		return best, true
	}

	var winning []game.Card
	for _, c := range legal {
		trick := append(append([]game.Play(nil), e.CurrentTrick...),
			game.Play{Player: b.ID, Name: b.Name, Card: c})
		if winner, ok := game.TrickWinner(trick, e.LeadSuit, e.TrumpSuit); ok && winner.Player == b.ID {
			winning = append(winning, c)
		}
	}
	if len(winning) > 0 {
		return winning[len(winning)-1], true
	}
	return legal[0], true
}

func (b *Bot) acePlayed(e *engine.Engine, suit game.Suit) bool {
	ace := game.Card("A" + string(suit))
	for _, c := range e.PlayedThisRound {
		if c == ace {
			return true
		}
	}
	return false
}
