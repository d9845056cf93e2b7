package game

import (
	"fmt"
	"math"
)

// ScoreAbsorber is the placeholder participant in 3-player games. It starts
// at 120 like everyone else and absorbs the third seat's delta when the
// bidder fails.
const ScoreAbsorber = "ScoreAbsorber"

// StartingScore is every participant's score at the start of a game.
// A game ends when any score reaches zero or below.
const StartingScore = 120

// InsuranceAgreement captures the terms frozen at the moment an insurance
// deal executes.
type InsuranceAgreement struct {
	BidderName        string         `json:"bidderPlayerName"`
	BidderRequirement int            `json:"bidderRequirement"`
	DefenderOffers    map[string]int `json:"defenderOffers"`
}

// RoundScoreInput is everything the end-of-round settlement depends on.
type RoundScoreInput struct {
	BidWinner        string
	Bid              Bid
	ActivePlayers    []string
	PlayerMode       int
	Dealer           string
	BidderCardPoints int
	FrogDiscards     []Card
	OriginalWidow    []Card

	InsuranceExecuted bool
	ExecutedAgreement InsuranceAgreement
	// BidderRequirement is the live insurance ask, used for hindsight when
	// no deal executed.
	BidderRequirement int
}

// RoundScoreDetails is the outcome of one round.
type RoundScoreDetails struct {
	PointChanges   map[string]int
	Message        string
	WidowForReveal []Card
	Hindsight      map[string]int
	BidderPoints   int
	DefenderPoints int
	WidowPoints    int
	Bid            Bid
}

// ScoreRound settles a finished round. An executed insurance deal replaces
// the card outcome entirely; otherwise the exchange value is
// |bidderPoints-60| times the bid multiplier, paid by or to every other
// active participant. In 3-player games a failed bid also pays the
// ScoreAbsorber; in 4-player games it pays the sitting-out dealer.
func ScoreRound(in RoundScoreInput) RoundScoreDetails {
	multiplier := in.Bid.Multiplier()

	widowPoints := 0
	widowForReveal := append([]Card(nil), in.OriginalWidow...)
	switch in.Bid {
	case BidFrog:
		widowPoints = CardPoints(in.FrogDiscards)
		widowForReveal = append([]Card(nil), in.FrogDiscards...)
	case BidSolo, BidHeartSolo:
		widowPoints = CardPoints(in.OriginalWidow)
	}

	changes := make(map[string]int, len(in.ActivePlayers)+1)
	for _, name := range in.ActivePlayers {
		changes[name] = 0
	}
	if in.PlayerMode == 3 {
		changes[ScoreAbsorber] = 0
	}

	var message string
	if in.InsuranceExecuted {
		agreement := in.ExecutedAgreement
		changes[agreement.BidderName] += agreement.BidderRequirement
		for defender, offer := range agreement.DefenderOffers {
			changes[defender] -= offer
		}
		message = "Insurance deal executed. Points exchanged based on agreement."
	} else {
		diff := in.BidderCardPoints - 60
		exchange := abs(diff) * multiplier
		switch {
		case diff == 0:
			message = fmt.Sprintf("%s scored exactly 60. No points exchanged.", in.BidWinner)
		case diff > 0:
			gained := 0
			for _, name := range in.ActivePlayers {
				if name != in.BidWinner {
					changes[name] -= exchange
					gained += exchange
				}
			}
			changes[in.BidWinner] += gained
			message = fmt.Sprintf("%s succeeded! Gains %d points.", in.BidWinner, gained)
		default:
			lost := 0
			for _, name := range in.ActivePlayers {
				if name != in.BidWinner {
					changes[name] += exchange
					lost += exchange
				}
			}
			if in.PlayerMode == 3 {
				changes[ScoreAbsorber] += exchange
				lost += exchange
			} else if in.PlayerMode == 4 && in.Dealer != "" && in.Dealer != in.BidWinner && !contains(in.ActivePlayers, in.Dealer) {
				changes[in.Dealer] += exchange
				lost += exchange
			}
			changes[in.BidWinner] -= lost
			message = fmt.Sprintf("%s failed. Loses %d points.", in.BidWinner, lost)
		}
	}

	return RoundScoreDetails{
		PointChanges:   changes,
		Message:        message,
		WidowForReveal: widowForReveal,
		Hindsight:      insuranceHindsight(in, changes),
		BidderPoints:   in.BidderCardPoints,
		DefenderPoints: DeckPoints - in.BidderCardPoints,
		WidowPoints:    widowPoints,
		Bid:            in.Bid,
	}
}

// insuranceHindsight compares what each player actually got against what the
// road not taken would have paid: the card outcome versus the deal when one
// executed, or versus a hypothetical deal at the bidder's current ask when
// none did. 3-player games only.
func insuranceHindsight(in RoundScoreInput, changes map[string]int) map[string]int {
	if in.PlayerMode != 3 {
		return nil
	}

	var defenders []string
	for _, name := range in.ActivePlayers {
		if name != in.BidWinner {
			defenders = append(defenders, name)
		}
	}

	potential := make(map[string]float64, len(defenders)+1)
	if in.InsuranceExecuted {
		diff := in.BidderCardPoints - 60
		exchange := float64(abs(diff) * in.Bid.Multiplier())
		if diff > 0 {
			potential[in.BidWinner] = exchange * 2
			for _, d := range defenders {
				potential[d] = -exchange
			}
		} else {
			potential[in.BidWinner] = -(exchange * 2)
			for _, d := range defenders {
				potential[d] = exchange
			}
		}
	} else {
		potential[in.BidWinner] = float64(in.BidderRequirement)
		if len(defenders) > 0 {
			perDefender := float64(in.BidderRequirement) / float64(len(defenders))
			for _, d := range defenders {
				potential[d] = -perDefender
			}
		}
	}

	hindsight := make(map[string]int, len(potential))
	for _, name := range append([]string{in.BidWinner}, defenders...) {
		hindsight[name] = int(math.Round(float64(changes[name]) - potential[name]))
	}
	return hindsight
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
