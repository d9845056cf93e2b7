package engine

import "sluff/internal/game"

// finishRound settles the hand after the eleventh trick. The widow's points
// are credited first: a Frog bidder keeps the value of the discards, while
// under Solo and Heart Solo the untouched widow goes to whichever side took
// the last trick.
func (e *Engine) finishRound(lastTrickWinner game.PlayerID) []Effect {
	if e.BidWinner == nil {
		return nil
	}

	bidderCardPoints := e.BidderPoints
	switch e.BidWinner.Bid {
	case game.BidFrog:
		bidderCardPoints += game.CardPoints(e.FrogDiscards)
	case game.BidSolo, game.BidHeartSolo:
		widowPoints := game.CardPoints(e.OriginalWidow)
		if lastTrickWinner == e.BidWinner.Player {
			bidderCardPoints += widowPoints
		} else {
			e.DefenderPoints += widowPoints
		}
	}
	e.BidderPoints = bidderCardPoints

	dealerName := ""
	if d := e.player(e.Dealer); d != nil {
		dealerName = d.Name
	}

	in := game.RoundScoreInput{
		BidWinner:         e.BidWinner.Name,
		Bid:               e.BidWinner.Bid,
		ActivePlayers:     e.roundOrderNames(),
		PlayerMode:        e.PlayerMode,
		Dealer:            dealerName,
		BidderCardPoints:  bidderCardPoints,
		FrogDiscards:      e.FrogDiscards,
		OriginalWidow:     e.OriginalWidow,
		InsuranceExecuted: e.Insurance.DealExecuted,
		BidderRequirement: e.Insurance.BidderRequirement,
	}
	if e.Insurance.DealExecuted && e.Insurance.ExecutedDetails != nil {
		in.ExecutedAgreement = e.Insurance.ExecutedDetails.Agreement
	}
	details := game.ScoreRound(in)

	for name, delta := range details.PointChanges {
		e.Scores[name] += delta
	}

	summary := &RoundSummary{
		Message:            details.Message,
		PointChanges:       details.PointChanges,
		WidowForReveal:     details.WidowForReveal,
		BidderPoints:       details.BidderPoints,
		DefenderPoints:     details.DefenderPoints,
		WidowPoints:        details.WidowPoints,
		BidType:            details.Bid,
		FinalScores:        e.snapshotScores(),
		InsuranceHindsight: details.Hindsight,
		AllTricks:          e.CapturedTricks,
		BidWinner:          e.BidWinner,
		ActiveOrder:        e.roundOrderNames(),
		DealerOfRound:      e.Dealer,
	}
	if e.Insurance.DealExecuted {
		summary.InsuranceDetails = e.Insurance.ExecutedDetails
	}
	e.RoundSummary = summary
	e.CurrentTrick = nil
	e.LeadSuit = ""
	e.Insurance.IsActive = false

	if e.gameOver() {
		e.Phase = PhaseGameOver
		summary.IsGameOver = true
		return []Effect{
			GameOverSettlement{
				GameID:   e.GameID,
				Theme:    e.Theme,
				Rankings: e.rankings(),
				OnDone: func(e *Engine, winner string, payouts map[game.PlayerID]string) []Effect {
					if e.RoundSummary != nil {
						e.RoundSummary.GameWinner = winner
						e.RoundSummary.PayoutDetails = payouts
					}
					return []Effect{SyncTokens{Players: e.humanSeats()}, BroadcastState{}}
				},
			},
			BroadcastState{},
		}
	}

	e.Phase = PhaseAwaitingNextRound
	return []Effect{BroadcastState{}}
}

// gameOver reports whether any participant, the absorber included, has been
// driven to zero or below.
func (e *Engine) gameOver() bool {
	for _, score := range e.Scores {
		if score <= 0 {
			return true
		}
	}
	return false
}

func (e *Engine) snapshotScores() map[string]int {
	out := make(map[string]int, len(e.Scores))
	for name, score := range e.Scores {
		out[name] = score
	}
	return out
}

// rankings lists the seated players by final score, best first. The score
// absorber never ranks.
func (e *Engine) rankings() []Ranking {
	out := make([]Ranking, 0, len(e.Seats))
	for _, id := range e.Seats {
		p := e.player(id)
		if p == nil {
			continue
		}
		out = append(out, Ranking{Player: id, Name: p.Name, IsBot: p.IsBot, Score: e.Scores[p.Name]})
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Score > out[j-1].Score; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

func (e *Engine) humanSeats() []game.PlayerID {
	var out []game.PlayerID
	for _, id := range e.Seats {
		if p := e.player(id); p != nil && !p.IsBot {
			out = append(out, id)
		}
	}
	return out
}
