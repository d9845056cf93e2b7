package engine

import "sluff/internal/game"

// PlayCard validates and applies one card play, resolving the trick when it
// is the last card of the trick.
func (e *Engine) PlayCard(player game.PlayerID, card game.Card) []Effect {
	p := e.player(player)
	if p == nil || e.Phase != PhasePlaying || player != e.TrickTurn {
		return nil
	}
	hand := e.Hands[p.Name]
	inHand := false
	for _, c := range hand {
		if c == card {
			inHand = true
			break
		}
	}
	if !inHand {
		return reject(player, "Card is not in your hand.")
	}

	isLeading := len(e.CurrentTrick) == 0
	legal := game.LegalMoves(hand, isLeading, e.LeadSuit, e.TrumpSuit, e.TrumpBroken)
	allowed := false
	for _, c := range legal {
		if c == card {
			allowed = true
			break
		}
	}
	if !allowed {
		if isLeading {
			return reject(player, "Cannot lead trump before it is broken.")
		}
		hasLead := false
		for _, c := range hand {
			if c.Suit() == e.LeadSuit {
				hasLead = true
				break
			}
		}
		if hasLead {
			return rejectf(player, "Must follow suit (%s).", e.LeadSuit.Name())
		}
		return reject(player, "Must play trump when unable to follow suit.")
	}

	remaining := hand[:0:0]
	for _, c := range hand {
		if c != card {
			remaining = append(remaining, c)
		}
	}
	e.Hands[p.Name] = remaining
	e.CurrentTrick = append(e.CurrentTrick, game.Play{Player: player, Name: p.Name, Card: card})
	e.PlayedThisRound = append(e.PlayedThisRound, card)
	if isLeading {
		e.LeadSuit = card.Suit()
	}
	if card.Suit() == e.TrumpSuit {
		e.TrumpBroken = true
	}

	if len(e.CurrentTrick) == len(e.RoundOrder) {
		return e.resolveTrick()
	}

	idx := 0
	for i, id := range e.RoundOrder {
		if id == player {
			idx = i
			break
		}
	}
	e.TrickTurn = e.RoundOrder[(idx+1)%len(e.RoundOrder)]
	return []Effect{BroadcastState{}}
}

// resolveTrick scores a completed trick, banks its points for the winning
// side, and either lingers before the next trick or ends the round after the
// eleventh.
func (e *Engine) resolveTrick() []Effect {
	winner, ok := game.TrickWinner(e.CurrentTrick, e.LeadSuit, e.TrumpSuit)
	if !ok {
		return nil
	}
	points := 0
	cards := make([]game.Card, 0, len(e.CurrentTrick))
	for _, play := range e.CurrentTrick {
		points += play.Card.Points()
		cards = append(cards, play.Card)
	}
	e.CapturedTricks[winner.Name] = append(e.CapturedTricks[winner.Name], cards)
	if e.BidWinner != nil && winner.Name == e.BidWinner.Name {
		e.BidderPoints += points
	} else {
		e.DefenderPoints += points
	}
	e.LastTrick = &CompletedTrick{Cards: e.CurrentTrick, WinnerName: winner.Name}
	e.TricksPlayed++

	if e.TricksPlayed >= game.HandSize {
		return e.finishRound(winner.Player)
	}

	nextLeader := winner.Player
	e.Phase = PhaseTrickLinger
	e.CurrentTrick = nil
	e.LeadSuit = ""
	return []Effect{
		BroadcastState{},
		StartTimer{After: e.timers.TrickLinger, Resume: func(e *Engine) []Effect {
			if e.Phase != PhaseTrickLinger {
				return nil
			}
			e.Phase = PhasePlaying
			e.TrickLeader = nextLeader
			e.TrickTurn = nextLeader
			return []Effect{BroadcastState{}}
		}},
	}
}
