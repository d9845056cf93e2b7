package engine

import "sluff/internal/game"

// PlaceBid handles one bid or pass, in normal bidding or during the frog
// upgrade decision.
func (e *Engine) PlaceBid(player game.PlayerID, bid game.Bid) []Effect {
	if player != e.BiddingTurn {
		return nil
	}
	switch e.Phase {
	case PhaseAwaitingFrogUpgrade:
		return e.handleFrogUpgrade(player, bid)
	case PhaseBidding:
		return e.handleNormalBid(player, bid)
	}
	return nil
}

// handleFrogUpgrade is the one non-monotonic step in bidding: after a rival
// Solo, the original Frog bidder may jump to Heart Solo or let the Solo
// stand.
func (e *Engine) handleFrogUpgrade(player game.PlayerID, bid game.Bid) []Effect {
	if player != e.FrogBidder || (bid != game.BidHeartSolo && bid != game.BidPass) {
		return nil
	}
	if bid == game.BidHeartSolo {
		e.HighestBid = &BidDetails{Player: player, Name: e.player(player).Name, Bid: game.BidHeartSolo}
	}
	e.UpgradeDecided = true
	e.BiddingTurn = 0
	return e.resolveBidding()
}

func (e *Engine) handleNormalBid(player game.PlayerID, bid game.Bid) []Effect {
	if !bid.Valid() || e.hasPassed(player) {
		return nil
	}
	if bid != game.BidPass {
		if e.HighestBid != nil && !bid.Beats(e.HighestBid.Bid) {
			return rejectf(player, "Bid must be higher than %s.", e.HighestBid.Bid)
		}
		e.HighestBid = &BidDetails{Player: player, Name: e.player(player).Name, Bid: bid}
		if bid == game.BidFrog && e.FrogBidder == 0 {
			e.FrogBidder = player
		}
		if bid == game.BidSolo && e.FrogBidder != 0 && e.FrogBidder != player {
			e.SoloAfterFrog = true
		}
	} else {
		e.Passed = append(e.Passed, player)
	}

	var active []game.PlayerID
	for _, id := range e.RoundOrder {
		if !e.hasPassed(id) {
			active = append(active, id)
		}
	}

	// Bidding ends when everyone has passed, or when the highest bidder is the
	// only contender left.
	if len(active) == 0 ||
		(len(active) == 1 && e.HighestBid != nil && active[0] == e.HighestBid.Player) {
		e.BiddingTurn = 0
		return e.resolveBidding()
	}

	idx := 0
	for i, id := range e.RoundOrder {
		if id == player {
			idx = i
			break
		}
	}
	for i := 1; i <= len(e.RoundOrder); i++ {
		next := e.RoundOrder[(idx+i)%len(e.RoundOrder)]
		if !e.hasPassed(next) {
			e.BiddingTurn = next
			return []Effect{BroadcastState{}}
		}
	}

	e.BiddingTurn = 0
	return e.resolveBidding()
}

func (e *Engine) hasPassed(player game.PlayerID) bool {
	for _, id := range e.Passed {
		if id == player {
			return true
		}
	}
	return false
}

// resolveBidding finalizes the auction: all-pass reveals the widow and
// auto-advances, otherwise the winning bid routes to its next phase. The
// frog upgrade interposes when a rival Solo would bury an earlier Frog.
func (e *Engine) resolveBidding() []Effect {
	if e.HighestBid == nil {
		e.Phase = PhaseAllPassWidowReveal
		return []Effect{
			BroadcastState{},
			StartTimer{After: e.timers.AllPassReveal, Resume: func(e *Engine) []Effect {
				if e.Phase != PhaseAllPassWidowReveal {
					return nil
				}
				return append(e.advanceRound(), BroadcastState{})
			}},
		}
	}

	if e.HighestBid.Bid == game.BidSolo && e.SoloAfterFrog && !e.UpgradeDecided &&
		e.FrogBidder != 0 && e.FrogBidder != e.HighestBid.Player {
		e.Phase = PhaseAwaitingFrogUpgrade
		e.BiddingTurn = e.FrogBidder
		return []Effect{BroadcastState{}}
	}

	e.BidWinner = &BidDetails{Player: e.HighestBid.Player, Name: e.HighestBid.Name, Bid: e.HighestBid.Bid}
	e.FrogBidder = 0
	switch e.BidWinner.Bid {
	case game.BidFrog:
		e.TrumpSuit = game.Hearts
		e.Phase = PhaseFrogWidowExchange
		e.RevealedWidow = append([]game.Card(nil), e.Widow...)
		hand := e.Hands[e.BidWinner.Name]
		e.Hands[e.BidWinner.Name] = append(hand, e.Widow...)
	case game.BidHeartSolo:
		e.TrumpSuit = game.Hearts
		e.enterPlayingPhase()
	case game.BidSolo:
		e.Phase = PhaseTrumpSelection
	}
	return []Effect{BroadcastState{}}
}

// ChooseTrump lets a Solo winner pick any non-heart suit.
func (e *Engine) ChooseTrump(player game.PlayerID, suit game.Suit) []Effect {
	if e.Phase != PhaseTrumpSelection || e.BidWinner == nil || e.BidWinner.Player != player {
		return nil
	}
	if suit != game.Spades && suit != game.Clubs && suit != game.Diamonds {
		return reject(player, "Solo trump must be Spades, Clubs or Diamonds.")
	}
	e.TrumpSuit = suit
	e.enterPlayingPhase()
	return []Effect{BroadcastState{}}
}

// SubmitFrogDiscards takes the Frog bidder's three discards out of the
// merged 14-card hand.
func (e *Engine) SubmitFrogDiscards(player game.PlayerID, discards []game.Card) []Effect {
	p := e.player(player)
	if p == nil || e.Phase != PhaseFrogWidowExchange || e.BidWinner == nil || e.BidWinner.Player != player {
		return nil
	}
	if len(discards) != 3 {
		return reject(player, "Exactly 3 discards required.")
	}
	hand := e.Hands[p.Name]
	remaining := append([]game.Card(nil), hand...)
	for _, d := range discards {
		found := -1
		for i, c := range remaining {
			if c == d {
				found = i
				break
			}
		}
		if found < 0 {
			return reject(player, "Discards must come from your hand.")
		}
		remaining = append(remaining[:found], remaining[found+1:]...)
	}
	e.FrogDiscards = append([]game.Card(nil), discards...)
	e.Hands[p.Name] = remaining
	e.enterPlayingPhase()
	return []Effect{BroadcastState{}}
}

// enterPlayingPhase opens trick play with the bid winner on lead and, at a
// 3-player table, arms the insurance side-bet.
func (e *Engine) enterPlayingPhase() {
	e.Phase = PhasePlaying
	e.TricksPlayed = 0
	e.TrumpBroken = false
	e.CurrentTrick = nil
	e.LeadSuit = ""
	e.LastTrick = nil
	e.TrickLeader = e.BidWinner.Player
	e.TrickTurn = e.BidWinner.Player

	if e.PlayerMode == 3 {
		m := e.BidWinner.Bid.Multiplier()
		e.Insurance.IsActive = true
		e.Insurance.Multiplier = m
		e.Insurance.BidderName = e.BidWinner.Name
		e.Insurance.BidderRequirement = 120 * m
		for _, id := range e.RoundOrder {
			p := e.player(id)
			if p != nil && p.Name != e.BidWinner.Name {
				e.Insurance.DefenderOffers[p.Name] = -60 * m
			}
		}
	}
}
