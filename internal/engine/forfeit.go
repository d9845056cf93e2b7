package engine

import "sluff/internal/game"

func (e *Engine) clearForfeiture() {
	e.Forfeiture = Forfeiture{}
	e.forfeitGen++
}

// StartForfeitClock begins the disconnect countdown against a seated player
// who has dropped. Any seated player may start it; reconnection cancels it.
func (e *Engine) StartForfeitClock(requester game.PlayerID, targetName string) []Effect {
	if !e.GameStarted || e.Phase == PhaseGameOver {
		return nil
	}
	req := e.player(requester)
	if req == nil || req.IsSpectator {
		return nil
	}
	target := e.playerByName(targetName)
	if target == nil || !e.seated(target.ID) || !target.Disconnected {
		return reject(requester, "That player is not disconnected.")
	}
	if e.Forfeiture.Target != "" {
		return nil
	}
	e.Forfeiture = Forfeiture{Target: targetName, TimeLeft: e.timers.ForfeitSeconds}
	e.forfeitGen++
	gen := e.forfeitGen
	return []Effect{BroadcastState{}, e.forfeitTick(gen)}
}

// forfeitTick re-arms itself every second until the countdown is cancelled
// or reaches zero.
func (e *Engine) forfeitTick(gen int) Effect {
	return StartTimer{After: e.timers.CountdownTick, Resume: func(e *Engine) []Effect {
		if gen != e.forfeitGen || e.Forfeiture.Target == "" {
			return nil
		}
		e.Forfeiture.TimeLeft--
		if e.Forfeiture.TimeLeft > 0 {
			return []Effect{BroadcastState{}, e.forfeitTick(gen)}
		}
		target := e.playerByName(e.Forfeiture.Target)
		e.clearForfeiture()
		if target == nil || !target.Disconnected {
			return []Effect{BroadcastState{}}
		}
		return e.resolveForfeit(target, "disconnection timeout")
	}}
}

// ForfeitGame is a seated player giving up voluntarily.
func (e *Engine) ForfeitGame(player game.PlayerID) []Effect {
	p := e.player(player)
	if p == nil || p.IsSpectator || !e.GameStarted || e.Phase == PhaseGameOver {
		return nil
	}
	return e.resolveForfeit(p, "voluntary forfeit")
}

// resolveForfeit ends the game in the remaining players' favor. The
// forfeiter's buy-in is divided among them by score.
func (e *Engine) resolveForfeit(forfeiter *Player, reason string) []Effect {
	e.clearForfeiture()

	var remainingNames []string
	remainingIDs := make(map[string]game.PlayerID)
	for _, id := range e.Seats {
		p := e.player(id)
		if p == nil || p.ID == forfeiter.ID || p.IsBot {
			continue
		}
		remainingNames = append(remainingNames, p.Name)
		remainingIDs[p.Name] = id
	}
	shares := game.ForfeitPayout(e.Theme, e.Scores, remainingNames)
	payouts := make(map[game.PlayerID]game.ForfeitShare, len(shares))
	for name, share := range shares {
		payouts[remainingIDs[name]] = share
	}

	e.Phase = PhaseGameOver
	e.RoundSummary = &RoundSummary{
		Message:       forfeiter.Name + " has forfeited the game.",
		FinalScores:   e.snapshotScores(),
		DealerOfRound: e.Dealer,
		IsGameOver:    true,
	}

	return []Effect{
		ForfeitSettlement{
			GameID:         e.GameID,
			Theme:          e.Theme,
			TableName:      e.TableName,
			Forfeiter:      forfeiter.ID,
			ForfeiterName:  forfeiter.Name,
			ForfeiterIsBot: forfeiter.IsBot,
			Reason:         reason,
			Payouts:        payouts,
			OnDone: func(e *Engine) []Effect {
				return []Effect{SyncTokens{Players: e.humanSeats()}, BroadcastState{}}
			},
		},
		BroadcastState{},
		UpdateLobby{},
	}
}
