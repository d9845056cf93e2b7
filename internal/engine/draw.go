package engine

import "sluff/internal/game"

// RequestDraw opens a draw vote. The initiator is counted as voting for a
// wash, and everyone else has a fixed window to respond before the request
// expires.
func (e *Engine) RequestDraw(player game.PlayerID) []Effect {
	p := e.player(player)
	if p == nil || p.IsSpectator || e.Phase != PhasePlaying {
		return nil
	}
	if e.DrawRequest.IsActive {
		return nil
	}
	votes := make(map[string]string, len(e.Seats))
	for _, id := range e.Seats {
		if sp := e.player(id); sp != nil {
			votes[sp.Name] = ""
		}
	}
	votes[p.Name] = "wash"
	e.DrawRequest = DrawRequest{
		IsActive:  true,
		Initiator: p.Name,
		Votes:     votes,
		TimeLeft:  e.timers.DrawVoteSeconds,
	}
	e.drawGen++
	gen := e.drawGen
	return []Effect{BroadcastState{}, e.drawTick(gen)}
}

func (e *Engine) drawTick(gen int) Effect {
	return StartTimer{After: e.timers.CountdownTick, Resume: func(e *Engine) []Effect {
		if gen != e.drawGen || !e.DrawRequest.IsActive {
			return nil
		}
		e.DrawRequest.TimeLeft--
		if e.DrawRequest.TimeLeft > 0 {
			return []Effect{BroadcastState{}, e.drawTick(gen)}
		}
		e.cancelDraw()
		return []Effect{
			ToTable{Event: "notification", Data: map[string]string{
				"message": "Draw request timed out. Play continues.",
			}},
			BroadcastState{},
		}
	}}
}

func (e *Engine) cancelDraw() {
	e.DrawRequest = DrawRequest{Votes: make(map[string]string)}
	e.drawGen++
}

// SubmitDrawVote records one vote. A single refusal cancels the request; once
// every seat has voted the game ends as a wash, or a split if anyone asked
// for one.
func (e *Engine) SubmitDrawVote(player game.PlayerID, vote string) []Effect {
	p := e.player(player)
	if p == nil || !e.DrawRequest.IsActive {
		return nil
	}
	if _, ok := e.DrawRequest.Votes[p.Name]; !ok {
		return nil
	}
	switch vote {
	case "wash", "split":
		e.DrawRequest.Votes[p.Name] = vote
	case "no":
		initiator := e.DrawRequest.Initiator
		e.cancelDraw()
		return []Effect{
			ToTable{Event: "drawDeclined", Data: map[string]string{
				"declinedBy": p.Name,
				"initiator":  initiator,
			}},
			BroadcastState{},
		}
	default:
		return nil
	}

	for _, v := range e.DrawRequest.Votes {
		if v == "" {
			return []Effect{BroadcastState{}}
		}
	}

	outcome := "wash"
	for _, v := range e.DrawRequest.Votes {
		if v == "split" {
			outcome = "split"
			break
		}
	}
	return e.resolveDraw(outcome)
}

// resolveDraw ends a unanimously drawn game. The ledger settles wash or
// split payouts for the human players; bots hold no tokens.
func (e *Engine) resolveDraw(outcome string) []Effect {
	e.cancelDraw()
	e.drawGen++

	var participants []DrawParticipant
	for _, id := range e.Seats {
		p := e.player(id)
		if p == nil || p.IsBot {
			continue
		}
		participants = append(participants, DrawParticipant{Player: id, Name: p.Name})
	}

	e.Phase = PhaseGameOver
	e.RoundSummary = &RoundSummary{
		Message:       "The game has ended in a draw.",
		FinalScores:   e.snapshotScores(),
		DealerOfRound: e.Dealer,
		IsGameOver:    true,
		DrawOutcome:   outcome,
	}

	return []Effect{
		DrawSettlement{
			GameID:  e.GameID,
			Theme:   e.Theme,
			Outcome: outcome,
			Players: participants,
			Scores:  e.snapshotScores(),
			OnDone: func(e *Engine, summary *RoundSummary) []Effect {
				if summary != nil {
					e.RoundSummary = summary
				}
				return []Effect{SyncTokens{Players: e.humanSeats()}, BroadcastState{}}
			},
		},
		BroadcastState{},
		UpdateLobby{},
	}
}
