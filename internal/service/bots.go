package service

import (
	"time"

	"sluff/internal/bot"
	"sluff/internal/engine"
	"sluff/internal/game"
)

// slowBot thinks twice as long as the others.
const slowBot = "Courtney Sr."

func (s *Service) botLoop() {
	ticker := time.NewTicker(time.Duration(s.cfg.BotHeartbeatMs) * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
		}
		for _, id := range s.tableOrder {
			s.botStep(s.tables[id])
		}
	}
}

// botStep schedules at most one bot action per table. The decision itself is
// recomputed when the timer fires, so a stale schedule degrades to a no-op.
func (s *Service) botStep(t *table) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pendingBot {
		return
	}
	fn, delay, ok := s.nextBotAction(t)
	if !ok {
		return
	}
	t.pendingBot = true
	time.AfterFunc(delay, func() {
		s.perform(t, func(e *engine.Engine) []engine.Effect {
			t.pendingBot = false
			return fn(e)
		})
	})
}

func (s *Service) actionDelay(name string) time.Duration {
	ms := s.cfg.BotActionMs
	if name == slowBot {
		ms = s.cfg.BotActionSlowMs
	}
	return time.Duration(ms) * time.Millisecond
}

func (s *Service) playDelay(name string) time.Duration {
	ms := s.cfg.BotPlayMs
	if name == slowBot {
		ms = s.cfg.BotPlaySlowMs
	}
	return time.Duration(ms) * time.Millisecond
}

func (s *Service) roundEndDelay(name string) time.Duration {
	ms := s.cfg.BotRoundEndMs
	if name == slowBot {
		ms *= 2
	}
	return time.Duration(ms) * time.Millisecond
}

func (s *Service) botAt(e *engine.Engine, id game.PlayerID) *bot.Bot {
	p := e.Players[id]
	if p == nil || !p.IsBot {
		return nil
	}
	return bot.New(id, p.Name)
}

// nextBotAction inspects the table (lock held) and returns the bot move to
// schedule, if any. The returned closure revalidates against live state.
func (s *Service) nextBotAction(t *table) (func(*engine.Engine) []engine.Effect, time.Duration, bool) {
	e := t.eng

	// Draw votes come first so a vote in progress is never starved by the
	// trick turn.
	if e.DrawRequest.IsActive {
		for _, id := range e.Seats {
			b := s.botAt(e, id)
			if b == nil || e.DrawRequest.Votes[b.Name] != "" {
				continue
			}
			botID := id
			return func(e *engine.Engine) []engine.Effect {
				if !e.DrawRequest.IsActive {
					return nil
				}
				return e.SubmitDrawVote(botID, "wash")
			}, s.actionDelay(b.Name), true
		}
	}

	switch e.Phase {
	case engine.PhaseDealingPending:
		b := s.botAt(e, e.Dealer)
		if b == nil {
			return nil, 0, false
		}
		botID := b.ID
		return func(e *engine.Engine) []engine.Effect {
			return e.DealCards(botID)
		}, s.actionDelay(b.Name), true

	case engine.PhaseBidding:
		b := s.botAt(e, e.BiddingTurn)
		if b == nil {
			return nil, 0, false
		}
		botID := b.ID
		return func(e *engine.Engine) []engine.Effect {
			if e.Phase != engine.PhaseBidding || e.BiddingTurn != botID {
				return nil
			}
			b := s.botAt(e, botID)
			if b == nil {
				return nil
			}
			return e.PlaceBid(botID, b.MakeBid(e))
		}, s.actionDelay(b.Name), true

	case engine.PhaseAwaitingFrogUpgrade:
		b := s.botAt(e, e.BiddingTurn)
		if b == nil {
			return nil, 0, false
		}
		botID := b.ID
		return func(e *engine.Engine) []engine.Effect {
			if e.Phase != engine.PhaseAwaitingFrogUpgrade || e.BiddingTurn != botID {
				return nil
			}
			b := s.botAt(e, botID)
			if b == nil {
				return nil
			}
			return e.PlaceBid(botID, b.DecideFrogUpgrade(e))
		}, s.actionDelay(b.Name), true

	case engine.PhaseTrumpSelection:
		if e.BidWinner == nil {
			return nil, 0, false
		}
		b := s.botAt(e, e.BidWinner.Player)
		if b == nil {
			return nil, 0, false
		}
		botID := b.ID
		return func(e *engine.Engine) []engine.Effect {
			if e.Phase != engine.PhaseTrumpSelection {
				return nil
			}
			b := s.botAt(e, botID)
			if b == nil {
				return nil
			}
			return e.ChooseTrump(botID, b.ChooseTrump(e))
		}, s.actionDelay(b.Name), true

	case engine.PhaseFrogWidowExchange:
		if e.BidWinner == nil {
			return nil, 0, false
		}
		b := s.botAt(e, e.BidWinner.Player)
		if b == nil {
			return nil, 0, false
		}
		botID := b.ID
		return func(e *engine.Engine) []engine.Effect {
			if e.Phase != engine.PhaseFrogWidowExchange {
				return nil
			}
			b := s.botAt(e, botID)
			if b == nil {
				return nil
			}
			return e.SubmitFrogDiscards(botID, b.FrogDiscards(e))
		}, s.actionDelay(b.Name), true

	case engine.PhasePlaying:
		if e.Insurance.IsActive && !e.Insurance.DealExecuted {
			for _, id := range e.RoundOrder {
				b := s.botAt(e, id)
				if b == nil || t.insuranceDone[id] {
					continue
				}
				botID := id
				return func(e *engine.Engine) []engine.Effect {
					t.insuranceDone[botID] = true
					b := s.botAt(e, botID)
					if b == nil {
						return nil
					}
					setting, value, ok := b.InitialInsurance(e)
					if !ok {
						return nil
					}
					return e.UpdateInsuranceSetting(botID, setting, value)
				}, s.actionDelay(b.Name), true
			}
		}
		b := s.botAt(e, e.TrickTurn)
		if b == nil {
			return nil, 0, false
		}
		botID := b.ID
		return func(e *engine.Engine) []engine.Effect {
			if e.Phase != engine.PhasePlaying || e.TrickTurn != botID {
				return nil
			}
			b := s.botAt(e, botID)
			if b == nil {
				return nil
			}
			card, ok := b.PlayCard(e)
			if !ok {
				return nil
			}
			return e.PlayCard(botID, card)
		}, s.playDelay(b.Name), true

	case engine.PhaseAwaitingNextRound:
		if e.RoundSummary == nil {
			return nil, 0, false
		}
		b := s.botAt(e, e.RoundSummary.DealerOfRound)
		if b == nil {
			return nil, 0, false
		}
		botID := b.ID
		return func(e *engine.Engine) []engine.Effect {
			if e.Phase != engine.PhaseAwaitingNextRound {
				return nil
			}
			return e.RequestNextRound(botID)
		}, s.roundEndDelay(b.Name), true
	}

	return nil, 0, false
}
