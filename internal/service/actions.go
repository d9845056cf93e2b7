package service

import (
	"context"
	"errors"

	"sluff/internal/engine"
	"sluff/internal/game"
	"sluff/internal/ledger"
)

// JoinTable seats (or reattaches) a user at a table and remembers which table
// the connection belongs to.
func (s *Service) JoinTable(connID, tableID string, userID int64, username string) {
	t := s.table(tableID)
	if t == nil {
		s.bc.ToConn(connID, "error", map[string]string{"message": "Unknown table."})
		return
	}
	s.connMu.Lock()
	s.conns[connID] = seatRef{tableID: tableID, userID: userID}
	s.connMu.Unlock()
	s.perform(t, func(e *engine.Engine) []engine.Effect {
		return e.JoinTable(game.PlayerID(userID), username, connID)
	})
}

// LeaveTable detaches the connection from its table.
func (s *Service) LeaveTable(connID string) {
	ref, ok := s.dropConn(connID)
	if !ok {
		return
	}
	if t := s.table(ref.tableID); t != nil {
		s.perform(t, func(e *engine.Engine) []engine.Effect {
			return e.LeaveTable(game.PlayerID(ref.userID))
		})
	}
}

// Disconnect handles a dropped socket: mid-game players are marked
// disconnected so they can rejoin, everyone else is removed.
func (s *Service) Disconnect(connID string) {
	ref, ok := s.dropConn(connID)
	if !ok {
		return
	}
	if t := s.table(ref.tableID); t != nil {
		s.perform(t, func(e *engine.Engine) []engine.Effect {
			return e.DisconnectPlayer(game.PlayerID(ref.userID))
		})
	}
}

func (s *Service) dropConn(connID string) (seatRef, bool) {
	s.connMu.Lock()
	defer s.connMu.Unlock()
	ref, ok := s.conns[connID]
	if ok {
		delete(s.conns, connID)
	}
	return ref, ok
}

func (s *Service) onTable(tableID string, userID int64, fn func(*engine.Engine, game.PlayerID) []engine.Effect) {
	t := s.table(tableID)
	if t == nil {
		return
	}
	s.perform(t, func(e *engine.Engine) []engine.Effect {
		return fn(e, game.PlayerID(userID))
	})
}

func (s *Service) AddBot(tableID string, userID int64) {
	s.onTable(tableID, userID, func(e *engine.Engine, _ game.PlayerID) []engine.Effect {
		return e.AddBot()
	})
}

func (s *Service) RemoveBot(tableID string, userID int64) {
	s.onTable(tableID, userID, func(e *engine.Engine, _ game.PlayerID) []engine.Effect {
		return e.RemoveBot()
	})
}

func (s *Service) StartGame(tableID string, userID int64) {
	s.onTable(tableID, userID, (*engine.Engine).StartGame)
}

func (s *Service) DealCards(tableID string, userID int64) {
	s.onTable(tableID, userID, (*engine.Engine).DealCards)
}

func (s *Service) PlaceBid(tableID string, userID int64, bid game.Bid) {
	s.onTable(tableID, userID, func(e *engine.Engine, p game.PlayerID) []engine.Effect {
		return e.PlaceBid(p, bid)
	})
}

func (s *Service) ChooseTrump(tableID string, userID int64, suit game.Suit) {
	s.onTable(tableID, userID, func(e *engine.Engine, p game.PlayerID) []engine.Effect {
		return e.ChooseTrump(p, suit)
	})
}

func (s *Service) SubmitFrogDiscards(tableID string, userID int64, discards []game.Card) {
	s.onTable(tableID, userID, func(e *engine.Engine, p game.PlayerID) []engine.Effect {
		return e.SubmitFrogDiscards(p, discards)
	})
}

func (s *Service) PlayCard(tableID string, userID int64, card game.Card) {
	s.onTable(tableID, userID, func(e *engine.Engine, p game.PlayerID) []engine.Effect {
		return e.PlayCard(p, card)
	})
}

func (s *Service) RequestNextRound(tableID string, userID int64) {
	s.onTable(tableID, userID, (*engine.Engine).RequestNextRound)
}

func (s *Service) ForfeitGame(tableID string, userID int64) {
	s.onTable(tableID, userID, (*engine.Engine).ForfeitGame)
}

// ResetGame recycles a finished table without waiting for the automatic
// reset.
func (s *Service) ResetGame(tableID string, userID int64) {
	s.onTable(tableID, userID, func(e *engine.Engine, _ game.PlayerID) []engine.Effect {
		if e.Phase != engine.PhaseGameOver {
			return nil
		}
		return e.Reset()
	})
}

func (s *Service) UpdateInsuranceSetting(tableID string, userID int64, setting string, value int) {
	s.onTable(tableID, userID, func(e *engine.Engine, p game.PlayerID) []engine.Effect {
		return e.UpdateInsuranceSetting(p, setting, value)
	})
}

func (s *Service) StartTimeoutClock(tableID string, userID int64, targetName string) {
	s.onTable(tableID, userID, func(e *engine.Engine, p game.PlayerID) []engine.Effect {
		return e.StartForfeitClock(p, targetName)
	})
}

func (s *Service) RequestDraw(tableID string, userID int64) {
	s.onTable(tableID, userID, (*engine.Engine).RequestDraw)
}

func (s *Service) SubmitDrawVote(tableID string, userID int64, vote string) {
	s.onTable(tableID, userID, func(e *engine.Engine, p game.PlayerID) []engine.Effect {
		return e.SubmitDrawVote(p, vote)
	})
}

// RequestFreeToken grants the mercy token when the caller is broke enough.
func (s *Service) RequestFreeToken(connID string, userID int64) {
	go func() {
		_, err := s.ledger.MercyToken(context.Background(), userID)
		if err != nil {
			if errors.Is(err, ledger.ErrMercyNotEligible) {
				s.bc.ToConn(connID, "error", map[string]string{"message": err.Error()})
			} else {
				s.log.Error("mercy token grant failed", "userId", userID, "error", err)
				s.bc.ToConn(connID, "error", map[string]string{"message": "Could not grant a free token. Try again."})
			}
			return
		}
		s.bc.ToConn(connID, "notification", map[string]string{"message": "A free token has been added to your account."})
		u, err := s.ledger.Profile(context.Background(), userID)
		if err != nil {
			s.log.Error("user sync failed", "userId", userID, "error", err)
			return
		}
		s.bc.ToConn(connID, "updateUser", u)
	}()
}

// SyncUser pushes a fresh profile to one connection, outside any table.
func (s *Service) SyncUser(connID string, userID int64) {
	go func() {
		u, err := s.ledger.Profile(context.Background(), userID)
		if err != nil {
			s.log.Error("user sync failed", "userId", userID, "error", err)
			return
		}
		s.bc.ToConn(connID, "updateUser", u)
	}()
}

// SubmitFeedback stores a report with the submitting table's state attached.
func (s *Service) SubmitFeedback(ctx context.Context, fb *ledger.Feedback) error {
	return s.ledger.SubmitFeedback(ctx, fb)
}

// TableState returns the client view of one table for HTTP debugging.
func (s *Service) TableState(tableID string, userID int64) (engine.ClientState, bool) {
	t := s.table(tableID)
	if t == nil {
		return engine.ClientState{}, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.eng.StateFor(game.PlayerID(userID)), true
}
