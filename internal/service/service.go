// Package service runs the tables. It owns one engine per table, serializes
// every operation through a per-table mutex, and executes the effects the
// engine returns: broadcasts, timers, ledger settlements, and bot turns.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"sluff/internal/config"
	"sluff/internal/engine"
	"sluff/internal/game"
	"sluff/internal/ledger"
	"sluff/internal/shared"
)

// Broadcaster delivers events to connections. Implementations must tolerate
// being called while a table lock is held, so sends may not block on slow
// clients.
type Broadcaster interface {
	ToConn(connID, event string, data any)
	ToAll(event string, data any)
}

// Ledger is the token store the service settles against. *ledger.Ledger
// satisfies it; tests substitute a fake.
type Ledger interface {
	GameStartBuyIn(ctx context.Context, tableID, theme string, playerCount int, players map[int64]string) (int64, map[int64]float64, error)
	GameOverSettlement(ctx context.Context, gameID int64, theme string, rankings []ledger.Ranking) (string, map[int64]string, error)
	DrawSettlement(ctx context.Context, gameID int64, theme, outcome string, players []game.DrawPlayer) (string, map[string]game.DrawPayout, error)
	ForfeitSettlement(ctx context.Context, gameID int64, forfeiterID int64, forfeiterName, reason string, forfeiterIsBot bool, payouts map[int64]game.ForfeitShare) error
	Profile(ctx context.Context, id int64) (*shared.User, error)
	MercyToken(ctx context.Context, userID int64) (float64, error)
	SubmitFeedback(ctx context.Context, fb *ledger.Feedback) error
}

// table pairs an engine with the lock that serializes access to it.
type table struct {
	mu  sync.Mutex
	eng *engine.Engine

	// pendingBot blocks the heartbeat from stacking bot actions while one
	// is already scheduled.
	pendingBot bool

	// insuranceDone tracks which bots have made their opening insurance
	// move this round.
	insuranceDone map[game.PlayerID]bool
}

type seatRef struct {
	tableID string
	userID  int64
}

// Service is the application core between the socket hub and the engines.
type Service struct {
	cfg    config.Config
	log    *slog.Logger
	ledger Ledger
	bc     Broadcaster

	tables     map[string]*table
	tableOrder []string

	connMu sync.Mutex
	conns  map[string]seatRef

	done chan struct{}
	once sync.Once
}

// New builds the full table set from the theme catalog and starts the bot
// heartbeat.
func New(cfg config.Config, log *slog.Logger, lg Ledger, bc Broadcaster) *Service {
	s := &Service{
		cfg:    cfg,
		log:    log,
		ledger: lg,
		bc:     bc,
		tables: make(map[string]*table),
		conns:  make(map[string]seatRef),
		done:   make(chan struct{}),
	}
	timers := engine.Timers{
		TrickLinger:     cfg.TrickLinger(),
		AllPassReveal:   cfg.AllPassReveal(),
		CountdownTick:   time.Second,
		ForfeitSeconds:  cfg.ForfeitSeconds,
		DrawVoteSeconds: cfg.DrawVoteSeconds,
	}
	seed := time.Now().UnixNano()
	for _, theme := range game.Themes {
		for i := 1; i <= theme.Count; i++ {
			id := fmt.Sprintf("%s-%d", theme.ID, i)
			name := fmt.Sprintf("%s %d", theme.Name, i)
			rng := rand.New(rand.NewSource(seed))
			seed++
			s.tables[id] = &table{
				eng:           engine.NewEngine(id, theme.ID, name, timers, rng),
				insuranceDone: make(map[game.PlayerID]bool),
			}
			s.tableOrder = append(s.tableOrder, id)
		}
	}
	go s.botLoop()
	return s
}

// Close stops the bot heartbeat. Pending timers fire into dead tables
// harmlessly.
func (s *Service) Close() {
	s.once.Do(func() { close(s.done) })
}

func (s *Service) table(id string) *table { return s.tables[id] }

// perform runs one engine operation under the table lock and executes the
// effects it returns. All engine access funnels through here.
func (s *Service) perform(t *table, fn func(*engine.Engine) []engine.Effect) {
	t.mu.Lock()
	defer t.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			s.recycleTable(t, r)
		}
	}()
	effects := fn(t.eng)
	s.execute(t, effects)
	s.afterStep(t)
}

// recycleTable handles a panic out of an engine operation. The table state
// can no longer be trusted, so the game is abandoned and the table reset.
// Called with t.mu held.
func (s *Service) recycleTable(t *table, cause any) {
	s.log.Error("table state breach, resetting", "table", t.eng.TableID, "cause", cause)
	t.pendingBot = false
	t.insuranceDone = make(map[game.PlayerID]bool)
	for _, p := range t.eng.Players {
		if p.ConnID != "" {
			s.bc.ToConn(p.ConnID, "notification", map[string]string{
				"message": "The table is being reset.",
			})
		}
	}
	s.execute(t, t.eng.Reset())
}

// execute runs effects in order while holding t.mu. Callback effects
// (timers, settlements) re-enter through perform on their own goroutines.
func (s *Service) execute(t *table, effects []engine.Effect) {
	for _, ef := range effects {
		switch ef := ef.(type) {
		case engine.BroadcastState:
			s.broadcastTable(t.eng)
		case engine.UpdateLobby:
			go s.BroadcastLobby()
		case engine.ToPlayer:
			if p := t.eng.Players[ef.Player]; p != nil && p.ConnID != "" {
				s.bc.ToConn(p.ConnID, ef.Event, ef.Data)
			}
		case engine.ToTable:
			for _, p := range t.eng.Players {
				if p.ConnID != "" && !p.Disconnected {
					s.bc.ToConn(p.ConnID, ef.Event, ef.Data)
				}
			}
		case engine.SyncTokens:
			s.syncTokens(t, ef.Players)
		case engine.StartTimer:
			resume := ef.Resume
			time.AfterFunc(ef.After, func() {
				s.perform(t, resume)
			})
		case engine.StartGameTransaction:
			s.runBuyIn(t, ef)
		case engine.GameOverSettlement:
			s.runGameOver(t, ef)
		case engine.DrawSettlement:
			s.runDraw(t, ef)
		case engine.ForfeitSettlement:
			s.runForfeit(t, ef)
		}
	}
}

// afterStep handles transitions the engine cannot schedule itself: the
// post-game table reset and its bot-only restart.
func (s *Service) afterStep(t *table) {
	e := t.eng
	if e.Phase == engine.PhaseGameOver && e.GameStarted && !e.GameOverHandled {
		e.GameOverHandled = true
		time.AfterFunc(time.Duration(s.cfg.GameOverResetMs)*time.Millisecond, func() {
			s.perform(t, func(e *engine.Engine) []engine.Effect {
				if e.Phase != engine.PhaseGameOver {
					return nil
				}
				effects := e.Reset()
				if s.allBots(e) && len(e.Seats) >= 3 {
					time.AfterFunc(time.Duration(s.cfg.BotOnlyRestartMs)*time.Millisecond, func() {
						s.perform(t, func(e *engine.Engine) []engine.Effect {
							if e.GameStarted || !s.allBots(e) || len(e.Seats) < 3 {
								return nil
							}
							return e.StartGame(e.Seats[0])
						})
					})
				}
				return effects
			})
		})
	}
	if e.Phase == engine.PhaseDealingPending || e.Phase == engine.PhaseBidding {
		if len(t.insuranceDone) > 0 {
			t.insuranceDone = make(map[game.PlayerID]bool)
		}
	}
}

func (s *Service) allBots(e *engine.Engine) bool {
	for _, id := range e.Seats {
		if p := e.Players[id]; p == nil || !p.IsBot {
			return false
		}
	}
	return len(e.Seats) > 0
}

func (s *Service) broadcastTable(e *engine.Engine) {
	for id, p := range e.Players {
		if p.ConnID == "" || p.Disconnected {
			continue
		}
		s.bc.ToConn(p.ConnID, "gameState", e.StateFor(id))
	}
}

// syncTokens pushes fresh user profiles. The lookup runs off the table lock;
// connection ids are captured first.
func (s *Service) syncTokens(t *table, players []game.PlayerID) {
	type target struct {
		userID int64
		connID string
	}
	var targets []target
	for _, id := range players {
		p := t.eng.Players[id]
		if p == nil || p.IsBot || p.ConnID == "" {
			continue
		}
		targets = append(targets, target{userID: int64(id), connID: p.ConnID})
	}
	if len(targets) == 0 {
		return
	}
	go func() {
		for _, tg := range targets {
			u, err := s.ledger.Profile(context.Background(), tg.userID)
			if err != nil {
				s.log.Error("user sync failed", "userId", tg.userID, "error", err)
				continue
			}
			s.bc.ToConn(tg.connID, "updateUser", u)
		}
	}()
}

func (s *Service) runBuyIn(t *table, ef engine.StartGameTransaction) {
	players := make(map[int64]string, len(ef.Humans))
	for _, id := range ef.Humans {
		if p := t.eng.Players[id]; p != nil {
			players[int64(id)] = p.Name
		}
	}
	go func() {
		gameID, _, err := s.ledger.GameStartBuyIn(context.Background(), ef.TableID, ef.Theme, ef.PlayerMode, players)
		s.perform(t, func(e *engine.Engine) []engine.Effect {
			if err != nil {
				s.log.Warn("game start rolled back", "tableId", ef.TableID, "error", err)
				return append(ef.OnFailure(e, err), engine.BroadcastState{}, engine.UpdateLobby{})
			}
			s.log.Info("game started", "tableId", ef.TableID, "gameId", gameID, "players", len(players))
			return append(ef.OnSuccess(e, gameID),
				engine.SyncTokens{Players: ef.Humans}, engine.BroadcastState{}, engine.UpdateLobby{})
		})
	}()
}

func (s *Service) runGameOver(t *table, ef engine.GameOverSettlement) {
	rankings := make([]ledger.Ranking, len(ef.Rankings))
	for i, r := range ef.Rankings {
		rankings[i] = ledger.Ranking{UserID: int64(r.Player), Name: r.Name, IsBot: r.IsBot, Score: r.Score}
	}
	go func() {
		winner, details, err := s.ledger.GameOverSettlement(context.Background(), ef.GameID, ef.Theme, rankings)
		s.perform(t, func(e *engine.Engine) []engine.Effect {
			if err != nil {
				s.log.Error("game over settlement failed", "gameId", ef.GameID, "error", err)
				return nil
			}
			payouts := make(map[game.PlayerID]string, len(details))
			for userID, msg := range details {
				payouts[game.PlayerID(userID)] = msg
			}
			return ef.OnDone(e, winner, payouts)
		})
	}()
}

func (s *Service) runDraw(t *table, ef engine.DrawSettlement) {
	players := make([]game.DrawPlayer, len(ef.Players))
	for i, p := range ef.Players {
		players[i] = game.DrawPlayer{Name: p.Name, UserID: int64(p.Player), Score: ef.Scores[p.Name]}
	}
	go func() {
		outcome, payouts, err := s.ledger.DrawSettlement(context.Background(), ef.GameID, ef.Theme, ef.Outcome, players)
		s.perform(t, func(e *engine.Engine) []engine.Effect {
			if err != nil {
				s.log.Error("draw settlement failed", "gameId", ef.GameID, "error", err)
				return ef.OnDone(e, nil)
			}
			summary := engine.RoundSummary{
				Message:       fmt.Sprintf("Game Over! Draw (%s)", outcome),
				FinalScores:   ef.Scores,
				DealerOfRound: e.Dealer,
				IsGameOver:    true,
				DrawOutcome:   outcome,
				PayoutDetails: make(map[game.PlayerID]string, len(payouts)),
			}
			for _, p := range ef.Players {
				if payout, ok := payouts[p.Name]; ok {
					summary.PayoutDetails[p.Player] = fmt.Sprintf("Returned %.2f tokens.", payout.TotalReturn)
				}
			}
			return ef.OnDone(e, &summary)
		})
	}()
}

func (s *Service) runForfeit(t *table, ef engine.ForfeitSettlement) {
	payouts := make(map[int64]game.ForfeitShare, len(ef.Payouts))
	for id, share := range ef.Payouts {
		payouts[int64(id)] = share
	}
	go func() {
		err := s.ledger.ForfeitSettlement(context.Background(), ef.GameID, int64(ef.Forfeiter),
			ef.ForfeiterName, ef.Reason, ef.ForfeiterIsBot, payouts)
		s.perform(t, func(e *engine.Engine) []engine.Effect {
			if err != nil {
				s.log.Error("forfeit settlement failed", "gameId", ef.GameID, "error", err)
				return nil
			}
			return ef.OnDone(e)
		})
	}()
}
