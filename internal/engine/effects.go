package engine

import (
	"time"

	"sluff/internal/game"
)

// Effect is a side effect requested by the engine. The engine itself never
// touches the network, timers, or the database: every mutating operation
// returns the effects the caller must execute, in order.
type Effect interface{ isEffect() }

// BroadcastState pushes the table's client state to everyone at the table.
type BroadcastState struct{}

// UpdateLobby pushes a fresh lobby summary to all connected clients.
type UpdateLobby struct{}

// ToPlayer delivers an event to a single player's connection.
type ToPlayer struct {
	Player game.PlayerID
	Event  string
	Data   any
}

// ToTable delivers an event to every connection at the table.
type ToTable struct {
	Event string
	Data  any
}

// SyncTokens asks the listed players' clients to refresh their balances.
type SyncTokens struct {
	Players []game.PlayerID
}

// StartTimer schedules Resume to run against the engine after the delay.
// Resume must recheck state: the world may have moved on by the time it
// fires.
type StartTimer struct {
	After  time.Duration
	Resume func(*Engine) []Effect
}

// StartGameTransaction performs the atomic multi-player buy-in. Exactly one
// of the callbacks runs, under the table lock, once the ledger answers.
type StartGameTransaction struct {
	Theme      string
	TableID    string
	PlayerMode int
	Humans     []game.PlayerID

	OnSuccess func(e *Engine, gameID int64) []Effect
	OnFailure func(e *Engine, err error) []Effect
}

// GameOverSettlement settles a finished game: payouts, stat updates, and the
// game-history outcome line. OnDone receives the winner announcement and
// per-player payout messages.
type GameOverSettlement struct {
	GameID   int64
	Theme    string
	Rankings []Ranking

	OnDone func(e *Engine, winner string, payouts map[game.PlayerID]string) []Effect
}

// Ranking is one seated participant ordered by final score.
type Ranking struct {
	Player game.PlayerID
	Name   string
	IsBot  bool
	Score  int
}

// DrawSettlement settles a voted draw (wash or split) in one ledger
// transaction.
type DrawSettlement struct {
	GameID  int64
	Theme   string
	Outcome string
	Players []DrawParticipant
	Scores  map[string]int

	OnDone func(e *Engine, summary *RoundSummary) []Effect
}

func (BroadcastState) isEffect()       {}
func (UpdateLobby) isEffect()          {}
func (ToPlayer) isEffect()             {}
func (ToTable) isEffect()              {}
func (SyncTokens) isEffect()           {}
func (StartTimer) isEffect()           {}
func (StartGameTransaction) isEffect() {}
func (GameOverSettlement) isEffect()   {}
func (DrawSettlement) isEffect()       {}
func (ForfeitSettlement) isEffect()    {}

// DrawParticipant is a human player eligible for a draw payout.
type DrawParticipant struct {
	Player game.PlayerID
	Name   string
}

// ForfeitSettlement records a forfeit: the forfeiting player's loss, the
// remaining players' payouts, and the game-history outcome line.
type ForfeitSettlement struct {
	GameID         int64
	Theme          string
	TableName      string
	Forfeiter      game.PlayerID
	ForfeiterName  string
	ForfeiterIsBot bool
	Reason         string
	Payouts        map[game.PlayerID]game.ForfeitShare

	OnDone func(e *Engine) []Effect
}
