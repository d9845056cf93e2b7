package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"sluff/internal/game"
	"sluff/internal/shared"
)

var botNames = []string{"Mike Knight", "Grandma Joe", "Grampa Blane", "Kimba", "Courtney Sr.", "Cliff"}

// Player is one participant at the table, seated or spectating.
type Player struct {
	ID           game.PlayerID `json:"userId"`
	Name         string        `json:"playerName"`
	ConnID       string        `json:"-"`
	IsSpectator  bool          `json:"isSpectator"`
	Disconnected bool          `json:"disconnected"`
	IsBot        bool          `json:"isBot,omitempty"`
}

// BidDetails identifies a bid and who made it.
type BidDetails struct {
	Player game.PlayerID `json:"userId"`
	Name   string        `json:"playerName"`
	Bid    game.Bid      `json:"bid"`
}

// CompletedTrick is the last resolved trick, kept for the linger display.
type CompletedTrick struct {
	Cards      []game.Play `json:"cards"`
	WinnerName string      `json:"winnerName"`
}

// ExecutedDeal freezes the insurance agreement at execution time.
type ExecutedDeal struct {
	Agreement game.InsuranceAgreement `json:"agreement"`
}

// Insurance is the 3-player side-bet running alongside trick play.
type Insurance struct {
	IsActive          bool           `json:"isActive"`
	Multiplier        int            `json:"bidMultiplier"`
	BidderName        string         `json:"bidderPlayerName"`
	BidderRequirement int            `json:"bidderRequirement"`
	DefenderOffers    map[string]int `json:"defenderOffers"`
	DealExecuted      bool           `json:"dealExecuted"`
	ExecutedDetails   *ExecutedDeal  `json:"executedDetails"`
}

// Forfeiture tracks a running disconnect-forfeit countdown.
type Forfeiture struct {
	Target   string `json:"targetPlayerName"`
	TimeLeft int    `json:"timeLeft"`
}

// DrawRequest tracks a draw vote in progress. An empty vote string means the
// player has not voted yet.
type DrawRequest struct {
	IsActive  bool              `json:"isActive"`
	Initiator string            `json:"initiator"`
	Votes     map[string]string `json:"votes"`
	TimeLeft  int               `json:"timer"`
}

// RoundSummary is shown between rounds and after game over.
type RoundSummary struct {
	Message            string                   `json:"roundMessage,omitempty"`
	PointChanges       map[string]int           `json:"pointChanges,omitempty"`
	WidowForReveal     []game.Card              `json:"widowForReveal,omitempty"`
	BidderPoints       int                      `json:"finalBidderPoints"`
	DefenderPoints     int                      `json:"finalDefenderPoints"`
	WidowPoints        int                      `json:"widowPointsValue"`
	BidType            game.Bid                 `json:"bidType,omitempty"`
	FinalScores        map[string]int           `json:"finalScores"`
	InsuranceDetails   *ExecutedDeal            `json:"insuranceDetails,omitempty"`
	InsuranceHindsight map[string]int           `json:"insuranceHindsight,omitempty"`
	AllTricks          map[string][][]game.Card `json:"allTricks,omitempty"`
	BidWinner          *BidDetails              `json:"bidWinnerInfo,omitempty"`
	ActiveOrder        []string                 `json:"playerOrderActive,omitempty"`
	DealerOfRound      game.PlayerID            `json:"dealerOfRoundId"`
	IsGameOver         bool                     `json:"isGameOver"`
	GameWinner         string                   `json:"gameWinner,omitempty"`
	PayoutDetails      map[game.PlayerID]string `json:"payoutDetails,omitempty"`
	DrawOutcome        string                   `json:"drawOutcome,omitempty"`
}

// Timers are the engine's scheduling knobs, injected so tests can shrink
// them.
type Timers struct {
	TrickLinger     time.Duration
	AllPassReveal   time.Duration
	CountdownTick   time.Duration
	ForfeitSeconds  int
	DrawVoteSeconds int
}

// DefaultTimers returns production timings.
func DefaultTimers() Timers {
	return Timers{
		TrickLinger:     time.Second,
		AllPassReveal:   3 * time.Second,
		CountdownTick:   time.Second,
		ForfeitSeconds:  120,
		DrawVoteSeconds: 30,
	}
}

// Engine holds all state for one table. It is a pure state machine: every
// mutating operation returns the effects to execute, and the caller is
// responsible for running operations one at a time per table.
type Engine struct {
	TableID   string
	TableName string
	Theme     string

	Phase       Phase
	Players     map[game.PlayerID]*Player
	Seats       []game.PlayerID // seated players in join order
	Scores      map[string]int
	GameStarted bool
	GameID      int64
	PlayerMode  int
	Dealer      game.PlayerID

	// Round state, cleared by initRoundState.
	Hands         map[string][]game.Card
	Widow         []game.Card
	OriginalWidow []game.Card
	RoundOrder    []game.PlayerID // players dealt into this round, in turn order

	BiddingTurn     game.PlayerID
	HighestBid      *BidDetails
	Passed          []game.PlayerID
	BidWinner       *BidDetails
	FrogBidder      game.PlayerID
	SoloAfterFrog   bool
	UpgradeDecided  bool
	RevealedWidow   []game.Card // widow shown to the table during a frog exchange
	FrogDiscards    []game.Card
	TrumpSuit       game.Suit
	TrumpBroken     bool
	TrickTurn       game.PlayerID
	TrickLeader     game.PlayerID
	CurrentTrick    []game.Play
	LeadSuit        game.Suit
	LastTrick       *CompletedTrick
	TricksPlayed    int
	CapturedTricks  map[string][][]game.Card
	PlayedThisRound []game.Card
	BidderPoints    int
	DefenderPoints  int
	RoundSummary    *RoundSummary
	Insurance       Insurance
	Forfeiture      Forfeiture
	DrawRequest     DrawRequest

	// GameOverHandled lets the service schedule the post-game reset once.
	GameOverHandled bool

	// StartPending guards against a second buy-in while the first is still
	// at the ledger.
	StartPending bool

	timers    Timers
	rng       *rand.Rand
	nextBotID game.PlayerID

	// Generation counters invalidate stale countdown ticks.
	forfeitGen int
	drawGen    int
}

// NewEngine creates an empty table.
func NewEngine(tableID, theme, tableName string, timers Timers, rng *rand.Rand) *Engine {
	e := &Engine{
		TableID:   tableID,
		TableName: tableName,
		Theme:     theme,
		Phase:     PhaseWaiting,
		Players:   make(map[game.PlayerID]*Player),
		Scores:    make(map[string]int),
		timers:    timers,
		rng:       rng,
		nextBotID: -1,
	}
	e.initRoundState()
	return e
}

func (e *Engine) player(id game.PlayerID) *Player { return e.Players[id] }

func (e *Engine) playerByName(name string) *Player {
	for _, p := range e.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (e *Engine) seated(id game.PlayerID) bool {
	for _, s := range e.Seats {
		if s == id {
			return true
		}
	}
	return false
}

func (e *Engine) removeSeat(id game.PlayerID) {
	for i, s := range e.Seats {
		if s == id {
			e.Seats = append(e.Seats[:i], e.Seats[i+1:]...)
			return
		}
	}
}

// roundOrderNames returns the display names of this round's players in turn
// order.
func (e *Engine) roundOrderNames() []string {
	names := make([]string, 0, len(e.RoundOrder))
	for _, id := range e.RoundOrder {
		if p := e.player(id); p != nil {
			names = append(names, p.Name)
		}
	}
	return names
}

// setRoundOrder rotates the seats starting left of the dealer. In a
// 4-player game the dealer sits the round out; with 3 players the dealer
// plays and acts last.
func (e *Engine) setRoundOrder() {
	order := make([]game.PlayerID, 0, len(e.Seats))
	dealerIdx := 0
	for i, id := range e.Seats {
		if id == e.Dealer {
			dealerIdx = i
			break
		}
	}
	for i := 1; i <= len(e.Seats); i++ {
		order = append(order, e.Seats[(dealerIdx+i)%len(e.Seats)])
	}
	if e.PlayerMode == 4 {
		order = order[:len(order)-1] // dealer stays out
	}
	e.RoundOrder = order
}

func (e *Engine) initRoundState() {
	e.Hands = make(map[string][]game.Card)
	e.Widow = nil
	e.OriginalWidow = nil
	e.BiddingTurn = 0
	e.HighestBid = nil
	e.Passed = nil
	e.BidWinner = nil
	e.FrogBidder = 0
	e.SoloAfterFrog = false
	e.UpgradeDecided = false
	e.RevealedWidow = nil
	e.FrogDiscards = nil
	e.TrumpSuit = ""
	e.TrumpBroken = false
	e.TrickTurn = 0
	e.TrickLeader = 0
	e.CurrentTrick = nil
	e.LeadSuit = ""
	e.LastTrick = nil
	e.TricksPlayed = 0
	e.PlayedThisRound = nil
	e.RoundSummary = nil
	e.BidderPoints = 0
	e.DefenderPoints = 0
	e.Insurance = Insurance{DefenderOffers: make(map[string]int)}
	e.Forfeiture = Forfeiture{}
	e.forfeitGen++
	e.DrawRequest = DrawRequest{Votes: make(map[string]string)}
	e.drawGen++
	e.CapturedTricks = make(map[string][][]game.Card)
	for _, p := range e.Players {
		if _, ok := e.Scores[p.Name]; ok {
			e.CapturedTricks[p.Name] = [][]game.Card{}
		}
	}
}

// JoinTable seats or re-seats a player; joiners beyond four seats or into a
// running game become spectators. Rejoining only reattaches the connection.
func (e *Engine) JoinTable(id game.PlayerID, name, connID string) []Effect {
	if p := e.player(id); p != nil {
		p.Disconnected = false
		p.ConnID = connID
		if e.Forfeiture.Target == p.Name {
			e.clearForfeiture()
		}
	} else {
		spectator := e.GameStarted || len(e.Seats) >= 4
		e.Players[id] = &Player{ID: id, Name: name, ConnID: connID, IsSpectator: spectator}
		if !spectator && !e.seated(id) {
			e.Seats = append(e.Seats, id)
		}
	}
	if _, ok := e.Scores[name]; !ok {
		e.Scores[name] = game.StartingScore
	}
	if !e.GameStarted {
		if len(e.Seats) >= 3 {
			e.Phase = PhaseReadyToStart
		} else {
			e.Phase = PhaseWaiting
		}
	}
	return []Effect{SyncTokens{Players: []game.PlayerID{id}}, BroadcastState{}, UpdateLobby{}}
}

// AddBot seats a bot with an unused name. No-op on a full table or when all
// bot names are taken.
func (e *Engine) AddBot() []Effect {
	if len(e.Seats) >= 4 {
		return nil
	}
	used := make(map[string]bool)
	for _, p := range e.Players {
		if p.IsBot {
			used[p.Name] = true
		}
	}
	var available []string
	for _, n := range botNames {
		if !used[n] {
			available = append(available, n)
		}
	}
	if len(available) == 0 {
		return nil
	}
	name := available[e.rng.Intn(len(available))]
	id := e.nextBotID
	e.nextBotID--
	e.Players[id] = &Player{ID: id, Name: name, IsBot: true}
	e.Seats = append(e.Seats, id)
	if _, ok := e.Scores[name]; !ok {
		e.Scores[name] = game.StartingScore
	}
	if len(e.Seats) >= 3 && !e.GameStarted {
		e.Phase = PhaseReadyToStart
	}
	return []Effect{BroadcastState{}, UpdateLobby{}}
}

// RemoveBot removes the oldest bot at the table. Only allowed before a game
// starts.
func (e *Engine) RemoveBot() []Effect {
	if e.GameStarted {
		return nil
	}
	var target game.PlayerID
	for id, p := range e.Players {
		if p.IsBot && (target == 0 || id > target) {
			target = id
		}
	}
	if target == 0 {
		return nil
	}
	bot := e.Players[target]
	e.removeSeat(target)
	delete(e.Scores, bot.Name)
	delete(e.Players, target)
	e.PlayerMode = len(e.Seats)
	if e.PlayerMode >= 3 {
		e.Phase = PhaseReadyToStart
	} else {
		e.Phase = PhaseWaiting
	}
	return []Effect{BroadcastState{}, UpdateLobby{}}
}

// LeaveTable removes a player before a game exists; once a game has an id,
// leaving only disconnects so the player can rejoin.
func (e *Engine) LeaveTable(id game.PlayerID) []Effect {
	p := e.player(id)
	if p == nil {
		return nil
	}
	if e.GameID != 0 {
		e.DisconnectPlayer(id)
	} else if p.IsSpectator || e.Phase == PhaseWaiting || e.Phase == PhaseReadyToStart {
		delete(e.Players, id)
		e.removeSeat(id)
		if !e.GameStarted {
			if len(e.Seats) >= 3 {
				e.Phase = PhaseReadyToStart
			} else {
				e.Phase = PhaseWaiting
			}
		}
	}
	return []Effect{BroadcastState{}, UpdateLobby{}}
}

// DisconnectPlayer marks a mid-game player disconnected; pre-game players
// and spectators are removed outright.
func (e *Engine) DisconnectPlayer(id game.PlayerID) []Effect {
	p := e.player(id)
	if p == nil {
		return nil
	}
	if !e.GameStarted || p.IsSpectator {
		delete(e.Players, id)
		e.removeSeat(id)
	} else {
		p.Disconnected = true
	}
	return []Effect{BroadcastState{}, UpdateLobby{}}
}

// ReconnectPlayer reattaches a disconnected player and cancels any forfeit
// countdown aimed at them.
func (e *Engine) ReconnectPlayer(id game.PlayerID, connID string) []Effect {
	p := e.player(id)
	if p == nil || !p.Disconnected {
		return nil
	}
	p.Disconnected = false
	p.ConnID = connID
	if e.Forfeiture.Target == p.Name {
		e.clearForfeiture()
	}
	return []Effect{BroadcastState{}}
}

// StartGame begins a game: it emits the buy-in transaction effect and, on
// ledger success, picks a dealer and moves to dealing. An insolvent player
// is ejected and the table reverts to its pre-game state.
func (e *Engine) StartGame(requester game.PlayerID) []Effect {
	if e.GameStarted || e.StartPending {
		return nil
	}
	p := e.player(requester)
	if p == nil || p.IsSpectator {
		return nil
	}
	if len(e.Seats) < 3 {
		return []Effect{ToPlayer{Player: requester, Event: "gameStartError",
			Data: map[string]string{"message": "Need at least 3 players to start."}}}
	}

	e.StartPending = true
	e.PlayerMode = len(e.Seats)
	active := append([]game.PlayerID(nil), e.Seats...)
	var humans []game.PlayerID
	for _, id := range active {
		if !e.player(id).IsBot {
			humans = append(humans, id)
		}
	}

	return []Effect{
		StartGameTransaction{
			Theme:      e.Theme,
			TableID:    e.TableID,
			PlayerMode: e.PlayerMode,
			Humans:     humans,
			OnSuccess: func(e *Engine, gameID int64) []Effect {
				e.StartPending = false
				e.GameID = gameID
				e.GameStarted = true
				for _, id := range active {
					name := e.player(id).Name
					if _, ok := e.Scores[name]; !ok {
						e.Scores[name] = game.StartingScore
					}
				}
				if e.PlayerMode == 3 {
					if _, ok := e.Scores[game.ScoreAbsorber]; !ok {
						e.Scores[game.ScoreAbsorber] = game.StartingScore
					}
				}
				e.Dealer = active[e.rng.Intn(len(active))]
				e.setRoundOrder()
				e.initRoundState()
				e.Phase = PhaseDealingPending
				return nil
			},
			OnFailure: func(e *Engine, err error) []Effect {
				e.StartPending = false
				var out []Effect
				var insolvent *shared.InsufficientTokensError
				if errors.As(err, &insolvent) {
					if broke := e.playerByName(insolvent.PlayerName); broke != nil {
						delete(e.Players, broke.ID)
						e.removeSeat(broke.ID)
					}
					out = append(out, ToTable{Event: "gameStartFailed", Data: map[string]any{
						"message":      err.Error(),
						"kickedPlayer": insolvent.PlayerName,
					}})
				} else {
					out = append(out, ToTable{Event: "gameStartFailed", Data: map[string]any{
						"message": err.Error(),
					}})
				}
				e.GameStarted = false
				e.GameID = 0
				e.PlayerMode = len(e.Seats)
				if e.PlayerMode >= 3 {
					e.Phase = PhaseReadyToStart
				} else {
					e.Phase = PhaseWaiting
				}
				return out
			},
		},
		SyncTokens{Players: active},
		BroadcastState{},
		UpdateLobby{},
	}
}

// DealCards shuffles and deals. Only the dealer may deal, and only from the
// pending state.
func (e *Engine) DealCards(requester game.PlayerID) []Effect {
	if e.Phase != PhaseDealingPending || requester != e.Dealer {
		return nil
	}
	deck := game.NewDeck()
	game.Shuffle(deck, e.rng)
	hands, widow := game.Deal(deck)
	for i, id := range e.RoundOrder {
		e.Hands[e.player(id).Name] = hands[i]
	}
	e.Widow = widow
	e.OriginalWidow = append([]game.Card(nil), widow...)
	e.Phase = PhaseBidding
	e.BiddingTurn = e.RoundOrder[0]
	return []Effect{BroadcastState{}}
}

// RequestNextRound advances to the next deal; only the dealer of the
// completed round may trigger it.
func (e *Engine) RequestNextRound(requester game.PlayerID) []Effect {
	if e.Phase == PhaseAwaitingNextRound && e.RoundSummary != nil && requester == e.RoundSummary.DealerOfRound {
		return append(e.advanceRound(), BroadcastState{})
	}
	return []Effect{BroadcastState{}}
}

// advanceRound rotates the dealer and resets for a new deal. A missing
// dealer is a broken invariant and resets the whole table.
func (e *Engine) advanceRound() []Effect {
	if !e.GameStarted {
		return nil
	}
	if len(e.Seats) == 0 {
		return e.Reset()
	}
	next := 0
	for i, id := range e.Seats {
		if id == e.Dealer {
			next = (i + 1) % len(e.Seats)
			break
		}
	}
	e.Dealer = e.Seats[next]
	if e.player(e.Dealer) == nil {
		return e.Reset()
	}
	e.setRoundOrder()
	e.initRoundState()
	e.Phase = PhaseDealingPending
	return nil
}

// Reset recycles the table for a new game. Disconnected players are dropped,
// everyone else keeps their seat and starts fresh.
func (e *Engine) Reset() []Effect {
	e.GameStarted = false
	e.GameID = 0
	e.GameOverHandled = false
	e.StartPending = false
	e.Dealer = 0
	e.initRoundState()
	for id, p := range e.Players {
		if p.Disconnected {
			e.removeSeat(id)
			delete(e.Players, id)
		}
	}
	e.Scores = make(map[string]int)
	for id := range e.Players {
		if !e.seated(id) && len(e.Seats) < 4 {
			e.Seats = append(e.Seats, id)
		}
	}
	for _, id := range e.Seats {
		p := e.player(id)
		p.IsSpectator = false
		e.Scores[p.Name] = game.StartingScore
	}
	e.PlayerMode = len(e.Seats)
	if e.PlayerMode >= 3 {
		e.Phase = PhaseReadyToStart
	} else {
		e.Phase = PhaseWaiting
	}
	return []Effect{BroadcastState{}, UpdateLobby{}}
}

func reject(player game.PlayerID, reason string) []Effect {
	return []Effect{ToPlayer{Player: player, Event: "actionRejected",
		Data: map[string]string{"message": reason}}}
}

func rejectf(player game.PlayerID, format string, args ...any) []Effect {
	return reject(player, fmt.Sprintf(format, args...))
}
