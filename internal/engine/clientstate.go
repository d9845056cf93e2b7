package engine

import "sluff/internal/game"

// ServerVersion is reported in every state payload so clients can prompt a
// refresh after a deploy.
const ServerVersion = "1.0.0"

// ClientState is the full table snapshot sent over the wire.
type ClientState struct {
	TableID   string `json:"tableId"`
	TableName string `json:"tableName"`
	Theme     string `json:"theme"`
	Phase     Phase  `json:"state"`

	Players     map[game.PlayerID]*Player `json:"players"`
	PlayerOrder []game.PlayerID           `json:"playerOrder"`
	ActiveOrder []string                  `json:"playerOrderActive"`
	Scores      map[string]int            `json:"scores"`
	GameStarted bool                      `json:"gameStarted"`
	GameID      int64                     `json:"gameId,omitempty"`
	PlayerMode  int                       `json:"playerMode,omitempty"`
	DealerName  string                    `json:"dealer,omitempty"`

	Hand      []game.Card    `json:"hand,omitempty"`
	HandSizes map[string]int `json:"handSizes,omitempty"`

	BiddingTurnName string          `json:"biddingTurnPlayerName,omitempty"`
	HighestBid      *BidDetails     `json:"currentHighestBidDetails,omitempty"`
	PassedBids      []string        `json:"playersWhoPassed,omitempty"`
	BidWinner       *BidDetails     `json:"bidWinnerInfo,omitempty"`
	RevealedWidow   []game.Card     `json:"revealedWidowForFrog,omitempty"`
	WidowDiscards   int             `json:"widowDiscardCount,omitempty"`
	TrumpSuit       game.Suit       `json:"trumpSuit,omitempty"`
	TrumpBroken     bool            `json:"trumpBroken"`
	TrickTurnName   string          `json:"trickTurnPlayerName,omitempty"`
	LeadSuit        game.Suit       `json:"leadSuitCurrentTrick,omitempty"`
	CurrentTrick    []game.Play     `json:"currentTrickCards"`
	LastTrick       *CompletedTrick `json:"lastCompletedTrick,omitempty"`
	TricksPlayed    int             `json:"tricksPlayedCount"`
	CapturedCounts  map[string]int  `json:"capturedTrickCounts,omitempty"`

	Insurance    Insurance     `json:"insurance"`
	Forfeiture   *Forfeiture   `json:"forfeiture,omitempty"`
	DrawRequest  *DrawRequest  `json:"drawRequest,omitempty"`
	RoundSummary *RoundSummary `json:"roundSummary,omitempty"`

	ServerVersion string `json:"serverVersion"`
}

// StateFor builds the snapshot for one viewer. Only the viewer's own hand is
// included; everyone else's hands travel as counts.
func (e *Engine) StateFor(viewer game.PlayerID) ClientState {
	names := make([]string, 0, len(e.Passed))
	for _, id := range e.Passed {
		if p := e.player(id); p != nil {
			names = append(names, p.Name)
		}
	}

	handSizes := make(map[string]int, len(e.Hands))
	for name, hand := range e.Hands {
		handSizes[name] = len(hand)
	}
	captured := make(map[string]int, len(e.CapturedTricks))
	for name, tricks := range e.CapturedTricks {
		captured[name] = len(tricks)
	}

	cs := ClientState{
		TableID:        e.TableID,
		TableName:      e.TableName,
		Theme:          e.Theme,
		Phase:          e.Phase,
		Players:        e.Players,
		PlayerOrder:    e.Seats,
		ActiveOrder:    e.roundOrderNames(),
		Scores:         e.Scores,
		GameStarted:    e.GameStarted,
		GameID:         e.GameID,
		PlayerMode:     e.PlayerMode,
		HandSizes:      handSizes,
		HighestBid:     e.HighestBid,
		PassedBids:     names,
		BidWinner:      e.BidWinner,
		RevealedWidow:  e.RevealedWidow,
		WidowDiscards:  len(e.FrogDiscards),
		TrumpSuit:      e.TrumpSuit,
		TrumpBroken:    e.TrumpBroken,
		LeadSuit:       e.LeadSuit,
		CurrentTrick:   e.CurrentTrick,
		LastTrick:      e.LastTrick,
		TricksPlayed:   e.TricksPlayed,
		CapturedCounts: captured,
		Insurance:      e.Insurance,
		RoundSummary:   e.RoundSummary,
		ServerVersion:  ServerVersion,
	}
	if d := e.player(e.Dealer); d != nil {
		cs.DealerName = d.Name
	}
	if p := e.player(e.BiddingTurn); p != nil {
		cs.BiddingTurnName = p.Name
	}
	if p := e.player(e.TrickTurn); p != nil {
		cs.TrickTurnName = p.Name
	}
	if v := e.player(viewer); v != nil {
		cs.Hand = e.Hands[v.Name]
	}
	if e.Forfeiture.Target != "" {
		f := e.Forfeiture
		cs.Forfeiture = &f
	}
	if e.DrawRequest.IsActive {
		d := e.DrawRequest
		cs.DrawRequest = &d
	}
	return cs
}
