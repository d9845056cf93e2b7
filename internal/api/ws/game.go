package ws

import (
	"sluff/internal/game"
	"sluff/internal/service"
)

// Game is the slice of the game service the hub drives.
// *service.Service satisfies it.
type Game interface {
	JoinTable(connID, tableID string, userID int64, username string)
	LeaveTable(connID string)
	Disconnect(connID string)
	AddBot(tableID string, userID int64)
	RemoveBot(tableID string, userID int64)
	StartGame(tableID string, userID int64)
	DealCards(tableID string, userID int64)
	PlaceBid(tableID string, userID int64, bid game.Bid)
	ChooseTrump(tableID string, userID int64, suit game.Suit)
	SubmitFrogDiscards(tableID string, userID int64, discards []game.Card)
	PlayCard(tableID string, userID int64, card game.Card)
	RequestNextRound(tableID string, userID int64)
	ForfeitGame(tableID string, userID int64)
	ResetGame(tableID string, userID int64)
	UpdateInsuranceSetting(tableID string, userID int64, setting string, value int)
	StartTimeoutClock(tableID string, userID int64, targetName string)
	RequestDraw(tableID string, userID int64)
	SubmitDrawVote(tableID string, userID int64, vote string)
	RequestFreeToken(connID string, userID int64)
	SyncUser(connID string, userID int64)
	LobbyState() service.LobbyState
}
