package engine

// Phase is the table's position in the game state machine. The string values
// are part of the client protocol.
type Phase string

const (
	PhaseWaiting             Phase = "Waiting for Players"
	PhaseReadyToStart        Phase = "Ready to Start"
	PhaseDealingPending      Phase = "Dealing Pending"
	PhaseBidding             Phase = "Bidding Phase"
	PhaseAwaitingFrogUpgrade Phase = "Awaiting Frog Upgrade Decision"
	PhaseAllPassWidowReveal  Phase = "AllPassWidowReveal"
	PhaseFrogWidowExchange   Phase = "Frog Widow Exchange"
	PhaseTrumpSelection      Phase = "Trump Selection"
	PhasePlaying             Phase = "Playing Phase"
	PhaseTrickLinger         Phase = "TrickCompleteLinger"
	PhaseAwaitingNextRound   Phase = "Awaiting Next Round Trigger"
	PhaseGameOver            Phase = "Game Over"
)
