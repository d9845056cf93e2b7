package ledger

import (
	"time"

	"gorm.io/datatypes"
)

// TransactionType mirrors the transaction_type_enum column values.
type TransactionType string

const (
	TxBuyIn          TransactionType = "buy_in"
	TxWinPayout      TransactionType = "win_payout"
	TxWashPayout     TransactionType = "wash_payout"
	TxForfeitLoss    TransactionType = "forfeit_loss"
	TxForfeitPayout  TransactionType = "forfeit_payout"
	TxAdminAdjust    TransactionType = "admin_adjustment"
	TxFreeTokenMercy TransactionType = "free_token_mercy"
)

// User is an account row. Token balance is not stored here: it is always the
// sum of the user's transaction amounts.
type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Wins      int       `gorm:"default:0" json:"wins"`
	Losses    int       `gorm:"default:0" json:"losses"`
	Washes    int       `gorm:"default:0" json:"washes"`
	CreatedAt time.Time `json:"createdAt"`
}

func (User) TableName() string { return "users" }

// GameRecord is one row of game history.
type GameRecord struct {
	GameID      int64      `gorm:"primaryKey;column:game_id" json:"gameId"`
	TableID     string     `gorm:"size:50" json:"tableId"`
	Theme       string     `gorm:"size:50" json:"theme"`
	PlayerCount int        `json:"playerCount"`
	StartTime   time.Time  `gorm:"autoCreateTime" json:"startTime"`
	EndTime     *time.Time `json:"endTime"`
	Outcome     string     `gorm:"type:text" json:"outcome"`
}

func (GameRecord) TableName() string { return "game_history" }

// Transaction is one ledger movement. Amounts are negative for buy-ins and
// positive for payouts.
type Transaction struct {
	TransactionID   int64           `gorm:"primaryKey;column:transaction_id" json:"transactionId"`
	UserID          int64           `gorm:"index;not null" json:"userId"`
	GameID          *int64          `gorm:"index" json:"gameId"`
	TransactionType TransactionType `gorm:"size:32;not null" json:"transactionType"`
	Amount          float64         `gorm:"type:decimal(10,2);not null" json:"amount"`
	Description     string          `gorm:"type:text" json:"description"`
	TransactionTime time.Time       `gorm:"autoCreateTime" json:"transactionTime"`
}

func (Transaction) TableName() string { return "transactions" }

// Feedback is a player bug report with the table state frozen at submission.
type Feedback struct {
	FeedbackID  int64          `gorm:"primaryKey;column:feedback_id" json:"feedbackId"`
	UserID      *int64         `json:"userId"`
	Username    string         `gorm:"size:50" json:"username"`
	SubmittedAt time.Time      `gorm:"autoCreateTime" json:"submittedAt"`
	Text        string         `gorm:"column:feedback_text;type:text;not null" json:"feedbackText"`
	TableID     string         `gorm:"size:50" json:"tableId"`
	GameState   datatypes.JSON `gorm:"column:game_state_json" json:"gameState"`
	Status      string         `gorm:"size:20;default:new" json:"status"`
}

func (Feedback) TableName() string { return "feedback" }
