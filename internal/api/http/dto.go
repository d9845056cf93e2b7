package http

import "encoding/json"

// FeedbackRequest represents the payload for /feedback.
type FeedbackRequest struct {
	UserID    *int64          `json:"userId"`
	Username  string          `json:"username"`
	Feedback  string          `json:"feedback"`
	TableID   string          `json:"tableId"`
	GameState json.RawMessage `json:"gameState"`
}
