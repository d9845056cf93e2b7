package shared

import "fmt"

// User is the authenticated identity attached to a connection.
type User struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Tokens   float64 `json:"tokens"`
	Wins     int     `json:"wins"`
	Losses   int     `json:"losses"`
	Washes   int     `json:"washes"`
}

// InsufficientTokensError names the player whose balance could not cover a
// buy-in, so the table can eject exactly that player.
type InsufficientTokensError struct {
	PlayerName string
	Needed     float64
	Balance    float64
}

func (e *InsufficientTokensError) Error() string {
	return fmt.Sprintf("%s has insufficient tokens. Needs %.2f, but has %.2f.", e.PlayerName, e.Needed, e.Balance)
}
