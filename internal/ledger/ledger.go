// Package ledger owns every token movement. Balances are never stored: a
// user's tokens are the sum of their transaction rows, so settlement code
// only ever appends.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"sluff/internal/game"
	"sluff/internal/shared"
)

// ErrMercyNotEligible is returned, message intact for the client, when a
// player above the threshold asks for a free token.
var ErrMercyNotEligible = errors.New("Sorry, free tokens are only for players with fewer than 5 tokens.")

const mercyThreshold = 5.0

type Ledger struct {
	db  *gorm.DB
	log *slog.Logger
}

// Open connects to Postgres and migrates the schema.
func Open(dsn string, log *slog.Logger) (*Ledger, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.AutoMigrate(&User{}, &GameRecord{}, &Transaction{}, &Feedback{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Ledger{db: db, log: log}, nil
}

// New wraps an existing connection. Used by tests running against sqlite or
// a transaction-scoped DB.
func New(db *gorm.DB, log *slog.Logger) *Ledger {
	return &Ledger{db: db, log: log}
}

func (l *Ledger) UserByID(ctx context.Context, id int64) (*User, error) {
	var u User
	if err := l.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// Profile returns the user row with the computed token balance, in the shape
// clients expect from an updateUser event.
func (l *Ledger) Profile(ctx context.Context, id int64) (*shared.User, error) {
	u, err := l.UserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	balance, err := l.Balance(ctx, id)
	if err != nil {
		return nil, err
	}
	return &shared.User{
		ID:       u.ID,
		Username: u.Username,
		Tokens:   balance,
		Wins:     u.Wins,
		Losses:   u.Losses,
		Washes:   u.Washes,
	}, nil
}

// Balance sums a user's transactions.
func (l *Ledger) Balance(ctx context.Context, userID int64) (float64, error) {
	var balance float64
	err := l.db.WithContext(ctx).Model(&Transaction{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&balance).Error
	return balance, err
}

func (l *Ledger) balances(tx *gorm.DB, userIDs []int64) (map[int64]float64, error) {
	type row struct {
		UserID  int64
		Balance float64
	}
	var rows []row
	err := tx.Model(&Transaction{}).
		Where("user_id IN ?", userIDs).
		Select("user_id, COALESCE(SUM(amount), 0) AS balance").
		Group("user_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[int64]float64, len(userIDs))
	for _, r := range rows {
		out[r.UserID] = r.Balance
	}
	return out, nil
}

func (l *Ledger) post(tx *gorm.DB, userID int64, gameID *int64, typ TransactionType, amount float64, description string) error {
	return tx.Create(&Transaction{
		UserID:          userID,
		GameID:          gameID,
		TransactionType: typ,
		Amount:          amount,
		Description:     description,
	}).Error
}

func (l *Ledger) bumpStat(tx *gorm.DB, userID int64, column string) error {
	return tx.Model(&User{}).Where("id = ?", userID).
		UpdateColumn(column, gorm.Expr(column+" + 1")).Error
}

// GameStartBuyIn opens a game record and debits every human player's buy-in
// in one transaction. If any player cannot cover the cost the whole start is
// rolled back and an InsufficientTokensError names the player.
func (l *Ledger) GameStartBuyIn(ctx context.Context, tableID, theme string, playerCount int, players map[int64]string) (gameID int64, updated map[int64]float64, err error) {
	cost := game.ThemeCost(theme)
	err = l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record := GameRecord{TableID: tableID, Theme: theme, PlayerCount: playerCount}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		gameID = record.GameID

		ids := make([]int64, 0, len(players))
		for id := range players {
			ids = append(ids, id)
		}
		balances, err := l.balances(tx, ids)
		if err != nil {
			return err
		}
		for id, name := range players {
			if balances[id] < cost {
				return &shared.InsufficientTokensError{
					PlayerName: name,
					Needed:     cost,
					Balance:    balances[id],
				}
			}
		}

		description := fmt.Sprintf("Table buy-in for game #%d", gameID)
		updated = make(map[int64]float64, len(players))
		for id := range players {
			if err := l.post(tx, id, &gameID, TxBuyIn, -cost, description); err != nil {
				return err
			}
			updated[id] = balances[id] - cost
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	l.log.Info("game start buy-in committed", "gameId", gameID, "players", len(players), "cost", cost)
	return gameID, updated, nil
}

// UpdateOutcome finalizes a game history row.
func (l *Ledger) UpdateOutcome(ctx context.Context, gameID int64, outcome string) error {
	now := time.Now()
	return l.db.WithContext(ctx).Model(&GameRecord{}).
		Where("game_id = ?", gameID).
		Updates(map[string]any{"outcome": outcome, "end_time": &now}).Error
}

// Ranking is one seated participant at game over, best score first.
type Ranking struct {
	UserID int64
	Name   string
	IsBot  bool
	Score  int
}

// settlementPost is one planned ledger movement at game over.
type settlementPost struct {
	UserID      int64
	Type        TransactionType
	Amount      float64
	Description string
	Stat        string // users counter to bump alongside the post
}

// gameOverPlan decides the payouts for a finished 3-seat game: a strict
// order pays double to the winner and returns the runner-up's buy-in, a tie
// for first splits the loser's buy-in, a tie for last hands the winner the
// whole pot, and a three-way tie washes. Bots rank but never hold tokens.
func gameOverPlan(cost float64, rankings []Ranking) (winner string, posts []settlementPost, details map[int64]string) {
	details = make(map[int64]string)

	var winners []string
	for _, r := range rankings {
		if r.Score == rankings[0].Score {
			winners = append(winners, r.Name)
		}
	}
	winner = joinNames(winners)
	if len(rankings) != 3 {
		return winner, nil, details
	}

	p1, p2, p3 := rankings[0], rankings[1], rankings[2]
	switch {
	case p1.Score > p2.Score && p2.Score > p3.Score:
		if !p1.IsBot {
			posts = append(posts, settlementPost{p1.UserID, TxWinPayout, cost * 2, fmt.Sprintf("Win and Payout from %s", p3.Name), "wins"})
			details[p1.UserID] = fmt.Sprintf("You finished 1st and won %.2f tokens!", cost)
		}
		if !p2.IsBot {
			posts = append(posts, settlementPost{p2.UserID, TxWashPayout, cost, "Wash - Buy-in returned", "washes"})
			details[p2.UserID] = "You finished 2nd. Your buy-in was returned."
		}
		if !p3.IsBot {
			posts = append(posts, settlementPost{UserID: p3.UserID, Stat: "losses"})
			details[p3.UserID] = fmt.Sprintf("You finished last and lost your buy-in of %.2f tokens.", cost)
		}

	case p1.Score == p2.Score && p2.Score > p3.Score:
		for _, tied := range []Ranking{p1, p2} {
			if tied.IsBot {
				continue
			}
			posts = append(posts, settlementPost{tied.UserID, TxWinPayout, cost * 1.5, fmt.Sprintf("Win (tie) - Split payout from %s", p3.Name), "wins"})
			details[tied.UserID] = fmt.Sprintf("You tied for 1st, splitting the winnings for a net gain of %.2f tokens!", cost*0.5)
		}
		if !p3.IsBot {
			posts = append(posts, settlementPost{UserID: p3.UserID, Stat: "losses"})
			details[p3.UserID] = fmt.Sprintf("You finished last and lost your buy-in of %.2f tokens.", cost)
		}

	case p1.Score > p2.Score && p2.Score == p3.Score:
		if !p1.IsBot {
			posts = append(posts, settlementPost{p1.UserID, TxWinPayout, cost * 3, "Win - Collects full pot", "wins"})
			details[p1.UserID] = fmt.Sprintf("You won and collected the full pot of %.2f tokens!", cost*2)
		}
		for _, loser := range []Ranking{p2, p3} {
			if loser.IsBot {
				continue
			}
			posts = append(posts, settlementPost{UserID: loser.UserID, Stat: "losses"})
			details[loser.UserID] = fmt.Sprintf("You tied for last and lost your buy-in of %.2f tokens.", cost)
		}

	default: // three-way tie
		for _, r := range rankings {
			if r.IsBot {
				continue
			}
			posts = append(posts, settlementPost{r.UserID, TxWashPayout, cost, "3-Way Tie - Buy-in returned", "washes"})
			details[r.UserID] = "3-Way Tie! Your buy-in was returned."
		}
	}
	return winner, posts, details
}

// GameOverSettlement applies the game-over payout plan and finalizes the
// game record.
func (l *Ledger) GameOverSettlement(ctx context.Context, gameID int64, theme string, rankings []Ranking) (string, map[int64]string, error) {
	winner, posts, details := gameOverPlan(game.ThemeCost(theme), rankings)
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range posts {
			if p.Type != "" {
				if err := l.post(tx, p.UserID, &gameID, p.Type, p.Amount, p.Description); err != nil {
					return err
				}
			}
			if p.Stat != "" {
				if err := l.bumpStat(tx, p.UserID, p.Stat); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return winner, details, err
	}
	return winner, details, l.UpdateOutcome(ctx, gameID, "Game Over! Winner: "+winner)
}

// DrawSettlement pays a voted draw. A wash returns every buy-in; a split
// divides the pot by score among exactly three humans and falls back to a
// wash for any other count. Returns the outcome actually applied.
func (l *Ledger) DrawSettlement(ctx context.Context, gameID int64, theme, outcome string, players []game.DrawPlayer) (string, map[string]game.DrawPayout, error) {
	cost := game.ThemeCost(theme)

	if outcome == "split" {
		result := game.DrawSplitPayout(theme, players)
		if result.Wash {
			outcome = "wash"
		} else {
			err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
				for _, payout := range result.Payouts {
					if err := l.post(tx, payout.UserID, &gameID, TxWinPayout, payout.TotalReturn, "Draw (Split) - Payout"); err != nil {
						return err
					}
					if err := l.bumpStat(tx, payout.UserID, "washes"); err != nil {
						return err
					}
				}
				return nil
			})
			if err != nil {
				return outcome, nil, err
			}
			return outcome, result.Payouts, l.UpdateOutcome(ctx, gameID, fmt.Sprintf("Game Over! Draw (%s)", outcome))
		}
	}

	payouts := make(map[string]game.DrawPayout, len(players))
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, p := range players {
			if err := l.post(tx, p.UserID, &gameID, TxWashPayout, cost, "Draw (Wash) - Buy-in returned"); err != nil {
				return err
			}
			if err := l.bumpStat(tx, p.UserID, "washes"); err != nil {
				return err
			}
			payouts[p.Name] = game.DrawPayout{UserID: p.UserID, TotalReturn: cost}
		}
		return nil
	})
	if err != nil {
		return "wash", nil, err
	}
	return "wash", payouts, l.UpdateOutcome(ctx, gameID, "Game Over! Draw (wash)")
}

// ForfeitSettlement records the forfeiting player's loss and pays the
// remaining humans their buy-in plus a score-proportional cut of the
// forfeited pot.
func (l *Ledger) ForfeitSettlement(ctx context.Context, gameID int64, forfeiterID int64, forfeiterName, reason string, forfeiterIsBot bool, payouts map[int64]game.ForfeitShare) error {
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if !forfeiterIsBot {
			if err := l.post(tx, forfeiterID, &gameID, TxForfeitLoss, 0, fmt.Sprintf("Forfeited game (%s)", reason)); err != nil {
				return err
			}
			if err := l.bumpStat(tx, forfeiterID, "losses"); err != nil {
				return err
			}
		}
		for userID, share := range payouts {
			if err := l.post(tx, userID, &gameID, TxForfeitPayout, share.TotalGain, fmt.Sprintf("Payout from forfeit by %s", forfeiterName)); err != nil {
				return err
			}
			if err := l.bumpStat(tx, userID, "washes"); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	outcome := fmt.Sprintf("%s has forfeited the game due to %s.", forfeiterName, reason)
	return l.UpdateOutcome(ctx, gameID, outcome)
}

// MercyToken grants one free token to a nearly broke player.
func (l *Ledger) MercyToken(ctx context.Context, userID int64) (float64, error) {
	var balance float64
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		balances, err := l.balances(tx, []int64{userID})
		if err != nil {
			return err
		}
		balance = balances[userID]
		if balance >= mercyThreshold {
			return ErrMercyNotEligible
		}
		if err := l.post(tx, userID, nil, TxFreeTokenMercy, 1, "Mercy token grant"); err != nil {
			return err
		}
		balance++
		return nil
	})
	if err == nil {
		l.flagMercyAbuse(ctx, userID)
	}
	return balance, err
}

// flagMercyAbuse logs users collecting more than three mercy tokens in a
// 24-hour window. Grants are never blocked, only surfaced.
func (l *Ledger) flagMercyAbuse(ctx context.Context, userID int64) {
	var recent int64
	err := l.db.WithContext(ctx).Model(&Transaction{}).
		Where("user_id = ? AND transaction_type = ? AND transaction_time > ?",
			userID, TxFreeTokenMercy, time.Now().Add(-24*time.Hour)).
		Count(&recent).Error
	if err != nil {
		l.log.Warn("mercy abuse check failed", "user", userID, "error", err)
		return
	}
	if recent > 3 {
		l.log.Warn("multiple mercy tokens in 24h", "user", userID, "count", recent)
	}
}

// SubmitFeedback stores a player report with its game-state snapshot.
func (l *Ledger) SubmitFeedback(ctx context.Context, fb *Feedback) error {
	return l.db.WithContext(ctx).Create(fb).Error
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return "N/A"
	case 1:
		return names[0]
	}
	out := names[0]
	for _, n := range names[1:] {
		out += " & " + n
	}
	return out
}
