package game

import "sort"

// Theme is a lobby grouping of tables sharing a buy-in cost.
type Theme struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Cost  float64 `json:"cost"`
}

var Themes = []Theme{
	{ID: "fort-creek", Name: "Fort Creek", Count: 10, Cost: 1},
	{ID: "shirecliff-road", Name: "ShireCliff Road", Count: 10, Cost: 5},
	{ID: "dans-deck", Name: "Dan's Deck", Count: 10, Cost: 20},
	{ID: "miss-pauls-academy", Name: "Miss Paul's Academy", Count: 10, Cost: 0.1},
}

// ThemeCost returns the token buy-in for a theme, 0 for unknown themes.
func ThemeCost(themeID string) float64 {
	for _, t := range Themes {
		if t.ID == themeID {
			return t.Cost
		}
	}
	return 0
}

// ForfeitShare is one remaining player's cut of a forfeited game.
type ForfeitShare struct {
	TotalGain     float64 `json:"totalGain"`
	BuyInReturned float64 `json:"buyInReturned"`
	ForfeitShare  float64 `json:"forfeitShare"`
}

// ForfeitPayout divides the forfeiting player's buy-in among the remaining
// players in proportion to their scores, on top of returning each remaining
// player's own buy-in. With no positive scores the pot splits evenly.
func ForfeitPayout(themeID string, scores map[string]int, remaining []string) map[string]ForfeitShare {
	if len(remaining) == 0 {
		return map[string]ForfeitShare{}
	}

	buyIn := ThemeCost(themeID)
	pot := buyIn
	totalScore := 0
	for _, name := range remaining {
		totalScore += scores[name]
	}

	out := make(map[string]ForfeitShare, len(remaining))
	if totalScore > 0 {
		for _, name := range remaining {
			share := pot * float64(scores[name]) / float64(totalScore)
			out[name] = ForfeitShare{
				TotalGain:     buyIn + share,
				BuyInReturned: buyIn,
				ForfeitShare:  share,
			}
		}
	} else {
		share := pot / float64(len(remaining))
		for _, name := range remaining {
			out[name] = ForfeitShare{
				TotalGain:     buyIn + share,
				BuyInReturned: buyIn,
				ForfeitShare:  share,
			}
		}
	}
	return out
}

// DrawPlayer is a human participant considered for a draw split.
type DrawPlayer struct {
	Name   string
	UserID int64
	Score  int
}

// DrawPayout is one player's return from a split draw.
type DrawPayout struct {
	UserID      int64   `json:"userId"`
	TotalReturn float64 `json:"totalReturn"`
}

// DrawSplitResult is either a wash (everyone's buy-in back) or a split by
// score.
type DrawSplitResult struct {
	Wash    bool
	Payouts map[string]DrawPayout
}

// DrawSplitPayout resolves a drawn game among exactly three human players:
// the lowest scorer recovers max(0,score)/120 of the buy-in and the other
// two split the remainder in proportion to their scores, on top of their own
// buy-ins. Any other player count is a wash.
func DrawSplitPayout(themeID string, players []DrawPlayer) DrawSplitResult {
	if len(players) != 3 {
		return DrawSplitResult{Wash: true}
	}

	buyIn := ThemeCost(themeID)
	ordered := append([]DrawPlayer(nil), players...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Score < ordered[j].Score })

	lowest := ordered[0]
	p1, p2 := ordered[2], ordered[1] // highest first

	lowestScore := lowest.Score
	if lowestScore < 0 {
		lowestScore = 0
	}
	recovery := float64(lowestScore) / float64(StartingScore)
	lowestReturn := buyIn * recovery
	remainingPot := buyIn - lowestReturn

	var p1Share, p2Share float64
	if total := p1.Score + p2.Score; total > 0 {
		p1Share = remainingPot * float64(p1.Score) / float64(total)
		p2Share = remainingPot * float64(p2.Score) / float64(total)
	} else {
		p1Share = remainingPot / 2
		p2Share = remainingPot / 2
	}

	return DrawSplitResult{
		Payouts: map[string]DrawPayout{
			lowest.Name: {UserID: lowest.UserID, TotalReturn: lowestReturn},
			p1.Name:     {UserID: p1.UserID, TotalReturn: buyIn + p1Share},
			p2.Name:     {UserID: p2.UserID, TotalReturn: buyIn + p2Share},
		},
	}
}
