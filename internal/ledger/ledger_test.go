package ledger

import "testing"

func rankings(scores ...int) []Ranking {
	names := []string{"Alice", "Bob", "Carol"}
	out := make([]Ranking, len(scores))
	for i, s := range scores {
		out[i] = Ranking{UserID: int64(i + 1), Name: names[i], Score: s}
	}
	return out
}

func findPost(posts []settlementPost, userID int64) (settlementPost, bool) {
	for _, p := range posts {
		if p.UserID == userID {
			return p, true
		}
	}
	return settlementPost{}, false
}

func TestGameOverPlanStrictOrder(t *testing.T) {
	winner, posts, details := gameOverPlan(5, rankings(80, 40, -2))
	if winner != "Alice" {
		t.Errorf("winner = %q, want Alice", winner)
	}
	first, _ := findPost(posts, 1)
	if first.Type != TxWinPayout || first.Amount != 10 || first.Stat != "wins" {
		t.Errorf("1st place post = %+v, want win_payout of 10", first)
	}
	second, _ := findPost(posts, 2)
	if second.Type != TxWashPayout || second.Amount != 5 || second.Stat != "washes" {
		t.Errorf("2nd place post = %+v, want wash_payout of 5", second)
	}
	third, _ := findPost(posts, 3)
	if third.Type != "" || third.Stat != "losses" {
		t.Errorf("3rd place post = %+v, want loss stat only", third)
	}
	if details[3] == "" {
		t.Errorf("loser should still get a payout message")
	}
}

func TestGameOverPlanTieForFirst(t *testing.T) {
	winner, posts, _ := gameOverPlan(2, rankings(70, 70, 10))
	if winner != "Alice & Bob" {
		t.Errorf("winner = %q, want joined tie names", winner)
	}
	for _, id := range []int64{1, 2} {
		p, ok := findPost(posts, id)
		if !ok || p.Type != TxWinPayout || p.Amount != 3 {
			t.Errorf("tied winner %d post = %+v, want win_payout of 3", id, p)
		}
	}
}

func TestGameOverPlanTieForLast(t *testing.T) {
	_, posts, _ := gameOverPlan(1, rankings(90, 30, 30))
	first, _ := findPost(posts, 1)
	if first.Type != TxWinPayout || first.Amount != 3 {
		t.Errorf("winner post = %+v, want full pot of 3", first)
	}
	for _, id := range []int64{2, 3} {
		p, _ := findPost(posts, id)
		if p.Type != "" || p.Stat != "losses" {
			t.Errorf("tied loser %d post = %+v, want loss stat only", id, p)
		}
	}
}

func TestGameOverPlanThreeWayTie(t *testing.T) {
	winner, posts, _ := gameOverPlan(5, rankings(40, 40, 40))
	if winner != "Alice & Bob & Carol" {
		t.Errorf("winner = %q, want all three joined", winner)
	}
	for _, id := range []int64{1, 2, 3} {
		p, ok := findPost(posts, id)
		if !ok || p.Type != TxWashPayout || p.Amount != 5 || p.Stat != "washes" {
			t.Errorf("player %d post = %+v, want wash_payout of 5", id, p)
		}
	}
}

func TestGameOverPlanSkipsBots(t *testing.T) {
	r := rankings(80, 40, 10)
	r[0].IsBot = true
	winner, posts, details := gameOverPlan(5, r)
	if winner != "Alice" {
		t.Errorf("bots still rank: winner = %q, want Alice", winner)
	}
	if _, ok := findPost(posts, 1); ok {
		t.Errorf("bot should not receive a payout post")
	}
	if _, ok := details[1]; ok {
		t.Errorf("bot should not receive a payout message")
	}
}

func TestGameOverPlanNonThreeSeat(t *testing.T) {
	four := append(rankings(80, 60, 40), Ranking{UserID: 4, Name: "Dave", Score: 20})
	winner, posts, _ := gameOverPlan(5, four)
	if winner != "Alice" {
		t.Errorf("winner = %q, want Alice", winner)
	}
	if len(posts) != 0 {
		t.Errorf("4-seat games settle no token posts, got %d", len(posts))
	}
}

func TestJoinNames(t *testing.T) {
	if got := joinNames(nil); got != "N/A" {
		t.Errorf("joinNames(nil) = %q, want N/A", got)
	}
	if got := joinNames([]string{"Alice"}); got != "Alice" {
		t.Errorf("joinNames single = %q", got)
	}
	if got := joinNames([]string{"Alice", "Cliff"}); got != "Alice & Cliff" {
		t.Errorf("joinNames pair = %q", got)
	}
}
