package game

import (
	"math"
	"testing"
)

func approx(t *testing.T, got, want float64, label string) {
	t.Helper()
	if math.Abs(got-want) > 0.001 {
		t.Errorf("%s = %.4f, want %.4f", label, got, want)
	}
}

func TestForfeitPayout(t *testing.T) {
	scores := map[string]int{"Alice": 120, "Bob": 80, "Carol": 100}
	payout := ForfeitPayout("fort-creek", scores, []string{"Alice", "Carol"})

	approx(t, payout["Alice"].TotalGain, 1.545, "Alice total gain")
	approx(t, payout["Carol"].TotalGain, 1.455, "Carol total gain")
	approx(t, payout["Alice"].BuyInReturned, 1, "Alice buy-in")

	// Buy-ins plus the forfeited pot are fully distributed.
	total := 0.0
	for _, share := range payout {
		total += share.TotalGain
	}
	approx(t, total, 3, "distributed total")
}

func TestForfeitPayoutNoPositiveScores(t *testing.T) {
	scores := map[string]int{"Alice": 0, "Carol": -10}
	payout := ForfeitPayout("fort-creek", scores, []string{"Alice", "Carol"})
	approx(t, payout["Alice"].TotalGain, 1.5, "Alice even share")
	approx(t, payout["Carol"].TotalGain, 1.5, "Carol even share")
}

func TestForfeitPayoutNobodyLeft(t *testing.T) {
	if got := ForfeitPayout("fort-creek", nil, nil); len(got) != 0 {
		t.Fatalf("expected empty payout, got %v", got)
	}
}

func TestDrawSplitPayout(t *testing.T) {
	res := DrawSplitPayout("fort-creek", []DrawPlayer{
		{Name: "Alice", UserID: 1, Score: 90},
		{Name: "Bob", UserID: 2, Score: 80},
		{Name: "Carol", UserID: 3, Score: 60},
	})
	if res.Wash {
		t.Fatal("3-player draw with distinct scores should split")
	}
	approx(t, res.Payouts["Carol"].TotalReturn, 0.50, "lowest return")
	approx(t, res.Payouts["Alice"].TotalReturn, 1.2647, "highest return")
	approx(t, res.Payouts["Bob"].TotalReturn, 1.2352, "middle return")
}

func TestDrawSplitPayoutNegativeLowest(t *testing.T) {
	res := DrawSplitPayout("fort-creek", []DrawPlayer{
		{Name: "Alice", UserID: 1, Score: 100},
		{Name: "Bob", UserID: 2, Score: 50},
		{Name: "Carol", UserID: 3, Score: -20},
	})
	approx(t, res.Payouts["Carol"].TotalReturn, 0, "negative score recovers nothing")
}

func TestDrawSplitPayoutWash(t *testing.T) {
	players := []DrawPlayer{
		{Name: "Alice", UserID: 1, Score: 90},
		{Name: "Bob", UserID: 2, Score: 80},
		{Name: "Carol", UserID: 3, Score: 60},
		{Name: "Dave", UserID: 4, Score: 40},
	}
	if res := DrawSplitPayout("fort-creek", players); !res.Wash {
		t.Fatal("4-player draw should be a wash")
	}
}

func TestThemeCost(t *testing.T) {
	for id, want := range map[string]float64{
		"miss-pauls-academy": 0.1,
		"fort-creek":         1,
		"shirecliff-road":    5,
		"dans-deck":          20,
		"unknown":            0,
	} {
		if got := ThemeCost(id); got != want {
			t.Errorf("ThemeCost(%s) = %v, want %v", id, got, want)
		}
	}
}
