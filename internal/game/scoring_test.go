package game

import "testing"

func threePlayerInput(bid Bid, bidderPoints int) RoundScoreInput {
	return RoundScoreInput{
		BidWinner:        "Alice",
		Bid:              bid,
		ActivePlayers:    []string{"Alice", "Bob", "Carol"},
		PlayerMode:       3,
		BidderCardPoints: bidderPoints,
	}
}

func TestScoreRoundBidderSucceeds(t *testing.T) {
	res := ScoreRound(threePlayerInput(BidSolo, 70))
	if res.PointChanges["Alice"] != 40 {
		t.Errorf("bidder change = %d, want 40", res.PointChanges["Alice"])
	}
	if res.PointChanges["Bob"] != -20 || res.PointChanges["Carol"] != -20 {
		t.Errorf("defender changes = %d/%d, want -20/-20",
			res.PointChanges["Bob"], res.PointChanges["Carol"])
	}
	if res.PointChanges[ScoreAbsorber] != 0 {
		t.Errorf("absorber change = %d, want 0", res.PointChanges[ScoreAbsorber])
	}
}

func TestScoreRoundBidderFails3Player(t *testing.T) {
	res := ScoreRound(threePlayerInput(BidSolo, 50))
	if res.PointChanges["Alice"] != -60 {
		t.Errorf("bidder change = %d, want -60", res.PointChanges["Alice"])
	}
	if res.PointChanges["Bob"] != 20 || res.PointChanges["Carol"] != 20 {
		t.Errorf("defender changes = %d/%d, want 20/20",
			res.PointChanges["Bob"], res.PointChanges["Carol"])
	}
	if res.PointChanges[ScoreAbsorber] != 20 {
		t.Errorf("absorber change = %d, want 20", res.PointChanges[ScoreAbsorber])
	}
}

func TestScoreRoundExactSixty(t *testing.T) {
	res := ScoreRound(threePlayerInput(BidFrog, 60))
	for name, change := range res.PointChanges {
		if change != 0 {
			t.Errorf("%s change = %d, want 0 on an exact 60", name, change)
		}
	}
}

func TestScoreRoundZeroSum(t *testing.T) {
	for _, pts := range []int{0, 31, 60, 74, 120} {
		res := ScoreRound(threePlayerInput(BidHeartSolo, pts))
		sum := 0
		for _, change := range res.PointChanges {
			sum += change
		}
		if sum != 0 {
			t.Errorf("bidder points %d: changes sum to %d, want 0", pts, sum)
		}
	}
}

func TestScoreRoundBidderFails4Player(t *testing.T) {
	res := ScoreRound(RoundScoreInput{
		BidWinner:        "Alice",
		Bid:              BidSolo,
		ActivePlayers:    []string{"Alice", "Bob", "Carol"},
		PlayerMode:       4,
		Dealer:           "Dave",
		BidderCardPoints: 50,
	})
	if res.PointChanges["Dave"] != 20 {
		t.Errorf("sitting-out dealer change = %d, want 20", res.PointChanges["Dave"])
	}
	if res.PointChanges["Alice"] != -60 {
		t.Errorf("bidder change = %d, want -60", res.PointChanges["Alice"])
	}
	if _, ok := res.PointChanges[ScoreAbsorber]; ok {
		t.Error("4-player round must not involve the ScoreAbsorber")
	}
}

func TestScoreRoundWidowDisposition(t *testing.T) {
	widow := []Card{"AC", "KC"}
	discards := []Card{"AD", "KD"}

	for _, tc := range []struct {
		name string
		in   RoundScoreInput
	}{
		{"heart solo widow to bidder", func() RoundScoreInput {
			in := threePlayerInput(BidHeartSolo, 65)
			in.OriginalWidow = widow
			return in
		}()},
		{"solo widow to bidder", func() RoundScoreInput {
			in := threePlayerInput(BidSolo, 65)
			in.OriginalWidow = widow
			return in
		}()},
		{"frog discards to bidder", func() RoundScoreInput {
			in := threePlayerInput(BidFrog, 65)
			in.FrogDiscards = discards
			return in
		}()},
	} {
		t.Run(tc.name, func(t *testing.T) {
			res := ScoreRound(tc.in)
			if res.BidderPoints != 65 {
				t.Fatalf("bidder points = %d, want 65", res.BidderPoints)
			}
			if res.WidowPoints != 15 {
				t.Fatalf("widow points = %d, want 15", res.WidowPoints)
			}
		})
	}
}

func TestScoreRoundFrogRevealsDiscards(t *testing.T) {
	in := threePlayerInput(BidFrog, 65)
	in.OriginalWidow = []Card{"6C", "7C", "8C"}
	in.FrogDiscards = []Card{"AD", "KD", "6S"}
	res := ScoreRound(in)
	if len(res.WidowForReveal) != 3 || res.WidowForReveal[0] != "AD" {
		t.Fatalf("reveal = %v, want the frog discards", res.WidowForReveal)
	}
}

func TestScoreRoundInsuranceOverride(t *testing.T) {
	in := threePlayerInput(BidSolo, 90) // card outcome irrelevant once a deal executed
	in.InsuranceExecuted = true
	in.ExecutedAgreement = InsuranceAgreement{
		BidderName:        "Alice",
		BidderRequirement: 70,
		DefenderOffers:    map[string]int{"Bob": 40, "Carol": 30},
	}
	res := ScoreRound(in)
	if res.PointChanges["Alice"] != 70 {
		t.Errorf("bidder change = %d, want 70", res.PointChanges["Alice"])
	}
	if res.PointChanges["Bob"] != -40 || res.PointChanges["Carol"] != -30 {
		t.Errorf("defender changes = %d/%d, want -40/-30",
			res.PointChanges["Bob"], res.PointChanges["Carol"])
	}
}

func TestInsuranceHindsight(t *testing.T) {
	t.Run("no deal, bidder succeeded", func(t *testing.T) {
		in := threePlayerInput(BidSolo, 70)
		in.BidderRequirement = 80
		res := ScoreRound(in)
		// Cards paid Alice 40; the deal would have paid 80.
		if res.Hindsight["Alice"] != 40-80 {
			t.Errorf("bidder hindsight = %d, want -40", res.Hindsight["Alice"])
		}
		// Each defender lost 20; the deal would have cost them 40 each.
		if res.Hindsight["Bob"] != -20+40 {
			t.Errorf("defender hindsight = %d, want 20", res.Hindsight["Bob"])
		}
	})

	t.Run("deal executed", func(t *testing.T) {
		in := threePlayerInput(BidSolo, 70)
		in.InsuranceExecuted = true
		in.ExecutedAgreement = InsuranceAgreement{
			BidderName:        "Alice",
			BidderRequirement: 50,
			DefenderOffers:    map[string]int{"Bob": 25, "Carol": 25},
		}
		res := ScoreRound(in)
		// Deal paid Alice 50; playing it out would have paid 40.
		if res.Hindsight["Alice"] != 50-40 {
			t.Errorf("bidder hindsight = %d, want 10", res.Hindsight["Alice"])
		}
		if res.Hindsight["Bob"] != -25+20 {
			t.Errorf("defender hindsight = %d, want -5", res.Hindsight["Bob"])
		}
	})

	t.Run("absent outside 3-player games", func(t *testing.T) {
		in := threePlayerInput(BidSolo, 70)
		in.PlayerMode = 4
		in.Dealer = "Dave"
		if res := ScoreRound(in); res.Hindsight != nil {
			t.Fatal("hindsight should be nil in 4-player games")
		}
	})
}
