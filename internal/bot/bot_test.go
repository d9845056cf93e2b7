package bot

import (
	"math/rand"
	"testing"
	"time"

	"sluff/internal/engine"
	"sluff/internal/game"
)

func testEngine(t *testing.T) *engine.Engine {
	t.Helper()
	e := engine.NewEngine("t1", "fort-creek", "Fort Creek 1", engine.Timers{
		TrickLinger:     time.Millisecond,
		AllPassReveal:   time.Millisecond,
		CountdownTick:   time.Millisecond,
		ForfeitSeconds:  1,
		DrawVoteSeconds: 1,
	}, rand.New(rand.NewSource(1)))
	e.JoinTable(1, "Alice", "c1")
	e.JoinTable(2, "Bob", "c2")
	e.JoinTable(-1, "Kimba", "c3")
	return e
}

func TestMakeBidHeartSoloOnStrongHearts(t *testing.T) {
	e := testEngine(t)
	b := New(-1, "Kimba")
	e.Hands["Kimba"] = []game.Card{"AH", "10H", "KH", "QH", "JH", "AS", "7S", "8S", "6C", "7C", "6D"}
	if bid := b.MakeBid(e); bid != game.BidHeartSolo {
		t.Errorf("bid = %q, want %q", bid, game.BidHeartSolo)
	}
}

func TestMakeBidSoloOnStrongOffSuit(t *testing.T) {
	e := testEngine(t)
	b := New(-1, "Kimba")
	e.Hands["Kimba"] = []game.Card{"AS", "10S", "KS", "QS", "JS", "AH", "7H", "8H", "6C", "7C", "6D"}
	if bid := b.MakeBid(e); bid != game.BidSolo {
		t.Errorf("bid = %q, want %q", bid, game.BidSolo)
	}
}

func TestMakeBidPassesWhenOutbid(t *testing.T) {
	e := testEngine(t)
	b := New(-1, "Kimba")
	e.Hands["Kimba"] = []game.Card{"AH", "10H", "KH", "QH", "JH", "AS", "7S", "8S", "6C", "7C", "6D"}
	e.HighestBid = &engine.BidDetails{Player: 1, Name: "Alice", Bid: game.BidHeartSolo}
	if bid := b.MakeBid(e); bid != game.BidPass {
		t.Errorf("bid = %q, want %q against a Heart Solo", bid, game.BidPass)
	}
}

func TestMakeBidPassesWeakHand(t *testing.T) {
	e := testEngine(t)
	b := New(-1, "Kimba")
	e.Hands["Kimba"] = []game.Card{"6H", "7H", "8H", "6S", "7S", "8S", "6C", "7C", "8C", "6D", "7D"}
	if bid := b.MakeBid(e); bid != game.BidPass {
		t.Errorf("bid = %q, want %q on a pointless hand", bid, game.BidPass)
	}
}

func TestChooseTrumpLongestSuit(t *testing.T) {
	e := testEngine(t)
	b := New(-1, "Kimba")
	e.Hands["Kimba"] = []game.Card{"AD", "10D", "KD", "QD", "JD", "6S", "7S", "AH", "KH", "6C", "7C"}
	if suit := b.ChooseTrump(e); suit != game.Diamonds {
		t.Errorf("trump = %q, want diamonds", suit)
	}
}

func TestFrogDiscardsLowestThree(t *testing.T) {
	e := testEngine(t)
	b := New(-1, "Kimba")
	e.Hands["Kimba"] = []game.Card{"AH", "6S", "7C", "8D", "10H", "KH"}
	discards := b.FrogDiscards(e)
	want := []game.Card{"6S", "7C", "8D"}
	if len(discards) != 3 {
		t.Fatalf("discards = %d cards, want 3", len(discards))
	}
	for i, c := range want {
		if discards[i] != c {
			t.Errorf("discard[%d] = %q, want %q", i, discards[i], c)
		}
	}
}

func TestPlayCardFollowsWithHighestWinner(t *testing.T) {
	e := testEngine(t)
	b := New(-1, "Kimba")
	e.TrumpSuit = game.Spades
	e.LeadSuit = game.Hearts
	e.CurrentTrick = []game.Play{{Player: 1, Name: "Alice", Card: "QH"}}
	e.Hands["Kimba"] = []game.Card{"KH", "AH", "6H", "6C"}
	card, ok := b.PlayCard(e)
	if !ok || card != "AH" {
		t.Errorf("card = %q/%v, want AH", card, ok)
	}
}

func TestPlayCardDumpsLowestWhenBeaten(t *testing.T) {
	e := testEngine(t)
	b := New(-1, "Kimba")
	e.TrumpSuit = game.Spades
	e.LeadSuit = game.Hearts
	e.CurrentTrick = []game.Play{{Player: 1, Name: "Alice", Card: "AH"}}
	e.Hands["Kimba"] = []game.Card{"KH", "QH", "6H"}
	card, ok := b.PlayCard(e)
	if !ok || card != "6H" {
		t.Errorf("card = %q/%v, want 6H", card, ok)
	}
}

func TestPlayCardAvoidsNakedTenLead(t *testing.T) {
	e := testEngine(t)
	b := New(-1, "Kimba")
	e.TrumpSuit = game.Spades
	e.Hands["Kimba"] = []game.Card{"10H", "KH", "6C"}
	card, ok := b.PlayCard(e)
	if !ok || card != "KH" {
		t.Errorf("card = %q/%v, want KH while AH is unseen", card, ok)
	}

	e.PlayedThisRound = []game.Card{"AH"}
	card, ok = b.PlayCard(e)
	if !ok || card != "10H" {
		t.Errorf("card = %q/%v, want 10H once AH is gone", card, ok)
	}
}

func TestInsurancePostures(t *testing.T) {
	e := testEngine(t)
	e.PlayerMode = 3
	e.TrumpSuit = game.Spades
	e.BidWinner = &engine.BidDetails{Player: -1, Name: "Kimba", Bid: game.BidSolo}
	e.Insurance.IsActive = true
	e.Insurance.Multiplier = 2

	b := New(-1, "Kimba")
	e.Hands["Kimba"] = []game.Card{"AS", "10S", "KS", "QS", "JS", "AH", "10H", "KH", "6C", "7C", "6D"}
	setting, value, ok := b.InitialInsurance(e)
	if !ok || setting != "bidderRequirement" || value != 160 {
		t.Errorf("bidder posture = %q/%d/%v, want bidderRequirement/160", setting, value, ok)
	}

	defender := New(1, "Alice")
	e.Hands["Alice"] = []game.Card{"AS", "10S", "6H", "7H", "8H", "6C", "7C", "8C", "6D", "7D", "8D"}
	setting, value, ok = defender.InitialInsurance(e)
	if !ok || setting != "defenderOffer" || value != -40 {
		t.Errorf("strong defender posture = %q/%d/%v, want defenderOffer/-40", setting, value, ok)
	}

	weak := New(2, "Bob")
	e.Hands["Bob"] = []game.Card{"6S", "7S", "6H", "7H", "8H", "6C", "7C", "8C", "6D", "7D", "8D"}
	setting, value, ok = weak.InitialInsurance(e)
	if !ok || setting != "defenderOffer" || value != -80 {
		t.Errorf("weak defender posture = %q/%d/%v, want defenderOffer/-80", setting, value, ok)
	}
}
