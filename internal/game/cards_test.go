package game

import (
	"math/rand"
	"testing"
)

func TestNewDeck(t *testing.T) {
	deck := NewDeck()
	if len(deck) != DeckSize {
		t.Fatalf("deck size = %d, want %d", len(deck), DeckSize)
	}
	if got := CardPoints(deck); got != DeckPoints {
		t.Fatalf("deck points = %d, want %d", got, DeckPoints)
	}
	seen := make(map[Card]bool, len(deck))
	for _, c := range deck {
		if !c.Valid() {
			t.Fatalf("invalid card %q in deck", c)
		}
		if seen[c] {
			t.Fatalf("duplicate card %q", c)
		}
		seen[c] = true
	}
}

func TestCardAccessors(t *testing.T) {
	cases := []struct {
		card   Card
		suit   Suit
		rank   string
		points int
	}{
		{"10H", Hearts, "10", 10},
		{"AS", Spades, "A", 11},
		{"6D", Diamonds, "6", 0},
		{"QC", Clubs, "Q", 3},
	}
	for _, tc := range cases {
		if tc.card.Suit() != tc.suit {
			t.Errorf("%s suit = %q, want %q", tc.card, tc.card.Suit(), tc.suit)
		}
		if tc.card.Rank() != tc.rank {
			t.Errorf("%s rank = %q, want %q", tc.card, tc.card.Rank(), tc.rank)
		}
		if tc.card.Points() != tc.points {
			t.Errorf("%s points = %d, want %d", tc.card, tc.card.Points(), tc.points)
		}
	}
}

func TestRankOrdering(t *testing.T) {
	// 10 outranks K but not A
	if Card("10H").RankIndex() <= Card("KH").RankIndex() {
		t.Error("10 should outrank K")
	}
	if Card("10H").RankIndex() >= Card("AH").RankIndex() {
		t.Error("A should outrank 10")
	}
}

func TestDeal(t *testing.T) {
	deck := NewDeck()
	Shuffle(deck, rand.New(rand.NewSource(1)))
	hands, widow := Deal(deck)

	total := 0
	seen := make(map[Card]bool, DeckSize)
	for _, h := range hands {
		if len(h) != HandSize {
			t.Fatalf("hand size = %d, want %d", len(h), HandSize)
		}
		for _, c := range h {
			seen[c] = true
			total += c.Points()
		}
	}
	if len(widow) != WidowSize {
		t.Fatalf("widow size = %d, want %d", len(widow), WidowSize)
	}
	for _, c := range widow {
		seen[c] = true
		total += c.Points()
	}
	if len(seen) != DeckSize {
		t.Fatalf("deal covered %d distinct cards, want %d", len(seen), DeckSize)
	}
	if total != DeckPoints {
		t.Fatalf("dealt points = %d, want %d", total, DeckPoints)
	}
}

func TestBidHierarchy(t *testing.T) {
	if !BidHeartSolo.Beats(BidSolo) || !BidSolo.Beats(BidFrog) || !BidFrog.Beats(BidPass) {
		t.Fatal("bid hierarchy broken")
	}
	if BidPass.Beats(BidFrog) {
		t.Fatal("Pass must not beat Frog")
	}
	for b, want := range map[Bid]int{BidFrog: 1, BidSolo: 2, BidHeartSolo: 3, BidPass: 0} {
		if b.Multiplier() != want {
			t.Errorf("%s multiplier = %d, want %d", b, b.Multiplier(), want)
		}
	}
	if BidFrog.Trump() != Hearts || BidHeartSolo.Trump() != Hearts {
		t.Error("Frog and Heart Solo fix trump to hearts")
	}
	if BidSolo.Trump() != "" {
		t.Error("Solo trump is chosen by the bidder")
	}
}
