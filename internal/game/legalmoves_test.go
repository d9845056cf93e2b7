package game

import (
	"reflect"
	"testing"
)

func TestLegalMoves(t *testing.T) {
	cases := []struct {
		name        string
		hand        []Card
		isLeading   bool
		leadSuit    Suit
		trumpSuit   Suit
		trumpBroken bool
		want        []Card
	}{
		{
			name:      "leading with unbroken trump keeps trump in hand",
			hand:      []Card{"AH", "KS", "7D"},
			isLeading: true,
			trumpSuit: Hearts,
			want:      []Card{"KS", "7D"},
		},
		{
			name:        "leading after trump broken allows anything",
			hand:        []Card{"AH", "KS", "7D"},
			isLeading:   true,
			trumpSuit:   Hearts,
			trumpBroken: true,
			want:        []Card{"AH", "KS", "7D"},
		},
		{
			name:      "leading from an all-trump hand allows trump",
			hand:      []Card{"AH", "KH", "7H"},
			isLeading: true,
			trumpSuit: Hearts,
			want:      []Card{"AH", "KH", "7H"},
		},
		{
			name:      "must follow lead suit",
			hand:      []Card{"AS", "9S", "AH", "7D"},
			leadSuit:  Spades,
			trumpSuit: Hearts,
			want:      []Card{"AS", "9S"},
		},
		{
			name:      "void in lead suit must trump in",
			hand:      []Card{"AH", "7H", "7D"},
			leadSuit:  Spades,
			trumpSuit: Hearts,
			want:      []Card{"AH", "7H"},
		},
		{
			name:      "void in lead and trump may sluff anything",
			hand:      []Card{"7D", "QC"},
			leadSuit:  Spades,
			trumpSuit: Hearts,
			want:      []Card{"7D", "QC"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := LegalMoves(tc.hand, tc.isLeading, tc.leadSuit, tc.trumpSuit, tc.trumpBroken)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("LegalMoves = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestLegalMovesNeverEmpty(t *testing.T) {
	hand := []Card{"6S"}
	for _, leading := range []bool{true, false} {
		got := LegalMoves(hand, leading, Hearts, Spades, false)
		if len(got) == 0 {
			t.Fatalf("leading=%v: no legal move for non-empty hand", leading)
		}
	}
}
