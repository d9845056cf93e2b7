package game

import "testing"

func TestTrickWinner(t *testing.T) {
	cases := []struct {
		name      string
		plays     []Play
		leadSuit  Suit
		trumpSuit Suit
		want      string
	}{
		{
			name: "trump beats lead suit",
			plays: []Play{
				{Player: 1, Name: "Alice", Card: "10H"},
				{Player: 2, Name: "Bob", Card: "AS"},
				{Player: 3, Name: "Carol", Card: "KH"},
			},
			leadSuit:  Hearts,
			trumpSuit: Spades,
			want:      "Bob",
		},
		{
			name: "highest of lead suit wins without trump",
			plays: []Play{
				{Player: 1, Name: "Alice", Card: "10H"},
				{Player: 2, Name: "Bob", Card: "AH"},
				{Player: 3, Name: "Carol", Card: "KH"},
			},
			leadSuit:  Hearts,
			trumpSuit: Spades,
			want:      "Bob",
		},
		{
			name: "higher trump beats lower trump",
			plays: []Play{
				{Player: 1, Name: "Alice", Card: "7S"},
				{Player: 2, Name: "Bob", Card: "10S"},
				{Player: 3, Name: "Carol", Card: "AD"},
			},
			leadSuit:  Diamonds,
			trumpSuit: Spades,
			want:      "Bob",
		},
		{
			name: "off-suit sluffs never win",
			plays: []Play{
				{Player: 1, Name: "Alice", Card: "6D"},
				{Player: 2, Name: "Bob", Card: "AC"},
				{Player: 3, Name: "Carol", Card: "9D"},
			},
			leadSuit:  Diamonds,
			trumpSuit: Spades,
			want:      "Carol",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			winner, ok := TrickWinner(tc.plays, tc.leadSuit, tc.trumpSuit)
			if !ok {
				t.Fatal("expected a winner")
			}
			if winner.Name != tc.want {
				t.Fatalf("winner = %s, want %s", winner.Name, tc.want)
			}
		})
	}
}

func TestTrickWinnerEmpty(t *testing.T) {
	if _, ok := TrickWinner(nil, Hearts, Spades); ok {
		t.Fatal("empty trick must not have a winner")
	}
}
