package game

import "math/rand"

// Suit is the single-letter suit code carried in a card string.
type Suit string

const (
	Hearts   Suit = "H"
	Diamonds Suit = "D"
	Clubs    Suit = "C"
	Spades   Suit = "S"
)

var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

var suitNames = map[Suit]string{
	Hearts:   "Hearts",
	Diamonds: "Diamonds",
	Clubs:    "Clubs",
	Spades:   "Spades",
}

func (s Suit) Name() string { return suitNames[s] }

func (s Suit) Valid() bool { _, ok := suitNames[s]; return ok }

// Card is a rank followed by a suit code, e.g. "10H" or "AS".
type Card string

// RanksAscending orders ranks from weakest to strongest.
var RanksAscending = []string{"6", "7", "8", "9", "J", "Q", "K", "10", "A"}

var rankIndex = func() map[string]int {
	m := make(map[string]int, len(RanksAscending))
	for i, r := range RanksAscending {
		m[r] = i
	}
	return m
}()

var cardPoints = map[string]int{
	"A": 11, "10": 10, "K": 4, "Q": 3, "J": 2,
	"9": 0, "8": 0, "7": 0, "6": 0,
}

func (c Card) Suit() Suit {
	if c == "" {
		return ""
	}
	return Suit(c[len(c)-1:])
}

func (c Card) Rank() string {
	if c == "" {
		return ""
	}
	return string(c[:len(c)-1])
}

// RankIndex returns the rank's position in RanksAscending, -1 for unknown ranks.
func (c Card) RankIndex() int {
	if i, ok := rankIndex[c.Rank()]; ok {
		return i
	}
	return -1
}

func (c Card) Points() int { return cardPoints[c.Rank()] }

func (c Card) Valid() bool {
	_, ok := rankIndex[c.Rank()]
	return ok && c.Suit().Valid()
}

// CardPoints sums the point values of a set of cards. The full deck totals 120.
func CardPoints(cards []Card) int {
	total := 0
	for _, c := range cards {
		total += c.Points()
	}
	return total
}

const (
	DeckSize  = 36
	HandSize  = 11
	WidowSize = 3

	// DeckPoints is the point total of the whole deck.
	DeckPoints = 120
)

// NewDeck returns the 36-card deck in a fixed order.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, s := range Suits {
		for _, r := range RanksAscending {
			deck = append(deck, Card(r+string(s)))
		}
	}
	return deck
}

// Shuffle permutes the deck in place using the supplied source,
// so deals can be made deterministic in tests.
func Shuffle(deck []Card, rng *rand.Rand) {
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
}

// Deal splits a shuffled deck into three 11-card hands and the 3-card widow.
// Cards are dealt round-robin starting at the seat left of the dealer.
func Deal(deck []Card) (hands [3][]Card, widow []Card) {
	for i := 0; i < 3; i++ {
		hands[i] = make([]Card, 0, HandSize)
	}
	for i := 0; i < 3*HandSize; i++ {
		hands[i%3] = append(hands[i%3], deck[i])
	}
	widow = append([]Card(nil), deck[3*HandSize:]...)
	return hands, widow
}
