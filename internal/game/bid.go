package game

// Bid is one of the four declarations a player can make during bidding.
type Bid string

const (
	BidPass      Bid = "Pass"
	BidFrog      Bid = "Frog"
	BidSolo      Bid = "Solo"
	BidHeartSolo Bid = "Heart Solo"
)

// BidHierarchy orders bids from weakest to strongest.
var BidHierarchy = []Bid{BidPass, BidFrog, BidSolo, BidHeartSolo}

var bidRank = map[Bid]int{BidPass: 0, BidFrog: 1, BidSolo: 2, BidHeartSolo: 3}

var bidMultipliers = map[Bid]int{BidFrog: 1, BidSolo: 2, BidHeartSolo: 3}

func (b Bid) Valid() bool { _, ok := bidRank[b]; return ok }

// Multiplier returns the scoring multiplier for a winning bid, 0 for Pass.
func (b Bid) Multiplier() int { return bidMultipliers[b] }

// Beats reports whether b outranks other in the bid hierarchy.
func (b Bid) Beats(other Bid) bool { return bidRank[b] > bidRank[other] }

// Trump returns the trump suit implied by the bid. Solo returns "" because
// the bid winner chooses among the non-heart suits.
func (b Bid) Trump() Suit {
	switch b {
	case BidFrog, BidHeartSolo:
		return Hearts
	default:
		return ""
	}
}
