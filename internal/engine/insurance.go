package engine

import "sluff/internal/game"

// UpdateInsuranceSetting adjusts the caller's side of the insurance bet: the
// bidder moves the requirement, each defender moves their own offer. The
// moment the requirement drops to the sum of the offers the deal executes
// and its terms freeze.
func (e *Engine) UpdateInsuranceSetting(player game.PlayerID, setting string, value int) []Effect {
	p := e.player(player)
	if p == nil || !e.Insurance.IsActive || e.Insurance.DealExecuted {
		return nil
	}
	if e.Phase != PhasePlaying && e.Phase != PhaseTrickLinger {
		return nil
	}
	if e.TricksPlayed >= 8 {
		return reject(player, "Insurance settings are locked after the eighth trick.")
	}

	m := e.Insurance.Multiplier
	switch setting {
	case "bidderRequirement":
		if p.Name != e.Insurance.BidderName {
			return reject(player, "Only the bid winner sets the requirement.")
		}
		if value < -120*m || value > 120*m {
			return rejectf(player, "Requirement must be between %d and %d.", -120*m, 120*m)
		}
		e.Insurance.BidderRequirement = value
	case "defenderOffer":
		if _, ok := e.Insurance.DefenderOffers[p.Name]; !ok {
			return reject(player, "Only defenders make offers.")
		}
		if value < -60*m || value > 60*m {
			return rejectf(player, "Offer must be between %d and %d.", -60*m, 60*m)
		}
		e.Insurance.DefenderOffers[p.Name] = value
	default:
		return nil
	}

	offerSum := 0
	for _, offer := range e.Insurance.DefenderOffers {
		offerSum += offer
	}
	if e.Insurance.BidderRequirement <= offerSum {
		offers := make(map[string]int, len(e.Insurance.DefenderOffers))
		for name, offer := range e.Insurance.DefenderOffers {
			offers[name] = offer
		}
		e.Insurance.DealExecuted = true
		e.Insurance.ExecutedDetails = &ExecutedDeal{Agreement: game.InsuranceAgreement{
			BidderName:        e.Insurance.BidderName,
			BidderRequirement: e.Insurance.BidderRequirement,
			DefenderOffers:    offers,
		}}
		return []Effect{
			BroadcastState{},
			ToTable{Event: "notification", Data: map[string]string{
				"message": "Insurance deal executed. Settings are now locked.",
			}},
		}
	}
	return []Effect{BroadcastState{}}
}
