package services

import (
	"toto_api_go/models"
)

// MatchOutcome is the resolved state of one match at settlement time.
type MatchOutcome struct {
	Result      string
	IsCancelled bool
}

// Payout is one prize instruction emitted by the settlement computation.
type Payout struct {
	PredictionID uint
	UserID       uint
	Tier         string
	Amount       float64
}

// ScorePrediction computes a prediction's score against resolved matches.
// A covered result earns pointsPerMatch; a cancelled match contributes zero
// to every prediction, neither rewarded nor penalized.
func ScorePrediction(picks []models.PredictionPick, outcomes map[uint]MatchOutcome, pointsPerMatch int) int {
	score := 0
	for _, pick := range picks {
		outcome, ok := outcomes[pick.MatchID]
		if !ok || outcome.IsCancelled || outcome.Result == "" {
			continue
		}
		if pick.Covers(outcome.Result) {
			score += pointsPerMatch
		}
	}
	return score
}

// PartitionTiers ranks distinct positive scores descending and returns, per
// tier, the indexes of the predictions holding that tier's score. A tier
// with no qualifying positive score is empty.
func PartitionTiers(scores []int) [3][]int {
	var tiers [3][]int

	distinct := distinctPositiveDesc(scores)
	for tier := 0; tier < 3 && tier < len(distinct); tier++ {
		for i, s := range scores {
			if s == distinct[tier] {
				tiers[tier] = append(tiers[tier], i)
			}
		}
	}
	return tiers
}

func distinctPositiveDesc(scores []int) []int {
	seen := map[int]bool{}
	var out []int
	for _, s := range scores {
		if s > 0 && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	// Insertion sort, the list is tiny (at most three values matter).
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] > out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// BuildPayouts splits each tier's pre-allocated amount equally among the
// tier's qualifying predictions. An empty tier pays nothing; its amount
// stays undistributed.
func BuildPayouts(predictions []models.Prediction, tiers [3][]int, amounts [3]float64) []Payout {
	tierNames := [3]string{models.TierFirst, models.TierSecond, models.TierThird}

	var payouts []Payout
	for t, members := range tiers {
		if len(members) == 0 || amounts[t] <= 0 {
			continue
		}
		share := amounts[t] / float64(len(members))
		for _, i := range members {
			payouts = append(payouts, Payout{
				PredictionID: predictions[i].ID,
				UserID:       predictions[i].UserID,
				Tier:         tierNames[t],
				Amount:       share,
			})
		}
	}
	return payouts
}

// SplitPot computes the commission and tier pre-allocations frozen when a
// game closes. Per-winner amounts are divided among tier occupants at
// settlement, not here.
func SplitPot(totalPot float64, settings *models.TotoSettings) (commission, prizePool, first, second, third float64) {
	commission = totalPot * settings.CommissionRate
	prizePool = totalPot - commission
	first = prizePool * settings.FirstPrizeShare
	second = prizePool * settings.SecondPrizeShare
	third = prizePool * settings.ThirdPrizeShare
	return
}
