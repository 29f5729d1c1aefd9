package services

import (
	"testing"

	"toto_api_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func pick(matchID uint, outcomes string) models.PredictionPick {
	return models.PredictionPick{MatchID: matchID, Outcomes: outcomes}
}

func gormModel(id uint) gorm.Model {
	return gorm.Model{ID: id}
}

func TestScorePrediction(t *testing.T) {
	outcomes := map[uint]MatchOutcome{
		1: {Result: "1"},
		2: {Result: "X"},
		3: {Result: "2"},
		4: {IsCancelled: true},
		5: {}, // unresolved
	}

	t.Run("covered results earn points", func(t *testing.T) {
		picks := []models.PredictionPick{
			pick(1, "1"),
			pick(2, "1X"),
			pick(3, "1X2"),
		}
		assert.Equal(t, 30, ScorePrediction(picks, outcomes, 10))
	})

	t.Run("missed results earn nothing", func(t *testing.T) {
		picks := []models.PredictionPick{
			pick(1, "X2"),
			pick(2, "2"),
		}
		assert.Equal(t, 0, ScorePrediction(picks, outcomes, 10))
	})

	t.Run("cancelled match contributes zero even when covered", func(t *testing.T) {
		picks := []models.PredictionPick{
			pick(1, "1"),
			pick(4, "1X2"),
		}
		assert.Equal(t, 10, ScorePrediction(picks, outcomes, 10))
	})

	t.Run("unresolved match contributes zero", func(t *testing.T) {
		picks := []models.PredictionPick{pick(5, "1X2")}
		assert.Equal(t, 0, ScorePrediction(picks, outcomes, 10))
	})
}

func TestPartitionTiers(t *testing.T) {
	t.Run("ties share a tier and push lower scores down", func(t *testing.T) {
		tiers := PartitionTiers([]int{150, 150, 140, 130, 130, 100})

		assert.Equal(t, []int{0, 1}, tiers[0])
		assert.Equal(t, []int{2}, tiers[1])
		assert.Equal(t, []int{3, 4}, tiers[2])
	})

	t.Run("fewer than three distinct scores leaves tiers empty", func(t *testing.T) {
		tiers := PartitionTiers([]int{50, 50})

		assert.Equal(t, []int{0, 1}, tiers[0])
		assert.Empty(t, tiers[1])
		assert.Empty(t, tiers[2])
	})

	t.Run("zero scores qualify for nothing", func(t *testing.T) {
		tiers := PartitionTiers([]int{0, 0, 0})

		assert.Empty(t, tiers[0])
		assert.Empty(t, tiers[1])
		assert.Empty(t, tiers[2])
	})

	t.Run("no predictions", func(t *testing.T) {
		tiers := PartitionTiers(nil)

		assert.Empty(t, tiers[0])
		assert.Empty(t, tiers[1])
		assert.Empty(t, tiers[2])
	})
}

func TestBuildPayouts(t *testing.T) {
	predictions := []models.Prediction{
		{Model: gormModel(1), UserID: 10},
		{Model: gormModel(2), UserID: 11},
		{Model: gormModel(3), UserID: 12},
		{Model: gormModel(4), UserID: 13},
	}
	amounts := [3]float64{700, 200, 100}

	t.Run("equal split inside a tier", func(t *testing.T) {
		tiers := [3][]int{{0, 1}, {2}, {3}}
		payouts := BuildPayouts(predictions, tiers, amounts)

		require.Len(t, payouts, 4)
		assert.Equal(t, Payout{PredictionID: 1, UserID: 10, Tier: models.TierFirst, Amount: 350}, payouts[0])
		assert.Equal(t, Payout{PredictionID: 2, UserID: 11, Tier: models.TierFirst, Amount: 350}, payouts[1])
		assert.Equal(t, Payout{PredictionID: 3, UserID: 12, Tier: models.TierSecond, Amount: 200}, payouts[2])
		assert.Equal(t, Payout{PredictionID: 4, UserID: 13, Tier: models.TierThird, Amount: 100}, payouts[3])
	})

	t.Run("empty tier pays nothing and is not redistributed", func(t *testing.T) {
		tiers := [3][]int{{0}, {}, {}}
		payouts := BuildPayouts(predictions, tiers, amounts)

		require.Len(t, payouts, 1)
		assert.Equal(t, 700.0, payouts[0].Amount)

		var total float64
		for _, p := range payouts {
			total += p.Amount
		}
		assert.LessOrEqual(t, total, amounts[0]+amounts[1]+amounts[2])
	})

	t.Run("no winners at all", func(t *testing.T) {
		payouts := BuildPayouts(predictions, [3][]int{}, amounts)
		assert.Empty(t, payouts)
	})
}

func TestSplitPot(t *testing.T) {
	settings := &models.TotoSettings{
		CommissionRate:   0.15,
		FirstPrizeShare:  0.70,
		SecondPrizeShare: 0.20,
		ThirdPrizeShare:  0.10,
	}

	commission, prizePool, first, second, third := SplitPot(1000, settings)

	assert.InDelta(t, 150, commission, 1e-9)
	assert.InDelta(t, 850, prizePool, 1e-9)
	assert.InDelta(t, 595, first, 1e-9)
	assert.InDelta(t, 170, second, 1e-9)
	assert.InDelta(t, 85, third, 1e-9)
	assert.InDelta(t, prizePool, first+second+third, 1e-9)
}

func TestSettlementConservation(t *testing.T) {
	// Payouts across all tiers never exceed the prize pool, whatever the
	// tie structure looks like.
	settings := &models.TotoSettings{
		CommissionRate:   0.15,
		FirstPrizeShare:  0.70,
		SecondPrizeShare: 0.20,
		ThirdPrizeShare:  0.10,
	}
	_, prizePool, first, second, third := SplitPot(320, settings)

	scores := []int{150, 150, 140, 130, 130, 100, 0}
	predictions := make([]models.Prediction, len(scores))
	for i := range predictions {
		predictions[i] = models.Prediction{Model: gormModel(uint(i + 1)), UserID: uint(100 + i)}
	}

	payouts := BuildPayouts(predictions, PartitionTiers(scores), [3]float64{first, second, third})

	var total float64
	for _, p := range payouts {
		total += p.Amount
	}
	assert.LessOrEqual(t, total, prizePool+1e-9)
}
