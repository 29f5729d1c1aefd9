package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"toto_api_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActiveSettings loads the active toto settings row.
func ActiveSettings(db *gorm.DB) (*models.TotoSettings, error) {
	var settings models.TotoSettings
	if err := db.Where("is_active = ?", true).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("active toto settings: %w", ErrNotFound)
		}
		return nil, err
	}
	return &settings, nil
}

// MatchInput describes one match of a new game.
type MatchInput struct {
	HomeTeam  string
	AwayTeam  string
	KickoffAt time.Time
}

// CreateGame creates a new open game with exactly 15 matches.
func CreateGame(db *gorm.DB, name string, deadline time.Time, matches []MatchInput) (*models.TotoGame, error) {
	if len(matches) != models.MatchesPerGame {
		return nil, fmt.Errorf("a game needs exactly %d matches, got %d: %w",
			models.MatchesPerGame, len(matches), ErrValidation)
	}
	if !deadline.After(time.Now()) {
		return nil, fmt.Errorf("deadline must be in the future: %w", ErrValidation)
	}

	game := models.TotoGame{
		Name:     name,
		Deadline: deadline,
		Status:   models.GameStatusOpen,
	}
	for _, m := range matches {
		if m.HomeTeam == "" || m.AwayTeam == "" {
			return nil, fmt.Errorf("match teams must not be empty: %w", ErrValidation)
		}
		game.Matches = append(game.Matches, models.Match{
			HomeTeam:  m.HomeTeam,
			AwayTeam:  m.AwayTeam,
			KickoffAt: m.KickoffAt,
		})
	}

	if err := db.Create(&game).Error; err != nil {
		return nil, err
	}
	return &game, nil
}

// CloseGame transitions a game from open to closed and freezes the pot
// snapshot: total pot, commission, prize pool and the tier pre-allocations.
// Safe to call from the scheduler and the admin surface concurrently; the
// second caller gets a conflict.
func CloseGame(db *gorm.DB, gameID uint) error {
	settings, err := ActiveSettings(db)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var game models.TotoGame
		if err := tx.First(&game, gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("game %d: %w", gameID, ErrNotFound)
			}
			return err
		}
		if game.Status != models.GameStatusOpen {
			return fmt.Errorf("game %d is already %s: %w", gameID, game.Status, ErrConflict)
		}

		var totalPot float64
		err := tx.Model(&models.Prediction{}).
			Where("toto_game_id = ? AND is_refunded = ?", gameID, false).
			Select("COALESCE(SUM(price), 0)").
			Scan(&totalPot).Error
		if err != nil {
			return err
		}

		commission, prizePool, first, second, third := SplitPot(totalPot, settings)

		res := tx.Model(&models.TotoGame{}).
			Where("id = ? AND status = ?", gameID, models.GameStatusOpen).
			Updates(map[string]interface{}{
				"status":            models.GameStatusClosed,
				"total_pot":         totalPot,
				"commission_amount": commission,
				"prize_pool":        prizePool,
				"first_prize":       first,
				"second_prize":      second,
				"third_prize":       third,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("game %d was closed concurrently: %w", gameID, ErrConflict)
		}
		return nil
	})
}

// CloseExpiredGames closes every open game whose deadline has passed. One
// game failing to close does not abort the rest of the sweep.
func CloseExpiredGames(db *gorm.DB) {
	var ids []uint
	err := db.Model(&models.TotoGame{}).
		Where("status = ? AND deadline <= ?", models.GameStatusOpen, time.Now()).
		Pluck("id", &ids).Error
	if err != nil {
		log.Printf("Lifecycle sweep: listing expired games failed: %v", err)
		return
	}

	for _, id := range ids {
		if err := CloseGame(db, id); err != nil {
			log.Printf("Lifecycle sweep: closing game %d failed: %v", id, err)
		}
	}
}

// ResultInput carries an admin-submitted result for one match. Either
// Result is one of 1/X/2 or IsCancelled is set.
type ResultInput struct {
	MatchID     uint
	Result      string
	IsCancelled bool
}

// SubmitResults records results for a subset of a closed game's matches.
// The game stays closed until every match is resolved; settlement is a
// separate trigger.
func SubmitResults(db *gorm.DB, gameID uint, results []ResultInput) error {
	if len(results) == 0 {
		return fmt.Errorf("no results submitted: %w", ErrValidation)
	}
	for _, r := range results {
		if r.IsCancelled {
			continue
		}
		if r.Result != "1" && r.Result != "X" && r.Result != "2" {
			return fmt.Errorf("match %d: result must be 1, X or 2: %w", r.MatchID, ErrValidation)
		}
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var game models.TotoGame
		if err := tx.First(&game, gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("game %d: %w", gameID, ErrNotFound)
			}
			return err
		}
		if game.Status != models.GameStatusClosed {
			return fmt.Errorf("game %d is %s, results are accepted on closed games only: %w",
				gameID, game.Status, ErrConflict)
		}

		for _, r := range results {
			updates := map[string]interface{}{"is_cancelled": r.IsCancelled}
			if r.IsCancelled {
				updates["result"] = nil
			} else {
				updates["result"] = r.Result
			}
			res := tx.Model(&models.Match{}).
				Where("id = ? AND toto_game_id = ?", r.MatchID, gameID).
				Updates(updates)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("match %d does not belong to game %d: %w", r.MatchID, gameID, ErrNotFound)
			}
		}
		return nil
	})
}

// SettleGame scores every prediction of a closed, fully-resolved game,
// partitions winners into the three prize tiers, credits prizes and marks
// the game completed — all in one transaction guarded by the source status,
// so a concurrent or repeated call can never pay twice or score from a
// partial set. Calling it on an already completed game is a no-op success.
func SettleGame(db *gorm.DB, gameID uint) error {
	settings, err := ActiveSettings(db)
	if err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var game models.TotoGame
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Matches").
			First(&game, gameID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("game %d: %w", gameID, ErrNotFound)
			}
			return err
		}

		if game.Status == models.GameStatusCompleted {
			// Idempotent: settlement already happened.
			return nil
		}
		if game.Status != models.GameStatusClosed {
			return fmt.Errorf("game %d is %s, only closed games settle: %w", gameID, game.Status, ErrConflict)
		}
		if !game.AllMatchesResolved() {
			return fmt.Errorf("game %d has unresolved matches: %w", gameID, ErrConflict)
		}

		res := tx.Model(&models.TotoGame{}).
			Where("id = ? AND status = ?", gameID, models.GameStatusClosed).
			Update("status", models.GameStatusCompleted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("game %d was settled concurrently: %w", gameID, ErrConflict)
		}

		outcomes := make(map[uint]MatchOutcome, len(game.Matches))
		for _, m := range game.Matches {
			o := MatchOutcome{IsCancelled: m.IsCancelled}
			if m.Result != nil {
				o.Result = *m.Result
			}
			outcomes[m.ID] = o
		}

		var predictions []models.Prediction
		err = tx.Preload("Picks").
			Where("toto_game_id = ? AND is_refunded = ?", gameID, false).
			Find(&predictions).Error
		if err != nil {
			return err
		}

		scores := make([]int, len(predictions))
		for i := range predictions {
			score := ScorePrediction(predictions[i].Picks, outcomes, settings.PointsPerMatch)
			scores[i] = score

			err := tx.Model(&models.Prediction{}).
				Where("id = ?", predictions[i].ID).
				Updates(map[string]interface{}{"score": score, "is_scored": true}).Error
			if err != nil {
				return err
			}
			err = tx.Model(&models.User{}).
				Where("id = ?", predictions[i].UserID).
				UpdateColumn("score", gorm.Expr("score + ?", score)).Error
			if err != nil {
				return err
			}
		}

		tiers := PartitionTiers(scores)
		amounts := [3]float64{game.FirstPrize, game.SecondPrize, game.ThirdPrize}
		for _, payout := range BuildPayouts(predictions, tiers, amounts) {
			winner := models.TotoWinner{
				TotoGameID: gameID,
				UserID:     payout.UserID,
				Tier:       payout.Tier,
				Amount:     payout.Amount,
			}
			if err := tx.Create(&winner).Error; err != nil {
				return err
			}
			if err := creditBalance(tx, payout.UserID, payout.Amount, models.Transaction{
				Type:        models.TransactionTypePrizePayout,
				Description: fmt.Sprintf("%s tier prize for game %q", payout.Tier, game.Name),
				RelatedID:   &game.ID,
				RelatedType: models.RelatedTotoGame,
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

// CancelGame cancels a non-terminal game and refunds every unrefunded
// prediction's price back to its owner. A second call on an already
// cancelled game reports alreadyRefunded without touching anything.
func CancelGame(db *gorm.DB, gameID uint) (refunded int, alreadyRefunded bool, err error) {
	err = db.Transaction(func(tx *gorm.DB) error {
		var game models.TotoGame
		if err := tx.First(&game, gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("game %d: %w", gameID, ErrNotFound)
			}
			return err
		}
		if game.Status == models.GameStatusCancelled {
			alreadyRefunded = true
			return nil
		}
		if game.Status == models.GameStatusCompleted {
			return fmt.Errorf("game %d is completed and cannot be cancelled: %w", gameID, ErrConflict)
		}

		res := tx.Model(&models.TotoGame{}).
			Where("id = ? AND status IN ?", gameID, []string{models.GameStatusOpen, models.GameStatusClosed}).
			Updates(map[string]interface{}{
				"status":      models.GameStatusCancelled,
				"is_refunded": true,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("game %d changed state concurrently: %w", gameID, ErrConflict)
		}

		var predictions []models.Prediction
		err := tx.Where("toto_game_id = ? AND is_refunded = ?", gameID, false).
			Find(&predictions).Error
		if err != nil {
			return err
		}

		for i := range predictions {
			p := &predictions[i]
			res := tx.Model(&models.Prediction{}).
				Where("id = ? AND is_refunded = ?", p.ID, false).
				Update("is_refunded", true)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				continue
			}
			if err := creditBalance(tx, p.UserID, p.Price, models.Transaction{
				Type:        models.TransactionTypeRefund,
				Description: fmt.Sprintf("Refund of stake for cancelled game %q", game.Name),
				RelatedID:   &p.ID,
				RelatedType: models.RelatedPrediction,
			}); err != nil {
				return err
			}
			refunded++
		}
		return nil
	})
	return refunded, alreadyRefunded, err
}

// PickInput is one validated outcome set for one match, outcomes already in
// canonical "1X2" subset form.
type PickInput struct {
	MatchID  uint
	Outcomes string
}

// SubmitPrediction creates a full-coverage stake. The open-status and
// deadline guards are re-checked at write time under a row lock, so a stake
// racing the deadline or a cancellation is rejected even if it passed an
// earlier check. One prediction per user per game.
func SubmitPrediction(db *gorm.DB, userID, gameID uint, picks []PickInput) (*models.Prediction, error) {
	settings, err := ActiveSettings(db)
	if err != nil {
		return nil, err
	}

	var prediction models.Prediction
	err = db.Transaction(func(tx *gorm.DB) error {
		var game models.TotoGame
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Preload("Matches").
			First(&game, gameID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("game %d: %w", gameID, ErrNotFound)
			}
			return err
		}
		if game.Status != models.GameStatusOpen || !time.Now().Before(game.Deadline) {
			return fmt.Errorf("game %d no longer accepts stakes (status %s): %w",
				gameID, game.Status, ErrConflict)
		}

		if len(picks) != models.MatchesPerGame {
			return fmt.Errorf("a prediction must cover all %d matches, got %d: %w",
				models.MatchesPerGame, len(picks), ErrValidation)
		}
		gameMatches := make(map[uint]bool, len(game.Matches))
		for _, m := range game.Matches {
			gameMatches[m.ID] = true
		}
		covered := make(map[uint]bool, len(picks))
		outcomeSets := make([]string, 0, len(picks))
		for _, pick := range picks {
			if !gameMatches[pick.MatchID] {
				return fmt.Errorf("match %d does not belong to game %d: %w", pick.MatchID, gameID, ErrValidation)
			}
			if covered[pick.MatchID] {
				return fmt.Errorf("match %d picked twice: %w", pick.MatchID, ErrValidation)
			}
			covered[pick.MatchID] = true
			outcomeSets = append(outcomeSets, pick.Outcomes)
		}

		var existing int64
		err = tx.Model(&models.Prediction{}).
			Where("user_id = ? AND toto_game_id = ?", userID, gameID).
			Count(&existing).Error
		if err != nil {
			return err
		}
		if existing > 0 {
			return fmt.Errorf("prediction already submitted for game %d: %w", gameID, ErrConflict)
		}

		price := models.PredictionPrice(outcomeSets, settings.BaseUnitCost)

		res := tx.Model(&models.User{}).
			Where("id = ? AND balance >= ?", userID, price).
			UpdateColumn("balance", gorm.Expr("balance - ?", price))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("stake of %.2f exceeds balance: %w", price, ErrInsufficientFunds)
		}

		prediction = models.Prediction{
			UserID:     userID,
			TotoGameID: gameID,
			Price:      price,
		}
		for _, pick := range picks {
			prediction.Picks = append(prediction.Picks, models.PredictionPick{
				MatchID:  pick.MatchID,
				Outcomes: pick.Outcomes,
			})
		}
		if err := tx.Create(&prediction).Error; err != nil {
			return err
		}

		stake := models.Transaction{
			UserID:      userID,
			Amount:      -price,
			Type:        models.TransactionTypeStake,
			Status:      models.TransactionStatusCompleted,
			Description: fmt.Sprintf("Stake on game %q", game.Name),
			Reference:   models.NewTransactionReference(),
			RelatedID:   &prediction.ID,
			RelatedType: models.RelatedPrediction,
		}
		if err := tx.Create(&stake).Error; err != nil {
			return err
		}

		return awardReferralCommission(tx, userID, prediction.ID, price, settings)
	})
	if err != nil {
		return nil, err
	}
	return &prediction, nil
}

// awardReferralCommission credits the user's referrer once, on the user's
// first ever stake. The one-way flag is claimed with a conditional update,
// so two concurrent first stakes cannot both pay the commission.
func awardReferralCommission(tx *gorm.DB, userID, predictionID uint, price float64, settings *models.TotoSettings) error {
	res := tx.Model(&models.User{}).
		Where("id = ? AND referral_commission_awarded = ? AND referrer_id IS NOT NULL", userID, false).
		Update("referral_commission_awarded", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// No referrer, or commission was already paid.
		return nil
	}

	var user models.User
	if err := tx.First(&user, userID).Error; err != nil {
		return err
	}

	commission := price * settings.ReferralRate
	return creditBalance(tx, *user.ReferrerID, commission, models.Transaction{
		Type:        models.TransactionTypeReferralCommission,
		Description: fmt.Sprintf("Referral commission for %s's first stake", user.Username),
		RelatedID:   &predictionID,
		RelatedType: models.RelatedPrediction,
	})
}

// ClaimPrize is the idempotent pull-side guard over the auto-credit done at
// settlement: it reports the prize already credited, or repairs a missing
// payout ledger entry for a recorded winner.
func ClaimPrize(db *gorm.DB, userID, gameID uint) (amount float64, alreadyCredited bool, err error) {
	err = db.Transaction(func(tx *gorm.DB) error {
		var game models.TotoGame
		if err := tx.First(&game, gameID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("game %d: %w", gameID, ErrNotFound)
			}
			return err
		}
		if game.Status != models.GameStatusCompleted {
			return fmt.Errorf("game %d is %s, prizes exist on completed games only: %w",
				gameID, game.Status, ErrConflict)
		}

		var winners []models.TotoWinner
		err := tx.Where("toto_game_id = ? AND user_id = ?", gameID, userID).Find(&winners).Error
		if err != nil {
			return err
		}
		if len(winners) == 0 {
			return fmt.Errorf("no prize for user %d in game %d: %w", userID, gameID, ErrNotFound)
		}
		for _, w := range winners {
			amount += w.Amount
		}

		var paid int64
		err = tx.Model(&models.Transaction{}).
			Where("user_id = ? AND type = ? AND related_id = ? AND related_type = ?",
				userID, models.TransactionTypePrizePayout, gameID, models.RelatedTotoGame).
			Count(&paid).Error
		if err != nil {
			return err
		}
		if paid > 0 {
			alreadyCredited = true
			return nil
		}

		return creditBalance(tx, userID, amount, models.Transaction{
			Type:        models.TransactionTypePrizePayout,
			Description: fmt.Sprintf("Prize for game %q", game.Name),
			RelatedID:   &game.ID,
			RelatedType: models.RelatedTotoGame,
		})
	})
	return amount, alreadyCredited, err
}

// creditBalance applies a positive balance delta together with its ledger
// entry as one unit inside the caller's transaction.
func creditBalance(tx *gorm.DB, userID uint, amount float64, entry models.Transaction) error {
	err := tx.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount)).Error
	if err != nil {
		return err
	}

	entry.UserID = userID
	entry.Amount = amount
	if entry.Status == "" {
		entry.Status = models.TransactionStatusCompleted
	}
	if entry.Reference == "" {
		entry.Reference = models.NewTransactionReference()
	}
	return tx.Create(&entry).Error
}
