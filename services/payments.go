package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"toto_api_go/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreateDeposit records a pending payment intent and then asks the provider
// for an invoice. The local record exists before the outbound call, so a
// webhook can never arrive for an unknown correlation id; a failed provider
// call marks the record failed and leaves the balance untouched.
func CreateDeposit(ctx context.Context, db *gorm.DB, sk *ShkeeperClient, userID uint, amount float64, currency, network string) (*models.CryptoDeposit, error) {
	settings, err := ActiveSettings(db)
	if err != nil {
		return nil, err
	}
	if amount < settings.MinDepositAmount {
		return nil, fmt.Errorf("minimum deposit is %.2f USD: %w", settings.MinDepositAmount, ErrValidation)
	}
	if currency == "" {
		return nil, fmt.Errorf("currency is required: %w", ErrValidation)
	}

	deposit := models.CryptoDeposit{
		UserID:         userID,
		Currency:       currency,
		Network:        network,
		ExpectedAmount: amount,
		ExternalID:     uuid.NewString(),
		Status:         models.DepositStatusPending,
	}
	if err := db.Create(&deposit).Error; err != nil {
		return nil, err
	}

	invoice, err := sk.CreateInvoice(ctx, currency, network, amount, deposit.ExternalID)
	if err != nil {
		db.Model(&models.CryptoDeposit{}).
			Where("id = ?", deposit.ID).
			Update("status", models.DepositStatusFailed)
		return nil, err
	}

	err = db.Model(&models.CryptoDeposit{}).
		Where("id = ?", deposit.ID).
		Updates(map[string]interface{}{
			"deposit_address":     invoice.DepositAddress,
			"shkeeper_deposit_id": invoice.InvoiceID,
		}).Error
	if err != nil {
		return nil, err
	}

	deposit.DepositAddress = invoice.DepositAddress
	deposit.ShkeeperDepositID = invoice.InvoiceID
	return &deposit, nil
}

// WebhookTxn is one on-chain transaction reported in a webhook; the
// triggering one is flagged.
type WebhookTxn struct {
	TxHash  string  `json:"txid"`
	Amount  float64 `json:"amount"`
	Trigger bool    `json:"trigger"`
}

// WebhookPayload is the provider's asynchronous payment notification.
type WebhookPayload struct {
	ExternalID   string       `json:"external_id"`
	Status       string       `json:"status"`
	Amount       float64      `json:"balance_fiat"`
	CryptoAmount float64      `json:"balance_crypto"`
	Currency     string       `json:"crypto"`
	Transactions []WebhookTxn `json:"transactions"`
}

// DepositAction is the decision taken for one webhook delivery.
type DepositAction int

const (
	// ActionIgnore acknowledges without reprocessing (latch already set,
	// or a final status arriving for a non-creditable local state).
	ActionIgnore DepositAction = iota
	// ActionCredit confirms the deposit and credits the balance.
	ActionCredit
	// ActionFail closes the intent without a balance change.
	ActionFail
	// ActionMarkPending records the provider saw the invoice; latch open.
	ActionMarkPending
	// ActionMarkProcessing records an interim provider status; latch open.
	ActionMarkProcessing
)

// ResolveDepositAction maps a provider status onto the local transition,
// honoring the one-way processed latch. Pure; the atomicity of applying the
// decision lives in ProcessDepositWebhook.
func ResolveDepositAction(providerStatus, localStatus string, processed bool) DepositAction {
	if processed {
		return ActionIgnore
	}
	switch providerStatus {
	case ProviderStatusPaid, ProviderStatusOverpaid:
		if localStatus == models.DepositStatusPending || localStatus == models.DepositStatusProcessing {
			return ActionCredit
		}
		return ActionIgnore
	case ProviderStatusUnderpaid, ProviderStatusExpired, ProviderStatusPartial:
		return ActionFail
	case ProviderStatusNew:
		return ActionMarkPending
	default:
		return ActionMarkProcessing
	}
}

// ProcessDepositWebhook applies one provider notification idempotently.
// The processed latch is claimed with a conditional update, so redelivered
// webhooks credit the balance exactly once. The raw provider status is
// persisted on every delivery.
func ProcessDepositWebhook(db *gorm.DB, payload WebhookPayload) (processed bool, err error) {
	var deposit models.CryptoDeposit
	if err := db.Where("external_id = ?", payload.ExternalID).First(&deposit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, fmt.Errorf("deposit %q: %w", payload.ExternalID, ErrNotFound)
		}
		return false, err
	}

	if err := db.Model(&models.CryptoDeposit{}).
		Where("id = ?", deposit.ID).
		Update("provider_status", payload.Status).Error; err != nil {
		return false, err
	}

	switch ResolveDepositAction(payload.Status, deposit.Status, deposit.IsProcessed) {
	case ActionIgnore:
		return false, nil

	case ActionCredit:
		err := db.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.CryptoDeposit{}).
				Where("id = ? AND is_processed = ?", deposit.ID, false).
				Updates(map[string]interface{}{
					"is_processed":  true,
					"status":        models.DepositStatusConfirmed,
					"actual_amount": payload.Amount,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// A concurrent delivery won the latch.
				return nil
			}
			processed = true
			return creditBalance(tx, deposit.UserID, payload.Amount, models.Transaction{
				Type:        models.TransactionTypeDeposit,
				Description: fmt.Sprintf("Crypto deposit %.8f %s confirmed", payload.CryptoAmount, deposit.Currency),
				RelatedID:   &deposit.ID,
				RelatedType: models.RelatedCryptoDeposit,
			})
		})
		return processed, err

	case ActionFail:
		res := db.Model(&models.CryptoDeposit{}).
			Where("id = ? AND is_processed = ?", deposit.ID, false).
			Updates(map[string]interface{}{
				"is_processed":  true,
				"status":        models.DepositStatusFailed,
				"actual_amount": payload.Amount,
			})
		return res.RowsAffected > 0, res.Error

	case ActionMarkPending:
		return false, db.Model(&models.CryptoDeposit{}).
			Where("id = ? AND is_processed = ?", deposit.ID, false).
			Update("status", models.DepositStatusPending).Error

	default: // ActionMarkProcessing
		return false, db.Model(&models.CryptoDeposit{}).
			Where("id = ? AND is_processed = ?", deposit.ID, false).
			Update("status", models.DepositStatusProcessing).Error
	}
}

// ConfirmDepositManually lets an admin resolve a stuck intent. It goes
// through the same latch as the webhook path, so a racing webhook cannot
// double-credit.
func ConfirmDepositManually(db *gorm.DB, depositID uint, amount float64) error {
	var deposit models.CryptoDeposit
	if err := db.First(&deposit, depositID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("deposit %d: %w", depositID, ErrNotFound)
		}
		return err
	}
	if deposit.IsProcessed {
		return fmt.Errorf("deposit %d is already processed (%s): %w", depositID, deposit.Status, ErrConflict)
	}

	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CryptoDeposit{}).
			Where("id = ? AND is_processed = ?", depositID, false).
			Updates(map[string]interface{}{
				"is_processed":  true,
				"status":        models.DepositStatusConfirmed,
				"actual_amount": amount,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("deposit %d was processed concurrently: %w", depositID, ErrConflict)
		}
		return creditBalance(tx, deposit.UserID, amount, models.Transaction{
			Type:        models.TransactionTypeDeposit,
			Description: fmt.Sprintf("Crypto deposit confirmed manually (%s)", deposit.Currency),
			RelatedID:   &deposit.ID,
			RelatedType: models.RelatedCryptoDeposit,
		})
	})
}

// RejectDepositManually closes a stuck intent without a balance change.
func RejectDepositManually(db *gorm.DB, depositID uint) error {
	res := db.Model(&models.CryptoDeposit{}).
		Where("id = ? AND is_processed = ?", depositID, false).
		Updates(map[string]interface{}{
			"is_processed": true,
			"status":       models.DepositStatusCancelled,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("deposit %d is already processed: %w", depositID, ErrConflict)
	}
	return nil
}

// CreateWithdrawal debits the user's balance immediately as an optimistic
// reservation and records the pending withdrawal ledger entry; no provider
// call happens until an admin approves.
func CreateWithdrawal(db *gorm.DB, userID uint, amount float64, walletAddress, network string) (*models.WithdrawalRequest, error) {
	settings, err := ActiveSettings(db)
	if err != nil {
		return nil, err
	}
	if amount < settings.MinWithdrawal || amount > settings.MaxWithdrawal {
		return nil, fmt.Errorf("withdrawal must be between %.2f and %.2f USD: %w",
			settings.MinWithdrawal, settings.MaxWithdrawal, ErrValidation)
	}
	if walletAddress == "" {
		return nil, fmt.Errorf("wallet address is required: %w", ErrValidation)
	}

	var request models.WithdrawalRequest
	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND balance >= ?", userID, amount).
			UpdateColumn("balance", gorm.Expr("balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("withdrawal of %.2f exceeds balance: %w", amount, ErrInsufficientFunds)
		}

		entry := models.Transaction{
			UserID:      userID,
			Amount:      -amount,
			Type:        models.TransactionTypeWithdrawal,
			Status:      models.TransactionStatusPending,
			Description: fmt.Sprintf("Withdrawal of %.2f USD to %s", amount, walletAddress),
			Reference:   models.NewTransactionReference(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		request = models.WithdrawalRequest{
			UserID:        userID,
			Amount:        amount,
			WalletAddress: walletAddress,
			Network:       network,
			Status:        models.WithdrawalStatusPending,
			TransactionID: entry.ID,
		}
		if err := tx.Create(&request).Error; err != nil {
			return err
		}

		entry.RelatedID = &request.ID
		entry.RelatedType = models.RelatedWithdrawalRequest
		return tx.Model(&models.Transaction{}).
			Where("id = ?", entry.ID).
			Updates(map[string]interface{}{
				"related_id":   request.ID,
				"related_type": models.RelatedWithdrawalRequest,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return &request, nil
}

// ApproveWithdrawal claims the pending request first and only then calls
// the provider, so concurrent approvals trigger at most one payout task.
// A provider failure compensates: the reserved amount is re-credited and
// the request ends failed.
func ApproveWithdrawal(ctx context.Context, db *gorm.DB, sk *ShkeeperClient, requestID, adminID uint) error {
	var request models.WithdrawalRequest
	if err := db.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("withdrawal request %d: %w", requestID, ErrNotFound)
		}
		return err
	}
	if request.IsTerminal() {
		return fmt.Errorf("withdrawal request %d is already %s: %w", requestID, request.Status, ErrConflict)
	}

	now := time.Now()
	res := db.Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", requestID, models.WithdrawalStatusPending).
		Updates(map[string]interface{}{
			"status":       models.WithdrawalStatusApproved,
			"processed_by": adminID,
			"processed_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("withdrawal request %d was processed concurrently: %w", requestID, ErrConflict)
	}

	taskID, err := sk.CreatePayoutTask(ctx, "USDT", request.Network, request.Amount, request.WalletAddress)
	if err != nil {
		if compErr := compensateWithdrawal(db, &request, models.WithdrawalStatusFailed,
			models.TransactionStatusFailed); compErr != nil {
			return compErr
		}
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.WithdrawalRequest{}).
			Where("id = ?", requestID).
			Update("payout_task_id", taskID).Error
		if err != nil {
			return err
		}
		return tx.Model(&models.Transaction{}).
			Where("id = ?", request.TransactionID).
			Update("status", models.TransactionStatusCompleted).Error
	})
}

// RejectWithdrawal re-credits the reserved amount without ever calling the
// provider and leaves the original ledger entry cancelled.
func RejectWithdrawal(db *gorm.DB, requestID, adminID uint) error {
	var request models.WithdrawalRequest
	if err := db.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("withdrawal request %d: %w", requestID, ErrNotFound)
		}
		return err
	}
	if request.IsTerminal() {
		return fmt.Errorf("withdrawal request %d is already %s: %w", requestID, request.Status, ErrConflict)
	}

	now := time.Now()
	res := db.Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", requestID, models.WithdrawalStatusPending).
		Updates(map[string]interface{}{
			"status":       models.WithdrawalStatusRejected,
			"processed_by": adminID,
			"processed_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("withdrawal request %d was processed concurrently: %w", requestID, ErrConflict)
	}

	return compensateWithdrawal(db, &request, "", models.TransactionStatusCancelled)
}

// compensateWithdrawal restores the reserved balance with a refund entry
// and finalizes the original withdrawal ledger entry. When requestStatus is
// non-empty the request row is moved there as well (provider-failure path).
func compensateWithdrawal(db *gorm.DB, request *models.WithdrawalRequest, requestStatus, ledgerStatus string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if requestStatus != "" {
			err := tx.Model(&models.WithdrawalRequest{}).
				Where("id = ?", request.ID).
				Update("status", requestStatus).Error
			if err != nil {
				return err
			}
		}

		err := tx.Model(&models.Transaction{}).
			Where("id = ?", request.TransactionID).
			Update("status", ledgerStatus).Error
		if err != nil {
			return err
		}

		return creditBalance(tx, request.UserID, request.Amount, models.Transaction{
			Type:        models.TransactionTypeRefund,
			Description: fmt.Sprintf("Refund of withdrawal reservation (%.2f USD)", request.Amount),
			RelatedID:   &request.ID,
			RelatedType: models.RelatedWithdrawalRequest,
		})
	})
}
