package models

import (
	"fmt"
	"math/rand"
	"time"

	"gorm.io/gorm"
)

// Ledger entry types. Amount sign convention: positive credits the user,
// negative debits the user.
const (
	TransactionTypeDeposit            = "deposit"
	TransactionTypeStake              = "stake"
	TransactionTypePrizePayout        = "prize_payout"
	TransactionTypeRefund             = "refund"
	TransactionTypeReferralCommission = "referral_commission"
	TransactionTypeWithdrawal         = "withdrawal"
)

// Ledger entry statuses. Completed, failed and cancelled are terminal; a
// terminal entry is never mutated again.
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusCancelled = "cancelled"
)

// Related entity kinds for Transaction.RelatedType.
const (
	RelatedTotoGame          = "toto_game"
	RelatedPrediction        = "prediction"
	RelatedCryptoDeposit     = "crypto_deposit"
	RelatedWithdrawalRequest = "withdrawal_request"
)

// Transaction is the append-only ledger record of a single balance delta.
// Every balance mutation on a user is paired with exactly one Transaction.
type Transaction struct {
	gorm.Model
	UserID      uint    `gorm:"not null;index"`
	Amount      float64 `gorm:"not null"`
	Type        string  `gorm:"type:enum('deposit', 'stake', 'prize_payout', 'refund', 'referral_commission', 'withdrawal');not null"`
	Status      string  `gorm:"type:enum('pending', 'completed', 'failed', 'cancelled');default:'completed'"`
	Description string  `gorm:"not null"`
	Reference   string  `gorm:"null"`
	RelatedID   *uint   `gorm:"null"`
	RelatedType string  `gorm:"null"`
	User        *User   `gorm:"belongsTo:User"`
}

// NewTransactionReference generates a unique reference number for ledger entries
func NewTransactionReference() string {
	return fmt.Sprintf("REF-%d-%d", time.Now().Unix(), rand.Intn(9999))
}
