package models

import (
	"time"

	"gorm.io/gorm"
)

// Withdrawal request statuses. Approved, rejected and failed are terminal;
// a terminal request cannot be re-processed.
const (
	WithdrawalStatusPending  = "pending"
	WithdrawalStatusApproved = "approved"
	WithdrawalStatusRejected = "rejected"
	WithdrawalStatusFailed   = "failed"
)

// WithdrawalRequest reserves the user's funds at creation time: the balance
// is debited when the request is made, not when an admin approves it.
type WithdrawalRequest struct {
	gorm.Model
	UserID        uint    `gorm:"not null;index"`
	Amount        float64 `gorm:"not null"`
	WalletAddress string  `gorm:"not null"`
	Network       string  `gorm:"not null"`
	Status        string  `gorm:"type:enum('pending', 'approved', 'rejected', 'failed');default:'pending'"`

	// PayoutTaskID is the provider task id recorded on successful payout.
	PayoutTaskID string `gorm:"null"`

	// TransactionID links the reserving withdrawal ledger entry.
	TransactionID uint `gorm:"not null"`

	ProcessedBy *uint      `gorm:"null"`
	ProcessedAt *time.Time `gorm:"null"`
	User        *User      `gorm:"belongsTo:User"`
}

func (w *WithdrawalRequest) IsTerminal() bool {
	return w.Status != WithdrawalStatusPending
}
