package models

import (
	"gorm.io/gorm"
)

// Local crypto deposit statuses.
const (
	DepositStatusPending    = "pending"
	DepositStatusProcessing = "processing"
	DepositStatusConfirmed  = "confirmed"
	DepositStatusFailed     = "failed"
	DepositStatusCancelled  = "cancelled"
)

// CryptoDeposit is one pending or resolved payment intent against the
// external provider. ExternalID is generated locally and used as the
// provider's correlation key, so webhook deliveries can always be matched
// back to exactly one record.
type CryptoDeposit struct {
	gorm.Model
	UserID         uint    `gorm:"not null;index"`
	Currency       string  `gorm:"not null"`
	Network        string  `gorm:"not null"`
	DepositAddress string  `gorm:"null"`
	ExpectedAmount float64 `gorm:"not null"`
	ActualAmount   float64 `gorm:"not null;default:0"`

	ExternalID        string `gorm:"uniqueIndex;size:64;not null"`
	ShkeeperDepositID string `gorm:"null"`

	// ProviderStatus keeps the last raw status reported by the provider,
	// persisted on every webhook delivery for observability.
	ProviderStatus string `gorm:"null"`

	Status string `gorm:"type:enum('pending', 'processing', 'confirmed', 'failed', 'cancelled');default:'pending'"`

	// IsProcessed is a one-way latch: once true, no webhook redelivery or
	// manual action may credit the balance for this intent again.
	IsProcessed bool  `gorm:"not null;default:false"`
	User        *User `gorm:"belongsTo:User"`
}
