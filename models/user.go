package models

import (
	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string  `gorm:"not null;unique"`
	Password     string  `gorm:"not null"`
	Email        string  `gorm:"not null;unique"`
	Role         string  `gorm:"type:enum('admin', 'user');default:'user'"`
	Status       string  `gorm:"type:enum('active', 'banned');default:'active'"`
	Balance      float64 `gorm:"not null;default:0"`
	Score        int     `gorm:"not null;default:0"`
	ReferralCode string  `gorm:"uniqueIndex;size:16"`

	// ReferrerID is set once at registration and never changed.
	ReferrerID *uint `gorm:"null"`
	Referrer   *User `gorm:"belongsTo:User"`

	// One-way flag: the referral commission is paid at most once per user,
	// on their first stake.
	ReferralCommissionAwarded bool `gorm:"not null;default:false"`

	Predictions  []Prediction  `gorm:"hasMany:Prediction"`
	Transactions []Transaction `gorm:"hasMany:Transaction"`
}
