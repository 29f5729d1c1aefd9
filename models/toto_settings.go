package models

import (
	"gorm.io/gorm"
)

type TotoSettings struct {
	gorm.Model
	BaseUnitCost     float64 `gorm:"not null;default:1.0"`
	CommissionRate   float64 `gorm:"not null;default:0.15"`
	FirstPrizeShare  float64 `gorm:"not null;default:0.70"`
	SecondPrizeShare float64 `gorm:"not null;default:0.20"`
	ThirdPrizeShare  float64 `gorm:"not null;default:0.10"`
	PointsPerMatch   int     `gorm:"not null;default:10"`
	ReferralRate     float64 `gorm:"not null;default:0.05"`
	MinDepositAmount float64 `gorm:"not null;default:5.0"`
	MinWithdrawal    float64 `gorm:"not null;default:10.0"`
	MaxWithdrawal    float64 `gorm:"not null;default:10000.0"`
	IsActive         bool    `gorm:"not null;default:true"`
}
