package models

import (
	"time"

	"gorm.io/gorm"
)

// MatchesPerGame is the fixed number of matches in every toto round.
const MatchesPerGame = 15

// Game lifecycle statuses. Completed and cancelled are terminal.
const (
	GameStatusOpen      = "open"
	GameStatusClosed    = "closed"
	GameStatusCompleted = "completed"
	GameStatusCancelled = "cancelled"
)

// Prize tiers.
const (
	TierFirst  = "first"
	TierSecond = "second"
	TierThird  = "third"
)

type TotoGame struct {
	gorm.Model
	Name     string    `gorm:"not null"`
	Deadline time.Time `gorm:"not null"`
	Status   string    `gorm:"type:enum('open', 'closed', 'completed', 'cancelled');default:'open'"`

	// Pot snapshot, frozen when the game closes.
	TotalPot         float64 `gorm:"not null;default:0"`
	CommissionAmount float64 `gorm:"not null;default:0"`
	PrizePool        float64 `gorm:"not null;default:0"`
	FirstPrize       float64 `gorm:"not null;default:0"`
	SecondPrize      float64 `gorm:"not null;default:0"`
	ThirdPrize       float64 `gorm:"not null;default:0"`

	IsRefunded bool `gorm:"not null;default:false"`

	Matches     []Match      `gorm:"hasMany:Match"`
	Winners     []TotoWinner `gorm:"hasMany:TotoWinner"`
	Predictions []Prediction `gorm:"hasMany:Prediction"`
}

// IsTerminal reports whether no further lifecycle transition is allowed.
func (g *TotoGame) IsTerminal() bool {
	return g.Status == GameStatusCompleted || g.Status == GameStatusCancelled
}

// AllMatchesResolved reports whether every match carries a result or a
// cancellation flag, i.e. the game is eligible for settlement.
func (g *TotoGame) AllMatchesResolved() bool {
	if len(g.Matches) != MatchesPerGame {
		return false
	}
	for _, m := range g.Matches {
		if !m.IsResolved() {
			return false
		}
	}
	return true
}

type Match struct {
	gorm.Model
	TotoGameID  uint      `gorm:"not null;index"`
	HomeTeam    string    `gorm:"not null"`
	AwayTeam    string    `gorm:"not null"`
	KickoffAt   time.Time `gorm:"not null"`
	Result      *string   `gorm:"type:enum('1', 'X', '2');null"`
	IsCancelled bool      `gorm:"not null;default:false"`
}

func (m *Match) IsResolved() bool {
	return m.IsCancelled || m.Result != nil
}

// TotoWinner records one user's placement in a prize tier of a settled game.
type TotoWinner struct {
	gorm.Model
	TotoGameID uint    `gorm:"not null;index"`
	UserID     uint    `gorm:"not null;index"`
	Tier       string  `gorm:"type:enum('first', 'second', 'third');not null"`
	Amount     float64 `gorm:"not null"`
	User       *User   `gorm:"belongsTo:User"`
}
