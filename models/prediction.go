package models

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Prediction is one user's full-coverage entry against a toto game: one
// outcome set per match, all 15 matches covered.
type Prediction struct {
	gorm.Model
	UserID     uint    `gorm:"not null;index"`
	TotoGameID uint    `gorm:"not null;index"`
	Price      float64 `gorm:"not null"`
	Score      int     `gorm:"not null;default:0"`
	IsScored   bool    `gorm:"not null;default:false"`
	IsRefunded bool    `gorm:"not null;default:false"`

	Picks []PredictionPick `gorm:"hasMany:PredictionPick"`
	User  *User            `gorm:"belongsTo:User"`
}

// PredictionPick holds the chosen outcome set for a single match, stored as
// a canonical subset of "1X2" (e.g. "1", "X2", "1X2").
type PredictionPick struct {
	gorm.Model
	PredictionID uint   `gorm:"not null;index"`
	MatchID      uint   `gorm:"not null;index"`
	Outcomes     string `gorm:"size:3;not null"`
}

// Covers reports whether the pick's outcome set contains the given result.
func (p *PredictionPick) Covers(result string) bool {
	return strings.Contains(p.Outcomes, result)
}

// ParseOutcomes validates an outcome set and returns it in canonical "1X2"
// order. The set must be a non-empty subset of {1, X, 2}.
func ParseOutcomes(raw string) (string, error) {
	seen := map[rune]bool{}
	for _, r := range strings.ToUpper(raw) {
		switch r {
		case '1', 'X', '2':
			if seen[r] {
				return "", fmt.Errorf("duplicate outcome %q", string(r))
			}
			seen[r] = true
		default:
			return "", fmt.Errorf("invalid outcome %q, must be one of 1, X, 2", string(r))
		}
	}
	if len(seen) == 0 {
		return "", fmt.Errorf("outcome set must not be empty")
	}

	var b strings.Builder
	for _, r := range []rune{'1', 'X', '2'} {
		if seen[r] {
			b.WriteRune(r)
		}
	}
	return b.String(), nil
}

// PredictionPrice computes the stake price of an entry: the product of the
// chosen outcome set sizes across all matches, times the base unit cost.
func PredictionPrice(outcomeSets []string, baseUnitCost float64) float64 {
	combinations := 1
	for _, set := range outcomeSets {
		combinations *= len(set)
	}
	return float64(combinations) * baseUnitCost
}
