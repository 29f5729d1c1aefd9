package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOutcomes(t *testing.T) {
	t.Run("canonical order", func(t *testing.T) {
		cases := map[string]string{
			"1":   "1",
			"x":   "X",
			"2":   "2",
			"21":  "12",
			"X1":  "1X",
			"2X1": "1X2",
			"1x2": "1X2",
		}
		for raw, want := range cases {
			got, err := ParseOutcomes(raw)
			require.NoError(t, err, "input %q", raw)
			assert.Equal(t, want, got, "input %q", raw)
		}
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		for _, raw := range []string{"", "3", "11", "XX", "1X2X", "1,2", "home"} {
			_, err := ParseOutcomes(raw)
			assert.Error(t, err, "input %q", raw)
		}
	})
}

func TestPredictionPrice(t *testing.T) {
	t.Run("single picks cost the base unit", func(t *testing.T) {
		sets := make([]string, MatchesPerGame)
		for i := range sets {
			sets[i] = "1"
		}
		assert.Equal(t, 1.0, PredictionPrice(sets, 1.0))
	})

	t.Run("multi-outcome sets multiply", func(t *testing.T) {
		sets := []string{"1X", "1X2", "2"}
		assert.Equal(t, 6.0, PredictionPrice(sets, 1.0))
	})

	t.Run("base unit cost scales the total", func(t *testing.T) {
		sets := []string{"1X", "12"}
		assert.Equal(t, 2.0, PredictionPrice(sets, 0.5))
	})
}

func TestPredictionPickCovers(t *testing.T) {
	p := PredictionPick{Outcomes: "1X"}
	assert.True(t, p.Covers("1"))
	assert.True(t, p.Covers("X"))
	assert.False(t, p.Covers("2"))
}
