package feedata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateFromSatPerKVB(t *testing.T) {
	tests := []struct {
		name      string
		satPerKVB float64
		expected  FeeRate
	}{
		{name: "exact kilobyte multiple", satPerKVB: 25000, expected: 25},
		{name: "truncates fraction", satPerKVB: 18500.5, expected: 18},
		{name: "just below one", satPerKVB: 999, expected: 0},
		{name: "exactly one", satPerKVB: 1000, expected: 1},
		{name: "zero", satPerKVB: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RateFromSatPerKVB(tt.satPerKVB))
		})
	}
}

func TestFeeEstimateIsValid(t *testing.T) {
	valid := FeeEstimate{ConfTarget: 2, BlockHeight: 100, Conservative: 25, Economic: 12}
	assert.True(t, valid.IsValid())

	assert.False(t, FeeEstimate{ConfTarget: 0, BlockHeight: 100}.IsValid(),
		"zero conf target should be invalid")
	assert.False(t, FeeEstimate{ConfTarget: 2, BlockHeight: 0}.IsValid(),
		"zero block height should be invalid")
	assert.False(t, FeeEstimate{ConfTarget: 2, BlockHeight: 100, Conservative: -1}.IsValid(),
		"negative rate should be invalid")
}

func TestBlockFeesIsValid(t *testing.T) {
	assert.True(t, BlockFees{Height: 100, P5: 2, P50: 15}.IsValid())
	assert.False(t, BlockFees{Height: 0, P5: 2, P50: 15}.IsValid())
	assert.False(t, BlockFees{Height: 100, P5: -1, P50: 15}.IsValid())
}

func TestBlockSetTipHeight(t *testing.T) {
	t.Run("empty set has no tip", func(t *testing.T) {
		_, ok := BlockSet{}.TipHeight()
		assert.False(t, ok)
	})

	t.Run("returns highest height", func(t *testing.T) {
		blocks := BlockSet{
			100: {Height: 100},
			250: {Height: 250},
			175: {Height: 175},
		}
		tip, ok := blocks.TipHeight()
		assert.True(t, ok)
		assert.Equal(t, int64(250), tip)
	})
}

func TestFeeEstimateRate(t *testing.T) {
	estimate := FeeEstimate{ConfTarget: 2, BlockHeight: 100, Conservative: 25, Economic: 12}
	assert.Equal(t, FeeRate(25), estimate.Rate(true))
	assert.Equal(t, FeeRate(12), estimate.Rate(false))
}
