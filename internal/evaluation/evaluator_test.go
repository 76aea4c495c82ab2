package evaluation

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feeval/internal/feedata"
)

// goldenBlocks provides a fixed block set: two observed blocks inside the
// evaluation range plus a distant tip so the recency trim keeps old
// estimates.
func goldenBlocks() feedata.BlockSet {
	return feedata.BlockSet{
		1001: {Height: 1001, P5: 5, P50: 10},
		1002: {Height: 1002, P5: 6, P50: 12},
		2500: {Height: 2500, P5: 1, P50: 100},
	}
}

func TestEvaluateGolden(t *testing.T) {
	dataset := feedata.Dataset{
		Estimates: []feedata.FeeEstimate{
			// Window 991-994 holds no observed blocks: underpaid both modes
			{ConfTarget: 5, BlockHeight: 990, Conservative: 1, Economic: 1},
			// Conservative above both medians, economic at or below them
			{ConfTarget: 3, BlockHeight: 1000, Conservative: 15, Economic: 7},
			// Below both medians (and both P5s): within range both modes
			{ConfTarget: 3, BlockHeight: 1000, Conservative: 2, Economic: 2},
			// Target 1 scans no blocks at all: underpaid both modes
			{ConfTarget: 1, BlockHeight: 1000, Conservative: 50, Economic: 50},
			// Too recent relative to the 2500 tip: trimmed
			{ConfTarget: 3, BlockHeight: 2000, Conservative: 10, Economic: 10},
		},
		Blocks: goldenBlocks(),
	}

	evaluator := NewEvaluator(feedata.DefaultSanityWindow, slog.Default())
	result, err := evaluator.Evaluate(context.Background(), dataset)
	require.NoError(t, err)

	assert.Equal(t, 4, result.TotalEstimates)
	assert.Equal(t, 1, result.TrimmedEstimates)
	assert.Equal(t, int64(989), result.StartBlock)
	assert.Equal(t, int64(999), result.EndBlock)
	assert.Equal(t, int64(2500), result.TipHeight)
	assert.Equal(t, []int{1, 3, 5}, result.ConfTargets())

	// Target 5: single estimate with an unobserved window
	tally := result.Tally(ModeConservative, 5)
	assert.Equal(t, 1, tally.Underpaid)
	assert.InDelta(t, 100.0, tally.UnderpaidPct, 0.001)

	// Target 3 conservative: one overpaid, one within range
	tally = result.Tally(ModeConservative, 3)
	assert.Equal(t, 1, tally.Overpaid)
	assert.Equal(t, 1, tally.WithinRange)
	assert.Equal(t, 0, tally.Underpaid)
	assert.InDelta(t, 50.0, tally.OverpaidPct, 0.001)
	assert.InDelta(t, 50.0, tally.WithinRangePct, 0.001)

	// Target 3 economic: both within range
	tally = result.Tally(ModeEconomic, 3)
	assert.Equal(t, 2, tally.WithinRange)
	assert.Equal(t, 0, tally.Underpaid)
	assert.InDelta(t, 100.0, tally.WithinRangePct, 0.001)

	// Target 1: empty confirmation window falls through to underpaid
	tally = result.Tally(ModeEconomic, 1)
	assert.Equal(t, 1, tally.Underpaid)
	assert.Equal(t, 0, tally.Overpaid)
	assert.Equal(t, 0, tally.WithinRange)
}

func TestEvaluateInvariants(t *testing.T) {
	dataset := feedata.Dataset{
		Estimates: []feedata.FeeEstimate{
			{ConfTarget: 2, BlockHeight: 1000, Conservative: 11, Economic: 4},
			{ConfTarget: 2, BlockHeight: 1000, Conservative: 8, Economic: 8},
			{ConfTarget: 2, BlockHeight: 1000, Conservative: 20, Economic: 1},
			{ConfTarget: 3, BlockHeight: 1000, Conservative: 6, Economic: 13},
		},
		Blocks: goldenBlocks(),
	}

	evaluator := NewEvaluator(feedata.DefaultSanityWindow, nil)
	result, err := evaluator.Evaluate(context.Background(), dataset)
	require.NoError(t, err)

	// Per target and mode: outcome counts cover the population and
	// percentages sum to 100.
	populations := map[int]int{2: 3, 3: 1}
	for _, mode := range Modes {
		for _, target := range result.ConfTargets() {
			tally := result.Tally(mode, target)
			assert.Equal(t, populations[target], tally.Total(),
				"population mismatch for mode %s target %d", mode, target)

			pctSum := tally.UnderpaidPct + tally.OverpaidPct + tally.WithinRangePct
			assert.InDelta(t, 100.0, pctSum, 0.001,
				"percentages should sum to 100 for mode %s target %d", mode, target)
		}
	}
}

func TestEvaluateClassificationBounds(t *testing.T) {
	// Single block window with P5=5, P50=10
	blocks := feedata.BlockSet{
		1001: {Height: 1001, P5: 5, P50: 10},
		2500: {Height: 2500, P5: 1, P50: 100},
	}

	tests := []struct {
		name     string
		rate     feedata.FeeRate
		expected Outcome
	}{
		{name: "below P5 is within range", rate: 4, expected: OutcomeWithinRange},
		{name: "at P5 is within range", rate: 5, expected: OutcomeWithinRange},
		{name: "between percentiles is within range", rate: 7, expected: OutcomeWithinRange},
		{name: "at P50 is within range", rate: 10, expected: OutcomeWithinRange},
		{name: "above P50 overpays", rate: 11, expected: OutcomeOverpaid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			estimate := feedata.FeeEstimate{ConfTarget: 2, BlockHeight: 1000, Conservative: tt.rate, Economic: tt.rate}
			assert.Equal(t, tt.expected, classify(tt.rate, estimate, blocks))
		})
	}

	t.Run("unobserved window underpays", func(t *testing.T) {
		estimate := feedata.FeeEstimate{ConfTarget: 2, BlockHeight: 1100, Conservative: 4, Economic: 4}
		assert.Equal(t, OutcomeUnderpaid, classify(4, estimate, blocks))
	})
}

func TestEvaluateErrors(t *testing.T) {
	evaluator := NewEvaluator(feedata.DefaultSanityWindow, slog.Default())

	t.Run("empty block set", func(t *testing.T) {
		_, err := evaluator.Evaluate(context.Background(), feedata.Dataset{
			Estimates: []feedata.FeeEstimate{{ConfTarget: 2, BlockHeight: 1000}},
			Blocks:    feedata.BlockSet{},
		})
		assert.Error(t, err)
	})

	t.Run("empty estimates produce a zero result", func(t *testing.T) {
		result, err := evaluator.Evaluate(context.Background(), feedata.Dataset{
			Blocks: goldenBlocks(),
		})
		require.NoError(t, err)
		assert.Zero(t, result.TotalEstimates)
		assert.Empty(t, result.ConfTargets())
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := evaluator.Evaluate(ctx, feedata.Dataset{
			Estimates: []feedata.FeeEstimate{{ConfTarget: 2, BlockHeight: 1000, Conservative: 1, Economic: 1}},
			Blocks:    goldenBlocks(),
		})
		assert.Error(t, err)
	})
}

func TestModeAndOutcomeStrings(t *testing.T) {
	assert.Equal(t, "conservative", ModeConservative.String())
	assert.Equal(t, "economic", ModeEconomic.String())
	assert.Equal(t, "underpaid", OutcomeUnderpaid.String())
	assert.Equal(t, "overpaid", OutcomeOverpaid.String())
	assert.Equal(t, "within the range", OutcomeWithinRange.String())
}
