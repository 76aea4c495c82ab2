package evaluation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"feeval/internal/feedata"
)

// Evaluator scores fee estimator snapshots against the fee rates observed
// in the blocks of their confirmation windows
type Evaluator struct {
	sanityWindow int64
	logger       *slog.Logger
}

// NewEvaluator creates a new evaluator. sanityWindow is the number of
// blocks below the tip inside which estimates are trimmed as too recent;
// pass feedata.DefaultSanityWindow for the standard one-retarget-period
// trim.
func NewEvaluator(sanityWindow int64, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}

	return &Evaluator{
		sanityWindow: sanityWindow,
		logger:       logger,
	}
}

// Evaluate classifies every estimate in the dataset for both estimator
// modes and aggregates the outcomes per confirmation target. The block set
// must be non-empty; the estimate list may be empty.
func (e *Evaluator) Evaluate(ctx context.Context, ds feedata.Dataset) (*Result, error) {
	start := time.Now()

	tip, ok := ds.Blocks.TipHeight()
	if !ok {
		return nil, fmt.Errorf("no block data to evaluate against")
	}

	e.logger.InfoContext(ctx, "starting estimate evaluation",
		"estimates", len(ds.Estimates),
		"blocks", len(ds.Blocks),
		"tip_height", tip,
		"sanity_window", e.sanityWindow,
	)

	estimates := feedata.TrimRecent(ds.Estimates, tip, e.sanityWindow)
	trimmed := len(ds.Estimates) - len(estimates)
	if trimmed > 0 {
		e.logger.InfoContext(ctx, "trimmed estimates too recent to evaluate",
			"trimmed", trimmed,
			"remaining", len(estimates),
		)
	}

	result := &Result{
		TotalEstimates:   len(estimates),
		TrimmedEstimates: trimmed,
		TipHeight:        tip,
		ByMode:           make(map[Mode]map[int]*Tally),
	}

	if len(estimates) > 0 {
		// Estimates reflect the mempool as of the top of their height,
		// so the previous block is the last one they cover.
		result.StartBlock = estimates[0].BlockHeight - 1
		result.EndBlock = estimates[len(estimates)-1].BlockHeight - 1
	}

	for i, estimate := range estimates {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("evaluation cancelled: %w", ctx.Err())
		default:
		}

		for _, mode := range Modes {
			outcome := classify(estimate.Rate(mode == ModeConservative), estimate, ds.Blocks)
			result.tallyFor(mode, estimate.ConfTarget).add(outcome)
		}

		if i > 0 && i%10000 == 0 {
			e.logger.DebugContext(ctx, "evaluation progress",
				"processed", i,
				"total", len(estimates),
			)
		}
	}

	for _, tallies := range result.ByMode {
		for _, tally := range tallies {
			tally.finalize()
		}
	}

	e.logger.InfoContext(ctx, "estimate evaluation completed",
		"duration", time.Since(start),
		"estimates", result.TotalEstimates,
		"conf_targets", len(result.ConfTargets()),
	)

	return result, nil
}
