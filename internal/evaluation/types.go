package evaluation

import (
	"sort"

	"feeval/internal/feedata"
)

// Mode identifies the estimator mode being evaluated
type Mode int

const (
	// ModeConservative is the estimator's conservative mode
	ModeConservative Mode = iota
	// ModeEconomic is the estimator's economic mode
	ModeEconomic
)

// Modes lists the evaluated modes in report order
var Modes = []Mode{ModeConservative, ModeEconomic}

// String returns the string representation of the mode
func (m Mode) String() string {
	switch m {
	case ModeConservative:
		return "conservative"
	case ModeEconomic:
		return "economic"
	default:
		return "unknown"
	}
}

// Outcome classifies how an estimate compares to the fee rates observed
// inside its confirmation window
type Outcome int

const (
	// OutcomeUnderpaid means no block inside the estimate's confirmation
	// window was observed
	OutcomeUnderpaid Outcome = iota
	// OutcomeOverpaid means the estimate exceeded the median fee rate
	// of at least one block in its window
	OutcomeOverpaid
	// OutcomeWithinRange means the estimate stayed at or below the median
	// fee rate of every observed block in its window
	OutcomeWithinRange
)

// Outcomes lists the outcomes in report order
var Outcomes = []Outcome{OutcomeUnderpaid, OutcomeOverpaid, OutcomeWithinRange}

// String returns the string representation of the outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeUnderpaid:
		return "underpaid"
	case OutcomeOverpaid:
		return "overpaid"
	case OutcomeWithinRange:
		return "within the range"
	default:
		return "unknown"
	}
}

// Tally accumulates outcome counts for one confirmation target and mode
type Tally struct {
	Underpaid   int     `json:"underpaid"`
	Overpaid    int     `json:"overpaid"`
	WithinRange int     `json:"within_range"`
	// Percentages of the target's estimate population
	UnderpaidPct   float64 `json:"underpaid_pct"`
	OverpaidPct    float64 `json:"overpaid_pct"`
	WithinRangePct float64 `json:"within_range_pct"`
}

// Total returns the number of estimates behind the tally
func (t Tally) Total() int {
	return t.Underpaid + t.Overpaid + t.WithinRange
}

// Count returns the count for the given outcome
func (t Tally) Count(o Outcome) int {
	switch o {
	case OutcomeUnderpaid:
		return t.Underpaid
	case OutcomeOverpaid:
		return t.Overpaid
	case OutcomeWithinRange:
		return t.WithinRange
	default:
		return 0
	}
}

// Percentage returns the population percentage for the given outcome
func (t Tally) Percentage(o Outcome) float64 {
	switch o {
	case OutcomeUnderpaid:
		return t.UnderpaidPct
	case OutcomeOverpaid:
		return t.OverpaidPct
	case OutcomeWithinRange:
		return t.WithinRangePct
	default:
		return 0
	}
}

func (t *Tally) add(o Outcome) {
	switch o {
	case OutcomeUnderpaid:
		t.Underpaid++
	case OutcomeOverpaid:
		t.Overpaid++
	case OutcomeWithinRange:
		t.WithinRange++
	}
}

func (t *Tally) finalize() {
	total := float64(t.Total())
	if total == 0 {
		return
	}
	t.UnderpaidPct = float64(t.Underpaid) / total * 100
	t.OverpaidPct = float64(t.Overpaid) / total * 100
	t.WithinRangePct = float64(t.WithinRange) / total * 100
}

// Result holds the complete evaluation of a dataset
type Result struct {
	// Dataset overview
	TotalEstimates   int   `json:"total_estimates"`
	TrimmedEstimates int   `json:"trimmed_estimates"`
	StartBlock       int64 `json:"start_block"`
	EndBlock         int64 `json:"end_block"`
	TipHeight        int64 `json:"tip_height"`

	// Per-mode, per-confirmation-target tallies
	ByMode map[Mode]map[int]*Tally `json:"-"`
}

// ConfTargets returns the confirmation targets seen in the result, sorted
// ascending
func (r *Result) ConfTargets() []int {
	seen := make(map[int]bool)
	for _, tallies := range r.ByMode {
		for target := range tallies {
			seen[target] = true
		}
	}

	targets := make([]int, 0, len(seen))
	for target := range seen {
		targets = append(targets, target)
	}
	sort.Ints(targets)
	return targets
}

// Tally returns the tally for a mode and confirmation target. A zero tally
// is returned for unknown combinations.
func (r *Result) Tally(mode Mode, target int) Tally {
	if tallies, ok := r.ByMode[mode]; ok {
		if tally, ok := tallies[target]; ok {
			return *tally
		}
	}
	return Tally{}
}

// tallyFor returns the mutable tally for a mode and target, creating it on
// first use
func (r *Result) tallyFor(mode Mode, target int) *Tally {
	tallies, ok := r.ByMode[mode]
	if !ok {
		tallies = make(map[int]*Tally)
		r.ByMode[mode] = tallies
	}

	tally, ok := tallies[target]
	if !ok {
		tally = &Tally{}
		tallies[target] = tally
	}
	return tally
}

// classify compares a fee rate against the blocks inside an estimate's
// confirmation window. Only blocks strictly between the estimate height
// and the end of the window are consulted; heights with no observed block
// data are skipped. A rate above any observed median overpaid, any other
// observed window was within range, and a window with no observed blocks
// underpaid.
func classify(rate feedata.FeeRate, estimate feedata.FeeEstimate, blocks feedata.BlockSet) Outcome {
	var over, observed bool

	end := estimate.BlockHeight + int64(estimate.ConfTarget)
	for height := estimate.BlockHeight + 1; height < end; height++ {
		block, ok := blocks[height]
		if !ok {
			continue
		}

		observed = true
		if rate > block.P50 {
			over = true
		}
	}

	switch {
	case over:
		return OutcomeOverpaid
	case observed:
		return OutcomeWithinRange
	default:
		return OutcomeUnderpaid
	}
}
