package report

import (
	"fmt"
	"io"

	"feeval/internal/evaluation"
)

const separator = "---------------------------------------------------------"

// WriteSummary writes the human-readable evaluation summary. This is the
// report printed to stdout at the end of a run.
func WriteSummary(w io.Writer, result *evaluation.Result) error {
	if result == nil {
		return fmt.Errorf("no result to summarize")
	}

	if _, err := fmt.Fprintf(w, "Total of %d estimates were made from Block %d to Block %d\n",
		result.TotalEstimates, result.StartBlock, result.EndBlock); err != nil {
		return fmt.Errorf("write overview: %w", err)
	}
	if _, err := fmt.Fprintln(w, separator); err != nil {
		return err
	}

	for _, mode := range evaluation.Modes {
		if err := writeModeSummary(w, result, mode); err != nil {
			return err
		}
	}

	return nil
}

// writeModeSummary writes the per-target outcome lines for one estimator
// mode
func writeModeSummary(w io.Writer, result *evaluation.Result, mode evaluation.Mode) error {
	for _, target := range result.ConfTargets() {
		tally := result.Tally(mode, target)

		if _, err := fmt.Fprintf(w, "Conf target: %d\n", target); err != nil {
			return fmt.Errorf("write conf target header: %w", err)
		}

		for _, outcome := range evaluation.Outcomes {
			_, err := fmt.Fprintf(w, "%d estimates %s (%.2f%% of the total estimates) in %s mode\n",
				tally.Count(outcome), outcome, tally.Percentage(outcome), mode)
			if err != nil {
				return fmt.Errorf("write outcome line: %w", err)
			}
		}

		if _, err := fmt.Fprintln(w, separator); err != nil {
			return err
		}
	}

	return nil
}
