// Package evaluation scores fee estimator snapshots against observed
// block data.
//
// Each estimate promises confirmation within a target number of blocks.
// The evaluator walks the blocks mined strictly inside that window and
// compares the estimated fee rate against each block's median fee rate:
// above the median in any block means the estimate overpaid, at or below
// the median of every observed block means it was within range, and a
// window with no observed blocks counts as underpaid. Outcomes are
// tallied per confirmation target for the estimator's conservative and
// economic modes.
package evaluation
