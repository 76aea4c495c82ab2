// Package feedata loads and cleans the two input datasets of the fee
// estimator evaluation: fee estimator snapshots and observed per-block fee
// percentiles.
//
// Input files are JSON arrays as produced by the estimator's export jobs.
// Numeric fields may arrive as numbers or numeric strings; all fee rates
// are converted from sat/kvB to integer sat/vB on load. Records that fail
// validation are dropped with a warning rather than failing the run.
package feedata
