package feedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// flexFloat decodes a JSON value that may arrive as a number or as a
// numeric string. Exported estimator dumps mix both representations.
type flexFloat float64

// UnmarshalJSON implements json.Unmarshaler
func (f *flexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return fmt.Errorf("null numeric value")
	}
	s = strings.Trim(s, `"`)

	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("parse numeric value %q: %w", s, err)
	}

	*f = flexFloat(value)
	return nil
}

// rawEstimate mirrors the on-disk estimate record before cleaning
type rawEstimate struct {
	ConfTarget          flexFloat `json:"conf_target"`
	BlockHeight         flexFloat `json:"block_height"`
	ConservativeFeeRate flexFloat `json:"conservative_fee_rate"`
	EconomicFeeRate     flexFloat `json:"economic_fee_rate"`
}

// rawBlock mirrors the on-disk block record before cleaning
type rawBlock struct {
	BlockHeight flexFloat `json:"block_height"`
	P5          flexFloat `json:"p_5"`
	P50         flexFloat `json:"p_50"`
}

// LoadEstimates reads fee estimator snapshots from a JSON array file.
// Records that fail validation are dropped with a warning; a missing file
// or malformed JSON document is an error. An empty path yields an empty
// dataset.
func LoadEstimates(ctx context.Context, path string) ([]FeeEstimate, error) {
	if path == "" {
		return nil, nil
	}

	logger := slog.Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read estimates file: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode estimates file %s: %w", path, err)
	}

	estimates := make([]FeeEstimate, 0, len(raw))
	dropped := 0

	for i, msg := range raw {
		var re rawEstimate
		if err := json.Unmarshal(msg, &re); err != nil {
			logger.WarnContext(ctx, "failed to parse estimate record",
				"file", path,
				"record", i,
				"error", err,
			)
			dropped++
			continue
		}

		estimate := FeeEstimate{
			ConfTarget:   int(re.ConfTarget),
			BlockHeight:  int64(re.BlockHeight),
			Conservative: RateFromSatPerKVB(float64(re.ConservativeFeeRate)),
			Economic:     RateFromSatPerKVB(float64(re.EconomicFeeRate)),
		}

		if !estimate.IsValid() {
			logger.WarnContext(ctx, "dropping invalid estimate record",
				"file", path,
				"record", i,
				"conf_target", estimate.ConfTarget,
				"block_height", estimate.BlockHeight,
			)
			dropped++
			continue
		}

		estimates = append(estimates, estimate)
	}

	// Evaluation and the recency trim rely on height order
	sort.SliceStable(estimates, func(i, j int) bool {
		return estimates[i].BlockHeight < estimates[j].BlockHeight
	})

	logger.InfoContext(ctx, "loaded fee estimates",
		"file", path,
		"records", len(estimates),
		"dropped", dropped,
	)

	return estimates, nil
}

// LoadBlocks reads observed block fee data from a JSON array file. Records
// that fail validation are dropped with a warning; duplicate heights keep
// the last record. An empty path yields an empty set.
func LoadBlocks(ctx context.Context, path string) (BlockSet, error) {
	if path == "" {
		return BlockSet{}, nil
	}

	logger := slog.Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read blocks file: %w", err)
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode blocks file %s: %w", path, err)
	}

	blocks := make(BlockSet, len(raw))
	dropped := 0

	for i, msg := range raw {
		var rb rawBlock
		if err := json.Unmarshal(msg, &rb); err != nil {
			logger.WarnContext(ctx, "failed to parse block record",
				"file", path,
				"record", i,
				"error", err,
			)
			dropped++
			continue
		}

		block := BlockFees{
			Height: int64(rb.BlockHeight),
			P5:     RateFromSatPerKVB(float64(rb.P5)),
			P50:    RateFromSatPerKVB(float64(rb.P50)),
		}

		if !block.IsValid() {
			logger.WarnContext(ctx, "dropping invalid block record",
				"file", path,
				"record", i,
				"block_height", block.Height,
			)
			dropped++
			continue
		}

		blocks[block.Height] = block
	}

	logger.InfoContext(ctx, "loaded block fee data",
		"file", path,
		"records", len(blocks),
		"dropped", dropped,
	)

	return blocks, nil
}

// Load reads both input files concurrently and returns the combined
// dataset.
func Load(ctx context.Context, feesPath, blocksPath string) (Dataset, error) {
	var ds Dataset

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		estimates, err := LoadEstimates(gctx, feesPath)
		if err != nil {
			return err
		}
		ds.Estimates = estimates
		return nil
	})

	g.Go(func() error {
		blocks, err := LoadBlocks(gctx, blocksPath)
		if err != nil {
			return err
		}
		ds.Blocks = blocks
		return nil
	})

	if err := g.Wait(); err != nil {
		return Dataset{}, err
	}

	return ds, nil
}
