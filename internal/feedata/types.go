package feedata

// FeeRate is a transaction fee rate in satoshis per virtual byte.
type FeeRate int64

// RateFromSatPerKVB converts a sat/kvB fee rate to sat/vB, truncating
// toward zero. Estimator snapshots and block percentiles both arrive in
// sat/kvB; all comparisons happen in sat/vB.
func RateFromSatPerKVB(satPerKVB float64) FeeRate {
	return FeeRate(int64(satPerKVB / 1000))
}

// FeeEstimate is a single fee estimator snapshot: the fee rates the
// estimator recommended at a given block height for confirmation within
// ConfTarget blocks. Conservative and Economic are the estimator's two
// operating modes.
type FeeEstimate struct {
	ConfTarget   int     `json:"conf_target"`
	BlockHeight  int64   `json:"block_height"`
	Conservative FeeRate `json:"conservative_fee_rate"`
	Economic     FeeRate `json:"economic_fee_rate"`
}

// IsValid checks if the estimate data is usable
func (e FeeEstimate) IsValid() bool {
	return e.ConfTarget > 0 && e.BlockHeight > 0 &&
		e.Conservative >= 0 && e.Economic >= 0
}

// Rate returns the conservative fee rate when conservative is true and
// the economic fee rate otherwise
func (e FeeEstimate) Rate(conservative bool) FeeRate {
	if conservative {
		return e.Conservative
	}
	return e.Economic
}

// BlockFees holds the observed fee-rate percentiles of a mined block. P5
// and P50 are the 5th and 50th percentile fee rates of the block's
// transactions.
type BlockFees struct {
	Height int64   `json:"conf_height"`
	P5     FeeRate `json:"p_5"`
	P50    FeeRate `json:"p_50"`
}

// IsValid checks if the block data is usable
func (b BlockFees) IsValid() bool {
	return b.Height > 0 && b.P5 >= 0 && b.P50 >= 0
}

// BlockSet indexes observed block fee data by height.
type BlockSet map[int64]BlockFees

// TipHeight returns the highest block height in the set. The second return
// value is false when the set is empty.
func (s BlockSet) TipHeight() (int64, bool) {
	var tip int64
	found := false
	for height := range s {
		if !found || height > tip {
			tip = height
			found = true
		}
	}
	return tip, found
}

// Dataset bundles the two cleaned input collections.
type Dataset struct {
	Estimates []FeeEstimate
	Blocks    BlockSet
}
