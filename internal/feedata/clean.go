package feedata

// DefaultSanityWindow is one retarget period. Estimates made within this
// many blocks of the tip may not have their full confirmation window
// mined yet.
const DefaultSanityWindow = 1008

// TrimRecent drops trailing estimates made too close to the chain tip for
// their confirmation windows to be fully observable. Estimates must be
// sorted by block height ascending; the trim walks from the tail and is
// idempotent.
func TrimRecent(estimates []FeeEstimate, tipHeight, window int64) []FeeEstimate {
	minimum := tipHeight - window
	for len(estimates) > 0 && minimum < estimates[len(estimates)-1].BlockHeight {
		estimates = estimates[:len(estimates)-1]
	}
	return estimates
}
