// Package weights implements the GMM weighting-matrix family: four
// interchangeable strategies that map (regressors, instruments, residuals)
// to an m×m weighting matrix, plus the kernel lag-weight generators used by
// the HAC strategy.
//
// Strategies are resolved by name through New:
//
//	w, err := weights.New(weights.Robust, weights.Config{"center": true})
//	s, err := w.WeightMatrix(x, z, eps)
//
// Recognized names (aliases map to the same strategy):
//   - "unadjusted", "homoskedastic" — scalar residual variance times ZᵀZ/n
//   - "robust", "heteroskedastic"   — outer products of instrument-residual scores
//   - "kernel"                      — heteroskedastic plus kernel-weighted cross-lag terms
//   - "clustered"                   — one-way cluster-block accumulation
//
// Each strategy recognizes a fixed set of configuration options with
// documented defaults; unknown keys (and wrongly typed values) are rejected
// eagerly at construction, never at call time.
package weights
