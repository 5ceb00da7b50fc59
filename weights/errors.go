// Package weights: sentinel error set. Constructors and WeightMatrix return
// these sentinels, wrapped with context via %w; callers match with errors.Is.

package weights

import "errors"

var (
	// ErrUnknownWeightType is returned by New for a name outside the
	// recognized strategy set.
	ErrUnknownWeightType = errors.New("weights: unknown weighting matrix type")

	// ErrUnknownConfigKey is returned at construction when a configuration
	// key is not in the strategy's recognized option set.
	ErrUnknownConfigKey = errors.New("weights: unknown weighting matrix configuration parameter")

	// ErrBadConfigValue is returned at construction when a recognized
	// configuration key carries a value of the wrong type.
	ErrBadConfigValue = errors.New("weights: invalid weighting matrix configuration value")

	// ErrUnknownKernel is returned for a kernel name outside the recognized
	// set (bartlett/newey-west, parzen/gallant, andrews/quadratic-spectral/qs).
	ErrUnknownKernel = errors.New("weights: unknown kernel")

	// ErrBadBandwidth is returned when a kernel bandwidth is negative.
	ErrBadBandwidth = errors.New("weights: bandwidth must be non-negative")

	// ErrBadClusters is returned when the supplied cluster labels do not
	// have one entry per observation.
	ErrBadClusters = errors.New("weights: cluster labels must have one entry per observation")
)
