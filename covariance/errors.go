// Package covariance: sentinel error set, matched by callers via errors.Is.

package covariance

import "errors"

var (
	// ErrUnknownEstimator is returned by New for a name outside the
	// recognized estimator set.
	ErrUnknownEstimator = errors.New("covariance: unknown covariance estimator")

	// ErrUnknownConfigKey is returned at construction when a configuration
	// key is not in the estimator's recognized option set.
	ErrUnknownConfigKey = errors.New("covariance: unknown covariance configuration parameter")

	// ErrBadConfigValue is returned at construction when a recognized
	// configuration key carries a value of the wrong type.
	ErrBadConfigValue = errors.New("covariance: invalid covariance configuration value")

	// ErrBadClusters is returned when the supplied cluster labels do not
	// have one entry per observation.
	ErrBadClusters = errors.New("covariance: cluster labels must have one entry per observation")
)
