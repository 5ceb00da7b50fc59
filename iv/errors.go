// Package iv: sentinel error set. Constructors and Fit return these
// sentinels wrapped with context; callers match with errors.Is. Errors from
// the covariance, weights, and linalg packages pass through unwrapped so
// their sentinels keep matching.

package iv

import "errors"

var (
	// ErrDimensionMismatch indicates non-conformable construction inputs:
	// row counts differ, the outcome is not a single column, a matrix is
	// empty, or there are fewer instruments than regressors.
	ErrDimensionMismatch = errors.New("iv: dimension mismatch")

	// ErrRankDeficient indicates that the regressor or instrument matrix
	// does not have full column rank. Raised at construction; estimation
	// never starts.
	ErrRankDeficient = errors.New("iv: matrix does not have full column rank")

	// ErrBadKappa indicates a user-supplied κ that is NaN or ±Inf.
	ErrBadKappa = errors.New("iv: kappa must be a finite scalar")
)
