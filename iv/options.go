// Package iv: fit-time options shared by the three estimators.

package iv

import "github.com/katalvlaran/ivreg/covariance"

// Default fit parameters.
const (
	// DefaultCovType is the covariance estimator used when none is named.
	DefaultCovType = covariance.Robust

	// DefaultIterLimit caps the number of weighted GMM re-estimations.
	DefaultIterLimit = 2

	// DefaultTol is the GMM convergence threshold on the quadratic-form
	// norm ΔβᵀV⁻¹Δβ.
	DefaultTol = 1e-4
)

// FitOptions configures a Fit call.
//
// Fields:
//   - CovType   — covariance estimator name resolved through the covariance
//     registry ("robust" by default). Ignored for the covariance computation
//     of IVGMM, which always uses the GMM-specific estimator; the name is
//     still recorded on the results.
//   - CovConfig — options for the covariance estimator (IVGMM: for the
//     GMM-specific estimator). Validated by the estimator; unknown keys fail
//     the Fit call.
//   - IterLimit — IVGMM only: maximum number of weighted re-estimations.
//   - Tol       — IVGMM only: early-stop threshold for the convergence norm.
//
// A nil *FitOptions means DefaultFitOptions().
type FitOptions struct {
	CovType   string
	CovConfig covariance.Config
	IterLimit int
	Tol       float64
}

// DefaultFitOptions returns the documented defaults.
func DefaultFitOptions() FitOptions {
	return FitOptions{
		CovType:   DefaultCovType,
		IterLimit: DefaultIterLimit,
		Tol:       DefaultTol,
	}
}

// resolveFitOptions normalizes a possibly nil or partially filled options
// value against the defaults.
func resolveFitOptions(opts *FitOptions) FitOptions {
	if opts == nil {
		return DefaultFitOptions()
	}

	o := *opts
	if o.CovType == "" {
		o.CovType = DefaultCovType
	}
	if o.IterLimit <= 0 {
		o.IterLimit = DefaultIterLimit
	}
	if o.Tol <= 0 {
		o.Tol = DefaultTol
	}

	return o
}
