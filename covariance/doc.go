// Package covariance implements the parameter covariance estimators invoked
// by name from the model Fit methods, plus the GMM-specific estimator built
// from a final weighting matrix.
//
// All estimators compute the asymptotic covariance of the IV parameter
// vector from (regressors, outcome, instruments, parameters) using the
// fitted-instrument scores X̂ = Z·Z⁺·X. The covariance is computed eagerly
// at construction and exposed through Cov.
//
// Registry names resolved by New (aliases map to the same estimator):
//   - "homoskedastic", "unadjusted", "homo"
//   - "robust", "heteroskedastic", "hccm"
//   - "newey-west", "bartlett" (kernel HAC)
//   - "one-way" (one-way clustered)
//
// The GMM covariance is not in the name registry; IVGMM constructs it
// directly through NewGMM with the final weighting matrix.
//
// Every estimator enumerates a fixed configuration schema; unknown keys and
// wrongly typed values are rejected at construction.
package covariance
