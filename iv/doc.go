// Package iv estimates linear regression models with endogenous regressors
// by instrumental-variable methods: Two-Stage Least Squares (IV2SLS),
// Limited-Information Maximum Likelihood and the wider κ-class (IVLIML),
// and iterated Generalized Method of Moments (IVGMM).
//
// 🚀 What is IV estimation?
//
//	When a regressor is correlated with the error term, least squares is
//	inconsistent. Instruments — variables correlated with the offending
//	regressor but not with the error — restore identification. 2SLS is the
//	baseline, LIML adds a data-dependent shrinkage parameter κ, and GMM
//	re-weights the moment conditions for efficiency under general error
//	structures.
//
// ⚙️ Usage:
//
//	model, err := iv.NewIV2SLS(endog, exog, instruments) // n×1, n×k, n×m
//	res, err := model.Fit(nil)                           // robust covariance
//	res.Params(), res.StdErrors(), res.PValues(), res.RSquared()
//
// Construction validates the structural requirements once: conformable
// shapes, full column rank of both the regressor and instrument matrices,
// and a per-regressor exogeneity classification used by LIML. All three
// estimators expose their closed-form solution as a pure package-level
// function (Estimate2SLS, EstimateKClass, EstimateGMM) that performs no
// validation, so resampling procedures can reuse it on raw matrices.
//
// Fit resolves the covariance estimator by name through the covariance
// package; IVGMM resolves its weighting strategy by name through the
// weights package. Both resolutions fail fast on unknown names or options.
//
// Everything is synchronous, deterministic, and free of I/O. Results
// memoize their derived statistics; a single Results value must not have
// its first accessor calls race across goroutines.
package iv
