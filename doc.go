// Package ivreg is an instrumental-variables estimation toolkit:
// single-equation linear models with endogenous regressors, estimated by
// 2SLS, LIML / k-class, and iterated GMM.
//
// 🚀 What is ivreg?
//
//	A pure-Go econometrics library built on gonum that brings together:
//		• Estimators: IV2SLS, IVLIML (and the general k-class), IVGMM
//		• Moment weighting: homoskedastic, robust, HAC kernel, clustered
//		• Covariance: classical, heteroskedasticity-robust, Newey–West, one-way clustered
//		• Results: standard errors, t-stats, p-values, R², κ
//
// ✨ Why choose ivreg?
//
//   - Validate once – models check shapes and column rank at construction
//   - Explicit errors – every failure is a wrapped sentinel, matched with errors.Is
//   - Pure Go – gonum for the dense algebra, no cgo
//   - Composable – estimation kernels are plain functions over matrices,
//     ready for bootstrapping or custom iteration schemes
//
// Everything is organized under four subpackages:
//
//	iv/         — models, estimators, fit options & result containers
//	covariance/ — parameter covariance estimators, resolved by name
//	weights/    — GMM moment-weighting strategies & kernel lag weights
//	linalg/     — shared pseudo-inverse, rank & matrix square-root helpers
//
// Quick start:
//
//	model, err := iv.NewIV2SLS(y, x, z)
//	if err != nil {
//		log.Fatal(err)
//	}
//	res, err := model.Fit(nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(mat.Formatted(res.Params()), mat.Formatted(res.StdErrors()))
//
// See the subpackage docs for the estimator contracts and option schemas.
//
//	go get github.com/katalvlaran/ivreg
package ivreg
