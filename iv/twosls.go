// Package iv: the baseline two-stage least-squares estimator.

package iv

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/ivreg/covariance"
	"github.com/katalvlaran/ivreg/linalg"
)

// IV2SLS is the baseline instrumental-variable estimator. Construction
// validates the model; Fit produces a Results container.
type IV2SLS struct {
	model *Model
}

// NewIV2SLS builds and validates the model from the outcome (n×1),
// regressor (n×k), and instrument (n×m) matrices.
func NewIV2SLS(endog, exog, instruments *mat.Dense) (*IV2SLS, error) {
	model, err := NewModel(endog, exog, instruments)
	if err != nil {
		return nil, err
	}

	return &IV2SLS{model: model}, nil
}

// Model returns the validated model.
func (e *IV2SLS) Model() *Model { return e.model }

// Estimate2SLS computes the closed-form two-stage least-squares estimate
//
//	β = (XᵀZ·Z⁺X)⁻¹ · (XᵀZ·Z⁺y)
//
// without explicitly forming first-stage fitted values. It performs no
// validation and has no side effects, so resampling procedures can call it
// directly on raw matrices.
func Estimate2SLS(x, y, z *mat.Dense) (*mat.Dense, error) {
	pinvz, err := linalg.PInv(z)
	if err != nil {
		return nil, err
	}

	var xpz mat.Dense // k×m
	xpz.Mul(x.T(), z)

	var pzx, a mat.Dense // k×k
	pzx.Mul(pinvz, x)
	a.Mul(&xpz, &pzx)

	var ainv mat.Dense
	if err = ainv.Inverse(&a); err != nil {
		return nil, fmt.Errorf("iv: 2sls normal equations: %w", err)
	}

	var pzy, b mat.Dense // k×1
	pzy.Mul(pinvz, y)
	b.Mul(&xpz, &pzy)

	var params mat.Dense
	params.Mul(&ainv, &b)

	return &params, nil
}

// Fit estimates the parameters, invokes the named covariance estimator, and
// assembles the Results. A nil opts means DefaultFitOptions().
//
// Errors: unknown covariance names or options surface as the covariance
// package sentinels; numerical failures propagate wrapped.
func (e *IV2SLS) Fit(opts *FitOptions) (*Results, error) {
	o := resolveFitOptions(opts)
	y, x, z := e.model.endog, e.model.exog, e.model.instruments

	params, err := Estimate2SLS(x, y, z)
	if err != nil {
		return nil, err
	}

	est, err := covariance.New(o.CovType, x, y, z, params, o.CovConfig)
	if err != nil {
		return nil, err
	}

	eps := e.model.Residuals(params)
	residSS, totalSS, r2 := e.model.fitStatistics(eps)

	return newResults(params, est.Cov(), r2, o.CovType, residSS, totalSS, 1, e.model), nil
}
