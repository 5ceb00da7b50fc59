// Package iv: the (iterated) GMM estimator.

package iv

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/ivreg/covariance"
	"github.com/katalvlaran/ivreg/weights"
)

// IVGMM estimates β by the generalized method of moments, iterating the
// moment-weighting matrix produced by a weights.Estimator until the
// parameter change falls below FitOptions.Tol or IterLimit is reached.
type IVGMM struct {
	model      *Model
	weight     weights.Estimator
	weightType string
}

// NewIVGMM builds a GMM estimator. The weight strategy and its config are
// validated before any data validation, so a misspelled option surfaces
// even on malformed matrices.
func NewIVGMM(endog, exog, instruments *mat.Dense, weightType string, weightConfig weights.Config) (*IVGMM, error) {
	weight, err := weights.New(weightType, weightConfig)
	if err != nil {
		return nil, err
	}

	model, err := NewModel(endog, exog, instruments)
	if err != nil {
		return nil, err
	}

	return &IVGMM{model: model, weight: weight, weightType: weightType}, nil
}

// Model returns the validated model.
func (e *IVGMM) Model() *Model { return e.model }

// WeightType returns the name the moment-weight strategy was registered
// under.
func (e *IVGMM) WeightType() string { return e.weightType }

// EstimateGMM computes the single-step GMM estimate for a given moment
// weight w:
//
//	β = (XᵀZ·W·ZᵀX)⁻¹ · XᵀZ·W·Zᵀy
//
// Like Estimate2SLS it validates nothing, leaving the caller free to drive
// it inside an iteration or over resampled data.
func EstimateGMM(x, y, z, w *mat.Dense) (*mat.Dense, error) {
	var zpx, zpy mat.Dense // m×k, m×1
	zpx.Mul(z.T(), x)
	zpy.Mul(z.T(), y)

	var xpzw, a mat.Dense
	xpzw.Mul(zpx.T(), w)
	a.Mul(&xpzw, &zpx)

	var ainv mat.Dense
	if err := ainv.Inverse(&a); err != nil {
		return nil, fmt.Errorf("iv: gmm normal equations: %w", err)
	}

	var b, params mat.Dense
	b.Mul(&xpzw, &zpy)
	params.Mul(&ainv, &b)

	return &params, nil
}

// Fit runs the iterated GMM loop. Iteration 1 starts from the identity
// moment weight; each subsequent iteration inverts the strategy's weight
// matrix evaluated at the previous residuals. Convergence is measured as
// ΔβᵀV⁻¹Δβ with V = (XᵀZ/n)·W·(ZᵀX/n)/n frozen at the first weighted
// update. A nil opts means DefaultFitOptions().
func (e *IVGMM) Fit(opts *FitOptions) (*GMMResults, error) {
	o := resolveFitOptions(opts)
	y, x, z := e.model.endog, e.model.exog, e.model.instruments
	n, _ := x.Dims()
	_, m := z.Dims()

	w := identity(m)
	params, err := EstimateGMM(x, y, z, w)
	if err != nil {
		return nil, err
	}
	eps := e.model.Residuals(params)

	var vinv mat.Dense
	norm := math.Inf(1)
	iters := 0
	for i := 1; i <= o.IterLimit && norm > o.Tol; i++ {
		wm, err := e.weight.WeightMatrix(x, z, eps)
		if err != nil {
			return nil, err
		}
		if err = w.Inverse(wm); err != nil {
			return nil, fmt.Errorf("iv: moment weight matrix: %w", err)
		}

		prev := params
		if params, err = EstimateGMM(x, y, z, w); err != nil {
			return nil, err
		}
		eps = e.model.Residuals(params)
		iters = i

		if i == 1 {
			// V is fixed at the first weighted update so the convergence
			// metric stays comparable across iterations.
			var zpx, g, wg, v mat.Dense
			zpx.Mul(z.T(), x)
			g.Scale(1/float64(n), &zpx)
			wg.Mul(w, &g)
			v.Mul(g.T(), &wg)
			v.Scale(1/float64(n), &v)
			if err = vinv.Inverse(&v); err != nil {
				return nil, fmt.Errorf("iv: convergence metric: %w", err)
			}
		}

		var delta, vd mat.Dense
		delta.Sub(params, prev)
		vd.Mul(&vinv, &delta)
		norm = mat.Dot(delta.ColView(0), vd.ColView(0))
	}

	est, err := covariance.NewGMM(x, y, z, params, w, o.CovConfig)
	if err != nil {
		return nil, err
	}

	residSS, totalSS, r2 := e.model.fitStatistics(eps)

	res := newResults(params, est.Cov(), r2, o.CovType, residSS, totalSS, 1, e.model)

	return &GMMResults{
		Results:      *res,
		weightMatrix: mat.DenseCopyOf(w),
		weightType:   e.weightType,
		weightConfig: e.weight.Config(),
		iterations:   iters,
	}, nil
}

// identity returns a fresh m×m identity matrix.
func identity(m int) *mat.Dense {
	id := mat.NewDense(m, m, nil)
	for i := 0; i < m; i++ {
		id.Set(i, i, 1)
	}

	return id
}
