// Package iv: estimation results containers.

package iv

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/katalvlaran/ivreg/weights"
)

// Results holds the point estimates and the fitted covariance of a single
// Fit call. Derived statistics (standard errors, t-stats, p-values) are
// computed on first access and cached; the cache is owned by a single
// goroutine, so concurrent first access needs external synchronization.
type Results struct {
	params  *mat.Dense
	cov     *mat.Dense
	model   *Model
	covType string
	r2      float64
	residSS float64
	totalSS float64
	kappa   float64

	stdErrors *mat.Dense
	tstats    *mat.Dense
	pvalues   *mat.Dense
}

func newResults(params, cov *mat.Dense, r2 float64, covType string, residSS, totalSS, kappa float64, model *Model) *Results {
	return &Results{
		params:  params,
		cov:     cov,
		model:   model,
		covType: covType,
		r2:      r2,
		residSS: residSS,
		totalSS: totalSS,
		kappa:   kappa,
	}
}

// Params returns the k×1 parameter estimates.
func (r *Results) Params() *mat.Dense { return r.params }

// Cov returns the k×k estimated covariance of the parameters.
func (r *Results) Cov() *mat.Dense { return r.cov }

// Resids returns the n×1 model residuals at the estimated parameters.
func (r *Results) Resids() *mat.Dense { return r.model.Residuals(r.params) }

// Nobs returns the number of observations.
func (r *Results) Nobs() int { return r.model.Nobs() }

// DFModel returns the model degrees of freedom, the regressor count.
func (r *Results) DFModel() int { return r.model.NumRegressors() }

// DFResid returns the residual degrees of freedom, n−k.
func (r *Results) DFResid() int { return r.model.Nobs() - r.model.NumRegressors() }

// RSquared returns the coefficient of determination, 1 − residSS/totalSS.
func (r *Results) RSquared() float64 { return r.r2 }

// RSquaredAdj returns the R² adjusted for the regressor count.
func (r *Results) RSquaredAdj() float64 {
	n, k := float64(r.Nobs()), float64(r.DFModel())

	return 1 - ((n-1)/(n-k))*(1-r.r2)
}

// CovType returns the name of the covariance estimator used.
func (r *Results) CovType() string { return r.covType }

// TotalSS returns the total sum of squares, demeaned when the model
// contains a constant.
func (r *Results) TotalSS() float64 { return r.totalSS }

// ResidSS returns the residual sum of squares.
func (r *Results) ResidSS() float64 { return r.residSS }

// Kappa returns the κ the estimate was computed with: the LIML eigenvalue
// or the user-supplied value for κ-class fits, exactly 1 otherwise.
func (r *Results) Kappa() float64 { return r.kappa }

// StdErrors returns the k×1 parameter standard errors, the square roots of
// the covariance diagonal.
func (r *Results) StdErrors() *mat.Dense {
	if r.stdErrors == nil {
		k, _ := r.params.Dims()
		se := mat.NewDense(k, 1, nil)
		for i := 0; i < k; i++ {
			se.Set(i, 0, math.Sqrt(r.cov.At(i, i)))
		}
		r.stdErrors = se
	}

	return r.stdErrors
}

// TStats returns the k×1 parameter t-statistics.
func (r *Results) TStats() *mat.Dense {
	if r.tstats == nil {
		se := r.StdErrors()
		k, _ := r.params.Dims()
		ts := mat.NewDense(k, 1, nil)
		for i := 0; i < k; i++ {
			ts.Set(i, 0, r.params.At(i, 0)/se.At(i, 0))
		}
		r.tstats = ts
	}

	return r.tstats
}

// PValues returns the k×1 two-sided p-values of the t-statistics under the
// standard normal.
func (r *Results) PValues() *mat.Dense {
	if r.pvalues == nil {
		ts := r.TStats()
		k, _ := r.params.Dims()
		pv := mat.NewDense(k, 1, nil)
		for i := 0; i < k; i++ {
			pv.Set(i, 0, 2-2*distuv.UnitNormal.CDF(math.Abs(ts.At(i, 0))))
		}
		r.pvalues = pv
	}

	return r.pvalues
}

// GMMResults extends Results with the state of the GMM iteration.
type GMMResults struct {
	Results

	weightMatrix *mat.Dense
	weightType   string
	weightConfig weights.Config
	iterations   int
}

// WeightMatrix returns the m×m moment weight used at the final iteration.
func (r *GMMResults) WeightMatrix() *mat.Dense { return r.weightMatrix }

// WeightType returns the name of the moment-weight strategy.
func (r *GMMResults) WeightType() string { return r.weightType }

// WeightConfig returns the fully resolved weight strategy configuration.
func (r *GMMResults) WeightConfig() weights.Config { return r.weightConfig }

// Iterations returns the number of weighted GMM updates performed.
func (r *GMMResults) Iterations() int { return r.iterations }
