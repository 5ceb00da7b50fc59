// Package iv: the LIML / κ-class estimator.

package iv

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/ivreg/covariance"
	"github.com/katalvlaran/ivreg/linalg"
)

// IVLIML is the κ-class estimator. With a fixed, user-supplied κ it is the
// general k-class family (κ=1 reproduces 2SLS, κ=0 ordinary least squares);
// without one, κ is recomputed at each Fit as the LIML eigenvalue.
type IVLIML struct {
	model    *Model
	kappa    float64
	hasKappa bool
}

// NewIVLIML builds a LIML estimator whose κ is computed per fit from the
// generalized eigenvalue problem in estimateKappa.
func NewIVLIML(endog, exog, instruments *mat.Dense) (*IVLIML, error) {
	model, err := NewModel(endog, exog, instruments)
	if err != nil {
		return nil, err
	}

	return &IVLIML{model: model}, nil
}

// NewKClass builds a κ-class estimator with a fixed κ.
//
// Errors: ErrBadKappa when κ is NaN or ±Inf, alongside the usual model
// construction errors.
func NewKClass(endog, exog, instruments *mat.Dense, kappa float64) (*IVLIML, error) {
	if math.IsNaN(kappa) || math.IsInf(kappa, 0) {
		return nil, fmt.Errorf("iv: kappa=%v: %w", kappa, ErrBadKappa)
	}

	model, err := NewModel(endog, exog, instruments)
	if err != nil {
		return nil, err
	}

	return &IVLIML{model: model, kappa: kappa, hasKappa: true}, nil
}

// Model returns the validated model.
func (e *IVLIML) Model() *Model { return e.model }

// EstimateKClass computes the closed-form κ-class estimate
//
//	β(κ) = [(1−κ)XᵀX + κ·XᵀZ·Z⁺X]⁻¹ · [(1−κ)Xᵀy + κ·XᵀZ·Z⁺y]
//
// It performs no validation and has no side effects, so resampling
// procedures can call it directly on raw matrices.
func EstimateKClass(x, y, z *mat.Dense, kappa float64) (*mat.Dense, error) {
	pinvz, err := linalg.PInv(z)
	if err != nil {
		return nil, err
	}

	var xpz mat.Dense // k×m
	xpz.Mul(x.T(), z)

	// p1 = (1−κ)·XᵀX + κ·XᵀZ·Z⁺X
	var xtx, pzx, proj, p1 mat.Dense
	xtx.Mul(x.T(), x)
	xtx.Scale(1-kappa, &xtx)
	pzx.Mul(pinvz, x)
	proj.Mul(&xpz, &pzx)
	proj.Scale(kappa, &proj)
	p1.Add(&xtx, &proj)

	// p2 = (1−κ)·Xᵀy + κ·XᵀZ·Z⁺y
	var xty, pzy, projy, p2 mat.Dense
	xty.Mul(x.T(), y)
	xty.Scale(1-kappa, &xty)
	pzy.Mul(pinvz, y)
	projy.Mul(&xpz, &pzy)
	projy.Scale(kappa, &projy)
	p2.Add(&xty, &projy)

	var p1inv mat.Dense
	if err = p1inv.Inverse(&p1); err != nil {
		return nil, fmt.Errorf("iv: k-class normal equations: %w", err)
	}

	var params mat.Dense
	params.Mul(&p1inv, &p2)

	return &params, nil
}

// estimateKappa computes the LIML shrinkage parameter: form E = [y, X_endog],
// annihilate it by the instrument space and by the exogenous-regressor
// space, and take the smallest eigenvalue of the symmetrized sandwich
//
//	(EᵀM_Z E)^{-1/2} · (EᵀM_{X_exog}E) · (EᵀM_Z E)^{-1/2}.
//
// The projection onto an empty exogenous block is zero, so with no
// exogenous regressors the second annihilator is the identity.
func (e *IVLIML) estimateKappa() (float64, error) {
	m := e.model
	y, x, z := m.endog, m.exog, m.instruments

	var endogCols, exogCols []int
	for j, isExog := range m.regressorIsExog {
		if isExog {
			exogCols = append(exogCols, j)
		} else {
			endogCols = append(endogCols, j)
		}
	}

	ev := hstack(y, takeCols(x, endogCols))

	ez, err := annihilate(ev, z)
	if err != nil {
		return 0, err
	}
	ex1 := ev
	if len(exogCols) > 0 {
		if ex1, err = annihilate(ev, takeCols(x, exogCols)); err != nil {
			return 0, err
		}
	}

	var g1, g2 mat.Dense
	g1.Mul(ez.T(), ez)
	g2.Mul(ex1.T(), ex1)

	b, err := linalg.InvSqrtH(&g1)
	if err != nil {
		return 0, err
	}

	var half, q mat.Dense
	half.Mul(b, &g2)
	q.Mul(&half, b)

	// Symmetrize before the eigendecomposition; q is symmetric up to
	// floating-point noise.
	n, _ := q.Dims()
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			sym.SetSym(i, j, (q.At(i, j)+q.At(j, i))/2)
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(sym, false); !ok {
		return 0, fmt.Errorf("iv: kappa eigenproblem: %w", linalg.ErrFactorization)
	}

	// Values are ascending; κ is the smallest.
	return es.Values(nil)[0], nil
}

// Fit estimates the parameters with the fixed or data-dependent κ, invokes
// the named covariance estimator, and assembles the Results (which report
// the κ actually used). A nil opts means DefaultFitOptions().
func (e *IVLIML) Fit(opts *FitOptions) (*Results, error) {
	o := resolveFitOptions(opts)
	y, x, z := e.model.endog, e.model.exog, e.model.instruments

	kappa := e.kappa
	if !e.hasKappa {
		var err error
		if kappa, err = e.estimateKappa(); err != nil {
			return nil, err
		}
	}

	params, err := EstimateKClass(x, y, z, kappa)
	if err != nil {
		return nil, err
	}

	est, err := covariance.New(o.CovType, x, y, z, params, o.CovConfig)
	if err != nil {
		return nil, err
	}

	eps := e.model.Residuals(params)
	residSS, totalSS, r2 := e.model.fitStatistics(eps)

	return newResults(params, est.Cov(), r2, o.CovType, residSS, totalSS, kappa, e.model), nil
}

// annihilate returns a − B·B⁺·a, the residual of projecting each column of
// a onto the column space of b.
func annihilate(a, b *mat.Dense) (*mat.Dense, error) {
	pinvb, err := linalg.PInv(b)
	if err != nil {
		return nil, err
	}

	var coef, fitted, resid mat.Dense
	coef.Mul(pinvb, a)
	fitted.Mul(b, &coef)
	resid.Sub(a, &fitted)

	return &resid, nil
}

// takeCols copies the selected columns of m, in order, into a fresh matrix.
// An empty selection yields an n×0 matrix placeholder, which callers must
// guard against before projecting.
func takeCols(m *mat.Dense, cols []int) *mat.Dense {
	n, _ := m.Dims()
	if len(cols) == 0 {
		return &mat.Dense{}
	}

	out := mat.NewDense(n, len(cols), nil)
	for dst, src := range cols {
		for i := 0; i < n; i++ {
			out.Set(i, dst, m.At(i, src))
		}
	}

	return out
}

// hstack concatenates a (n×p) and b (n×q) column-wise; a zero-sized b is
// treated as absent.
func hstack(a, b *mat.Dense) *mat.Dense {
	n, p := a.Dims()
	br, q := b.Dims()
	if br == 0 || q == 0 {
		return mat.DenseCopyOf(a)
	}

	out := mat.NewDense(n, p+q, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < p; j++ {
			out.Set(i, j, a.At(i, j))
		}
		for j := 0; j < q; j++ {
			out.Set(i, p+j, b.At(i, j))
		}
	}

	return out
}
