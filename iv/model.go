// Package iv: the validated three-matrix value object shared by all
// estimators. Validation runs exactly once, at construction; the model is
// immutable afterwards.

package iv

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/katalvlaran/ivreg/linalg"
)

// exogTol is the relative residual-norm threshold below which a regressor
// column counts as already explained by the instruments: (eᵀe)/(xᵀx) < 1e-8.
const exogTol = 1e-8

// Model owns the outcome (n×1), regressor (n×k), and instrument (n×m)
// matrices, plus the flags derived at construction: whether a constant
// column is present and, per regressor column, whether it is exogenous.
//
// Inputs are copied at construction; accessors return the internal
// matrices, which callers must treat as read-only.
type Model struct {
	endog       *mat.Dense
	exog        *mat.Dense
	instruments *mat.Dense

	hasConstant     bool
	regressorIsExog []bool
}

// NewModel validates shapes (outcome n×1, regressors n×k, instruments n×m
// with matching n and m ≥ k ≥ 1), checks that both the regressor and
// instrument matrices have full column rank, and classifies each regressor
// column as exogenous or endogenous.
//
// A column is exogenous when it is a non-zero constant, element-wise
// identical to an instrument column, or its projection residual onto the
// instrument space is negligible relative to its own norm (< 1e-8).
//
// Errors:
//   - ErrDimensionMismatch — non-conformable inputs.
//   - ErrRankDeficient     — rank(X) < k or rank(Z) < m.
//   - wrapped linalg errors on SVD failure.
func NewModel(endog, exog, instruments *mat.Dense) (*Model, error) {
	if endog == nil || exog == nil || instruments == nil {
		return nil, fmt.Errorf("iv: nil input matrix: %w", ErrDimensionMismatch)
	}

	n, yc := endog.Dims()
	xn, k := exog.Dims()
	zn, m := instruments.Dims()
	switch {
	case n == 0 || k == 0 || m == 0:
		return nil, fmt.Errorf("iv: empty input matrix: %w", ErrDimensionMismatch)
	case yc != 1:
		return nil, fmt.Errorf("iv: outcome must be n×1, got n×%d: %w", yc, ErrDimensionMismatch)
	case xn != n || zn != n:
		return nil, fmt.Errorf("iv: observation counts differ (%d, %d, %d): %w", n, xn, zn, ErrDimensionMismatch)
	case m < k:
		return nil, fmt.Errorf("iv: %d instruments for %d regressors: %w", m, k, ErrDimensionMismatch)
	}

	rx, err := linalg.Rank(exog)
	if err != nil {
		return nil, err
	}
	if rx < k {
		return nil, fmt.Errorf("iv: regressors rank %d < %d: %w", rx, k, ErrRankDeficient)
	}
	rz, err := linalg.Rank(instruments)
	if err != nil {
		return nil, err
	}
	if rz < m {
		return nil, fmt.Errorf("iv: instruments rank %d < %d: %w", rz, m, ErrRankDeficient)
	}

	mod := &Model{
		endog:       mat.DenseCopyOf(endog),
		exog:        mat.DenseCopyOf(exog),
		instruments: mat.DenseCopyOf(instruments),
		hasConstant: linalg.HasConstant(exog),
	}
	if mod.regressorIsExog, err = classifyRegressors(mod.exog, mod.instruments); err != nil {
		return nil, err
	}

	return mod, nil
}

// classifyRegressors runs the three-step exogeneity test for each column
// of x against the instrument space spanned by z.
func classifyRegressors(x, z *mat.Dense) ([]bool, error) {
	n, k := x.Dims()
	_, m := z.Dims()

	pinvz, err := linalg.PInv(z)
	if err != nil {
		return nil, err
	}

	isExog := make([]bool, k)
cols:
	for j := 0; j < k; j++ {
		// 1. Non-zero constant column.
		first := x.At(0, j)
		constant := first != 0
		for i := 1; constant && i < n; i++ {
			constant = x.At(i, j) == first
		}
		if constant {
			isExog[j] = true
			continue
		}

		// 2. Element-wise identical to an instrument column.
		for jz := 0; jz < m; jz++ {
			same := true
			for i := 0; i < n; i++ {
				if x.At(i, j) != z.At(i, jz) {
					same = false
					break
				}
			}
			if same {
				isExog[j] = true
				continue cols
			}
		}

		// 3. Projection-residual test: e = x − Z·Z⁺·x.
		xc := x.ColView(j)

		var coef mat.VecDense // m×1
		coef.MulVec(pinvz, xc)

		var fitted, e mat.VecDense
		fitted.MulVec(z, &coef)
		e.SubVec(xc, &fitted)

		isExog[j] = mat.Dot(&e, &e)/mat.Dot(xc, xc) < exogTol
	}

	return isExog, nil
}

// Residuals returns y − X·params as a fresh n×1 matrix.
func (m *Model) Residuals(params *mat.Dense) *mat.Dense {
	var eps mat.Dense
	eps.Mul(m.exog, params)
	eps.Sub(m.endog, &eps)

	return &eps
}

// fitStatistics computes the residual and total sums of squares, and R².
// The total sum of squares is centered on the outcome mean only when the
// model carries a constant column.
func (m *Model) fitStatistics(eps *mat.Dense) (residSS, totalSS, r2 float64) {
	n, _ := m.endog.Dims()

	mu := 0.0
	if m.hasConstant {
		mu = stat.Mean(mat.Col(nil, 0, m.endog), nil)
	}
	for i := 0; i < n; i++ {
		d := m.endog.At(i, 0) - mu
		totalSS += d * d
	}
	residSS = mat.Dot(eps.ColView(0), eps.ColView(0))

	return residSS, totalSS, 1 - residSS/totalSS
}

// Endog returns the n×1 outcome matrix (read-only).
func (m *Model) Endog() *mat.Dense { return m.endog }

// Exog returns the n×k regressor matrix (read-only).
func (m *Model) Exog() *mat.Dense { return m.exog }

// Instruments returns the n×m instrument matrix (read-only).
func (m *Model) Instruments() *mat.Dense { return m.instruments }

// HasConstant reports whether a regressor column is a non-zero constant.
func (m *Model) HasConstant() bool { return m.hasConstant }

// RegressorIsExog returns a copy of the per-column exogeneity flags.
func (m *Model) RegressorIsExog() []bool {
	out := make([]bool, len(m.regressorIsExog))
	copy(out, m.regressorIsExog)

	return out
}

// Nobs returns the observation count n.
func (m *Model) Nobs() int {
	n, _ := m.endog.Dims()

	return n
}

// NumRegressors returns the regressor count k.
func (m *Model) NumRegressors() int {
	_, k := m.exog.Dims()

	return k
}

// NumInstruments returns the instrument count m.
func (m *Model) NumInstruments() int {
	_, c := m.instruments.Dims()

	return c
}
