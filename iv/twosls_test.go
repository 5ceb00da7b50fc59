package iv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/ivreg/covariance"
	"github.com/katalvlaran/ivreg/iv"
)

// ols solves (XᵀX)β = Xᵀy directly, the benchmark for the Z = X case.
func ols(t *testing.T, y, x *mat.Dense) *mat.Dense {
	t.Helper()

	var xtx, xty mat.Dense
	xtx.Mul(x.T(), x)
	xty.Mul(x.T(), y)

	var inv mat.Dense
	require.NoError(t, inv.Inverse(&xtx))

	var params mat.Dense
	params.Mul(&inv, &xty)

	return &params
}

// TestEstimate2SLS_ReducesToOLS checks that instrumenting a design with
// itself reproduces ordinary least squares.
func TestEstimate2SLS_ReducesToOLS(t *testing.T) {
	y, x, _ := simulate(80, 10)

	got, err := iv.Estimate2SLS(x, y, x)
	require.NoError(t, err)

	paramsEqual(t, ols(t, y, x), got, 1e-10, "2sls with z=x")
}

func TestIV2SLS_Fit(t *testing.T) {
	y, x, z := simulate(500, 11)

	est, err := iv.NewIV2SLS(y, x, z)
	require.NoError(t, err)

	res, err := est.Fit(nil)
	require.NoError(t, err)

	truth := mat.NewDense(2, 1, []float64{1, 0.5})
	paramsEqual(t, truth, res.Params(), 0.3, "2sls point estimates")

	r, c := res.Cov().Dims()
	assert.Equal(t, 2, r)
	assert.Equal(t, 2, c)
	assert.Equal(t, covariance.Robust, res.CovType())
	assert.Greater(t, res.RSquared(), 0.0)
	assert.LessOrEqual(t, res.RSquared(), 1.0)
	assert.Equal(t, 1.0, res.Kappa())
}

func TestIV2SLS_CovTypeSelection(t *testing.T) {
	y, x, z := simulate(120, 12)

	est, err := iv.NewIV2SLS(y, x, z)
	require.NoError(t, err)

	res, err := est.Fit(&iv.FitOptions{CovType: covariance.Homoskedastic})
	require.NoError(t, err)
	assert.Equal(t, covariance.Homoskedastic, res.CovType())

	_, err = est.Fit(&iv.FitOptions{CovType: "bogus"})
	assert.ErrorIs(t, err, covariance.ErrUnknownEstimator)
}

// TestIV2SLS_CovConfigPropagates routes estimator options through Fit; an
// unknown key must fail the whole call.
func TestIV2SLS_CovConfigPropagates(t *testing.T) {
	y, x, z := simulate(120, 13)

	est, err := iv.NewIV2SLS(y, x, z)
	require.NoError(t, err)

	res, err := est.Fit(&iv.FitOptions{
		CovType:   covariance.NeweyWest,
		CovConfig: covariance.Config{"bw": 4},
	})
	require.NoError(t, err)
	assert.Equal(t, covariance.NeweyWest, res.CovType())

	_, err = est.Fit(&iv.FitOptions{
		CovType:   covariance.NeweyWest,
		CovConfig: covariance.Config{"bandwidth": 4},
	})
	assert.ErrorIs(t, err, covariance.ErrUnknownConfigKey)
}

// TestIV2SLS_DifferentCovsSameParams: the covariance choice must not touch
// the point estimates.
func TestIV2SLS_DifferentCovsSameParams(t *testing.T) {
	y, x, z := simulate(150, 14)

	est, err := iv.NewIV2SLS(y, x, z)
	require.NoError(t, err)

	robust, err := est.Fit(&iv.FitOptions{CovType: covariance.Robust})
	require.NoError(t, err)
	homo, err := est.Fit(&iv.FitOptions{CovType: covariance.Homoskedastic})
	require.NoError(t, err)

	paramsEqual(t, robust.Params(), homo.Params(), 1e-14, "params across cov types")
}
