package iv_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ivreg/iv"
	"github.com/katalvlaran/ivreg/weights"
)

// TestNewIVGMM_WeightValidatedFirst: a bad strategy name must surface
// before any data validation, even on impossible inputs.
func TestNewIVGMM_WeightValidatedFirst(t *testing.T) {
	_, err := iv.NewIVGMM(nil, nil, nil, "bogus", nil)
	assert.ErrorIs(t, err, weights.ErrUnknownWeightType)

	y, x, z := simulate(40, 30)
	_, err = iv.NewIVGMM(y, x, z, weights.Robust, weights.Config{"nope": 1})
	assert.ErrorIs(t, err, weights.ErrUnknownConfigKey)
}

func TestNewIVGMM_ModelStillValidated(t *testing.T) {
	y, x, _ := simulate(40, 31)

	_, err := iv.NewIVGMM(y, x, nil, weights.Robust, nil)
	assert.ErrorIs(t, err, iv.ErrDimensionMismatch)
}

// TestIVGMM_HomoskedasticEquals2SLS: a weight proportional to ZᵀZ makes
// every weighted update reproduce two-stage least squares, whatever the
// iteration count.
func TestIVGMM_HomoskedasticEquals2SLS(t *testing.T) {
	y, x, z := simulate(200, 32)

	tsls, err := iv.NewIV2SLS(y, x, z)
	require.NoError(t, err)
	base, err := tsls.Fit(nil)
	require.NoError(t, err)

	for _, limit := range []int{1, 2, 5} {
		gmm, err := iv.NewIVGMM(y, x, z, weights.Homoskedastic, nil)
		require.NoError(t, err)

		res, err := gmm.Fit(&iv.FitOptions{IterLimit: limit})
		require.NoError(t, err)
		paramsEqual(t, base.Params(), res.Params(), 1e-8, "homoskedastic gmm vs 2sls")
	}
}

// TestIVGMM_Converges: the quadratic-form norm stops the iteration at or
// before the limit, and the estimates land near the truth.
func TestIVGMM_Converges(t *testing.T) {
	y, x, z := simulate(500, 33)

	gmm, err := iv.NewIVGMM(y, x, z, weights.Robust, nil)
	require.NoError(t, err)

	res, err := gmm.Fit(&iv.FitOptions{IterLimit: 10})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, res.Iterations(), 1)
	assert.LessOrEqual(t, res.Iterations(), 10)

	assert.InDelta(t, 1.0, res.Params().At(0, 0), 0.3)
	assert.InDelta(t, 0.5, res.Params().At(1, 0), 0.3)
}

// TestIVGMM_ResultsSurface checks the GMM-specific result fields.
func TestIVGMM_ResultsSurface(t *testing.T) {
	y, x, z := simulate(150, 34)

	gmm, err := iv.NewIVGMM(y, x, z, weights.Robust, weights.Config{"center": true})
	require.NoError(t, err)

	res, err := gmm.Fit(nil)
	require.NoError(t, err)

	assert.Equal(t, weights.Robust, res.WeightType())
	assert.Equal(t, true, res.WeightConfig()["center"])

	wr, wc := res.WeightMatrix().Dims()
	assert.Equal(t, 3, wr)
	assert.Equal(t, 3, wc)

	// Embedded base results stay available through the wrapper.
	assert.Equal(t, 150, res.Nobs())
	assert.Greater(t, res.RSquared(), 0.0)
	assert.Equal(t, 1.0, res.Kappa())
}

// TestIVGMM_KernelWeights drives the HAC strategy end to end through the
// fit loop.
func TestIVGMM_KernelWeights(t *testing.T) {
	y, x, z := simulate(200, 35)

	gmm, err := iv.NewIVGMM(y, x, z, weights.Kernel,
		weights.Config{"kernel": weights.KernelBartlett, "bw": 4})
	require.NoError(t, err)

	res, err := gmm.Fit(nil)
	require.NoError(t, err)

	assert.InDelta(t, 0.5, res.Params().At(1, 0), 0.3)
	assert.Equal(t, weights.Kernel, res.WeightType())
}
