package iv_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/ivreg/iv"
)

// simulate draws a deterministic endogenous design: two strong instruments,
// one endogenous regressor, true parameters (1, 0.5).
//
//	z1, z2, v, e ~ N(0,1)
//	xEnd = z1 + z2 + v
//	y    = 1 + 0.5·xEnd + 0.8·v + e
func simulate(n int, seed int64) (y, x, z *mat.Dense) {
	rng := rand.New(rand.NewSource(seed))

	y = mat.NewDense(n, 1, nil)
	x = mat.NewDense(n, 2, nil)
	z = mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		z1 := rng.NormFloat64()
		z2 := rng.NormFloat64()
		v := rng.NormFloat64()
		e := rng.NormFloat64()
		xEnd := z1 + z2 + v

		x.Set(i, 0, 1)
		x.Set(i, 1, xEnd)
		z.Set(i, 0, 1)
		z.Set(i, 1, z1)
		z.Set(i, 2, z2)
		y.Set(i, 0, 1+0.5*xEnd+0.8*v+e)
	}

	return y, x, z
}

func paramsEqual(t *testing.T, want, got *mat.Dense, delta float64, msg string) {
	t.Helper()
	wr, _ := want.Dims()
	gr, _ := got.Dims()
	require.Equal(t, wr, gr, msg)
	for i := 0; i < wr; i++ {
		assert.InDelta(t, want.At(i, 0), got.At(i, 0), delta, msg)
	}
}

func TestNewModel_DimensionErrors(t *testing.T) {
	y, x, z := simulate(20, 1)

	_, err := iv.NewModel(nil, x, z)
	assert.ErrorIs(t, err, iv.ErrDimensionMismatch, "nil outcome")

	wide := mat.NewDense(20, 2, nil)
	_, err = iv.NewModel(wide, x, z)
	assert.ErrorIs(t, err, iv.ErrDimensionMismatch, "two-column outcome")

	short := mat.NewDense(10, 1, nil)
	_, err = iv.NewModel(short, x, z)
	assert.ErrorIs(t, err, iv.ErrDimensionMismatch, "row mismatch")

	single := mat.NewDense(20, 1, nil)
	for i := 0; i < 20; i++ {
		single.Set(i, 0, z.At(i, 1))
	}
	_, err = iv.NewModel(y, x, single)
	assert.ErrorIs(t, err, iv.ErrDimensionMismatch, "fewer instruments than regressors")
}

func TestNewModel_RankDeficient(t *testing.T) {
	y, x, z := simulate(30, 2)

	dup := mat.NewDense(30, 3, nil)
	for i := 0; i < 30; i++ {
		dup.Set(i, 0, x.At(i, 0))
		dup.Set(i, 1, x.At(i, 1))
		dup.Set(i, 2, 2*x.At(i, 1)) // collinear with column 1
	}
	_, err := iv.NewModel(y, dup, z)
	assert.ErrorIs(t, err, iv.ErrRankDeficient, "collinear regressors")

	dupz := mat.NewDense(30, 4, nil)
	for i := 0; i < 30; i++ {
		for j := 0; j < 3; j++ {
			dupz.Set(i, j, z.At(i, j))
		}
		dupz.Set(i, 3, z.At(i, 1)+z.At(i, 2))
	}
	_, err = iv.NewModel(y, x, dupz)
	assert.ErrorIs(t, err, iv.ErrRankDeficient, "collinear instruments")
}

// TestNewModel_Classification exercises all three exogeneity rules at once:
// a constant column, a column shared verbatim with the instruments, a
// column inside the instrument span, and a genuinely endogenous column.
func TestNewModel_Classification(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	n := 60

	y := mat.NewDense(n, 1, nil)
	x := mat.NewDense(n, 4, nil)
	z := mat.NewDense(n, 4, nil)
	for i := 0; i < n; i++ {
		z1 := rng.NormFloat64()
		z2 := rng.NormFloat64()
		z3 := rng.NormFloat64()
		v := rng.NormFloat64()
		xEnd := z1 + z3 + v

		z.Set(i, 0, 1)
		z.Set(i, 1, z1)
		z.Set(i, 2, z2)
		z.Set(i, 3, z3)

		x.Set(i, 0, 1)          // constant
		x.Set(i, 1, z1)         // identical to an instrument
		x.Set(i, 2, z1+2*z2)    // inside the instrument span
		x.Set(i, 3, xEnd)       // endogenous
		y.Set(i, 0, 1+0.5*xEnd+0.8*v+rng.NormFloat64())
	}

	model, err := iv.NewModel(y, x, z)
	require.NoError(t, err)

	assert.True(t, model.HasConstant())
	assert.Equal(t, []bool{true, true, true, false}, model.RegressorIsExog())
}

func TestModel_NoConstant(t *testing.T) {
	y, x, z := simulate(40, 4)

	noConst := mat.NewDense(40, 1, nil)
	zSlim := mat.NewDense(40, 2, nil)
	for i := 0; i < 40; i++ {
		noConst.Set(i, 0, x.At(i, 1))
		zSlim.Set(i, 0, z.At(i, 1))
		zSlim.Set(i, 1, z.At(i, 2))
	}

	model, err := iv.NewModel(y, noConst, zSlim)
	require.NoError(t, err)
	assert.False(t, model.HasConstant())
}

// TestModel_InputsCopied verifies construction snapshots the data: mutating
// the caller's matrices afterwards must not change the model.
func TestModel_InputsCopied(t *testing.T) {
	y, x, z := simulate(25, 5)

	model, err := iv.NewModel(y, x, z)
	require.NoError(t, err)

	before := model.Exog().At(0, 1)
	x.Set(0, 1, before+100)
	assert.Equal(t, before, model.Exog().At(0, 1))

	flags := model.RegressorIsExog()
	flags[0] = !flags[0]
	assert.NotEqual(t, flags[0], model.RegressorIsExog()[0])
}

func TestModel_Dimensions(t *testing.T) {
	y, x, z := simulate(33, 6)

	model, err := iv.NewModel(y, x, z)
	require.NoError(t, err)

	assert.Equal(t, 33, model.Nobs())
	assert.Equal(t, 2, model.NumRegressors())
	assert.Equal(t, 3, model.NumInstruments())
}
