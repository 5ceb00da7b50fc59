package linalg_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/ivreg/linalg"
)

const tol = 1e-10

// TestPInv_SquareInvertible verifies that the pseudoinverse of an invertible
// square matrix agrees with the ordinary inverse.
func TestPInv_SquareInvertible(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{4, 7, 2, 6})

	pinv, err := linalg.PInv(a)
	require.NoError(t, err)

	var inv mat.Dense
	require.NoError(t, inv.Inverse(a))

	assert.InDelta(t, inv.At(0, 0), pinv.At(0, 0), tol)
	assert.InDelta(t, inv.At(0, 1), pinv.At(0, 1), tol)
	assert.InDelta(t, inv.At(1, 0), pinv.At(1, 0), tol)
	assert.InDelta(t, inv.At(1, 1), pinv.At(1, 1), tol)
}

// TestPInv_TallMatrix checks the defining Moore–Penrose identity
// A·A⁺·A = A on a tall full-column-rank matrix.
func TestPInv_TallMatrix(t *testing.T) {
	a := mat.NewDense(4, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
		7, 9,
	})

	pinv, err := linalg.PInv(a)
	require.NoError(t, err)

	pr, pc := pinv.Dims()
	assert.Equal(t, 2, pr, "A⁺ must be c×r")
	assert.Equal(t, 4, pc, "A⁺ must be c×r")

	var ap, apa mat.Dense
	ap.Mul(a, pinv)
	apa.Mul(&ap, a)
	for i := 0; i < 4; i++ {
		for j := 0; j < 2; j++ {
			assert.InDelta(t, a.At(i, j), apa.At(i, j), tol, "A·A⁺·A must reproduce A")
		}
	}
}

// TestPInv_EmptyMatrixRejected ensures zero-sized inputs error out instead
// of reaching the SVD.
func TestPInv_EmptyMatrixRejected(t *testing.T) {
	_, err := linalg.PInv(&mat.Dense{})
	assert.ErrorIs(t, err, linalg.ErrEmptyMatrix)
}

// TestRank_FullAndDeficient verifies rank detection on a full-rank and a
// duplicated-column matrix.
func TestRank_FullAndDeficient(t *testing.T) {
	full := mat.NewDense(3, 2, []float64{1, 0, 0, 1, 1, 1})
	r, err := linalg.Rank(full)
	require.NoError(t, err)
	assert.Equal(t, 2, r)

	deficient := mat.NewDense(3, 2, []float64{1, 2, 2, 4, 3, 6})
	r, err = linalg.Rank(deficient)
	require.NoError(t, err)
	assert.Equal(t, 1, r, "proportional columns collapse to rank 1")
}

// TestRank_ZeroMatrix checks that an all-zero matrix has rank 0.
func TestRank_ZeroMatrix(t *testing.T) {
	r, err := linalg.Rank(mat.NewDense(3, 3, nil))
	require.NoError(t, err)
	assert.Equal(t, 0, r)
}

// TestInvSqrtH_RoundTrip verifies B·A·B ≈ I for B = A^{-1/2} on an SPD input.
func TestInvSqrtH_RoundTrip(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{4, 1, 1, 3})

	b, err := linalg.InvSqrtH(a)
	require.NoError(t, err)

	var ba, id mat.Dense
	ba.Mul(b, a)
	id.Mul(&ba, b)
	assert.InDelta(t, 1, id.At(0, 0), tol)
	assert.InDelta(t, 0, id.At(0, 1), tol)
	assert.InDelta(t, 0, id.At(1, 0), tol)
	assert.InDelta(t, 1, id.At(1, 1), tol)
}

// TestInvSqrtH_NotPositiveDefinite ensures a matrix with a non-positive
// eigenvalue is rejected.
func TestInvSqrtH_NotPositiveDefinite(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{1, 2, 2, 1}) // eigenvalues 3 and -1

	_, err := linalg.InvSqrtH(a)
	assert.ErrorIs(t, err, linalg.ErrNotPositiveDefinite)
}

// TestInvSqrtH_NonSquareRejected ensures rectangular inputs are rejected.
func TestInvSqrtH_NonSquareRejected(t *testing.T) {
	_, err := linalg.InvSqrtH(mat.NewDense(2, 3, nil))
	assert.ErrorIs(t, err, linalg.ErrNonSquare)
}

// TestHasConstant covers the three cases: unit column, non-unit constant
// column, and no constant column (including an all-zero column, which does
// not count as a constant).
func TestHasConstant(t *testing.T) {
	ones := mat.NewDense(3, 2, []float64{1, 5, 1, 6, 1, 7})
	assert.True(t, linalg.HasConstant(ones))

	twos := mat.NewDense(3, 2, []float64{5, 2, 6, 2, 7, 2})
	assert.True(t, linalg.HasConstant(twos))

	none := mat.NewDense(3, 2, []float64{1, 5, 2, 6, 3, 7})
	assert.False(t, linalg.HasConstant(none))

	zeros := mat.NewDense(3, 2, []float64{0, 5, 0, 6, 0, 7})
	assert.False(t, linalg.HasConstant(zeros), "all-zero column is not a constant")
}
