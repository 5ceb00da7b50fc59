// SPDX-License-Identifier: MIT
// Package linalg: sentinel error set. All kernels return these sentinels
// (possibly wrapped with operation context via %w) and tests check them
// through errors.Is. No kernel panics on user-triggered conditions.

package linalg

import "errors"

var (
	// ErrFactorization indicates that an underlying SVD or eigendecomposition
	// failed to converge for the given input.
	ErrFactorization = errors.New("linalg: factorization failed")

	// ErrNonSquare signals that a square matrix was required but the input
	// has different row and column counts.
	ErrNonSquare = errors.New("linalg: matrix is not square")

	// ErrNotPositiveDefinite is returned by InvSqrtH when an eigenvalue is
	// not strictly positive within tolerance, so the inverse square root
	// does not exist.
	ErrNotPositiveDefinite = errors.New("linalg: matrix is not positive definite")

	// ErrEmptyMatrix indicates a matrix with zero rows or zero columns where
	// a non-empty one is required.
	ErrEmptyMatrix = errors.New("linalg: empty matrix")
)
