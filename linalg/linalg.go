// SPDX-License-Identifier: MIT
// Package linalg: kernel implementations. Each kernel validates its input,
// delegates the factorization to gonum, and post-processes with a
// deterministic loop order.

package linalg

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// machEps is the double-precision machine epsilon, used to derive the
// singular-value / eigenvalue cutoff tol = max(r,c)·machEps·σ_max.
const machEps = 2.220446049250313e-16

// PInv computes the Moore–Penrose pseudoinverse A⁺ of an r×c matrix via a
// thin SVD: A = U·Σ·Vᵀ ⇒ A⁺ = V·Σ⁺·Uᵀ, where Σ⁺ inverts singular values
// above the cutoff and zeroes the rest.
//
// The input is never mutated; the result is a freshly allocated c×r Dense.
//
// Errors:
//   - ErrEmptyMatrix    — a has zero rows or columns.
//   - ErrFactorization  — the SVD did not converge.
func PInv(a mat.Matrix) (*mat.Dense, error) {
	r, c := a.Dims()
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("PInv: %w", ErrEmptyMatrix)
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, fmt.Errorf("PInv: %w", ErrFactorization)
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)
	s := svd.Values(nil)

	// Invert singular values above the cutoff; zero the rest.
	tol := float64(max(r, c)) * machEps * s[0]
	d := make([]float64, len(s))
	for i, sv := range s {
		if sv > tol {
			d[i] = 1 / sv
		}
	}

	// A⁺ = V · Σ⁺ · Uᵀ
	var tmp, pinv mat.Dense
	tmp.Mul(&v, mat.NewDiagDense(len(d), d))
	pinv.Mul(&tmp, u.T())

	return &pinv, nil
}

// Rank returns the numerical rank of a: the number of singular values above
// the cutoff max(r,c)·ε·σ_max. A zero matrix has rank 0.
//
// Errors:
//   - ErrEmptyMatrix    — a has zero rows or columns.
//   - ErrFactorization  — the SVD did not converge.
func Rank(a mat.Matrix) (int, error) {
	r, c := a.Dims()
	if r == 0 || c == 0 {
		return 0, fmt.Errorf("Rank: %w", ErrEmptyMatrix)
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDNone); !ok {
		return 0, fmt.Errorf("Rank: %w", ErrFactorization)
	}

	s := svd.Values(nil)
	if s[0] == 0 {
		return 0, nil
	}
	tol := float64(max(r, c)) * machEps * s[0]

	rank := 0
	for _, sv := range s {
		if sv > tol {
			rank++
		}
	}

	return rank, nil
}

// InvSqrtH computes the symmetric inverse square root A^{-1/2} of a
// symmetric positive-definite matrix: A = V·Λ·Vᵀ ⇒ A^{-1/2} = V·Λ^{-1/2}·Vᵀ.
// Asymmetry up to floating-point noise is tolerated; the input is
// symmetrized as (A + Aᵀ)/2 before the eigendecomposition.
//
// Errors:
//   - ErrEmptyMatrix          — a has zero rows or columns.
//   - ErrNonSquare            — a is not square.
//   - ErrFactorization        — the eigendecomposition did not converge.
//   - ErrNotPositiveDefinite  — an eigenvalue is not strictly positive
//     within tolerance.
func InvSqrtH(a mat.Matrix) (*mat.Dense, error) {
	r, c := a.Dims()
	if r == 0 || c == 0 {
		return nil, fmt.Errorf("InvSqrtH: %w", ErrEmptyMatrix)
	}
	if r != c {
		return nil, fmt.Errorf("InvSqrtH: %w", ErrNonSquare)
	}

	// Symmetrize into the concrete type gonum's EigenSym requires.
	sym := mat.NewSymDense(r, nil)
	for i := 0; i < r; i++ {
		for j := i; j < r; j++ {
			sym.SetSym(i, j, (a.At(i, j)+a.At(j, i))/2)
		}
	}

	var es mat.EigenSym
	if ok := es.Factorize(sym, true); !ok {
		return nil, fmt.Errorf("InvSqrtH: %w", ErrFactorization)
	}

	vals := es.Values(nil)
	// Values are ascending, so vals[r-1] is the largest.
	tol := float64(r) * machEps * math.Abs(vals[r-1])
	d := make([]float64, r)
	for i, v := range vals {
		if v <= tol {
			return nil, fmt.Errorf("InvSqrtH: eigenvalue %g: %w", v, ErrNotPositiveDefinite)
		}
		d[i] = 1 / math.Sqrt(v)
	}

	var vecs mat.Dense
	es.VectorsTo(&vecs)

	// A^{-1/2} = V · Λ^{-1/2} · Vᵀ
	var tmp, out mat.Dense
	tmp.Mul(&vecs, mat.NewDiagDense(r, d))
	out.Mul(&tmp, vecs.T())

	return &out, nil
}

// HasConstant reports whether any column of x is a non-zero constant
// (all entries equal, first entry non-zero). Such a column acts as the
// model intercept.
func HasConstant(x mat.Matrix) bool {
	r, c := x.Dims()
	for j := 0; j < c; j++ {
		if r == 0 {
			return false
		}
		first := x.At(0, j)
		if first == 0 {
			continue
		}
		constant := true
		for i := 1; i < r; i++ {
			if x.At(i, j) != first {
				constant = false
				break
			}
		}
		if constant {
			return true
		}
	}

	return false
}
