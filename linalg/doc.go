// Package linalg provides the shared numeric kernels used by the estimators:
// the Moore–Penrose pseudoinverse, the symmetric inverse square root,
// SVD-based numerical rank, and constant-column detection.
//
// All kernels operate on gonum matrices, never mutate their inputs, and
// return package-prefixed sentinel errors (checked with errors.Is) on
// user-triggered failure conditions.
//
// Conventions:
//   - Dense inputs/outputs use *mat.Dense; read-only inputs accept mat.Matrix.
//   - Numerical tolerances follow the usual SVD convention:
//     tol = max(rows, cols) · ε · σ_max.
package linalg
