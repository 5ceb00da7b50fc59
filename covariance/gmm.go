// Package covariance: GMM-specific estimator. Unlike the registry
// estimators it is parameterized by the final weighting matrix of the GMM
// iteration and works with the raw instrument scores rather than the fitted
// instruments.

package covariance

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// GMMCovariance estimates the asymptotic covariance of a GMM estimate given
// the final m×m weighting matrix W:
//
//	G = ZᵀX/n,  S = (Z⊙ε)ᵀ(Z⊙ε)/n,  B = (GᵀWG)⁻¹
//	cov = B · GᵀW·S·WG · B / n
//
// When W = S⁻¹ (the efficient two-step weight) the expression collapses to
// B/n. Schema: {"center": false}.
type GMMCovariance struct {
	cov    *mat.Dense
	config Config
}

// NewGMM validates cfg and computes the covariance for (x, y, z, params)
// under the weighting matrix w.
func NewGMM(x, y, z, params, w *mat.Dense, cfg Config) (*GMMCovariance, error) {
	resolved, err := resolveConfig(cfg, Config{"center": false})
	if err != nil {
		return nil, fmt.Errorf("covariance: gmm: %w", err)
	}
	center, err := boolOption(resolved, "center")
	if err != nil {
		return nil, fmt.Errorf("covariance: gmm: %w", err)
	}

	n, _ := x.Dims()
	nobs := float64(n)

	var eps mat.Dense
	eps.Mul(x, params)
	eps.Sub(y, &eps)

	var g mat.Dense // m×k
	g.Mul(z.T(), x)
	g.Scale(1/nobs, &g)

	sc := scoreMatrix(z, &eps, center)
	var s mat.Dense // m×m
	s.Mul(sc.T(), sc)
	s.Scale(1/nobs, &s)

	var gw mat.Dense // k×m
	gw.Mul(g.T(), w)

	var gwg, bread mat.Dense // k×k
	gwg.Mul(&gw, &g)
	if err = bread.Inverse(&gwg); err != nil {
		return nil, fmt.Errorf("covariance: gmm: invert GᵀWG: %w", err)
	}

	var meat, half, cov mat.Dense
	half.Mul(&gw, &s)
	meat.Mul(&half, gw.T())

	cov.Mul(&bread, &meat)
	cov.Mul(&cov, &bread)
	cov.Scale(1/nobs, &cov)

	return &GMMCovariance{cov: &cov, config: resolved}, nil
}

// Cov returns the k×k covariance matrix.
func (e *GMMCovariance) Cov() *mat.Dense { return e.cov }

// Config returns the resolved configuration.
func (e *GMMCovariance) Config() Config { return e.config }
