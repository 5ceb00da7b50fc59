// Package covariance: estimator implementations. All estimators are
// sandwiches around A = X̂ᵀX̂/n with a middle matrix S that encodes the
// assumed error structure:
//
//	cov = A⁻¹ · S · A⁻¹ / n
//
// except the homoskedastic case, where S = s²·A and the sandwich collapses
// to s²·A⁻¹/n.

package covariance

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/ivreg/linalg"
	"github.com/katalvlaran/ivreg/weights"
)

// Estimator names recognized by New. Aliases resolve to the same estimator.
const (
	Homoskedastic   = "homoskedastic"
	Unadjusted      = "unadjusted"
	Homo            = "homo"
	Robust          = "robust"
	Heteroskedastic = "heteroskedastic"
	HCCM            = "hccm"
	NeweyWest       = "newey-west"
	Bartlett        = "bartlett"
	OneWay          = "one-way"
)

// Estimator exposes an eagerly computed k×k parameter covariance and the
// resolved configuration it was built with.
type Estimator interface {
	Cov() *mat.Dense
	Config() Config
}

// New resolves an estimator by name, validates cfg against its schema, and
// computes the covariance for (x, y, z, params).
//
// Errors:
//   - ErrUnknownEstimator — name outside the recognized set.
//   - ErrUnknownConfigKey / ErrBadConfigValue — invalid cfg.
//   - wrapped linalg/gonum errors on factorization or inversion failure.
func New(name string, x, y, z, params *mat.Dense, cfg Config) (Estimator, error) {
	switch name {
	case Homoskedastic, Unadjusted, Homo:
		return NewHomoskedastic(x, y, z, params, cfg)
	case Robust, Heteroskedastic, HCCM:
		return NewHeteroskedastic(x, y, z, params, cfg)
	case NeweyWest, Bartlett:
		return NewKernel(x, y, z, params, cfg)
	case OneWay:
		return NewOneWayClustered(x, y, z, params, cfg)
	default:
		return nil, fmt.Errorf("covariance: %q: %w", name, ErrUnknownEstimator)
	}
}

// components holds the pieces shared by every sandwich: residuals, fitted
// instruments X̂ = Z·Z⁺·X, and the bread A⁻¹ = (X̂ᵀX̂/n)⁻¹.
type components struct {
	nobs int
	eps  *mat.Dense // n×1
	xhat *mat.Dense // n×k
	ainv *mat.Dense // k×k
}

func decompose(x, y, z, params *mat.Dense) (*components, error) {
	n, _ := x.Dims()

	var eps mat.Dense
	eps.Mul(x, params)
	eps.Sub(y, &eps)

	pinvz, err := linalg.PInv(z)
	if err != nil {
		return nil, fmt.Errorf("covariance: %w", err)
	}

	var proj, xhat mat.Dense
	proj.Mul(pinvz, x)
	xhat.Mul(z, &proj)

	var a mat.Dense
	a.Mul(xhat.T(), &xhat)
	a.Scale(1/float64(n), &a)

	var ainv mat.Dense
	if err = ainv.Inverse(&a); err != nil {
		return nil, fmt.Errorf("covariance: invert score gram: %w", err)
	}

	return &components{nobs: n, eps: &eps, xhat: &xhat, ainv: &ainv}, nil
}

// scoreMatrix forms g ⊙ ε row-wise, optionally demeaning each column.
func scoreMatrix(g, eps *mat.Dense, center bool) *mat.Dense {
	n, p := g.Dims()
	s := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		e := eps.At(i, 0)
		for j := 0; j < p; j++ {
			s.Set(i, j, g.At(i, j)*e)
		}
	}

	if center {
		for j := 0; j < p; j++ {
			mu := 0.0
			for i := 0; i < n; i++ {
				mu += s.At(i, j)
			}
			mu /= float64(n)
			for i := 0; i < n; i++ {
				s.Set(i, j, s.At(i, j)-mu)
			}
		}
	}

	return s
}

// sandwich assembles A⁻¹·S·A⁻¹/n.
func sandwich(c *components, s *mat.Dense) *mat.Dense {
	var tmp, cov mat.Dense
	tmp.Mul(c.ainv, s)
	cov.Mul(&tmp, c.ainv)
	cov.Scale(1/float64(c.nobs), &cov)

	return &cov
}

// HomoskedasticCovariance estimates s²·(X̂ᵀX̂/n)⁻¹/n, the classical 2SLS
// covariance under conditionally homoskedastic errors. Schema: {}.
type HomoskedasticCovariance struct {
	cov    *mat.Dense
	config Config
}

func NewHomoskedastic(x, y, z, params *mat.Dense, cfg Config) (*HomoskedasticCovariance, error) {
	resolved, err := resolveConfig(cfg, Config{})
	if err != nil {
		return nil, fmt.Errorf("covariance: homoskedastic: %w", err)
	}

	c, err := decompose(x, y, z, params)
	if err != nil {
		return nil, err
	}

	s2 := mat.Dot(c.eps.ColView(0), c.eps.ColView(0)) / float64(c.nobs)

	var cov mat.Dense
	cov.Scale(s2/float64(c.nobs), c.ainv)

	return &HomoskedasticCovariance{cov: &cov, config: resolved}, nil
}

func (e *HomoskedasticCovariance) Cov() *mat.Dense { return e.cov }
func (e *HomoskedasticCovariance) Config() Config  { return e.config }

// HeteroskedasticCovariance estimates the heteroskedasticity-robust
// sandwich with S = (X̂⊙ε)ᵀ(X̂⊙ε)/n. Schema: {}.
type HeteroskedasticCovariance struct {
	cov    *mat.Dense
	config Config
}

func NewHeteroskedastic(x, y, z, params *mat.Dense, cfg Config) (*HeteroskedasticCovariance, error) {
	resolved, err := resolveConfig(cfg, Config{})
	if err != nil {
		return nil, fmt.Errorf("covariance: heteroskedastic: %w", err)
	}

	c, err := decompose(x, y, z, params)
	if err != nil {
		return nil, err
	}

	sc := scoreMatrix(c.xhat, c.eps, false)
	var s mat.Dense
	s.Mul(sc.T(), sc)
	s.Scale(1/float64(c.nobs), &s)

	return &HeteroskedasticCovariance{cov: sandwich(c, &s), config: resolved}, nil
}

func (e *HeteroskedasticCovariance) Cov() *mat.Dense { return e.cov }
func (e *HeteroskedasticCovariance) Config() Config  { return e.config }

// KernelCovariance estimates a HAC sandwich: the robust S plus symmetric
// kernel-weighted cross-lag terms w[i]·(Gᵢ + Gᵢᵀ) over the fitted-instrument
// scores, Gᵢ = S_{i:}ᵀ·S_{:n−i}. Bandwidth defaults to nobs−2; data-driven
// bandwidth selection is an extension point and intentionally absent.
// Schema: {"kernel": "bartlett", "bw": nil}.
type KernelCovariance struct {
	cov    *mat.Dense
	config Config
}

func NewKernel(x, y, z, params *mat.Dense, cfg Config) (*KernelCovariance, error) {
	resolved, err := resolveConfig(cfg, Config{"kernel": weights.KernelBartlett, "bw": nil})
	if err != nil {
		return nil, fmt.Errorf("covariance: kernel: %w", err)
	}
	kernel, err := stringOption(resolved, "kernel", weights.KernelBartlett)
	if err != nil {
		return nil, fmt.Errorf("covariance: kernel: %w", err)
	}
	bw, hasBW, err := intOption(resolved, "bw")
	if err != nil {
		return nil, fmt.Errorf("covariance: kernel: %w", err)
	}

	c, err := decompose(x, y, z, params)
	if err != nil {
		return nil, err
	}
	if !hasBW {
		bw = c.nobs - 2
	}
	lag, err := weights.LagWeights(kernel, bw)
	if err != nil {
		return nil, err
	}

	sc := scoreMatrix(c.xhat, c.eps, false)
	_, k := sc.Dims()

	var s mat.Dense
	s.Mul(sc.T(), sc)
	for i := 1; i <= bw && i < c.nobs; i++ {
		head := sc.Slice(i, c.nobs, 0, k)
		tail := sc.Slice(0, c.nobs-i, 0, k)

		var g mat.Dense
		g.Mul(head.T(), tail)

		var sym mat.Dense
		sym.Add(&g, g.T())
		sym.Scale(lag[i], &sym)
		s.Add(&s, &sym)
	}
	s.Scale(1/float64(c.nobs), &s)

	return &KernelCovariance{cov: sandwich(c, &s), config: resolved}, nil
}

func (e *KernelCovariance) Cov() *mat.Dense { return e.cov }
func (e *KernelCovariance) Config() Config  { return e.config }

// OneWayClusteredCovariance accumulates the score cross-products per
// cluster block before assembling the sandwich. Absent labels, every
// observation is its own cluster. Schema: {"clusters": nil}.
type OneWayClusteredCovariance struct {
	cov    *mat.Dense
	config Config
}

func NewOneWayClustered(x, y, z, params *mat.Dense, cfg Config) (*OneWayClusteredCovariance, error) {
	resolved, err := resolveConfig(cfg, Config{"clusters": nil})
	if err != nil {
		return nil, fmt.Errorf("covariance: one-way: %w", err)
	}
	clusters, err := intSliceOption(resolved, "clusters")
	if err != nil {
		return nil, fmt.Errorf("covariance: one-way: %w", err)
	}

	c, err := decompose(x, y, z, params)
	if err != nil {
		return nil, err
	}
	n := c.nobs
	if clusters == nil {
		clusters = make([]int, n)
		for i := range clusters {
			clusters[i] = i
		}
	}
	if len(clusters) != n {
		return nil, fmt.Errorf("covariance: one-way: %d labels for %d observations: %w",
			len(clusters), n, ErrBadClusters)
	}

	sc := scoreMatrix(c.xhat, c.eps, false)
	_, k := sc.Dims()

	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return clusters[idx[a]] < clusters[idx[b]] })

	sorted := mat.NewDense(n, k, nil)
	for i, src := range idx {
		for j := 0; j < k; j++ {
			sorted.Set(i, j, sc.At(src, j))
		}
	}

	s := mat.NewDense(k, k, nil)
	start := 0
	for end := 1; end <= n; end++ {
		if end < n && clusters[idx[end]] == clusters[idx[start]] {
			continue
		}
		block := sorted.Slice(start, end, 0, k)

		var bs mat.Dense
		bs.Mul(block.T(), block)
		s.Add(s, &bs)
		start = end
	}
	s.Scale(1/float64(n), s)

	return &OneWayClusteredCovariance{cov: sandwich(c, s), config: resolved}, nil
}

func (e *OneWayClusteredCovariance) Cov() *mat.Dense { return e.cov }
func (e *OneWayClusteredCovariance) Config() Config  { return e.config }
