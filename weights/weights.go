// Package weights: the four weighting-matrix strategies and the name
// registry. All strategies share the contract
//
//	WeightMatrix(x, z, eps) → m×m matrix
//
// where x is n×k, z is n×m and eps is the n×1 residual vector. Inputs are
// never mutated; the result is freshly allocated.

package weights

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Strategy names recognized by New. Aliases resolve to the same strategy.
const (
	Unadjusted      = "unadjusted"
	Homoskedastic   = "homoskedastic"
	Robust          = "robust"
	Heteroskedastic = "heteroskedastic"
	Kernel          = "kernel"
	Clustered       = "clustered"
)

// Estimator is the common weighting-matrix contract consumed by the GMM
// estimator. Config returns the fully resolved configuration (defaults
// merged with user options), suitable for reporting in results.
type Estimator interface {
	WeightMatrix(x, z, eps *mat.Dense) (*mat.Dense, error)
	Config() Config
}

// New resolves a strategy by name and validates cfg against its schema.
//
// Errors:
//   - ErrUnknownWeightType — name outside the recognized set.
//   - ErrUnknownConfigKey / ErrBadConfigValue / ErrUnknownKernel — invalid cfg.
func New(name string, cfg Config) (Estimator, error) {
	switch name {
	case Unadjusted, Homoskedastic:
		return NewHomoskedasticWeights(cfg)
	case Robust, Heteroskedastic:
		return NewHeteroskedasticWeights(cfg)
	case Kernel:
		return NewKernelWeights(cfg)
	case Clustered:
		return NewClusteredWeights(cfg)
	default:
		return nil, fmt.Errorf("weights: %q: %w", name, ErrUnknownWeightType)
	}
}

// scores forms the instrument-residual score matrix Ze = Z ⊙ ε (row-wise
// product of each instrument column with the residual), optionally
// demeaning each column across observations.
func scores(z, eps *mat.Dense, center bool) *mat.Dense {
	n, m := z.Dims()
	ze := mat.NewDense(n, m, nil)
	for i := 0; i < n; i++ {
		e := eps.At(i, 0)
		for j := 0; j < m; j++ {
			ze.Set(i, j, z.At(i, j)*e)
		}
	}

	if center {
		col := make([]float64, n)
		for j := 0; j < m; j++ {
			mat.Col(col, j, ze)
			mu := floats.Sum(col) / float64(n)
			for i := 0; i < n; i++ {
				ze.Set(i, j, col[i]-mu)
			}
		}
	}

	return ze
}

// HomoskedasticWeights assumes the moment conditions are homoskedastic:
// the weighting matrix is the instrument Gram matrix scaled by the scalar
// residual variance, (εᵀε/n)·(ZᵀZ)/n.
type HomoskedasticWeights struct {
	config Config
}

// NewHomoskedasticWeights validates cfg (schema: {"center": false}; the
// option is recognized for interface uniformity but has no effect here).
func NewHomoskedasticWeights(cfg Config) (*HomoskedasticWeights, error) {
	resolved, err := resolveConfig(cfg, Config{"center": false})
	if err != nil {
		return nil, fmt.Errorf("weights: homoskedastic: %w", err)
	}
	if _, err = boolOption(resolved, "center"); err != nil {
		return nil, fmt.Errorf("weights: homoskedastic: %w", err)
	}

	return &HomoskedasticWeights{config: resolved}, nil
}

func (w *HomoskedasticWeights) WeightMatrix(x, z, eps *mat.Dense) (*mat.Dense, error) {
	n, _ := z.Dims()
	nobs := float64(n)

	s2 := mat.Dot(eps.ColView(0), eps.ColView(0)) / nobs

	var s mat.Dense
	s.Mul(z.T(), z)
	s.Scale(s2/nobs, &s)

	return &s, nil
}

// Config returns the resolved configuration.
func (w *HomoskedasticWeights) Config() Config { return w.config }

// HeteroskedasticWeights allows for heteroskedastic moment conditions:
// ZeᵀZe/n over the (optionally centered) instrument-residual scores.
type HeteroskedasticWeights struct {
	config Config
	center bool
}

// NewHeteroskedasticWeights validates cfg (schema: {"center": false}).
func NewHeteroskedasticWeights(cfg Config) (*HeteroskedasticWeights, error) {
	resolved, err := resolveConfig(cfg, Config{"center": false})
	if err != nil {
		return nil, fmt.Errorf("weights: heteroskedastic: %w", err)
	}
	center, err := boolOption(resolved, "center")
	if err != nil {
		return nil, fmt.Errorf("weights: heteroskedastic: %w", err)
	}

	return &HeteroskedasticWeights{config: resolved, center: center}, nil
}

func (w *HeteroskedasticWeights) WeightMatrix(x, z, eps *mat.Dense) (*mat.Dense, error) {
	n, _ := z.Dims()
	ze := scores(z, eps, w.center)

	var s mat.Dense
	s.Mul(ze.T(), ze)
	s.Scale(1/float64(n), &s)

	return &s, nil
}

// Config returns the resolved configuration.
func (w *HeteroskedasticWeights) Config() Config { return w.config }

// KernelWeights allows for heteroskedasticity and autocorrelation: the
// heteroskedastic score covariance plus kernel-weighted cross-lag terms
// Σ_{i=1..bw} w[i]·(Ze_{i:}ᵀ·Ze_{:n−i}), all divided by n.
//
// The bandwidth defaults to nobs−2 when not configured. Data-driven optimal
// bandwidth selection is an extension point; it is intentionally not
// implemented here.
type KernelWeights struct {
	config Config
	center bool
	kernel string
	bw     int
	hasBW  bool
}

// NewKernelWeights validates cfg
// (schema: {"kernel": "bartlett", "center": false, "bw": nil}).
// The kernel name is resolved eagerly so an unknown kernel fails at
// construction, not at the first WeightMatrix call.
func NewKernelWeights(cfg Config) (*KernelWeights, error) {
	resolved, err := resolveConfig(cfg, Config{"kernel": KernelBartlett, "center": false, "bw": nil})
	if err != nil {
		return nil, fmt.Errorf("weights: kernel: %w", err)
	}
	center, err := boolOption(resolved, "center")
	if err != nil {
		return nil, fmt.Errorf("weights: kernel: %w", err)
	}
	kernel, err := stringOption(resolved, "kernel", KernelBartlett)
	if err != nil {
		return nil, fmt.Errorf("weights: kernel: %w", err)
	}
	if _, err = LagWeights(kernel, 0); err != nil {
		return nil, err
	}
	bw, hasBW, err := intOption(resolved, "bw")
	if err != nil {
		return nil, fmt.Errorf("weights: kernel: %w", err)
	}
	if hasBW && bw < 0 {
		return nil, fmt.Errorf("weights: kernel: bw=%d: %w", bw, ErrBadBandwidth)
	}

	return &KernelWeights{config: resolved, center: center, kernel: kernel, bw: bw, hasBW: hasBW}, nil
}

func (w *KernelWeights) WeightMatrix(x, z, eps *mat.Dense) (*mat.Dense, error) {
	n, m := z.Dims()
	ze := scores(z, eps, w.center)

	bw := n - 2
	if w.hasBW {
		bw = w.bw
	}
	lag, err := LagWeights(w.kernel, bw)
	if err != nil {
		return nil, err
	}

	var s mat.Dense
	s.Mul(ze.T(), ze)

	// Cross-lag terms: lags beyond the sample length contribute nothing.
	for i := 1; i <= bw && i < n; i++ {
		head := ze.Slice(i, n, 0, m)
		tail := ze.Slice(0, n-i, 0, m)

		var cross mat.Dense
		cross.Mul(head.T(), tail)
		cross.Scale(lag[i], &cross)
		s.Add(&s, &cross)
	}
	s.Scale(1/float64(n), &s)

	return &s, nil
}

// Config returns the resolved configuration.
func (w *KernelWeights) Config() Config { return w.config }

// Bandwidth returns the configured bandwidth and whether one was supplied;
// when absent, WeightMatrix uses nobs−2.
func (w *KernelWeights) Bandwidth() (int, bool) { return w.bw, w.hasBW }

// ClusteredWeights allows for one-way cluster dependence: observations are
// grouped by cluster label, the score blocks are accumulated per cluster,
// summed, and divided by n. Absent labels, every observation is its own
// cluster.
type ClusteredWeights struct {
	config   Config
	center   bool
	clusters []int
}

// NewClusteredWeights validates cfg
// (schema: {"clusters": nil, "center": false}; "clusters" accepts []int).
func NewClusteredWeights(cfg Config) (*ClusteredWeights, error) {
	resolved, err := resolveConfig(cfg, Config{"clusters": nil, "center": false})
	if err != nil {
		return nil, fmt.Errorf("weights: clustered: %w", err)
	}
	center, err := boolOption(resolved, "center")
	if err != nil {
		return nil, fmt.Errorf("weights: clustered: %w", err)
	}
	clusters, err := intSliceOption(resolved, "clusters")
	if err != nil {
		return nil, fmt.Errorf("weights: clustered: %w", err)
	}

	return &ClusteredWeights{config: resolved, center: center, clusters: clusters}, nil
}

func (w *ClusteredWeights) WeightMatrix(x, z, eps *mat.Dense) (*mat.Dense, error) {
	n, m := z.Dims()

	clusters := w.clusters
	if clusters == nil {
		clusters = make([]int, n)
		for i := range clusters {
			clusters[i] = i
		}
	}
	if len(clusters) != n {
		return nil, fmt.Errorf("weights: clustered: %d labels for %d observations: %w",
			len(clusters), n, ErrBadClusters)
	}

	ze := scores(z, eps, w.center)

	// Stable sort of row indices by label so equal labels form contiguous runs.
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return clusters[idx[a]] < clusters[idx[b]] })

	sorted := mat.NewDense(n, m, nil)
	for i, src := range idx {
		for j := 0; j < m; j++ {
			sorted.Set(i, j, ze.At(src, j))
		}
	}

	s := mat.NewDense(m, m, nil)
	start := 0
	for end := 1; end <= n; end++ {
		if end < n && clusters[idx[end]] == clusters[idx[start]] {
			continue
		}
		block := sorted.Slice(start, end, 0, m)

		var bs mat.Dense
		bs.Mul(block.T(), block)
		s.Add(s, &bs)
		start = end
	}
	s.Scale(1/float64(n), s)

	return s, nil
}

// Config returns the resolved configuration.
func (w *ClusteredWeights) Config() Config { return w.config }
