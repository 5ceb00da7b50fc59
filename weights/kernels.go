// Package weights: kernel lag-weight generators for HAC estimation.
// Each generator returns bw+1 weights w[0..bw], where w[0] applies to the
// contemporaneous term and w[i] to lag i.

package weights

import (
	"fmt"
	"math"
)

// Kernel names recognized by LagWeights (and by the kernel strategy's
// "kernel" configuration option). Aliases map to the same generator.
const (
	KernelBartlett          = "bartlett"
	KernelNeweyWest         = "newey-west"
	KernelParzen            = "parzen"
	KernelGallant           = "gallant"
	KernelAndrews           = "andrews"
	KernelQuadraticSpectral = "quadratic-spectral"
	KernelQS                = "qs"
)

// BartlettWeights returns the Bartlett (Newey–West) lag weights
// w[i] = 1 − i/(bw+1) for i = 0..bw.
func BartlettWeights(bw int) []float64 {
	w := make([]float64, bw+1)
	for i := range w {
		w[i] = 1 - float64(i)/float64(bw+1)
	}

	return w
}

// ParzenWeights returns the Parzen (Gallant) lag weights for z = i/(bw+1):
//
//	w = 1 − 6z² + 6z³   for z ≤ 1/2
//	w = 2(1 − z)³       for z > 1/2
func ParzenWeights(bw int) []float64 {
	w := make([]float64, bw+1)
	for i := range w {
		z := float64(i) / float64(bw+1)
		if z <= 0.5 {
			w[i] = 1 - 6*z*z + 6*z*z*z
		} else {
			w[i] = 2 * (1 - z) * (1 - z) * (1 - z)
		}
	}

	return w
}

// QuadraticSpectralWeights returns the quadratic-spectral (Andrews) lag
// weights for q = 6πz/5, z = i/(bw+1):
//
//	w[0] = 1
//	w[i] = 3/q² · (sin(q)/q − cos(q))
func QuadraticSpectralWeights(bw int) []float64 {
	w := make([]float64, bw+1)
	w[0] = 1
	for i := 1; i < len(w); i++ {
		z := float64(i) / float64(bw+1)
		q := 6 * math.Pi * z / 5
		w[i] = 3 / (q * q) * (math.Sin(q)/q - math.Cos(q))
	}

	return w
}

// LagWeights resolves a kernel by name and returns its bw+1 lag weights.
//
// Errors:
//   - ErrBadBandwidth  — bw < 0.
//   - ErrUnknownKernel — name outside the recognized set.
func LagWeights(name string, bw int) ([]float64, error) {
	if bw < 0 {
		return nil, fmt.Errorf("LagWeights: bw=%d: %w", bw, ErrBadBandwidth)
	}

	switch name {
	case KernelBartlett, KernelNeweyWest:
		return BartlettWeights(bw), nil
	case KernelParzen, KernelGallant:
		return ParzenWeights(bw), nil
	case KernelAndrews, KernelQuadraticSpectral, KernelQS:
		return QuadraticSpectralWeights(bw), nil
	default:
		return nil, fmt.Errorf("LagWeights: %q: %w", name, ErrUnknownKernel)
	}
}
