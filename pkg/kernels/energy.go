package kernels

import "math"

// EnergyKernel computes the DCT texture energy of square blocks.
// It caches the cosine basis and weights for one block size and is not safe
// for concurrent use.
type EnergyKernel struct {
	size    int
	basis   []float64 // basis[u*size+x] = alpha(u) * cos(pi*(2x+1)*u / 2N)
	weights []float64 // weights[v*size+u]
	rows    []float64
}

// NewEnergyKernel creates a kernel for blockSize x blockSize blocks.
func NewEnergyKernel(blockSize int) *EnergyKernel {
	n := blockSize
	k := &EnergyKernel{
		size:    n,
		basis:   make([]float64, n*n),
		weights: make([]float64, n*n),
		rows:    make([]float64, n*n),
	}

	for u := 0; u < n; u++ {
		alpha := math.Sqrt(2 / float64(n))
		if u == 0 {
			alpha = math.Sqrt(1 / float64(n))
		}
		for x := 0; x < n; x++ {
			k.basis[u*n+x] = alpha * math.Cos(math.Pi*float64(2*x+1)*float64(u)/float64(2*n))
		}
	}

	nn := float64(n * n)
	for v := 0; v < n; v++ {
		for u := 0; u < n; u++ {
			r := float64(u*v) / nn
			k.weights[v*n+u] = math.Exp(math.Abs(r*r - 1))
		}
	}
	k.weights[0] = 0 // DC does not contribute

	return k
}

// Size returns the block size the kernel was built for.
func (k *EnergyKernel) Size() int {
	return k.size
}

// Compute returns the weighted sum of absolute AC coefficients of the block's
// 2D DCT-II, normalized by N^2 and scaled to the 8-bit range.
// With lowpass set only the low-frequency quadrant is transformed.
func (k *EnergyKernel) Compute(block []uint16, bitDepth int, lowpass bool) int32 {
	n := k.size
	limit := n
	if lowpass && n >= 2 {
		limit = n >> 1
	}

	// Horizontal pass: rows[y*n+u] for u < limit.
	for y := 0; y < n; y++ {
		src := block[y*n : (y+1)*n]
		dst := k.rows[y*n:]
		for u := 0; u < limit; u++ {
			b := k.basis[u*n : (u+1)*n]
			var acc float64
			for x, s := range src {
				acc += float64(s) * b[x]
			}
			dst[u] = acc
		}
	}

	// Vertical pass folded into the weighted accumulation.
	var energy float64
	for v := 0; v < limit; v++ {
		b := k.basis[v*n : (v+1)*n]
		w := k.weights[v*n:]
		for u := 0; u < limit; u++ {
			if w[u] == 0 {
				continue
			}
			var c float64
			for y := 0; y < n; y++ {
				c += k.rows[y*n+u] * b[y]
			}
			energy += w[u] * math.Abs(c)
		}
	}

	energy /= float64(n * n)
	if bitDepth > 8 {
		energy /= float64(int(1) << (bitDepth - 8))
	}

	if energy >= math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(math.Round(energy))
}
