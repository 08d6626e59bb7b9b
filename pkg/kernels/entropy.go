// Package kernels implements the per-block statistics computed by analyzer
// workers: histogram entropy, edge density, DCT texture energy and the 2x2
// low-pass pre-pass.
package kernels

import (
	"math"
	"slices"
)

// EntropyReducer turns a histogram into Shannon entropy.
// Implementations must agree up to floating-point rounding.
type EntropyReducer interface {
	// Name identifies the code path, e.g. "scalar".
	Name() string

	// Reduce returns -sum(p*log2(p)) with p = count/total over counts.
	// Zero counts are ignored.
	Reduce(counts []uint32, total int) float64
}

// ScalarReducer accumulates the entropy terms one bucket at a time.
type ScalarReducer struct{}

// Name returns "scalar".
func (ScalarReducer) Name() string { return "scalar" }

// Reduce implements EntropyReducer.
func (ScalarReducer) Reduce(counts []uint32, total int) float64 {
	if total <= 0 {
		return 0
	}
	inv := 1 / float64(total)
	var h float64
	for _, c := range counts {
		h -= entropyTerm(c, inv)
	}
	return h
}

// VectorReducer processes four buckets per step into independent lane
// accumulators and folds the lanes at the end.
type VectorReducer struct{}

// Name returns "vector".
func (VectorReducer) Name() string { return "vector" }

// Reduce implements EntropyReducer.
func (VectorReducer) Reduce(counts []uint32, total int) float64 {
	if total <= 0 {
		return 0
	}
	inv := 1 / float64(total)

	var lanes [4]float64
	n := len(counts) &^ 3
	for i := 0; i < n; i += 4 {
		c := counts[i : i+4 : i+4]
		lanes[0] -= entropyTerm(c[0], inv)
		lanes[1] -= entropyTerm(c[1], inv)
		lanes[2] -= entropyTerm(c[2], inv)
		lanes[3] -= entropyTerm(c[3], inv)
	}
	for i, c := range counts[n:] {
		lanes[i] -= entropyTerm(c, inv)
	}

	return (lanes[0] + lanes[1]) + (lanes[2] + lanes[3])
}

func entropyTerm(count uint32, inv float64) float64 {
	if count == 0 {
		return 0
	}
	p := float64(count) * inv
	return p * math.Log2(p)
}

// SelectReducer returns the reducer for a CPU capability.
// The scalar reducer is the fallback for every non-vector capability.
func SelectReducer(simd CPUSimd) EntropyReducer {
	if simd.Vectorized() {
		return VectorReducer{}
	}
	return ScalarReducer{}
}

// EntropyKernel computes block entropy with reusable scratch buffers.
// It is not safe for concurrent use; each worker owns one.
type EntropyKernel struct {
	reducer EntropyReducer
	work    []uint16
	low     []uint16
	counts  []uint32
}

// NewEntropyKernel creates a kernel using the reducer selected for simd.
func NewEntropyKernel(simd CPUSimd) *EntropyKernel {
	return &EntropyKernel{reducer: SelectReducer(simd)}
}

// Reducer returns the reducer the kernel dispatches to.
func (k *EntropyKernel) Reducer() EntropyReducer {
	return k.reducer
}

// Compute returns the entropy of a blockSize x blockSize block. Samples are
// expected within bitDepth; Frame.LumaSample masks them on load. With lowpass
// set and an even block size the block is first downscaled by Downscale2x2.
func (k *EntropyKernel) Compute(block []uint16, blockSize, bitDepth int, lowpass bool) float64 {
	n := blockSize * blockSize

	// histogram sorts in place; block belongs to the caller.
	k.work = append(k.work[:0], block[:n]...)

	samples := k.work
	if lowpass && blockSize%2 == 0 {
		k.low = Downscale2x2(k.low, k.work, blockSize)
		samples = k.low
	}
	if len(samples) == 0 {
		return 0
	}

	k.counts = histogram(k.counts[:0], samples)
	return k.reducer.Reduce(k.counts, len(samples))
}

// histogram sorts samples in place and appends the run length of each
// distinct value to counts.
func histogram(counts []uint32, samples []uint16) []uint32 {
	slices.Sort(samples)
	run := uint32(1)
	for i := 1; i < len(samples); i++ {
		if samples[i] == samples[i-1] {
			run++
			continue
		}
		counts = append(counts, run)
		run = 1
	}
	return append(counts, run)
}

// ComputeEntropy is the allocation-per-call form of EntropyKernel.Compute.
func ComputeEntropy(block []uint16, blockSize, bitDepth int, simd CPUSimd, lowpass bool) float64 {
	return NewEntropyKernel(simd).Compute(block, blockSize, bitDepth, lowpass)
}
