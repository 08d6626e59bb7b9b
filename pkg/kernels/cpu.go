package kernels

import (
	"fmt"
	"strings"

	"golang.org/x/sys/cpu"
)

// CPUSimd selects the instruction-set family a kernel may target.
type CPUSimd int

const (
	// SimdNone forces the portable scalar kernels.
	SimdNone CPUSimd = iota
	// SimdAVX2 selects the lane-batched kernels on x86-64 with AVX2.
	SimdAVX2
	// SimdNEON selects the lane-batched kernels on arm64 with Advanced SIMD.
	SimdNEON
)

// String returns the name used in configuration files and flags.
func (s CPUSimd) String() string {
	switch s {
	case SimdNone:
		return "none"
	case SimdAVX2:
		return "avx2"
	case SimdNEON:
		return "neon"
	default:
		return "unknown"
	}
}

// Vectorized reports whether s selects a lane-batched code path.
func (s CPUSimd) Vectorized() bool {
	return s == SimdAVX2 || s == SimdNEON
}

// DetectCPUSimd returns the best capability supported by the running CPU.
func DetectCPUSimd() CPUSimd {
	switch {
	case cpu.X86.HasAVX2:
		return SimdAVX2
	case cpu.ARM64.HasASIMD:
		return SimdNEON
	default:
		return SimdNone
	}
}

// ParseCPUSimd parses "auto", "none", "avx2" or "neon".
// "auto" resolves to DetectCPUSimd.
func ParseCPUSimd(s string) (CPUSimd, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "auto", "":
		return DetectCPUSimd(), nil
	case "none", "c", "scalar":
		return SimdNone, nil
	case "avx2":
		return SimdAVX2, nil
	case "neon":
		return SimdNEON, nil
	default:
		return SimdNone, fmt.Errorf("unknown cpu simd %q", s)
	}
}
