package kernels

import (
	"math"
	"math/rand"
	"testing"
)

func randomBlock(rng *rand.Rand, blockSize, bitDepth int) []uint16 {
	block := make([]uint16, blockSize*blockSize)
	max := 1 << bitDepth
	for i := range block {
		block[i] = uint16(rng.Intn(max))
	}
	return block
}

func TestComputeEntropy_FourByFourScenario(t *testing.T) {
	block := []uint16{
		0, 0, 1, 1,
		0, 0, 1, 1,
		2, 2, 3, 3,
		2, 2, 3, 3,
	}

	for _, simd := range []CPUSimd{SimdNone, SimdAVX2, SimdNEON} {
		got := ComputeEntropy(block, 4, 8, simd, false)
		if got != 2.0 {
			t.Errorf("%s: expected entropy 2.0, got %v", simd, got)
		}
	}
}

func TestComputeEntropy_SingleValue(t *testing.T) {
	block := make([]uint16, 16*16)
	for i := range block {
		block[i] = 77
	}

	got := ComputeEntropy(block, 16, 8, SimdNone, false)
	if got != 0 {
		t.Errorf("expected entropy 0, got %v", got)
	}
}

func TestComputeEntropy_EquiprobableValues(t *testing.T) {
	tests := []struct {
		name     string
		distinct int
	}{
		{"two values", 2},
		{"four values", 4},
		{"eight values", 8},
		{"sixteen values", 16},
		{"all values", 256},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			block := make([]uint16, 16*16)
			for i := range block {
				block[i] = uint16(i % tt.distinct)
			}

			want := math.Log2(float64(tt.distinct))
			for _, simd := range []CPUSimd{SimdNone, SimdAVX2} {
				got := ComputeEntropy(block, 16, 8, simd, false)
				if math.Abs(got-want) > 1e-12 {
					t.Errorf("%s: expected %v, got %v", simd, want, got)
				}
			}
		})
	}
}

func TestComputeEntropy_PermutationInvariant(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	block := randomBlock(rng, 16, 4)
	want := ComputeEntropy(block, 16, 8, SimdNone, false)

	for i := 0; i < 10; i++ {
		shuffled := append([]uint16(nil), block...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		if got := ComputeEntropy(shuffled, 16, 8, SimdNone, false); got != want {
			t.Fatalf("shuffle %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestComputeEntropy_ScalarAndVectorAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for bitDepth := 8; bitDepth <= 16; bitDepth++ {
		for _, blockSize := range []int{4, 8, 16, 32} {
			for _, lowpass := range []bool{false, true} {
				block := randomBlock(rng, blockSize, bitDepth)
				scalar := ComputeEntropy(block, blockSize, bitDepth, SimdNone, lowpass)
				vector := ComputeEntropy(block, blockSize, bitDepth, SimdAVX2, lowpass)
				if math.Abs(scalar-vector) > 1e-9 {
					t.Errorf("bitDepth=%d blockSize=%d lowpass=%v: scalar %v vector %v",
						bitDepth, blockSize, lowpass, scalar, vector)
				}
			}
		}
	}
}

func TestComputeEntropy_Lowpass(t *testing.T) {
	// Every 2x2 group averages to a distinct value; the full block has 16
	// distinct values, the downscaled block has 4.
	block := []uint16{
		0, 1, 4, 5,
		1, 2, 5, 6,
		8, 9, 12, 13,
		9, 10, 13, 14,
	}

	full := ComputeEntropy(block, 4, 8, SimdNone, false)
	low := ComputeEntropy(block, 4, 8, SimdNone, true)

	if low != 2.0 {
		t.Errorf("expected low-pass entropy 2.0, got %v", low)
	}
	if full <= low {
		t.Errorf("expected full-resolution entropy above %v, got %v", low, full)
	}
}

func TestComputeEntropy_LowpassIgnoredForOddBlocks(t *testing.T) {
	block := []uint16{
		0, 1, 2,
		3, 4, 5,
		6, 7, 8,
	}

	with := ComputeEntropy(block, 3, 8, SimdNone, true)
	without := ComputeEntropy(block, 3, 8, SimdNone, false)
	if with != without {
		t.Errorf("expected odd block to skip low-pass, got %v vs %v", with, without)
	}
}

func TestComputeEntropy_KeepsSamplesAsGiven(t *testing.T) {
	// Masking happens when samples are loaded from the frame, so four
	// distinct in-range values stay distinct.
	block := []uint16{0x0000, 0x0001, 0x0002, 0x0003}

	got := ComputeEntropy(block, 2, 10, SimdNone, false)
	if math.Abs(got-2.0) > 1e-12 {
		t.Errorf("expected entropy 2.0, got %v", got)
	}
}

func TestEntropyKernel_ReusesScratch(t *testing.T) {
	kernel := NewEntropyKernel(SimdNone)
	rng := rand.New(rand.NewSource(3))

	for i := 0; i < 5; i++ {
		block := randomBlock(rng, 8, 8)
		want := ComputeEntropy(block, 8, 8, SimdNone, false)
		if got := kernel.Compute(block, 8, 8, false); got != want {
			t.Fatalf("iteration %d: expected %v, got %v", i, want, got)
		}
	}
}

func TestEntropyKernel_DoesNotModifyInput(t *testing.T) {
	block := []uint16{3, 2, 1, 0}
	NewEntropyKernel(SimdNone).Compute(block, 2, 8, false)

	want := []uint16{3, 2, 1, 0}
	for i := range want {
		if block[i] != want[i] {
			t.Fatalf("input modified: %v", block)
		}
	}
}

func TestSelectReducer(t *testing.T) {
	tests := []struct {
		simd CPUSimd
		want string
	}{
		{SimdNone, "scalar"},
		{SimdAVX2, "vector"},
		{SimdNEON, "vector"},
		{CPUSimd(99), "scalar"},
	}

	for _, tt := range tests {
		if got := SelectReducer(tt.simd).Name(); got != tt.want {
			t.Errorf("SelectReducer(%d): expected %s, got %s", tt.simd, tt.want, got)
		}
	}
}

func TestReducers_EmptyTotal(t *testing.T) {
	for _, r := range []EntropyReducer{ScalarReducer{}, VectorReducer{}} {
		if got := r.Reduce(nil, 0); got != 0 {
			t.Errorf("%s: expected 0, got %v", r.Name(), got)
		}
	}
}
