package kernels

import (
	"math/rand"
	"testing"
)

func TestDownscale2x2_FloorsAverage(t *testing.T) {
	block := []uint16{
		1, 2, 10, 10,
		2, 2, 10, 11,
		0, 0, 65535, 65535,
		0, 3, 65535, 65535,
	}

	got := Downscale2x2(nil, block, 4)
	want := []uint16{1, 10, 0, 65535}

	if len(got) != len(want) {
		t.Fatalf("expected %d samples, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestDownscale2x2_ReusesBuffer(t *testing.T) {
	buf := make([]uint16, 0, 64)
	got := Downscale2x2(buf, make([]uint16, 16*16), 16)
	if &got[0] != &buf[:1][0] {
		t.Error("expected destination buffer to be reused")
	}
}

func TestEnergyKernel_ConstantBlockHasNoEnergy(t *testing.T) {
	kernel := NewEnergyKernel(16)
	block := make([]uint16, 16*16)
	for i := range block {
		block[i] = 200
	}

	if got := kernel.Compute(block, 8, false); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestEnergyKernel_TexturedBlockHasEnergy(t *testing.T) {
	kernel := NewEnergyKernel(8)
	rng := rand.New(rand.NewSource(5))
	block := randomBlock(rng, 8, 8)

	if got := kernel.Compute(block, 8, false); got <= 0 {
		t.Errorf("expected positive energy, got %d", got)
	}
}

func TestEnergyKernel_LowpassNotAboveFull(t *testing.T) {
	kernel := NewEnergyKernel(32)
	rng := rand.New(rand.NewSource(9))

	for i := 0; i < 5; i++ {
		block := randomBlock(rng, 32, 8)
		full := kernel.Compute(block, 8, false)
		low := kernel.Compute(block, 8, true)
		if low > full {
			t.Errorf("iteration %d: low-pass energy %d above full energy %d", i, low, full)
		}
	}
}

func TestEnergyKernel_ScalesWithBitDepth(t *testing.T) {
	kernel := NewEnergyKernel(8)
	rng := rand.New(rand.NewSource(13))
	block8 := randomBlock(rng, 8, 8)

	block10 := make([]uint16, len(block8))
	for i, v := range block8 {
		block10[i] = v << 2
	}

	e8 := kernel.Compute(block8, 8, false)
	e10 := kernel.Compute(block10, 10, false)

	diff := e8 - e10
	if diff < -1 || diff > 1 {
		t.Errorf("expected matching energy across bit depths, got %d and %d", e8, e10)
	}
}

func TestEnergyKernel_Deterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(21))
	block := randomBlock(rng, 16, 8)

	a := NewEnergyKernel(16).Compute(block, 8, false)
	b := NewEnergyKernel(16).Compute(block, 8, false)
	if a != b {
		t.Errorf("expected identical energies, got %d and %d", a, b)
	}
}

func TestParseCPUSimd(t *testing.T) {
	tests := []struct {
		in      string
		want    CPUSimd
		wantErr bool
	}{
		{"none", SimdNone, false},
		{"AVX2", SimdAVX2, false},
		{"neon", SimdNEON, false},
		{"scalar", SimdNone, false},
		{"sse9", SimdNone, true},
	}

	for _, tt := range tests {
		got, err := ParseCPUSimd(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCPUSimd(%q): unexpected error state %v", tt.in, err)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseCPUSimd(%q): expected %s, got %s", tt.in, tt.want, got)
		}
	}

	auto, err := ParseCPUSimd("auto")
	if err != nil {
		t.Fatalf("ParseCPUSimd(auto): %v", err)
	}
	if auto != DetectCPUSimd() {
		t.Errorf("expected auto to resolve to %s, got %s", DetectCPUSimd(), auto)
	}
}
