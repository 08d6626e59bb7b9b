package vca

import (
	"errors"
	"testing"

	"github.com/user/vca/pkg/analyzer"
	"github.com/user/vca/pkg/mocks"
	"github.com/user/vca/pkg/pipeline"
	"github.com/user/vca/pkg/ports"
)

func testParam() Param {
	p := DefaultParam()
	p.CPUSimd = "none"
	p.FrameThreads = 2
	p.BlockSize = 16
	return p
}

func TestDefaultParam_IsValid(t *testing.T) {
	p := DefaultParam()
	if err := p.Validate(); err != nil {
		t.Fatalf("default param invalid: %v", err)
	}
	if p.CPUSimd != "auto" || p.BlockSize != 32 || p.SliceThreads != 1 {
		t.Errorf("unexpected defaults: %+v", p)
	}
	if !p.EnableEntropy || !p.EnableEdgeDensity || p.EnableLowpass {
		t.Errorf("unexpected statistic defaults: %+v", p)
	}
}

func TestParseParam(t *testing.T) {
	tests := []struct {
		name  string
		value string
		check func(p Param) bool
	}{
		{"frame-threads", "4", func(p Param) bool { return p.FrameThreads == 4 }},
		{"frame_threads", "3", func(p Param) bool { return p.FrameThreads == 3 }},
		{"slice-threads", "2", func(p Param) bool { return p.SliceThreads == 2 }},
		{"block-size", "8", func(p Param) bool { return p.BlockSize == 8 }},
		{"cpuid", "NEON", func(p Param) bool { return p.CPUSimd == "neon" }},
		{"lowpass", "yes", func(p Param) bool { return p.EnableLowpass }},
		{"entropy", "0", func(p Param) bool { return !p.EnableEntropy }},
		{"Edge-Density", "off", func(p Param) bool { return !p.EnableEdgeDensity }},
		{"queue-depth", "5", func(p Param) bool { return p.QueueDepth == 5 }},
		{"log-level", "3", func(p Param) bool { return p.LogLevel == ports.LevelDebug }},
		{"log-level", "-1", func(p Param) bool { return p.LogLevel == ports.LevelQuiet }},
		{"log-level", "warning", func(p Param) bool { return p.LogLevel == ports.LevelWarn }},
	}

	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			p := DefaultParam()
			if err := ParseParam(&p, tt.name, tt.value); err != nil {
				t.Fatalf("ParseParam failed: %v", err)
			}
			if !tt.check(p) {
				t.Errorf("parameter not applied: %+v", p)
			}
		})
	}
}

func TestParseParam_Errors(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr error
	}{
		{"no-such-option", "1", ErrBadName},
		{"frame-threads", "many", ErrBadValue},
		{"lowpass", "maybe", ErrBadValue},
		{"cpuid", "sse9", ErrBadValue},
		{"log-level", "7", ErrBadValue},
		{"log-level", "loud", ErrBadValue},
	}

	for _, tt := range tests {
		t.Run(tt.name+"="+tt.value, func(t *testing.T) {
			p := DefaultParam()
			before := p
			err := ParseParam(&p, tt.name, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
			if p != before {
				t.Errorf("failed parse modified params: %+v", p)
			}
		})
	}
}

func TestParam_Validate(t *testing.T) {
	p := testParam()
	p.BlockSize = 1
	if err := p.Validate(); !errors.Is(err, analyzer.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for block size 1, got %v", err)
	}

	p = testParam()
	p.CPUSimd = "mmx"
	if err := p.Validate(); !errors.Is(err, analyzer.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for bad simd, got %v", err)
	}
}

func TestOpen_InvalidParam(t *testing.T) {
	logger := mocks.NewLogger()
	p := testParam()
	p.FrameThreads = 0

	enc, err := Open(p, logger)
	if err == nil || enc != nil {
		t.Fatal("expected Open to fail")
	}
	if logger.Count(ports.LevelError) != 1 {
		t.Errorf("expected one error log, got %+v", logger.Entries())
	}
}

func TestEncoder_RoundTrip(t *testing.T) {
	enc, err := Open(testParam(), mocks.NewLogger())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer enc.Close()

	info := pipeline.FrameInfo{BitDepth: 8, Width: 32, Height: 32, ColorSpace: pipeline.ColorSpaceI420}
	if enc.BlockCount() != 0 {
		t.Errorf("expected 0 blocks before first frame, got %d", enc.BlockCount())
	}
	for i := 0; i < 3; i++ {
		frame := mocks.NewFrame(info, i, func(x, y int) uint16 { return uint16(x ^ y) })
		if r := enc.PushFrame(frame); r != OK {
			t.Fatalf("PushFrame %d returned %s", i, r)
		}
	}
	if enc.BlockCount() != 4 {
		t.Errorf("expected 4 blocks, got %d", enc.BlockCount())
	}

	seen := make(map[int]bool)
	for i := 0; i < 3; i++ {
		var res pipeline.FrameResult
		if r := enc.PullResult(&res); r != OK {
			t.Fatalf("PullResult returned %s", r)
		}
		seen[res.POC] = true
		if len(res.EnergyPerBlock) != 4 {
			t.Errorf("expected 4 blocks, got %d", len(res.EnergyPerBlock))
		}
	}
	if len(seen) != 3 {
		t.Errorf("expected 3 distinct POCs, got %v", seen)
	}
}

func TestEncoder_ErrorsAreCollapsed(t *testing.T) {
	logger := mocks.NewLogger()
	enc, err := Open(testParam(), logger)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	bad := mocks.NewFrame(pipeline.FrameInfo{BitDepth: 8, Width: 31, Height: 32}, 0, func(x, y int) uint16 { return 0 })
	if r := enc.PushFrame(bad); r != Error {
		t.Errorf("expected Error for odd width, got %s", r)
	}
	if r := enc.PullResult(nil); r != Error {
		t.Errorf("expected Error for nil buffer, got %s", r)
	}

	enc.Close()
	var res pipeline.FrameResult
	if r := enc.PullResult(&res); r != Error {
		t.Errorf("expected Error after Close, got %s", r)
	}
	if logger.Count(ports.LevelError) < 2 {
		t.Errorf("expected errors to be logged, got %+v", logger.Entries())
	}
}
