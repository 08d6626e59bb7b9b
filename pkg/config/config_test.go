package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/user/vca/pkg/adapters/heatmapsink"
	"github.com/user/vca/pkg/pipeline"
	"github.com/user/vca/pkg/ports"
)

func TestDefaults_ProduceValidParam(t *testing.T) {
	cfg := Defaults()
	if err := cfg.ToParam().Validate(); err != nil {
		t.Fatalf("default param invalid: %v", err)
	}
	if !cfg.Ordered || cfg.LogFormat != "console" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vca.yaml")
	data := `
input: clip.yuv
width: 352
height: 288
bit_depth: 10
color_space: i422
block_size: 16
frame_threads: 3
lowpass: true
csv: out/metrics.csv
heatmap:
  dir: out/heat
  metric: entropy
redis:
  url: redis://localhost:6379/0
  max_len: 100
log_level: debug
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	info, err := cfg.FrameInfo()
	if err != nil {
		t.Fatalf("FrameInfo failed: %v", err)
	}
	want := pipeline.FrameInfo{BitDepth: 10, Width: 352, Height: 288, ColorSpace: pipeline.ColorSpaceI422}
	if info != want {
		t.Errorf("expected %s, got %s", want, info)
	}

	p := cfg.ToParam()
	if p.BlockSize != 16 || p.FrameThreads != 3 || !p.EnableLowpass {
		t.Errorf("unexpected param %+v", p)
	}
	if p.LogLevel != ports.LevelDebug {
		t.Errorf("expected debug level, got %s", p.LogLevel)
	}
	// Keys absent from the file keep their defaults.
	if !p.EnableEntropy || p.SliceThreads != 1 {
		t.Errorf("expected defaults to survive, got %+v", p)
	}
	if cfg.Redis.URL == "" || cfg.Redis.MaxLen != 100 {
		t.Errorf("unexpected redis config %+v", cfg.Redis)
	}

	oc, err := cfg.ToOrchestratorConfig()
	if err != nil {
		t.Fatalf("ToOrchestratorConfig failed: %v", err)
	}
	if oc.InputPath != "clip.yuv" || len(oc.OutputPaths) != 2 || !oc.Ordered {
		t.Errorf("unexpected orchestrator config %+v", oc)
	}

	opts, err := cfg.HeatmapOptions()
	if err != nil {
		t.Fatalf("HeatmapOptions failed: %v", err)
	}
	if opts.Metric != heatmapsink.MetricEntropy || opts.Scale != 8 {
		t.Errorf("unexpected heatmap options %+v", opts)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestParse_Invalid(t *testing.T) {
	base := Defaults()
	cfg, err := Parse([]byte("block_size: [1, 2"), base)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if cfg.BlockSize != base.BlockSize {
		t.Error("failed parse should return the base config")
	}
}

func TestFrameInfo_BadColorSpace(t *testing.T) {
	cfg := Defaults()
	cfg.ColorSpace = "nv12"
	if _, err := cfg.FrameInfo(); err == nil {
		t.Error("expected error for unknown color space")
	}
	if _, err := cfg.ToOrchestratorConfig(); err == nil {
		t.Error("expected ToOrchestratorConfig to propagate the error")
	}
}
