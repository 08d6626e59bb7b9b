package summarizer

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/user/vca/pkg/mocks"
	"github.com/user/vca/pkg/pipeline"
)

func TestNewSummary(t *testing.T) {
	before := time.Now()
	summary := NewSummary()
	after := time.Now()

	if summary.GeneratedAt.Before(before) || summary.GeneratedAt.After(after) {
		t.Errorf("GeneratedAt should be between %v and %v, got %v",
			before, after, summary.GeneratedAt)
	}
}

func TestBuilder(t *testing.T) {
	summary := NewBuilder().
		WithInput(InputInfo{Path: "in.yuv", Width: 352, Height: 288}).
		WithSettings(Settings{BlockSize: 16}).
		WithRun(30, 1, 396, 1500*time.Millisecond).
		WithMetrics(Metrics{MeanEnergy: 10}).
		AddOutput("a.csv").
		AddOutput("").
		Build()

	if summary.Input.Path != "in.yuv" || summary.Input.Width != 352 {
		t.Errorf("unexpected input %+v", summary.Input)
	}
	if summary.Settings.BlockSize != 16 {
		t.Errorf("expected block size 16, got %d", summary.Settings.BlockSize)
	}
	if summary.Run.Frames != 30 || summary.Run.Rejected != 1 || summary.Run.DurationMs != 1500 {
		t.Errorf("unexpected run %+v", summary.Run)
	}
	if summary.Run.FPS() != 20 {
		t.Errorf("expected 20 fps, got %v", summary.Run.FPS())
	}
	if summary.Metrics.MeanEnergy != 10 {
		t.Errorf("unexpected metrics %+v", summary.Metrics)
	}
	if len(summary.Outputs) != 1 {
		t.Errorf("expected empty output to be skipped, got %v", summary.Outputs)
	}
}

func TestAccumulator(t *testing.T) {
	var acc Accumulator
	for i, e := range []int32{10, 20, 5, 6} {
		acc.Add(pipeline.FrameResult{
			POC:                i,
			AverageEnergy:      e,
			AverageEntropy:     float64(i),
			AverageEdgeDensity: 0.5,
		})
	}

	m := acc.Metrics()
	if acc.Count() != 4 {
		t.Errorf("expected 4 results, got %d", acc.Count())
	}
	if m.MinEnergy != 5 || m.MaxEnergy != 20 {
		t.Errorf("expected range 5-20, got %d-%d", m.MinEnergy, m.MaxEnergy)
	}
	if m.MeanEnergy != 10.25 {
		t.Errorf("expected mean energy 10.25, got %v", m.MeanEnergy)
	}
	if m.MeanEntropy != 1.5 || m.MeanEdgeDensity != 0.5 {
		t.Errorf("unexpected means %v %v", m.MeanEntropy, m.MeanEdgeDensity)
	}
	// 10 -> 20 is +100%, 20 -> 5 is -75%.
	if math.Abs(m.PeakEpsilon-1.0) > 1e-12 || m.PeakEpsilonPOC != 1 {
		t.Errorf("expected peak epsilon 1.0 at POC 1, got %v at %d", m.PeakEpsilon, m.PeakEpsilonPOC)
	}
}

func TestAccumulator_Empty(t *testing.T) {
	var acc Accumulator
	if m := acc.Metrics(); m != (Metrics{}) {
		t.Errorf("expected zero metrics, got %+v", m)
	}
}

func TestWriter_Write(t *testing.T) {
	fs := mocks.NewFileSystem()
	w := NewWriter(FormatFunc(func(s *Summary) string {
		return "frames: " + s.Input.Path
	}), fs)

	summary := NewBuilder().WithInput(InputInfo{Path: "clip.yuv"}).Build()
	if err := w.Write("out/summary.md", summary); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, ok := fs.GetFile("out/summary.md")
	if !ok {
		t.Fatal("expected summary file")
	}
	if !strings.Contains(string(data), "clip.yuv") {
		t.Errorf("unexpected contents %q", data)
	}
	if exists, _ := fs.Exists("out"); !exists {
		t.Error("expected parent directory to be created")
	}
}

func TestWriter_WriteError(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.WriteFileFunc = func(path string, data []byte) error {
		return errors.New("disk full")
	}
	w := NewWriter(NewMarkdownFormatter(), fs)

	if err := w.Write("summary.md", NewSummary()); err == nil {
		t.Error("expected error")
	}
}
