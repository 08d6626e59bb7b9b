// Package summarizer builds and formats the summary of an analysis run.
package summarizer

import (
	"math"
	"time"

	"github.com/user/vca/pkg/pipeline"
)

// Summary contains everything reported about one analysis run.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	Input    InputInfo
	Settings Settings
	Run      RunInfo
	Metrics  Metrics

	// Outputs lists the files written by sinks.
	Outputs []string
}

// InputInfo describes the analyzed sequence.
type InputInfo struct {
	Path       string
	Format     string // "yuv" or "y4m"
	Width      int
	Height     int
	BitDepth   int
	ColorSpace string
	BytesRead  int64
	Skipped    int
}

// Settings contains the analyzer configuration.
type Settings struct {
	FrameThreads      int
	SliceThreads      int
	BlockSize         int
	CPUSimd           string
	EnableLowpass     bool
	EnableEntropy     bool
	EnableEdgeDensity bool
}

// RunInfo contains counters and timing for the run.
type RunInfo struct {
	Frames     int
	Rejected   int
	BlockCount int
	DurationMs int
}

// FPS returns frames analyzed per second, or 0 for an instant run.
func (r RunInfo) FPS() float64 {
	if r.DurationMs <= 0 {
		return 0
	}
	return float64(r.Frames) * 1000 / float64(r.DurationMs)
}

// Metrics aggregates the per-frame averages over the run.
type Metrics struct {
	MeanEnergy      float64
	MinEnergy       int32
	MaxEnergy       int32
	MeanEntropy     float64
	MeanEdgeDensity float64

	// PeakEpsilon is the largest relative energy change between consecutive
	// frames and PeakEpsilonPOC the frame where it occurred.
	PeakEpsilon    float64
	PeakEpsilonPOC int
}

// Accumulator folds frame results into Metrics. Results must be added in
// presentation order for epsilon to be meaningful.
type Accumulator struct {
	count      int
	energySum  float64
	entropySum float64
	edgeSum    float64
	prevEnergy int32
	metrics    Metrics
}

// Add folds one result into the running metrics.
func (a *Accumulator) Add(result pipeline.FrameResult) {
	e := result.AverageEnergy
	if a.count == 0 {
		a.metrics.MinEnergy = e
		a.metrics.MaxEnergy = e
	} else {
		if e < a.metrics.MinEnergy {
			a.metrics.MinEnergy = e
		}
		if e > a.metrics.MaxEnergy {
			a.metrics.MaxEnergy = e
		}
		if a.prevEnergy > 0 {
			eps := math.Abs(float64(e-a.prevEnergy)) / float64(a.prevEnergy)
			if eps > a.metrics.PeakEpsilon {
				a.metrics.PeakEpsilon = eps
				a.metrics.PeakEpsilonPOC = result.POC
			}
		}
	}

	a.count++
	a.prevEnergy = e
	a.energySum += float64(e)
	a.entropySum += result.AverageEntropy
	a.edgeSum += result.AverageEdgeDensity
}

// Count returns the number of results added.
func (a *Accumulator) Count() int {
	return a.count
}

// Metrics returns the aggregate of every result added so far.
func (a *Accumulator) Metrics() Metrics {
	m := a.metrics
	if a.count > 0 {
		n := float64(a.count)
		m.MeanEnergy = a.energySum / n
		m.MeanEntropy = a.entropySum / n
		m.MeanEdgeDensity = a.edgeSum / n
	}
	return m
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithInput sets the input description.
func (b *Builder) WithInput(input InputInfo) *Builder {
	b.summary.Input = input
	return b
}

// WithSettings sets the analyzer settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithRun sets run counters and duration.
func (b *Builder) WithRun(frames, rejected, blockCount int, duration time.Duration) *Builder {
	b.summary.Run = RunInfo{
		Frames:     frames,
		Rejected:   rejected,
		BlockCount: blockCount,
		DurationMs: int(duration.Milliseconds()),
	}
	return b
}

// WithMetrics sets the aggregated metrics.
func (b *Builder) WithMetrics(metrics Metrics) *Builder {
	b.summary.Metrics = metrics
	return b
}

// AddOutput records a file written during the run.
func (b *Builder) AddOutput(path string) *Builder {
	if path != "" {
		b.summary.Outputs = append(b.summary.Outputs, path)
	}
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
