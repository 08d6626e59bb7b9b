// Package heatmapsink renders per-block statistics as PNG heat maps for
// visual debugging.
package heatmapsink

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"path/filepath"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/vca/pkg/pipeline"
	"github.com/user/vca/pkg/ports"
)

// Metric selects which per-block statistic is drawn.
type Metric string

const (
	MetricEnergy      Metric = "energy"
	MetricEntropy     Metric = "entropy"
	MetricEdgeDensity Metric = "edge"
)

// ParseMetric parses "energy", "entropy" or "edge".
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(s); m {
	case MetricEnergy, MetricEntropy, MetricEdgeDensity:
		return m, nil
	default:
		return "", fmt.Errorf("unknown heatmap metric %q", s)
	}
}

// Options configures the sink.
type Options struct {
	Metric Metric
	Scale  int // output pixels per block edge
	Every  int // write every Nth frame by POC
	Grid   bool
	Label  bool
}

// DefaultOptions returns energy maps at 8 pixels per block with a grid and
// a POC label on every frame.
func DefaultOptions() Options {
	return Options{
		Metric: MetricEnergy,
		Scale:  8,
		Every:  1,
		Grid:   true,
		Label:  true,
	}
}

// Sink saves one PNG per selected frame under baseDir.
type Sink struct {
	baseDir string
	fs      ports.FileSystem
	opts    Options
	written int
}

// New creates a new heat map sink. Non-positive Scale and Every fall back
// to the defaults.
func New(baseDir string, fs ports.FileSystem, opts Options) *Sink {
	def := DefaultOptions()
	if opts.Metric == "" {
		opts.Metric = def.Metric
	}
	if opts.Scale <= 0 {
		opts.Scale = def.Scale
	}
	if opts.Every <= 0 {
		opts.Every = def.Every
	}
	return &Sink{baseDir: baseDir, fs: fs, opts: opts}
}

// Written returns the number of images saved so far.
func (s *Sink) Written() int {
	return s.written
}

// Path returns the file name used for a POC.
func (s *Sink) Path(poc int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("heatmap-%s-%06d.png", s.opts.Metric, poc))
}

// WriteResult renders result if its POC is selected.
func (s *Sink) WriteResult(ctx context.Context, result pipeline.FrameResult) error {
	if result.POC%s.opts.Every != 0 || result.BlockCount() == 0 {
		return nil
	}
	values := s.values(result)
	if values == nil {
		return nil
	}

	img := s.render(result, values)

	if err := s.fs.MkdirAll(s.baseDir); err != nil {
		return fmt.Errorf("create heatmap dir: %w", err)
	}
	w, err := s.fs.Create(s.Path(result.POC))
	if err != nil {
		return fmt.Errorf("create heatmap: %w", err)
	}
	dc := gg.NewContextForImage(img)
	if err := dc.EncodePNG(w); err != nil {
		w.Close()
		return fmt.Errorf("encode heatmap: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close heatmap: %w", err)
	}
	s.written++
	return nil
}

// Close does nothing; every image is complete once written.
func (s *Sink) Close() error {
	return nil
}

// values returns the selected statistic normalized to [0, 1] by the frame
// maximum, or nil if the statistic was not computed.
func (s *Sink) values(result pipeline.FrameResult) []float64 {
	var raw []float64
	switch s.opts.Metric {
	case MetricEnergy:
		raw = make([]float64, len(result.EnergyPerBlock))
		for i, e := range result.EnergyPerBlock {
			raw[i] = float64(e)
		}
	case MetricEntropy:
		raw = append(raw, result.EntropyPerBlock...)
	case MetricEdgeDensity:
		raw = append(raw, result.EdgeDensityPerBlock...)
	}
	if len(raw) == 0 {
		return nil
	}

	max := 0.0
	for _, v := range raw {
		if v > max {
			max = v
		}
	}
	if max > 0 {
		for i := range raw {
			raw[i] /= max
		}
	}
	return raw
}

// render draws one pixel per block, scales it up and overlays the grid and
// label.
func (s *Sink) render(result pipeline.FrameResult, values []float64) image.Image {
	wide, high := result.BlocksWide, result.BlocksHigh

	small := image.NewRGBA(image.Rect(0, 0, wide, high))
	for by := 0; by < high; by++ {
		for bx := 0; bx < wide; bx++ {
			small.Set(bx, by, heatColor(values[by*wide+bx]))
		}
	}

	scale := s.opts.Scale
	big := image.NewRGBA(image.Rect(0, 0, wide*scale, high*scale))
	draw.NearestNeighbor.Scale(big, big.Bounds(), small, small.Bounds(), draw.Src, nil)

	if !s.opts.Grid && !s.opts.Label {
		return big
	}

	dc := gg.NewContextForRGBA(big)
	if s.opts.Grid && scale >= 4 {
		dc.SetColor(color.RGBA{0, 0, 0, 64})
		dc.SetLineWidth(1)
		for bx := 1; bx < wide; bx++ {
			x := float64(bx*scale) + 0.5
			dc.DrawLine(x, 0, x, float64(high*scale))
		}
		for by := 1; by < high; by++ {
			y := float64(by*scale) + 0.5
			dc.DrawLine(0, y, float64(wide*scale), y)
		}
		dc.Stroke()
	}
	if s.opts.Label {
		dc.SetColor(color.White)
		dc.DrawStringAnchored(fmt.Sprintf("POC %d", result.POC), 4, 4, 0, 1)
	}
	return dc.Image()
}

// heatColor maps v in [0, 1] onto a blue, green, red ramp.
func heatColor(v float64) color.RGBA {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	mid := 1 - 2*abs(v-0.5)
	return color.RGBA{
		R: uint8(255 * v),
		G: uint8(255 * mid),
		B: uint8(255 * (1 - v)),
		A: 255,
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

var _ ports.ResultSink = (*Sink)(nil)
