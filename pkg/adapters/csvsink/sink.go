// Package csvsink writes one CSV row of frame-level metrics per result.
package csvsink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/user/vca/pkg/pipeline"
	"github.com/user/vca/pkg/ports"
)

// Header is the first row of every file.
var Header = []string{"POC", "E", "h", "edge_density", "epsilon"}

// Sink writes frame metrics as CSV. Results are expected in presentation
// order; epsilon is the relative energy change from the previous row.
type Sink struct {
	w      io.WriteCloser
	csv    *csv.Writer
	prevE  int32
	rows   int
	closed bool
}

// New creates path through fs and writes the header row.
func New(fs ports.FileSystem, path string) (*Sink, error) {
	w, err := fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create csv log: %w", err)
	}
	return NewWriter(w)
}

// NewWriter writes CSV to w and closes it on Close.
func NewWriter(w io.WriteCloser) (*Sink, error) {
	s := &Sink{w: w, csv: csv.NewWriter(w)}
	if err := s.csv.Write(Header); err != nil {
		w.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	return s, nil
}

// Rows returns the number of data rows written.
func (s *Sink) Rows() int {
	return s.rows
}

// WriteResult appends one row for result.
func (s *Sink) WriteResult(ctx context.Context, result pipeline.FrameResult) error {
	epsilon := 0.0
	if s.rows > 0 && s.prevE > 0 {
		epsilon = math.Abs(float64(result.AverageEnergy-s.prevE)) / float64(s.prevE)
	}

	row := []string{
		strconv.Itoa(result.POC),
		strconv.Itoa(int(result.AverageEnergy)),
		formatFloat(result.AverageEntropy),
		formatFloat(result.AverageEdgeDensity),
		formatFloat(epsilon),
	}
	if err := s.csv.Write(row); err != nil {
		return fmt.Errorf("write csv row: %w", err)
	}
	s.prevE = result.AverageEnergy
	s.rows++
	return nil
}

// Close flushes buffered rows and closes the underlying writer.
func (s *Sink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		s.w.Close()
		return fmt.Errorf("flush csv log: %w", err)
	}
	return s.w.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

var _ ports.ResultSink = (*Sink)(nil)
