// Package nullsink provides a result sink that discards everything.
package nullsink

import (
	"context"

	"github.com/user/vca/pkg/pipeline"
	"github.com/user/vca/pkg/ports"
)

// Sink is a no-op implementation of ports.ResultSink.
// Used when a run only needs the summary.
type Sink struct{}

// New creates a new Sink.
func New() *Sink {
	return &Sink{}
}

// WriteResult does nothing.
func (s *Sink) WriteResult(ctx context.Context, result pipeline.FrameResult) error {
	return nil
}

// Close does nothing.
func (s *Sink) Close() error {
	return nil
}

var _ ports.ResultSink = (*Sink)(nil)
