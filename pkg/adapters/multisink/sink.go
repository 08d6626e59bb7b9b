// Package multisink fans results out to several sinks.
package multisink

import (
	"context"
	"errors"

	"github.com/user/vca/pkg/pipeline"
	"github.com/user/vca/pkg/ports"
)

// Sink writes every result to each of its sinks in order.
type Sink struct {
	sinks []ports.ResultSink
}

// New creates a Sink over sinks. Nil entries are skipped.
func New(sinks ...ports.ResultSink) *Sink {
	s := &Sink{}
	for _, sink := range sinks {
		if sink != nil {
			s.sinks = append(s.sinks, sink)
		}
	}
	return s
}

// Len returns the number of wrapped sinks.
func (s *Sink) Len() int {
	return len(s.sinks)
}

// WriteResult writes result to every sink and joins their errors. A failing
// sink does not stop the others.
func (s *Sink) WriteResult(ctx context.Context, result pipeline.FrameResult) error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.WriteResult(ctx, result); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink and joins their errors.
func (s *Sink) Close() error {
	var errs []error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ ports.ResultSink = (*Sink)(nil)
