package mocks

import (
	"context"
	"sync"

	"github.com/user/vca/pkg/pipeline"
	"github.com/user/vca/pkg/ports"
)

// ResultSink is a mock implementation of ports.ResultSink.
type ResultSink struct {
	mu sync.Mutex

	WriteResultFunc func(ctx context.Context, result pipeline.FrameResult) error
	CloseFunc       func() error

	Results []pipeline.FrameResult
	Closed  bool
}

// NewResultSink creates a new mock ResultSink.
func NewResultSink() *ResultSink {
	return &ResultSink{}
}

func (m *ResultSink) WriteResult(ctx context.Context, result pipeline.FrameResult) error {
	if m.WriteResultFunc != nil {
		if err := m.WriteResultFunc(ctx, result); err != nil {
			return err
		}
	}
	var copied pipeline.FrameResult
	result.CopyTo(&copied)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Results = append(m.Results, copied)
	return nil
}

func (m *ResultSink) Close() error {
	m.mu.Lock()
	m.Closed = true
	m.mu.Unlock()
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// POCs returns the presentation indexes in the order they were written.
func (m *ResultSink) POCs() []int {
	m.mu.Lock()
	defer m.mu.Unlock()
	pocs := make([]int, len(m.Results))
	for i, r := range m.Results {
		pocs[i] = r.POC
	}
	return pocs
}

var _ ports.ResultSink = (*ResultSink)(nil)
