package ports

import (
	"context"

	"github.com/user/vca/pkg/pipeline"
)

// ResultSink consumes per-frame analysis results.
// The orchestrator delivers results in presentation order.
type ResultSink interface {
	// WriteResult records one frame result. The sink must not retain
	// result slices after returning.
	WriteResult(ctx context.Context, result pipeline.FrameResult) error

	// Close flushes buffered output and releases resources.
	Close() error
}
