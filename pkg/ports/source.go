package ports

import (
	"context"

	"github.com/user/vca/pkg/pipeline"
)

// FrameSource supplies raw frames in presentation order.
type FrameSource interface {
	// Info returns the geometry shared by every frame of the source.
	Info() pipeline.FrameInfo

	// ReadFrame returns the next frame, or io.EOF when the source is exhausted.
	// The returned frame owns its buffers; the source does not reuse them.
	ReadFrame(ctx context.Context) (*pipeline.Frame, error)

	// Close releases the underlying input.
	Close() error
}
