package analyzer

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/user/vca/pkg/kernels"
)

// MaxFrameThreads caps the number of frame threads.
const MaxFrameThreads = 16

var (
	// ErrInvalidConfig is returned by New when the configuration is rejected.
	ErrInvalidConfig = errors.New("analyzer: invalid config")

	// ErrInvalidFrame is returned when the first frame has an unsupported geometry.
	ErrInvalidFrame = errors.New("analyzer: invalid frame")

	// ErrFrameMismatch is returned when a frame differs from the latched geometry.
	ErrFrameMismatch = errors.New("analyzer: frame differs from first frame")

	// ErrClosed is returned once the analyzer has been torn down.
	ErrClosed = errors.New("analyzer: closed")
)

// Config controls the worker pool and the statistics computed per block.
type Config struct {
	FrameThreads int // worker pool is FrameThreads * SliceThreads
	SliceThreads int

	BlockSize int // 8, 16, 32 or 64

	CPUSimd           kernels.CPUSimd
	EnableLowpass     bool
	EnableEntropy     bool
	EnableEdgeDensity bool

	// QueueDepth bounds the inbound job queue. 0 means twice the pool size.
	QueueDepth int
}

// DefaultConfig returns a Config sized to the host.
func DefaultConfig() Config {
	threads := runtime.NumCPU()
	if threads > MaxFrameThreads {
		threads = MaxFrameThreads
	}
	return Config{
		FrameThreads:      threads,
		SliceThreads:      1,
		BlockSize:         32,
		CPUSimd:           kernels.DetectCPUSimd(),
		EnableEntropy:     true,
		EnableEdgeDensity: true,
	}
}

// Workers returns the number of worker goroutines the config starts.
func (c Config) Workers() int {
	return c.FrameThreads * c.SliceThreads
}

// queueDepth returns the effective inbound queue capacity.
func (c Config) queueDepth() int {
	if c.QueueDepth > 0 {
		return c.QueueDepth
	}
	return 2 * c.Workers()
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if c.FrameThreads < 1 || c.FrameThreads > MaxFrameThreads {
		return fmt.Errorf("%w: frame threads %d outside 1..%d", ErrInvalidConfig, c.FrameThreads, MaxFrameThreads)
	}
	if c.SliceThreads < 1 {
		return fmt.Errorf("%w: slice threads %d must be positive", ErrInvalidConfig, c.SliceThreads)
	}
	switch c.BlockSize {
	case 8, 16, 32, 64:
	default:
		return fmt.Errorf("%w: block size %d not one of 8, 16, 32, 64", ErrInvalidConfig, c.BlockSize)
	}
	if c.QueueDepth < 0 {
		return fmt.Errorf("%w: queue depth %d is negative", ErrInvalidConfig, c.QueueDepth)
	}
	return nil
}
