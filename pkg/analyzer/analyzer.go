// Package analyzer implements the concurrent frame-analysis engine.
//
// An Analyzer owns a fixed pool of worker goroutines and two queues. Frames
// pushed with PushFrame become jobs on the inbound queue; workers compute
// per-block statistics and push results to the outbound queue, where
// PullResult picks them up.
//
// Results are delivered in completion order, not submission order. Callers
// that need presentation order should feed results through a Resequencer.
package analyzer

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/user/vca/pkg/pipeline"
	"github.com/user/vca/pkg/ports"
	"github.com/user/vca/pkg/queue"
)

// Analyzer is the frame-analysis engine.
type Analyzer struct {
	cfg    Config
	logger ports.Logger

	jobs    *queue.Queue[Job]
	results *queue.Queue[pipeline.FrameResult]
	workers []*worker
	wg      sync.WaitGroup

	// pushMu serializes PushFrame so sequence ids enter the queue in order.
	pushMu       sync.Mutex
	frameCounter uint64

	infoMu sync.RWMutex
	info   *pipeline.FrameInfo

	counts    counters
	closeOnce sync.Once
}

// counters are updated atomically by the caller and worker goroutines.
type counters struct {
	pushed    atomic.Uint64
	rejected  atomic.Uint64
	completed atomic.Uint64
	dropped   atomic.Uint64
}

// Stats is a snapshot of the analyzer's progress.
type Stats struct {
	Workers   int
	Pushed    uint64 // frames accepted by PushFrame
	Rejected  uint64 // frames rejected by geometry validation
	Completed uint64 // results pushed to the outbound queue
	Dropped   uint64 // results discarded because teardown raced the push
	Queued    int    // jobs waiting for a worker
	Ready     int    // results waiting for PullResult
}

// New validates cfg and starts cfg.Workers() worker goroutines.
func New(cfg Config, logger ports.Logger) (*Analyzer, error) {
	return newAnalyzer(cfg, logger, newBlockAnalyzer)
}

// newAnalyzer starts the pool with one processor per worker built by
// newProcessor.
func newAnalyzer(cfg Config, logger ports.Logger, newProcessor func(Config) frameProcessor) (*Analyzer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Analyzer{
		cfg:     cfg,
		logger:  logger.WithComponent("analyzer"),
		jobs:    queue.New[Job](cfg.queueDepth()),
		results: queue.New[pipeline.FrameResult](0),
	}

	n := cfg.Workers()
	a.logger.Info("Starting %d threads", n)
	a.logger.Debug("Block size %d, simd %s, lowpass %v", cfg.BlockSize, cfg.CPUSimd, cfg.EnableLowpass)

	a.workers = make([]*worker, n)
	for i := range a.workers {
		w := newWorker(i, newProcessor(cfg), a.jobs, a.results, &a.counts, a.logger)
		a.workers[i] = w
		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			w.run()
		}()
	}

	return a, nil
}

// Config returns the configuration the analyzer was started with.
func (a *Analyzer) Config() Config {
	return a.cfg
}

// PushFrame validates the frame geometry and luma buffer and queues the
// frame for analysis.
//
// The first accepted frame latches its FrameInfo; later frames must match it
// exactly. Rejected frames are not queued and leave the latch unchanged.
// PushFrame blocks while the inbound queue is full.
func (a *Analyzer) PushFrame(frame *pipeline.Frame) error {
	if frame == nil {
		return fmt.Errorf("%w: nil frame", ErrInvalidFrame)
	}
	if err := a.checkLumaPlane(frame); err != nil {
		a.counts.rejected.Add(1)
		return err
	}
	if err := a.checkFrameInfo(frame.Info); err != nil {
		a.counts.rejected.Add(1)
		return err
	}

	a.pushMu.Lock()
	defer a.pushMu.Unlock()

	job := Job{Frame: frame, SequenceID: a.frameCounter}
	if !a.jobs.Push(job) {
		return ErrClosed
	}
	a.frameCounter++
	a.counts.pushed.Add(1)
	return nil
}

// checkLumaPlane verifies that the luma plane holds Height rows of Width
// samples at the given stride. Geometry itself is checked by checkFrameInfo.
func (a *Analyzer) checkLumaPlane(frame *pipeline.Frame) error {
	info := frame.Info
	if info.Width <= 0 || info.Height <= 0 {
		return nil
	}
	rowBytes := info.Width * info.BytesPerSample()
	stride := frame.Stride[0]
	if stride < rowBytes {
		a.logger.Error("Frame with luma stride %d below row size %d provided", stride, rowBytes)
		return fmt.Errorf("%w: luma stride %d below row size %d", ErrInvalidFrame, stride, rowBytes)
	}
	need := stride*(info.Height-1) + rowBytes
	if len(frame.Planes[0]) < need {
		a.logger.Error("Frame with luma plane of %d bytes provided, need %d", len(frame.Planes[0]), need)
		return fmt.Errorf("%w: luma plane has %d bytes, need %d", ErrInvalidFrame, len(frame.Planes[0]), need)
	}
	return nil
}

// checkFrameInfo validates info against the latched geometry, latching it on
// the first call.
func (a *Analyzer) checkFrameInfo(info pipeline.FrameInfo) error {
	a.infoMu.Lock()
	defer a.infoMu.Unlock()

	if a.info == nil {
		if info.BitDepth < 8 || info.BitDepth > 16 {
			a.logger.Error("Frame with invalid bit depth %d provided", info.BitDepth)
			return fmt.Errorf("%w: bit depth %d outside 8..16", ErrInvalidFrame, info.BitDepth)
		}
		if info.Width <= 0 || info.Width%2 != 0 || info.Height <= 0 || info.Height%2 != 0 {
			a.logger.Error("Frame with invalid size %dx%d provided", info.Width, info.Height)
			return fmt.Errorf("%w: size %dx%d must be even and non-zero", ErrInvalidFrame, info.Width, info.Height)
		}
		latched := info
		a.info = &latched
		return nil
	}

	if info != *a.info {
		a.logger.Error("Frame with different settings received: %s, expected %s", info, *a.info)
		return fmt.Errorf("%w: got %s, want %s", ErrFrameMismatch, info, *a.info)
	}
	return nil
}

// ResultAvailable reports whether a result can currently be pulled.
// The answer may be stale by the time PullResult is called.
func (a *Analyzer) ResultAvailable() bool {
	return !a.results.Empty()
}

// PullResult blocks until a result is available and copies it into out,
// reusing the capacity of out's slices. It returns ErrClosed once the
// analyzer has been torn down.
func (a *Analyzer) PullResult(out *pipeline.FrameResult) error {
	result, ok := a.results.WaitAndPop()
	if !ok {
		return ErrClosed
	}
	result.CopyTo(out)
	return nil
}

// Info returns the latched frame geometry, if a frame has been accepted.
func (a *Analyzer) Info() (pipeline.FrameInfo, bool) {
	a.infoMu.RLock()
	defer a.infoMu.RUnlock()
	if a.info == nil {
		return pipeline.FrameInfo{}, false
	}
	return *a.info, true
}

// BlockCount returns the number of blocks per frame for the latched
// geometry, or 0 before the first frame is accepted.
func (a *Analyzer) BlockCount() int {
	info, ok := a.Info()
	if !ok {
		return 0
	}
	wide, high := blockGrid(info, a.cfg.BlockSize)
	return wide * high
}

// Stats returns a snapshot of the analyzer counters.
func (a *Analyzer) Stats() Stats {
	return Stats{
		Workers:   len(a.workers),
		Pushed:    a.counts.pushed.Load(),
		Rejected:  a.counts.rejected.Load(),
		Completed: a.counts.completed.Load(),
		Dropped:   a.counts.dropped.Load(),
		Queued:    a.jobs.Len(),
		Ready:     a.results.Len(),
	}
}

// WorkerStates returns the lifecycle state of every worker.
func (a *Analyzer) WorkerStates() []WorkerState {
	states := make([]WorkerState, len(a.workers))
	for i, w := range a.workers {
		states[i] = w.State()
	}
	return states
}

// Close tears the analyzer down: it aborts the inbound queue so workers stop
// popping, aborts the outbound queue so blocked PullResult calls return, and
// waits for every worker to exit. Results not yet pulled are discarded.
// Close is idempotent.
func (a *Analyzer) Close() error {
	a.closeOnce.Do(func() {
		a.jobs.Abort()
		a.results.Abort()
		a.wg.Wait()
		stats := a.Stats()
		a.logger.Debug("Analyzer closed: %d pushed, %d completed, %d dropped", stats.Pushed, stats.Completed, stats.Dropped)
	})
	return nil
}
