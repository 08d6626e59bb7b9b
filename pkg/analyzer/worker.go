package analyzer

import (
	"sync/atomic"

	"github.com/user/vca/pkg/kernels"
	"github.com/user/vca/pkg/pipeline"
	"github.com/user/vca/pkg/ports"
	"github.com/user/vca/pkg/queue"
)

// WorkerState is the lifecycle state of a worker goroutine.
type WorkerState int32

const (
	WorkerRunning WorkerState = iota
	WorkerStopped
)

// String returns "running" or "stopped".
func (s WorkerState) String() string {
	if s == WorkerStopped {
		return "stopped"
	}
	return "running"
}

// frameProcessor turns one job into its frame result. Every worker owns its
// own processor, so implementations may keep scratch buffers.
type frameProcessor interface {
	process(job Job) pipeline.FrameResult
}

// worker pops jobs, hands them to its processor and pushes frame results.
type worker struct {
	id      int
	jobs    *queue.Queue[Job]
	results *queue.Queue[pipeline.FrameResult]
	counts  *counters
	logger  ports.Logger
	proc    frameProcessor

	state atomic.Int32
}

func newWorker(id int, proc frameProcessor, jobs *queue.Queue[Job], results *queue.Queue[pipeline.FrameResult], counts *counters, logger ports.Logger) *worker {
	return &worker{
		id:      id,
		jobs:    jobs,
		results: results,
		counts:  counts,
		logger:  logger,
		proc:    proc,
	}
}

// State returns the current lifecycle state.
func (w *worker) State() WorkerState {
	return WorkerState(w.state.Load())
}

// run loops until the job queue is aborted.
func (w *worker) run() {
	defer w.state.Store(int32(WorkerStopped))

	for {
		job, ok := w.jobs.WaitAndPop()
		if !ok {
			w.logger.Debug("Worker %d stopped", w.id)
			return
		}

		result := w.proc.process(job)
		if !w.results.Push(result) {
			// Outbound queue aborted while this job was in flight.
			w.counts.dropped.Add(1)
			continue
		}
		w.counts.completed.Add(1)
	}
}

// blockAnalyzer runs the block kernels over a frame's luma plane.
// All scratch buffers belong to the owning worker goroutine.
type blockAnalyzer struct {
	cfg     Config
	entropy *kernels.EntropyKernel
	energy  *kernels.EnergyKernel
	block   []uint16
	stats   []pipeline.BlockStats
}

func newBlockAnalyzer(cfg Config) frameProcessor {
	return &blockAnalyzer{
		cfg:     cfg,
		entropy: kernels.NewEntropyKernel(cfg.CPUSimd),
		energy:  kernels.NewEnergyKernel(cfg.BlockSize),
		block:   make([]uint16, cfg.BlockSize*cfg.BlockSize),
	}
}

// analyze partitions the luma plane into blocks and aggregates the block
// statistics into a FrameResult.
func (w *blockAnalyzer) process(job Job) pipeline.FrameResult {
	frame := job.Frame
	n := w.cfg.BlockSize
	wide, high := blockGrid(frame.Info, n)
	count := wide * high

	result := pipeline.FrameResult{
		POC:                    frame.POC,
		SequenceID:             job.SequenceID,
		BlocksWide:             wide,
		BlocksHigh:             high,
		EnergyPerBlock:         make([]int32, count),
		RelativeEnergyPerBlock: make([]float64, count),
	}
	if w.cfg.EnableEntropy {
		result.EntropyPerBlock = make([]float64, count)
	}
	if w.cfg.EnableEdgeDensity {
		result.EdgeDensityPerBlock = make([]float64, count)
	}

	if cap(w.stats) < count {
		w.stats = make([]pipeline.BlockStats, count)
	}
	w.stats = w.stats[:count]

	var energySum int64
	var entropySum, edgeSum float64
	for by := 0; by < high; by++ {
		for bx := 0; bx < wide; bx++ {
			idx := by*wide + bx
			w.loadBlock(frame, bx*n, by*n)
			stats := w.analyzeBlock(frame.Info.BitDepth)
			w.stats[idx] = stats

			result.EnergyPerBlock[idx] = stats.AbsoluteEnergy
			energySum += int64(stats.AbsoluteEnergy)
			if stats.HasEntropy {
				result.EntropyPerBlock[idx] = stats.Entropy
				entropySum += stats.Entropy
			}
			if stats.HasEdgeDensity {
				result.EdgeDensityPerBlock[idx] = stats.EdgeDensity
				edgeSum += stats.EdgeDensity
			}
		}
	}

	if count > 0 {
		result.AverageEnergy = int32(energySum / int64(count))
		result.AverageEntropy = entropySum / float64(count)
		result.AverageEdgeDensity = edgeSum / float64(count)
	}
	for i := range w.stats {
		w.stats[i].RelativeEnergy = relativeEnergy(w.stats[i].AbsoluteEnergy, result.AverageEnergy)
		result.RelativeEnergyPerBlock[i] = w.stats[i].RelativeEnergy
	}

	return result
}

// relativeEnergy is the block energy over the frame average, 0 when the
// average is 0.
func relativeEnergy(energy, average int32) float64 {
	if average <= 0 {
		return 0
	}
	return float64(energy) / float64(average)
}

// analyzeBlock runs the enabled kernels over the loaded block.
func (w *blockAnalyzer) analyzeBlock(bitDepth int) pipeline.BlockStats {
	n := w.cfg.BlockSize
	stats := pipeline.BlockStats{
		AbsoluteEnergy: w.energy.Compute(w.block, bitDepth, w.cfg.EnableLowpass),
	}
	if w.cfg.EnableEntropy {
		stats.Entropy = w.entropy.Compute(w.block, n, bitDepth, w.cfg.EnableLowpass)
		stats.HasEntropy = true
	}
	if w.cfg.EnableEdgeDensity {
		stats.EdgeDensity = kernels.ComputeEdgeDensity(w.block, bitDepth, n)
		stats.HasEdgeDensity = true
	}
	return stats
}

// loadBlock copies the block at (x0, y0) into w.block. Samples beyond the
// right or bottom edge replicate the last column or row.
func (w *blockAnalyzer) loadBlock(frame *pipeline.Frame, x0, y0 int) {
	n := w.cfg.BlockSize
	width, height := frame.Info.Width, frame.Info.Height
	inside := x0+n <= width && y0+n <= height

	for y := 0; y < n; y++ {
		sy := y0 + y
		if sy >= height {
			sy = height - 1
		}
		dst := w.block[y*n : (y+1)*n]

		if inside && frame.Info.BitDepth == 8 {
			row := frame.Planes[0][sy*frame.Stride[0]+x0:]
			for x := range dst {
				dst[x] = uint16(row[x])
			}
			continue
		}

		for x := range dst {
			sx := x0 + x
			if sx >= width {
				sx = width - 1
			}
			dst[x] = frame.LumaSample(sx, sy)
		}
	}
}
