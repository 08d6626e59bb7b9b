// Package orchestrator runs a complete analysis: it reads frames from a
// source, feeds them to the analyzer, restores presentation order and hands
// each result to a sink.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/user/vca/pkg/analyzer"
	"github.com/user/vca/pkg/pipeline"
	"github.com/user/vca/pkg/ports"
	"github.com/user/vca/pkg/summarizer"
	"github.com/user/vca/pkg/vca"
)

// Config contains all configuration for one run.
type Config struct {
	// Input
	InputPath  string
	Format     string             // "yuv" or "y4m"; empty selects by extension
	Info       pipeline.FrameInfo // geometry of raw .yuv input
	SkipFrames int
	MaxFrames  int // 0 analyzes every frame

	// Analysis
	Param vca.Param

	// Ordered delivers results to the sink in presentation order.
	// When false they are written in completion order.
	Ordered bool

	// Outputs
	SummaryPath string
	OutputPaths []string // files written by sinks, reported in the summary
	Version     string
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		Param:   vca.DefaultParam(),
		Ordered: true,
	}
}

// FormatOf returns the input format for path: "y4m" for a .y4m extension,
// "yuv" otherwise.
func FormatOf(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".y4m") {
		return "y4m"
	}
	return "yuv"
}

// SourceOpener opens the frame source described by a Config.
type SourceOpener func(cfg Config) (ports.FrameSource, error)

// Orchestrator coordinates the source, the analyzer and the sink.
type Orchestrator struct {
	open   SourceOpener
	sink   ports.ResultSink
	fs     ports.FileSystem
	logger ports.Logger
}

// New creates a new Orchestrator. The sink is not closed by Run.
func New(open SourceOpener, sink ports.ResultSink, fs ports.FileSystem, logger ports.Logger) *Orchestrator {
	return &Orchestrator{
		open:   open,
		sink:   sink,
		fs:     fs,
		logger: logger,
	}
}

// RunResult contains the outcome of a run.
type RunResult struct {
	Frames     int // results written to the sink
	Rejected   int // frames refused by the analyzer
	BlockCount int
	Duration   time.Duration
	Metrics    summarizer.Metrics
	Summary    *summarizer.Summary
}

// bytesReader is implemented by sources that count consumed input.
type bytesReader interface {
	BytesRead() int64
}

// Run executes the complete analysis.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	start := time.Now()
	if config.Format == "" {
		config.Format = FormatOf(config.InputPath)
	}

	acfg, err := config.Param.Config()
	if err != nil {
		o.logger.Error("Invalid parameters: %s", err)
		return RunResult{}, err
	}

	src, err := o.open(config)
	if err != nil {
		o.logger.Error("Failed to open input: %s", err)
		return RunResult{}, fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	info := src.Info()
	o.logger.Info("Analyzing %s (%s, %s)", config.InputPath, config.Format, info)

	an, err := analyzer.New(acfg, o.logger)
	if err != nil {
		return RunResult{}, err
	}
	defer an.Close()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := &producer{
		src:      src,
		analyzer: an,
		max:      config.MaxFrames,
		logger:   o.logger,
		notify:   make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.run(runCtx)
	}()

	var acc summarizer.Accumulator
	consumeErr := o.consume(runCtx, an, p, config.Ordered, &acc)
	if consumeErr != nil {
		// Unblock a producer waiting on a full queue.
		cancel()
		an.Close()
	}
	wg.Wait()

	if consumeErr == nil {
		consumeErr = p.err
	}
	if consumeErr == nil && ctx.Err() != nil {
		consumeErr = ctx.Err()
	}
	if consumeErr != nil {
		if errors.Is(consumeErr, context.Canceled) {
			o.logger.Warn("Interrupted, shutting down...")
		}
		return RunResult{}, consumeErr
	}

	stats := an.Stats()
	duration := time.Since(start)
	result := RunResult{
		Frames:     acc.Count(),
		Rejected:   int(stats.Rejected),
		BlockCount: an.BlockCount(),
		Duration:   duration,
		Metrics:    acc.Metrics(),
	}
	o.logger.Info("Analyzed %d frames in %d ms", result.Frames, duration.Milliseconds())
	if result.Rejected > 0 {
		o.logger.Warn("%d frames were rejected", result.Rejected)
	}

	input := summarizer.InputInfo{
		Path:       config.InputPath,
		Format:     config.Format,
		Width:      info.Width,
		Height:     info.Height,
		BitDepth:   info.BitDepth,
		ColorSpace: info.ColorSpace.String(),
		Skipped:    config.SkipFrames,
	}
	if br, ok := src.(bytesReader); ok {
		input.BytesRead = br.BytesRead()
	}

	builder := summarizer.NewBuilder().
		WithInput(input).
		WithSettings(summarizer.Settings{
			FrameThreads:      acfg.FrameThreads,
			SliceThreads:      acfg.SliceThreads,
			BlockSize:         acfg.BlockSize,
			CPUSimd:           acfg.CPUSimd.String(),
			EnableLowpass:     acfg.EnableLowpass,
			EnableEntropy:     acfg.EnableEntropy,
			EnableEdgeDensity: acfg.EnableEdgeDensity,
		}).
		WithRun(result.Frames, result.Rejected, result.BlockCount, duration).
		WithMetrics(result.Metrics)
	for _, path := range config.OutputPaths {
		builder.AddOutput(path)
	}
	result.Summary = builder.Build()

	if config.SummaryPath != "" {
		formatter := summarizer.NewMarkdownFormatter(
			summarizer.WithTranslator(l10n.T),
			summarizer.WithVersion(config.Version),
		)
		if err := summarizer.NewWriter(formatter, o.fs).Write(config.SummaryPath, result.Summary); err != nil {
			o.logger.Error("Failed to write summary: %s", err)
			return result, fmt.Errorf("write summary: %w", err)
		}
		o.logger.Info("Summary saved to %s", config.SummaryPath)
	}

	return result, nil
}

// consume pulls every result the producer caused, optionally resequences
// them and writes them to the sink.
func (o *Orchestrator) consume(ctx context.Context, an *analyzer.Analyzer, p *producer, ordered bool, acc *summarizer.Accumulator) error {
	var reseq *analyzer.Resequencer
	if ordered {
		reseq = analyzer.NewResequencer(0)
	}

	write := func(res pipeline.FrameResult) error {
		if err := o.sink.WriteResult(ctx, res); err != nil {
			o.logger.Error("Failed to write result for frame %d: %s", res.POC, err)
			return fmt.Errorf("write result: %w", err)
		}
		acc.Add(res)
		o.logger.Debug("Frame %d: E=%d h=%.3f", res.POC, res.AverageEnergy, res.AverageEntropy)
		return nil
	}

	var pulled uint64
	var res pipeline.FrameResult
	for {
		if pulled < p.pushed.Load() {
			if err := an.PullResult(&res); err != nil {
				return err
			}
			pulled++

			if reseq == nil {
				if err := write(res); err != nil {
					return err
				}
				continue
			}
			var own pipeline.FrameResult
			res.CopyTo(&own)
			for _, ready := range reseq.Add(own) {
				if err := write(ready); err != nil {
					return err
				}
			}
			continue
		}

		select {
		case <-p.done:
			if pulled < p.pushed.Load() {
				continue
			}
			if reseq != nil {
				for _, rest := range reseq.Flush() {
					if err := write(rest); err != nil {
						return err
					}
				}
			}
			return nil
		case <-p.notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// producer reads frames from the source and pushes them into the analyzer.
type producer struct {
	src      ports.FrameSource
	analyzer *analyzer.Analyzer
	max      int
	logger   ports.Logger

	pushed atomic.Uint64
	notify chan struct{}
	done   chan struct{}
	err    error // read after done is closed
}

func (p *producer) run(ctx context.Context) {
	defer close(p.done)

	for p.max <= 0 || int(p.pushed.Load()) < p.max {
		frame, err := p.src.ReadFrame(ctx)
		if err == io.EOF {
			return
		}
		if err != nil {
			if ctx.Err() != nil {
				p.err = ctx.Err()
				return
			}
			p.logger.Error("Failed to read frame: %s", err)
			p.err = fmt.Errorf("read frame: %w", err)
			return
		}

		err = p.analyzer.PushFrame(frame)
		switch {
		case err == nil:
			p.pushed.Add(1)
			select {
			case p.notify <- struct{}{}:
			default:
			}
		case errors.Is(err, analyzer.ErrInvalidFrame), errors.Is(err, analyzer.ErrFrameMismatch):
			// Logged by the analyzer; the frame is skipped.
		default:
			if ctx.Err() != nil {
				p.err = ctx.Err()
			} else {
				p.err = err
			}
			return
		}
	}
}
