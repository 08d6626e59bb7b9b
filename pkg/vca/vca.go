// Package vca exposes the analyzer as an owning handle with a two-valued
// result code. Failure details are written to the logger; callers only see
// OK or Error.
//
//	enc, err := vca.Open(vca.DefaultParam(), logger)
//	if err != nil { ... }
//	defer enc.Close()
//	enc.PushFrame(frame)
//	var res pipeline.FrameResult
//	enc.PullResult(&res)
package vca

import (
	"errors"

	"github.com/user/vca/pkg/adapters/logger"
	"github.com/user/vca/pkg/analyzer"
	"github.com/user/vca/pkg/pipeline"
	"github.com/user/vca/pkg/ports"
)

// Result is the outcome of a handle operation.
type Result int

const (
	OK Result = iota
	Error
)

// String returns "ok" or "error".
func (r Result) String() string {
	if r == OK {
		return "ok"
	}
	return "error"
}

// Encoder is an open analyzer handle. It is safe for one producer and one
// consumer goroutine to use concurrently.
type Encoder struct {
	param    Param
	analyzer *analyzer.Analyzer
	logger   ports.Logger
}

// Open validates p and starts the worker pool. A nil logger logs to the
// console at p.LogLevel.
func Open(p Param, log ports.Logger) (*Encoder, error) {
	if log == nil {
		log = logger.NewConsole(p.LogLevel)
	}
	log = log.WithComponent("vca")

	cfg, err := p.Config()
	if err != nil {
		log.Error("Invalid parameters: %s", err)
		return nil, err
	}

	a, err := analyzer.New(cfg, log)
	if err != nil {
		log.Error("Invalid parameters: %s", err)
		return nil, err
	}

	return &Encoder{param: p, analyzer: a, logger: log}, nil
}

// Param returns the parameters the handle was opened with.
func (e *Encoder) Param() Param {
	return e.param
}

// PushFrame submits a frame. The frame's buffers must stay untouched until
// its result has been pulled.
func (e *Encoder) PushFrame(frame *pipeline.Frame) Result {
	if err := e.analyzer.PushFrame(frame); err != nil {
		// Geometry errors are already logged by the analyzer.
		if errors.Is(err, analyzer.ErrClosed) {
			e.logger.Error("Push after close")
		}
		return Error
	}
	return OK
}

// ResultAvailable reports whether PullResult would return without waiting.
func (e *Encoder) ResultAvailable() bool {
	return e.analyzer.ResultAvailable()
}

// PullResult blocks until a result is ready and copies it into out.
func (e *Encoder) PullResult(out *pipeline.FrameResult) Result {
	if out == nil {
		e.logger.Error("Nil result buffer")
		return Error
	}
	if err := e.analyzer.PullResult(out); err != nil {
		return Error
	}
	return OK
}

// BlockCount returns the number of blocks per frame, or 0 before the first
// frame has been accepted.
func (e *Encoder) BlockCount() int {
	return e.analyzer.BlockCount()
}

// Stats returns the underlying analyzer counters.
func (e *Encoder) Stats() analyzer.Stats {
	return e.analyzer.Stats()
}

// Close stops the workers and discards unpulled results.
func (e *Encoder) Close() {
	e.analyzer.Close()
}
