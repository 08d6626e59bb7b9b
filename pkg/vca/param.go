package vca

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/user/vca/pkg/analyzer"
	"github.com/user/vca/pkg/kernels"
	"github.com/user/vca/pkg/ports"
)

var (
	// ErrBadName is returned by ParseParam for an unknown parameter name.
	ErrBadName = errors.New("vca: unknown parameter")

	// ErrBadValue is returned by ParseParam when the value does not parse.
	ErrBadValue = errors.New("vca: bad parameter value")
)

// Param holds every user-settable analyzer option.
type Param struct {
	// CPUSimd is "auto", "none", "avx2" or "neon".
	CPUSimd string

	FrameThreads int
	SliceThreads int
	BlockSize    int

	EnableLowpass     bool
	EnableEntropy     bool
	EnableEdgeDensity bool

	// QueueDepth bounds pending frames. 0 picks twice the worker count.
	QueueDepth int

	LogLevel ports.LogLevel
}

// DefaultParam returns the default parameters. Frame threads follow the
// number of CPUs, capped at analyzer.MaxFrameThreads.
func DefaultParam() Param {
	cfg := analyzer.DefaultConfig()
	return Param{
		CPUSimd:           "auto",
		FrameThreads:      cfg.FrameThreads,
		SliceThreads:      cfg.SliceThreads,
		BlockSize:         cfg.BlockSize,
		EnableLowpass:     cfg.EnableLowpass,
		EnableEntropy:     cfg.EnableEntropy,
		EnableEdgeDensity: cfg.EnableEdgeDensity,
		QueueDepth:        cfg.QueueDepth,
		LogLevel:          ports.LevelInfo,
	}
}

// ParseParam assigns value to the parameter called name. Names are
// case-insensitive and accept '-' or '_' as separators. Boolean values
// accept 1/0, true/false, yes/no and on/off.
func ParseParam(p *Param, name, value string) error {
	key := strings.ToLower(strings.ReplaceAll(name, "_", "-"))
	value = strings.TrimSpace(value)

	var err error
	switch key {
	case "cpuid", "cpu-simd", "simd":
		if _, err = kernels.ParseCPUSimd(value); err == nil {
			p.CPUSimd = strings.ToLower(value)
		}
	case "frame-threads", "threads":
		err = setInt(&p.FrameThreads, value)
	case "slice-threads":
		err = setInt(&p.SliceThreads, value)
	case "block-size":
		err = setInt(&p.BlockSize, value)
	case "lowpass", "enable-lowpass", "lowpass-dct":
		err = setBool(&p.EnableLowpass, value)
	case "entropy", "enable-entropy":
		err = setBool(&p.EnableEntropy, value)
	case "edge-density", "enable-edge-density":
		err = setBool(&p.EnableEdgeDensity, value)
	case "queue-depth":
		err = setInt(&p.QueueDepth, value)
	case "log-level":
		var level ports.LogLevel
		if level, err = parseLogLevel(value); err == nil {
			p.LogLevel = level
		}
	default:
		return fmt.Errorf("%w: %s", ErrBadName, name)
	}

	if err != nil {
		return fmt.Errorf("%w: %s=%q: %v", ErrBadValue, name, value, err)
	}
	return nil
}

// setInt and setBool leave dst untouched on a parse error.
func setInt(dst *int, s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setBool(dst *bool, s string) error {
	b, err := parseBool(s)
	if err != nil {
		return err
	}
	*dst = b
	return nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on", "":
		return true, nil
	case "0", "false", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("not a boolean")
	}
}

// parseLogLevel accepts a level name or the numeric form -1..4.
func parseLogLevel(s string) (ports.LogLevel, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < -1 || n > 4 {
			return 0, fmt.Errorf("level %d outside -1..4", n)
		}
		return ports.LevelFromNumeric(n), nil
	}
	switch strings.ToLower(s) {
	case "debug", "full", "info", "warn", "warning", "error", "quiet", "none":
		return ports.ParseLogLevel(strings.ToLower(s)), nil
	default:
		return 0, fmt.Errorf("unknown level")
	}
}

// Validate reports the first parameter the analyzer would reject.
func (p Param) Validate() error {
	_, err := p.Config()
	return err
}

// Config converts p into a validated analyzer configuration, resolving
// "auto" SIMD selection against the running CPU.
func (p Param) Config() (analyzer.Config, error) {
	simd, err := kernels.ParseCPUSimd(p.CPUSimd)
	if err != nil {
		return analyzer.Config{}, fmt.Errorf("%w: %v", analyzer.ErrInvalidConfig, err)
	}
	cfg := analyzer.Config{
		FrameThreads:      p.FrameThreads,
		SliceThreads:      p.SliceThreads,
		BlockSize:         p.BlockSize,
		CPUSimd:           simd,
		EnableLowpass:     p.EnableLowpass,
		EnableEntropy:     p.EnableEntropy,
		EnableEdgeDensity: p.EnableEdgeDensity,
		QueueDepth:        p.QueueDepth,
	}
	if err := cfg.Validate(); err != nil {
		return analyzer.Config{}, err
	}
	return cfg, nil
}
