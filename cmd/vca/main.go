// Package main provides the CLI entry point for vca.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"
	"github.com/joho/godotenv"

	"github.com/user/vca/pkg/adapters/csvsink"
	"github.com/user/vca/pkg/adapters/heatmapsink"
	"github.com/user/vca/pkg/adapters/logger"
	"github.com/user/vca/pkg/adapters/multisink"
	"github.com/user/vca/pkg/adapters/nullsink"
	"github.com/user/vca/pkg/adapters/osfilesystem"
	"github.com/user/vca/pkg/adapters/redissink"
	"github.com/user/vca/pkg/adapters/yuvsource"
	"github.com/user/vca/pkg/config"
	"github.com/user/vca/pkg/orchestrator"
	"github.com/user/vca/pkg/ports"
	"github.com/user/vca/pkg/vca"
)

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Analyze AnalyzeCmd `cmd:"" help:"${help_analyze}"`
	Version VersionCmd `cmd:"" help:"${help_version}"`
}

// AnalyzeCmd defines the analyze subcommand. Pointer flags override the
// configuration file only when given.
type AnalyzeCmd struct {
	Input  string `arg:"" help:"${help_input}"`
	Config string `short:"C" type:"existingfile" help:"${help_config}"`

	// Raw input geometry
	Width      *int    `short:"W" help:"${help_width}"`
	Height     *int    `short:"H" help:"${help_height}"`
	BitDepth   *int    `short:"b" help:"${help_bit_depth}"`
	ColorSpace *string `help:"${help_color_space}"`
	Skip       *int    `help:"${help_skip}"`
	Frames     *int    `short:"n" help:"${help_frames}"`

	// Analysis
	CPUSimd      *string  `name:"cpu-simd" help:"${help_cpu_simd}"`
	FrameThreads *int     `short:"t" help:"${help_frame_threads}"`
	SliceThreads *int     `help:"${help_slice_threads}"`
	BlockSize    *int     `short:"B" help:"${help_block_size}"`
	Lowpass      bool     `help:"${help_lowpass}"`
	NoEntropy    bool     `help:"${help_no_entropy}"`
	NoEdge       bool     `name:"no-edge-density" help:"${help_no_edge}"`
	QueueDepth   *int     `help:"${help_queue_depth}"`
	Unordered    bool     `help:"${help_unordered}"`
	Set          []string `short:"s" placeholder:"NAME=VALUE" help:"${help_set}"`

	// Outputs
	CSV           string `short:"o" help:"${help_csv}"`
	Summary       string `help:"${help_summary}"`
	HeatmapDir    string `help:"${help_heatmap_dir}"`
	HeatmapMetric string `help:"${help_heatmap_metric}"`
	RedisURL      string `env:"VCA_REDIS_URL" help:"${help_redis_url}"`
	RedisKey      string `env:"VCA_REDIS_KEY" help:"${help_redis_key}"`

	// Logging
	LogLevel  *string `short:"l" help:"${help_log_level}"`
	LogFormat *string `help:"${help_log_format}"`
	Quiet     bool    `short:"Q" help:"${help_quiet}"`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("vca"),
		kong.Description(l10n.T("Analyze the spatial complexity of raw video sequences")),
		kong.UsageOnError(),
		helpVars(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// Run executes the analyze command.
func (cmd *AnalyzeCmd) Run() error {
	cfg, err := cmd.buildConfig()
	if err != nil {
		return err
	}

	log := cmd.newLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			log.Debug("Received %s", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	fs := osfilesystem.New()

	orchConfig, err := cfg.ToOrchestratorConfig()
	if err != nil {
		return err
	}
	orchConfig.Version = version
	for _, kv := range cmd.Set {
		name, value, _ := strings.Cut(kv, "=")
		if err := vca.ParseParam(&orchConfig.Param, name, value); err != nil {
			return err
		}
	}

	sink, err := buildSink(ctx, cfg, fs, log)
	if err != nil {
		return err
	}

	open := func(c orchestrator.Config) (ports.FrameSource, error) {
		src, err := yuvsource.Open(fs, c.InputPath, c.Info, c.SkipFrames)
		if err != nil {
			return nil, err
		}
		return src, nil
	}
	orch := orchestrator.New(open, sink, fs, log)

	result, runErr := orch.Run(ctx, orchConfig)
	if err := sink.Close(); err != nil && runErr == nil {
		runErr = fmt.Errorf("close outputs: %w", err)
	}
	if runErr != nil {
		return runErr
	}

	m := result.Metrics
	log.Info("Mean E=%.2f h=%.4f edge=%.4f over %d frames", m.MeanEnergy, m.MeanEntropy, m.MeanEdgeDensity, result.Frames)
	if cfg.CSVPath != "" {
		log.Info("Output saved to %s", cfg.CSVPath)
	}
	return nil
}

// buildConfig layers the configuration file and the flags.
func (cmd *AnalyzeCmd) buildConfig() (config.Config, error) {
	cfg := config.Defaults()
	if cmd.Config != "" {
		loaded, err := config.LoadFromFile(cmd.Config)
		if err != nil {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
	}

	cfg.Input = cmd.Input
	setInt(&cfg.Width, cmd.Width)
	setInt(&cfg.Height, cmd.Height)
	setInt(&cfg.BitDepth, cmd.BitDepth)
	if cmd.ColorSpace != nil {
		cfg.ColorSpace = *cmd.ColorSpace
	}
	setInt(&cfg.SkipFrames, cmd.Skip)
	setInt(&cfg.MaxFrames, cmd.Frames)

	if cmd.CPUSimd != nil {
		cfg.CPUSimd = *cmd.CPUSimd
	}
	setInt(&cfg.FrameThreads, cmd.FrameThreads)
	setInt(&cfg.SliceThreads, cmd.SliceThreads)
	setInt(&cfg.BlockSize, cmd.BlockSize)
	setInt(&cfg.QueueDepth, cmd.QueueDepth)
	if cmd.Lowpass {
		cfg.EnableLowpass = true
	}
	if cmd.NoEntropy {
		cfg.EnableEntropy = false
	}
	if cmd.NoEdge {
		cfg.EnableEdgeDensity = false
	}
	if cmd.Unordered {
		cfg.Ordered = false
	}

	if cmd.CSV != "" {
		cfg.CSVPath = cmd.CSV
	}
	if cmd.Summary != "" {
		cfg.SummaryPath = cmd.Summary
	}
	if cmd.HeatmapDir != "" {
		cfg.Heatmap.Dir = cmd.HeatmapDir
	}
	if cmd.HeatmapMetric != "" {
		cfg.Heatmap.Metric = cmd.HeatmapMetric
	}
	if cmd.RedisURL != "" {
		cfg.Redis.URL = cmd.RedisURL
	}
	if cmd.RedisKey != "" {
		cfg.Redis.Key = cmd.RedisKey
	}

	if cmd.LogLevel != nil {
		cfg.LogLevel = *cmd.LogLevel
	}
	if cmd.LogFormat != nil {
		cfg.LogFormat = *cmd.LogFormat
	}
	switch cfg.LogFormat {
	case "", "console", "json":
	default:
		return cfg, fmt.Errorf("unknown log format %q", cfg.LogFormat)
	}
	return cfg, nil
}

func (cmd *AnalyzeCmd) newLogger(cfg config.Config) ports.Logger {
	level := ports.ParseLogLevel(cfg.LogLevel)
	switch {
	case cmd.Quiet:
		return logger.NewNoop()
	case cfg.LogFormat == "json":
		return logger.NewJSON(level)
	default:
		return logger.NewConsole(level)
	}
}

// buildSink creates every configured output. Without any output the results
// are discarded and only the summary is produced.
func buildSink(ctx context.Context, cfg config.Config, fs ports.FileSystem, log ports.Logger) (ports.ResultSink, error) {
	var sinks []ports.ResultSink
	closeAll := func() {
		for _, s := range sinks {
			s.Close()
		}
	}

	if cfg.CSVPath != "" {
		s, err := csvsink.New(fs, cfg.CSVPath)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}

	if cfg.Heatmap.Dir != "" {
		opts, err := cfg.HeatmapOptions()
		if err != nil {
			closeAll()
			return nil, err
		}
		sinks = append(sinks, heatmapsink.New(cfg.Heatmap.Dir, fs, opts))
	}

	if cfg.Redis.URL != "" {
		s, err := redissink.New(ctx, cfg.Redis.URL, redissink.Options{
			Key:           cfg.Redis.Key,
			MaxLen:        cfg.Redis.MaxLen,
			IncludeBlocks: cfg.Redis.IncludeBlocks,
		}, log)
		if err != nil {
			closeAll()
			return nil, err
		}
		sinks = append(sinks, s)
	}

	if len(sinks) == 0 {
		return nullsink.New(), nil
	}
	return multisink.New(sinks...), nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("vca (Go) version %s", version))
	return nil
}
