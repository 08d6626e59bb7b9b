// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"

	"github.com/user/vca/pkg/adapters/heatmapsink"
	"github.com/user/vca/pkg/orchestrator"
	"github.com/user/vca/pkg/pipeline"
	"github.com/user/vca/pkg/ports"
	"github.com/user/vca/pkg/vca"
	"gopkg.in/yaml.v3"
)

// Config represents the full configuration for vca.
type Config struct {
	// Input
	Input      string `yaml:"input"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	BitDepth   int    `yaml:"bit_depth"`
	ColorSpace string `yaml:"color_space"`
	SkipFrames int    `yaml:"skip_frames"`
	MaxFrames  int    `yaml:"max_frames"`

	// Analysis
	CPUSimd           string `yaml:"cpu_simd"`
	FrameThreads      int    `yaml:"frame_threads"`
	SliceThreads      int    `yaml:"slice_threads"`
	BlockSize         int    `yaml:"block_size"`
	EnableLowpass     bool   `yaml:"lowpass"`
	EnableEntropy     bool   `yaml:"entropy"`
	EnableEdgeDensity bool   `yaml:"edge_density"`
	QueueDepth        int    `yaml:"queue_depth"`
	Ordered           bool   `yaml:"ordered"`

	// Outputs
	CSVPath     string        `yaml:"csv"`
	SummaryPath string        `yaml:"summary"`
	Heatmap     HeatmapConfig `yaml:"heatmap"`
	Redis       RedisConfig   `yaml:"redis"`

	// Logging
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"` // "console" or "json"
}

// HeatmapConfig controls debug heat map output.
type HeatmapConfig struct {
	Dir    string `yaml:"dir"` // empty disables heat maps
	Metric string `yaml:"metric"`
	Scale  int    `yaml:"scale"`
	Every  int    `yaml:"every"`
}

// RedisConfig controls publishing to Redis.
type RedisConfig struct {
	URL           string `yaml:"url"` // empty disables publishing
	Key           string `yaml:"key"`
	MaxLen        int64  `yaml:"max_len"`
	IncludeBlocks bool   `yaml:"include_blocks"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	p := vca.DefaultParam()
	return Config{
		BitDepth:   8,
		ColorSpace: "i420",

		CPUSimd:           p.CPUSimd,
		FrameThreads:      p.FrameThreads,
		SliceThreads:      p.SliceThreads,
		BlockSize:         p.BlockSize,
		EnableLowpass:     p.EnableLowpass,
		EnableEntropy:     p.EnableEntropy,
		EnableEdgeDensity: p.EnableEdgeDensity,
		QueueDepth:        p.QueueDepth,
		Ordered:           true,

		Heatmap: HeatmapConfig{
			Metric: string(heatmapsink.MetricEnergy),
			Scale:  8,
			Every:  1,
		},

		LogLevel:  "info",
		LogFormat: "console",
	}
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	return Parse(data, cfg)
}

// Parse unmarshals YAML data over base. Keys absent from data keep base's
// values.
func Parse(data []byte, base Config) (Config, error) {
	cfg := base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return base, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// FrameInfo returns the raw input geometry.
func (c Config) FrameInfo() (pipeline.FrameInfo, error) {
	csp, err := pipeline.ParseColorSpace(c.ColorSpace)
	if err != nil {
		return pipeline.FrameInfo{}, err
	}
	return pipeline.FrameInfo{
		BitDepth:   c.BitDepth,
		Width:      c.Width,
		Height:     c.Height,
		ColorSpace: csp,
	}, nil
}

// ToParam converts Config to analyzer parameters.
func (c Config) ToParam() vca.Param {
	return vca.Param{
		CPUSimd:           c.CPUSimd,
		FrameThreads:      c.FrameThreads,
		SliceThreads:      c.SliceThreads,
		BlockSize:         c.BlockSize,
		EnableLowpass:     c.EnableLowpass,
		EnableEntropy:     c.EnableEntropy,
		EnableEdgeDensity: c.EnableEdgeDensity,
		QueueDepth:        c.QueueDepth,
		LogLevel:          ports.ParseLogLevel(c.LogLevel),
	}
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() (orchestrator.Config, error) {
	info, err := c.FrameInfo()
	if err != nil {
		return orchestrator.Config{}, err
	}

	var outputs []string
	if c.CSVPath != "" {
		outputs = append(outputs, c.CSVPath)
	}
	if c.Heatmap.Dir != "" {
		outputs = append(outputs, c.Heatmap.Dir)
	}

	return orchestrator.Config{
		InputPath:   c.Input,
		Info:        info,
		SkipFrames:  c.SkipFrames,
		MaxFrames:   c.MaxFrames,
		Param:       c.ToParam(),
		Ordered:     c.Ordered,
		SummaryPath: c.SummaryPath,
		OutputPaths: outputs,
	}, nil
}

// HeatmapOptions converts the heat map section to sink options.
func (c Config) HeatmapOptions() (heatmapsink.Options, error) {
	metric, err := heatmapsink.ParseMetric(c.Heatmap.Metric)
	if err != nil {
		return heatmapsink.Options{}, err
	}
	opts := heatmapsink.DefaultOptions()
	opts.Metric = metric
	if c.Heatmap.Scale > 0 {
		opts.Scale = c.Heatmap.Scale
	}
	if c.Heatmap.Every > 0 {
		opts.Every = c.Heatmap.Every
	}
	return opts, nil
}
