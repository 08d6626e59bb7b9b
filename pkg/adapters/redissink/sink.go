// Package redissink publishes frame results as JSON records on a Redis list.
package redissink

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/user/vca/pkg/pipeline"
	"github.com/user/vca/pkg/ports"
)

// DefaultKey is the list results are pushed to when no key is given.
const DefaultKey = "vca:results"

// Options configures the sink.
type Options struct {
	Key string

	// MaxLen trims the list to its newest MaxLen records. 0 keeps everything.
	MaxLen int64

	// IncludeBlocks adds the per-block arrays to every record.
	IncludeBlocks bool
}

// Record is the JSON document pushed per frame.
type Record struct {
	POC                int       `json:"poc"`
	SequenceID         uint64    `json:"seq"`
	AverageEnergy      int32     `json:"E"`
	AverageEntropy     float64   `json:"h"`
	AverageEdgeDensity float64   `json:"edge_density"`
	BlocksWide         int       `json:"blocks_wide"`
	BlocksHigh         int       `json:"blocks_high"`
	Energy             []int32   `json:"energy,omitempty"`
	Entropy            []float64 `json:"entropy,omitempty"`
	EdgeDensity        []float64 `json:"edge,omitempty"`
}

// NewRecord converts a result into its published form.
func NewRecord(result pipeline.FrameResult, includeBlocks bool) Record {
	rec := Record{
		POC:                result.POC,
		SequenceID:         result.SequenceID,
		AverageEnergy:      result.AverageEnergy,
		AverageEntropy:     result.AverageEntropy,
		AverageEdgeDensity: result.AverageEdgeDensity,
		BlocksWide:         result.BlocksWide,
		BlocksHigh:         result.BlocksHigh,
	}
	if includeBlocks {
		rec.Energy = result.EnergyPerBlock
		rec.Entropy = result.EntropyPerBlock
		rec.EdgeDensity = result.EdgeDensityPerBlock
	}
	return rec
}

// Sink pushes one record per result with RPUSH.
type Sink struct {
	client *redis.Client
	opts   Options
	logger ports.Logger
}

// New connects to redisURL (redis:// or rediss://) and verifies the
// connection with PING.
func New(ctx context.Context, redisURL string, opts Options, logger ports.Logger) (*Sink, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewWithClient(client, opts, logger), nil
}

// NewWithClient wraps an existing client. The sink closes it on Close.
func NewWithClient(client *redis.Client, opts Options, logger ports.Logger) *Sink {
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	logger = logger.WithComponent("redis")
	logger.Debug("Publishing results to %s", opts.Key)
	return &Sink{client: client, opts: opts, logger: logger}
}

// Key returns the list key results are pushed to.
func (s *Sink) Key() string {
	return s.opts.Key
}

// WriteResult pushes result as JSON, trimming the list if MaxLen is set.
func (s *Sink) WriteResult(ctx context.Context, result pipeline.FrameResult) error {
	data, err := json.Marshal(NewRecord(result, s.opts.IncludeBlocks))
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.RPush(ctx, s.opts.Key, data)
	if s.opts.MaxLen > 0 {
		pipe.LTrim(ctx, s.opts.Key, -s.opts.MaxLen, -1)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("push record: %w", err)
	}
	return nil
}

// Close closes the client.
func (s *Sink) Close() error {
	return s.client.Close()
}

var _ ports.ResultSink = (*Sink)(nil)
