package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/user/vca/pkg/ports"
)

// JSONLogger writes one structured JSON line per message using zerolog.
// Messages are formatted but not translated so that log processors see
// stable text.
type JSONLogger struct {
	log zerolog.Logger
}

// NewJSON creates a JSON logger writing to stdout.
func NewJSON(level ports.LogLevel) *JSONLogger {
	return NewJSONWriter(level, os.Stdout)
}

// NewJSONWriter creates a JSON logger writing to w.
func NewJSONWriter(level ports.LogLevel, w io.Writer) *JSONLogger {
	return &JSONLogger{
		log: zerolog.New(w).Level(zerologLevel(level)).With().Timestamp().Logger(),
	}
}

func zerologLevel(level ports.LogLevel) zerolog.Level {
	switch level {
	case ports.LevelDebug:
		return zerolog.DebugLevel
	case ports.LevelInfo:
		return zerolog.InfoLevel
	case ports.LevelWarn:
		return zerolog.WarnLevel
	case ports.LevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.Disabled
	}
}

func (l *JSONLogger) Debug(msg string, args ...interface{}) {
	l.log.Debug().Msg(fmt.Sprintf(msg, args...))
}

func (l *JSONLogger) Info(msg string, args ...interface{}) {
	l.log.Info().Msg(fmt.Sprintf(msg, args...))
}

func (l *JSONLogger) Warn(msg string, args ...interface{}) {
	l.log.Warn().Msg(fmt.Sprintf(msg, args...))
}

func (l *JSONLogger) Error(msg string, args ...interface{}) {
	l.log.Error().Msg(fmt.Sprintf(msg, args...))
}

// WithComponent returns a logger that adds a "component" field.
func (l *JSONLogger) WithComponent(component string) ports.Logger {
	return &JSONLogger{log: l.log.With().Str("component", component).Logger()}
}

var _ ports.Logger = (*JSONLogger)(nil)
