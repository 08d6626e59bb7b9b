// Package ports defines the interfaces between the analyzer core and its
// collaborators: logging, frame sources, result sinks and the file system.
package ports

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LevelDebug is for per-frame and per-worker details.
	LevelDebug LogLevel = iota
	// LevelInfo is for run-level progress.
	LevelInfo
	// LevelWarn is for recoverable problems, e.g. a sink write that failed.
	LevelWarn
	// LevelError is for rejected frames and failed runs.
	LevelError
	// LevelQuiet suppresses all log output.
	LevelQuiet
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a level name. Unknown names map to LevelInfo.
// "none" and "full" are accepted as aliases for quiet and debug.
func ParseLogLevel(s string) LogLevel {
	switch s {
	case "debug", "full":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "quiet", "none":
		return LevelQuiet
	default:
		return LevelInfo
	}
}

// LevelFromNumeric maps the numeric verbosity used by parameter files
// (-1 none, 0 error, 1 warning, 2 info, 3 debug, 4 full).
func LevelFromNumeric(n int) LogLevel {
	switch {
	case n < 0:
		return LevelQuiet
	case n == 0:
		return LevelError
	case n == 1:
		return LevelWarn
	case n == 2:
		return LevelInfo
	default:
		return LevelDebug
	}
}

// Logger abstracts logging operations with multi-language support.
type Logger interface {
	// Debug logs a debug message with optional format arguments.
	// The msg parameter is the message key that can be translated.
	Debug(msg string, args ...interface{})

	// Info logs an informational message with optional format arguments.
	Info(msg string, args ...interface{})

	// Warn logs a warning message with optional format arguments.
	Warn(msg string, args ...interface{})

	// Error logs an error message with optional format arguments.
	Error(msg string, args ...interface{})

	// WithComponent returns a new Logger that tags messages with the component name.
	WithComponent(component string) Logger
}
