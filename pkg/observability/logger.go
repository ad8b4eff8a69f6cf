package observability

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

// LogLevel controls which records a Logger emits.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

var levelNames = [...]string{
	DebugLevel: "DEBUG",
	InfoLevel:  "INFO",
	WarnLevel:  "WARN",
	ErrorLevel: "ERROR",
}

func (l LogLevel) String() string {
	if l < DebugLevel || l > ErrorLevel {
		return "INFO"
	}
	return levelNames[l]
}

func (l LogLevel) slogLevel() slog.Level {
	switch l {
	case DebugLevel:
		return slog.LevelDebug
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger writes structured JSON records. Fields accumulate through the
// With* methods, so handlers can build a request-scoped logger once and
// reuse it.
type Logger struct {
	slog  *slog.Logger
	level LogLevel
}

// NewLogger emits records at or above level to output. A nil output means
// stdout.
func NewLogger(level LogLevel, output io.Writer) *Logger {
	if output == nil {
		output = os.Stdout
	}
	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level.slogLevel()})
	return &Logger{slog: slog.New(handler), level: level}
}

// WithField returns a logger that attaches key/value to every record.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{slog: l.slog.With(key, value), level: l.level}
}

// WithFields attaches several fields at once.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return &Logger{slog: l.slog.With(args...), level: l.level}
}

// WithError attaches err under the "error" field. Returns the receiver
// unchanged when err is nil.
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

func (l *Logger) Debug(message string) { l.slog.Debug(message) }
func (l *Logger) Info(message string)  { l.slog.Info(message) }
func (l *Logger) Warn(message string)  { l.slog.Warn(message) }
func (l *Logger) Error(message string) { l.slog.Error(message) }

// Debugf logs a formatted debug message.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.slog.Debug(fmt.Sprintf(format, args...))
}

// Infof logs a formatted info message.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.slog.Info(fmt.Sprintf(format, args...))
}

// Warnf logs a formatted warning message.
func (l *Logger) Warnf(format string, args ...interface{}) {
	l.slog.Warn(fmt.Sprintf(format, args...))
}

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.slog.Error(fmt.Sprintf(format, args...))
}
