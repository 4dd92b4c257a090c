// Package logging provides a leveled logging abstraction for rotom.
// Diagnostics go through a Logger; user-facing output belongs to the
// ui.Renderer, never here.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"sync"
)

// Level represents a log level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger is the interface for leveled logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	// WithField returns a new logger with the given field added to
	// every line it emits.
	WithField(key string, value any) Logger

	// SetLevel sets the minimum log level.
	SetLevel(level Level)

	// SetOutput sets the output writer.
	SetOutput(w io.Writer)
}

var (
	defaultLogger Logger = New()
	defaultMu     sync.RWMutex
)

// Default returns the default logger.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultLogger
}

// SetDefault sets the default logger.
func SetDefault(l Logger) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultLogger = l
}

// stdLogger implements Logger using the standard library log package.
type stdLogger struct {
	logger *log.Logger
	fields map[string]any
	mu     sync.RWMutex
	level  Level
}

// New creates a logger writing to stderr at Info level.
func New() Logger {
	return NewWithOutput(os.Stderr)
}

// NewWithOutput creates a logger with the specified output.
func NewWithOutput(w io.Writer) Logger {
	return &stdLogger{
		logger: log.New(w, "", log.LstdFlags),
		level:  LevelInfo,
		fields: make(map[string]any),
	}
}

func (l *stdLogger) log(level Level, msg string, args ...any) {
	l.mu.RLock()
	enabled := level >= l.level
	fields := l.fields
	l.mu.RUnlock()

	if !enabled {
		return
	}

	formatted := msg
	if len(args) > 0 {
		formatted = fmt.Sprintf(msg, args...)
	}

	if len(fields) == 0 {
		l.logger.Printf("[%s] %s", level, formatted)
		return
	}

	// Sorted for stable output.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fieldStr := ""
	for _, k := range keys {
		if fieldStr != "" {
			fieldStr += " "
		}
		fieldStr += fmt.Sprintf("%s=%v", k, fields[k])
	}
	l.logger.Printf("[%s] %s [%s]", level, formatted, fieldStr)
}

func (l *stdLogger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }
func (l *stdLogger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args...) }
func (l *stdLogger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args...) }
func (l *stdLogger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }

func (l *stdLogger) WithField(key string, value any) Logger {
	l.mu.RLock()
	newFields := make(map[string]any, len(l.fields)+1)
	for k, v := range l.fields {
		newFields[k] = v
	}
	level := l.level
	l.mu.RUnlock()

	newFields[key] = value

	return &stdLogger{
		logger: l.logger,
		level:  level,
		fields: newFields,
	}
}

func (l *stdLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *stdLogger) SetOutput(w io.Writer) {
	l.logger.SetOutput(w)
}

// NopLogger discards all output. Useful in tests.
type NopLogger struct{}

func (NopLogger) Debug(msg string, args ...any)        {}
func (NopLogger) Info(msg string, args ...any)         {}
func (NopLogger) Warn(msg string, args ...any)         {}
func (NopLogger) Error(msg string, args ...any)        {}
func (n NopLogger) WithField(key string, v any) Logger { return n }
func (NopLogger) SetLevel(level Level)                 {}
func (NopLogger) SetOutput(w io.Writer)                {}
