// Package logger provides the process-wide logger used by the catalog service.
//
// The package-level helpers accept either printf-style arguments or a trailing
// []Field for structured output. Components that want their own name in the log
// stream should use Named, which returns an hclog.Logger.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/hashicorp/go-hclog"
)

// Field represents a structured logging field
type Field struct {
	Key   string
	Value interface{}
}

// Options controls the root logger. It mirrors config.LoggingConfig without
// importing the config package.
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

var (
	mu   sync.RWMutex
	root = newRoot(Options{Level: "info", Format: "text"})
)

func newRoot(opts Options) hclog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:       "moviecatalog",
		Level:      hclog.LevelFromString(opts.Level),
		JSONFormat: strings.EqualFold(opts.Format, "json"),
		Output:     out,
	})
}

// Configure replaces the root logger. Loggers handed out by Named before the
// call keep their previous settings except for the level, which is shared.
func Configure(opts Options) {
	mu.Lock()
	defer mu.Unlock()
	root = newRoot(opts)
}

// SetLevel changes the level of the root logger in place.
func SetLevel(level string) {
	mu.RLock()
	defer mu.RUnlock()
	root.SetLevel(hclog.LevelFromString(level))
}

// Root returns the root logger
func Root() hclog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// Named returns a sub-logger for a component
func Named(name string) hclog.Logger {
	return Root().Named(name)
}

// Info logs informational messages
func Info(format string, args ...interface{}) {
	emit(hclog.Info, format, args...)
}

// Warn logs warning messages
func Warn(format string, args ...interface{}) {
	emit(hclog.Warn, format, args...)
}

// Error logs error messages
func Error(format string, args ...interface{}) {
	emit(hclog.Error, format, args...)
}

// Debug logs debug messages
func Debug(format string, args ...interface{}) {
	emit(hclog.Debug, format, args...)
}

func emit(level hclog.Level, format string, args ...interface{}) {
	l := Root()
	if len(args) > 0 {
		if fields, ok := args[len(args)-1].([]Field); ok {
			l.Log(level, fmt.Sprintf(format, args[:len(args)-1]...), flatten(fields)...)
			return
		}
	}
	l.Log(level, fmt.Sprintf(format, args...))
}

func flatten(fields []Field) []interface{} {
	kv := make([]interface{}, 0, len(fields)*2)
	for _, f := range fields {
		kv = append(kv, f.Key, f.Value)
	}
	return kv
}

// Helper functions for common field types
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

func Uint(key string, value uint) Field {
	return Field{Key: key, Value: value}
}

func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

func Err(key string, err error) Field {
	if err == nil {
		return Field{Key: key, Value: nil}
	}
	return Field{Key: key, Value: err.Error()}
}
