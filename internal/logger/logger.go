// Package logger provides the small leveled logging interface shared by
// the reconciliation components. Callers that want structured output can
// plug in their own implementation; the default is silent.
package logger

import "log"

// Logger is the logging contract used throughout the engine.
type Logger interface {
	// Debug logs debug-level messages with optional key-value pairs.
	Debug(msg string, keysAndValues ...interface{})

	// Info logs info-level messages with optional key-value pairs.
	Info(msg string, keysAndValues ...interface{})

	// Warn logs warning-level messages with optional key-value pairs.
	Warn(msg string, keysAndValues ...interface{})

	// Error logs error-level messages with optional key-value pairs.
	Error(msg string, keysAndValues ...interface{})
}

// noopLogger is a Logger implementation that does nothing.
type noopLogger struct{}

func (n *noopLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (n *noopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (n *noopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (n *noopLogger) Error(msg string, keysAndValues ...interface{}) {}

// Noop returns a logger that discards everything.
func Noop() Logger {
	return &noopLogger{}
}

// StdLogger is a lightweight implementation backed by Go's log package.
// Debug output is gated behind the verbose flag.
type StdLogger struct {
	verbose bool
}

// NewStd creates a StdLogger.
func NewStd(verbose bool) *StdLogger {
	return &StdLogger{verbose: verbose}
}

func (l *StdLogger) Debug(msg string, keysAndValues ...interface{}) {
	if !l.verbose {
		return
	}
	log.Println(append([]interface{}{"[DEBUG]", msg}, keysAndValues...)...)
}

func (l *StdLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Println(append([]interface{}{"[INFO]", msg}, keysAndValues...)...)
}

func (l *StdLogger) Warn(msg string, keysAndValues ...interface{}) {
	log.Println(append([]interface{}{"[WARN]", msg}, keysAndValues...)...)
}

func (l *StdLogger) Error(msg string, keysAndValues ...interface{}) {
	log.Println(append([]interface{}{"[ERROR]", msg}, keysAndValues...)...)
}
