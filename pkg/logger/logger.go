package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger provides leveled logging on top of logrus.
// Info messages only appear in verbose mode; Debug needs the debug level.
type Logger struct {
	entry   *logrus.Entry
	out     io.Writer
	verbose bool
}

// NewLogger creates a new logger writing to stderr with specified level and verbose mode
func NewLogger(level string, verbose bool) *Logger {
	return New(os.Stderr, level, verbose)
}

// New creates a logger writing to out
func New(out io.Writer, level string, verbose bool) *Logger {
	base := logrus.New()
	base.SetOutput(out)
	base.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
	})
	base.SetLevel(effectiveLevel(level, verbose))

	return &Logger{
		entry:   logrus.NewEntry(base),
		out:     out,
		verbose: verbose,
	}
}

// WithField returns a logger that attaches key=value to every entry
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value), out: l.out, verbose: l.verbose}
}

// WithFields returns a logger that attaches all fields to every entry
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{entry: l.entry.WithFields(logrus.Fields(fields)), out: l.out, verbose: l.verbose}
}

// Debug logs debug information (only in debug mode)
func (l *Logger) Debug(format string, args ...interface{}) {
	l.entry.Debugf(format, args...)
}

// Info logs informational messages (only in verbose mode)
func (l *Logger) Info(format string, args ...interface{}) {
	l.entry.Infof(format, args...)
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.entry.Warnf(format, args...)
}

// Error logs error messages
func (l *Logger) Error(format string, args ...interface{}) {
	l.entry.Errorf(format, args...)
}

// ProgressAlways prints a milestone regardless of verbose mode
func (l *Logger) ProgressAlways(emoji, format string, args ...interface{}) {
	fmt.Fprintf(l.out, "%s %s\n", emoji, fmt.Sprintf(format, args...))
}

// Progress prints step-by-step details in verbose mode
func (l *Logger) Progress(emoji, format string, args ...interface{}) {
	if l.verbose {
		l.ProgressAlways(emoji, format, args...)
	}
}

// Fatal logs a fatal error and exits the program
func (l *Logger) Fatal(format string, args ...interface{}) {
	l.entry.Fatalf(format, args...)
}

// IsVerbose reports whether verbose output is enabled
func (l *Logger) IsVerbose() bool {
	return l.verbose
}

// effectiveLevel folds the verbose switch into the logrus level
func effectiveLevel(level string, verbose bool) logrus.Level {
	lvl := parseLogLevel(level)
	if lvl == logrus.InfoLevel && !verbose {
		return logrus.WarnLevel
	}
	return lvl
}

// parseLogLevel converts string level to a logrus level
func parseLogLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// DefaultLogger returns a default logger instance
func DefaultLogger() *Logger {
	return NewLogger("info", false)
}

// Discard returns a logger that drops everything
func Discard() *Logger {
	return New(io.Discard, "error", false)
}
