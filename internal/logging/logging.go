// Package logging provides the leveled logger used for diagnostics on stderr.
package logging

import (
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level is a logging verbosity.
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// EnvLevel names the variable read by NewDefault.
const EnvLevel = "FEEDCHECK_LOG_LEVEL"

// ParseLevel maps ERROR, WARN, INFO and DEBUG (any case) to a level. Unknown names yield def.
func ParseLevel(s string, def Level) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return LevelError
	case "WARN", "WARNING":
		return LevelWarn
	case "INFO":
		return LevelInfo
	case "DEBUG":
		return LevelDebug
	default:
		return def
	}
}

// Logger writes leveled messages. Safe for concurrent use.
type Logger struct {
	mu    sync.RWMutex
	level Level
	out   *log.Logger
}

// New creates a logger writing to w at the given level.
func New(w io.Writer, level Level) *Logger {
	return &Logger{level: level, out: log.New(w, "", log.LstdFlags)}
}

// NewDefault creates a stderr logger at WARN, or at the level named by FEEDCHECK_LOG_LEVEL.
func NewDefault() *Logger {
	return New(os.Stderr, ParseLevel(os.Getenv(EnvLevel), LevelWarn))
}

// SetLevel changes the verbosity.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	l.level = level
	l.mu.Unlock()
}

// Level returns the current verbosity.
func (l *Logger) Level() Level {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.level
}

func (l *Logger) logf(level Level, tag, format string, args ...any) {
	if l.Level() >= level {
		l.out.Printf(tag+" "+format, args...)
	}
}

// Error logs error messages
func (l *Logger) Error(format string, args ...any) { l.logf(LevelError, "[ERROR]", format, args...) }

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...any) { l.logf(LevelWarn, "[WARN]", format, args...) }

// Info logs info messages
func (l *Logger) Info(format string, args ...any) { l.logf(LevelInfo, "[INFO]", format, args...) }

// Debug logs debug messages
func (l *Logger) Debug(format string, args ...any) { l.logf(LevelDebug, "[DEBUG]", format, args...) }

// Default is the process-wide logger.
var Default = NewDefault()
