// Package logging provides the leveled loggers used by the CLI, the preview
// server and the REPL.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Logger is the logging interface shared by every component.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

// Level orders log messages by severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

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
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// ParseLevel accepts debug, info, warn (or warning) and error in any case.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Entry is one JSON-formatted log line.
type Entry struct {
	Timestamp string `json:"timestamp"`
	Level     string `json:"level"`
	Message   string `json:"message"`
}

// writerLogger writes to an io.Writer
type writerLogger struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format string
	now    func() time.Time
}

// New returns a logger writing messages at or above level to w. Text lines
// look like "[INFO] message"; json lines are Entry objects.
func New(w io.Writer, level Level, format string) Logger {
	if format == "" {
		format = FormatText
	}
	return &writerLogger{w: w, level: level, format: format, now: time.Now}
}

func (l *writerLogger) Debugf(format string, args ...any) { l.logf(LevelDebug, format, args...) }
func (l *writerLogger) Infof(format string, args ...any)  { l.logf(LevelInfo, format, args...) }
func (l *writerLogger) Warnf(format string, args ...any)  { l.logf(LevelWarn, format, args...) }
func (l *writerLogger) Errorf(format string, args ...any) { l.logf(LevelError, format, args...) }

func (l *writerLogger) logf(level Level, format string, args ...any) {
	if level < l.level {
		return
	}
	msg := fmt.Sprintf(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.format == FormatJSON {
		data, err := json.Marshal(Entry{
			Timestamp: l.now().Format(time.RFC3339),
			Level:     strings.ToLower(level.String()),
			Message:   msg,
		})
		if err != nil {
			return
		}
		fmt.Fprintf(l.w, "%s\n", data)
		return
	}
	fmt.Fprintf(l.w, "[%s] %s\n", level, msg)
}

// Buffered captures log output for later retrieval
type Buffered struct {
	mu    sync.Mutex
	lines []string
}

// NewBuffered creates a logger that records every message, whatever its level.
func NewBuffered() *Buffered {
	return &Buffered{lines: make([]string, 0)}
}

func (b *Buffered) Debugf(format string, args ...any) { b.add(LevelDebug, format, args...) }
func (b *Buffered) Infof(format string, args ...any)  { b.add(LevelInfo, format, args...) }
func (b *Buffered) Warnf(format string, args ...any)  { b.add(LevelWarn, format, args...) }
func (b *Buffered) Errorf(format string, args ...any) { b.add(LevelError, format, args...) }

func (b *Buffered) add(level Level, format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, fmt.Sprintf("[%s] ", level)+fmt.Sprintf(format, args...))
}

// Lines returns all captured log lines
func (b *Buffered) Lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	result := make([]string, len(b.lines))
	copy(result, b.lines)
	return result
}

// String returns all captured output as a single string
func (b *Buffered) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.lines) == 0 {
		return ""
	}
	return strings.Join(b.lines, "\n") + "\n"
}

// Contains reports whether any captured line contains substr.
func (b *Buffered) Contains(substr string) bool {
	for _, line := range b.Lines() {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// Reset clears all captured output
func (b *Buffered) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = b.lines[:0]
}

// nullLogger discards all output
type nullLogger struct{}

func (nullLogger) Debugf(string, ...any) {}
func (nullLogger) Infof(string, ...any)  {}
func (nullLogger) Warnf(string, ...any)  {}
func (nullLogger) Errorf(string, ...any) {}

// Null returns a logger that discards all output
func Null() Logger {
	return nullLogger{}
}
