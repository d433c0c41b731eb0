// Package logger provides the leveled console logger used across the CLI.
// Output is prefixed with [HH:MM:SS] timestamps; color is enabled only when
// writing to a real terminal.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Log levels, lowest to highest.
const (
	levelDebug = iota
	levelInfo
	levelWarn
	levelError
)

// ConsoleLogger writes leveled, timestamped lines to a single writer.
// Safe for concurrent use.
type ConsoleLogger struct {
	writer   io.Writer
	minLevel int
	useColor bool
	mu       sync.Mutex
}

// New creates a ConsoleLogger. An empty or unknown level defaults to
// "info". If writer is nil, output is discarded.
func New(writer io.Writer, level string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:   writer,
		minLevel: parseLevel(level),
		useColor: isTerminal(writer),
	}
}

func parseLevel(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return levelDebug
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// isTerminal reports whether the writer is a TTY that should get color.
// color.NoColor already folds in the NO_COLOR convention.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if color.NoColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Debugf logs at debug level.
func (l *ConsoleLogger) Debugf(format string, args ...interface{}) {
	l.logf(levelDebug, nil, format, args...)
}

// Infof logs at info level.
func (l *ConsoleLogger) Infof(format string, args ...interface{}) {
	l.logf(levelInfo, nil, format, args...)
}

// Warnf logs at warn level in yellow.
func (l *ConsoleLogger) Warnf(format string, args ...interface{}) {
	l.logf(levelWarn, color.New(color.FgYellow), format, args...)
}

// Errorf logs at error level in red.
func (l *ConsoleLogger) Errorf(format string, args ...interface{}) {
	l.logf(levelError, color.New(color.FgRed), format, args...)
}

func (l *ConsoleLogger) logf(level int, c *color.Color, format string, args ...interface{}) {
	if l.writer == nil || level < l.minLevel {
		return
	}

	line := fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), fmt.Sprintf(format, args...))
	if l.useColor && c != nil {
		line = c.Sprint(line)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.writer, line)
}
