// Package logging provides file-based logging for star.
// It writes to a global log file (.star/logs/star.log) and to one file per
// record (.star/logs/record-<id>.log).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/runoshun/star/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// timeLayout is the timestamp layout of log lines.
const timeLayout = "2006-01-02 15:04:05"

// Logger writes level-filtered log lines to files under a state directory.
// Fields are ordered to minimize memory padding.
type Logger struct {
	clock       domain.Clock
	globalFile  *os.File
	recordFiles map[string]*os.File
	stateDir    string
	mu          sync.Mutex
	level       slog.Level
}

// New creates a new Logger that writes below stateDir.
// If stateDir is empty, logging is disabled.
func New(stateDir string, level slog.Level) *Logger {
	return &Logger{
		stateDir:    stateDir,
		level:       level,
		clock:       domain.RealClock{},
		recordFiles: make(map[string]*os.File),
	}
}

// WithClock sets the clock used for timestamps.
func (l *Logger) WithClock(clock domain.Clock) *Logger {
	l.clock = clock
	return l
}

// ParseLevel parses a log level name. Unknown names map to info.
func ParseLevel(levelStr string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(levelStr))); err != nil {
		return slog.LevelInfo
	}
	return level
}

// openLocked opens path for appending. l.mu must be held.
func (l *Logger) openLocked(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

// writers returns the files an entry for recordID goes to.
func (l *Logger) writers(recordID string) []io.Writer {
	l.mu.Lock()
	defer l.mu.Unlock()

	var out []io.Writer
	if l.globalFile == nil {
		if f, err := l.openLocked(domain.GlobalLogPath(l.stateDir)); err == nil {
			l.globalFile = f
		}
	}
	if l.globalFile != nil {
		out = append(out, l.globalFile)
	}

	if recordID == "" {
		return out
	}
	f, ok := l.recordFiles[recordID]
	if !ok {
		var err error
		if f, err = l.openLocked(domain.RecordLogPath(l.stateDir, recordID)); err != nil {
			return out
		}
		l.recordFiles[recordID] = f
	}
	return append(out, f)
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	if l.globalFile != nil {
		if err := l.globalFile.Close(); err != nil {
			lastErr = err
		}
		l.globalFile = nil
	}
	for id, f := range l.recordFiles {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.recordFiles, id)
	}
	return lastErr
}

// formatLog formats a log entry.
// Format: [2025-12-30 09:32:51] [INFO] [record-0192...] [category] message
func formatLog(t time.Time, level slog.Level, recordID, category, msg string) string {
	scope := "global"
	if recordID != "" {
		scope = "record-" + recordID
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format(timeLayout),
		level.String(),
		scope,
		category,
		msg,
	)
}

// log writes an entry to the global log and, when recordID is set, to the
// record's own log.
func (l *Logger) log(level slog.Level, recordID, category, msg string) {
	if l.stateDir == "" || level < l.level {
		return
	}

	entry := formatLog(l.clock.Now(), level, recordID, category, msg)
	for _, w := range l.writers(recordID) {
		_, _ = io.WriteString(w, entry)
	}
}

// Info logs an info message.
func (l *Logger) Info(recordID, category, msg string) {
	l.log(slog.LevelInfo, recordID, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(recordID, category, msg string) {
	l.log(slog.LevelDebug, recordID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(recordID, category, msg string) {
	l.log(slog.LevelWarn, recordID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(recordID, category, msg string) {
	l.log(slog.LevelError, recordID, category, msg)
}
