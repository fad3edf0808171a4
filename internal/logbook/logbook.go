// Package logbook records what happened at the wheel: spins, winners, forced
// draws and anything that went wrong while saving.
package logbook

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// keepLines bounds how many recent entries are held in memory for Tail.
const keepLines = 200

// Logbook persists draw activity to a simple text file. The file is scanned
// once; after that Tail is served from the entries kept in memory.
type Logbook struct {
	path string
	now  func() time.Time

	mu     sync.Mutex
	loaded bool
	recent []string
	total  int
}

// Option configures a Logbook.
type Option func(*Logbook)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(l *Logbook) {
		if now != nil {
			l.now = now
		}
	}
}

// New creates a logbook that writes to the provided path.
func New(path string, opts ...Option) (*Logbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	l := &Logbook{path: path, now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append writes a single entry to the logbook. Multi-line messages are
// folded onto one line so Tail stays line oriented.
func (l *Logbook) Append(level Level, message string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	message = strings.Join(strings.Fields(message), " ")
	line := fmt.Sprintf("%s %-5s %s\n",
		l.now().UTC().Format(time.RFC3339),
		string(level),
		message,
	)
	l.load()
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	if _, err := file.WriteString(line); err != nil {
		return
	}
	l.remember(strings.TrimSuffix(line, "\n"))
}

// Tail returns up to maxLines of the most recent entries (never more than
// keepLines) and the total number of entries in the file.
func (l *Logbook) Tail(maxLines int) ([]string, int) {
	if l == nil || maxLines <= 0 {
		return nil, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.load()
	if l.total == 0 {
		return nil, 0
	}
	start := max(0, len(l.recent)-maxLines)
	return append([]string(nil), l.recent[start:]...), l.total
}

// load reads the existing file the first time the logbook is used. Callers
// hold l.mu.
func (l *Logbook) load() {
	if l.loaded {
		return
	}
	l.loaded = true
	file, err := os.Open(l.path)
	if err != nil {
		return
	}
	defer file.Close()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		l.remember(scanner.Text())
	}
}

func (l *Logbook) remember(line string) {
	l.total++
	l.recent = append(l.recent, line)
	if len(l.recent) > 2*keepLines {
		l.recent = append(l.recent[:0], l.recent[len(l.recent)-keepLines:]...)
	}
}

// Info appends an informational entry.
func (l *Logbook) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a warning entry.
func (l *Logbook) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an error entry.
func (l *Logbook) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}
