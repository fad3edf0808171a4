package logbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTailReturnsRecentLinesAndTotal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logs", "draw.log")
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	for i := 0; i < 5; i++ {
		book.Info("entry-%d", i)
	}
	lines, total := book.Tail(3)
	if total != 5 {
		t.Fatalf("total lines = %d, want 5", total)
	}
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	for idx, want := range []string{"entry-2", "entry-3", "entry-4"} {
		if !strings.Contains(lines[idx], want) {
			t.Fatalf("line %d = %q, missing %s", idx, lines[idx], want)
		}
	}
}

func TestAppendFormatsLevelAndTime(t *testing.T) {
	fixed := time.Date(2024, 12, 24, 19, 30, 0, 0, time.UTC)
	book, err := New(filepath.Join(t.TempDir(), "draw.log"), WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	book.Warn("forced number %s\nnot registered", "42")
	lines, total := book.Tail(10)
	if total != 1 {
		t.Fatalf("expected one line, got %d", total)
	}
	want := "2024-12-24T19:30:00Z WARN  forced number 42 not registered"
	if lines[0] != want {
		t.Fatalf("line = %q, want %q", lines[0], want)
	}
}

func TestNilLogbookIsSafe(t *testing.T) {
	var book *Logbook
	book.Error("ignored")
	if lines, total := book.Tail(5); lines != nil || total != 0 {
		t.Fatalf("nil logbook should be empty")
	}
}

func TestTailCountsEarlierSessionsAndReadsFileOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "draw.log")
	if err := os.WriteFile(path, []byte("old-1\nold-2\nold-3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	book, err := New(path)
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	book.Info("fresh")
	lines, total := book.Tail(2)
	if total != 4 || len(lines) != 2 || lines[0] != "old-3" || !strings.HasSuffix(lines[1], "fresh") {
		t.Fatalf("unexpected tail %q total=%d", lines, total)
	}

	// Tail is served from memory once the file has been scanned.
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, total := book.Tail(2); total != 4 {
		t.Fatalf("tail rescanned the file: total=%d", total)
	}
}

func TestTailKeepsBoundedHistory(t *testing.T) {
	book, err := New(filepath.Join(t.TempDir(), "draw.log"))
	if err != nil {
		t.Fatalf("new logbook: %v", err)
	}
	n := 3*keepLines + 7
	for i := 0; i < n; i++ {
		book.Info("entry-%d", i)
	}
	lines, total := book.Tail(5)
	if total != n || len(lines) != 5 {
		t.Fatalf("total=%d lines=%d", total, len(lines))
	}
	if want := fmt.Sprintf("entry-%d", n-1); !strings.HasSuffix(lines[4], want) {
		t.Fatalf("last line %q, want %s", lines[4], want)
	}
	if len(book.recent) > 2*keepLines {
		t.Fatalf("kept %d lines in memory", len(book.recent))
	}
}
