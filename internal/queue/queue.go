// Package queue holds the forced-winner queue: participant numbers that win
// the next spins, in order, as long as they are registered.
package queue

import (
	"fmt"
	"strings"
)

// Parse reads queue entries typed by the operator. Entries are separated by
// newlines or commas; blanks are dropped.
func Parse(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '\r' || r == ','
	})
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		if v := strings.TrimSpace(field); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// Format renders the queue one entry per line for editing.
func Format(queue []string) string {
	return strings.Join(queue, "\n")
}

// Preview lists the queue for display, e.g. "1. Number 42".
func Preview(queue []string) []string {
	lines := make([]string, 0, len(queue))
	for i, entry := range queue {
		lines = append(lines, fmt.Sprintf("%d. Number %s", i+1, entry))
	}
	return lines
}
