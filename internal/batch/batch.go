// Package batch reads lists of flashcard ids for bulk operations.
package batch

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Entry is one line of a batch file: a flashcard id and an optional note
type Entry struct {
	FlashcardID int64
	Note        string
}

// ReadBatchFile reads flashcard ids from a file and returns Entry slice
// Supports formats:
// - Id only: "42"
// - With a note: "42 = ябълка" (the note is only echoed back to the user)
// - Comments: lines starting with "#" are ignored
func ReadBatchFile(filename string) ([]Entry, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	return Parse(string(content))
}

// Parse reads batch entries from text. Duplicate ids are kept once, in
// first-seen order.
func Parse(text string) ([]Entry, error) {
	var entries []Entry
	seen := make(map[int64]bool)

	for n, line := range splitLines(text) {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		idPart, note := line, ""
		if strings.Contains(line, "=") {
			parts := strings.SplitN(line, "=", 2)
			idPart = strings.TrimSpace(parts[0])
			note = strings.TrimSpace(parts[1])
		}

		id, err := strconv.ParseInt(idPart, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("line %d: invalid flashcard id %q", n+1, idPart)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		entries = append(entries, Entry{FlashcardID: id, Note: note})
	}

	return entries, nil
}

// IDs returns the flashcard ids of entries in order
func IDs(entries []Entry) []int64 {
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, e.FlashcardID)
	}
	return ids
}

// splitLines splits a string by newlines
func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}
