// Package history keeps a bounded append-only log of generated commit
// messages. Writing history must never block or fail message generation, so
// every failure here is swallowed.
package history

import (
	"os"
	"strings"
	"sync"
)

// Sink receives each generated commit message.
type Sink interface {
	Append(entry string)
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) Append(string) {}

// recordSeparator delimits multi-line entries in the history file.
const recordSeparator = "\n\x1e\n"

// DefaultLimit is the number of entries kept when none is configured.
const DefaultLimit = 100

// FileSink appends entries to a single file, keeping only the most recent
// limit entries.
type FileSink struct {
	mu    sync.Mutex
	path  string
	limit int
}

// NewFileSink creates a sink writing to path; limit <= 0 means DefaultLimit.
func NewFileSink(path string, limit int) *FileSink {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &FileSink{path: path, limit: limit}
}

// Append stores one entry, trimming the oldest entries beyond the limit.
// All I/O errors are ignored.
func (s *FileSink) Append(entry string) {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.read()
	entries = append(entries, entry)
	if len(entries) > s.limit {
		entries = entries[len(entries)-s.limit:]
	}
	_ = os.WriteFile(s.path, []byte(strings.Join(entries, recordSeparator)+"\n"), 0o600)
}

// Entries returns the stored history, oldest first.
func (s *FileSink) Entries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileSink) read() []string {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var entries []string
	for _, raw := range strings.Split(string(data), recordSeparator) {
		if e := strings.TrimSpace(raw); e != "" {
			entries = append(entries, e)
		}
	}
	return entries
}
