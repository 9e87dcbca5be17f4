// Package audit provides an append-only log of executed queries. One JSONL
// entry per query; audit failures never fail the query itself.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Entry records one executed query.
type Entry struct {
	ID         string    `json:"id"`
	Timestamp  time.Time `json:"ts"`
	Model      string    `json:"model"`
	Fields     []string  `json:"fields"`
	Filters    int       `json:"filters,omitempty"`
	Rows       int       `json:"rows"`
	DurationMs int64     `json:"duration_ms"`
	Status     string    `json:"status"` // "ok" or "error"
	Error      string    `json:"error,omitempty"`
}

// Logger writes to the audit log. A disabled logger is a no-op.
type Logger struct {
	path    string
	enabled bool
	mu      sync.Mutex
}

// New creates an audit logger writing under the project's state directory.
func New(stateDir string, enabled bool) *Logger {
	if !enabled {
		return &Logger{}
	}
	return &Logger{
		path:    filepath.Join(stateDir, "audit.log"),
		enabled: true,
	}
}

// Enabled reports whether the logger writes entries.
func (l *Logger) Enabled() bool { return l.enabled }

// Log appends one entry. The id and timestamp are filled in when absent.
func (l *Logger) Log(entry Entry) error {
	if !l.enabled {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	if entry.ID == "" {
		entry.ID = ulid.Make().String()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create audit directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// LogQuery records an executed query and its outcome.
func (l *Logger) LogQuery(model string, fields []string, filters, rows int, elapsed time.Duration, queryErr error) error {
	entry := Entry{
		Model:      model,
		Fields:     fields,
		Filters:    filters,
		Rows:       rows,
		DurationMs: elapsed.Milliseconds(),
		Status:     "ok",
	}
	if queryErr != nil {
		entry.Status = "error"
		entry.Error = queryErr.Error()
	}
	return l.Log(entry)
}

// Read returns all entries in the log, skipping malformed lines.
func (l *Logger) Read() ([]Entry, error) {
	if !l.enabled {
		return nil, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}

	var entries []Entry
	for _, line := range splitLines(string(data)) {
		if line == "" {
			continue
		}
		var entry Entry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
