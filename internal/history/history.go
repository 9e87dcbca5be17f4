// Package history persists the most recent query and its results, so
// follow-up commands (export, rerun) work without touching the database
// again.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aidanlsb/magpie/internal/atomicfile"
	"github.com/aidanlsb/magpie/internal/orm"
)

// MaxRows caps how many result rows the cache keeps.
const MaxRows = 1000

// ErrNoHistory indicates no previous query has been recorded.
var ErrNoHistory = errors.New("no previous query recorded")

// Entry is the cached last query.
type Entry struct {
	Model     string    `json:"model"`
	Fields    []string  `json:"fields"`
	Filters   []string  `json:"filters,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	// RowCount is the full result size; Result.Rows may be truncated.
	RowCount  int  `json:"row_count"`
	Truncated bool `json:"truncated,omitempty"`

	Result *orm.Result `json:"result"`
}

// Path returns the cache file path under the project's state directory.
func Path(stateDir string) string {
	return filepath.Join(stateDir, "last-query.json")
}

// Write saves the last query, truncating oversized result sets.
func Write(stateDir string, e *Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if e.Result != nil {
		e.RowCount = len(e.Result.Rows)
		if e.RowCount > MaxRows {
			trimmed := *e.Result
			trimmed.Rows = trimmed.Rows[:MaxRows]
			e.Result = &trimmed
			e.Truncated = true
		}
	}

	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal last query: %w", err)
	}
	if err := atomicfile.WriteFile(Path(stateDir), data, 0644); err != nil {
		return fmt.Errorf("failed to write last query: %w", err)
	}
	return nil
}

// Read loads the last query. Returns ErrNoHistory when none exists.
func Read(stateDir string) (*Entry, error) {
	data, err := os.ReadFile(Path(stateDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoHistory
		}
		return nil, fmt.Errorf("failed to read last query: %w", err)
	}

	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to parse last query: %w", err)
	}
	return &e, nil
}
