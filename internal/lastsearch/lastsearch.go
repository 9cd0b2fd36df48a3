// Package lastsearch persists the most recent search results so
// follow-up commands can reference matches by their displayed numbers.
package lastsearch

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gabrielrenderos/figq/internal/atomicfile"
)

// LastSearch stores the results of the most recent search, persisted
// to last-search.json in the state directory.
type LastSearch struct {
	Query     string        `json:"query"`
	Scene     string        `json:"scene"`
	Page      string        `json:"page,omitempty"`
	Status    string        `json:"status,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Results   []ResultEntry `json:"results"`
}

// ResultEntry is a single numbered match.
type ResultEntry struct {
	Num  int    `json:"num"`  // 1-indexed number as displayed
	ID   string `json:"id"`   // node ID in the scene document
	Name string `json:"name"` // layer name
	Type string `json:"type"` // wire node type (FRAME, TEXT, ...)
	Path string `json:"path"` // display path from the search
}

// Errors
var (
	ErrNoLastSearch     = errors.New("no last search available")
	ErrInvalidNumber    = errors.New("invalid result number")
	ErrNumberOutOfRange = errors.New("result number out of range")
)

// Path returns the last-search.json path inside the state directory.
func Path(stateDir string) string {
	return filepath.Join(stateDir, "last-search.json")
}

// Write saves the last search results to disk.
func Write(stateDir string, ls *LastSearch) error {
	if err := os.MkdirAll(stateDir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := json.MarshalIndent(ls, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal last search: %w", err)
	}

	if err := atomicfile.WriteFile(Path(stateDir), data, 0o644); err != nil {
		return fmt.Errorf("failed to write last search: %w", err)
	}

	return nil
}

// Read loads the last search results from disk.
// Returns ErrNoLastSearch if no last search file exists.
func Read(stateDir string) (*LastSearch, error) {
	data, err := os.ReadFile(Path(stateDir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoLastSearch
		}
		return nil, fmt.Errorf("failed to read last search: %w", err)
	}

	var ls LastSearch
	if err := json.Unmarshal(data, &ls); err != nil {
		return nil, fmt.Errorf("failed to parse last search: %w", err)
	}

	return &ls, nil
}

// GetByNumbers returns the entries matching the given numbers.
// Numbers are 1-indexed as displayed to users; any out-of-range number
// is an error.
func (ls *LastSearch) GetByNumbers(nums []int) ([]ResultEntry, error) {
	results := make([]ResultEntry, 0, len(nums))
	for _, num := range nums {
		if num < 1 || num > len(ls.Results) {
			return nil, fmt.Errorf("%w: %d (valid range: 1-%d)", ErrNumberOutOfRange, num, len(ls.Results))
		}
		results = append(results, ls.Results[num-1])
	}
	return results, nil
}

// NodeIDs returns the node IDs of all results in display order.
func (ls *LastSearch) NodeIDs() []string {
	ids := make([]string, len(ls.Results))
	for i, r := range ls.Results {
		ids[i] = r.ID
	}
	return ids
}
