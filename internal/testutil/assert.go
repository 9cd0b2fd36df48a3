package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// AssertFileExists fails the test if the file does not exist.
func (s *TestScene) AssertFileExists(relPath string) {
	s.t.Helper()
	fullPath := filepath.Join(s.Dir, relPath)
	if _, err := os.Stat(fullPath); os.IsNotExist(err) {
		s.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertFileNotExists fails the test if the file exists.
func (s *TestScene) AssertFileNotExists(relPath string) {
	s.t.Helper()
	fullPath := filepath.Join(s.Dir, relPath)
	if _, err := os.Stat(fullPath); err == nil {
		s.t.Errorf("expected file to not exist: %s", relPath)
	}
}

// AssertFileContains fails the test if the file does not contain the substring.
func (s *TestScene) AssertFileContains(relPath, substr string) {
	s.t.Helper()
	content := s.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		s.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertFileNotContains fails the test if the file contains the substring.
func (s *TestScene) AssertFileNotContains(relPath, substr string) {
	s.t.Helper()
	content := s.ReadFile(relPath)
	if strings.Contains(content, substr) {
		s.t.Errorf("expected file %s to not contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertSearchCount runs a search and verifies the match count.
func (s *TestScene) AssertSearchCount(query string, expectedCount int) {
	s.t.Helper()
	result := s.RunCLI("search", query)
	result.MustSucceed(s.t)

	items := result.DataList("items")
	if len(items) != expectedCount {
		s.t.Errorf("search %q: expected %d results, got %d\nRaw: %s",
			query, expectedCount, len(items), result.RawJSON)
	}
}

// AssertSelection verifies the stored selection via 'select --show'.
func (s *TestScene) AssertSelection(expectedIDs ...string) {
	s.t.Helper()
	result := s.RunCLI("select", "--show")
	result.MustSucceed(s.t)

	items := result.DataList("selection")
	got := make([]string, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			if id, ok := m["id"].(string); ok {
				got = append(got, id)
			}
		}
	}
	if len(got) != len(expectedIDs) {
		s.t.Errorf("selection: expected %d nodes, got %d\nRaw: %s", len(expectedIDs), len(got), result.RawJSON)
		return
	}
	for i, id := range expectedIDs {
		if got[i] != id {
			s.t.Errorf("selection[%d]: expected %s, got %s\nRaw: %s", i, id, got[i], result.RawJSON)
		}
	}
}

// AssertHasWarning checks that the result contains a warning with the given code.
func (r *CLIResult) AssertHasWarning(t *testing.T, code string) {
	t.Helper()
	for _, w := range r.Warnings {
		if w.Code == code {
			return
		}
	}
	t.Errorf("expected warning with code %s, got warnings: %+v", code, r.Warnings)
}

// AssertNoWarnings checks that the result has no warnings.
func (r *CLIResult) AssertNoWarnings(t *testing.T) {
	t.Helper()
	if len(r.Warnings) > 0 {
		t.Errorf("expected no warnings, got: %+v", r.Warnings)
	}
}

// AssertResultCount checks that a result list under key has the expected length.
func (r *CLIResult) AssertResultCount(t *testing.T, key string, expected int) {
	t.Helper()
	results := r.DataList(key)
	if len(results) != expected {
		t.Errorf("expected %d %s, got %d\nRaw: %s", expected, key, len(results), r.RawJSON)
	}
}
