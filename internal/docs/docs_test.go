package docs

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestTopicsLoadsEmbeddedDocs(t *testing.T) {
	t.Parallel()

	topics, err := Topics()
	if err != nil {
		t.Fatalf("Topics() error = %v", err)
	}

	var ids []string
	for _, topic := range topics {
		ids = append(ids, topic.ID)
		if topic.Title == "" {
			t.Errorf("topic %q has an empty title", topic.ID)
		}
		if _, err := Content(topic); err != nil {
			t.Errorf("Content(%q) error = %v", topic.ID, err)
		}
	}

	want := []string{"query-language", "symbols", "modifiers", "ordering", "examples"}
	if !slices.Equal(ids, want) {
		t.Fatalf("topic IDs = %v, want %v", ids, want)
	}
}

func TestTopicsFSPreservesIndexOrder(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	writeTestFile(t, filepath.Join(tmp, "zebra.md"), "# Zebra Notes\n")
	writeTestFile(t, filepath.Join(tmp, "alpha.md"), "body with no heading\n")
	writeTestFile(t, filepath.Join(tmp, "index.yaml"), `topics:
  zebra:
    path: zebra.md
  alpha-guide:
    title: The Alpha Guide
    path: alpha.md
`)

	topics, err := topicsFS(os.DirFS(tmp))
	if err != nil {
		t.Fatalf("topicsFS() error = %v", err)
	}
	if len(topics) != 2 {
		t.Fatalf("got %d topics, want 2", len(topics))
	}
	if topics[0].ID != "zebra" || topics[1].ID != "alpha-guide" {
		t.Fatalf("topic order = [%s %s], want [zebra alpha-guide]", topics[0].ID, topics[1].ID)
	}
	if topics[0].Title != "Zebra Notes" {
		t.Errorf("heading-derived title = %q, want %q", topics[0].Title, "Zebra Notes")
	}
	if topics[1].Title != "The Alpha Guide" {
		t.Errorf("index title override = %q, want %q", topics[1].Title, "The Alpha Guide")
	}
}

func TestTopicsFSFallsBackToSlugTitle(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	writeTestFile(t, filepath.Join(tmp, "getting-around.md"), "no heading here\n")
	writeTestFile(t, filepath.Join(tmp, "index.yaml"), `topics:
  getting-around:
    path: getting-around.md
`)

	topics, err := topicsFS(os.DirFS(tmp))
	if err != nil {
		t.Fatalf("topicsFS() error = %v", err)
	}
	if topics[0].Title != "Getting Around" {
		t.Errorf("slug-derived title = %q, want %q", topics[0].Title, "Getting Around")
	}
}

func TestTopicsFSRejectsBadIndex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		files   map[string]string
		wantErr string
	}{
		{
			name:    "missing index",
			files:   map[string]string{"a.md": "# A\n"},
			wantErr: "docs index not found",
		},
		{
			name: "unknown top-level field",
			files: map[string]string{
				"index.yaml": "sections:\n  a:\n    path: a.md\n",
				"a.md":       "# A\n",
			},
			wantErr: "unknown top-level field",
		},
		{
			name: "topic id not a slug",
			files: map[string]string{
				"index.yaml": "topics:\n  Bad Topic:\n    path: a.md\n",
				"a.md":       "# A\n",
			},
			wantErr: "normalized slug format",
		},
		{
			name: "missing path field",
			files: map[string]string{
				"index.yaml": "topics:\n  a:\n    title: A\n",
			},
			wantErr: "missing required field",
		},
		{
			name: "path without md extension",
			files: map[string]string{
				"index.yaml": "topics:\n  a:\n    path: a.txt\n",
				"a.txt":      "# A\n",
			},
			wantErr: "must end with .md",
		},
		{
			name: "path escaping the docs root",
			files: map[string]string{
				"index.yaml": "topics:\n  a:\n    path: ../a.md\n",
			},
			wantErr: "must be relative",
		},
		{
			name: "topic file missing",
			files: map[string]string{
				"index.yaml": "topics:\n  a:\n    path: a.md\n",
			},
			wantErr: "missing file",
		},
		{
			name: "duplicate path",
			files: map[string]string{
				"index.yaml": "topics:\n  a:\n    path: same.md\n  b:\n    path: same.md\n",
				"same.md":    "# Same\n",
			},
			wantErr: "duplicate path",
		},
		{
			name: "no topics",
			files: map[string]string{
				"index.yaml": "topics: {}\n",
			},
			wantErr: "has no topics",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tmp := t.TempDir()
			for name, content := range tc.files {
				writeTestFile(t, filepath.Join(tmp, name), content)
			}
			_, err := topicsFS(os.DirFS(tmp))
			if err == nil {
				t.Fatalf("topicsFS() succeeded, want error containing %q", tc.wantErr)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("topicsFS() error = %v, want containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestLookupTopic(t *testing.T) {
	t.Parallel()

	topics := []Topic{
		{ID: "query-language", Title: "Query Language", Path: "query-language.md"},
		{ID: "query-syntax", Title: "Query Syntax", Path: "query-syntax.md"},
		{ID: "ordering", Title: "Result Ordering", Path: "ordering.md"},
	}

	tests := []struct {
		name    string
		in      string
		wantID  string
		wantErr error
	}{
		{name: "exact", in: "ordering", wantID: "ordering"},
		{name: "unique prefix", in: "ord", wantID: "ordering"},
		{name: "case insensitive", in: "Ordering", wantID: "ordering"},
		{name: "md suffix ignored", in: "ordering.md", wantID: "ordering"},
		{name: "spaces normalized", in: "query language", wantID: "query-language"},
		{name: "exact beats prefix", in: "query-language", wantID: "query-language"},
		{name: "ambiguous prefix", in: "query", wantErr: ErrAmbiguousTopic},
		{name: "unknown", in: "missing", wantErr: ErrUnknownTopic},
		{name: "empty", in: "  ", wantErr: ErrUnknownTopic},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := lookupTopic(topics, tc.in)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("lookupTopic(%q) error = %v, want %v", tc.in, err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("lookupTopic(%q) error = %v", tc.in, err)
			}
			if got.ID != tc.wantID {
				t.Fatalf("lookupTopic(%q) = %q, want %q", tc.in, got.ID, tc.wantID)
			}
		})
	}
}

func TestLookupResolvesEmbeddedTopics(t *testing.T) {
	t.Parallel()

	topic, err := Lookup("sym")
	if err != nil {
		t.Fatalf("Lookup(sym) error = %v", err)
	}
	if topic.ID != "symbols" {
		t.Fatalf("Lookup(sym) = %q, want symbols", topic.ID)
	}

	content, err := Content(topic)
	if err != nil {
		t.Fatalf("Content() error = %v", err)
	}
	if !strings.Contains(content, "# Kind Symbols") {
		t.Errorf("symbols topic does not start with its title heading")
	}
}

func TestNormalizeTopicSlug(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "query-language", want: "query-language"},
		{in: "Query Language", want: "query-language"},
		{in: "query_language", want: "query-language"},
		{in: "  ordering  ", want: "ordering"},
		{in: "-query--language-", want: "query-language"},
		{in: "", want: ""},
	}

	for _, tc := range tests {
		if got := normalizeTopicSlug(tc.in); got != tc.want {
			t.Errorf("normalizeTopicSlug(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
