package docs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSearchFSReportsEnclosingHeading(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	writeTestFile(t, filepath.Join(tmp, "guide.md"), "# Guide\n"+
		"\n"+
		"alpha sits under the title.\n"+
		"\n"+
		"## Deep Dive\n"+
		"\n"+
		"Needle below the heading.\n"+
		"needle again.\n")
	writeTestFile(t, filepath.Join(tmp, "index.yaml"), `topics:
  guide:
    path: guide.md
`)

	matches, err := searchFS(os.DirFS(tmp), "needle", 10)
	if err != nil {
		t.Fatalf("searchFS() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(matches))
	}
	first := matches[0]
	if first.Topic != "guide" || first.Line != 7 || first.Heading != "Deep Dive" {
		t.Errorf("first match = %+v, want topic guide line 7 under Deep Dive", first)
	}
	if first.Snippet != "Needle below the heading." {
		t.Errorf("snippet = %q, want the matched line", first.Snippet)
	}
	if matches[1].Line != 8 || matches[1].Heading != "Deep Dive" {
		t.Errorf("second match = %+v, want line 8 under Deep Dive", matches[1])
	}

	matches, err = searchFS(os.DirFS(tmp), "ALPHA", 10)
	if err != nil {
		t.Fatalf("searchFS() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("got %d matches for ALPHA, want 1", len(matches))
	}
	if matches[0].Heading != "Guide" {
		t.Errorf("heading = %q, want the title heading", matches[0].Heading)
	}
}

func TestSearchFSHonorsLimit(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	writeTestFile(t, filepath.Join(tmp, "a.md"), "# A\n\nhit one.\nhit two.\nhit three.\n")
	writeTestFile(t, filepath.Join(tmp, "index.yaml"), "topics:\n  a:\n    path: a.md\n")

	matches, err := searchFS(os.DirFS(tmp), "hit", 2)
	if err != nil {
		t.Fatalf("searchFS() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want limit of 2", len(matches))
	}
}

func TestSearchFSValidation(t *testing.T) {
	t.Parallel()

	if _, err := searchFS(os.DirFS(t.TempDir()), "  ", 5); err == nil {
		t.Errorf("empty query did not error")
	}
	if _, err := searchFS(os.DirFS(t.TempDir()), "x", 0); err == nil {
		t.Errorf("zero limit did not error")
	}
}

func TestSearchEmbeddedDocs(t *testing.T) {
	t.Parallel()

	matches, err := Search("reading order", 50)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no embedded docs mention reading order")
	}

	sawOrdering := false
	for _, m := range matches {
		if !strings.Contains(strings.ToLower(m.Snippet), "reading order") {
			t.Errorf("snippet %q does not contain the query", m.Snippet)
		}
		if m.Heading == "" {
			t.Errorf("match in %s:%d has no enclosing heading", m.Topic, m.Line)
		}
		if m.Topic == "ordering" {
			sawOrdering = true
		}
	}
	if !sawOrdering {
		t.Errorf("expected a match in the ordering topic, got %v", matches)
	}
}

func TestShortenSnippet(t *testing.T) {
	t.Parallel()

	if got := shortenSnippet("  short line  ", "short"); got != "short line" {
		t.Errorf("shortenSnippet(short) = %q", got)
	}

	long := strings.Repeat("x", 140) + " needle " + strings.Repeat("y", 140)
	got := shortenSnippet(long, "needle")
	if !strings.Contains(got, "needle") {
		t.Errorf("long snippet %q lost the match", got)
	}
	if !strings.HasPrefix(got, "...") || !strings.HasSuffix(got, "...") {
		t.Errorf("long snippet %q is not elided on both sides", got)
	}
	if len(got) > 170 {
		t.Errorf("long snippet is %d bytes, want around 160", len(got))
	}
}
