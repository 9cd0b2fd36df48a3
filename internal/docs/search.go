package docs

import (
	"fmt"
	"io/fs"
	"strings"

	builtindocs "github.com/gabrielrenderos/figq/docs"
)

// Match is one search hit. Heading names the section the matching line
// sits under; Line is 1-based within the topic file.
type Match struct {
	Topic   string `json:"topic"`
	Title   string `json:"title"`
	Heading string `json:"heading,omitempty"`
	Line    int    `json:"line"`
	Snippet string `json:"snippet"`
}

// Search scans every bundled topic for lines containing the query,
// case-insensitively, in topic order. At most limit matches are
// returned.
func Search(query string, limit int) ([]Match, error) {
	return searchFS(builtindocs.FS, query, limit)
}

func searchFS(docsFS fs.FS, query string, limit int) ([]Match, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("empty query")
	}
	if limit < 1 {
		return nil, fmt.Errorf("limit must be >= 1")
	}

	topics, err := topicsFS(docsFS)
	if err != nil {
		return nil, err
	}

	queryLower := strings.ToLower(query)
	matches := make([]Match, 0, limit)
	for _, topic := range topics {
		content, err := fs.ReadFile(docsFS, topic.Path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", topic.Path, err)
		}

		outline := Outline(content)
		lines := strings.Split(string(content), "\n")
		for i, line := range lines {
			if !strings.Contains(strings.ToLower(line), queryLower) {
				continue
			}
			matches = append(matches, Match{
				Topic:   topic.ID,
				Title:   topic.Title,
				Heading: enclosingHeading(outline, i+1),
				Line:    i + 1,
				Snippet: shortenSnippet(line, queryLower),
			})
			if len(matches) >= limit {
				return matches, nil
			}
		}
	}
	return matches, nil
}

// enclosingHeading returns the last heading at or before the line.
func enclosingHeading(outline []Heading, line int) string {
	name := ""
	for _, h := range outline {
		if h.Line > line {
			break
		}
		name = h.Text
	}
	return name
}

func shortenSnippet(line, queryLower string) string {
	const maxLen = 160
	snippet := strings.TrimSpace(line)
	if snippet == "" {
		return "(blank line)"
	}
	if len(snippet) <= maxLen {
		return snippet
	}

	idx := strings.Index(strings.ToLower(snippet), queryLower)
	if idx < 0 {
		return snippet[:maxLen-1] + "..."
	}

	start := idx - 50
	if start < 0 {
		start = 0
	}
	end := start + maxLen
	if end > len(snippet) {
		end = len(snippet)
	}
	out := snippet[start:end]
	if start > 0 {
		out = "..." + out
	}
	if end < len(snippet) {
		out += "..."
	}
	return out
}
