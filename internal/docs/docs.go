// Package docs exposes the Markdown documentation bundled into the
// figq binary: the ordered topic list from index.yaml, topic lookup by
// name or unique prefix, raw content access, a heading outline, and a
// line-oriented search across every topic.
package docs

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	builtindocs "github.com/gabrielrenderos/figq/docs"
)

const indexPath = "index.yaml"

var (
	ErrUnknownTopic   = errors.New("unknown docs topic")
	ErrAmbiguousTopic = errors.New("ambiguous docs topic")
)

// Topic is one bundled documentation page.
type Topic struct {
	ID    string
	Title string
	Path  string
}

// Topics returns the bundled topics in index order.
func Topics() ([]Topic, error) {
	return topicsFS(builtindocs.FS)
}

// Lookup resolves a topic by ID or by a prefix that matches exactly one
// topic. A trailing ".md" on the input is ignored.
func Lookup(name string) (Topic, error) {
	topics, err := Topics()
	if err != nil {
		return Topic{}, err
	}
	return lookupTopic(topics, name)
}

// Content returns a topic's raw markdown.
func Content(t Topic) (string, error) {
	raw, err := fs.ReadFile(builtindocs.FS, t.Path)
	if err != nil {
		return "", fmt.Errorf("read docs topic %s: %w", t.Path, err)
	}
	return string(raw), nil
}

func topicsFS(docsFS fs.FS) ([]Topic, error) {
	raw, err := fs.ReadFile(docsFS, indexPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("docs index not found at %s", indexPath)
		}
		return nil, fmt.Errorf("read docs index: %w", err)
	}

	entries, err := decodeIndex(raw)
	if err != nil {
		return nil, err
	}

	topics := make([]Topic, 0, len(entries))
	seenPaths := make(map[string]string)
	for _, entry := range entries {
		relPath, err := resolveTopicPath(entry.meta.Path)
		if err != nil {
			return nil, fmt.Errorf("docs index topic %q: %w", entry.id, err)
		}
		if previousID, exists := seenPaths[relPath]; exists {
			return nil, fmt.Errorf("docs index maps duplicate path %q to topics %q and %q", relPath, previousID, entry.id)
		}
		seenPaths[relPath] = entry.id

		info, err := fs.Stat(docsFS, relPath)
		if err != nil {
			return nil, fmt.Errorf("docs index topic %q points to missing file %q: %w", entry.id, relPath, err)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("docs index topic %q path %q is a directory", entry.id, relPath)
		}

		title := entry.meta.Title
		if title == "" {
			title = extractTitleFS(docsFS, relPath, entry.id)
		}
		topics = append(topics, Topic{ID: entry.id, Title: title, Path: relPath})
	}
	return topics, nil
}

type indexEntry struct {
	id   string
	meta topicMeta
}

type topicMeta struct {
	Title string `yaml:"title"`
	Path  string `yaml:"path"`
}

// decodeIndex walks the YAML node tree by hand so the topic order in
// index.yaml is preserved.
func decodeIndex(raw []byte) ([]indexEntry, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, fmt.Errorf("parse docs index: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("docs index is empty")
	}
	top := root.Content[0]
	if top.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse docs index: top-level YAML must be a mapping")
	}

	var entries []indexEntry
	for i := 0; i+1 < len(top.Content); i += 2 {
		key := strings.TrimSpace(top.Content[i].Value)
		value := top.Content[i+1]
		switch key {
		case "topics":
			decoded, err := decodeTopicsNode(value)
			if err != nil {
				return nil, fmt.Errorf("parse docs index topics: %w", err)
			}
			entries = decoded
		default:
			return nil, fmt.Errorf("parse docs index: unknown top-level field %q", key)
		}
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("docs index has no topics")
	}
	return entries, nil
}

func decodeTopicsNode(node *yaml.Node) ([]indexEntry, error) {
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("topics must be a mapping")
	}

	var entries []indexEntry
	seen := make(map[string]bool)
	for i := 0; i+1 < len(node.Content); i += 2 {
		topicID := strings.TrimSpace(node.Content[i].Value)
		if topicID == "" {
			return nil, fmt.Errorf("topics contains an empty topic key")
		}
		if normalizeTopicSlug(topicID) != topicID {
			return nil, fmt.Errorf("topic id %q must use normalized slug format", topicID)
		}
		if seen[topicID] {
			return nil, fmt.Errorf("duplicate topic %q", topicID)
		}
		seen[topicID] = true

		var meta topicMeta
		if err := node.Content[i+1].Decode(&meta); err != nil {
			return nil, fmt.Errorf("topic %q metadata: %w", topicID, err)
		}
		meta.Title = strings.TrimSpace(meta.Title)
		meta.Path = strings.TrimSpace(meta.Path)
		if meta.Path == "" {
			return nil, fmt.Errorf("topic %q is missing required field \"path\"", topicID)
		}
		entries = append(entries, indexEntry{id: topicID, meta: meta})
	}
	return entries, nil
}

func resolveTopicPath(rawPath string) (string, error) {
	relPath := strings.ReplaceAll(strings.TrimSpace(rawPath), "\\", "/")
	if relPath == "" {
		return "", fmt.Errorf("missing required field \"path\"")
	}
	cleanPath := path.Clean(relPath)
	if cleanPath == "." || cleanPath == "/" {
		return "", fmt.Errorf("invalid topic path %q", rawPath)
	}
	if strings.HasPrefix(cleanPath, "/") || cleanPath == ".." || strings.HasPrefix(cleanPath, "../") {
		return "", fmt.Errorf("topic path %q must be relative to the docs root", rawPath)
	}
	if strings.ToLower(path.Ext(cleanPath)) != ".md" {
		return "", fmt.Errorf("topic path %q must end with .md", rawPath)
	}
	return cleanPath, nil
}

func lookupTopic(topics []Topic, raw string) (Topic, error) {
	needle := normalizeTopicSlug(strings.TrimSuffix(strings.TrimSpace(raw), ".md"))
	if needle == "" {
		return Topic{}, fmt.Errorf("%w: empty name (available: %s)", ErrUnknownTopic, strings.Join(topicIDs(topics), ", "))
	}

	for _, t := range topics {
		if t.ID == needle {
			return t, nil
		}
	}

	var prefixed []Topic
	for _, t := range topics {
		if strings.HasPrefix(t.ID, needle) {
			prefixed = append(prefixed, t)
		}
	}
	switch len(prefixed) {
	case 1:
		return prefixed[0], nil
	case 0:
		return Topic{}, fmt.Errorf("%w: %q (available: %s)", ErrUnknownTopic, raw, strings.Join(topicIDs(topics), ", "))
	default:
		return Topic{}, fmt.Errorf("%w: %q matches %s", ErrAmbiguousTopic, raw, strings.Join(topicIDs(prefixed), ", "))
	}
}

func topicIDs(topics []Topic) []string {
	ids := make([]string, 0, len(topics))
	for _, t := range topics {
		ids = append(ids, t.ID)
	}
	return ids
}

// extractTitleFS pulls the first level-one heading out of a topic file.
func extractTitleFS(docsFS fs.FS, docsPath, fallbackSlug string) string {
	f, err := docsFS.Open(docsPath)
	if err != nil {
		return titleFromSlug(fallbackSlug)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "# ") {
			if title := strings.TrimSpace(strings.TrimPrefix(line, "# ")); title != "" {
				return title
			}
		}
	}
	return titleFromSlug(fallbackSlug)
}

func normalizeTopicSlug(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.ReplaceAll(s, " ", "-")
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "-")
	}
	return strings.Trim(s, "-")
}

func titleFromSlug(slug string) string {
	parts := strings.FieldsFunc(slug, func(r rune) bool {
		return r == '-' || r == '_'
	})
	if len(parts) == 0 {
		return slug
	}
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}
