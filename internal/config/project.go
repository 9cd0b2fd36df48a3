package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gabrielrenderos/figq/internal/atomicfile"
)

// ProjectFileName is the per-project config file figq looks for.
const ProjectFileName = "figq.yaml"

// ProjectConfig represents project-level configuration from figq.yaml,
// found by walking up from the working directory.
type ProjectConfig struct {
	// File is the scene export this project searches, relative to the
	// directory containing figq.yaml when not absolute.
	File string `yaml:"file,omitempty"`

	// Page names the page searches start on when state has none.
	Page string `yaml:"page,omitempty"`

	// Queries defines saved queries runnable with `figq queries run <name>`.
	Queries map[string]*SavedQuery `yaml:"queries,omitempty"`

	// Dir is the directory figq.yaml was found in. Not serialized.
	Dir string `yaml:"-"`
}

// SavedQuery defines a named, reusable query.
type SavedQuery struct {
	// Query is the query string, e.g. "@Card/=Title" or "&Cover --2".
	Query string `yaml:"query"`

	// Page pins the query to a page, overriding the current page.
	Page string `yaml:"page,omitempty"`

	// Description for help text.
	Description string `yaml:"description,omitempty"`
}

// ScenePath resolves the project's scene file against the project dir.
func (pc *ProjectConfig) ScenePath() string {
	if pc == nil || strings.TrimSpace(pc.File) == "" {
		return ""
	}
	if filepath.IsAbs(pc.File) {
		return filepath.Clean(pc.File)
	}
	return filepath.Join(pc.Dir, pc.File)
}

// FindProjectConfig walks from dir toward the filesystem root looking
// for figq.yaml. Returns nil (no error) when none exists.
func FindProjectConfig(dir string) (*ProjectConfig, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	for {
		candidate := filepath.Join(dir, ProjectFileName)
		if _, err := os.Stat(candidate); err == nil {
			return LoadProjectConfig(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// LoadProjectConfig loads project configuration from a figq.yaml path.
func LoadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read project config %s: %w", path, err)
	}

	var config ProjectConfig
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse project config %s: %w", path, err)
	}
	config.Dir = filepath.Dir(path)

	return &config, nil
}

// QueryNames returns the saved query names in sorted order.
func (pc *ProjectConfig) QueryNames() []string {
	if pc == nil || len(pc.Queries) == 0 {
		return nil
	}
	names := make([]string, 0, len(pc.Queries))
	for name := range pc.Queries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupQuery finds a saved query by name.
func (pc *ProjectConfig) LookupQuery(name string) (*SavedQuery, bool) {
	if pc == nil || pc.Queries == nil {
		return nil, false
	}
	q, ok := pc.Queries[name]
	if !ok || q == nil || strings.TrimSpace(q.Query) == "" {
		return nil, false
	}
	return q, true
}

// CreateDefaultProjectConfig writes a starter figq.yaml in dir.
// Returns true if a new file was created, false if one already existed.
func CreateDefaultProjectConfig(dir string) (bool, error) {
	configPath := filepath.Join(dir, ProjectFileName)

	// Skip if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return false, nil
	}

	defaultConfig := `# figq project configuration
# Found by walking up from the working directory.

# Scene export this project searches (REST file export JSON).
# file: design/export.json

# Page searches start on when none is set.
# page: Home

# Saved queries, runnable with: figq queries run <name>
# queries:
#   ctas:
#     query: "@Card/CTA --fe"
#     description: "First call to action per card"
#   covers:
#     query: "&Cover"
#     page: Home
`

	if err := atomicfile.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return false, fmt.Errorf("failed to write project config: %w", err)
	}

	return true, nil
}
