// Package testutil provides reusable test utilities for figq integration tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestScene represents a temporary workspace for testing: a scene
// export plus the config, state, and project files the CLI resolves
// around it.
type TestScene struct {
	Dir        string // workspace root (also the CLI working directory)
	ScenePath  string // scene.json, empty when no export was configured
	ConfigPath string // config.toml, always written by Build
	StatePath  string // state.toml, created lazily by the CLI

	t      *testing.T
	export string
	config string
	files  map[string]string
}

// NewTestScene creates a new test workspace builder.
// Call Build() to create the actual directory.
func NewTestScene(t *testing.T) *TestScene {
	t.Helper()
	return &TestScene{
		t:     t,
		files: make(map[string]string),
	}
}

// WithExport sets the scene.json content for the workspace.
func (s *TestScene) WithExport(json string) *TestScene {
	s.export = json
	return s
}

// WithConfigTOML sets the config.toml content. Build writes an empty
// config when none is given, so the CLI always has a file to load.
func (s *TestScene) WithConfigTOML(toml string) *TestScene {
	s.config = toml
	return s
}

// WithFigqYAML sets the figq.yaml content for the workspace.
func (s *TestScene) WithFigqYAML(yaml string) *TestScene {
	s.files["figq.yaml"] = yaml
	return s
}

// WithFile adds a file to the workspace.
// The path is relative to the workspace root.
func (s *TestScene) WithFile(path, content string) *TestScene {
	s.files[path] = content
	return s
}

// Build creates the workspace directory and all configured files.
// Returns the TestScene for method chaining.
func (s *TestScene) Build() *TestScene {
	s.t.Helper()

	s.Dir = s.t.TempDir()
	s.ConfigPath = filepath.Join(s.Dir, "config.toml")
	s.StatePath = filepath.Join(s.Dir, "state.toml")

	s.writeFile("config.toml", s.config)

	if s.export != "" {
		s.ScenePath = filepath.Join(s.Dir, "scene.json")
		s.writeFile("scene.json", s.export)
	}

	for path, content := range s.files {
		s.writeFile(path, content)
	}

	return s
}

// writeFile writes a file to the workspace, creating directories as needed.
func (s *TestScene) writeFile(relPath, content string) {
	s.t.Helper()
	fullPath := filepath.Join(s.Dir, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		s.t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		s.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// ReadFile reads a file from the workspace.
// Returns the content as a string.
func (s *TestScene) ReadFile(relPath string) string {
	s.t.Helper()
	fullPath := filepath.Join(s.Dir, relPath)
	content, err := os.ReadFile(fullPath)
	if err != nil {
		s.t.Fatalf("failed to read file %s: %v", fullPath, err)
	}
	return string(content)
}

// FileExists checks if a file exists in the workspace.
func (s *TestScene) FileExists(relPath string) bool {
	s.t.Helper()
	fullPath := filepath.Join(s.Dir, relPath)
	_, err := os.Stat(fullPath)
	return err == nil
}

// MinimalScene returns a minimal valid scene export: one page, one
// frame, one text layer.
func MinimalScene() string {
	return `{
  "name": "minimal",
  "document": {
    "id": "0:0",
    "name": "Document",
    "type": "DOCUMENT",
    "children": [
      {
        "id": "1:1",
        "name": "Page 1",
        "type": "CANVAS",
        "children": [
          {
            "id": "5:1",
            "name": "Box",
            "type": "FRAME",
            "absoluteBoundingBox": {"x": 0, "y": 0, "width": 200, "height": 100},
            "children": [
              {
                "id": "5:2",
                "name": "Hello",
                "type": "TEXT",
                "absoluteBoundingBox": {"x": 10, "y": 10, "width": 80, "height": 20}
              }
            ]
          }
        ]
      }
    ]
  }
}`
}

// DesignSystemScene returns a two-page export shaped like a small
// product file: a Home page with repeated cards and a hidden debug
// frame, and an Assets page with a component set, a component, and an
// instance. Node IDs are stable so tests can assert on them.
func DesignSystemScene() string {
	return `{
  "name": "design-system",
  "document": {
    "id": "0:0",
    "name": "Document",
    "type": "DOCUMENT",
    "children": [
      {
        "id": "1:1",
        "name": "Home",
        "type": "CANVAS",
        "children": [
          {
            "id": "10:1",
            "name": "Header",
            "type": "FRAME",
            "absoluteBoundingBox": {"x": 0, "y": 0, "width": 800, "height": 80},
            "children": [
              {
                "id": "10:2",
                "name": "Title",
                "type": "TEXT",
                "absoluteBoundingBox": {"x": 16, "y": 24, "width": 200, "height": 32}
              }
            ]
          },
          {
            "id": "10:3",
            "name": "Card",
            "type": "FRAME",
            "absoluteBoundingBox": {"x": 0, "y": 100, "width": 360, "height": 240},
            "children": [
              {
                "id": "10:4",
                "name": "Cover",
                "type": "RECTANGLE",
                "fills": [{"type": "IMAGE"}],
                "absoluteBoundingBox": {"x": 0, "y": 100, "width": 360, "height": 160}
              },
              {
                "id": "10:5",
                "name": "Title",
                "type": "TEXT",
                "absoluteBoundingBox": {"x": 16, "y": 276, "width": 200, "height": 24}
              }
            ]
          },
          {
            "id": "10:6",
            "name": "Card",
            "type": "FRAME",
            "absoluteBoundingBox": {"x": 400, "y": 100, "width": 360, "height": 240},
            "children": [
              {
                "id": "10:7",
                "name": "Cover",
                "type": "RECTANGLE",
                "fills": [{"type": "IMAGE"}],
                "absoluteBoundingBox": {"x": 400, "y": 100, "width": 360, "height": 160}
              },
              {
                "id": "10:8",
                "name": "Title",
                "type": "TEXT",
                "absoluteBoundingBox": {"x": 416, "y": 276, "width": 200, "height": 24}
              }
            ]
          },
          {
            "id": "10:9",
            "name": "Debug Panel",
            "type": "FRAME",
            "visible": false,
            "absoluteBoundingBox": {"x": 0, "y": 400, "width": 800, "height": 120},
            "children": [
              {
                "id": "10:10",
                "name": "Log",
                "type": "TEXT",
                "absoluteBoundingBox": {"x": 8, "y": 408, "width": 300, "height": 100}
              }
            ]
          }
        ]
      },
      {
        "id": "2:1",
        "name": "Assets",
        "type": "CANVAS",
        "children": [
          {
            "id": "20:1",
            "name": "Button",
            "type": "COMPONENT_SET",
            "absoluteBoundingBox": {"x": 0, "y": 0, "width": 400, "height": 120},
            "children": [
              {
                "id": "20:2",
                "name": "State=Default",
                "type": "COMPONENT",
                "absoluteBoundingBox": {"x": 8, "y": 8, "width": 180, "height": 48}
              },
              {
                "id": "20:3",
                "name": "State=Hover",
                "type": "COMPONENT",
                "absoluteBoundingBox": {"x": 208, "y": 8, "width": 180, "height": 48}
              }
            ]
          },
          {
            "id": "20:4",
            "name": "Icon / Search",
            "type": "COMPONENT",
            "absoluteBoundingBox": {"x": 0, "y": 160, "width": 24, "height": 24}
          },
          {
            "id": "20:5",
            "name": "Button",
            "type": "INSTANCE",
            "absoluteBoundingBox": {"x": 0, "y": 220, "width": 180, "height": 48}
          }
        ]
      }
    ]
  }
}`
}
