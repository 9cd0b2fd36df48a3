// Package scenetest builds scene documents for tests. Fixtures are
// described as literal node trees, marshalled into the export wire
// shape, and loaded through the real scene loader so tests cover the
// same path production documents take.
package scenetest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/gabrielrenderos/figq/internal/scene"
)

// N describes one fixture node. Zero values mean: auto-assigned ID,
// FRAME type (CANVAS at page level), visible, no image fill, no
// auto-layout, zero-origin geometry.
type N struct {
	ID     string
	Name   string
	Type   string
	Hidden bool
	Image  bool
	Layout string // "HORIZONTAL" or "VERTICAL"

	X, Y, W, H float64
	NoGeom     bool

	Kids []N
}

// Doc builds and loads a document whose pages are the given trees.
func Doc(t *testing.T, pages ...N) *scene.Document {
	t.Helper()
	next := 0
	children := make([]map[string]any, len(pages))
	for i, p := range pages {
		if p.Type == "" {
			p.Type = "CANVAS"
		}
		children[i] = wire(t, p, &next)
	}
	export := map[string]any{
		"name": "fixture",
		"document": map[string]any{
			"id":       "0:0",
			"name":     "Document",
			"type":     "DOCUMENT",
			"children": children,
		},
	}
	data, err := json.Marshal(export)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	doc, err := scene.Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return doc
}

func wire(t *testing.T, n N, next *int) map[string]any {
	t.Helper()
	id := n.ID
	if id == "" {
		*next++
		id = fmt.Sprintf("t:%d", *next)
	}
	typ := n.Type
	if typ == "" {
		typ = "FRAME"
	}
	m := map[string]any{
		"id":   id,
		"name": n.Name,
		"type": typ,
	}
	if n.Hidden {
		m["visible"] = false
	}
	if n.Image {
		m["fills"] = []map[string]any{{"type": "IMAGE"}}
	}
	if n.Layout != "" {
		m["layoutMode"] = n.Layout
	}
	if !n.NoGeom && typ != "CANVAS" {
		m["absoluteBoundingBox"] = map[string]any{
			"x": n.X, "y": n.Y, "width": n.W, "height": n.H,
		}
	}
	if len(n.Kids) > 0 {
		kids := make([]map[string]any, len(n.Kids))
		for i, k := range n.Kids {
			kids[i] = wire(t, k, next)
		}
		m["children"] = kids
	}
	return m
}

// MustNode fetches a node by ID, failing the test when absent.
func MustNode(t *testing.T, doc *scene.Document, id string) *scene.Node {
	t.Helper()
	n, ok := doc.ByID(id)
	if !ok {
		t.Fatalf("fixture has no node %q", id)
	}
	return n
}
