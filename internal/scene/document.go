package scene

import (
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

// ErrNodeNotFound is returned when an ID lookup misses.
var ErrNodeNotFound = fmt.Errorf("node not found")

// Document is a loaded scene: the root node plus page and ID indexes.
type Document struct {
	// Name is the document title from the export, or the root node's
	// name when the export was a bare subtree.
	Name string

	// Root is the top of the loaded tree (usually type DOCUMENT).
	Root *Node

	// Pages are the top-level canvases in document order. Loading a
	// bare subtree export yields a single synthetic entry: the root
	// itself, so every document has at least one page-like scope.
	Pages []*Node

	byID  map[string]*Node
	count int
}

// Len returns the total number of nodes in the document.
func (d *Document) Len() int { return d.count }

// ByID looks a node up by its export ID.
func (d *Document) ByID(id string) (*Node, bool) {
	n, ok := d.byID[id]
	return n, ok
}

// ResolveNodes maps IDs to nodes, failing on the first unknown ID.
func (d *Document) ResolveNodes(ids []string) ([]*Node, error) {
	nodes := make([]*Node, 0, len(ids))
	for _, id := range ids {
		n, ok := d.byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNodeNotFound, id)
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// PageByName finds a page by exact name, falling back to a unique
// case-insensitive match.
func (d *Document) PageByName(name string) (*Node, bool) {
	for _, p := range d.Pages {
		if p.Name == name {
			return p, true
		}
	}
	var found *Node
	for _, p := range d.Pages {
		if strings.EqualFold(p.Name, name) {
			if found != nil {
				return nil, false
			}
			found = p
		}
	}
	return found, found != nil
}

// PageBySlug finds a page by its slugified name ("Home Screen" →
// "home-screen"). Ambiguous slugs report no match.
func (d *Document) PageBySlug(s string) (*Node, bool) {
	var found *Node
	for _, p := range d.Pages {
		if PageSlug(p.Name) == s {
			if found != nil {
				return nil, false
			}
			found = p
		}
	}
	return found, found != nil
}

// PageSlug returns the URL/flag-safe form of a page name.
func PageSlug(name string) string {
	return slug.Make(name)
}
