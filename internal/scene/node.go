// Package scene loads Figma-style document exports into an immutable
// in-memory node tree for the query engine to traverse. A document is a
// set of pages, each page a tree of typed, named, positioned nodes in
// paint order (child index 0 = backmost).
package scene

import "strings"

// Kind classifies a node for type-gated matching.
type Kind int

const (
	KindOther Kind = iota
	KindPage
	KindSection
	KindFrame
	KindGroup
	KindInstance
	KindComponent
	KindComponentSet
	KindShape
	KindText
)

var kindNames = map[Kind]string{
	KindOther:        "other",
	KindPage:         "page",
	KindSection:      "section",
	KindFrame:        "frame",
	KindGroup:        "group",
	KindInstance:     "instance",
	KindComponent:    "component",
	KindComponentSet: "component-set",
	KindShape:        "shape",
	KindText:         "text",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "other"
}

// KindForType maps a raw export node type onto its Kind, for callers
// that carry types outside a loaded tree.
func KindForType(t string) Kind {
	return kindForType(t)
}

// kindForType maps raw export node types onto kinds. Unknown types
// (slices, stickies, widgets) classify as Other.
func kindForType(t string) Kind {
	switch t {
	case "CANVAS", "PAGE":
		return KindPage
	case "SECTION":
		return KindSection
	case "FRAME":
		return KindFrame
	case "GROUP":
		return KindGroup
	case "INSTANCE":
		return KindInstance
	case "COMPONENT":
		return KindComponent
	case "COMPONENT_SET":
		return KindComponentSet
	case "TEXT":
		return KindText
	case "RECTANGLE", "ELLIPSE", "POLYGON", "REGULAR_POLYGON", "STAR",
		"VECTOR", "LINE", "BOOLEAN_OPERATION":
		return KindShape
	default:
		return KindOther
	}
}

// Axis is the direction along which an auto-layout container arranges
// its children.
type Axis int

const (
	AxisNone Axis = iota
	AxisHorizontal
	AxisVertical
)

func (a Axis) String() string {
	switch a {
	case AxisHorizontal:
		return "horizontal"
	case AxisVertical:
		return "vertical"
	default:
		return "none"
	}
}

// Node is one element of the loaded scene tree. Nodes are built once by
// Load and never mutated afterwards.
type Node struct {
	ID   string
	Name string
	// Type is the raw node type from the export, e.g. "FRAME".
	Type string
	Kind Kind

	// Visible is the node's own visibility flag; whether the node is
	// effectively visible also depends on its ancestors.
	Visible bool

	// HasImageFill is set when at least one fill paint is image-typed.
	// It is independent of Kind: an image-filled frame is still a frame
	// geometrically but matches image-gated queries.
	HasImageFill bool

	// Axis is the auto-layout direction, AxisNone for free-form nodes.
	Axis Axis

	// Absolute geometry in canvas coordinates. HasGeometry is false when
	// the export carried a null bounding box (common for pages).
	X, Y, W, H  float64
	HasGeometry bool

	Parent   *Node
	Children []*Node

	// Index is the position under Parent (paint order, 0 = backmost).
	// Depth counts ancestors; Preorder is the node's position in a
	// document-order walk, used as a stable ordering tiebreak.
	Index    int
	Depth    int
	Preorder int
}

// Page returns the page this node belongs to, or the node itself when
// it is a page. Nil for nodes above page level.
func (n *Node) Page() *Node {
	for p := n; p != nil; p = p.Parent {
		if p.Kind == KindPage {
			return p
		}
	}
	return nil
}

// IsAncestorOf reports whether n is a strict ancestor of other.
func (n *Node) IsAncestorOf(other *Node) bool {
	for p := other.Parent; p != nil; p = p.Parent {
		if p == n {
			return true
		}
	}
	return false
}

// VisibleWithin reports whether the node and every ancestor below root
// are visible. The root's own flag is not consulted.
func (n *Node) VisibleWithin(root *Node) bool {
	for p := n; p != nil && p != root; p = p.Parent {
		if !p.Visible {
			return false
		}
	}
	return true
}

// Symbol returns the query type symbol for the node's own
// classification: the symbol a user would type to gate on it. Image
// fills take precedence over geometric kind; nodes with no symbol
// (Other) return the empty string.
func (n *Node) Symbol() string {
	if n.HasImageFill {
		return "&"
	}
	switch n.Kind {
	case KindPage:
		return "#"
	case KindSection:
		return "$"
	case KindFrame, KindGroup:
		return "@"
	case KindInstance:
		return "!"
	case KindComponent, KindComponentSet:
		return "?"
	case KindShape:
		return "%"
	case KindText:
		return "="
	default:
		return ""
	}
}

// DisplayPath renders the ancestor chain from the page down to the node
// as symbol+name components joined by slashes. Display only, never
// parsed back.
func (n *Node) DisplayPath() string {
	var parts []string
	for p := n; p != nil; p = p.Parent {
		parts = append(parts, p.Symbol()+p.Name)
		if p.Kind == KindPage {
			break
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}
