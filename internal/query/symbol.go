// Package query implements the layer query language: parsing path-like
// expressions into typed segments and evaluating them against a scene
// document to produce an ordered set of matching nodes.
package query

import "github.com/gabrielrenderos/figq/internal/scene"

// Symbol is a query type gate. The zero value matches any node.
type Symbol byte

const (
	SymbolAny       Symbol = 0
	SymbolPage      Symbol = '#'
	SymbolSection   Symbol = '$'
	SymbolFrame     Symbol = '@'
	SymbolInstance  Symbol = '!'
	SymbolComponent Symbol = '?'
	SymbolImage     Symbol = '&'
	SymbolShape     Symbol = '%'
	SymbolText      Symbol = '='
)

// symbolFor recognizes a leading gate character.
func symbolFor(c byte) (Symbol, bool) {
	switch Symbol(c) {
	case SymbolPage, SymbolSection, SymbolFrame, SymbolInstance,
		SymbolComponent, SymbolImage, SymbolShape, SymbolText:
		return Symbol(c), true
	}
	return SymbolAny, false
}

func (s Symbol) String() string {
	if s == SymbolAny {
		return "any"
	}
	return string(byte(s))
}

// Describe names the node category a symbol gates on.
func (s Symbol) Describe() string {
	switch s {
	case SymbolPage:
		return "page"
	case SymbolSection:
		return "section"
	case SymbolFrame:
		return "frame"
	case SymbolInstance:
		return "instance"
	case SymbolComponent:
		return "component"
	case SymbolImage:
		return "image"
	case SymbolShape:
		return "shape"
	case SymbolText:
		return "text"
	default:
		return "any"
	}
}

// Matches is the type gate: whether a node belongs to the symbol's
// category. Frames and groups gate together, as do components and
// component sets. Image-fill presence defines the image gate regardless
// of geometric kind, and excludes a node from the shape gate.
func (s Symbol) Matches(n *scene.Node) bool {
	switch s {
	case SymbolAny:
		return true
	case SymbolPage:
		return n.Kind == scene.KindPage
	case SymbolSection:
		return n.Kind == scene.KindSection
	case SymbolFrame:
		return n.Kind == scene.KindFrame || n.Kind == scene.KindGroup
	case SymbolInstance:
		return n.Kind == scene.KindInstance
	case SymbolComponent:
		return n.Kind == scene.KindComponent || n.Kind == scene.KindComponentSet
	case SymbolImage:
		return n.HasImageFill
	case SymbolShape:
		return n.Kind == scene.KindShape && !n.HasImageFill
	case SymbolText:
		return n.Kind == scene.KindText
	default:
		return false
	}
}
