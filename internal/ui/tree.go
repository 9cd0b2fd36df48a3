package ui

import (
	"strings"

	"github.com/gabrielrenderos/figq/internal/scene"
)

// TreeOptions controls subtree rendering.
type TreeOptions struct {
	MaxDepth      int  // levels below the root to render, 0 = unlimited
	IncludeHidden bool // also render hidden branches
	ShowIDs       bool // append node IDs to labels
}

// RenderTree renders the subtree under root with box-drawing
// connectors. Labels are the node's type symbol plus name; hidden
// nodes carry a marker.
func RenderTree(root *scene.Node, opts TreeOptions) string {
	var sb strings.Builder
	sb.WriteString(treeLabel(root, opts))
	sb.WriteString("\n")
	renderBranch(root, "", 1, opts, &sb)
	return sb.String()
}

func renderBranch(n *scene.Node, prefix string, depth int, opts TreeOptions, sb *strings.Builder) {
	if opts.MaxDepth > 0 && depth > opts.MaxDepth {
		return
	}

	children := treeChildren(n, opts)
	for i, child := range children {
		connector := "├── "
		childPrefix := prefix + "│   "
		if i == len(children)-1 {
			connector = "└── "
			childPrefix = prefix + "    "
		}

		sb.WriteString(prefix)
		sb.WriteString(connector)
		sb.WriteString(treeLabel(child, opts))
		sb.WriteString("\n")

		renderBranch(child, childPrefix, depth+1, opts, sb)
	}
}

func treeChildren(n *scene.Node, opts TreeOptions) []*scene.Node {
	if opts.IncludeHidden {
		return n.Children
	}
	kept := make([]*scene.Node, 0, len(n.Children))
	for _, child := range n.Children {
		if child.Visible {
			kept = append(kept, child)
		}
	}
	return kept
}

func treeLabel(n *scene.Node, opts TreeOptions) string {
	label := n.Symbol() + n.Name
	if strings.TrimSpace(label) == "" {
		label = n.Type
	}
	if !n.Visible {
		label += " " + Hint("(hidden)")
	}
	if opts.ShowIDs && n.ID != "" {
		label += " " + Hint(n.ID)
	}
	return label
}
