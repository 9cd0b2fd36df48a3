package query

import "github.com/gabrielrenderos/figq/internal/scene"

// VisMode is the visibility eligibility class for one segment's
// traversal. It both gates candidates and decides whether the sweep may
// prune hidden subtrees.
type VisMode int

const (
	// VisDefault admits nodes that are visible themselves and through
	// every ancestor up to the scope root; sweeps prune hidden
	// branches.
	VisDefault VisMode = iota
	// VisAny ignores visibility entirely.
	VisAny
	// VisHiddenOnly admits only nodes whose own flag is hidden; the
	// sweep still has to walk through visible containers to reach them.
	VisHiddenOnly
)

func (m VisMode) String() string {
	switch m {
	case VisAny:
		return "any"
	case VisHiddenOnly:
		return "hidden-only"
	default:
		return "visible"
	}
}

// visModeFor resolves the mode for a segment. Hidden-only applies to
// the final segment alone; intermediate segments under --h behave like
// --a so the path to a hidden leaf can pass through visible containers.
func visModeFor(p *Plan, final bool) VisMode {
	switch {
	case p.AllVis:
		return VisAny
	case p.HiddenOnly && final:
		return VisHiddenOnly
	case p.HiddenOnly:
		return VisAny
	default:
		return VisDefault
	}
}

// includeHidden reports whether sweeps under this mode must walk into
// hidden subtrees.
func (m VisMode) includeHidden() bool { return m != VisDefault }

// admits applies the mode's per-node test. Under VisDefault ancestor
// visibility is already guaranteed by sweep pruning, so only the own
// flag is consulted here.
func (m VisMode) admits(n *scene.Node) bool {
	switch m {
	case VisAny:
		return true
	case VisHiddenOnly:
		return !n.Visible
	default:
		return n.Visible
	}
}
