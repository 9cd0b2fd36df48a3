package query

import "github.com/gabrielrenderos/figq/internal/scene"

// initialScopes derives the root scope set for a search. With nothing
// selected the current page is the single scope. With a selection,
// nested selections are pruned to their deepest nodes, then each
// survivor contributes itself plus, unless the query is child-rooted,
// its nearest enclosing container (section, frame, group, instance or
// component; the page when none) so a search started from a leaf
// covers the area the user is working in.
func initialScopes(page *scene.Node, selection []*scene.Node, childRooted bool) []*scene.Node {
	if len(selection) == 0 {
		if page == nil {
			return nil
		}
		return []*scene.Node{page}
	}

	pruned := pruneAncestors(selection)
	seen := make(map[*scene.Node]bool, len(pruned)*2)
	scopes := make([]*scene.Node, 0, len(pruned)*2)
	add := func(n *scene.Node) {
		if n != nil && !seen[n] {
			seen[n] = true
			scopes = append(scopes, n)
		}
	}
	for _, n := range pruned {
		add(n)
		if !childRooted {
			add(enclosingContainer(n))
		}
	}
	return scopes
}

// pruneAncestors drops selected nodes that are strict ancestors of
// other selected nodes, keeping only the deepest of each nested chain.
func pruneAncestors(selection []*scene.Node) []*scene.Node {
	out := make([]*scene.Node, 0, len(selection))
	for _, n := range selection {
		ancestor := false
		for _, other := range selection {
			if other != n && n.IsAncestorOf(other) {
				ancestor = true
				break
			}
		}
		if !ancestor {
			out = append(out, n)
		}
	}
	return out
}

// enclosingContainer walks up to the nearest structural container
// above the node, stopping at the page.
func enclosingContainer(n *scene.Node) *scene.Node {
	for p := n.Parent; p != nil; p = p.Parent {
		switch p.Kind {
		case scene.KindSection, scene.KindFrame, scene.KindGroup,
			scene.KindInstance, scene.KindComponent, scene.KindComponentSet,
			scene.KindPage:
			return p
		}
	}
	return nil
}
