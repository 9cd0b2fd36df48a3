package query

import (
	"math"
	"sort"

	"github.com/gabrielrenderos/figq/internal/scene"
)

// orderer produces the visual reading order for one candidate set:
// rows top-to-bottom and left-to-right within a row, with layout-axis
// awareness inside auto-layout scopes and paint order at the nearest
// common ancestor breaking geometric ties. Document pre-order is the
// final tiebreak so no two distinct nodes ever compare equal.
type orderer struct {
	axis scene.Axis
	rows map[*scene.Node]int
}

// sortVisual sorts candidates in place into visual reading order.
// scope supplies the layout-axis context when the candidates were
// gathered under a single scope; nil means a flat cross-scope set,
// which always orders row-major.
func sortVisual(nodes []*scene.Node, scope *scene.Node) {
	if len(nodes) < 2 {
		return
	}
	o := newOrderer(nodes, scope)
	sort.SliceStable(nodes, func(i, j int) bool { return o.less(nodes[i], nodes[j]) })
}

// pickRank selects the 1-based rank from a sorted candidate list; rank
// 0 means last. Out-of-range ranks select nothing.
func pickRank(sorted []*scene.Node, rank int) (*scene.Node, bool) {
	if len(sorted) == 0 {
		return nil, false
	}
	if rank == 0 {
		return sorted[len(sorted)-1], true
	}
	if rank < 1 || rank > len(sorted) {
		return nil, false
	}
	return sorted[rank-1], true
}

func newOrderer(candidates []*scene.Node, scope *scene.Node) *orderer {
	o := &orderer{}
	if scope != nil {
		o.axis = scope.Axis
	}
	if o.axis == scene.AxisNone {
		o.assignRows(candidates)
	}
	return o
}

// assignRows clusters candidates into visual rows by vertical center.
// The row epsilon scales with the set's average height so small icons
// and full-height cards both group sensibly.
func (o *orderer) assignRows(candidates []*scene.Node) {
	var geo []*scene.Node
	for _, n := range candidates {
		if n.HasGeometry {
			geo = append(geo, n)
		}
	}
	if len(geo) == 0 {
		return
	}

	sum, counted := 0.0, 0
	for _, n := range geo {
		if n.H > 0 {
			sum += n.H
			counted++
		}
	}
	avg := 24.0
	if counted > 0 {
		avg = sum / float64(counted)
	}
	eps := math.Max(8, math.Round(0.35*avg))

	sorted := append([]*scene.Node(nil), geo...)
	sort.SliceStable(sorted, func(i, j int) bool {
		ci, cj := centerY(sorted[i]), centerY(sorted[j])
		if ci != cj {
			return ci < cj
		}
		return sorted[i].Preorder < sorted[j].Preorder
	})

	o.rows = make(map[*scene.Node]int, len(sorted))
	row := 0
	anchor := centerY(sorted[0])
	for _, n := range sorted {
		if centerY(n)-anchor > eps {
			row++
			anchor = centerY(n)
		}
		o.rows[n] = row
	}
}

func centerY(n *scene.Node) float64 { return n.Y + n.H/2 }

func (o *orderer) less(a, b *scene.Node) bool {
	if c := o.compare(a, b); c != 0 {
		return c < 0
	}
	return a.Preorder < b.Preorder
}

func (o *orderer) compare(a, b *scene.Node) int {
	if o.axis != scene.AxisNone && a.HasGeometry && b.HasGeometry {
		return o.axisCompare(a, b)
	}

	ra, aok := o.rows[a]
	rb, bok := o.rows[b]
	if aok && bok {
		if ra != rb {
			return compareInt(ra, rb)
		}
		if a.X != b.X {
			return compareFloat(a.X, b.X)
		}
		return paintCompare(a, b)
	}

	// No shared row or axis context (geometry missing on at least one
	// side): paint order first, then whatever geometry exists.
	if c := paintCompare(a, b); c != 0 {
		return c
	}
	if a.HasGeometry && b.HasGeometry {
		if a.Y != b.Y {
			return compareFloat(a.Y, b.Y)
		}
		if a.X != b.X {
			return compareFloat(a.X, b.X)
		}
	}
	return 0
}

// axisCompare orders candidates inside an auto-layout scope along its
// layout axis, preferring shallower descendants on ties.
func (o *orderer) axisCompare(a, b *scene.Node) int {
	pa, pb := a.X, b.X
	if o.axis == scene.AxisVertical {
		pa, pb = a.Y, b.Y
	}
	if pa != pb {
		return compareFloat(pa, pb)
	}
	if a.Depth != b.Depth {
		return compareInt(a.Depth, b.Depth)
	}
	return paintCompare(a, b)
}

// paintCompare orders by paint order at the nearest common ancestor,
// frontmost branch (higher sibling index) first. Zero when one node
// contains the other, leaving the decision to later signals.
func paintCompare(a, b *scene.Node) int {
	if a == b {
		return 0
	}
	ca, cb := a, b
	for ca.Depth > cb.Depth {
		if ca.Parent == nil {
			return 0
		}
		ca = ca.Parent
	}
	for cb.Depth > ca.Depth {
		if cb.Parent == nil {
			return 0
		}
		cb = cb.Parent
	}
	if ca == cb {
		return 0
	}
	for ca.Parent != cb.Parent {
		if ca.Parent == nil || cb.Parent == nil {
			return 0
		}
		ca, cb = ca.Parent, cb.Parent
	}
	return compareInt(cb.Index, ca.Index)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
