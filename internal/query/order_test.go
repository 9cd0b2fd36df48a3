package query

import (
	"testing"

	"github.com/gabrielrenderos/figq/internal/scene"
	"github.com/gabrielrenderos/figq/internal/scenetest"
)

func ids(nodes []*scene.Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}

func sameIDs(got []*scene.Node, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i].ID != want[i] {
			return false
		}
	}
	return true
}

func TestSortVisualRows(t *testing.T) {
	doc := scenetest.Doc(t, scenetest.N{Name: "P", Kids: []scenetest.N{
		{ID: "a", Name: "A", X: 300, Y: 0, W: 100, H: 24},
		{ID: "b", Name: "B", X: 0, Y: 4, W: 100, H: 24},
		{ID: "c", Name: "C", X: 150, Y: 2, W: 100, H: 24},
		{ID: "d", Name: "D", X: 40, Y: 100, W: 100, H: 24},
	}})
	page := doc.Pages[0]

	nodes := append([]*scene.Node(nil), page.Children...)
	sortVisual(nodes, page)
	if want := []string{"b", "c", "a", "d"}; !sameIDs(nodes, want) {
		t.Errorf("row-major order = %v, want %v", ids(nodes), want)
	}
}

func TestSortVisualOverlapTie(t *testing.T) {
	// Fully overlapping siblings: the frontmost (higher child index)
	// sorts first.
	doc := scenetest.Doc(t, scenetest.N{Name: "P", Kids: []scenetest.N{
		{ID: "back", Name: "Pin", X: 50, Y: 50, W: 100, H: 24},
		{ID: "front", Name: "Pin", X: 50, Y: 50, W: 100, H: 24},
	}})
	page := doc.Pages[0]

	nodes := append([]*scene.Node(nil), page.Children...)
	sortVisual(nodes, page)
	if want := []string{"front", "back"}; !sameIDs(nodes, want) {
		t.Errorf("overlap order = %v, want %v", ids(nodes), want)
	}
}

func TestSortVisualAxis(t *testing.T) {
	doc := scenetest.Doc(t,
		scenetest.N{Name: "P", Kids: []scenetest.N{
			{ID: "col", Name: "Col", Layout: "VERTICAL", X: 0, Y: 0, W: 200, H: 400, Kids: []scenetest.N{
				{ID: "k1", Name: "K1", X: 0, Y: 200, W: 100, H: 24},
				{ID: "k2", Name: "K2", X: 500, Y: 10, W: 100, H: 24},
			}},
			{ID: "row", Name: "Row", Layout: "HORIZONTAL", X: 0, Y: 500, W: 400, H: 100, Kids: []scenetest.N{
				{ID: "l1", Name: "L1", X: 300, Y: 510, W: 100, H: 24},
				{ID: "l2", Name: "L2", X: 10, Y: 560, W: 100, H: 24},
			}},
		}},
	)

	col := scenetest.MustNode(t, doc, "col")
	nodes := append([]*scene.Node(nil), col.Children...)
	sortVisual(nodes, col)
	if want := []string{"k2", "k1"}; !sameIDs(nodes, want) {
		t.Errorf("vertical axis order = %v, want %v", ids(nodes), want)
	}

	row := scenetest.MustNode(t, doc, "row")
	nodes = append([]*scene.Node(nil), row.Children...)
	sortVisual(nodes, row)
	if want := []string{"l2", "l1"}; !sameIDs(nodes, want) {
		t.Errorf("horizontal axis order = %v, want %v", ids(nodes), want)
	}
}

func TestSortVisualAxisDepthTie(t *testing.T) {
	// Same primary coordinate inside an axis scope: direct children
	// sort before deeper descendants.
	doc := scenetest.Doc(t, scenetest.N{Name: "P", Kids: []scenetest.N{
		{ID: "col", Name: "Col", Layout: "VERTICAL", X: 0, Y: 0, W: 200, H: 400, Kids: []scenetest.N{
			{ID: "wrap", Name: "Wrap", X: 0, Y: 50, W: 200, H: 100, Kids: []scenetest.N{
				{ID: "deep", Name: "Deep", X: 0, Y: 50, W: 100, H: 24},
			}},
			{ID: "flat", Name: "Flat", X: 0, Y: 50, W: 100, H: 24},
		}},
	}})

	col := scenetest.MustNode(t, doc, "col")
	nodes := []*scene.Node{
		scenetest.MustNode(t, doc, "deep"),
		scenetest.MustNode(t, doc, "flat"),
	}
	sortVisual(nodes, col)
	if want := []string{"flat", "deep"}; !sameIDs(nodes, want) {
		t.Errorf("axis depth tie order = %v, want %v", ids(nodes), want)
	}
}

func TestSortVisualNoGeometry(t *testing.T) {
	doc := scenetest.Doc(t, scenetest.N{Name: "P", Kids: []scenetest.N{
		{ID: "p1", Name: "P1", NoGeom: true},
		{ID: "p2", Name: "P2", NoGeom: true},
	}})
	page := doc.Pages[0]

	nodes := append([]*scene.Node(nil), page.Children...)
	sortVisual(nodes, page)
	if want := []string{"p2", "p1"}; !sameIDs(nodes, want) {
		t.Errorf("geometry-less order = %v, want %v", ids(nodes), want)
	}
}

func TestPickRank(t *testing.T) {
	doc := scenetest.Doc(t, scenetest.N{Name: "P", Kids: []scenetest.N{
		{ID: "a", Name: "A", X: 0, Y: 0, W: 10, H: 10},
		{ID: "b", Name: "B", X: 20, Y: 0, W: 10, H: 10},
		{ID: "c", Name: "C", X: 40, Y: 0, W: 10, H: 10},
	}})
	page := doc.Pages[0]
	sorted := append([]*scene.Node(nil), page.Children...)
	sortVisual(sorted, page)

	tests := []struct {
		rank   int
		wantID string
		ok     bool
	}{
		{rank: 1, wantID: "a", ok: true},
		{rank: 3, wantID: "c", ok: true},
		{rank: 0, wantID: "c", ok: true}, // 0 selects the last
		{rank: 4, ok: false},
	}
	for _, tt := range tests {
		got, ok := pickRank(sorted, tt.rank)
		if ok != tt.ok {
			t.Fatalf("pickRank(%d) ok = %v, want %v", tt.rank, ok, tt.ok)
		}
		if ok && got.ID != tt.wantID {
			t.Errorf("pickRank(%d) = %s, want %s", tt.rank, got.ID, tt.wantID)
		}
	}

	if _, ok := pickRank(nil, 1); ok {
		t.Error("pickRank on an empty set should report no pick")
	}
}
