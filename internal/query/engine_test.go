package query

import (
	"context"
	"fmt"
	"testing"

	"github.com/gabrielrenderos/figq/internal/scene"
	"github.com/gabrielrenderos/figq/internal/scenetest"
)

// engineFixture is a two-page document used by most search tests: a
// hero column, a deck of three cards whose document order differs from
// their visual order, and a second page with one image.
func engineFixture(t *testing.T) *scene.Document {
	t.Helper()
	return scenetest.Doc(t,
		scenetest.N{Name: "Home", Kids: []scenetest.N{
			{ID: "hero", Name: "Hero", Layout: "VERTICAL", X: 0, Y: 0, W: 375, H: 400, Kids: []scenetest.N{
				{ID: "title", Name: "Title", Type: "TEXT", X: 16, Y: 24, W: 200, H: 32},
				{ID: "cover", Name: "Cover", Type: "RECTANGLE", Image: true, X: 0, Y: 80, W: 375, H: 200},
				{ID: "divider", Name: "Divider", Type: "LINE", X: 0, Y: 290, W: 375, H: 1},
				{ID: "badge", Name: "Badge", Type: "TEXT", Hidden: true, X: 16, Y: 300, W: 60, H: 20},
			}},
			// cardB sits first in document order but second visually.
			{ID: "deck", Name: "Deck", X: 0, Y: 420, W: 375, H: 500, Kids: []scenetest.N{
				{ID: "cardB", Name: "Card", X: 200, Y: 430, W: 160, H: 120, Kids: []scenetest.N{
					{ID: "ctaB1", Name: "CTA One", Type: "TEXT", X: 210, Y: 520, W: 60, H: 20},
					{ID: "ctaB2", Name: "CTA Two", Type: "TEXT", X: 210, Y: 490, W: 60, H: 20},
				}},
				{ID: "cardA", Name: "Card", X: 10, Y: 430, W: 160, H: 120, Kids: []scenetest.N{
					{ID: "ctaA1", Name: "CTA One", Type: "TEXT", X: 20, Y: 460, W: 60, H: 20},
					{ID: "ctaA2", Name: "CTA Two", Type: "TEXT", X: 20, Y: 500, W: 60, H: 20},
				}},
				{ID: "cardC", Name: "Card", X: 10, Y: 600, W: 160, H: 120, Kids: []scenetest.N{
					{ID: "ctaC1", Name: "CTA One", Type: "TEXT", X: 20, Y: 610, W: 60, H: 20},
					{ID: "ctaC2", Name: "CTA Two", Type: "TEXT", X: 20, Y: 650, W: 60, H: 20},
				}},
			}},
		}},
		scenetest.N{Name: "Archive", Kids: []scenetest.N{
			{ID: "old", Name: "Old Cover", Type: "RECTANGLE", Image: true, X: 0, Y: 0, W: 100, H: 100},
		}},
	)
}

// directnessFixture has a name repeated at several depths around one
// container.
func directnessFixture(t *testing.T) *scene.Document {
	t.Helper()
	return scenetest.Doc(t, scenetest.N{Name: "P", Kids: []scenetest.N{
		{ID: "card", Name: "Card", Kids: []scenetest.N{
			{ID: "direct", Name: "CTA", Type: "TEXT"},
			{ID: "wrap", Name: "Wrap", Kids: []scenetest.N{
				{ID: "deep", Name: "CTA", Type: "TEXT"},
			}},
		}},
		{ID: "out", Name: "CTA", Type: "TEXT"},
	}})
}

func search(t *testing.T, doc *scene.Document, raw string, opts Options) *Result {
	t.Helper()
	return New().Search(context.Background(), doc, raw, opts)
}

func matchIDs(res *Result) []string {
	out := make([]string, len(res.Matches))
	for i, m := range res.Matches {
		out[i] = m.Node.ID
	}
	return out
}

func wantMatches(t *testing.T, res *Result, want ...string) {
	t.Helper()
	if res.Status != StatusMatched {
		t.Fatalf("status = %v (err %v), want matched", res.Status, res.Err)
	}
	got := matchIDs(res)
	if len(got) != len(want) {
		t.Fatalf("matches = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("matches = %v, want %v", got, want)
		}
	}
}

func wantNoMatch(t *testing.T, res *Result) {
	t.Helper()
	if res.Status != StatusNoMatch {
		t.Fatalf("status = %v (matches %v), want no match", res.Status, matchIDs(res))
	}
	if len(res.Matches) != 0 {
		t.Fatalf("no-match result still carries %v", matchIDs(res))
	}
}

func TestSearchByName(t *testing.T) {
	doc := engineFixture(t)

	res := search(t, doc, "title", Options{})
	wantMatches(t, res, "title")
	if res.Visited == 0 {
		t.Error("search should report visited nodes")
	}

	wantMatches(t, search(t, doc, "cta", Options{}),
		"ctaB1", "ctaB2", "ctaA1", "ctaA2", "ctaC1", "ctaC2")
	wantNoMatch(t, search(t, doc, "zzz", Options{}))
	wantNoMatch(t, search(t, doc, "", Options{}))
	wantNoMatch(t, search(t, doc, "   ", Options{}))
}

func TestSearchTypeGates(t *testing.T) {
	doc := engineFixture(t)

	tests := []struct {
		raw  string
		want []string
	}{
		{"@", []string{"hero", "deck", "cardB", "cardA", "cardC"}},
		{"=", []string{"title", "ctaB1", "ctaB2", "ctaA1", "ctaA2", "ctaC1", "ctaC2"}},
		{"&", []string{"cover"}},
		{"%", []string{"divider"}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			wantMatches(t, search(t, doc, tt.raw, Options{}), tt.want...)
		})
	}

	wantNoMatch(t, search(t, doc, "!", Options{}))
	wantNoMatch(t, search(t, doc, "?", Options{}))
}

func TestSearchPaths(t *testing.T) {
	doc := engineFixture(t)

	res := search(t, doc, "title", Options{})
	wantMatches(t, res, "title")
	if got, want := res.Matches[0].Path, "#Home/=Title"; got != want {
		t.Errorf("path = %q, want %q", got, want)
	}

	res = search(t, doc, "@Card/CTA One", Options{})
	wantMatches(t, res, "ctaB1", "ctaA1", "ctaC1")
	for _, m := range res.Matches {
		if want := "#Home/@Card/=CTA One"; m.Path != want {
			t.Errorf("path = %q, want %q", m.Path, want)
		}
	}

	res = search(t, doc, "&", Options{})
	wantMatches(t, res, "cover")
	if got, want := res.Matches[0].Path, "#Home/&Cover"; got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestPageDirective(t *testing.T) {
	doc := engineFixture(t)

	res := search(t, doc, "#Archive", Options{})
	if res.Status != StatusPageOnly {
		t.Fatalf("status = %v, want page-only", res.Status)
	}
	if res.Page == nil || res.Page.Name != "Archive" {
		t.Fatalf("page = %v, want Archive", res.Page)
	}

	res = search(t, doc, "#archive/cover", Options{})
	wantMatches(t, res, "old")
	if got, want := res.Matches[0].Path, "#Archive/&Old Cover"; got != want {
		t.Errorf("path = %q, want %q", got, want)
	}

	wantNoMatch(t, search(t, doc, "#Nope", Options{}))
	wantNoMatch(t, search(t, doc, "#Nope/title", Options{}))

	// The directive wins over the invocation's page.
	wantMatches(t, search(t, doc, "#Home/=Title", Options{Page: doc.Pages[1]}), "title")

	// Without a directive the invocation's page scopes the search.
	wantMatches(t, search(t, doc, "cover", Options{}), "cover")
	wantMatches(t, search(t, doc, "cover", Options{Page: doc.Pages[1]}), "old")
}

func TestDirectness(t *testing.T) {
	doc := directnessFixture(t)
	card := scenetest.MustNode(t, doc, "card")

	wantMatches(t, search(t, doc, "@Card/CTA", Options{}), "direct", "deep")
	wantMatches(t, search(t, doc, "@Card//CTA", Options{}), "direct")

	sel := Options{Selection: []*scene.Node{card}}
	// Plain search widens to the enclosing container.
	wantMatches(t, search(t, doc, "CTA", sel), "direct", "deep", "out")
	// A rooted search stays inside the selection.
	wantMatches(t, search(t, doc, "/CTA", sel), "direct", "deep")
	wantMatches(t, search(t, doc, "//CTA", sel), "direct")
}

func TestScopeSelfMatch(t *testing.T) {
	doc := directnessFixture(t)
	card := scenetest.MustNode(t, doc, "card")
	sel := Options{Selection: []*scene.Node{card}}

	// The selected node itself satisfies the segment.
	wantMatches(t, search(t, doc, "card", sel), "card")
	// Rooted searches never match the scope node.
	wantNoMatch(t, search(t, doc, "/card", sel))

	// A chained segment may match its scope too.
	res := search(t, doc, "@Card/@Card", Options{})
	wantMatches(t, res, "card")
	if got, want := res.Matches[0].Path, "#P/@Card"; got != want {
		t.Errorf("self-match path = %q, want %q", got, want)
	}
}

func TestTrailingWildcard(t *testing.T) {
	doc := directnessFixture(t)

	// Contents only: the scope itself is not listed.
	wantMatches(t, search(t, doc, "@Card/", Options{}), "direct", "wrap", "deep")
	wantMatches(t, search(t, doc, "@Card//", Options{}), "direct", "wrap")
	wantMatches(t, search(t, doc, "/", Options{}), "card", "direct", "wrap", "deep", "out")
}

func TestExactNameMatch(t *testing.T) {
	doc := scenetest.Doc(t, scenetest.N{Name: "P", Kids: []scenetest.N{
		{ID: "exact", Name: "Icon", Type: "TEXT"},
		{ID: "large", Name: "Icon Large", Type: "TEXT"},
		{ID: "lower", Name: "icon", Type: "TEXT"},
	}})

	wantMatches(t, search(t, doc, "=Icon", Options{}), "exact", "large", "lower")
	wantMatches(t, search(t, doc, `="Icon"`, Options{}), "exact")
}

func TestQuoteKeepsSegmentWhole(t *testing.T) {
	doc := scenetest.Doc(t, scenetest.N{Name: "P", Kids: []scenetest.N{
		{ID: "menu", Name: "Menu Item / Default =Icon", Type: "INSTANCE", Kids: []scenetest.N{
			{ID: "micon", Name: "Icon", Type: "TEXT"},
		}},
	}})

	// Quoted: one segment, three name tokens, matches the instance.
	wantMatches(t, search(t, doc, `!Menu "Item /" =Icon`, Options{}), "menu")
	// Unquoted: the slash splits, so the text gate applies to a second
	// segment and matches the nested icon instead.
	wantMatches(t, search(t, doc, `!Menu Item / =Icon`, Options{}), "micon")
}

func TestSearchListsMatchesInDocumentOrder(t *testing.T) {
	doc := engineFixture(t)

	// The deck's cards read A, B visually but sit B, A in the tree.
	// A plain listing follows the tree; only index and first-match
	// resolution consult reading order.
	wantMatches(t, search(t, doc, "@Card", Options{}), "cardB", "cardA", "cardC")
	wantMatches(t, search(t, doc, "@Card --1", Options{}), "cardA")
}

func TestGlobalIndex(t *testing.T) {
	doc := engineFixture(t)

	// Visual order, not document order: cardA is leftmost in the top
	// row even though cardB comes first in the tree.
	wantMatches(t, search(t, doc, "Card --1", Options{}), "cardA")
	wantMatches(t, search(t, doc, "Card --2", Options{}), "cardB")
	wantMatches(t, search(t, doc, "Card --0", Options{}), "cardC")
	wantNoMatch(t, search(t, doc, "Card --9", Options{}))
}

func TestGlobalIndexOverlapTie(t *testing.T) {
	doc := scenetest.Doc(t, scenetest.N{Name: "P", Kids: []scenetest.N{
		{ID: "back", Name: "Pin", X: 50, Y: 50, W: 100, H: 24},
		{ID: "front", Name: "Pin", X: 50, Y: 50, W: 100, H: 24},
	}})

	wantMatches(t, search(t, doc, "Pin --1", Options{}), "front")
	wantMatches(t, search(t, doc, "Pin --0", Options{}), "back")
}

func TestPerScopeIndex(t *testing.T) {
	doc := engineFixture(t)

	// One pick per card, ranked in each card's own visual order; the
	// result keeps scope iteration order.
	wantMatches(t, search(t, doc, "@Card/CTA --fe", Options{}), "ctaB2", "ctaA1", "ctaC1")
	wantMatches(t, search(t, doc, "@Card/CTA --2e", Options{}), "ctaB1", "ctaA2", "ctaC2")

	// The global form collapses everything to a single pick.
	wantMatches(t, search(t, doc, "@Card/CTA --2", Options{}), "ctaB2")
}

func TestInlineIndexScopesChain(t *testing.T) {
	doc := engineFixture(t)

	// The pick happens mid-query: later segments nest under that one
	// card.
	wantMatches(t, search(t, doc, "@Card --2/CTA", Options{}), "ctaB1", "ctaB2")
	wantMatches(t, search(t, doc, "@Card --1e/CTA", Options{}), "ctaA1", "ctaA2")
}

func TestFirstMatch(t *testing.T) {
	doc := engineFixture(t)

	wantMatches(t, search(t, doc, "CTA --f", Options{}), "ctaB1")
	// Stop-at-first wins over index modifiers.
	wantMatches(t, search(t, doc, "CTA --f --2", Options{}), "ctaB1")

	full := search(t, doc, "CTA", Options{})
	first := search(t, doc, "CTA --f", Options{})
	if first.Visited >= full.Visited {
		t.Errorf("first-match visited %d nodes, full search %d; expected an early stop",
			first.Visited, full.Visited)
	}
}

func TestVisibility(t *testing.T) {
	doc := engineFixture(t)

	wantNoMatch(t, search(t, doc, "badge", Options{}))
	wantMatches(t, search(t, doc, "badge --h", Options{}), "badge")
	wantMatches(t, search(t, doc, "badge --a", Options{}), "badge")
	// Hidden-only rejects visible nodes.
	wantNoMatch(t, search(t, doc, "title --h", Options{}))
}

func TestVisibilityThroughHiddenBranch(t *testing.T) {
	doc := scenetest.Doc(t, scenetest.N{Name: "P", Kids: []scenetest.N{
		{ID: "modal", Name: "Modal", Hidden: true, Kids: []scenetest.N{
			{ID: "mb", Name: "Badge", Type: "TEXT", Hidden: true},
			{ID: "mv", Name: "Badge", Type: "TEXT"},
		}},
		{ID: "vb", Name: "Badge", Type: "TEXT"},
	}})

	// Default search never enters the hidden branch.
	wantMatches(t, search(t, doc, "Badge", Options{}), "vb")
	wantNoMatch(t, search(t, doc, "@Modal/Badge", Options{}))

	// Hidden-only applies to the node's own flag at the final segment;
	// intermediate segments pass through hidden containers.
	wantMatches(t, search(t, doc, "Badge --h", Options{}), "mb")
	wantMatches(t, search(t, doc, "@Modal/Badge --h", Options{}), "mb")

	wantMatches(t, search(t, doc, "Badge --a", Options{}), "mb", "mv", "vb")
}

func TestSelectionWidensToContainer(t *testing.T) {
	doc := engineFixture(t)
	cardA := scenetest.MustNode(t, doc, "cardA")

	res := search(t, doc, "CTA One", Options{Selection: []*scene.Node{cardA}})
	wantMatches(t, res, "ctaA1", "ctaB1", "ctaC1")
	if got, want := res.Matches[0].Path, "@Card/=CTA One"; got != want {
		t.Errorf("selection-scoped path = %q, want %q", got, want)
	}
	if got, want := res.Matches[1].Path, "@Deck/=CTA One"; got != want {
		t.Errorf("container-scoped path = %q, want %q", got, want)
	}
}

func TestSearchErrors(t *testing.T) {
	res := New().Search(context.Background(), nil, "title", Options{})
	if res.Status != StatusError || res.Err == nil {
		t.Fatalf("nil document: status = %v, err = %v", res.Status, res.Err)
	}
}

func TestSearchCancellation(t *testing.T) {
	doc := engineFixture(t)
	eng := New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := eng.Search(ctx, doc, "title", Options{})
	if res.Status != StatusCancelled {
		t.Fatalf("status = %v, want cancelled", res.Status)
	}

	// The cancelled run must not have poisoned any cache.
	wantMatches(t, eng.Search(context.Background(), doc, "title", Options{}), "title")
}

func TestSearchCancellationMidTraversal(t *testing.T) {
	kids := make([]scenetest.N, 400)
	for i := range kids {
		kids[i] = scenetest.N{
			Name: fmt.Sprintf("Node %d", i),
			Type: "TEXT",
			X:    float64(i%20) * 40,
			Y:    float64(i/20) * 40,
			W:    32, H: 24,
		}
	}
	doc := scenetest.Doc(t, scenetest.N{Name: "Big", Kids: kids})

	eng := New()
	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	res := eng.Search(ctx, doc, "node --a", Options{Progress: func(int) {
		calls++
		cancel()
	}})
	if res.Status != StatusCancelled {
		t.Fatalf("status = %v, want cancelled", res.Status)
	}
	if calls == 0 {
		t.Error("progress callback never fired")
	}
	if res.Visited == 0 || res.Visited >= 400 {
		t.Errorf("visited = %d, want a partial traversal", res.Visited)
	}

	// A fresh context completes and sees every node: the aborted sweep
	// was not cached.
	res = eng.Search(context.Background(), doc, "node --a", Options{})
	if res.Status != StatusMatched || len(res.Matches) != 400 {
		t.Fatalf("rerun found %d matches (status %v), want 400", len(res.Matches), res.Status)
	}
}

func TestSearchIdempotent(t *testing.T) {
	doc := engineFixture(t)
	eng := New()

	first := eng.Search(context.Background(), doc, "@Card/CTA --2e", Options{})
	second := eng.Search(context.Background(), doc, "@Card/CTA --2e", Options{})
	fresh := New().Search(context.Background(), doc, "@Card/CTA --2e", Options{})

	for _, res := range []*Result{second, fresh} {
		wantMatches(t, res, matchIDs(first)...)
		for i := range res.Matches {
			if res.Matches[i].Path != first.Matches[i].Path {
				t.Errorf("path %q diverged from %q", res.Matches[i].Path, first.Matches[i].Path)
			}
		}
	}

	// The repeat on the same engine was served from cache.
	if first.Visited == 0 || second.Visited != 0 {
		t.Errorf("visited first=%d second=%d, want cached repeat", first.Visited, second.Visited)
	}
}
