//go:build integration

package cli_test

import (
	"testing"

	"github.com/gabrielrenderos/figq/internal/testutil"
)

// TestIntegration_SearchLifecycle runs a search, replays it through
// 'last', and stores picked results as the selection.
func TestIntegration_SearchLifecycle(t *testing.T) {
	s := testutil.NewTestScene(t).
		WithExport(testutil.DesignSystemScene()).
		Build()

	// Two cards on the Home page, left one first in visual order.
	result := s.RunCLI("search", "@Card")
	result.MustSucceed(t)
	result.AssertResultCount(t, "items", 2)
	items := result.DataList("items")
	first, _ := items[0].(map[string]interface{})
	if first["id"] != "10:3" {
		t.Errorf("expected left card 10:3 first, got %v\nRaw: %s", first["id"], result.RawJSON)
	}

	// The search is recorded for 'last'.
	result = s.RunCLI("last")
	result.MustSucceed(t)
	if got := result.DataString("query"); got != "@Card" {
		t.Errorf("last query = %q, want %q", got, "@Card")
	}
	result.AssertResultCount(t, "results", 2)

	// Picking by number prints just those entries.
	result = s.RunCLI("last", "2")
	result.MustSucceed(t)
	result.AssertResultCount(t, "entries", 1)

	// --select stores the picks as the selection.
	s.RunCLI("last", "--select", "1,2").MustSucceed(t)
	s.AssertSelection("10:3", "10:6")
}

// TestIntegration_SelectionScopedSearch stores a selection and verifies
// that later searches run inside it.
func TestIntegration_SelectionScopedSearch(t *testing.T) {
	s := testutil.NewTestScene(t).
		WithExport(testutil.DesignSystemScene()).
		Build()

	s.RunCLI("select", "@Card").MustSucceed(t)
	s.AssertSelection("10:3", "10:6")

	// A child-rooted query is anchored strictly below the selection,
	// so the header's Title (a sibling of the cards) is excluded.
	s.AssertSearchCount("/=Title", 2)

	// Without the anchor the nearest containers widen the scope and
	// the header Title comes back.
	s.AssertSearchCount("=Title", 3)

	// --no-selection searches the whole page regardless.
	result := s.RunCLI("search", "=Title", "--no-selection")
	result.MustSucceed(t)
	result.AssertResultCount(t, "items", 3)

	result = s.RunCLI("select", "--clear")
	result.MustSucceed(t)
	s.AssertSearchCount("=Title", 3)
}

// TestIntegration_IndexModifiers covers global and per-scope rank
// picks over the card grid.
func TestIntegration_IndexModifiers(t *testing.T) {
	s := testutil.NewTestScene(t).
		WithExport(testutil.DesignSystemScene()).
		Build()

	// Global pick: the second cover in reading order is the right card's.
	result := s.RunCLI("search", "&Cover --2")
	result.MustSucceed(t)
	result.AssertResultCount(t, "items", 1)
	items := result.DataList("items")
	pick, _ := items[0].(map[string]interface{})
	if pick["id"] != "10:7" {
		t.Errorf("&Cover --2 picked %v, want 10:7\nRaw: %s", pick["id"], result.RawJSON)
	}

	// First per scope: each card's topmost child is its cover.
	result = s.RunCLI("search", "@Card/ --fe")
	result.MustSucceed(t)
	result.AssertResultCount(t, "items", 2)
	for i, want := range []string{"10:4", "10:7"} {
		item, _ := result.DataList("items")[i].(map[string]interface{})
		if item["id"] != want {
			t.Errorf("--fe item %d = %v, want %s", i, item["id"], want)
		}
	}

	// Second per scope: the titles below the covers.
	result = s.RunCLI("search", "@Card/ --2e")
	result.MustSucceed(t)
	result.AssertResultCount(t, "items", 2)
	for i, want := range []string{"10:5", "10:8"} {
		item, _ := result.DataList("items")[i].(map[string]interface{})
		if item["id"] != want {
			t.Errorf("--2e item %d = %v, want %s", i, item["id"], want)
		}
	}

	// --f stops at the first match anywhere.
	result = s.RunCLI("search", "=Title --f")
	result.MustSucceed(t)
	result.AssertResultCount(t, "items", 1)
}

// TestIntegration_Visibility covers the hidden-only asymmetry through
// the Debug Panel branch.
func TestIntegration_Visibility(t *testing.T) {
	s := testutil.NewTestScene(t).
		WithExport(testutil.DesignSystemScene()).
		Build()

	// The log text lives inside a hidden frame: pruned by default,
	// reachable under --a, but not hidden itself so --h excludes it.
	s.AssertSearchCount("=Log", 0)
	s.AssertSearchCount("=Log --a", 1)
	s.AssertSearchCount("=Log --h", 0)
	s.AssertSearchCount("@Debug --h", 1)
}

// TestIntegration_PageDirective switches pages with a leading #Name
// segment and keeps the switch in state.
func TestIntegration_PageDirective(t *testing.T) {
	s := testutil.NewTestScene(t).
		WithExport(testutil.DesignSystemScene()).
		Build()

	result := s.RunCLI("search", "#Assets/!Button")
	result.MustSucceed(t)
	result.AssertResultCount(t, "items", 1)
	item, _ := result.DataList("items")[0].(map[string]interface{})
	if item["id"] != "20:5" {
		t.Errorf("instance pick = %v, want 20:5", item["id"])
	}
	s.AssertFileContains("state.toml", `current_page = "Assets"`)

	// Later searches start on the switched page.
	s.AssertSearchCount("?State", 2)

	// A quoted segment keeps its slash: exact full-name component match.
	result = s.RunCLI("search", `#Assets/"Icon / Search"`)
	result.MustSucceed(t)
	result.AssertResultCount(t, "items", 1)
	item, _ = result.DataList("items")[0].(map[string]interface{})
	if item["id"] != "20:4" {
		t.Errorf("quoted match = %v, want 20:4", item["id"])
	}

	// --page flag without a directive.
	result = s.RunCLI("search", "?", "--page", "assets")
	result.MustSucceed(t)
	result.AssertResultCount(t, "items", 4)
}

// TestIntegration_SavedQueries runs queries defined in figq.yaml.
func TestIntegration_SavedQueries(t *testing.T) {
	s := testutil.NewTestScene(t).
		WithExport(testutil.DesignSystemScene()).
		WithFigqYAML(`queries:
  covers:
    query: "&Cover"
    description: "Card cover images"
  states:
    query: "?State"
    page: Assets
`).
		Build()

	result := s.RunCLI("queries")
	result.MustSucceed(t)
	result.AssertResultCount(t, "queries", 2)

	result = s.RunCLI("search", "--saved", "covers")
	result.MustSucceed(t)
	result.AssertResultCount(t, "items", 2)

	// The saved query's page pin applies.
	result = s.RunCLI("search", "--saved", "states")
	result.MustSucceed(t)
	result.AssertResultCount(t, "items", 2)

	s.RunCLI("search", "--saved", "missing").MustFail(t, "QUERY_NOT_FOUND")
}

// TestIntegration_History records searches and clears them.
func TestIntegration_History(t *testing.T) {
	s := testutil.NewTestScene(t).
		WithExport(testutil.DesignSystemScene()).
		Build()

	s.RunCLI("search", "@Card").MustSucceed(t)
	s.RunCLI("search", "=Title").MustSucceed(t)
	s.RunCLI("search", "&Cover", "--no-history").MustSucceed(t)

	result := s.RunCLI("history")
	result.MustSucceed(t)
	result.AssertResultCount(t, "entries", 2)

	result = s.RunCLI("history", "--clear")
	result.MustSucceed(t)

	result = s.RunCLI("history")
	result.MustSucceed(t)
	result.AssertResultCount(t, "entries", 0)
}

// TestIntegration_PagesAndTree covers the read-only inspection commands.
func TestIntegration_PagesAndTree(t *testing.T) {
	s := testutil.NewTestScene(t).
		WithExport(testutil.DesignSystemScene()).
		Build()

	result := s.RunCLI("pages")
	result.MustSucceed(t)
	result.AssertResultCount(t, "pages", 2)

	result = s.RunCLI("tree", "10:3")
	result.MustSucceed(t)

	s.RunCLI("tree", "99:99").MustFail(t, "NODE_NOT_FOUND")

	result = s.RunCLI("explain", "@Card/=Title --2e")
	result.MustSucceed(t)
	if got := result.DataString("query"); got != "@Card/=Title --2e" {
		t.Errorf("explain query = %q", got)
	}
}

// TestIntegration_ErrorOutcomes checks the stable error codes scripts
// rely on.
func TestIntegration_ErrorOutcomes(t *testing.T) {
	s := testutil.NewTestScene(t).
		WithExport(testutil.DesignSystemScene()).
		Build()

	s.RunCLI("search", "   ").MustFail(t, "QUERY_EMPTY")
	s.RunCLI("search", "@Card", "--page", "nope").MustFail(t, "PAGE_NOT_FOUND")
	s.RunCLI("search", "@Card", "--select", "99:99").MustFail(t, "NODE_NOT_FOUND")

	s.RunCLI("search", "@Card").MustSucceed(t)
	s.RunCLI("last", "7").MustFail(t, "INVALID_INPUT")

	bare := testutil.NewTestScene(t).Build()
	bare.RunCLI("search", "@Card").MustFail(t, "SCENE_NOT_FOUND")

	broken := testutil.NewTestScene(t).
		WithExport(`{"name": "broken"`).
		Build()
	broken.RunCLI("search", "@Card").MustFail(t, "SCENE_INVALID")
}

// TestIntegration_NoMatchIsSuccess verifies that an empty result set is
// a zero-count success, not an error.
func TestIntegration_NoMatchIsSuccess(t *testing.T) {
	s := testutil.NewTestScene(t).
		WithExport(testutil.MinimalScene()).
		Build()

	result := s.RunCLI("search", "=Nonexistent")
	result.MustSucceed(t)
	result.AssertResultCount(t, "items", 0)
	if result.DataString("status") != "none" {
		t.Errorf("status = %q, want none", result.DataString("status"))
	}
	if result.ExitCode != 0 {
		t.Errorf("exit code = %d, want 0", result.ExitCode)
	}
}
