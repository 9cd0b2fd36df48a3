package query

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Plan
	}{
		{
			name: "bare name",
			raw:  "Button",
			want: Plan{Segments: []Segment{{NameQuery: "Button"}}},
		},
		{
			name: "type gate stripped",
			raw:  "@Nav Bar",
			want: Plan{Segments: []Segment{{Symbol: SymbolFrame, NameQuery: "Nav Bar"}}},
		},
		{
			name: "gate with no name",
			raw:  "=",
			want: Plan{Segments: []Segment{{Symbol: SymbolText}}},
		},
		{
			name: "chained segments",
			raw:  "@Card/=Title",
			want: Plan{Segments: []Segment{
				{Symbol: SymbolFrame, NameQuery: "Card"},
				{Symbol: SymbolText, NameQuery: "Title"},
			}},
		},
		{
			name: "double slash marks next segment direct",
			raw:  "@Card//CTA",
			want: Plan{Segments: []Segment{
				{Symbol: SymbolFrame, NameQuery: "Card"},
				{NameQuery: "CTA", Directness: ChildOnly},
			}},
		},
		{
			name: "leading slash anchors to scope",
			raw:  "/Button",
			want: Plan{ChildRooted: true, Segments: []Segment{{NameQuery: "Button"}}},
		},
		{
			name: "leading double slash is direct and does not propagate",
			raw:  "//Nav/Item",
			want: Plan{ChildRooted: true, Segments: []Segment{
				{NameQuery: "Nav", Directness: ChildOnly},
				{NameQuery: "Item"},
			}},
		},
		{
			name: "bare slash lists all descendants",
			raw:  "/",
			want: Plan{ChildRooted: true, Segments: []Segment{{}}},
		},
		{
			name: "trailing slash appends wildcard",
			raw:  "@Card/",
			want: Plan{Segments: []Segment{
				{Symbol: SymbolFrame, NameQuery: "Card"},
				{},
			}},
		},
		{
			name: "trailing double slash appends direct wildcard",
			raw:  "@Card//",
			want: Plan{Segments: []Segment{
				{Symbol: SymbolFrame, NameQuery: "Card"},
				{Directness: ChildOnly},
			}},
		},
		{
			name: "page directive",
			raw:  "#Home/@Hero",
			want: Plan{Page: "Home", Segments: []Segment{{Symbol: SymbolFrame, NameQuery: "Hero"}}},
		},
		{
			name: "page directive alone",
			raw:  "#Home",
			want: Plan{Page: "Home"},
		},
		{
			name: "page gate stays a gate after leading slash",
			raw:  "/#Home",
			want: Plan{ChildRooted: true, Segments: []Segment{{Symbol: SymbolPage, NameQuery: "Home"}}},
		},
		{
			name: "first match flag",
			raw:  "Button --f",
			want: Plan{First: true, Segments: []Segment{{NameQuery: "Button"}}},
		},
		{
			name: "first each flag",
			raw:  "CTA --fe",
			want: Plan{FirstEach: true, Segments: []Segment{{NameQuery: "CTA"}}},
		},
		{
			name: "hidden flag",
			raw:  "Badge --h",
			want: Plan{HiddenOnly: true, Segments: []Segment{{NameQuery: "Badge"}}},
		},
		{
			name: "all flag",
			raw:  "Badge --a",
			want: Plan{AllVis: true, Segments: []Segment{{NameQuery: "Badge"}}},
		},
		{
			name: "global flag on intermediate segment",
			raw:  "@Card --f/CTA",
			want: Plan{First: true, Segments: []Segment{
				{Symbol: SymbolFrame, NameQuery: "Card"},
				{NameQuery: "CTA"},
			}},
		},
		{
			name: "trailing index",
			raw:  "Button --2",
			want: Plan{Pick: &IndexPick{Rank: 2}, Segments: []Segment{{NameQuery: "Button"}}},
		},
		{
			name: "trailing per-scope index",
			raw:  "CTA --2e",
			want: Plan{Pick: &IndexPick{Rank: 2, PerScope: true}, Segments: []Segment{{NameQuery: "CTA"}}},
		},
		{
			name: "index zero means last",
			raw:  "Button --0",
			want: Plan{Pick: &IndexPick{Rank: 0}, Segments: []Segment{{NameQuery: "Button"}}},
		},
		{
			name: "inline index binds to its segment",
			raw:  "@Card --2/CTA",
			want: Plan{Segments: []Segment{
				{Symbol: SymbolFrame, NameQuery: "Card", Pick: &IndexPick{Rank: 2}},
				{NameQuery: "CTA"},
			}},
		},
		{
			name: "inline per-scope index",
			raw:  "@Card --1e/CTA",
			want: Plan{Segments: []Segment{
				{Symbol: SymbolFrame, NameQuery: "Card", Pick: &IndexPick{Rank: 1, PerScope: true}},
				{NameQuery: "CTA"},
			}},
		},
		{
			name: "unrecognized token stays in the name",
			raw:  "Button --x9",
			want: Plan{Segments: []Segment{{NameQuery: "Button --x9"}}},
		},
		{
			name: "quoted flag is name text",
			raw:  `CTA "--f"`,
			want: Plan{Segments: []Segment{{NameQuery: `CTA "--f"`}}},
		},
		{
			name: "quoted slash does not split",
			raw:  `"A/B"`,
			want: Plan{Segments: []Segment{{NameQuery: `"A/B"`}}},
		},
		{
			name: "quoted slash keeps one segment",
			raw:  `!Menu "Item /" =Icon`,
			want: Plan{Segments: []Segment{
				{Symbol: SymbolInstance, NameQuery: `Menu "Item /" =Icon`},
			}},
		},
		{
			name: "unquoted slash splits the same text",
			raw:  `!Menu Item / =Icon`,
			want: Plan{Segments: []Segment{
				{Symbol: SymbolInstance, NameQuery: "Menu Item"},
				{Symbol: SymbolText, NameQuery: "Icon"},
			}},
		},
		{
			name: "blank interior part is dropped",
			raw:  "@Card/ /CTA",
			want: Plan{Segments: []Segment{
				{Symbol: SymbolFrame, NameQuery: "Card"},
				{NameQuery: "CTA"},
			}},
		},
		{
			name: "empty input",
			raw:  "",
			want: Plan{},
		},
		{
			name: "whitespace only",
			raw:  "   ",
			want: Plan{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want.Raw = tt.raw
			got := Parse(tt.raw)
			if !reflect.DeepEqual(*got, tt.want) {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.raw, *got, tt.want)
			}
		})
	}
}

func TestPlanEmpty(t *testing.T) {
	if !Parse("").Empty() {
		t.Error("empty input should parse to an empty plan")
	}
	if Parse("#Home").Empty() {
		t.Error("page directive alone is not an empty plan")
	}
	if Parse("/").Empty() {
		t.Error("bare slash carries an implicit wildcard segment")
	}
}
