package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gabrielrenderos/figq/internal/query"
	"github.com/gabrielrenderos/figq/internal/ui"
)

var explainCmd = &cobra.Command{
	Use:   "explain <query>",
	Short: "Show how a query parses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runExplain(args[0])
	},
}

type explainTermView struct {
	Text   string `json:"text"`
	Quoted bool   `json:"quoted"`
}

type explainPickView struct {
	Rank     int    `json:"rank"`
	PerScope bool   `json:"perScope"`
	Meaning  string `json:"meaning"`
}

type explainSegmentView struct {
	Symbol     string            `json:"symbol,omitempty"`
	Gate       string            `json:"gate"`
	NameQuery  string            `json:"nameQuery,omitempty"`
	Terms      []explainTermView `json:"terms,omitempty"`
	ExactName  bool              `json:"exactName,omitempty"`
	Directness string            `json:"directness"`
	Pick       *explainPickView  `json:"pick,omitempty"`
}

type explainView struct {
	Query       string               `json:"query"`
	Empty       bool                 `json:"empty"`
	Page        string               `json:"page,omitempty"`
	ChildRooted bool                 `json:"childRooted,omitempty"`
	Segments    []explainSegmentView `json:"segments"`
	First       bool                 `json:"first,omitempty"`
	FirstEach   bool                 `json:"firstEach,omitempty"`
	HiddenOnly  bool                 `json:"hiddenOnly,omitempty"`
	AllVis      bool                 `json:"allVisibility,omitempty"`
	Pick        *explainPickView     `json:"pick,omitempty"`
}

// runExplain prints a query's parse without touching any scene. A
// degenerate query is described, not rejected.
func runExplain(raw string) error {
	plan := query.Parse(raw)
	view := buildExplainView(plan)

	if isJSONOutput() {
		outputSuccess(view, nil)
		return nil
	}

	fmt.Println(ui.Header("Query ") + ui.NodePath(raw))
	fmt.Println()

	if view.Empty {
		explainDegeneracy(plan)
		return nil
	}

	if plan.Page != "" {
		fmt.Printf("Page directive: switch to page matching %q before searching\n", plan.Page)
	}
	if plan.ChildRooted {
		fmt.Println("Anchor: child-rooted; matching starts strictly below the scope nodes")
	}

	for i := range plan.Segments {
		seg := &plan.Segments[i]
		fmt.Printf("%d. %s\n", i+1, describeSegmentHead(seg))
		for _, line := range describeSegmentDetails(seg) {
			fmt.Println("   " + line)
		}
	}

	mods := describeGlobalModifiers(plan)
	if len(mods) > 0 {
		fmt.Println()
		fmt.Println("Modifiers:")
		for _, m := range mods {
			fmt.Println("  " + m)
		}
	}

	fmt.Println()
	fmt.Println(ui.Hint("Matches list in layer order. Index picks count in reading order: top to bottom, left to right, then frontmost first."))
	return nil
}

// explainDegeneracy says why an empty plan matched nothing rather than
// erroring out.
func explainDegeneracy(plan *query.Plan) {
	switch {
	case strings.TrimSpace(plan.Raw) == "":
		fmt.Println("Nothing to match: the query is empty.")
	case plan.First || plan.FirstEach || plan.HiddenOnly || plan.AllVis || plan.Pick != nil:
		fmt.Println("Nothing to match: only modifiers were given, no name or type segment.")
		for _, m := range describeGlobalModifiers(plan) {
			fmt.Println("  " + m)
		}
	default:
		fmt.Println("Nothing to match: no segment survived parsing.")
	}
	fmt.Println(ui.Hint("A search with this query reports no matches."))
}

func describeSegmentHead(seg *query.Segment) string {
	gate := "any layer"
	if seg.Symbol != query.SymbolAny {
		gate = seg.Symbol.Describe() + " (" + seg.Symbol.String() + ")"
	}

	var name string
	terms, exact := query.DescribeName(seg.NameQuery)
	switch {
	case len(terms) == 0:
		name = "any name (wildcard)"
	case exact:
		name = fmt.Sprintf("name exactly %q", terms[0].Text)
	default:
		name = fmt.Sprintf("name containing %s", describeTerms(terms))
	}

	rel := "anywhere under its scope"
	if seg.Directness == query.ChildOnly {
		rel = "as a direct child of its scope"
	}
	return fmt.Sprintf("%s, %s, %s", gate, name, rel)
}

func describeSegmentDetails(seg *query.Segment) []string {
	if seg.Pick == nil {
		return nil
	}
	return []string{"pick: " + describePick(seg.Pick, true)}
}

func describeTerms(terms []query.NameTerm) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		if t.Quoted {
			parts[i] = fmt.Sprintf("%q (verbatim)", t.Text)
		} else {
			parts[i] = fmt.Sprintf("%q", t.Text)
		}
	}
	return strings.Join(parts, " and ")
}

func describeGlobalModifiers(plan *query.Plan) []string {
	var mods []string
	if plan.First {
		mods = append(mods, "--f: stop at the first match overall")
	}
	if plan.FirstEach {
		mods = append(mods, "--fe: keep the first match inside each scope")
	}
	if plan.HiddenOnly {
		mods = append(mods, "--h: match hidden layers only")
	}
	if plan.AllVis {
		mods = append(mods, "--a: match regardless of visibility")
	}
	if plan.Pick != nil {
		mods = append(mods, "pick: "+describePick(plan.Pick, false))
	}
	return mods
}

// describePick words an index pick; inline picks always rank within
// their own segment's scopes.
func describePick(p *query.IndexPick, inline bool) string {
	rank := "the last match"
	if p.Rank > 0 {
		rank = fmt.Sprintf("the %s match", ordinal(p.Rank))
	}
	if inline || p.PerScope {
		return rank + " within each scope, in visual order"
	}
	return rank + " across all scopes, in visual order"
}

func ordinal(n int) string {
	switch n % 100 {
	case 11, 12, 13:
		return fmt.Sprintf("%dth", n)
	}
	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst", n)
	case 2:
		return fmt.Sprintf("%dnd", n)
	case 3:
		return fmt.Sprintf("%drd", n)
	default:
		return fmt.Sprintf("%dth", n)
	}
}

func buildExplainView(plan *query.Plan) explainView {
	view := explainView{
		Query:       plan.Raw,
		Empty:       plan.Empty(),
		Page:        plan.Page,
		ChildRooted: plan.ChildRooted,
		Segments:    []explainSegmentView{},
		First:       plan.First,
		FirstEach:   plan.FirstEach,
		HiddenOnly:  plan.HiddenOnly,
		AllVis:      plan.AllVis,
	}
	if plan.Pick != nil {
		view.Pick = &explainPickView{
			Rank:     plan.Pick.Rank,
			PerScope: plan.Pick.PerScope,
			Meaning:  describePick(plan.Pick, false),
		}
	}
	for i := range plan.Segments {
		seg := &plan.Segments[i]
		terms, exact := query.DescribeName(seg.NameQuery)
		sv := explainSegmentView{
			Gate:       seg.Symbol.Describe(),
			NameQuery:  seg.NameQuery,
			ExactName:  exact,
			Directness: seg.Directness.String(),
		}
		if seg.Symbol != query.SymbolAny {
			sv.Symbol = seg.Symbol.String()
		}
		for _, t := range terms {
			sv.Terms = append(sv.Terms, explainTermView{Text: t.Text, Quoted: t.Quoted})
		}
		if seg.Pick != nil {
			sv.Pick = &explainPickView{
				Rank:     seg.Pick.Rank,
				PerScope: true,
				Meaning:  describePick(seg.Pick, true),
			}
		}
		view.Segments = append(view.Segments, sv)
	}
	return view
}

func init() {
	rootCmd.AddCommand(explainCmd)
}
