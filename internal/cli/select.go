package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/gabrielrenderos/figq/internal/config"
	"github.com/gabrielrenderos/figq/internal/query"
	"github.com/gabrielrenderos/figq/internal/scene"
	"github.com/gabrielrenderos/figq/internal/ui"
)

var (
	selectClear bool
	selectShow  bool
)

var selectCmd = &cobra.Command{
	Use:   "select [query]",
	Short: "Store query matches as the active selection",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if selectClear && selectShow {
			return handleErrorMsg(ErrInvalidInput, "--clear and --show are exclusive", "")
		}
		if selectClear {
			if len(args) > 0 {
				return handleErrorMsg(ErrInvalidInput, "--clear takes no query", "")
			}
			return runSelectClear()
		}
		if selectShow {
			if len(args) > 0 {
				return handleErrorMsg(ErrInvalidInput, "--show takes no query", "")
			}
			return runSelectShow()
		}
		if len(args) == 0 {
			return handleErrorMsg(ErrMissingArgument,
				"give a query to select, or use --show / --clear", "")
		}
		return runSelect(args[0])
	},
}

// runSelect evaluates a query and stores the matched node IDs as the
// selection. An existing stored selection still scopes the search, so
// repeated selects narrow.
func runSelect(raw string) error {
	if query.Parse(raw).Empty() {
		return handleErrorMsg(ErrQueryEmpty, "query has nothing to match", "")
	}

	doc, err := requireScene()
	if doc == nil {
		return err
	}
	warnings := rememberActiveScene(resolvedScenePath)

	page, pageWarnings, err := startPageFor(doc, resolvedScenePath, "")
	if page == nil {
		return err
	}
	warnings = append(warnings, pageWarnings...)

	selection, selWarnings, err := resolveSelectionNodes(doc, resolvedScenePath, "", false)
	if err != nil || errorEmitted {
		return err
	}
	warnings = append(warnings, selWarnings...)

	timeout, err := searchTimeout("")
	if err != nil {
		return handleErrorMsg(ErrConfigInvalid, err.Error(), "")
	}
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	spin := startSpinner("Selecting")
	res := searchEngine.Search(ctx, doc, raw, query.Options{Selection: selection, Page: page})
	if spin != nil {
		spin.Stop()
	}

	switch res.Status {
	case query.StatusError:
		return handleError(ErrInternal, res.Err, "")
	case query.StatusCancelled:
		return handleErrorMsg(ErrSearchCancelled,
			fmt.Sprintf("selection search cancelled after %s", res.Elapsed.Round(time.Millisecond)),
			"Narrow the query with a type symbol or a page directive")
	}

	if res.Page != nil {
		warnings = append(warnings, switchCurrentPage(res.Page)...)
	}

	if len(res.Matches) == 0 {
		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"query":     raw,
				"scene":     absScenePath(resolvedScenePath),
				"selection": getState().Selection,
				"changed":   false,
			}, warnings, &Meta{Count: 0, QueryTimeMs: res.Elapsed.Milliseconds()})
			return nil
		}
		printWarnings(warnings)
		fmt.Println(ui.Warningf("No matches for %s; selection unchanged", ui.NodePath(raw)))
		return nil
	}

	ids := make([]string, len(res.Matches))
	for i, m := range res.Matches {
		ids[i] = m.Node.ID
	}
	st := getState()
	st.Selection = ids
	if err := saveSelection(); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}

	if isJSONOutput() {
		outputSuccessWithWarnings(map[string]interface{}{
			"query":     raw,
			"scene":     absScenePath(resolvedScenePath),
			"selection": ids,
			"changed":   true,
		}, warnings, &Meta{Count: len(ids), QueryTimeMs: res.Elapsed.Milliseconds()})
		return nil
	}

	printWarnings(warnings)
	fmt.Println(ui.Successf("Selected %d %s", len(ids), pluralize(len(ids), "layer", "layers")))
	printSelectionTable(res.Matches)
	if !quiet {
		fmt.Println(ui.Hint("Searches now run inside this selection; 'figq select --clear' widens back out."))
	}
	return nil
}

// runSelectClear drops the stored selection.
func runSelectClear() error {
	st := getState()
	n := len(st.Selection)
	st.Selection = nil
	if err := saveSelection(); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"cleared": n}, nil)
		return nil
	}
	if n == 0 {
		fmt.Println(ui.Infof("No stored selection to clear"))
		return nil
	}
	fmt.Println(ui.Successf("Cleared %d selected %s", n, pluralize(n, "layer", "layers")))
	return nil
}

// runSelectShow prints the stored selection. It resolves paths against
// the scene when one loads cleanly and falls back to bare IDs when it
// does not; show never errors over an unopenable scene.
func runSelectShow() error {
	st := getState()
	if len(st.Selection) == 0 {
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"selection": []string{}}, &Meta{Count: 0})
			return nil
		}
		fmt.Println(ui.Infof("No stored selection"))
		fmt.Println(ui.Hint("Store one with 'figq select <query>' or 'figq last --select <numbers>'."))
		return nil
	}

	var doc *scene.Document
	if st.ActiveScene != "" && sceneMatchesState(resolvedScenePath) {
		if d, err := scene.LoadFile(resolvedScenePath); err == nil {
			doc = d
		}
	}

	type selectedView struct {
		ID   string `json:"id"`
		Name string `json:"name,omitempty"`
		Kind string `json:"kind,omitempty"`
		Path string `json:"path,omitempty"`
	}
	views := make([]selectedView, 0, len(st.Selection))
	for _, id := range st.Selection {
		v := selectedView{ID: id}
		if doc != nil {
			if node, ok := doc.ByID(id); ok {
				v.Name = node.Name
				v.Kind = node.Kind.String()
				v.Path = node.DisplayPath()
			}
		}
		views = append(views, v)
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"scene":     st.ActiveScene,
			"selection": views,
		}, &Meta{Count: len(views)})
		return nil
	}

	fmt.Println(ui.Header(fmt.Sprintf("Selection %s", ui.Count(len(views), "layer", "layers"))))
	if st.ActiveScene != "" {
		fmt.Println(ui.Hint("Scene: " + st.ActiveScene))
	}
	fmt.Println()
	for i, v := range views {
		label := v.Path
		if label == "" {
			label = "(not in loaded scene)"
		}
		fmt.Printf("%s %s %s\n", ui.FormatRowNum(i+1, len(views)), ui.NodePath(label), ui.NodeID(v.ID))
	}
	return nil
}

// saveSelection persists state after a selection mutation. Unlike the
// warning-grade saves around searches, losing a select is the whole
// command failing.
func saveSelection() error {
	return config.SaveState(getStatePath(), getState())
}

// printSelectionTable renders selected nodes in the search table shape.
func printSelectionTable(matches []query.Match) {
	table := ui.NewResultsTable(ui.NewDisplayContext(), ui.SearchLayout)
	pathWidth := table.ContentWidth("path")
	for i, m := range matches {
		table.AddRow(ui.ResultRow{
			Num: i + 1,
			Cells: []string{
				ui.FormatRowNum(i+1, len(matches)),
				ui.TruncatePath(m.Path, pathWidth),
				m.Node.ID,
				m.Node.Kind.String(),
			},
		})
	}
	fmt.Println(table.Render())
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}

func init() {
	selectCmd.Flags().BoolVar(&selectClear, "clear", false, "Clear the stored selection")
	selectCmd.Flags().BoolVar(&selectShow, "show", false, "Show the stored selection")

	rootCmd.AddCommand(selectCmd)
}
