package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gabrielrenderos/figq/internal/lastsearch"
	"github.com/gabrielrenderos/figq/internal/scene"
	"github.com/gabrielrenderos/figq/internal/ui"
)

var lastSelect bool

var lastCmd = &cobra.Command{
	Use:   "last [numbers...]",
	Short: "Show or pick results from the last search",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLast(args)
	},
}

func runLast(args []string) error {
	ls, err := lastsearch.Read(filepath.Dir(getStatePath()))
	if err != nil {
		if errors.Is(err, lastsearch.ErrNoLastSearch) {
			return handleErrorMsg(ErrNoLastSearch,
				"no search has been recorded yet",
				"Run 'figq search <query>' first")
		}
		return handleError(ErrStateInvalid, err, "")
	}

	if len(args) == 0 && !lastSelect {
		return showLastSearch(ls)
	}

	nums, err := lastsearch.ParseNumberArgs(args)
	if err != nil {
		if lastSelect && len(args) == 0 {
			return handleErrorMsg(ErrMissingArgument,
				"--select needs result numbers (e.g. 1,3-5)", "")
		}
		return handleErrorMsg(ErrInvalidInput, err.Error(),
			"Numbers look like 1, 1,3,5 or 2-4")
	}
	entries, err := ls.GetByNumbers(nums)
	if err != nil {
		return handleErrorMsg(ErrInvalidInput, err.Error(),
			fmt.Sprintf("The last search has %d %s", len(ls.Results), pluralize(len(ls.Results), "result", "results")))
	}

	if lastSelect {
		return selectLastEntries(ls, entries)
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"query":   ls.Query,
			"scene":   ls.Scene,
			"entries": entries,
		}, &Meta{Count: len(entries)})
		return nil
	}
	for _, e := range entries {
		fmt.Println(e.ID)
	}
	return nil
}

// showLastSearch redisplays the stored search in the search layout.
func showLastSearch(ls *lastsearch.LastSearch) error {
	if isJSONOutput() {
		outputSuccess(ls, &Meta{Count: len(ls.Results)})
		return nil
	}

	fmt.Println(ui.Header("Last search ") + ui.NodePath(ls.Query))
	fmt.Println(ui.Hint(fmt.Sprintf("%s, %s", ls.Scene, formatTimeAgo(ls.Timestamp))))
	if ls.Page != "" {
		fmt.Println(ui.Hint("Page: " + ls.Page))
	}
	if ls.Status != "" && ls.Status != "matched" {
		fmt.Println(ui.Hint("Outcome: " + ls.Status))
	}
	fmt.Println()

	if len(ls.Results) == 0 {
		fmt.Println(ui.Infof("No results were recorded"))
		return nil
	}

	table := ui.NewResultsTable(ui.NewDisplayContext(), ui.SearchLayout)
	pathWidth := table.ContentWidth("path")
	for _, e := range ls.Results {
		table.AddRow(ui.ResultRow{
			Num: e.Num,
			Cells: []string{
				ui.FormatRowNum(e.Num, len(ls.Results)),
				ui.TruncatePath(e.Path, pathWidth),
				e.ID,
				scene.KindForType(e.Type).String(),
			},
		})
	}
	fmt.Println(table.Render())
	fmt.Printf("\n%s\n", ui.Hint(fmt.Sprintf("%s %s", ui.Count(len(ls.Results), "result", "results"), "from the last search")))
	return nil
}

// selectLastEntries stores picked results as the selection, re-pointing
// the state at the searched scene when it drifted.
func selectLastEntries(ls *lastsearch.LastSearch, entries []lastsearch.ResultEntry) error {
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}

	st := getState()
	if st.ActiveScene != ls.Scene {
		st.ActiveScene = ls.Scene
		st.CurrentPage = ls.Page
	}
	st.Selection = ids
	if err := saveSelection(); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"scene":     ls.Scene,
			"selection": ids,
		}, &Meta{Count: len(ids)})
		return nil
	}
	fmt.Println(ui.Successf("Selected %d %s from the last search", len(ids), pluralize(len(ids), "result", "results")))
	return nil
}

func init() {
	lastCmd.Flags().BoolVar(&lastSelect, "select", false, "Store the picked results as the selection")

	rootCmd.AddCommand(lastCmd)
}
