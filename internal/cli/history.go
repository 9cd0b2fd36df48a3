package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/gabrielrenderos/figq/internal/history"
	"github.com/gabrielrenderos/figq/internal/ui"
)

var (
	historyLimit int
	historyScene string
	historyClear bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent searches",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyClear {
			return runHistoryClear()
		}
		return runHistoryList()
	},
}

type historyEntryView struct {
	SearchedAt string `json:"searchedAt"`
	Scene      string `json:"scene"`
	Query      string `json:"query"`
	Status     string `json:"status"`
	Results    int    `json:"results"`
	DurationMS int64  `json:"durationMs"`
}

func openHistory() (*history.Store, []Warning, error) {
	store, rebuilt, err := history.OpenWithRebuild(filepath.Dir(getStatePath()))
	if err != nil {
		return nil, nil, handleError(ErrHistoryError, err, "")
	}
	var warnings []Warning
	if rebuilt {
		warnings = append(warnings, Warning{
			Code:    WarnHistoryRebuilt,
			Message: "history database was incompatible and has been rebuilt",
		})
	}
	return store, warnings, nil
}

func runHistoryList() error {
	store, warnings, err := openHistory()
	if store == nil {
		return err
	}
	defer store.Close()

	entries, err := store.Recent(historyLimit, historySceneFilter())
	if err != nil {
		return handleError(ErrHistoryError, err, "")
	}

	if isJSONOutput() {
		views := make([]historyEntryView, len(entries))
		for i, e := range entries {
			views[i] = historyEntryView{
				SearchedAt: e.SearchedAt.Format(time.RFC3339),
				Scene:      e.Scene,
				Query:      e.Query,
				Status:     e.Status,
				Results:    e.ResultCount,
				DurationMS: e.DurationMS,
			}
		}
		outputSuccessWithWarnings(map[string]interface{}{
			"entries": views,
		}, warnings, &Meta{Count: len(views)})
		return nil
	}

	printWarnings(warnings)
	if len(entries) == 0 {
		fmt.Println(ui.Infof("No search history"))
		if historyScene != "" {
			fmt.Println(ui.Hint("No searches recorded for scene " + historyScene))
		}
		return nil
	}

	fmt.Println(ui.Header("Search history ") + ui.Count(len(entries), "entry", "entries"))
	fmt.Println()
	table := ui.NewResultsTable(ui.NewDisplayContext(), ui.HistoryLayout)
	queryWidth := table.ContentWidth("query")
	sceneWidth := table.ContentWidth("scene")
	for i, e := range entries {
		results := "-"
		if e.Status == "matched" {
			results = fmt.Sprintf("%d", e.ResultCount)
		}
		table.AddRow(ui.ResultRow{
			Num: i + 1,
			Cells: []string{
				formatTimeAgo(e.SearchedAt),
				ui.TruncatePath(e.Query, queryWidth),
				e.Status,
				results,
				ui.TruncatePath(e.Scene, sceneWidth),
			},
		})
	}
	fmt.Println(table.Render())
	if !quiet {
		fmt.Println()
		fmt.Println(ui.Hint("Filter with --scene <path>, cap with --limit, wipe with --clear."))
	}
	return nil
}

func runHistoryClear() error {
	store, warnings, err := openHistory()
	if store == nil {
		return err
	}
	defer store.Close()

	n, err := store.Clear(historySceneFilter())
	if err != nil {
		if errors.Is(err, history.ErrHistoryLocked) {
			return handleErrorMsg(ErrHistoryError,
				"history database is locked by another figq process", "Retry in a moment")
		}
		return handleError(ErrHistoryError, err, "")
	}

	if isJSONOutput() {
		outputSuccessWithWarnings(map[string]interface{}{"cleared": n}, warnings, nil)
		return nil
	}
	printWarnings(warnings)
	fmt.Println(ui.Successf("Cleared %d history %s", n, pluralize(n, "entry", "entries")))
	return nil
}

// historySceneFilter widens a relative --scene to the absolute form
// rows are recorded under.
func historySceneFilter() string {
	if historyScene == "" {
		return ""
	}
	return absScenePath(historyScene)
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Entries to show (0 = all)")
	historyCmd.Flags().StringVar(&historyScene, "scene", "", "Only searches against this scene file")
	historyCmd.Flags().BoolVar(&historyClear, "clear", false, "Delete history (scene-scoped with --scene)")

	rootCmd.AddCommand(historyCmd)
}
