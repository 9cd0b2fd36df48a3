package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gabrielrenderos/figq/internal/history"
	"github.com/gabrielrenderos/figq/internal/lastsearch"
	"github.com/gabrielrenderos/figq/internal/query"
	"github.com/gabrielrenderos/figq/internal/scene"
	"github.com/gabrielrenderos/figq/internal/ui"
)

// searchEngine is shared by every command that evaluates queries, so
// candidate pools survive across segments within one invocation.
var searchEngine = query.New()

var (
	searchPageFlag    string
	searchSelectFlag  string
	searchNoSelection bool
	searchLimitFlag   int
	searchTimeoutFlag string
	searchSavedFlag   string
	searchNoHistory   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find layers matching a query",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw := ""
		if len(args) > 0 {
			raw = args[0]
		}
		return runSearch(cmd, raw, searchSavedFlag)
	},
}

// searchResultView is one match in JSON output.
type searchResultView struct {
	Num     int    `json:"num"`
	ID      string `json:"id"`
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	Type    string `json:"type"`
	Path    string `json:"path"`
	Visible bool   `json:"visible"`
}

// runSearch is the full search pipeline: resolve the query (inline or
// saved), the page and the selection scopes, evaluate, persist the
// last-search file and a history row, and report the outcome. Shared
// with 'figq queries run'.
func runSearch(cmd *cobra.Command, raw, savedName string) error {
	pageFlag := searchPageFlag

	if savedName != "" {
		if strings.TrimSpace(raw) != "" {
			return handleErrorMsg(ErrInvalidInput,
				"give a query or --saved, not both", "")
		}
		saved, ok := getProject().LookupQuery(savedName)
		if !ok {
			return handleErrorMsg(ErrQueryNotFound,
				fmt.Sprintf("saved query not found: %s", savedName),
				"Run 'figq queries' to list saved queries")
		}
		raw = saved.Query
		if pageFlag == "" {
			pageFlag = saved.Page
		}
	}

	if query.Parse(raw).Empty() {
		return handleErrorMsg(ErrQueryEmpty,
			"query has nothing to match",
			"Single-quote queries so the shell keeps the symbols: figq search '@Card/=Title'")
	}

	doc, err := requireScene()
	if doc == nil {
		return err
	}
	warnings := rememberActiveScene(resolvedScenePath)

	page, pageWarnings, err := startPageFor(doc, resolvedScenePath, pageFlag)
	if page == nil {
		return err
	}
	warnings = append(warnings, pageWarnings...)

	selection, selWarnings, err := resolveSelectionNodes(doc, resolvedScenePath, searchSelectFlag, searchNoSelection)
	if err != nil || errorEmitted {
		return err
	}
	warnings = append(warnings, selWarnings...)

	timeout, err := searchTimeout(searchTimeoutFlag)
	if err != nil {
		return handleErrorMsg(ErrInvalidInput, err.Error(), "Durations look like 500ms or 10s")
	}
	ctx := context.Background()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	opts := query.Options{Selection: selection, Page: page}
	spin := startSpinner("Searching")
	if spin != nil {
		opts.Progress = func(visited int) {
			spin.SetNote(fmt.Sprintf("%d nodes", visited))
		}
	}
	res := searchEngine.Search(ctx, doc, raw, opts)
	if spin != nil {
		spin.Stop()
	}

	switch res.Status {
	case query.StatusError:
		return handleError(ErrInternal, res.Err, "")

	case query.StatusCancelled:
		persistSearch(&warnings, raw, page, res, nil)
		printWarnings(warnings)
		return handleErrorMsg(ErrSearchCancelled,
			fmt.Sprintf("search cancelled after %s (%d nodes visited)", res.Elapsed.Round(time.Millisecond), res.Visited),
			"Raise --timeout, or narrow the query with a type symbol")

	case query.StatusPageOnly:
		warnings = append(warnings, switchCurrentPage(res.Page)...)
		persistSearch(&warnings, raw, res.Page, res, nil)
		if isJSONOutput() {
			outputSuccessWithWarnings(map[string]interface{}{
				"query":  raw,
				"scene":  absScenePath(resolvedScenePath),
				"status": res.Status.String(),
				"page": map[string]interface{}{
					"id":   res.Page.ID,
					"name": res.Page.Name,
					"slug": scene.PageSlug(res.Page.Name),
				},
			}, warnings, &Meta{QueryTimeMs: res.Elapsed.Milliseconds()})
			return nil
		}
		printWarnings(warnings)
		fmt.Println(ui.Successf("Switched to page %s", ui.PageName(res.Page.Name)))
		return nil
	}

	// Matched or clean no-match.
	effectivePage := page
	if res.Page != nil {
		effectivePage = res.Page
		warnings = append(warnings, switchCurrentPage(res.Page)...)
	}
	entries := buildResultEntries(res.Matches)
	persistSearch(&warnings, raw, effectivePage, res, entries)

	limit := searchLimitFlag
	if !cmd.Flags().Changed("limit") {
		limit = getConfig().Search.Limit
	}

	if isJSONOutput() {
		items := make([]searchResultView, 0, len(res.Matches))
		for i, m := range res.Matches {
			if limit > 0 && i >= limit {
				break
			}
			items = append(items, searchResultView{
				Num:     i + 1,
				ID:      m.Node.ID,
				Name:    m.Node.Name,
				Kind:    m.Node.Kind.String(),
				Type:    m.Node.Type,
				Path:    m.Path,
				Visible: m.Node.Visible,
			})
		}
		outputSuccessWithWarnings(map[string]interface{}{
			"query":  raw,
			"scene":  absScenePath(resolvedScenePath),
			"page":   effectivePage.Name,
			"status": res.Status.String(),
			"items":  items,
		}, warnings, &Meta{Count: len(res.Matches), QueryTimeMs: res.Elapsed.Milliseconds()})
		return nil
	}

	printWarnings(warnings)
	printSearchResults(raw, effectivePage, res, limit)
	return nil
}

// switchCurrentPage persists a page switch caused by a #Page directive.
func switchCurrentPage(page *scene.Node) []Warning {
	st := getState()
	if st.CurrentPage == page.Name {
		return nil
	}
	st.CurrentPage = page.Name
	return saveStateWarnings()
}

// buildResultEntries numbers matches for the last-search file.
func buildResultEntries(matches []query.Match) []lastsearch.ResultEntry {
	entries := make([]lastsearch.ResultEntry, len(matches))
	for i, m := range matches {
		entries[i] = lastsearch.ResultEntry{
			Num:  i + 1,
			ID:   m.Node.ID,
			Name: m.Node.Name,
			Type: m.Node.Type,
			Path: m.Path,
		}
	}
	return entries
}

// persistSearch writes the last-search file and a history row. Both are
// best effort: failures become warnings, never search errors.
func persistSearch(warnings *[]Warning, raw string, page *scene.Node, res *query.Result, entries []lastsearch.ResultEntry) {
	stateDir := filepath.Dir(getStatePath())

	ls := &lastsearch.LastSearch{
		Query:     raw,
		Scene:     absScenePath(resolvedScenePath),
		Status:    res.Status.String(),
		Timestamp: time.Now(),
		Results:   entries,
	}
	if page != nil {
		ls.Page = page.Name
	}
	if err := lastsearch.Write(stateDir, ls); err != nil {
		*warnings = append(*warnings, Warning{Code: WarnLastSearchNotSaved, Message: err.Error()})
	}

	recordSearchHistory(warnings, stateDir, raw, res)
}

// recordSearchHistory appends one history row and prunes past the
// configured cap. Disabled by --no-history or history.enabled = false.
func recordSearchHistory(warnings *[]Warning, stateDir, raw string, res *query.Result) {
	if searchNoHistory || !getConfig().HistoryEnabled() {
		return
	}

	store, rebuilt, err := history.OpenWithRebuild(stateDir)
	if err != nil {
		*warnings = append(*warnings, Warning{Code: WarnHistoryUnavailable, Message: err.Error()})
		return
	}
	defer store.Close()
	if rebuilt {
		*warnings = append(*warnings, Warning{
			Code:    WarnHistoryRebuilt,
			Message: "history database was incompatible and has been rebuilt",
		})
	}

	entry := history.Entry{
		Scene:       absScenePath(resolvedScenePath),
		Query:       raw,
		Status:      res.Status.String(),
		ResultCount: len(res.Matches),
		DurationMS:  res.Elapsed.Milliseconds(),
	}
	if err := store.Record(entry); err != nil {
		*warnings = append(*warnings, Warning{Code: WarnHistoryUnavailable, Message: err.Error()})
		return
	}
	if _, err := store.Prune(getConfig().HistoryLimit()); err != nil {
		*warnings = append(*warnings, Warning{Code: WarnHistoryUnavailable, Message: err.Error()})
	}
}

// printSearchResults renders the match table and footer for text mode.
func printSearchResults(raw string, page *scene.Node, res *query.Result, limit int) {
	total := len(res.Matches)
	if total == 0 {
		fmt.Printf("No matches for %s on %s.\n", ui.NodePath(raw), ui.PageName(page.Name))
		if !quiet {
			fmt.Println(ui.Hint("Hidden layers are excluded by default; try a --h or --a modifier, or --no-selection."))
		}
		return
	}

	shown := total
	if limit > 0 && limit < total {
		shown = limit
	}

	table := ui.NewResultsTable(ui.NewDisplayContext(), ui.SearchLayout)
	pathWidth := table.ContentWidth("path")
	for i := 0; i < shown; i++ {
		m := res.Matches[i]
		table.AddRow(ui.ResultRow{
			Num: i + 1,
			Cells: []string{
				ui.FormatRowNum(i+1, total),
				ui.TruncatePath(m.Path, pathWidth),
				m.Node.ID,
				m.Node.Kind.String(),
			},
		})
	}
	fmt.Println(table.Render())

	footer := fmt.Sprintf("Searched %s in %s %s", page.Name, res.Elapsed.Round(time.Millisecond), ui.Count(total, "match", "matches"))
	fmt.Printf("\n%s\n", ui.Hint(footer))
	if shown < total {
		fmt.Println(ui.Hint(fmt.Sprintf("Showing %d of %d; use --limit 0 to show all.", shown, total)))
	}
	if !quiet {
		fmt.Println(ui.Hint("Pick results with 'figq last <numbers>' or keep them with 'figq select'."))
	}
}

func init() {
	searchCmd.Flags().StringVar(&searchPageFlag, "page", "", "Page to search (name or slug); a '#Page/' directive in the query wins")
	searchCmd.Flags().StringVar(&searchSelectFlag, "select", "", "Comma-separated node IDs to scope the search, overriding the stored selection")
	searchCmd.Flags().BoolVar(&searchNoSelection, "no-selection", false, "Ignore the stored selection and search the whole page")
	searchCmd.Flags().IntVar(&searchLimitFlag, "limit", 0, "Display at most N matches (0 = no cap; full count still reported)")
	searchCmd.Flags().StringVar(&searchTimeoutFlag, "timeout", "", "Cancel the search after this duration (e.g. 500ms, 10s)")
	searchCmd.Flags().StringVar(&searchSavedFlag, "saved", "", "Run a saved query from the project figq.yaml")
	searchCmd.Flags().BoolVar(&searchNoHistory, "no-history", false, "Skip recording this search in history")

	rootCmd.AddCommand(searchCmd)
}
