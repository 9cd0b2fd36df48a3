package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabrielrenderos/figq/internal/config"
	"github.com/gabrielrenderos/figq/internal/scene"
	"github.com/gabrielrenderos/figq/internal/ui"
)

// requireScene loads the resolved scene document. On failure it reports
// the error in the active output mode and returns a nil document, so
// callers return the (possibly nil) error immediately:
//
//	doc, err := requireScene()
//	if doc == nil {
//		return err
//	}
func requireScene() (*scene.Document, error) {
	path := resolvedScenePath
	if path == "" {
		return nil, handleErrorMsg(ErrSceneNotFound,
			"no scene file specified",
			"Pass --file <export.json>, set FIGQ_FILE, or set default_file in config.toml")
	}

	if _, err := os.Stat(path); err != nil {
		return nil, handleErrorMsg(ErrSceneNotFound,
			fmt.Sprintf("scene file not found: %s (from %s)", path, describeSceneSource(sceneSource)),
			"Check the path, or run 'figq config' to see how it was resolved")
	}

	spin := startSpinner("Loading scene")
	doc, err := scene.LoadFile(path)
	if spin != nil {
		spin.Stop()
	}
	if err != nil {
		return nil, handleError(ErrSceneInvalid, err,
			"The file must be a Figma REST file export (GET /v1/files/:key) or a node subtree")
	}
	return doc, nil
}

// startSpinner starts a stderr spinner unless suppressed by --quiet or
// --json. Returns nil when suppressed; Stop on a nil spinner is the
// caller's responsibility to skip.
func startSpinner(message string) *ui.Spinner {
	if quiet || jsonOutput {
		return nil
	}
	spin := ui.NewSpinner(message + "...")
	spin.Start()
	return spin
}

func describeSceneSource(src config.SceneSource) string {
	switch src {
	case config.SceneFromFlag:
		return "--file"
	case config.SceneFromEnv:
		return config.FileEnv
	case config.SceneFromState:
		return "the active scene in state"
	case config.SceneFromProject:
		return config.ProjectFileName
	case config.SceneFromConfig:
		return "default_file in config"
	default:
		return "nowhere"
	}
}

// absScenePath normalizes a scene path for comparisons and persistence.
func absScenePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}

func sceneDir(path string) string {
	return filepath.Dir(absScenePath(path))
}

// sceneMatchesState reports whether the stored selection and current
// page belong to the scene being searched. Anything remembered for a
// different scene is ignored.
func sceneMatchesState(scenePath string) bool {
	st := getState()
	if strings.TrimSpace(st.ActiveScene) == "" {
		return false
	}
	return absScenePath(st.ActiveScene) == absScenePath(scenePath)
}

// rememberActiveScene records a successfully opened scene in state. A
// scene change drops the stored page and selection, which belong to the
// previous scene. Failures degrade to warnings.
func rememberActiveScene(scenePath string) []Warning {
	st := getState()
	abs := absScenePath(scenePath)
	if st.ActiveScene == abs {
		return nil
	}
	st.ActiveScene = abs
	st.CurrentPage = ""
	st.Selection = nil
	return saveStateWarnings()
}

// saveStateWarnings persists state, converting failures to warnings so
// read paths never fail on an unwritable state dir.
func saveStateWarnings() []Warning {
	if err := config.SaveState(resolvedStatePath, getState()); err != nil {
		return []Warning{{Code: WarnStateNotSaved, Message: err.Error()}}
	}
	return nil
}

// resolvePage finds a page by name or slug.
func resolvePage(doc *scene.Document, nameOrSlug string) (*scene.Node, error) {
	if p, ok := doc.PageByName(nameOrSlug); ok {
		return p, nil
	}
	if p, ok := doc.PageBySlug(nameOrSlug); ok {
		return p, nil
	}
	return nil, handleErrorMsg(ErrPageNotFound,
		fmt.Sprintf("page not found: %s", nameOrSlug),
		"Run 'figq pages' to list pages and slugs")
}

// startPageFor picks the page a search starts on: an explicit --page
// wins, then the stored current page (same scene only), then the
// project default, then the document's first page. A stored page that
// no longer exists degrades to a warning, not an error.
func startPageFor(doc *scene.Document, scenePath, pageFlag string) (*scene.Node, []Warning, error) {
	if strings.TrimSpace(pageFlag) != "" {
		page, err := resolvePage(doc, strings.TrimSpace(pageFlag))
		if page == nil {
			return nil, nil, err
		}
		return page, nil, nil
	}

	var stateForPage *config.State
	if sceneMatchesState(scenePath) {
		stateForPage = getState()
	}
	name := config.ResolveStartPage(stateForPage, getProject())
	if name == "" {
		return doc.Pages[0], nil, nil
	}

	if p, ok := doc.PageByName(name); ok {
		return p, nil, nil
	}
	if p, ok := doc.PageBySlug(name); ok {
		return p, nil, nil
	}
	warn := Warning{
		Code:    WarnPageNotFound,
		Message: fmt.Sprintf("stored page %q not in this scene; searching %q", name, doc.Pages[0].Name),
	}
	return doc.Pages[0], []Warning{warn}, nil
}

// resolveSelectionNodes builds the selection scope for a search.
// --select IDs are explicit input, so an unknown ID is an error; stored
// selection entries that no longer resolve are stale state and drop
// with a warning.
func resolveSelectionNodes(doc *scene.Document, scenePath, selectFlag string, noSelection bool) ([]*scene.Node, []Warning, error) {
	if ids := splitIDList(selectFlag); len(ids) > 0 {
		nodes, err := doc.ResolveNodes(ids)
		if err != nil {
			return nil, nil, handleError(ErrNodeNotFound, err,
				"Node IDs come from search results; run 'figq last' to see them")
		}
		return nodes, nil, nil
	}

	if noSelection || !sceneMatchesState(scenePath) {
		return nil, nil, nil
	}

	stored := getState().Selection
	if len(stored) == 0 {
		return nil, nil, nil
	}
	var nodes []*scene.Node
	var stale []string
	for _, id := range stored {
		if n, ok := doc.ByID(id); ok {
			nodes = append(nodes, n)
		} else {
			stale = append(stale, id)
		}
	}
	var warnings []Warning
	if len(stale) > 0 {
		warnings = append(warnings, Warning{
			Code:    WarnSelectionStale,
			Message: fmt.Sprintf("%d stored selection node(s) no longer exist: %s", len(stale), strings.Join(stale, ", ")),
		})
	}
	return nodes, warnings, nil
}

func splitIDList(s string) []string {
	var ids []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			ids = append(ids, part)
		}
	}
	return ids
}

// searchTimeout resolves the effective timeout: the flag wins, then
// search.timeout from config. Zero means none.
func searchTimeout(flagValue string) (time.Duration, error) {
	raw := strings.TrimSpace(flagValue)
	if raw == "" {
		raw = strings.TrimSpace(getConfig().Search.Timeout)
	}
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid timeout %q: must not be negative", raw)
	}
	return d, nil
}

// formatTimeAgo formats a timestamp as a human-readable "X ago" string.
func formatTimeAgo(t time.Time) string {
	diff := time.Since(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		mins := int(diff.Minutes())
		if mins == 1 {
			return "1 minute ago"
		}
		return fmt.Sprintf("%d minutes ago", mins)
	} else if diff < 24*time.Hour {
		hours := int(diff.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	}

	days := int(diff.Hours() / 24)
	if days == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", days)
}
