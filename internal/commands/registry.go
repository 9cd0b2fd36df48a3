// Package commands provides a central registry of figq CLI commands.
// The registry is the single source of truth for command metadata and
// is applied to the Cobra tree at startup, keeping --help output
// consistent with the documented surface.
package commands

// Meta defines metadata for a CLI command.
type Meta struct {
	Name        string     // Command name (e.g., "search", "tree")
	Description string     // Short description
	LongDesc    string     // Long description (for --help)
	Args        []ArgMeta  // Positional arguments
	Flags       []FlagMeta // Command flags
	Examples    []string   // Usage examples
}

// ArgMeta defines a positional argument.
type ArgMeta struct {
	Name        string // Argument name
	Description string // Description
	Required    bool   // Is this argument required?
}

// FlagMeta defines a command flag.
type FlagMeta struct {
	Name        string   // Flag name (e.g., "page", "limit")
	Short       string   // Short flag (e.g., "p" for -p)
	Description string   // Description
	Type        FlagType // Type of flag
	Default     string   // Default value
}

// FlagType represents the type of a flag.
type FlagType string

const (
	FlagTypeString FlagType = "string"
	FlagTypeBool   FlagType = "bool"
	FlagTypeInt    FlagType = "int"
)

// Registry holds all registered commands, keyed by command path with
// spaces replaced by underscores for subcommands ("config_init").
var Registry = map[string]Meta{
	"search": {
		Name:        "search",
		Description: "Find layers matching a query",
		LongDesc: `Runs a layer query against the active scene and lists the matches
in layer order. Index picks like --2 count in reading order instead:
top-to-bottom rows, left-to-right within a row.

Queries are path-like: segments separated by slashes, each segment an
optional type symbol plus name words. '@Card/=Title' finds text layers
named Title anywhere under frames named Card. A leading '#Page/'
switches pages for this search. See 'figq docs query-language'.

Results are numbered; follow up with 'figq last <numbers>' to pull node
IDs out, or 'figq select' to turn matches into the stored selection.
Every search is recorded in the local history database unless
--no-history (or history.enabled = false in config) says otherwise.`,
		Args: []ArgMeta{
			{Name: "query", Description: "Layer query (required unless --saved is given)"},
		},
		Flags: []FlagMeta{
			{Name: "page", Description: "Page to search (name or slug); a '#Page/' directive in the query wins", Type: FlagTypeString},
			{Name: "select", Description: "Comma-separated node IDs to scope the search, overriding the stored selection", Type: FlagTypeString},
			{Name: "no-selection", Description: "Ignore the stored selection and search the whole page", Type: FlagTypeBool},
			{Name: "limit", Description: "Display at most N matches (0 = no cap; full count still reported)", Type: FlagTypeInt, Default: "0"},
			{Name: "timeout", Description: "Cancel the search after this duration (e.g. 500ms, 10s)", Type: FlagTypeString},
			{Name: "saved", Description: "Run a saved query from the project figq.yaml", Type: FlagTypeString},
			{Name: "no-history", Description: "Skip recording this search in history", Type: FlagTypeBool},
		},
		Examples: []string{
			`figq search '@Card/=Title'`,
			`figq search '&' --page Home`,
			`figq search '=Price --f' --json`,
			`figq search --saved ctas`,
		},
	},
	"select": {
		Name:        "select",
		Description: "Store query matches as the active selection",
		LongDesc: `Runs a query and persists the matched node IDs as the stored
selection for the active scene. Follow-up searches resolve their scopes
from that selection, so '=Label' then means "text named Label inside
what I selected".

The selection is remembered in the state file and only honored while
the active scene stays the same; searching a different scene ignores
it.`,
		Args: []ArgMeta{
			{Name: "query", Description: "Layer query (omit with --clear or --show)"},
		},
		Flags: []FlagMeta{
			{Name: "clear", Description: "Clear the stored selection", Type: FlagTypeBool},
			{Name: "show", Description: "Show the stored selection", Type: FlagTypeBool},
		},
		Examples: []string{
			`figq select '@Checkout Flow'`,
			`figq select --show`,
			`figq select --clear`,
		},
	},
	"explain": {
		Name:        "explain",
		Description: "Show how a query parses",
		LongDesc: `Prints the parsed form of a query without running it: the page
directive, each segment's type gate, name tokens, directness and inline
index pick, plus the global modifiers. Useful when quoting or modifier
placement does not behave the way you expected.

Degenerate queries (empty after parsing) are explained rather than
rejected.`,
		Args: []ArgMeta{
			{Name: "query", Description: "Layer query to explain", Required: true},
		},
		Examples: []string{
			`figq explain '@Card/=Title --2'`,
			`figq explain '#Checkout/@Button --fe'`,
			`figq explain '"Frame 1"'`,
		},
	},
	"pages": {
		Name:        "pages",
		Description: "List the pages in the active scene",
		LongDesc: `Lists every page in the active scene with its slug (usable with
--page flags) and node count. The current page, when one is set, is
marked.`,
		Examples: []string{
			"figq pages",
			"figq pages --json",
		},
	},
	"tree": {
		Name:        "tree",
		Description: "Print a subtree of the active scene",
		LongDesc: `Prints the layer tree under a node with type symbols and hidden
markers. Without an argument the root is the current page (or --page);
with a node ID, the subtree under that node.

Hidden branches are skipped unless --hidden. Deep scenes are easier to
read with --depth.`,
		Args: []ArgMeta{
			{Name: "node-id", Description: "Node ID to print the subtree of (default: current page)"},
		},
		Flags: []FlagMeta{
			{Name: "page", Description: "Page to print (name or slug)", Type: FlagTypeString},
			{Name: "depth", Description: "Limit the tree to N levels (0 = unlimited)", Type: FlagTypeInt, Default: "0"},
			{Name: "hidden", Description: "Include hidden layers", Type: FlagTypeBool},
			{Name: "ids", Description: "Append node IDs to labels", Type: FlagTypeBool},
		},
		Examples: []string{
			"figq tree --depth 3",
			"figq tree 12:441 --hidden",
			"figq tree --page Checkout --ids",
		},
	},
	"last": {
		Name:        "last",
		Description: "Show or pick results from the last search",
		LongDesc: `Without arguments, redisplays the last search: query, scene, age
and the numbered results. With numbers, prints just those results' node
IDs (one per line) for piping into other tools.

Number formats:
  1         single result
  1,3,5     comma-separated
  1-5       range
  1,3-5,7   mixed

With --select, the picked results become the stored selection instead
of being printed.`,
		Args: []ArgMeta{
			{Name: "numbers", Description: "Result numbers to pick (e.g. 1,3-5)"},
		},
		Flags: []FlagMeta{
			{Name: "select", Description: "Store the picked results as the selection", Type: FlagTypeBool},
		},
		Examples: []string{
			"figq last",
			"figq last 1,3",
			"figq last 2-4 --select",
		},
	},
	"history": {
		Name:        "history",
		Description: "List recent searches",
		LongDesc: `Lists recent searches from the local history database: when, which
scene, the query, its outcome and result count.

History is recorded by 'figq search' (best effort; a history failure
never fails a search) and capped at history.max_entries from config.`,
		Flags: []FlagMeta{
			{Name: "limit", Description: "Show at most N entries", Type: FlagTypeInt, Default: "20"},
			{Name: "scene", Description: "Only entries for this scene path", Type: FlagTypeString},
			{Name: "clear", Description: "Delete history entries (all, or --scene's)", Type: FlagTypeBool},
		},
		Examples: []string{
			"figq history",
			"figq history --limit 50",
			"figq history --scene ./design/export.json",
			"figq history --clear",
		},
	},
	"queries": {
		Name:        "queries",
		Description: "List saved queries from the project config",
		LongDesc: `Lists the saved queries defined in the project figq.yaml (found by
walking up from the working directory). Run one with
'figq queries run <name>' or 'figq search --saved <name>'.`,
		Examples: []string{
			"figq queries",
			"figq queries run ctas",
		},
	},
	"queries_run": {
		Name:        "run",
		Description: "Run a saved query",
		LongDesc: `Runs a saved query from the project figq.yaml by name, exactly as
'figq search --saved <name>' would: same output, same last-search and
history recording.`,
		Args: []ArgMeta{
			{Name: "name", Description: "Saved query name", Required: true},
		},
		Examples: []string{
			"figq queries run ctas",
			"figq queries run covers --json",
		},
	},
	"queries_init": {
		Name:        "init",
		Description: "Create a starter figq.yaml",
		LongDesc: `Writes a commented figq.yaml template into the current directory.
Existing files are left alone.`,
		Examples: []string{
			"figq queries init",
		},
	},
	"docs": {
		Name:        "docs",
		Description: "Browse the query-language documentation",
		LongDesc: `Renders the documentation bundled into the figq binary. Without
arguments, lists the available topics. With a topic name (or unique
prefix), renders that topic; markdown is styled when stdout is a
terminal and printed raw otherwise.

--list adds each topic's section outline. --search finds sections whose
text mentions a term.`,
		Args: []ArgMeta{
			{Name: "topic", Description: "Topic name or unique prefix"},
		},
		Flags: []FlagMeta{
			{Name: "list", Description: "List topics with their section outlines", Type: FlagTypeBool},
			{Name: "search", Description: "Search topics for a term", Type: FlagTypeString},
			{Name: "limit", Description: "Cap --search matches", Type: FlagTypeInt, Default: "20"},
		},
		Examples: []string{
			"figq docs",
			"figq docs modifiers",
			"figq docs --list",
			`figq docs --search "reading order"`,
		},
	},
	"config": {
		Name:        "config",
		Description: "Show resolved configuration and paths",
		LongDesc: `Shows the effective configuration: which config, state and scene
files figq resolved, where each came from, and the values in use.

Subcommands manage the global config.toml.`,
		Examples: []string{
			"figq config",
			"figq config --json",
			"figq config init",
			`figq config set --ui-accent "#A78BFA"`,
		},
	},
	"config_init": {
		Name:        "init",
		Description: "Create a default global config.toml if missing",
		LongDesc: `Writes a commented config.toml template to the default location
(or $FIGQ_CONFIG) unless one already exists.`,
		Examples: []string{
			"figq config init",
		},
	},
	"config_set": {
		Name:        "set",
		Description: "Set global config.toml fields",
		LongDesc: `Sets one or more fields in the global config.toml. Only the flags
you pass are changed; everything else is preserved.`,
		Flags: []FlagMeta{
			{Name: "default-file", Description: "Set the default scene export path", Type: FlagTypeString},
			{Name: "state-file", Description: "Set the state.toml path (absolute or relative to the config directory)", Type: FlagTypeString},
			{Name: "ui-color", Description: "Set color output mode (auto|always|never)", Type: FlagTypeString},
			{Name: "ui-accent", Description: "Set the accent color (ANSI 0-255 or #RRGGBB)", Type: FlagTypeString},
			{Name: "ui-code-theme", Description: "Set the markdown code theme name", Type: FlagTypeString},
			{Name: "search-limit", Description: "Set the default display cap for matches", Type: FlagTypeString},
			{Name: "search-timeout", Description: "Set the default search timeout (e.g. 10s)", Type: FlagTypeString},
			{Name: "history-enabled", Description: "Turn history recording on or off (true|false)", Type: FlagTypeString},
			{Name: "history-max", Description: "Set the history entry cap", Type: FlagTypeString},
		},
		Examples: []string{
			"figq config set --default-file ./design/export.json",
			"figq config set --ui-accent 39 --ui-code-theme dracula",
			"figq config set --history-enabled false",
		},
	},
	"config_unset": {
		Name:        "unset",
		Description: "Clear global config.toml fields",
		LongDesc:    "Clears one or more fields in the global config.toml, restoring their defaults.",
		Flags: []FlagMeta{
			{Name: "default-file", Description: "Clear default_file", Type: FlagTypeBool},
			{Name: "state-file", Description: "Clear state_file", Type: FlagTypeBool},
			{Name: "ui-color", Description: "Clear ui.color", Type: FlagTypeBool},
			{Name: "ui-accent", Description: "Clear ui.accent", Type: FlagTypeBool},
			{Name: "ui-code-theme", Description: "Clear ui.code_theme", Type: FlagTypeBool},
			{Name: "search-limit", Description: "Clear search.limit", Type: FlagTypeBool},
			{Name: "search-timeout", Description: "Clear search.timeout", Type: FlagTypeBool},
			{Name: "history-enabled", Description: "Clear history.enabled", Type: FlagTypeBool},
			{Name: "history-max", Description: "Clear history.max_entries", Type: FlagTypeBool},
		},
		Examples: []string{
			"figq config unset --default-file",
			"figq config unset --ui-accent --ui-code-theme",
		},
	},
	"config_show": {
		Name:        "show",
		Description: "Show current global config.toml values",
		Examples: []string{
			"figq config show",
		},
	},
	"version": {
		Name:        "version",
		Description: "Show figq version and build information",
		Examples: []string{
			"figq version",
			"figq version --json",
		},
	},
}
