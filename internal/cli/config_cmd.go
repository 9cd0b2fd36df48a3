package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gabrielrenderos/figq/internal/config"
)

type globalConfigContext struct {
	cfg          *config.Config
	configPath   string
	statePath    string
	configExists bool
}

var (
	configSetDefaultFile    string
	configSetStateFile      string
	configSetUIColor        string
	configSetUIAccent       string
	configSetUICodeTheme    string
	configSetSearchLimit    string
	configSetSearchTimeout  string
	configSetHistoryEnabled string
	configSetHistoryMax     string

	configUnsetDefaultFile    bool
	configUnsetStateFile      bool
	configUnsetUIColor        bool
	configUnsetUIAccent       bool
	configUnsetUICodeTheme    bool
	configUnsetSearchLimit    bool
	configUnsetSearchTimeout  bool
	configUnsetHistoryEnabled bool
	configUnsetHistoryMax     bool
)

func loadGlobalConfigAllowMissingWithPath() (*config.Config, string, bool, error) {
	resolvedPath := config.ResolveConfigPath(configPath)
	if _, err := os.Stat(resolvedPath); err != nil {
		if os.IsNotExist(err) {
			return &config.Config{}, resolvedPath, false, nil
		}
		return nil, resolvedPath, false, err
	}
	loadedCfg, err := config.LoadFrom(resolvedPath)
	if err != nil {
		return nil, resolvedPath, true, err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}
	return loadedCfg, resolvedPath, true, nil
}

func loadGlobalConfigContextAllowMissing() (*globalConfigContext, error) {
	loadedCfg, resolvedPath, exists, err := loadGlobalConfigAllowMissingWithPath()
	if err != nil {
		return nil, err
	}

	return &globalConfigContext{
		cfg:          loadedCfg,
		configPath:   resolvedPath,
		statePath:    config.ResolveStatePath(statePathFlag, resolvedPath, loadedCfg),
		configExists: exists,
	}, nil
}

func configData(ctx *globalConfigContext) map[string]interface{} {
	data := map[string]interface{}{
		"config_path":  ctx.configPath,
		"state_path":   ctx.statePath,
		"exists":       ctx.configExists,
		"default_file": strings.TrimSpace(ctx.cfg.DefaultFile),
		"state_file":   strings.TrimSpace(ctx.cfg.StateFile),
		"ui": map[string]interface{}{
			"color":      strings.TrimSpace(ctx.cfg.UI.Color),
			"accent":     strings.TrimSpace(ctx.cfg.UI.Accent),
			"code_theme": strings.TrimSpace(ctx.cfg.UI.CodeTheme),
		},
		"history": map[string]interface{}{
			"enabled":     ctx.cfg.HistoryEnabled(),
			"max_entries": ctx.cfg.HistoryLimit(),
		},
		"search": map[string]interface{}{
			"limit":   ctx.cfg.Search.Limit,
			"timeout": strings.TrimSpace(ctx.cfg.Search.Timeout),
		},
	}
	return data
}

func normalizeColorMode(raw string) (string, bool) {
	mode := strings.ToLower(strings.TrimSpace(raw))
	switch mode {
	case "auto", "always", "never":
		return mode, true
	default:
		return "", false
	}
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	ctx, err := loadGlobalConfigContextAllowMissing()
	if err != nil {
		return handleError(ErrConfigInvalid, err, "")
	}

	if isJSONOutput() {
		outputSuccess(configData(ctx), nil)
		return nil
	}

	if !ctx.configExists {
		fmt.Printf("Config file does not exist: %s\n", ctx.configPath)
		fmt.Println("Run 'figq config init' to create it.")
		return nil
	}

	fmt.Printf("config: %s\n", ctx.configPath)
	fmt.Printf("state:  %s\n", ctx.statePath)

	if v := strings.TrimSpace(ctx.cfg.DefaultFile); v != "" {
		fmt.Printf("default_file: %s\n", v)
	}
	if v := strings.TrimSpace(ctx.cfg.StateFile); v != "" {
		fmt.Printf("state_file: %s\n", v)
	}
	if v := strings.TrimSpace(ctx.cfg.UI.Color); v != "" {
		fmt.Printf("ui.color: %s\n", v)
	}
	if v := strings.TrimSpace(ctx.cfg.UI.Accent); v != "" {
		fmt.Printf("ui.accent: %s\n", v)
	}
	if v := strings.TrimSpace(ctx.cfg.UI.CodeTheme); v != "" {
		fmt.Printf("ui.code_theme: %s\n", v)
	}
	fmt.Printf("history.enabled: %t\n", ctx.cfg.HistoryEnabled())
	fmt.Printf("history.max_entries: %d\n", ctx.cfg.HistoryLimit())
	if ctx.cfg.Search.Limit > 0 {
		fmt.Printf("search.limit: %d\n", ctx.cfg.Search.Limit)
	}
	if v := strings.TrimSpace(ctx.cfg.Search.Timeout); v != "" {
		fmt.Printf("search.timeout: %s\n", v)
	}

	return nil
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage global figq config.toml settings",
	Long: `Manage global figq config.toml settings.

Use this to initialize, inspect, and edit machine-level configuration.`,
	Args: cobra.NoArgs,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default global config.toml if missing",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		targetPath := config.ResolveConfigPath(configPath)
		_, statErr := os.Stat(targetPath)
		existed := statErr == nil
		if statErr != nil && !os.IsNotExist(statErr) {
			return handleError(ErrFileReadError, statErr, "")
		}

		createdPath, err := config.CreateDefaultAt(targetPath)
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"config_path": createdPath,
				"created":     !existed,
			}, nil)
			return nil
		}

		if existed {
			fmt.Printf("Config already exists: %s\n", createdPath)
		} else {
			fmt.Printf("Created config: %s\n", createdPath)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Set one or more global config.toml fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadGlobalConfigContextAllowMissing()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}

		changed := make([]string, 0, 9)

		if cmd.Flags().Changed("default-file") {
			value := strings.TrimSpace(configSetDefaultFile)
			if value == "" {
				return handleErrorMsg(ErrInvalidInput, "default-file cannot be empty; use 'figq config unset --default-file' to clear it", "")
			}
			ctx.cfg.DefaultFile = value
			changed = append(changed, "default_file")
		}

		if cmd.Flags().Changed("state-file") {
			value := strings.TrimSpace(configSetStateFile)
			if value == "" {
				return handleErrorMsg(ErrInvalidInput, "state-file cannot be empty; use 'figq config unset --state-file' to clear it", "")
			}
			ctx.cfg.StateFile = value
			changed = append(changed, "state_file")
		}

		if cmd.Flags().Changed("ui-color") {
			value, ok := normalizeColorMode(configSetUIColor)
			if !ok {
				return handleErrorMsg(ErrInvalidInput, "ui-color must be one of: auto, always, never", "")
			}
			ctx.cfg.UI.Color = value
			changed = append(changed, "ui.color")
		}

		if cmd.Flags().Changed("ui-accent") {
			value := strings.TrimSpace(configSetUIAccent)
			if value == "" {
				return handleErrorMsg(ErrInvalidInput, "ui-accent cannot be empty; use 'figq config unset --ui-accent' to clear it", "")
			}
			ctx.cfg.UI.Accent = value
			changed = append(changed, "ui.accent")
		}

		if cmd.Flags().Changed("ui-code-theme") {
			value := strings.TrimSpace(configSetUICodeTheme)
			if value == "" {
				return handleErrorMsg(ErrInvalidInput, "ui-code-theme cannot be empty; use 'figq config unset --ui-code-theme' to clear it", "")
			}
			ctx.cfg.UI.CodeTheme = value
			changed = append(changed, "ui.code_theme")
		}

		if cmd.Flags().Changed("search-limit") {
			n, err := strconv.Atoi(strings.TrimSpace(configSetSearchLimit))
			if err != nil || n < 0 {
				return handleErrorMsg(ErrInvalidInput, "search-limit must be a non-negative integer (0 = no cap)", "")
			}
			ctx.cfg.Search.Limit = n
			changed = append(changed, "search.limit")
		}

		if cmd.Flags().Changed("search-timeout") {
			value := strings.TrimSpace(configSetSearchTimeout)
			d, err := time.ParseDuration(value)
			if err != nil || d < 0 {
				return handleErrorMsg(ErrInvalidInput, "search-timeout must be a duration like 500ms or 10s", "")
			}
			ctx.cfg.Search.Timeout = value
			changed = append(changed, "search.timeout")
		}

		if cmd.Flags().Changed("history-enabled") {
			enabled, err := strconv.ParseBool(strings.TrimSpace(configSetHistoryEnabled))
			if err != nil {
				return handleErrorMsg(ErrInvalidInput, "history-enabled must be true or false", "")
			}
			ctx.cfg.History.Enabled = &enabled
			changed = append(changed, "history.enabled")
		}

		if cmd.Flags().Changed("history-max") {
			n, err := strconv.Atoi(strings.TrimSpace(configSetHistoryMax))
			if err != nil || n < 1 {
				return handleErrorMsg(ErrInvalidInput, "history-max must be a positive integer", "")
			}
			ctx.cfg.History.MaxEntries = n
			changed = append(changed, "history.max_entries")
		}

		if len(changed) == 0 {
			return handleErrorMsg(ErrMissingArgument, "no fields provided; set at least one --default-file/--state-file/--ui-color/--ui-accent/--ui-code-theme/--search-limit/--search-timeout/--history-enabled/--history-max", "")
		}

		if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		ctx.configExists = true
		if isJSONOutput() {
			data := configData(ctx)
			data["changed"] = changed
			outputSuccess(data, nil)
			return nil
		}

		fmt.Printf("Updated config: %s\n", ctx.configPath)
		fmt.Printf("changed: %s\n", strings.Join(changed, ", "))
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset",
	Short: "Clear one or more global config.toml fields",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := loadGlobalConfigContextAllowMissing()
		if err != nil {
			return handleError(ErrConfigInvalid, err, "")
		}
		if !ctx.configExists {
			return handleErrorMsg(ErrFileNotFound, fmt.Sprintf("config file not found: %s", ctx.configPath), "Run 'figq config init' first")
		}

		changed := make([]string, 0, 9)
		if configUnsetDefaultFile {
			ctx.cfg.DefaultFile = ""
			changed = append(changed, "default_file")
		}
		if configUnsetStateFile {
			ctx.cfg.StateFile = ""
			changed = append(changed, "state_file")
		}
		if configUnsetUIColor {
			ctx.cfg.UI.Color = ""
			changed = append(changed, "ui.color")
		}
		if configUnsetUIAccent {
			ctx.cfg.UI.Accent = ""
			changed = append(changed, "ui.accent")
		}
		if configUnsetUICodeTheme {
			ctx.cfg.UI.CodeTheme = ""
			changed = append(changed, "ui.code_theme")
		}
		if configUnsetSearchLimit {
			ctx.cfg.Search.Limit = 0
			changed = append(changed, "search.limit")
		}
		if configUnsetSearchTimeout {
			ctx.cfg.Search.Timeout = ""
			changed = append(changed, "search.timeout")
		}
		if configUnsetHistoryEnabled {
			ctx.cfg.History.Enabled = nil
			changed = append(changed, "history.enabled")
		}
		if configUnsetHistoryMax {
			ctx.cfg.History.MaxEntries = 0
			changed = append(changed, "history.max_entries")
		}

		if len(changed) == 0 {
			return handleErrorMsg(ErrMissingArgument, "no fields selected; pass one or more unset flags", "")
		}

		if err := config.SaveTo(ctx.configPath, ctx.cfg); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			data := configData(ctx)
			data["changed"] = changed
			outputSuccess(data, nil)
			return nil
		}

		fmt.Printf("Updated config: %s\n", ctx.configPath)
		fmt.Printf("cleared: %s\n", strings.Join(changed, ", "))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current global config.toml values",
		Args:  cobra.NoArgs,
		RunE:  runConfigShow,
	})

	configSetCmd.Flags().StringVar(&configSetDefaultFile, "default-file", "", "Set the default scene export path")
	configSetCmd.Flags().StringVar(&configSetStateFile, "state-file", "", "Set state.toml path (absolute or relative to config directory)")
	configSetCmd.Flags().StringVar(&configSetUIColor, "ui-color", "", "Set color mode (auto|always|never)")
	configSetCmd.Flags().StringVar(&configSetUIAccent, "ui-accent", "", "Set UI accent color (ANSI 0-255 or #RRGGBB)")
	configSetCmd.Flags().StringVar(&configSetUICodeTheme, "ui-code-theme", "", "Set markdown code theme name")
	configSetCmd.Flags().StringVar(&configSetSearchLimit, "search-limit", "", "Set default display cap for matches (0 = no cap)")
	configSetCmd.Flags().StringVar(&configSetSearchTimeout, "search-timeout", "", "Set default per-search timeout (e.g. 10s)")
	configSetCmd.Flags().StringVar(&configSetHistoryEnabled, "history-enabled", "", "Turn history recording on or off (true|false)")
	configSetCmd.Flags().StringVar(&configSetHistoryMax, "history-max", "", "Set the history entry cap")

	configUnsetCmd.Flags().BoolVar(&configUnsetDefaultFile, "default-file", false, "Clear default_file")
	configUnsetCmd.Flags().BoolVar(&configUnsetStateFile, "state-file", false, "Clear state_file")
	configUnsetCmd.Flags().BoolVar(&configUnsetUIColor, "ui-color", false, "Clear ui.color")
	configUnsetCmd.Flags().BoolVar(&configUnsetUIAccent, "ui-accent", false, "Clear ui.accent")
	configUnsetCmd.Flags().BoolVar(&configUnsetUICodeTheme, "ui-code-theme", false, "Clear ui.code_theme")
	configUnsetCmd.Flags().BoolVar(&configUnsetSearchLimit, "search-limit", false, "Clear search.limit")
	configUnsetCmd.Flags().BoolVar(&configUnsetSearchTimeout, "search-timeout", false, "Clear search.timeout")
	configUnsetCmd.Flags().BoolVar(&configUnsetHistoryEnabled, "history-enabled", false, "Reset history.enabled to the default (on)")
	configUnsetCmd.Flags().BoolVar(&configUnsetHistoryMax, "history-max", false, "Reset history.max_entries to the default")

	rootCmd.AddCommand(configCmd)
}
