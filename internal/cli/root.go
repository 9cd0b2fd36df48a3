// Package cli implements the command-line interface.
package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gabrielrenderos/figq/internal/config"
	"github.com/gabrielrenderos/figq/internal/ui"
)

var (
	// Global flags
	scenePathFlag string // --file/-f
	configPath    string
	statePathFlag string
	quiet         bool

	// Resolved values
	resolvedConfigPath string
	resolvedStatePath  string
	resolvedScenePath  string
	sceneSource        config.SceneSource
	cfg                *config.Config
	runState           *config.State
	project            *config.ProjectConfig
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "figq",
	Short: "figq - find layers in Figma scene exports",
	Long: `figq runs path-like layer queries against Figma file exports.

Point it at an export (the JSON from GET /v1/files/:key) and search it
the way you would scan the layers panel: '@Card/=Title' finds text
layers named Title under frames named Card, '&Cover --2' picks the
second image named Cover in visual order.

Start with 'figq docs' for the query language.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip resolution for commands that need nothing from disk.
		switch cmd.Name() {
		case "version", "completion", "help":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		// Load config
		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cfg == nil {
			cfg = &config.Config{}
		}
		resolvedStatePath = config.ResolveStatePath(statePathFlag, resolvedConfigPath, cfg)
		ui.ConfigureColorMode(cfg.UI.Color)
		ui.ConfigureTheme(cfg.UI.Accent)
		ui.ConfigureMarkdownCodeTheme(cfg.UI.CodeTheme)

		runState, err = config.LoadState(resolvedStatePath)
		if err != nil {
			return fmt.Errorf("failed to load state: %w", err)
		}

		// Project config from the working directory first; when the
		// scene came from outside it (flag, env), prefer a figq.yaml
		// sitting next to the scene file.
		project, err = config.FindProjectConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load project config: %w", err)
		}
		resolvedScenePath, sceneSource = config.ResolveSceneFile(scenePathFlag, runState, project, cfg)
		if resolvedScenePath != "" {
			sceneProject, projErr := config.FindProjectConfig(sceneDir(resolvedScenePath))
			if projErr != nil {
				return fmt.Errorf("failed to load project config: %w", projErr)
			}
			if sceneProject != nil {
				project = sceneProject
			}
		}

		// Missing scenes are not an error here: docs, history, config
		// and friends run without one. Commands that need the document
		// call requireScene.
		return nil
	},
}

// errJSONReported forces a nonzero exit after an error envelope was
// already written; Cobra never sees it, so nothing prints twice.
var errJSONReported = errors.New("error reported in JSON output")

// Execute runs the CLI.
func Execute() error {
	syncRegistryMetadata(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		return err
	}
	if errorEmitted {
		return errJSONReported
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&scenePathFlag, "file", "f", "", "Scene export JSON (falls back to FIGQ_FILE, then the active scene)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&statePathFlag, "state", "", "Path to state file (overrides state_file in config)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for script use)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress spinners and hints")
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	return cfg
}

// getState returns the loaded runtime state.
func getState() *config.State {
	if runState == nil {
		runState = &config.State{Version: config.StateVersion}
	}
	return runState
}

// getStatePath returns the resolved state file path.
func getStatePath() string {
	return resolvedStatePath
}

// getConfigPath returns the resolved global config path.
func getConfigPath() string {
	return resolvedConfigPath
}

// getProject returns the project config, nil when none was found.
func getProject() *config.ProjectConfig {
	return project
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := config.ResolveConfigPath(configPath)

	var loadedCfg *config.Config
	var err error
	if strings.TrimSpace(configPath) != "" {
		loadedCfg, err = config.LoadFrom(configPath)
	} else {
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}

	return loadedCfg, resolvedPath, nil
}
