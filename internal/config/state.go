package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/gabrielrenderos/figq/internal/atomicfile"
)

const (
	// StateVersion is the current state file schema version.
	StateVersion = 1

	// StateDirEnv overrides where state.toml lives.
	StateDirEnv = "FIGQ_STATE_DIR"
)

// State represents mutable machine-local runtime state: the scene the
// user is working in and the host-selection context searches run
// against.
type State struct {
	Version int `toml:"version"`

	// ActiveScene is the path of the most recently opened scene export.
	ActiveScene string `toml:"active_scene,omitempty"`

	// CurrentPage is the name of the page searches start on; empty
	// means the document's first page.
	CurrentPage string `toml:"current_page,omitempty"`

	// Selection holds node IDs acting as the host selection for scope
	// resolution.
	Selection []string `toml:"selection,omitempty"`
}

// ResolveStatePath resolves the state.toml path with precedence:
//  1. explicitStatePath flag
//  2. FIGQ_STATE_DIR environment variable
//  3. cfg.StateFile from config.toml (relative to config file dir when not absolute)
//  4. XDG state directory (~/.local/state/figq/state.toml)
func ResolveStatePath(explicitStatePath, configPath string, cfg *Config) string {
	if strings.TrimSpace(explicitStatePath) != "" {
		return explicitStatePath
	}

	if dir := strings.TrimSpace(os.Getenv(StateDirEnv)); dir != "" {
		return filepath.Join(dir, "state.toml")
	}

	if cfg != nil {
		if fromConfig := strings.TrimSpace(cfg.StateFile); fromConfig != "" {
			if isAbsoluteStatePath(fromConfig) {
				return filepath.Clean(filepath.FromSlash(fromConfig))
			}
			configDir := filepath.Dir(ResolveConfigPath(configPath))
			return filepath.Join(configDir, filepath.FromSlash(fromConfig))
		}
	}

	return filepath.Join(defaultStateDir(), "state.toml")
}

// defaultStateDir honors XDG_STATE_HOME, then ~/.local/state.
func defaultStateDir() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); dir != "" {
		return filepath.Join(dir, "figq")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state", "figq")
	}
	return filepath.Join(".", ".figq")
}

func isAbsoluteStatePath(p string) bool {
	if filepath.IsAbs(p) {
		return true
	}
	// Treat slash-rooted config values as absolute on every OS.
	return strings.HasPrefix(filepath.ToSlash(strings.TrimSpace(p)), "/")
}

// LoadState loads state.toml from a specific path.
// Returns a default state when the file does not exist.
func LoadState(path string) (*State, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("state path is required")
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &State{Version: StateVersion}, nil
	}

	var state State
	if _, err := toml.DecodeFile(path, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state %s: %w", path, err)
	}

	if state.Version == 0 {
		state.Version = StateVersion
	}
	state.ActiveScene = strings.TrimSpace(state.ActiveScene)
	state.CurrentPage = strings.TrimSpace(state.CurrentPage)
	state.Selection = normalizeSelection(state.Selection)

	return &state, nil
}

// SaveState writes state.toml atomically.
func SaveState(path string, state *State) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("state path is required")
	}
	if state == nil {
		state = &State{}
	}

	normalized := *state
	if normalized.Version == 0 {
		normalized.Version = StateVersion
	}
	normalized.ActiveScene = strings.TrimSpace(normalized.ActiveScene)
	normalized.CurrentPage = strings.TrimSpace(normalized.CurrentPage)
	normalized.Selection = normalizeSelection(normalized.Selection)

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(normalized); err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write state %s: %w", path, err)
	}

	return nil
}

func normalizeSelection(ids []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
