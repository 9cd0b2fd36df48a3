// Package config handles global figq configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config represents the global figq configuration.
type Config struct {
	// DefaultFile is the scene export opened when no file is given on
	// the command line, in the environment, or in a project config.
	DefaultFile string `toml:"default_file"`

	// StateFile overrides where mutable state is kept. Relative paths
	// are resolved against the config file's directory.
	StateFile string `toml:"state_file"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`

	// History controls the local search-history database.
	History HistoryConfig `toml:"history"`

	// Search sets default search behavior.
	Search SearchConfig `toml:"search"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Color controls when styled output is emitted: "auto" (default,
	// TTY detection), "always", or "never". NO_COLOR also disables it.
	Color string `toml:"color"`

	// Accent is an optional accent color for CLI output and markdown
	// rendering. Supported values are ANSI color codes ("0" to "255")
	// or hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered
	// markdown code blocks. Example values: "monokai", "dracula",
	// "github", "nord".
	CodeTheme string `toml:"code_theme"`
}

// HistoryConfig controls search-history recording.
type HistoryConfig struct {
	// Enabled turns history recording on or off. Defaults to on; set
	// explicitly to false to opt out.
	Enabled *bool `toml:"enabled"`

	// MaxEntries caps the number of stored searches. Older entries are
	// pruned past the cap. 0 uses the default.
	MaxEntries int `toml:"max_entries"`
}

// DefaultMaxHistoryEntries is used when history.max_entries is unset.
const DefaultMaxHistoryEntries = 500

// HistoryEnabled reports whether search history should be recorded.
func (c *Config) HistoryEnabled() bool {
	if c.History.Enabled == nil {
		return true
	}
	return *c.History.Enabled
}

// HistoryLimit returns the effective history cap.
func (c *Config) HistoryLimit() int {
	if c.History.MaxEntries > 0 {
		return c.History.MaxEntries
	}
	return DefaultMaxHistoryEntries
}

// SearchConfig sets default search behavior.
type SearchConfig struct {
	// Limit caps how many matches are displayed (0 = no cap). The
	// engine still finds everything; this is presentation only.
	Limit int `toml:"limit"`

	// Timeout bounds a single search, as a Go duration string
	// ("500ms", "10s"). Empty means no timeout.
	Timeout string `toml:"timeout"`
}

// ConfigEnv overrides the config file path.
const ConfigEnv = "FIGQ_CONFIG"

// Load loads the configuration from the default location.
// Returns a default config if the file doesn't exist.
func Load() (*Config, error) {
	configPath := DefaultPath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return &Config{}, nil
	}

	return LoadFrom(configPath)
}

// LoadFrom loads the configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}

// DefaultPath returns the default config file path.
// Checks FIGQ_CONFIG, then ~/.config/figq/config.toml (XDG style),
// then falls back to the OS-specific location.
func DefaultPath() string {
	if override := os.Getenv(ConfigEnv); override != "" {
		return override
	}

	// Prefer XDG-style ~/.config/figq/config.toml
	if home, err := os.UserHomeDir(); err == nil {
		xdgPath := filepath.Join(home, ".config", "figq", "config.toml")
		if _, err := os.Stat(xdgPath); err == nil {
			return xdgPath
		}
	}

	// Fall back to XDG config dir or OS-specific location
	if configDir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(configDir, "figq", "config.toml")
	}

	// Last resort fallback
	return filepath.Join(".", "config.toml")
}

// XDGPath returns the XDG-style config path (~/.config/figq/config.toml).
func XDGPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "figq", "config.toml"), nil
}

// ResolveConfigPath picks the config file path: an explicit flag value
// wins over FIGQ_CONFIG and the default location.
func ResolveConfigPath(flagPath string) string {
	if p := strings.TrimSpace(flagPath); p != "" {
		return p
	}
	return DefaultPath()
}

// CreateDefault creates a default config file at the default location
// if it doesn't exist.
func CreateDefault() (string, error) {
	return CreateDefaultAt(DefaultPath())
}

// CreateDefaultAt creates a default config file at configPath if it
// doesn't exist.
func CreateDefaultAt(configPath string) (string, error) {
	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil // Already exists
	}

	// Create parent directories
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	defaultConfig := `# figq configuration

# Scene export opened when no --file flag, FIGQ_FILE variable, or
# project figq.yaml provides one.
# default_file = "/path/to/export.json"

# Search defaults.
# [search]
# limit = 50        # display cap for matches (0 = no cap)
# timeout = "10s"   # per-search timeout; empty = none

# Local search history (sqlite).
# [history]
# enabled = true
# max_entries = 500

# Terminal output. color is "auto", "always", or "never"; accent
# takes an ANSI color code (0-255) or hex (#RRGGBB).
# [ui]
# color = "auto"
# accent = "39"
# code_theme = "monokai"
`

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}

	return configPath, nil
}
