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

// persistedConfig mirrors Config with omitempty semantics so saving a
// mostly-default config produces a mostly-empty file.
type persistedConfig struct {
	DefaultFile *string              `toml:"default_file,omitempty"`
	StateFile   *string              `toml:"state_file,omitempty"`
	UI          *persistedUISettings `toml:"ui,omitempty"`
	History     *persistedHistory    `toml:"history,omitempty"`
	Search      *persistedSearch     `toml:"search,omitempty"`
}

type persistedUISettings struct {
	Color     *string `toml:"color,omitempty"`
	Accent    *string `toml:"accent,omitempty"`
	CodeTheme *string `toml:"code_theme,omitempty"`
}

type persistedHistory struct {
	Enabled    *bool `toml:"enabled,omitempty"`
	MaxEntries *int  `toml:"max_entries,omitempty"`
}

type persistedSearch struct {
	Limit   *int    `toml:"limit,omitempty"`
	Timeout *string `toml:"timeout,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func positivePtr(value int) *int {
	if value <= 0 {
		return nil
	}
	return &value
}

// Save writes the global config to the default config path.
func Save(cfg *Config) error {
	return SaveTo(DefaultPath(), cfg)
}

// SaveTo writes the global config to a specific path atomically.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{
		DefaultFile: nonEmptyPtr(cfg.DefaultFile),
		StateFile:   nonEmptyPtr(cfg.StateFile),
	}

	color := nonEmptyPtr(cfg.UI.Color)
	accent := nonEmptyPtr(cfg.UI.Accent)
	codeTheme := nonEmptyPtr(cfg.UI.CodeTheme)
	if color != nil || accent != nil || codeTheme != nil {
		out.UI = &persistedUISettings{
			Color:     color,
			Accent:    accent,
			CodeTheme: codeTheme,
		}
	}

	maxEntries := positivePtr(cfg.History.MaxEntries)
	if cfg.History.Enabled != nil || maxEntries != nil {
		out.History = &persistedHistory{
			Enabled:    cfg.History.Enabled,
			MaxEntries: maxEntries,
		}
	}

	limit := positivePtr(cfg.Search.Limit)
	timeout := nonEmptyPtr(cfg.Search.Timeout)
	if limit != nil || timeout != nil {
		out.Search = &persistedSearch{
			Limit:   limit,
			Timeout: timeout,
		}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}
