package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveStatePath(t *testing.T) {
	configPath := "/tmp/figq/config.toml"
	t.Setenv(StateDirEnv, "")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")

	t.Run("explicit state path wins", func(t *testing.T) {
		got := ResolveStatePath("/tmp/custom/state.toml", configPath, &Config{
			StateFile: "state-from-config.toml",
		})
		if got != "/tmp/custom/state.toml" {
			t.Fatalf("expected explicit state path, got %q", got)
		}
	})

	t.Run("environment directory wins over config", func(t *testing.T) {
		t.Setenv(StateDirEnv, "/run/figq")
		got := ResolveStatePath("", configPath, &Config{
			StateFile: "state-from-config.toml",
		})
		if got != filepath.Join("/run/figq", "state.toml") {
			t.Fatalf("expected env state path, got %q", got)
		}
	})

	t.Run("config state_file absolute", func(t *testing.T) {
		got := ResolveStatePath("", configPath, &Config{
			StateFile: "/var/tmp/figq-state.toml",
		})
		if got != "/var/tmp/figq-state.toml" {
			t.Fatalf("expected absolute state path, got %q", got)
		}
	})

	t.Run("config state_file relative to config dir", func(t *testing.T) {
		got := ResolveStatePath("", "/Users/me/.config/figq/config.toml", &Config{
			StateFile: "runtime/state.toml",
		})
		want := "/Users/me/.config/figq/runtime/state.toml"
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})

	t.Run("fallback to xdg state dir", func(t *testing.T) {
		got := ResolveStatePath("", configPath, &Config{})
		want := filepath.Join("/xdg/state", "figq", "state.toml")
		if got != want {
			t.Fatalf("expected %q, got %q", want, got)
		}
	})
}

func TestLoadStateMissingReturnsDefault(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "state.toml")

	state, err := LoadState(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if state.Version != StateVersion {
		t.Fatalf("expected version %d, got %d", StateVersion, state.Version)
	}
	if state.ActiveScene != "" {
		t.Fatalf("expected empty active scene, got %q", state.ActiveScene)
	}
}

func TestSaveStateRoundTrip(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "state.toml")

	err := SaveState(path, &State{
		ActiveScene: "/designs/export.json",
		CurrentPage: "Home",
		Selection:   []string{"1:2", " 1:3 ", "1:2", ""},
	})
	if err != nil {
		t.Fatalf("save state: %v", err)
	}

	loaded, err := LoadState(path)
	if err != nil {
		t.Fatalf("load state: %v", err)
	}
	if loaded.Version != StateVersion {
		t.Fatalf("expected version %d, got %d", StateVersion, loaded.Version)
	}
	if loaded.ActiveScene != "/designs/export.json" {
		t.Fatalf("expected active scene, got %q", loaded.ActiveScene)
	}
	if loaded.CurrentPage != "Home" {
		t.Fatalf("expected current_page=Home, got %q", loaded.CurrentPage)
	}
	// Selection is trimmed and deduplicated.
	if len(loaded.Selection) != 2 || loaded.Selection[0] != "1:2" || loaded.Selection[1] != "1:3" {
		t.Fatalf("expected normalized selection, got %v", loaded.Selection)
	}
}

func TestSaveToWritesConfiguredFields(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.toml")

	enabled := false
	err := SaveTo(path, &Config{
		DefaultFile: "/designs/export.json",
		StateFile:   "state.toml",
		History:     HistoryConfig{Enabled: &enabled, MaxEntries: 100},
		Search:      SearchConfig{Limit: 25, Timeout: "5s"},
	})
	if err != nil {
		t.Fatalf("save config: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	content := string(data)
	for _, want := range []string{
		`default_file = "/designs/export.json"`,
		`state_file = "state.toml"`,
		"[history]",
		"max_entries = 100",
		"[search]",
		"limit = 25",
		`timeout = "5s"`,
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, content)
		}
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if loaded.HistoryEnabled() {
		t.Fatal("expected history disabled")
	}
	if loaded.HistoryLimit() != 100 {
		t.Fatalf("expected history limit 100, got %d", loaded.HistoryLimit())
	}
}

func TestHistoryDefaults(t *testing.T) {
	cfg := &Config{}
	if !cfg.HistoryEnabled() {
		t.Fatal("history should default to enabled")
	}
	if cfg.HistoryLimit() != DefaultMaxHistoryEntries {
		t.Fatalf("expected default limit %d, got %d", DefaultMaxHistoryEntries, cfg.HistoryLimit())
	}
}
