package config

import (
	"path/filepath"
	"testing"
)

func TestResolveSceneFile(t *testing.T) {
	t.Setenv(FileEnv, "")

	state := &State{ActiveScene: "/state/export.json"}
	project := &ProjectConfig{File: "design.json", Dir: "/proj"}
	cfg := &Config{DefaultFile: "/global/export.json"}

	t.Run("flag wins", func(t *testing.T) {
		got, src := ResolveSceneFile("/flag/export.json", state, project, cfg)
		if got != "/flag/export.json" || src != SceneFromFlag {
			t.Fatalf("got %q from %q", got, src)
		}
	})

	t.Run("env beats state", func(t *testing.T) {
		t.Setenv(FileEnv, "/env/export.json")
		got, src := ResolveSceneFile("", state, project, cfg)
		if got != "/env/export.json" || src != SceneFromEnv {
			t.Fatalf("got %q from %q", got, src)
		}
	})

	t.Run("state beats project", func(t *testing.T) {
		got, src := ResolveSceneFile("", state, project, cfg)
		if got != "/state/export.json" || src != SceneFromState {
			t.Fatalf("got %q from %q", got, src)
		}
	})

	t.Run("project beats global config", func(t *testing.T) {
		got, src := ResolveSceneFile("", &State{}, project, cfg)
		if got != filepath.Join("/proj", "design.json") || src != SceneFromProject {
			t.Fatalf("got %q from %q", got, src)
		}
	})

	t.Run("global config last", func(t *testing.T) {
		got, src := ResolveSceneFile("", nil, nil, cfg)
		if got != "/global/export.json" || src != SceneFromConfig {
			t.Fatalf("got %q from %q", got, src)
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		got, src := ResolveSceneFile("", nil, nil, &Config{})
		if got != "" || src != SceneUnset {
			t.Fatalf("got %q from %q", got, src)
		}
	})
}

func TestResolveConfigPath(t *testing.T) {
	t.Setenv(ConfigEnv, "/env/config.toml")

	if got := ResolveConfigPath("/flag/config.toml"); got != "/flag/config.toml" {
		t.Fatalf("flag should win, got %q", got)
	}
	if got := ResolveConfigPath("  "); got != "/env/config.toml" {
		t.Fatalf("blank flag should fall through to %s, got %q", ConfigEnv, got)
	}
}

func TestResolveStartPage(t *testing.T) {
	project := &ProjectConfig{Page: "Specs"}

	if got := ResolveStartPage(&State{CurrentPage: "Home"}, project); got != "Home" {
		t.Fatalf("state page should win, got %q", got)
	}
	if got := ResolveStartPage(&State{}, project); got != "Specs" {
		t.Fatalf("project page should apply, got %q", got)
	}
	if got := ResolveStartPage(nil, nil); got != "" {
		t.Fatalf("expected empty page, got %q", got)
	}
}
