package config

import (
	"os"
	"strings"
)

// FileEnv names the environment variable carrying a scene export path.
const FileEnv = "FIGQ_FILE"

// SceneSource says where the resolved scene path came from.
type SceneSource string

const (
	SceneFromFlag    SceneSource = "flag"
	SceneFromEnv     SceneSource = "env"
	SceneFromState   SceneSource = "state"
	SceneFromProject SceneSource = "project"
	SceneFromConfig  SceneSource = "config"
	SceneUnset       SceneSource = ""
)

// ResolveSceneFile picks the scene export to open. Precedence:
//  1. --file flag
//  2. FIGQ_FILE environment variable
//  3. state.toml active scene (set by the last successful open)
//  4. project figq.yaml
//  5. global config default_file
func ResolveSceneFile(flagPath string, state *State, project *ProjectConfig, cfg *Config) (string, SceneSource) {
	if p := strings.TrimSpace(flagPath); p != "" {
		return p, SceneFromFlag
	}
	if p := strings.TrimSpace(os.Getenv(FileEnv)); p != "" {
		return p, SceneFromEnv
	}
	if state != nil {
		if p := strings.TrimSpace(state.ActiveScene); p != "" {
			return p, SceneFromState
		}
	}
	if p := project.ScenePath(); p != "" {
		return p, SceneFromProject
	}
	if cfg != nil {
		if p := strings.TrimSpace(cfg.DefaultFile); p != "" {
			return p, SceneFromConfig
		}
	}
	return "", SceneUnset
}

// ResolveStartPage picks the page a search starts on: runtime state
// first, then the project default. Empty means the document's first
// page.
func ResolveStartPage(state *State, project *ProjectConfig) string {
	if state != nil {
		if p := strings.TrimSpace(state.CurrentPage); p != "" {
			return p
		}
	}
	if project != nil {
		if p := strings.TrimSpace(project.Page); p != "" {
			return p
		}
	}
	return ""
}
