package config

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/kennyg/skillset/internal/artifact"
)

// Everything skillset reads or writes lives under the project's .claude directory:
//   .claude/skillsets.json          catalog (or skillsets.yaml / skillsets.yml)
//   .claude/skillset-state.json     active skillset, installed and pinned names
//   .claude/skillset-source-repo    optional owner/repo override
//   .claude/skillset-source-ref     optional branch/tag/commit override
//   .claude/skills/<name>/SKILL.md  materialized skills
//   .claude/agents/<name>.md        materialized agents

const (
	// ConfigDir is the subdirectory name under $XDG_CONFIG_HOME for user config
	ConfigDir = "skillset"
	// RegistryFile is the default catalog filename
	RegistryFile = "skillsets.json"
	// StateFile is the filename for tracking the active skillset
	StateFile = "skillset-state.json"
	// SourceRepoFile optionally names the source repository
	SourceRepoFile = "skillset-source-repo"
	// SourceRefFile optionally names the source ref
	SourceRefFile = "skillset-source-ref"
)

// registryCandidates are tried in order when locating the catalog
var registryCandidates = []string{RegistryFile, "skillsets.yaml", "skillsets.yml"}

// Paths holds the various paths skillset uses
type Paths struct {
	// Root is the project root
	Root string
	// ClaudeDir is <root>/.claude
	ClaudeDir string

	SkillsDir string // <root>/.claude/skills
	AgentsDir string // <root>/.claude/agents

	RegistryFile   string
	StateFile      string
	SourceRepoFile string
	SourceRefFile  string
}

// GetPaths returns the standard paths for the project at root. An empty root
// means: walk up from the working directory to the nearest project.
func GetPaths(root string) (*Paths, error) {
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, errors.Wrap(err, "failed to get working directory")
		}
		root = FindProjectRoot(cwd)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid project directory %s", root)
	}

	claudeDir := filepath.Join(abs, artifact.ClaudeDirName)

	return &Paths{
		Root:           abs,
		ClaudeDir:      claudeDir,
		SkillsDir:      filepath.Join(claudeDir, artifact.SkillsDirName),
		AgentsDir:      filepath.Join(claudeDir, artifact.AgentsDirName),
		RegistryFile:   findRegistry(claudeDir),
		StateFile:      filepath.Join(claudeDir, StateFile),
		SourceRepoFile: filepath.Join(claudeDir, SourceRepoFile),
		SourceRefFile:  filepath.Join(claudeDir, SourceRefFile),
	}, nil
}

// UserConfigDir returns $XDG_CONFIG_HOME/skillset (or ~/.config/skillset)
func UserConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, ConfigDir)
}

// findRegistry returns the first existing catalog file, or the JSON default
func findRegistry(claudeDir string) string {
	for _, name := range registryCandidates {
		candidate := filepath.Join(claudeDir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return filepath.Join(claudeDir, RegistryFile)
}

// FindProjectRoot walks up from start looking for a .claude directory or a
// .git entry. If neither is found, start itself is returned.
func FindProjectRoot(start string) string {
	dir := start
	for {
		candidate := filepath.Join(dir, artifact.ClaudeDirName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return dir
		}

		// Also check for .git to stop at repo root
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break // reached filesystem root
		}
		dir = parent
	}

	return start
}

// EnsureDirs creates the install directories
func (p *Paths) EnsureDirs() error {
	for _, dir := range []string{p.ClaudeDir, p.SkillsDir, p.AgentsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrapf(err, "failed to create %s", dir)
		}
	}
	return nil
}
