package cmd

import (
	"github.com/spf13/viper"

	"github.com/kennyg/skillset/internal/config"
	"github.com/kennyg/skillset/internal/fetch"
	"github.com/kennyg/skillset/internal/ghclient"
	"github.com/kennyg/skillset/internal/local"
	"github.com/kennyg/skillset/internal/registry"
	"github.com/kennyg/skillset/internal/source"
)

// project bundles what every command reads before acting
type project struct {
	paths    *config.Paths
	registry *registry.Registry
	state    *config.State
	store    *local.Store
}

// loadProject resolves paths, loads the registry and the current state. A
// registry that is missing or malformed ends the process.
func loadProject() *project {
	paths, err := config.GetPaths(viper.GetString("dir"))
	if err != nil {
		exitWithError(err.Error())
	}

	reg, err := registry.Load(paths.RegistryFile)
	if err != nil {
		exitWithError(err.Error())
	}

	return &project{
		paths:    paths,
		registry: reg,
		state:    config.LoadState(paths.StateFile),
		store:    local.New(paths.SkillsDir, paths.AgentsDir),
	}
}

// loadSource resolves the source repository and ref. Values from config or
// SKILLSET_SOURCE_REPO / SKILLSET_SOURCE_REF win over the files in .claude.
func loadSource(paths *config.Paths) (*source.Source, error) {
	src, err := source.Load(
		paths.SourceRepoFile,
		paths.SourceRefFile,
		viper.GetString("source_repo"),
		viper.GetString("source_ref"),
	)
	if err != nil {
		return nil, err
	}
	if rawHost := viper.GetString("raw_host"); rawHost != "" {
		src.RawHost = rawHost
	}
	return src, nil
}

// newGitHub builds the contents API client for the source host. The
// github_api_url key points it at a different API endpoint.
func newGitHub(src *source.Source) (*ghclient.Client, error) {
	gh := ghclient.NewForHost(src.Host)
	if apiURL := viper.GetString("github_api_url"); apiURL != "" {
		if err := gh.SetBaseURL(apiURL); err != nil {
			return nil, err
		}
	}
	return gh, nil
}

// newRemote builds a fetcher bound to the configured source
func newRemote(paths *config.Paths) *fetch.Remote {
	src, err := loadSource(paths)
	if err != nil {
		exitWithError(err.Error())
	}

	gh, err := newGitHub(src)
	if err != nil {
		exitWithError(err.Error())
	}

	client := fetch.NewClient(
		fetch.WithTimeout(viper.GetDuration("timeout")),
		fetch.WithGitHub(gh),
	)
	return client.ForSource(src)
}
