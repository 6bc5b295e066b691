// Package ghclient provides a GitHub API client using go-github. skillset
// uses it as a fallback when raw content cannot be fetched anonymously, which
// is the case for private source repositories.
package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-github/v67/github"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when the requested path does not exist at the ref
var ErrNotFound = errors.New("not found on GitHub")

// Client wraps the go-github client
type Client struct {
	gh            *github.Client
	authenticated bool
}

// New creates a new GitHub client
// Token resolution order: GITHUB_TOKEN, GH_TOKEN, gh CLI config, unauthenticated
func New() *Client {
	token := getToken()

	var httpClient *http.Client
	authenticated := false

	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
		authenticated = true
	}

	return &Client{
		gh:            github.NewClient(httpClient),
		authenticated: authenticated,
	}
}

// NewForHost creates a GitHub client for a specific host (GitHub Enterprise)
func NewForHost(host string) *Client {
	c := New()

	if host != "" && host != "github.com" && host != "api.github.com" {
		baseURL := fmt.Sprintf("https://%s/api/v3/", host)
		c.gh.BaseURL, _ = url.Parse(baseURL)
		uploadURL := fmt.Sprintf("https://%s/api/uploads/", host)
		c.gh.UploadURL, _ = url.Parse(uploadURL)
	}

	return c
}

// SetBaseURL points the client at a different API endpoint
func (c *Client) SetBaseURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return errors.Wrap(err, "invalid GitHub API URL")
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	c.gh.BaseURL = u
	return nil
}

// IsAuthenticated returns true if the client has a token
func (c *Client) IsAuthenticated() bool {
	return c.authenticated
}

// GetContents fetches a file's content from a repository at ref
func (c *Client) GetContents(ctx context.Context, owner, repo, path, ref string) ([]byte, error) {
	var opts *github.RepositoryContentGetOptions
	if ref != "" {
		opts = &github.RepositoryContentGetOptions{Ref: ref}
	}

	fileContent, _, resp, err := c.gh.Repositories.GetContents(ctx, owner, repo, path, opts)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil, errors.Wrapf(ErrNotFound, "%s/%s/%s@%s", owner, repo, path, ref)
		}
		return nil, errors.Wrap(err, "failed to get contents")
	}

	if fileContent == nil {
		return nil, errors.Errorf("%s is a directory, not a file", path)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode content")
	}

	return []byte(content), nil
}

// getToken attempts to get a GitHub token from various sources
func getToken() string {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return token
	}

	// gh CLI compat
	if token := os.Getenv("GH_TOKEN"); token != "" {
		return token
	}

	if token := readGhToken(); token != "" {
		return token
	}

	// Unauthenticated (60 req/hr)
	return ""
}

// ghHostsConfig represents the gh CLI hosts.yml config
type ghHostsConfig map[string]struct {
	OAuthToken string `yaml:"oauth_token"`
}

// readGhToken reads the GitHub token from gh CLI config
func readGhToken() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	hostsPath := filepath.Join(homeDir, ".config", "gh", "hosts.yml")
	data, err := os.ReadFile(hostsPath)
	if err != nil {
		return ""
	}

	var hosts ghHostsConfig
	if err := yaml.Unmarshal(data, &hosts); err != nil {
		return ""
	}
	if host, ok := hosts["github.com"]; ok && host.OAuthToken != "" {
		return host.OAuthToken
	}
	return ""
}
