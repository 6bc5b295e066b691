package source

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

const (
	// DefaultRepo is used when no source repository is configured
	DefaultRepo = "brrichards/claude-codespace-setup"
	// DefaultRef is used when no ref is configured
	DefaultRef = "main"
	// DefaultRawHost serves raw file content for public GitHub
	DefaultRawHost = "https://raw.githubusercontent.com"
)

// Source identifies where skill and agent documents are fetched from
type Source struct {
	Host     string // GitHub host (github.com or GHE hostname)
	Owner    string // GitHub owner
	Repo     string // GitHub repo
	Path     string // Optional subpath within repo holding skills/ and agents/
	Ref      string // Git ref (branch, tag, commit)
	RawHost  string // Optional raw-content base URL override (mirrors, tests)
	Original string // Original input string
}

var (
	// Matches owner/repo or owner/repo:path
	githubShorthand = regexp.MustCompile(`^([a-zA-Z0-9_-]+)/([a-zA-Z0-9_.-]+)(?::(.+))?$`)

	// Matches owner/repo@ref or owner/repo:path@ref
	githubWithRef = regexp.MustCompile(`^([a-zA-Z0-9_-]+)/([a-zA-Z0-9_.-]+)(?::([^@]+))?@(.+)$`)
)

// Load resolves the source from the optional repo and ref files. Overrides
// win over file content; missing or blank files fall back to the defaults.
func Load(repoFile, refFile, repoOverride, refOverride string) (*Source, error) {
	repo := firstNonEmpty(repoOverride, readTrimmed(repoFile), DefaultRepo)

	src, err := Parse(repo)
	if err != nil {
		return nil, err
	}

	if ref := firstNonEmpty(refOverride, readTrimmed(refFile)); ref != "" {
		src.Ref = ref
	}
	return src, nil
}

// readTrimmed returns the trimmed content of path, or "" if it can't be read
func readTrimmed(path string) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Parse parses a repository reference into a Source. Accepted forms:
//
//	owner/repo
//	owner/repo@ref
//	owner/repo:path@ref
//	https://github.com/owner/repo/tree/ref/path
//	https://raw.githubusercontent.com/owner/repo/ref/path
//	https://github.company.com/owner/repo
func Parse(input string) (*Source, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, errors.New("empty source")
	}

	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		return parseURL(input)
	}

	if matches := githubWithRef.FindStringSubmatch(input); matches != nil {
		return &Source{
			Host:     "github.com",
			Owner:    matches[1],
			Repo:     matches[2],
			Path:     matches[3],
			Ref:      matches[4],
			Original: input,
		}, nil
	}

	if matches := githubShorthand.FindStringSubmatch(input); matches != nil {
		return &Source{
			Host:     "github.com",
			Owner:    matches[1],
			Repo:     matches[2],
			Path:     matches[3],
			Ref:      DefaultRef,
			Original: input,
		}, nil
	}

	return nil, errors.Errorf("unable to parse source: %s", input)
}

// parseURL parses GitHub URLs (public or enterprise)
func parseURL(input string) (*Source, error) {
	u, err := url.Parse(input)
	if err != nil {
		return nil, errors.Wrap(err, "invalid URL")
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, errors.Errorf("invalid GitHub URL: %s", input)
	}

	host := strings.ToLower(u.Host)
	raw := false
	if host == "raw.githubusercontent.com" {
		host = "github.com"
		raw = true
	} else if strings.HasPrefix(host, "raw.") {
		host = strings.TrimPrefix(host, "raw.")
		raw = true
	}

	src := &Source{
		Host:     host,
		Owner:    parts[0],
		Repo:     strings.TrimSuffix(parts[1], ".git"),
		Ref:      DefaultRef,
		Original: input,
	}

	switch {
	// raw.githubusercontent.com/owner/repo/ref/path
	case raw && len(parts) >= 3:
		src.Ref = parts[2]
		src.Path = strings.Join(parts[3:], "/")
	// github.com/owner/repo/tree/ref/path, /blob/ or GHE /raw/
	case len(parts) >= 4 && (parts[2] == "tree" || parts[2] == "blob" || parts[2] == "raw"):
		src.Ref = parts[3]
		src.Path = strings.Join(parts[4:], "/")
	}

	return src, nil
}

// RawURL returns the raw content URL for a path inside the source
func (s *Source) RawURL(path string) string {
	fullPath := s.RepoPath(strings.TrimPrefix(path, "/"))

	if s.RawHost != "" {
		return fmt.Sprintf("%s/%s/%s/%s/%s",
			strings.TrimSuffix(s.RawHost, "/"), s.Owner, s.Repo, s.Ref, fullPath)
	}

	// Public GitHub
	if !s.IsEnterprise() {
		return fmt.Sprintf("%s/%s/%s/%s/%s", DefaultRawHost, s.Owner, s.Repo, s.Ref, fullPath)
	}

	// GitHub Enterprise - use /raw/ path
	return fmt.Sprintf("https://%s/%s/%s/raw/%s/%s",
		s.Host, s.Owner, s.Repo, s.Ref, fullPath)
}

// RepoPath returns the path of a file within the repository, including any subpath
func (s *Source) RepoPath(path string) string {
	if s.Path == "" {
		return path
	}
	return strings.TrimSuffix(s.Path, "/") + "/" + path
}

// IsEnterprise returns true if this is a GitHub Enterprise source
func (s *Source) IsEnterprise() bool {
	return s.Host != "" && s.Host != "github.com"
}

// String returns a human-readable representation
func (s *Source) String() string {
	result := fmt.Sprintf("%s/%s", s.Owner, s.Repo)
	if s.IsEnterprise() {
		result = s.Host + "/" + result
	}
	if s.Path != "" {
		result += ":" + s.Path
	}
	if s.Ref != "" {
		result += "@" + s.Ref
	}
	return result
}
