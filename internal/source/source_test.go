package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    *Source
		wantErr bool
	}{
		{
			name:  "simple owner/repo",
			input: "kennyg/skillset",
			want: &Source{
				Host:     "github.com",
				Owner:    "kennyg",
				Repo:     "skillset",
				Ref:      "main",
				Original: "kennyg/skillset",
			},
		},
		{
			name:  "owner/repo with ref",
			input: "kennyg/skillset@v1.0.0",
			want: &Source{
				Host:     "github.com",
				Owner:    "kennyg",
				Repo:     "skillset",
				Ref:      "v1.0.0",
				Original: "kennyg/skillset@v1.0.0",
			},
		},
		{
			name:  "owner/repo with path and ref",
			input: "kennyg/skillset:catalog@develop",
			want: &Source{
				Host:     "github.com",
				Owner:    "kennyg",
				Repo:     "skillset",
				Path:     "catalog",
				Ref:      "develop",
				Original: "kennyg/skillset:catalog@develop",
			},
		},
		{
			name:  "repo with dots in name",
			input: "kennyg/my.repo.name",
			want: &Source{
				Host:     "github.com",
				Owner:    "kennyg",
				Repo:     "my.repo.name",
				Ref:      "main",
				Original: "kennyg/my.repo.name",
			},
		},
		{
			name:  "github tree URL",
			input: "https://github.com/kennyg/skillset/tree/release/profiles",
			want: &Source{
				Host:     "github.com",
				Owner:    "kennyg",
				Repo:     "skillset",
				Path:     "profiles",
				Ref:      "release",
				Original: "https://github.com/kennyg/skillset/tree/release/profiles",
			},
		},
		{
			name:  "plain github URL with .git",
			input: "https://github.com/kennyg/skillset.git",
			want: &Source{
				Host:     "github.com",
				Owner:    "kennyg",
				Repo:     "skillset",
				Ref:      "main",
				Original: "https://github.com/kennyg/skillset.git",
			},
		},
		{
			name:  "raw githubusercontent URL",
			input: "https://raw.githubusercontent.com/kennyg/skillset/v2",
			want: &Source{
				Host:     "github.com",
				Owner:    "kennyg",
				Repo:     "skillset",
				Ref:      "v2",
				Original: "https://raw.githubusercontent.com/kennyg/skillset/v2",
			},
		},
		{
			name:  "GHE URL",
			input: "https://github.company.com/team/skills",
			want: &Source{
				Host:     "github.company.com",
				Owner:    "team",
				Repo:     "skills",
				Ref:      "main",
				Original: "https://github.company.com/team/skills",
			},
		},
		{name: "empty", input: "   ", wantErr: true},
		{name: "no slash", input: "justarepo", wantErr: true},
		{name: "URL without repo", input: "https://github.com/kennyg", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	repoFile := filepath.Join(dir, "skillset-source-repo")
	refFile := filepath.Join(dir, "skillset-source-ref")

	t.Run("defaults when files are missing", func(t *testing.T) {
		src, err := Load(repoFile, refFile, "", "")
		require.NoError(t, err)
		assert.Equal(t, "brrichards", src.Owner)
		assert.Equal(t, "claude-codespace-setup", src.Repo)
		assert.Equal(t, DefaultRef, src.Ref)
	})

	t.Run("blank files fall back to defaults", func(t *testing.T) {
		require.NoError(t, os.WriteFile(repoFile, []byte("  \n"), 0644))
		require.NoError(t, os.WriteFile(refFile, []byte("\n"), 0644))

		src, err := Load(repoFile, refFile, "", "")
		require.NoError(t, err)
		assert.Equal(t, "brrichards/claude-codespace-setup@main", src.String())
	})

	t.Run("files are trimmed and used", func(t *testing.T) {
		require.NoError(t, os.WriteFile(repoFile, []byte("acme/agent-kit\n"), 0644))
		require.NoError(t, os.WriteFile(refFile, []byte(" v3 \n"), 0644))

		src, err := Load(repoFile, refFile, "", "")
		require.NoError(t, err)
		assert.Equal(t, "acme/agent-kit@v3", src.String())
	})

	t.Run("overrides beat files", func(t *testing.T) {
		src, err := Load(repoFile, refFile, "other/kit", "dev")
		require.NoError(t, err)
		assert.Equal(t, "other/kit@dev", src.String())
	})

	t.Run("ref in repo string kept without ref file", func(t *testing.T) {
		src, err := Load(repoFile, "", "other/kit@feature", "")
		require.NoError(t, err)
		assert.Equal(t, "feature", src.Ref)
	})

	t.Run("bad repo is an error", func(t *testing.T) {
		_, err := Load("", "", "not a repo", "")
		assert.Error(t, err)
	})
}

func TestRawURL(t *testing.T) {
	tests := []struct {
		name string
		src  Source
		path string
		want string
	}{
		{
			name: "public",
			src:  Source{Host: "github.com", Owner: "o", Repo: "r", Ref: "main"},
			path: "skills/review/SKILL.md",
			want: "https://raw.githubusercontent.com/o/r/main/skills/review/SKILL.md",
		},
		{
			name: "public with subpath",
			src:  Source{Host: "github.com", Owner: "o", Repo: "r", Ref: "v1", Path: "ff-profiles/"},
			path: "agents/planner.md",
			want: "https://raw.githubusercontent.com/o/r/v1/ff-profiles/agents/planner.md",
		},
		{
			name: "enterprise",
			src:  Source{Host: "github.company.com", Owner: "o", Repo: "r", Ref: "main"},
			path: "agents/planner.md",
			want: "https://github.company.com/o/r/raw/main/agents/planner.md",
		},
		{
			name: "raw host override",
			src:  Source{Host: "github.com", Owner: "o", Repo: "r", Ref: "main", RawHost: "http://127.0.0.1:9999/"},
			path: "/skills/x/SKILL.md",
			want: "http://127.0.0.1:9999/o/r/main/skills/x/SKILL.md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.src.RawURL(tt.path))
		})
	}
}

func TestString(t *testing.T) {
	src := &Source{Host: "github.company.com", Owner: "o", Repo: "r", Path: "p", Ref: "main"}
	assert.Equal(t, "github.company.com/o/r:p@main", src.String())
	assert.True(t, src.IsEnterprise())
}
