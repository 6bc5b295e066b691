package fetch

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kennyg/skillset/internal/artifact"
	"github.com/kennyg/skillset/internal/ghclient"
	"github.com/kennyg/skillset/internal/source"
)

func newTestClient(opts ...Option) *Client {
	return NewClient(append([]Option{WithRetry(3, time.Millisecond)}, opts...)...)
}

func TestFetchURL_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "---\nname: review\n---\n# Review\n")
	}))
	defer srv.Close()

	content, err := newTestClient().FetchURL(context.Background(), srv.URL+"/SKILL.md")
	require.NoError(t, err)
	assert.Equal(t, "---\nname: review\n---\n# Review\n", string(content))
}

func TestFetchURL_StatusHandling(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		wantAttempts int32
		wantNotFound bool
	}{
		{"not found is not retried", http.StatusNotFound, 1, true},
		{"gone is not found", http.StatusGone, 1, true},
		{"forbidden is not retried", http.StatusForbidden, 1, false},
		{"server error is retried", http.StatusBadGateway, 3, false},
		{"rate limit is retried", http.StatusTooManyRequests, 3, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls.Add(1)
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			_, err := newTestClient().FetchURL(context.Background(), srv.URL+"/x")
			require.Error(t, err)
			assert.Equal(t, tt.wantAttempts, calls.Load())
			assert.Equal(t, tt.wantNotFound, errors.Is(err, ErrNotFound))

			if !tt.wantNotFound {
				var se *StatusError
				require.True(t, errors.As(err, &se))
				assert.Equal(t, tt.status, se.StatusCode)
			}
		})
	}
}

func TestFetchURL_RetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	content, err := newTestClient().FetchURL(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(content))
	assert.Equal(t, int32(3), calls.Load())
}

func TestFetchURL_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(WithRetry(1, 0), WithTimeout(50*time.Millisecond))
	_, err := c.FetchURL(context.Background(), srv.URL)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestFetchURL_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient().FetchURL(context.Background(), url+"/x")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestFetchURL_TooLarge(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, strings.Repeat("a", MaxDocumentSize+1))
	}))
	defer srv.Close()

	_, err := newTestClient().FetchURL(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTooLarge))
	assert.Equal(t, int32(1), calls.Load())
}

func TestWithRetry_MinimumOneAttempt(t *testing.T) {
	c := NewClient(WithRetry(0, 0))
	assert.Equal(t, uint(1), c.attempts)
}

func TestRemote_URL(t *testing.T) {
	src := &source.Source{Host: "github.com", Owner: "acme", Repo: "kit", Ref: "v1"}
	r := NewClient().ForSource(src)

	assert.Equal(t, "https://raw.githubusercontent.com/acme/kit/v1/.claude/skills/review/SKILL.md", r.URL(artifact.Skill("review")))
	assert.Equal(t, "https://raw.githubusercontent.com/acme/kit/v1/.claude/agents/planner.md", r.URL(artifact.Agent("planner")))
	assert.Same(t, src, r.Source())
}

func TestRemote_URL_DefaultSource(t *testing.T) {
	dir := t.TempDir()
	src, err := source.Load(filepath.Join(dir, "skillset-source-repo"), filepath.Join(dir, "skillset-source-ref"), "", "")
	require.NoError(t, err)

	r := NewClient().ForSource(src)
	assert.Equal(t,
		"https://raw.githubusercontent.com/brrichards/claude-codespace-setup/main/.claude/skills/review/SKILL.md",
		r.URL(artifact.Skill("review")))
	assert.Equal(t,
		"https://raw.githubusercontent.com/brrichards/claude-codespace-setup/main/.claude/agents/planner.md",
		r.URL(artifact.Agent("planner")))
}

func TestRemote_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/acme/kit/main/.claude/skills/review/SKILL.md":
			fmt.Fprint(w, "skill body")
		case "/acme/kit/main/.claude/agents/planner.md":
			fmt.Fprint(w, "agent body")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	src := &source.Source{Host: "github.com", Owner: "acme", Repo: "kit", Ref: "main", RawHost: srv.URL}
	r := newTestClient().ForSource(src)
	ctx := context.Background()

	body, err := r.Fetch(ctx, artifact.Skill("review"))
	require.NoError(t, err)
	assert.Equal(t, "skill body", string(body))

	body, err = r.Fetch(ctx, artifact.Agent("planner"))
	require.NoError(t, err)
	assert.Equal(t, "agent body", string(body))

	_, err = r.Fetch(ctx, artifact.Agent("review"))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRemote_Fetch_GitHubFallback(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "test-token")

	raw := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer raw.Close()

	var gotAuth string
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/repos/acme/private-kit/contents/.claude/skills/secret/SKILL.md" {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"message":"Not Found"}`)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"type":"file","encoding":"base64","content":%q}`,
			base64.StdEncoding.EncodeToString([]byte("private body")))
	}))
	defer api.Close()

	gh := ghclient.New()
	require.NoError(t, gh.SetBaseURL(api.URL))

	src := &source.Source{Host: "github.com", Owner: "acme", Repo: "private-kit", Ref: "main", RawHost: raw.URL}
	r := newTestClient(WithGitHub(gh)).ForSource(src)

	body, err := r.Fetch(context.Background(), artifact.Skill("secret"))
	require.NoError(t, err)
	assert.Equal(t, "private body", string(body))
	assert.Equal(t, "Bearer test-token", gotAuth)

	_, err = r.Fetch(context.Background(), artifact.Agent("missing"))
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRemote_Fetch_NoFallbackWithoutToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	t.Setenv("GH_TOKEN", "")
	t.Setenv("HOME", t.TempDir())

	var apiCalls atomic.Int32
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiCalls.Add(1)
	}))
	defer api.Close()
	raw := httptest.NewServer(http.NotFoundHandler())
	defer raw.Close()

	gh := ghclient.New()
	require.NoError(t, gh.SetBaseURL(api.URL))

	src := &source.Source{Host: "github.com", Owner: "acme", Repo: "kit", Ref: "main", RawHost: raw.URL}
	_, err := newTestClient(WithGitHub(gh)).ForSource(src).Fetch(context.Background(), artifact.Skill("x"))

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, int32(0), apiCalls.Load())
}
