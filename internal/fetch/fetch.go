package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"

	"github.com/kennyg/skillset/internal/artifact"
	"github.com/kennyg/skillset/internal/ghclient"
	"github.com/kennyg/skillset/internal/logger"
	"github.com/kennyg/skillset/internal/source"
)

var (
	// ErrNotFound is returned when the remote host reports the document missing
	ErrNotFound = errors.New("artifact not found")
	// ErrTooLarge is returned when a document exceeds MaxDocumentSize
	ErrTooLarge = errors.New("artifact too large")
)

// MaxDocumentSize is the maximum size of a single skill or agent document (1MB)
const MaxDocumentSize = 1024 * 1024

const (
	defaultTimeout  = 30 * time.Second
	defaultAttempts = 3
	defaultDelay    = 500 * time.Millisecond
)

// StatusError is returned for non-success responses other than not-found
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch %s: status %d", e.URL, e.StatusCode)
}

// Client handles fetching documents from the raw-content host
type Client struct {
	http     *http.Client
	gh       *ghclient.Client
	attempts uint
	delay    time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithTimeout bounds each HTTP attempt
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithGitHub enables the contents API fallback. It is only used when the
// client carries a token.
func WithGitHub(gh *ghclient.Client) Option {
	return func(c *Client) {
		c.gh = gh
	}
}

// WithRetry sets the number of attempts for transient failures and the
// initial backoff delay
func WithRetry(attempts uint, delay time.Duration) Option {
	return func(c *Client) {
		if attempts < 1 {
			attempts = 1
		}
		c.attempts = attempts
		c.delay = delay
	}
}

// NewClient creates a new fetch client
func NewClient(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		attempts: defaultAttempts,
		delay:    defaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchURL fetches content from a URL. Network errors, 429 and 5xx responses
// are retried with backoff; a 404 returns ErrNotFound immediately.
func (c *Client) FetchURL(ctx context.Context, rawURL string) ([]byte, error) {
	var content []byte

	err := retry.Do(
		func() error {
			b, err := c.get(ctx, rawURL)
			if err != nil {
				return err
			}
			content = b
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			logger.G(ctx).WithError(err).
				WithField("url", rawURL).
				WithField("attempt", n+1).
				Debug("retrying fetch")
		}),
	)
	if err != nil {
		return nil, err
	}
	return content, nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid URL %s", rawURL)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to fetch %s", rawURL)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize+1))
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", rawURL)
		}
		if len(body) > MaxDocumentSize {
			return nil, errors.Wrapf(ErrTooLarge, "%s exceeds %d bytes", rawURL, MaxDocumentSize)
		}
		return body, nil
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return nil, errors.Wrapf(ErrNotFound, "%s", rawURL)
	default:
		return nil, &StatusError{URL: rawURL, StatusCode: resp.StatusCode}
	}
}

func isRetryable(err error) bool {
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrTooLarge) {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
	}
	// network-level failure or timeout
	return true
}

// Remote fetches skillset items from one source
type Remote struct {
	client *Client
	src    *source.Source
}

// ForSource binds the client to a source
func (c *Client) ForSource(src *source.Source) *Remote {
	return &Remote{client: c, src: src}
}

// Source returns the bound source
func (r *Remote) Source() *source.Source {
	return r.src
}

// URL returns the raw-content URL for an item
func (r *Remote) URL(item artifact.Item) string {
	return r.src.RawURL(item.RemotePath())
}

// Fetch retrieves one item's document. When the raw fetch fails and an
// authenticated GitHub client is configured, the contents API is tried for
// the same path and ref.
func (r *Remote) Fetch(ctx context.Context, item artifact.Item) ([]byte, error) {
	content, err := r.client.FetchURL(ctx, r.URL(item))
	if err == nil {
		return content, nil
	}

	gh := r.client.gh
	if gh == nil || !gh.IsAuthenticated() {
		return nil, err
	}

	path := r.src.RepoPath(item.RemotePath())
	content, ghErr := gh.GetContents(ctx, r.src.Owner, r.src.Repo, path, r.src.Ref)
	if ghErr == nil {
		return content, nil
	}
	logger.G(ctx).WithError(ghErr).WithField("item", item.String()).Debug("GitHub API fallback failed")

	if errors.Is(ghErr, ghclient.ErrNotFound) && !errors.Is(err, ErrNotFound) {
		return nil, errors.Wrapf(ErrNotFound, "%s", path)
	}
	return nil, err
}
