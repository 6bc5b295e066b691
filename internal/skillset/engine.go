package skillset

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/kennyg/skillset/internal/artifact"
	"github.com/kennyg/skillset/internal/config"
	"github.com/kennyg/skillset/internal/fetch"
	"github.com/kennyg/skillset/internal/logger"
)

// DefaultWorkers is the number of concurrent fetches
const DefaultWorkers = 4

// Fetcher retrieves an item's document from the remote source
type Fetcher interface {
	Fetch(ctx context.Context, item artifact.Item) ([]byte, error)
}

// Materializer writes items to local storage and removes them by name
type Materializer interface {
	Write(item artifact.Item, content []byte) error
	Remove(name string) (bool, error)
}

// Engine executes plans
type Engine struct {
	fetcher Fetcher
	store   Materializer
	workers int
	strict  bool
}

// Option configures an Engine
type Option func(*Engine)

// WithWorkers bounds concurrent fetches; values below 1 mean one at a time
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n < 1 {
			n = 1
		}
		e.workers = n
	}
}

// WithStrict makes commits record only items that were actually installed
func WithStrict(strict bool) Option {
	return func(e *Engine) {
		e.strict = strict
	}
}

// New creates an Engine
func New(fetcher Fetcher, store Materializer, opts ...Option) *Engine {
	e := &Engine{
		fetcher: fetcher,
		store:   store,
		workers: DefaultWorkers,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute performs the plan's effects. Deletions run first, one at a time and
// in order; fetches follow with bounded concurrency. Every item is attempted
// and its outcome recorded; no single failure stops the batch.
func (e *Engine) Execute(ctx context.Context, plan *Plan) *Report {
	report := &Report{
		Deletions: make([]DeleteResult, 0, len(plan.ToDelete)),
		Fetches:   make([]FetchResult, len(plan.ToFetch)),
	}
	log := logger.G(ctx)

	for _, name := range plan.ToDelete {
		existed, err := e.store.Remove(name)
		switch {
		case err != nil:
			log.WithError(err).WithField("item", name).Warn("failed to delete item")
			report.Deletions = append(report.Deletions, DeleteResult{Name: name, Status: DeleteFailed, Err: err})
		case !existed:
			log.WithField("item", name).Debug("item already absent")
			report.Deletions = append(report.Deletions, DeleteResult{Name: name, Status: NotFound})
		default:
			log.WithField("item", name).Debug("deleted item")
			report.Deletions = append(report.Deletions, DeleteResult{Name: name, Status: Deleted})
		}
	}

	var g errgroup.Group
	g.SetLimit(e.workers)
	for i, item := range plan.ToFetch {
		i, item := i, item
		g.Go(func() error {
			report.Fetches[i] = e.install(ctx, item)
			return nil
		})
	}
	_ = g.Wait()

	return report
}

func (e *Engine) install(ctx context.Context, item artifact.Item) FetchResult {
	log := logger.G(ctx).WithField("item", item.Name).WithField("kind", item.Kind)

	content, err := e.fetcher.Fetch(ctx, item)
	if err != nil {
		if errors.Is(err, fetch.ErrNotFound) {
			log.WithError(err).Warn("item not found in source, skipping")
			return FetchResult{Item: item, Status: Absent, Err: err}
		}
		log.WithError(err).Warn("failed to fetch item, skipping")
		return FetchResult{Item: item, Status: FetchFailed, Err: err}
	}

	if err := e.store.Write(item, content); err != nil {
		log.WithError(err).Warn("failed to write item, skipping")
		return FetchResult{Item: item, Status: FetchFailed, Err: err}
	}

	log.Debug("installed item")
	return FetchResult{Item: item, Status: Fetched}
}

// Commit derives the next state from the previous one, the plan and its
// report. Pinned is carried over unchanged. Activation records every target
// item unless strict is set, in which case only installed items are recorded.
func Commit(plan *Plan, prev *config.State, report *Report, strict bool) *config.State {
	next := prev.Clone()

	switch plan.Action {
	case ActionActivate:
		next.SetActive(plan.Target)
		items := plan.ToFetch
		if strict {
			items = report.Installed()
		}
		next.SkillsetItems = artifact.Names(items)
	case ActionDeactivate:
		next.SetActive("")
		next.SkillsetItems = []string{}
	}

	return next
}

// Apply executes the plan, commits and persists the new state. The returned
// error is non-nil only when nothing was committed: the context was
// cancelled before commit or the state could not be saved. Item failures are
// reported through Report.Err.
func (e *Engine) Apply(ctx context.Context, plan *Plan, prev *config.State, statePath string) (*Report, *config.State, error) {
	if plan.Noop() {
		return &Report{}, prev.Clone(), nil
	}

	report := e.Execute(ctx, plan)

	if err := ctx.Err(); err != nil {
		return report, prev, errors.Wrap(err, "interrupted before commit")
	}

	next := Commit(plan, prev, report, e.strict)
	if err := config.SaveState(statePath, next); err != nil {
		return report, prev, errors.Wrap(err, "failed to save state")
	}

	logger.G(ctx).
		WithField("action", plan.Action).
		WithField("skillset", plan.Target).
		WithField("items", len(next.SkillsetItems)).
		Debug("state committed")

	return report, next, nil
}
