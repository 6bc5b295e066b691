package skillset

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/kennyg/skillset/internal/artifact"
)

// DeleteStatus is the outcome of removing one recorded item
type DeleteStatus int

const (
	Deleted DeleteStatus = iota
	NotFound
	DeleteFailed
)

func (s DeleteStatus) String() string {
	switch s {
	case Deleted:
		return "deleted"
	case NotFound:
		return "not found"
	default:
		return "failed"
	}
}

// DeleteResult records what happened to one name in Plan.ToDelete
type DeleteResult struct {
	Name   string
	Status DeleteStatus
	Err    error
}

// FetchStatus is the outcome of fetching and writing one item
type FetchStatus int

const (
	Fetched FetchStatus = iota
	Absent
	FetchFailed
)

func (s FetchStatus) String() string {
	switch s {
	case Fetched:
		return "installed"
	case Absent:
		return "missing"
	default:
		return "failed"
	}
}

// FetchResult records what happened to one item in Plan.ToFetch
type FetchResult struct {
	Item   artifact.Item
	Status FetchStatus
	Err    error
}

// Report collects per-item results in plan order
type Report struct {
	Deletions []DeleteResult
	Fetches   []FetchResult
}

// Installed returns the items that were fetched and written
func (r *Report) Installed() []artifact.Item {
	var items []artifact.Item
	for _, f := range r.Fetches {
		if f.Status == Fetched {
			items = append(items, f.Item)
		}
	}
	return items
}

// Failures counts deletions and fetches that did not succeed. A deletion of
// an item that was already gone is not a failure.
func (r *Report) Failures() int {
	n := 0
	for _, d := range r.Deletions {
		if d.Status == DeleteFailed {
			n++
		}
	}
	for _, f := range r.Fetches {
		if f.Status != Fetched {
			n++
		}
	}
	return n
}

// Err aggregates every item failure. It is informational: a batch with
// failures is still committed.
func (r *Report) Err() error {
	var result *multierror.Error
	for _, d := range r.Deletions {
		if d.Status == DeleteFailed {
			result = multierror.Append(result, errors.Wrapf(d.Err, "delete %s", d.Name))
		}
	}
	for _, f := range r.Fetches {
		if f.Status != Fetched {
			result = multierror.Append(result, errors.Wrapf(f.Err, "%s %s", f.Status, f.Item))
		}
	}
	return result.ErrorOrNil()
}
