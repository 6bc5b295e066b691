// Package skillset is the activation engine. Planning is pure: it takes the
// registry and the current state and returns the deletions and fetches an
// activation or deactivation needs. The Engine then executes a plan against a
// Fetcher and a Materializer and commits the resulting state.
package skillset

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/kennyg/skillset/internal/artifact"
	"github.com/kennyg/skillset/internal/config"
	"github.com/kennyg/skillset/internal/registry"
)

// ErrUnknownSkillset is wrapped by UnknownSkillsetError
var ErrUnknownSkillset = errors.New("skillset not found")

// UnknownSkillsetError is returned when activation names a skillset the
// registry does not define
type UnknownSkillsetError struct {
	Name      string
	Available []string
}

func (e *UnknownSkillsetError) Error() string {
	available := "(none)"
	if len(e.Available) > 0 {
		available = strings.Join(e.Available, ", ")
	}
	return fmt.Sprintf("skillset %q not found. Available: %s", e.Name, available)
}

func (e *UnknownSkillsetError) Unwrap() error {
	return ErrUnknownSkillset
}

// Action is the transition a plan performs
type Action string

const (
	ActionActivate   Action = "activate"
	ActionDeactivate Action = "deactivate"
)

// Plan describes the effects of one transition before any of them happen
type Plan struct {
	Action      Action
	Target      string // empty when deactivating
	Previous    string // active skillset at planning time, empty if none
	Description string
	ToDelete    []string
	ToFetch     []artifact.Item
	// Kept lists recorded items that stay on disk because they are pinned
	Kept []string
}

// Noop reports whether executing the plan would change nothing. Only
// deactivating an inactive state is a no-op; re-activation always refetches.
func (p *Plan) Noop() bool {
	return p.Action == ActionDeactivate && p.Previous == ""
}

// PlanActivate computes the plan for making name the active skillset.
// Unpinned recorded items are deleted, then every item of the target is
// fetched, including ones that were already installed.
func PlanActivate(reg *registry.Registry, state *config.State, name string) (*Plan, error) {
	set, ok := reg.Lookup(name)
	if !ok {
		return nil, &UnknownSkillsetError{Name: name, Available: reg.Names()}
	}

	previous, _ := state.Active()
	toDelete, kept := removable(state)

	return &Plan{
		Action:      ActionActivate,
		Target:      name,
		Previous:    previous,
		Description: set.Description,
		ToDelete:    toDelete,
		ToFetch:     set.Items(),
		Kept:        kept,
	}, nil
}

// PlanDeactivate computes the plan for clearing the active skillset
func PlanDeactivate(state *config.State) *Plan {
	previous, ok := state.Active()
	if !ok {
		return &Plan{Action: ActionDeactivate}
	}

	toDelete, kept := removable(state)
	return &Plan{
		Action:   ActionDeactivate,
		Previous: previous,
		ToDelete: toDelete,
		Kept:     kept,
	}
}

// removable splits the recorded items into those to delete (skillsetItems
// minus pinned) and the pinned ones that stay. Order follows the state and
// repeated names appear once.
func removable(state *config.State) (toDelete, kept []string) {
	seen := make(map[string]bool, len(state.SkillsetItems))
	toDelete = []string{}
	for _, name := range state.SkillsetItems {
		if seen[name] {
			continue
		}
		seen[name] = true
		if state.IsPinned(name) {
			kept = append(kept, name)
			continue
		}
		toDelete = append(toDelete, name)
	}
	return toDelete, kept
}
