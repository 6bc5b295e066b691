package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"

	"github.com/pkg/errors"

	"github.com/kennyg/skillset/internal/logger"
)

// State is the only mutable record skillset keeps. ActiveSkillset is nil when
// no skillset is active, and SkillsetItems is then empty. Pinned is only
// changed by pin/unpin, never by activation.
type State struct {
	ActiveSkillset *string  `json:"activeSkillset"`
	SkillsetItems  []string `json:"skillsetItems"`
	Pinned         []string `json:"pinned"`
}

// NewState returns the default empty state
func NewState() *State {
	return &State{
		SkillsetItems: []string{},
		Pinned:        []string{},
	}
}

// Active returns the active skillset name and whether one is active
func (s *State) Active() (string, bool) {
	if s.ActiveSkillset == nil {
		return "", false
	}
	return *s.ActiveSkillset, true
}

// SetActive records name as the active skillset; an empty name clears it
func (s *State) SetActive(name string) {
	if name == "" {
		s.ActiveSkillset = nil
		return
	}
	s.ActiveSkillset = &name
}

// Clone returns a deep copy
func (s *State) Clone() *State {
	c := &State{
		SkillsetItems: slices.Clone(s.SkillsetItems),
		Pinned:        slices.Clone(s.Pinned),
	}
	if name, ok := s.Active(); ok {
		c.SetActive(name)
	}
	return c.normalized()
}

// IsPinned reports whether name is exempt from removal
func (s *State) IsPinned(name string) bool {
	return slices.Contains(s.Pinned, name)
}

// Pin adds names to the pinned set and returns the ones that were not already pinned
func (s *State) Pin(names ...string) []string {
	var added []string
	for _, name := range names {
		if name == "" || s.IsPinned(name) {
			continue
		}
		s.Pinned = append(s.Pinned, name)
		added = append(added, name)
	}
	return added
}

// Unpin removes names from the pinned set and returns the ones that were pinned
func (s *State) Unpin(names ...string) []string {
	var removed []string
	kept := make([]string, 0, len(s.Pinned))
	for _, p := range s.Pinned {
		if slices.Contains(names, p) {
			removed = append(removed, p)
			continue
		}
		kept = append(kept, p)
	}
	s.Pinned = kept
	return removed
}

// normalized replaces nil slices so they serialize as [] rather than null
func (s *State) normalized() *State {
	if s.SkillsetItems == nil {
		s.SkillsetItems = []string{}
	}
	if s.Pinned == nil {
		s.Pinned = []string{}
	}
	return s
}

// LoadState loads the state from disk. It never fails: a missing, unreadable
// or unparsable file yields the default empty state.
func LoadState(path string) *State {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.L.WithError(err).WithField("path", path).Warn("failed to read state, starting fresh")
		}
		return NewState()
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		logger.L.WithError(err).WithField("path", path).Warn("failed to parse state, starting fresh")
		return NewState()
	}

	return state.normalized()
}

// SaveState writes the state atomically: the full document goes to a temp
// file in the same directory, which is then renamed over path. Readers see
// either the old file or the new one, never a partial write. There is no
// lock; concurrent writers race and the last rename wins.
func SaveState(path string, state *State) error {
	data, err := json.MarshalIndent(state.Clone(), "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal state")
	}
	data = append(data, '\n')

	tmp, err := writeTemp(path, data)
	if err != nil {
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrap(err, "failed to replace state file")
	}
	return nil
}

// writeTemp writes data to a fresh temp file next to path and returns its name
func writeTemp(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, "failed to create %s", dir)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", errors.Wrap(err, "failed to create temp state file")
	}
	tmp := f.Name()

	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", errors.Wrap(err, "failed to write temp state file")
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", errors.Wrap(err, "failed to sync temp state file")
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", errors.Wrap(err, "failed to close temp state file")
	}
	if err := os.Chmod(tmp, 0644); err != nil {
		os.Remove(tmp)
		return "", errors.Wrap(err, "failed to set state file mode")
	}
	return tmp, nil
}
