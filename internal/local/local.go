// Package local materializes skills and agents into the project's .claude
// directory and removes them again.
package local

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/kennyg/skillset/internal/artifact"
)

// Store writes and removes items under a skills and an agents directory
type Store struct {
	skillsDir string
	agentsDir string
}

// New creates a Store rooted at the given directories
func New(skillsDir, agentsDir string) *Store {
	return &Store{skillsDir: skillsDir, agentsDir: agentsDir}
}

// SkillDir returns the directory a skill is installed into
func (s *Store) SkillDir(name string) string {
	return filepath.Join(s.skillsDir, name)
}

// SkillPath returns the path of a skill's document
func (s *Store) SkillPath(name string) string {
	return filepath.Join(s.skillsDir, name, artifact.SkillFilename)
}

// AgentPath returns the path of an agent's document
func (s *Store) AgentPath(name string) string {
	return filepath.Join(s.agentsDir, name+artifact.AgentExt)
}

// Path returns the local document path for an item
func (s *Store) Path(item artifact.Item) string {
	if item.Kind == artifact.KindAgent {
		return s.AgentPath(item.Name)
	}
	return s.SkillPath(item.Name)
}

// WriteSkill creates the skill directory if needed and writes its document,
// overwriting any prior content
func (s *Store) WriteSkill(name string, content []byte) error {
	if err := artifact.ValidateName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.SkillDir(name), 0755); err != nil {
		return errors.Wrapf(err, "failed to create skill directory for %s", name)
	}
	if err := os.WriteFile(s.SkillPath(name), content, 0644); err != nil {
		return errors.Wrapf(err, "failed to write skill %s", name)
	}
	return nil
}

// WriteAgent creates the agents directory if needed and writes the document,
// overwriting any prior content
func (s *Store) WriteAgent(name string, content []byte) error {
	if err := artifact.ValidateName(name); err != nil {
		return err
	}
	if err := os.MkdirAll(s.agentsDir, 0755); err != nil {
		return errors.Wrap(err, "failed to create agents directory")
	}
	if err := os.WriteFile(s.AgentPath(name), content, 0644); err != nil {
		return errors.Wrapf(err, "failed to write agent %s", name)
	}
	return nil
}

// Write materializes an item according to its kind
func (s *Store) Write(item artifact.Item, content []byte) error {
	switch item.Kind {
	case artifact.KindSkill:
		return s.WriteSkill(item.Name, content)
	case artifact.KindAgent:
		return s.WriteAgent(item.Name, content)
	default:
		return errors.Errorf("unknown item kind %q", item.Kind)
	}
}

// DeleteSkill removes a skill directory recursively. It reports whether the
// directory existed; a missing skill is not an error.
func (s *Store) DeleteSkill(name string) (bool, error) {
	if err := artifact.ValidateName(name); err != nil {
		return false, err
	}
	return removePath(s.SkillDir(name))
}

// DeleteAgent removes an agent document. It reports whether the file existed;
// a missing agent is not an error.
func (s *Store) DeleteAgent(name string) (bool, error) {
	if err := artifact.ValidateName(name); err != nil {
		return false, err
	}
	return removePath(s.AgentPath(name))
}

// Remove deletes every local item carrying name, skill and agent alike.
// State records names without their kind, so both locations are cleared.
func (s *Store) Remove(name string) (bool, error) {
	skill, err := s.DeleteSkill(name)
	if err != nil {
		return skill, err
	}
	agent, err := s.DeleteAgent(name)
	if err != nil {
		return skill || agent, err
	}
	return skill || agent, nil
}

// Has reports whether an item is present on disk
func (s *Store) Has(item artifact.Item) bool {
	if artifact.ValidateName(item.Name) != nil {
		return false
	}
	info, err := os.Stat(s.Path(item))
	return err == nil && !info.IsDir()
}

// HasName reports which kinds of item named name are present on disk
func (s *Store) HasName(name string) (skill, agent bool) {
	return s.Has(artifact.Skill(name)), s.Has(artifact.Agent(name))
}

func removePath(path string) (bool, error) {
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, errors.Wrapf(err, "failed to stat %s", path)
	}
	if err := os.RemoveAll(path); err != nil {
		return true, errors.Wrapf(err, "failed to remove %s", path)
	}
	return true, nil
}
