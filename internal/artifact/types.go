package artifact

import (
	"path"
	"strings"

	"github.com/pkg/errors"
)

// Kind represents the kind of item a skillset installs
type Kind string

const (
	KindSkill Kind = "skill"
	KindAgent Kind = "agent"
)

// Item is a single installable unit. Items have no identity beyond kind and name.
type Item struct {
	Kind Kind   `json:"kind" yaml:"kind"`
	Name string `json:"name" yaml:"name"`
}

// Skill returns a skill item
func Skill(name string) Item {
	return Item{Kind: KindSkill, Name: name}
}

// Agent returns an agent item
func Agent(name string) Item {
	return Item{Kind: KindAgent, Name: name}
}

// String returns "kind:name"
func (i Item) String() string {
	return string(i.Kind) + ":" + i.Name
}

// RemotePath returns the slash-separated path of the item's document inside
// the source repository. Source repositories keep items in the same .claude
// layout they are installed into, e.g. .claude/skills/review/SKILL.md or
// .claude/agents/planner.md.
func (i Item) RemotePath() string {
	switch i.Kind {
	case KindAgent:
		return path.Join(ClaudeDirName, AgentsDirName, i.Name+AgentExt)
	default:
		return path.Join(ClaudeDirName, SkillsDirName, i.Name, SkillFilename)
	}
}

// Names returns the item names in order, keeping duplicates
func Names(items []Item) []string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.Name)
	}
	return names
}

// ValidateName checks that an item name is safe to use as a single path
// element under the install directories.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("empty item name")
	}
	if name == "." || name == ".." || strings.Contains(name, "..") {
		return errors.Errorf("path traversal not allowed: %s", name)
	}
	if strings.ContainsAny(name, `/\`) {
		return errors.Errorf("path separators not allowed: %s", name)
	}
	if len(name) >= 2 && name[1] == ':' {
		return errors.Errorf("absolute paths not allowed: %s", name)
	}
	return nil
}
