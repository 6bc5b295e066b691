// Package registry reads the static skillset catalog. The catalog is never
// written by skillset; it maps a skillset name to its description and the
// skill and agent names it installs.
package registry

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/kennyg/skillset/internal/artifact"
)

// ErrNotFound is returned when the catalog file does not exist
var ErrNotFound = errors.New("skillset registry not found")

// Skillset is a named bundle of skills and agents
type Skillset struct {
	Description string   `json:"description" yaml:"description"`
	Skills      []string `json:"skills" yaml:"skills"`
	Agents      []string `json:"agents" yaml:"agents"`
}

// Registry is the catalog of available skillsets
type Registry struct {
	Skillsets map[string]Skillset `json:"skillsets" yaml:"skillsets"`

	// order holds skillset names as declared in the catalog file
	order []string
}

// Load reads the catalog at path. Files ending in .yaml or .yml are decoded
// as YAML, anything else as JSON. A missing or malformed file is an error.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrNotFound, "%s", path)
		}
		return nil, errors.Wrapf(err, "failed to read registry %s", path)
	}

	reg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse registry %s", path)
	}
	return reg, nil
}

// Parse decodes catalog bytes. ext selects the format (".yaml"/".yml" or JSON).
func Parse(data []byte, ext string) (*Registry, error) {
	var (
		reg   Registry
		order []string
		err   error
	)

	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		order, err = parseYAML(data, &reg)
	default:
		order, err = parseJSON(data, &reg)
	}
	if err != nil {
		return nil, err
	}

	if reg.Skillsets == nil {
		return nil, errors.New(`missing "skillsets" object`)
	}
	reg.order = order
	return &reg, nil
}

func parseJSON(data []byte, reg *Registry) ([]string, error) {
	if err := json.Unmarshal(data, reg); err != nil {
		return nil, err
	}

	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, err
	}
	raw, ok := top["skillsets"]
	if !ok {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil
	}

	var order []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)
		order = append(order, name)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return order, nil
}

func parseYAML(data []byte, reg *Registry) ([]string, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Content) == 0 {
		return nil, nil
	}
	if err := doc.Decode(reg); err != nil {
		return nil, err
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "skillsets" || root.Content[i+1].Kind != yaml.MappingNode {
			continue
		}
		sets := root.Content[i+1]
		order := make([]string, 0, len(sets.Content)/2)
		for j := 0; j+1 < len(sets.Content); j += 2 {
			order = append(order, sets.Content[j].Value)
		}
		return order, nil
	}
	return nil, nil
}

// Names returns the skillset names in the order the catalog declares them.
// A key repeated in the file is listed once. Registries built in code have
// no declared order and list their names sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.Skillsets))
	seen := make(map[string]bool, len(r.Skillsets))
	for _, name := range r.order {
		if _, ok := r.Skillsets[name]; !ok || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}

	var rest []string
	for name := range r.Skillsets {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(names, rest...)
}

// Lookup returns the named skillset
func (r *Registry) Lookup(name string) (Skillset, bool) {
	s, ok := r.Skillsets[name]
	return s, ok
}

// Items returns the skillset's items in declaration order: skills first, then
// agents. A name listed under both kinds yields two items.
func (s Skillset) Items() []artifact.Item {
	items := make([]artifact.Item, 0, len(s.Skills)+len(s.Agents))
	for _, name := range s.Skills {
		items = append(items, artifact.Skill(name))
	}
	for _, name := range s.Agents {
		items = append(items, artifact.Agent(name))
	}
	return items
}
