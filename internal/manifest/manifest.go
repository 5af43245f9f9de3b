// Package manifest reads and writes workflow definition files.
//
// A definition describes one workflow in YAML so it can be applied without the
// interactive wizard, or exported from an existing workflow:
//
//	name: Monday triage
//	active: true
//	action:
//	  name: timer_cron_job
//	  params:
//	    schedule: "0 9 * * 1"
//	reaction:
//	  name: github_create_issue
//	  params:
//	    repo: acme/ops
//	    title: {output: fired_at}
//
// Parameter values are either literals or {output: <name>} references to an
// output of an upstream step. Parameter order is preserved.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"areactl/internal/catalog"
)

// ErrInvalid is returned for definitions that parse but cannot describe a workflow.
var ErrInvalid = errors.New("invalid workflow definition")

// Param is one parameter binding.
type Param struct {
	// Name is the technical parameter name.
	Name string

	// Value is the literal text. Unused when Output is set.
	Value string

	// Output names an upstream output to bind to.
	Output string
}

// IsReference reports whether the parameter binds to an output.
func (p Param) IsReference() bool {
	return p.Output != ""
}

// Params is an ordered parameter mapping.
type Params []Param

// Lookup returns the parameter named name.
func (ps Params) Lookup(name string) (Param, bool) {
	for _, p := range ps {
		if p.Name == name {
			return p, true
		}
	}
	return Param{}, false
}

// UnmarshalYAML decodes a mapping of parameter names to literals or
// {output: name} mappings.
func (ps *Params) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: params must be a mapping", node.Line)
	}
	out := make(Params, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], node.Content[i+1]
		p := Param{Name: key.Value}
		switch val.Kind {
		case yaml.ScalarNode:
			if val.Tag != "!!null" {
				p.Value = val.Value
			}
		case yaml.MappingNode:
			var ref struct {
				Output string `yaml:"output"`
			}
			if err := val.Decode(&ref); err != nil {
				return fmt.Errorf("line %d: param %q: %w", val.Line, p.Name, err)
			}
			if ref.Output == "" {
				return fmt.Errorf("line %d: param %q: reference needs an output name", val.Line, p.Name)
			}
			p.Output = ref.Output
		default:
			return fmt.Errorf("line %d: param %q must be a value or {output: name}", val.Line, p.Name)
		}
		out = append(out, p)
	}
	*ps = out
	return nil
}

// MarshalYAML encodes params as an ordered mapping.
func (ps Params) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, p := range ps {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: p.Name}
		var val *yaml.Node
		if p.IsReference() {
			val = &yaml.Node{Kind: yaml.MappingNode, Style: yaml.FlowStyle, Content: []*yaml.Node{
				{Kind: yaml.ScalarNode, Value: "output"},
				{Kind: yaml.ScalarNode, Value: p.Output},
			}}
		} else {
			val = &yaml.Node{Kind: yaml.ScalarNode, Value: p.Value, Tag: "!!str"}
		}
		node.Content = append(node.Content, key, val)
	}
	return node, nil
}

// Step selects one catalog entry and binds its parameters.
type Step struct {
	Name   string `yaml:"name"`
	Params Params `yaml:"params,omitempty"`
}

// Definition is a complete workflow description.
type Definition struct {
	Name string `yaml:"name,omitempty"`

	// Active defaults to true when omitted.
	Active *bool `yaml:"active,omitempty"`

	Action   *Step `yaml:"action"`
	Modifier *Step `yaml:"modifier,omitempty"`
	Reaction *Step `yaml:"reaction"`
}

// IsActive returns the active flag, defaulting to true.
func (d *Definition) IsActive() bool {
	return d.Active == nil || *d.Active
}

// Step returns the step for kind, or nil when absent.
func (d *Definition) Step(kind catalog.Kind) *Step {
	switch kind {
	case catalog.KindAction:
		return d.Action
	case catalog.KindModifier:
		return d.Modifier
	case catalog.KindReaction:
		return d.Reaction
	}
	return nil
}

// Validate checks the shape of the definition. Catalog names and output
// visibility are checked when the definition is applied.
func (d *Definition) Validate() error {
	for _, kind := range catalog.Kinds {
		s := d.Step(kind)
		if s == nil {
			if kind == catalog.KindModifier {
				continue
			}
			return fmt.Errorf("%w: %s is required", ErrInvalid, kind)
		}
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("%w: %s has no name", ErrInvalid, kind)
		}
		seen := make(map[string]bool, len(s.Params))
		for _, p := range s.Params {
			if p.Name == "" {
				return fmt.Errorf("%w: %s has a parameter without a name", ErrInvalid, kind)
			}
			if seen[p.Name] {
				return fmt.Errorf("%w: %s parameter %q is set twice", ErrInvalid, kind, p.Name)
			}
			seen[p.Name] = true
		}
	}
	return nil
}

// ReadFromFile reads and validates a definition file.
func ReadFromFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workflow definition: %w", err)
	}
	return ReadFromBytes(data)
}

// ReadFromBytes parses and validates a definition from YAML bytes.
func ReadFromBytes(data []byte) (*Definition, error) {
	var d Definition
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse workflow definition: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Marshal encodes a definition as YAML.
func Marshal(d *Definition) ([]byte, error) {
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("failed to encode workflow definition: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}
