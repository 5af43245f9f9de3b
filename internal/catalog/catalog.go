// Package catalog holds the building blocks a workflow is assembled from.
//
// The backend publishes three catalogs: actions (triggers), modifiers (optional
// transforms) and reactions. Each entry describes the parameters it accepts and
// the outputs it produces for downstream steps. Entries are immutable once
// fetched and are cached for the lifetime of a wizard session.
//
// Key types:
//   - [Kind] identifies which catalog an entry belongs to
//   - [Entry] is a single action, modifier or reaction definition
//   - [Catalog] is the per-session cache with lookup and suggestion helpers
//   - [Loader] fetches all three catalogs concurrently from a [Source]
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"
)

// ErrUnknownKind is returned by [ParseKind] for names that are not a catalog kind.
var ErrUnknownKind = errors.New("unknown catalog kind")

// Kind identifies one of the three catalogs.
type Kind string

const (
	KindAction   Kind = "action"
	KindModifier Kind = "modifier"
	KindReaction Kind = "reaction"
)

// Kinds lists every catalog kind in pipeline order.
var Kinds = []Kind{KindAction, KindModifier, KindReaction}

// ParseKind accepts singular or plural kind names, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "action", "actions":
		return KindAction, nil
	case "modifier", "modifiers":
		return KindModifier, nil
	case "reaction", "reactions":
		return KindReaction, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Title returns the capitalised kind name for headings.
func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}

// ParameterDef describes one input an entry accepts.
type ParameterDef struct {
	// Name is the technical key, unique within its entry.
	Name string `json:"name" yaml:"name"`

	// DisplayName is the human label shown in prompts.
	DisplayName string `json:"display_name" yaml:"display_name"`

	// Type is an informational hint such as "string" or "date".
	Type string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Label returns the display name, or the technical name when none is set.
func (p ParameterDef) Label() string {
	if p.DisplayName != "" {
		return p.DisplayName
	}
	return p.Name
}

// OutputDef describes a value an entry produces for downstream steps.
type OutputDef struct {
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"display_name" yaml:"display_name"`
}

// Label returns the display name, or the technical name when none is set.
func (o OutputDef) Label() string {
	if o.DisplayName != "" {
		return o.DisplayName
	}
	return o.Name
}

// Entry is a single catalog definition.
type Entry struct {
	Kind        Kind           `json:"kind" yaml:"kind"`
	Name        string         `json:"name" yaml:"name"`
	DisplayName string         `json:"display_name" yaml:"display_name"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Parameters  []ParameterDef `json:"parameters" yaml:"parameters"`
	Outputs     []OutputDef    `json:"outputs" yaml:"outputs"`
}

// Label returns the display name, or the technical name when none is set.
func (e Entry) Label() string {
	if e.DisplayName != "" {
		return e.DisplayName
	}
	return e.Name
}

// Parameter returns the parameter definition with the given technical name.
func (e Entry) Parameter(name string) (ParameterDef, bool) {
	for _, p := range e.Parameters {
		if p.Name == name {
			return p, true
		}
	}
	return ParameterDef{}, false
}

// Catalog is the session cache of fetched entries, grouped by kind.
//
// Entries keep the order the backend listed them in.
type Catalog struct {
	entries map[Kind][]Entry
}

// New builds a [Catalog] from the given entries. Entries are grouped by their Kind.
func New(entries ...Entry) *Catalog {
	c := &Catalog{entries: make(map[Kind][]Entry)}
	for _, e := range entries {
		c.entries[e.Kind] = append(c.entries[e.Kind], e)
	}
	return c
}

// Entries returns the entries of one kind in listing order.
func (c *Catalog) Entries(kind Kind) []Entry {
	return c.entries[kind]
}

// Len returns the total number of entries across all kinds.
func (c *Catalog) Len() int {
	n := 0
	for _, es := range c.entries {
		n += len(es)
	}
	return n
}

// Lookup finds an entry by kind and technical name.
func (c *Catalog) Lookup(kind Kind, name string) (Entry, bool) {
	for _, e := range c.entries[kind] {
		if e.Name == name {
			return e, true
		}
	}
	return Entry{}, false
}

// Names returns the technical names of one kind, sorted.
func (c *Catalog) Names(kind Kind) []string {
	es := c.entries[kind]
	names := make([]string, len(es))
	for i, e := range es {
		names[i] = e.Name
	}
	sort.Strings(names)
	return names
}

// maxSuggestions caps the "did you mean" list.
const maxSuggestions = 3

// Suggest returns up to three technical names of the given kind that fuzzily
// match input, best match first.
func (c *Catalog) Suggest(kind Kind, input string) []string {
	if input == "" {
		return nil
	}
	names := c.Names(kind)
	matches := fuzzy.Find(input, names)
	var out []string
	for _, m := range matches {
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
