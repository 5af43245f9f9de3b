// Package draft models a workflow while it is being built or edited.
//
// A [Draft] holds three slots (action, modifier, reaction). Each slot carries
// at most one selected catalog entry and one [ParameterValue] per parameter the
// entry declares. Selecting an entry always resets the slot's values, so values
// never outlive the entry they were entered for.
package draft

import (
	"errors"
	"fmt"
	"strings"

	"areactl/internal/catalog"
)

// DefaultName is sent when a new workflow is saved without a name.
const DefaultName = "New Workflow"

var (
	// ErrNotSelected is returned when a slot operation needs a selected entry.
	ErrNotSelected = errors.New("no entry selected")

	// ErrUnknownParameter is returned for parameter names the selected entry does not declare.
	ErrUnknownParameter = errors.New("unknown parameter")
)

// ParameterValue is the value entered for one parameter.
//
// Value is either a literal or a reference of the form "#<output name>".
// Interpreting it is the binding package's job.
type ParameterValue struct {
	Name        string `json:"name" yaml:"name"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	Value       string `json:"value" yaml:"value"`
}

// Slot is one step of the workflow.
type Slot struct {
	Entry  *catalog.Entry
	Values []ParameterValue
}

// Selected reports whether an entry has been chosen for the slot.
func (s *Slot) Selected() bool {
	return s.Entry != nil
}

// Name returns the selected entry's technical name, or "" when nothing is selected.
func (s *Slot) Name() string {
	if s.Entry == nil {
		return ""
	}
	return s.Entry.Name
}

// Value returns the value for a parameter of the selected entry.
func (s *Slot) Value(param string) (*ParameterValue, bool) {
	for i := range s.Values {
		if s.Values[i].Name == param {
			return &s.Values[i], true
		}
	}
	return nil, false
}

// EmptyValues returns one empty value per declared parameter, in declaration order.
func EmptyValues(defs []catalog.ParameterDef) []ParameterValue {
	values := make([]ParameterValue, len(defs))
	for i, d := range defs {
		values[i] = ParameterValue{Name: d.Name, DisplayName: d.Label()}
	}
	return values
}

// Draft is a workflow under construction.
type Draft struct {
	// ID is the backend identifier. Zero means the workflow has not been created yet.
	ID     int
	Name   string
	Active bool

	Action   Slot
	Modifier Slot
	Reaction Slot
}

// New returns an empty draft for a workflow that does not exist yet.
func New() *Draft {
	return &Draft{Active: true}
}

// IsNew reports whether saving the draft creates a workflow rather than updating one.
func (d *Draft) IsNew() bool {
	return d.ID == 0
}

// Slot returns the slot for a catalog kind, or nil for an unknown kind.
func (d *Draft) Slot(kind catalog.Kind) *Slot {
	switch kind {
	case catalog.KindAction:
		return &d.Action
	case catalog.KindModifier:
		return &d.Modifier
	case catalog.KindReaction:
		return &d.Reaction
	}
	return nil
}

// Select puts entry into the slot for its kind and resets that slot's values.
func (d *Draft) Select(kind catalog.Kind, entry catalog.Entry) error {
	s := d.Slot(kind)
	if s == nil {
		return fmt.Errorf("%w: %q", catalog.ErrUnknownKind, kind)
	}
	e := entry
	s.Entry = &e
	s.Values = EmptyValues(e.Parameters)
	return nil
}

// Clear empties a slot.
func (d *Draft) Clear(kind catalog.Kind) {
	if s := d.Slot(kind); s != nil {
		*s = Slot{}
	}
}

// Complete reports whether the draft can be saved. The modifier is optional.
func (d *Draft) Complete() bool {
	return d.Action.Selected() && d.Reaction.Selected()
}

// SetValue stores value for a parameter of the entry selected in kind's slot.
func (d *Draft) SetValue(kind catalog.Kind, param, value string) error {
	s := d.Slot(kind)
	if s == nil {
		return fmt.Errorf("%w: %q", catalog.ErrUnknownKind, kind)
	}
	if !s.Selected() {
		return fmt.Errorf("%s: %w", kind, ErrNotSelected)
	}
	v, ok := s.Value(param)
	if !ok {
		return fmt.Errorf("%w: %s has no parameter %q", ErrUnknownParameter, s.Entry.Name, param)
	}
	v.Value = value
	return nil
}

// AvailableOutputs returns the outputs a step may reference: those of every
// selected step strictly before it. The action sees none, the modifier sees the
// action's, the reaction sees the action's followed by the modifier's.
func (d *Draft) AvailableOutputs(kind catalog.Kind) []catalog.OutputDef {
	var upstream []*Slot
	switch kind {
	case catalog.KindModifier:
		upstream = []*Slot{&d.Action}
	case catalog.KindReaction:
		upstream = []*Slot{&d.Action, &d.Modifier}
	default:
		return nil
	}

	var outs []catalog.OutputDef
	for _, s := range upstream {
		if s.Selected() {
			outs = append(outs, s.Entry.Outputs...)
		}
	}
	return outs
}

// SaveName returns the name to persist. New workflows without a name get [DefaultName].
func (d *Draft) SaveName() string {
	if strings.TrimSpace(d.Name) == "" && d.IsNew() {
		return DefaultName
	}
	return d.Name
}
