package manifest

import (
	"strings"

	"areactl/internal/binding"
	"areactl/internal/catalog"
	"areactl/internal/draft"
)

// FromDraft exports a draft as a definition.
//
// Values bound to a visible upstream output become references; everything
// else, dangling references included, is written as a literal. Blank values
// are omitted the same way they are omitted on save.
func FromDraft(d *draft.Draft) *Definition {
	active := d.Active
	def := &Definition{Name: d.Name, Active: &active}
	for _, kind := range catalog.Kinds {
		slot := d.Slot(kind)
		if !slot.Selected() {
			continue
		}
		step := &Step{Name: slot.Name()}
		visible := d.AvailableOutputs(kind)
		for _, v := range slot.Values {
			if strings.TrimSpace(v.Value) == "" {
				continue
			}
			p := Param{Name: v.Name, Value: v.Value}
			if o, ok := binding.Lookup(v.Value, visible); ok {
				p = Param{Name: v.Name, Output: o.Name}
			}
			step.Params = append(step.Params, p)
		}
		switch kind {
		case catalog.KindAction:
			def.Action = step
		case catalog.KindModifier:
			def.Modifier = step
		case catalog.KindReaction:
			def.Reaction = step
		}
	}
	return def
}
