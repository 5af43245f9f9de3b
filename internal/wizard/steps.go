package wizard

import "areactl/internal/catalog"

// Step is a page of the wizard.
type Step int

const (
	NameStep Step = iota
	ActionStep
	ModifierStep
	ReactionStep
)

// stepDef is one link in the wizard chain.
type stepDef struct {
	step  Step
	label string
	kind  catalog.Kind
}

// chain is the fixed step order. Index equals the Step value.
var chain = []stepDef{
	{step: NameStep, label: "name"},
	{step: ActionStep, label: "action", kind: catalog.KindAction},
	{step: ModifierStep, label: "modifier", kind: catalog.KindModifier},
	{step: ReactionStep, label: "reaction", kind: catalog.KindReaction},
}

// FirstStep and LastStep bound navigation.
const (
	FirstStep = NameStep
	LastStep  = ReactionStep
)

// Steps returns every step in order.
func Steps() []Step {
	out := make([]Step, len(chain))
	for i, d := range chain {
		out[i] = d.step
	}
	return out
}

func (s Step) valid() bool {
	return s >= FirstStep && s <= LastStep
}

func (s Step) String() string {
	if !s.valid() {
		return "unknown"
	}
	return chain[s].label
}

// Kind returns the catalog kind chosen on this step. The name step has none.
func (s Step) Kind() (catalog.Kind, bool) {
	if !s.valid() || chain[s].kind == "" {
		return "", false
	}
	return chain[s].kind, true
}

// StepFor returns the step on which entries of kind are chosen.
func StepFor(kind catalog.Kind) (Step, bool) {
	for _, d := range chain {
		if d.kind == kind && kind != "" {
			return d.step, true
		}
	}
	return 0, false
}
