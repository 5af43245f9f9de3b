// Package wizard drives the creation and editing of a workflow.
//
// A [Wizard] walks the user through four steps (name, action, modifier,
// reaction) over a [draft.Draft]. It resolves catalog selections, binds
// parameters to literals or upstream outputs, and saves the draft through the
// backend with a guard against double submission.
//
// Key types:
//   - [Wizard] is the controller; one per editing session
//   - [Step] identifies a wizard page
//   - [Backend] is the subset of the gateway the wizard needs
//   - [Submission] is a save captured by [Wizard.BeginSave], sendable off the UI loop
package wizard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"areactl/internal/binding"
	"areactl/internal/catalog"
	"areactl/internal/draft"
	"areactl/internal/gateway"
)

var (
	// ErrIncomplete is returned when saving without both an action and a reaction.
	ErrIncomplete = errors.New("workflow needs an action and a reaction")

	// ErrNotFinalStep is returned when saving before the reaction step.
	ErrNotFinalStep = errors.New("save is only available on the reaction step")

	// ErrSaveInFlight is returned when a save is requested while one is pending.
	// No request is sent.
	ErrSaveInFlight = errors.New("a save is already in progress")

	// ErrUnknownEntry is returned when selecting a name the catalog does not hold.
	ErrUnknownEntry = errors.New("unknown catalog entry")

	// ErrOutputNotVisible is returned when binding to an output that is not upstream.
	ErrOutputNotVisible = errors.New("output is not available at this step")
)

// Backend is the gateway surface used by the wizard.
//
// The catalog methods feed the [catalog.Loader]; the workflow methods load
// and persist the draft. [gateway.Client] implements it.
type Backend interface {
	catalog.Source
	GetWorkflow(ctx context.Context, id int) (gateway.Workflow, error)
	CreateWorkflow(ctx context.Context, req gateway.SaveRequest) (gateway.Workflow, error)
	UpdateWorkflow(ctx context.Context, id int, req gateway.SaveRequest) (gateway.Workflow, error)
}

// Wizard is the step-gated controller over one draft.
//
// All methods except [Submission.Send] are meant to be called from a single
// owner such as a UI loop. The save guard is safe to query from any goroutine.
type Wizard struct {
	backend Backend
	catalog *catalog.Catalog
	draft   *draft.Draft
	step    Step
	log     *zap.SugaredLogger

	mu      sync.Mutex
	loading bool
	err     string
	saved   *gateway.Workflow
}

// New creates a wizard for a new workflow over an already loaded catalog.
func New(backend Backend, cat *catalog.Catalog, log *zap.SugaredLogger) *Wizard {
	return newWizard(backend, cat, draft.New(), log)
}

func newWizard(backend Backend, cat *catalog.Catalog, d *draft.Draft, log *zap.SugaredLogger) *Wizard {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if cat == nil {
		cat = catalog.New()
	}
	return &Wizard{
		backend: backend,
		catalog: cat,
		draft:   d,
		step:    FirstStep,
		log:     log,
	}
}

// Start loads the catalogs and returns a wizard for a new workflow.
func Start(ctx context.Context, backend Backend, log *zap.SugaredLogger) (*Wizard, error) {
	cat, err := catalog.NewLoader(backend, log).Load(ctx)
	if err != nil {
		return nil, err
	}
	return New(backend, cat, log), nil
}

// Open fetches workflow id and the catalogs, then returns a wizard editing it.
//
// Stored names that no longer exist in the catalog leave their slot empty.
// Stored parameters are matched to the entry's current parameter list.
func Open(ctx context.Context, backend Backend, id int, log *zap.SugaredLogger) (*Wizard, error) {
	wf, err := backend.GetWorkflow(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow %d: %w", id, err)
	}
	cat, err := catalog.NewLoader(backend, log).Load(ctx)
	if err != nil {
		return nil, err
	}

	w := newWizard(backend, cat, nil, log)
	w.draft = w.hydrate(wf)
	return w, nil
}

// Hydrate rebuilds a draft from a stored workflow and a catalog.
func Hydrate(wf gateway.Workflow, cat *catalog.Catalog) *draft.Draft {
	return newWizard(nil, cat, nil, nil).hydrate(wf)
}

func (w *Wizard) hydrate(wf gateway.Workflow) *draft.Draft {
	d := &draft.Draft{ID: wf.ID, Name: wf.Name, Active: wf.Active}
	w.hydrateSlot(d, catalog.KindAction, wf.ActionName, wf.ActionParameters)
	w.hydrateSlot(d, catalog.KindModifier, wf.ModifierName, wf.ModifierParameters)
	w.hydrateSlot(d, catalog.KindReaction, wf.ReactionName, wf.ReactionParameters)
	return d
}

func (w *Wizard) hydrateSlot(d *draft.Draft, kind catalog.Kind, name string, pairs []string) {
	if name == "" {
		return
	}
	e, ok := w.catalog.Lookup(kind, name)
	if !ok {
		w.log.Warnw("stored entry not in catalog, leaving slot empty", "kind", kind, "name", name)
		return
	}
	_ = d.Select(kind, e)
	d.Slot(kind).Values = binding.Deserialize(pairs, e.Parameters)
}

// Draft returns the draft being edited.
func (w *Wizard) Draft() *draft.Draft {
	return w.draft
}

// Catalog returns the session catalog.
func (w *Wizard) Catalog() *catalog.Catalog {
	return w.catalog
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	return w.step
}

// HasNext reports whether [Wizard.Next] would move.
func (w *Wizard) HasNext() bool {
	return w.step < LastStep
}

// HasPrevious reports whether [Wizard.Previous] would move.
func (w *Wizard) HasPrevious() bool {
	return w.step > FirstStep
}

// Next advances one step. It does nothing on the last step.
func (w *Wizard) Next() {
	if w.HasNext() {
		w.step++
	}
}

// Previous goes back one step. It does nothing on the first step.
func (w *Wizard) Previous() {
	if w.HasPrevious() {
		w.step--
	}
}

// GoTo jumps to step s. Out of range steps are ignored.
func (w *Wizard) GoTo(s Step) {
	if s.valid() {
		w.step = s
	}
}

// SetName sets the workflow name.
func (w *Wizard) SetName(name string) {
	w.draft.Name = name
}

// SetActive sets whether the workflow runs once saved.
func (w *Wizard) SetActive(active bool) {
	w.draft.Active = active
}

// SelectCatalogEntry selects the entry named name for kind's slot, resetting
// that slot's values. Unknown names return [ErrUnknownEntry] with suggestions.
func (w *Wizard) SelectCatalogEntry(kind catalog.Kind, name string) error {
	e, ok := w.catalog.Lookup(kind, name)
	if !ok {
		if hints := w.catalog.Suggest(kind, name); len(hints) > 0 {
			return fmt.Errorf("%w: %s %q (did you mean %s?)", ErrUnknownEntry, kind, name, strings.Join(hints, ", "))
		}
		return fmt.Errorf("%w: %s %q", ErrUnknownEntry, kind, name)
	}
	return w.draft.Select(kind, e)
}

// ClearModifier returns the modifier slot to "none".
func (w *Wizard) ClearModifier() {
	w.draft.Clear(catalog.KindModifier)
}

// AvailableOutputs returns the outputs parameters of kind may reference.
func (w *Wizard) AvailableOutputs(kind catalog.Kind) []catalog.OutputDef {
	return w.draft.AvailableOutputs(kind)
}

// SetParameter stores typed text verbatim.
func (w *Wizard) SetParameter(kind catalog.Kind, param, text string) error {
	return w.draft.SetValue(kind, param, text)
}

// SelectOutput binds a parameter to an upstream output by technical name.
func (w *Wizard) SelectOutput(kind catalog.Kind, param, output string) error {
	for _, o := range w.AvailableOutputs(kind) {
		if o.Name == output {
			return w.draft.SetValue(kind, param, binding.Ref(output))
		}
	}
	return fmt.Errorf("%w: %q for %s", ErrOutputNotVisible, output, kind)
}

// ClearReference empties a parameter so it can be typed again.
func (w *Wizard) ClearReference(kind catalog.Kind, param string) error {
	return w.draft.SetValue(kind, param, "")
}

// DisplayValue returns the text to show for a parameter.
func (w *Wizard) DisplayValue(kind catalog.Kind, param string) string {
	s := w.draft.Slot(kind)
	if s == nil {
		return ""
	}
	v, ok := s.Value(param)
	if !ok {
		return ""
	}
	return binding.Decode(v.Value, w.AvailableOutputs(kind))
}

// IsReference reports whether a parameter is currently bound to a visible output.
func (w *Wizard) IsReference(kind catalog.Kind, param string) bool {
	s := w.draft.Slot(kind)
	if s == nil {
		return false
	}
	v, ok := s.Value(param)
	if !ok {
		return false
	}
	_, ok = binding.Lookup(v.Value, w.AvailableOutputs(kind))
	return ok
}
