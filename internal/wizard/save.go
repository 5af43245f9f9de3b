package wizard

import (
	"context"

	"areactl/internal/binding"
	"areactl/internal/gateway"
)

// Submission is a save request captured by [Wizard.BeginSave].
//
// Send performs the network call and may run on any goroutine. Its result must
// be handed back to [Wizard.FinishSave] by the wizard's owner.
type Submission struct {
	// ID is the workflow being updated, or zero for a create.
	ID      int
	Request gateway.SaveRequest

	backend Backend
}

// Send issues the create or update call.
func (s Submission) Send(ctx context.Context) (gateway.Workflow, error) {
	if s.ID == 0 {
		return s.backend.CreateWorkflow(ctx, s.Request)
	}
	return s.backend.UpdateWorkflow(ctx, s.ID, s.Request)
}

// Request builds the save payload from the current draft.
func (w *Wizard) Request() gateway.SaveRequest {
	d := w.draft
	return gateway.SaveRequest{
		Name:               d.SaveName(),
		Active:             d.Active,
		ActionName:         d.Action.Name(),
		ActionParameters:   binding.Serialize(d.Action.Values),
		ModifierName:       d.Modifier.Name(),
		ModifierParameters: binding.Serialize(d.Modifier.Values),
		ReactionName:       d.Reaction.Name(),
		ReactionParameters: binding.Serialize(d.Reaction.Values),
	}
}

// CanSave reports whether Save is currently offered: on the reaction step,
// with an action and a reaction selected, and no save pending.
func (w *Wizard) CanSave() bool {
	return w.step == ReactionStep && w.draft.Complete() && !w.Loading()
}

// Loading reports whether a save is pending.
func (w *Wizard) Loading() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loading
}

// Err returns the raw text of the last save failure, or "".
func (w *Wizard) Err() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Saved returns the record returned by the last successful save.
func (w *Wizard) Saved() (gateway.Workflow, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.saved == nil {
		return gateway.Workflow{}, false
	}
	return *w.saved, true
}

// BeginSave checks the save preconditions, raises the loading guard and
// snapshots the request. A second call before [Wizard.FinishSave] returns
// [ErrSaveInFlight].
func (w *Wizard) BeginSave() (Submission, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.loading {
		return Submission{}, ErrSaveInFlight
	}
	if w.step != ReactionStep {
		return Submission{}, ErrNotFinalStep
	}
	if !w.draft.Complete() {
		return Submission{}, ErrIncomplete
	}

	w.loading = true
	w.err = ""
	return Submission{ID: w.draft.ID, Request: w.Request(), backend: w.backend}, nil
}

// FinishSave records the outcome of a submission and clears the loading guard.
// On failure the raw error text is kept and the step is unchanged.
func (w *Wizard) FinishSave(wf gateway.Workflow, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.loading = false
	if err != nil {
		w.err = err.Error()
		w.log.Debugw("save failed", "error", err)
		return
	}
	w.err = ""
	if wf.ID != 0 {
		w.draft.ID = wf.ID
	}
	w.saved = &wf
	w.log.Debugw("workflow saved", "id", w.draft.ID)
}

// Save runs a full save synchronously: [Wizard.BeginSave], one network call,
// then [Wizard.FinishSave].
func (w *Wizard) Save(ctx context.Context) (gateway.Workflow, error) {
	sub, err := w.BeginSave()
	if err != nil {
		return gateway.Workflow{}, err
	}
	wf, err := sub.Send(ctx)
	w.FinishSave(wf, err)
	return wf, err
}
