// Package apply fills and saves a workflow from a [manifest.Definition].
//
// The [Executor] drives the same [wizard.Wizard] the interactive editor uses,
// one wizard step at a time, so a definition is subject to the same catalog
// lookups, output visibility rules and save guard as a hand-built workflow.
//
// Key concepts:
//   - The plan is name, action, modifier, reaction, then an optional backend
//     check, then save
//   - Execution is fail-fast; nothing is saved if any step fails
//   - Progress can be tracked via [ProgressCallback]
package apply

import (
	"context"
	"errors"
	"fmt"

	"areactl/internal/catalog"
	"areactl/internal/gateway"
	"areactl/internal/manifest"
	"areactl/internal/wizard"
)

// Checker validates a save request against the backend before it is sent.
// [gateway.Client] implements it.
type Checker interface {
	Validate(ctx context.Context, req gateway.SaveRequest) error
}

// ProgressCallback is invoked before each step begins.
//
// The callback receives stepIndex (1-based), totalSteps count, and the step
// label, e.g. "action timer_cron_job".
type ProgressCallback func(stepIndex, totalSteps int, step string)

// Step is one planned unit of work.
type Step struct {
	// Label describes the step for progress output.
	Label string

	run func(ctx context.Context) error
}

// Executor applies definitions through a wizard.
type Executor struct {
	wizard           *wizard.Wizard
	checker          Checker
	progressCallback ProgressCallback
}

// NewExecutor creates an executor over w. Use [wizard.Start] for a new
// workflow or [wizard.Open] to replace an existing one.
func NewExecutor(w *wizard.Wizard) *Executor {
	return &Executor{wizard: w}
}

// SetChecker enables a backend syntax check before saving.
// If not set (or set to nil), the request is saved unchecked.
func (e *Executor) SetChecker(c Checker) {
	e.checker = c
}

// SetProgressCallback configures an optional progress callback.
func (e *Executor) SetProgressCallback(cb ProgressCallback) {
	e.progressCallback = cb
}

// Wizard returns the wizard being driven.
func (e *Executor) Wizard() *wizard.Wizard {
	return e.wizard
}

// GetSteps returns the planned steps without running them.
func (e *Executor) GetSteps(def *manifest.Definition) []Step {
	steps := e.fillSteps(def)
	if e.checker != nil {
		steps = append(steps, Step{Label: "check", run: e.check})
	}
	return append(steps, Step{Label: "save", run: e.save})
}

// Execute fills the wizard from def and saves it. It stops at the first
// failing step and returns its error. On success the saved record is returned.
func (e *Executor) Execute(ctx context.Context, def *manifest.Definition) (gateway.Workflow, error) {
	if err := e.run(ctx, e.GetSteps(def)); err != nil {
		return gateway.Workflow{}, err
	}
	wf, _ := e.wizard.Saved()
	return wf, nil
}

// Check fills the wizard from def and runs the backend check without saving.
func (e *Executor) Check(ctx context.Context, def *manifest.Definition) error {
	if e.checker == nil {
		return errors.New("no checker configured")
	}
	steps := append(e.fillSteps(def), Step{Label: "check", run: e.check})
	return e.run(ctx, steps)
}

// Fill applies def to the wizard without contacting the backend.
func (e *Executor) Fill(def *manifest.Definition) error {
	return e.run(context.Background(), e.fillSteps(def))
}

func (e *Executor) run(ctx context.Context, steps []Step) error {
	total := len(steps)
	for i, s := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if e.progressCallback != nil {
			e.progressCallback(i+1, total, s.Label)
		}
		if err := s.run(ctx); err != nil {
			return fmt.Errorf("step %s failed: %w", s.Label, err)
		}
	}
	return nil
}

func (e *Executor) fillSteps(def *manifest.Definition) []Step {
	steps := []Step{{Label: "name", run: func(context.Context) error {
		e.wizard.GoTo(wizard.NameStep)
		if def.Name != "" {
			e.wizard.SetName(def.Name)
		}
		e.wizard.SetActive(def.IsActive())
		return nil
	}}}

	for _, kind := range catalog.Kinds {
		step := def.Step(kind)
		label := string(kind) + " none"
		if step != nil {
			label = string(kind) + " " + step.Name
		}
		steps = append(steps, Step{Label: label, run: func(context.Context) error {
			e.wizard.Next()
			return e.fillKind(kind, step)
		}})
	}
	return steps
}

func (e *Executor) fillKind(kind catalog.Kind, step *manifest.Step) error {
	if want, _ := wizard.StepFor(kind); e.wizard.Step() != want {
		return fmt.Errorf("wizard is on the %s step, expected %s", e.wizard.Step(), want)
	}
	if step == nil {
		if kind == catalog.KindModifier {
			e.wizard.ClearModifier()
			return nil
		}
		return fmt.Errorf("%w: %s is required", manifest.ErrInvalid, kind)
	}

	if err := e.wizard.SelectCatalogEntry(kind, step.Name); err != nil {
		return err
	}
	for _, p := range step.Params {
		var err error
		if p.IsReference() {
			err = e.wizard.SelectOutput(kind, p.Name, p.Output)
		} else {
			err = e.wizard.SetParameter(kind, p.Name, p.Value)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Executor) check(ctx context.Context) error {
	if !e.wizard.Draft().Complete() {
		return wizard.ErrIncomplete
	}
	return e.checker.Validate(ctx, e.wizard.Request())
}

func (e *Executor) save(ctx context.Context) error {
	_, err := e.wizard.Save(ctx)
	return err
}
