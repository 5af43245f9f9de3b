// Package gatewaytest provides an in-memory backend for tests.
package gatewaytest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"areactl/internal/catalog"
	"areactl/internal/gateway"
	"areactl/internal/session"
)

// SaveCall records one create or update.
type SaveCall struct {
	// ID is zero for a create.
	ID      int
	Request gateway.SaveRequest
}

// Backend is an in-memory stand-in for [gateway.Client].
//
// Fields may be set directly before use. Saved workflows are stored so later
// reads see them.
type Backend struct {
	mu sync.Mutex

	Entries   []catalog.Entry
	Workflows map[int]gateway.Workflow
	LogsByID  map[int][]gateway.LogEntry

	// Passwords maps accepted emails to passwords for SignIn.
	Passwords map[string]string

	// CheckError, when set, makes Validate reject every request with it.
	CheckError string

	SaveErr error
	NextID  int

	// Release, when set, blocks saves until it is closed.
	Release chan struct{}

	Saves   []SaveCall
	Checks  []gateway.SaveRequest
	Deleted []int
}

// New returns a backend serving entries with ids starting at 1.
func New(entries ...catalog.Entry) *Backend {
	return &Backend{
		Entries:   entries,
		Workflows: map[int]gateway.Workflow{},
		LogsByID:  map[int][]gateway.LogEntry{},
		Passwords: map[string]string{},
		NextID:    1,
	}
}

func notFound(path string) error {
	return &gateway.APIError{Method: "GET", Path: path, Status: 404}
}

func (b *Backend) ListNames(_ context.Context, kind catalog.Kind) ([]string, error) {
	var names []string
	for _, e := range b.Entries {
		if e.Kind == kind {
			names = append(names, e.Name)
		}
	}
	return names, nil
}

func (b *Backend) Detail(_ context.Context, kind catalog.Kind, name string) (catalog.Entry, error) {
	for _, e := range b.Entries {
		if e.Kind == kind && e.Name == name {
			return e, nil
		}
	}
	return catalog.Entry{}, notFound(fmt.Sprintf("/%s/%s", kind, name))
}

func (b *Backend) ListWorkflows(_ context.Context) ([]gateway.Workflow, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]gateway.Workflow, 0, len(b.Workflows))
	for _, wf := range b.Workflows {
		out = append(out, wf)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (b *Backend) GetWorkflow(_ context.Context, id int) (gateway.Workflow, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	wf, ok := b.Workflows[id]
	if !ok {
		return gateway.Workflow{}, notFound(fmt.Sprintf("/workflow/%d", id))
	}
	return wf, nil
}

func (b *Backend) CreateWorkflow(_ context.Context, req gateway.SaveRequest) (gateway.Workflow, error) {
	return b.save(0, req)
}

func (b *Backend) UpdateWorkflow(_ context.Context, id int, req gateway.SaveRequest) (gateway.Workflow, error) {
	return b.save(id, req)
}

func (b *Backend) save(id int, req gateway.SaveRequest) (gateway.Workflow, error) {
	b.mu.Lock()
	b.Saves = append(b.Saves, SaveCall{ID: id, Request: req})
	release := b.Release
	b.mu.Unlock()

	if release != nil {
		<-release
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.SaveErr != nil {
		return gateway.Workflow{}, b.SaveErr
	}
	if id == 0 {
		id = b.NextID
		b.NextID++
	} else if _, ok := b.Workflows[id]; !ok {
		return gateway.Workflow{}, notFound(fmt.Sprintf("/workflow/%d", id))
	}

	wf := gateway.Workflow{
		ID:                 id,
		Name:               req.Name,
		Active:             req.Active,
		ActionName:         req.ActionName,
		ActionParameters:   req.ActionParameters,
		ModifierName:       req.ModifierName,
		ModifierParameters: req.ModifierParameters,
		ReactionName:       req.ReactionName,
		ReactionParameters: req.ReactionParameters,
	}
	if wf.Name == "" {
		wf.Name = b.Workflows[id].Name
	}
	if b.Workflows == nil {
		b.Workflows = map[int]gateway.Workflow{}
	}
	b.Workflows[id] = wf
	return wf, nil
}

func (b *Backend) DeleteWorkflow(_ context.Context, id int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.Workflows[id]; !ok {
		return notFound(fmt.Sprintf("/workflow/%d", id))
	}
	delete(b.Workflows, id)
	b.Deleted = append(b.Deleted, id)
	return nil
}

func (b *Backend) CheckWorkflow(_ context.Context, req gateway.SaveRequest) (gateway.CheckResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Checks = append(b.Checks, req)
	if b.CheckError != "" {
		return gateway.CheckResult{Error: b.CheckError}, nil
	}
	return gateway.CheckResult{SyntaxValid: true}, nil
}

func (b *Backend) Validate(ctx context.Context, req gateway.SaveRequest) error {
	res, err := b.CheckWorkflow(ctx, req)
	if err != nil {
		return err
	}
	if !res.SyntaxValid {
		return fmt.Errorf("%w: %s", gateway.ErrInvalidSyntax, res.Error)
	}
	return nil
}

func (b *Backend) Logs(_ context.Context, id int) ([]gateway.LogEntry, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.Workflows[id]; !ok {
		return nil, notFound(fmt.Sprintf("/logs/%d", id))
	}
	return b.LogsByID[id], nil
}

func (b *Backend) SignIn(_ context.Context, email, password string) (*session.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if want, ok := b.Passwords[email]; !ok || want != password {
		return nil, &gateway.APIError{Method: "POST", Path: "/auth/sign-in", Status: 401, Body: "invalid credentials"}
	}
	return &session.Session{Token: "token-" + email, Email: email}, nil
}

func (b *Backend) SignUp(_ context.Context, email, password string) (*session.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.Passwords[email]; ok {
		return nil, &gateway.APIError{Method: "POST", Path: "/auth/signup", Status: 409, Body: "user already exists"}
	}
	if b.Passwords == nil {
		b.Passwords = map[string]string{}
	}
	b.Passwords[email] = password
	return &session.Session{Token: "token-" + email, Email: email}, nil
}

// SaveCount returns the number of create or update calls received.
func (b *Backend) SaveCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.Saves)
}

// LastSave returns the most recent save call.
func (b *Backend) LastSave() (SaveCall, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.Saves) == 0 {
		return SaveCall{}, false
	}
	return b.Saves[len(b.Saves)-1], true
}

// SampleEntries is a small catalog covering the cron-to-issue scenario.
func SampleEntries() []catalog.Entry {
	return []catalog.Entry{
		{
			Kind:        catalog.KindAction,
			Name:        "timer_cron_job",
			DisplayName: "Cron job",
			Parameters:  []catalog.ParameterDef{{Name: "schedule", DisplayName: "Schedule", Type: "string"}},
			Outputs:     []catalog.OutputDef{{Name: "fired_at", DisplayName: "Fired at"}},
		},
		{
			Kind:       catalog.KindAction,
			Name:       "github_new_commit",
			Parameters: []catalog.ParameterDef{{Name: "repo"}},
			Outputs:    []catalog.OutputDef{{Name: "sha"}, {Name: "author"}},
		},
		{
			Kind:        catalog.KindModifier,
			Name:        "openai_summarize",
			DisplayName: "Summarize",
			Parameters:  []catalog.ParameterDef{{Name: "text", DisplayName: "Text"}},
			Outputs:     []catalog.OutputDef{{Name: "summary", DisplayName: "Summary"}},
		},
		{
			Kind:        catalog.KindReaction,
			Name:        "github_create_issue",
			DisplayName: "Create issue",
			Parameters:  []catalog.ParameterDef{{Name: "repo", DisplayName: "Repository"}, {Name: "title", DisplayName: "Title"}},
		},
	}
}
