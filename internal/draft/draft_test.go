package draft

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"areactl/internal/catalog"
)

var (
	cronJob = catalog.Entry{
		Kind:        catalog.KindAction,
		Name:        "timer_cron_job",
		DisplayName: "Cron job",
		Parameters:  []catalog.ParameterDef{{Name: "schedule", DisplayName: "Schedule"}},
		Outputs:     []catalog.OutputDef{{Name: "fired_at", DisplayName: "Fired at"}},
	}
	summarize = catalog.Entry{
		Kind:       catalog.KindModifier,
		Name:       "openai_summarize",
		Parameters: []catalog.ParameterDef{{Name: "text"}},
		Outputs:    []catalog.OutputDef{{Name: "summary", DisplayName: "Summary"}},
	}
	createIssue = catalog.Entry{
		Kind: catalog.KindReaction,
		Name: "github_create_issue",
		Parameters: []catalog.ParameterDef{
			{Name: "repo", DisplayName: "Repository"},
			{Name: "title", DisplayName: "Title"},
		},
	}
)

func TestNew(t *testing.T) {
	d := New()
	assert.True(t, d.IsNew())
	assert.True(t, d.Active)
	assert.False(t, d.Complete())
}

func TestDraft_Select_ResetsValues(t *testing.T) {
	d := New()
	require.NoError(t, d.Select(catalog.KindReaction, createIssue))
	require.NoError(t, d.SetValue(catalog.KindReaction, "repo", "octo/area"))

	// Reselecting the same entry still starts from scratch.
	require.NoError(t, d.Select(catalog.KindReaction, createIssue))

	require.Len(t, d.Reaction.Values, 2)
	for _, v := range d.Reaction.Values {
		assert.Empty(t, v.Value)
	}
	assert.Equal(t, "Repository", d.Reaction.Values[0].DisplayName)
	assert.Equal(t, "title", d.Reaction.Values[1].Name)
}

func TestDraft_Select_CopiesEntry(t *testing.T) {
	d := New()
	e := cronJob
	require.NoError(t, d.Select(catalog.KindAction, e))
	e.Name = "mutated"
	assert.Equal(t, "timer_cron_job", d.Action.Name())
}

func TestDraft_Select_UnknownKind(t *testing.T) {
	err := New().Select("trigger", cronJob)
	assert.ErrorIs(t, err, catalog.ErrUnknownKind)
}

func TestDraft_Complete(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(d *Draft)
		expect bool
	}{
		{name: "empty", setup: func(d *Draft) {}, expect: false},
		{name: "action only", setup: func(d *Draft) { _ = d.Select(catalog.KindAction, cronJob) }, expect: false},
		{name: "reaction only", setup: func(d *Draft) { _ = d.Select(catalog.KindReaction, createIssue) }, expect: false},
		{
			name: "action and reaction without modifier",
			setup: func(d *Draft) {
				_ = d.Select(catalog.KindAction, cronJob)
				_ = d.Select(catalog.KindReaction, createIssue)
			},
			expect: true,
		},
		{
			name: "cleared reaction",
			setup: func(d *Draft) {
				_ = d.Select(catalog.KindAction, cronJob)
				_ = d.Select(catalog.KindReaction, createIssue)
				d.Clear(catalog.KindReaction)
			},
			expect: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New()
			tt.setup(d)
			assert.Equal(t, tt.expect, d.Complete())
		})
	}
}

func TestDraft_SetValue_Errors(t *testing.T) {
	d := New()
	assert.ErrorIs(t, d.SetValue(catalog.KindAction, "schedule", "x"), ErrNotSelected)

	require.NoError(t, d.Select(catalog.KindAction, cronJob))
	assert.ErrorIs(t, d.SetValue(catalog.KindAction, "nope", "x"), ErrUnknownParameter)
	assert.ErrorIs(t, d.SetValue("bogus", "schedule", "x"), catalog.ErrUnknownKind)
}

func TestDraft_AvailableOutputs(t *testing.T) {
	d := New()
	require.NoError(t, d.Select(catalog.KindAction, cronJob))
	require.NoError(t, d.Select(catalog.KindModifier, summarize))
	require.NoError(t, d.Select(catalog.KindReaction, createIssue))

	assert.Empty(t, d.AvailableOutputs(catalog.KindAction))
	assert.Equal(t, cronJob.Outputs, d.AvailableOutputs(catalog.KindModifier))
	assert.Equal(t,
		[]catalog.OutputDef{{Name: "fired_at", DisplayName: "Fired at"}, {Name: "summary", DisplayName: "Summary"}},
		d.AvailableOutputs(catalog.KindReaction))

	// Changing the action is reflected immediately downstream.
	d.Clear(catalog.KindAction)
	assert.Empty(t, d.AvailableOutputs(catalog.KindModifier))
	assert.Equal(t, summarize.Outputs, d.AvailableOutputs(catalog.KindReaction))
}

func TestDraft_SaveName(t *testing.T) {
	d := New()
	assert.Equal(t, DefaultName, d.SaveName())

	d.Name = "  "
	assert.Equal(t, DefaultName, d.SaveName())

	d.Name = "Nightly issue"
	assert.Equal(t, "Nightly issue", d.SaveName())

	edit := &Draft{ID: 7}
	assert.Equal(t, "", edit.SaveName(), "existing workflows keep their stored name")
}
