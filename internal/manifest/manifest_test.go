package manifest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"areactl/internal/catalog"
	"areactl/internal/draft"
)

func TestReadFromFile_CronToIssue(t *testing.T) {
	d, err := ReadFromFile(filepath.Join("testdata", "cron_to_issue.yaml"))

	require.NoError(t, err)
	assert.Equal(t, "Monday triage", d.Name)
	assert.True(t, d.IsActive(), "active defaults to true")
	assert.Nil(t, d.Modifier)

	require.NotNil(t, d.Action)
	assert.Equal(t, "timer_cron_job", d.Action.Name)
	assert.Equal(t, Params{{Name: "schedule", Value: "0 9 * * 1"}}, d.Action.Params)

	require.NotNil(t, d.Reaction)
	assert.Equal(t, Params{
		{Name: "repo", Value: "acme/ops"},
		{Name: "title", Output: "fired_at"},
	}, d.Reaction.Params)
}

func TestReadFromFile_WithModifier(t *testing.T) {
	d, err := ReadFromFile(filepath.Join("testdata", "with_modifier.yaml"))

	require.NoError(t, err)
	assert.False(t, d.IsActive())
	require.NotNil(t, d.Modifier)
	assert.Equal(t, "translate", d.Modifier.Name)

	// Order follows the file, numbers keep their text.
	assert.Equal(t, Params{
		{Name: "text", Output: "body"},
		{Name: "lang", Value: "fr"},
		{Name: "retries", Value: "3"},
	}, d.Modifier.Params)

	p, ok := d.Reaction.Params.Lookup("content")
	require.True(t, ok)
	assert.True(t, p.IsReference())
	_, ok = d.Reaction.Params.Lookup("missing")
	assert.False(t, ok)
}

func TestReadFromFile_NotFound(t *testing.T) {
	d, err := ReadFromFile(filepath.Join("testdata", "nonexistent.yaml"))

	assert.Error(t, err)
	assert.Nil(t, d)
	assert.Contains(t, err.Error(), "failed to read workflow definition")
}

func TestReadFromFile_MissingReaction(t *testing.T) {
	d, err := ReadFromFile(filepath.Join("testdata", "missing_reaction.yaml"))

	assert.ErrorIs(t, err, ErrInvalid)
	assert.Nil(t, d)
	assert.Contains(t, err.Error(), "reaction is required")
}

func TestReadFromBytes_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			yaml:    "action: [unclosed",
			wantErr: "failed to parse workflow definition",
		},
		{
			name:    "missing action",
			yaml:    "reaction: {name: r}",
			wantErr: "action is required",
		},
		{
			name:    "blank step name",
			yaml:    "action: {name: ' '}\nreaction: {name: r}",
			wantErr: "action has no name",
		},
		{
			name:    "params not a mapping",
			yaml:    "action: {name: a, params: [x]}\nreaction: {name: r}",
			wantErr: "params must be a mapping",
		},
		{
			name:    "reference without output",
			yaml:    "action: {name: a}\nreaction: {name: r, params: {x: {source: y}}}",
			wantErr: "reference needs an output name",
		},
		{
			name:    "list value",
			yaml:    "action: {name: a}\nreaction: {name: r, params: {x: [1, 2]}}",
			wantErr: "must be a value or {output: name}",
		},
		{
			name:    "duplicate param",
			yaml:    "action: {name: a}\nreaction:\n  name: r\n  params:\n    x: 1\n    x: 2\n",
			wantErr: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadFromBytes([]byte(tt.yaml))
			require.Error(t, err)
			if tt.wantErr != "" {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestReadFromBytes_NullValue(t *testing.T) {
	d, err := ReadFromBytes([]byte("action: {name: a, params: {x: ~}}\nreaction: {name: r}"))

	require.NoError(t, err)
	assert.Equal(t, Params{{Name: "x"}}, d.Action.Params)
}

func TestValidate_DuplicateParam(t *testing.T) {
	d := &Definition{
		Action:   &Step{Name: "a", Params: Params{{Name: "x"}, {Name: "x"}}},
		Reaction: &Step{Name: "r"},
	}
	err := d.Validate()
	assert.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), `parameter "x" is set twice`)
}

func TestMarshal_RoundTripsReferences(t *testing.T) {
	d, err := ReadFromFile(filepath.Join("testdata", "with_modifier.yaml"))
	require.NoError(t, err)

	data, err := Marshal(d)
	require.NoError(t, err)
	assert.Contains(t, string(data), "text: {output: body}")
	assert.Contains(t, string(data), `retries: "3"`)

	again, err := ReadFromBytes(data)
	require.NoError(t, err)
	assert.Equal(t, d, again)
}

func TestFromDraft(t *testing.T) {
	cron := catalog.Entry{
		Kind:       catalog.KindAction,
		Name:       "timer_cron_job",
		Parameters: []catalog.ParameterDef{{Name: "schedule"}},
		Outputs:    []catalog.OutputDef{{Name: "fired_at", DisplayName: "Fired at"}},
	}
	issue := catalog.Entry{
		Kind:       catalog.KindReaction,
		Name:       "github_create_issue",
		Parameters: []catalog.ParameterDef{{Name: "repo"}, {Name: "title"}, {Name: "body"}, {Name: "label"}},
	}

	d := draft.New()
	d.Name = "Monday triage"
	require.NoError(t, d.Select(catalog.KindAction, cron))
	require.NoError(t, d.Select(catalog.KindReaction, issue))
	require.NoError(t, d.SetValue(catalog.KindAction, "schedule", "0 9 * * 1"))
	require.NoError(t, d.SetValue(catalog.KindReaction, "repo", "acme/ops"))
	require.NoError(t, d.SetValue(catalog.KindReaction, "title", "#fired_at"))
	require.NoError(t, d.SetValue(catalog.KindReaction, "body", "#gone"))

	def := FromDraft(d)

	assert.Equal(t, "Monday triage", def.Name)
	assert.True(t, def.IsActive())
	assert.Nil(t, def.Modifier)
	assert.Equal(t, "timer_cron_job", def.Action.Name)
	assert.Equal(t, Params{
		{Name: "repo", Value: "acme/ops"},
		{Name: "title", Output: "fired_at"},
		{Name: "body", Value: "#gone"},
	}, def.Reaction.Params, "blank label dropped, dangling reference kept literal")
	assert.NoError(t, def.Validate())
}
