package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"areactl/internal/gateway"
	"areactl/internal/manifest"
	"areactl/internal/wizard"
)

func commits() gateway.Workflow {
	return gateway.Workflow{
		ID:                 7,
		Name:               "Commits",
		Active:             true,
		ActionName:         "github_new_commit",
		ActionParameters:   []string{"repo=acme/app"},
		ReactionName:       "github_create_issue",
		ReactionParameters: []string{"title=#sha"},
	}
}

func TestParseID(t *testing.T) {
	tests := []struct {
		arg     string
		want    int
		wantErr bool
	}{
		{arg: "7", want: 7},
		{arg: "0", wantErr: true},
		{arg: "-3", wantErr: true},
		{arg: "seven", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			got, err := parseID(tt.arg)
			if tt.wantErr {
				assert.ErrorContains(t, err, "invalid workflow id")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorkflowList(t *testing.T) {
	env := newTestEnv(t)
	env.backend.Workflows[7] = commits()
	paused := commits()
	paused.ID, paused.Name, paused.Active, paused.ModifierName = 8, "Digest", false, "openai_summarize"
	env.backend.Workflows[8] = paused

	require.NoError(t, env.run("workflow", "list"))

	out := env.out.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Commits")
	assert.Contains(t, out, "Digest")
	assert.Contains(t, out, "openai_summarize")
	assert.Regexp(t, `7\s+Commits\s+\S+\s+github_new_commit\s+-\s+github_create_issue`, out)
}

func TestWorkflowList_Empty(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("wf", "ls"))

	assert.Contains(t, env.out.String(), "No workflows found.")
}

func TestWorkflowShow(t *testing.T) {
	env := newTestEnv(t)
	env.backend.Workflows[7] = commits()

	require.NoError(t, env.run("workflow", "show", "7"))

	out := env.out.String()
	assert.Contains(t, out, "#7 Commits")
	assert.Contains(t, out, "repo = acme/app")
	assert.Contains(t, out, "title = ← sha")
	assert.Contains(t, out, "none")
}

func TestWorkflowShow_YAML(t *testing.T) {
	env := newTestEnv(t)
	env.backend.Workflows[7] = commits()

	require.NoError(t, env.run("workflow", "show", "7", "-o", "yaml"))

	out := env.out.String()
	assert.Contains(t, out, "name: Commits")
	assert.Contains(t, out, "repo: acme/app")
	assert.Contains(t, out, "title: {output: sha}")

	def, err := manifest.ReadFromBytes(env.out.Bytes())
	require.NoError(t, err, "exported yaml can be applied again")
	assert.Equal(t, "github_new_commit", def.Action.Name)
	assert.Nil(t, def.Modifier)
}

func TestWorkflowShow_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
		is      error
	}{
		{name: "bad id", args: []string{"workflow", "show", "abc"}, wantErr: `invalid workflow id "abc"`},
		{name: "missing", args: []string{"workflow", "show", "99"}, is: gateway.ErrNotFound},
		{name: "bad format", args: []string{"workflow", "show", "7", "-o", "toml"}, wantErr: `unknown output format "toml"`},
		{name: "no id", args: []string{"workflow", "show"}, wantErr: "accepts 1 arg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.backend.Workflows[7] = commits()

			err := env.run(tt.args...)

			require.Error(t, err)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
			}
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestWorkflowDelete(t *testing.T) {
	env := newTestEnv(t)
	env.backend.Workflows[7] = commits()

	require.NoError(t, env.run("workflow", "delete", "7"))

	assert.NotContains(t, env.backend.Workflows, 7)
	assert.Contains(t, env.out.String(), "Deleted workflow #7")

	err := env.run("workflow", "rm", "7")
	assert.ErrorIs(t, err, gateway.ErrNotFound)
}

func TestWorkflowLogs(t *testing.T) {
	env := newTestEnv(t)
	env.backend.Workflows[7] = commits()
	env.backend.LogsByID[7] = []gateway.LogEntry{
		{Type: "info", Message: "issue created"},
		{Type: "error", Message: "rate limited"},
	}

	require.NoError(t, env.run("workflow", "logs", "7"))

	out := env.out.String()
	assert.Contains(t, out, "INFO  issue created")
	assert.Contains(t, out, "ERROR rate limited")
}

func TestWorkflowLogs_Empty(t *testing.T) {
	env := newTestEnv(t)
	env.backend.Workflows[7] = commits()

	require.NoError(t, env.run("workflow", "logs", "7"))

	assert.Contains(t, env.out.String(), "No logs yet.")
}

func TestWorkflowNew_NeedsTerminal(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("workflow", "new")

	assert.ErrorContains(t, err, "needs a terminal")
	assert.Empty(t, env.wizards)
}

func TestWorkflowNew(t *testing.T) {
	tests := []struct {
		name  string
		saved bool
		want  string
	}{
		{name: "saved", saved: true, want: "Saved workflow #9"},
		{name: "cancelled", saved: false, want: "cancelled, nothing saved"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.app.Interactive = func() bool { return true }
			env.app.RunWizard = func(ctx context.Context, w *wizard.Wizard) (gateway.Workflow, bool, error) {
				env.wizards = append(env.wizards, w)
				return gateway.Workflow{ID: 9}, tt.saved, nil
			}

			require.NoError(t, env.run("workflow", "new"))

			require.Len(t, env.wizards, 1)
			w := env.wizards[0]
			assert.True(t, w.Draft().IsNew())
			assert.Equal(t, wizard.NameStep, w.Step())
			assert.Len(t, w.Catalog().Entries("action"), 2)
			assert.Contains(t, env.out.String(), tt.want)
		})
	}
}

func TestWorkflowNew_WarnsOnEmptyCatalog(t *testing.T) {
	env := newTestEnv(t)
	env.backend.Entries = nil
	env.app.Interactive = func() bool { return true }

	require.NoError(t, env.run("workflow", "new"))

	assert.Contains(t, env.out.String(), "no actions are available")
	assert.Contains(t, env.out.String(), "no reactions are available")
	assert.Len(t, env.wizards, 1, "the editor still opens")
}

func TestWorkflowEdit(t *testing.T) {
	env := newTestEnv(t)
	env.backend.Workflows[7] = commits()
	env.app.Interactive = func() bool { return true }

	require.NoError(t, env.run("workflow", "edit", "7"))

	require.Len(t, env.wizards, 1)
	d := env.wizards[0].Draft()
	assert.Equal(t, 7, d.ID)
	assert.Equal(t, "Commits", d.Name)
	assert.Equal(t, "github_new_commit", d.Action.Name())
	assert.Equal(t, "sha", env.wizards[0].DisplayValue("reaction", "title"))
}

func TestWorkflowEdit_NeedsTerminal(t *testing.T) {
	env := newTestEnv(t)
	env.backend.Workflows[7] = commits()

	err := env.run("workflow", "edit", "7")

	assert.ErrorContains(t, err, "--id 7")
}

func TestWorkflowApply(t *testing.T) {
	env := newTestEnv(t)
	path := writeDefinition(t, cronToIssue)

	require.NoError(t, env.run("workflow", "apply", "-f", path))

	call, ok := env.backend.LastSave()
	require.True(t, ok)
	assert.Zero(t, call.ID)
	assert.Equal(t, gateway.SaveRequest{
		Name:               "Monday triage",
		Active:             true,
		ActionName:         "timer_cron_job",
		ActionParameters:   []string{"schedule=0 9 * * 1"},
		ModifierParameters: []string{},
		ReactionName:       "github_create_issue",
		ReactionParameters: []string{"repo=acme/ops", "title=#fired_at"},
	}, call.Request)

	out := env.out.String()
	assert.Contains(t, out, "[1/5] name")
	assert.Contains(t, out, "[3/5] modifier none")
	assert.Contains(t, out, "[5/5] save")
	assert.Contains(t, out, "Saved workflow #1")
	assert.Contains(t, out, "#1 Monday triage")
	assert.Empty(t, env.backend.Checks)
}

func TestWorkflowApply_Check(t *testing.T) {
	env := newTestEnv(t)
	path := writeDefinition(t, cronToIssue)

	require.NoError(t, env.run("workflow", "apply", "-f", path, "--check"))

	assert.Len(t, env.backend.Checks, 1)
	assert.Equal(t, 1, env.backend.SaveCount())
	assert.Contains(t, env.out.String(), "[5/6] check")
}

func TestWorkflowApply_CheckRejects(t *testing.T) {
	env := newTestEnv(t)
	env.backend.CheckError = "bad cron expression"
	path := writeDefinition(t, cronToIssue)

	err := env.run("workflow", "apply", "-f", path, "--check")

	assert.ErrorIs(t, err, gateway.ErrInvalidSyntax)
	assert.ErrorContains(t, err, "bad cron expression")
	assert.Zero(t, env.backend.SaveCount())
}

func TestWorkflowApply_ReplacesExisting(t *testing.T) {
	env := newTestEnv(t)
	env.backend.Workflows[7] = commits()
	path := writeDefinition(t, cronToIssue)

	require.NoError(t, env.run("workflow", "apply", "-f", path, "--id", "7"))

	call, ok := env.backend.LastSave()
	require.True(t, ok)
	assert.Equal(t, 7, call.ID)
	assert.Equal(t, "timer_cron_job", env.backend.Workflows[7].ActionName)
	assert.Len(t, env.backend.Workflows, 1)
}

func TestWorkflowApply_JSON(t *testing.T) {
	env := newTestEnv(t)
	path := writeDefinition(t, cronToIssue)

	require.NoError(t, env.run("workflow", "apply", "-f", path, "--json"))

	var result struct {
		Success bool             `json:"success"`
		Data    gateway.Workflow `json:"data"`
	}
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &result), "only the JSON result is written")
	assert.True(t, result.Success)
	assert.Equal(t, 1, result.Data.ID)
	assert.Equal(t, "Monday triage", result.Data.Name)
}

func TestWorkflowApply_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		args    []string
		wantErr string
	}{
		{
			name:    "missing reaction",
			content: "action:\n  name: timer_cron_job\n",
			wantErr: "reaction is required",
		},
		{
			name:    "unknown action",
			content: "action:\n  name: timer\nreaction:\n  name: github_create_issue\n",
			wantErr: "step action timer failed",
		},
		{
			name:    "output not visible",
			content: "action:\n  name: timer_cron_job\n  params:\n    schedule: {output: fired_at}\nreaction:\n  name: github_create_issue\n",
			wantErr: "output is not available at this step",
		},
		{
			name:    "unknown id",
			content: cronToIssue,
			args:    []string{"--id", "99"},
			wantErr: "status 404",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			path := writeDefinition(t, tt.content)

			err := env.run(append([]string{"workflow", "apply", "-f", path}, tt.args...)...)

			assert.ErrorContains(t, err, tt.wantErr)
			assert.Zero(t, env.backend.SaveCount())
		})
	}
}

func TestWorkflowApply_FileRequired(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("workflow", "apply")

	assert.ErrorContains(t, err, `required flag(s) "file" not set`)
}

func TestWorkflowCheck(t *testing.T) {
	env := newTestEnv(t)
	path := writeDefinition(t, cronToIssue)

	require.NoError(t, env.run("workflow", "check", "-f", path))

	assert.Contains(t, env.out.String(), "definition is valid")
	assert.Len(t, env.backend.Checks, 1)
	assert.Zero(t, env.backend.SaveCount())
}

func TestWorkflowCheck_Rejected(t *testing.T) {
	env := newTestEnv(t)
	env.backend.CheckError = "bad cron expression"
	path := writeDefinition(t, cronToIssue)

	err := env.run("workflow", "check", "-f", path)

	code, ok := IsExitError(err)
	require.True(t, ok)
	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, env.out.String(), "bad cron expression")
	assert.Zero(t, env.backend.SaveCount())
}
