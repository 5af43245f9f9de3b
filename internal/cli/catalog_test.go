package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"areactl/internal/catalog"
	"areactl/internal/gateway"
)

func TestCatalogList(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		contains    []string
		notContains []string
	}{
		{
			name:     "all kinds",
			args:     []string{"catalog", "list"},
			contains: []string{"Actions", "timer_cron_job", "Cron job", "Modifiers", "openai_summarize", "Reactions", "github_create_issue"},
		},
		{
			name:        "one kind",
			args:        []string{"catalog", "list", "reactions"},
			contains:    []string{"Reactions", "github_create_issue"},
			notContains: []string{"Actions", "timer_cron_job"},
		},
		{
			name:     "alias",
			args:     []string{"cat", "list", "modifier"},
			contains: []string{"openai_summarize"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)

			require.NoError(t, env.run(tt.args...))

			for _, want := range tt.contains {
				assert.Contains(t, env.out.String(), want)
			}
			for _, unwanted := range tt.notContains {
				assert.NotContains(t, env.out.String(), unwanted)
			}
		})
	}
}

func TestCatalogList_EmptyKind(t *testing.T) {
	env := newTestEnv(t)
	env.backend.Entries = nil

	require.NoError(t, env.run("catalog", "list", "action"))

	assert.Contains(t, env.out.String(), "none available")
}

func TestCatalogList_UnknownKind(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("catalog", "list", "trigger")

	assert.ErrorIs(t, err, catalog.ErrUnknownKind)
}

func TestCatalogList_JSON(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("catalog", "list", "action", "--json"))

	var result struct {
		Success bool                `json:"success"`
		Data    map[string][]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &result))
	assert.True(t, result.Success)
	assert.Equal(t, []string{"github_new_commit", "timer_cron_job"}, result.Data["action"])
}

func TestCatalogList_UsesStoredSession(t *testing.T) {
	env := newTestEnv(t)
	env.login(t, "ada@example.com")

	require.NoError(t, env.run("catalog", "list"))

	require.Len(t, env.sessions, 1)
	require.NotNil(t, env.sessions[0])
	assert.Equal(t, "token-ada@example.com", env.sessions[0].Token)
}

func TestCatalogShow(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("catalog", "show", "reaction", "github_create_issue"))

	out := env.out.String()
	assert.Contains(t, out, "Create issue")
	assert.Contains(t, out, "(reaction github_create_issue)")
	assert.Contains(t, out, "Parameters")
	assert.Contains(t, out, "Repository")
	assert.NotContains(t, out, "Outputs")
}

func TestCatalogShow_UnknownEntrySuggests(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("catalog", "show", "action", "timer")

	assert.ErrorIs(t, err, gateway.ErrNotFound)
	assert.ErrorContains(t, err, `action "timer"`)
	assert.ErrorContains(t, err, "did you mean timer_cron_job?")
	assert.Equal(t, exitNotFound, exitCodeFor(err))
}

func TestCatalogShow_NoSuggestion(t *testing.T) {
	env := newTestEnv(t)

	err := env.run("catalog", "show", "modifier", "zzz")

	assert.ErrorIs(t, err, gateway.ErrNotFound)
	assert.NotContains(t, err.Error(), "did you mean")
}
