package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"areactl/internal/gateway"
)

func TestNewRootCommand(t *testing.T) {
	rootCmd := NewRootCommand(&App{})

	assert.Equal(t, "areactl", rootCmd.Use)
	for _, name := range []string{"login", "signup", "logout", "catalog", "workflow", "version"} {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	for _, flag := range []string{"config", "api-url", "timeout", "json", "log-format", "debug"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersionCommand(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("version"))

	assert.Equal(t, "areactl dev\n", env.out.String())
}

func TestDebugFlagRaisesLogLevel(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.run("version", "--debug"))

	assert.Equal(t, "debug", env.app.Config.Log.Level)
}

func TestAppInit_FillsDefaults(t *testing.T) {
	isolateConfig(t)
	app := &App{}
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs([]string{"version", "--api-url", "http://area.test:9000"})
	rootCmd.SetOut(io.Discard)

	require.NoError(t, rootCmd.Execute())

	assert.Equal(t, "http://area.test:9000", app.Config.API.BaseURL)
	assert.NotNil(t, app.Logger)
	assert.NotNil(t, app.Printer)
	assert.NotNil(t, app.Sessions)
	assert.NotNil(t, app.NewGateway)
	assert.NotNil(t, app.RunWizard)
	assert.IsType(t, &gateway.Client{}, app.NewGateway(nil))
}

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "generic", err: errors.New("boom"), want: 1},
		{name: "unauthorized", err: &gateway.APIError{Status: 401}, want: exitUnauthorized},
		{name: "forbidden", err: &gateway.APIError{Status: 403}, want: exitUnauthorized},
		{name: "not found wrapped", err: fmt.Errorf("open: %w", &gateway.APIError{Status: 404}), want: exitNotFound},
		{name: "server error", err: &gateway.APIError{Status: 500, Body: "down"}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCodeFor(tt.err))
		})
	}
}

func TestDescribe(t *testing.T) {
	err := describe(&gateway.APIError{Status: 401, Body: "token expired"})
	assert.EqualError(t, err, "token expired (run `areactl login`)")
	assert.ErrorIs(t, err, gateway.ErrUnauthorized)

	plain := errors.New("boom")
	assert.Same(t, plain, describe(plain))
}

func TestRunWithConfig_ReportsErrors(t *testing.T) {
	isolateConfig(t)
	cfg := defaultTestConfig(t)

	result := RunWithConfig(cfg, []string{"workflow", "show", "abc"})

	assert.Equal(t, 1, result.ExitCode)
	assert.ErrorContains(t, result.Err, "invalid workflow id")
}

func TestRunWithConfig_Success(t *testing.T) {
	isolateConfig(t)

	result := RunWithConfig(defaultTestConfig(t), []string{"version"})

	assert.Zero(t, result.ExitCode)
	assert.NoError(t, result.Err)
}

func TestJSONErrorEnvelope(t *testing.T) {
	env := newTestEnv(t)
	env.app.Printer.SetJSON(true)

	err := env.run("workflow", "show", "99", "--json")
	require.Error(t, err)
	env.app.Printer.Error(describe(err))

	var result struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(env.out.Bytes(), &result))
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "404")
}
