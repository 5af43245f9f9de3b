package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"areactl/internal/config"
	"areactl/internal/gateway"
	"areactl/internal/gateway/gatewaytest"
	"areactl/internal/logging"
	"areactl/internal/output"
	"areactl/internal/session"
	"areactl/internal/wizard"
)

// testEnv is an App wired to an in-memory backend.
type testEnv struct {
	app     *App
	backend *gatewaytest.Backend
	out     *bytes.Buffer

	// sessions records the session passed to each NewGateway call.
	sessions []*session.Session

	// wizards records the wizards handed to RunWizard.
	wizards []*wizard.Wizard
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		backend: gatewaytest.New(gatewaytest.SampleEntries()...),
		out:     &bytes.Buffer{},
	}
	env.app = &App{
		Config:   config.DefaultConfig(),
		Logger:   logging.Nop(),
		Sessions: session.NewStore(filepath.Join(t.TempDir(), "session.yaml")),
		Printer:  output.NewPrinterWithWriter(env.out),
		In:       strings.NewReader(""),
		NewGateway: func(sess *session.Session) Gateway {
			env.sessions = append(env.sessions, sess)
			return env.backend
		},
		Interactive: func() bool { return false },
		RunWizard: func(ctx context.Context, w *wizard.Wizard) (gateway.Workflow, bool, error) {
			env.wizards = append(env.wizards, w)
			return gateway.Workflow{}, false, nil
		},
		ReadPassword: func() (string, error) { return "", nil },
	}
	return env
}

// run executes the command tree with args and returns the command error.
func (e *testEnv) run(args ...string) error {
	rootCmd := NewRootCommand(e.app)
	rootCmd.SetOut(e.out)
	rootCmd.SetErr(e.out)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

// login stores a session as if the user had signed in.
func (e *testEnv) login(t *testing.T, email string) {
	t.Helper()
	require.NoError(t, e.app.Sessions.Save(&session.Session{Token: "token-" + email, Email: email}))
}

// isolateConfig keeps configuration and session lookups inside a temp dir.
func isolateConfig(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv("HOME", tmpDir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv(config.ConfigPathEnv, "")
}

func defaultTestConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Session.Path = filepath.Join(t.TempDir(), "session.yaml")
	return cfg
}

// writeDefinition writes a workflow definition file and returns its path.
func writeDefinition(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "workflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const cronToIssue = `name: Monday triage
action:
  name: timer_cron_job
  params:
    schedule: "0 9 * * 1"
reaction:
  name: github_create_issue
  params:
    repo: acme/ops
    title: {output: fired_at}
`
