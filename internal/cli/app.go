// Package cli provides the Cobra command tree for areactl.
//
// Commands share an [App] container that carries the configuration, logger,
// session store, output printer and a factory for the backend client. Tests
// build an App with fakes and drive it through [NewRootCommand].
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/term"

	"areactl/internal/config"
	"areactl/internal/gateway"
	"areactl/internal/logging"
	"areactl/internal/output"
	"areactl/internal/session"
	"areactl/internal/tui"
	"areactl/internal/wizard"
)

// Gateway is the backend surface the commands use. [gateway.Client] implements it.
type Gateway interface {
	wizard.Backend
	ListWorkflows(ctx context.Context) ([]gateway.Workflow, error)
	DeleteWorkflow(ctx context.Context, id int) error
	Validate(ctx context.Context, req gateway.SaveRequest) error
	Logs(ctx context.Context, id int) ([]gateway.LogEntry, error)
	SignIn(ctx context.Context, email, password string) (*session.Session, error)
	SignUp(ctx context.Context, email, password string) (*session.Session, error)
}

// App holds the dependencies shared by every command.
//
// Nil fields are filled from the configuration when the root command runs,
// so tests only set what they replace.
type App struct {
	Config   *config.Config
	Logger   *zap.SugaredLogger
	Sessions *session.Store
	Printer  *output.Printer

	// In supplies prompted input such as the login email.
	In io.Reader

	// NewGateway builds a backend client. sess is nil for anonymous calls.
	NewGateway func(sess *session.Session) Gateway

	// Interactive reports whether the terminal can host prompts and the wizard.
	Interactive func() bool

	// RunWizard runs the interactive editor until the user saves or quits.
	RunWizard func(ctx context.Context, w *wizard.Wizard) (gateway.Workflow, bool, error)

	// ReadPassword reads a secret without echo.
	ReadPassword func() (string, error)
}

// init completes the App from flags and configuration.
func (a *App) init(fs *pflag.FlagSet) error {
	if a.Config == nil {
		cfg, err := loadConfig(fs)
		if err != nil {
			return err
		}
		a.Config = cfg
	} else if fs.Changed("json") {
		a.Config.Output.JSON, _ = fs.GetBool("json")
	}
	if debug, _ := fs.GetBool("debug"); debug {
		a.Config.Log.Level = "debug"
	}

	if a.Logger == nil {
		log, err := logging.New(a.Config.Log)
		if err != nil {
			return err
		}
		a.Logger = log
	}
	if a.Printer == nil {
		a.Printer = output.NewPrinter()
	}
	a.Printer.SetJSON(a.Config.Output.JSON)

	if a.Sessions == nil {
		path, err := session.ResolvePath(a.Config.Session.Path)
		if err != nil {
			return err
		}
		a.Sessions = session.NewStore(path)
	}
	if a.In == nil {
		a.In = os.Stdin
	}
	if a.NewGateway == nil {
		cfg, log := a.Config.API, a.Logger
		a.NewGateway = func(sess *session.Session) Gateway {
			return gateway.New(cfg.BaseURL, sess, gateway.WithTimeout(cfg.Timeout), gateway.WithLogger(log))
		}
	}
	if a.Interactive == nil {
		enabled := a.Config.Output.Interactive
		a.Interactive = func() bool {
			return enabled && term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		}
	}
	if a.RunWizard == nil {
		a.RunWizard = func(ctx context.Context, w *wizard.Wizard) (gateway.Workflow, bool, error) {
			return tui.Run(ctx, w)
		}
	}
	if a.ReadPassword == nil {
		a.ReadPassword = func() (string, error) {
			b, err := term.ReadPassword(int(os.Stdin.Fd()))
			return string(b), err
		}
	}
	return nil
}

func loadConfig(fs *pflag.FlagSet) (*config.Config, error) {
	loader := config.NewLoader()
	if err := loader.BindFlags(fs); err != nil {
		return nil, err
	}
	if path, _ := fs.GetString("config"); path != "" {
		return loader.LoadFromFile(path)
	}
	return loader.Load()
}

// gateway returns a client carrying the stored session, if any.
func (a *App) gateway() (Gateway, error) {
	sess, err := a.Sessions.Load()
	if err != nil {
		return nil, err
	}
	if !sess.Authenticated() {
		a.Logger.Debugw("no stored session, calling the backend anonymously", "path", a.Sessions.Path())
		sess = nil
	}
	return a.NewGateway(sess), nil
}
