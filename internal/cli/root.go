package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"areactl/internal/config"
	"areactl/internal/gateway"
	"areactl/internal/output"
)

// Version is set at build time with -ldflags "-X areactl/internal/cli.Version=...".
var Version = "dev"

// ExecuteResult is the outcome of one CLI invocation.
type ExecuteResult struct {
	ExitCode int
	Err      error
}

// NewRootCommand builds the command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "areactl",
		Short: "Build and manage AREA workflows from the terminal",
		Long: `areactl talks to an AREA backend to create, edit and inspect workflows.

A workflow chains an action (the trigger), an optional modifier and a
reaction. Parameters of later steps can take their value from the outputs
of earlier steps.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd.Flags())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is the user config directory)")
	flags.String("api-url", "", "backend base URL")
	flags.Duration("timeout", 0, "request timeout")
	flags.Bool("json", false, "print results as JSON")
	flags.String("log-format", "", "log encoding: human or json")
	flags.Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newLoginCommand(app),
		newSignupCommand(app),
		newLogoutCommand(app),
		newCatalogCommand(app),
		newWorkflowCommand(app),
		newVersionCommand(),
	)
	return rootCmd
}

// Execute runs the CLI with os.Args and exits with the resulting code.
func Execute() {
	result := RunWithConfig(nil, os.Args[1:])
	if result.ExitCode != 0 {
		os.Exit(result.ExitCode)
	}
}

// RunWithConfig runs the CLI with args. A nil cfg loads configuration from
// flags, environment and files.
//
// Errors are reported through the printer; an [ExitError] is assumed to be
// reported already and only sets the exit code.
func RunWithConfig(cfg *config.Config, args []string) ExecuteResult {
	app := &App{Config: cfg}
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if app.Logger != nil {
		_ = app.Logger.Sync()
	}
	if err == nil {
		return ExecuteResult{}
	}
	if code, ok := IsExitError(err); ok {
		return ExecuteResult{ExitCode: code, Err: err}
	}

	printer := app.Printer
	if printer == nil {
		printer = output.NewPrinter()
	}
	printer.Error(describe(err))
	return ExecuteResult{ExitCode: exitCodeFor(err), Err: err}
}

// Exit codes beyond the generic failure.
const (
	exitInvalid      = 2
	exitUnauthorized = 3
	exitNotFound     = 4
)

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, gateway.ErrUnauthorized):
		return exitUnauthorized
	case errors.Is(err, gateway.ErrNotFound):
		return exitNotFound
	}
	return 1
}

// describe adds a next step to errors the user can act on.
func describe(err error) error {
	if errors.Is(err, gateway.ErrUnauthorized) {
		return fmt.Errorf("%w (run `areactl login`)", err)
	}
	return err
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the areactl version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "areactl", Version)
			return nil
		},
	}
}
