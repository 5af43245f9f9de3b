package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"areactl/internal/apply"
	"areactl/internal/catalog"
	"areactl/internal/gateway"
	"areactl/internal/manifest"
	"areactl/internal/wizard"
)

func newWorkflowCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workflow",
		Aliases: []string{"wf"},
		Short:   "Create, edit and inspect workflows",
	}
	cmd.AddCommand(
		newWorkflowListCommand(app),
		newWorkflowShowCommand(app),
		newWorkflowDeleteCommand(app),
		newWorkflowLogsCommand(app),
		newWorkflowNewCommand(app),
		newWorkflowEditCommand(app),
		newWorkflowApplyCommand(app),
		newWorkflowCheckCommand(app),
	)
	return cmd
}

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid workflow id %q", arg)
	}
	return id, nil
}

func newWorkflowListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List your workflows",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gw, err := app.gateway()
			if err != nil {
				return err
			}
			wfs, err := gw.ListWorkflows(cmd.Context())
			if err != nil {
				return err
			}
			app.Printer.Workflows(wfs)
			return nil
		},
	}
}

func newWorkflowShowCommand(app *App) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a workflow",
		Long: `Show a workflow.

With --output yaml the workflow is printed as a definition file that
"areactl workflow apply" accepts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			gw, err := app.gateway()
			if err != nil {
				return err
			}

			switch format {
			case "", "text":
				wf, err := gw.GetWorkflow(cmd.Context(), id)
				if err != nil {
					return err
				}
				app.Printer.Workflow(wf)
				return nil
			case "yaml":
				w, err := wizard.Open(cmd.Context(), gw, id, app.Logger)
				if err != nil {
					return err
				}
				data, err := manifest.Marshal(manifest.FromDraft(w.Draft()))
				if err != nil {
					return err
				}
				app.Printer.Raw(data)
				return nil
			}
			return fmt.Errorf("unknown output format %q: use text or yaml", format)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "", "output format: text or yaml")
	return cmd
}

func newWorkflowDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a workflow",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			gw, err := app.gateway()
			if err != nil {
				return err
			}
			if err := gw.DeleteWorkflow(cmd.Context(), id); err != nil {
				return err
			}
			app.Printer.Print(map[string]int{"deleted": id}, func() {
				app.Printer.Success("Deleted workflow #%d", id)
			})
			return nil
		},
	}
}

func newWorkflowLogsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logs <id>",
		Short: "Show a workflow's execution log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			gw, err := app.gateway()
			if err != nil {
				return err
			}
			entries, err := gw.Logs(cmd.Context(), id)
			if err != nil {
				return err
			}
			app.Printer.Logs(entries)
			return nil
		},
	}
}

// reportCatalog warns when kinds the wizard needs came back empty.
func reportCatalog(app *App, w *wizard.Wizard) {
	for _, kind := range []catalog.Kind{catalog.KindAction, catalog.KindReaction} {
		if len(w.Catalog().Entries(kind)) == 0 {
			app.Printer.Warn("no %ss are available; the backend may be unreachable or you may need to log in", kind)
		}
	}
}

func newWorkflowNewCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Build a workflow in the interactive editor",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.Interactive() {
				return fmt.Errorf("workflow new needs a terminal; use `areactl workflow apply -f`")
			}
			gw, err := app.gateway()
			if err != nil {
				return err
			}
			w, err := wizard.Start(cmd.Context(), gw, app.Logger)
			if err != nil {
				return err
			}
			return runEditor(cmd, app, w)
		},
	}
}

func newWorkflowEditCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a workflow in the interactive editor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if !app.Interactive() {
				return fmt.Errorf("workflow edit needs a terminal; use `areactl workflow apply -f FILE --id %d`", id)
			}
			gw, err := app.gateway()
			if err != nil {
				return err
			}
			w, err := wizard.Open(cmd.Context(), gw, id, app.Logger)
			if err != nil {
				return err
			}
			return runEditor(cmd, app, w)
		},
	}
}

func runEditor(cmd *cobra.Command, app *App, w *wizard.Wizard) error {
	reportCatalog(app, w)

	wf, saved, err := app.RunWizard(cmd.Context(), w)
	if err != nil {
		return err
	}
	if !saved {
		app.Printer.Info("cancelled, nothing saved")
		return nil
	}
	app.Printer.Print(wf, func() {
		app.Printer.Success("Saved workflow #%d", wf.ID)
	})
	return nil
}

func newWorkflowApplyCommand(app *App) *cobra.Command {
	var (
		file  string
		id    int
		check bool
	)

	cmd := &cobra.Command{
		Use:   "apply -f FILE",
		Short: "Create or replace a workflow from a definition file",
		Long: `Create or replace a workflow from a YAML definition file.

The file is applied step by step through the same editor logic as the
interactive wizard. Nothing is saved if any step fails.`,
		Example: `  areactl workflow apply -f triage.yaml
  areactl workflow apply -f triage.yaml --id 7 --check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := manifest.ReadFromFile(file)
			if err != nil {
				return err
			}
			gw, err := app.gateway()
			if err != nil {
				return err
			}

			var w *wizard.Wizard
			if id > 0 {
				w, err = wizard.Open(cmd.Context(), gw, id, app.Logger)
			} else {
				w, err = wizard.Start(cmd.Context(), gw, app.Logger)
			}
			if err != nil {
				return err
			}

			executor := apply.NewExecutor(w)
			if check {
				executor.SetChecker(gw)
			}
			if !app.Printer.JSON() {
				executor.SetProgressCallback(app.Printer.Step)
			}

			wf, err := executor.Execute(cmd.Context(), def)
			if err != nil {
				return err
			}
			app.Printer.Print(wf, func() {
				app.Printer.Success("Saved workflow #%d", wf.ID)
				app.Printer.Workflow(wf)
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "workflow definition file")
	cmd.Flags().IntVar(&id, "id", 0, "replace the workflow with this id instead of creating one")
	cmd.Flags().BoolVar(&check, "check", false, "validate with the backend before saving")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newWorkflowCheckCommand(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "check -f FILE",
		Short: "Validate a definition file with the backend without saving",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := manifest.ReadFromFile(file)
			if err != nil {
				return err
			}
			gw, err := app.gateway()
			if err != nil {
				return err
			}
			w, err := wizard.Start(cmd.Context(), gw, app.Logger)
			if err != nil {
				return err
			}

			executor := apply.NewExecutor(w)
			executor.SetChecker(gw)
			err = executor.Check(cmd.Context(), def)
			if errors.Is(err, gateway.ErrInvalidSyntax) {
				app.Printer.Error(err)
				return NewExitError(exitInvalid)
			}
			if err != nil {
				return err
			}
			app.Printer.Print(map[string]bool{"valid": true}, func() {
				app.Printer.Success("definition is valid")
			})
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "workflow definition file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
