package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"areactl/internal/catalog"
	"areactl/internal/gateway"
)

func newCatalogCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "catalog",
		Aliases: []string{"cat"},
		Short:   "Browse available actions, modifiers and reactions",
	}
	cmd.AddCommand(newCatalogListCommand(app), newCatalogShowCommand(app))
	return cmd
}

func newCatalogListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list [action|modifier|reaction]",
		Short: "List catalog entries, optionally of one kind",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kinds := catalog.Kinds
			if len(args) == 1 {
				kind, err := catalog.ParseKind(args[0])
				if err != nil {
					return err
				}
				kinds = []catalog.Kind{kind}
			}

			gw, err := app.gateway()
			if err != nil {
				return err
			}

			loader := catalog.NewLoader(gw, app.Logger)
			var entries []catalog.Entry
			for _, k := range kinds {
				entries = append(entries, loader.LoadKind(cmd.Context(), k)...)
			}
			if err := cmd.Context().Err(); err != nil {
				return err
			}

			app.Printer.CatalogNames(catalog.New(entries...), kinds)
			return nil
		},
	}
}

func newCatalogShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <kind> <name>",
		Short: "Show an entry's parameters and outputs",
		Example: `  areactl catalog show action timer_cron_job
  areactl catalog show reaction github_create_issue`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := catalog.ParseKind(args[0])
			if err != nil {
				return err
			}
			name := args[1]

			gw, err := app.gateway()
			if err != nil {
				return err
			}

			entry, err := gw.Detail(cmd.Context(), kind, name)
			if errors.Is(err, gateway.ErrNotFound) {
				return unknownEntry(cmd, gw, kind, name)
			}
			if err != nil {
				return err
			}

			app.Printer.CatalogEntry(entry)
			return nil
		},
	}
}

// unknownEntry builds a not-found error with close matches from the listing.
func unknownEntry(cmd *cobra.Command, gw Gateway, kind catalog.Kind, name string) error {
	notFound := fmt.Errorf("%s %q: %w", kind, name, gateway.ErrNotFound)

	names, err := gw.ListNames(cmd.Context(), kind)
	if err != nil {
		return notFound
	}
	entries := make([]catalog.Entry, len(names))
	for i, n := range names {
		entries[i] = catalog.Entry{Kind: kind, Name: n}
	}
	if hints := catalog.New(entries...).Suggest(kind, name); len(hints) > 0 {
		return fmt.Errorf("%w (did you mean %s?)", notFound, strings.Join(hints, ", "))
	}
	return notFound
}
