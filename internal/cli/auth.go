package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"areactl/internal/session"
)

type authFunc func(ctx context.Context, gw Gateway, email, password string) (*session.Session, error)

func newLoginCommand(app *App) *cobra.Command {
	return newAuthCommand(app, "login", "Sign in and store the session",
		func(ctx context.Context, gw Gateway, email, password string) (*session.Session, error) {
			return gw.SignIn(ctx, email, password)
		})
}

func newSignupCommand(app *App) *cobra.Command {
	return newAuthCommand(app, "signup", "Create an account and store the session",
		func(ctx context.Context, gw Gateway, email, password string) (*session.Session, error) {
			return gw.SignUp(ctx, email, password)
		})
}

func newAuthCommand(app *App, use, short string, auth authFunc) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `.

Missing credentials are prompted for. The password is read without echo
when stdin is a terminal, otherwise from the next line of stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := bufio.NewReader(app.In)

			if email == "" {
				v, err := prompt(cmd.ErrOrStderr(), in, "Email: ")
				if err != nil {
					return err
				}
				email = v
			}
			if password == "" {
				v, err := readSecret(app, cmd.ErrOrStderr(), in)
				if err != nil {
					return err
				}
				password = v
			}
			if email == "" || password == "" {
				return errors.New("email and password are required")
			}

			sess, err := auth(cmd.Context(), app.NewGateway(nil), email, password)
			if err != nil {
				return err
			}
			if err := app.Sessions.Save(sess); err != nil {
				return err
			}

			app.Logger.Debugw("session stored", "path", app.Sessions.Path())
			app.Printer.Print(map[string]string{"email": sess.Email}, func() {
				app.Printer.Success("Logged in as %s", sess.Email)
			})
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sessions.Clear(); err != nil {
				return err
			}
			app.Printer.Print(map[string]bool{"logged_out": true}, func() {
				app.Printer.Success("Logged out")
			})
			return nil
		},
	}
}

func prompt(w io.Writer, in *bufio.Reader, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func readSecret(app *App, w io.Writer, in *bufio.Reader) (string, error) {
	if !app.Interactive() {
		return prompt(w, in, "Password: ")
	}
	fmt.Fprint(w, "Password: ")
	secret, err := app.ReadPassword()
	fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return secret, nil
}
