package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gwi.com/covalence/internal/nav"
	"gwi.com/covalence/internal/session"
	"gwi.com/covalence/internal/view"
)

func newSignInCmd(app *application) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in with a demo account",
		Example: `  covalence signin --email analyst@demo.com
  covalence signin -e admin@demo.com -p demo123`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if email == "" {
				if email, err = prompt(app, cmd, "Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = readPassword(app, cmd, "Password: "); err != nil {
					return err
				}
			}

			id, err := app.auth.SignIn(cmd.Context(), strings.TrimSpace(email), password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), view.Sidebar(id, nav.Chat))
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")
	return cmd
}

func newSignUpCmd(app *application) *cobra.Command {
	var email, password, fullName, role string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create a demo identity and sign in as it",
		Long: `Create a demo identity. Nothing is checked: the identity is made up from
the given fields and becomes the signed-in account.`,
		Example: `  covalence signup --email me@example.com --name "Jane Doe" --role analyst`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" || fullName == "" {
				return errors.New("--email and --name are required")
			}
			if password == "" {
				var err error
				if password, err = readPassword(app, cmd, "Password: "); err != nil {
					return err
				}
			}

			id, err := app.auth.SignUp(cmd.Context(), email, password, fullName, session.Role(role))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), view.Sidebar(id, nav.Chat))
			return nil
		},
	}

	cmd.Flags().StringVarP(&email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Account password (prompted when omitted)")
	cmd.Flags().StringVarP(&fullName, "name", "n", "", "Full name")
	cmd.Flags().StringVarP(&role, "role", "r", string(session.RoleAnalyst), "Role (admin, manager, analyst, intern)")
	return cmd
}

func newSignOutCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "Forget the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.auth.SignOut(cmd.Context()); err != nil {
				app.logger.Warn("failed to remove stored session", "error", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func newWhoAmICmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.requireIdentity()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), view.Profile(id))
			fmt.Fprintf(cmd.OutOrStdout(), "\nMember since %s\n", view.FormatDate(id.CreatedAt.Local()))
			return nil
		},
	}
}

func prompt(app *application, cmd *cobra.Command, label string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), label)
	line, err := app.input(cmd).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readPassword reads without echo when stdin is a terminal and falls back
// to a plain line read otherwise.
func readPassword(app *application, cmd *cobra.Command, label string) (string, error) {
	f, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return prompt(app, cmd, label)
	}

	fmt.Fprint(cmd.ErrOrStderr(), label)
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(cmd.ErrOrStderr())
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}
