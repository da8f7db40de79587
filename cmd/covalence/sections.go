package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gwi.com/covalence/internal/mockdata"
	"gwi.com/covalence/internal/nav"
	"gwi.com/covalence/internal/view"
)

func newNavCmd(app *application) *cobra.Command {
	var section string

	cmd := &cobra.Command{
		Use:   "nav",
		Short: "Show the sections available to the signed-in account",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := app.requireIdentity()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), view.Sidebar(id, nav.SectionID(section)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&section, "section", "s", string(nav.Chat), "Section to mark as active")
	return cmd
}

func newDashboardCmd(app *application) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"analytics"},
		Short:   "Show the analytics dashboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireSection(nav.Analytics); err != nil {
				return err
			}
			out, err := app.renderer.RenderDashboard(app.mock.Analytics)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
}

func newAdminCmd(app *application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Administration views (admin accounts only)",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// cobra runs only the nearest persistent pre-run
			if err := cmd.Root().PersistentPreRunE(cmd, args); err != nil {
				return err
			}
			return app.requireSection(nav.Admin)
		},
	}

	views := []struct {
		use, short string
		render     func(*mockdata.Admin) string
	}{
		{"datasets", "List managed datasets", func(a *mockdata.Admin) string { return view.DatasetsMarkdown(a.Datasets) }},
		{"users", "List user accounts", func(a *mockdata.Admin) string { return view.UsersMarkdown(a.Users) }},
		{"logs", "Show recent activity", func(a *mockdata.Admin) string { return view.ActivityLogsMarkdown(a.ActivityLogs) }},
	}
	for _, v := range views {
		render := v.render
		cmd.AddCommand(&cobra.Command{
			Use:   v.use,
			Short: v.short,
			RunE: func(cmd *cobra.Command, args []string) error {
				out, err := app.renderer.RenderMarkdown(render(&app.mock.Admin))
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), out)
				return nil
			},
		})
	}
	return cmd
}

func (a *application) requireSection(id nav.SectionID) error {
	ident, err := a.requireIdentity()
	if err != nil {
		return err
	}
	if !nav.CanView(ident.Role, id) {
		return fmt.Errorf("the %s section is not available to the %s role", id, strings.ToLower(string(ident.Role)))
	}
	return nil
}
