package console

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mtamaramu/fleet-admin/api"
)

func newUsersCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage platform users",
	}
	cmd.AddCommand(newUsersListCmd(app))
	return cmd
}

func newUsersListCmd(app *App) *cobra.Command {
	var pageSize int32

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users in the current organization",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.requireOrg(); err != nil {
				return err
			}

			users, err := api.NewUserAPI(app.transport()).List(cmd.Context(), pageSize)
			if err != nil {
				return err
			}
			if len(users) == 0 {
				fmt.Println("No users found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL")
			for _, u := range users {
				fmt.Fprintf(w, "%s\t%s\t%s\n", u.ID, u.DisplayName, u.Email)
			}
			return w.Flush()
		},
	}
	cmd.Flags().Int32Var(&pageSize, "page-size", 50, "maximum users to return")
	return cmd
}
