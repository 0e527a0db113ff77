package console

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mtamaramu/fleet-admin/api"
)

func newOrgsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "orgs",
		Aliases: []string{"organizations"},
		Short:   "Manage organizations",
	}
	cmd.AddCommand(
		newOrgsListCmd(app),
		newOrgsCreateCmd(app),
		newOrgsDeleteCmd(app),
		newOrgsSwitchCmd(app),
	)
	return cmd
}

func newOrgsListCmd(app *App) *cobra.Command {
	var pageSize int32

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}

			orgs, err := api.NewOrganizationAPI(app.unscopedTransport()).List(cmd.Context(), pageSize)
			if err != nil {
				return err
			}
			if len(orgs) == 0 {
				fmt.Println("No organizations found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tSLUG")
			for _, org := range orgs {
				fmt.Fprintf(w, "%s\t%s\t%s\n", org.ID, org.Name, org.Slug)
			}
			return w.Flush()
		},
	}
	cmd.Flags().Int32Var(&pageSize, "page-size", 50, "maximum organizations to return")
	return cmd
}

func newOrgsCreateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}

			org, err := api.NewOrganizationAPI(app.unscopedTransport()).Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			app.audit(cmd.Context(), "organization.create", zap.String("organizationId", org.ID))
			fmt.Printf("Created organization %s (%s)\n", org.Name, org.ID)
			return nil
		},
	}
}

func newOrgsDeleteCmd(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}
			if !yes {
				return fmt.Errorf("deleting an organization is irreversible; re-run with --yes")
			}

			if err := api.NewOrganizationAPI(app.unscopedTransport()).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			app.audit(cmd.Context(), "organization.delete", zap.String("organizationId", args[0]))
			fmt.Printf("Deleted organization %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the deletion")
	return cmd
}

func newOrgsSwitchCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <id>",
		Short: "Select the organization context for tenant-scoped commands",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}

			id := args[0]
			for _, m := range app.store.Organizations() {
				if m.OrganizationID == id {
					if err := app.store.SetCurrentOrganizationID(cmd.Context(), id); err != nil {
						return err
					}
					fmt.Printf("Switched to %s (%s)\n", m.OrganizationName, id)
					return nil
				}
			}
			return fmt.Errorf("you are not a member of organization %s", id)
		},
	}
}
