package console

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mtamaramu/fleet-admin/api"
)

func newInspectionsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspections",
		Short: "Manage vehicle inspections",
	}
	cmd.AddCommand(newInspectionsListCmd(app), newInspectionsCreateCmd(app))
	return cmd
}

func newInspectionsListCmd(app *App) *cobra.Command {
	var (
		carID    string
		pageSize int32
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inspections in the current organization",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.requireOrg(); err != nil {
				return err
			}

			inspections, err := api.NewInspectionAPI(app.transport()).List(cmd.Context(), carID, pageSize)
			if err != nil {
				return err
			}
			if len(inspections) == 0 {
				fmt.Println("No inspections found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCAR\tSTATUS\tSCHEDULED\tCOMPLETED")
			for _, ins := range inspections {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					ins.ID, ins.CarID, ins.Status, ins.ScheduledAt, ins.CompletedAt)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&carID, "car", "", "filter by car id")
	cmd.Flags().Int32Var(&pageSize, "page-size", 50, "maximum inspections to return")
	return cmd
}

func newInspectionsCreateCmd(app *App) *cobra.Command {
	var (
		carID       string
		scheduledAt string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Schedule an inspection",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.requireOrg(); err != nil {
				return err
			}

			ins, err := api.NewInspectionAPI(app.transport()).Create(cmd.Context(), carID, scheduledAt)
			if err != nil {
				return err
			}
			app.audit(cmd.Context(), "inspection.create", zap.String("inspectionId", ins.ID))
			fmt.Printf("Scheduled inspection %s for car %s\n", ins.ID, ins.CarID)
			return nil
		},
	}

	cmd.Flags().StringVar(&carID, "car", "", "car id (required)")
	cmd.Flags().StringVar(&scheduledAt, "at", "", "scheduled time, RFC 3339")
	_ = cmd.MarkFlagRequired("car")
	return cmd
}
