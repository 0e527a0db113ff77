package console

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mtamaramu/fleet-admin/api"
)

func newCarsCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cars",
		Short: "Manage the organization's cars",
	}
	cmd.AddCommand(newCarsListCmd(app), newCarsCreateCmd(app), newCarsDeleteCmd(app))
	return cmd
}

func newCarsListCmd(app *App) *cobra.Command {
	var pageSize int32

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List cars in the current organization",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.requireOrg(); err != nil {
				return err
			}

			cars, err := api.NewCarAPI(app.transport()).List(cmd.Context(), pageSize)
			if err != nil {
				return err
			}
			if len(cars) == 0 {
				fmt.Println("No cars found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tPLATE\tMAKER\tMODEL\tYEAR")
			for _, car := range cars {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n", car.ID, car.PlateNumber, car.Maker, car.Model, car.Year)
			}
			return w.Flush()
		},
	}
	cmd.Flags().Int32Var(&pageSize, "page-size", 50, "maximum cars to return")
	return cmd
}

func newCarsCreateCmd(app *App) *cobra.Command {
	var (
		plate string
		maker string
		model string
		year  int32
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a car",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.requireOrg(); err != nil {
				return err
			}

			car, err := api.NewCarAPI(app.transport()).Create(cmd.Context(), plate, maker, model, year)
			if err != nil {
				return err
			}
			app.audit(cmd.Context(), "car.create", zap.String("carId", car.ID))
			fmt.Printf("Registered car %s (%s)\n", car.PlateNumber, car.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&plate, "plate", "", "plate number (required)")
	cmd.Flags().StringVar(&maker, "maker", "", "manufacturer")
	cmd.Flags().StringVar(&model, "model", "", "model name")
	cmd.Flags().Int32Var(&year, "year", 0, "model year")
	_ = cmd.MarkFlagRequired("plate")
	return cmd
}

func newCarsDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a car",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireOrg(); err != nil {
				return err
			}
			if err := api.NewCarAPI(app.transport()).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			app.audit(cmd.Context(), "car.delete", zap.String("carId", args[0]))
			fmt.Printf("Deleted car %s\n", args[0])
			return nil
		},
	}
}
