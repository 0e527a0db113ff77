package console

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mtamaramu/fleet-admin/grpcweb"
)

func newReflectCmd(app *App) *cobra.Command {
	var (
		endpoint string
		raw      bool
	)

	cmd := &cobra.Command{
		Use:   "reflect",
		Short: "List the backend's gRPC services via server reflection",
		Long: `Send a hand-built gRPC-Web reflection request and print the services
the backend advertises. A diagnostic for checking tunnels and proxies;
no authentication is attached.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			target := endpoint
			if target == "" {
				target = app.cfg.Endpoint
			}

			result, err := grpcweb.ListServices(cmd.Context(), target)
			if err != nil {
				return err
			}

			if len(result.Services) == 0 {
				fmt.Println("No service names matched; raw response follows.")
				fmt.Printf("Hex (first 200 bytes): %s\n", result.RawHex)
				fmt.Printf("Text: %s\n", result.RawText)
				return nil
			}

			for _, name := range result.Services {
				fmt.Println(name)
			}
			if raw {
				fmt.Printf("\nHex (first 200 bytes): %s\n", result.RawHex)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "reflection endpoint (default: the configured backend)")
	cmd.Flags().BoolVar(&raw, "raw", false, "also print the raw response")
	return cmd
}
