package console

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mtamaramu/fleet-admin/api"
)

func newFilesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "Manage the organization's files",
	}
	cmd.AddCommand(newFilesListCmd(app), newFilesUploadCmd(app), newFilesDeleteCmd(app))
	return cmd
}

func newFilesListCmd(app *App) *cobra.Command {
	var pageSize int32

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List files in the current organization",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.requireOrg(); err != nil {
				return err
			}

			files, err := api.NewFileAPI(app.transport()).List(cmd.Context(), pageSize)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Println("No files found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tSIZE")
			for _, f := range files {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", f.ID, f.Name, f.ContentType, f.Size)
			}
			return w.Flush()
		},
	}
	cmd.Flags().Int32Var(&pageSize, "page-size", 50, "maximum files to return")
	return cmd
}

func newFilesUploadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireOrg(); err != nil {
				return err
			}

			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			name := filepath.Base(args[0])
			contentType := mime.TypeByExtension(filepath.Ext(name))
			if contentType == "" {
				contentType = "application/octet-stream"
			}

			f, err := api.NewFileAPI(app.transport()).Upload(cmd.Context(), name, contentType, content)
			if err != nil {
				return err
			}
			app.audit(cmd.Context(), "file.upload", zap.String("fileId", f.ID))
			fmt.Printf("Uploaded %s (%s, %d bytes)\n", f.Name, f.ID, f.Size)
			return nil
		},
	}
}

func newFilesDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireOrg(); err != nil {
				return err
			}
			if err := api.NewFileAPI(app.transport()).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			app.audit(cmd.Context(), "file.delete", zap.String("fileId", args[0]))
			fmt.Printf("Deleted file %s\n", args[0])
			return nil
		},
	}
}
