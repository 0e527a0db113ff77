package console

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mtamaramu/fleet-admin/api"
	"github.com/mtamaramu/fleet-admin/enums"
)

func newInvitesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "invites",
		Aliases: []string{"invitations"},
		Short:   "Manage organization invitations",
	}
	cmd.AddCommand(
		newInvitesCreateCmd(app),
		newInvitesListCmd(app),
		newInvitesAcceptCmd(app),
		newInvitesCancelCmd(app),
		newInvitesResendCmd(app),
	)
	return cmd
}

func newInvitesCreateCmd(app *App) *cobra.Command {
	var (
		email string
		role  string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Invite a user to the current organization",
		Long: `Invite a user to the current organization. The invitation carries a
shareable token the invitee redeems with 'fleet-admin invites accept'.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			orgID, err := app.requireOrg()
			if err != nil {
				return err
			}

			inv, err := api.NewInvitationAPI(app.transport()).
				Create(cmd.Context(), orgID, email, enums.Role(strings.ToLower(role)))
			if err != nil {
				return err
			}
			app.audit(cmd.Context(), "invitation.create",
				zap.String("organizationId", orgID), zap.String("invitationId", inv.ID))

			fmt.Printf("Invitation created for %s (%s)\n", inv.Email, inv.Role)
			if app.cfg.InviteLinkBase != "" {
				fmt.Printf("Share this link: %s/invite/%s\n",
					strings.TrimRight(app.cfg.InviteLinkBase, "/"), inv.Token)
			} else {
				fmt.Printf("Invitation token: %s\n", inv.Token)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "invitee email (required)")
	cmd.Flags().StringVar(&role, "role", string(enums.RoleMember), "role to grant: admin, member or viewer")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newInvitesListCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List invitations for the current organization",
		RunE: func(cmd *cobra.Command, _ []string) error {
			orgID, err := app.requireOrg()
			if err != nil {
				return err
			}

			invites, err := api.NewInvitationAPI(app.transport()).
				List(cmd.Context(), orgID, enums.InvitationStatus(status))
			if err != nil {
				return err
			}
			if len(invites) == 0 {
				fmt.Println("No invitations found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tEMAIL\tROLE\tSTATUS")
			for _, inv := range invites {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", inv.ID, inv.Email, inv.Role, inv.Status)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending, accepted, cancelled, expired)")
	return cmd
}

func newInvitesAcceptCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "accept <token>",
		Short: "Accept an invitation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.requireAuth(); err != nil {
				return err
			}

			client := api.NewInvitationAPI(app.unscopedTransport())

			inv, err := client.GetByToken(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if inv.Status != enums.InvitationPending {
				return fmt.Errorf("this invitation is %s", inv.Status)
			}

			if err := client.Accept(cmd.Context(), args[0]); err != nil {
				return err
			}
			app.audit(cmd.Context(), "invitation.accept", zap.String("invitationId", inv.ID))
			fmt.Printf("Welcome! You have joined organization %s.\n", inv.OrganizationID)

			// Membership changed; pick it up on the next load.
			app.loader.Reset()
			return nil
		},
	}
}

func newInvitesCancelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <id>",
		Short: "Cancel a pending invitation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireOrg(); err != nil {
				return err
			}
			if err := api.NewInvitationAPI(app.transport()).Cancel(cmd.Context(), args[0]); err != nil {
				return err
			}
			app.audit(cmd.Context(), "invitation.cancel", zap.String("invitationId", args[0]))
			fmt.Printf("Cancelled invitation %s\n", args[0])
			return nil
		},
	}
}

func newInvitesResendCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resend <id>",
		Short: "Resend a pending invitation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.requireOrg(); err != nil {
				return err
			}
			if err := api.NewInvitationAPI(app.transport()).Resend(cmd.Context(), args[0]); err != nil {
				return err
			}
			app.audit(cmd.Context(), "invitation.resend", zap.String("invitationId", args[0]))
			fmt.Printf("Resent invitation %s\n", args[0])
			return nil
		},
	}
}
