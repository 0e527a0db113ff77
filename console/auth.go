package console

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mtamaramu/fleet-admin/api"
	"github.com/mtamaramu/fleet-admin/callback"
	"github.com/mtamaramu/fleet-admin/token"
)

func newLoginCmd(app *App) *cobra.Command {
	var (
		email        string
		password     string
		rawToken     string
		refreshToken string
		browser      bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the platform",
		Long: `Log in to the platform.

Three modes are supported:
  --email/--password   authenticate directly against the AuthService
  --token              install an access token obtained elsewhere
  --browser            open the platform login page and catch the redirect
                       on a localhost listener

Examples:
  fleet-admin login --email admin@example.com --password secret
  fleet-admin login --token eyJhbGciOi...
  fleet-admin login --browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			switch {
			case rawToken != "":
				return app.installTokens(ctx, rawToken, refreshToken)
			case browser:
				return app.loginViaBrowser(ctx)
			default:
				if email == "" || password == "" {
					return errors.New("either --email and --password, --token, or --browser is required")
				}
				auth := api.NewAuthAPI(api.NewAnonTransport(app.apiCfg))
				resp, err := auth.Login(ctx, email, password)
				if err != nil {
					return fmt.Errorf("login failed: %w", err)
				}
				return app.installTokens(ctx, resp.AccessToken, resp.RefreshToken)
			}
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&rawToken, "token", "", "access token to install directly")
	cmd.Flags().StringVar(&refreshToken, "refresh-token", "", "refresh credential to store alongside --token")
	cmd.Flags().BoolVar(&browser, "browser", false, "log in through the browser redirect flow")

	return cmd
}

func (a *App) installTokens(ctx context.Context, accessToken, refreshToken string) error {
	if accessToken == "" {
		return errors.New("no token received")
	}
	if err := a.store.Login(ctx, accessToken); err != nil {
		return err
	}
	if refreshToken != "" {
		if err := a.store.SetRefreshCredential(ctx, refreshToken); err != nil {
			return fmt.Errorf("failed to store refresh credential: %w", err)
		}
	}

	user := a.store.User()
	fmt.Printf("Logged in as %s <%s>\n", user.DisplayName, user.Email)
	a.audit(ctx, "login", zap.String("email", user.Email))

	// Fresh identity, fresh membership list.
	a.loader.Reset()
	if err := a.loader.Load(ctx); err != nil {
		return fmt.Errorf("logged in, but loading organizations failed: %w", err)
	}
	if org := a.store.CurrentOrganizationID(); org != "" {
		fmt.Printf("Current organization: %s\n", org)
	}
	return nil
}

func (a *App) loginViaBrowser(ctx context.Context) error {
	srv := callback.New(a.cfg.CallbackAddr)
	srv.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	loginURL := fmt.Sprintf("%s/login?redirect_uri=%s",
		a.cfg.Endpoint, url.QueryEscape(srv.URL()))
	fmt.Println("Open this URL in your browser to log in:")
	fmt.Println("  " + loginURL)
	fmt.Println("Waiting for the login to complete...")

	waitCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	res, err := srv.Wait(waitCtx)
	if err != nil {
		return fmt.Errorf("browser login failed: %w", err)
	}
	return a.installTokens(ctx, res.AccessToken, res.RefreshToken)
}

func newLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and discard stored credentials",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if !app.store.IsAuthenticated() {
				fmt.Println("Not logged in.")
			}
			if err := app.store.Logout(ctx); err != nil {
				return fmt.Errorf("failed to clear stored session: %w", err)
			}
			app.loader.Reset()
			fmt.Println("Logged out.")
			return nil
		},
	}
}

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !app.store.IsAuthenticated() {
				fmt.Println("Not logged in.")
				fmt.Println("Use 'fleet-admin login' to authenticate.")
				return nil
			}

			user := app.store.User()
			fmt.Println("Logged in")
			fmt.Printf("User ID:      %s\n", user.ID)
			fmt.Printf("Name:         %s\n", user.DisplayName)
			fmt.Printf("Email:        %s\n", user.Email)
			if user.IsSuperadmin {
				fmt.Println("Superadmin:   yes")
			}

			if claims, err := token.Decode(app.store.Token()); err == nil && claims.ExpiresAt != nil {
				fmt.Printf("Token expiry: %s\n", claims.ExpiresAt.Format(time.RFC3339))
			}

			orgs := app.store.Organizations()
			current := app.store.CurrentOrganizationID()
			if len(orgs) == 0 {
				fmt.Println("Organizations: none")
				return nil
			}
			fmt.Println("Organizations:")
			for _, m := range orgs {
				marker := " "
				if m.OrganizationID == current {
					marker = "*"
				}
				fmt.Printf("  %s %s  %s (%s)\n", marker, m.OrganizationID, m.OrganizationName, m.Role)
			}
			return nil
		},
	}
}
