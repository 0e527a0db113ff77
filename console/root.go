// Package console is the cobra command tree of the admin console. Every
// command runs through the same gate: restore the persisted session,
// bootstrap (refreshing an expired token or logging out), and load the
// user's organization memberships before the command body executes.
package console

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mtamaramu/fleet-admin/api"
	"github.com/mtamaramu/fleet-admin/config"
	"github.com/mtamaramu/fleet-admin/logger"
	otelx "github.com/mtamaramu/fleet-admin/otel"
	"github.com/mtamaramu/fleet-admin/session"
	"github.com/mtamaramu/fleet-admin/storage"
)

// Version is stamped at build time.
var Version = "dev"

type App struct {
	cfg    *config.Config
	apiCfg api.Config

	store        *session.Store
	refresher    *session.Refresher
	bootstrapper *session.Bootstrapper
	loader       *session.OrganizationLoader

	shutdownOtel func()
	closeStorage func() error
}

func NewRootCmd() *cobra.Command {
	app := &App{}
	var cfgPath string

	root := &cobra.Command{
		Use:           "fleet-admin",
		Short:         "Administrative console for the fleet inspection platform",
		Long: `fleet-admin is the administrative console for the multi-tenant fleet
inspection platform. It manages organizations, users, cars, inspections,
files and invitations, talking to the backend's Connect/gRPC-Web services.

Credentials are kept in the user config directory and refreshed
automatically when the access token expires.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd, cfgPath)
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			app.close()
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "",
		"config file (default is the user config dir)")

	root.AddCommand(
		newLoginCmd(app),
		newLogoutCmd(app),
		newStatusCmd(app),
		newOrgsCmd(app),
		newInvitesCmd(app),
		newUsersCmd(app),
		newCarsCmd(app),
		newInspectionsCmd(app),
		newFilesCmd(app),
		newReflectCmd(app),
	)

	return root
}

// ExecuteContext runs the root command.
func ExecuteContext(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *App) init(cmd *cobra.Command, cfgPath string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logger.Init(&logger.Config{Level: cfg.Log.Level, Env: cfg.Log.Env, Service: "fleet-admin"})

	shutdown, err := otelx.Init(ctx, otelx.Config{
		Enabled:     cfg.Otel.Enabled,
		Endpoint:    cfg.Otel.Endpoint,
		ServiceName: "fleet-admin",
		Environment: cfg.Log.Env,
		SampleRate:  cfg.Otel.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.shutdownOtel = shutdown

	a.apiCfg = api.Config{
		Endpoint: cfg.Endpoint,
		Timeout:  time.Duration(cfg.TimeoutSeconds) * time.Second,
	}

	st, err := a.openStorage(ctx)
	if err != nil {
		return err
	}

	a.store = session.NewStore(st)
	if err := a.store.Rehydrate(ctx); err != nil {
		return fmt.Errorf("failed to restore session: %w", err)
	}

	auth := api.NewAuthAPI(api.NewAnonTransport(a.apiCfg))
	a.refresher = session.NewRefresher(a.store, auth)
	a.bootstrapper = session.NewBootstrapper(a.store, a.refresher)
	a.loader = session.NewOrganizationLoader(a.store, a.refresher, a.apiCfg)

	// Nothing renders before the bootstrapper settles the session.
	a.bootstrapper.Run(ctx)

	if a.store.IsAuthenticated() {
		if err := a.loader.Load(ctx); err != nil {
			logger.LogWarn("failed to load organizations", zap.Error(err))
		}
	}

	if user := a.store.User(); user != nil {
		cmd.SetContext(session.WithUser(ctx, user))
	}
	return nil
}

func (a *App) openStorage(ctx context.Context) (storage.Storage, error) {
	switch a.cfg.Storage.Backend {
	case "redis":
		r := a.cfg.Storage.Redis
		st, err := storage.NewRedis(ctx, storage.RedisConfig{
			Addr:      r.Addr,
			Password:  r.Password,
			DB:        r.DB,
			Namespace: r.Namespace,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to session redis: %w", err)
		}
		a.closeStorage = st.Close
		return st, nil
	case "", "file":
		st, err := storage.DefaultFile()
		if err != nil {
			return nil, fmt.Errorf("failed to locate session file: %w", err)
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", a.cfg.Storage.Backend)
	}
}

func (a *App) close() {
	if a.closeStorage != nil {
		if err := a.closeStorage(); err != nil {
			logger.LogWarn("failed to close session storage", zap.Error(err))
		}
	}
	if a.shutdownOtel != nil {
		a.shutdownOtel()
	}
	logger.Sync()
}

// transport is the org-scoped client for tenant-scoped services.
func (a *App) transport() *resty.Client {
	return api.NewTransport(a.apiCfg, a.store.Token(), a.store.CurrentOrganizationID())
}

// unscopedTransport carries the bearer token but no tenant header, for
// services that operate across organizations.
func (a *App) unscopedTransport() *resty.Client {
	return api.NewTransport(a.apiCfg, a.store.Token(), "")
}

func (a *App) requireAuth() error {
	if !a.store.IsAuthenticated() {
		return errors.New("not logged in; run 'fleet-admin login' first")
	}
	return nil
}

func (a *App) requireOrg() (string, error) {
	if err := a.requireAuth(); err != nil {
		return "", err
	}
	id := a.store.CurrentOrganizationID()
	if id == "" {
		return "", errors.New("no organization selected; run 'fleet-admin orgs switch <id>'")
	}
	return id, nil
}

// audit logs a mutating command with the identity carried on the context.
func (a *App) audit(ctx context.Context, action string, fields ...zap.Field) {
	if user, ok := session.UserFromContext(ctx); ok {
		fields = append(fields, zap.String("action", action), zap.String("userId", user.ID))
		logger.LogInfo("console action", fields...)
		return
	}
	logger.LogInfo("console action", append(fields, zap.String("action", action))...)
}
