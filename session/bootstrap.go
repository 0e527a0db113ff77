package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mtamaramu/fleet-admin/logger"
	"github.com/mtamaramu/fleet-admin/token"
)

// Bootstrapper validates the rehydrated token once at startup and silently
// refreshes it when expired. It always reaches the ready state, so commands
// never run against an unvetted session; the worst outcome is logout.
type Bootstrapper struct {
	store     *Store
	refresher *Refresher

	once  sync.Once
	ready atomic.Bool
}

func NewBootstrapper(store *Store, refresher *Refresher) *Bootstrapper {
	return &Bootstrapper{store: store, refresher: refresher}
}

// Ready reports whether Run has completed. It flips false to true exactly
// once per process.
func (b *Bootstrapper) Ready() bool {
	return b.ready.Load()
}

// Run executes the startup policy at most once:
//  1. no token: ready, unauthenticated;
//  2. token valid: ready as-is;
//  3. token expired: refresh, or force logout when the credential is absent
//     or the exchange fails.
func (b *Bootstrapper) Run(ctx context.Context) {
	b.once.Do(func() {
		defer b.ready.Store(true)

		raw := b.store.Token()
		if !b.store.IsAuthenticated() || raw == "" {
			return
		}

		if !token.IsExpired(raw) {
			return
		}

		logger.LogInfo("access token expired, attempting refresh")
		if _, err := b.refresher.Refresh(ctx); err != nil {
			if errors.Is(err, ErrNoRefreshCredential) {
				logger.LogInfo("no refresh credential available, logging out")
			} else {
				logger.LogWarn("token refresh failed, logging out", zap.Error(err))
			}
			if err := b.store.Logout(ctx); err != nil {
				logger.LogWarn("logout cleanup failed", zap.Error(err))
			}
			return
		}

		logger.LogInfo("token refreshed successfully")
	})
}
