package session

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mtamaramu/fleet-admin/api"
	"github.com/mtamaramu/fleet-admin/logger"
	"github.com/mtamaramu/fleet-admin/models"
)

// FetchState tracks the loader's at-most-once guard. Done is terminal for
// the session even when the user belongs to zero organizations; only fetch
// errors and logout re-arm the loader.
type FetchState int

const (
	FetchNotStarted FetchState = iota
	FetchInFlight
	FetchDone
)

// OrganizationLoader resolves the authenticated user's memberships once per
// session: list the membership records, join each with its organization
// detail, and commit the result to the store. Individual detail lookups that
// fail are dropped; partial results are acceptable.
type OrganizationLoader struct {
	store     *Store
	refresher *Refresher
	cfg       api.Config

	mu    sync.Mutex
	state FetchState
}

func NewOrganizationLoader(store *Store, refresher *Refresher, cfg api.Config) *OrganizationLoader {
	return &OrganizationLoader{store: store, refresher: refresher, cfg: cfg}
}

// State returns the loader's guard state.
func (l *OrganizationLoader) State() FetchState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Reset re-arms the loader. Call on logout.
func (l *OrganizationLoader) Reset() {
	l.setState(FetchNotStarted)
}

// Load runs the membership fetch if it has not run for this session yet.
// An auth failure gets exactly one refresh-and-retry; if that path fails the
// session is logged out. Any other failure re-arms the loader so a later
// call can retry.
func (l *OrganizationLoader) Load(ctx context.Context) error {
	user := l.store.User()
	if !l.store.IsAuthenticated() || l.store.Token() == "" || user == nil {
		return nil
	}

	l.mu.Lock()
	if l.state != FetchNotStarted {
		l.mu.Unlock()
		return nil
	}
	l.state = FetchInFlight
	l.mu.Unlock()

	err := l.fetchWith(ctx, l.store.Token(), user.ID)
	if err == nil {
		l.setState(FetchDone)
		return nil
	}

	if api.IsAuthError(err) {
		logger.LogInfo("membership fetch hit an auth error, attempting refresh", zap.Error(err))
		newToken, refreshErr := l.refresher.Refresh(ctx)
		if refreshErr == nil {
			if retryErr := l.fetchWith(ctx, newToken, user.ID); retryErr == nil {
				l.setState(FetchDone)
				return nil
			} else {
				logger.LogWarn("membership fetch failed after refresh", zap.Error(retryErr))
			}
		}
		logger.LogInfo("refresh path failed, logging out")
		if logoutErr := l.store.Logout(ctx); logoutErr != nil {
			logger.LogWarn("logout cleanup failed", zap.Error(logoutErr))
		}
		l.setState(FetchNotStarted)
		return err
	}

	l.setState(FetchNotStarted)
	return err
}

func (l *OrganizationLoader) fetchWith(ctx context.Context, accessToken, userID string) error {
	transport := api.NewTransport(l.cfg, accessToken, "")

	records, err := api.NewUserOrganizationAPI(transport).ListByUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return l.store.SetOrganizations(ctx, nil)
	}

	orgAPI := api.NewOrganizationAPI(transport)
	memberships := make([]models.Membership, 0, len(records))
	for _, rec := range records {
		org, err := orgAPI.Get(ctx, rec.OrganizationID)
		if err != nil {
			// Partial results are fine; the membership is simply omitted.
			logger.LogWarn("skipping organization detail",
				zap.String("organizationId", rec.OrganizationID), zap.Error(err))
			continue
		}
		memberships = append(memberships, models.Membership{
			OrganizationID:   org.ID,
			OrganizationName: org.Name,
			Role:             rec.Role,
			IsDefault:        rec.IsDefault,
		})
	}

	return l.store.SetOrganizations(ctx, memberships)
}

func (l *OrganizationLoader) setState(state FetchState) {
	l.mu.Lock()
	l.state = state
	l.mu.Unlock()
}
