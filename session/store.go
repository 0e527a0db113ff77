// Package session holds the console's single process-wide session: the
// access token, the identity decoded from it, the user's organization
// memberships, and the selected organization.
package session

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mtamaramu/fleet-admin/logger"
	"github.com/mtamaramu/fleet-admin/models"
	"github.com/mtamaramu/fleet-admin/storage"
	"github.com/mtamaramu/fleet-admin/token"
)

// Store is the session state machine. It is constructed with its persistence
// backend so tests can run isolated sessions; only the raw token, the refresh
// credential and the selected organization id are persisted.
type Store struct {
	mu      sync.RWMutex
	storage storage.Storage

	token         string
	user          *models.AppUser
	authenticated bool
	organizations []models.Membership
	currentOrgID  string
}

func NewStore(st storage.Storage) *Store {
	return &Store{storage: st}
}

// Login decodes the token, installs it together with the derived identity,
// and persists the raw token. A token that does not decode leaves the
// session untouched and unauthenticated.
func (s *Store) Login(ctx context.Context, raw string) error {
	claims, err := token.Decode(raw)
	if err != nil {
		return fmt.Errorf("login rejected: %w", err)
	}
	return s.LoginWithUser(ctx, raw, claims.User())
}

// LoginWithUser installs a token with an identity the caller already
// resolved, bypassing the codec.
func (s *Store) LoginWithUser(ctx context.Context, raw string, user *models.AppUser) error {
	s.mu.Lock()
	s.token = raw
	s.user = user
	s.authenticated = true
	s.mu.Unlock()

	return s.storage.Set(ctx, storage.KeyAuthToken, raw)
}

// Logout clears the session and removes every persisted key. Idempotent.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.authenticated = false
	s.organizations = nil
	s.currentOrgID = ""
	s.mu.Unlock()

	var firstErr error
	for _, key := range []string{storage.KeyAuthToken, storage.KeyRefreshToken, storage.KeyCurrentOrganizationID} {
		if err := s.storage.Delete(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// SetOrganizations replaces the membership list and re-derives the current
// organization: the previous selection sticks while it is still a member,
// otherwise the default-flagged membership wins, otherwise the first one.
// An empty list always clears the selection.
func (s *Store) SetOrganizations(ctx context.Context, list []models.Membership) error {
	s.mu.Lock()
	s.organizations = append([]models.Membership(nil), list...)
	s.currentOrgID = deriveCurrentOrg(s.currentOrgID, list)
	selected := s.currentOrgID
	s.mu.Unlock()

	if selected == "" {
		return s.storage.Delete(ctx, storage.KeyCurrentOrganizationID)
	}
	return s.storage.Set(ctx, storage.KeyCurrentOrganizationID, selected)
}

// SetCurrentOrganizationID records an explicit selection. The id is not
// checked against the membership list; that is the caller's responsibility.
func (s *Store) SetCurrentOrganizationID(ctx context.Context, id string) error {
	s.mu.Lock()
	s.currentOrgID = id
	s.mu.Unlock()

	return s.storage.Set(ctx, storage.KeyCurrentOrganizationID, id)
}

// Rehydrate restores the persisted session on startup. A persisted token
// that no longer decodes is removed from storage and the session stays
// unauthenticated. The persisted organization selection is restored
// independently of the token's fate.
func (s *Store) Rehydrate(ctx context.Context) error {
	raw, err := s.storage.Get(ctx, storage.KeyAuthToken)
	if err != nil {
		return err
	}

	if raw != "" {
		claims, decodeErr := token.Decode(raw)
		if decodeErr != nil {
			logger.LogWarn("discarding undecodable persisted token", zap.Error(decodeErr))
			if err := s.storage.Delete(ctx, storage.KeyAuthToken); err != nil {
				return err
			}
		} else {
			s.mu.Lock()
			s.token = raw
			s.user = claims.User()
			s.authenticated = true
			s.mu.Unlock()
		}
	}

	orgID, err := s.storage.Get(ctx, storage.KeyCurrentOrganizationID)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.currentOrgID = orgID
	s.mu.Unlock()

	return nil
}

// RefreshCredential returns the stored refresh credential, "" when absent.
func (s *Store) RefreshCredential(ctx context.Context) (string, error) {
	return s.storage.Get(ctx, storage.KeyRefreshToken)
}

// SetRefreshCredential persists the refresh credential outside the main
// session state.
func (s *Store) SetRefreshCredential(ctx context.Context, cred string) error {
	return s.storage.Set(ctx, storage.KeyRefreshToken, cred)
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *Store) User() *models.AppUser {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	user := *s.user
	return &user
}

func (s *Store) Organizations() []models.Membership {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Membership(nil), s.organizations...)
}

func (s *Store) CurrentOrganizationID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentOrgID
}

func deriveCurrentOrg(previous string, list []models.Membership) string {
	if len(list) == 0 {
		return ""
	}
	for _, m := range list {
		if m.OrganizationID == previous {
			return previous
		}
	}
	for _, m := range list {
		if m.IsDefault {
			return m.OrganizationID
		}
	}
	return list[0].OrganizationID
}
