package session

import (
	"context"
	"errors"

	"golang.org/x/sync/singleflight"

	"github.com/mtamaramu/fleet-admin/api"
)

// ErrNoRefreshCredential means the session has no stored refresh credential
// to exchange, so an expired token can only end in logout.
var ErrNoRefreshCredential = errors.New("no refresh credential stored")

// Refresher is the single refresh path shared by the bootstrapper and the
// organization loader. Concurrent callers are collapsed onto one backend
// call so two refresh attempts cannot race and overwrite each other's token.
type Refresher struct {
	store *Store
	auth  *api.AuthAPI
	group singleflight.Group
}

func NewRefresher(store *Store, auth *api.AuthAPI) *Refresher {
	return &Refresher{store: store, auth: auth}
}

// Refresh exchanges the stored refresh credential for a new access token and
// installs it in the store. Returns the new token on success.
func (r *Refresher) Refresh(ctx context.Context) (string, error) {
	v, err, _ := r.group.Do("refresh", func() (interface{}, error) {
		cred, err := r.store.RefreshCredential(ctx)
		if err != nil {
			return nil, err
		}
		if cred == "" {
			return nil, ErrNoRefreshCredential
		}

		tok, err := r.auth.RefreshToken(ctx, cred)
		if err != nil {
			return nil, err
		}
		if err := r.store.Login(ctx, tok); err != nil {
			return nil, err
		}
		return tok, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
