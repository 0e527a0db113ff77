package session

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapperNoToken(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	auth, _ := newAuthAPI(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no backend call expected")
		w.WriteHeader(http.StatusInternalServerError)
	}))

	b := NewBootstrapper(store, NewRefresher(store, auth))
	assert.False(t, b.Ready())

	b.Run(ctx)

	assert.True(t, b.Ready())
	assert.False(t, store.IsAuthenticated())
}

func TestBootstrapperValidTokenUntouched(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	raw := validToken(t)
	require.NoError(t, store.Login(ctx, raw))

	auth, _ := newAuthAPI(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("a valid token must not trigger a refresh")
		w.WriteHeader(http.StatusInternalServerError)
	}))

	b := NewBootstrapper(store, NewRefresher(store, auth))
	b.Run(ctx)

	assert.True(t, b.Ready())
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, raw, store.Token())
}

func TestBootstrapperRefreshesExpiredToken(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Login(ctx, expiredToken(t)))
	require.NoError(t, store.SetRefreshCredential(ctx, "refresh-1"))

	newToken := validToken(t)
	auth, _ := newAuthAPI(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"accessToken":%q}`, newToken)
	}))

	b := NewBootstrapper(store, NewRefresher(store, auth))
	b.Run(ctx)

	assert.True(t, b.Ready())
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, newToken, store.Token())
}

func TestBootstrapperLogsOutWithoutCredential(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Login(ctx, expiredToken(t)))

	auth, _ := newAuthAPI(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("no backend call expected without a credential")
		w.WriteHeader(http.StatusInternalServerError)
	}))

	b := NewBootstrapper(store, NewRefresher(store, auth))
	b.Run(ctx)

	assert.True(t, b.Ready())
	assert.False(t, store.IsAuthenticated())
	assert.Empty(t, store.Token())
}

func TestBootstrapperLogsOutOnRefreshFailure(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Login(ctx, expiredToken(t)))
	require.NoError(t, store.SetRefreshCredential(ctx, "refresh-1"))

	auth, _ := newAuthAPI(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"code":"unauthenticated","message":"refresh token expired"}`)
	}))

	b := NewBootstrapper(store, NewRefresher(store, auth))
	b.Run(ctx)

	assert.True(t, b.Ready())
	assert.False(t, store.IsAuthenticated())

	cred, err := store.RefreshCredential(ctx)
	require.NoError(t, err)
	assert.Empty(t, cred, "logout must clear the refresh credential too")
}

func TestBootstrapperRunsOnce(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	require.NoError(t, store.Login(ctx, expiredToken(t)))
	require.NoError(t, store.SetRefreshCredential(ctx, "refresh-1"))

	newToken := validToken(t)
	var calls atomic.Int32
	auth, _ := newAuthAPI(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"accessToken":%q}`, newToken)
	}))

	b := NewBootstrapper(store, NewRefresher(store, auth))
	b.Run(ctx)
	b.Run(ctx)
	b.Run(ctx)

	assert.Equal(t, int32(1), calls.Load())
}
