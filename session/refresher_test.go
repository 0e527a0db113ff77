package session

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtamaramu/fleet-admin/api"
)

func newAuthAPI(t *testing.T, handler http.Handler) (*api.AuthAPI, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return api.NewAuthAPI(api.NewAnonTransport(api.Config{Endpoint: srv.URL})), srv
}

func TestRefresherNoCredential(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	auth, _ := newAuthAPI(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Error("backend must not be called without a credential")
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, err := NewRefresher(store, auth).Refresh(ctx)
	assert.ErrorIs(t, err, ErrNoRefreshCredential)
}

func TestRefresherInstallsNewToken(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	require.NoError(t, store.SetRefreshCredential(ctx, "refresh-1"))

	newToken := validToken(t)
	auth, _ := newAuthAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin.v1.AuthService/RefreshToken", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"accessToken":%q}`, newToken)
	}))

	got, err := NewRefresher(store, auth).Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, newToken, got)
	assert.Equal(t, newToken, store.Token())
	assert.True(t, store.IsAuthenticated())
}

func TestRefresherCollapsesConcurrentCalls(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	require.NoError(t, store.SetRefreshCredential(ctx, "refresh-1"))

	newToken := validToken(t)
	var calls atomic.Int32
	auth, _ := newAuthAPI(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		time.Sleep(100 * time.Millisecond)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"accessToken":%q}`, newToken)
	}))

	refresher := NewRefresher(store, auth)

	const workers = 8
	var wg sync.WaitGroup
	start := make(chan struct{})
	results := make([]string, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = refresher.Refresh(ctx)
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, newToken, results[i])
	}
	assert.Equal(t, int32(1), calls.Load(), "concurrent refreshes must share one backend call")
}

func TestRefresherBackendFailure(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)
	require.NoError(t, store.SetRefreshCredential(ctx, "refresh-1"))

	auth, _ := newAuthAPI(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"code":"unauthenticated","message":"refresh token expired"}`)
	}))

	_, err := NewRefresher(store, auth).Refresh(ctx)
	require.Error(t, err)
	assert.True(t, api.IsAuthError(err))
	assert.False(t, store.IsAuthenticated(), "a failed refresh must not authenticate the session")
}
