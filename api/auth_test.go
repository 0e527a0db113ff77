package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin.v1.AuthService/Login", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"accessToken":"a.b.c","refreshToken":"r1"}`)
	}))
	defer srv.Close()

	auth := NewAuthAPI(NewAnonTransport(Config{Endpoint: srv.URL}))
	resp, err := auth.Login(context.Background(), "e@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", resp.AccessToken)
	assert.Equal(t, "r1", resp.RefreshToken)
}

func TestLoginValidatesInput(t *testing.T) {
	auth := NewAuthAPI(NewAnonTransport(Config{Endpoint: "http://127.0.0.1:1"}))

	_, err := auth.Login(context.Background(), "not-an-email", "secret")
	assert.Error(t, err)

	_, err = auth.Login(context.Background(), "e@x.com", "")
	assert.Error(t, err)
}

func TestLoginEmptyAccessToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"accessToken":""}`)
	}))
	defer srv.Close()

	auth := NewAuthAPI(NewAnonTransport(Config{Endpoint: srv.URL}))
	_, err := auth.Login(context.Background(), "e@x.com", "secret")
	assert.ErrorIs(t, err, ErrEmptyToken)
}

func TestRefreshTokenSendsCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "refresh-1", gjson.GetBytes(body, "refreshToken").String())
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"accessToken":"a.b.c"}`)
	}))
	defer srv.Close()

	auth := NewAuthAPI(NewAnonTransport(Config{Endpoint: srv.URL}))
	tok, err := auth.RefreshToken(context.Background(), "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", tok)
}
