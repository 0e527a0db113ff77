package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransportHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"organizations":[]}`))
	}))
	defer srv.Close()

	client := NewTransport(Config{Endpoint: srv.URL}, "tok123", "org1")
	_, err := NewOrganizationAPI(client).List(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok123", got.Get(HeaderAuthorization))
	assert.Equal(t, "org1", got.Get(HeaderOrganizationID))
	assert.Equal(t, "application/json", got.Get("Content-Type"))

	requestID := got.Get(HeaderRequestID)
	_, err = uuid.Parse(requestID)
	assert.NoError(t, err, "x-request-id must be a uuid, got %q", requestID)
}

func TestNewAnonTransportOmitsAuthHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"accessToken":"a.b.c"}`))
	}))
	defer srv.Close()

	client := NewAnonTransport(Config{Endpoint: srv.URL})
	_, err := NewAuthAPI(client).RefreshToken(context.Background(), "refresh-1")
	require.NoError(t, err)

	assert.Empty(t, got.Get(HeaderAuthorization))
	assert.Empty(t, got.Get(HeaderOrganizationID))
	assert.NotEmpty(t, got.Get(HeaderRequestID))
}

func TestCallPathLayout(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"users":[]}`))
	}))
	defer srv.Close()

	client := NewTransport(Config{Endpoint: srv.URL}, "tok", "org1")
	_, err := NewUserAPI(client).List(context.Background(), 0)
	require.NoError(t, err)

	assert.Equal(t, "/admin.v1.UserService/ListUsers", path)
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	assert.Equal(t, "http://localhost:8080", cfg.endpoint())
	assert.Equal(t, 30*time.Second, cfg.timeout())

	cfg = Config{Endpoint: "https://api.example.com", Timeout: 5 * time.Second}
	assert.Equal(t, "https://api.example.com", cfg.endpoint())
	assert.Equal(t, 5*time.Second, cfg.timeout())
}
