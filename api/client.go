// Package api holds the typed clients for the platform backend. The backend
// speaks the Connect/gRPC-Web protocol; every call is a POST of a JSON body
// to /<package>.<Service>/<Method>.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	otelx "github.com/mtamaramu/fleet-admin/otel"
)

const (
	HeaderAuthorization  = "Authorization"
	HeaderOrganizationID = "x-organization-id"
	HeaderRequestID      = "x-request-id"
)

const serviceName = "fleet-admin"

var validate = validator.New()

// Config holds the settings shared by every client.
type Config struct {
	// Endpoint is the backend base URL.
	Endpoint string
	// Timeout bounds each call; zero means 30s.
	Timeout time.Duration
}

func (c Config) endpoint() string {
	if c.Endpoint == "" {
		return "http://localhost:8080"
	}
	return c.Endpoint
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}
	return c.Timeout
}

// NewTransport builds an authenticated client. Every outbound call carries
// `Authorization: Bearer <token>`; when an organization id is supplied the
// tenant-scoping header is attached as well.
func NewTransport(cfg Config, token, organizationID string) *resty.Client {
	client := resty.New()
	client.SetBaseURL(cfg.endpoint())
	client.SetTimeout(cfg.timeout())
	client.SetHeader("Content-Type", "application/json")
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		req.SetHeader(HeaderRequestID, uuid.NewString())
		req.Header = otelx.InjectTraceHeaders(req.Context(), req.Header)
		return nil
	})

	if token != "" {
		client.SetHeader(HeaderAuthorization, fmt.Sprintf("Bearer %s", token))
	}
	if organizationID != "" {
		client.SetHeader(HeaderOrganizationID, organizationID)
	}

	return client
}

// NewAnonTransport builds an unauthenticated client. Only the pre-auth
// AuthService (login, refresh) is reachable without a bearer token.
func NewAnonTransport(cfg Config) *resty.Client {
	return NewTransport(cfg, "", "")
}

// call posts a Connect-style JSON request and decodes the response into out.
// Non-2xx responses become *Error values.
func call(ctx context.Context, client *resty.Client, service, method string, in, out interface{}) error {
	path := fmt.Sprintf("/admin.v1.%s/%s", service, method)

	ctx, finish := otelx.StartHTTPSpan(ctx, serviceName, service, method,
		http.MethodPost, client.BaseURL, path)

	req := client.R().SetContext(ctx).SetBody(in)
	if out != nil {
		req.SetResult(out)
	}

	resp, err := req.Post(path)
	if err != nil {
		finish(0, err)
		return fmt.Errorf("%s.%s: %w", service, method, err)
	}

	if resp.IsError() {
		apiErr := errorFromResponse(resp)
		finish(resp.StatusCode(), apiErr)
		return apiErr
	}

	finish(resp.StatusCode(), nil)
	return nil
}
