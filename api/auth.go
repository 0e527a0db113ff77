package api

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// ErrEmptyToken is returned when the backend answers a login or refresh with
// a 2xx but no access token in the body.
var ErrEmptyToken = errors.New("backend returned an empty access token")

// AuthAPI is the pre-auth service; it is called over an anonymous transport
// because login and refresh must work without a bearer token.
type AuthAPI struct {
	client *resty.Client
}

func NewAuthAPI(client *resty.Client) *AuthAPI {
	return &AuthAPI{client: client}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (a *AuthAPI) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	req := LoginRequest{Email: email, Password: password}
	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("invalid login request: %w", err)
	}

	var resp LoginResponse
	if err := call(ctx, a.client, "AuthService", "Login", req, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, ErrEmptyToken
	}
	return &resp, nil
}

type refreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type refreshTokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// RefreshToken exchanges a refresh credential for a new access token.
func (a *AuthAPI) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	var resp refreshTokenResponse
	err := call(ctx, a.client, "AuthService", "RefreshToken",
		refreshTokenRequest{RefreshToken: refreshToken}, &resp)
	if err != nil {
		return "", err
	}
	if resp.AccessToken == "" {
		return "", ErrEmptyToken
	}
	return resp.AccessToken, nil
}
