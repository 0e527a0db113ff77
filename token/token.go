package token

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"
	"github.com/tidwall/gjson"

	"github.com/mtamaramu/fleet-admin/models"
)

// Claims is the payload of a platform access token. The console never
// verifies the signature; the backend re-validates the token on every call,
// so this is a session-lifecycle aid rather than a security boundary.
type Claims struct {
	UserID       string `json:"user_id"`
	Email        string `json:"email"`
	DisplayName  string `json:"display_name"`
	IsSuperadmin bool   `json:"is_superadmin"`
	jwt.RegisteredClaims
}

// User converts the claims into the session's user identity.
func (c *Claims) User() *models.AppUser {
	return &models.AppUser{
		ID:           c.UserID,
		Email:        c.Email,
		DisplayName:  c.DisplayName,
		IsSuperadmin: c.IsSuperadmin,
	}
}

// Decode parses the claims out of a compact token without verifying the
// signature. The token must have exactly three dot-separated segments and a
// base64url JSON payload; padded and unpadded encodings are both accepted.
func Decode(raw string) (*Claims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("token must have 3 segments, got %d", len(parts))
	}

	payload, err := decodeSegment(parts[1])
	if err != nil {
		return nil, fmt.Errorf("failed to decode token payload: %w", err)
	}

	var claims Claims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("token payload is not valid JSON: %w", err)
	}

	return &claims, nil
}

// IsExpired reports whether the token's exp claim is in the past. A token
// that cannot be decoded, or that carries no exp claim, counts as expired.
func IsExpired(raw string) bool {
	claims, err := Decode(raw)
	if err != nil {
		return true
	}
	if claims.ExpiresAt == nil {
		return true
	}
	return claims.ExpiresAt.Unix() < time.Now().Unix()
}

// Peek extracts a single claim by gjson path without decoding the whole
// payload into a struct. Returns "" for malformed tokens or missing claims.
func Peek(raw, path string) string {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return ""
	}
	payload, err := decodeSegment(parts[1])
	if err != nil {
		return ""
	}
	return gjson.GetBytes(payload, path).String()
}

func decodeSegment(seg string) ([]byte, error) {
	return base64.RawURLEncoding.DecodeString(strings.TrimRight(seg, "="))
}
