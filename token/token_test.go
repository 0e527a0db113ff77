package token

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeToken(t *testing.T, claims map[string]interface{}) string {
	t.Helper()
	payload, err := json.Marshal(claims)
	require.NoError(t, err)
	return "header." + base64.RawURLEncoding.EncodeToString(payload) + ".signature"
}

func TestDecode(t *testing.T) {
	raw := makeToken(t, map[string]interface{}{
		"user_id":       "u1",
		"email":         "e@x.com",
		"display_name":  "E",
		"is_superadmin": false,
		"iss":           "fleet-platform",
		"sub":           "u1",
		"exp":           9999999999,
		"nbf":           1700000000,
		"iat":           1700000000,
	})

	claims, err := Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "e@x.com", claims.Email)
	assert.Equal(t, "E", claims.DisplayName)
	assert.False(t, claims.IsSuperadmin)
	assert.Equal(t, "fleet-platform", claims.Issuer)
	assert.Equal(t, "u1", claims.Subject)
	assert.Equal(t, int64(9999999999), claims.ExpiresAt.Unix())
	assert.Equal(t, int64(1700000000), claims.IssuedAt.Unix())
}

func TestDecodePaddedPayload(t *testing.T) {
	payload, err := json.Marshal(map[string]interface{}{"user_id": "u1", "exp": 9999999999})
	require.NoError(t, err)

	// Some issuers emit padded base64url; the codec must accept both.
	raw := "header." + base64.URLEncoding.EncodeToString(payload) + ".signature"

	claims, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestDecodeRejectsMalformedTokens(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: ""},
		{name: "two segments", raw: "a.b"},
		{name: "four segments", raw: "a.b.c.d"},
		{name: "payload not base64", raw: "a.!!!.c"},
		{name: "payload not json", raw: "a." + base64.RawURLEncoding.EncodeToString([]byte("not json")) + ".c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := Decode(tt.raw)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Now().Unix()

	expired := makeToken(t, map[string]interface{}{"user_id": "u1", "exp": now - 60})
	valid := makeToken(t, map[string]interface{}{"user_id": "u1", "exp": now + 3600})
	noExp := makeToken(t, map[string]interface{}{"user_id": "u1"})

	assert.True(t, IsExpired(expired))
	assert.False(t, IsExpired(valid))
	assert.True(t, IsExpired(noExp), "a token without exp counts as expired")
	assert.True(t, IsExpired("garbage"), "decode failure counts as expired")
}

func TestPeek(t *testing.T) {
	raw := makeToken(t, map[string]interface{}{"user_id": "u1", "is_superadmin": true})

	assert.Equal(t, "u1", Peek(raw, "user_id"))
	assert.Equal(t, "true", Peek(raw, "is_superadmin"))
	assert.Equal(t, "", Peek(raw, "missing"))
	assert.Equal(t, "", Peek("garbage", "user_id"))
}

func TestClaimsUser(t *testing.T) {
	raw := makeToken(t, map[string]interface{}{
		"user_id":       "u1",
		"email":         "e@x.com",
		"display_name":  "E",
		"is_superadmin": true,
	})

	claims, err := Decode(raw)
	require.NoError(t, err)

	user := claims.User()
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "e@x.com", user.Email)
	assert.Equal(t, "E", user.DisplayName)
	assert.True(t, user.IsSuperadmin)
}
