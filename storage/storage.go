// Package storage persists the small session key set that survives console
// restarts: the raw access token, the refresh credential, and the
// last-selected organization id.
package storage

import "context"

const (
	KeyAuthToken             = "auth_token"
	KeyRefreshToken          = "refresh_token"
	KeyCurrentOrganizationID = "current_organization_id"
)

// Storage is a flat key-value store. Get returns "" for absent keys; Delete
// of an absent key is a no-op.
type Storage interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
