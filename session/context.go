package session

import (
	"golang.org/x/net/context"

	"github.com/mtamaramu/fleet-admin/models"
)

type contextKey string

const userContextKey contextKey = "sessionUser"

// WithUser attaches the session identity to a context so downstream code can
// log and scope by user without touching the store.
func WithUser(ctx context.Context, user *models.AppUser) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the identity attached by WithUser, if any.
func UserFromContext(ctx context.Context) (*models.AppUser, bool) {
	user, ok := ctx.Value(userContextKey).(*models.AppUser)
	return user, ok && user != nil
}
