package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtamaramu/fleet-admin/models"
)

func TestUserContextRoundTrip(t *testing.T) {
	user := &models.AppUser{ID: "u1", Email: "e@x.com"}

	ctx := WithUser(context.Background(), user)
	got, ok := UserFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, user, got)
}

func TestUserFromContextAbsent(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)
}

func TestUserFromContextNilUser(t *testing.T) {
	ctx := WithUser(context.Background(), nil)
	_, ok := UserFromContext(ctx)
	assert.False(t, ok)
}
