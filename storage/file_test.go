package storage

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewFile(filepath.Join(t.TempDir(), "session.json"))

	value, err := store.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.Empty(t, value, "absent keys read as empty")

	require.NoError(t, store.Set(ctx, KeyAuthToken, "tok1"))
	require.NoError(t, store.Set(ctx, KeyCurrentOrganizationID, "org1"))

	value, err = store.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "tok1", value)

	require.NoError(t, store.Set(ctx, KeyAuthToken, "tok2"))
	value, err = store.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "tok2", value)

	require.NoError(t, store.Delete(ctx, KeyAuthToken))
	value, err = store.Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.Empty(t, value)

	// Other keys are untouched.
	value, err = store.Get(ctx, KeyCurrentOrganizationID)
	require.NoError(t, err)
	assert.Equal(t, "org1", value)
}

func TestFileDeleteAbsentKey(t *testing.T) {
	ctx := context.Background()
	store := NewFile(filepath.Join(t.TempDir(), "session.json"))

	assert.NoError(t, store.Delete(ctx, KeyRefreshToken))
}

func TestFileSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	require.NoError(t, NewFile(path).Set(ctx, KeyAuthToken, "tok1"))

	value, err := NewFile(path).Get(ctx, KeyAuthToken)
	require.NoError(t, err)
	assert.Equal(t, "tok1", value)
}

func TestFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions only")
	}

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")

	require.NoError(t, NewFile(path).Set(ctx, KeyAuthToken, "tok1"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "the token file must be owner-only")
}

func TestFileRejectsCorruptedContent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	_, err := NewFile(path).Get(ctx, KeyAuthToken)
	assert.Error(t, err)
}
