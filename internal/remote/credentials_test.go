package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pomflow/internal/persist"
)

func TestCredentialsLifecycle(t *testing.T) {
	store, err := persist.NewFileStore(t.TempDir())
	require.NoError(t, err)

	_, err = LoadCredentials(store)
	assert.ErrorIs(t, err, ErrNotSignedIn)

	creds := Credentials{ServerURL: "http://localhost:8080", Token: "abc", UserID: "u1", Email: "dev@example.com"}
	require.NoError(t, SaveCredentials(store, creds))

	loaded, err := LoadCredentials(store)
	require.NoError(t, err)
	assert.Equal(t, creds, loaded)
	assert.Equal(t, "http://localhost:8080", loaded.Client().BaseURL())

	require.NoError(t, ClearCredentials(store))
	_, err = LoadCredentials(store)
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestCredentialsWithoutTokenAreNotSignedIn(t *testing.T) {
	store, err := persist.NewFileStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, SaveCredentials(store, Credentials{ServerURL: "http://x"}))

	_, err = LoadCredentials(store)
	assert.ErrorIs(t, err, ErrNotSignedIn)
}
