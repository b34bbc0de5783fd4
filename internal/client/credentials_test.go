package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vibeboxing/internal/model"
)

func TestFileCredentialStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "credentials.json")
	store := NewFileCredentialStore(path)

	got, err := store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)

	want := &Credentials{Token: "tok", User: &model.User{ID: 3, Email: "ana@x.com", Name: "Ana", PasswordHash: "secret-hash"}}
	require.NoError(t, store.Save(want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"vibeboxing.auth_token": "tok"`)
	assert.Contains(t, string(raw), `"vibeboxing.auth_user"`)
	assert.NotContains(t, string(raw), "secret-hash")

	got, err = store.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok", got.Token)
	assert.Equal(t, "ana@x.com", got.User.Email)

	require.NoError(t, store.Clear())
	require.NoError(t, store.Clear())
	got, err = store.Load()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFileCredentialStore_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileCredentialStore(path).Load()
	assert.Error(t, err)
}

func TestMemoryCredentialStore_ReturnsCopies(t *testing.T) {
	store := NewMemoryCredentialStore(nil)
	creds := &Credentials{Token: "a"}
	require.NoError(t, store.Save(creds))
	creds.Token = "b"

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "a", got.Token)
}

func TestNewAPI_RejectsBadURL(t *testing.T) {
	for _, raw := range []string{"", "localhost:8080", "://"} {
		_, err := NewAPI(raw)
		assert.Error(t, err, raw)
	}
}
