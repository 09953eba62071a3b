package auth

import (
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"

	"github.com/tripjournal/tripjournal/internal/config"
)

func TestFileStorage_PersistsAcrossInstances(t *testing.T) {
	dir := t.TempDir()

	first := NewFileStorage(dir)
	require.NoError(t, first.SetItem(TokenKey, "abc"))
	require.NoError(t, first.SetItem(UserKey, `{"username":"alice"}`))

	info, err := os.Stat(first.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// A new instance stands in for a restarted process
	second := NewFileStorage(dir)
	v, ok, err := second.GetItem(TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, second.RemoveItem(TokenKey))
	require.NoError(t, second.RemoveItem("never-set"))

	_, ok, err = first.GetItem(TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFileStorage_CorruptedFileFailsLoudly(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStorage(dir)
	require.NoError(t, os.WriteFile(s.Path(), []byte("{oops"), 0o600))

	store := NewStore(s, nil, zerolog.Nop())
	_, err := store.CheckAuthStatus()
	require.Error(t, err)
}

func TestKeyringStorage(t *testing.T) {
	keyring.MockInit()

	s := NewKeyringStorage("tripjournal-test")

	_, ok, err := s.GetItem(TokenKey)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetItem(TokenKey, "xyz"))
	v, ok, err := s.GetItem(TokenKey)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "xyz", v)

	require.NoError(t, s.RemoveItem(TokenKey))
	require.NoError(t, s.RemoveItem(TokenKey))
}

func TestNewStorage(t *testing.T) {
	s, err := NewStorage(config.StorageConfig{Backend: config.StorageMemory})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStorage{}, s)

	s, err = NewStorage(config.StorageConfig{Backend: config.StorageFile, StateDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &FileStorage{}, s)

	s, err = NewStorage(config.StorageConfig{Backend: config.StorageKeyring})
	require.NoError(t, err)
	assert.IsType(t, &KeyringStorage{}, s)

	_, err = NewStorage(config.StorageConfig{Backend: "cookies"})
	require.Error(t, err)
}
