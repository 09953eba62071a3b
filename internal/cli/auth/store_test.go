package auth

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripjournal/tripjournal/internal/cli/nav"
)

// failingStorage fails writes for a single key
type failingStorage struct {
	*MemoryStorage
	failKey string
}

func (f *failingStorage) SetItem(key, value string) error {
	if key == f.failKey {
		return errors.New("quota exceeded")
	}
	return f.MemoryStorage.SetItem(key, value)
}

func newTestStore() (*Store, *MemoryStorage, *nav.Location) {
	storage := NewMemoryStorage()
	loc := nav.NewLocation("/trips")
	return NewStore(storage, loc, zerolog.Nop()), storage, loc
}

func TestCheckAuthStatus_Empty(t *testing.T) {
	store, _, _ := newTestStore()

	status, err := store.CheckAuthStatus()
	require.NoError(t, err)
	assert.False(t, status.IsAuthenticated)
	assert.Nil(t, status.User)
}

func TestLogin_RoundTrip(t *testing.T) {
	store, _, _ := newTestStore()

	users := []map[string]any{
		{"username": "alice"},
		{"username": "bob", "id": float64(7), "email": "bob@example.com"},
		{"username": "carol", "tags": []any{"a", "b"}, "profile": map[string]any{"nickname": "c"}},
	}

	for _, user := range users {
		raw, err := json.Marshal(user)
		require.NoError(t, err)

		require.NoError(t, store.Login("abc123", string(raw)))

		status, err := store.CheckAuthStatus()
		require.NoError(t, err)
		assert.True(t, status.IsAuthenticated)
		assert.Equal(t, UserSummary(user), status.User)
	}
}

func TestCheckAuthStatus_RequiresBothItems(t *testing.T) {
	tests := []struct {
		name  string
		items map[string]string
		want  bool
	}{
		{name: "nothing", items: map[string]string{}, want: false},
		{name: "token only", items: map[string]string{TokenKey: "abc"}, want: false},
		{name: "user only", items: map[string]string{UserKey: `{"username":"alice"}`}, want: false},
		{name: "empty token", items: map[string]string{TokenKey: "", UserKey: `{"username":"alice"}`}, want: false},
		{name: "null user", items: map[string]string{TokenKey: "abc", UserKey: "null"}, want: false},
		{name: "corrupted user", items: map[string]string{TokenKey: "abc", UserKey: "{not json"}, want: false},
		{name: "array user", items: map[string]string{TokenKey: "abc", UserKey: `["alice"]`}, want: false},
		{name: "both", items: map[string]string{TokenKey: "abc", UserKey: `{"username":"alice"}`}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, storage, _ := newTestStore()
			for k, v := range tt.items {
				require.NoError(t, storage.SetItem(k, v))
			}

			status, err := store.CheckAuthStatus()
			require.NoError(t, err)
			assert.Equal(t, tt.want, status.IsAuthenticated)
			if !tt.want {
				assert.Nil(t, status.User)
			}
		})
	}
}

func TestLogin_UserWriteFailureLeavesNoToken(t *testing.T) {
	storage := &failingStorage{MemoryStorage: NewMemoryStorage(), failKey: UserKey}
	store := NewStore(storage, nil, zerolog.Nop())

	err := store.Login("abc", `{"username":"alice"}`)
	require.Error(t, err)

	token, err := store.Token()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestLogout_ClearsAndNavigatesToRoot(t *testing.T) {
	store, _, loc := newTestStore()
	require.NoError(t, store.Login("abc123", `{"username":"alice"}`))

	require.NoError(t, store.Logout())

	status, err := store.CheckAuthStatus()
	require.NoError(t, err)
	assert.False(t, status.IsAuthenticated)

	token, err := store.Token()
	require.NoError(t, err)
	assert.Empty(t, token)

	next, ok := loc.Next()
	require.True(t, ok)
	assert.Equal(t, nav.Root, next)
}

func TestUserSummary_Username(t *testing.T) {
	assert.Equal(t, "alice", UserSummary{"username": "alice"}.Username())
	assert.Empty(t, UserSummary{"username": 42}.Username())
	assert.Empty(t, UserSummary(nil).Username())
}
