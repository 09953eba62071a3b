package session

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripjournal/tripjournal/internal/cli/auth"
	"github.com/tripjournal/tripjournal/internal/cli/events"
	"github.com/tripjournal/tripjournal/internal/cli/nav"
)

func newTestService() (*Service, *auth.MemoryStorage, *events.Bus, *nav.Location) {
	storage := auth.NewMemoryStorage()
	loc := nav.NewLocation(nav.Root)
	bus := events.NewBus()
	store := auth.NewStore(storage, loc, zerolog.Nop())
	return NewService(store, bus), storage, bus, loc
}

func TestUpdateHeaderUI_LoggedIn(t *testing.T) {
	svc, _, _, _ := newTestService()
	require.NoError(t, svc.Login("abc123", `{"username":"alice"}`))

	header := NewTerminalHeader("Travel Journal")
	require.NoError(t, svc.UpdateHeaderUI(header))

	assert.True(t, header.Visible(RegionUserMenu))
	assert.False(t, header.Visible(RegionLoginLink))
	assert.Equal(t, "alice", header.Text(SlotUsername))
	assert.Contains(t, header.Render(), "alice")
	assert.NotContains(t, header.Render(), "login")
}

func TestUpdateHeaderUI_LoggedOut(t *testing.T) {
	svc, _, _, _ := newTestService()

	header := NewTerminalHeader("Travel Journal")
	require.NoError(t, svc.UpdateHeaderUI(header))

	assert.False(t, header.Visible(RegionUserMenu))
	assert.True(t, header.Visible(RegionLoginLink))
	assert.Equal(t, GuestLabel, header.Text(SlotUsername))
}

func TestUpdateHeaderUI_Idempotent(t *testing.T) {
	for _, loggedIn := range []bool{true, false} {
		svc, _, _, _ := newTestService()
		if loggedIn {
			require.NoError(t, svc.Login("abc123", `{"username":"alice"}`))
		}

		header := NewTerminalHeader("Travel Journal")
		require.NoError(t, svc.UpdateHeaderUI(header))
		var first bytes.Buffer
		_, err := header.WriteTo(&first)
		require.NoError(t, err)

		require.NoError(t, svc.UpdateHeaderUI(header))
		var second bytes.Buffer
		_, err = header.WriteTo(&second)
		require.NoError(t, err)

		assert.Equal(t, first.String(), second.String())
	}
}

func TestUpdateHeaderUI_FollowsStorage(t *testing.T) {
	svc, storage, _, _ := newTestService()
	header := NewTerminalHeader("Travel Journal")

	require.NoError(t, svc.Login("abc123", `{"username":"alice"}`))
	require.NoError(t, svc.UpdateHeaderUI(header))
	assert.Equal(t, "alice", header.Text(SlotUsername))

	// Another process wipes the user record
	require.NoError(t, storage.RemoveItem(auth.UserKey))
	require.NoError(t, svc.UpdateHeaderUI(header))
	assert.True(t, header.Visible(RegionLoginLink))
	assert.Equal(t, GuestLabel, header.Text(SlotUsername))
}

func TestLoginLogout_PublishSessionChanged(t *testing.T) {
	svc, _, bus, loc := newTestService()

	changes := 0
	bus.Subscribe(events.SessionChanged, func(any) { changes++ })

	require.NoError(t, svc.Login("abc123", `{"username":"alice"}`))
	ok, err := svc.IsAuthenticated()
	require.NoError(t, err)
	assert.True(t, ok)

	user, ok, err := svc.CurrentUser()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", user.Username())

	require.NoError(t, svc.Logout())
	ok, err = svc.IsAuthenticated()
	require.NoError(t, err)
	assert.False(t, ok)

	assert.Equal(t, 2, changes)
	next, navigated := loc.Next()
	require.True(t, navigated)
	assert.Equal(t, nav.Root, next)
}
