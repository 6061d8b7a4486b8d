package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomi-coder/liar-game/internal/domain"
)

func newTestHub(t *testing.T) *RoomHub {
	t.Helper()
	hub := NewRoomHub(domain.DefaultSettings(), "BOM", testLogger())
	t.Cleanup(hub.Close)
	return hub
}

func TestRoomHub_CreateRoomUniqueCodes(t *testing.T) {
	hub := newTestHub(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		session, err := hub.CreateRoom("")
		require.NoError(t, err)

		code := session.RoomCode()
		assert.Len(t, code, DefaultRoomCodeLength)
		assert.False(t, seen[code])
		seen[code] = true

		for _, ch := range code {
			assert.True(t, strings.ContainsRune(RoomCodeChars, ch))
		}
	}
	assert.Equal(t, 20, hub.SessionCount())
}

func TestRoomHub_GetSession(t *testing.T) {
	hub := newTestHub(t)

	_, err := hub.GetSession("NOPE")
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)

	created, err := hub.CreateRoom("")
	require.NoError(t, err)

	got, err := hub.GetSession(created.RoomCode())
	require.NoError(t, err)
	assert.Same(t, created, got)
}

func TestRoomHub_GetOrCreateSession(t *testing.T) {
	hub := newTestHub(t)

	first := hub.GetOrCreateSession("FRIDAY")
	second := hub.GetOrCreateSession("FRIDAY")
	assert.Same(t, first, second)
	assert.Equal(t, 1, hub.SessionCount())
}

func TestRoomHub_DefaultHostCodeApplies(t *testing.T) {
	hub := newTestHub(t)

	session := hub.GetOrCreateSession("FRIDAY")
	_, err := session.Join("p1", "Alice")
	require.NoError(t, err)

	assert.ErrorIs(t, session.ClaimHost("p1", "WRONG"), domain.ErrInvalidCode)
	assert.NoError(t, session.ClaimHost("p1", "BOM"))
}

func TestRoomHub_DeleteSession(t *testing.T) {
	hub := newTestHub(t)

	session, err := hub.CreateRoom("")
	require.NoError(t, err)
	code := session.RoomCode()

	hub.DeleteSession(code)
	assert.Equal(t, 0, hub.SessionCount())

	_, err = hub.GetSession(code)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRoomHub_TotalPlayerCount(t *testing.T) {
	hub := newTestHub(t)

	a := hub.GetOrCreateSession("ROOMA")
	b := hub.GetOrCreateSession("ROOMB")

	a.Join("p1", "Alice")
	a.Join("p2", "Bob")
	b.Join("p3", "Carol")

	assert.Equal(t, 3, hub.TotalPlayerCount())
}
