package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomi-coder/liar-game/internal/domain"
)

func newTestRoom() *domain.Room {
	return domain.NewRoom("ROOM01", "BOM", domain.DefaultSettings())
}

func TestRoom_JoinAndNameConflict(t *testing.T) {
	r := newTestRoom()

	alice, err := r.Join("c1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "c1", alice.ID)
	assert.True(t, alice.Connected)

	_, err = r.Join("c2", "Alice")
	assert.ErrorIs(t, err, domain.ErrNameConflict)

	_, err = r.Join("c3", "   ")
	assert.ErrorIs(t, err, domain.ErrEmptyName)
}

func TestRoom_ReconnectByNameKeepsIdentity(t *testing.T) {
	r := newTestRoom()
	alice, err := r.Join("c1", "Alice")
	require.NoError(t, err)
	r.Join("c2", "Bob")
	r.Join("c3", "Carol")

	require.NoError(t, r.ClaimHost("c1", "BOM"))
	alice.Score = 4

	// Mid-game disconnects retain the seat
	r.Phase = domain.PhaseHintTurns
	r.Leave("c1")
	require.False(t, alice.Connected)
	assert.Nil(t, r.Host(), "room is host-less while the host is away")

	back, err := r.Join("c9", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "c1", back.ID, "stable identity survives the reconnect")
	assert.Equal(t, 4, back.Score)
	assert.True(t, back.IsHost)
	require.NotNil(t, r.Host())
	assert.Equal(t, "c1", r.Host().ID)
}

func TestRoom_LobbyLeaveRemovesOutright(t *testing.T) {
	r := newTestRoom()
	r.Join("c1", "Alice")
	r.Join("c2", "Bob")

	r.Leave("c1")

	assert.Len(t, r.Players, 1)
	_, err := r.FindPlayer("c1")
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
}

func TestRoom_JoinFull(t *testing.T) {
	settings := domain.DefaultSettings()
	settings.MaxPlayers = 2
	r := domain.NewRoom("ROOM01", "BOM", settings)

	r.Join("c1", "Alice")
	r.Join("c2", "Bob")
	_, err := r.Join("c3", "Carol")
	assert.ErrorIs(t, err, domain.ErrRoomFull)
}

func TestRoom_ClaimHost(t *testing.T) {
	r := newTestRoom()
	r.Join("c1", "Alice")
	r.Join("c2", "Bob")

	err := r.ClaimHost("c1", "WRONG")
	assert.ErrorIs(t, err, domain.ErrInvalidCode)
	assert.Nil(t, r.Host(), "failed claim mutates nothing")

	require.NoError(t, r.ClaimHost("c1", "BOM"))
	assert.True(t, r.IsHost("c1"))

	// A second claim moves the seat
	require.NoError(t, r.ClaimHost("c2", "BOM"))
	assert.True(t, r.IsHost("c2"))
	assert.False(t, r.IsHost("c1"))

	host := r.Host()
	require.NotNil(t, host)
	assert.Equal(t, "c2", host.ID)
}

func TestRoom_StartRoundUsesConnectedPlayers(t *testing.T) {
	r := newTestRoom()
	r.Join("c1", "Alice")
	r.Join("c2", "Bob")
	r.Join("c3", "Carol")
	r.Join("c4", "Dave")

	r.Phase = domain.PhaseRoundResult
	r.Leave("c4")

	round := r.StartRound("Food", "pizza", false)

	assert.Equal(t, 1, r.Round)
	assert.Equal(t, domain.PhaseRoleAssign, r.Phase)
	assert.Len(t, round.Roles, 3, "disconnected player is not dealt in")
	assert.NotContains(t, round.Roles, "c4")
	assert.True(t, r.UsedPairs["Food/pizza"])
}

func TestRoom_ApplyRoundOutcome(t *testing.T) {
	r := newTestRoom()
	r.Join("c1", "Alice")
	r.Join("c2", "Bob")
	r.Join("c3", "Carol")

	round := r.StartRound("Food", "pizza", false)

	var citizens []string
	for id, role := range round.Roles {
		if role == domain.RoleCitizen {
			citizens = append(citizens, id)
		}
	}

	r.ApplyRoundOutcome(domain.SideCitizens)
	for _, id := range citizens {
		p, _ := r.FindPlayer(id)
		assert.Equal(t, 1, p.Score)
	}
	liar, _ := r.FindPlayer(round.LiarID)
	assert.Equal(t, 0, liar.Score)

	// Next round, liar side wins
	round2 := r.StartRound("Places", "casino", false)
	r.ApplyRoundOutcome(domain.SideLiar)
	liar2, _ := r.FindPlayer(round2.LiarID)
	assert.Equal(t, domain.DefaultScoreDeltas().LiarWin, liar2.Score-scoreBefore(round2.LiarID, citizens))
}

func scoreBefore(id string, citizens []string) int {
	for _, c := range citizens {
		if c == id {
			return 1
		}
	}
	return 0
}

func TestRoom_ScoresNeverDecrease(t *testing.T) {
	r := newTestRoom()
	r.Join("c1", "Alice")
	r.Join("c2", "Bob")
	r.Join("c3", "Carol")

	last := map[string]int{}
	for i := 0; i < 5; i++ {
		r.StartRound("Food", "pizza", i > 0)
		winner := domain.SideCitizens
		if i%2 == 1 {
			winner = domain.SideLiar
		}
		r.ApplyRoundOutcome(winner)

		for _, p := range r.Players {
			assert.GreaterOrEqual(t, p.Score, last[p.ID])
			last[p.ID] = p.Score
		}
	}
}

func TestRoom_StandingsTieBreakByJoinOrder(t *testing.T) {
	r := newTestRoom()
	a, _ := r.Join("c1", "Alice")
	b, _ := r.Join("c2", "Bob")
	c, _ := r.Join("c3", "Carol")

	a.Score = 2
	b.Score = 5
	c.Score = 2

	standings := r.Standings()
	require.Len(t, standings, 3)
	assert.Equal(t, domain.Standing{Name: "Bob", Score: 5}, standings[0])
	assert.Equal(t, domain.Standing{Name: "Alice", Score: 2}, standings[1], "join order breaks the tie")
	assert.Equal(t, domain.Standing{Name: "Carol", Score: 2}, standings[2])
}

func TestRoom_ResetClearsGameState(t *testing.T) {
	r := newTestRoom()
	a, _ := r.Join("c1", "Alice")
	r.Join("c2", "Bob")
	r.Join("c3", "Carol")

	r.StartRound("Food", "pizza", false)
	r.ApplyRoundOutcome(domain.SideCitizens)
	r.Phase = domain.PhaseRoundResult
	r.Leave("c3")

	r.Reset()

	assert.Equal(t, domain.PhaseLobby, r.Phase)
	assert.Equal(t, 0, r.Round)
	assert.Nil(t, r.Current)
	assert.Empty(t, r.UsedPairs)
	assert.Equal(t, 0, a.Score)
	assert.Len(t, r.Players, 2, "disconnected players are dropped on reset")
}
