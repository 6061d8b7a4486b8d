package domain_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomi-coder/liar-game/internal/domain"
)

func TestNewRoundState_ExactlyOneLiar(t *testing.T) {
	players := []string{"a", "b", "c", "d"}

	for i := 0; i < 20; i++ {
		r := domain.NewRoundState(1, "Food", "pizza", false, players, 7)

		liars := 0
		for _, role := range r.Roles {
			if role.IsLiar() {
				liars++
			}
		}
		assert.Equal(t, 1, liars)
		assert.Equal(t, domain.RoleLiar, r.Roles[r.LiarID])
		assert.Empty(t, r.SpyID, "no spy below threshold")
	}
}

func TestNewRoundState_OrderIsPermutation(t *testing.T) {
	players := []string{"a", "b", "c", "d", "e"}
	r := domain.NewRoundState(1, "Places", "airport", false, players, 0)

	order := r.Schedule.Order()
	require.Len(t, order, len(players))

	sorted := append([]string(nil), order...)
	sort.Strings(sorted)
	assert.Equal(t, players, sorted)
}

func TestNewRoundState_SpyFromThreshold(t *testing.T) {
	players := []string{"a", "b", "c", "d", "e", "f", "g"}

	for i := 0; i < 20; i++ {
		r := domain.NewRoundState(1, "Jobs", "pilot", false, players, 7)

		require.NotEmpty(t, r.SpyID)
		assert.NotEqual(t, r.LiarID, r.SpyID)
		assert.Equal(t, domain.RoleSpy, r.Roles[r.SpyID])

		citizens := 0
		for _, role := range r.Roles {
			if role == domain.RoleCitizen {
				citizens++
			}
		}
		assert.Equal(t, len(players)-2, citizens)
	}
}

func TestRoundState_WordForLiarIsPlaceholder(t *testing.T) {
	r := domain.NewRoundState(1, "Food", "sushi", false, []string{"a", "b", "c"}, 0)

	for _, id := range []string{"a", "b", "c"} {
		if id == r.LiarID {
			assert.Equal(t, domain.LiarPlaceholder, r.WordFor(id))
		} else {
			assert.Equal(t, "sushi", r.WordFor(id))
		}
	}
}

func TestRoundState_TieSpeech(t *testing.T) {
	r := domain.NewRoundState(1, "Food", "ramen", false, []string{"a", "b", "c"}, 0)

	r.BeginTieSpeech([]string{"a", "c"})

	assert.True(t, r.IsTieCandidate("a"))
	assert.True(t, r.IsTieCandidate("c"))
	assert.False(t, r.IsTieCandidate("b"))
	assert.Equal(t, []string{"a", "c"}, r.TieSchedule.Order())
}
