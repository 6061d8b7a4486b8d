package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "BOM", cfg.Game.HostCode)
	assert.Equal(t, 5, cfg.Game.TotalRounds)
	assert.Equal(t, 7, cfg.Game.SpyThreshold)
	assert.Equal(t, 30, cfg.Game.GuessSeconds)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("HOST_CODE", "KIMCHI")
	t.Setenv("ROUND_COUNT", "3")
	t.Setenv("VOTE_SECONDS", "not-a-number")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "KIMCHI", cfg.Game.HostCode)
	assert.Equal(t, 3, cfg.Game.TotalRounds)
	assert.Equal(t, 60, cfg.Game.VoteSeconds, "garbage falls back to the default")
}

func TestSettingsMapping(t *testing.T) {
	cfg := Load()
	settings := cfg.Settings()

	assert.Equal(t, cfg.Game.MinPlayers, settings.MinPlayers)
	assert.Equal(t, cfg.Game.TotalRounds, settings.TotalRounds)
	assert.Equal(t, cfg.Game.HintSeconds, settings.HintSeconds)
	assert.Equal(t, 3, settings.Deltas.LiarWin)
}

func TestGetAddr(t *testing.T) {
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "3000")

	cfg := Load()
	assert.Equal(t, "127.0.0.1:3000", cfg.GetAddr())
}
