package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/bomi-coder/liar-game/internal/domain"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
	Host string
	Env  string // "development" or "production"
}

// GameConfig holds game-related configuration
type GameConfig struct {
	HostCode          string // default shared secret for claiming host
	MinPlayers        int
	MaxPlayers        int
	TotalRounds       int
	SpyThreshold      int
	RoleRevealSeconds int
	HintSeconds       int
	DiscussSeconds    int
	VoteSeconds       int
	TieSpeechSeconds  int
	GuessSeconds      int
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from the environment with defaults, reading a
// local .env file first when present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Game: GameConfig{
			HostCode:          getEnv("HOST_CODE", "BOM"),
			MinPlayers:        getEnvInt("MIN_PLAYERS", 3),
			MaxPlayers:        getEnvInt("MAX_PLAYERS", 12),
			TotalRounds:       getEnvInt("ROUND_COUNT", 5),
			SpyThreshold:      getEnvInt("SPY_THRESHOLD", 7),
			RoleRevealSeconds: getEnvInt("ROLE_REVEAL_SECONDS", 5),
			HintSeconds:       getEnvInt("HINT_SECONDS", 15),
			DiscussSeconds:    getEnvInt("DISCUSS_SECONDS", 120),
			VoteSeconds:       getEnvInt("VOTE_SECONDS", 60),
			TieSpeechSeconds:  getEnvInt("TIE_SPEECH_SECONDS", 20),
			GuessSeconds:      getEnvInt("LIAR_GUESS_SECONDS", 30),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// Settings maps the game configuration onto room settings
func (c *Config) Settings() domain.Settings {
	return domain.Settings{
		MinPlayers:        c.Game.MinPlayers,
		MaxPlayers:        c.Game.MaxPlayers,
		TotalRounds:       c.Game.TotalRounds,
		SpyThreshold:      c.Game.SpyThreshold,
		Deltas:            domain.DefaultScoreDeltas(),
		RoleRevealSeconds: c.Game.RoleRevealSeconds,
		HintSeconds:       c.Game.HintSeconds,
		DiscussSeconds:    c.Game.DiscussSeconds,
		VoteSeconds:       c.Game.VoteSeconds,
		TieSpeechSeconds:  c.Game.TieSpeechSeconds,
		GuessSeconds:      c.Game.GuessSeconds,
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
