package config

import (
	"os"
	"strconv"
	"time"
)

// Config is loaded once at startup from the environment.
type Config struct {
	HTTPAddr    string
	PostgresDSN string

	// Engine timings.
	TrickLingerMs   int
	AllPassRevealMs int
	ForfeitSeconds  int
	DrawVoteSeconds int

	// Bot pacing. The slow values apply to bots flagged as slow thinkers.
	BotHeartbeatMs  int
	BotActionMs     int
	BotActionSlowMs int
	BotPlayMs       int
	BotPlaySlowMs   int
	BotRoundEndMs   int

	// Table recycling.
	GameOverResetMs  int
	BotOnlyRestartMs int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func Load() Config {
	return Config{
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),
		PostgresDSN: getenv("DATABASE_URL", "host=localhost user=sluff password=sluff dbname=sluff port=5432 sslmode=disable"),

		TrickLingerMs:   getenvInt("TRICK_LINGER_MS", 1000),
		AllPassRevealMs: getenvInt("ALL_PASS_REVEAL_MS", 3000),
		ForfeitSeconds:  getenvInt("FORFEIT_SECONDS", 120),
		DrawVoteSeconds: getenvInt("DRAW_VOTE_SECONDS", 30),

		BotHeartbeatMs:  getenvInt("BOT_HEARTBEAT_MS", 1500),
		BotActionMs:     getenvInt("BOT_ACTION_MS", 1000),
		BotActionSlowMs: getenvInt("BOT_ACTION_SLOW_MS", 2000),
		BotPlayMs:       getenvInt("BOT_PLAY_MS", 1200),
		BotPlaySlowMs:   getenvInt("BOT_PLAY_SLOW_MS", 2400),
		BotRoundEndMs:   getenvInt("BOT_ROUND_END_MS", 8000),

		GameOverResetMs:  getenvInt("GAME_OVER_RESET_MS", 10000),
		BotOnlyRestartMs: getenvInt("BOT_ONLY_RESTART_MS", 3000),
	}
}

// Timers converts the millisecond knobs for the engine.
func (c Config) TrickLinger() time.Duration {
	return time.Duration(c.TrickLingerMs) * time.Millisecond
}

func (c Config) AllPassReveal() time.Duration {
	return time.Duration(c.AllPassRevealMs) * time.Millisecond
}
