package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Environment  string
	LogLevel     slog.Level
	LogFile      string
	ScenarioFile string // empty uses the embedded default scenario
	RedisURL     string // empty keeps the case ledger in memory
	TickRate     int    // frames per second
	ToastTicks   int
	PlayerSpeed  int // cells per move
}

func Load() *Config {
	return &Config{
		Environment:  getEnv("ENVIRONMENT", "development"),
		LogLevel:     parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LogFile:      getEnv("LOG_FILE", "echo.log"),
		ScenarioFile: getEnv("SCENARIO_FILE", ""),
		RedisURL:     getEnv("REDIS_URL", ""),
		TickRate:     getEnvInt("TICK_RATE", 60),
		ToastTicks:   getEnvInt("TOAST_TICKS", 180),
		PlayerSpeed:  getEnvInt("PLAYER_SPEED", 1),
	}
}

// Validate reports the first setting the game cannot run with.
func (c *Config) Validate() error {
	if c.TickRate <= 0 {
		return fmt.Errorf("TICK_RATE must be positive, got %d", c.TickRate)
	}
	if c.ToastTicks <= 0 {
		return fmt.Errorf("TOAST_TICKS must be positive, got %d", c.ToastTicks)
	}
	if c.PlayerSpeed <= 0 {
		return fmt.Errorf("PLAYER_SPEED must be positive, got %d", c.PlayerSpeed)
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt falls back to defaultValue when the variable is unset. A value
// that does not parse is kept as 0 so Validate can report it.
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return n
}
