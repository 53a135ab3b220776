package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/echo-engine/internal/config"
	"github.com/jwebster45206/echo-engine/internal/logger"
	"github.com/jwebster45206/echo-engine/internal/storage"
	"github.com/jwebster45206/echo-engine/pkg/scenario"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	logFile, err := tea.LogToFile(cfg.LogFile, "echo")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logFile.Close()
	}()
	log := logger.Setup(cfg, logFile)

	sc, err := loadScenario(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load scenario: %v\n", err)
		os.Exit(1)
	}
	log.Info("Scenario loaded", "name", sc.Name, "entities", len(sc.Entities), "quests", len(sc.Quests))

	ledger := openLedger(cfg, log)
	defer func() {
		_ = ledger.Close()
	}()

	g, err := newGame(cfg, sc, ledger, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start game: %v\n", err)
		os.Exit(1)
	}

	if _, err := tea.NewProgram(g, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		os.Exit(1)
	}
}

func loadScenario(cfg *config.Config) (*scenario.Scenario, error) {
	if cfg.ScenarioFile == "" {
		return scenario.Default()
	}
	return scenario.Load(cfg.ScenarioFile)
}

const (
	redisAttempts = 3
	redisDelay    = 500 * time.Millisecond
)

// openLedger prefers Redis and falls back to memory so the game runs
// without any services.
func openLedger(cfg *config.Config, log *slog.Logger) storage.Ledger {
	if cfg.RedisURL == "" {
		return storage.NewMemoryLedger()
	}

	ledger, err := storage.NewRedisLedger(cfg.RedisURL, log)
	if err != nil {
		logger.WithError(log, err).Warn("Invalid Redis URL, keeping cases in memory")
		return storage.NewMemoryLedger()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := ledger.WaitForConnection(ctx, redisAttempts, redisDelay); err != nil {
		_ = ledger.Close()
		logger.WithError(log, err).Warn("Redis unavailable, keeping cases in memory")
		return storage.NewMemoryLedger()
	}
	return ledger
}
