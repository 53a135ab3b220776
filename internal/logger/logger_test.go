package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/jwebster45206/echo-engine/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Production(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&config.Config{Environment: "production", LogLevel: slog.LevelInfo}, &buf)
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.DiscardHandler)) })

	WithSessionID(log, "abc").Info("Case closed", "ending", "game_complete")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "Case closed", line["msg"])
	assert.Equal(t, "abc", line["session_id"])
	assert.Equal(t, "game_complete", line["ending"])
}

func TestSetup_DevelopmentLevel(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&config.Config{Environment: "development", LogLevel: slog.LevelWarn}, &buf)
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.DiscardHandler)) })

	log.Info("hidden")
	assert.Empty(t, buf.String())

	WithError(log, errors.New("boom")).Warn("Ledger unavailable")
	assert.Contains(t, buf.String(), "msg=\"Ledger unavailable\"")
	assert.Contains(t, buf.String(), "error=boom")
}
