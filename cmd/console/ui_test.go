package main

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/echo-engine/internal/config"
	"github.com/jwebster45206/echo-engine/internal/storage"
	"github.com/jwebster45206/echo-engine/pkg/scenario"
	"github.com/jwebster45206/echo-engine/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGame(t *testing.T) (*game, *storage.MemoryLedger) {
	t.Helper()
	sc, err := scenario.Default()
	require.NoError(t, err)
	ledger := storage.NewMemoryLedger()
	cfg := &config.Config{TickRate: 60, ToastTicks: 180, PlayerSpeed: 1}
	g, err := newGame(cfg, sc, ledger, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	g.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return g, ledger
}

func press(g *game, keys ...tea.KeyMsg) {
	for _, k := range keys {
		g.Update(k)
	}
	g.Update(tickMsg(time.Now()))
}

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	up    = tea.KeyMsg{Type: tea.KeyUp}
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func toPlaying(t *testing.T, g *game) {
	t.Helper()
	for i := 0; i < 10 && g.machine.State() != scene.Playing; i++ {
		press(g, enter)
	}
	require.Equal(t, scene.Playing, g.machine.State())
}

func TestGame_TitleToPlaying(t *testing.T) {
	g, _ := newTestGame(t)
	assert.Contains(t, g.View(), "ECHO OF LIES")
	assert.Contains(t, g.View(), "Cases closed: 0")

	press(g, enter)
	assert.Equal(t, scene.Prologue, g.machine.State())
	assert.Contains(t, g.View(), "1/4")

	toPlaying(t, g)
	assert.Contains(t, g.View(), "Walk up to someone and press E.")
}

func TestGame_WalkAndInteract(t *testing.T) {
	g, _ := newTestGame(t)
	toPlaying(t, g)
	start := g.player

	press(g, up)
	assert.Equal(t, start.Y-cellH, g.player.Y)

	press(g, runeKey('e'))
	require.NotNil(t, g.machine.Session().Dialogue, "the case board is in reach")
	assert.Contains(t, g.View(), "Quest started")

	press(g, runeKey('s'))
	assert.Equal(t, start.Y-cellH, g.player.Y, "no walking during dialogue")

	press(g, runeKey('q'))
	press(g, runeKey('s'))
	assert.Equal(t, start.Y, g.player.Y)
}

func TestGame_InputsResolveInPressOrder(t *testing.T) {
	g, _ := newTestGame(t)
	toPlaying(t, g)
	start := g.player
	press(g, up)

	press(g, runeKey('e'), runeKey('s'))
	require.NotNil(t, g.machine.Session().Dialogue, "interact resolves before the move")
	assert.Equal(t, start.Y-cellH, g.player.Y, "the open dialogue blocks the move")

	press(g, runeKey('q'), runeKey('s'), runeKey('e'))
	assert.Equal(t, start, g.player)
	assert.Nil(t, g.machine.Session().Dialogue, "interact uses the position after the move")
}

func TestGame_Overlays(t *testing.T) {
	g, _ := newTestGame(t)
	toPlaying(t, g)

	press(g, runeKey('i'), runeKey('l'))
	view := g.View()
	assert.Contains(t, view, "INVENTORY")
	assert.Contains(t, view, "QUESTS")
}

func TestGame_RecordsEnding(t *testing.T) {
	g, ledger := newTestGame(t)
	toPlaying(t, g)
	press(g, up)

	s := g.machine.Session()
	s.Flags.AddToInventory("real_poster")
	g.machine.Interact("mayor")
	g.machine.Choose(1)
	require.Equal(t, scene.GameComplete, g.machine.State())
	require.NotNil(t, g.finished)

	msg := recordCase(ledger, g.finished)()
	recorded, ok := msg.(caseRecordedMsg)
	require.True(t, ok)
	require.NoError(t, recorded.err)

	recent, err := ledger.Recent(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, s.ID, recent[0].ID)
	assert.True(t, recent[0].Solved())
	assert.Contains(t, g.View(), "CASE CLOSED")

	_, cmd := g.Update(recorded)
	require.NotNil(t, cmd)
	g.Update(cmd())
	assert.Equal(t, int64(1), g.casesClosed)
	require.Len(t, g.recent, 1)
	title := g.renderTitle()
	assert.Contains(t, title, "Cases closed: 1")
	assert.Contains(t, title, "Solved")

	press(g, runeKey('r'))
	assert.Equal(t, scene.Playing, g.machine.State())
	assert.Equal(t, g.machine.Scenario().World.PlayerStart, g.player)
	assert.Nil(t, g.finished)
}

func TestOpenLedger(t *testing.T) {
	log := slog.New(slog.DiscardHandler)

	_, ok := openLedger(&config.Config{}, log).(*storage.MemoryLedger)
	assert.True(t, ok, "no URL keeps cases in memory")

	_, ok = openLedger(&config.Config{RedisURL: "not a url"}, log).(*storage.MemoryLedger)
	assert.True(t, ok)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	l := openLedger(&config.Config{RedisURL: "redis://" + mr.Addr()}, log)
	defer func() {
		_ = l.Close()
	}()
	_, ok = l.(*storage.RedisLedger)
	assert.True(t, ok)

	addr := mr.Addr()
	mr.Close()
	_, ok = openLedger(&config.Config{RedisURL: "redis://" + addr}, log).(*storage.MemoryLedger)
	assert.True(t, ok, "falls back when Redis does not answer")
}

func TestGame_Quit(t *testing.T) {
	g, _ := newTestGame(t)
	_, cmd := g.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
