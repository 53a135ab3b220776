package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/echo-engine/internal/config"
	"github.com/jwebster45206/echo-engine/internal/logger"
	"github.com/jwebster45206/echo-engine/internal/storage"
	"github.com/jwebster45206/echo-engine/pkg/interaction"
	"github.com/jwebster45206/echo-engine/pkg/quest"
	"github.com/jwebster45206/echo-engine/pkg/scenario"
	"github.com/jwebster45206/echo-engine/pkg/scene"
	"github.com/jwebster45206/echo-engine/pkg/state"
	"github.com/muesli/reflow/wordwrap"
)

const (
	dialogueHeight = 7
	sidePanelWidth = 34
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	toastStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")). // yellow
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	mapStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

type tickMsg time.Time

// game is the bubbletea model. It owns the player position and the
// screen; every rule lives in the scene machine.
type game struct {
	cfg     *config.Config
	machine *scene.Machine
	world   *world
	ledger  storage.Ledger
	logger  *slog.Logger
	keys    keyMap
	help    help.Model

	player   scenario.Point
	pending  []scene.Input
	finished *state.Session

	casesClosed int64
	recent      []storage.CaseRecord
	ledgerErr   error
	width       int
	height      int
}

func newGame(cfg *config.Config, sc *scenario.Scenario, ledger storage.Ledger, log *slog.Logger) (*game, error) {
	g := &game{
		cfg:    cfg,
		world:  newWorld(sc),
		ledger: ledger,
		logger: log,
		keys:   defaultKeyMap(),
		help:   help.New(),
		player: sc.World.PlayerStart,
	}

	m, err := scene.New(sc, log, scene.Options{
		ToastTicks: cfg.ToastTicks,
		OnEnding:   func(s *state.Session) { g.finished = s },
		OnReset:    func() { g.player = sc.World.PlayerStart },
	})
	if err != nil {
		return nil, err
	}
	g.machine = m
	return g, nil
}

func (g *game) Init() tea.Cmd {
	return tea.Batch(g.tick(), summarizeCases(g.ledger))
}

func (g *game) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(g.cfg.TickRate), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (g *game) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		g.width = msg.Width
		g.height = msg.Height
		g.help.Width = msg.Width

	case tea.KeyMsg:
		return g, g.handleKey(msg)

	case tickMsg:
		return g, g.step()

	case caseSummaryMsg:
		if msg.err != nil {
			g.ledgerErr = msg.err
			logger.WithError(g.logger, msg.err).Warn("Failed to load closed cases")
			return g, nil
		}
		g.ledgerErr = nil
		g.casesClosed = msg.count
		g.recent = msg.recent

	case caseRecordedMsg:
		log := logger.WithSessionID(g.logger, msg.id.String())
		if msg.err != nil {
			g.ledgerErr = msg.err
			logger.WithError(log, msg.err).Warn("Failed to record case")
			return g, nil
		}
		log.Info("Case recorded")
		return g, summarizeCases(g.ledger)

	case clipboardMsg:
		if msg.err != nil {
			g.machine.Session().ShowToast("Clipboard unavailable")
			logger.WithError(g.logger, msg.err).Debug("Clipboard write failed")
		} else {
			g.machine.Session().ShowToast("Copied to clipboard")
		}
	}

	return g, nil
}

// step runs one frame of the scene machine with the inputs collected
// since the last tick. Overlaps reads the player position at the time
// each input is handled, so moves and interactions resolve in the order
// they were pressed.
func (g *game) step() tea.Cmd {
	g.machine.Update(scene.Frame{
		Inputs: g.pending,
		Overlaps: func(e interaction.Interactable) bool {
			return g.world.overlaps(g.player)(e)
		},
		Move: g.walk,
	})
	g.pending = nil

	cmds := []tea.Cmd{g.tick()}
	if g.finished != nil {
		cmds = append(cmds, recordCase(g.ledger, g.finished))
		g.finished = nil
	}
	return tea.Batch(cmds...)
}

func (g *game) queue(in scene.Input) {
	g.pending = append(g.pending, in)
}

func (g *game) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, g.keys.Quit):
		return tea.Quit
	case key.Matches(msg, g.keys.Help):
		g.help.ShowAll = !g.help.ShowAll
		return nil
	}

	switch g.machine.State() {
	case scene.Title, scene.Prologue:
		if key.Matches(msg, g.keys.Confirm) {
			g.queue(scene.InputConfirm)
		}
	case scene.GameOver, scene.GameComplete:
		if key.Matches(msg, g.keys.Reset) {
			g.queue(scene.InputReset)
		}
	case scene.Playing:
		return g.handlePlayingKey(msg)
	}
	return nil
}

func (g *game) handlePlayingKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, g.keys.Up):
		g.queue(scene.InputUp)
	case key.Matches(msg, g.keys.Down):
		g.queue(scene.InputDown)
	case key.Matches(msg, g.keys.Left):
		g.queue(scene.InputLeft)
	case key.Matches(msg, g.keys.Right):
		g.queue(scene.InputRight)
	case key.Matches(msg, g.keys.Confirm):
		g.queue(scene.InputConfirm)
	case key.Matches(msg, g.keys.Interact):
		g.queue(scene.InputInteract)
	case key.Matches(msg, g.keys.Dismiss):
		g.queue(scene.InputDismiss)
	case key.Matches(msg, g.keys.Inventory):
		g.queue(scene.InputToggleInventory)
	case key.Matches(msg, g.keys.QuestLog):
		g.queue(scene.InputToggleQuestLog)
	case key.Matches(msg, g.keys.Copy):
		if text := g.machine.Session().Dialogue.Text(); text != "" {
			return copyToClipboard(text)
		}
	}
	return nil
}

func (g *game) walk(dx, dy int) {
	speed := g.cfg.PlayerSpeed
	g.player = g.world.move(g.player, dx*speed*cellW, dy*speed*cellH)
}

func (g *game) View() string {
	if g.width == 0 || g.height == 0 {
		return "\n  Initializing..."
	}

	v := g.machine.View()
	switch v.State {
	case scene.Title:
		return g.renderTitle()
	case scene.Prologue:
		return g.renderPrologue(v)
	case scene.GameOver, scene.GameComplete:
		return g.renderEnding(v)
	default:
		return g.renderPlaying(v)
	}
}

func (g *game) textWidth() int {
	return max(20, min(g.width-12, 70))
}

func (g *game) centered(body string) string {
	modal := modalStyle.Width(g.textWidth() + 6).Render(body)
	return lipgloss.Place(g.width, g.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (g *game) renderTitle() string {
	sc := g.machine.Scenario()
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render(strings.ToUpper(sc.Name)))
	b.WriteString("\n\n")
	if sc.Story != "" {
		b.WriteString(wordwrap.String(sc.Story, g.textWidth()))
		b.WriteString("\n\n")
	}
	if g.ledgerErr != nil {
		b.WriteString(errorStyle.Render("Case ledger unavailable"))
	} else {
		b.WriteString(fmt.Sprintf("Cases closed: %d", g.casesClosed))
		for _, rec := range g.recent {
			outcome := "Unsolved"
			if rec.Solved() {
				outcome = "Solved"
			}
			b.WriteString(fmt.Sprintf("\n  %s  %-8s %s", rec.FinishedAt.Format("2006-01-02 15:04"), outcome, rec.Message))
		}
	}
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render("Press Enter to begin, Esc to quit"))
	return g.centered(b.String())
}

func (g *game) renderPrologue(v scene.View) string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("PROLOGUE"))
	b.WriteString("\n\n")
	b.WriteString(wordwrap.String(v.PrologueText, g.textWidth()))
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render(fmt.Sprintf("%d/%d  Press Enter to continue", v.PrologueIndex+1, v.PrologueCount)))
	return g.centered(b.String())
}

func (g *game) renderEnding(v scene.View) string {
	heading := "GAME OVER"
	style := errorStyle
	if v.State == scene.GameComplete {
		heading = "CASE CLOSED"
		style = successStyle
	}

	var b strings.Builder
	b.WriteString(modalTitleStyle.Render(heading))
	b.WriteString("\n\n")
	b.WriteString(style.Render(wordwrap.String(v.EndingMessage, g.textWidth())))
	if v.DialogueLine != "" {
		b.WriteString("\n\n")
		b.WriteString(wordwrap.String(v.DialogueLine, g.textWidth()))
	}
	b.WriteString("\n\n")
	b.WriteString(promptStyle.Render("Press R to play again, Esc to quit"))
	return g.centered(b.String())
}

func (g *game) renderPlaying(v scene.View) string {
	side := g.renderSidePanel(v)
	mapWidth := g.width - 2
	if side != "" {
		mapWidth -= lipgloss.Width(side)
	}
	mapHeight := g.height - dialogueHeight - 4

	top := mapStyle.Render(g.renderMap(max(mapWidth, 10), max(mapHeight, 5)))
	if side != "" {
		top = lipgloss.JoinHorizontal(lipgloss.Top, top, side)
	}

	toast := ""
	if v.Toast != "" {
		toast = toastStyle.Render(v.Toast)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		top,
		toast,
		g.renderDialogue(v),
		g.help.View(g.keys),
	)
}

func (g *game) renderMap(cols, rows int) string {
	sc := g.machine.Scenario()
	worldCols := sc.World.Width / cellW
	worldRows := sc.World.Height / cellH

	size := sc.World.PlayerSize
	originX := camera((g.player.X+size.W/2)/cellW, cols, worldCols)
	originY := camera((g.player.Y+size.H/2)/cellH, rows, worldRows)

	grid := make([][]rune, rows)
	for y := range grid {
		grid[y] = []rune(strings.Repeat(" ", cols))
	}
	plot := func(r rect, glyph rune) {
		for cy := r.y / cellH; cy <= (r.y+r.h-1)/cellH; cy++ {
			for cx := r.x / cellW; cx <= (r.x+r.w-1)/cellW; cx++ {
				x, y := cx-originX, cy-originY
				if x >= 0 && x < cols && y >= 0 && y < rows {
					grid[y][x] = glyph
				}
			}
		}
	}

	for _, e := range g.machine.Entities() {
		def := e.Definition()
		glyph := '#'
		if def.Glyph != "" {
			glyph = []rune(def.Glyph)[0]
		}
		plot(entityRect(def), glyph)
	}
	plot(g.world.playerRect(g.player), '@')

	lines := make([]string, rows)
	for y, row := range grid {
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}

func (g *game) renderDialogue(v scene.View) string {
	width := max(g.width-4, 20)
	var b strings.Builder

	switch {
	case v.Prompt != nil:
		b.WriteString(wordwrap.String(v.Prompt.Question, width-4))
		b.WriteString("\n")
		for i, opt := range v.Prompt.Options {
			b.WriteString("\n")
			if i == v.Prompt.Selected {
				b.WriteString(selectedItemStyle.Render("▶ " + opt))
			} else {
				b.WriteString("  " + opt)
			}
		}
	case v.DialogueLine != "":
		if v.Speaker != "" {
			name := v.Speaker
			if e, ok := g.machine.Scenario().Entity(v.Speaker); ok {
				name = e.DisplayName()
			}
			b.WriteString(speakerStyle.Render(name + ":"))
			b.WriteString("\n")
		}
		b.WriteString(wordwrap.String(v.DialogueLine, width-4))
		b.WriteString("\n\n")
		b.WriteString(promptStyle.Render(fmt.Sprintf("%d/%d  Enter to continue, Q to close", v.DialogueIndex+1, v.DialogueCount)))
	default:
		b.WriteString(promptStyle.Render("Walk up to someone and press E."))
	}

	return panelStyle.Width(width).Height(dialogueHeight - 2).Render(b.String())
}

func (g *game) renderSidePanel(v scene.View) string {
	var sections []string

	if v.InventoryOpen {
		var b strings.Builder
		b.WriteString(titleStyle.Render("INVENTORY"))
		b.WriteString("\n\n")
		if len(v.Inventory) == 0 {
			b.WriteString(promptStyle.Render("Empty"))
		}
		for _, item := range v.Inventory {
			b.WriteString("• " + item + "\n")
		}
		sections = append(sections, panelStyle.Width(sidePanelWidth).Render(b.String()))
	}

	if v.QuestLogOpen {
		var b strings.Builder
		b.WriteString(titleStyle.Render("QUESTS"))
		b.WriteString("\n\n")
		if len(v.Quests) == 0 {
			b.WriteString(promptStyle.Render("No active quests"))
		}
		for _, q := range v.Quests {
			title := q.Title
			if q.Status == quest.Completed {
				title = successStyle.Render(title + " ✓")
			}
			b.WriteString(title + "\n")
			for _, o := range q.Objectives {
				mark := "[ ]"
				if o.Completed {
					mark = "[x]"
				}
				b.WriteString(wordwrap.String(fmt.Sprintf(" %s %s", mark, o.Description), sidePanelWidth-2))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
		sections = append(sections, panelStyle.Width(sidePanelWidth).Render(b.String()))
	}

	if len(sections) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
