package scene

import (
	"fmt"
	"log/slog"

	"github.com/jwebster45206/echo-engine/pkg/choice"
	"github.com/jwebster45206/echo-engine/pkg/interaction"
	"github.com/jwebster45206/echo-engine/pkg/quest"
	"github.com/jwebster45206/echo-engine/pkg/scenario"
	"github.com/jwebster45206/echo-engine/pkg/state"
)

// State is the outer scene of the game.
type State int

const (
	Title State = iota
	Prologue
	Playing
	GameOver
	GameComplete
)

func (s State) String() string {
	switch s {
	case Title:
		return "title"
	case Prologue:
		return "prologue"
	case Playing:
		return "playing"
	case GameOver:
		return "game_over"
	case GameComplete:
		return "game_complete"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether s is GameOver or GameComplete.
func (s State) Terminal() bool {
	return s == GameOver || s == GameComplete
}

// Input is a discrete player action for one frame.
type Input int

const (
	InputConfirm Input = iota
	InputInteract
	InputDismiss
	InputToggleInventory
	InputToggleQuestLog
	InputUp
	InputDown
	InputLeft
	InputRight
	InputReset
)

func (i Input) String() string {
	switch i {
	case InputConfirm:
		return "confirm"
	case InputInteract:
		return "interact"
	case InputDismiss:
		return "dismiss"
	case InputToggleInventory:
		return "toggle_inventory"
	case InputToggleQuestLog:
		return "toggle_quest_log"
	case InputUp:
		return "up"
	case InputDown:
		return "down"
	case InputLeft:
		return "left"
	case InputRight:
		return "right"
	case InputReset:
		return "reset"
	default:
		return fmt.Sprintf("Input(%d)", int(i))
	}
}

// Frame is everything the renderer hands the core for one update.
type Frame struct {
	Inputs []Input
	// Overlaps is the renderer's collision predicate between the player
	// and an entity. Only consulted for InputInteract, at the point the
	// input is handled.
	Overlaps func(interaction.Interactable) bool
	// Move steps the player by one cell. It is called for direction
	// inputs only while movement is allowed.
	Move func(dx, dy int)
}

// Options configure a Machine.
type Options struct {
	ToastTicks int
	// OnEnding is called once when a playthrough reaches a terminal state.
	OnEnding func(*state.Session)
	// OnReset is called after Reset starts a new playthrough.
	OnReset func()
}

// Machine is the scene state machine. It owns the current session and
// gates which resolvers run.
type Machine struct {
	scenario     *scenario.Scenario
	entities     []interaction.Interactable
	interactions *interaction.Resolver
	choices      *choice.Resolver
	logger       *slog.Logger
	opts         Options

	state         State
	prologueIndex int
	session       *state.Session
	showInventory bool
	showQuestLog  bool
}

// New builds a machine on the Title screen with a fresh session.
func New(sc *scenario.Scenario, logger *slog.Logger, opts Options) (*Machine, error) {
	if sc == nil {
		return nil, fmt.Errorf("scenario cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	entities, err := interaction.Build(sc)
	if err != nil {
		return nil, fmt.Errorf("failed to build entities: %w", err)
	}

	m := &Machine{
		scenario:     sc,
		entities:     entities,
		interactions: interaction.NewResolver(logger),
		choices:      choice.NewResolver(logger),
		logger:       logger,
		opts:         opts,
		state:        Title,
	}
	if err := m.newSession(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Machine) newSession() error {
	s, err := state.NewSession(m.scenario, m.logger)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	m.session = s.WithToastTicks(m.opts.ToastTicks)
	m.showInventory = false
	m.showQuestLog = false
	return nil
}

// State returns the current scene.
func (m *Machine) State() State { return m.state }

// Session returns the current playthrough. Renderers must treat it as
// read-only.
func (m *Machine) Session() *state.Session { return m.session }

// Scenario returns the loaded scenario.
func (m *Machine) Scenario() *scenario.Scenario { return m.scenario }

// Entities returns the world entities in declaration order.
func (m *Machine) Entities() []interaction.Interactable { return m.entities }

// PrologueIndex returns the prologue page being shown.
func (m *Machine) PrologueIndex() int { return m.prologueIndex }

// InventoryOpen reports whether the inventory overlay is shown.
func (m *Machine) InventoryOpen() bool { return m.showInventory }

// QuestLogOpen reports whether the quest log overlay is shown.
func (m *Machine) QuestLogOpen() bool { return m.showQuestLog }

// MovementBlocked reports whether the player may not move this frame.
func (m *Machine) MovementBlocked() bool {
	return m.state != Playing || m.session.Modal()
}

// Update processes one frame: inputs in order, then the tick.
func (m *Machine) Update(f Frame) {
	for _, in := range f.Inputs {
		m.handle(in, f)
	}
	m.Tick()
}

// Tick advances time-based state by one frame.
func (m *Machine) Tick() {
	m.session.Tick()
}

// Handle applies a single input outside a frame. Direction inputs only
// move the choice cursor.
func (m *Machine) Handle(in Input, overlaps func(interaction.Interactable) bool) {
	m.handle(in, Frame{Overlaps: overlaps})
}

func (m *Machine) handle(in Input, f Frame) {
	switch m.state {
	case Title:
		if in == InputConfirm {
			m.transition(Prologue)
			m.prologueIndex = 0
			if len(m.scenario.Prologue) == 0 {
				m.transition(Playing)
			}
		}
	case Prologue:
		if in == InputConfirm {
			m.prologueIndex++
			if m.prologueIndex >= len(m.scenario.Prologue) {
				m.prologueIndex = 0
				m.transition(Playing)
			}
		}
	case Playing:
		m.handlePlaying(in, f)
	case GameOver, GameComplete:
		if in == InputReset {
			m.Reset()
		}
	}
}

func (m *Machine) handlePlaying(in Input, f Frame) {
	s := m.session
	switch in {
	case InputToggleInventory:
		m.showInventory = !m.showInventory
	case InputToggleQuestLog:
		m.showQuestLog = !m.showQuestLog
	case InputDismiss:
		s.Dismiss()
	case InputUp:
		if s.Prompt != nil {
			s.Prompt.MoveUp()
		} else {
			m.move(f, 0, -1)
		}
	case InputDown:
		if s.Prompt != nil {
			s.Prompt.MoveDown()
		} else {
			m.move(f, 0, 1)
		}
	case InputLeft:
		m.move(f, -1, 0)
	case InputRight:
		m.move(f, 1, 0)
	case InputConfirm:
		if s.Prompt != nil {
			m.choices.ChooseSelected(s)
		} else {
			s.AdvanceDialogue()
		}
	case InputInteract:
		if s.Modal() || m.showInventory {
			return
		}
		target, ok := interaction.FirstOverlapping(m.entities, f.Overlaps)
		if !ok {
			return
		}
		m.interactions.Interact(s, target)
	}
	m.checkEnding()
}

func (m *Machine) move(f Frame, dx, dy int) {
	if f.Move == nil || m.MovementBlocked() {
		return
	}
	f.Move(dx, dy)
}

// Interact resolves an interaction with a specific entity, as if the
// player were touching it and pressed the interact key.
func (m *Machine) Interact(name string) {
	m.Handle(InputInteract, func(e interaction.Interactable) bool {
		return e.Name() == name
	})
}

// Choose resolves the pending prompt with the option at index.
func (m *Machine) Choose(index int) {
	if m.state != Playing {
		return
	}
	m.choices.Choose(m.session, index)
	m.checkEnding()
}

func (m *Machine) checkEnding() {
	switch m.session.Ending {
	case state.EndingGameOver:
		m.transition(GameOver)
	case state.EndingGameComplete:
		m.transition(GameComplete)
	default:
		return
	}
	m.showInventory = false
	m.showQuestLog = false
	if m.opts.OnEnding != nil {
		m.opts.OnEnding(m.session)
	}
}

// Reset starts a new playthrough on the Playing scene.
func (m *Machine) Reset() {
	if err := m.newSession(); err != nil {
		m.logger.Error("Failed to reset session", "error", err)
		return
	}
	m.prologueIndex = 0
	m.transition(Playing)
	if m.opts.OnReset != nil {
		m.opts.OnReset()
	}
}

func (m *Machine) transition(to State) {
	if m.state == to {
		return
	}
	m.logger.Debug("Scene transition", "from", m.state.String(), "to", to.String())
	m.state = to
}

// QuestEntry is a quest log line for renderers.
type QuestEntry struct {
	Title      string
	Status     quest.Status
	Objectives []quest.Objective
}

// View is a read-only snapshot of what a renderer needs for one frame.
type View struct {
	State         State
	PrologueText  string
	PrologueIndex int
	PrologueCount int

	DialogueLine  string
	DialogueIndex int
	DialogueCount int
	Speaker       string

	Prompt *state.ChoicePrompt

	InventoryOpen bool
	Inventory     []string
	QuestLogOpen  bool
	Quests        []QuestEntry

	Toast         string
	EndingMessage string
}

// View captures the renderer-facing state.
func (m *Machine) View() View {
	s := m.session
	v := View{
		State:         m.state,
		PrologueIndex: m.prologueIndex,
		PrologueCount: len(m.scenario.Prologue),
		Speaker:       s.Speaker,
		InventoryOpen: m.showInventory,
		Inventory:     s.InventoryLabels(),
		QuestLogOpen:  m.showQuestLog,
		EndingMessage: s.EndingMessage,
	}
	if m.state == Prologue && m.prologueIndex < len(m.scenario.Prologue) {
		v.PrologueText = m.scenario.Prologue[m.prologueIndex]
	}
	if s.Dialogue != nil {
		v.DialogueLine = s.Dialogue.Current()
		v.DialogueIndex = s.Dialogue.Index
		v.DialogueCount = len(s.Dialogue.Lines)
	}
	if s.Prompt != nil {
		p := *s.Prompt
		p.Options = append([]string(nil), s.Prompt.Options...)
		v.Prompt = &p
	}
	if s.Toast != nil {
		v.Toast = s.Toast.Text
	}
	for _, q := range append(s.Quests.Active(), s.Quests.Completed()...) {
		entry := QuestEntry{Title: q.Title, Status: q.Status}
		for _, o := range q.Objectives {
			entry.Objectives = append(entry.Objectives, *o)
		}
		v.Quests = append(v.Quests, entry)
	}
	return v
}
