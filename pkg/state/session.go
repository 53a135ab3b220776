package state

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/echo-engine/pkg/dialogue"
	"github.com/jwebster45206/echo-engine/pkg/flags"
	"github.com/jwebster45206/echo-engine/pkg/quest"
	"github.com/jwebster45206/echo-engine/pkg/scenario"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultToastTicks is how long a toast stays up at 60 ticks per second.
const DefaultToastTicks = 180

// Ending is the terminal outcome of a playthrough, if any.
type Ending int

const (
	NoEnding Ending = iota
	EndingGameOver
	EndingGameComplete
)

func (e Ending) String() string {
	switch e {
	case EndingGameOver:
		return "game_over"
	case EndingGameComplete:
		return "game_complete"
	default:
		return "none"
	}
}

// ChoicePrompt is a pending choice. It exists only until resolved or
// dismissed.
type ChoicePrompt struct {
	Context  string   `json:"context"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Selected int      `json:"selected"`
}

// MoveUp moves the cursor up, wrapping to the last option.
func (p *ChoicePrompt) MoveUp() {
	if len(p.Options) == 0 {
		return
	}
	p.Selected = (p.Selected - 1 + len(p.Options)) % len(p.Options)
}

// MoveDown moves the cursor down, wrapping to the first option.
func (p *ChoicePrompt) MoveDown() {
	if len(p.Options) == 0 {
		return
	}
	p.Selected = (p.Selected + 1) % len(p.Options)
}

// Toast is a transient message that expires after a number of ticks.
type Toast struct {
	Text      string `json:"text"`
	Remaining int    `json:"remaining"`
}

// ChoiceRecord remembers a resolved choice for the case ledger.
type ChoiceRecord struct {
	Context string `json:"context"`
	Option  string `json:"option"`
	Correct bool   `json:"correct"`
}

// Session is the aggregate state of one playthrough. A new game builds a
// new Session; nothing is cleared in place.
type Session struct {
	ID        uuid.UUID          `json:"id"`
	Scenario  *scenario.Scenario `json:"-"`
	Flags     *flags.Store       `json:"-"`
	Quests    *quest.Registry    `json:"-"`
	Roster    []string           `json:"roster"` // witnesses required for the report
	StartedAt time.Time          `json:"started_at"`

	Dialogue *dialogue.Dialogue `json:"dialogue,omitempty"`
	Speaker  string             `json:"speaker,omitempty"` // entity speaking the dialogue
	Prompt   *ChoicePrompt      `json:"prompt,omitempty"`
	Toast    *Toast             `json:"toast,omitempty"`

	Ending        Ending         `json:"ending"`
	EndingMessage string         `json:"ending_message,omitempty"`
	Choices       []ChoiceRecord `json:"choices,omitempty"`

	toastTicks int
	logger     *slog.Logger
}

// NewSession builds a fresh playthrough for sc.
func NewSession(sc *scenario.Scenario, logger *slog.Logger) (*Session, error) {
	if sc == nil {
		return nil, fmt.Errorf("scenario cannot be nil")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	id := uuid.New()
	logger = logger.With("session_id", id.String())

	registry := quest.NewRegistry(logger)
	if err := sc.RegisterQuests(registry); err != nil {
		return nil, err
	}

	return &Session{
		ID:         id,
		Scenario:   sc,
		Flags:      flags.NewStore(),
		Quests:     registry,
		Roster:     sc.Witnesses(),
		StartedAt:  time.Now(),
		toastTicks: DefaultToastTicks,
		logger:     logger,
	}, nil
}

// WithToastTicks sets how long toasts last.
// Returns the Session for method chaining.
func (s *Session) WithToastTicks(ticks int) *Session {
	if ticks > 0 {
		s.toastTicks = ticks
	}
	return s
}

// Logger returns the session-scoped logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// Terminal reports whether the playthrough has ended.
func (s *Session) Terminal() bool {
	return s.Ending != NoEnding
}

// Say replaces the current dialogue, starting at its first line.
func (s *Session) Say(speaker string, lines ...string) {
	s.Speaker = speaker
	s.Dialogue = dialogue.New(lines...)
}

// Modal reports whether a dialogue or choice prompt is blocking play.
func (s *Session) Modal() bool {
	return s.Prompt != nil || !s.Dialogue.Done()
}

// OpenPrompt shows a choice prompt with its question as dialogue.
func (s *Session) OpenPrompt(context string, p scenario.Prompt) {
	s.Prompt = &ChoicePrompt{
		Context:  context,
		Question: p.Question,
		Options:  append([]string(nil), p.Options...),
	}
	s.Say("", p.Question)
}

// ClosePrompt drops the pending prompt and its context.
func (s *Session) ClosePrompt() {
	s.Prompt = nil
}

// Dismiss clears the dialogue and any pending prompt.
func (s *Session) Dismiss() {
	s.Dialogue = nil
	s.Speaker = ""
	s.Prompt = nil
}

// AdvanceDialogue moves to the next line, clearing the dialogue after
// the last one. Dialogue under an open prompt does not advance.
func (s *Session) AdvanceDialogue() {
	if s.Prompt != nil || s.Dialogue == nil {
		return
	}
	if !s.Dialogue.Advance() {
		s.Dialogue = nil
		s.Speaker = ""
	}
}

// End marks the playthrough as finished.
func (s *Session) End(e Ending, message string) {
	if e == NoEnding {
		return
	}
	s.Ending = e
	s.EndingMessage = message
	if e == EndingGameOver {
		s.Flags.Set(flags.GameOver, true)
	}
	s.logger.Info("Playthrough ended", "ending", e.String(), "message", message)
}

// Progress feeds progress events to the quest registry in order, then
// completes every quest whose objectives are done. Started and completed
// quests raise a toast.
func (s *Session) Progress(events ...string) []*quest.Quest {
	for _, ev := range events {
		before := s.Quests.Active()
		s.Quests.Handle(ev)
		for _, q := range s.Quests.Active() {
			if !containsQuest(before, q) {
				s.AnnounceStarted(q)
			}
		}
	}
	completed := s.Quests.TryCompleteAll()
	for _, q := range completed {
		s.AnnounceCompleted(q)
	}
	return completed
}

// AnnounceStarted raises the quest-started toast for q.
func (s *Session) AnnounceStarted(q *quest.Quest) {
	s.ShowToast(QuestLine(s.Scenario.Lines.QuestStarted, q.Title))
}

// AnnounceCompleted raises the quest-completed toast for q.
func (s *Session) AnnounceCompleted(q *quest.Quest) {
	s.ShowToast(QuestLine(s.Scenario.Lines.QuestCompleted, q.Title))
}

// QuestLine fills the first %s of a scenario line with title. A line
// without a placeholder is returned unchanged.
func QuestLine(line, title string) string {
	return strings.Replace(line, "%s", title, 1)
}

func containsQuest(qs []*quest.Quest, q *quest.Quest) bool {
	for _, c := range qs {
		if c.ID == q.ID {
			return true
		}
	}
	return false
}

// ShowToast replaces the current toast.
func (s *Session) ShowToast(text string) {
	s.Toast = &Toast{Text: text, Remaining: s.toastTicks}
}

// Tick expires the toast. It is the only time-based behaviour of a
// session.
func (s *Session) Tick() {
	if s.Toast == nil {
		return
	}
	s.Toast.Remaining--
	if s.Toast.Remaining <= 0 {
		s.Toast = nil
	}
}

// RecordChoice appends a resolved choice to the session history.
func (s *Session) RecordChoice(context string, index int, correct bool) {
	option := ""
	if s.Prompt != nil && index >= 0 && index < len(s.Prompt.Options) {
		option = s.Prompt.Options[index]
	}
	s.Choices = append(s.Choices, ChoiceRecord{Context: context, Option: option, Correct: correct})
}

// AllWitnessesInterviewed reports whether every roster witness has been
// interacted with.
func (s *Session) AllWitnessesInterviewed() bool {
	return s.Flags.InteractedWithAll(s.Roster)
}

// InventoryLabels returns display names for the inventory in order.
func (s *Session) InventoryLabels() []string {
	items := s.Flags.Inventory()
	labels := make([]string, 0, len(items))
	for _, item := range items {
		labels = append(labels, ItemLabel(item))
	}
	return labels
}

// ItemLabel turns an item identifier into a display name,
// e.g. "fake_poster" -> "Fake Poster".
func ItemLabel(item string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(item, "_", " "))
}
