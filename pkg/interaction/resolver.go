package interaction

import (
	"log/slog"

	"github.com/jwebster45206/echo-engine/pkg/quest"
	"github.com/jwebster45206/echo-engine/pkg/state"
)

// Resolver applies interactions to a session.
type Resolver struct {
	logger *slog.Logger
}

// NewResolver creates a resolver. A nil logger discards output.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{logger: logger}
}

// FirstOverlapping returns the first interactable entity, in declaration
// order, for which overlaps reports true.
func FirstOverlapping(entities []Interactable, overlaps func(Interactable) bool) (Interactable, bool) {
	if overlaps == nil {
		return nil, false
	}
	for _, e := range entities {
		if e.IsInteractable() && overlaps(e) {
			return e, true
		}
	}
	return nil, false
}

// Interact resolves the player's interaction with e and reports whether
// anything was shown. It is a no-op in a terminal state, while a choice
// prompt is pending, or for non-interactable entities.
//
// The only side effects are flag store and quest mutations and the
// session's dialogue, speaker, prompt and toast fields.
func (r *Resolver) Interact(s *state.Session, e Interactable) bool {
	if s == nil || e == nil {
		return false
	}
	if s.Terminal() {
		r.logger.Debug("Interaction ignored, game has ended", "entity", e.Name())
		return false
	}
	if s.Prompt != nil {
		r.logger.Debug("Interaction ignored, choice pending", "entity", e.Name(), "context", s.Prompt.Context)
		return false
	}
	if !e.IsInteractable() {
		return false
	}

	before := s.Quests.Active()
	out := e.OnInteract(s)
	r.logger.Debug("Interaction resolved",
		"entity", e.Name(),
		"kind", string(e.Kind()),
		"prompt", out.Prompt,
		"events", out.Events)

	if out.Prompt != "" {
		p, _ := s.Scenario.Prompt(out.Prompt)
		s.OpenPrompt(out.Prompt, p)
	} else {
		s.Say(out.Speaker, out.Lines...)
	}

	r.toastStartedQuests(s, before)
	s.Progress(out.Events...)
	return true
}

// toastStartedQuests announces quests an entity started directly.
func (r *Resolver) toastStartedQuests(s *state.Session, before []*quest.Quest) {
	known := make(map[string]bool, len(before))
	for _, q := range before {
		known[q.ID] = true
	}
	for _, q := range s.Quests.Active() {
		if !known[q.ID] {
			s.AnnounceStarted(q)
		}
	}
}
