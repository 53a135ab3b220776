package interaction

import (
	"fmt"

	"github.com/jwebster45206/echo-engine/pkg/dialogue"
	"github.com/jwebster45206/echo-engine/pkg/flags"
	"github.com/jwebster45206/echo-engine/pkg/quest"
	"github.com/jwebster45206/echo-engine/pkg/scenario"
	"github.com/jwebster45206/echo-engine/pkg/state"
)

// Progress events emitted by entities and choices. Quests bind their
// objectives to these names in scenario data.
const (
	EventWitnessesInterviewed = "witnesses_interviewed"
	EventEvidenceObtained     = "evidence_obtained"
)

// Phase tags used by the built-in kinds.
var (
	phaseYield     = dialogue.Custom("yield")
	phaseHint      = dialogue.Custom("hint")
	phaseBlocked   = dialogue.Custom("blocked")
	phaseDestroyed = dialogue.Custom("destroyed")
)

// Outcome is what an interaction asks the resolver to show.
type Outcome struct {
	Lines   []string
	Speaker string   // set for NPC lines so a renderer can draw a portrait
	Prompt  string   // choice context to open instead of plain dialogue
	Events  []string // progress events for the quest registry
}

// Interactable is the capability every world entity exposes to the
// resolver. OnInteract may mutate the session's flag store and nothing
// else.
type Interactable interface {
	Name() string
	Kind() scenario.Kind
	Definition() scenario.Entity
	IsInteractable() bool
	OnInteract(s *state.Session) Outcome
}

// Build creates one Interactable per scenario entity, in declaration order.
func Build(sc *scenario.Scenario) ([]Interactable, error) {
	out := make([]Interactable, 0, len(sc.Entities))
	for _, def := range sc.Entities {
		e, err := NewEntity(def)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// NewEntity dispatches on the entity kind.
func NewEntity(def scenario.Entity) (Interactable, error) {
	b := base{def: def, table: dialogue.NewTable(def.Dialogue)}
	switch def.Kind {
	case scenario.KindQuestGiver:
		return &questGiver{b}, nil
	case scenario.KindWitness:
		return &witness{b}, nil
	case scenario.KindReportTrigger:
		return &reportTrigger{b}, nil
	case scenario.KindEvidenceBench:
		return &evidenceBench{b}, nil
	case scenario.KindConfrontation:
		return &confrontation{b}, nil
	case scenario.KindScenery, "":
		return &scenery{b}, nil
	default:
		return nil, fmt.Errorf("entity %q has unknown kind %q", def.Name, def.Kind)
	}
}

type base struct {
	def   scenario.Entity
	table dialogue.Table
}

func (b base) Name() string                { return b.def.Name }
func (b base) Kind() scenario.Kind         { return b.def.Kind }
func (b base) Definition() scenario.Entity { return b.def }
func (b base) IsInteractable() bool        { return b.def.Interactable }

// say picks lines for phase, falling back to the scenario's
// nothing-to-do line.
func (b base) say(s *state.Session, phase dialogue.Phase) []string {
	return b.table.LinesOr(phase, s.Scenario.Lines.NothingToDo)
}

// nothing is the fallback for phases that must not reach Default.
func (b base) nothing(s *state.Session) Outcome {
	return Outcome{Lines: []string{s.Scenario.Lines.NothingToDo}}
}

// openPrompt opens the entity's prompt, or falls back to the
// nothing-to-do line if the scenario lacks it.
func (b base) openPrompt(s *state.Session) Outcome {
	if _, ok := s.Scenario.Prompt(b.def.Prompt); !ok {
		return b.nothing(s)
	}
	return Outcome{Prompt: b.def.Prompt}
}

// turnIn tries to complete the entity's quest_to_complete and reports
// whether that quest is completed.
func (b base) turnIn(s *state.Session) bool {
	id := b.def.QuestToComplete
	if id == "" {
		return false
	}
	if s.Quests.TryCompleteQuest(id) {
		if q, ok := s.Quests.Get(id); ok {
			s.AnnounceCompleted(q)
		}
	}
	return s.Quests.Status(id) == quest.Completed
}

type questGiver struct{ base }

func (q *questGiver) OnInteract(s *state.Session) Outcome {
	id := q.def.QuestToGive
	if s.Quests.Status(id) == quest.NotStarted {
		if !s.Quests.StartQuest(id) {
			return q.nothing(s)
		}
		s.Flags.Set(flags.QuestStarted, true)
		return Outcome{Lines: q.say(s, dialogue.Initial)}
	}
	if q.turnIn(s) {
		return Outcome{Lines: q.say(s, dialogue.Completion)}
	}
	return Outcome{Lines: q.say(s, dialogue.During)}
}

type witness struct{ base }

func (w *witness) OnInteract(s *state.Session) Outcome {
	f := s.Flags
	if !f.Get(flags.QuestStarted) {
		return w.nothing(s)
	}
	out := Outcome{Speaker: w.def.Name}

	if !f.Get(flags.Reported) {
		f.MarkInteracted(w.def.Name)
		out.Lines = append(out.Lines, w.say(s, dialogue.Initial)...)
		if s.AllWitnessesInterviewed() {
			if s.Scenario.Lines.AllInterviewed != "" {
				out.Lines = append(out.Lines, s.Scenario.Lines.AllInterviewed)
			}
			out.Events = append(out.Events, EventWitnessesInterviewed)
		}
		return out
	}

	switch {
	case w.def.YieldsItem != "" && !f.Get(flags.Flag(w.def.YieldFlag)) && !f.Get(flags.EvidenceDestroyed):
		f.Set(flags.Flag(w.def.YieldFlag), true)
		f.AddToInventory(w.def.YieldsItem)
		out.Lines = w.say(s, phaseYield)
		out.Events = append(out.Events, EventEvidenceObtained)
	case w.def.HintWhenHolding != "" && f.Has(w.def.HintWhenHolding) && !f.Get(flags.Decoded):
		out.Lines = w.say(s, phaseHint)
	default:
		out.Lines = w.say(s, dialogue.Default)
	}
	return out
}

type reportTrigger struct{ base }

func (r *reportTrigger) OnInteract(s *state.Session) Outcome {
	f := s.Flags
	if f.Get(flags.QuestStarted) && s.AllWitnessesInterviewed() && !f.Get(flags.Reported) {
		return r.openPrompt(s)
	}
	if !f.Get(flags.Reported) {
		return Outcome{Lines: r.say(s, phaseBlocked)}
	}
	return Outcome{Lines: r.say(s, dialogue.Default)}
}

type evidenceBench struct{ base }

func (e *evidenceBench) OnInteract(s *state.Session) Outcome {
	f := s.Flags
	p, ok := s.Scenario.Prompt(e.def.Prompt)
	if ok && p.Consumes != "" && f.Has(p.Consumes) && !f.Get(flags.Decoded) {
		return e.openPrompt(s)
	}
	if f.Get(flags.EvidenceDestroyed) {
		return Outcome{Lines: e.say(s, phaseDestroyed)}
	}
	return Outcome{Lines: e.say(s, dialogue.Default)}
}

type confrontation struct{ base }

func (c *confrontation) OnInteract(s *state.Session) Outcome {
	f := s.Flags
	p, ok := s.Scenario.Prompt(c.def.Prompt)
	held := ok && (p.Requires == "" || f.Has(p.Requires))
	if held && !f.Get(flags.Confronted) {
		return c.openPrompt(s)
	}
	if !held {
		return Outcome{Lines: c.say(s, phaseBlocked)}
	}
	return Outcome{Lines: c.say(s, dialogue.Default)}
}

type scenery struct{ base }

func (*scenery) OnInteract(*state.Session) Outcome { return Outcome{} }
