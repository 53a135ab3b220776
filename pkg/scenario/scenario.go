package scenario

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/jwebster45206/echo-engine/pkg/quest"
	"gopkg.in/yaml.v3"
)

// ErrInvalidScenario wraps every validation failure returned by Parse.
var ErrInvalidScenario = errors.New("invalid scenario")

//go:embed data/echo_of_lies.yaml
var defaultScenario []byte

// Kind is the closed set of entity kinds the engine knows how to resolve.
type Kind string

const (
	KindQuestGiver    Kind = "quest_giver"
	KindWitness       Kind = "witness"
	KindReportTrigger Kind = "report_trigger"
	KindEvidenceBench Kind = "evidence_bench"
	KindConfrontation Kind = "confrontation"
	KindScenery       Kind = "scenery"
)

// Kinds lists every valid Kind.
var Kinds = []Kind{KindQuestGiver, KindWitness, KindReportTrigger, KindEvidenceBench, KindConfrontation, KindScenery}

// Choice prompt contexts handled by the engine.
const (
	ContextReport   = "report"
	ContextDecode   = "decode"
	ContextConfront = "confront"
)

// Point is a position in world units.
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Size is an extent in world units.
type Size struct {
	W int `yaml:"w" json:"w"`
	H int `yaml:"h" json:"h"`
}

// World describes the map the renderer draws. The engine itself only
// needs it for the collision predicate supplied by the renderer.
type World struct {
	Width       int   `yaml:"width"`
	Height      int   `yaml:"height"`
	PlayerStart Point `yaml:"player_start"`
	PlayerSize  Size  `yaml:"player_size"`
}

// Entity is the static definition of an object in the world.
type Entity struct {
	Name         string              `yaml:"name"`
	Kind         Kind                `yaml:"kind"`
	Label        string              `yaml:"label,omitempty"` // display name
	Glyph        string              `yaml:"glyph,omitempty"` // single character for text renderers
	Position     Point               `yaml:"position"`
	Size         Size                `yaml:"size"`
	Interactable bool                `yaml:"interactable"`
	Collidable   bool                `yaml:"collidable"`
	Dialogue     map[string][]string `yaml:"dialogue,omitempty"` // phase -> lines

	QuestToGive string `yaml:"quest_to_give,omitempty"`
	// QuestToComplete is handed in here once its objectives are done.
	// Quest givers default to their own quest.
	QuestToComplete string `yaml:"quest_to_complete,omitempty"`

	// Prompt is the choice context opened by trigger kinds.
	Prompt string `yaml:"prompt,omitempty"`

	// YieldsItem is granted once, after the report is filed.
	YieldsItem string `yaml:"yields_item,omitempty"`
	// YieldFlag guards the one-time grant. Defaults to "<name>_yielded".
	YieldFlag string `yaml:"yield_flag,omitempty"`
	// HintWhenHolding selects the "hint" phase while the item is held
	// and the evidence has not been analysed.
	HintWhenHolding string `yaml:"hint_when_holding,omitempty"`
}

// DisplayName returns Label, or Name when no label is set.
func (e Entity) DisplayName() string {
	if e.Label != "" {
		return e.Label
	}
	return e.Name
}

// Branch is the result text of one side of a choice.
type Branch struct {
	Line   string `yaml:"line"`
	Ending string `yaml:"ending,omitempty"` // message shown on a terminal screen
}

// Prompt is a choice presented to the player. Exactly one option is
// correct; CorrectIndex is declared by data rather than inferred.
type Prompt struct {
	Question     string   `yaml:"question"`
	Options      []string `yaml:"options"`
	CorrectIndex int      `yaml:"correct_index"`
	Accept       Branch   `yaml:"accept"`
	Reject       Branch   `yaml:"reject"`

	Consumes string `yaml:"consumes,omitempty"` // item that must be held to open the prompt
	Produces string `yaml:"produces,omitempty"` // item that replaces Consumes on accept
	Requires string `yaml:"requires,omitempty"` // item that must be held, not consumed
}

// Lines are engine-level lines not owned by any entity.
type Lines struct {
	NothingToDo    string `yaml:"nothing_to_do"`
	AllInterviewed string `yaml:"all_interviewed"`
	QuestStarted   string `yaml:"quest_started"`   // toast, %s is the quest title
	QuestCompleted string `yaml:"quest_completed"` // toast, %s is the quest title
	GameOver       string `yaml:"game_over"`
	GameComplete   string `yaml:"game_complete"`
}

// ObjectiveSpec declares an objective and the event that completes it.
type ObjectiveSpec struct {
	Key         string `yaml:"key"`
	Description string `yaml:"description"`
	On          string `yaml:"on,omitempty"`
}

// QuestSpec declares a quest. StartsOn starts it on a progress event;
// otherwise an entity must give it.
type QuestSpec struct {
	ID          string          `yaml:"id"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	StartsOn    string          `yaml:"starts_on,omitempty"`
	Objectives  []ObjectiveSpec `yaml:"objectives"`
}

// Scenario is one chapter of the game: prologue, world, quests,
// entities and prompts. It is loaded once and never mutated.
type Scenario struct {
	Name     string            `yaml:"name"`
	Story    string            `yaml:"story"`
	Prologue []string          `yaml:"prologue"`
	World    World             `yaml:"world"`
	Quests   []QuestSpec       `yaml:"quests"`
	Entities []Entity          `yaml:"entities"` // iteration order resolves overlaps
	Prompts  map[string]Prompt `yaml:"prompts"`
	Lines    Lines             `yaml:"lines"`
}

// Default returns the built-in "Echo of Lies" scenario.
func Default() (*Scenario, error) {
	return Parse(defaultScenario)
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML, applies defaults and validates the result.
// Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scenario: %w", err)
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) applyDefaults() {
	if s.Lines.NothingToDo == "" {
		s.Lines.NothingToDo = "Nothing to do here right now."
	}
	if s.Lines.QuestStarted == "" {
		s.Lines.QuestStarted = "Quest started: %s"
	}
	if s.Lines.QuestCompleted == "" {
		s.Lines.QuestCompleted = "Quest completed: %s"
	}
	if s.Lines.GameOver == "" {
		s.Lines.GameOver = "Game Over."
	}
	if s.Lines.GameComplete == "" {
		s.Lines.GameComplete = "Game Complete."
	}
	if s.World.PlayerSize.W == 0 || s.World.PlayerSize.H == 0 {
		s.World.PlayerSize = Size{W: 40, H: 40}
	}
	for i := range s.Entities {
		e := &s.Entities[i]
		if e.Kind == "" {
			e.Kind = KindScenery
		}
		if e.Kind == KindQuestGiver && e.QuestToComplete == "" {
			e.QuestToComplete = e.QuestToGive
		}
		if e.YieldsItem != "" && e.YieldFlag == "" {
			e.YieldFlag = e.Name + "_yielded"
		}
	}
}

// Entity looks up an entity definition by name.
func (s *Scenario) Entity(name string) (Entity, bool) {
	for _, e := range s.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return Entity{}, false
}

// Prompt looks up a choice prompt by context.
func (s *Scenario) Prompt(context string) (Prompt, bool) {
	p, ok := s.Prompts[context]
	return p, ok
}

// Witnesses returns the names of witness entities in declaration order.
// Talking to all of them unlocks the report.
func (s *Scenario) Witnesses() []string {
	var names []string
	for _, e := range s.Entities {
		if e.Kind == KindWitness && e.Interactable {
			names = append(names, e.Name)
		}
	}
	return names
}

// RegisterQuests adds a fresh copy of every declared quest to r in
// declaration order.
func (s *Scenario) RegisterQuests(r *quest.Registry) error {
	for _, qs := range s.Quests {
		objectives := make([]quest.Objective, 0, len(qs.Objectives))
		for _, o := range qs.Objectives {
			objectives = append(objectives, quest.Objective{
				Key:         o.Key,
				Description: o.Description,
				Trigger:     o.On,
			})
		}
		q := quest.New(qs.ID, qs.Title, qs.Description, objectives...)
		q.StartTrigger = qs.StartsOn
		if err := r.Register(q); err != nil {
			return fmt.Errorf("failed to register quest: %w", err)
		}
	}
	return nil
}
