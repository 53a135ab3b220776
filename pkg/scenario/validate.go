package scenario

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

// IsValidID reports whether id is lowercase snake_case.
func IsValidID(id string) bool {
	return validIDRegex.MatchString(id)
}

type validator struct {
	errors []string
}

func (v *validator) addError(format string, args ...any) {
	v.errors = append(v.errors, "  - "+fmt.Sprintf(format, args...))
}

func (v *validator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}
	if !IsValidID(id) {
		v.addError("%s '%s' should be lowercase snake_case", fieldName, id)
	}
}

// validateQuestLine requires exactly one %s placeholder and no other
// verbs, since the line is filled with a quest title.
func (v *validator) validateQuestLine(fieldName, line string) {
	if strings.Count(line, "%s") != 1 || strings.Count(line, "%") != 1 {
		v.addError("line %s '%s' must contain exactly one %%s placeholder", fieldName, line)
	}
}

// Validate checks identifiers and cross references. Missing dialogue is
// not an error: the engine falls back to default lines at runtime.
func (s *Scenario) Validate() error {
	v := &validator{}

	if strings.TrimSpace(s.Name) == "" {
		v.addError("scenario name is required")
	}
	if s.World.Width <= 0 || s.World.Height <= 0 {
		v.addError("world size must be positive, got %dx%d", s.World.Width, s.World.Height)
	}

	v.validateQuestLine("quest_started", s.Lines.QuestStarted)
	v.validateQuestLine("quest_completed", s.Lines.QuestCompleted)

	questIDs := make(map[string]bool, len(s.Quests))
	for _, q := range s.Quests {
		v.validateIDFormat("quest ID", q.ID)
		if q.ID == "" {
			v.addError("quest with title '%s' has no id", q.Title)
			continue
		}
		if questIDs[q.ID] {
			v.addError("duplicate quest ID '%s'", q.ID)
		}
		questIDs[q.ID] = true
		v.validateIDFormat("quest starts_on event", q.StartsOn)

		keys := make(map[string]bool, len(q.Objectives))
		for _, o := range q.Objectives {
			v.validateIDFormat("objective key", o.Key)
			v.validateIDFormat("objective event", o.On)
			if keys[o.Key] {
				v.addError("quest '%s' has duplicate objective '%s'", q.ID, o.Key)
			}
			keys[o.Key] = true
		}
	}

	names := make(map[string]bool, len(s.Entities))
	for _, e := range s.Entities {
		v.validateIDFormat("entity name", e.Name)
		if e.Name == "" {
			v.addError("entity without a name")
			continue
		}
		if names[e.Name] {
			v.addError("duplicate entity name '%s'", e.Name)
		}
		names[e.Name] = true

		if !slices.Contains(Kinds, e.Kind) {
			v.addError("entity '%s' has unknown kind '%s'", e.Name, e.Kind)
		}
		if e.Kind != KindScenery && !e.Interactable {
			v.addError("entity '%s' of kind '%s' must be interactable", e.Name, e.Kind)
		}
		if e.QuestToGive != "" && !questIDs[e.QuestToGive] {
			v.addError("entity '%s' gives unknown quest '%s'", e.Name, e.QuestToGive)
		}
		if e.QuestToComplete != "" && !questIDs[e.QuestToComplete] {
			v.addError("entity '%s' completes unknown quest '%s'", e.Name, e.QuestToComplete)
		}
		if e.Kind == KindQuestGiver && e.QuestToGive == "" {
			v.addError("quest giver '%s' has no quest_to_give", e.Name)
		}
		switch e.Kind {
		case KindReportTrigger, KindEvidenceBench, KindConfrontation:
			if e.Prompt == "" {
				v.addError("entity '%s' of kind '%s' needs a prompt", e.Name, e.Kind)
			} else if _, ok := s.Prompts[e.Prompt]; !ok {
				v.addError("entity '%s' references unknown prompt '%s'", e.Name, e.Prompt)
			}
		}
		v.validateIDFormat("yields_item", e.YieldsItem)
		v.validateIDFormat("hint_when_holding", e.HintWhenHolding)
	}

	for ctx, p := range s.Prompts {
		v.validateIDFormat("prompt context", ctx)
		if len(p.Options) < 2 {
			v.addError("prompt '%s' needs at least two options", ctx)
		}
		if p.CorrectIndex < 0 || p.CorrectIndex >= len(p.Options) {
			v.addError("prompt '%s' correct_index %d is out of range", ctx, p.CorrectIndex)
		}
		if p.Produces != "" && p.Consumes == "" {
			v.addError("prompt '%s' produces '%s' without consuming an item", ctx, p.Produces)
		}
	}

	if len(v.errors) > 0 {
		return fmt.Errorf("%w:\n%s", ErrInvalidScenario, strings.Join(v.errors, "\n"))
	}
	return nil
}
