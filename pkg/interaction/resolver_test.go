package interaction

import (
	"testing"

	"github.com/jwebster45206/echo-engine/pkg/flags"
	"github.com/jwebster45206/echo-engine/pkg/quest"
	"github.com/jwebster45206/echo-engine/pkg/scenario"
	"github.com/jwebster45206/echo-engine/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	session  *state.Session
	resolver *Resolver
	entities map[string]Interactable
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sc, err := scenario.Default()
	require.NoError(t, err)

	s, err := state.NewSession(sc, nil)
	require.NoError(t, err)

	built, err := Build(sc)
	require.NoError(t, err)
	byName := make(map[string]Interactable, len(built))
	for _, e := range built {
		byName[e.Name()] = e
	}
	return &fixture{session: s, resolver: NewResolver(nil), entities: byName}
}

func (f *fixture) interact(t *testing.T, name string) bool {
	t.Helper()
	e, ok := f.entities[name]
	require.True(t, ok, "entity %s", name)
	return f.resolver.Interact(f.session, e)
}

func (f *fixture) line() string {
	return f.session.Dialogue.Current()
}

func (f *fixture) interviewAll(t *testing.T) {
	t.Helper()
	for _, name := range f.session.Roster {
		f.interact(t, name)
	}
}

func TestInteract_QuestStart(t *testing.T) {
	f := newFixture(t)

	require.True(t, f.interact(t, "quest"))
	assert.True(t, f.session.Flags.Get(flags.QuestStarted))
	assert.Equal(t, "Quest started: Interact with all NPCs to learn about the situation in the city.", f.line())
	assert.Equal(t, quest.InProgress, f.session.Quests.Status("echoes_in_the_city"))
	require.NotNil(t, f.session.Toast)
	assert.Equal(t, "Quest started: Echoes in the City", f.session.Toast.Text)

	f.interact(t, "quest")
	assert.Equal(t, "Nothing to do here right now.", f.line(), "second visit has no during line")
}

func TestInteract_QuestTurnIn(t *testing.T) {
	f := newFixture(t)
	f.interact(t, "quest")

	quests := f.session.Quests
	require.True(t, quests.SetObjectiveComplete("echoes_in_the_city", "interview_witnesses"))
	require.True(t, quests.SetObjectiveComplete("echoes_in_the_city", "file_report"))
	require.Equal(t, quest.InProgress, quests.Status("echoes_in_the_city"))

	f.interact(t, "quest")
	assert.Equal(t, "The first case is closed. Follow the posters.", f.line())
	assert.Equal(t, quest.Completed, quests.Status("echoes_in_the_city"))
	require.NotNil(t, f.session.Toast)
	assert.Equal(t, "Quest completed: Echoes in the City", f.session.Toast.Text)

	f.session.Toast = nil
	f.interact(t, "quest")
	assert.Equal(t, "The first case is closed. Follow the posters.", f.line())
	assert.Nil(t, f.session.Toast, "completion is announced once")
}

func TestInteract_WitnessBeforeQuest(t *testing.T) {
	f := newFixture(t)

	f.interact(t, "npc1")
	assert.Equal(t, "Nothing to do here right now.", f.line())
	assert.Zero(t, f.session.Flags.InteractedCount())
}

func TestInteract_WitnessesBeforeReport(t *testing.T) {
	f := newFixture(t)
	f.interact(t, "quest")

	f.interact(t, "npc1")
	assert.Equal(t, "I saw smoke coming from the mayor's mansion last night. That was the start.", f.line())
	assert.Equal(t, "npc1", f.session.Speaker)
	assert.Len(t, f.session.Dialogue.Lines, 1)

	f.interact(t, "npc1")
	assert.Equal(t, 1, f.session.Flags.InteractedCount(), "marking is idempotent")

	f.interact(t, "npc2")
	f.interact(t, "good")
	f.interact(t, "bad")
	assert.Equal(t, 4, f.session.Flags.InteractedCount())
	assert.Equal(t, []string{
		"The mayor left because the posters revealed he's an AI. Posters came first!",
		"All NPCs interacted. Now report the order of events via telephone.",
	}, f.session.Dialogue.Lines)

	echoes, _ := f.session.Quests.Get("echoes_in_the_city")
	o, _ := echoes.Objective("interview_witnesses")
	assert.True(t, o.Completed)

	f.interact(t, "good")
	assert.Len(t, f.session.Dialogue.Lines, 2, "follow-up repeats until the report is filed")
}

func TestInteract_ReportTrigger(t *testing.T) {
	f := newFixture(t)

	f.interact(t, "telephone")
	assert.Nil(t, f.session.Prompt)
	assert.Equal(t, "Nothing to do here right now.", f.line())

	f.interact(t, "quest")
	f.interact(t, "npc1")
	f.interact(t, "telephone")
	assert.Nil(t, f.session.Prompt, "blocked until every witness is interviewed")

	f.interviewAll(t)
	f.interact(t, "telephone")
	require.NotNil(t, f.session.Prompt)
	assert.Equal(t, scenario.ContextReport, f.session.Prompt.Context)
	assert.Len(t, f.session.Prompt.Options, 3)
	assert.Equal(t, "Choose the correct order of events to report:", f.line())

	assert.False(t, f.interact(t, "npc1"), "no interaction while a choice is pending")
}

func TestInteract_AfterReport(t *testing.T) {
	f := newFixture(t)
	f.interact(t, "quest")
	f.interviewAll(t)
	f.session.Flags.Set(flags.Reported, true)

	f.interact(t, "npc1")
	assert.Equal(t, "I've told you everything I know.", f.line())

	f.interact(t, "good")
	assert.Equal(t, "I've told you everything I know.", f.line(), "no hint without the poster")

	f.interact(t, "bad")
	assert.Equal(t, "You confront the NPC about spreading fake rumors.", f.line())
	assert.Equal(t, []string{flags.FakePoster}, f.session.Flags.Inventory())

	before := f.session.Flags.Snapshot()
	f.interact(t, "bad")
	assert.Equal(t, "I've told you everything I know.", f.line())
	assert.True(t, before.Equal(f.session.Flags.Snapshot()), "poster is granted once")

	f.interact(t, "good")
	assert.Equal(t, "That poster seems fake. Go to the detective table and properly investigate it.", f.line())
}

func TestInteract_EvidenceBench(t *testing.T) {
	f := newFixture(t)

	f.interact(t, "table")
	assert.Nil(t, f.session.Prompt)
	assert.Equal(t, "Nothing to do here right now.", f.line())

	f.session.Flags.AddToInventory(flags.FakePoster)
	f.interact(t, "table")
	require.NotNil(t, f.session.Prompt)
	assert.Equal(t, scenario.ContextDecode, f.session.Prompt.Context)
	assert.Len(t, f.session.Prompt.Options, 2)

	f.session.Dismiss()
	f.session.Flags.RemoveFromInventory(flags.FakePoster)
	f.session.Flags.Set(flags.EvidenceDestroyed, true)
	f.interact(t, "table")
	assert.Equal(t, "The evidence is destroyed. Nothing left to do.", f.line())
}

func TestInteract_Confrontation(t *testing.T) {
	f := newFixture(t)

	f.interact(t, "mayor")
	assert.Nil(t, f.session.Prompt)
	assert.Equal(t, "I need evidence before confronting the mayor.", f.line())

	f.session.Flags.AddToInventory(flags.RealPoster)
	f.interact(t, "mayor")
	require.NotNil(t, f.session.Prompt)
	assert.Equal(t, scenario.ContextConfront, f.session.Prompt.Context)

	f.session.Dismiss()
	f.session.Flags.Set(flags.Confronted, true)
	f.interact(t, "mayor")
	assert.Nil(t, f.session.Prompt)
	assert.Equal(t, "Nothing to do here right now.", f.line())
}

func TestInteract_Terminal(t *testing.T) {
	f := newFixture(t)
	f.session.End(state.EndingGameOver, "done")

	assert.False(t, f.interact(t, "quest"))
	assert.False(t, f.session.Flags.Get(flags.QuestStarted))
	assert.Nil(t, f.session.Dialogue)
}

func TestInteract_Scenery(t *testing.T) {
	f := newFixture(t)
	assert.False(t, f.interact(t, "motel"))
	assert.Nil(t, f.session.Dialogue)
}

func TestInteract_PartialRegistry(t *testing.T) {
	sc, err := scenario.Parse([]byte(`
name: Partial
world: {width: 10, height: 10}
quests:
  - id: q
    title: Q
entities:
  - name: giver
    kind: quest_giver
    interactable: true
    quest_to_give: q
  - name: lonely
    kind: witness
    interactable: true
`))
	require.NoError(t, err)
	s, err := state.NewSession(sc, nil)
	require.NoError(t, err)
	entities, err := Build(sc)
	require.NoError(t, err)
	r := NewResolver(nil)

	r.Interact(s, entities[0])
	assert.Equal(t, "Nothing to do here right now.", s.Dialogue.Current(), "missing initial line falls back")

	r.Interact(s, entities[1])
	assert.Equal(t, []string{"Nothing to do here right now."}, s.Dialogue.Lines)
	assert.Equal(t, quest.Completed, s.Quests.Status("q"), "a quest without objectives completes once started")
}

func TestFirstOverlapping(t *testing.T) {
	f := newFixture(t)
	ordered, err := Build(f.session.Scenario)
	require.NoError(t, err)

	all := func(Interactable) bool { return true }
	e, ok := FirstOverlapping(ordered, all)
	require.True(t, ok)
	assert.Equal(t, "quest", e.Name(), "first interactable in declaration order wins")

	_, ok = FirstOverlapping(ordered, func(Interactable) bool { return false })
	assert.False(t, ok)

	_, ok = FirstOverlapping(ordered, nil)
	assert.False(t, ok)
}

func TestNewEntity_UnknownKind(t *testing.T) {
	_, err := NewEntity(scenario.Entity{Name: "x", Kind: "dragon"})
	assert.Error(t, err)
}
