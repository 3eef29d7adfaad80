package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/text-rpg/internal/engine"
	"github.com/tatianab/text-rpg/internal/game"
	"github.com/tatianab/text-rpg/internal/llm"
	"github.com/tatianab/text-rpg/internal/models"
)

const initJSON = `{
	"classTitle": "Nut Thief",
	"hpMax": 20,
	"spMax": 15,
	"stats": [{"name": "Agility", "value": 7}],
	"startingInventory": ["Acorn"],
	"initialScene": "A dragon sleeps on a hoard of nuts.",
	"firstQuest": "Steal the nut",
	"choices": ["Sneak", "Run", "Wait"],
	"relationships": []
}`

const finalTurnJSON = `{
	"narrative": "The dragon wakes. Your tale ends here.",
	"hpChange": -20,
	"spChange": 0,
	"inventoryAdd": [],
	"inventoryRemove": [],
	"choices": [],
	"isGameOver": true,
	"relationships": []
}`

func newTestModel(gen *llm.MockGenerator) model {
	eng := engine.NewEngine(gen, engine.Options{}, zerolog.Nop())
	newStore := func() *game.Store { return game.NewStore(eng, zerolog.Nop()) }
	return NewModel(newStore, zerolog.Nop())
}

// enter types text into the input and submits it, running any command the
// submission returns and feeding its message back into the model.
func enter(t *testing.T, m model, text string) model {
	t.Helper()
	m.textInput.SetValue(text)
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	if cmd != nil {
		msg := cmd()
		next, _ = m.Update(msg)
		m = next.(model)
	}
	return m
}

func TestModel_PlaysUntilGameOver(t *testing.T) {
	gen := llm.NewMockGenerator(initJSON, finalTurnJSON)
	m := newTestModel(gen)

	m = enter(t, m, "I am a squirrel")
	state := m.store.State()
	require.Equal(t, models.StatusPlaying, state.Status)
	assert.Equal(t, 1, state.TurnCount)
	assert.Equal(t, actionPlaceholder, m.textInput.Placeholder)
	assert.Contains(t, m.View(), "Nut Thief")

	m = enter(t, m, "2")
	state = m.store.State()
	assert.Equal(t, models.StatusGameOver, state.Status)
	assert.Equal(t, 0, state.Character.HP.Current)
	assert.Equal(t, "Run", state.History[1].Content, "numeric input selects the offered choice")
	log := m.renderLog()
	assert.Contains(t, log, "Game Engine")
	assert.Contains(t, log, "Run")
	assert.Contains(t, log, "GAME OVER")

	m = enter(t, m, "Try again anyway")
	assert.Len(t, m.store.State().History, 3, "actions after game over are rejected")
	assert.Len(t, gen.Calls(), 2)
	assert.Contains(t, m.notice, "/restart")
}

func TestModel_InitFailureShowsBanner(t *testing.T) {
	gen := llm.NewMockGenerator(`not json`)
	m := newTestModel(gen)

	m = enter(t, m, "I am a squirrel")
	state := m.store.State()
	assert.Equal(t, models.StatusInit, state.Status)
	assert.False(t, state.IsProcessing)
	assert.Equal(t, game.InitFailureMessage, state.Error)
	assert.Contains(t, m.View(), game.InitFailureMessage)
}

func TestModel_RestartIgnoresStaleResults(t *testing.T) {
	gen := llm.NewMockGenerator(initJSON)
	m := newTestModel(gen)

	m.textInput.SetValue("I am a squirrel")
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	require.NotNil(t, cmd)
	assert.True(t, m.store.State().IsProcessing)

	old := m.store
	m = enter(t, m, "/restart")
	assert.NotSame(t, old, m.store)

	next, _ = m.Update(cmd())
	m = next.(model)
	assert.Equal(t, models.StatusInit, m.store.State().Status)
	assert.Empty(t, m.store.State().History)
}

func TestModel_EmptyInputIsIgnored(t *testing.T) {
	gen := llm.NewMockGenerator()
	m := newTestModel(gen)

	m = enter(t, m, "   ")
	assert.False(t, m.store.State().IsProcessing)
	assert.Empty(t, gen.Calls())
}

func TestModel_RelationshipPanelToggle(t *testing.T) {
	m := newTestModel(llm.NewMockGenerator(initJSON))

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = next.(model)
	assert.False(t, m.store.State().IsRelationshipPanelOpen, "no panel before a character exists")

	m = enter(t, m, "I am a squirrel")
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	m = next.(model)
	assert.True(t, m.store.State().IsRelationshipPanelOpen)
	assert.Contains(t, m.View(), "You haven't met anyone yet.")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(model)
	assert.False(t, m.store.State().IsRelationshipPanelOpen)
}

func TestResolveChoice(t *testing.T) {
	choices := []string{"Sneak", "Run", "Wait"}
	tests := []struct {
		in, want string
	}{
		{"1", "Sneak"},
		{"3", "Wait"},
		{"4", "4"},
		{"0", "0"},
		{"climb the tree", "climb the tree"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resolveChoice(tt.in, choices), tt.in)
	}
}

func TestScoreColor(t *testing.T) {
	tests := []struct {
		score int
		want  lipgloss.Color
	}{
		{100, "#22C55E"},
		{80, "#22C55E"},
		{79, "#84CC16"},
		{60, "#84CC16"},
		{40, "#EAB308"},
		{20, "#F97316"},
		{19, "#EF4444"},
		{0, "#EF4444"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scoreColor(tt.score), "score %d", tt.score)
	}
}

func TestRenderRelationshipPanel(t *testing.T) {
	rels := []models.Relationship{
		{ID: "owl", FullName: "Old Owl", Role: "Sage", RelationshipScore: 50, LastInteractionTime: 1},
		{ID: "fox", FullName: "Young Fox", Role: "Rival", RelationshipScore: 10, LastInteractionTime: 3,
			Attitude:               "suspicious",
			LastInteractionSummary: "Caught you in the pantry.",
			ImportantFlags:         []string{"owes_a_favor", "knows_your_name"},
			History:                []string{"Met at the river", "Shared a fish", "Argued over the acorn"},
		},
	}

	list := renderRelationshipPanel(rels, 0, "", 60)
	assert.Less(t, strings.Index(list, "Young Fox"), strings.Index(list, "Old Owl"), "most recent first")

	empty := renderRelationshipPanel(rels, 0, "owl", 60)
	assert.Contains(t, empty, "Old Owl")
	assert.Contains(t, empty, "turn 1")
	assert.Contains(t, empty, "No history recorded yet.")
	assert.NotContains(t, empty, "Young Fox")

	detail := renderRelationshipPanel(rels, 0, "fox", 60)
	for _, want := range []string{"Young Fox", "Rival", "Suspicious", "turn 3", "Caught you in the pantry.", "owes_a_favor, knows_your_name"} {
		assert.Contains(t, detail, want)
	}
	assert.NotContains(t, detail, "No history recorded yet.")
	river := strings.Index(detail, "Met at the river")
	fish := strings.Index(detail, "Shared a fish")
	acorn := strings.Index(detail, "Argued over the acorn")
	require.True(t, river >= 0 && fish >= 0 && acorn >= 0, detail)
	assert.True(t, river < fish && fish < acorn, "history keeps its order")
}

func TestRenderRelationshipDetail_TurnIndex(t *testing.T) {
	detail := renderRelationshipDetail(models.Relationship{FullName: "Hermit", LastInteractionTime: 0}, 40)
	assert.Contains(t, detail, "turn 0")
	assert.NotContains(t, detail, "never")
}

func TestRenderCharacterSheet(t *testing.T) {
	c := &models.Character{
		Name:        "Player",
		ClassTitle:  "Nut Thief",
		HP:          models.Gauge{Current: 15, Max: 20},
		SP:          models.Gauge{Current: 0, Max: 15},
		Stats:       []models.Stat{{Name: "Agility", Value: 7, Max: models.StatMax}},
		Inventory:   []string{},
		ActiveQuest: "Steal the nut",
	}
	bar := progress.New(progress.WithoutPercentage())

	sheet := renderCharacterSheet(c, 40, bar, bar)
	for _, want := range []string{"Nut Thief", "15 / 20", "0 / 15", "Agility", "7/10", "Steal the nut", "Empty...", "INVENTORY"} {
		assert.Contains(t, sheet, want)
	}
}

func TestGaugeRatio(t *testing.T) {
	assert.Equal(t, 0.5, gaugeRatio(models.Gauge{Current: 10, Max: 20}))
	assert.Equal(t, 0.0, gaugeRatio(models.Gauge{Current: 10, Max: 0}))
	assert.Equal(t, 1.0, gaugeRatio(models.Gauge{Current: 30, Max: 20}))
}
