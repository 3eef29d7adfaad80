package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/text-rpg/internal/llm"
	"github.com/tatianab/text-rpg/internal/models"
)

const squirrelJSON = `{
	"classTitle": "Nut Thief",
	"hpMax": 20,
	"spMax": 15,
	"stats": [{"name": "Agility", "value": 7, "max": 99}],
	"startingInventory": ["Acorn"],
	"initialScene": "A dragon sleeps on a hoard of nuts.",
	"firstQuest": "Steal the nut",
	"choices": ["Sneak", "Run", "Wait"],
	"relationships": []
}`

func TestInitializeGame(t *testing.T) {
	gen := llm.NewMockGenerator(squirrelJSON)
	eng := NewEngine(gen, Options{}, zerolog.Nop())

	resp, err := eng.InitializeGame(context.Background(), "I am a squirrel")
	require.NoError(t, err)

	assert.Equal(t, "Nut Thief", resp.ClassTitle)
	assert.Equal(t, 20, resp.HPMax)
	assert.Equal(t, []string{"Sneak", "Run", "Wait"}, resp.Choices)

	calls := gen.Calls()
	require.Len(t, calls, 1)
	req := calls[0]
	assert.Equal(t, "initialize", req.Label)
	assert.Equal(t, llm.DefaultGeminiModel, req.Model)
	assert.Equal(t, llm.MIMETypeJSON, req.MIMEType)
	assert.Same(t, initSchema, req.Schema)
	assert.Zero(t, req.ThinkingBudget)
	assert.Contains(t, req.Contents, `premise: "I am a squirrel"`)
	assert.Contains(t, req.SystemInstruction, "You must output JSON ONLY")
}

func TestInitializeGame_Failures(t *testing.T) {
	tests := []struct {
		name string
		gen  *llm.MockGenerator
	}{
		{name: "malformed JSON", gen: llm.NewMockGenerator(`{"classTitle": `)},
		{name: "fenced JSON is not repaired", gen: llm.NewMockGenerator("```json\n" + squirrelJSON + "\n```")},
		{name: "empty response", gen: llm.NewMockGenerator()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := NewEngine(tt.gen, Options{}, zerolog.Nop())
			_, err := eng.InitializeGame(context.Background(), "p")
			assert.Error(t, err)
		})
	}

	t.Run("generator error is passed through", func(t *testing.T) {
		gen := llm.NewMockGenerator()
		gen.SetError(llm.ErrMissingCredential)
		eng := NewEngine(gen, Options{}, zerolog.Nop())

		_, err := eng.InitializeGame(context.Background(), "p")
		assert.True(t, errors.Is(err, llm.ErrMissingCredential))
	})
}

func TestProcessTurn(t *testing.T) {
	gen := llm.NewMockGenerator(`{
		"narrative": "You find a key.",
		"hpChange": -5,
		"spChange": 0,
		"inventoryAdd": ["Key"],
		"inventoryRemove": [],
		"choices": ["Unlock", "Pocket", "Drop"],
		"isGameOver": false,
		"relationships": []
	}`)
	eng := NewEngine(gen, Options{Model: "gemini-test", ThinkingBudget: DefaultThinkingBudget}, zerolog.Nop())

	req := models.TurnRequest{
		Action: "Search the hoard",
		Character: models.Character{
			ClassTitle:  "Nut Thief",
			HP:          models.Gauge{Current: 20, Max: 20},
			SP:          models.Gauge{Current: 15, Max: 15},
			Stats:       []models.Stat{{Name: "Agility", Value: 7, Max: 10}},
			Inventory:   []string{"Acorn"},
			ActiveQuest: "Steal the nut",
			Relationships: []models.Relationship{
				{ID: "dragon", FullName: "Smaug Jr.", RelationshipScore: 10},
			},
		},
		Summary:       "Game started.",
		RecentHistory: "model: A dragon sleeps.",
		TurnCount:     3,
	}

	resp, err := eng.ProcessTurn(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, -5, resp.HPChange)
	assert.Equal(t, []string{"Key"}, resp.InventoryAdd)

	calls := gen.Calls()
	require.Len(t, calls, 1)
	sent := calls[0]
	assert.Equal(t, "turn", sent.Label)
	assert.Equal(t, "gemini-test", sent.Model)
	assert.Equal(t, DefaultThinkingBudget, sent.ThinkingBudget)
	assert.Same(t, turnSchema, sent.Schema)
	for _, want := range []string{
		"CURRENT GAME STATE (Turn 3):",
		"Class: Nut Thief",
		"HP: 20/20",
		"SP: 15/15",
		`Stats: [{"name":"Agility","value":7,"max":10}]`,
		`Inventory: ["Acorn"]`,
		"Active Quest: Steal the nut",
		`"fullName":"Smaug Jr."`,
		"LONG TERM MEMORY:\nGame started.",
		"RECENT HISTORY:\nmodel: A dragon sleeps.",
		`"Search the hoard"`,
	} {
		assert.Contains(t, sent.Contents, want)
	}
}

func TestRenderTurnPrompt_EmptyListsAreArrays(t *testing.T) {
	contents, err := renderTurnPrompt(models.TurnRequest{Action: "wait", TurnCount: 1})
	require.NoError(t, err)

	assert.Contains(t, contents, "Inventory: []")
	assert.Contains(t, contents, "Relationships: []")
	assert.NotContains(t, contents, "null")
}

func TestSchemasRequireRelationshipFields(t *testing.T) {
	item := relationshipsSchema.Items
	for name := range item.Properties {
		assert.Contains(t, item.Required, name)
	}
	assert.NotContains(t, turnSchema.Required, "questUpdate")
	assert.NotContains(t, turnSchema.Required, "summaryUpdate")
	assert.Len(t, initSchema.Required, len(initSchema.Properties))
}
