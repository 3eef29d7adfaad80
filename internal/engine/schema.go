package engine

import "github.com/tatianab/text-rpg/internal/llm"

func stringList(description string) *llm.Schema {
	return &llm.Schema{
		Type:        llm.TypeArray,
		Description: description,
		Items:       &llm.Schema{Type: llm.TypeString},
	}
}

var relationshipsSchema = &llm.Schema{
	Type: llm.TypeArray,
	Items: &llm.Schema{
		Type: llm.TypeObject,
		Properties: map[string]*llm.Schema{
			"id":                     {Type: llm.TypeString},
			"fullName":               {Type: llm.TypeString},
			"role":                   {Type: llm.TypeString},
			"relationshipScore":      {Type: llm.TypeInteger, Description: "0-100"},
			"attitude":               {Type: llm.TypeString},
			"lastInteractionSummary": {Type: llm.TypeString},
			"lastInteractionTime":    {Type: llm.TypeInteger, Description: "Turn index"},
			"importantFlags":         stringList(""),
			"history":                stringList("Key events in reverse chronological order"),
		},
		Required: []string{
			"id", "fullName", "role", "relationshipScore", "attitude",
			"lastInteractionSummary", "lastInteractionTime", "importantFlags", "history",
		},
	},
}

var initSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"classTitle": {Type: llm.TypeString, Description: "A creative title for the character class/role"},
		"hpMax":      {Type: llm.TypeInteger, Description: "Max HP (10-100)"},
		"spMax":      {Type: llm.TypeInteger, Description: "Max SP (10-100)"},
		"stats": {
			Type:        llm.TypeArray,
			Description: "Exactly 3 contextual skills.",
			Items: &llm.Schema{
				Type: llm.TypeObject,
				Properties: map[string]*llm.Schema{
					"name":  {Type: llm.TypeString},
					"value": {Type: llm.TypeInteger, Description: "1 to 10"},
				},
				Required: []string{"name", "value"},
			},
		},
		"startingInventory": stringList(""),
		"initialScene":      {Type: llm.TypeString, Description: "The opening narrative paragraph."},
		"firstQuest":        {Type: llm.TypeString, Description: "The current main objective."},
		"choices":           stringList("3 logical options for the user."),
		"relationships":     relationshipsSchema,
	},
	Required: []string{
		"classTitle", "hpMax", "spMax", "stats", "startingInventory",
		"initialScene", "firstQuest", "choices", "relationships",
	},
}

var turnSchema = &llm.Schema{
	Type: llm.TypeObject,
	Properties: map[string]*llm.Schema{
		"narrative":       {Type: llm.TypeString, Description: "The story result of the action."},
		"hpChange":        {Type: llm.TypeInteger, Description: "Negative for damage, positive for healing, 0 for none."},
		"spChange":        {Type: llm.TypeInteger, Description: "Negative for exhaustion/sanity loss, positive for recovery."},
		"inventoryAdd":    stringList("Items gained."),
		"inventoryRemove": stringList("Items lost or consumed."),
		"questUpdate":     {Type: llm.TypeString, Description: "New objective if changed, otherwise empty."},
		"choices":         stringList("3 new options."),
		"summaryUpdate":   {Type: llm.TypeString, Description: "Important facts to add to long-term memory."},
		"isGameOver":      {Type: llm.TypeBoolean},
		"relationships":   relationshipsSchema,
	},
	Required: []string{
		"narrative", "hpChange", "spChange", "inventoryAdd", "inventoryRemove",
		"choices", "isGameOver", "relationships",
	},
}
