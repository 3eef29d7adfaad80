package models

import "slices"

// Status is the lifecycle phase of a game session.
type Status string

const (
	StatusInit     Status = "INIT"
	StatusPlaying  Status = "PLAYING"
	StatusGameOver Status = "GAME_OVER"
)

// Role identifies who produced a history item.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// ItemType distinguishes player actions from engine narration.
type ItemType string

const (
	ItemNarrative ItemType = "narrative"
	ItemAction    ItemType = "action"
)

// StatMax is the ceiling of every character attribute.
const StatMax = 10

// Stat is a named character attribute on a 1-10 scale.
type Stat struct {
	Name  string `json:"name" yaml:"name"`
	Value int    `json:"value" yaml:"value"`
	Max   int    `json:"max,omitempty" yaml:"max"`
}

// Gauge is a bounded resource such as HP or SP.
type Gauge struct {
	Current int `json:"current" yaml:"current"`
	Max     int `json:"max" yaml:"max"`
}

// Relationship tracks the player's standing with a single NPC.
type Relationship struct {
	ID                     string   `json:"id" yaml:"id"`
	FullName               string   `json:"fullName" yaml:"full_name"`
	Role                   string   `json:"role" yaml:"role"`
	RelationshipScore      int      `json:"relationshipScore" yaml:"relationship_score"` // 0-100
	Attitude               string   `json:"attitude" yaml:"attitude"`                    // e.g. "Friendly", "Hostile"
	LastInteractionSummary string   `json:"lastInteractionSummary" yaml:"last_interaction_summary"`
	LastInteractionTime    int      `json:"lastInteractionTime" yaml:"last_interaction_time"` // turn index
	ImportantFlags         []string `json:"importantFlags" yaml:"important_flags"`
	History                []string `json:"history" yaml:"history"` // newest first
}

// Character is the player's sheet.
type Character struct {
	Name          string         `json:"name" yaml:"name"`
	ClassTitle    string         `json:"classTitle" yaml:"class_title"`
	HP            Gauge          `json:"hp" yaml:"hp"`
	SP            Gauge          `json:"sp" yaml:"sp"` // stamina/sanity
	Stats         []Stat         `json:"stats" yaml:"stats"`
	Inventory     []string       `json:"inventory" yaml:"inventory"`
	ActiveQuest   string         `json:"activeQuest" yaml:"active_quest"`
	Relationships []Relationship `json:"relationships" yaml:"relationships"`
}

// HistoryItem is a single entry of the game log.
type HistoryItem struct {
	Role    Role     `json:"role" yaml:"role"`
	Content string   `json:"content" yaml:"content"`
	Type    ItemType `json:"type" yaml:"type"`
}

// GameState aggregates everything the UI renders for one session.
type GameState struct {
	Status                  Status        `yaml:"status"`
	Character               *Character    `yaml:"character,omitempty"`
	History                 []HistoryItem `yaml:"history"`
	Summary                 string        `yaml:"summary"` // long-term memory
	CurrentChoices          []string      `yaml:"current_choices"`
	IsProcessing            bool          `yaml:"-"`
	TurnCount               int           `yaml:"turn_count"`
	Error                   string        `yaml:"error,omitempty"`
	IsRelationshipPanelOpen bool          `yaml:"-"`
}

// InitResponse is the payload returned when a new game is generated.
type InitResponse struct {
	ClassTitle        string         `json:"classTitle"`
	HPMax             int            `json:"hpMax"`
	SPMax             int            `json:"spMax"`
	Stats             []Stat         `json:"stats"`
	StartingInventory []string       `json:"startingInventory"`
	InitialScene      string         `json:"initialScene"`
	FirstQuest        string         `json:"firstQuest"`
	Choices           []string       `json:"choices"`
	Relationships     []Relationship `json:"relationships"`
}

// TurnResponse is the payload returned for a single player action.
type TurnResponse struct {
	Narrative       string         `json:"narrative"`
	HPChange        int            `json:"hpChange"`
	SPChange        int            `json:"spChange"`
	InventoryAdd    []string       `json:"inventoryAdd"`
	InventoryRemove []string       `json:"inventoryRemove"`
	QuestUpdate     string         `json:"questUpdate,omitempty"`
	Choices         []string       `json:"choices"`
	SummaryUpdate   string         `json:"summaryUpdate,omitempty"` // new facts for long-term memory
	IsGameOver      bool           `json:"isGameOver,omitempty"`
	Relationships   []Relationship `json:"relationships"` // full updated list
}

// TurnRequest is the snapshot sent to the engine for one turn.
// It is detached from the live state so it can travel to another goroutine.
type TurnRequest struct {
	Action        string
	Character     Character
	Summary       string
	RecentHistory string
	TurnCount     int
}

// Clone returns a deep copy of the character so snapshots never share
// backing arrays with live state.
func (c Character) Clone() Character {
	out := c
	out.Stats = slices.Clone(c.Stats)
	out.Inventory = slices.Clone(c.Inventory)
	out.Relationships = make([]Relationship, len(c.Relationships))
	for i, r := range c.Relationships {
		r.ImportantFlags = slices.Clone(r.ImportantFlags)
		r.History = slices.Clone(r.History)
		out.Relationships[i] = r
	}
	return out
}
