// Package game owns the session state and the transitions that move it
// between turns. Every transition takes a GameState by value and returns a
// new one; slices are cloned before they are extended so earlier snapshots
// stay valid.
package game

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/tatianab/text-rpg/internal/models"
)

// User-facing messages shown in the error banner.
const (
	InitFailureMessage = "Failed to initialize game. Please try again."
	TurnFailureMessage = "The engine stumbled. Try that action again."
)

// DefaultCharacterName is used because the premise never asks for a name.
const DefaultCharacterName = "Player"

var (
	ErrInitialization = errors.New("initialization failed")
	ErrTurn           = errors.New("turn failed")

	ErrEmptyInput     = errors.New("input is empty")
	ErrBusy           = errors.New("a request is already in flight")
	ErrGameOver       = errors.New("game is over")
	ErrNoCharacter    = errors.New("game has not been initialized")
	ErrAlreadyStarted = errors.New("game already started")
)

// NewState returns the state of a session that has not been initialized.
func NewState() models.GameState {
	return models.GameState{
		Status:         models.StatusInit,
		History:        []models.HistoryItem{},
		CurrentChoices: []string{},
	}
}

// BeginInit admits an initialization request and marks the state busy.
func BeginInit(s models.GameState, premise string) (models.GameState, error) {
	if strings.TrimSpace(premise) == "" {
		return s, ErrEmptyInput
	}
	if s.IsProcessing {
		return s, ErrBusy
	}
	if s.Status != models.StatusInit {
		return s, ErrAlreadyStarted
	}
	s.IsProcessing = true
	s.Error = ""
	return s, nil
}

// ApplyInit builds the opening state from an initialization response.
func ApplyInit(s models.GameState, premise string, resp *models.InitResponse) models.GameState {
	stats := make([]models.Stat, len(resp.Stats))
	for i, st := range resp.Stats {
		stats[i] = models.Stat{Name: st.Name, Value: st.Value, Max: models.StatMax}
	}

	relationships := slices.Clone(resp.Relationships)
	if relationships == nil {
		relationships = []models.Relationship{}
	}
	inventory := slices.Clone(resp.StartingInventory)
	if inventory == nil {
		inventory = []string{}
	}
	hpMax := max(resp.HPMax, 0)
	spMax := max(resp.SPMax, 0)

	return models.GameState{
		Status: models.StatusPlaying,
		Character: &models.Character{
			Name:          DefaultCharacterName,
			ClassTitle:    resp.ClassTitle,
			HP:            models.Gauge{Current: hpMax, Max: hpMax},
			SP:            models.Gauge{Current: spMax, Max: spMax},
			Stats:         stats,
			Inventory:     inventory,
			ActiveQuest:   resp.FirstQuest,
			Relationships: relationships,
		},
		History: []models.HistoryItem{
			{Role: models.RoleModel, Content: resp.InitialScene, Type: models.ItemNarrative},
		},
		Summary:                 fmt.Sprintf("Game started. Premise: %s. Class: %s.", premise, resp.ClassTitle),
		CurrentChoices:          slices.Clone(resp.Choices),
		IsProcessing:            false,
		TurnCount:               1,
		IsRelationshipPanelOpen: s.IsRelationshipPanelOpen,
	}
}

// FailInit releases the busy flag and shows the init error banner.
// The status stays INIT so the player can simply try again.
func FailInit(s models.GameState) models.GameState {
	s.IsProcessing = false
	s.Error = InitFailureMessage
	return s
}

// BeginTurn admits a player action and applies the optimistic update: the
// action is appended to history and the choices are cleared before the
// engine answers. The returned request carries the context window computed
// from the history as it was before the action was appended.
func BeginTurn(s models.GameState, action string) (models.GameState, models.TurnRequest, error) {
	if s.Character == nil {
		return s, models.TurnRequest{}, ErrNoCharacter
	}
	if strings.TrimSpace(action) == "" {
		return s, models.TurnRequest{}, ErrEmptyInput
	}
	if s.IsProcessing {
		return s, models.TurnRequest{}, ErrBusy
	}
	if s.Status == models.StatusGameOver {
		return s, models.TurnRequest{}, ErrGameOver
	}

	req := models.TurnRequest{
		Action:        action,
		Character:     s.Character.Clone(),
		Summary:       s.Summary,
		RecentHistory: RecentHistory(s.History, ContextWindow),
		TurnCount:     s.TurnCount,
	}

	s.History = appendHistory(s.History, models.HistoryItem{
		Role:    models.RoleUser,
		Content: action,
		Type:    models.ItemAction,
	})
	s.CurrentChoices = []string{}
	s.IsProcessing = true
	s.Error = ""
	return s, req, nil
}

// ApplyTurn merges a turn response into the state.
func ApplyTurn(s models.GameState, resp *models.TurnResponse) models.GameState {
	if s.Character == nil {
		return s
	}
	prev := s.Character

	char := *prev
	char.HP.Current = Clamp(prev.HP.Current+resp.HPChange, 0, prev.HP.Max)
	char.SP.Current = Clamp(prev.SP.Current+resp.SPChange, 0, prev.SP.Max)
	char.Inventory = MergeInventory(prev.Inventory, resp.InventoryRemove, resp.InventoryAdd)
	if resp.QuestUpdate != "" {
		char.ActiveQuest = resp.QuestUpdate
	}
	char.Relationships = slices.Clone(resp.Relationships)
	if char.Relationships == nil {
		char.Relationships = []models.Relationship{}
	}
	s.Character = &char

	if resp.SummaryUpdate != "" {
		s.Summary = s.Summary + "\n" + resp.SummaryUpdate
	}

	if resp.IsGameOver {
		s.Status = models.StatusGameOver
	} else {
		s.Status = models.StatusPlaying
	}

	s.History = appendHistory(s.History, models.HistoryItem{
		Role:    models.RoleModel,
		Content: resp.Narrative,
		Type:    models.ItemNarrative,
	})
	s.CurrentChoices = slices.Clone(resp.Choices)
	if s.CurrentChoices == nil {
		s.CurrentChoices = []string{}
	}
	s.IsProcessing = false
	s.TurnCount++
	return s
}

// FailTurn keeps the optimistic action in history and only raises the
// error banner.
func FailTurn(s models.GameState) models.GameState {
	s.IsProcessing = false
	s.Error = TurnFailureMessage
	return s
}

// ToggleRelationshipPanel flips the panel visibility flag.
func ToggleRelationshipPanel(s models.GameState) models.GameState {
	s.IsRelationshipPanelOpen = !s.IsRelationshipPanelOpen
	return s
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// MergeInventory drops every item whose name appears in remove, then appends
// add in order. Duplicates of a removed name all go.
func MergeInventory(inventory, remove, add []string) []string {
	out := make([]string, 0, len(inventory)+len(add))
	for _, item := range inventory {
		if slices.Contains(remove, item) {
			continue
		}
		out = append(out, item)
	}
	return append(out, add...)
}

func appendHistory(history []models.HistoryItem, item models.HistoryItem) []models.HistoryItem {
	out := make([]models.HistoryItem, len(history), len(history)+1)
	copy(out, history)
	return append(out, item)
}
