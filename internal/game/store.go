package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tatianab/text-rpg/internal/models"
)

// Engine is the external generation collaborator as seen by the store.
type Engine interface {
	InitializeGame(ctx context.Context, premise string) (*models.InitResponse, error)
	ProcessTurn(ctx context.Context, req models.TurnRequest) (*models.TurnResponse, error)
}

// Store owns the single GameState of a session. It is not safe for
// concurrent use: one goroutine (the UI loop) calls Begin*/Complete*, while
// Initialize and Resolve may run elsewhere because they only read their
// arguments.
type Store struct {
	id     uuid.UUID
	state  models.GameState
	engine Engine
	logger zerolog.Logger
}

// NewStore starts a fresh session.
func NewStore(eng Engine, logger zerolog.Logger) *Store {
	id := uuid.New()
	return &Store{
		id:     id,
		state:  NewState(),
		engine: eng,
		logger: logger.With().Str("session_id", id.String()).Logger(),
	}
}

// ID identifies the session in logs and transcripts.
func (s *Store) ID() uuid.UUID {
	return s.id
}

// State returns the current state. Callers must treat it as read-only.
func (s *Store) State() models.GameState {
	return s.state
}

// Transcript returns an exportable snapshot of the session.
func (s *Store) Transcript() models.Transcript {
	return models.Transcript{SessionID: s.id.String(), State: s.state}
}

// BeginInit marks the session busy for an initialization call.
func (s *Store) BeginInit(premise string) error {
	next, err := BeginInit(s.state, premise)
	if err != nil {
		return err
	}
	s.state = next
	s.logger.Info().Str("premise", premise).Msg("initializing game")
	return nil
}

// Initialize calls the engine. It does not touch the state.
func (s *Store) Initialize(ctx context.Context, premise string) (*models.InitResponse, error) {
	resp, err := s.engine.InitializeGame(ctx, premise)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInitialization, err)
	}
	return resp, nil
}

// CompleteInit commits an initialization result or records its failure.
func (s *Store) CompleteInit(premise string, resp *models.InitResponse, err error) {
	if err == nil && resp == nil {
		err = fmt.Errorf("%w: empty response", ErrInitialization)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("game initialization failed")
		s.state = FailInit(s.state)
		return
	}
	warnInit(s.logger, resp)
	s.state = ApplyInit(s.state, premise, resp)
	s.logger.Info().
		Str("class", resp.ClassTitle).
		Int("hp_max", resp.HPMax).
		Int("sp_max", resp.SPMax).
		Int("relationships", len(resp.Relationships)).
		Msg("game initialized")
}

// BeginTurn applies the optimistic update and returns the request to send.
func (s *Store) BeginTurn(action string) (models.TurnRequest, error) {
	next, req, err := BeginTurn(s.state, action)
	if err != nil {
		s.logger.Debug().Err(err).Str("action", action).Msg("action rejected")
		return models.TurnRequest{}, err
	}
	s.state = next
	s.logger.Info().Int("turn", req.TurnCount).Str("action", action).Msg("resolving turn")
	return req, nil
}

// Resolve calls the engine for a turn. It does not touch the state.
func (s *Store) Resolve(ctx context.Context, req models.TurnRequest) (*models.TurnResponse, error) {
	resp, err := s.engine.ProcessTurn(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTurn, err)
	}
	return resp, nil
}

// CompleteTurn merges a turn result or records its failure. On failure the
// action stays in history.
func (s *Store) CompleteTurn(resp *models.TurnResponse, err error) {
	if err == nil && resp == nil {
		err = fmt.Errorf("%w: empty response", ErrTurn)
	}
	if err != nil {
		s.logger.Error().Err(err).Int("turn", s.state.TurnCount).Msg("turn failed")
		s.state = FailTurn(s.state)
		return
	}
	warnTurn(s.logger, resp)
	s.state = ApplyTurn(s.state, resp)
	log := s.logger.Info().
		Int("turn", s.state.TurnCount).
		Int("hp_change", resp.HPChange).
		Int("sp_change", resp.SPChange).
		Strs("inventory_add", resp.InventoryAdd).
		Strs("inventory_remove", resp.InventoryRemove)
	if s.state.Status == models.StatusGameOver {
		log.Msg("game over")
		return
	}
	log.Msg("turn resolved")
}

// Start runs a whole initialization synchronously.
func (s *Store) Start(ctx context.Context, premise string) error {
	if err := s.BeginInit(premise); err != nil {
		return err
	}
	resp, err := s.Initialize(ctx, premise)
	s.CompleteInit(premise, resp, err)
	return err
}

// Act runs a whole turn synchronously.
func (s *Store) Act(ctx context.Context, action string) error {
	req, err := s.BeginTurn(action)
	if err != nil {
		return err
	}
	resp, err := s.Resolve(ctx, req)
	s.CompleteTurn(resp, err)
	return err
}

// ToggleRelationshipPanel opens or closes the relationship panel.
func (s *Store) ToggleRelationshipPanel() {
	s.state = ToggleRelationshipPanel(s.state)
}
