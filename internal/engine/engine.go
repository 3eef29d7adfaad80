package engine

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/rs/zerolog"

	"github.com/tatianab/text-rpg/internal/llm"
	"github.com/tatianab/text-rpg/internal/models"
)

//go:embed prompts/system_instruction.txt
var systemInstruction string

//go:embed prompts/initialize_game.txt
var initializeGamePrompt string

//go:embed prompts/process_turn.txt
var processTurnPrompt string

// DefaultThinkingBudget is the reasoning hint sent with turn calls.
const DefaultThinkingBudget = 2048

type Options struct {
	Model          string
	ThinkingBudget int
}

type Engine struct {
	gen    llm.Generator
	opts   Options
	logger zerolog.Logger
}

func NewEngine(gen llm.Generator, opts Options, logger zerolog.Logger) *Engine {
	if opts.Model == "" {
		opts.Model = llm.DefaultGeminiModel
	}
	return &Engine{
		gen:    gen,
		opts:   opts,
		logger: logger,
	}
}

// SystemInstruction is the fixed rule set sent with every call.
func SystemInstruction() string {
	return strings.TrimSpace(systemInstruction)
}

func (e *Engine) InitializeGame(ctx context.Context, premise string) (*models.InitResponse, error) {
	tmpl, err := template.New("initialize_game").Parse(initializeGamePrompt)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, struct{ Premise string }{Premise: premise}); err != nil {
		return nil, err
	}

	text, err := e.gen.Generate(ctx, llm.Request{
		Label:             "initialize",
		Model:             e.opts.Model,
		SystemInstruction: SystemInstruction(),
		Contents:          buf.String(),
		Schema:            initSchema,
		MIMEType:          llm.MIMETypeJSON,
	})
	if err != nil {
		return nil, err
	}

	var resp models.InitResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse init JSON: %w\nOutput was: %s", err, text)
	}

	e.logger.Debug().Str("class", resp.ClassTitle).Int("stats", len(resp.Stats)).Msg("init response decoded")
	return &resp, nil
}

func (e *Engine) ProcessTurn(ctx context.Context, req models.TurnRequest) (*models.TurnResponse, error) {
	contents, err := renderTurnPrompt(req)
	if err != nil {
		return nil, err
	}

	text, err := e.gen.Generate(ctx, llm.Request{
		Label:             "turn",
		Model:             e.opts.Model,
		SystemInstruction: SystemInstruction(),
		Contents:          contents,
		Schema:            turnSchema,
		MIMEType:          llm.MIMETypeJSON,
		ThinkingBudget:    e.opts.ThinkingBudget,
	})
	if err != nil {
		return nil, err
	}

	var resp models.TurnResponse
	if err := json.Unmarshal([]byte(text), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse turn JSON: %w\nOutput was: %s", err, text)
	}

	e.logger.Debug().
		Int("turn", req.TurnCount).
		Int("prompt_bytes", len(contents)).
		Bool("game_over", resp.IsGameOver).
		Msg("turn response decoded")
	return &resp, nil
}

func renderTurnPrompt(req models.TurnRequest) (string, error) {
	tmpl, err := template.New("process_turn").Parse(processTurnPrompt)
	if err != nil {
		return "", err
	}

	stats, err := compactJSON(req.Character.Stats)
	if err != nil {
		return "", err
	}
	inventory, err := compactJSON(req.Character.Inventory)
	if err != nil {
		return "", err
	}
	relationships, err := compactJSON(req.Character.Relationships)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	data := struct {
		models.TurnRequest
		Stats         string
		Inventory     string
		Relationships string
	}{
		TurnRequest:   req,
		Stats:         stats,
		Inventory:     inventory,
		Relationships: relationships,
	}
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// compactJSON renders v the way the engine expects to read lists back, with
// nil slices as [] rather than null.
func compactJSON[T any](v []T) (string, error) {
	if v == nil {
		v = []T{}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
