// Package llm talks to the external generation service. Callers describe a
// request once (system instruction, contents, response schema) and any
// backend renders it in its own wire format.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

var (
	// ErrGenerationFailed wraps every backend failure.
	ErrGenerationFailed = errors.New("generation failed")
	// ErrMissingCredential is returned before any network attempt when the
	// API key variable is unset.
	ErrMissingCredential = errors.New("missing API credential")
	// ErrEmptyResponse means the backend answered without any text.
	ErrEmptyResponse = errors.New("empty response")
)

// MIMETypeJSON asks the backend for a bare JSON document.
const MIMETypeJSON = "application/json"

// Request is a single structured generation call.
type Request struct {
	// Label names the call site ("initialize", "turn") for logs and metrics.
	Label             string
	Model             string
	SystemInstruction string
	Contents          string
	Schema            *Schema
	MIMEType          string
	// ThinkingBudget is a reasoning-depth hint; 0 leaves the backend default.
	ThinkingBudget int
}

// Generator returns the raw text the backend produced for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Type is a JSON schema type.
type Type string

const (
	TypeString  Type = "string"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Schema is a backend-neutral subset of JSON schema.
type Schema struct {
	Type        Type
	Description string
	Items       *Schema
	Properties  map[string]*Schema
	Required    []string
}

// Provider names.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Options selects and configures a backend.
type Options struct {
	Provider string
	// APIKeyEnv is the environment variable holding the key. It is read on
	// every call, not at construction.
	APIKeyEnv       string
	BaseURL         string
	ReasoningEffort string
}

// New builds the generator for opts.Provider.
func New(opts Options, logger zerolog.Logger) (Generator, error) {
	logger = logger.With().Str("provider", opts.Provider).Logger()
	switch strings.ToLower(opts.Provider) {
	case ProviderGemini:
		return NewGemini(opts.APIKeyEnv, opts.BaseURL, logger), nil
	case ProviderOpenAI:
		return NewOpenAI(opts.APIKeyEnv, opts.BaseURL, opts.ReasoningEffort, logger), nil
	case ProviderOllama:
		return NewOllama(opts.BaseURL, logger)
	default:
		return nil, fmt.Errorf("unknown provider %q", opts.Provider)
	}
}

func readCredential(envName string) (string, error) {
	key := os.Getenv(envName)
	if key == "" {
		return "", fmt.Errorf("%w: %s is not set", ErrMissingCredential, envName)
	}
	return key, nil
}
