package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// Gemini generates through the Gemini API.
type Gemini struct {
	apiKeyEnv string
	baseURL   string
	logger    zerolog.Logger
}

func NewGemini(apiKeyEnv, baseURL string, logger zerolog.Logger) *Gemini {
	return &Gemini{apiKeyEnv: apiKeyEnv, baseURL: baseURL, logger: logger}
}

func (g *Gemini) Generate(ctx context.Context, req Request) (string, error) {
	key, err := readCredential(g.apiKeyEnv)
	if err != nil {
		return "", err
	}

	cc := &genai.ClientConfig{APIKey: key, Backend: genai.BackendGeminiAPI}
	if g.baseURL != "" {
		cc.HTTPOptions.BaseURL = g.baseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(req.Contents), geminiConfig(req))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	if resp.UsageMetadata != nil {
		g.logger.Debug().
			Str("model", req.Model).
			Int32("prompt_tokens", resp.UsageMetadata.PromptTokenCount).
			Int32("thought_tokens", resp.UsageMetadata.ThoughtsTokenCount).
			Msg("generate content")
	}

	text := geminiText(resp)
	if text == "" {
		return "", fmt.Errorf("%w: %w from Gemini", ErrGenerationFailed, ErrEmptyResponse)
	}
	return text, nil
}

func geminiConfig(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: req.MIMEType,
		ResponseSchema:   toGenaiSchema(req.Schema),
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.ThinkingBudget > 0 {
		cfg.ThinkingConfig = &genai.ThinkingConfig{
			ThinkingBudget: genai.Ptr(int32(req.ThinkingBudget)),
		}
	}
	return cfg
}

// geminiText concatenates the answer parts of the first candidate, skipping
// thought summaries.
func geminiText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		b.WriteString(part.Text)
	}
	return b.String()
}

func toGenaiSchema(s *Schema) *genai.Schema {
	if s == nil {
		return nil
	}
	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
		Items:       toGenaiSchema(s.Items),
		Required:    s.Required,
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGenaiSchema(prop)
		}
	}
	return out
}

func genaiType(t Type) genai.Type {
	switch t {
	case TypeString:
		return genai.TypeString
	case TypeInteger:
		return genai.TypeInteger
	case TypeBoolean:
		return genai.TypeBoolean
	case TypeArray:
		return genai.TypeArray
	case TypeObject:
		return genai.TypeObject
	default:
		return genai.TypeUnspecified
	}
}
