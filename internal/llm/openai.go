package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// OpenAI generates through any OpenAI-compatible chat completions API
// (OpenAI itself, OpenRouter, vLLM...).
type OpenAI struct {
	apiKeyEnv       string
	baseURL         string
	reasoningEffort string
	logger          zerolog.Logger
}

func NewOpenAI(apiKeyEnv, baseURL, reasoningEffort string, logger zerolog.Logger) *OpenAI {
	return &OpenAI{
		apiKeyEnv:       apiKeyEnv,
		baseURL:         baseURL,
		reasoningEffort: reasoningEffort,
		logger:          logger,
	}
}

func (o *OpenAI) Generate(ctx context.Context, req Request) (string, error) {
	key, err := readCredential(o.apiKeyEnv)
	if err != nil {
		return "", err
	}

	cfg := openai.DefaultConfig(key)
	if o.baseURL != "" {
		cfg.BaseURL = o.baseURL
	}
	client := openai.NewClientWithConfig(cfg)

	messages := []openai.ChatCompletionMessage{}
	if req.SystemInstruction != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemInstruction,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Contents,
	})

	creq := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: messages,
	}
	switch {
	case req.Schema != nil:
		schema := toJSONSchema(req.Schema)
		creq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   schemaName(req.Label),
				Schema: &schema,
				// strict mode forbids optional properties such as questUpdate
				Strict: false,
			},
		}
	case req.MIMEType == MIMETypeJSON:
		creq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	if req.ThinkingBudget > 0 && o.reasoningEffort != "" {
		creq.ReasoningEffort = o.reasoningEffort
	}

	start := time.Now()
	resp, err := client.CreateChatCompletion(ctx, creq)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	o.logger.Debug().
		Str("model", req.Model).
		Dur("elapsed", time.Since(start)).
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Msg("chat completion")

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: %w from OpenAI", ErrGenerationFailed, ErrEmptyResponse)
	}
	return resp.Choices[0].Message.Content, nil
}

func schemaName(label string) string {
	if label == "" {
		return "response"
	}
	return label + "_response"
}

func toJSONSchema(s *Schema) jsonschema.Definition {
	def := jsonschema.Definition{
		Type:        jsonschema.DataType(s.Type),
		Description: s.Description,
		Required:    s.Required,
	}
	if s.Items != nil {
		items := toJSONSchema(s.Items)
		def.Items = &items
	}
	if len(s.Properties) > 0 {
		def.Properties = make(map[string]jsonschema.Definition, len(s.Properties))
		for name, prop := range s.Properties {
			def.Properties[name] = toJSONSchema(prop)
		}
	}
	return def
}
