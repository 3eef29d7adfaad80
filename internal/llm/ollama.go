package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/ollama/ollama/api"
	"github.com/rs/zerolog"
)

// Ollama generates through a local Ollama server. It needs no credential.
type Ollama struct {
	client *api.Client
	logger zerolog.Logger
}

// NewOllama connects to baseURL, or to OLLAMA_HOST when baseURL is empty.
func NewOllama(baseURL string, logger zerolog.Logger) (*Ollama, error) {
	if baseURL == "" {
		client, err := api.ClientFromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("ollama client from environment: %w", err)
		}
		return &Ollama{client: client, logger: logger}, nil
	}

	// api.NewClient wants the bare host, without the OpenAI-style suffix.
	base := strings.TrimSuffix(strings.TrimSuffix(baseURL, "/"), "/v1")
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("parse ollama base URL %q: %w", baseURL, err)
	}
	return &Ollama{client: api.NewClient(u, http.DefaultClient), logger: logger}, nil
}

func (o *Ollama) Generate(ctx context.Context, req Request) (string, error) {
	messages := []api.Message{}
	if req.SystemInstruction != "" {
		messages = append(messages, api.Message{Role: "system", Content: req.SystemInstruction})
	}
	messages = append(messages, api.Message{Role: "user", Content: req.Contents})

	stream := false
	creq := &api.ChatRequest{
		Model:    req.Model,
		Messages: messages,
		Stream:   &stream,
	}
	switch {
	case req.Schema != nil:
		schema := toJSONSchema(req.Schema)
		format, err := json.Marshal(&schema)
		if err != nil {
			return "", fmt.Errorf("%w: encode schema: %w", ErrGenerationFailed, err)
		}
		creq.Format = format
	case req.MIMEType == MIMETypeJSON:
		creq.Format = json.RawMessage(`"json"`)
	}

	var out strings.Builder
	var evalCount int
	err := o.client.Chat(ctx, creq, func(r api.ChatResponse) error {
		out.WriteString(r.Message.Content)
		if r.Done {
			evalCount = r.EvalCount
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	o.logger.Debug().Str("model", req.Model).Int("eval_count", evalCount).Msg("ollama chat")

	if out.Len() == 0 {
		return "", fmt.Errorf("%w: %w from Ollama", ErrGenerationFailed, ErrEmptyResponse)
	}
	return out.String(), nil
}
