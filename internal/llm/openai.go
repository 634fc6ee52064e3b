package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openaiBackend uses the official SDK's chat completions endpoint.
type openaiBackend struct {
	client openai.Client
}

// NewOpenAIClient creates an LLMClient backed by the OpenAI chat
// completions API. Retries are handled by the wrapper, not the SDK.
func NewOpenAIClient(cfg LLMConfig, observer Observer) (LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: set OPENAI_API_KEY", ErrMissingAPIKey)
	}
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(0),
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(cfg.Endpoint))
	}
	b := &openaiBackend{client: openai.NewClient(opts...)}
	return newClient(cfg, b, observer), nil
}

func (b *openaiBackend) complete(ctx context.Context, c completion) (string, string, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(c.Messages))
	for _, m := range c.Messages {
		switch m.Role {
		case RoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Content))
		case RoleAssistant:
			msgs = append(msgs, openai.ChatCompletionMessageParamOfAssistant(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.Model),
		Messages:    msgs,
		Temperature: openai.Float(c.Temperature),
	}
	if c.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.MaxTokens))
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && isPermanentStatus(apiErr.StatusCode) {
			return "", "", fmt.Errorf("%w: %v", ErrRejected, err)
		}
		return "", "", err
	}
	if len(resp.Choices) == 0 {
		return "", "", errors.New("openai: empty choices")
	}
	return resp.Choices[0].Message.Content, resp.Model, nil
}

func (b *openaiBackend) available(ctx context.Context) bool {
	_, err := b.client.Models.List(ctx)
	return err == nil
}

// isPermanentStatus reports whether retrying an HTTP status is pointless.
func isPermanentStatus(code int) bool {
	switch code {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound, http.StatusUnprocessableEntity:
		return true
	default:
		return false
	}
}
