package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

// geminiBackend calls the Gemini API through the genai SDK.
type geminiBackend struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates an LLMClient backed by Google's Gemini API.
func NewGeminiClient(ctx context.Context, cfg LLMConfig, observer Observer) (LLMClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: set GEMINI_API_KEY", ErrMissingAPIKey)
	}
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.Endpoint != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.Endpoint}
	}
	c, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel(ProviderGemini)
	}
	return newClient(cfg, &geminiBackend{client: c, model: model}, observer), nil
}

func (b *geminiBackend) complete(ctx context.Context, c completion) (string, string, error) {
	system, rest := flattenSystem(c.Messages)

	contents := make([]*genai.Content, 0, len(rest))
	for _, m := range rest {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(c.Temperature)),
	}
	if c.MaxTokens > 0 {
		gc.MaxOutputTokens = int32(c.MaxTokens)
	}
	if system != "" {
		gc.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	res, err := b.client.Models.GenerateContent(ctx, c.Model, contents, gc)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) && isPermanentStatus(apiErr.Code) && apiErr.Code != http.StatusNotFound {
			return "", "", fmt.Errorf("%w: %v", ErrRejected, err)
		}
		return "", "", err
	}
	return res.Text(), res.ModelVersion, nil
}

func (b *geminiBackend) available(ctx context.Context) bool {
	_, err := b.client.Models.Get(ctx, b.model, nil)
	return err == nil
}
