package ai

import (
	"context"
	"errors"

	"campus-chat/internal/domain/ports/adapter"

	"google.golang.org/genai"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.CompletionStreamAdapter = (*GeminiStreamAdapter)(nil)

// GeminiStreamAdapter streams completions from the Gemini API using the
// official SDK.
type GeminiStreamAdapter struct {
	client *genai.Client
	model  string
}

func NewGeminiStreamAdapter(ctx context.Context, apiKey, baseURL, model string) (*GeminiStreamAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiStreamAdapter{client: c, model: model}, nil
}

func (g *GeminiStreamAdapter) Name() string { return "gemini" }

func (g *GeminiStreamAdapter) StreamChat(ctx context.Context, systemPrompt, userQuery string, onDelta adapter.StreamHandler) error {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}
	for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, genai.Text(userQuery), cfg) {
		if err != nil {
			return err
		}
		if delta := resp.Text(); delta != "" {
			if err := onDelta(delta); err != nil {
				return err
			}
		}
	}
	return nil
}
