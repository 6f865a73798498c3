package ai

import (
	"context"
	"errors"
	"strings"

	"campus-chat/internal/domain/ports/adapter"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.CompletionStreamAdapter = (*OpenAIStreamAdapter)(nil)

// OpenAIStreamAdapter streams chat completions from any OpenAI-compatible
// endpoint (SiliconFlow, OpenAI, ...) via SSE deltas.
type OpenAIStreamAdapter struct {
	client openai.Client
	model  string
	name   string
}

func NewOpenAIStreamAdapter(apiKey, baseURL, model string) (*OpenAIStreamAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai-compatible api key empty")
	}
	if model == "" {
		model = "Qwen/Qwen2.5-7B-Instruct"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	name := "openai"
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimRight(baseURL, "/")))
		if strings.Contains(baseURL, "siliconflow") {
			name = "siliconflow"
		}
	}
	return &OpenAIStreamAdapter{
		client: openai.NewClient(opts...),
		model:  model,
		name:   name,
	}, nil
}

func (o *OpenAIStreamAdapter) Name() string { return o.name }

func (o *OpenAIStreamAdapter) StreamChat(ctx context.Context, systemPrompt, userQuery string, onDelta adapter.StreamHandler) error {
	stream := o.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userQuery),
		},
	})
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			if err := onDelta(delta); err != nil {
				return err
			}
		}
	}
	return stream.Err()
}
