package adapter

import "context"

// StreamHandler receives one completion delta. Returning an error aborts the
// stream and is propagated out of StreamChat.
type StreamHandler func(delta string) error

// CompletionStreamAdapter is the port for token-streamed LLM completions.
// The stream is finite and not restartable: implementations call onDelta for
// each text fragment in order and return once the provider closes the stream.
type CompletionStreamAdapter interface {
	// Name identifies the provider for logs and metrics.
	Name() string

	// StreamChat opens a completion stream seeded with a system prompt and a
	// single user turn.
	StreamChat(ctx context.Context, systemPrompt, userQuery string, onDelta StreamHandler) error
}
