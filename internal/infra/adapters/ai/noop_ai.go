package ai

import (
	"context"
	"time"

	"campus-chat/internal/domain/ports/adapter"
)

var _ adapter.CompletionStreamAdapter = (*NoopStreamAdapter)(nil)

// NoopStreamAdapter fakes a completion stream for local/dev runs: it echoes
// a canned reply a few runes at a time so the chunked rendering path can be
// exercised without a provider key.
type NoopStreamAdapter struct {
	Reply string
}

func NewNoopStreamAdapter() *NoopStreamAdapter {
	return &NoopStreamAdapter{Reply: "这是一条本地测试回复，用于验证流式渲染。"}
}

func (a *NoopStreamAdapter) Name() string { return "noop" }

func (a *NoopStreamAdapter) StreamChat(ctx context.Context, systemPrompt, userQuery string, onDelta adapter.StreamHandler) error {
	const chunkRunes = 4
	runes := []rune(a.Reply)
	for i := 0; i < len(runes); i += chunkRunes {
		select {
		case <-time.After(50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
		end := i + chunkRunes
		if end > len(runes) {
			end = len(runes)
		}
		if err := onDelta(string(runes[i:end])); err != nil {
			return err
		}
	}
	return nil
}
