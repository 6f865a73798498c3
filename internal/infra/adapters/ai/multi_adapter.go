package ai

import (
	"context"
	"errors"
	"strings"

	"campus-chat/internal/domain/ports/adapter"
)

var _ adapter.CompletionStreamAdapter = (*MultiStreamAdapter)(nil)

// MultiStreamAdapter tries each provider in order until one produces a
// stream. A provider that already emitted deltas is never retried: those
// chunks are on the wire, so its error is final.
type MultiStreamAdapter struct {
	chain []adapter.CompletionStreamAdapter
}

func NewMultiStreamAdapter(chain ...adapter.CompletionStreamAdapter) *MultiStreamAdapter {
	return &MultiStreamAdapter{chain: chain}
}

func (m *MultiStreamAdapter) Name() string {
	names := make([]string, 0, len(m.chain))
	for _, a := range m.chain {
		names = append(names, a.Name())
	}
	return strings.Join(names, "+")
}

func (m *MultiStreamAdapter) StreamChat(ctx context.Context, systemPrompt, userQuery string, onDelta adapter.StreamHandler) error {
	if len(m.chain) == 0 {
		return errors.New("no completion providers configured")
	}

	var lastErr error
	for _, a := range m.chain {
		started := false
		err := a.StreamChat(ctx, systemPrompt, userQuery, func(delta string) error {
			started = true
			return onDelta(delta)
		})
		if err == nil {
			return nil
		}
		if started {
			return err
		}
		lastErr = err
	}
	return lastErr
}
