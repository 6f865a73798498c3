// File: internal/usecase/responder_uc.go
package usecase

import (
	"context"
	"strings"
	"time"

	"campus-chat/internal/domain/model"
	"campus-chat/internal/domain/ports/adapter"
	"campus-chat/internal/infra/metrics"
	"campus-chat/internal/infra/worker"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog"
)

// TaskRunner schedules background room work; satisfied by *worker.Pool.
type TaskRunner interface {
	Submit(task worker.Task) error
}

// Compile-time check
var _ StreamingResponder = (*responderUC)(nil)

// StreamingResponder turns one AI query into an ordered sequence of chunk
// broadcasts plus one durable history entry. It never blocks the connection
// that triggered it, and no failure of the external service can escape it.
type StreamingResponder interface {
	// Respond schedules the streamed answer for query. The caller must have
	// already broadcast the ai_chat placeholder; chunk ordering relies on it.
	Respond(query string, timestamp int64) error
}

const streamApology = "抱歉，川小农暂时无法回答，请稍后再试。"

type chunkEvent struct {
	Sender       string `json:"sender"`
	Chunk        string `json:"chunk"`
	FullResponse string `json:"full_response"`
	Timestamp    int64  `json:"timestamp"`
}

type responderUC struct {
	ai            adapter.CompletionStreamAdapter
	rooms         RoomBroadcaster
	runner        TaskRunner
	botName       string
	systemPrompt  string
	chunkInterval time.Duration
	encoder       *tiktoken.Tiktoken
	log           *zerolog.Logger
}

func NewStreamingResponder(
	ai adapter.CompletionStreamAdapter,
	rooms RoomBroadcaster,
	runner TaskRunner,
	botName, systemPrompt string,
	chunkInterval time.Duration,
	logger *zerolog.Logger,
) *responderUC {
	// Best-effort token accounting; streamed deltas carry no usage info.
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		logger.Warn().Err(err).Msg("tokenizer unavailable, token metrics disabled")
		enc = nil
	}
	return &responderUC{
		ai:            ai,
		rooms:         rooms,
		runner:        runner,
		botName:       botName,
		systemPrompt:  systemPrompt,
		chunkInterval: chunkInterval,
		encoder:       enc,
		log:           logger,
	}
}

func (r *responderUC) Respond(query string, timestamp int64) error {
	return r.runner.Submit(func(ctx context.Context) error {
		r.run(ctx, query, timestamp)
		return nil
	})
}

func (r *responderUC) run(ctx context.Context, query string, timestamp int64) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Interface("panic", rec).Msg("responder panic recovered")
			r.apologize(timestamp)
		}
	}()

	if r.ai == nil {
		r.rooms.Broadcast(model.EventAIResponseChunk, chunkEvent{
			Sender:       r.botName,
			Chunk:        "AI 功能未启用",
			FullResponse: "AI 功能未启用",
			Timestamp:    timestamp,
		}, nil)
		return
	}

	start := time.Now()
	var sb strings.Builder
	err := r.ai.StreamChat(ctx, r.systemPrompt, query, func(delta string) error {
		if delta == "" {
			return nil
		}
		sb.WriteString(delta)
		r.rooms.Broadcast(model.EventAIResponseChunk, chunkEvent{
			Sender:       r.botName,
			Chunk:        delta,
			FullResponse: sb.String(),
			Timestamp:    timestamp,
		}, nil)
		metrics.IncStreamChunk(r.ai.Name())
		if r.chunkInterval > 0 {
			select {
			case <-time.After(r.chunkInterval):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	full := sb.String()
	latency := int(time.Since(start).Milliseconds())

	if err != nil || full == "" {
		if err != nil {
			r.log.Error().Err(err).Str("provider", r.ai.Name()).Msg("completion stream failed")
		}
		metrics.ObserveStream(r.ai.Name(), 0, latency, false)
		r.apologize(timestamp)
		return
	}

	// Stamped with the triggering message's timestamp so clients keying the
	// rendering slot by timestamp see the same value live and on replay.
	r.rooms.Record(model.NewMessage(r.botName, full, timestamp, model.KindAIResponse, nil))
	metrics.ObserveStream(r.ai.Name(), r.countTokens(full), latency, true)
}

// apologize emits a single user-visible error chunk; nothing is appended to
// history on this path.
func (r *responderUC) apologize(timestamp int64) {
	r.rooms.Broadcast(model.EventAIResponseChunk, chunkEvent{
		Sender:       r.botName,
		Chunk:        streamApology,
		FullResponse: streamApology,
		Timestamp:    timestamp,
	}, nil)
}

func (r *responderUC) countTokens(text string) int {
	if r.encoder == nil {
		return 0
	}
	return len(r.encoder.Encode(text, nil, nil))
}
