package usecase

import (
	"errors"
	"testing"

	"campus-chat/internal/domain/model"
)

type responderHarness struct {
	room *room
	ai   *fakeAI
}

func newResponder(t *testing.T, ai *fakeAI) (*responderHarness, StreamingResponder) {
	t.Helper()
	r := newRoom(t)
	resp := NewStreamingResponder(ai, r.rooms, syncRunner{}, "川小农", "prompt", 0, nopLogger())
	return &responderHarness{room: r, ai: ai}, resp
}

func chunksOf(c *fakeConn) []chunkEvent {
	var out []chunkEvent
	for _, rec := range c.events() {
		if rec.Event == model.EventAIResponseChunk {
			out = append(out, rec.Payload.(chunkEvent))
		}
	}
	return out
}

func TestResponder_StreamsAndAccumulates(t *testing.T) {
	t.Parallel()

	h, resp := newResponder(t, &fakeAI{Deltas: []string{"今天", "天气", "不错"}})

	if err := resp.Respond("今天天气怎么样", 42); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	chunks := chunksOf(h.room.peer)
	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks got %d", len(chunks))
	}
	if chunks[0].Chunk != "今天" || chunks[0].FullResponse != "今天" {
		t.Fatalf("unexpected first chunk %+v", chunks[0])
	}
	last := chunks[len(chunks)-1]
	if last.FullResponse != "今天天气不错" {
		t.Fatalf("expected running text to accumulate, got %q", last.FullResponse)
	}
	if last.Sender != "川小农" || last.Timestamp != 42 {
		t.Fatalf("unexpected chunk attribution %+v", last)
	}

	snap := h.room.history.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("expected 1 history entry got %d", len(snap))
	}
	if snap[0].Kind != model.KindAIResponse || snap[0].Text != "今天天气不错" || snap[0].Username != "川小农" {
		t.Fatalf("unexpected history entry %+v", snap[0])
	}
	// the durable entry keeps the triggering timestamp the chunks carried
	if snap[0].Timestamp != 42 {
		t.Fatalf("expected timestamp 42 got %d", snap[0].Timestamp)
	}
}

func TestResponder_StreamErrorApologizes(t *testing.T) {
	t.Parallel()

	h, resp := newResponder(t, &fakeAI{Deltas: []string{"部分"}, Err: errors.New("provider reset")})

	if err := resp.Respond("q", 1); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	chunks := chunksOf(h.room.peer)
	if len(chunks) != 2 {
		t.Fatalf("expected partial chunk plus apology got %d", len(chunks))
	}
	if chunks[1].Chunk != streamApology {
		t.Fatalf("expected apology chunk got %q", chunks[1].Chunk)
	}
	if h.room.history.Len() != 0 {
		t.Fatalf("failed stream must not be recorded")
	}
}

func TestResponder_EmptyStreamApologizes(t *testing.T) {
	t.Parallel()

	h, resp := newResponder(t, &fakeAI{})

	if err := resp.Respond("q", 1); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	chunks := chunksOf(h.room.peer)
	if len(chunks) != 1 || chunks[0].Chunk != streamApology {
		t.Fatalf("expected a single apology chunk got %v", chunks)
	}
	if h.room.history.Len() != 0 {
		t.Fatalf("empty stream must not be recorded")
	}
}

func TestResponder_NoProviderConfigured(t *testing.T) {
	t.Parallel()

	r := newRoom(t)
	resp := NewStreamingResponder(nil, r.rooms, syncRunner{}, "川小农", "prompt", 0, nopLogger())

	if err := resp.Respond("q", 1); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	chunks := chunksOf(r.peer)
	if len(chunks) != 1 || chunks[0].Chunk != "AI 功能未启用" {
		t.Fatalf("expected a disabled notice got %v", chunks)
	}
}
