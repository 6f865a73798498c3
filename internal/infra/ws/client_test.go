package ws

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"campus-chat/internal/domain"

	"github.com/rs/zerolog"
)

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestClient_SendFramesEvents(t *testing.T) {
	t.Parallel()

	c := NewClient(nil, nil, nopLogger())
	if err := c.Send("new_message", map[string]string{"message": "hi"}); err != nil {
		t.Fatalf("Send: %v", err)
	}

	raw := <-c.send
	var f frame
	if err := json.Unmarshal(raw, &f); err != nil {
		t.Fatalf("unmarshal frame: %v", err)
	}
	if f.Event != "new_message" {
		t.Fatalf("expected event new_message got %q", f.Event)
	}
	var data map[string]string
	if err := json.Unmarshal(f.Data, &data); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
	if data["message"] != "hi" {
		t.Fatalf("unexpected data %v", data)
	}
}

func TestClient_SendPreservesOrder(t *testing.T) {
	t.Parallel()

	c := NewClient(nil, nil, nopLogger())
	for i := 0; i < 5; i++ {
		if err := c.Send("e", i); err != nil {
			t.Fatalf("Send %d: %v", i, err)
		}
	}
	for i := 0; i < 5; i++ {
		var f frame
		if err := json.Unmarshal(<-c.send, &f); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		var got int
		if err := json.Unmarshal(f.Data, &got); err != nil {
			t.Fatalf("unmarshal data: %v", err)
		}
		if got != i {
			t.Fatalf("expected payload %d got %d", i, got)
		}
	}
}

func TestClient_SendAfterCloseFails(t *testing.T) {
	t.Parallel()

	c := NewClient(nil, nil, nopLogger())
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	err := c.Send("e", "x")
	if !errors.Is(err, domain.ErrConnectionClosed) {
		t.Fatalf("expected ErrConnectionClosed got %v", err)
	}
}

func TestClient_SendDropsWhenSaturated(t *testing.T) {
	t.Parallel()

	c := NewClient(nil, nil, nopLogger())
	for i := 0; i < sendBuffer; i++ {
		if err := c.Send("e", i); err != nil {
			t.Fatalf("Send %d: %v", i, err)
		}
	}
	if err := c.Send("e", "overflow"); err == nil {
		t.Fatalf("expected an error once the buffer is full")
	}
}

func TestOriginChecker(t *testing.T) {
	t.Parallel()

	withOrigin := func(origin string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		return req
	}

	open := originChecker(nil)
	if !open(withOrigin("https://anywhere.example")) {
		t.Fatalf("empty allow list must accept every origin")
	}

	wildcard := originChecker([]string{"*"})
	if !wildcard(withOrigin("https://anywhere.example")) {
		t.Fatalf("wildcard must accept every origin")
	}

	strict := originChecker([]string{"https://chat.example.com/"})
	if !strict(withOrigin("https://chat.example.com")) {
		t.Fatalf("trailing slash in config must not break matching")
	}
	if strict(withOrigin("https://evil.example.com")) {
		t.Fatalf("unlisted origin must be rejected")
	}
	if !strict(withOrigin("")) {
		t.Fatalf("non-browser clients without an Origin header are allowed")
	}
}
