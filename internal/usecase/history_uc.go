// File: internal/usecase/history_uc.go
package usecase

import (
	"sync"

	"campus-chat/internal/domain/model"
	"campus-chat/internal/infra/metrics"
)

// Compile-time check
var _ HistoryBuffer = (*historyUC)(nil)

// HistoryBuffer is a bounded, append-only log of room messages, replayed to
// newly joined clients. Oldest entries are evicted first once the capacity
// is reached.
type HistoryBuffer interface {
	Append(msg model.Message)
	Snapshot() []model.Message
	Len() int
}

type historyUC struct {
	mu   sync.Mutex
	buf  []model.Message // ring storage, len(buf) == capacity
	head int             // index of the oldest entry
	size int
}

func NewHistoryBuffer(capacity int) *historyUC {
	if capacity <= 0 {
		capacity = 1000
	}
	return &historyUC{buf: make([]model.Message, capacity)}
}

// Append adds msg at the tail, evicting the head when full. O(1).
func (h *historyUC) Append(msg model.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.size == len(h.buf) {
		h.buf[h.head] = msg
		h.head = (h.head + 1) % len(h.buf)
		metrics.IncHistoryEviction()
		return
	}
	h.buf[(h.head+h.size)%len(h.buf)] = msg
	h.size++
}

// Snapshot returns a point-in-time copy, oldest first. Appends racing with
// the copy never corrupt or duplicate entries in the returned slice.
func (h *historyUC) Snapshot() []model.Message {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]model.Message, h.size)
	for i := 0; i < h.size; i++ {
		out[i] = h.buf[(h.head+i)%len(h.buf)]
	}
	return out
}

func (h *historyUC) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.size
}
