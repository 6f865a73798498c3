// File: internal/usecase/broadcast_uc.go
package usecase

import (
	"sync"

	"campus-chat/internal/domain/model"
	"campus-chat/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ RoomBroadcaster = (*broadcastUC)(nil)

// RoomBroadcaster fans an event out to every live connection. Delivery is
// fire-and-forget per connection: one slow or dead peer never blocks the
// rest and never surfaces as an error to the sender.
//
// It is also the single ordering point for durable messages: Publish and
// Record share one lock, so the relative order two persisted messages reach
// live clients in is the order a later history replay shows them in.
type RoomBroadcaster interface {
	// Broadcast delivers payload under event to all connections known to the
	// presence registry, skipping exclude when non-nil.
	Broadcast(event string, payload any, exclude model.Connection)

	// Publish broadcasts msg under event and appends it to history as one
	// atomic step with respect to other Publish and Record calls.
	Publish(event string, msg model.Message)

	// Record appends msg to history under the same ordering lock as Publish,
	// without a broadcast of its own.
	Record(msg model.Message)
}

type broadcastUC struct {
	presence PresenceRegistry
	history  HistoryBuffer

	// mu serializes Publish and Record so replay order matches live order.
	mu  sync.Mutex
	log *zerolog.Logger
}

func NewRoomBroadcaster(presence PresenceRegistry, history HistoryBuffer, logger *zerolog.Logger) *broadcastUC {
	return &broadcastUC{presence: presence, history: history, log: logger}
}

func (b *broadcastUC) Broadcast(event string, payload any, exclude model.Connection) {
	conns := b.presence.Connections()
	metrics.IncBroadcast(event)

	for _, conn := range conns {
		if exclude != nil && conn.ID() == exclude.ID() {
			continue
		}
		if err := conn.Send(event, payload); err != nil {
			metrics.IncBroadcastDrop()
			b.log.Debug().Err(err).Str("event", event).Str("conn_id", conn.ID()).Msg("broadcast delivery dropped")
		}
	}
}

func (b *broadcastUC) Publish(event string, msg model.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Broadcast(event, msg, nil)
	b.history.Append(msg)
}

func (b *broadcastUC) Record(msg model.Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.history.Append(msg)
}
