// File: internal/usecase/room_uc.go
package usecase

import (
	"context"

	"campus-chat/internal/domain"
	"campus-chat/internal/domain/model"
	"campus-chat/internal/infra/logging"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ ConnectionGateway = (*roomUC)(nil)

// ConnectionGateway drives the per-connection lifecycle:
// Anonymous -> LoggedIn -> Closed. Anonymous vs LoggedIn is derived from the
// presence registry; Closed is enforced by the transport, which stops
// delivering events for a connection once its read loop exits.
type ConnectionGateway interface {
	HandleConnect(conn model.Connection)
	HandleLogin(ctx context.Context, conn model.Connection, username string)
	HandleMessage(ctx context.Context, conn model.Connection, text string, timestamp int64)
	HandleDisconnect(conn model.Connection)
}

type rosterEvent struct {
	Username    string   `json:"username"`
	OnlineUsers []string `json:"online_users"`
}

type sentEvent struct {
	Status    string `json:"status"`
	MessageID string `json:"message_id,omitempty"`
}

type roomUC struct {
	presence PresenceRegistry
	history  HistoryBuffer
	rooms    RoomBroadcaster
	dispatch CommandDispatcher
	log      *zerolog.Logger
}

func NewConnectionGateway(
	presence PresenceRegistry,
	history HistoryBuffer,
	rooms RoomBroadcaster,
	dispatch CommandDispatcher,
	logger *zerolog.Logger,
) *roomUC {
	return &roomUC{
		presence: presence,
		history:  history,
		rooms:    rooms,
		dispatch: dispatch,
		log:      logger,
	}
}

func (r *roomUC) HandleConnect(conn model.Connection) {
	r.log.Debug().Str("conn_id", conn.ID()).Msg("client connected")
}

// HandleLogin validates the username against the presence registry. On
// conflict the connection stays Anonymous and may retry; on success the
// joiner privately receives its acknowledgment and the history replay while
// the rest of the room gets the join announcement.
func (r *roomUC) HandleLogin(ctx context.Context, conn model.Connection, username string) {
	log := logging.With(logging.WithConnID(ctx, conn.ID()), r.log)
	defer logging.TraceDuration(log, "RoomUC.HandleLogin")()

	if username == "" {
		r.sendTo(conn, model.EventLoginFailed, errorEvent{Message: "用户名不能为空"})
		return
	}

	_, err := r.presence.Login(username, conn)
	if err != nil {
		log.Info().Err(err).Str("username", username).Msg("login rejected")
		msg := "用户名已存在"
		if err == domain.ErrAlreadyExists {
			msg = "当前连接已登录"
		}
		r.sendTo(conn, model.EventLoginFailed, errorEvent{Message: msg})
		return
	}

	roster := r.presence.ListUsernames()
	r.sendTo(conn, model.EventLoginSuccess, rosterEvent{Username: username, OnlineUsers: roster})
	r.sendTo(conn, model.EventHistoryMessages, r.history.Snapshot())
	r.rooms.Broadcast(model.EventUserJoined, rosterEvent{Username: username, OnlineUsers: roster}, conn)
}

// HandleMessage routes one chat submission through the dispatcher. Any
// unexpected fault is contained here: logged, reported privately, and never
// allowed to take the connection (or its peers) down.
func (r *roomUC) HandleMessage(ctx context.Context, conn model.Connection, text string, timestamp int64) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error().Interface("panic", rec).Str("conn_id", conn.ID()).Msg("dispatch fault recovered")
			r.sendTo(conn, model.EventError, errorEvent{Message: "消息处理失败"})
		}
	}()

	sess, ok := r.presence.Lookup(conn)
	if !ok {
		r.sendTo(conn, model.EventError, errorEvent{Message: "请先登录"})
		return
	}

	id, err := r.dispatch.Dispatch(ctx, sess, text, timestamp)
	if err != nil {
		r.log.Error().Err(err).Str("username", sess.Username).Msg("dispatch failed")
		r.sendTo(conn, model.EventError, errorEvent{Message: "消息处理失败"})
		return
	}
	r.sendTo(conn, model.EventMessageSent, sentEvent{Status: "ok", MessageID: id})
}

// HandleDisconnect releases the username, if any, and announces the
// departure. A connection that never logged in leaves silently.
func (r *roomUC) HandleDisconnect(conn model.Connection) {
	username, ok := r.presence.Logout(conn)
	if !ok {
		r.log.Debug().Str("conn_id", conn.ID()).Msg("anonymous client disconnected")
		return
	}
	r.rooms.Broadcast(model.EventUserLeft, rosterEvent{Username: username, OnlineUsers: r.presence.ListUsernames()}, nil)
}

func (r *roomUC) sendTo(conn model.Connection, event string, payload any) {
	if err := conn.Send(event, payload); err != nil {
		r.log.Debug().Err(err).Str("event", event).Str("conn_id", conn.ID()).Msg("private send dropped")
	}
}
