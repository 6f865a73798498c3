// File: internal/infra/ws/server.go
package ws

import (
	"net/http"
	"strings"

	"campus-chat/internal/usecase"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Handler upgrades HTTP requests at the websocket endpoint and hands each
// connection to a Client.
type Handler struct {
	upgrader websocket.Upgrader
	gateway  usecase.ConnectionGateway
	log      *zerolog.Logger
}

// NewHandler builds the upgrade handler. allowedOrigins is a list of exact
// Origin values; an empty list or a "*" entry accepts every origin.
func NewHandler(gateway usecase.ConnectionGateway, allowedOrigins []string, logger *zerolog.Logger) *Handler {
	h := &Handler{gateway: gateway, log: logger}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     originChecker(allowedOrigins),
	}
	return h
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[strings.TrimSuffix(o, "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[strings.TrimSuffix(origin, "/")]
		return ok
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	client := NewClient(conn, h.gateway, h.log)
	h.log.Debug().Str("conn_id", client.ID()).Str("remote", r.RemoteAddr).Msg("websocket connected")
	go client.Run()
}
