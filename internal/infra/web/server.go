// File: internal/infra/web/server.go

// Package web serves the HTTP surface of the chat service: the login page
// API, the websocket upgrade endpoint, health, and Prometheus metrics.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"campus-chat/internal/config"
	"campus-chat/internal/usecase"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

type Server struct {
	cfg       *config.Config
	accountUC usecase.AccountUseCase
	presence  usecase.PresenceRegistry
	auth      *AuthManager
	wsHandler http.Handler
	log       *zerolog.Logger

	server *http.Server
}

func NewServer(
	cfg *config.Config,
	accountUC usecase.AccountUseCase,
	presence usecase.PresenceRegistry,
	auth *AuthManager,
	wsHandler http.Handler,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		cfg:       cfg,
		accountUC: accountUC,
		presence:  presence,
		auth:      auth,
		wsHandler: wsHandler,
		log:       logger,
	}
}

// Router builds the full route table. Split out from Start so tests can
// drive it through httptest without opening a listener.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/servers", serversHandler(s.cfg.Servers))
		r.Get("/online", onlineHandler(s.presence))
		r.Post("/check_username", checkUsernameHandler(s.presence))
		r.Post("/register", registerHandler(s.accountUC, s.auth))
		r.Post("/login", loginHandler(s.accountUC, s.auth))
		r.Post("/logout", logoutHandler(s.auth))
		r.Get("/session", sessionHandler(s.auth))
	})

	r.Handle("/ws", s.wsHandler)
	return r
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Info().Str("addr", addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// websocket requests are long lived; logging them on completion
		// would only fire at disconnect
		if r.URL.Path == "/ws" {
			next.ServeHTTP(w, r)
			return
		}
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("http request")
	})
}
