package web

import (
	"context"
	"net/http"
	"time"

	"campus-chat/internal/config"
	"campus-chat/internal/domain"
	"campus-chat/internal/domain/model"
	"campus-chat/internal/usecase"

	"github.com/rs/zerolog"
)

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- fake account use case ----

type fakeAccountUC struct {
	RegisterFunc func(ctx context.Context, username, password, nickname string) (*model.Account, error)
	LoginFunc    func(ctx context.Context, username, password string) (*model.Account, error)
}

var _ usecase.AccountUseCase = (*fakeAccountUC)(nil)

func (f *fakeAccountUC) Register(ctx context.Context, username, password, nickname string) (*model.Account, error) {
	return f.RegisterFunc(ctx, username, password, nickname)
}

func (f *fakeAccountUC) Login(ctx context.Context, username, password string) (*model.Account, error) {
	return f.LoginFunc(ctx, username, password)
}

func (f *fakeAccountUC) CheckUsername(ctx context.Context, username string) (bool, error) {
	return true, nil
}

// ---- fake presence ----

type fakePresence struct {
	online []string
}

var _ usecase.PresenceRegistry = (*fakePresence)(nil)

func (f *fakePresence) Login(username string, conn model.Connection) (*model.Session, error) {
	return nil, domain.ErrUsernameTaken
}
func (f *fakePresence) Logout(model.Connection) (string, bool)         { return "", false }
func (f *fakePresence) ListUsernames() []string                        { return f.online }
func (f *fakePresence) Connections() []model.Connection                { return nil }
func (f *fakePresence) Lookup(model.Connection) (*model.Session, bool) { return nil, false }
func (f *fakePresence) Count() int                                     { return len(f.online) }

// ---- wiring ----

func testServer(accounts usecase.AccountUseCase, presence usecase.PresenceRegistry) *Server {
	cfg := &config.Config{
		Servers: []config.ServerEntry{
			{Name: "本地", URL: "ws://localhost:5000/ws"},
		},
	}
	auth := NewAuthManager("test-secret", false, time.Hour)
	return NewServer(cfg, accounts, presence, auth, http.NotFoundHandler(), nopLogger())
}
