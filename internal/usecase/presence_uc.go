// File: internal/usecase/presence_uc.go
package usecase

import (
	"sort"
	"sync"

	"campus-chat/internal/domain"
	"campus-chat/internal/domain/model"
	"campus-chat/internal/infra/metrics"

	"github.com/rs/zerolog"
)

// Compile-time check
var _ PresenceRegistry = (*presenceUC)(nil)

// PresenceRegistry owns the username <-> connection binding for the room.
// Uniqueness invariant: no two sessions share a username and no two sessions
// share a connection. Login is the single guarded entry point.
type PresenceRegistry interface {
	Login(username string, conn model.Connection) (*model.Session, error)
	Logout(conn model.Connection) (string, bool)
	ListUsernames() []string
	Connections() []model.Connection
	Lookup(conn model.Connection) (*model.Session, bool)
	Count() int
}

type presenceUC struct {
	mu     sync.Mutex
	byName map[string]*model.Session
	byConn map[string]*model.Session
	log    *zerolog.Logger
}

func NewPresenceRegistry(logger *zerolog.Logger) *presenceUC {
	return &presenceUC{
		byName: make(map[string]*model.Session),
		byConn: make(map[string]*model.Session),
		log:    logger,
	}
}

// Login atomically binds username to conn. Returns domain.ErrUsernameTaken if
// the name is already held by a live session, domain.ErrAlreadyExists if the
// connection already logged in under another name.
func (p *presenceUC) Login(username string, conn model.Connection) (*model.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, taken := p.byName[username]; taken {
		metrics.IncLoginFailure()
		return nil, domain.ErrUsernameTaken
	}
	if _, bound := p.byConn[conn.ID()]; bound {
		return nil, domain.ErrAlreadyExists
	}

	sess := model.NewSession(username, conn)
	p.byName[username] = sess
	p.byConn[conn.ID()] = sess
	metrics.SetOnlineUsers(len(p.byName))
	p.log.Info().Str("username", username).Str("conn_id", conn.ID()).Int("online", len(p.byName)).Msg("user logged in")
	return sess, nil
}

// Logout removes the session bound to conn, returning the freed username.
// A connection that never logged in is a no-op.
func (p *presenceUC) Logout(conn model.Connection) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	sess, ok := p.byConn[conn.ID()]
	if !ok {
		return "", false
	}
	delete(p.byConn, conn.ID())
	delete(p.byName, sess.Username)
	metrics.SetOnlineUsers(len(p.byName))
	p.log.Info().Str("username", sess.Username).Str("conn_id", conn.ID()).Int("online", len(p.byName)).Msg("user logged out")
	return sess.Username, true
}

// ListUsernames returns a sorted snapshot of the current roster.
func (p *presenceUC) ListUsernames() []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	names := make([]string, 0, len(p.byName))
	for name := range p.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Connections returns a snapshot of every live connection, for fan-out.
func (p *presenceUC) Connections() []model.Connection {
	p.mu.Lock()
	defer p.mu.Unlock()

	conns := make([]model.Connection, 0, len(p.byConn))
	for _, sess := range p.byConn {
		conns = append(conns, sess.Conn)
	}
	return conns
}

func (p *presenceUC) Lookup(conn model.Connection) (*model.Session, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	sess, ok := p.byConn[conn.ID()]
	return sess, ok
}

func (p *presenceUC) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.byName)
}
