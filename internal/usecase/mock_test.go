package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"campus-chat/internal/domain"
	"campus-chat/internal/domain/model"
	"campus-chat/internal/domain/ports/adapter"
	"campus-chat/internal/domain/ports/repository"
	"campus-chat/internal/infra/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// -----------------------------
// Utilities
// -----------------------------

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// =============================
// Connections
// =============================

type sentRecord struct {
	Event   string
	Payload any
}

// fakeConn records every event delivered to it, in order.
type fakeConn struct {
	id string

	mu       sync.Mutex
	records  []sentRecord
	failSend bool
}

var _ model.Connection = (*fakeConn)(nil)

func newFakeConn() *fakeConn {
	return &fakeConn{id: uuid.NewString()}
}

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Send(event string, payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failSend {
		return domain.ErrConnectionClosed
	}
	c.records = append(c.records, sentRecord{Event: event, Payload: payload})
	return nil
}

func (c *fakeConn) events() []sentRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]sentRecord, len(c.records))
	copy(out, c.records)
	return out
}

func (c *fakeConn) eventNames() []string {
	recs := c.events()
	names := make([]string, len(recs))
	for i, r := range recs {
		names[i] = r.Event
	}
	return names
}

// =============================
// AI adapter + task runner
// =============================

// fakeAI replays scripted deltas and then returns Err.
type fakeAI struct {
	Deltas []string
	Err    error
	Calls  int
}

var _ adapter.CompletionStreamAdapter = (*fakeAI)(nil)

func (f *fakeAI) Name() string { return "fake" }

func (f *fakeAI) StreamChat(ctx context.Context, systemPrompt, userQuery string, onDelta adapter.StreamHandler) error {
	f.Calls++
	for _, d := range f.Deltas {
		if err := onDelta(d); err != nil {
			return err
		}
	}
	return f.Err
}

// syncRunner executes submitted tasks inline, so test assertions see the
// completed stream without synchronization.
type syncRunner struct{}

func (syncRunner) Submit(task worker.Task) error {
	return task(context.Background())
}

type failRunner struct{}

func (failRunner) Submit(worker.Task) error {
	return errors.New("queue full")
}

// =============================
// Lookup adapters
// =============================

type fakeWeather struct {
	Report *adapter.WeatherReport
	Err    error
	City   string
}

var _ adapter.WeatherAdapter = (*fakeWeather)(nil)

func (f *fakeWeather) Name() string { return "fake-weather" }

func (f *fakeWeather) Current(ctx context.Context, city string) (*adapter.WeatherReport, error) {
	f.City = city
	return f.Report, f.Err
}

type fakeNews struct {
	Digest *adapter.NewsDigest
	Err    error
}

var _ adapter.NewsAdapter = (*fakeNews)(nil)

func (f *fakeNews) Name() string { return "fake-news" }

func (f *fakeNews) Daily(ctx context.Context) (*adapter.NewsDigest, error) {
	return f.Digest, f.Err
}

type fakeMusic struct {
	Track   *adapter.MusicTrack
	Err     error
	Keyword string
}

var _ adapter.MusicAdapter = (*fakeMusic)(nil)

func (f *fakeMusic) Name() string { return "fake-music" }

func (f *fakeMusic) Search(ctx context.Context, keyword string) (*adapter.MusicTrack, error) {
	f.Keyword = keyword
	return f.Track, f.Err
}

// =============================
// Account repository
// =============================

type memAccountRepo struct {
	mu       sync.Mutex
	byName   map[string]*model.Account
	saveErr  error
	touchErr error
}

var _ repository.AccountRepository = (*memAccountRepo)(nil)

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{byName: make(map[string]*model.Account)}
}

func (m *memAccountRepo) Save(ctx context.Context, a *model.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	cp := *a
	m.byName[a.Username] = &cp
	return nil
}

func (m *memAccountRepo) FindByUsername(ctx context.Context, username string) (*model.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byName[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memAccountRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.touchErr != nil {
		return m.touchErr
	}
	for _, a := range m.byName {
		if a.ID == id {
			a.LastLogin = at
			return nil
		}
	}
	return domain.ErrNotFound
}
