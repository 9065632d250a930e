package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/suar-net/usage-pricing-be/internal/config"
	"github.com/suar-net/usage-pricing-be/internal/metrics"
	"github.com/suar-net/usage-pricing-be/internal/model"
	"github.com/suar-net/usage-pricing-be/internal/service"
)

type memoryUsers struct {
	mu    sync.Mutex
	users map[string]model.User
	err   error
}

func (m *memoryUsers) Create(ctx context.Context, user *model.User) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := len(m.users) + 1
	stored := *user
	stored.ID = id
	m.users[user.Username] = stored
	return id, nil
}

func (m *memoryUsers) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[username]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

type memoryEvents struct {
	mu     sync.Mutex
	events []model.Event
	err    error
}

func (m *memoryEvents) Create(ctx context.Context, event *model.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	event.ID = len(m.events) + 1
	m.events = append(m.events, *event)
	return nil
}

func (m *memoryEvents) GetByUserID(ctx context.Context, userID string, limit int) ([]*model.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*model.Event, 0)
	for i := len(m.events) - 1; i >= 0 && len(out) < limit; i-- {
		if m.events[i].UserID == userID {
			e := m.events[i]
			out = append(out, &e)
		}
	}
	return out, nil
}

type fakePinger struct {
	err error
}

func (p fakePinger) PingContext(ctx context.Context) error { return p.err }

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type testEnv struct {
	server  *httptest.Server
	users   *memoryUsers
	events  *memoryEvents
	clock   *testClock
	metrics *metrics.Metrics
}

const tokenTTL = 30 * time.Minute

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := &memoryUsers{users: map[string]model.User{
		"alice": {ID: 1, Username: "alice", UserID: "ext-alice", Password: "secret"},
	}}
	events := &memoryEvents{}
	clock := &testClock{t: time.Now().Truncate(time.Second)}
	m := metrics.New()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	authService := service.NewAuthService(users, config.JWTConfig{SecretKey: "handler-secret", AccessTokenExpiresIn: int(tokenTTL / time.Minute)}, service.WithClock(clock.Now))
	router := SetupRouter(RouterDeps{
		AuthService:  authService,
		UsageService: service.NewUsageService(events),
		DB:           fakePinger{},
		Metrics:      m,
		Logger:       logger,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testEnv{server: srv, users: users, events: events, clock: clock, metrics: m}
}

func (e *testEnv) login(t *testing.T, username, password string) *http.Response {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}, "grant_type": {"password"}}
	resp, err := http.Post(e.server.URL+"/login", "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func (e *testEnv) do(t *testing.T, method, path, token string, body io.Reader) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, e.server.URL+path, body)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

var errBoom = errors.New("boom")
