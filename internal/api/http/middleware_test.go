package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/pqrssi-service/internal/auth"
	"github.com/spec-kit/pqrssi-service/internal/domain"
	"github.com/spec-kit/pqrssi-service/internal/observability"
)

type memorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: make(map[string]*domain.Session)}
}

func (s *memorySessionStore) Create(_ context.Context, session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *session
	s.sessions[session.ID] = &copied
	return nil
}

func (s *memorySessionStore) Get(_ context.Context, sessionID string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return nil, auth.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (s *memorySessionStore) Destroy(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// gateFixture builds a fiber app with the global middlewares, the session
// middleware and gated probe routes. The probe records whether it ran so
// tests can assert gate failures never reach the handler.
type gateFixture struct {
	app      *fiber.App
	sessions *auth.SessionManager
	reached  map[string]bool
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	tokens := auth.NewTokenManager("test-secret", time.Hour)
	sessions := auth.NewSessionManager(newMemorySessionStore(), tokens)
	middleware := auth.NewSessionMiddleware(sessions)

	fixture := &gateFixture{
		app:      fiber.New(),
		sessions: sessions,
		reached:  map[string]bool{},
	}
	RegisterMiddlewares(fixture.app, zap.NewNop(), observability.NewMetrics(), time.Second)

	probe := func(name string) fiber.Handler {
		return func(c *fiber.Ctx) error {
			fixture.reached[name] = true
			return c.JSON(fiber.Map{"data": "ok"})
		}
	}
	fixture.app.Get("/protected", middleware.Handle, auth.LoginRequired(), probe("protected"))
	fixture.app.Get("/admin-only", middleware.Handle, auth.AdminRequired(), probe("admin-only"))
	return fixture
}

func (f *gateFixture) openSession(t *testing.T, user *domain.User) string {
	t.Helper()
	token, _, err := f.sessions.Open(context.Background(), user)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestLoginGateDeniesAnonymous(t *testing.T) {
	fixture := newGateFixture(t)

	resp := doRequest(t, fixture.app, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, fixture.reached["protected"])
}

func TestLoginGateDeniesInvalidToken(t *testing.T) {
	fixture := newGateFixture(t)

	resp := doRequest(t, fixture.app, "/protected", "bogus-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, fixture.reached["protected"])
}

func TestLoginGateAdmitsSession(t *testing.T) {
	fixture := newGateFixture(t)
	token := fixture.openSession(t, &domain.User{ID: 7, Name: "Ana"})

	resp := doRequest(t, fixture.app, "/protected", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, fixture.reached["protected"])
}

func TestAdminGateDeniesRegularUser(t *testing.T) {
	fixture := newGateFixture(t)
	token := fixture.openSession(t, &domain.User{ID: 7, Name: "Ana"})

	resp := doRequest(t, fixture.app, "/admin-only", token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.False(t, fixture.reached["admin-only"])
}

func TestAdminGateAdmitsAdministrator(t *testing.T) {
	fixture := newGateFixture(t)
	token := fixture.openSession(t, &domain.User{ID: 1, Name: "Admin", IsAdmin: true})

	resp := doRequest(t, fixture.app, "/admin-only", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, fixture.reached["admin-only"])
}

func TestDestroyedSessionIsDenied(t *testing.T) {
	fixture := newGateFixture(t)
	token := fixture.openSession(t, &domain.User{ID: 7, Name: "Ana"})

	require.NoError(t, fixture.sessions.Close(context.Background(), token))

	resp := doRequest(t, fixture.app, "/protected", token)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, fixture.reached["protected"])
}
