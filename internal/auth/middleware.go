package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pqrssi-service/internal/domain"
	apperrors "github.com/spec-kit/pqrssi-service/pkg/util"
)

const sessionKey = "auth_session"

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "pqrssi_session"

// SessionMiddleware resolves the client token into a session record and
// stores it on the request context. Resolution is best-effort: a missing
// or expired session just leaves the bearer logged out and the gates
// decide whether that denies the route.
type SessionMiddleware struct {
	sessions *SessionManager
}

// NewSessionMiddleware constructs middleware.
func NewSessionMiddleware(sessions *SessionManager) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions}
}

// Handle loads the session for downstream handlers.
func (m *SessionMiddleware) Handle(c *fiber.Ctx) error {
	token := TokenFromRequest(c)
	if token == "" {
		return c.Next()
	}

	session, err := m.sessions.Resolve(c.Context(), token)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return c.Next()
		}
		return apperrors.NewStorageFailure(err)
	}

	c.Locals(sessionKey, session)
	return c.Next()
}

// TokenFromRequest extracts the session token from the cookie or, for
// API clients, a bearer Authorization header.
func TokenFromRequest(c *fiber.Ctx) string {
	if cookie := c.Cookies(SessionCookieName); cookie != "" {
		return cookie
	}
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// SessionFromContext retrieves the resolved session, if any.
func SessionFromContext(c *fiber.Ctx) (*domain.Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	session, ok := val.(*domain.Session)
	return session, ok
}
