package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pqrssi-service/internal/domain"
	apperrors "github.com/spec-kit/pqrssi-service/pkg/util"
)

// The access gate: pure predicates over session state. They never mutate
// anything and never error; route guards consume the booleans.

// RequireLogin reports whether the session marks the bearer as logged in.
func RequireLogin(session *domain.Session) bool {
	return session != nil && session.LoggedIn
}

// RequireAdmin reports whether the bearer is logged in and an administrator.
func RequireAdmin(session *domain.Session) bool {
	return RequireLogin(session) && session.IsAdmin
}

// LoginRequired denies requests whose session fails the login gate.
func LoginRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, _ := SessionFromContext(c)
		if !RequireLogin(session) {
			return apperrors.NewUnauthorized("login required")
		}
		return c.Next()
	}
}

// AdminRequired denies requests whose session fails the admin gate.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		session, _ := SessionFromContext(c)
		if !RequireLogin(session) {
			return apperrors.NewUnauthorized("login required")
		}
		if !RequireAdmin(session) {
			return apperrors.NewForbidden("administrator required")
		}
		return c.Next()
	}
}
