package auth

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"webbase/internal/model"
)

// SessionCookieName is the cookie carrying the opaque session token.
const SessionCookieName = "session_token"

// LoginPath is where unauthenticated requests to protected pages are sent.
const LoginPath = "/login"

const (
	identityContextKey = "auth_identity"
	tokenContextKey    = "auth_session_token"
)

// RequireAuth resolves the session cookie and rejects unauthenticated
// requests with a redirect to the login page. On success the identity and
// token are injected into the request context and the session activity is
// refreshed after the handler runs.
func RequireAuth(sessions *Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, token := resolveRequest(c, sessions)
			if identity == nil {
				return c.Redirect(http.StatusSeeOther, LoginPath)
			}

			c.Set(identityContextKey, identity)
			c.Set(tokenContextKey, token)

			err := next(c)
			touch(c, sessions, token)
			return err
		}
	}
}

// OptionalAuth resolves the session cookie when present and proceeds either
// way. Pages behind it render differently for guests and members but never
// reject.
func OptionalAuth(sessions *Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, token := resolveRequest(c, sessions)
			if identity == nil {
				return next(c)
			}

			c.Set(identityContextKey, identity)
			c.Set(tokenContextKey, token)

			err := next(c)
			touch(c, sessions, token)
			return err
		}
	}
}

// IdentityFromContext returns the authenticated identity, or nil for guests.
func IdentityFromContext(c echo.Context) *model.Identity {
	identity, _ := c.Get(identityContextKey).(*model.Identity)
	return identity
}

// TokenFromContext returns the session token of the authenticated request.
// Empty for guests.
func TokenFromContext(c echo.Context) string {
	token, _ := c.Get(tokenContextKey).(string)
	return token
}

func resolveRequest(c echo.Context, sessions *Manager) (*model.Identity, string) {
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, ""
	}

	identity, err := sessions.Resolve(c.Request().Context(), cookie.Value)
	if err != nil {
		// Store failure: treat as unauthenticated rather than erroring the
		// whole page.
		log.Printf("resolve session: %v", err)
		return nil, ""
	}
	if identity == nil {
		return nil, ""
	}
	return identity, cookie.Value
}

func touch(c echo.Context, sessions *Manager, token string) {
	if err := sessions.Touch(c.Request().Context(), token); err != nil {
		// Best effort; the session simply does not slide this time.
		log.Printf("touch session: %v", err)
	}
}
