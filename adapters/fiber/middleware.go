package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/saldofy/saldoauth"
)

// RequireSession guards routes with the lightweight validity check: signature
// and expiry only, no user lookup and no database round-trip. Invalid cookies
// are cleared before the request is rejected.
func (a *Adapter) RequireSession() fiber.Handler {
	return func(c fiber.Ctx) error {
		raw := c.Cookies(saldoauth.CookieName)

		if !a.auth.Sessions.HasValid(raw) {
			if raw != "" {
				a.clearSessionCookie(c)
			}
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
				"error": saldoauth.ErrUnauthorized.Error(),
			})
		}

		return c.Next()
	}
}

// RequireSessionOrRedirect is RequireSession for server-rendered pages:
// unauthenticated requests are redirected to signinURL instead of receiving
// a JSON 401.
func (a *Adapter) RequireSessionOrRedirect(signinURL string) fiber.Handler {
	return func(c fiber.Ctx) error {
		raw := c.Cookies(saldoauth.CookieName)

		if !a.auth.Sessions.HasValid(raw) {
			if raw != "" {
				a.clearSessionCookie(c)
			}
			return c.Redirect().To(signinURL)
		}

		return c.Next()
	}
}

// WithUser resolves the full user record and stores it in the request
// context for downstream handlers. Heavier than RequireSession: it performs
// the authoritative user lookup.
func (a *Adapter) WithUser() fiber.Handler {
	return func(c fiber.Ctx) error {
		raw := c.Cookies(saldoauth.CookieName)

		user, err := a.auth.Sessions.RequireUser(c.Context(), raw)
		if err != nil {
			if raw != "" && errors.Is(err, saldoauth.ErrUnauthorized) {
				a.clearSessionCookie(c)
			}
			return handleAuthError(c, err)
		}

		c.Locals("user", user)
		return c.Next()
	}
}

// UserFromCtx returns the user stored by WithUser, or nil.
func UserFromCtx(c fiber.Ctx) *saldoauth.User {
	user, _ := c.Locals("user").(*saldoauth.User)
	return user
}
