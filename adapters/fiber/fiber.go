// Package fiber binds the saldoauth core to a Fiber v3 application: route
// registration, the session cookie, and the request-routing middleware that
// runs the lightweight signature check ahead of heavier handlers.
package fiber

import (
	"github.com/gofiber/fiber/v3"

	"github.com/saldofy/saldoauth"
	"github.com/saldofy/saldoauth/core"
)

type Adapter struct {
	app  *fiber.App
	auth *saldoauth.Auth
}

func New(app *fiber.App) *Adapter {
	return &Adapter{app: app}
}

var _ core.HTTPAdapter = (*Adapter)(nil)

// RegisterRoutes mounts the auth endpoints under auth.BasePath.
func (a *Adapter) RegisterRoutes(auth *saldoauth.Auth) error {
	a.auth = auth

	api := a.app.Group(auth.BasePath)

	// Public routes
	api.Post("/sign-up", a.signup)
	api.Post("/sign-in", a.signin)
	api.Post("/verify-email", a.verifyEmail)
	api.Post("/resend-verification", a.resendVerification)
	api.Post("/reset-password", a.resetPassword)
	api.Post("/new-password", a.newPassword)

	// Session routes
	api.Post("/sign-out", a.signout)
	api.Get("/session", a.session)

	return nil
}

// setSessionCookie persists a signed token on the response, mirroring
// core.SessionCookie for fiber's cookie type.
func (a *Adapter) setSessionCookie(c fiber.Ctx, token string) {
	opts := a.auth.Cookies
	c.Cookie(&fiber.Cookie{
		Name:     core.CookieName,
		Value:    token,
		Path:     cookiePath(opts),
		Domain:   opts.Domain,
		MaxAge:   int(a.auth.Sessions.MaxAge().Seconds()),
		HTTPOnly: true,
		Secure:   opts.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// clearSessionCookie removes the session cookie. Calling it with no cookie
// present is a no-op for the client.
func (a *Adapter) clearSessionCookie(c fiber.Ctx) {
	opts := a.auth.Cookies
	c.Cookie(&fiber.Cookie{
		Name:     core.CookieName,
		Value:    "",
		Path:     cookiePath(opts),
		Domain:   opts.Domain,
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   opts.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func cookiePath(opts core.CookieOptions) string {
	if opts.Path == "" {
		return "/"
	}
	return opts.Path
}
