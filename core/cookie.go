package core

import (
	"net/http"
	"time"
)

const (
	// CookieName is the session cookie issued to Saldofy clients.
	CookieName = "saldofy_session"
)

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Path   string
	Secure bool // set in production deployments
	Domain string
}

// normalize applies safe defaults without breaking callers
func (o CookieOptions) normalize() CookieOptions {
	if o.Path == "" {
		o.Path = "/"
	}
	return o
}

// SessionCookie builds the session cookie for a signed token. HttpOnly and
// SameSite=Lax are not configurable; Max-Age always matches the session
// duration.
func SessionCookie(token string, maxAge time.Duration, opts CookieOptions) *http.Cookie {
	opts = opts.normalize()

	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ExpiredSessionCookie builds the cookie that removes the session from the
// client. Sending it when no cookie exists is harmless, so clearing is
// idempotent.
func ExpiredSessionCookie(opts CookieOptions) *http.Cookie {
	opts = opts.normalize()

	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     opts.Path,
		Domain:   opts.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// SetSessionCookie issues the session cookie on a net/http response.
func SetSessionCookie(w http.ResponseWriter, token string, maxAge time.Duration, opts CookieOptions) {
	http.SetCookie(w, SessionCookie(token, maxAge, opts))
}

// ClearSessionCookie removes the session cookie from the client.
func ClearSessionCookie(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, ExpiredSessionCookie(opts))
}
