package core

import (
	"go.uber.org/zap"

	"github.com/saldofy/saldoauth/pkg/crypto"
)

type Config struct {
	// Secret keys the session HMAC. Resolve it once at startup, e.g. via
	// SecretFromEnv, and inject it here; nothing reads the environment
	// lazily afterwards.
	Secret string

	Storage UserStorage

	// Optional config
	Environment    string // "production" hardens cookies and secret checks
	SessionConfig  *SessionConfig
	UserCache      UserCache
	DisableCache   bool
	PasswordHasher crypto.PasswordHasher
	Mailer         Mailer
	Logger         *zap.Logger
	BasePath       string
}

// Auth is the assembled authentication core: the session manager plus the
// collaborators the sign-in flows need.
type Auth struct {
	Sessions  *SessionManager
	Passwords crypto.PasswordHasher
	Storage   UserStorage
	Mailer    Mailer
	Logger    *zap.Logger
	BasePath  string
	Cookies   CookieOptions
}
