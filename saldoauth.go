// Package saldoauth implements Saldofy's stateless signed-session
// authentication: a compact HMAC-signed cookie token plus the sign-in flows
// around it. Tokens are self-verifying, so request-path checks need no
// session store.
package saldoauth

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/saldofy/saldoauth/core"
	"github.com/saldofy/saldoauth/pkg/cache"
	"github.com/saldofy/saldoauth/pkg/crypto"
)

// interfaces
type (
	UserStorage = core.UserStorage
	UserCache   = core.UserCache
	Mailer      = core.Mailer

	AuthHandler = core.AuthHandler

	PasswordHasher = crypto.PasswordHasher
)

// structs
type (
	Auth          = core.Auth
	Config        = core.Config
	SessionConfig = core.SessionConfig
	CacheConfig   = core.CacheConfig
	CookieOptions = core.CookieOptions

	SessionManager      = core.SessionManager
	CreateSessionResult = core.CreateSessionResult

	SignUpInput  = core.SignUpInput
	SignUpResult = core.SignUpResult
	SignInInput  = core.SignInInput
	SignInResult = core.SignInResult
)

type (
	User           = core.User
	UserIdentity   = core.UserIdentity
	SessionPayload = core.SessionPayload
	SessionData    = core.SessionData
	TenantType     = core.TenantType
	CacheStats     = core.CacheStats
)

const (
	CookieName    = core.CookieName
	EnvProduction = core.EnvProduction

	TenantPersonal = core.TenantPersonal
	TenantBusiness = core.TenantBusiness

	defaultBasePath  = "/api/auth"
	defaultSecretLen = 32
)

// Constructors & helpers (convenience re-exports)
var (
	NewInMemoryCache     = cache.NewInMemoryCache
	NewBcrypt            = crypto.NewBcrypt
	NewSessionManager    = core.NewSessionManager
	DefaultSessionConfig = core.DefaultSessionConfig
	SecretFromEnv        = core.SecretFromEnv

	SignValue   = core.SignValue
	VerifyValue = core.VerifyValue
)

var (
	ErrUserExists         = core.ErrUserExists
	ErrUserNotFound       = core.ErrUserNotFound
	ErrInvalidCredentials = core.ErrInvalidCredentials
)

var (
	ErrUnauthorized            = core.ErrUnauthorized
	ErrInvalidVerificationCode = core.ErrInvalidVerificationCode
	ErrInvalidResetToken       = core.ErrInvalidResetToken
)

var (
	ErrEmailRequired    = core.ErrEmailRequired
	ErrPasswordRequired = core.ErrPasswordRequired
	ErrPasswordTooShort = core.ErrPasswordTooShort
	ErrPasswordTooLong  = core.ErrPasswordTooLong
	ErrNameRequired     = core.ErrNameRequired
)

var (
	ErrStorageRequired = core.ErrStorageRequired
	ErrSecretRequired  = core.ErrSecretRequired
	ErrSecretTooShort  = core.ErrSecretTooShort
	ErrSecretMissing   = core.ErrSecretMissing
)

// New validates the configuration and assembles the authentication core. The
// secret is injected exactly once here; nothing resolves it lazily afterwards.
func New(config Config) (*Auth, error) {
	if config.Secret == "" {
		return nil, ErrSecretRequired
	}
	if len(config.Secret) < defaultSecretLen {
		return nil, fmt.Errorf("%w - minimum of %d characters", ErrSecretTooShort, defaultSecretLen)
	}
	if config.Storage == nil {
		return nil, ErrStorageRequired
	}

	// Set Defaults

	userCache := config.UserCache
	if userCache == nil && !config.DisableCache {
		userCache = cache.NewInMemoryCache(CacheConfig{})
	}

	sessionConfig := config.SessionConfig
	if sessionConfig == nil {
		defaults := core.DefaultSessionConfig()
		sessionConfig = &defaults
	}
	sessionConfig.Secret = config.Secret

	passwordHasher := config.PasswordHasher
	if passwordHasher == nil {
		passwordHasher = crypto.NewBcrypt()
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	basePath := config.BasePath
	if basePath == "" {
		basePath = defaultBasePath
	}

	sessions := core.NewSessionManager(*sessionConfig, config.Storage, userCache)

	return &Auth{
		Sessions:  sessions,
		Passwords: passwordHasher,
		Storage:   config.Storage,
		Mailer:    config.Mailer,
		Logger:    logger,
		BasePath:  basePath,
		Cookies: CookieOptions{
			Secure: config.Environment == core.EnvProduction,
		},
	}, nil
}
