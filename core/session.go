package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SessionConfig controls how signed session tokens are issued.
type SessionConfig struct {
	// Secret keys the HMAC signature. Resolved once at startup and treated
	// as immutable; see SecretFromEnv.
	Secret string

	// MaxAge is the fixed session duration. Expiry is always issue time
	// plus MaxAge; there is no sliding renewal.
	MaxAge time.Duration
}

// DefaultSessionConfig matches the Saldofy cookie contract: 30-day sessions.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		MaxAge: 30 * 24 * time.Hour,
	}
}

// SessionManager issues and validates stateless signed sessions. Validation
// is a pure computation over the token and the secret: no session registry,
// no database round-trip on the hot path, safe for concurrent use.
type SessionManager struct {
	config  SessionConfig
	storage UserStorage
	cache   UserCache // optional, can be nil if caching is disabled
}

type CreateSessionResult struct {
	Payload *SessionPayload `json:"session"`
	Token   string          `json:"token"`
}

func NewSessionManager(config SessionConfig, storage UserStorage, cache UserCache) *SessionManager {
	if config.MaxAge <= 0 {
		config.MaxAge = DefaultSessionConfig().MaxAge
	}
	return &SessionManager{
		config:  config,
		storage: storage,
		cache:   cache,
	}
}

// MaxAge returns the fixed session duration, for callers that need a
// matching cookie Max-Age.
func (sm *SessionManager) MaxAge() time.Duration {
	return sm.config.MaxAge
}

// Create issues a new signed session for userID. The identity snapshot is
// looked up once here and embedded in the token; it is not refreshed until
// the next sign-in. Returns ErrUserNotFound if the account no longer exists.
//
// The caller is expected to persist the token in the session cookie with a
// matching max-age.
func (sm *SessionManager) Create(ctx context.Context, userID string) (*CreateSessionResult, error) {
	ident, err := sm.storage.GetUserIdentity(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user identity: %w", err)
	}

	payload := &SessionPayload{
		UserID:    ident.ID,
		Email:     ident.Email,
		Name:      ident.Name,
		ExpiresAt: time.Now().Add(sm.config.MaxAge).UnixMilli(),
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session payload: %w", err)
	}

	return &CreateSessionResult{
		Payload: payload,
		Token:   SignValue(string(raw), sm.config.Secret),
	}, nil
}

// validate is the single validity routine shared by Read and HasValid so the
// two entry points can never disagree. Signature, payload parse, and expiry
// failures all collapse to nil.
func (sm *SessionManager) validate(rawCookie string) *SessionPayload {
	if rawCookie == "" {
		return nil
	}

	payloadJSON, ok := VerifyValue(rawCookie, sm.config.Secret)
	if !ok {
		return nil
	}

	var payload SessionPayload
	if err := json.Unmarshal([]byte(payloadJSON), &payload); err != nil {
		return nil
	}

	if payload.Expired(time.Now()) {
		return nil
	}

	return &payload
}

// Read returns the session payload carried in rawCookie, or nil when there is
// no cookie value or the token is tampered, corrupt, or expired.
//
// Expiry is lazy: there is no background sweep. When Read returns nil for a
// non-empty rawCookie the caller should clear the session cookie.
func (sm *SessionManager) Read(rawCookie string) *SessionPayload {
	return sm.validate(rawCookie)
}

// HasValid is the lightweight check for routing middleware: signature and
// expiry only, no user lookup. It applies exactly the rules Read applies.
func (sm *SessionManager) HasValid(rawCookie string) bool {
	return sm.validate(rawCookie) != nil
}

// CurrentUser resolves the session to the authoritative user record, picking
// up live fields (verification status, tenant-type preference) the token
// snapshot does not carry. A valid token pointing at a deleted account
// resolves to (nil, nil), the same as never having signed in.
func (sm *SessionManager) CurrentUser(ctx context.Context, rawCookie string) (*User, error) {
	payload := sm.Read(rawCookie)
	if payload == nil {
		return nil, nil
	}

	if sm.cache != nil {
		if user, err := sm.cache.Get(payload.UserID); err == nil && user != nil {
			return user, nil
		}
	}

	user, err := sm.storage.GetUserByID(ctx, payload.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load current user: %w", err)
	}

	if sm.cache != nil {
		// We don't fail the request if caching fails
		_ = sm.cache.Set(user.ID, user)
	}

	return user, nil
}

// RequireUser is CurrentUser with absence escalated to ErrUnauthorized, for
// handlers that cannot proceed anonymously.
func (sm *SessionManager) RequireUser(ctx context.Context, rawCookie string) (*User, error) {
	user, err := sm.CurrentUser(ctx, rawCookie)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}
	return user, nil
}

// InvalidateUser drops a cached user record after a profile mutation so the
// next CurrentUser call re-fetches it.
func (sm *SessionManager) InvalidateUser(userID string) {
	if sm.cache != nil {
		_ = sm.cache.Delete(userID)
	}
}
