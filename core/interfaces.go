package core

import (
	"context"
	"time"
)

// Ports define interfaces for external dependencies

// ============================================
// STORAGE PORT (Database operations)
// ============================================

// UserStorage defines user-related database operations. Implementations
// return ErrUserNotFound when a lookup misses; any other error is treated as
// an infrastructure failure and propagated.
type UserStorage interface {
	CreateUser(ctx context.Context, u *User) error

	// GetUserIdentity returns the minimal snapshot embedded in new sessions.
	GetUserIdentity(ctx context.Context, id string) (*UserIdentity, error)

	// GetUserByID returns the full profile, including live fields such as
	// verification status and tenant-type preference.
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByResetToken(ctx context.Context, token string) (*User, error)

	UpdateUser(ctx context.Context, u *User) error

	DeleteUser(ctx context.Context, id string) error
}

// ============================================
// CACHE PORT
// ============================================

// UserCache caches full user records between CurrentUser calls. Keep the TTL
// short: cached records delay visibility of live-field changes until expiry.
type UserCache interface {
	Get(userID string) (*User, error)
	Set(userID string, user *User) error
	Delete(userID string) error
	Clear() error
}

// CacheWithStats extends UserCache with statistics tracking
type CacheWithStats interface {
	UserCache
	Stats() CacheStats
}

// CacheConfig configures cache behavior
type CacheConfig struct {
	TTL     time.Duration
	MaxSize int
}

// CacheStats tracks cache performance metrics
type CacheStats struct {
	Hits      int64         `json:"hits"`
	Misses    int64         `json:"misses"`
	Sets      int64         `json:"sets"`
	Deletes   int64         `json:"deletes"`
	Evictions int64         `json:"evictions"`
	Size      int           `json:"size"`
	TTL       time.Duration `json:"ttl"`
}

// ============================================
// MAIL PORT
// ============================================

// Mailer delivers verification codes and password reset tokens. Delivery is
// an external collaborator; a nil Mailer disables outbound mail without
// failing the flows that would use it.
type Mailer interface {
	SendVerificationCode(ctx context.Context, email, code string) error
	SendPasswordReset(ctx context.Context, email, token string) error
}

// ============================================
// AUTH HANDLER (for HTTP adapters)
// ============================================

// AuthHandler provides authentication operations for HTTP adapters
type AuthHandler interface {
	SignUp(ctx context.Context, input SignUpInput) (*SignUpResult, error)
	SignIn(ctx context.Context, input SignInInput) (*SignInResult, error)
	VerifyEmail(ctx context.Context, email, code string) (*SignInResult, error)
	ResendVerificationCode(ctx context.Context, email string) error
	RequestPasswordReset(ctx context.Context, email string) error
	ConfirmPasswordReset(ctx context.Context, token, newPassword string) error

	SessionManager() *SessionManager
}

// ============================================
// HTTP PORT
// ============================================

// HTTPAdapter binds the auth endpoints into a web framework.
type HTTPAdapter interface {
	RegisterRoutes(auth *Auth) error
}
