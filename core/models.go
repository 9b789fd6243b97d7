package core

import "time"

// TenantType selects which tenant a user lands in by default.
type TenantType string

const (
	TenantPersonal TenantType = "PERSONAL"
	TenantBusiness TenantType = "BUSINESS"
)

// User represents a Saldofy account
//
// This is the "identity" - who someone is
type User struct {
	ID                string     `json:"id"`
	Email             string     `json:"email"`
	EmailVerified     bool       `json:"emailVerified"`
	Name              string     `json:"name"`
	DefaultTenantType TenantType `json:"defaultTenantType"`
	PasswordHash      string     `json:"-"` // Never expose in JSON
	VerificationCode  *string    `json:"-"` // Never expose in JSON
	ResetToken        *string    `json:"-"` // Never expose in JSON
	ResetTokenExpiry  *time.Time `json:"-"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// UserIdentity is the minimal snapshot embedded in a session at creation
// time. It is not re-fetched on every check and may go stale until the user
// signs in again.
type UserIdentity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// SessionPayload is the authenticated-identity snapshot carried inside a
// signed token. Field names match the cookie wire format.
type SessionPayload struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	ExpiresAt int64  `json:"expiresAt"` // epoch milliseconds
}

// Expired reports whether the payload's absolute expiry has elapsed at t.
func (p *SessionPayload) Expired(t time.Time) bool {
	return t.UnixMilli() > p.ExpiresAt
}

// SessionData combines the live user record with the session payload.
// The model returned to clients
type SessionData struct {
	User    *User           `json:"user"`
	Session *SessionPayload `json:"session"`
}
