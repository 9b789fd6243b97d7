package core

import "errors"

// Authentication Related Errors
var (
	// User errors
	ErrUserExists         = errors.New("user already exists")       // 409 Conflict
	ErrUserNotFound       = errors.New("user not found")            // 404 Not Found
	ErrInvalidCredentials = errors.New("invalid email or password") // 401 Unauthorized
)

// Session errors
var (
	ErrUnauthorized  = errors.New("unauthorized") // 401
	ErrCacheNotFound = errors.New("user not found in cache")
)

// Verification and password reset errors
var (
	ErrInvalidVerificationCode = errors.New("invalid verification code")      // 400
	ErrInvalidResetToken       = errors.New("invalid or expired reset token") // 400
)

// Validation errors (client input)
var (
	ErrEmailRequired    = errors.New("email is required")     // 400
	ErrPasswordRequired = errors.New("password is required")  // 400
	ErrPasswordTooShort = errors.New("password is too short") // 400
	ErrPasswordTooLong  = errors.New("password is too long")  // 400
	ErrNameRequired     = errors.New("name is required")      // 400
)

// Config errors (server-side configuration)
var (
	ErrStorageRequired = errors.New("user storage adapter is required")               // 500
	ErrSecretRequired  = errors.New("session secret is required")                     // 500
	ErrSecretTooShort  = errors.New("session secret too short")                       // 500
	ErrSecretMissing   = errors.New("session secret is not configured in production") // fatal
)
