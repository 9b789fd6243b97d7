package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/saldofy/saldoauth/pkg/crypto"
)

const (
	resetTokenExpiry  = 1 * time.Hour
	minPasswordLength = 8
	maxPasswordLength = 72 // bcrypt input limit
)

// SignUpInput contains the data needed to register a new user
type SignUpInput struct {
	Email      string     `json:"email"`
	Password   string     `json:"password"`
	Name       string     `json:"name"`
	TenantType TenantType `json:"tenantType"`
}

// SignUpResult contains the newly created user and their first session
type SignUpResult struct {
	User    *User           `json:"user"`
	Session *SessionPayload `json:"session"`
	Token   string          `json:"token"` // the signed session token
}

// SignUp registers a new user with email and password and issues their first
// session. A verification code is generated and handed to the Mailer; the
// account stays usable while unverified.
func (a *Auth) SignUp(ctx context.Context, input SignUpInput) (*SignUpResult, error) {
	if err := validateSignUp(&input); err != nil {
		return nil, err
	}

	// Step 1: Check if the email is already registered
	existing, err := a.Storage.GetUserByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	// Step 2: Hash the password
	hashed, err := a.Passwords.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// Step 3: Create the user
	code, err := crypto.VerificationCode()
	if err != nil {
		return nil, fmt.Errorf("failed to generate verification code: %w", err)
	}
	user := &User{
		ID:                uuid.NewString(),
		Email:             input.Email,
		Name:              input.Name,
		DefaultTenantType: input.TenantType,
		PasswordHash:      hashed,
		EmailVerified:     false,
		VerificationCode:  &code,
	}

	if err := a.Storage.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if a.Mailer != nil {
		if err := a.Mailer.SendVerificationCode(ctx, user.Email, code); err != nil {
			// Sign-up succeeded; the code can be re-sent later.
			a.Logger.Warn("failed to send verification code", zap.Error(err))
		}
	}

	// Step 4: Issue the first session
	result, err := a.Sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	a.Logger.Info("user signed up",
		zap.String("user_id", user.ID),
		zap.String("tenant_type", string(user.DefaultTenantType)),
	)

	return &SignUpResult{
		User:    user,
		Session: result.Payload,
		Token:   result.Token,
	}, nil
}

// SignInInput contains the credentials for authentication
type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInResult contains the authenticated user and their session
type SignInResult struct {
	User    *User           `json:"user"`
	Session *SessionPayload `json:"session"`
	Token   string          `json:"token"` // the signed session token
}

// SignIn authenticates a user with email and password. Unknown email and
// wrong password are indistinguishable to the caller.
func (a *Auth) SignIn(ctx context.Context, input SignInInput) (*SignInResult, error) {
	if input.Email == "" {
		return nil, ErrEmailRequired
	}
	if input.Password == "" {
		return nil, ErrPasswordRequired
	}

	// Step 1: Find the user by email
	user, err := a.Storage.GetUserByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	// Step 2: Verify the password
	valid, err := a.Passwords.Verify(input.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !valid {
		a.Logger.Warn("invalid credential attempt", zap.String("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	// Step 3: Issue a fresh session; it fully replaces any previous one
	result, err := a.Sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	a.Logger.Info("user signed in", zap.String("user_id", user.ID))

	return &SignInResult{
		User:    user,
		Session: result.Payload,
		Token:   result.Token,
	}, nil
}

// VerifyEmail confirms ownership of an address with the emailed code and
// issues a session, so verification doubles as sign-in.
func (a *Auth) VerifyEmail(ctx context.Context, email, code string) (*SignInResult, error) {
	user, err := a.Storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.VerificationCode == nil || code == "" || *user.VerificationCode != code {
		return nil, ErrInvalidVerificationCode
	}

	user.EmailVerified = true
	user.VerificationCode = nil
	if err := a.Storage.UpdateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to mark email verified: %w", err)
	}
	a.Sessions.InvalidateUser(user.ID)

	result, err := a.Sessions.Create(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	a.Logger.Info("email verified", zap.String("user_id", user.ID))

	return &SignInResult{
		User:    user,
		Session: result.Payload,
		Token:   result.Token,
	}, nil
}

// ResendVerificationCode rotates the stored code and mails it again. Unknown
// addresses succeed silently to avoid account enumeration.
func (a *Auth) ResendVerificationCode(ctx context.Context, email string) error {
	if email == "" {
		return ErrEmailRequired
	}

	user, err := a.Storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user.EmailVerified {
		return nil
	}

	code, err := crypto.VerificationCode()
	if err != nil {
		return fmt.Errorf("failed to generate verification code: %w", err)
	}
	user.VerificationCode = &code
	if err := a.Storage.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to store verification code: %w", err)
	}
	a.Sessions.InvalidateUser(user.ID)

	if a.Mailer != nil {
		if err := a.Mailer.SendVerificationCode(ctx, user.Email, code); err != nil {
			return fmt.Errorf("failed to send verification code: %w", err)
		}
	}
	return nil
}

// RequestPasswordReset stores a short-lived reset token and mails it to the
// user. It reports success whether or not the address exists.
func (a *Auth) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return ErrEmailRequired
	}

	user, err := a.Storage.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	token, err := crypto.ResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expiry := time.Now().Add(resetTokenExpiry)
	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry
	if err := a.Storage.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	a.Sessions.InvalidateUser(user.ID)

	if a.Mailer != nil {
		if err := a.Mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
			return fmt.Errorf("failed to send reset email: %w", err)
		}
	}

	a.Logger.Info("password reset requested", zap.String("user_id", user.ID))
	return nil
}

// ConfirmPasswordReset sets a new password for the user holding a live reset
// token and clears the token. The existing session cookie, if any, stays
// valid until its natural expiry; stateless tokens cannot be revoked.
func (a *Auth) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return ErrInvalidResetToken
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	user, err := a.Storage.GetUserByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to find user by reset token: %w", err)
	}

	if user.ResetTokenExpiry == nil || time.Now().After(*user.ResetTokenExpiry) {
		return ErrInvalidResetToken
	}

	hashed, err := a.Passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hashed
	user.ResetToken = nil
	user.ResetTokenExpiry = nil
	if err := a.Storage.UpdateUser(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	a.Sessions.InvalidateUser(user.ID)

	a.Logger.Info("password reset completed", zap.String("user_id", user.ID))
	return nil
}

// SessionManager exposes the session primitives to HTTP adapters.
func (a *Auth) SessionManager() *SessionManager {
	return a.Sessions
}

var _ AuthHandler = (*Auth)(nil)

func validateSignUp(input *SignUpInput) error {
	if input.Email == "" {
		return ErrEmailRequired
	}
	if strings.TrimSpace(input.Name) == "" {
		return ErrNameRequired
	}
	if input.TenantType == "" {
		input.TenantType = TenantPersonal
	}
	return validatePassword(input.Password)
}

func validatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > maxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}
