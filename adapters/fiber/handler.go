package fiber

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/saldofy/saldoauth"
)

func (a *Adapter) signup(c fiber.Ctx) error {
	var input saldoauth.SignUpInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	result, err := a.auth.SignUp(c.Context(), input)
	if err != nil {
		return handleAuthError(c, err)
	}

	a.setSessionCookie(c, result.Token)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"user":    result.User,
		"session": result.Session,
	})
}

func (a *Adapter) signin(c fiber.Ctx) error {
	var input saldoauth.SignInInput
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	result, err := a.auth.SignIn(c.Context(), input)
	if err != nil {
		return handleAuthError(c, err)
	}

	a.setSessionCookie(c, result.Token)
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"user":    result.User,
		"session": result.Session,
	})
}

func (a *Adapter) verifyEmail(c fiber.Ctx) error {
	var input struct {
		Email string `json:"email"`
		Code  string `json:"code"`
	}
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	result, err := a.auth.VerifyEmail(c.Context(), input.Email, input.Code)
	if err != nil {
		return handleAuthError(c, err)
	}

	a.setSessionCookie(c, result.Token)
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"user":    result.User,
		"session": result.Session,
	})
}

func (a *Adapter) resendVerification(c fiber.Ctx) error {
	var input struct {
		Email string `json:"email"`
	}
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := a.auth.ResendVerificationCode(c.Context(), input.Email); err != nil {
		return handleAuthError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true})
}

func (a *Adapter) resetPassword(c fiber.Ctx) error {
	var input struct {
		Email string `json:"email"`
	}
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := a.auth.RequestPasswordReset(c.Context(), input.Email); err != nil {
		return handleAuthError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true})
}

func (a *Adapter) newPassword(c fiber.Ctx) error {
	var input struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.Bind().Body(&input); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := a.auth.ConfirmPasswordReset(c.Context(), input.Token, input.Password); err != nil {
		return handleAuthError(c, err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true})
}

// signout clears the session cookie. Stateless tokens leave nothing to delete
// server-side, so signing out twice is as fine as signing out once.
func (a *Adapter) signout(c fiber.Ctx) error {
	a.clearSessionCookie(c)
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"message": "signed out successfully",
	})
}

func (a *Adapter) session(c fiber.Ctx) error {
	raw := c.Cookies(saldoauth.CookieName)

	payload := a.auth.Sessions.Read(raw)
	if payload == nil {
		if raw != "" {
			// lazy expiry: an invalid cookie is removed on access
			a.clearSessionCookie(c)
		}
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"error": saldoauth.ErrUnauthorized.Error(),
		})
	}

	user, err := a.auth.Sessions.CurrentUser(c.Context(), raw)
	if err != nil {
		return handleAuthError(c, err)
	}
	if user == nil {
		// valid token, deleted account
		a.clearSessionCookie(c)
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"error": saldoauth.ErrUnauthorized.Error(),
		})
	}

	return c.Status(http.StatusOK).JSON(saldoauth.SessionData{
		User:    user,
		Session: payload,
	})
}

// handleAuthError maps authentication errors to appropriate HTTP responses
func handleAuthError(c fiber.Ctx, err error) error {
	status := mapErrorToStatus(err)
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// mapErrorToStatus maps saldoauth error types to HTTP status codes
func mapErrorToStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch {
	case errors.Is(err, saldoauth.ErrInvalidCredentials),
		errors.Is(err, saldoauth.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, saldoauth.ErrUserExists):
		return http.StatusConflict

	case errors.Is(err, saldoauth.ErrUserNotFound):
		return http.StatusNotFound

	case errors.Is(err, saldoauth.ErrEmailRequired),
		errors.Is(err, saldoauth.ErrPasswordRequired),
		errors.Is(err, saldoauth.ErrPasswordTooShort),
		errors.Is(err, saldoauth.ErrPasswordTooLong),
		errors.Is(err, saldoauth.ErrNameRequired),
		errors.Is(err, saldoauth.ErrInvalidVerificationCode),
		errors.Is(err, saldoauth.ErrInvalidResetToken):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}
