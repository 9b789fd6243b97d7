package fiber

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"golang.org/x/crypto/bcrypt"

	"github.com/saldofy/saldoauth"
	"github.com/saldofy/saldoauth/core"
	"github.com/saldofy/saldoauth/pkg/crypto"
)

const testSecret = "test-secret-0123456789abcdef0123"

type testEnv struct {
	app     *fiber.App
	adapter *Adapter
	storage *core.FakeUserStorage
	mailer  *core.FakeMailer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	storage := core.NewFakeUserStorage()
	mailer := core.NewFakeMailer()

	auth, err := saldoauth.New(saldoauth.Config{
		Secret:  testSecret,
		Storage: storage,
		Mailer:  mailer,
		// The minimum bcrypt cost keeps request-level tests fast.
		PasswordHasher: crypto.NewBcrypt(bcrypt.MinCost),
	})
	if err != nil {
		t.Fatalf("saldoauth.New() error = %v", err)
	}

	app := fiber.New()
	adapter := New(app)
	if err := adapter.RegisterRoutes(auth); err != nil {
		t.Fatalf("RegisterRoutes() error = %v", err)
	}

	return &testEnv{app: app, adapter: adapter, storage: storage, mailer: mailer}
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == saldoauth.CookieName {
			return c
		}
	}
	return nil
}

func TestSignUpRoute_SetsSessionCookie(t *testing.T) {
	// Arrange
	env := newTestEnv(t)

	// Act
	resp, err := env.app.Test(jsonRequest(http.MethodPost, "/api/auth/sign-up",
		`{"email":"ana@saldofy.com","password":"hunter2hunter2","name":"Ana"}`))

	// Assert
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	cookie := sessionCookie(t, resp)
	if cookie == nil {
		t.Fatal("no session cookie set")
	}
	if cookie.Value == "" || !strings.Contains(cookie.Value, ".") {
		t.Errorf("cookie value %q is not a signed token", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("cookie is not HttpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("SameSite = %v, want Lax", cookie.SameSite)
	}
	if cookie.Path != "/" {
		t.Errorf("Path = %q, want /", cookie.Path)
	}
	if cookie.MaxAge != 30*24*60*60 {
		t.Errorf("MaxAge = %d, want %d", cookie.MaxAge, 30*24*60*60)
	}
	if _, ok := saldoauth.VerifyValue(cookie.Value, testSecret); !ok {
		t.Error("cookie token does not verify")
	}

	if _, mailed := env.mailer.VerificationCodes["ana@saldofy.com"]; !mailed {
		t.Error("verification code was not mailed")
	}
}

func TestSignUpRoute_Validation(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "missing email",
			body:       `{"password":"hunter2hunter2","name":"Ana"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "short password",
			body:       `{"email":"ana@saldofy.com","password":"short","name":"Ana"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed body",
			body:       `{not json`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Arrange
			env := newTestEnv(t)

			// Act
			resp, err := env.app.Test(jsonRequest(http.MethodPost, "/api/auth/sign-up", test.body))

			// Assert
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != test.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, test.wantStatus)
			}
			if cookie := sessionCookie(t, resp); cookie != nil {
				t.Error("session cookie set on a failed sign-up")
			}
		})
	}
}

func TestSignInRoute(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	signUp(t, env, "ana@saldofy.com", "hunter2hunter2", "Ana")

	// Act
	resp, err := env.app.Test(jsonRequest(http.MethodPost, "/api/auth/sign-in",
		`{"email":"ana@saldofy.com","password":"hunter2hunter2"}`))

	// Assert
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if sessionCookie(t, resp) == nil {
		t.Error("no session cookie set on sign-in")
	}
}

// Unknown email and wrong password must be indistinguishable to the client.
func TestSignInRoute_UniformFailure(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	signUp(t, env, "ana@saldofy.com", "hunter2hunter2", "Ana")

	bodies := []string{
		`{"email":"ana@saldofy.com","password":"wrong-password"}`,
		`{"email":"nobody@saldofy.com","password":"hunter2hunter2"}`,
	}

	for _, body := range bodies {
		// Act
		resp, err := env.app.Test(jsonRequest(http.MethodPost, "/api/auth/sign-in", body))

		// Assert
		if err != nil {
			t.Fatalf("app.Test() error = %v", err)
		}
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
		if sessionCookie(t, resp) != nil {
			t.Error("session cookie set on a failed sign-in")
		}
	}
}

func TestSessionRoute(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	token := signUp(t, env, "ana@saldofy.com", "hunter2hunter2", "Ana")

	// Act
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: saldoauth.CookieName, Value: token})
	resp, err := env.app.Test(req)

	// Assert
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

func TestSessionRoute_NoCookie(t *testing.T) {
	// Arrange
	env := newTestEnv(t)

	// Act
	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))

	// Assert
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	// No cookie came in, so none should be cleared.
	if sessionCookie(t, resp) != nil {
		t.Error("clearing cookie set for a cookie-less request")
	}
}

func TestSessionRoute_InvalidCookieCleared(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	token := signUp(t, env, "ana@saldofy.com", "hunter2hunter2", "Ana")
	tampered := token[:len(token)-1] + string(token[len(token)-1]^1)

	// Act
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: saldoauth.CookieName, Value: tampered})
	resp, err := env.app.Test(req)

	// Assert
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	cookie := sessionCookie(t, resp)
	if cookie == nil {
		t.Fatal("invalid cookie was not cleared")
	}
	if cookie.MaxAge >= 0 || cookie.Value != "" {
		t.Errorf("clearing cookie = {Value: %q, MaxAge: %d}, want empty and negative", cookie.Value, cookie.MaxAge)
	}
}

func TestSessionRoute_DeletedAccountCleared(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	token := signUp(t, env, "ana@saldofy.com", "hunter2hunter2", "Ana")

	user, err := env.storage.GetUserByEmail(context.Background(), "ana@saldofy.com")
	if err != nil {
		t.Fatalf("GetUserByEmail() error = %v", err)
	}
	if err := env.storage.DeleteUser(context.Background(), user.ID); err != nil {
		t.Fatalf("DeleteUser() error = %v", err)
	}

	// Act
	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(&http.Cookie{Name: saldoauth.CookieName, Value: token})
	resp, err := env.app.Test(req)

	// Assert
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
	if cookie := sessionCookie(t, resp); cookie == nil {
		t.Error("stale cookie for a deleted account was not cleared")
	}
}

func TestSignOutRoute(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	token := signUp(t, env, "ana@saldofy.com", "hunter2hunter2", "Ana")

	// Act
	req := jsonRequest(http.MethodPost, "/api/auth/sign-out", "")
	req.AddCookie(&http.Cookie{Name: saldoauth.CookieName, Value: token})
	resp, err := env.app.Test(req)

	// Assert
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	cookie := sessionCookie(t, resp)
	if cookie == nil || cookie.MaxAge >= 0 {
		t.Error("sign-out did not clear the session cookie")
	}
}

func TestRequireSession(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	env.app.Get("/protected", env.adapter.RequireSession(), func(c fiber.Ctx) error {
		return c.SendString("ok")
	})

	token := signUp(t, env, "ana@saldofy.com", "hunter2hunter2", "Ana")

	tests := []struct {
		name       string
		cookie     string
		wantStatus int
	}{
		{name: "valid session", cookie: token, wantStatus: http.StatusOK},
		{name: "no cookie", cookie: "", wantStatus: http.StatusUnauthorized},
		{name: "garbage cookie", cookie: "not-a-token", wantStatus: http.StatusUnauthorized},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Act
			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if test.cookie != "" {
				req.AddCookie(&http.Cookie{Name: saldoauth.CookieName, Value: test.cookie})
			}
			resp, err := env.app.Test(req)

			// Assert
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			if resp.StatusCode != test.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, test.wantStatus)
			}
		})
	}
}

func TestRequireSessionOrRedirect(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	env.app.Get("/dashboard", env.adapter.RequireSessionOrRedirect("/sign-in"), func(c fiber.Ctx) error {
		return c.SendString("ok")
	})

	// Act
	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	// Assert
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusFound {
		t.Errorf("status = %d, want 302", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/sign-in" {
		t.Errorf("Location = %q, want /sign-in", loc)
	}
}

func TestWithUser(t *testing.T) {
	// Arrange
	env := newTestEnv(t)
	env.app.Get("/me", env.adapter.WithUser(), func(c fiber.Ctx) error {
		user := UserFromCtx(c)
		if user == nil {
			return c.SendStatus(http.StatusInternalServerError)
		}
		return c.SendString(user.Email)
	})

	token := signUp(t, env, "ana@saldofy.com", "hunter2hunter2", "Ana")

	// Act
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: saldoauth.CookieName, Value: token})
	resp, err := env.app.Test(req)

	// Assert
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
}

// Requirement: mapErrorToStatus maps authentication errors to correct HTTP status codes
func TestMapErrorToStatus_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "maps ErrInvalidCredentials to 401",
			err:        saldoauth.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "maps ErrUnauthorized to 401",
			err:        saldoauth.ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "maps ErrUserExists to 409",
			err:        saldoauth.ErrUserExists,
			wantStatus: http.StatusConflict,
		},
		{
			name:       "maps ErrUserNotFound to 404",
			err:        saldoauth.ErrUserNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "maps ErrEmailRequired to 400",
			err:        saldoauth.ErrEmailRequired,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "maps ErrPasswordTooShort to 400",
			err:        saldoauth.ErrPasswordTooShort,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "maps ErrInvalidVerificationCode to 400",
			err:        saldoauth.ErrInvalidVerificationCode,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "maps ErrInvalidResetToken to 400",
			err:        saldoauth.ErrInvalidResetToken,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "defaults unknown errors to 500",
			err:        errors.New("unknown error"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// Act
			status := mapErrorToStatus(test.err)

			// Assert
			if status != test.wantStatus {
				t.Errorf("mapErrorToStatus should map error to %d; got %d", test.wantStatus, status)
			}
		})
	}
}

// signUp registers a user through the HTTP surface and returns the issued
// session token.
func signUp(t *testing.T, env *testEnv, email, password, name string) string {
	t.Helper()

	body := `{"email":"` + email + `","password":"` + password + `","name":"` + name + `"}`
	resp, err := env.app.Test(jsonRequest(http.MethodPost, "/api/auth/sign-up", body))
	if err != nil {
		t.Fatalf("sign-up request error = %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("sign-up status = %d, want 201", resp.StatusCode)
	}

	cookie := sessionCookie(t, resp)
	if cookie == nil {
		t.Fatal("sign-up set no session cookie")
	}
	return cookie.Value
}
