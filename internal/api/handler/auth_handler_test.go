package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/campdir/bootcamp-api/internal/api/metrics"
	"github.com/campdir/bootcamp-api/internal/core/domain"
)

type stubAuthService struct {
	registerFn       func(ctx context.Context, name, email, password string, role domain.Role) (*domain.Account, string, error)
	loginFn          func(ctx context.Context, email, password string) (*domain.Account, string, error)
	accountFn        func(ctx context.Context, id string) (*domain.Account, error)
	updateDetailsFn  func(ctx context.Context, id, name, email string) (*domain.Account, error)
	updatePasswordFn func(ctx context.Context, id, current, new string) (string, error)
	forgotFn         func(ctx context.Context, email string) error
	resetFn          func(ctx context.Context, token, password string) (*domain.Account, string, error)
}

func (s *stubAuthService) Register(ctx context.Context, name, email, password string, role domain.Role) (*domain.Account, string, error) {
	return s.registerFn(ctx, name, email, password, role)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.Account, string, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Account(ctx context.Context, id string) (*domain.Account, error) {
	return s.accountFn(ctx, id)
}

func (s *stubAuthService) UpdateDetails(ctx context.Context, id, name, email string) (*domain.Account, error) {
	return s.updateDetailsFn(ctx, id, name, email)
}

func (s *stubAuthService) UpdatePassword(ctx context.Context, id, current, new string) (string, error) {
	return s.updatePasswordFn(ctx, id, current, new)
}

func (s *stubAuthService) ForgotPassword(ctx context.Context, email string) error {
	return s.forgotFn(ctx, email)
}

func (s *stubAuthService) ResetPassword(ctx context.Context, token, password string) (*domain.Account, string, error) {
	return s.resetFn(ctx, token, password)
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, name, email, _ string, role domain.Role) (*domain.Account, string, error) {
			if name != "Alice" || email != "a@x.com" || role != domain.RoleUser {
				t.Fatalf("unexpected args: %s %s %s", name, email, role)
			}
			return &domain.Account{ID: "1", Name: name, Email: email, Role: role}, "signed-token", nil
		},
	}
	h := NewAuthHandler(stub, CookieOptions{TTL: time.Hour})

	c, rec := newTestContext(t, http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"a@x.com","password":"secret1","role":"user"}`)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("expected success envelope, got %+v", resp)
	}
	if resp["token"] != "signed-token" {
		t.Fatalf("token missing from body: %+v", resp)
	}
	data, ok := resp["data"].(map[string]any)
	if !ok || data["email"] != "a@x.com" {
		t.Fatalf("unexpected data payload: %+v", resp)
	}

	cookie := sessionCookie(rec)
	if cookie == nil {
		t.Fatalf("session cookie not set")
	}
	if cookie.Value != "signed-token" || !cookie.HttpOnly {
		t.Fatalf("unexpected cookie: %+v", cookie)
	}
}

func TestAuthHandler_Register_ShortPassword(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, CookieOptions{TTL: time.Hour})

	c, _ := newTestContext(t, http.MethodPost, "/auth/register",
		`{"name":"Alice","email":"a@x.com","password":"short"}`)

	err := h.Register(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, _, _ string) (*domain.Account, string, error) {
			return nil, "", domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, CookieOptions{TTL: time.Hour})

	c, _ := newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"wrong"}`)

	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials passthrough, got %v", err)
	}
}

func TestAuthHandler_Login_FailureMetricCountsOnlyRejections(t *testing.T) {
	failures := metrics.LoginsTotal.WithLabelValues("failure")

	stub := &stubAuthService{
		loginFn: func(_ context.Context, _, _ string) (*domain.Account, string, error) {
			return nil, "", fmt.Errorf("%w: email is required", domain.ErrValidation)
		},
	}
	h := NewAuthHandler(stub, CookieOptions{TTL: time.Hour})

	before := testutil.ToFloat64(failures)
	c, _ := newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"secret1"}`)
	_ = h.Login(c)
	if got := testutil.ToFloat64(failures); got != before {
		t.Fatalf("validation error counted as failed login: %v -> %v", before, got)
	}

	stub.loginFn = func(_ context.Context, _, _ string) (*domain.Account, string, error) {
		return nil, "", domain.ErrInvalidCredentials
	}
	c, _ = newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"wrong"}`)
	_ = h.Login(c)
	if got := testutil.ToFloat64(failures); got != before+1 {
		t.Fatalf("rejected credentials not counted: %v -> %v", before, got)
	}
}

func TestAuthHandler_Login_SecureCookieInProduction(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, _, _ string) (*domain.Account, string, error) {
			return &domain.Account{ID: "1", Email: "a@x.com", Role: domain.RoleUser}, "signed-token", nil
		},
	}
	h := NewAuthHandler(stub, CookieOptions{TTL: time.Hour, Secure: true})

	c, rec := newTestContext(t, http.MethodPost, "/auth/login",
		`{"email":"a@x.com","password":"secret1"}`)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	cookie := sessionCookie(rec)
	if cookie == nil || !cookie.Secure {
		t.Fatalf("expected secure cookie, got %+v", cookie)
	}
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, CookieOptions{TTL: time.Hour})

	c, rec := newTestContext(t, http.MethodGet, "/auth/logout", "")

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	cookie := sessionCookie(rec)
	if cookie == nil || cookie.Value != "none" {
		t.Fatalf("cookie not cleared: %+v", cookie)
	}
	if !cookie.Expires.Before(time.Now().Add(time.Minute)) {
		t.Fatalf("cleared cookie should expire promptly: %v", cookie.Expires)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	stub := &stubAuthService{
		accountFn: func(_ context.Context, id string) (*domain.Account, error) {
			if id != "abc123" {
				t.Fatalf("unexpected id: %s", id)
			}
			return &domain.Account{ID: id, Name: "Alice", Email: "a@x.com"}, nil
		},
	}
	h := NewAuthHandler(stub, CookieOptions{TTL: time.Hour})

	c, rec := newTestContext(t, http.MethodGet, "/auth/me", "")
	c.Set("account_id", "abc123")

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	data, _ := resp["data"].(map[string]any)
	if data["id"] != "abc123" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_ResetPassword_PassesPathToken(t *testing.T) {
	stub := &stubAuthService{
		resetFn: func(_ context.Context, token, password string) (*domain.Account, string, error) {
			if token != "tok123" {
				t.Fatalf("unexpected token: %s", token)
			}
			if password != "newpass1" {
				t.Fatalf("unexpected password: %s", password)
			}
			return &domain.Account{ID: "1"}, "fresh-token", nil
		},
	}
	h := NewAuthHandler(stub, CookieOptions{TTL: time.Hour})

	c, rec := newTestContext(t, http.MethodPut, "/auth/resetpassword/tok123",
		`{"password":"newpass1"}`)
	c.SetParamNames("token")
	c.SetParamValues("tok123")

	if err := h.ResetPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if cookie := sessionCookie(rec); cookie == nil || cookie.Value != "fresh-token" {
		t.Fatalf("reset should open a session, got %+v", cookie)
	}
}

func TestAuthHandler_UpdatePassword_RotatesToken(t *testing.T) {
	stub := &stubAuthService{
		updatePasswordFn: func(_ context.Context, id, current, new string) (string, error) {
			if id != "abc123" || current != "secret1" || new != "newpass1" {
				t.Fatalf("unexpected args: %s %s %s", id, current, new)
			}
			return "rotated-token", nil
		},
	}
	h := NewAuthHandler(stub, CookieOptions{TTL: time.Hour})

	c, rec := newTestContext(t, http.MethodPut, "/auth/updatepassword",
		`{"currentPassword":"secret1","newPassword":"newpass1"}`)
	c.Set("account_id", "abc123")

	if err := h.UpdatePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["token"] != "rotated-token" {
		t.Fatalf("expected rotated token, got %+v", resp)
	}
}

func TestAuthHandler_ForgotPassword_AlwaysGeneric(t *testing.T) {
	stub := &stubAuthService{
		forgotFn: func(_ context.Context, email string) error {
			return nil
		},
	}
	h := NewAuthHandler(stub, CookieOptions{TTL: time.Hour})

	c, rec := newTestContext(t, http.MethodPost, "/auth/forgotpassword",
		`{"email":"ghost@x.com"}`)

	if err := h.ForgotPassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "ghost@x.com") {
		t.Fatalf("response echoes the email address: %s", rec.Body.String())
	}
}
