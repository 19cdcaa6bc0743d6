package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dhkim93/session-auth/internal/core/domain"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, fullname, email, password string) (*domain.User, domain.TokenPair, error)
	loginFn    func(ctx context.Context, email, password string) (*domain.User, domain.TokenPair, error)
	refreshFn  func(ctx context.Context, refreshToken string) (string, *domain.User, error)
	findFn     func(ctx context.Context, id string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, fullname, email, password string) (*domain.User, domain.TokenPair, error) {
	return s.registerFn(ctx, fullname, email, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.User, domain.TokenPair, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) Refresh(ctx context.Context, refreshToken string) (string, *domain.User, error) {
	return s.refreshFn(ctx, refreshToken)
}

func (s *stubAuthService) FindUser(ctx context.Context, id string) (*domain.User, error) {
	return s.findFn(ctx, id)
}

func newTestContext(t *testing.T, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestAuthHandler_Register_SetsSessionCookies(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, fullname, email, password string) (*domain.User, domain.TokenPair, error) {
			if fullname != "Alice Kim" || email != "alice@example.com" || password != "pass12345" {
				t.Fatalf("unexpected args: %s %s %s", fullname, email, password)
			}
			user := &domain.User{ID: "1", Fullname: fullname, Email: email}
			return user, domain.TokenPair{AccessToken: "access123", RefreshToken: "refresh456"}, nil
		},
	}
	h := NewAuthHandler(stub, nil, nil)

	body := `{"fullname":"Alice Kim","email":"alice@example.com","password":"pass12345","confirm_password":"pass12345"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/register", body)

	if err := h.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	access := findCookie(t, rec, "access_token")
	refresh := findCookie(t, rec, "refresh_token")
	if access == nil || refresh == nil {
		t.Fatalf("expected both session cookies, got %v", rec.Result().Cookies())
	}
	if access.Value != "access123" || refresh.Value != "refresh456" {
		t.Fatalf("unexpected cookie values: %s %s", access.Value, refresh.Value)
	}
	if !access.HttpOnly || !refresh.HttpOnly {
		t.Fatalf("session cookies must be HTTP-only")
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "alice@example.com" {
		t.Fatalf("unexpected user payload: %+v", resp)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash must not be rendered")
	}
}

func TestAuthHandler_Register_ConfirmMismatch(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, _, _, _ string) (*domain.User, domain.TokenPair, error) {
			t.Fatalf("service should not be called")
			return nil, domain.TokenPair{}, nil
		},
	}
	h := NewAuthHandler(stub, nil, nil)

	body := `{"fullname":"Alice Kim","email":"alice@example.com","password":"pass12345","confirm_password":"different1"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/register", body)

	_ = h.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, _, _, _ string) (*domain.User, domain.TokenPair, error) {
			t.Fatalf("service should not be called")
			return nil, domain.TokenPair{}, nil
		},
	}
	h := NewAuthHandler(stub, nil, nil)

	// Missing fullname and a short password both fail validation.
	body := `{"email":"alice@example.com","password":"short","confirm_password":"short"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/register", body)

	_ = h.Register(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Register_EmailTaken(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, _, _, _ string) (*domain.User, domain.TokenPair, error) {
			return nil, domain.TokenPair{}, domain.ErrEmailTaken
		},
	}
	h := NewAuthHandler(stub, nil, nil)

	body := `{"fullname":"Alice Kim","email":"alice@example.com","password":"pass12345","confirm_password":"pass12345"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/register", body)

	_ = h.Register(c)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*domain.User, domain.TokenPair, error) {
			if email != "alice@example.com" || password != "pass12345" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			user := &domain.User{ID: "1", Fullname: "Alice Kim", Email: email}
			return user, domain.TokenPair{AccessToken: "access123", RefreshToken: "refresh456"}, nil
		},
	}
	h := NewAuthHandler(stub, nil, nil)

	body := `{"email":"alice@example.com","password":"pass12345"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/login", body)

	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if findCookie(t, rec, "access_token") == nil || findCookie(t, rec, "refresh_token") == nil {
		t.Fatalf("expected both session cookies")
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, _, _ string) (*domain.User, domain.TokenPair, error) {
			return nil, domain.TokenPair{}, domain.ErrInvalidCredentials
		},
	}
	h := NewAuthHandler(stub, nil, nil)

	body := `{"email":"alice@example.com","password":"badpass99"}`
	c, rec := newTestContext(t, http.MethodPost, "/auth/login", body)

	_ = h.Login(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("no cookies should be set on failed login")
	}
}

func TestAuthHandler_Logout_Idempotent(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, nil, nil)

	for i := 0; i < 2; i++ {
		c, rec := newTestContext(t, http.MethodPost, "/auth/logout", "")

		if err := h.Logout(c); err != nil {
			t.Fatalf("logout %d returned error: %v", i+1, err)
		}
		if rec.Code != http.StatusOK {
			t.Fatalf("logout %d: expected 200, got %d", i+1, rec.Code)
		}

		access := findCookie(t, rec, "access_token")
		refresh := findCookie(t, rec, "refresh_token")
		if access == nil || refresh == nil {
			t.Fatalf("logout %d: expected expiring cookies", i+1)
		}
		if access.Value != "" || access.MaxAge >= 0 {
			t.Fatalf("logout %d: access cookie not cleared: %+v", i+1, access)
		}
		if refresh.Value != "" || refresh.MaxAge >= 0 {
			t.Fatalf("logout %d: refresh cookie not cleared: %+v", i+1, refresh)
		}
	}
}

func TestAuthHandler_Refresh_Success(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(_ context.Context, refreshToken string) (string, *domain.User, error) {
			if refreshToken != "refresh456" {
				t.Fatalf("unexpected refresh token: %s", refreshToken)
			}
			return "newaccess789", &domain.User{ID: "1", Email: "alice@example.com"}, nil
		},
	}
	h := NewAuthHandler(stub, nil, nil)

	c, rec := newTestContext(t, http.MethodPost, "/auth/refresh", "")
	c.Request().AddCookie(&http.Cookie{Name: "refresh_token", Value: "refresh456"})

	if err := h.Refresh(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	access := findCookie(t, rec, "access_token")
	if access == nil || access.Value != "newaccess789" {
		t.Fatalf("expected replaced access cookie, got %+v", access)
	}
	if findCookie(t, rec, "refresh_token") != nil {
		t.Fatalf("refresh cookie must be left untouched")
	}

	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["access_token"] != "newaccess789" {
		t.Fatalf("unexpected body: %v", resp)
	}
}

func TestAuthHandler_Refresh_MissingCookie(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(_ context.Context, refreshToken string) (string, *domain.User, error) {
			if refreshToken != "" {
				t.Fatalf("expected empty token, got %s", refreshToken)
			}
			return "", nil, domain.ErrRefreshTokenMissing
		},
	}
	h := NewAuthHandler(stub, nil, nil)

	c, rec := newTestContext(t, http.MethodPost, "/auth/refresh", "")

	_ = h.Refresh(c)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestAuthHandler_Refresh_UserGone(t *testing.T) {
	stub := &stubAuthService{
		refreshFn: func(_ context.Context, _ string) (string, *domain.User, error) {
			return "", nil, domain.ErrUserGone
		},
	}
	h := NewAuthHandler(stub, nil, nil)

	c, rec := newTestContext(t, http.MethodPost, "/auth/refresh", "")
	c.Request().AddCookie(&http.Cookie{Name: "refresh_token", Value: "stale"})

	_ = h.Refresh(c)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	stub := &stubAuthService{
		findFn: func(_ context.Context, id string) (*domain.User, error) {
			if id != "1" {
				t.Fatalf("unexpected id: %s", id)
			}
			return &domain.User{ID: "1", Fullname: "Alice Kim", Email: "alice@example.com"}, nil
		},
	}
	h := NewAuthHandler(stub, nil, nil)

	c, rec := newTestContext(t, http.MethodGet, "/auth/me", "")
	c.Set("user_id", "1")

	if err := h.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{}, nil, nil)

	c, _ := newTestContext(t, http.MethodGet, "/auth/me", "")

	err := h.Me(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}
