package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dhkim93/session-auth/internal/api/metrics"
	"github.com/dhkim93/session-auth/internal/core/domain"
	"github.com/dhkim93/session-auth/internal/core/ports"
)

// EventSink receives auth events for asynchronous audit recording.
type EventSink interface {
	Enqueue(event ports.AuthEventInput)
}

// ActivityReader exposes the last-seen markers kept in Redis.
type ActivityReader interface {
	LastSeen(ctx context.Context, userID, action string) (time.Time, error)
}

type AuthHandler struct {
	auth     ports.AuthService
	events   EventSink
	activity ActivityReader
}

// NewAuthHandler creates an AuthHandler. events and activity may be nil;
// audit recording and last-login reporting are then skipped.
func NewAuthHandler(auth ports.AuthService, events EventSink, activity ActivityReader) *AuthHandler {
	return &AuthHandler{auth: auth, events: events, activity: activity}
}

type registerRequest struct {
	Fullname        string `json:"fullname" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	User *domain.User `json:"user"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

type meResponse struct {
	User      *domain.User `json:"user"`
	LastLogin *time.Time   `json:"last_login,omitempty"`
}

// Register creates a new account and signs the client in.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if req.Password != req.ConfirmPassword {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "password and confirm password do not match"})
	}

	user, pair, err := h.auth.Register(c.Request().Context(), req.Fullname, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			metrics.RegistrationsTotal.WithLabelValues("conflict").Inc()
			return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
		}
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return err
	}

	setSessionCookies(c, pair)
	metrics.RegistrationsTotal.WithLabelValues("success").Inc()
	h.record(user, domain.ActionRegister)

	return c.JSON(http.StatusCreated, userResponse{User: user})
}

// Login authenticates credentials and signs the client in.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	user, pair, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			metrics.LoginsTotal.WithLabelValues("invalid").Inc()
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return err
	}

	setSessionCookies(c, pair)
	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.record(user, domain.ActionLogin)

	return c.JSON(http.StatusOK, userResponse{User: user})
}

// Logout clears both session cookies. It never fails: logging out an
// already-anonymous session is a no-op success, and the tokens being
// cleared are not inspected.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	clearSessionCookies(c)
	if h.events != nil {
		h.events.Enqueue(ports.AuthEventInput{Action: domain.ActionLogout, At: time.Now().UTC()})
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "successfully logged out"})
}

// Refresh mints a new access token from the refresh_token cookie and
// replaces the access_token cookie. The refresh cookie is left untouched.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  refreshResponse
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	accessToken, user, err := h.auth.Refresh(c.Request().Context(), readCookie(c, refreshTokenCookie))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRefreshTokenMissing), errors.Is(err, domain.ErrRefreshTokenInvalid):
			metrics.TokenRefreshesTotal.WithLabelValues("unauthorized").Inc()
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": err.Error()})
		case errors.Is(err, domain.ErrUserGone):
			metrics.TokenRefreshesTotal.WithLabelValues("user_gone").Inc()
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		metrics.TokenRefreshesTotal.WithLabelValues("error").Inc()
		return err
	}

	setTokenCookie(c, accessTokenCookie, accessToken)
	metrics.TokenRefreshesTotal.WithLabelValues("success").Inc()
	h.record(user, domain.ActionRefresh)

	return c.JSON(http.StatusOK, refreshResponse{AccessToken: accessToken})
}

// Me returns the account referenced by the authenticated access token.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Success      200  {object}  meResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := ctxUserID(c)
	if err != nil {
		return err
	}

	user, err := h.auth.FindUser(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
		}
		return err
	}

	resp := meResponse{User: user}
	if h.activity != nil {
		if ts, err := h.activity.LastSeen(c.Request().Context(), userID, domain.ActionLogin); err == nil && !ts.IsZero() {
			resp.LastLogin = &ts
		}
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) record(user *domain.User, action string) {
	if h.events == nil || user == nil {
		return
	}
	h.events.Enqueue(ports.AuthEventInput{
		UserID: user.ID,
		Email:  user.Email,
		Action: action,
		At:     time.Now().UTC(),
	})
}
