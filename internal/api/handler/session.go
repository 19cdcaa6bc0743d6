package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dhkim93/session-auth/internal/core/domain"
)

// Fixed cookie names for the session pair.
const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

// setSessionCookies attaches both session tokens as HTTP-only cookies. The
// pair is set together so the client never observes a half-issued session.
func setSessionCookies(c echo.Context, pair domain.TokenPair) {
	setTokenCookie(c, accessTokenCookie, pair.AccessToken)
	setTokenCookie(c, refreshTokenCookie, pair.RefreshToken)
}

// clearSessionCookies expires both session cookies. Tokens already issued
// remain valid until natural expiry: the server keeps no revocation state.
func clearSessionCookies(c echo.Context) {
	expireCookie(c, accessTokenCookie)
	expireCookie(c, refreshTokenCookie)
}

func setTokenCookie(c echo.Context, name, value string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
	})
}

func expireCookie(c echo.Context, name string) {
	c.SetCookie(&http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

// readCookie returns the named cookie value, or "" when absent.
func readCookie(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
