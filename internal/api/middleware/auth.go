package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dhkim93/session-auth/internal/core/token"
)

const accessTokenCookie = "access_token"

// Auth authenticates requests via the access_token session cookie and
// injects the token subject and username into the request context.
func Auth(access *token.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(accessTokenCookie)
			if err != nil || cookie.Value == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing access token")
			}

			claims, err := access.Verify(cookie.Value)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired access token")
			}

			c.Set("user_id", claims.Subject)
			c.Set("username", claims.Username)

			return next(c)
		}
	}
}
