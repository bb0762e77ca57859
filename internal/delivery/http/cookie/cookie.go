// Package cookie reads and writes the session cookie. The cookie carries only
// the opaque session id; everything else lives server-side.
package cookie

import (
	"net/http"
	"time"

	"warden/config"

	"github.com/labstack/echo/v4"
)

// Read returns the session id from the request cookie, or an empty string
// when the cookie is absent.
func Read(c echo.Context, cfg *config.AuthConfig) string {
	ck, err := c.Cookie(cfg.CookieName)
	if err != nil || ck == nil {
		return ""
	}

	return ck.Value
}

// Set writes the session cookie for an established session.
func Set(c echo.Context, cfg *config.AuthConfig, sessionID string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.CookieName,
		Value:    sessionID,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the session cookie on the client.
func Clear(c echo.Context, cfg *config.AuthConfig) {
	c.SetCookie(&http.Cookie{
		Name:     cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}
