package middleware

import (
	"warden/config"
	"warden/internal/delivery/http/cookie"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// Context keys under which the resolved session is stored for handlers.
const (
	KeyUser    = "user"
	KeySession = "session"
)

// SessionMiddleware authenticates requests by resolving the session cookie.
type SessionMiddleware struct {
	uc  usecase.AuthUsecase
	cfg *config.Config
}

// NewSessionMiddleware is the constructor for SessionMiddleware.
func NewSessionMiddleware(uc usecase.AuthUsecase, cfg *config.Config) *SessionMiddleware {
	return &SessionMiddleware{uc: uc, cfg: cfg}
}

// RequireSession rejects requests without a live session and exposes the
// resolved user and record to downstream handlers.
func (m *SessionMiddleware) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sessionID := cookie.Read(c, m.cfg.Auth)
		if sessionID == "" {
			return errors.Wrap(domainerrors.ErrSessionNotFound, "session cookie is missing")
		}

		output, err := m.uc.Resolve(c.Request().Context(), sessionID)
		if err != nil {
			// A dead cookie is useless to the client; drop it alongside the 401.
			cookie.Clear(c, m.cfg.Auth)

			return errors.WithStack(err)
		}

		c.Set(KeyUser, output.User)
		c.Set(KeySession, output.Session)

		return next(c)
	}
}
