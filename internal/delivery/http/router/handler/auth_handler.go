// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"warden/config"
	"warden/internal/delivery/http/cookie"
	httpmiddleware "warden/internal/delivery/http/middleware"
	"warden/internal/delivery/http/response"
	"warden/internal/domain/entity"
	"warden/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// --- Request / response shapes ---

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,e164"`
	Password string `json:"password" validate:"required,min=8"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// userView is the outward shape of an account. The credential never leaves
// the server; neither does the raw session record.
type userView struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserView(user *entity.User) userView {
	return userView{
		ID:        user.ID.String(),
		Email:     user.Email,
		Name:      user.Name,
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
	}
}

// AuthHandler holds dependencies for authentication handlers.
type AuthHandler struct {
	uc     usecase.AuthUsecase
	cfg    *config.Config
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler, injected by Fx.
func NewAuthHandler(uc usecase.AuthUsecase, cfg *config.Config, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		cfg:    cfg,
		logger: logger,
	}
}

// Register handles the account registration request.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Register(c.Request().Context(), &usecase.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, toUserView(output.User), "User registered successfully")
}

// Login handles the login request and sets the session cookie.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid login input")
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	cookie.Set(c, h.cfg.Auth, output.Session.SessionID(), output.Session.ExpiresAt())

	return response.Success(c, http.StatusOK, toUserView(output.User), "Login successful")
}

// Logout ends the current session and clears the cookie. Requests without a
// cookie succeed too; the client's goal is already met.
func (h *AuthHandler) Logout(c echo.Context) error {
	if sessionID := cookie.Read(c, h.cfg.Auth); sessionID != "" {
		if err := h.uc.Logout(c.Request().Context(), sessionID); err != nil {
			return errors.WithStack(err)
		}
	}

	cookie.Clear(c, h.cfg.Auth)

	return response.Success(c, http.StatusOK, nil, "Logout successful")
}

// LogoutAll ends every session of the authenticated user.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	user, ok := c.Get(httpmiddleware.KeyUser).(*entity.User)
	if !ok {
		return response.Unauthorized(c, "SESSION_NOT_FOUND", "Not authenticated")
	}

	if err := h.uc.LogoutAll(c.Request().Context(), user.ID); err != nil {
		return errors.WithStack(err)
	}

	cookie.Clear(c, h.cfg.Auth)

	return response.Success(c, http.StatusOK, nil, "Logged out everywhere")
}

// Me returns the account the session cookie resolves to.
func (h *AuthHandler) Me(c echo.Context) error {
	user, ok := c.Get(httpmiddleware.KeyUser).(*entity.User)
	if !ok {
		return response.Unauthorized(c, "SESSION_NOT_FOUND", "Not authenticated")
	}

	return response.Success(c, http.StatusOK, toUserView(user), "")
}
