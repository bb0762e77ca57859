package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"warden/config"
	"warden/internal/delivery/http/validator"
	"warden/internal/domain/entity"
	domainerrors "warden/internal/domain/errors"
	"warden/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuthUsecase is a minimal stand-in; each test wires only the calls it
// expects to see.
type fakeAuthUsecase struct {
	registerFn  func(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error)
	loginFn     func(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error)
	logoutFn    func(ctx context.Context, sessionID string) error
	logoutAllFn func(ctx context.Context, userID uuid.UUID) error
	resolveFn   func(ctx context.Context, sessionID string) (*usecase.ResolveOutput, error)
}

func (f *fakeAuthUsecase) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
	return f.registerFn(ctx, input)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
	return f.loginFn(ctx, input)
}

func (f *fakeAuthUsecase) Logout(ctx context.Context, sessionID string) error {
	return f.logoutFn(ctx, sessionID)
}

func (f *fakeAuthUsecase) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return f.logoutAllFn(ctx, userID)
}

func (f *fakeAuthUsecase) Resolve(ctx context.Context, sessionID string) (*usecase.ResolveOutput, error) {
	return f.resolveFn(ctx, sessionID)
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			SessionTTL: time.Hour,
			CookieName: "warden_session",
		},
	}
}

func newTestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validator.New()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()

	return e.NewContext(req, rec), rec
}

func newTestHandler(uc usecase.AuthUsecase) *AuthHandler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewAuthHandler(uc, testConfig(), logger)
}

func TestAuthHandler_Login_SetsSessionCookie(t *testing.T) {
	userID := uuid.New()
	now := time.Now()
	record, err := entity.NewSessionRecord("opaque-id", userID, now, now.Add(time.Hour))
	require.NoError(t, err)

	uc := &fakeAuthUsecase{
		loginFn: func(_ context.Context, input *usecase.LoginInput) (*usecase.LoginOutput, error) {
			assert.Equal(t, "test@example.com", input.Email)

			return &usecase.LoginOutput{
				User:    &entity.User{ID: userID, Email: input.Email},
				Session: record,
			}, nil
		},
	}

	c, rec := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"test@example.com","password":"Password123!"}`)

	require.NoError(t, newTestHandler(uc).Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "warden_session", cookies[0].Name)
	assert.Equal(t, "opaque-id", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	uc := &fakeAuthUsecase{}

	c, _ := newTestContext(t, http.MethodPost, "/auth/login", `{"email":"not-an-email","password":""}`)

	err := newTestHandler(uc).Login(c)
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)
}

func TestAuthHandler_Register_ReturnsUserWithoutSecrets(t *testing.T) {
	userID := uuid.New()
	uc := &fakeAuthUsecase{
		registerFn: func(_ context.Context, input *usecase.RegisterInput) (*usecase.RegisterOutput, error) {
			return &usecase.RegisterOutput{
				User: &entity.User{ID: userID, Email: input.Email, Name: input.Name},
			}, nil
		},
	}

	c, rec := newTestContext(t, http.MethodPost, "/auth/register", `{"name":"Test User","email":"test@example.com","password":"Password123!"}`)

	require.NoError(t, newTestHandler(uc).Register(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var envelope struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, userID.String(), envelope.Data["id"])
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestAuthHandler_Logout_WithoutCookieSucceeds(t *testing.T) {
	logoutCalled := false
	uc := &fakeAuthUsecase{
		logoutFn: func(_ context.Context, _ string) error {
			logoutCalled = true

			return nil
		},
	}

	c, rec := newTestContext(t, http.MethodPost, "/auth/logout", "")

	require.NoError(t, newTestHandler(uc).Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, logoutCalled)
}

func TestAuthHandler_Logout_ClearsCookie(t *testing.T) {
	var gotSessionID string
	uc := &fakeAuthUsecase{
		logoutFn: func(_ context.Context, sessionID string) error {
			gotSessionID = sessionID

			return nil
		},
	}

	c, rec := newTestContext(t, http.MethodPost, "/auth/logout", "")
	c.Request().AddCookie(&http.Cookie{Name: "warden_session", Value: "opaque-id"})

	require.NoError(t, newTestHandler(uc).Logout(c))
	assert.Equal(t, "opaque-id", gotSessionID)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "warden_session", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
