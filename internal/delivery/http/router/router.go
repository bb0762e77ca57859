// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"warden/internal/delivery/http/middleware"
	"warden/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler       *handler.AuthHandler
	SessionMiddleware *middleware.SessionMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	authHandler       *handler.AuthHandler
	sessionMiddleware *middleware.SessionMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		authHandler:       params.AuthHandler,
		sessionMiddleware: params.SessionMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", r.authHandler.Register)
		authGroup.POST("/login", r.authHandler.Login)
		authGroup.POST("/logout", r.authHandler.Logout)
		authGroup.POST("/logout-all", r.authHandler.LogoutAll, r.sessionMiddleware.RequireSession)
	}

	// Routes that require a live session
	e.GET("/me", r.authHandler.Me, r.sessionMiddleware.RequireSession)
}
