package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/class-session-booking/internal/handler"
	"github.com/iliyamo/class-session-booking/internal/middleware"
	"github.com/iliyamo/class-session-booking/internal/repository"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance. Currently it exposes only a health check.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes. Staff and
// parents log in through separate endpoints; refresh and logout are
// shared because the refresh token itself records which table the
// subject lives in.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/staff/login", a.StaffLogin)
	g.POST("/parent/login", a.ParentLogin)
	g.POST("/refresh", a.Refresh)
	// Logout with a refresh_token body works without a JWT so a client
	// with an expired access token can still end its session.
	g.POST("/logout", a.Logout)

	staff := e.Group("/v1/staff", middleware.JWTAuth(jwtSecret, repository.SubjectStaff))
	staff.GET("/me", a.Me)
	staff.POST("/logout", a.Logout)

	parent := e.Group("/v1/parent", middleware.JWTAuth(jwtSecret, repository.SubjectParent))
	parent.GET("/me", a.Me)
	parent.POST("/logout", a.Logout)
}
