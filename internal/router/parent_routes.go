package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/class-session-booking/internal/handler"
	"github.com/iliyamo/class-session-booking/internal/middleware"
	"github.com/iliyamo/class-session-booking/internal/repository"
)

// RegisterParent registers parent-portal endpoints under /v1/parent.
// All routes require a parent-typed JWT; the authenticated account is
// the booking identity, so no account data appears in the payload.
func RegisterParent(e *echo.Echo, b *handler.BookingHandler, jwtSecret string) {
	g := e.Group("/v1/parent", middleware.JWTAuth(jwtSecret, repository.SubjectParent))
	g.POST("/bookings", b.CreateParentBooking)
}
