package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/class-session-booking/internal/access"
	"github.com/iliyamo/class-session-booking/internal/handler"
	"github.com/iliyamo/class-session-booking/internal/middleware"
	"github.com/iliyamo/class-session-booking/internal/repository"
)

// RegisterStaff registers the back-office endpoints under /v1/staff.
// Every route requires a staff-typed JWT. Booking reads are open to
// all three staff roles because the visibility predicate inside the
// service already scopes what each role sees; assignment and schedule
// management stay admin-only.
func RegisterStaff(e *echo.Echo, b *handler.BookingHandler, s *handler.ScheduleHandler, jwtSecret string) {
	g := e.Group("/v1/staff", middleware.JWTAuth(jwtSecret, repository.SubjectStaff))

	anyStaff := middleware.RequireRole(access.RoleAgent, access.RoleAdmin, access.RoleSuperAdmin)
	adminOnly := middleware.RequireRole(access.RoleAdmin, access.RoleSuperAdmin)

	// ---- Bookings ----
	g.POST("/bookings", b.CreateStaffBooking, anyStaff)
	g.GET("/bookings", b.ListBookings, anyStaff)
	g.GET("/bookings/:id", b.GetBooking, anyStaff)
	g.POST("/bookings/assign", b.AssignBookings, adminOnly)

	// ---- Schedule management ----
	g.POST("/venues", s.CreateVenue, adminOnly)
	g.PUT("/venues/:id", s.UpdateVenue, adminOnly)
	g.GET("/venues", s.ListVenues, anyStaff)
	g.POST("/sessions", s.CreateSession, adminOnly)
	g.GET("/sessions/:id", s.GetSession, anyStaff)
}
