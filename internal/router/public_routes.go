package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/class-session-booking/internal/handler"
)

// RegisterPublic registers the unauthenticated surface: venue and
// session browsing plus the website booking form. Browse responses are
// wrapped in the Redis response cache; everything public also runs
// through the rate limiter. Either middleware may be nil when Redis is
// unavailable, in which case the routes are mounted bare.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, b *handler.BookingHandler, rateLimit, cache echo.MiddlewareFunc) {
	browse := []echo.MiddlewareFunc{}
	if rateLimit != nil {
		browse = append(browse, rateLimit)
	}
	if cache != nil {
		browse = append(browse, cache)
	}
	e.GET("/v1/venues", p.GetPublicVenues, browse...)
	e.GET("/v1/venues/:id/sessions", p.GetPublicSessionsByVenue, browse...)

	// The booking form itself is never cached; it is a write.
	if rateLimit != nil {
		e.POST("/v1/bookings", b.CreateWebsiteBooking, rateLimit)
	} else {
		e.POST("/v1/bookings", b.CreateWebsiteBooking)
	}
}
