package middleware

// identity.go holds helpers shared across middleware files for reading
// the authenticated identity out of the Echo context.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated subject id as a string for
// use in Redis keys. JWTAuth stores it as a uint64; requests that never
// passed the guard (public routes) yield "anon".
func currentUserID(c echo.Context) string {
	if v, ok := c.Get("user_id").(uint64); ok && v > 0 {
		return strconv.FormatUint(v, 10)
	}
	return "anon"
}
