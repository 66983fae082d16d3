package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/class-session-booking/internal/access"
)

// RequireRole enforces that the authenticated caller holds one of the
// given roles. The "role" context value is parsed through the closed
// role set, so unknown or misspelled claim values are rejected rather
// than matched loosely. It assumes JWTAuth ran earlier in the chain.
func RequireRole(roles ...access.Role) echo.MiddlewareFunc {
	allowed := make(map[access.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, _ := c.Get("role").(string)
			role, err := access.ParseRole(raw)
			if err != nil || !allowed[role] {
				return c.JSON(http.StatusForbidden, echo.Map{"status": false, "message": "forbidden"})
			}
			return next(c)
		}
	}
}
