package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and injects its claims into the request context. subjectType
// restricts the guard to one audience: staff routes pass "STAFF",
// parent-portal routes pass "PARENT", so a parent token can never open
// a staff endpoint even though both are signed with the same secret.
// Handlers read the authenticated identity via c.Get("user_id") (a
// uint64), c.Get("role") and c.Get("subject_type").
func JWTAuth(secret, subjectType string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"status": false, "message": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, echo.ErrUnauthorized
				}
				return []byte(secret), nil
			})
			if err != nil || !tok.Valid {
				return c.JSON(http.StatusUnauthorized, echo.Map{"status": false, "message": "invalid token"})
			}

			claims, ok := tok.Claims.(jwt.MapClaims)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{"status": false, "message": "invalid claims"})
			}
			typ, _ := claims["typ"].(string)
			if typ != subjectType {
				return c.JSON(http.StatusUnauthorized, echo.Map{"status": false, "message": "invalid token"})
			}
			// Numeric claims decode as float64 from JSON.
			sub, ok := claims["sub"].(float64)
			if !ok || sub <= 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"status": false, "message": "invalid claims"})
			}

			c.Set("user_id", uint64(sub))
			c.Set("subject_type", typ)
			if role, ok := claims["role"].(string); ok {
				c.Set("role", role)
			}
			return next(c)
		}
	}
}
