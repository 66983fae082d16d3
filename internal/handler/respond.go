package handler

import "github.com/labstack/echo/v4"

// Every JSON response uses one envelope: {"status": true, "data": ...}
// on success and {"status": false, "message": ...} on failure, so
// clients branch on a single boolean.

func ok(c echo.Context, code int, data interface{}) error {
	return c.JSON(code, echo.Map{"status": true, "data": data})
}

func fail(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"status": false, "message": msg})
}
