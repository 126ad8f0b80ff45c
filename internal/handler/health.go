package handler // handler contains the HTTP handlers for the API

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is a plain liveness endpoint for load balancers and monitors.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
