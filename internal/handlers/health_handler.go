package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports liveness along with the deployment name.
func Health(deploymentName string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":     "ok",
			"deployment": deploymentName,
		})
	}
}
