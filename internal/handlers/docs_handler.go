package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cwms_shell/internal/apidocs"
	"cwms_shell/internal/deployment"
)

// DocsHandler serves the documentation viewer configuration.
type DocsHandler struct {
	config apidocs.Config
}

// NewDocsHandler creates a new DocsHandler for the deployment.
func NewDocsHandler(d deployment.Deployment) *DocsHandler {
	return &DocsHandler{config: apidocs.NewConfig(d.BasePath)}
}

// ViewerConfig returns the swagger-ui configuration document.
func (h *DocsHandler) ViewerConfig(c echo.Context) error {
	return c.JSON(http.StatusOK, h.config)
}
