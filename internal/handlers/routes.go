package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cwms_shell/internal/deployment"
)

var pageMethods = []string{http.MethodGet, http.MethodHead}

// Register wires the shell endpoints for deployment d onto e.
func Register(e *echo.Echo, d deployment.Deployment, pageHandler *PageHandler, docsHandler *DocsHandler) {
	e.GET("/healthz", Health(d.Name))
	e.GET(d.Path("swagger-config.json"), docsHandler.ViewerConfig)
	e.GET(d.Path("login"), LoginRedirect(pageHandler.trustProxy))

	if d.BasePath != "/" {
		e.Match(pageMethods, d.BasePath, pageHandler.Page)
	}
	e.Match(pageMethods, d.Path(""), pageHandler.Page)
	e.Match(pageMethods, d.Path("*"), pageHandler.Page)
}
