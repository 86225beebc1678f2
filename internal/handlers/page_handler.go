package handlers

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cwms_shell/internal/deployment"
	"cwms_shell/internal/location"
	"cwms_shell/internal/login"
	"cwms_shell/internal/routes"
	"cwms_shell/internal/shell"
	"cwms_shell/web/templates/pages"
)

// VisitRecorder counts page renders.
type VisitRecorder interface {
	RecordVisit(ctx context.Context, deployment string, page routes.PageID) error
}

// PageHandler serves every page of the shell.
type PageHandler struct {
	deploy deployment.Deployment
	gate   login.Gate
	visits VisitRecorder
	logger *zap.Logger

	trustProxy bool
}

// NewPageHandler creates a new PageHandler. visits may be nil. trustProxy
// makes the handler honour X-Forwarded-Proto and X-Forwarded-Host.
func NewPageHandler(d deployment.Deployment, gate login.Gate, visits VisitRecorder, trustProxy bool, logger *zap.Logger) *PageHandler {
	return &PageHandler{deploy: d, gate: gate, visits: visits, trustProxy: trustProxy, logger: logger}
}

// Page mounts a shell on the request location and renders the resolved
// content inside the chrome. Unknown paths render the not-found page with
// a 404 status.
func (h *PageHandler) Page(c echo.Context) error {
	s := shell.New(h.deploy, h.gate)
	if err := s.Mount(location.FromRequest(c.Request(), h.trustProxy)); err != nil {
		return err
	}
	view, err := s.View()
	if err != nil {
		return err
	}

	if h.visits != nil {
		if err := h.visits.RecordVisit(c.Request().Context(), h.deploy.Name, view.Page); err != nil {
			h.logger.Warn("Failed to record visit", zap.String("page", string(view.Page)), zap.Error(err))
		}
	}

	status := http.StatusOK
	if view.NotFound() {
		status = http.StatusNotFound
	}
	return render(c, status, pages.ShellPage(view, h.deploy.Path("static")))
}

func render(c echo.Context, status int, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	if c.Request().Method == http.MethodHead {
		return nil
	}
	return component.Render(c.Request().Context(), c.Response())
}
