package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"cwms_shell/internal/deployment"
	"cwms_shell/internal/location"
	"cwms_shell/internal/login"
	"cwms_shell/internal/shell"
	"cwms_shell/web/templates/pages"
	"cwms_shell/web/templates/shared"
)

// ErrorBody is the JSON error document.
type ErrorBody struct {
	Message            string `json:"message"`
	IncidentIdentifier string `json:"incidentIdentifier"`
}

// CustomErrorHandler creates a custom error handler for Echo. Browsers get
// the error page inside the shell chrome, JSON clients get an ErrorBody.
// Every error is logged with a fresh incident identifier. trustProxy has the
// same meaning as for the page handler.
func CustomErrorHandler(d deployment.Deployment, gate login.Gate, trustProxy bool, logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, errorTitle, errorMessage := describe(err)
		incident := uuid.NewString()

		log := logger.With(
			zap.String("incident", incident),
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
		)
		if code >= http.StatusInternalServerError {
			log.Error("request failed", zap.Error(err))
		} else {
			log.Debug("request rejected", zap.Error(err))
		}

		if wantsJSON(c.Request()) {
			if jsonErr := c.JSON(code, ErrorBody{Message: errorMessage, IncidentIdentifier: incident}); jsonErr != nil {
				log.Error("failed to write error body", zap.Error(jsonErr))
			}
			return
		}

		props := pages.ErrorPageProps{
			Layout:       errorLayout(d, gate, location.FromRequest(c.Request(), trustProxy), errorTitle),
			ErrorTitle:   errorTitle,
			ErrorMessage: errorMessage,
			IncidentID:   incident,
			BackLink:     d.Path(""),
			BackText:     "Return to the home page",
		}

		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
		c.Response().WriteHeader(code)
		if c.Request().Method == http.MethodHead {
			return
		}
		if renderErr := pages.ErrorPage(props).Render(c.Request().Context(), c.Response()); renderErr != nil {
			log.Error("failed to render error page", zap.Error(renderErr))
		}
	}
}

func describe(err error) (code int, title, message string) {
	code = http.StatusInternalServerError

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if msg, ok := he.Message.(string); ok && code < http.StatusInternalServerError {
			message = msg
		}
	}

	switch code {
	case http.StatusNotFound:
		title = "Page Not Found"
		if message == "" || message == http.StatusText(code) {
			message = "The page you're looking for doesn't exist."
		}
	case http.StatusMethodNotAllowed:
		title = "Method Not Allowed"
		if message == "" || message == http.StatusText(code) {
			message = "This page does not accept that request."
		}
	case http.StatusBadRequest:
		title = "Bad Request"
		if message == "" || message == http.StatusText(code) {
			message = "The request could not be processed."
		}
	default:
		title = http.StatusText(code)
		if title == "" || code >= http.StatusInternalServerError {
			title = "Internal Server Error"
		}
		if message == "" {
			message = "Something went wrong. Please try again later."
		}
	}
	return code, title, message
}

func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get(echo.HeaderAccept)
	return strings.Contains(accept, echo.MIMEApplicationJSON) && !strings.Contains(accept, echo.MIMETextHTML)
}

// errorLayout derives the chrome for the failing request the same way a
// page render would.
func errorLayout(d deployment.Deployment, gate login.Gate, nav location.NavContext, title string) shared.LayoutProps {
	s := shell.New(d, gate)
	if err := s.Mount(nav); err == nil {
		if v, err := s.View(); err == nil {
			return pages.LayoutFor(v, title, d.Path("static"))
		}
	}
	return shared.LayoutProps{Title: title, HomeHref: d.Path(""), StaticPrefix: d.Path("static"), Nav: d.Nav}
}
