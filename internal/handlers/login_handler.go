package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"cwms_shell/internal/location"
	"cwms_shell/internal/login"
)

// LoginRedirect sends the browser to the central login endpoint. The
// return location is the referring page when it is on this site, otherwise
// the site root.
func LoginRedirect(trustProxy bool) echo.HandlerFunc {
	return func(c echo.Context) error {
		origin := location.FromRequest(c.Request(), trustProxy).Origin()
		returnTo := origin + "/"
		if referer := c.Request().Referer(); location.SameOrigin(referer, origin) {
			returnTo = referer
		}
		return c.Redirect(http.StatusFound, login.RedirectURL(returnTo))
	}
}
