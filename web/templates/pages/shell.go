package pages

import (
	"github.com/a-h/templ"

	"cwms_shell/internal/routes"
	"cwms_shell/internal/shell"
	"cwms_shell/web/templates/shared"
)

var titles = map[routes.PageID]string{
	routes.PageHome:      "Home",
	routes.PageSwaggerUI: "Swagger UI",
	routes.PageRegexp:    "Regular Expressions",
	routes.PageNotFound:  "Page Not Found",
}

// Title returns the document title for a page.
func Title(page routes.PageID) string {
	if t, ok := titles[page]; ok {
		return t
	}
	return string(page)
}

// LayoutFor maps a shell view onto the layout chrome.
func LayoutFor(v shell.View, title, staticPrefix string) shared.LayoutProps {
	return shared.LayoutProps{
		Title:        title,
		Office:       v.Office,
		HomeHref:     v.HomeHref,
		StaticPrefix: staticPrefix,
		Nav:          v.Nav,
		ActiveNav:    v.ActiveNav,
		Breadcrumbs:  shared.FromSegments(v.Breadcrumbs),
		ShowLogin:    v.ShowLogin,
		LoginURL:     v.LoginURL,
	}
}

// Content selects the page body for the resolved route.
func Content(v shell.View, staticPrefix string) templ.Component {
	switch v.Page {
	case routes.PageHome:
		return Home(v.HomeHref, v.Office)
	case routes.PageSwaggerUI:
		return SwaggerUI(v.Docs, staticPrefix)
	case routes.PageRegexp:
		return Regexp()
	default:
		return NotFound(v.HomeHref, v.Pathname)
	}
}

// ShellPage renders a full document for the view.
func ShellPage(v shell.View, staticPrefix string) templ.Component {
	return shared.Layout(LayoutFor(v, Title(v.Page), staticPrefix), Content(v, staticPrefix))
}

var regexpExamples = [][2]string{
	{`^KEYS`, "names starting with KEYS"},
	{`\.Flow\.`, "time series ids with the Flow parameter"},
	{`Stage|Elev`, "names containing Stage or Elev"},
	{`.*-Pool$`, "sub-locations ending in -Pool"},
	{`^[A-Z]{3,5}$`, "three to five letter base locations"},
}
