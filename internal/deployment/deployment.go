package deployment

import (
	"fmt"
	"sort"
	"strings"

	"cwms_shell/internal/location"
	"cwms_shell/internal/navigation"
	"cwms_shell/internal/routes"
)

// Selected names the deployment compiled into the binary. Override at build
// time:
//
//	go build -ldflags "-X cwms_shell/internal/deployment.Selected=swf-data" ./cmd/server
var Selected = "cwms-data"

// Deployment bundles everything that differs between mount points.
type Deployment struct {
	Name     string
	BasePath string // "/" for the unprefixed deployment
	Routes   *routes.Table
	Nav      navigation.Tree
}

// Office returns the office that owns the deployment.
func (d Deployment) Office() string {
	return location.Office(d.BasePath)
}

// Path joins p onto the deployment's base path.
func (d Deployment) Path(p string) string {
	p = strings.TrimPrefix(p, "/")
	if d.BasePath == "/" {
		return "/" + p
	}
	return d.BasePath + "/" + p
}

// prefixed builds the deployment served under "/<name>".
func prefixed(name string) Deployment {
	base := "/" + name
	d := Deployment{Name: name, BasePath: base}
	d.Routes = routes.MustTable(
		routes.Entry{Pattern: base, Content: routes.PageHome},
		routes.Entry{Pattern: base + "/", Content: routes.PageHome},
		routes.Entry{Pattern: base + "/swagger-ui", Content: routes.PageSwaggerUI},
		routes.Entry{Pattern: base + "/swagger-ui.html", Content: routes.PageSwaggerUI},
		routes.Entry{Pattern: base + "/regexp", Content: routes.PageRegexp},
		routes.Entry{Pattern: base + "/regexp.html", Content: routes.PageRegexp},
		routes.Entry{Pattern: routes.Wildcard, Content: routes.PageNotFound},
	)
	d.Nav = menu(d)
	return d
}

func unprefixed() Deployment {
	d := Deployment{Name: "root", BasePath: "/"}
	d.Routes = routes.MustTable(
		routes.Entry{Pattern: "/", Content: routes.PageHome},
		routes.Entry{Pattern: "/swagger-ui", Content: routes.PageSwaggerUI},
		routes.Entry{Pattern: "/regexp", Content: routes.PageRegexp},
		routes.Entry{Pattern: routes.Wildcard, Content: routes.PageNotFound},
	)
	d.Nav = menu(d)
	return d
}

func menu(d Deployment) navigation.Tree {
	home := d.BasePath
	if home != "/" {
		home += "/"
	}
	return navigation.Tree{
		{ID: "home", Text: "Home", Href: home},
		{ID: "docs", Text: "Documentation", Href: navigation.GroupHref, Children: []navigation.NavLink{
			{ID: "swagger-ui", Text: "Swagger UI", Href: d.Path("swagger-ui")},
			{ID: "regexp", Text: "Regular Expressions", Href: d.Path("regexp")},
		}},
		{ID: "help", Text: "Help", Href: navigation.GroupHref, Children: []navigation.NavLink{
			{ID: "source", Text: "Source Code", Href: "https://github.com/USACE/cwms-data-api"},
			{ID: "issues", Text: "Report an Issue", Href: "https://github.com/USACE/cwms-data-api/issues"},
		}},
	}
}

var all = map[string]Deployment{
	"cwms-data": prefixed("cwms-data"),
	"swf-data":  prefixed("swf-data"),
	"root":      unprefixed(),
}

// Lookup returns the named deployment.
func Lookup(name string) (Deployment, error) {
	d, ok := all[name]
	if !ok {
		return Deployment{}, fmt.Errorf("unknown deployment %q (known: %s)", name, strings.Join(Names(), ", "))
	}
	return d, nil
}

// Current returns the deployment compiled into the binary.
func Current() (Deployment, error) {
	return Lookup(Selected)
}

// Names lists the known deployments sorted by name.
func Names() []string {
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
