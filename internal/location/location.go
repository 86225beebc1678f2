package location

import (
	"net/http"
	"net/url"
	"strings"
)

// NavContext is the current navigation location: the origin and path the
// page was requested with. Components receive it explicitly instead of
// reading request state on their own.
type NavContext struct {
	origin   string
	pathname string
}

// New creates a NavContext from an origin (scheme://host[:port]) and a path.
// An empty path is treated as "/".
func New(origin, pathname string) NavContext {
	if pathname == "" {
		pathname = "/"
	}
	return NavContext{
		origin:   strings.TrimSuffix(origin, "/"),
		pathname: pathname,
	}
}

// FromURL parses an absolute or path-only URL. Query and fragment are dropped.
// Unparseable input falls back to using the raw string as the path.
func FromURL(raw string) NavContext {
	u, err := url.Parse(raw)
	if err != nil {
		return New("", raw)
	}
	origin := ""
	if u.Scheme != "" && u.Host != "" {
		origin = u.Scheme + "://" + u.Host
	}
	return New(origin, u.EscapedPath())
}

// FromRequest builds the NavContext a browser would see for r. The
// X-Forwarded-Proto and X-Forwarded-Host headers are only honoured when
// trustProxy is set, that is when a reverse proxy overwrites them.
func FromRequest(r *http.Request, trustProxy bool) NavContext {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	host := r.Host

	if trustProxy {
		if proto := firstHeaderValue(r, "X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		if fwd := firstHeaderValue(r, "X-Forwarded-Host"); fwd != "" {
			host = fwd
		}
	}

	return New(scheme+"://"+host, r.URL.EscapedPath())
}

func firstHeaderValue(r *http.Request, name string) string {
	return strings.TrimSpace(strings.Split(r.Header.Get(name), ",")[0])
}

// SameOrigin reports whether the absolute URL raw points at origin.
func SameOrigin(raw, origin string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" || u.User != nil {
		return false
	}
	return strings.EqualFold(u.Scheme+"://"+u.Host, origin)
}

// Origin returns scheme, host and port.
func (n NavContext) Origin() string {
	return n.origin
}

// Pathname returns the path component only.
func (n NavContext) Pathname() string {
	return n.pathname
}

// Href returns origin + pathname.
func (n NavContext) Href() string {
	return n.origin + n.pathname
}

// BasePath returns "/" followed by the text between the first and second
// slash of the path. A path without segments yields "/".
func (n NavContext) BasePath() string {
	return BasePath(n.pathname)
}

// BasePath is the path-only form of NavContext.BasePath.
func BasePath(pathname string) string {
	rest := strings.TrimPrefix(pathname, "/")
	if i := strings.Index(rest, "/"); i >= 0 {
		rest = rest[:i]
	}
	return "/" + rest
}

// Office derives the owning office from a deployment base path:
// "/spk-data" is SPK. The shared "/cwms-data" mount and the root mount
// belong to HQ.
func Office(basePath string) string {
	office := strings.TrimPrefix(strings.SplitN(basePath, "-", 2)[0], "/")
	if office == "" || strings.EqualFold(office, "cwms") {
		office = "HQ"
	}
	return strings.ToUpper(office)
}
