package login

import (
	"net/url"
	"strings"
)

// Endpoint is the external login page. Authentication happens there.
const Endpoint = "/CWMSLogin/login"

// ReturnParam carries the page to return to after login.
const ReturnParam = "OriginalLocation"

// Gate decides whether the login control is offered for an origin.
type Gate struct {
	// DomainMarker is matched case-insensitively.
	DomainMarker string
	// LocalMarker is matched case-sensitively.
	LocalMarker string
}

// DefaultGate offers login on internal ".ds." hosts and on localhost.
var DefaultGate = Gate{DomainMarker: ".ds.", LocalMarker: "localhost"}

// ShouldShowLogin reports whether origin contains either marker.
// Empty markers never match.
func (g Gate) ShouldShowLogin(origin string) bool {
	if g.DomainMarker != "" && strings.Contains(strings.ToLower(origin), strings.ToLower(g.DomainMarker)) {
		return true
	}
	return g.LocalMarker != "" && strings.Contains(origin, g.LocalMarker)
}

// ShouldShowLogin uses DefaultGate.
func ShouldShowLogin(origin string) bool {
	return DefaultGate.ShouldShowLogin(origin)
}

// RedirectURL returns the login endpoint carrying returnTo as its return target.
func RedirectURL(returnTo string) string {
	q := url.Values{}
	q.Set(ReturnParam, returnTo)
	return Endpoint + "?" + q.Encode()
}
