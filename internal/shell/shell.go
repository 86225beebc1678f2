package shell

import (
	"errors"

	"cwms_shell/internal/apidocs"
	"cwms_shell/internal/breadcrumb"
	"cwms_shell/internal/deployment"
	"cwms_shell/internal/location"
	"cwms_shell/internal/login"
	"cwms_shell/internal/navigation"
	"cwms_shell/internal/routes"
)

// State is the shell lifecycle state.
type State int

const (
	Unmounted State = iota
	Mounted
)

func (s State) String() string {
	if s == Mounted {
		return "mounted"
	}
	return "unmounted"
}

var (
	ErrNotMounted     = errors.New("shell is not mounted")
	ErrAlreadyMounted = errors.New("shell is already mounted")
)

// View is the chrome and content selection derived from the current location.
type View struct {
	Deployment string
	Office     string

	Origin   string
	Pathname string
	BasePath string
	HomeHref string

	Nav         navigation.Tree
	ActiveNav   string
	Breadcrumbs []breadcrumb.Segment

	ShowLogin bool
	LoginURL  string

	Page routes.PageID
	Docs apidocs.URLs
}

// NotFound reports whether the route table fell through to the wildcard.
func (v View) NotFound() bool {
	return v.Page == routes.PageNotFound
}

// Shell owns the current path and everything derived from it.
type Shell struct {
	deploy deployment.Deployment
	gate   login.Gate

	state   State
	current location.NavContext
	crumbs  []breadcrumb.Segment
	page    routes.PageID
}

// New creates an unmounted shell for a deployment.
func New(d deployment.Deployment, gate login.Gate) *Shell {
	return &Shell{deploy: d, gate: gate}
}

// State returns the lifecycle state.
func (s *Shell) State() State {
	return s.state
}

// Mount attaches the shell to its first location and derives breadcrumbs
// and content for it.
func (s *Shell) Mount(nav location.NavContext) error {
	if s.state == Mounted {
		return ErrAlreadyMounted
	}
	s.state = Mounted
	s.update(nav)
	return nil
}

// Navigate moves a mounted shell to a new location. Nothing derived from the
// previous location survives.
func (s *Shell) Navigate(nav location.NavContext) error {
	if s.state != Mounted {
		return ErrNotMounted
	}
	s.update(nav)
	return nil
}

func (s *Shell) update(nav location.NavContext) {
	s.current = nav
	s.crumbs = breadcrumb.Derive(nav.Pathname(), nav.BasePath())
	s.page = s.deploy.Routes.Resolve(nav.Pathname())
}

// View returns the derived state for rendering.
func (s *Shell) View() (View, error) {
	if s.state != Mounted {
		return View{}, ErrNotMounted
	}

	crumbs := make([]breadcrumb.Segment, len(s.crumbs))
	copy(crumbs, s.crumbs)

	return View{
		Deployment:  s.deploy.Name,
		Office:      s.deploy.Office(),
		Origin:      s.current.Origin(),
		Pathname:    s.current.Pathname(),
		BasePath:    s.current.BasePath(),
		HomeHref:    s.deploy.Path(""),
		Nav:         s.deploy.Nav,
		ActiveNav:   s.deploy.Nav.ActiveID(s.current.Pathname()),
		Breadcrumbs: crumbs,
		ShowLogin:   s.gate.ShouldShowLogin(s.current.Origin()),
		LoginURL:    login.RedirectURL(s.current.Href()),
		Page:        s.page,
		Docs:        apidocs.For(s.deploy.BasePath),
	}, nil
}
