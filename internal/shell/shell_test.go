package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cwms_shell/internal/breadcrumb"
	"cwms_shell/internal/deployment"
	"cwms_shell/internal/location"
	"cwms_shell/internal/login"
	"cwms_shell/internal/routes"
)

func newShell(t *testing.T, name string) *Shell {
	t.Helper()
	d, err := deployment.Lookup(name)
	require.NoError(t, err)
	return New(d, login.DefaultGate)
}

func TestLifecycle(t *testing.T) {
	s := newShell(t, "cwms-data")
	assert.Equal(t, Unmounted, s.State())

	_, err := s.View()
	assert.ErrorIs(t, err, ErrNotMounted)
	assert.ErrorIs(t, s.Navigate(location.FromURL("/cwms-data/")), ErrNotMounted)

	require.NoError(t, s.Mount(location.FromURL("/cwms-data/")))
	assert.Equal(t, Mounted, s.State())
	assert.Equal(t, "mounted", s.State().String())

	assert.ErrorIs(t, s.Mount(location.FromURL("/cwms-data/")), ErrAlreadyMounted)
}

func TestMountDerivesView(t *testing.T) {
	s := newShell(t, "cwms-data")
	require.NoError(t, s.Mount(location.FromURL("https://cwms-data.ds.example.mil/cwms-data/swagger-ui")))

	v, err := s.View()
	require.NoError(t, err)

	assert.Equal(t, "cwms-data", v.Deployment)
	assert.Equal(t, "HQ", v.Office)
	assert.Equal(t, "/cwms-data", v.BasePath)
	assert.Equal(t, "/cwms-data/", v.HomeHref)
	assert.Equal(t, routes.PageSwaggerUI, v.Page)
	assert.Equal(t, []string{"swagger-ui"}, breadcrumb.Labels(v.Breadcrumbs))
	assert.Equal(t, "docs", v.ActiveNav)
	assert.True(t, v.ShowLogin)
	assert.Equal(t, login.RedirectURL("https://cwms-data.ds.example.mil/cwms-data/swagger-ui"), v.LoginURL)
	assert.Equal(t, "/cwms-data/swagger-docs", v.Docs.SpecURL)
	assert.False(t, v.NotFound())
}

func TestNavigateReplacesDerivedState(t *testing.T) {
	s := newShell(t, "cwms-data")
	require.NoError(t, s.Mount(location.FromURL("https://cwms-data.ds.example.mil/cwms-data/swagger-ui")))

	require.NoError(t, s.Navigate(location.FromURL("https://water.usace.army.mil/cwms-data/")))
	v, err := s.View()
	require.NoError(t, err)

	assert.Empty(t, v.Breadcrumbs)
	assert.Equal(t, routes.PageHome, v.Page)
	assert.Equal(t, "home", v.ActiveNav)
	assert.False(t, v.ShowLogin)
	assert.Equal(t, Mounted, s.State())

	require.NoError(t, s.Navigate(location.FromURL("https://water.usace.army.mil/cwms-data/missing/page")))
	v, err = s.View()
	require.NoError(t, err)
	assert.True(t, v.NotFound())
	assert.Equal(t, []string{"missing", "page"}, breadcrumb.Labels(v.Breadcrumbs))
	assert.Empty(t, v.ActiveNav)
}

func TestViewBreadcrumbsAreCopies(t *testing.T) {
	s := newShell(t, "swf-data")
	require.NoError(t, s.Mount(location.FromURL("/swf-data/regexp")))

	v, err := s.View()
	require.NoError(t, err)
	v.Breadcrumbs[0].Label = "changed"

	again, err := s.View()
	require.NoError(t, err)
	assert.Equal(t, "regexp", again.Breadcrumbs[0].Label)
}

func TestUnprefixedDeployment(t *testing.T) {
	s := newShell(t, "root")
	require.NoError(t, s.Mount(location.FromURL("http://localhost:7000/")))

	v, err := s.View()
	require.NoError(t, err)
	assert.Equal(t, routes.PageHome, v.Page)
	assert.Equal(t, "/", v.HomeHref)
	assert.Empty(t, v.Breadcrumbs)
	assert.True(t, v.ShowLogin)
	assert.Equal(t, "/swagger-docs", v.Docs.SpecURL)
}
