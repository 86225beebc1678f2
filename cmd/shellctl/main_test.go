package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"home", []string{"resolve", "/cwms-data/"}, "/cwms-data/ -> home\n"},
		{"swagger url", []string{"resolve", "https://host/cwms-data/swagger-ui.html?x=1"}, "/cwms-data/swagger-ui.html -> swagger-ui\n"},
		{"unknown", []string{"resolve", "/cwms-data/nope"}, "/cwms-data/nope -> not-found\n"},
		{"root deployment", []string{"-d", "root", "resolve", "/regexp"}, "/regexp -> regexp\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := run(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestResolveJSON(t *testing.T) {
	out, err := run(t, "--format", "json", "-d", "swf-data", "resolve", "/swf-data/regexp")
	require.NoError(t, err)

	var res resolution
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "/swf-data/regexp", res.Path)
	assert.Equal(t, "regexp", string(res.Page))
}

func TestRoutesEndsWithWildcard(t *testing.T) {
	out, err := run(t, "-d", "root", "routes")
	require.NoError(t, err)
	assert.Contains(t, out, "/swagger-ui")
	assert.Regexp(t, `\*\s+not-found\n$`, out)
}

func TestBreadcrumbs(t *testing.T) {
	out, err := run(t, "breadcrumbs", "https://host/cwms-data/a/b")
	require.NoError(t, err)
	assert.Equal(t, "a\ta\nb\tb\n", out)

	out, err = run(t, "breadcrumbs", "/")
	require.NoError(t, err)
	assert.Equal(t, "(no breadcrumbs)\n", out)
}

func TestNav(t *testing.T) {
	out, err := run(t, "-d", "cwms-data", "nav")
	require.NoError(t, err)
	assert.Contains(t, out, "[home] /cwms-data/")
	assert.Contains(t, out, "  ")
}

func TestLogin(t *testing.T) {
	out, err := run(t, "login", "https://cwms-data.usace.army.mil")
	require.NoError(t, err)
	assert.Equal(t, "https://cwms-data.usace.army.mil: login hidden\n", out)

	out, err = run(t, "login", "http://localhost:7000")
	require.NoError(t, err)
	assert.Contains(t, out, "login shown -> /CWMSLogin/login?OriginalLocation=")

	out, err = run(t, "login", "--local-marker", "", "http://localhost:7000")
	require.NoError(t, err)
	assert.Contains(t, out, "login hidden")
}

func TestErrors(t *testing.T) {
	_, err := run(t, "-d", "nowhere", "routes")
	assert.Error(t, err)

	_, err = run(t, "--format", "xml", "nav")
	assert.Error(t, err)

	_, err = run(t, "resolve")
	assert.Error(t, err)
}
