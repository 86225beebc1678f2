package breadcrumb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name     string
		pathname string
		basePath string
		expected []string
	}{
		{name: "single page", pathname: "/cwms-data/swagger-ui", basePath: "/cwms-data", expected: []string{"swagger-ui"}},
		{name: "trailing slash on base", pathname: "/cwms-data/", basePath: "/cwms-data", expected: []string{}},
		{name: "base only", pathname: "/cwms-data", basePath: "/cwms-data", expected: []string{}},
		{name: "root", pathname: "/", basePath: "/", expected: []string{}},
		{name: "consecutive slashes", pathname: "/cwms-data//a///b/", basePath: "/cwms-data", expected: []string{"a", "b"}},
		{name: "not decoded", pathname: "/cwms-data/a%20b", basePath: "/cwms-data", expected: []string{"a%20b"}},
		{name: "case kept", pathname: "/cwms-data/RegExp", basePath: "/cwms-data", expected: []string{"RegExp"}},
		{name: "base repeated later is dropped", pathname: "/cwms-data/x/cwms-data/y", basePath: "/cwms-data", expected: []string{"x", "y"}},
		{name: "different case base kept", pathname: "/cwms-data/CWMS-DATA", basePath: "/cwms-data", expected: []string{"CWMS-DATA"}},
		{name: "unprefixed deployment", pathname: "/swagger-ui", basePath: "/", expected: []string{"swagger-ui"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Derive(tt.pathname, tt.basePath)
			assert.Equal(t, tt.expected, Labels(got))
			for _, s := range got {
				assert.Equal(t, s.Label, s.Href)
			}
		})
	}
}

func TestDeriveIdempotent(t *testing.T) {
	inputs := [][2]string{
		{"/cwms-data/swagger-ui", "/cwms-data"},
		{"/swf-data/regexp.html", "/swf-data"},
		{"", ""},
		{"////", "/"},
	}
	for _, in := range inputs {
		assert.Equal(t, Derive(in[0], in[1]), Derive(in[0], in[1]))
	}
}

func TestDeriveNeverNil(t *testing.T) {
	assert.NotNil(t, Derive("/", "/"))
	assert.Empty(t, Derive("/", "/"))
}
