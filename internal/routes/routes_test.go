package routes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cwmsTable(t *testing.T) *Table {
	t.Helper()
	table, err := NewTable(
		Entry{Pattern: "/cwms-data/", Content: PageHome},
		Entry{Pattern: "/cwms-data/swagger-ui", Content: PageSwaggerUI},
		Entry{Pattern: "/cwms-data/regexp", Content: PageRegexp},
		Entry{Pattern: "/cwms-data/regexp.html", Content: PageRegexp},
		Entry{Pattern: Wildcard, Content: PageNotFound},
	)
	require.NoError(t, err)
	return table
}

func TestResolveExact(t *testing.T) {
	table := cwmsTable(t)

	assert.Equal(t, PageHome, table.Resolve("/cwms-data/"))
	assert.Equal(t, PageSwaggerUI, table.Resolve("/cwms-data/swagger-ui"))
	assert.Equal(t, table.Resolve("/cwms-data/regexp"), table.Resolve("/cwms-data/regexp.html"))
}

func TestResolveFallback(t *testing.T) {
	table := cwmsTable(t)

	unmatched := []string{
		"",
		"/",
		"/cwms-data",
		"/cwms-data/swagger-ui/",
		"/cwms-data/swagger-ui/extra",
		"/CWMS-DATA/",
		"::not a path::",
		"/cwms-data/%zz",
		"*",
	}
	for _, p := range unmatched {
		t.Run(p, func(t *testing.T) {
			assert.Equal(t, PageNotFound, table.Resolve(p))
			assert.Equal(t, table.Fallback(), table.Resolve(p))
		})
	}
}

func TestNewTableValidation(t *testing.T) {
	t.Run("missing wildcard", func(t *testing.T) {
		_, err := NewTable(Entry{Pattern: "/", Content: PageHome})
		assert.ErrorIs(t, err, ErrNoWildcard)
	})

	t.Run("wildcard not last", func(t *testing.T) {
		_, err := NewTable(
			Entry{Pattern: Wildcard, Content: PageNotFound},
			Entry{Pattern: "/", Content: PageHome},
		)
		assert.ErrorIs(t, err, ErrWildcardNotLast)
	})

	t.Run("two wildcards", func(t *testing.T) {
		_, err := NewTable(
			Entry{Pattern: Wildcard, Content: PageNotFound},
			Entry{Pattern: Wildcard, Content: PageNotFound},
		)
		assert.ErrorIs(t, err, ErrWildcardNotLast)
	})

	t.Run("duplicate", func(t *testing.T) {
		_, err := NewTable(
			Entry{Pattern: "/", Content: PageHome},
			Entry{Pattern: "/", Content: PageRegexp},
			Entry{Pattern: Wildcard, Content: PageNotFound},
		)
		assert.ErrorIs(t, err, ErrDuplicatePattern)
	})

	t.Run("empty pattern", func(t *testing.T) {
		_, err := NewTable(
			Entry{Pattern: "", Content: PageHome},
			Entry{Pattern: Wildcard, Content: PageNotFound},
		)
		assert.ErrorIs(t, err, ErrEmptyPattern)
	})
}

func TestEntriesIsCopy(t *testing.T) {
	table := cwmsTable(t)
	entries := table.Entries()
	entries[0].Content = PageNotFound

	assert.Equal(t, PageHome, table.Entries()[0].Content)
	assert.Equal(t, PageHome, table.Resolve("/cwms-data/"))
}

func TestMustTablePanics(t *testing.T) {
	assert.Panics(t, func() { MustTable(Entry{Pattern: "/", Content: PageHome}) })
}
