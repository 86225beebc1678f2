package routes

import (
	"errors"
	"fmt"
)

// Wildcard is the pattern of the fallback entry.
const Wildcard = "*"

// PageID identifies the content rendered in the shell's content region.
type PageID string

const (
	PageHome      PageID = "home"
	PageSwaggerUI PageID = "swagger-ui"
	PageRegexp    PageID = "regexp"
	PageNotFound  PageID = "not-found"
)

var (
	ErrNoWildcard       = errors.New("route table has no wildcard entry")
	ErrWildcardNotLast  = errors.New("wildcard entry must be the last entry")
	ErrDuplicatePattern = errors.New("duplicate route pattern")
	ErrEmptyPattern     = errors.New("empty route pattern")
)

// Entry maps a path to page content.
type Entry struct {
	Pattern string
	Content PageID
}

// Table resolves paths to content. It is immutable once built.
type Table struct {
	entries  []Entry
	exact    map[string]PageID
	fallback PageID
}

// NewTable validates entries and builds a table. Exactly one wildcard entry
// must exist and it must be last.
func NewTable(entries ...Entry) (*Table, error) {
	t := &Table{
		entries: make([]Entry, len(entries)),
		exact:   make(map[string]PageID, len(entries)),
	}
	copy(t.entries, entries)

	wildcards := 0
	for i, e := range entries {
		switch {
		case e.Pattern == "":
			return nil, fmt.Errorf("entry %d: %w", i, ErrEmptyPattern)
		case e.Pattern == Wildcard:
			wildcards++
			if i != len(entries)-1 {
				return nil, ErrWildcardNotLast
			}
			t.fallback = e.Content
		default:
			if _, dup := t.exact[e.Pattern]; dup {
				return nil, fmt.Errorf("%w: %s", ErrDuplicatePattern, e.Pattern)
			}
			t.exact[e.Pattern] = e.Content
		}
	}
	if wildcards == 0 {
		return nil, ErrNoWildcard
	}
	return t, nil
}

// MustTable is NewTable for static definitions; it panics on an invalid table.
func MustTable(entries ...Entry) *Table {
	t, err := NewTable(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Resolve returns the content for an exact match of path, or the wildcard
// content when nothing matches. It never fails.
func (t *Table) Resolve(path string) PageID {
	if content, ok := t.exact[path]; ok {
		return content
	}
	return t.fallback
}

// Fallback returns the wildcard entry's content.
func (t *Table) Fallback() PageID {
	return t.fallback
}

// Entries returns a copy of the table in declaration order.
func (t *Table) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}
