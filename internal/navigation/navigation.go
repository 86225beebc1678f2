package navigation

import "strings"

// GroupHref marks a link that only groups its children and does not navigate.
const GroupHref = "#"

// NavLink is one entry of the site menu.
// IDs only need to be unique among siblings.
type NavLink struct {
	ID       string
	Text     string
	Href     string
	Children []NavLink
}

// IsGroup reports whether the link is a non-navigating group header.
func (l NavLink) IsGroup() bool {
	return l.Href == GroupHref
}

// IsExternal reports whether the link leaves the application.
func (l NavLink) IsExternal() bool {
	return strings.HasPrefix(l.Href, "http://") || strings.HasPrefix(l.Href, "https://")
}

// Tree is an ordered, at most two level, menu definition.
type Tree []NavLink

// Walk visits every link depth-first in menu order. parent is nil for
// top-level links. Returning false stops the walk.
func (t Tree) Walk(fn func(parent *NavLink, link NavLink) bool) {
	for i := range t {
		top := t[i]
		if !fn(nil, top) {
			return
		}
		for _, child := range top.Children {
			if !fn(&top, child) {
				return
			}
		}
	}
}

// ActiveID returns the ID of the top-level link that is, or contains, the
// link whose Href equals pathname. Empty when nothing matches.
func (t Tree) ActiveID(pathname string) string {
	active := ""
	t.Walk(func(parent *NavLink, link NavLink) bool {
		if link.IsGroup() || link.Href != pathname {
			return true
		}
		if parent != nil {
			active = parent.ID
		} else {
			active = link.ID
		}
		return false
	})
	return active
}

// Depth returns the nesting depth of the tree: 0 when empty.
func (t Tree) Depth() int {
	depth := 0
	for _, link := range t {
		d := 1
		if len(link.Children) > 0 {
			d = 2
			for _, child := range link.Children {
				if len(child.Children) > 0 {
					return 3
				}
			}
		}
		if d > depth {
			depth = d
		}
	}
	return depth
}
