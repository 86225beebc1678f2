package breadcrumb

import "strings"

// Segment is one entry of the breadcrumb bar.
type Segment struct {
	Label string
	Href  string
}

// Derive splits pathname into breadcrumb segments. Empty segments and any
// segment equal to the base path (without its leading slash) are dropped.
// The raw segment text is used for both label and link; nothing is decoded
// or case-folded.
func Derive(pathname, basePath string) []Segment {
	base := strings.TrimPrefix(basePath, "/")

	segments := []Segment{}
	for _, part := range strings.Split(pathname, "/") {
		if part == "" || part == base {
			continue
		}
		segments = append(segments, Segment{Label: part, Href: part})
	}
	return segments
}

// Labels returns the segment labels in order.
func Labels(segments []Segment) []string {
	labels := make([]string, len(segments))
	for i, s := range segments {
		labels[i] = s.Label
	}
	return labels
}
