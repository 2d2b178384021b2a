package source

import "strings"

// MatchRoute reports whether a request path matches a route pathname.
//
// Static segments match literally. A [slug] segment matches exactly one
// path segment. A [[...catchall]] segment matches the remainder of the
// path, including the empty remainder.
func MatchRoute(route, path string) bool {
	rsegs := splitPath(route)
	psegs := splitPath(path)
	for i, seg := range rsegs {
		if isCatchAllSegment(seg) {
			return true
		}
		if i >= len(psegs) {
			return false
		}
		if isSlugSegment(seg) {
			continue
		}
		if seg != psegs[i] {
			return false
		}
	}
	return len(rsegs) == len(psegs)
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func isCatchAllSegment(seg string) bool {
	return strings.HasPrefix(seg, "[[") && strings.HasSuffix(seg, "]]")
}

func isSlugSegment(seg string) bool {
	return strings.HasPrefix(seg, "[") && strings.HasSuffix(seg, "]") && !isCatchAllSegment(seg)
}
