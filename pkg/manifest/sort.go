package manifest

import (
	"sort"
	"strings"
)

// segmentKind ranks one path segment for route ordering. Static segments
// rank before slugs, slugs before catch-alls. The client router tries
// candidate routes in manifest order, so fixed paths must come before
// dynamic matchers at every depth; plain alphabetical order would put
// "[id]" before uppercase names and break that priority.
type segmentKind int

const (
	segmentStatic segmentKind = iota
	segmentSlug
	segmentCatchAll
)

// pageSortKey is the sort key of one path segment. Two static segments
// order by text; all slugs compare equal, as do all catch-alls, no matter
// what name the brackets capture.
type pageSortKey struct {
	kind segmentKind
	text string
}

func segmentSortKey(seg string) pageSortKey {
	switch {
	case strings.HasPrefix(seg, "[[") && strings.HasSuffix(seg, "]]"):
		return pageSortKey{kind: segmentCatchAll}
	case strings.HasPrefix(seg, "[") && strings.HasSuffix(seg, "]"):
		return pageSortKey{kind: segmentSlug}
	default:
		return pageSortKey{kind: segmentStatic, text: seg}
	}
}

func (k pageSortKey) compare(o pageSortKey) int {
	if k.kind != o.kind {
		if k.kind < o.kind {
			return -1
		}
		return 1
	}
	if k.kind == segmentStatic {
		return strings.Compare(k.text, o.text)
	}
	return 0
}

func routeSortKey(route string) []pageSortKey {
	segs := strings.Split(route, "/")
	keys := make([]pageSortKey, len(segs))
	for i, seg := range segs {
		keys[i] = segmentSortKey(seg)
	}
	return keys
}

// compareRouteKeys orders key sequences element-wise; a shorter sequence
// that prefixes a longer one sorts first.
func compareRouteKeys(a, b []pageSortKey) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if c := a[i].compare(b[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// SortRoutes orders routes segment-wise so static paths take priority over
// dynamic matchers, then removes exact duplicates. Routes whose keys
// compare equal fall back to plain string order, keeping the output
// identical across discovery orders. The input slice is not modified;
// calling SortRoutes on its own output returns it unchanged.
func SortRoutes(routes []string) []string {
	sorted := make([]string, len(routes))
	copy(sorted, routes)

	keys := make(map[string][]pageSortKey, len(sorted))
	for _, route := range sorted {
		if _, ok := keys[route]; !ok {
			keys[route] = routeSortKey(route)
		}
	}

	sort.Slice(sorted, func(i, j int) bool {
		if c := compareRouteKeys(keys[sorted[i]], keys[sorted[j]]); c != 0 {
			return c < 0
		}
		return sorted[i] < sorted[j]
	})

	out := sorted[:0]
	for _, route := range sorted {
		if len(out) == 0 || out[len(out)-1] != route {
			out = append(out, route)
		}
	}
	return out
}
