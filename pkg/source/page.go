package source

import (
	"context"
	"fmt"
	"html"
)

// PageSource is a leaf source serving one page route.
//
// The route pathname may contain dynamic segments in bracket notation:
// [id] matches exactly one segment, [[...rest]] matches any remainder.
type PageSource struct {
	pathname PathnameFunc
	content  ContentFunc
}

// NewPageSource creates a page source with a fixed route pathname. If
// content is nil, a minimal HTML shell is served for matching requests.
func NewPageSource(pathname string, content ContentFunc) *PageSource {
	return &PageSource{
		pathname: func(context.Context) (string, error) { return pathname, nil },
		content:  content,
	}
}

// NewDynamicPageSource creates a page source whose route pathname is
// resolved on demand, for route tables that are not fixed at construction
// time.
func NewDynamicPageSource(pathname PathnameFunc, content ContentFunc) *PageSource {
	return &PageSource{pathname: pathname, content: content}
}

// Pathname returns the route pathname served by this source.
func (s *PageSource) Pathname(ctx context.Context) (string, error) {
	return s.pathname(ctx)
}

// Get implements Source. It serves the page when the request path matches
// the route pattern.
func (s *PageSource) Get(ctx context.Context, path string) (*Result, error) {
	route, err := s.pathname(ctx)
	if err != nil {
		return nil, err
	}
	if !MatchRoute(route, "/"+path) {
		return NotFound(), nil
	}
	if s.content == nil {
		return HTML(defaultPageHTML(route)), nil
	}
	return s.content(ctx, route, path)
}

// Type implements Introspectable.
func (s *PageSource) Type() string {
	return "page source"
}

// Details implements Introspectable.
func (s *PageSource) Details() string {
	return "renders one page route."
}

func defaultPageHTML(route string) []byte {
	title := html.EscapeString(route)
	return []byte(fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
<div id="__waymark"></div>
</body>
</html>
`, title))
}
