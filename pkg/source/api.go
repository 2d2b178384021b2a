package source

import (
	"context"
	"encoding/json"
)

// APISource is a leaf source serving one API route.
//
// Executing API handlers is the application runtime's job; unless a
// content function is attached, the dev content server answers matching
// requests with a JSON placeholder.
type APISource struct {
	pathname PathnameFunc
	content  ContentFunc
}

// NewAPISource creates an API source with a fixed route pathname.
func NewAPISource(pathname string, content ContentFunc) *APISource {
	return &APISource{
		pathname: func(context.Context) (string, error) { return pathname, nil },
		content:  content,
	}
}

// NewDynamicAPISource creates an API source whose route pathname is
// resolved on demand.
func NewDynamicAPISource(pathname PathnameFunc, content ContentFunc) *APISource {
	return &APISource{pathname: pathname, content: content}
}

// Pathname returns the route pathname served by this source.
func (s *APISource) Pathname(ctx context.Context) (string, error) {
	return s.pathname(ctx)
}

// Get implements Source. It serves the API route when the request path
// matches the route pattern.
func (s *APISource) Get(ctx context.Context, path string) (*Result, error) {
	route, err := s.pathname(ctx)
	if err != nil {
		return nil, err
	}
	if !MatchRoute(route, "/"+path) {
		return NotFound(), nil
	}
	if s.content == nil {
		return JSON(defaultAPIBody(route)), nil
	}
	return s.content(ctx, route, path)
}

// Type implements Introspectable.
func (s *APISource) Type() string {
	return "api source"
}

// Details implements Introspectable.
func (s *APISource) Details() string {
	return "serves one API route."
}

func defaultAPIBody(route string) []byte {
	body, err := json.Marshal(map[string]string{
		"route":  route,
		"status": "handled by the application runtime",
	})
	if err != nil {
		return []byte("{}")
	}
	return body
}
