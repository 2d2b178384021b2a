package source

import "context"

// Status classifies the outcome of a Get call.
type Status int

const (
	// StatusOK means the source produced content for the path.
	StatusOK Status = iota

	// StatusNotFound means the source does not serve the path.
	StatusNotFound
)

// Content types for generated results.
const (
	ContentTypeJSON = "application/json"
	ContentTypeJS   = "application/javascript; charset=utf-8"
	ContentTypeHTML = "text/html; charset=utf-8"
)

// Result is the outcome of asking a source for content.
type Result struct {
	// Status indicates whether the source served the path.
	Status Status

	// ContentType is the MIME type of Body. Empty for not-found results.
	ContentType string

	// Body is the response payload.
	Body []byte
}

// NotFound returns a result indicating the source does not serve the path.
func NotFound() *Result {
	return &Result{Status: StatusNotFound}
}

// JSON returns an OK result carrying a JSON payload.
func JSON(body []byte) *Result {
	return &Result{Status: StatusOK, ContentType: ContentTypeJSON, Body: body}
}

// JS returns an OK result carrying executable JavaScript text.
func JS(body []byte) *Result {
	return &Result{Status: StatusOK, ContentType: ContentTypeJS, Body: body}
}

// HTML returns an OK result carrying an HTML document.
func HTML(body []byte) *Result {
	return &Result{Status: StatusOK, ContentType: ContentTypeHTML, Body: body}
}

// IsNotFound reports whether the result is a not-found result.
func (r *Result) IsNotFound() bool {
	return r == nil || r.Status == StatusNotFound
}

// Source provides content for request paths.
//
// Paths are request paths without a leading slash, e.g.
// "_next/static/development/_devPagesManifest.json". A source that does not
// serve a path returns a not-found result; errors are reserved for failures
// while producing content the source does serve.
type Source interface {
	Get(ctx context.Context, path string) (*Result, error)
}

// Container is implemented by sources that aggregate other sources.
//
// Sources are shared by reference: the same child instance may be reachable
// through several parents, so consumers walking the graph must track visited
// sources by identity, not by value.
type Container interface {
	Children(ctx context.Context) ([]Source, error)
}

// Introspectable exposes diagnostic metadata about a source for tooling.
type Introspectable interface {
	// Type returns a short, human-readable kind tag.
	Type() string

	// Details describes what the source serves.
	Details() string
}

// PathnameFunc resolves the servable route pathname of a leaf source.
type PathnameFunc func(ctx context.Context) (string, error)

// ContentFunc produces the response for a request that matched a route.
// route is the route pathname; path is the request path without a leading
// slash.
type ContentFunc func(ctx context.Context, route, path string) (*Result, error)
