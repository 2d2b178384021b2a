package manifest

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/waymark-dev/waymark/pkg/source"
)

// Manifest artifact paths, matched without a leading slash.
const (
	DevPagesManifestPath      = "_next/static/development/_devPagesManifest.json"
	BuildManifestPath         = "_next/static/development/_buildManifest.js"
	DevMiddlewareManifestPath = "_next/static/development/_devMiddlewareManifest.json"
)

const (
	// chunkPrefix is prepended verbatim to the asset sub-path of every
	// page chunk reference.
	chunkPrefix = "_next/static/chunks/pages"

	// manifestMarker is the placeholder replaced, exactly once, with the
	// serialized build manifest in the JS template.
	manifestMarker = "$$MANIFEST$$"

	// buildManifestTemplate is the template asset path inside the
	// template filesystem.
	buildManifestTemplate = "templates/buildManifest.js"

	// emptyMiddlewareManifest is served for the middleware manifest.
	// Requests only reach this source when no middleware exists; real
	// middleware manifests are produced upstream by the application
	// router.
	emptyMiddlewareManifest = "[]"
)

// DevManifestSource serves the route manifests used by the client-side
// router during development: _devPagesManifest.json, _buildManifest.js
// and _devMiddlewareManifest.json.
//
// Every request triggers a fresh discovery over the page roots, so the
// manifests always reflect the current route tree.
type DevManifestSource struct {
	roots     []source.Source
	rewrites  json.RawMessage
	assetPath AssetPathFunc
	templates fs.FS
}

// Option configures a DevManifestSource.
type Option func(*DevManifestSource)

// WithRewrites sets the rewrites object embedded verbatim in the build
// manifest.
func WithRewrites(rewrites json.RawMessage) Option {
	return func(s *DevManifestSource) {
		s.rewrites = rewrites
	}
}

// WithAssetPath overrides how route pathnames map to asset sub-paths.
func WithAssetPath(fn AssetPathFunc) Option {
	return func(s *DevManifestSource) {
		s.assetPath = fn
	}
}

// WithTemplateFS overrides the filesystem the build-manifest template is
// loaded from.
func WithTemplateFS(fsys fs.FS) Option {
	return func(s *DevManifestSource) {
		s.templates = fsys
	}
}

// NewDevManifestSource creates a manifest source over the given page
// roots. The roots are shared, not copied; the same source instance may
// also be served elsewhere in the tree.
func NewDevManifestSource(roots []source.Source, opts ...Option) *DevManifestSource {
	s := &DevManifestSource{
		roots:     roots,
		rewrites:  DefaultRewrites,
		assetPath: AssetPath,
		templates: templateFS,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FindRoutes returns every route served by the page roots, ordered for
// client-side matching and deduplicated.
func (s *DevManifestSource) FindRoutes(ctx context.Context) ([]string, error) {
	return DiscoverRoutes(ctx, s.roots...)
}

// FindPages returns the discovered routes excluding the API namespace.
func (s *DevManifestSource) FindPages(ctx context.Context) ([]string, error) {
	routes, err := s.FindRoutes(ctx)
	if err != nil {
		return nil, err
	}

	// FindRoutes already sorted; filtering keeps that order.
	pages := make([]string, 0, len(routes))
	for _, route := range routes {
		if isAPIRoute(route) {
			continue
		}
		pages = append(pages, route)
	}
	return pages, nil
}

// RouteListJSON serializes the full route list, API routes included, as
// the _devPagesManifest.json payload.
func (s *DevManifestSource) RouteListJSON(ctx context.Context) ([]byte, error) {
	routes, err := s.FindRoutes(ctx)
	if err != nil {
		return nil, err
	}
	if routes == nil {
		routes = []string{}
	}
	return json.Marshal(struct {
		Pages []string `json:"pages"`
	}{Pages: routes})
}

// BuildManifestJS renders the _buildManifest.js artifact: the serialized
// build manifest substituted into the embedded JS template.
func (s *DevManifestSource) BuildManifestJS(ctx context.Context) ([]byte, error) {
	pages, err := s.FindPages(ctx)
	if err != nil {
		return nil, err
	}

	routes := make(map[string][]string, len(pages))
	for _, page := range pages {
		routes[page] = []string{chunkPrefix + s.assetPath(page, ".js")}
	}

	data, err := json.Marshal(&BuildManifest{
		Rewrites:    s.rewrites,
		SortedPages: pages,
		Routes:      routes,
	})
	if err != nil {
		return nil, fmt.Errorf("serializing build manifest: %w", err)
	}

	tpl, err := fs.ReadFile(s.templates, buildManifestTemplate)
	if err != nil {
		return nil, fmt.Errorf("embedded buildManifest template missing: %w", err)
	}

	return []byte(strings.Replace(string(tpl), manifestMarker, string(data), 1)), nil
}

// Get implements source.Source. It dispatches the three manifest paths
// and returns not-found for everything else.
func (s *DevManifestSource) Get(ctx context.Context, path string) (*source.Result, error) {
	switch path {
	case DevPagesManifestPath:
		body, err := s.RouteListJSON(ctx)
		if err != nil {
			return nil, err
		}
		return source.JSON(body), nil

	case BuildManifestPath:
		body, err := s.BuildManifestJS(ctx)
		if err != nil {
			return nil, err
		}
		return source.JS(body), nil

	case DevMiddlewareManifestPath:
		return source.JSON([]byte(emptyMiddlewareManifest)), nil
	}

	return source.NotFound(), nil
}

// Children implements source.Container, exposing the page roots. In a
// serving tree the roots are usually reachable through another parent as
// well; graph walks rely on visited tracking to expand them once.
func (s *DevManifestSource) Children(ctx context.Context) ([]source.Source, error) {
	out := make([]source.Source, len(s.roots))
	copy(out, s.roots)
	return out, nil
}

// Type implements source.Introspectable.
func (s *DevManifestSource) Type() string {
	return "dev manifest source"
}

// Details implements source.Introspectable.
func (s *DevManifestSource) Details() string {
	return "provides _devPagesManifest.json, _buildManifest.js and _devMiddlewareManifest.json."
}

// isAPIRoute reports whether a route's first segment is "api".
func isAPIRoute(route string) bool {
	return route == "/api" || strings.HasPrefix(route, "/api/")
}
