// Package manifest generates the development route manifests consumed by
// the client-side router.
//
// Route pathnames are discovered from a graph of content sources, ordered
// so static segments take priority over dynamic ones, and assembled into
// the _devPagesManifest.json, _buildManifest.js and
// _devMiddlewareManifest.json artifacts.
package manifest
