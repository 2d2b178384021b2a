// Package source defines the content-source graph served by the Waymark
// development server.
//
// A Source answers requests by path. Sources form a graph: containers such
// as Combined aggregate children, and the same source instance may be
// reachable through several parents. Leaf sources for pages and API routes
// expose the route pathname they serve; the manifest generator walks the
// graph to collect those pathnames.
package source
