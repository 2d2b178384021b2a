// Package dev provides the development server and live reload functionality.
//
// This package implements:
//   - File watching for route and asset changes
//   - Route rescanning when files under the routes directory change
//   - Serving the generated manifests and the content-source tree
//   - WebSocket-based browser refresh
//   - Error overlay in browser
//
// # Architecture
//
// The development server consists of several components:
//
//   - Watcher: Monitors the file system for changes
//   - Server: Serves manifests, pages, API placeholders, and static files
//   - ReloadServer: Notifies browsers of changes via WebSocket
//
// The server keeps a content-source tree built from the routes directory.
// Manifest requests walk that tree to discover routes; every other request
// is dispatched into the same tree. When a route file changes, the tree is
// rebuilt and connected browsers reload.
//
// # Usage
//
//	cfg, err := config.Load(projectDir)
//	if err != nil {
//	    return err
//	}
//
//	srv := dev.NewServer(dev.ServerOptions{Config: cfg})
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// # Configuration
//
// Hot reload can be disabled via waymark.json (dev.hotReload=false).
// Watch paths are derived from project config (routes and public directories)
// plus any entries in dev.watch.
//
// # Hot Reload Protocol
//
// The browser connects to /_dev/reload via WebSocket.
// Messages are JSON-encoded:
//
//	{"type": "reload"}              // Triggers full page reload
//	{"type": "css"}                 // Triggers CSS-only reload
//	{"type": "error", "error": "..."} // Shows error overlay
//	{"type": "clear"}               // Clears error overlay
package dev
