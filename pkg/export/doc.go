// Package export writes the development route manifests to static files.
//
// The dev server generates _devPagesManifest.json, _buildManifest.js and
// _devMiddlewareManifest.json on the fly. Export produces the same three
// artifacts as files, so route tooling and preview deploys can consume
// them without a running server.
//
// # Usage
//
// Build a manifest source over the scanned routes, then export it:
//
//	routes, err := source.Scan(cfg.RoutesPath(), source.ScanOptions{})
//	if err != nil {
//	    return err
//	}
//	manifests := manifest.NewDevManifestSource([]source.Source{routes})
//
//	files, err := export.Export(ctx, manifests, export.NewDirPublisher(cfg.OutputPath()))
//
// # Output Layout
//
// Artifacts keep their serving paths, so the output directory can be
// placed behind any static file host:
//
//	dist/
//	└── _next/static/development/
//	    ├── _devPagesManifest.json
//	    ├── _buildManifest.js
//	    └── _devMiddlewareManifest.json
//
// Other targets plug in through the Publisher interface; see
// s3_example.go for an S3-backed publisher.
package export
