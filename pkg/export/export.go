package export

import (
	"context"
	"fmt"
	"path"

	"github.com/waymark-dev/waymark/pkg/manifest"
	"github.com/waymark-dev/waymark/pkg/source"
)

// exportPaths lists the manifest artifacts written by Export, in publish
// order.
var exportPaths = []string{
	manifest.DevPagesManifestPath,
	manifest.BuildManifestPath,
	manifest.DevMiddlewareManifestPath,
}

// Publisher receives generated manifest artifacts.
//
// Implementations decide where artifacts land: DirPublisher writes a
// local directory tree, and custom publishers can push to object storage
// or a CDN.
type Publisher interface {
	// Publish stores one artifact. name is a slash-separated path under
	// the publish root, e.g. "_next/static/development/_buildManifest.js".
	Publish(ctx context.Context, name, contentType string, body []byte) error
}

// ExportedFile records one published artifact.
type ExportedFile struct {
	Name string // slash-separated path under the publish root
	Size int64  // payload size in bytes
}

// Export generates the three development manifests from src and hands
// them to pub. On error the returned slice holds the artifacts that were
// already published.
func Export(ctx context.Context, src source.Source, pub Publisher) ([]ExportedFile, error) {
	files := make([]ExportedFile, 0, len(exportPaths))

	for _, name := range exportPaths {
		res, err := src.Get(ctx, name)
		if err != nil {
			return files, fmt.Errorf("generating %s: %w", path.Base(name), err)
		}
		if res.IsNotFound() {
			return files, fmt.Errorf("source does not provide %s", path.Base(name))
		}

		if err := pub.Publish(ctx, name, res.ContentType, res.Body); err != nil {
			return files, fmt.Errorf("publishing %s: %w", path.Base(name), err)
		}

		files = append(files, ExportedFile{Name: name, Size: int64(len(res.Body))})
	}

	return files, nil
}
