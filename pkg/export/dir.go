package export

import (
	"context"
	"os"
	"path/filepath"
)

// DirPublisher writes artifacts into a local directory, preserving their
// relative paths so the tree can be served as-is by any static file
// host.
type DirPublisher struct {
	dir string
}

// NewDirPublisher creates a publisher rooted at dir. Parent directories
// are created as artifacts are published.
func NewDirPublisher(dir string) *DirPublisher {
	return &DirPublisher{dir: dir}
}

// Publish implements Publisher.
func (p *DirPublisher) Publish(ctx context.Context, name, contentType string, body []byte) error {
	full := filepath.Join(p.dir, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return err
	}

	return os.WriteFile(full, body, 0644)
}
