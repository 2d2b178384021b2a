package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/waymark-dev/waymark/pkg/manifest"
	"github.com/waymark-dev/waymark/pkg/source"
)

func testManifests() *manifest.DevManifestSource {
	return manifest.NewDevManifestSource([]source.Source{
		source.Combine(
			source.NewPageSource("/", nil),
			source.NewPageSource("/about", nil),
			source.NewAPISource("/api/health", nil),
		),
	})
}

func readExported(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	if err != nil {
		t.Fatalf("reading %s: %v", name, err)
	}
	return string(data)
}

func TestExportWritesAllManifests(t *testing.T) {
	dir := t.TempDir()

	files, err := Export(context.Background(), testManifests(), NewDirPublisher(dir))
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	wantNames := []string{
		manifest.DevPagesManifestPath,
		manifest.BuildManifestPath,
		manifest.DevMiddlewareManifestPath,
	}
	if len(files) != len(wantNames) {
		t.Fatalf("Export() wrote %d artifacts, want %d", len(files), len(wantNames))
	}
	for i, f := range files {
		if f.Name != wantNames[i] {
			t.Errorf("files[%d].Name = %q, want %q", i, f.Name, wantNames[i])
		}
		if got := int64(len(readExported(t, dir, f.Name))); got != f.Size {
			t.Errorf("files[%d].Size = %d, want %d", i, f.Size, got)
		}
	}

	pages := readExported(t, dir, manifest.DevPagesManifestPath)
	if want := `{"pages":["/","/about","/api/health"]}`; pages != want {
		t.Errorf("pages manifest = %q, want %q", pages, want)
	}

	build := readExported(t, dir, manifest.BuildManifestPath)
	if !strings.HasPrefix(build, "self.__BUILD_MANIFEST = {") {
		t.Errorf("build manifest does not start with the manifest assignment: %q", build)
	}
	if !strings.Contains(build, `"sortedPages":["/","/about"]`) {
		t.Errorf("build manifest missing sorted pages: %s", build)
	}

	if mw := readExported(t, dir, manifest.DevMiddlewareManifestPath); mw != "[]" {
		t.Errorf("middleware manifest = %q, want %q", mw, "[]")
	}
}

func TestExportOverwritesPreviousSnapshot(t *testing.T) {
	dir := t.TempDir()
	pub := NewDirPublisher(dir)

	if _, err := Export(context.Background(), testManifests(), pub); err != nil {
		t.Fatalf("first Export() error = %v", err)
	}

	grown := manifest.NewDevManifestSource([]source.Source{
		source.Combine(
			source.NewPageSource("/", nil),
			source.NewPageSource("/about", nil),
			source.NewPageSource("/posts/[id]", nil),
			source.NewAPISource("/api/health", nil),
		),
	})
	if _, err := Export(context.Background(), grown, pub); err != nil {
		t.Fatalf("second Export() error = %v", err)
	}

	pages := readExported(t, dir, manifest.DevPagesManifestPath)
	if want := `{"pages":["/","/about","/api/health","/posts/[id]"]}`; pages != want {
		t.Errorf("pages manifest after re-export = %q, want %q", pages, want)
	}
}

type failingPublisher struct {
	failSuffix string
	published  []string
}

func (p *failingPublisher) Publish(ctx context.Context, name, contentType string, body []byte) error {
	if strings.HasSuffix(name, p.failSuffix) {
		return errors.New("disk full")
	}
	p.published = append(p.published, name)
	return nil
}

func TestExportStopsOnPublishError(t *testing.T) {
	pub := &failingPublisher{failSuffix: "_buildManifest.js"}

	files, err := Export(context.Background(), testManifests(), pub)
	if err == nil {
		t.Fatal("Export() error = nil, want publish failure")
	}
	if !strings.Contains(err.Error(), "publishing _buildManifest.js") {
		t.Errorf("Export() error = %v, want artifact name in message", err)
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Export() error = %v, want wrapped publisher error", err)
	}
	if len(files) != 1 || files[0].Name != manifest.DevPagesManifestPath {
		t.Errorf("Export() partial result = %v, want only the pages manifest", files)
	}
}

type failingSource struct{}

func (failingSource) Get(ctx context.Context, path string) (*source.Result, error) {
	return nil, errors.New("pathname resolution failed")
}

func TestExportStopsOnGenerationError(t *testing.T) {
	files, err := Export(context.Background(), failingSource{}, NewDirPublisher(t.TempDir()))
	if err == nil {
		t.Fatal("Export() error = nil, want generation failure")
	}
	if !strings.Contains(err.Error(), "generating _devPagesManifest.json") {
		t.Errorf("Export() error = %v, want artifact name in message", err)
	}
	if len(files) != 0 {
		t.Errorf("Export() published %v before failing, want none", files)
	}
}

type emptySource struct{}

func (emptySource) Get(ctx context.Context, path string) (*source.Result, error) {
	return source.NotFound(), nil
}

func TestExportRejectsSourceWithoutManifests(t *testing.T) {
	_, err := Export(context.Background(), emptySource{}, NewDirPublisher(t.TempDir()))
	if err == nil {
		t.Fatal("Export() error = nil, want missing-artifact failure")
	}
	if !strings.Contains(err.Error(), "does not provide _devPagesManifest.json") {
		t.Errorf("Export() error = %v, want missing-artifact message", err)
	}
}
