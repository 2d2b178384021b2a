package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// StaticSource serves files from a public assets directory.
//
// It exposes no route pathname: static assets are not navigable pages and
// never appear in the route manifests.
type StaticSource struct {
	fsys   fs.FS
	prefix string
}

// NewStaticSource serves files from dir under the given URL prefix. An
// empty prefix serves files at the root of the request path space.
func NewStaticSource(dir, prefix string) *StaticSource {
	return NewStaticSourceFS(os.DirFS(dir), prefix)
}

// NewStaticSourceFS is like NewStaticSource but reads from a caller
// provided filesystem.
func NewStaticSourceFS(fsys fs.FS, prefix string) *StaticSource {
	return &StaticSource{fsys: fsys, prefix: strings.Trim(prefix, "/")}
}

// Get implements Source.
func (s *StaticSource) Get(ctx context.Context, reqPath string) (*Result, error) {
	rel, ok := s.relPath(reqPath)
	if !ok {
		return NotFound(), nil
	}

	info, err := fs.Stat(s.fsys, rel)
	if err != nil || info.IsDir() {
		return NotFound(), nil
	}

	data, err := fs.ReadFile(s.fsys, rel)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NotFound(), nil
		}
		return nil, fmt.Errorf("reading static file %s: %w", rel, err)
	}

	ct := mime.TypeByExtension(path.Ext(rel))
	if ct == "" {
		ct = "application/octet-stream"
	}
	return &Result{Status: StatusOK, ContentType: ct, Body: data}, nil
}

// relPath returns a sanitized file path for a request path. It rejects
// traversal and absolute-path tricks so static serving cannot escape the
// configured directory.
func (s *StaticSource) relPath(reqPath string) (string, bool) {
	rel := reqPath
	if s.prefix != "" {
		if !strings.HasPrefix(reqPath, s.prefix+"/") {
			return "", false
		}
		rel = strings.TrimPrefix(reqPath, s.prefix+"/")
	}
	if rel == "" {
		return "", false
	}

	// Reject NUL early (can appear via %00).
	if strings.IndexByte(rel, 0) != -1 {
		return "", false
	}

	// Reject platform-dependent separators.
	if strings.Contains(rel, "\\") {
		return "", false
	}

	// A leading "/" after prefix stripping indicates an absolute-path
	// attempt (e.g. "static//etc/passwd" => "/etc/passwd").
	if strings.HasPrefix(rel, "/") {
		return "", false
	}

	// Reject dot-segments before cleaning to avoid "cleaning away"
	// traversal attempts and changing the meaning of the request path.
	for _, seg := range strings.Split(rel, "/") {
		if seg == "." || seg == ".." {
			return "", false
		}
	}

	clean := path.Clean(rel)
	if clean == "." || clean == "" || clean == ".." || strings.HasPrefix(clean, "../") || strings.HasPrefix(clean, "/") {
		return "", false
	}

	// Reject OS-absolute and volume paths after slash conversion.
	osPath := filepath.FromSlash(clean)
	if filepath.IsAbs(osPath) || filepath.VolumeName(osPath) != "" {
		return "", false
	}

	return clean, true
}

// Type implements Introspectable.
func (s *StaticSource) Type() string {
	return "static source"
}

// Details implements Introspectable.
func (s *StaticSource) Details() string {
	if s.prefix == "" {
		return "serves static files."
	}
	return fmt.Sprintf("serves static files under %q.", s.prefix)
}
