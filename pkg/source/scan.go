package source

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
)

// ScanOptions configures route scanning.
type ScanOptions struct {
	// PageContent is attached to every scanned page source. Nil keeps the
	// built-in HTML shell.
	PageContent ContentFunc

	// APIContent is attached to every scanned API source. Nil keeps the
	// built-in JSON placeholder.
	APIContent ContentFunc
}

// Scan walks a routes directory and builds its content-source tree.
//
// Every .go file becomes one route. File paths map to route pathnames the
// way the client router expects them:
//
//	index.go             /
//	about.go             /about
//	posts/[id].go        /posts/[id]
//	docs/[[...path]].go  /docs/[[...path]]
//	api/health.go        /api/health   (API route)
//
// index.go files collapse into their directory. Files and directories
// whose name starts with "_" are reserved (layouts, middleware, tests)
// and do not produce routes. Children are ordered by file path, so route
// shadowing inside the returned source is deterministic.
func Scan(dir string, opts ScanOptions) (*Combined, error) {
	var children []Source

	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if p != dir && strings.HasPrefix(d.Name(), "_") {
				return filepath.SkipDir
			}
			return nil
		}

		name := d.Name()
		if !strings.HasSuffix(name, ".go") {
			return nil
		}
		if strings.HasSuffix(name, "_test.go") || strings.HasPrefix(name, "_") {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", p, err)
		}

		pathname := filePathToPathname(rel)
		if isAPIPathname(pathname) {
			children = append(children, NewAPISource(pathname, opts.APIContent))
		} else {
			children = append(children, NewPageSource(pathname, opts.PageContent))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning routes in %s: %w", dir, err)
	}

	return Combine(children...), nil
}

// filePathToPathname converts a file path relative to the routes root into
// a route pathname. Dynamic segments keep their bracket notation.
func filePathToPathname(rel string) string {
	p := strings.TrimSuffix(filepath.ToSlash(rel), ".go")

	if p == "index" {
		return "/"
	}
	p = strings.TrimSuffix(p, "/index")

	return "/" + p
}

// isAPIPathname reports whether a route pathname belongs to the API
// namespace, i.e. its first segment is "api".
func isAPIPathname(pathname string) bool {
	return pathname == "/api" || strings.HasPrefix(pathname, "/api/")
}
