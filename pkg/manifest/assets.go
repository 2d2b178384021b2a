package manifest

import "strings"

// AssetPathFunc maps a route pathname and a file extension to the sub-path
// of the asset compiled for that route. The result is embedded into chunk
// references verbatim.
type AssetPathFunc func(pathname, ext string) string

// AssetPath is the default AssetPathFunc. The root route maps to the index
// asset, and routes under /index are prefixed with another /index segment
// so they cannot collide with the root asset.
func AssetPath(pathname, ext string) string {
	switch {
	case pathname == "/":
		return "/index" + ext
	case pathname == "/index" || strings.HasPrefix(pathname, "/index/"):
		return "/index" + pathname + ext
	default:
		return pathname + ext
	}
}
