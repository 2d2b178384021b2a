package manifest

import "embed"

// templateFS carries the static JS templates shipped with the generator.
//
//go:embed templates/buildManifest.js
var templateFS embed.FS
