package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DefaultRewrites is the rewrites object embedded in the build manifest
// when none is configured.
var DefaultRewrites = json.RawMessage(`{"beforeFiles":[],"afterFiles":[],"fallback":[]}`)

// BuildManifest is the object substituted into the build-manifest JS
// template. The emitted JSON carries the rewrites blob under "__rewrites",
// the sorted page list under "sortedPages", and then one entry per page
// mapping its route to the chunk list, flattened into the same object.
type BuildManifest struct {
	// Rewrites is passed through verbatim; it is never interpreted here.
	Rewrites json.RawMessage

	// SortedPages lists the page routes in their final manifest order.
	SortedPages []string

	// Routes maps each page route to its chunk references. Entries are
	// emitted in SortedPages order.
	Routes map[string][]string
}

// MarshalJSON implements json.Marshaler. The field order and the route
// order are observable by the client router, so the object is written by
// hand instead of relying on map iteration.
func (m *BuildManifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(`{"__rewrites":`)
	rewrites := m.Rewrites
	if len(rewrites) == 0 {
		rewrites = DefaultRewrites
	}
	if err := json.Compact(&buf, rewrites); err != nil {
		return nil, fmt.Errorf("rewrites: %w", err)
	}

	pages := m.SortedPages
	if pages == nil {
		pages = []string{}
	}
	pagesJSON, err := json.Marshal(pages)
	if err != nil {
		return nil, fmt.Errorf("sorted pages: %w", err)
	}
	buf.WriteString(`,"sortedPages":`)
	buf.Write(pagesJSON)

	for _, page := range pages {
		key, err := json.Marshal(page)
		if err != nil {
			return nil, fmt.Errorf("page %s: %w", page, err)
		}
		chunks := m.Routes[page]
		if chunks == nil {
			chunks = []string{}
		}
		chunksJSON, err := json.Marshal(chunks)
		if err != nil {
			return nil, fmt.Errorf("chunks of %s: %w", page, err)
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(chunksJSON)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
