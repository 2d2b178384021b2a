package manifest

import (
	"context"
	"fmt"
	"sync"

	"github.com/waymark-dev/waymark/pkg/source"
)

// DiscoverRoutes recursively collects the route pathnames served by the
// given source roots and returns them ordered for client-side matching,
// with exact duplicates removed.
//
// The graph is expanded wave by wave: every source on the current frontier
// is asked for its children and its pathname concurrently, and a visited
// set keyed by source identity keeps shared subtrees from being expanded
// twice. Any single failure aborts the whole discovery; a partial route
// list would silently break client navigation.
func DiscoverRoutes(ctx context.Context, roots ...source.Source) ([]string, error) {
	routes, err := collectRoutes(ctx, roots)
	if err != nil {
		return nil, err
	}
	return SortRoutes(routes), nil
}

type nodeResult struct {
	route    string
	hasRoute bool
	children []source.Source
	err      error
}

func collectRoutes(ctx context.Context, roots []source.Source) ([]string, error) {
	visited := make(map[source.Source]bool)
	frontier := make([]source.Source, 0, len(roots))
	for _, root := range roots {
		if root == nil || visited[root] {
			continue
		}
		visited[root] = true
		frontier = append(frontier, root)
	}

	var routes []string
	for len(frontier) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		results := make([]nodeResult, len(frontier))
		var wg sync.WaitGroup
		for i, src := range frontier {
			wg.Add(1)
			go func(i int, src source.Source) {
				defer wg.Done()
				results[i] = expandNode(ctx, src)
			}(i, src)
		}
		wg.Wait()

		var next []source.Source
		for _, res := range results {
			if res.err != nil {
				return nil, res.err
			}
			if res.hasRoute {
				routes = append(routes, res.route)
			}
			for _, child := range res.children {
				if child == nil || visited[child] {
					continue
				}
				visited[child] = true
				next = append(next, child)
			}
		}
		frontier = next
	}

	return routes, nil
}

func expandNode(ctx context.Context, src source.Source) nodeResult {
	var res nodeResult

	route, ok, err := extractPathname(ctx, src)
	if err != nil {
		res.err = fmt.Errorf("resolving pathname of %s: %w", sourceLabel(src), err)
		return res
	}
	if ok {
		res.route, res.hasRoute = route, true
	}

	if container, isContainer := src.(source.Container); isContainer {
		children, err := container.Children(ctx)
		if err != nil {
			res.err = fmt.Errorf("expanding %s: %w", sourceLabel(src), err)
			return res
		}
		res.children = children
	}

	return res
}

// extractPathname returns the route pathname of a leaf source. Leaf kinds
// are tried in a fixed order; containers and unknown kinds expose no
// pathname, which is a normal outcome rather than an error.
func extractPathname(ctx context.Context, src source.Source) (string, bool, error) {
	switch s := src.(type) {
	case *source.APISource:
		route, err := s.Pathname(ctx)
		if err != nil {
			return "", false, err
		}
		return route, true, nil
	case *source.PageSource:
		route, err := s.Pathname(ctx)
		if err != nil {
			return "", false, err
		}
		return route, true, nil
	}
	return "", false, nil
}

func sourceLabel(src source.Source) string {
	if in, ok := src.(source.Introspectable); ok {
		return in.Type()
	}
	return fmt.Sprintf("%T", src)
}
