package source

import (
	"context"
	"fmt"
)

// Combined aggregates several sources into one.
//
// Get asks each child in order and returns the first result that is not
// not-found, so earlier children shadow later ones on path conflicts.
type Combined struct {
	children []Source
}

// Combine creates a combined source over the given children.
func Combine(children ...Source) *Combined {
	return &Combined{children: children}
}

// Get implements Source.
func (c *Combined) Get(ctx context.Context, path string) (*Result, error) {
	for _, child := range c.children {
		res, err := child.Get(ctx, path)
		if err != nil {
			return nil, err
		}
		if !res.IsNotFound() {
			return res, nil
		}
	}
	return NotFound(), nil
}

// Children implements Container.
func (c *Combined) Children(ctx context.Context) ([]Source, error) {
	out := make([]Source, len(c.children))
	copy(out, c.children)
	return out, nil
}

// Type implements Introspectable.
func (c *Combined) Type() string {
	return "combined source"
}

// Details implements Introspectable.
func (c *Combined) Details() string {
	return fmt.Sprintf("aggregates %d sources.", len(c.children))
}
