package selection

import (
	"fmt"

	"github.com/dtnitsch/web-clipper/models"
	"golang.org/x/net/html"
)

// Querier finds the first element matching a CSS selector.
type Querier interface {
	QuerySelector(selector string) (*html.Node, error)
}

// Resolve turns a selector-addressed SelectionSpec into a Range.
func Resolve(q Querier, spec models.SelectionSpec) (*Range, error) {
	startNode, err := resolveBoundary(q, spec.Start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	endNode, err := resolveBoundary(q, spec.End)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	return NewRange(startNode, spec.Start.Offset, endNode, spec.End.Offset)
}

func resolveBoundary(q Querier, b models.BoundarySpec) (*html.Node, error) {
	el, err := q.QuerySelector(b.Selector)
	if err != nil {
		return nil, err
	}
	if el == nil {
		return nil, fmt.Errorf("%w: no element matches %q", ErrBoundary, b.Selector)
	}
	if b.Child == nil {
		return el, nil
	}

	i := 0
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if i == *b.Child {
			return c, nil
		}
		i++
	}
	return nil, fmt.Errorf("%w: %q has no child %d", ErrBoundary, b.Selector, *b.Child)
}
