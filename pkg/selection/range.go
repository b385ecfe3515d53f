// Package selection models a user's text selection over a parsed document
// and turns it into Markdown.
package selection

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrBoundary reports a boundary point that does not exist in the document.
var ErrBoundary = errors.New("invalid selection boundary")

// Range is a pair of boundary points. A boundary inside a text node is a
// rune offset into its data; inside any other node it is a child index.
// Start never follows End.
type Range struct {
	StartContainer *html.Node
	StartOffset    int
	EndContainer   *html.Node
	EndOffset      int
}

// NewRange validates both boundary points and orders them, so a selection
// made backwards yields the same Range as one made forwards.
func NewRange(startNode *html.Node, startOffset int, endNode *html.Node, endOffset int) (*Range, error) {
	if err := checkBoundary(startNode, startOffset); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	if err := checkBoundary(endNode, endOffset); err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	if root(startNode) != root(endNode) {
		return nil, fmt.Errorf("%w: boundaries are in different trees", ErrBoundary)
	}

	r := &Range{startNode, startOffset, endNode, endOffset}
	if comparePoints(startNode, startOffset, endNode, endOffset) > 0 {
		r.StartContainer, r.StartOffset, r.EndContainer, r.EndOffset = endNode, endOffset, startNode, startOffset
	}
	return r, nil
}

func checkBoundary(n *html.Node, offset int) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrBoundary)
	}
	if n.Type == html.DoctypeNode {
		return fmt.Errorf("%w: doctype cannot hold a boundary", ErrBoundary)
	}
	if offset < 0 || offset > nodeLength(n) {
		return fmt.Errorf("%w: offset %d outside 0..%d", ErrBoundary, offset, nodeLength(n))
	}
	return nil
}

// IsCollapsed reports whether the range selects nothing.
func (r *Range) IsCollapsed() bool {
	return r.StartContainer == r.EndContainer && r.StartOffset == r.EndOffset
}

// CloneContents copies the selected part of the tree into a detached <div>.
// Partially selected elements are cloned shallowly with only their selected
// descendants; partially selected text is cut at the offsets.
func (r *Range) CloneContents() *html.Node {
	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	cloneContents(r, container)
	return container
}

// String is the selected text, with no markup.
func (r *Range) String() string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(r.CloneContents())
	return sb.String()
}

func cloneContents(r *Range, parent *html.Node) {
	if r.IsCollapsed() {
		return
	}
	sc, so, ec, eo := r.StartContainer, r.StartOffset, r.EndContainer, r.EndOffset

	if sc == ec && isCharacterData(sc) {
		parent.AppendChild(cloneData(sc, so, eo))
		return
	}

	common := commonAncestor(sc, ec)

	var firstPartial, lastPartial *html.Node
	if !isInclusiveAncestor(sc, ec) {
		firstPartial = childContaining(common, sc)
	}
	if !isInclusiveAncestor(ec, sc) {
		lastPartial = childContaining(common, ec)
	}

	// children of common in [from, to) are fully selected
	from := so
	if firstPartial != nil {
		from = childIndex(firstPartial) + 1
	}
	to := eo
	if lastPartial != nil {
		to = childIndex(lastPartial)
	}

	if firstPartial != nil {
		if isCharacterData(firstPartial) {
			parent.AppendChild(cloneData(sc, so, nodeLength(sc)))
		} else {
			clone := shallowClone(firstPartial)
			parent.AppendChild(clone)
			cloneContents(&Range{sc, so, firstPartial, nodeLength(firstPartial)}, clone)
		}
	}

	i := 0
	for c := common.FirstChild; c != nil; c = c.NextSibling {
		if i >= from && i < to {
			parent.AppendChild(deepClone(c))
		}
		i++
	}

	if lastPartial != nil {
		if isCharacterData(lastPartial) {
			parent.AppendChild(cloneData(ec, 0, eo))
		} else {
			clone := shallowClone(lastPartial)
			parent.AppendChild(clone)
			cloneContents(&Range{lastPartial, 0, ec, eo}, clone)
		}
	}
}

func isCharacterData(n *html.Node) bool {
	return n.Type == html.TextNode || n.Type == html.CommentNode
}

func nodeLength(n *html.Node) int {
	if isCharacterData(n) {
		return utf8.RuneCountInString(n.Data)
	}
	count := 0
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

// cloneData copies the runes [from, to) of a text or comment node.
func cloneData(n *html.Node, from, to int) *html.Node {
	runes := []rune(n.Data)
	return &html.Node{Type: n.Type, Data: string(runes[from:to])}
}

func shallowClone(n *html.Node) *html.Node {
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		clone.Attr = append([]html.Attribute(nil), n.Attr...)
	}
	return clone
}

func deepClone(n *html.Node) *html.Node {
	clone := shallowClone(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		clone.AppendChild(deepClone(c))
	}
	return clone
}
