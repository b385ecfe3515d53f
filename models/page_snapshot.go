package models

// PageSnapshot carries the rendered state of a page to a process that has
// no live DOM: its serialized HTML, its URL, and optionally the user's
// selection or a selector naming the element to clip.
type PageSnapshot struct {
	URL       string         `json:"url"`
	Title     string         `json:"title,omitempty"` // overrides <title> when set
	HTML      string         `json:"html"`
	Selection *SelectionSpec `json:"selection,omitempty"`
	Selector  string         `json:"selector,omitempty"`
}

// SelectionSpec describes a selection range by its two boundary points.
type SelectionSpec struct {
	Start BoundarySpec `json:"start"`
	End   BoundarySpec `json:"end"`
}

// BoundarySpec addresses a DOM boundary point. Selector picks an element;
// Child, when set, descends to that child node (usually a text node).
// Offset is a rune offset inside a text node, or a child index inside an
// element.
type BoundarySpec struct {
	Selector string `json:"selector"`
	Child    *int   `json:"child,omitempty"`
	Offset   int    `json:"offset"`
}
