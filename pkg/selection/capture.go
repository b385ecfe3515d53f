package selection

import (
	"strings"

	"github.com/dtnitsch/web-clipper/pkg/markdown"
	"golang.org/x/net/html"
)

// Capture renders the selected content as Markdown. A nil range yields "".
// Selections that touch no element are returned as their trimmed text,
// exactly as selected.
func Capture(r *Range, e *markdown.Emitter) string {
	if r == nil {
		return ""
	}

	container := r.CloneContents()
	if !hasElementChild(container) {
		return strings.TrimSpace(r.String())
	}
	return markdown.CleanMarkdown(e.ToMarkdown(container))
}

func hasElementChild(n *html.Node) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return true
		}
	}
	return false
}
