package classifier

import (
	"errors"
	"strings"

	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
)

// Style holds the computed properties the classifier looks at.
type Style struct {
	Display    string
	Visibility string
}

// StyleReader resolves the computed style of an element. Implementations
// backed by a live renderer can plug in here; errors are treated as
// "visible".
type StyleReader interface {
	ComputedStyle(n *html.Node) (Style, error)
}

// ErrNotElement is returned for nodes that have no style.
var ErrNotElement = errors.New("node is not an element")

// InlineStyleReader computes style from what a static document carries:
// the style attribute and the hidden attribute.
type InlineStyleReader struct{}

// ComputedStyle implements StyleReader.
func (InlineStyleReader) ComputedStyle(n *html.Node) (Style, error) {
	if n == nil || n.Type != html.ElementNode {
		return Style{}, ErrNotElement
	}

	var style Style
	if _, ok := attr(n, "hidden"); ok {
		style.Display = "none"
	}

	raw, ok := attr(n, "style")
	if !ok || strings.TrimSpace(raw) == "" {
		return style, nil
	}

	decls, err := parser.ParseDeclarations(raw)
	if err != nil {
		return Style{}, err
	}
	important := map[string]bool{}
	for _, d := range decls {
		prop := strings.ToLower(strings.TrimSpace(d.Property))
		val := strings.ToLower(strings.TrimSpace(d.Value))
		// later declarations win unless an earlier one was !important
		if important[prop] && !d.Important {
			continue
		}
		switch prop {
		case "display":
			style.Display = val
		case "visibility":
			style.Visibility = val
		default:
			continue
		}
		if d.Important {
			important[prop] = true
		}
	}
	return style, nil
}
