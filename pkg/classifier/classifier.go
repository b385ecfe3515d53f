// Package classifier decides which DOM elements are page chrome rather than
// content: scripts, hidden nodes, navigation, ads.
package classifier

import (
	"strings"

	"golang.org/x/net/html"
)

// excludedTags never carry clip-worthy content.
var excludedTags = map[string]struct{}{
	"script": {}, "style": {}, "noscript": {}, "iframe": {}, "object": {},
	"embed": {}, "svg": {}, "canvas": {}, "nav": {}, "header": {},
	"footer": {}, "aside": {}, "form": {}, "input": {}, "button": {},
	"select": {}, "textarea": {},
}

// excludedClassFragments are matched as case-insensitive substrings of the
// class attribute, so "ad" also hits "header" or "gradient".
var excludedClassFragments = []string{
	"nav", "menu", "sidebar", "footer", "header", "ad", "comment",
}

// Classifier is safe for concurrent use.
type Classifier struct {
	styles StyleReader
}

// New returns a Classifier reading styles through r. A nil r uses the inline
// style reader.
func New(r StyleReader) *Classifier {
	if r == nil {
		r = InlineStyleReader{}
	}
	return &Classifier{styles: r}
}

// Default is the classifier used when callers do not supply one.
var Default = New(nil)

// ShouldExclude reports whether n must be left out of an extraction.
// Only element nodes can be excluded.
func (c *Classifier) ShouldExclude(n *html.Node) bool {
	if n == nil || n.Type != html.ElementNode {
		return false
	}

	if _, ok := excludedTags[strings.ToLower(n.Data)]; ok {
		return true
	}

	if c.isHidden(n) {
		return true
	}

	return hasExcludedClass(n)
}

// isHidden fails open: a style that cannot be read keeps the node.
func (c *Classifier) isHidden(n *html.Node) bool {
	style, err := c.styles.ComputedStyle(n)
	if err != nil {
		return false
	}
	return style.Display == "none" || style.Visibility == "hidden"
}

func hasExcludedClass(n *html.Node) bool {
	class, ok := attr(n, "class")
	if !ok || class == "" {
		return false
	}
	class = strings.ToLower(class)
	for _, frag := range excludedClassFragments {
		if strings.Contains(class, frag) {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}
