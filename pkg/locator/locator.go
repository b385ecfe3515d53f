// Package locator finds the primary content container of a page.
package locator

import (
	"github.com/dtnitsch/web-clipper/pkg/document"
	"golang.org/x/net/html"
)

// Selectors are tried in order; the first one that matches anything wins.
var Selectors = []string{
	"article",
	"main",
	`[role="main"]`,
	".article",
	".post",
	".content",
	".entry-content",
	".post-content",
	"#content",
	"#main",
}

// BodySelector is what Locate reports when it falls back to <body>.
const BodySelector = "body"

// FindMainContent returns the main content element of doc, or <body> when
// no selector matches.
func FindMainContent(doc *document.Document) *html.Node {
	n, _ := Locate(doc)
	return n
}

// Locate is FindMainContent that also reports which selector matched.
func Locate(doc *document.Document) (*html.Node, string) {
	for _, sel := range Selectors {
		if match := doc.Find(sel).First(); match.Length() > 0 {
			return match.Get(0), sel
		}
	}
	return doc.Body(), BodySelector
}
