// Package document loads a page snapshot into a queryable DOM.
package document

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/dtnitsch/web-clipper/models"
	"github.com/dtnitsch/web-clipper/pkg/selection"
	"golang.org/x/net/html"
)

// Document is a parsed page: its DOM, where it came from and what the user
// had selected.
type Document struct {
	doc   *goquery.Document
	url   *url.URL
	title string

	selection *selection.Range
}

// Parse builds a Document from page HTML. rawURL may be empty for pages
// without a location.
func Parse(pageHTML, rawURL string) (*Document, error) {
	var u *url.URL
	if rawURL != "" {
		var err error
		u, err = url.Parse(rawURL)
		if err != nil {
			return nil, fmt.Errorf("invalid page URL: %w", err)
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Url = u

	return &Document{
		doc:   doc,
		url:   u,
		title: normalizeTitle(doc.Find("title").First().Text()),
	}, nil
}

// Title is the document title, "" when the page has none.
func (d *Document) Title() string { return d.title }

// SetTitle overrides the title read from <title>, e.g. when the caller
// knows the live document.title.
func (d *Document) SetTitle(title string) { d.title = normalizeTitle(title) }

// URL is the page location; nil when unknown.
func (d *Document) URL() *url.URL { return d.url }

// Location is the page URL as a string, "" when unknown.
func (d *Document) Location() string {
	if d.url == nil {
		return ""
	}
	return d.url.String()
}

// Root is the document node.
func (d *Document) Root() *html.Node {
	return d.doc.Get(0)
}

// Body returns the <body> element. The HTML parser always creates one.
func (d *Document) Body() *html.Node {
	if body := d.doc.Find("body").First(); body.Length() > 0 {
		return body.Get(0)
	}
	return nil
}

// Find runs a CSS selector against the whole document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// QuerySelector returns the first element matching selector in document
// order, or nil.
func (d *Document) QuerySelector(selector string) (*html.Node, error) {
	// goquery.Find silently matches nothing on a bad selector; compile it
	// ourselves so callers learn about typos.
	sel, err := cascadia.ParseGroup(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}
	return cascadia.Query(d.Root(), sel), nil
}

// Selection returns the active selection or nil.
func (d *Document) Selection() *selection.Range { return d.selection }

// SetSelection records the user's selection.
func (d *Document) SetSelection(r *selection.Range) { d.selection = r }

// FromSnapshot parses a snapshot and applies its title override and
// selection.
func FromSnapshot(snap models.PageSnapshot) (*Document, error) {
	d, err := Parse(snap.HTML, snap.URL)
	if err != nil {
		return nil, err
	}
	if snap.Title != "" {
		d.SetTitle(snap.Title)
	}
	if snap.Selection != nil {
		r, err := selection.Resolve(d, *snap.Selection)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve selection: %w", err)
		}
		d.SetSelection(r)
	}
	return d, nil
}

// normalizeTitle strips and collapses whitespace the way document.title does.
func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
