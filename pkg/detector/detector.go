// Package detector reports what the clipper sees on a page before clipping
// it: readability metadata, where the main content is, and a coarse guess
// at what kind of site it is.
package detector

import (
	"net/url"
	"strings"

	"github.com/dtnitsch/web-clipper/pkg/document"
	"github.com/dtnitsch/web-clipper/pkg/langdetect"
	"github.com/dtnitsch/web-clipper/pkg/locator"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// minArticleWords is how much text readability must find for a page to
// count as an article.
const minArticleWords = 50

// Report is the result of Inspect.
type Report struct {
	URL   string `json:"url" yaml:"url"`
	Title string `json:"title" yaml:"title"`

	// Readability enrichment
	Byline        string `json:"byline,omitempty" yaml:"byline,omitempty"`
	Excerpt       string `json:"excerpt,omitempty" yaml:"excerpt,omitempty"`
	SiteName      string `json:"siteName,omitempty" yaml:"siteName,omitempty"`
	PublishedTime string `json:"publishedTime,omitempty" yaml:"publishedTime,omitempty"`
	Image         string `json:"image,omitempty" yaml:"image,omitempty"`
	Readerable    bool   `json:"readerable" yaml:"readerable"`
	Language      string `json:"language,omitempty" yaml:"language,omitempty"`

	// Where a page clip would come from
	MainSelector  string `json:"mainSelector" yaml:"mainSelector"`
	MainTextChars int    `json:"mainTextChars" yaml:"mainTextChars"`

	// URL classification
	DomainType string `json:"domainType" yaml:"domainType"` // gov, edu, academic, mobile, commercial
	Category   string `json:"category" yaml:"category"`     // docs/api, blog, news/tech, general
	Country    string `json:"country" yaml:"country"`
}

// Inspect analyzes doc, whose source markup is pageHTML. Readability
// failures leave the metadata fields empty rather than failing.
func Inspect(pageHTML string, doc *document.Document) *Report {
	r := &Report{
		URL:   doc.Location(),
		Title: doc.Title(),
	}

	main, sel := locator.Locate(doc)
	r.MainSelector = sel
	text := nodeText(main)
	r.MainTextChars = len([]rune(strings.Join(strings.Fields(text), " ")))
	r.Language = langdetect.Detect(text)

	pageURL := doc.URL()
	if pageURL == nil {
		pageURL = &url.URL{}
	}
	parser := readability.NewParser()
	if article, err := parser.Parse(strings.NewReader(pageHTML), pageURL); err == nil {
		r.Byline = article.Byline
		r.Excerpt = article.Excerpt
		r.SiteName = article.SiteName
		r.Image = article.Image
		r.Readerable = len(strings.Fields(article.TextContent)) >= minArticleWords
		if article.PublishedTime != nil {
			r.PublishedTime = article.PublishedTime.Format("2006-01-02")
		}
		if r.Title == "" {
			r.Title = strings.TrimSpace(article.Title)
		}
	}

	if u := doc.URL(); u != nil {
		r.DomainType = domainType(u)
		r.Country = country(u)
		r.Category = category(u)
	}
	return r
}

func nodeText(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
			return
		}
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

var academicHosts = []string{
	"arxiv.org", "doi.org", "pubmed.ncbi.nlm.nih.gov", "scholar.google.com",
	"researchgate.net", "biorxiv.org", "medrxiv.org", "ssrn.com",
}

func domainType(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	switch {
	case strings.HasSuffix(host, ".gov"), strings.HasSuffix(host, ".mil"):
		return "gov"
	case strings.HasSuffix(host, ".edu"):
		return "edu"
	case strings.HasPrefix(host, "m."), strings.HasPrefix(host, "mobile."):
		return "mobile"
	}
	for _, d := range academicHosts {
		if host == d || strings.HasSuffix(host, "."+d) {
			return "academic"
		}
	}
	return "commercial"
}

var countryTLDs = map[string]bool{
	"uk": true, "de": true, "fr": true, "jp": true, "cn": true, "au": true,
	"ca": true, "in": true, "br": true, "ru": true, "it": true, "es": true,
	"nl": true, "se": true, "ch": true,
}

// country guesses from the TLD. gov, edu and mil imply us.
func country(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	i := strings.LastIndexByte(host, '.')
	if i < 0 {
		return "unknown"
	}
	tld := host[i+1:]
	if countryTLDs[tld] {
		return tld
	}
	if tld == "gov" || tld == "edu" || tld == "mil" {
		return "us"
	}
	return "unknown"
}

var newsHosts = []string{"techcrunch", "wired", "arstechnica", "theverge", "news"}

func category(u *url.URL) string {
	host := strings.ToLower(u.Hostname())
	path := strings.ToLower(u.Path)

	switch {
	case strings.HasPrefix(host, "docs."), strings.Contains(path, "/docs/"),
		strings.HasPrefix(host, "api."), strings.Contains(path, "/api/"):
		return "docs/api"
	case strings.HasPrefix(host, "blog."), strings.Contains(path, "/blog/"):
		return "blog"
	}
	for _, n := range newsHosts {
		if strings.Contains(host, n) {
			return "news/tech"
		}
	}
	return "general"
}
