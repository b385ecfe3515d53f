package detector

import (
	"net/url"
	"testing"

	"github.com/dtnitsch/web-clipper/pkg/document"
)

const articlePage = `<html><head>
<title>Understanding Channels</title>
<meta name="author" content="Ada Gopher">
<meta property="og:site_name" content="Go Notes">
</head><body>
<nav>Home | Posts</nav>
<article>
<h1>Understanding Channels</h1>
<p>Channels are the pipes that connect concurrent goroutines. You can send values into channels from one goroutine and receive those values into another goroutine.</p>
<p>By default sends and receives block until the other side is ready. This allows goroutines to synchronize without explicit locks or condition variables.</p>
<p>Buffered channels accept a limited number of values without a corresponding receiver for those values, which is useful when producers run ahead of consumers.</p>
</article>
<footer>Copyright</footer>
</body></html>`

func TestInspect(t *testing.T) {
	doc, err := document.Parse(articlePage, "https://blog.example.com/posts/channels")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	r := Inspect(articlePage, doc)

	if r.Title != "Understanding Channels" {
		t.Errorf("Title = %q", r.Title)
	}
	if r.URL != "https://blog.example.com/posts/channels" {
		t.Errorf("URL = %q", r.URL)
	}
	if r.MainSelector != "article" {
		t.Errorf("MainSelector = %q, want article", r.MainSelector)
	}
	if r.MainTextChars == 0 {
		t.Error("MainTextChars = 0")
	}
	if r.Language != "en" {
		t.Errorf("Language = %q, want en", r.Language)
	}
	if r.Category != "blog" {
		t.Errorf("Category = %q, want blog", r.Category)
	}
	if r.DomainType != "commercial" {
		t.Errorf("DomainType = %q, want commercial", r.DomainType)
	}
}

func TestInspect_NoURL(t *testing.T) {
	page := `<html><body><p>short</p></body></html>`
	doc, err := document.Parse(page, "")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	r := Inspect(page, doc)
	if r.MainSelector != "body" {
		t.Errorf("MainSelector = %q, want body", r.MainSelector)
	}
	if r.DomainType != "" || r.Category != "" {
		t.Errorf("classification without URL = %q/%q, want empty", r.DomainType, r.Category)
	}
}

func TestURLClassification(t *testing.T) {
	tests := []struct {
		url      string
		domain   string
		country  string
		category string
	}{
		{"https://www.cdc.gov/flu", "gov", "us", "general"},
		{"https://cs.stanford.edu/people", "edu", "us", "general"},
		{"https://arxiv.org/abs/1234.5678", "academic", "unknown", "general"},
		{"https://m.example.de/x", "mobile", "de", "general"},
		{"https://docs.python.org/3/", "commercial", "unknown", "docs/api"},
		{"https://example.co.uk/blog/post", "commercial", "uk", "blog"},
		{"https://arstechnica.com/gadgets", "commercial", "unknown", "news/tech"},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			u, err := url.Parse(tt.url)
			if err != nil {
				t.Fatal(err)
			}
			if got := domainType(u); got != tt.domain {
				t.Errorf("domainType() = %q, want %q", got, tt.domain)
			}
			if got := country(u); got != tt.country {
				t.Errorf("country() = %q, want %q", got, tt.country)
			}
			if got := category(u); got != tt.category {
				t.Errorf("category() = %q, want %q", got, tt.category)
			}
		})
	}
}
