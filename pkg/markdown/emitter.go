// Package markdown converts a DOM subtree into Markdown.
//
// Conversion is a single recursive walk: children are converted first and
// concatenated, then the element's tag selects a rule that wraps or
// replaces the converted content. Excluded elements and anything below the
// depth limit contribute nothing.
package markdown

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/dtnitsch/web-clipper/pkg/classifier"
	"golang.org/x/net/html"
)

// DefaultMaxDepth bounds recursion; deeper nodes contribute "".
const DefaultMaxDepth = 50

// Excluder decides whether an element is left out of the output.
type Excluder interface {
	ShouldExclude(n *html.Node) bool
}

// Emitter holds conversion settings. It keeps no per-call state and is safe
// for concurrent use.
type Emitter struct {
	base     *url.URL
	excluder Excluder
	maxDepth int
	rules    map[string]rule
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithBaseURL resolves relative link and image targets against base.
func WithBaseURL(base *url.URL) Option {
	return func(e *Emitter) { e.base = base }
}

// WithClassifier replaces the default exclusion rules.
func WithClassifier(x Excluder) Option {
	return func(e *Emitter) {
		if x != nil {
			e.excluder = x
		}
	}
}

// WithMaxDepth overrides DefaultMaxDepth. Values <= 0 are ignored.
func WithMaxDepth(depth int) Option {
	return func(e *Emitter) {
		if depth > 0 {
			e.maxDepth = depth
		}
	}
}

// NewEmitter returns an Emitter using the default classifier and depth limit.
func NewEmitter(opts ...Option) *Emitter {
	e := &Emitter{
		excluder: classifier.Default,
		maxDepth: DefaultMaxDepth,
		rules:    defaultRules,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ToMarkdown converts n and its subtree. The result is not cleaned; see
// CleanMarkdown.
func (e *Emitter) ToMarkdown(n *html.Node) string {
	if n == nil {
		return ""
	}
	if n.Type == html.TextNode {
		return collapseText(n.Data)
	}
	return e.convert(n, 0)
}

// part is one converted child of the element being emitted.
type part struct {
	node *html.Node
	md   string
}

// element is what a rule sees: the node, its converted children and their
// concatenation.
type element struct {
	node    *html.Node
	parts   []part
	content string
	emitter *Emitter
}

// convert is the recursive helper; depth counts from the ToMarkdown root.
func (e *Emitter) convert(n *html.Node, depth int) string {
	if depth > e.maxDepth {
		return ""
	}
	if e.excluder.ShouldExclude(n) {
		return ""
	}

	el := &element{node: n, emitter: e}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		var md string
		switch c.Type {
		case html.TextNode:
			md = collapseText(c.Data)
			if md == " " && !betweenInline(c) {
				md = ""
			}
		case html.ElementNode:
			md = e.convert(c, depth+1)
		default:
			continue
		}
		el.parts = append(el.parts, part{node: c, md: md})
		sb.WriteString(md)
	}
	el.content = sb.String()

	if n.Type != html.ElementNode {
		return el.content
	}
	if r, ok := e.rules[strings.ToLower(n.Data)]; ok {
		return r(el)
	}
	return el.content
}

var whitespaceRun = regexp.MustCompile(`[\s\v\x{85}\p{Z}]+`)

// collapseText squeezes whitespace runs, including no-break spaces, to one
// space.
func collapseText(s string) string {
	return whitespaceRun.ReplaceAllString(s, " ")
}

// blockTags are the elements a lone space next to them is dropped beside.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"header": true, "hr": true, "li": true, "main": true, "nav": true,
	"ol": true, "p": true, "pre": true, "section": true, "table": true,
	"tbody": true, "td": true, "tfoot": true, "th": true, "thead": true,
	"tr": true, "ul": true,
}

// betweenInline reports whether text node n sits between two inline
// siblings, where a whitespace-only run still separates words.
func betweenInline(n *html.Node) bool {
	prev := n.PrevSibling
	for prev != nil && prev.Type == html.CommentNode {
		prev = prev.PrevSibling
	}
	next := n.NextSibling
	for next != nil && next.Type == html.CommentNode {
		next = next.NextSibling
	}
	return isInline(prev) && isInline(next)
}

func isInline(n *html.Node) bool {
	if n == nil {
		return false
	}
	switch n.Type {
	case html.TextNode:
		return true
	case html.ElementNode:
		return !blockTags[strings.ToLower(n.Data)]
	}
	return false
}

// resolve turns an attribute URL into an absolute one when a base is known.
func (e *Emitter) resolve(ref string) string {
	if e.base == nil {
		return ref
	}
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return e.base.ResolveReference(u).String()
}
