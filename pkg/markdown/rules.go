package markdown

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// rule renders an element from its converted children.
type rule func(el *element) string

// imagePlaceholder is the alt text for images that have none.
const imagePlaceholder = "image"

var defaultRules = map[string]rule{
	"h1": heading(1), "h2": heading(2), "h3": heading(3),
	"h4": heading(4), "h5": heading(5), "h6": heading(6),

	"p":  func(el *element) string { return "\n" + strings.TrimSpace(el.content) + "\n" },
	"br": func(*element) string { return "\n" },
	"hr": func(*element) string { return "\n---\n" },

	"strong": wrap("**", "**"), "b": wrap("**", "**"),
	"em": wrap("*", "*"), "i": wrap("*", "*"),
	"code": inlineCode,
	"del":  wrap("~~", "~~"), "s": wrap("~~", "~~"),
	"u":    wrap("<u>", "</u>"),
	"mark": wrap("==", "=="),

	"a":   link,
	"img": image,

	"ul": block, "ol": block,
	"li": listItem,

	"blockquote": blockquote,
	"pre":        preformatted,

	"table": block,
	"tr":    tableRow,
	"th":    trimmed, "td": trimmed,

	"div": block, "section": block, "article": block, "main": block,
}

func heading(level int) rule {
	prefix := strings.Repeat("#", level) + " "
	return func(el *element) string {
		return "\n" + prefix + strings.TrimSpace(el.content) + "\n"
	}
}

func wrap(open, close string) rule {
	return func(el *element) string { return open + el.content + close }
}

func block(el *element) string { return "\n" + el.content + "\n" }

func trimmed(el *element) string { return strings.TrimSpace(el.content) }

func link(el *element) string {
	text := strings.TrimSpace(el.content)
	href, ok := attr(el.node, "href")
	if !ok || strings.TrimSpace(href) == "" {
		return text
	}
	href = el.emitter.resolve(strings.TrimSpace(href))
	if text == "" {
		text = href
	}
	return "[" + text + "](" + href + ")"
}

func image(el *element) string {
	src, ok := attr(el.node, "src")
	if !ok || strings.TrimSpace(src) == "" {
		return ""
	}
	alt, _ := attr(el.node, "alt")
	if alt == "" {
		alt = imagePlaceholder
	}
	return "![" + alt + "](" + el.emitter.resolve(strings.TrimSpace(src)) + ")"
}

func listItem(el *element) string {
	parent := el.node.Parent
	if parent != nil && parent.Type == html.ElementNode && strings.EqualFold(parent.Data, "ol") {
		return strconv.Itoa(elementIndex(el.node)) + ". " + el.content + "\n"
	}
	return "- " + el.content + "\n"
}

// elementIndex is the 1-based position of n among its parent's element
// children.
func elementIndex(n *html.Node) int {
	idx := 1
	for s := n.PrevSibling; s != nil; s = s.PrevSibling {
		if s.Type == html.ElementNode {
			idx++
		}
	}
	return idx
}

func blockquote(el *element) string {
	lines := strings.Split(strings.TrimSpace(el.content), "\n")
	for i, line := range lines {
		lines[i] = "> " + line
	}
	return "\n\n" + strings.Join(lines, "\n") + "\n\n"
}

func preformatted(el *element) string {
	lang := ""
	body := el.content
	if code := findElement(el.node, "code"); code != nil {
		lang = languageOf(code)
		body = textContent(code)
	}
	body = strings.TrimRight(body, "\n")
	fence := codeFence(body)
	return "\n" + fence + lang + "\n" + body + "\n" + fence + "\n"
}

// languageOf reads the xxx of a language-xxx class token.
func languageOf(n *html.Node) string {
	class, _ := attr(n, "class")
	for _, tok := range strings.Fields(class) {
		if lang, ok := strings.CutPrefix(tok, "language-"); ok && lang != "" {
			return lang
		}
	}
	return ""
}

// codeFence returns a backtick fence longer than any backtick run in body.
func codeFence(body string) string {
	return strings.Repeat("`", max(3, longestBacktickRun(body)+1))
}

// inlineCode delimits with one more backtick than the longest run inside and
// pads content that starts or ends with a backtick.
func inlineCode(el *element) string {
	body := el.content
	ticks := strings.Repeat("`", longestBacktickRun(body)+1)
	if strings.HasPrefix(body, "`") || strings.HasSuffix(body, "`") {
		body = " " + body + " "
	}
	return ticks + body + ticks
}

func longestBacktickRun(s string) int {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return longest
}

func tableRow(el *element) string {
	var cells []string
	for _, p := range el.parts {
		if p.node.Type != html.ElementNode {
			continue
		}
		switch strings.ToLower(p.node.Data) {
		case "th", "td":
			cells = append(cells, tableCell(p.md))
		}
	}

	row := "| " + strings.Join(cells, " | ") + " |\n"
	parent := el.node.Parent
	if parent != nil && parent.Type == html.ElementNode && strings.EqualFold(parent.Data, "thead") {
		seps := make([]string, len(cells))
		for i := range seps {
			seps[i] = "---"
		}
		row += "| " + strings.Join(seps, " | ") + " |\n"
	}
	return row
}

// tableCell keeps a cell on one line and its pipes out of the column count.
func tableCell(md string) string {
	md = strings.Join(strings.Fields(strings.TrimSpace(md)), " ")
	return strings.ReplaceAll(md, "|", `\|`)
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// findElement returns the first descendant of n named tag, in document order.
func findElement(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && strings.EqualFold(c.Data, tag) {
			return c
		}
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

// textContent concatenates every descendant text node verbatim.
func textContent(n *html.Node) string {
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
	walk(n)
	return sb.String()
}
