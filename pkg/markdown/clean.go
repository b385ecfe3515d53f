package markdown

import (
	"regexp"
	"strings"
)

var (
	trailingSpace = regexp.MustCompile(`(?m)[ \t\r\f\v]+$`)
	blankRun      = regexp.MustCompile(`\n{3,}`)
)

// CleanMarkdown strips trailing whitespace from each line, collapses runs of
// three or more newlines to two and trims the result.
func CleanMarkdown(md string) string {
	md = trailingSpace.ReplaceAllString(md, "")
	md = blankRun.ReplaceAllString(md, "\n\n")
	return strings.TrimSpace(md)
}
