package markdown

import (
	"strings"
	"testing"
)

func TestCleanMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"trims ends", "\n\n  text  \n\n", "text"},
		{"collapses three newlines", "a\n\n\nb", "a\n\nb"},
		{"collapses many newlines", "a\n\n\n\n\n\nb", "a\n\nb"},
		{"keeps double newline", "a\n\nb", "a\n\nb"},
		{"strips trailing spaces", "a  \nb\t\nc", "a\nb\nc"},
		{"whitespace-only lines collapse", "a\n  \n \t\n\nb", "a\n\nb"},
		{"keeps leading indentation", "a\n    code", "a\n    code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanMarkdown(tt.in)
			if got != tt.want {
				t.Errorf("CleanMarkdown(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if strings.Contains(got, "\n\n\n") {
				t.Errorf("CleanMarkdown(%q) left a triple newline", tt.in)
			}
		})
	}
}

func TestCleanMarkdown_ArticleScenario(t *testing.T) {
	got := CleanMarkdown(NewEmitter().ToMarkdown(first(t, `<article><h1>Hi</h1><p>World</p></article>`)))
	if got != "# Hi\n\nWorld" {
		t.Errorf("got %q, want %q", got, "# Hi\n\nWorld")
	}
}
