package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dtnitsch/web-clipper/models"
	"gopkg.in/yaml.v3"
)

func testNote() *models.Note {
	return &models.Note{
		ID:        "0f8c2a4e-1111-2222-3333-444455556666",
		Title:     "Understanding Go: Channels!",
		URL:       "https://example.com/channels",
		Content:   "# Channels\n\nPipes between goroutines.",
		ClipType:  models.ClipSelection,
		Language:  "en",
		Keywords:  []string{"channels", "goroutines"},
		CreatedAt: 0,
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name  string
		title string
		id    string
		want  string
	}{
		{"slugged", "Understanding Go: Channels!", "0f8c2a4e-xxxx", "understanding-go-channels-0f8c2a4e.md"},
		{"untitled", "", "abc", "note-abc.md"},
		{"symbols only", "!!!", "abcdefghij", "note-abcdefgh.md"},
		{"long", strings.Repeat("word ", 30), "id", strings.TrimRight(strings.Repeat("word-", 12), "-") + "-id.md"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FileName(&models.Note{Title: tt.title, ID: tt.id})
			if got != tt.want {
				t.Errorf("FileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender(t *testing.T) {
	data, err := Render(testNote())
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := string(data)

	if !strings.HasPrefix(out, "---\n") {
		t.Fatalf("missing front matter: %q", out)
	}
	parts := strings.SplitN(out, "---\n", 3)
	if len(parts) != 3 {
		t.Fatalf("front matter not closed: %q", out)
	}

	var fm frontMatter
	if err := yaml.Unmarshal([]byte(parts[1]), &fm); err != nil {
		t.Fatalf("front matter is not YAML: %v", err)
	}
	if fm.Title != "Understanding Go: Channels!" || fm.ClipType != "selection" {
		t.Errorf("front matter = %+v", fm)
	}
	if fm.Created != "1970-01-01T00:00:00Z" {
		t.Errorf("Created = %q", fm.Created)
	}
	if len(fm.Keywords) != 2 {
		t.Errorf("Keywords = %v", fm.Keywords)
	}
	if parts[2] != "\n# Channels\n\nPipes between goroutines.\n" {
		t.Errorf("body = %q", parts[2])
	}
}

func TestExportNote(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "export")
	s := New(dir)

	path, err := s.ExportNote(testNote())
	if err != nil {
		t.Fatalf("ExportNote() error = %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("exported to %q, want inside %q", path, dir)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(data), "Pipes between goroutines.") {
		t.Errorf("exported file missing content: %q", data)
	}
}
