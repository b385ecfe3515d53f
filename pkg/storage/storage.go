// Package storage exports notes as Markdown files with YAML front matter.
package storage

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dtnitsch/web-clipper/models"
	"gopkg.in/yaml.v3"
)

type Storage struct {
	dir string
}

func New(dir string) *Storage {
	return &Storage{dir: dir}
}

// Dir is the export directory.
func (s *Storage) Dir() string { return s.dir }

type frontMatter struct {
	Title    string   `yaml:"title,omitempty"`
	URL      string   `yaml:"url,omitempty"`
	ClipType string   `yaml:"clip_type"`
	Language string   `yaml:"language,omitempty"`
	Keywords []string `yaml:"keywords,omitempty,flow"`
	Created  string   `yaml:"created"`
	ID       string   `yaml:"id"`
}

// Render returns the file contents for n.
func Render(n *models.Note) ([]byte, error) {
	fm := frontMatter{
		Title:    n.Title,
		URL:      n.URL,
		ClipType: string(n.ClipType),
		Language: n.Language,
		Keywords: n.Keywords,
		Created:  time.UnixMilli(n.CreatedAt).UTC().Format(time.RFC3339),
		ID:       n.ID,
	}
	header, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("failed to encode front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")
	buf.WriteString(n.Content)
	buf.WriteString("\n")
	return buf.Bytes(), nil
}

// ExportNote writes n to the export directory and returns the file path.
// Exporting the same note again overwrites its file.
func (s *Storage) ExportNote(n *models.Note) (string, error) {
	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	data, err := Render(n)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, FileName(n))
	if err := s.SaveFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

func (s *Storage) SaveFile(filePath string, content []byte) error {
	if err := os.WriteFile(filePath, content, 0600); err != nil {
		return fmt.Errorf("error saving file: %w", err)
	}
	return nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// FileName is "<title-slug>-<id prefix>.md", or "note-<id prefix>.md" for
// untitled notes.
func FileName(n *models.Note) string {
	id := n.ID
	if len(id) > 8 {
		id = id[:8]
	}

	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(n.Title), "-"), "-")
	if len(slug) > 60 {
		slug = strings.TrimRight(slug[:60], "-")
	}
	if slug == "" {
		slug = "note"
	}
	return slug + "-" + id + ".md"
}
