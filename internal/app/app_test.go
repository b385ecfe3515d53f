package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/dtnitsch/web-clipper/models"
)

func TestLoadPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<p>remote</p>"))
	}))
	defer srv.Close()

	file := filepath.Join(t.TempDir(), "page.html")
	if err := os.WriteFile(file, []byte("<p>local</p>"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := models.DefaultConfig()
	f, err := NewFetcher(cfg, true)
	if err != nil {
		t.Fatalf("NewFetcher() error = %v", err)
	}

	tests := []struct {
		name     string
		source   string
		pageURL  string
		wantHTML string
		wantURL  string
		wantErr  bool
	}{
		{name: "url", source: srv.URL, wantHTML: "<p>remote</p>", wantURL: srv.URL},
		{name: "url with override", source: srv.URL, pageURL: "https://canonical.example", wantHTML: "<p>remote</p>", wantURL: "https://canonical.example"},
		{name: "file", source: file, wantHTML: "<p>local</p>"},
		{name: "file with url", source: file, pageURL: "https://ex.com/a", wantHTML: "<p>local</p>", wantURL: "https://ex.com/a"},
		{name: "missing file", source: filepath.Join(t.TempDir(), "nope.html"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := LoadPage(context.Background(), f, tt.source, tt.pageURL)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadPage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if snap.HTML != tt.wantHTML || snap.URL != tt.wantURL {
				t.Errorf("LoadPage() = {%q, %q}, want {%q, %q}", snap.URL, snap.HTML, tt.wantURL, tt.wantHTML)
			}
		})
	}
}
