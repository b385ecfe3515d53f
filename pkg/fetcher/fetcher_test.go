package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dtnitsch/web-clipper/pkg/caching"
)

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "test-agent/1.0" {
			http.Error(w, "missing user agent", http.StatusBadRequest)
			return
		}
		switch r.URL.Path {
		case "/page":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write([]byte("<h1>Hello</h1>"))
		case "/latin1":
			w.Header().Set("Content-Type", "text/html; charset=iso-8859-1")
			_, _ = w.Write([]byte("<p>caf\xe9</p>"))
		case "/json":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{}"))
		case "/moved":
			http.Redirect(w, r, "/page", http.StatusFound)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(WithUserAgent("test-agent/1.0"), WithTimeout(5*time.Second))

	tests := []struct {
		name    string
		path    string
		want    string
		wantURL string
		wantErr error
		anyErr  bool
	}{
		{name: "html", path: "/page", want: "<h1>Hello</h1>", wantURL: "/page"},
		{name: "decodes charset", path: "/latin1", want: "<p>café</p>", wantURL: "/latin1"},
		{name: "follows redirect", path: "/moved", want: "<h1>Hello</h1>", wantURL: "/page"},
		{name: "not html", path: "/json", wantErr: ErrNotHTML, anyErr: true},
		{name: "not found", path: "/missing", anyErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := f.Fetch(context.Background(), srv.URL+tt.path)
			if tt.anyErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if string(page.HTML) != tt.want {
				t.Errorf("HTML = %q, want %q", page.HTML, tt.want)
			}
			if page.URL != srv.URL+tt.wantURL {
				t.Errorf("URL = %q, want %q", page.URL, srv.URL+tt.wantURL)
			}
		})
	}
}

func TestFetch_Cache(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<p>cached</p>"))
	}))
	defer srv.Close()

	cache, err := caching.NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}
	f := NewFetcher(WithCache(cache))

	for i := 0; i < 3; i++ {
		page, err := f.Fetch(context.Background(), srv.URL)
		if err != nil {
			t.Fatalf("Fetch() error = %v", err)
		}
		if string(page.HTML) != "<p>cached</p>" {
			t.Errorf("HTML = %q", page.HTML)
		}
		if page.FromCache != (i > 0) {
			t.Errorf("fetch %d FromCache = %v", i, page.FromCache)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestFetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewFetcher().Fetch(ctx, srv.URL); !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() error = %v, want context.Canceled", err)
	}
}
