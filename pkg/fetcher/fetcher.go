// Package fetcher downloads HTML pages for the clip and inspect commands.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/dtnitsch/web-clipper/pkg/caching"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html/charset"
)

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 10 << 20

// ErrNotHTML is returned for responses whose content type is not HTML.
var ErrNotHTML = errors.New("response is not HTML")

// Page is a fetched HTML document decoded to UTF-8.
type Page struct {
	URL       string // final URL after redirects
	HTML      []byte
	FromCache bool
}

type Fetcher struct {
	client    *http.Client
	userAgent string
	cache     *caching.Cache
}

type Option func(*Fetcher)

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) { f.client.Timeout = d }
}

func WithUserAgent(ua string) Option {
	return func(f *Fetcher) { f.userAgent = ua }
}

// WithCache serves repeat fetches of the same URL from c.
func WithCache(c *caching.Cache) Option {
	return func(f *Fetcher) { f.cache = c }
}

// WithClient replaces the HTTP client. Apply it before WithTimeout.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) { f.client = c }
}

func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the HTML at url.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	if f.cache != nil {
		if data, ok := f.cache.Get(url); ok {
			log.Debug().Str("url", url).Msg("cache hit")
			return &Page{URL: url, HTML: data, FromCache: true}, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch HTML, status code: %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !isHTML(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrNotHTML, contentType)
	}

	body, err := charset.NewReader(io.LimitReader(resp.Body, maxBodyBytes), contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response body: %w", err)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	log.Debug().
		Str("url", url).
		Int("bytes", len(data)).
		Dur("elapsed", time.Since(start)).
		Msg("fetched")

	if f.cache != nil {
		if err := f.cache.Set(url, data); err != nil {
			log.Warn().Err(err).Str("url", url).Msg("failed to cache page")
		}
	}

	return &Page{URL: resp.Request.URL.String(), HTML: data}, nil
}

// isHTML accepts a missing content type, since some servers omit it.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
