// Package app builds the components each CLI command needs from the
// loaded configuration.
package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dtnitsch/web-clipper/internal/common"
	"github.com/dtnitsch/web-clipper/models"
	"github.com/dtnitsch/web-clipper/pkg/caching"
	"github.com/dtnitsch/web-clipper/pkg/clipper"
	"github.com/dtnitsch/web-clipper/pkg/db"
	"github.com/dtnitsch/web-clipper/pkg/fetcher"
	"github.com/dtnitsch/web-clipper/pkg/notebook"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

// LoadConfig reads --config, applies the global flags on top and configures
// logging. Every action calls it first.
func LoadConfig(c *cli.Context) (*models.Config, error) {
	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	if c.IsSet("db") {
		cfg.Storage.DBPath = c.String("db")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}
	switch {
	case c.Bool("verbose"):
		cfg.Log.Level = "debug"
	case c.Bool("quiet"):
		cfg.Log.Level = "error"
	}

	common.SetupLogger(cfg.Log.Level, cfg.Log.Format)
	return cfg, nil
}

// OpenNotebook opens the note database named by cfg. The caller closes the
// returned DB.
func OpenNotebook(cfg *models.Config) (*notebook.Notebook, *db.DB, error) {
	database, err := db.Open(cfg.Storage.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	log.Debug().Str("path", database.Path()).Msg("database opened")
	return notebook.New(database), database, nil
}

// NewClipper builds a clipper from cfg.
func NewClipper(cfg *models.Config) *clipper.Clipper {
	return clipper.New(clipper.WithMaxDepth(cfg.Extract.MaxDepth))
}

// NewFetcher builds a fetcher with the configured cache. noCache skips the
// cache entirely.
func NewFetcher(cfg *models.Config, noCache bool) (*fetcher.Fetcher, error) {
	opts := []fetcher.Option{
		fetcher.WithTimeout(cfg.Fetch.Timeout),
		fetcher.WithUserAgent(cfg.Fetch.UserAgent),
	}
	if !noCache {
		cache, err := caching.NewCache(cfg.Fetch.CacheDir, cfg.Fetch.CacheTTL)
		if err != nil {
			return nil, err
		}
		opts = append(opts, fetcher.WithCache(cache))
	}
	return fetcher.NewFetcher(opts...), nil
}

// LoadPage reads the page to work on. source is an http(s) URL, a file
// path, or "-" for stdin; pageURL overrides the location recorded for
// files and stdin.
func LoadPage(ctx context.Context, f *fetcher.Fetcher, source, pageURL string) (models.PageSnapshot, error) {
	if source == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return models.PageSnapshot{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		return models.PageSnapshot{URL: pageURL, HTML: string(data)}, nil
	}

	if u, err := common.ParseTargetURL(source); err == nil {
		page, err := f.Fetch(ctx, u.String())
		if err != nil {
			return models.PageSnapshot{}, err
		}
		if pageURL == "" {
			pageURL = page.URL
		}
		return models.PageSnapshot{URL: pageURL, HTML: string(page.HTML)}, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return models.PageSnapshot{}, fmt.Errorf("failed to read %s: %w", source, err)
	}
	return models.PageSnapshot{URL: pageURL, HTML: string(data)}, nil
}
