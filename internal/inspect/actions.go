package inspect

import (
	"encoding/json"
	"os"

	"github.com/dtnitsch/web-clipper/internal/app"
	"github.com/dtnitsch/web-clipper/pkg/detector"
	"github.com/dtnitsch/web-clipper/pkg/document"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

// InspectAction reports page metadata and where a page clip would come
// from, without clipping.
func InspectAction(c *cli.Context) error {
	cfg, err := app.LoadConfig(c)
	if err != nil {
		return err
	}
	if c.NArg() != 1 {
		return cli.Exit("usage: web-clipper inspect [flags] <url|file|->", 1)
	}

	f, err := app.NewFetcher(cfg, c.Bool("no-cache"))
	if err != nil {
		return err
	}
	snap, err := app.LoadPage(c.Context, f, c.Args().First(), c.String("url"))
	if err != nil {
		return err
	}
	doc, err := document.FromSnapshot(snap)
	if err != nil {
		return err
	}

	report := detector.Inspect(snap.HTML, doc)

	if c.String("format") == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(report)
}
