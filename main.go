package main

import (
	"fmt"
	"os"

	"github.com/dtnitsch/web-clipper/internal/clip"
	"github.com/dtnitsch/web-clipper/internal/inspect"
	"github.com/dtnitsch/web-clipper/internal/notes"
	"github.com/dtnitsch/web-clipper/internal/serve"
	"github.com/dtnitsch/web-clipper/models"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	app := &cli.App{
		Name:    "web-clipper",
		Usage:   "Clip web pages, selections and elements to clean Markdown",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file (missing file means defaults)",
				Value:   "web-clipper.yaml",
				EnvVars: []string{"WEB_CLIPPER_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "note database path (overrides storage.db_path)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "debug logging",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only log errors",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "console or json",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "clip",
				Usage:     "Clip a page, element or selection to Markdown",
				ArgsUsage: "<url|file|->",
				Action:    clip.ClipAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "type",
						Aliases: []string{"t"},
						Usage:   "page, element or selection",
						Value:   string(models.ClipPage),
					},
					&cli.StringFlag{
						Name:    "selector",
						Aliases: []string{"s"},
						Usage:   "CSS selector of the element to clip (element clips)",
					},
					&cli.StringFlag{
						Name:  "selection",
						Usage: `selection as JSON: {"start":{"selector":"p","child":0,"offset":0},"end":{...}}`,
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "page URL for files and stdin; resolves relative links",
					},
					&cli.StringFlag{
						Name:  "title",
						Usage: "override the page title",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "write Markdown to this file instead of stdout",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "print the CLIP_DATA reply as JSON",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "store the clip in the note database",
					},
					&cli.BoolFlag{
						Name:  "no-cache",
						Usage: "always fetch, bypassing the page cache",
					},
				},
			},
			{
				Name:      "inspect",
				Usage:     "Show page metadata and where the main content is",
				ArgsUsage: "<url|file|->",
				Action:    inspect.InspectAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "url",
						Usage: "page URL for files and stdin",
					},
					&cli.StringFlag{
						Name:  "format",
						Usage: "yaml or json",
						Value: "yaml",
					},
					&cli.BoolFlag{
						Name:  "no-cache",
						Usage: "always fetch, bypassing the page cache",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Run the local clipping server for the browser extension",
				Action: serve.ServeAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "listen address (overrides server.addr)",
					},
				},
			},
			{
				Name:  "notes",
				Usage: "Manage saved notes",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List notes, newest first",
						Action: notes.ListAction,
						Flags: []cli.Flag{
							&cli.IntFlag{
								Name:  "limit",
								Usage: "maximum notes to list (0 for all)",
								Value: 20,
							},
						},
					},
					{
						Name:      "show",
						Usage:     "Print a note",
						ArgsUsage: "<id>",
						Action:    notes.ShowAction,
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "raw",
								Usage: "content only, without front matter",
							},
						},
					},
					{
						Name:      "delete",
						Usage:     "Delete notes",
						ArgsUsage: "<id>...",
						Action:    notes.DeleteAction,
					},
					{
						Name:      "export",
						Usage:     "Export notes as Markdown files",
						ArgsUsage: "[id...]",
						Action:    notes.ExportAction,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:  "dir",
								Usage: "export directory (overrides storage.export_dir)",
							},
						},
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
