package clip

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dtnitsch/web-clipper/internal/app"
	"github.com/dtnitsch/web-clipper/models"
	"github.com/dtnitsch/web-clipper/pkg/messaging"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

// ClipAction clips a page from a URL, file or stdin and prints the Markdown.
func ClipAction(c *cli.Context) error {
	cfg, err := app.LoadConfig(c)
	if err != nil {
		return err
	}
	if c.NArg() != 1 {
		return cli.Exit("usage: web-clipper clip [flags] <url|file|->", 1)
	}

	msg, snap, err := buildRequest(c)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	f, err := app.NewFetcher(cfg, c.Bool("no-cache"))
	if err != nil {
		return err
	}
	page, err := app.LoadPage(c.Context, f, c.Args().First(), c.String("url"))
	if err != nil {
		return err
	}
	snap.URL, snap.HTML = page.URL, page.HTML

	handler := messaging.NewHandler(app.NewClipper(cfg))
	reply := handler.HandleSnapshot(c.Context, snap, msg)
	note := messaging.Notify(reply)
	if !note.Success {
		return cli.Exit(note.Message, 2)
	}

	if c.Bool("save") {
		nb, database, err := app.OpenNotebook(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		saved, created, err := nb.Save(*reply.Data)
		if err != nil {
			return fmt.Errorf("failed to save clip: %w", err)
		}
		if created {
			fmt.Fprintf(os.Stderr, "Saved note %s\n", saved.ID)
		} else {
			fmt.Fprintf(os.Stderr, "Already saved as note %s\n", saved.ID)
		}
	}

	if out := c.String("output"); out != "" {
		if err := os.WriteFile(out, []byte(reply.Data.Content+"\n"), 0600); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		log.Info().Str("path", out).Msg(note.Message)
		return nil
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(reply)
	}

	fmt.Println(reply.Data.Content)
	log.Info().Msg(note.Message)
	return nil
}

// buildRequest turns the clip flags into a protocol message and the parts
// of the snapshot that are not the page itself.
func buildRequest(c *cli.Context) (models.Message, models.PageSnapshot, error) {
	kind, err := models.ParseClipKind(c.String("type"))
	if err != nil {
		return models.Message{}, models.PageSnapshot{}, err
	}

	snap := models.PageSnapshot{Title: c.String("title")}
	switch kind {
	case models.ClipElement:
		snap.Selector = c.String("selector")
		if snap.Selector == "" {
			return models.Message{}, models.PageSnapshot{}, errors.New("--selector is required for element clips")
		}
	case models.ClipSelection:
		raw := c.String("selection")
		if raw == "" {
			return models.Message{}, models.PageSnapshot{}, errors.New("--selection is required for selection clips")
		}
		var spec models.SelectionSpec
		if err := json.Unmarshal([]byte(raw), &spec); err != nil {
			return models.Message{}, models.PageSnapshot{}, fmt.Errorf("invalid --selection: %w", err)
		}
		snap.Selection = &spec
	}

	return models.Message{Type: models.MessageClipRequest, ClipType: kind}, snap, nil
}
